package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type AttendanceStatus string

const (
	AttendancePresent AttendanceStatus = "present"
	AttendanceAbsent  AttendanceStatus = "absent"
	AttendanceLate    AttendanceStatus = "late"
	AttendanceExcused AttendanceStatus = "excused"
)

type Attendance struct {
	ID         bson.ObjectID    `bson:"_id,omitempty" json:"id"`
	Student    bson.ObjectID    `bson:"student" json:"student"`
	Class      bson.ObjectID    `bson:"class,omitempty" json:"class"`
	Date       time.Time        `bson:"date" json:"date"`
	Status     AttendanceStatus `bson:"status" json:"status"`
	Reason     string           `bson:"reason,omitempty" json:"reason"`
	RecordedBy bson.ObjectID    `bson:"recordedBy" json:"recordedBy"`
	CreatedAt  time.Time        `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time        `bson:"updatedAt" json:"updatedAt"`
}
