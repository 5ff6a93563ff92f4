package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Student struct {
	ID              bson.ObjectID `bson:"_id,omitempty" json:"id"`
	AdmissionNumber string        `bson:"admissionNumber" json:"admissionNumber"`
	FirstName       string        `bson:"firstName" json:"firstName"`
	LastName        string        `bson:"lastName" json:"lastName"`
	DateOfBirth     time.Time     `bson:"dateOfBirth" json:"dateOfBirth"`
	Class           bson.ObjectID `bson:"class,omitempty" json:"class"`
	GuardianName    string        `bson:"guardianName,omitempty" json:"guardianName"`
	GuardianPhone   string        `bson:"guardianPhone,omitempty" json:"guardianPhone"`
	GuardianEmail   string        `bson:"guardianEmail,omitempty" json:"guardianEmail"`
	Notes           string        `bson:"notes,omitempty" json:"notes"`
	CreatedAt       time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time     `bson:"updatedAt" json:"updatedAt"`
}
