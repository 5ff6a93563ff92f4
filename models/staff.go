package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type Staff struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName   string        `bson:"firstName" json:"firstName"`
	LastName    string        `bson:"lastName" json:"lastName"`
	Email       string        `bson:"email" json:"email"`
	Phone       string        `bson:"phone,omitempty" json:"phone"`
	JobTitle    string        `bson:"jobTitle" json:"jobTitle"`
	Department  string        `bson:"department,omitempty" json:"department"`
	StartDate   time.Time     `bson:"startDate" json:"startDate"`
	EndDate     *time.Time    `bson:"endDate,omitempty" json:"endDate,omitempty"`
	DBSChecked  bool          `bson:"dbsChecked" json:"dbsChecked"`
	DBSCheckAt  *time.Time    `bson:"dbsCheckAt,omitempty" json:"dbsCheckAt,omitempty"`
	CreatedAt   time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time     `bson:"updatedAt" json:"updatedAt"`
}
