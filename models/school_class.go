package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type SchoolClass struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string        `bson:"name" json:"name"`
	Slug      string        `bson:"slug" json:"slug"`
	YearGroup string        `bson:"yearGroup,omitempty" json:"yearGroup"`
	Teacher   bson.ObjectID `bson:"teacher,omitempty" json:"teacher"`
	Capacity  int           `bson:"capacity,omitempty" json:"capacity"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time     `bson:"updatedAt" json:"updatedAt"`
}
