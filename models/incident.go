package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type IncidentNote struct {
	Author    bson.ObjectID `bson:"author" json:"author"`
	Text      string        `bson:"text" json:"text"`
	CreatedAt time.Time     `bson:"createdAt" json:"createdAt"`
}

type Incident struct {
	ID          bson.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title       string          `bson:"title" json:"title"`
	Description string          `bson:"description" json:"description"`
	Severity    string          `bson:"severity" json:"severity"` // low, medium, high
	Status      string          `bson:"status" json:"status"`     // open, investigating, resolved
	Students    []bson.ObjectID `bson:"students,omitempty" json:"students"`
	ReportedBy  bson.ObjectID   `bson:"reportedBy" json:"reportedBy"`
	OccurredAt  time.Time       `bson:"occurredAt" json:"occurredAt"`
	Notes       []IncidentNote  `bson:"notes,omitempty" json:"notes"`
	CreatedAt   time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time       `bson:"updatedAt" json:"updatedAt"`
}
