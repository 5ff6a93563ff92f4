package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type EvidenceAttachment struct {
	PublicURL  string    `bson:"publicUrl" json:"publicUrl"`
	ObjectName string    `bson:"objectName" json:"objectName"`
	MimeType   string    `bson:"mimeType" json:"mimeType"`
	SizeBytes  int64     `bson:"sizeBytes" json:"sizeBytes"`
	FileName   string    `bson:"fileName" json:"fileName"`
	UploadedAt time.Time `bson:"uploadedAt" json:"uploadedAt"`
}

// Safeguard is a safeguarding concern record. Access is tightly gated:
// reads require the read_safeguard permission, not just staff membership.
type Safeguard struct {
	ID          bson.ObjectID        `bson:"_id,omitempty" json:"id"`
	Student     bson.ObjectID        `bson:"student" json:"student"`
	Category    string               `bson:"category" json:"category"`
	Concern     string               `bson:"concern" json:"concern"`
	ActionTaken string               `bson:"actionTaken,omitempty" json:"actionTaken"`
	Status      string               `bson:"status" json:"status"` // open, monitoring, closed
	RaisedBy    bson.ObjectID        `bson:"raisedBy" json:"raisedBy"`
	Evidence    []EvidenceAttachment `bson:"evidence,omitempty" json:"evidence"`
	CreatedAt   time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time            `bson:"updatedAt" json:"updatedAt"`
}
