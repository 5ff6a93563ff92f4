package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type CertificateFile struct {
	PublicURL  string    `bson:"publicUrl" json:"publicUrl"`
	ObjectName string    `bson:"objectName" json:"objectName"`
	MimeType   string    `bson:"mimeType" json:"mimeType"`
	SizeBytes  int64     `bson:"sizeBytes" json:"sizeBytes"`
	UploadedAt time.Time `bson:"uploadedAt" json:"uploadedAt"`
}

// Certificate tracks a compliance certificate held by a staff member
// (first aid, DBS, safeguarding training and so on).
type Certificate struct {
	ID        bson.ObjectID    `bson:"_id,omitempty" json:"id"`
	Staff     bson.ObjectID    `bson:"staff" json:"staff"`
	Title     string           `bson:"title" json:"title"`
	Issuer    string           `bson:"issuer,omitempty" json:"issuer"`
	IssuedAt  time.Time        `bson:"issuedAt" json:"issuedAt"`
	ExpiresAt *time.Time       `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"`
	File      *CertificateFile `bson:"file,omitempty" json:"file,omitempty"`
	CreatedAt time.Time        `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time        `bson:"updatedAt" json:"updatedAt"`
}
