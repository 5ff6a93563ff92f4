package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

type User struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string        `bson:"name" json:"name"`
	Email        string        `bson:"email" json:"email"`
	PasswordHash string        `bson:"passwordHash" json:"-"` // never expose
	PinHash      string        `bson:"pinHash" json:"-"`
	Role         bson.ObjectID `bson:"role,omitempty" json:"role"`
	// DeletedAt marks a soft delete; active-user queries filter on null.
	DeletedAt *time.Time `bson:"deletedAt" json:"deletedAt,omitempty"`
	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time  `bson:"updatedAt" json:"updatedAt"`
}

// HasRole reports whether a role reference is assigned at all.
func (u *User) HasRole() bool {
	return u != nil && !u.Role.IsZero()
}
