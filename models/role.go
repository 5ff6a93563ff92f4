package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Role names seeded on first boot. Casing is significant: role guards do
// exact case-sensitive matching.
const (
	RoleAdmin   = "admin"
	RoleStaff   = "Staff"
	RoleTeacher = "Teacher"
	RoleStudent = "Student"
)

type Role struct {
	ID          bson.ObjectID        `bson:"_id,omitempty" json:"id"`
	Name        string               `bson:"name" json:"name"`
	Description string               `bson:"description,omitempty" json:"description"`
	IsDefault   bool                 `bson:"isDefault" json:"isDefault"`
	Permissions []PermissionSnapshot `bson:"permissions" json:"permissions"`
	// Version guards concurrent edits: updates must carry the version they
	// read and bump it on success.
	Version   int64     `bson:"version" json:"version"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// PermissionNames returns the names of the embedded snapshots, in order.
func (r *Role) PermissionNames() []string {
	if r == nil {
		return []string{}
	}
	names := make([]string, 0, len(r.Permissions))
	for _, p := range r.Permissions {
		names = append(names, p.Name)
	}
	return names
}

// HasPermission reports whether the role embeds a snapshot with the name.
func (r *Role) HasPermission(name string) bool {
	if r == nil {
		return false
	}
	for _, p := range r.Permissions {
		if p.Name == name {
			return true
		}
	}
	return false
}
