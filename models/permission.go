package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Permission is the canonical permission record. Roles never reference
// these documents directly; they embed snapshots (see PermissionSnapshot).
type Permission struct {
	ID          bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string        `bson:"name" json:"name"`
	Description string        `bson:"description,omitempty" json:"description"`
	Module      string        `bson:"module" json:"module"`
	Action      string        `bson:"action" json:"action"`
	CreatedAt   time.Time     `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// PermissionSnapshot is a materialized copy of a Permission embedded in a
// role. Editing the canonical record does not touch existing snapshots;
// re-embedding is an explicit resync operation.
type PermissionSnapshot struct {
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description,omitempty" json:"description"`
	Module      string `bson:"module" json:"module"`
	Action      string `bson:"action" json:"action"`
}

// Snapshot copies the canonical fields into an embeddable value.
func (p Permission) Snapshot() PermissionSnapshot {
	return PermissionSnapshot{
		Name:        p.Name,
		Description: p.Description,
		Module:      p.Module,
		Action:      p.Action,
	}
}

// DedupeSnapshots drops entries sharing (name, module, action), keeping the
// first occurrence.
func DedupeSnapshots(in []PermissionSnapshot) []PermissionSnapshot {
	type key struct{ name, module, action string }
	seen := make(map[key]struct{}, len(in))
	out := make([]PermissionSnapshot, 0, len(in))
	for _, s := range in {
		k := key{s.Name, s.Module, s.Action}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}
	return out
}
