package utils

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/moazrana/CBMS-sub001/models"
)

var catalogModules = []string{
	"users", "roles", "permissions", "students", "staff", "classes",
	"attendance", "incidents", "safeguards", "certificates",
}

var catalogActions = []string{"create", "read", "update", "delete"}

// singular maps a module to the noun used in permission names
// (create_user, read_student, ...).
var singular = map[string]string{
	"users":        "user",
	"roles":        "role",
	"permissions":  "permission",
	"students":     "student",
	"staff":        "staff",
	"classes":      "class",
	"attendance":   "attendance",
	"incidents":    "incident",
	"safeguards":   "safeguard",
	"certificates": "certificate",
}

// PermissionCatalog builds the canonical permission set: one permission per
// module/action pair, deduplicated by (name, module, action).
func PermissionCatalog() []models.Permission {
	now := time.Now().UTC()
	perms := make([]models.Permission, 0, len(catalogModules)*len(catalogActions))
	seen := make(map[string]struct{})

	for _, module := range catalogModules {
		for _, action := range catalogActions {
			name := action + "_" + singular[module]
			key := name + "|" + module + "|" + action
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			perms = append(perms, models.Permission{
				Name:        name,
				Description: fmt.Sprintf("Allows %s on %s", action, module),
				Module:      module,
				Action:      action,
				CreatedAt:   now,
				UpdatedAt:   now,
			})
		}
	}
	return perms
}

// PermissionCatalogNames returns the catalog's permission names.
func PermissionCatalogNames() []string {
	catalog := PermissionCatalog()
	names := make([]string, 0, len(catalog))
	for _, p := range catalog {
		names = append(names, p.Name)
	}
	return names
}

// SeedPermissions upserts the canonical catalog. Existing records are left
// untouched so operator edits survive restarts.
func SeedPermissions(ctx context.Context, permsCol *mongo.Collection) error {
	for _, p := range PermissionCatalog() {
		filter := bson.M{"name": p.Name}
		update := bson.M{"$setOnInsert": bson.M{
			"name":        p.Name,
			"description": p.Description,
			"module":      p.Module,
			"action":      p.Action,
			"createdAt":   p.CreatedAt,
			"updatedAt":   p.UpdatedAt,
		}}
		opts := options.UpdateOne().SetUpsert(true)
		if _, err := permsCol.UpdateOne(ctx, filter, update, opts); err != nil {
			return fmt.Errorf("seed permission %s: %w", p.Name, err)
		}
	}
	return nil
}

// rolePermissionNames declares the permission subset embedded into each
// seeded role. admin gets the entire catalog.
func rolePermissionNames(roleName string) []string {
	switch roleName {
	case models.RoleAdmin:
		return PermissionCatalogNames()
	case models.RoleStaff:
		return []string{
			"read_student", "read_staff", "read_class",
			"create_attendance", "read_attendance", "update_attendance",
			"create_incident", "read_incident",
			"read_certificate",
		}
	case models.RoleTeacher:
		return []string{
			"read_student", "update_student", "read_class",
			"create_attendance", "read_attendance", "update_attendance",
			"create_incident", "read_incident", "update_incident",
			"create_safeguard",
		}
	case models.RoleStudent:
		return []string{"read_class", "read_attendance"}
	}
	return nil
}

// SeedRoles upserts the built-in roles with permission snapshots embedded
// from the current canonical catalog, deduplicated before appending.
func SeedRoles(ctx context.Context, rolesCol, permsCol *mongo.Collection) error {
	canonical, err := loadCanonical(ctx, permsCol)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, spec := range []struct {
		name        string
		description string
		isDefault   bool
	}{
		{models.RoleAdmin, "Full access to every module", false},
		{models.RoleStaff, "Day-to-day school staff", false},
		{models.RoleTeacher, "Teaching staff", false},
		{models.RoleStudent, "Student self-service", true},
	} {
		snapshots := make([]models.PermissionSnapshot, 0)
		for _, name := range rolePermissionNames(spec.name) {
			if p, ok := canonical[name]; ok {
				snapshots = append(snapshots, p.Snapshot())
			}
		}
		snapshots = models.DedupeSnapshots(snapshots)

		filter := bson.M{"name": spec.name}
		update := bson.M{"$setOnInsert": bson.M{
			"name":        spec.name,
			"description": spec.description,
			"isDefault":   spec.isDefault,
			"permissions": snapshots,
			"version":     int64(1),
			"createdAt":   now,
			"updatedAt":   now,
		}}
		opts := options.UpdateOne().SetUpsert(true)
		res, err := rolesCol.UpdateOne(ctx, filter, update, opts)
		if err != nil {
			return fmt.Errorf("seed role %s: %w", spec.name, err)
		}
		if res.UpsertedCount == 1 {
			logrus.WithField("role", spec.name).Info("role seeded")
		}
	}
	return nil
}

// SeedAdminUser upserts the bootstrap admin, referencing the admin role.
func SeedAdminUser(ctx context.Context, usersCol, rolesCol *mongo.Collection, email, password, pin string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" || pin == "" {
		return fmt.Errorf("missing admin email, password or pin")
	}

	var adminRole models.Role
	if err := rolesCol.FindOne(ctx, bson.M{"name": models.RoleAdmin}).Decode(&adminRole); err != nil {
		return fmt.Errorf("admin role not seeded: %w", err)
	}

	passwordHash, err := HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}
	pinHash, err := HashPassword(pin)
	if err != nil {
		return fmt.Errorf("hash admin pin: %w", err)
	}

	now := time.Now().UTC()

	// Only insert if it doesn't exist
	filter := bson.M{"email": email}
	update := bson.M{
		"$setOnInsert": bson.M{
			"name":         "Administrator",
			"email":        email,
			"passwordHash": passwordHash,
			"pinHash":      pinHash,
			"role":         adminRole.ID,
			"deletedAt":    nil,
			"createdAt":    now,
			"updatedAt":    now,
		},
	}

	opts := options.UpdateOne().SetUpsert(true)

	res, err := usersCol.UpdateOne(ctx, filter, update, opts)
	if err != nil {
		return fmt.Errorf("seed admin upsert failed: %w", err)
	}

	if res.UpsertedCount == 1 {
		logrus.WithField("email", email).Info("admin user seeded")
	} else {
		logrus.WithField("email", email).Info("admin user already exists")
	}

	return nil
}

// ResyncRolePermissions re-embeds the current canonical definition of every
// permission into each role holding a snapshot of the same name. Snapshots
// whose canonical record has been removed are kept as-is. Returns the
// number of roles updated.
func ResyncRolePermissions(ctx context.Context, rolesCol, permsCol *mongo.Collection) (int, error) {
	canonical, err := loadCanonical(ctx, permsCol)
	if err != nil {
		return 0, err
	}

	cursor, err := rolesCol.Find(ctx, bson.M{})
	if err != nil {
		return 0, err
	}
	defer cursor.Close(ctx)

	updated := 0
	for cursor.Next(ctx) {
		var role models.Role
		if err := cursor.Decode(&role); err != nil {
			return updated, err
		}

		changed := false
		next := make([]models.PermissionSnapshot, 0, len(role.Permissions))
		for _, snap := range role.Permissions {
			if p, ok := canonical[snap.Name]; ok {
				fresh := p.Snapshot()
				if fresh != snap {
					changed = true
				}
				next = append(next, fresh)
			} else {
				next = append(next, snap)
			}
		}
		if !changed {
			continue
		}

		_, err := rolesCol.UpdateByID(ctx, role.ID, bson.M{
			"$set": bson.M{
				"permissions": models.DedupeSnapshots(next),
				"updatedAt":   time.Now().UTC(),
			},
			"$inc": bson.M{"version": 1},
		})
		if err != nil {
			return updated, fmt.Errorf("resync role %s: %w", role.Name, err)
		}
		updated++
	}
	return updated, cursor.Err()
}

func loadCanonical(ctx context.Context, permsCol *mongo.Collection) (map[string]models.Permission, error) {
	cursor, err := permsCol.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("load permissions: %w", err)
	}
	defer cursor.Close(ctx)

	canonical := make(map[string]models.Permission)
	for cursor.Next(ctx) {
		var p models.Permission
		if err := cursor.Decode(&p); err != nil {
			return nil, err
		}
		canonical[p.Name] = p
	}
	return canonical, cursor.Err()
}
