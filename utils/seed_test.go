package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moazrana/CBMS-sub001/models"
)

func TestPermissionCatalogIsDeduplicated(t *testing.T) {
	catalog := PermissionCatalog()
	require.NotEmpty(t, catalog)

	seen := make(map[string]struct{})
	for _, p := range catalog {
		key := p.Name + "|" + p.Module + "|" + p.Action
		_, dup := seen[key]
		assert.False(t, dup, "duplicate catalog entry %s", key)
		seen[key] = struct{}{}
	}
}

func TestPermissionCatalogNaming(t *testing.T) {
	names := PermissionCatalogNames()
	assert.Contains(t, names, "create_user")
	assert.Contains(t, names, "delete_user")
	assert.Contains(t, names, "read_student")
	assert.Contains(t, names, "update_safeguard")
}

func TestAdminRoleCoversWholeCatalog(t *testing.T) {
	assert.Equal(t, PermissionCatalogNames(), rolePermissionNames(models.RoleAdmin))
}

func TestSeededRoleSubsetsExistInCatalog(t *testing.T) {
	catalog := make(map[string]struct{})
	for _, n := range PermissionCatalogNames() {
		catalog[n] = struct{}{}
	}

	for _, role := range []string{models.RoleStaff, models.RoleTeacher, models.RoleStudent} {
		for _, name := range rolePermissionNames(role) {
			_, ok := catalog[name]
			assert.True(t, ok, "role %s grants unknown permission %s", role, name)
		}
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	p := models.Permission{
		Name:        "read_student",
		Description: "original",
		Module:      "students",
		Action:      "read",
	}
	snap := p.Snapshot()

	// Editing the canonical record must not touch the snapshot.
	p.Description = "edited"
	assert.Equal(t, "original", snap.Description)
	assert.Equal(t, "read_student", snap.Name)
}

func TestDedupeSnapshots(t *testing.T) {
	in := []models.PermissionSnapshot{
		{Name: "a", Module: "m", Action: "read"},
		{Name: "a", Module: "m", Action: "read"},
		{Name: "a", Module: "m", Action: "write"},
		{Name: "b", Module: "m", Action: "read"},
	}
	out := models.DedupeSnapshots(in)
	require.Len(t, out, 3)
	assert.Equal(t, "a", out[0].Name)
	assert.Equal(t, "write", out[1].Action)
	assert.Equal(t, "b", out[2].Name)
}
