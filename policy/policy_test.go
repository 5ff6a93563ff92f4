package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moazrana/CBMS-sub001/models"
	"github.com/moazrana/CBMS-sub001/utils"
)

func seededRoles() []string {
	return []string{models.RoleAdmin, models.RoleStaff, models.RoleTeacher, models.RoleStudent}
}

func TestCheckAgainstSeedCatalog(t *testing.T) {
	assert.NoError(t, Check(seededRoles(), utils.PermissionCatalogNames()))
}

func TestCheckCatchesUnknownPermission(t *testing.T) {
	// Drop delete_user from the catalog; the users route must trip.
	names := make([]string, 0)
	for _, n := range utils.PermissionCatalogNames() {
		if n != "delete_user" {
			names = append(names, n)
		}
	}
	err := Check(seededRoles(), names)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delete_user")
}

func TestCheckCatchesUnknownRole(t *testing.T) {
	err := Check([]string{"Staff"}, utils.PermissionCatalogNames())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "admin")
}

func TestDeleteUserRequiresExplicitPermission(t *testing.T) {
	req, ok := For("DELETE /users/:id")
	require.True(t, ok)
	assert.Empty(t, req.Roles)
	assert.Equal(t, []string{"delete_user"}, req.Permissions)
}

func TestRoleRoutesAreAdminOnly(t *testing.T) {
	for _, route := range []string{"GET /roles", "POST /roles", "PATCH /roles/:id", "DELETE /roles/:id"} {
		req, ok := For(route)
		require.True(t, ok, route)
		assert.Equal(t, []string{models.RoleAdmin}, req.Roles, route)
	}
}

func TestMustForPanicsOnUndeclaredRoute(t *testing.T) {
	assert.Panics(t, func() { MustFor("GET /nope") })
}

func TestEveryRouteHasAWellFormedKey(t *testing.T) {
	for _, route := range Routes() {
		assert.Regexp(t, `^(GET|POST|PATCH|DELETE) /`, route)
	}
}
