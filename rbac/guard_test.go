package rbac

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/moazrana/CBMS-sub001/models"
)

type fakeStore struct {
	users map[bson.ObjectID]*models.User
	roles map[bson.ObjectID]*models.Role
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users: make(map[bson.ObjectID]*models.User),
		roles: make(map[bson.ObjectID]*models.Role),
	}
}

func (s *fakeStore) UserByID(_ context.Context, id bson.ObjectID) (*models.User, error) {
	u, ok := s.users[id]
	if !ok || u.DeletedAt != nil {
		return nil, ErrNotFound
	}
	return u, nil
}

func (s *fakeStore) UserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email && u.DeletedAt == nil {
			return u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *fakeStore) RoleByID(_ context.Context, id bson.ObjectID) (*models.Role, error) {
	r, ok := s.roles[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r, nil
}

func (s *fakeStore) RoleByName(_ context.Context, name string) (*models.Role, error) {
	for _, r := range s.roles {
		if r.Name == name {
			return r, nil
		}
	}
	return nil, ErrNotFound
}

func snapshots(names ...string) []models.PermissionSnapshot {
	out := make([]models.PermissionSnapshot, 0, len(names))
	for _, n := range names {
		out = append(out, models.PermissionSnapshot{Name: n, Module: "test", Action: "test"})
	}
	return out
}

func seedUser(s *fakeStore, roleName string, perms ...string) *models.User {
	role := &models.Role{
		ID:          bson.NewObjectID(),
		Name:        roleName,
		Permissions: snapshots(perms...),
	}
	s.roles[role.ID] = role

	user := &models.User{
		ID:    bson.NewObjectID(),
		Email: roleName + "@cbms.com",
		Role:  role.ID,
	}
	s.users[user.ID] = user
	return user
}

func TestResolveReturnsLivePermissions(t *testing.T) {
	store := newFakeStore()
	user := seedUser(store, "Teacher", "read_student", "create_attendance")

	res, err := Resolve(context.Background(), store, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "Teacher", res.RoleName())
	assert.Equal(t, []string{"read_student", "create_attendance"}, res.Permissions)
}

func TestResolveReflectsRoleEditsImmediately(t *testing.T) {
	store := newFakeStore()
	user := seedUser(store, "Staff", "read_student", "delete_user")

	res, err := Resolve(context.Background(), store, user.ID)
	require.NoError(t, err)
	require.NoError(t, res.CheckAllPermissions([]string{"delete_user"}))

	// Remove the permission from the role; the very next resolve must see
	// it gone.
	role := store.roles[user.Role]
	role.Permissions = snapshots("read_student")

	res, err = Resolve(context.Background(), store, user.ID)
	require.NoError(t, err)
	err = res.CheckAllPermissions([]string{"delete_user"})
	var fe *ForbiddenError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, []string{"delete_user"}, fe.Missing)
}

func TestResolveMissingUser(t *testing.T) {
	store := newFakeStore()
	_, err := Resolve(context.Background(), store, bson.NewObjectID())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveSoftDeletedUser(t *testing.T) {
	store := newFakeStore()
	user := seedUser(store, "Staff", "read_student")
	now := user.CreatedAt
	user.DeletedAt = &now

	_, err := Resolve(context.Background(), store, user.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestResolveDanglingRoleHasZeroPermissions(t *testing.T) {
	store := newFakeStore()
	user := seedUser(store, "Staff", "read_student")
	delete(store.roles, user.Role)

	res, err := Resolve(context.Background(), store, user.ID)
	require.NoError(t, err)
	assert.Nil(t, res.Role)
	assert.Empty(t, res.Permissions)
	assert.Error(t, res.CheckAllPermissions([]string{"read_student"}))
	assert.Error(t, res.CheckRoles([]string{"Staff"}))
}

func TestResolveUserWithoutRole(t *testing.T) {
	store := newFakeStore()
	user := &models.User{ID: bson.NewObjectID(), Email: "norole@cbms.com"}
	store.users[user.ID] = user

	res, err := Resolve(context.Background(), store, user.ID)
	require.NoError(t, err)
	assert.Empty(t, res.Permissions)

	assert.ErrorIs(t, res.CheckRoles([]string{"admin"}), ErrNoRole)
	assert.ErrorIs(t, res.CheckAllPermissions([]string{"read_user"}), ErrNoRole)
	assert.ErrorIs(t, res.CheckAnyPermission([]string{"read_user"}), ErrNoRole)
}

func TestCheckRolesExactMatchNoHierarchy(t *testing.T) {
	store := newFakeStore()
	admin := seedUser(store, "admin", "read_student")

	res, err := Resolve(context.Background(), store, admin.ID)
	require.NoError(t, err)

	// admin passes an admin-only route
	assert.NoError(t, res.CheckRoles([]string{"admin"}))
	// but gets no free pass on a Teacher-only route
	assert.ErrorIs(t, res.CheckRoles([]string{"Teacher"}), ErrForbidden)
	// and matching is case-sensitive
	assert.ErrorIs(t, res.CheckRoles([]string{"Admin"}), ErrForbidden)
}

func TestCheckRolesEmptyListAllows(t *testing.T) {
	store := newFakeStore()
	user := seedUser(store, "Student")

	res, err := Resolve(context.Background(), store, user.ID)
	require.NoError(t, err)
	assert.NoError(t, res.CheckRoles(nil))
}

func TestAllVersusAnySemantics(t *testing.T) {
	store := newFakeStore()
	user := seedUser(store, "Staff", "a")

	res, err := Resolve(context.Background(), store, user.ID)
	require.NoError(t, err)

	required := []string{"a", "b"}

	err = res.CheckAllPermissions(required)
	var fe *ForbiddenError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, []string{"b"}, fe.Missing)

	assert.NoError(t, res.CheckAnyPermission(required))
}

func TestMissingPermissionsOrder(t *testing.T) {
	missing := MissingPermissions([]string{"x"}, []string{"a", "x", "b"})
	assert.Equal(t, []string{"a", "b"}, missing)
}

func TestHasAny(t *testing.T) {
	assert.True(t, HasAny([]string{"a", "b"}, []string{"b", "c"}))
	assert.False(t, HasAny([]string{"a"}, []string{"b", "c"}))
	assert.False(t, HasAny(nil, []string{"a"}))
}
