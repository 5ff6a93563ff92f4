package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/moazrana/CBMS-sub001/models"
	"github.com/moazrana/CBMS-sub001/policy"
	"github.com/moazrana/CBMS-sub001/rbac"
	"github.com/moazrana/CBMS-sub001/utils"
)

const guardTestSecret = "guard-test-secret"

type memStore struct {
	users map[bson.ObjectID]*models.User
	roles map[bson.ObjectID]*models.Role
}

func newMemStore() *memStore {
	return &memStore{
		users: make(map[bson.ObjectID]*models.User),
		roles: make(map[bson.ObjectID]*models.Role),
	}
}

func (s *memStore) UserByID(_ context.Context, id bson.ObjectID) (*models.User, error) {
	u, ok := s.users[id]
	if !ok || u.DeletedAt != nil {
		return nil, rbac.ErrNotFound
	}
	return u, nil
}

func (s *memStore) UserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email && u.DeletedAt == nil {
			return u, nil
		}
	}
	return nil, rbac.ErrNotFound
}

func (s *memStore) RoleByID(_ context.Context, id bson.ObjectID) (*models.Role, error) {
	r, ok := s.roles[id]
	if !ok {
		return nil, rbac.ErrNotFound
	}
	return r, nil
}

func (s *memStore) RoleByName(_ context.Context, name string) (*models.Role, error) {
	for _, r := range s.roles {
		if r.Name == name {
			return r, nil
		}
	}
	return nil, rbac.ErrNotFound
}

func (s *memStore) addRole(name string, perms ...string) *models.Role {
	snapshots := make([]models.PermissionSnapshot, 0, len(perms))
	for _, p := range perms {
		snapshots = append(snapshots, models.PermissionSnapshot{Name: p, Module: "users", Action: "delete"})
	}
	role := &models.Role{ID: bson.NewObjectID(), Name: name, Permissions: snapshots}
	s.roles[role.ID] = role
	return role
}

func (s *memStore) addUser(email string, roleID bson.ObjectID) *models.User {
	u := &models.User{ID: bson.NewObjectID(), Name: email, Email: email, Role: roleID}
	s.users[u.ID] = u
	return u
}

// guardedRouter wires AuthMiddleware plus Require in front of a handler that
// just reports success, the same shape main.go uses for real routes.
func guardedRouter(t *testing.T, store rbac.Store, req policy.Requirement) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("JWT_SECRET", guardTestSecret)

	r := gin.New()
	r.DELETE("/users/:id", AuthMiddleware(), Require(store, req), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	return r
}

func callDelete(t *testing.T, r *gin.Engine, user *models.User, roleName string) *httptest.ResponseRecorder {
	t.Helper()
	token, err := utils.GenerateAccessToken(user.ID.Hex(), user.Email, roleName, time.Hour, guardTestSecret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodDelete, "/users/"+bson.NewObjectID().Hex(), nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequirePermissionAllows(t *testing.T) {
	store := newMemStore()
	role := store.addRole("Staff", "delete_user")
	user := store.addUser("staff@cbms.com", role.ID)

	r := guardedRouter(t, store, policy.Requirement{Permissions: []string{"delete_user"}})
	w := callDelete(t, r, user, "Staff")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequirePermissionDeniesAndListsMissing(t *testing.T) {
	store := newMemStore()
	role := store.addRole("Student", "read_user")
	user := store.addUser("student@cbms.com", role.ID)

	r := guardedRouter(t, store, policy.Requirement{Permissions: []string{"delete_user"}})
	w := callDelete(t, r, user, "Student")

	require.Equal(t, http.StatusForbidden, w.Code)

	var resp struct {
		Error   string   `json:"error"`
		Missing []string `json:"missing"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "insufficient permissions", resp.Error)
	assert.Equal(t, []string{"delete_user"}, resp.Missing)
}

func TestRequireRoleIsExactMatch(t *testing.T) {
	store := newMemStore()
	role := store.addRole("Staff", "delete_user")
	user := store.addUser("staff@cbms.com", role.ID)

	r := guardedRouter(t, store, policy.Requirement{Roles: []string{"admin"}})
	w := callDelete(t, r, user, "Staff")

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"insufficient role"}`, w.Body.String())
}

func TestRequireDistinguishesNoRole(t *testing.T) {
	store := newMemStore()
	user := store.addUser("limbo@cbms.com", bson.NilObjectID)

	r := guardedRouter(t, store, policy.Requirement{Roles: []string{"admin"}})
	w := callDelete(t, r, user, "")

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"user has no role assigned"}`, w.Body.String())
}

// Removing a permission from a role takes effect on the very next request,
// even though the caller still holds a token minted before the edit.
func TestPermissionRevocationIsImmediate(t *testing.T) {
	store := newMemStore()
	role := store.addRole("Staff", "delete_user")
	user := store.addUser("staff@cbms.com", role.ID)

	r := guardedRouter(t, store, policy.Requirement{Permissions: []string{"delete_user"}})

	w := callDelete(t, r, user, "Staff")
	require.Equal(t, http.StatusOK, w.Code)

	role.Permissions = nil

	w = callDelete(t, r, user, "Staff")
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRejectsDeletedUser(t *testing.T) {
	store := newMemStore()
	role := store.addRole("admin", "delete_user")
	user := store.addUser("admin@cbms.com", role.ID)
	now := time.Now().UTC()
	user.DeletedAt = &now

	r := guardedRouter(t, store, policy.Requirement{Permissions: []string{"delete_user"}})
	w := callDelete(t, r, user, "admin")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"user no longer exists"}`, w.Body.String())
}

func TestRequireRejectsDanglingRole(t *testing.T) {
	store := newMemStore()
	user := store.addUser("orphan@cbms.com", bson.NewObjectID())

	r := guardedRouter(t, store, policy.Requirement{Permissions: []string{"delete_user"}})
	w := callDelete(t, r, user, "Ghost")

	// Role document gone: zero permissions, so any required permission fails.
	assert.Equal(t, http.StatusForbidden, w.Code)
}
