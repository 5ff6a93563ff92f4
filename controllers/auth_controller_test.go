package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/moazrana/CBMS-sub001/middleware"
	"github.com/moazrana/CBMS-sub001/models"
	"github.com/moazrana/CBMS-sub001/rbac"
	"github.com/moazrana/CBMS-sub001/utils"
)

const testSecret = "test-secret"

var registerPinOnce sync.Once

func setupBinding() {
	gin.SetMode(gin.TestMode)
	registerPinOnce.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			_ = v.RegisterValidation("pin", func(fl validator.FieldLevel) bool {
				pin := fl.Field().String()
				if len(pin) < 3 || len(pin) > 8 {
					return false
				}
				for _, r := range pin {
					if !unicode.IsDigit(r) {
						return false
					}
				}
				return true
			})
		}
	})
}

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
		return nil, rbac.ErrNotFound
	}
	return u, nil
}

func (s *fakeStore) UserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range s.users {
		if u.Email == email && u.DeletedAt == nil {
			return u, nil
		}
	}
	return nil, rbac.ErrNotFound
}

func (s *fakeStore) RoleByID(_ context.Context, id bson.ObjectID) (*models.Role, error) {
	r, ok := s.roles[id]
	if !ok {
		return nil, rbac.ErrNotFound
	}
	return r, nil
}

func (s *fakeStore) RoleByName(_ context.Context, name string) (*models.Role, error) {
	for _, r := range s.roles {
		if r.Name == name {
			return r, nil
		}
	}
	return nil, rbac.ErrNotFound
}

func seedAdmin(t *testing.T, store *fakeStore) *models.User {
	t.Helper()

	perms := []models.PermissionSnapshot{
		{Name: "create_user", Module: "users", Action: "create"},
		{Name: "read_user", Module: "users", Action: "read"},
		{Name: "delete_user", Module: "users", Action: "delete"},
	}
	role := &models.Role{ID: bson.NewObjectID(), Name: "admin", Permissions: perms}
	store.roles[role.ID] = role

	passwordHash, err := utils.HashPassword("P@ssword")
	require.NoError(t, err)
	pinHash, err := utils.HashPassword("123")
	require.NoError(t, err)

	user := &models.User{
		ID:           bson.NewObjectID(),
		Name:         "Administrator",
		Email:        "admin@cbms.com",
		PasswordHash: passwordHash,
		PinHash:      pinHash,
		Role:         role.ID,
	}
	store.users[user.ID] = user
	return user
}

func newAuthRouter(t *testing.T, store rbac.Store) *gin.Engine {
	t.Helper()
	setupBinding()
	t.Setenv("JWT_SECRET", testSecret)

	r := gin.New()
	r.POST("/auth/login", Login(store, testSecret, 24*time.Hour))
	r.GET("/auth/validate", middleware.AuthMiddleware(), Validate(store))
	return r
}

func doLogin(r *gin.Engine, email, password, pin string) *httptest.ResponseRecorder {
	body := `{"email":"` + email + `","password":"` + password + `","pin":"` + pin + `"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginSucceedsWithAllThreeFactors(t *testing.T) {
	store := newFakeStore()
	seedAdmin(t, store)
	r := newAuthRouter(t, store)

	w := doLogin(r, "admin@cbms.com", "P@ssword", "123")
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["access_token"])

	user := resp["user"].(map[string]any)
	assert.Equal(t, "admin", user["role"])
	assert.Equal(t, "admin@cbms.com", user["email"])

	// permissions are never part of the login response
	_, hasPerms := resp["permissions"]
	assert.False(t, hasPerms)
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	store := newFakeStore()
	seedAdmin(t, store)
	r := newAuthRouter(t, store)

	cases := map[string]*httptest.ResponseRecorder{
		"unknown user":   doLogin(r, "nobody@cbms.com", "P@ssword", "123"),
		"wrong password": doLogin(r, "admin@cbms.com", "wrong", "123"),
		"wrong pin":      doLogin(r, "admin@cbms.com", "P@ssword", "999"),
	}

	for name, w := range cases {
		assert.Equal(t, http.StatusUnauthorized, w.Code, name)
		assert.JSONEq(t, `{"error":"Invalid credentials"}`, w.Body.String(), name)
	}
}

func TestLoginRejectsSoftDeletedUser(t *testing.T) {
	store := newFakeStore()
	user := seedAdmin(t, store)
	now := time.Now().UTC()
	user.DeletedAt = &now

	r := newAuthRouter(t, store)
	w := doLogin(r, "admin@cbms.com", "P@ssword", "123")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Invalid credentials"}`, w.Body.String())
}

func TestValidateReturnsLivePermissionSet(t *testing.T) {
	store := newFakeStore()
	user := seedAdmin(t, store)
	r := newAuthRouter(t, store)

	token, err := utils.GenerateAccessToken(user.ID.Hex(), user.Email, "admin", time.Hour, testSecret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/auth/validate", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Valid       bool     `json:"valid"`
		Permissions []string `json:"permissions"`
		User        struct {
			Role string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Valid)
	assert.Equal(t, "admin", resp.User.Role)
	assert.Len(t, resp.Permissions, len(store.roles[user.Role].Permissions))
}

func TestValidateReflectsRoleEditWithoutReissue(t *testing.T) {
	store := newFakeStore()
	user := seedAdmin(t, store)
	r := newAuthRouter(t, store)

	token, err := utils.GenerateAccessToken(user.ID.Hex(), user.Email, "admin", time.Hour, testSecret)
	require.NoError(t, err)

	// Strip delete_user from the role while the token is still live.
	role := store.roles[user.Role]
	kept := make([]models.PermissionSnapshot, 0)
	for _, p := range role.Permissions {
		if p.Name != "delete_user" {
			kept = append(kept, p)
		}
	}
	role.Permissions = kept

	req := httptest.NewRequest(http.MethodGet, "/auth/validate", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Permissions []string `json:"permissions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotContains(t, resp.Permissions, "delete_user")
}

func TestValidateRejectsDeletedUser(t *testing.T) {
	store := newFakeStore()
	user := seedAdmin(t, store)
	r := newAuthRouter(t, store)

	token, err := utils.GenerateAccessToken(user.ID.Hex(), user.Email, "admin", time.Hour, testSecret)
	require.NoError(t, err)

	now := time.Now().UTC()
	user.DeletedAt = &now

	req := httptest.NewRequest(http.MethodGet, "/auth/validate", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	store := newFakeStore()
	user := seedAdmin(t, store)
	r := newAuthRouter(t, store)

	token, err := utils.GenerateAccessToken(user.ID.Hex(), user.Email, "admin", -time.Minute, testSecret)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/auth/validate", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestValidateRejectsMissingToken(t *testing.T) {
	store := newFakeStore()
	r := newAuthRouter(t, store)

	req := httptest.NewRequest(http.MethodGet, "/auth/validate", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
