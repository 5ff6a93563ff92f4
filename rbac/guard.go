package rbac

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/moazrana/CBMS-sub001/models"
)

var (
	// ErrNoRole means the user exists but has no role reference at all.
	// Kept distinct from ErrForbidden for diagnosability.
	ErrNoRole = errors.New("user has no role assigned")

	// ErrForbidden means the identity is valid but the role or permission
	// check failed.
	ErrForbidden = errors.New("forbidden")
)

// ForbiddenError carries the missing permission names so a 403 can name
// them for the operator.
type ForbiddenError struct {
	Missing []string
}

func (e *ForbiddenError) Error() string {
	return fmt.Sprintf("missing permissions: %s", strings.Join(e.Missing, ", "))
}

func (e *ForbiddenError) Unwrap() error { return ErrForbidden }

// Resolution is the live permission set for one request. It is re-derived
// from storage on every call; token claims beyond sub are never trusted.
type Resolution struct {
	User        *models.User
	Role        *models.Role // nil when the role reference dangles
	Permissions []string
}

// RoleName returns the resolved role name or "" when no role resolved.
func (r *Resolution) RoleName() string {
	if r.Role == nil {
		return ""
	}
	return r.Role.Name
}

// Resolve fetches the user and its role fresh from storage and returns the
// live permission set. A dangling role reference resolves to zero
// permissions rather than an error; a missing or soft-deleted user is
// ErrNotFound.
func Resolve(ctx context.Context, store Store, userID bson.ObjectID) (*Resolution, error) {
	user, err := store.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	res := &Resolution{User: user, Permissions: []string{}}
	if !user.HasRole() {
		return res, nil
	}

	role, err := store.RoleByID(ctx, user.Role)
	if errors.Is(err, ErrNotFound) {
		// Dangling reference: treat as zero permissions.
		return res, nil
	}
	if err != nil {
		return nil, err
	}

	res.Role = role
	res.Permissions = role.PermissionNames()
	return res, nil
}

// CheckRoles enforces an exact, case-sensitive role-name allow-list. There
// is no hierarchy: admin does not implicitly satisfy a Teacher-only route.
func (r *Resolution) CheckRoles(allowed []string) error {
	if len(allowed) == 0 {
		return nil
	}
	if !r.User.HasRole() {
		return ErrNoRole
	}
	name := r.RoleName()
	for _, want := range allowed {
		if name == want {
			return nil
		}
	}
	return ErrForbidden
}

// CheckAllPermissions enforces ALL semantics: every required name must be
// embedded in the role. The returned error names the missing set.
func (r *Resolution) CheckAllPermissions(required []string) error {
	if len(required) == 0 {
		return nil
	}
	if !r.User.HasRole() {
		return ErrNoRole
	}
	missing := MissingPermissions(r.Permissions, required)
	if len(missing) > 0 {
		return &ForbiddenError{Missing: missing}
	}
	return nil
}

// CheckAnyPermission enforces ANY semantics: at least one required name
// must be present. Used for advisory gating, not route enforcement.
func (r *Resolution) CheckAnyPermission(required []string) error {
	if len(required) == 0 {
		return nil
	}
	if !r.User.HasRole() {
		return ErrNoRole
	}
	if HasAny(r.Permissions, required) {
		return nil
	}
	return &ForbiddenError{Missing: required}
}

// MissingPermissions returns the required names absent from held, in the
// order they were required.
func MissingPermissions(held, required []string) []string {
	set := make(map[string]struct{}, len(held))
	for _, p := range held {
		set[p] = struct{}{}
	}
	missing := make([]string, 0)
	for _, name := range required {
		if _, ok := set[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// HasAny reports whether at least one required name is held.
func HasAny(held, required []string) bool {
	set := make(map[string]struct{}, len(held))
	for _, p := range held {
		set[p] = struct{}{}
	}
	for _, name := range required {
		if _, ok := set[name]; ok {
			return true
		}
	}
	return false
}
