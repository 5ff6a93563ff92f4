package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validatedSession(role string, perms ...string) *Session {
	s := NewSession(New("http://unused"))
	s.mu.Lock()
	s.token = "tok"
	s.state = StateValidated
	s.user = UserInfo{Role: role}
	s.permissions = perms
	s.mu.Unlock()
	return s
}

func TestGateMatrix(t *testing.T) {
	s := validatedSession("Teacher", "read_student", "create_attendance")

	cases := []struct {
		name string
		gate Gate
		want bool
	}{
		{"empty gate allows", Gate{}, true},
		{"role matches", Gate{Role: "Teacher"}, true},
		{"role mismatch", Gate{Role: "admin"}, false},
		{"role is case sensitive", Gate{Role: "teacher"}, false},
		{"roles membership", Gate{Roles: []string{"Staff", "Teacher"}}, true},
		{"roles non-member", Gate{Roles: []string{"Staff", "admin"}}, false},
		{"single permission held", Gate{Permission: "read_student"}, true},
		{"single permission missing", Gate{Permission: "delete_user"}, false},
		{"any mode, one held", Gate{Permissions: []string{"delete_user", "read_student"}}, true},
		{"any mode, none held", Gate{Permissions: []string{"delete_user", "create_role"}}, false},
		{"all mode, all held", Gate{Permissions: []string{"read_student", "create_attendance"}, RequireAll: true}, true},
		{"all mode, one missing", Gate{Permissions: []string{"read_student", "delete_user"}, RequireAll: true}, false},
		{"role and permission both required", Gate{Role: "Teacher", Permission: "read_student"}, true},
		{"role passes but permission fails", Gate{Role: "Teacher", Permission: "delete_user"}, false},
		{"permission passes but role fails", Gate{Role: "Staff", Permission: "read_student"}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, s.Allows(tc.gate))
		})
	}
}

func TestGateAgainstUnvalidatedSession(t *testing.T) {
	s := NewSession(New("http://unused"))
	s.SetToken("tok", UserInfo{Role: "admin"})

	// Role comes from the login response, permissions only from Validate.
	assert.True(t, s.Allows(Gate{Role: "admin"}))
	assert.False(t, s.Allows(Gate{Permission: "read_user"}))
	assert.True(t, s.Allows(Gate{}))
}

func TestGateAfterLogout(t *testing.T) {
	s := validatedSession("admin", "delete_user")
	assert.True(t, s.Allows(Gate{Permission: "delete_user"}))

	s.Logout()
	assert.False(t, s.Allows(Gate{Permission: "delete_user"}))
	assert.False(t, s.Allows(Gate{Role: "admin"}))
}
