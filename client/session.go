package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
)

// State tracks the session validation lifecycle:
// NotValidated -> Validating -> Validated or Failed.
type State int

const (
	StateNotValidated State = iota
	StateValidating
	StateValidated
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNotValidated:
		return "not_validated"
	case StateValidating:
		return "validating"
	case StateValidated:
		return "validated"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// ErrValidationInFlight is returned when a validation attempt is suppressed
// because another one is already running.
var ErrValidationInFlight = errors.New("validation already in flight")

// ErrNotAuthenticated is returned when no token is held.
var ErrNotAuthenticated = errors.New("not authenticated")

// Session caches the server's validated permission set. It is the single
// holder of client-side auth state, with an explicit lifecycle: SetToken
// after login, EnsureValidated before gated rendering, Logout to tear down.
type Session struct {
	mu sync.Mutex

	client *Client

	token       string
	user        UserInfo
	permissions []string
	state       State
	validating  bool
	lastErr     error

	// onFailed runs after teardown when validation fails, outside the
	// lock. Typically it redirects to the login entry point.
	onFailed func()
}

func NewSession(c *Client) *Session {
	return &Session{client: c, permissions: []string{}}
}

// OnFailed registers the teardown callback.
func (s *Session) OnFailed(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onFailed = fn
}

// SetToken installs a freshly issued token. The session is authenticated
// but not yet validated; permissions stay empty until Validate runs.
func (s *Session) SetToken(token string, user UserInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = user
	s.permissions = []string{}
	s.state = StateNotValidated
	s.lastErr = nil
}

func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Session) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != ""
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) User() UserInfo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Permissions returns a copy of the cached permission names.
func (s *Session) Permissions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.permissions))
	copy(out, s.permissions)
	return out
}

// Err returns the error recorded by the last failed validation.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// EnsureValidated validates the token against the server unless already
// validated this session. Concurrent callers are suppressed: only one
// validation is in flight at a time.
func (s *Session) EnsureValidated(ctx context.Context) error {
	s.mu.Lock()
	if s.token == "" {
		s.mu.Unlock()
		return ErrNotAuthenticated
	}
	if s.state == StateValidated {
		s.mu.Unlock()
		return nil
	}
	if s.validating {
		s.mu.Unlock()
		return ErrValidationInFlight
	}
	s.validating = true
	s.state = StateValidating
	token := s.token
	s.mu.Unlock()

	result, err := s.client.Validate(ctx, token)

	s.mu.Lock()
	s.validating = false
	if err != nil {
		s.lastErr = err
		s.teardownLocked()
		s.state = StateFailed
		onFailed := s.onFailed
		s.mu.Unlock()
		if onFailed != nil {
			onFailed()
		}
		return err
	}

	s.state = StateValidated
	s.user = UserInfo{
		ID:    result.User.ID,
		Name:  result.User.Name,
		Email: result.User.Email,
		Role:  result.User.Role,
	}
	s.permissions = make([]string, len(result.Permissions))
	copy(s.permissions, result.Permissions)
	s.mu.Unlock()
	return nil
}

// Refresh forces a re-validation regardless of current state.
func (s *Session) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.state == StateValidated {
		s.state = StateNotValidated
	}
	s.mu.Unlock()
	return s.EnsureValidated(ctx)
}

// Logout clears the token and all cached permissions.
func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.teardownLocked()
	s.state = StateNotValidated
	s.lastErr = nil
}

func (s *Session) teardownLocked() {
	s.token = ""
	s.user = UserInfo{}
	s.permissions = []string{}
}

// TokenExpiry decodes the token's exp claim locally, without verifying the
// signature. The decoded payload is used only for expiry display, never
// for trust decisions.
func (s *Session) TokenExpiry() (time.Time, error) {
	s.mu.Lock()
	token := s.token
	s.mu.Unlock()

	if token == "" {
		return time.Time{}, ErrNotAuthenticated
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("malformed token")
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return time.Time{}, fmt.Errorf("decode token payload: %w", err)
	}

	var claims struct {
		Exp int64 `json:"exp"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return time.Time{}, fmt.Errorf("parse token payload: %w", err)
	}
	if claims.Exp == 0 {
		return time.Time{}, fmt.Errorf("token has no expiry")
	}
	return time.Unix(claims.Exp, 0), nil
}

// ExpiringSoon reports whether the token's remaining lifetime is below the
// threshold. Purely local; no network call.
func (s *Session) ExpiringSoon(threshold time.Duration) bool {
	exp, err := s.TokenExpiry()
	if err != nil {
		return false
	}
	return time.Until(exp) < threshold
}

// Watch re-validates the session every interval until ctx is cancelled.
// This is the cooperative poll that notices revocation between requests.
func (s *Session) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 60 * time.Second
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if !s.IsAuthenticated() {
					return
				}
				_ = s.Refresh(ctx)
			}
		}
	}()
}
