package client

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validateServer serves /auth/validate, counting hits and answering from a
// swappable handler so tests can flip from success to failure mid-session.
type validateServer struct {
	t     *testing.T
	hits  atomic.Int64
	mu    sync.Mutex
	perms []string
	fail  bool
	srv   *httptest.Server
}

func newValidateServer(t *testing.T, perms []string) *validateServer {
	t.Helper()
	vs := &validateServer{t: t, perms: perms}
	vs.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/validate" {
			http.NotFound(w, r)
			return
		}
		vs.hits.Add(1)
		vs.mu.Lock()
		fail, perms := vs.fail, vs.perms
		vs.mu.Unlock()

		if fail {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "user no longer exists"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"valid": true,
			"user": map[string]string{
				"_id":   "abc123",
				"email": "admin@cbms.com",
				"name":  "Administrator",
				"role":  "admin",
			},
			"permissions": perms,
			"message":     "token is valid",
		})
	}))
	t.Cleanup(vs.srv.Close)
	return vs
}

func (vs *validateServer) setFail(fail bool) {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	vs.fail = fail
}

func (vs *validateServer) session() *Session {
	return NewSession(New(vs.srv.URL))
}

// fakeToken builds an unsigned JWT-shaped string with the given exp claim,
// enough for the local payload decode.
func fakeToken(t *testing.T, exp time.Time) string {
	t.Helper()
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload, err := json.Marshal(map[string]int64{"exp": exp.Unix()})
	require.NoError(t, err)
	return header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".sig"
}

func TestEnsureValidatedCachesPermissions(t *testing.T) {
	vs := newValidateServer(t, []string{"read_student", "create_attendance"})
	s := vs.session()
	s.SetToken("tok", UserInfo{Email: "admin@cbms.com"})

	require.Equal(t, StateNotValidated, s.State())
	require.NoError(t, s.EnsureValidated(context.Background()))

	assert.Equal(t, StateValidated, s.State())
	assert.Equal(t, []string{"read_student", "create_attendance"}, s.Permissions())
	assert.Equal(t, "admin", s.User().Role)

	// Already validated: no second round trip.
	require.NoError(t, s.EnsureValidated(context.Background()))
	assert.Equal(t, int64(1), vs.hits.Load())
}

func TestEnsureValidatedWithoutToken(t *testing.T) {
	vs := newValidateServer(t, nil)
	s := vs.session()

	err := s.EnsureValidated(context.Background())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestEnsureValidatedSuppressesConcurrentCalls(t *testing.T) {
	release := make(chan struct{})
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		_ = json.NewEncoder(w).Encode(map[string]any{
			"valid":       true,
			"permissions": []string{"read_user"},
		})
	}))
	defer srv.Close()

	s := NewSession(New(srv.URL))
	s.SetToken("tok", UserInfo{})

	firstDone := make(chan error, 1)
	go func() { firstDone <- s.EnsureValidated(context.Background()) }()

	// Wait for the first call to reach the server, then race a second one.
	require.Eventually(t, func() bool { return hits.Load() == 1 }, time.Second, 5*time.Millisecond)
	require.Equal(t, StateValidating, s.State())

	err := s.EnsureValidated(context.Background())
	assert.ErrorIs(t, err, ErrValidationInFlight)

	close(release)
	require.NoError(t, <-firstDone)
	assert.Equal(t, int64(1), hits.Load())
}

func TestValidationFailureTearsDown(t *testing.T) {
	vs := newValidateServer(t, []string{"read_user"})
	s := vs.session()
	s.SetToken("tok", UserInfo{Email: "admin@cbms.com"})
	require.NoError(t, s.EnsureValidated(context.Background()))

	var failedCalled atomic.Bool
	s.OnFailed(func() { failedCalled.Store(true) })

	vs.setFail(true)
	err := s.Refresh(context.Background())
	require.Error(t, err)
	assert.True(t, IsUnauthorized(err))

	assert.Equal(t, StateFailed, s.State())
	assert.False(t, s.IsAuthenticated())
	assert.Empty(t, s.Permissions())
	assert.Equal(t, UserInfo{}, s.User())
	assert.True(t, failedCalled.Load())
	assert.True(t, IsUnauthorized(s.Err()))
}

func TestRefreshForcesRoundTrip(t *testing.T) {
	vs := newValidateServer(t, []string{"read_user"})
	s := vs.session()
	s.SetToken("tok", UserInfo{})

	require.NoError(t, s.EnsureValidated(context.Background()))

	// Permission edit on the server shows up after an explicit refresh.
	vs.mu.Lock()
	vs.perms = []string{}
	vs.mu.Unlock()

	require.NoError(t, s.Refresh(context.Background()))
	assert.Empty(t, s.Permissions())
	assert.Equal(t, int64(2), vs.hits.Load())
}

func TestLogoutClearsEverything(t *testing.T) {
	vs := newValidateServer(t, []string{"read_user"})
	s := vs.session()
	s.SetToken("tok", UserInfo{Email: "admin@cbms.com"})
	require.NoError(t, s.EnsureValidated(context.Background()))

	s.Logout()

	assert.False(t, s.IsAuthenticated())
	assert.Equal(t, StateNotValidated, s.State())
	assert.Empty(t, s.Permissions())
	assert.NoError(t, s.Err())
}

func TestTokenExpiryDecodesLocally(t *testing.T) {
	exp := time.Now().Add(2 * time.Hour).Truncate(time.Second)
	s := NewSession(New("http://unused"))
	s.SetToken(fakeToken(t, exp), UserInfo{})

	got, err := s.TokenExpiry()
	require.NoError(t, err)
	assert.True(t, got.Equal(exp))
}

func TestTokenExpiryErrors(t *testing.T) {
	s := NewSession(New("http://unused"))

	_, err := s.TokenExpiry()
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	s.SetToken("not-a-jwt", UserInfo{})
	_, err = s.TokenExpiry()
	assert.Error(t, err)
}

func TestExpiringSoon(t *testing.T) {
	s := NewSession(New("http://unused"))

	s.SetToken(fakeToken(t, time.Now().Add(10*time.Minute)), UserInfo{})
	assert.True(t, s.ExpiringSoon(time.Hour))
	assert.False(t, s.ExpiringSoon(time.Minute))

	// No token: never reports expiring.
	s.Logout()
	assert.False(t, s.ExpiringSoon(time.Hour))
}

func TestWatchRevalidatesUntilCancelled(t *testing.T) {
	vs := newValidateServer(t, []string{"read_user"})
	s := vs.session()
	s.SetToken("tok", UserInfo{})
	require.NoError(t, s.EnsureValidated(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Watch(ctx, 10*time.Millisecond)

	require.Eventually(t, func() bool { return vs.hits.Load() >= 3 }, time.Second, 5*time.Millisecond)

	cancel()
	settled := vs.hits.Load()
	time.Sleep(50 * time.Millisecond)
	assert.LessOrEqual(t, vs.hits.Load(), settled+1)
}
