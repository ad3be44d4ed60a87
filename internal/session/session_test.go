package session

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	nerrors "github.com/felixgeelhaar/newsdesk/internal/errors"
	"github.com/felixgeelhaar/newsdesk/internal/tokenstore"
	"github.com/felixgeelhaar/newsdesk/pkg/newsdesk/client"
	"github.com/felixgeelhaar/newsdesk/pkg/newsdesk/types"
)

var alice = types.UserProfile{ID: "u1", Username: "alice", Roles: []types.Role{types.RoleJournalist}}

// fakeBackend is an httptest portal that counts requests and lets tests
// choose the login response.
type fakeBackend struct {
	srv      *httptest.Server
	requests int32

	mu         sync.Mutex
	loginToken string
	loginUser  types.UserProfile
	otpStatus  int
	otpMessage string
	block      chan struct{}
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	fb := &fakeBackend{loginToken: "T", loginUser: alice, otpStatus: http.StatusOK}
	fb.srv = httptest.NewServer(http.HandlerFunc(fb.handle))
	t.Cleanup(fb.srv.Close)
	return fb
}

func (fb *fakeBackend) handle(w http.ResponseWriter, r *http.Request) {
	atomic.AddInt32(&fb.requests, 1)

	fb.mu.Lock()
	token, user, status, msg, block := fb.loginToken, fb.loginUser, fb.otpStatus, fb.otpMessage, fb.block
	fb.mu.Unlock()

	if block != nil {
		<-block
	}

	switch r.URL.Path {
	case "/public/v1/register/otp":
		w.WriteHeader(status)
		if msg != "" {
			_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
		}
	case "/public/v1/login":
		if token != "" {
			w.Header().Set("token", token)
		}
		_ = json.NewEncoder(w).Encode(user)
	case "/public/v1/register":
		w.WriteHeader(http.StatusCreated)
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

func (fb *fakeBackend) count() int32 {
	return atomic.LoadInt32(&fb.requests)
}

type recorder struct {
	mu    sync.Mutex
	paths []string
}

func (r *recorder) Navigate(path string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, path)
}

func (r *recorder) last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.paths) == 0 {
		return ""
	}
	return r.paths[len(r.paths)-1]
}

func newManager(t *testing.T, fb *fakeBackend) (*Manager, *tokenstore.Store, *recorder) {
	t.Helper()
	store := tokenstore.New(tokenstore.NewMemoryBackend(), nil)
	nav := &recorder{}
	m := NewManager(client.New(fb.srv.URL, store), store, nav, nil)
	require.NoError(t, m.Init(context.Background()))
	return m, store, nav
}

func TestInitWithoutToken(t *testing.T) {
	store := tokenstore.New(tokenstore.NewMemoryBackend(), nil)
	m := NewManager(nil, store, nil, nil)

	assert.True(t, m.Snapshot().Loading)
	assert.Equal(t, StateUnknown, m.State())

	require.NoError(t, m.Init(context.Background()))
	snap := m.Snapshot()
	assert.False(t, snap.Loading)
	assert.False(t, snap.Authenticated)
	assert.Nil(t, snap.User)
	assert.Equal(t, StateAnonymous, m.State())
}

func TestInitIsOptimistic(t *testing.T) {
	ctx := context.Background()
	store := tokenstore.New(tokenstore.NewMemoryBackend(), nil)
	require.NoError(t, store.SetToken(ctx, "stale-or-revoked"))
	require.NoError(t, store.SetUserData(ctx, alice))

	m := NewManager(nil, store, nil, nil)
	require.NoError(t, m.Init(ctx))

	snap := m.Snapshot()
	assert.True(t, snap.Authenticated)
	require.NotNil(t, snap.User)
	assert.Equal(t, "alice", snap.User.Username)
	assert.Equal(t, StateAuthenticated, m.State())
}

func TestInitRestoresProfileWithoutToken(t *testing.T) {
	ctx := context.Background()
	store := tokenstore.New(tokenstore.NewMemoryBackend(), nil)
	require.NoError(t, store.SetUserData(ctx, alice))

	m := NewManager(nil, store, nil, nil)
	require.NoError(t, m.Init(ctx))

	snap := m.Snapshot()
	assert.False(t, snap.Authenticated)
	require.NotNil(t, snap.User)
	assert.Equal(t, "alice", snap.User.Username)
}

func TestInitRunsOnce(t *testing.T) {
	ctx := context.Background()
	store := tokenstore.New(tokenstore.NewMemoryBackend(), nil)
	m := NewManager(nil, store, nil, nil)
	require.NoError(t, m.Init(ctx))

	require.NoError(t, store.SetToken(ctx, "T"))
	require.NoError(t, m.Init(ctx))
	assert.False(t, m.Snapshot().Authenticated)
}

func TestRequestOTPValidation(t *testing.T) {
	fb := newFakeBackend(t)
	m, _, _ := newManager(t, fb)

	err := m.RequestOTP(context.Background(), "  ")
	require.Error(t, err)
	assert.Equal(t, "Phone number is required", UserMessage(err))
	assert.Zero(t, fb.count())
}

func TestRequestOTPKeepsSessionAnonymous(t *testing.T) {
	fb := newFakeBackend(t)
	m, _, _ := newManager(t, fb)

	require.NoError(t, m.RequestOTP(context.Background(), "5551234"))
	assert.Equal(t, StateAnonymous, m.State())
	assert.False(t, m.Snapshot().Authenticated)
}

func TestRequestOTPFailureMessages(t *testing.T) {
	fb := newFakeBackend(t)
	m, _, _ := newManager(t, fb)

	fb.mu.Lock()
	fb.otpStatus = http.StatusBadRequest
	fb.mu.Unlock()

	err := m.RequestOTP(context.Background(), "5551234")
	require.Error(t, err)
	assert.Equal(t, "Failed to send OTP. Please try again.", UserMessage(err))
	assert.Equal(t, nerrors.ErrCodeAuthOTPRequest, nerrors.CodeOf(err))

	fb.mu.Lock()
	fb.otpMessage = "Phone not registered"
	fb.mu.Unlock()

	err = m.RequestOTP(context.Background(), "5551234")
	assert.Equal(t, "Phone not registered", UserMessage(err))
}

func TestLoginRejectsShortOTPWithoutNetwork(t *testing.T) {
	fb := newFakeBackend(t)
	m, store, _ := newManager(t, fb)

	for _, otp := range []string{"", "12345", "1234567"} {
		err := m.Login(context.Background(), "5551234", otp)
		require.Error(t, err)
		assert.Equal(t, "Please enter a valid 6-digit OTP", UserMessage(err))
	}

	assert.Zero(t, fb.count())
	ok, err := store.IsAuthenticated(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoginRequiresPhoneWithoutNetwork(t *testing.T) {
	fb := newFakeBackend(t)
	m, _, _ := newManager(t, fb)

	err := m.Login(context.Background(), " ", "123456")
	require.Error(t, err)
	assert.Equal(t, nerrors.ErrCodePhoneRequired, nerrors.CodeOf(err))
	assert.Zero(t, fb.count())
	assert.Equal(t, StateAnonymous, m.State())
}

// profileFailStore refuses to persist profiles
type profileFailStore struct {
	*tokenstore.Store
}

func (s profileFailStore) SetUserData(ctx context.Context, user types.UserProfile) error {
	return errors.New("disk full")
}

func TestLoginProfileWriteFailureStoresNoToken(t *testing.T) {
	ctx := context.Background()
	fb := newFakeBackend(t)
	store := tokenstore.New(tokenstore.NewMemoryBackend(), nil)
	require.NoError(t, store.SetUserData(ctx, types.UserProfile{ID: "u9", Username: "previous", Roles: []types.Role{types.RoleAdmin}}))

	m := NewManager(client.New(fb.srv.URL, store), profileFailStore{store}, nil, nil)
	require.NoError(t, m.Init(ctx))

	require.Error(t, m.Login(ctx, "5551234", "123456"))
	assert.Equal(t, StateAnonymous, m.State())

	ok, err := store.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "no token may sit next to another user's profile")

	// a fresh process must not come up authenticated as the previous user
	next := NewManager(nil, store, nil, nil)
	require.NoError(t, next.Init(ctx))
	assert.False(t, next.Snapshot().Authenticated)
}

func TestStartAnonymous(t *testing.T) {
	store := tokenstore.New(tokenstore.NewMemoryBackend(), nil)
	require.NoError(t, store.SetToken(context.Background(), "T"))

	m := NewManager(nil, store, nil, nil)
	m.StartAnonymous(context.Background())

	snap := m.Snapshot()
	assert.False(t, snap.Loading)
	assert.False(t, snap.Authenticated)
	assert.Equal(t, StateAnonymous, m.State())

	// storage is not consulted afterwards
	require.NoError(t, m.Init(context.Background()))
	assert.False(t, m.Snapshot().Authenticated)
}

func TestLoginSuccess(t *testing.T) {
	fb := newFakeBackend(t)
	m, store, nav := newManager(t, fb)

	var got []Session
	unsubscribe := m.Subscribe(func(s Session) { got = append(got, s) })
	defer unsubscribe()

	require.NoError(t, m.Login(context.Background(), "5551234", "123456"))

	snap := m.Snapshot()
	assert.True(t, snap.Authenticated)
	assert.Equal(t, "alice", snap.User.Username)
	assert.Equal(t, StateAuthenticated, m.State())
	assert.Equal(t, HomePath, nav.last())

	token, ok, err := store.Token(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "T", token)

	user, err := store.UserData(context.Background())
	require.NoError(t, err)
	assert.Equal(t, alice, *user)

	require.Len(t, got, 1)
	assert.True(t, got[0].Authenticated)
}

func TestLoginMissingTokenHeader(t *testing.T) {
	fb := newFakeBackend(t)
	m, store, nav := newManager(t, fb)

	fb.mu.Lock()
	fb.loginToken = ""
	fb.mu.Unlock()

	err := m.Login(context.Background(), "5551234", "123456")
	require.Error(t, err)
	assert.Equal(t, "Authentication token not found.", UserMessage(err))
	assert.Equal(t, StateAnonymous, m.State())
	assert.False(t, m.Snapshot().Authenticated)
	assert.Empty(t, nav.last())

	ok, err := store.IsAuthenticated(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLoginCancelledDropsResponse(t *testing.T) {
	fb := newFakeBackend(t)
	m, store, nav := newManager(t, fb)

	block := make(chan struct{})
	fb.mu.Lock()
	fb.block = block
	fb.mu.Unlock()

	scope := NewScope(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Login(scope.Context(), "5551234", "123456") }()

	require.Eventually(t, func() bool { return m.State() == StateAuthenticating }, timeout, tick)
	scope.Close()
	err := <-done
	close(block)

	require.Error(t, err)
	assert.Equal(t, nerrors.ErrCodeSessionCancelled, nerrors.CodeOf(err))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, StateAnonymous, m.State())
	assert.Empty(t, nav.last())

	ok, err := store.IsAuthenticated(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLogout(t *testing.T) {
	fb := newFakeBackend(t)
	m, store, nav := newManager(t, fb)
	ctx := context.Background()

	require.NoError(t, m.Login(ctx, "5551234", "123456"))
	require.NoError(t, m.Logout(ctx))

	snap := m.Snapshot()
	assert.False(t, snap.Authenticated)
	assert.Nil(t, snap.User)
	assert.Equal(t, SignInPath, nav.last())

	ok, err := store.IsAuthenticated(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	// The profile snapshot is intentionally left behind.
	user, err := store.UserData(ctx)
	require.NoError(t, err)
	assert.NotNil(t, user)
}

func TestRegister(t *testing.T) {
	fb := newFakeBackend(t)
	m, _, _ := newManager(t, fb)

	err := m.Register(context.Background(), types.RegisterRequest{PhoneNumber: "5550000"}, "12")
	assert.Equal(t, "Please enter a valid 6-digit OTP", UserMessage(err))
	assert.Zero(t, fb.count())

	require.NoError(t, m.Register(context.Background(), types.RegisterRequest{PhoneNumber: "5550000", Username: "bob"}, "123456"))
	assert.False(t, m.Snapshot().Authenticated)
}

func TestSubscribeUnsubscribe(t *testing.T) {
	fb := newFakeBackend(t)
	m, _, _ := newManager(t, fb)

	var calls int32
	unsubscribe := m.Subscribe(func(Session) { atomic.AddInt32(&calls, 1) })
	require.NoError(t, m.Logout(context.Background()))
	unsubscribe()
	unsubscribe()
	require.NoError(t, m.Logout(context.Background()))

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestSnapshotIsACopy(t *testing.T) {
	fb := newFakeBackend(t)
	m, _, _ := newManager(t, fb)
	require.NoError(t, m.Login(context.Background(), "5551234", "123456"))

	snap := m.Snapshot()
	snap.User.Roles[0] = types.RoleAdmin
	snap.User.Username = "mallory"

	again := m.Snapshot()
	assert.Equal(t, "alice", again.User.Username)
	assert.Equal(t, types.RoleJournalist, again.User.Roles[0])
}

func TestTransportFailureIsCoded(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	store := tokenstore.New(tokenstore.NewMemoryBackend(), nil)
	m := NewManager(client.New(srv.URL, store), store, nil, nil)

	err := m.RequestOTP(context.Background(), "5551234")
	assert.Equal(t, nerrors.ErrCodeAPITransport, nerrors.CodeOf(err))
}

func TestAPIFailureRefusedToken(t *testing.T) {
	refused := &client.APIError{StatusCode: http.StatusUnauthorized, Message: "invalid token"}

	err := APIFailure(refused, nerrors.ErrCodeAPIResponse, "Failed to load drafts")
	var nErr *nerrors.NewsdeskError
	require.ErrorAs(t, err, &nErr)
	assert.Equal(t, "invalid token", nErr.Message)
	require.Len(t, nErr.Suggestions, 1)
	assert.Contains(t, nErr.Suggestions[0], "auth login")

	// a rejected OTP is not a stale session
	err = APIFailure(refused, nerrors.ErrCodeAuthLoginFailed, "Login failed")
	require.ErrorAs(t, err, &nErr)
	assert.Empty(t, nErr.Suggestions)

	err = APIFailure(&client.APIError{StatusCode: http.StatusConflict}, nerrors.ErrCodeAPIResponse, "Failed")
	require.ErrorAs(t, err, &nErr)
	assert.Empty(t, nErr.Suggestions)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "unknown", StateUnknown.String())
	assert.Equal(t, "anonymous", StateAnonymous.String())
	assert.Equal(t, "authenticating", StateAuthenticating.String())
	assert.Equal(t, "authenticated", StateAuthenticated.String())
}
