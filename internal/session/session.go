// Package session owns the authentication state of a newsdesk process.
//
// A Manager is the only writer of Session. Readers take snapshots or
// subscribe to changes. Every backend call takes a context; a response
// arriving after its context was cancelled is dropped without touching
// the session or the token store.
package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	nerrors "github.com/felixgeelhaar/newsdesk/internal/errors"
	"github.com/felixgeelhaar/newsdesk/internal/log"
	"github.com/felixgeelhaar/newsdesk/internal/tokenstore"
	"github.com/felixgeelhaar/newsdesk/pkg/newsdesk/client"
	"github.com/felixgeelhaar/newsdesk/pkg/newsdesk/types"
)

// Navigation targets used by the manager
const (
	HomePath   = "/"
	SignInPath = "/signin"
)

// OTPLength is the only accepted one-time password length
const OTPLength = 6

// State is the manager's lifecycle state
type State int

const (
	StateUnknown State = iota
	StateAnonymous
	StateAuthenticating
	StateAuthenticated
)

// String returns the string representation
func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Session is the authentication view shared with readers
type Session struct {
	User          *types.UserProfile `json:"user" yaml:"user"`
	Authenticated bool               `json:"authenticated" yaml:"authenticated"`
	Loading       bool               `json:"loading" yaml:"loading"`
}

// Navigator receives the manager's navigation side effects
type Navigator interface {
	Navigate(path string)
}

// NavigatorFunc adapts a function to Navigator
type NavigatorFunc func(path string)

// Navigate implements Navigator
func (f NavigatorFunc) Navigate(path string) { f(path) }

// AuthAPI is the subset of the backend client the manager calls
type AuthAPI interface {
	RequestOTP(ctx context.Context, phone string) error
	Login(ctx context.Context, phone, otp string) (*client.LoginResult, error)
	Register(ctx context.Context, req types.RegisterRequest, otp string) error
}

// TokenStore is where the manager persists the token and profile
type TokenStore interface {
	Token(ctx context.Context) (string, bool, error)
	SetToken(ctx context.Context, token string) error
	ClearToken(ctx context.Context) error
	SetUserData(ctx context.Context, user types.UserProfile) error
	UserData(ctx context.Context) (*types.UserProfile, error)
}

// Manager runs the OTP login sequence and owns Session
type Manager struct {
	api    AuthAPI
	store  TokenStore
	nav    Navigator
	logger *log.Logger

	mu          sync.Mutex
	state       State
	session     Session
	initialized bool

	subMu   sync.Mutex
	subs    map[int]func(Session)
	nextSub int
}

// NewManager creates a manager in the Unknown state. Call Init before use.
func NewManager(api AuthAPI, store TokenStore, nav Navigator, logger *log.Logger) *Manager {
	if nav == nil {
		nav = NavigatorFunc(func(string) {})
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Manager{
		api:     api,
		store:   store,
		nav:     nav,
		logger:  logger.With("component", "session"),
		state:   StateUnknown,
		session: Session{Loading: true},
		subs:    make(map[int]func(Session)),
	}
}

// Init derives the session from storage without contacting the backend.
// A stored token means authenticated; the cached profile is restored either way.
// Only the first successful call has any effect.
func (m *Manager) Init(ctx context.Context) error {
	m.mu.Lock()
	if m.initialized {
		m.mu.Unlock()
		return nil
	}

	_, hasToken, err := m.store.Token(ctx)
	if err != nil {
		m.mu.Unlock()
		return err
	}
	user, err := m.store.UserData(ctx)
	if err != nil {
		m.mu.Unlock()
		return err
	}

	m.session = Session{User: user, Authenticated: hasToken}
	if hasToken {
		m.state = StateAuthenticated
	} else {
		m.state = StateAnonymous
	}
	m.initialized = true
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.logger.DebugContext(ctx, "session restored", "state", snap.stateName(), "cached_user", user != nil)
	m.notify(snap)
	return nil
}

// StartAnonymous marks the session initialized and anonymous without
// reading storage. It is the fallback when the stored session cannot be
// read. It has no effect after a successful Init or Login.
func (m *Manager) StartAnonymous(ctx context.Context) {
	m.mu.Lock()
	if m.initialized {
		m.mu.Unlock()
		return
	}
	m.session = Session{}
	m.state = StateAnonymous
	m.initialized = true
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.logger.DebugContext(ctx, "session started anonymous")
	m.notify(snap)
}

// RequestOTP asks the backend to send an OTP to phone. The session is not changed.
func (m *Manager) RequestOTP(ctx context.Context, phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nerrors.NewPhoneRequiredError()
	}

	err := m.api.RequestOTP(ctx, phone)
	if ctx.Err() != nil {
		return cancelled(ctx)
	}
	if err != nil {
		m.logger.WarnContext(ctx, "otp request failed", "error", err)
		return APIFailure(err, nerrors.ErrCodeAuthOTPRequest, "Failed to send OTP. Please try again.")
	}

	m.logger.InfoContext(ctx, "otp requested")
	return nil
}

// Login exchanges phone and OTP for a token, persists the profile and then
// the token, marks the session authenticated and navigates home.
func (m *Manager) Login(ctx context.Context, phone, otp string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return nerrors.NewPhoneRequiredError()
	}
	if len(otp) != OTPLength {
		return nerrors.NewOTPInvalidError()
	}

	m.mu.Lock()
	prev := m.state
	m.state = StateAuthenticating
	m.mu.Unlock()

	restore := func() {
		m.mu.Lock()
		if m.state == StateAuthenticating {
			m.state = prev
		}
		m.mu.Unlock()
	}

	res, err := m.api.Login(ctx, phone, otp)
	if ctx.Err() != nil {
		restore()
		return cancelled(ctx)
	}
	if err != nil {
		restore()
		if errors.Is(err, client.ErrTokenMissing) {
			return nerrors.NewTokenMissingError()
		}
		m.logger.WarnContext(ctx, "login failed", "error", err)
		return APIFailure(err, nerrors.ErrCodeAuthLoginFailed, "Login failed. Please check your OTP and try again.")
	}

	// a token must never sit next to another user's cached profile
	if err := m.store.SetUserData(ctx, res.User); err != nil {
		restore()
		return err
	}
	if err := m.store.SetToken(ctx, res.Token); err != nil {
		restore()
		return err
	}

	user := res.User
	m.mu.Lock()
	m.session = Session{User: &user, Authenticated: true}
	m.state = StateAuthenticated
	m.initialized = true
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.logger.InfoContext(ctx, "logged in",
		"user", user.Username,
		"roles", user.Roles,
		"token_fingerprint", tokenstore.Fingerprint(res.Token))

	m.notify(snap)
	m.nav.Navigate(HomePath)
	return nil
}

// Logout removes the token, resets the session and navigates to sign-in.
// The cached profile stays in storage. The session is reset even if the
// token could not be removed; that error is returned.
func (m *Manager) Logout(ctx context.Context) error {
	clearErr := m.store.ClearToken(ctx)

	m.mu.Lock()
	m.session = Session{}
	m.state = StateAnonymous
	snap := m.snapshotLocked()
	m.mu.Unlock()

	m.logger.InfoContext(ctx, "logged out")
	m.notify(snap)
	m.nav.Navigate(SignInPath)
	return clearErr
}

// Register creates an account. It neither logs in nor changes the session.
func (m *Manager) Register(ctx context.Context, req types.RegisterRequest, otp string) error {
	if len(otp) != OTPLength {
		return nerrors.NewOTPInvalidError()
	}

	err := m.api.Register(ctx, req, otp)
	if ctx.Err() != nil {
		return cancelled(ctx)
	}
	if err != nil {
		m.logger.WarnContext(ctx, "registration failed", "error", err)
		return APIFailure(err, nerrors.ErrCodeAuthRegisterFailed, "Registration failed. Please try again.")
	}

	m.logger.InfoContext(ctx, "registered", "user", req.Username)
	return nil
}

// Subscribe registers fn to receive a snapshot after every session change.
// fn runs on the goroutine that made the change, outside the manager's lock.
func (m *Manager) Subscribe(fn func(Session)) (unsubscribe func()) {
	m.subMu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.subMu.Lock()
			delete(m.subs, id)
			m.subMu.Unlock()
		})
	}
}

// Snapshot returns a copy of the current session
func (m *Manager) Snapshot() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

// State returns the current lifecycle state
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) snapshotLocked() Session {
	snap := m.session
	if snap.User != nil {
		u := *snap.User
		u.Roles = append([]types.Role(nil), snap.User.Roles...)
		snap.User = &u
	}
	return snap
}

func (m *Manager) notify(snap Session) {
	m.subMu.Lock()
	fns := make([]func(Session), 0, len(m.subs))
	for _, fn := range m.subs {
		fns = append(fns, fn)
	}
	m.subMu.Unlock()

	for _, fn := range fns {
		fn(snap)
	}
}

func (s Session) stateName() string {
	switch {
	case s.Loading:
		return StateUnknown.String()
	case s.Authenticated:
		return StateAuthenticated.String()
	default:
		return StateAnonymous.String()
	}
}
