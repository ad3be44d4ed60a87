package session

import (
	"strings"
	"sync"

	nerrors "github.com/felixgeelhaar/newsdesk/internal/errors"
	"github.com/felixgeelhaar/newsdesk/pkg/newsdesk/types"
)

// FlowKind selects what Submit does once the OTP is entered
type FlowKind int

const (
	SignInFlow FlowKind = iota
	SignUpFlow
)

// FlowState is a copy of an OTPFlow's view-local state
type FlowState struct {
	Phone   string
	OTPSent bool
	Busy    bool
	Err     string
}

// OTPFlow is the two-step phone then OTP form behind sign-in and sign-up.
// Once the OTP has been sent the phone number and registration details are frozen.
type OTPFlow struct {
	m     *Manager
	kind  FlowKind
	scope *Scope

	mu      sync.Mutex
	phone   string
	reg     types.RegisterRequest
	otpSent bool
	busy    bool
	err     error
}

// NewOTPFlow creates a flow whose calls live as long as scope
func NewOTPFlow(m *Manager, kind FlowKind, scope *Scope) *OTPFlow {
	return &OTPFlow{m: m, kind: kind, scope: scope}
}

// SetPhone edits the phone number. Rejected with ErrPhoneLocked after the OTP was sent.
func (f *OTPFlow) SetPhone(phone string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.otpSent {
		return ErrPhoneLocked
	}
	f.phone = strings.TrimSpace(phone)
	return nil
}

// SetRegistration edits the sign-up details. Locked like the phone number.
func (f *OTPFlow) SetRegistration(req types.RegisterRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.otpSent {
		return ErrPhoneLocked
	}
	f.reg = req
	if req.PhoneNumber != "" {
		f.phone = strings.TrimSpace(req.PhoneNumber)
	}
	return nil
}

// SendOTP requests the OTP and switches the flow to OTP entry.
// Once in OTP entry further calls do nothing.
func (f *OTPFlow) SendOTP() error {
	f.mu.Lock()
	if f.otpSent {
		f.mu.Unlock()
		return nil
	}
	if f.busy {
		f.mu.Unlock()
		return ErrBusy
	}
	f.busy = true
	f.err = nil
	phone := f.phone
	f.mu.Unlock()

	err := f.m.RequestOTP(f.scope.Context(), phone)
	return f.finish(err, func() { f.otpSent = true })
}

// Submit sends the OTP: a login for sign-in flows, a registration followed by
// navigation to sign-in for sign-up flows.
func (f *OTPFlow) Submit(otp string) error {
	f.mu.Lock()
	if !f.otpSent {
		f.mu.Unlock()
		return nerrors.New(nerrors.ErrCodeOTPNotRequested, "request an OTP first")
	}
	if f.busy {
		f.mu.Unlock()
		return ErrBusy
	}
	f.busy = true
	f.err = nil
	phone, reg := f.phone, f.reg
	f.mu.Unlock()

	ctx := f.scope.Context()
	otp = strings.TrimSpace(otp)

	var err error
	switch f.kind {
	case SignUpFlow:
		reg.PhoneNumber = phone
		err = f.m.Register(ctx, reg, otp)
		if err == nil {
			f.m.nav.Navigate(SignInPath)
		}
	default:
		err = f.m.Login(ctx, phone, otp)
	}
	return f.finish(err, nil)
}

// State returns a copy of the flow state
func (f *OTPFlow) State() FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()

	return FlowState{
		Phone:   f.phone,
		OTPSent: f.otpSent,
		Busy:    f.busy,
		Err:     UserMessage(f.err),
	}
}

// finish records the outcome of a call unless the scope has been closed
func (f *OTPFlow) finish(err error, onSuccess func()) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.busy = false
	if f.scope.Closed() {
		return err
	}
	if err != nil {
		f.err = err
		return err
	}
	if onSuccess != nil {
		onSuccess()
	}
	return nil
}
