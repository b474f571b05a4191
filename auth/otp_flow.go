package auth

import (
	"context"
	"sync"
	"time"

	apperrors "github.com/jrsteele09/anpr-client/internal/errors"
	"github.com/jrsteele09/anpr-client/internal/schedule"
	"github.com/jrsteele09/anpr-client/sessions"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	defaultResendCooldown  = 60 * time.Second
	defaultAutoSubmitDelay = 100 * time.Millisecond
)

var ErrResendDisabled = apperrors.ErrResendDisabled

type State int

const (
	StateEntering State = iota
	StateVerifying
	StateVerified
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateEntering:
		return "entering"
	case StateVerifying:
		return "verifying"
	case StateVerified:
		return "verified"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Result is delivered to the OnResult subscriber after every verification attempt.
type Result struct {
	Session sessions.AuthSession
	Err     error
}

// Cooldown is the resend countdown as the UI shows it.
type Cooldown struct {
	SecondsRemaining int
	ResendDisabled   bool
}

// FlowDeps holds the collaborators of an OtpFlow.
type FlowDeps struct {
	Gateway   Gateway            // Parking API
	Store     sessions.Store     // Where the verified session is persisted
	Scheduler schedule.Scheduler // Cooldown ticks and auto-submit debounce
}

// OtpFlow drives one verification attempt: code entry, auto-submit, verification and resend.
// Timer callbacks run on the scheduler's goroutines, so all state sits behind mu.
type OtpFlow struct {
	mu      sync.Mutex
	deps    FlowDeps
	pending PendingVerification

	code          OtpCode
	state         State
	lastErr       error
	autoSubmitted string
	debounce      schedule.Task

	cooldown       time.Duration
	autoSubmitWait time.Duration
	countdown      *schedule.Countdown
	countdownGen   int
	remaining      int
	resendDisabled bool

	onResult          func(Result)
	onResendAvailable func()

	ctx    context.Context
	cancel context.CancelFunc
	closed bool
}

// OtpFlowOption defines a function type to modify the OtpFlow instance.
type OtpFlowOption func(*OtpFlow)

// WithResendCooldown sets the resend countdown, rounded down to whole seconds (minimum one).
func WithResendCooldown(d time.Duration) OtpFlowOption {
	return func(f *OtpFlow) {
		f.cooldown = d
	}
}

func WithAutoSubmitDelay(d time.Duration) OtpFlowOption {
	return func(f *OtpFlow) {
		f.autoSubmitWait = d
	}
}

// WithBaseContext sets the context used by auto-submitted verifications. Close cancels it.
func WithBaseContext(ctx context.Context) OtpFlowOption {
	return func(f *OtpFlow) {
		f.ctx = ctx
	}
}

func NewOtpFlow(pending PendingVerification, deps FlowDeps, options ...OtpFlowOption) (*OtpFlow, error) {
	if err := NewValidator().ValidatePendingVerification(pending); err != nil {
		return nil, err
	}
	if deps.Gateway == nil {
		return nil, errors.New("[NewOtpFlow] gateway is required")
	}
	if deps.Store == nil {
		return nil, errors.New("[NewOtpFlow] session store is required")
	}
	if deps.Scheduler == nil {
		return nil, errors.New("[NewOtpFlow] scheduler is required")
	}

	f := &OtpFlow{
		deps:           deps,
		pending:        pending,
		state:          StateEntering,
		cooldown:       defaultResendCooldown,
		autoSubmitWait: defaultAutoSubmitDelay,
		ctx:            context.Background(),
	}
	for _, opt := range options {
		opt(f)
	}
	f.ctx, f.cancel = context.WithCancel(f.ctx)
	return f, nil
}

// OnResult registers the single subscriber for verification outcomes.
func (f *OtpFlow) OnResult(fn func(Result)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onResult = fn
}

// OnResendAvailable registers a callback fired when a cooldown reaches zero.
func (f *OtpFlow) OnResendAvailable(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onResendAvailable = fn
}

// Start enters code entry and starts the resend cooldown.
func (f *OtpFlow) Start() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return apperrors.ErrFlowClosed
	}
	f.state = StateEntering
	f.code.Reset()
	f.startCountdownLocked()
	return nil
}

// Close releases the cooldown ticker and the pending auto-submit, and cancels in-flight auto-submits.
func (f *OtpFlow) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return
	}
	f.closed = true
	f.stopDebounceLocked()
	if f.countdown != nil {
		f.countdown.Stop()
	}
	f.cancel()
}

// EnterDigit handles input in slot i. A digit in the last slot schedules the auto-submit.
func (f *OtpFlow) EnterDigit(i int, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.editableLocked(); err != nil {
		return err
	}
	if f.state == StateFailed {
		f.state = StateEntering
	}
	if err := f.code.Enter(i, value); err != nil {
		return err
	}
	if i == CodeLength-1 && value != "" {
		f.scheduleAutoSubmitLocked()
	}
	return nil
}

func (f *OtpFlow) Backspace(i int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.editableLocked(); err != nil {
		return err
	}
	f.code.Backspace(i)
	return nil
}

// MoveFocus is arrow-key navigation.
func (f *OtpFlow) MoveFocus(i int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.code.SetFocus(i)
}

// Paste fills the form from exactly six digits and schedules the auto-submit.
func (f *OtpFlow) Paste(text string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.editableLocked() != nil {
		return false
	}
	if !f.code.Paste(text) {
		return false
	}
	f.state = StateEntering
	f.scheduleAutoSubmitLocked()
	return true
}

// Submit verifies the entered code. An incomplete form is a *ValidationError and never
// reaches the network. On success the session is saved to the store; on failure the form
// is cleared and focus returns to the first slot.
func (f *OtpFlow) Submit(ctx context.Context) (sessions.AuthSession, error) {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return sessions.AuthSession{}, apperrors.ErrFlowClosed
	}
	if f.state == StateVerifying || f.state == StateVerified {
		state := f.state
		f.mu.Unlock()
		return sessions.AuthSession{}, &ValidationError{Field: "code", Message: "verification already " + state.String()}
	}
	if !f.code.Complete() {
		f.mu.Unlock()
		return sessions.AuthSession{}, &ValidationError{Field: "code", Message: "please enter the 6 digit code", Err: apperrors.ErrIncompleteCode}
	}
	code := f.code.Code()
	pending := f.pending
	f.state = StateVerifying
	f.stopDebounceLocked()
	f.mu.Unlock()

	session, err := f.verify(ctx, pending, code)

	f.mu.Lock()
	if err != nil {
		f.state = StateFailed
		f.lastErr = err
		f.code.Reset()
		f.autoSubmitted = ""
	} else {
		f.state = StateVerified
		f.lastErr = nil
		if f.countdown != nil {
			f.countdown.Stop()
		}
	}
	onResult := f.onResult
	f.mu.Unlock()

	if onResult != nil {
		onResult(Result{Session: session, Err: err})
	}
	return session, err
}

func (f *OtpFlow) verify(ctx context.Context, pending PendingVerification, code string) (sessions.AuthSession, error) {
	resp, err := f.deps.Gateway.VerifyOtp(ctx, VerificationRequest{UserID: pending.UserID, Code: code})
	if err != nil {
		log.Err(err).Int64("user_id", pending.UserID).Msg("OTP verification request failed")
		return sessions.AuthSession{}, authErrorFrom(err, genericVerifyMessage)
	}

	session, err := Materialize(resp, pending.Username)
	if err != nil {
		log.Info().Int64("user_id", pending.UserID).Str("message", UserMessage(err)).Msg("OTP verification refused")
		return sessions.AuthSession{}, err
	}

	if err := f.deps.Store.Save(session); err != nil {
		log.Err(err).Int64("user_id", pending.UserID).Msg("Failed to persist session")
		return sessions.AuthSession{}, &AuthError{Message: "could not save the session", Err: err}
	}
	log.Info().Int64("user_id", session.UserID).Int("roles", len(session.RolesByParking)).Msg("Session started")
	return session, nil
}

// Resend asks the server for a new code. It is refused with ErrResendDisabled while the
// cooldown runs. Success clears the form and restarts the cooldown.
func (f *OtpFlow) Resend(ctx context.Context) error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return apperrors.ErrFlowClosed
	}
	if f.resendDisabled || f.state == StateVerifying || f.state == StateVerified {
		f.mu.Unlock()
		return ErrResendDisabled
	}
	pending := f.pending
	f.mu.Unlock()

	env, err := f.deps.Gateway.Login(ctx, LoginRequest{Username: pending.Username, Password: pending.Password})
	if err != nil {
		log.Err(err).Int64("user_id", pending.UserID).Msg("Resend failed")
		return authErrorFrom(err, "could not resend the code, try again")
	}
	if !env.Success {
		return &AuthError{Message: firstNonEmpty(env.Message, "could not resend the code, try again")}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return apperrors.ErrFlowClosed
	}
	if env.Data.UserID != 0 {
		f.pending.UserID = env.Data.UserID
	}
	f.state = StateEntering
	f.lastErr = nil
	f.code.Reset()
	f.autoSubmitted = ""
	f.stopDebounceLocked()
	f.startCountdownLocked()
	log.Info().Int64("user_id", f.pending.UserID).Msg("Verification code resent")
	return nil
}

func (f *OtpFlow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Code returns a copy of the entry form.
func (f *OtpFlow) Code() OtpCode {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.code
}

func (f *OtpFlow) LastError() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastErr
}

func (f *OtpFlow) ResendCooldown() Cooldown {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Cooldown{SecondsRemaining: f.remaining, ResendDisabled: f.resendDisabled}
}

func (f *OtpFlow) editableLocked() error {
	if f.closed {
		return apperrors.ErrFlowClosed
	}
	if f.state == StateVerifying || f.state == StateVerified {
		return &ValidationError{Field: "code", Message: "verification already " + f.state.String()}
	}
	return nil
}

func (f *OtpFlow) scheduleAutoSubmitLocked() {
	f.stopDebounceLocked()
	f.debounce = f.deps.Scheduler.After(f.autoSubmitWait, f.autoSubmit)
}

func (f *OtpFlow) stopDebounceLocked() {
	if f.debounce != nil {
		f.debounce.Stop()
		f.debounce = nil
	}
}

// autoSubmit submits a completed form once; the same completed code is not sent twice.
func (f *OtpFlow) autoSubmit() {
	f.mu.Lock()
	f.debounce = nil
	if f.closed || (f.state != StateEntering && f.state != StateFailed) || !f.code.Complete() {
		f.mu.Unlock()
		return
	}
	code := f.code.Code()
	if code == f.autoSubmitted {
		f.mu.Unlock()
		return
	}
	f.autoSubmitted = code
	ctx := f.ctx
	f.mu.Unlock()

	_, _ = f.Submit(ctx)
}

func (f *OtpFlow) startCountdownLocked() {
	if f.countdown != nil {
		f.countdown.Stop()
	}
	seconds := max(int(f.cooldown/time.Second), 1)
	f.countdownGen++
	gen := f.countdownGen
	f.remaining = seconds
	f.resendDisabled = true
	f.countdown = schedule.StartCountdown(f.deps.Scheduler, seconds,
		func(remaining int) { f.countdownTick(gen, remaining) },
		func() { f.countdownDone(gen) },
	)
}

func (f *OtpFlow) countdownTick(gen, remaining int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.countdownGen {
		return
	}
	f.remaining = remaining
}

func (f *OtpFlow) countdownDone(gen int) {
	f.mu.Lock()
	if gen != f.countdownGen || f.closed {
		f.mu.Unlock()
		return
	}
	f.remaining = 0
	f.resendDisabled = false
	onResendAvailable := f.onResendAvailable
	f.mu.Unlock()

	if onResendAvailable != nil {
		onResendAvailable()
	}
}
