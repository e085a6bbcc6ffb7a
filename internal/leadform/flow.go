package leadform

import (
	"context"
	"errors"
	"fmt"

	"github.com/bridgei2p/leadportal/internal/leadapi"
	"github.com/bridgei2p/leadportal/internal/leads"
	"github.com/bridgei2p/leadportal/pkg/logging"
)

var (
	// ErrBusy is returned when another action on the same form is in flight.
	ErrBusy = errors.New("leadform: another request is in flight")

	// ErrRejected is returned when the backend answered success=false.
	ErrRejected = errors.New("leadform: backend rejected the request")

	// ErrEmailChanged is returned when the work email was edited while the
	// request for the previous address was in flight.
	ErrEmailChanged = errors.New("leadform: work email changed during request")

	// ErrOTPNotRequested is returned when verifying before a code was sent.
	ErrOTPNotRequested = &leads.ValidationError{Field: "otp", Message: "Please request an OTP first"}
)

// API is the slice of the lead backend the form needs.
type API interface {
	SendOTP(ctx context.Context, email string) (bool, error)
	VerifyOTP(ctx context.Context, email, code string) (bool, error)
	CreateLead(ctx context.Context, req leads.CreateLeadRequest) (*leads.Lead, error)
}

// OTPRevealer reads back an issued code. Development deployments only.
type OTPRevealer interface {
	RevealOTP(ctx context.Context, email string) (string, error)
}

// Alerter is told about every accepted lead.
type Alerter interface {
	LeadSubmitted(ctx context.Context, lead leads.Lead) error
}

// Metrics records flow outcomes.
type Metrics interface {
	ObserveOTPRequest(outcome string)
	ObserveOTPVerification(outcome string)
	ObserveSubmission(outcome string)
}

// Flow runs the capture actions against the backend.
type Flow struct {
	api      API
	revealer OTPRevealer
	alerter  Alerter
	metrics  Metrics
	logger   *logging.Logger
}

// Option customises a Flow.
type Option func(*Flow)

// WithOTPReveal shows the issued code to the visitor after sending. Never
// enable it in production.
func WithOTPReveal(r OTPRevealer) Option {
	return func(f *Flow) { f.revealer = r }
}

// WithAlerter notifies the sales team after each accepted lead.
func WithAlerter(a Alerter) Option {
	return func(f *Flow) { f.alerter = a }
}

// WithMetrics records outcomes.
func WithMetrics(m Metrics) Option {
	return func(f *Flow) { f.metrics = m }
}

// NewFlow wires a flow to the backend.
func NewFlow(api API, logger *logging.Logger, opts ...Option) *Flow {
	if api == nil {
		panic("leadform: api required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	f := &Flow{api: api, logger: logger}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// RevealEnabled reports whether the demo OTP reveal is wired.
func (fl *Flow) RevealEnabled() bool {
	return fl.revealer != nil
}

// RequestOTP asks the backend to email a code to the form's work email. It is
// a no-op once the email is verified.
func (fl *Flow) RequestOTP(ctx context.Context, form *Form) ([]Notice, error) {
	email, err := form.beginSendOTP()
	if err != nil {
		fl.observeOTPRequest(outcomeFor(err))
		return []Notice{errorNotice(err, "")}, err
	}
	if email == "" {
		return nil, nil
	}

	ok, err := fl.api.SendOTP(ctx, email)
	applied := form.finishSendOTP(email, ok && err == nil)
	switch {
	case err != nil:
		fl.logger.Warn("send otp failed", "error", err)
		fl.observeOTPRequest("failed")
		return []Notice{errorNotice(err, "Failed to send OTP")}, fmt.Errorf("leadform: send otp: %w", err)
	case !ok:
		fl.observeOTPRequest("rejected")
		return []Notice{errorNotice(ErrRejected, "Failed to send OTP")}, ErrRejected
	case !applied:
		fl.observeOTPRequest("stale")
		return []Notice{errorNotice(ErrEmailChanged, "")}, ErrEmailChanged
	}

	fl.observeOTPRequest("sent")
	notices := []Notice{{Level: LevelSuccess, Message: "OTP sent to your email!"}}
	if fl.revealer != nil {
		// Best effort: a failed reveal has no visible effect.
		if code, err := fl.revealer.RevealOTP(ctx, email); err == nil {
			notices = append(notices, Notice{Level: LevelInfo, Message: "Demo OTP: " + code})
		} else {
			fl.logger.Debug("demo otp reveal failed", "error", err)
		}
	}
	return notices, nil
}

// VerifyOTP checks the entered code with the backend.
func (fl *Flow) VerifyOTP(ctx context.Context, form *Form) ([]Notice, error) {
	email, code, err := form.beginVerifyOTP()
	if err != nil {
		fl.observeOTPVerification(outcomeFor(err))
		return []Notice{errorNotice(err, "")}, err
	}
	if email == "" {
		return nil, nil
	}

	ok, err := fl.api.VerifyOTP(ctx, email, code)
	applied := form.finishVerifyOTP(email, ok && err == nil)
	switch {
	case err != nil:
		fl.logger.Info("otp verification failed", "error", err)
		fl.observeOTPVerification("failed")
		return []Notice{errorNotice(err, "Invalid OTP")}, fmt.Errorf("leadform: verify otp: %w", err)
	case !ok:
		fl.observeOTPVerification("rejected")
		return []Notice{errorNotice(ErrRejected, "Invalid OTP")}, ErrRejected
	case !applied:
		fl.observeOTPVerification("stale")
		return []Notice{errorNotice(ErrEmailChanged, "")}, ErrEmailChanged
	}

	fl.observeOTPVerification("verified")
	return []Notice{{Level: LevelSuccess, Message: "Email verified successfully!"}}, nil
}

// Submit sends the verified lead. On success the form is cleared.
func (fl *Flow) Submit(ctx context.Context, form *Form) ([]Notice, error) {
	req, err := form.beginSubmit()
	if err != nil {
		fl.observeSubmission(outcomeFor(err))
		return []Notice{errorNotice(err, "")}, err
	}

	created, err := fl.api.CreateLead(ctx, req)
	form.finishSubmit(err == nil)
	if err != nil {
		fl.logger.Warn("lead submission failed", "error", err)
		fl.observeSubmission("failed")
		return []Notice{errorNotice(err, "Failed to submit form")}, fmt.Errorf("leadform: submit: %w", err)
	}

	lead := leadFromRequest(req, created)
	fl.logger.Info("lead submitted", "lead_id", lead.ID, "company", lead.CompanyName, "opt_in", lead.OptIn)
	fl.observeSubmission("created")

	if fl.alerter != nil {
		if err := fl.alerter.LeadSubmitted(ctx, lead); err != nil {
			fl.logger.Warn("sales alert failed", "error", err, "lead_id", lead.ID)
		}
	}
	return []Notice{{Level: LevelSuccess, Message: "Thank you! Our team will contact you shortly."}}, nil
}

func leadFromRequest(req leads.CreateLeadRequest, created *leads.Lead) leads.Lead {
	lead := leads.Lead{
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		CompanyName:   req.CompanyName,
		Website:       req.Website,
		WorkEmail:     req.WorkEmail,
		PhoneNumber:   req.PhoneNumber,
		Query:         req.Query,
		OptIn:         req.OptIn,
		EmailVerified: req.EmailVerified,
	}
	if created != nil {
		lead.ID = created.ID
		lead.CreatedAt = created.CreatedAt
	}
	return lead
}

func (f *Form) beginSendOTP() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busyLocked() {
		return "", ErrBusy
	}
	if f.emailVerified {
		return "", nil
	}
	email := f.fields.WorkEmail
	if err := leads.ValidateEmail(email); err != nil {
		return "", err
	}
	f.submitted = false
	f.sendingOTP = true
	return email, nil
}

func (f *Form) finishSendOTP(email string, ok bool) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sendingOTP = false
	if !ok || f.fields.WorkEmail != email || f.emailVerified {
		return false
	}
	f.otpSent = true
	f.otpEmail = email
	f.code = ""
	return true
}

// beginVerifyOTP returns an empty email when the form is already verified.
func (f *Form) beginVerifyOTP() (string, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busyLocked() {
		return "", "", ErrBusy
	}
	if f.emailVerified {
		return "", "", nil
	}
	if !f.otpSent {
		return "", "", ErrOTPNotRequested
	}
	if !leads.ValidOTP(f.code) {
		return "", "", leads.ErrIncompleteOTP
	}
	f.verifyingOTP = true
	return f.otpEmail, f.code, nil
}

func (f *Form) finishVerifyOTP(email string, ok bool) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verifyingOTP = false
	if !ok || !f.otpSent || f.otpEmail != email || f.fields.WorkEmail != email {
		return false
	}
	f.emailVerified = true
	return true
}

func (f *Form) beginSubmit() (leads.CreateLeadRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.busyLocked() {
		return leads.CreateLeadRequest{}, ErrBusy
	}
	if !f.emailVerified {
		return leads.CreateLeadRequest{}, leads.ErrEmailNotVerified
	}
	req := leads.NewCreateLeadRequest(f.fields)
	if err := req.Validate(); err != nil {
		return leads.CreateLeadRequest{}, err
	}
	f.submitting = true
	return req, nil
}

func (f *Form) finishSubmit(ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false
	if ok {
		f.resetLocked()
		f.submitted = true
	}
}

func outcomeFor(err error) string {
	if errors.Is(err, ErrBusy) {
		return "busy"
	}
	return "invalid"
}

func (fl *Flow) observeOTPRequest(outcome string) {
	if fl.metrics != nil {
		fl.metrics.ObserveOTPRequest(outcome)
	}
}

func (fl *Flow) observeOTPVerification(outcome string) {
	if fl.metrics != nil {
		fl.metrics.ObserveOTPVerification(outcome)
	}
}

func (fl *Flow) observeSubmission(outcome string) {
	if fl.metrics != nil {
		fl.metrics.ObserveSubmission(outcome)
	}
}

var _ API = (*leadapi.Client)(nil)
