package leadform

import (
	"fmt"
	"strings"
	"sync"

	"github.com/bridgei2p/leadportal/internal/leads"
)

// Step is the position of a form in the capture flow.
type Step string

const (
	StepEditing       Step = "editing"
	StepOTPRequested  Step = "otp_requested"
	StepOTPSent       Step = "otp_sent"
	StepEmailVerified Step = "email_verified"
	StepSubmitting    Step = "submitting"
	StepSubmitted     Step = "submitted"
)

// Form is one visitor's lead form. It is safe for concurrent use; remote
// calls run outside the lock with the matching in-flight flag set.
type Form struct {
	mu sync.Mutex

	fields        leads.Fields
	otpSent       bool
	emailVerified bool
	code          string
	otpEmail      string
	submitted     bool

	sendingOTP   bool
	verifyingOTP bool
	submitting   bool
}

// New returns an empty form in the editing step.
func New() *Form {
	return &Form{}
}

// Snapshot is the persistable part of a Form. In-flight flags are left out
// so a crashed request can never leave a form stuck.
type Snapshot struct {
	Fields        leads.Fields `json:"fields"`
	OTPSent       bool         `json:"otp_sent"`
	EmailVerified bool         `json:"email_verified"`
	Code          string       `json:"code,omitempty"`
	OTPEmail      string       `json:"otp_email,omitempty"`
	Submitted     bool         `json:"submitted,omitempty"`
}

// FromSnapshot rebuilds a form from stored state.
func FromSnapshot(s Snapshot) *Form {
	return &Form{
		fields:        s.Fields,
		otpSent:       s.OTPSent,
		emailVerified: s.EmailVerified,
		code:          s.Code,
		otpEmail:      s.OTPEmail,
		submitted:     s.Submitted,
	}
}

// Snapshot copies the persistable state.
func (f *Form) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snapshotLocked()
}

func (f *Form) snapshotLocked() Snapshot {
	return Snapshot{
		Fields:        f.fields,
		OTPSent:       f.otpSent,
		EmailVerified: f.emailVerified,
		Code:          f.code,
		OTPEmail:      f.otpEmail,
		Submitted:     f.submitted,
	}
}

// View is a consistent read of the form for rendering.
type View struct {
	Snapshot
	Step          Step
	SendingOTP    bool
	VerifyingOTP  bool
	Submitting    bool
	EmailLocked   bool
	ShowOTPInput  bool
	CanRequestOTP bool
	CanVerify     bool
	CanSubmit     bool
	SendLabel     string
	VerifyLabel   string
	SubmitLabel   string
	// DefaultAction is what pressing Enter in a field should do.
	DefaultAction string
}

// View returns the current render state.
func (f *Form) View() View {
	f.mu.Lock()
	defer f.mu.Unlock()

	v := View{
		Snapshot:      f.snapshotLocked(),
		Step:          f.stepLocked(),
		SendingOTP:    f.sendingOTP,
		VerifyingOTP:  f.verifyingOTP,
		Submitting:    f.submitting,
		EmailLocked:   f.emailVerified,
		ShowOTPInput:  f.otpSent && !f.emailVerified,
		CanRequestOTP: f.canRequestOTPLocked(),
		CanVerify:     f.canVerifyLocked(),
		CanSubmit:     f.canSubmitLocked(),
		SendLabel:     "Send OTP",
		VerifyLabel:   "Verify",
		SubmitLabel:   "Request Free Consultation",
		DefaultAction: "update",
	}
	switch {
	case v.ShowOTPInput:
		v.DefaultAction = "verify_otp"
	case v.EmailLocked:
		v.DefaultAction = "submit"
	}
	switch {
	case f.sendingOTP:
		v.SendLabel = "Sending..."
	case f.otpSent:
		v.SendLabel = "Resend OTP"
	}
	if f.verifyingOTP {
		v.VerifyLabel = "Verifying..."
	}
	if f.submitting {
		v.SubmitLabel = "Submitting..."
	}
	return v
}

// Step derives the flow position from the flags.
func (f *Form) Step() Step {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stepLocked()
}

func (f *Form) stepLocked() Step {
	switch {
	case f.submitting:
		return StepSubmitting
	case f.emailVerified:
		return StepEmailVerified
	case f.sendingOTP:
		return StepOTPRequested
	case f.otpSent:
		return StepOTPSent
	case f.submitted:
		return StepSubmitted
	default:
		return StepEditing
	}
}

// Fields returns the current field values.
func (f *Form) Fields() leads.Fields {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fields
}

// Code returns the entered OTP digits.
func (f *Form) Code() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.code
}

func (f *Form) OTPSent() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.otpSent
}

func (f *Form) EmailVerified() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.emailVerified
}

func (f *Form) SendingOTP() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sendingOTP
}

func (f *Form) VerifyingOTP() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.verifyingOTP
}

func (f *Form) Submitting() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitting
}

// CanRequestOTP reports whether the send control is enabled.
func (f *Form) CanRequestOTP() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.canRequestOTPLocked()
}

// CanVerify reports whether the verify control is enabled. It is false for
// any code that is not exactly six digits.
func (f *Form) CanVerify() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.canVerifyLocked()
}

// CanSubmit reports whether the submit control is enabled.
func (f *Form) CanSubmit() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.canSubmitLocked()
}

func (f *Form) busyLocked() bool {
	return f.sendingOTP || f.verifyingOTP || f.submitting
}

func (f *Form) canRequestOTPLocked() bool {
	return !f.busyLocked() && !f.emailVerified && f.fields.WorkEmail != ""
}

func (f *Form) canVerifyLocked() bool {
	return !f.busyLocked() && f.otpSent && !f.emailVerified && leads.ValidOTP(f.code)
}

func (f *Form) canSubmitLocked() bool {
	return !f.busyLocked() && f.emailVerified
}

// Update replaces every field. A changed work email drops any issued OTP and
// any verification.
func (f *Form) Update(fields leads.Fields) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = false
	f.setEmailLocked(fields.WorkEmail)
	fields.WorkEmail = f.fields.WorkEmail
	f.fields = fields
}

// SetField edits one field by its wire name.
func (f *Form) SetField(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitted = false
	switch name {
	case "first_name":
		f.fields.FirstName = value
	case "last_name":
		f.fields.LastName = value
	case "company_name":
		f.fields.CompanyName = value
	case "website":
		f.fields.Website = value
	case "work_email":
		f.setEmailLocked(value)
	case "phone_number":
		f.fields.PhoneNumber = value
	case "query":
		f.fields.Query = value
	case "opt_in":
		f.fields.OptIn = isChecked(value)
	default:
		return fmt.Errorf("leadform: unknown field %q", name)
	}
	return nil
}

// SetOptIn sets the marketing consent flag.
func (f *Form) SetOptIn(optIn bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fields.OptIn = optIn
}

// SetCode stores the entered OTP, keeping at most six digits.
func (f *Form) SetCode(code string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.code = leads.SanitizeOTP(code)
}

// ChangeEmail unlocks a verified email for editing.
func (f *Form) ChangeEmail() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetVerificationLocked()
}

// Reset clears every field and flag. In-flight flags are left to the
// requests that own them.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetLocked()
}

func (f *Form) resetLocked() {
	f.fields = leads.Fields{}
	f.submitted = false
	f.resetVerificationLocked()
}

func (f *Form) setEmailLocked(email string) {
	if email == f.fields.WorkEmail {
		return
	}
	f.fields.WorkEmail = email
	if f.otpSent || f.emailVerified {
		f.resetVerificationLocked()
	}
}

func (f *Form) resetVerificationLocked() {
	f.otpSent = false
	f.emailVerified = false
	f.code = ""
	f.otpEmail = ""
}

func isChecked(value string) bool {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}
