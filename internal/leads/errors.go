package leads

// ValidationError is a client-side check that failed before any request was
// sent. Message is shown to the visitor verbatim.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var (
	// ErrEmailRequired is returned when an OTP is requested without an email.
	ErrEmailRequired = &ValidationError{Field: "work_email", Message: "Please enter your work email first"}

	// ErrInvalidEmail is returned when the email does not look like an address.
	ErrInvalidEmail = &ValidationError{Field: "work_email", Message: "Please enter a valid email address"}

	// ErrIncompleteOTP is returned when the entered code is not six digits.
	ErrIncompleteOTP = &ValidationError{Field: "otp", Message: "Please enter the complete 6-digit OTP"}

	// ErrEmailNotVerified is returned when submitting before OTP verification.
	ErrEmailNotVerified = &ValidationError{Field: "work_email", Message: "Please verify your email first"}

	// ErrMissingFields is returned when a required field is blank.
	ErrMissingFields = &ValidationError{Message: "Please fill in all required fields"}

	// ErrInvalidPhone is returned when the phone is not an Indian mobile number.
	ErrInvalidPhone = &ValidationError{Field: "phone_number", Message: "Please enter a valid Indian phone number"}
)
