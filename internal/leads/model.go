package leads

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Lead is a sales inquiry record as returned by the backend.
type Lead struct {
	ID            string    `json:"id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	CompanyName   string    `json:"company_name"`
	Website       string    `json:"website"`
	WorkEmail     string    `json:"work_email"`
	PhoneNumber   string    `json:"phone_number"`
	Query         string    `json:"query"`
	OptIn         bool      `json:"opt_in"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     Timestamp `json:"created_at"`
}

// FullName joins first and last name the way the dashboard shows it.
func (l Lead) FullName() string {
	return strings.TrimSpace(l.FirstName + " " + l.LastName)
}

// Fields holds the user-editable values of the lead form.
type Fields struct {
	FirstName   string `json:"first_name"`
	LastName    string `json:"last_name"`
	CompanyName string `json:"company_name"`
	Website     string `json:"website"`
	WorkEmail   string `json:"work_email"`
	PhoneNumber string `json:"phone_number"`
	Query       string `json:"query"`
	OptIn       bool   `json:"opt_in"`
}

// MissingRequired lists the wire names of required fields that are blank.
// Query and opt-in are optional.
func (f Fields) MissingRequired() []string {
	var missing []string
	check := func(name, value string) {
		if strings.TrimSpace(value) == "" {
			missing = append(missing, name)
		}
	}
	check("first_name", f.FirstName)
	check("last_name", f.LastName)
	check("company_name", f.CompanyName)
	check("website", f.Website)
	check("work_email", f.WorkEmail)
	check("phone_number", f.PhoneNumber)
	return missing
}

// CreateLeadRequest is the POST /leads body. EmailVerified is always true for
// requests built with NewCreateLeadRequest.
type CreateLeadRequest struct {
	Fields
	EmailVerified bool `json:"email_verified"`
}

// NewCreateLeadRequest wraps verified form fields for submission.
func NewCreateLeadRequest(f Fields) CreateLeadRequest {
	return CreateLeadRequest{Fields: f, EmailVerified: true}
}

// Validate applies the client-side submission rules.
func (r CreateLeadRequest) Validate() error {
	if !r.EmailVerified {
		return ErrEmailNotVerified
	}
	if len(r.MissingRequired()) > 0 {
		return ErrMissingFields
	}
	if !ValidIndianMobile(r.PhoneNumber) {
		return ErrInvalidPhone
	}
	return nil
}

// Timestamp decodes the backend's created_at, which may or may not carry a
// zone offset. Naive values are read as UTC.
type Timestamp struct {
	time.Time
}

var naiveLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp accepts RFC 3339 or a naive ISO-8601 string.
func ParseTimestamp(value string) (Timestamp, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Timestamp{}, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return Timestamp{Time: t}, nil
	}
	for _, layout := range naiveLayouts {
		if t, err := time.ParseInLocation(layout, value, time.UTC); err == nil {
			return Timestamp{Time: t}, nil
		}
	}
	return Timestamp{}, fmt.Errorf("leads: unrecognised timestamp %q", value)
}

// UnmarshalJSON implements json.Unmarshaler. Unparseable values leave the
// timestamp zero rather than failing the whole lead list.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*t = Timestamp{}
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		*t = Timestamp{}
		return nil
	}
	parsed, err := ParseTimestamp(raw)
	if err != nil {
		*t = Timestamp{}
		return nil
	}
	*t = parsed
	return nil
}

// MarshalJSON implements json.Marshaler.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	if t.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}
