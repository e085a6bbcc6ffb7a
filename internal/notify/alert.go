package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bridgei2p/leadportal/internal/leads"
	"github.com/bridgei2p/leadportal/pkg/logging"
)

const alertSubjectTmpl = `New lead: {{.Name}}{{if .Company}} ({{.Company}}){{end}}`

const alertBodyTmpl = `A new consultation request came in from the website.

Name:     {{.Name}}
Company:  {{.Company}}
Website:  {{.Website}}
Email:    {{.Email}} (verified)
Phone:    {{.Phone}}
Opt-in:   {{.OptIn}}
Received: {{.Received}}
{{if .Query}}
Query:
{{.Query}}
{{end}}`

type alertData struct {
	Name     string
	Company  string
	Website  string
	Email    string
	Phone    string
	OptIn    string
	Received string
	Query    string
}

// LeadAlerter emails the sales team about each accepted lead.
type LeadAlerter struct {
	sender     EmailSender
	recipients []string
	renderer   Renderer
	loc        *time.Location
	now        func() time.Time
	logger     *logging.Logger
}

// NewLeadAlerter returns nil when there is no sender or nobody to tell.
func NewLeadAlerter(sender EmailSender, recipients []string, loc *time.Location, logger *logging.Logger) *LeadAlerter {
	var to []string
	for _, r := range recipients {
		if r = strings.TrimSpace(r); r != "" {
			to = append(to, r)
		}
	}
	if sender == nil || len(to) == 0 {
		return nil
	}
	if loc == nil {
		loc = time.Local
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &LeadAlerter{sender: sender, recipients: to, loc: loc, now: time.Now, logger: logger}
}

// LeadSubmitted sends one email per recipient. Every recipient is tried; the
// returned error joins the failures.
func (a *LeadAlerter) LeadSubmitted(ctx context.Context, lead leads.Lead) error {
	if a == nil {
		return nil
	}
	subject, body, err := a.render(lead)
	if err != nil {
		return err
	}

	var errs []error
	for _, to := range a.recipients {
		msg := EmailMessage{
			To:          to,
			Subject:     subject,
			Body:        body,
			ReplyTo:     lead.WorkEmail,
			ReplyToName: lead.FullName(),
			Category:    CategoryLeadAlert,
		}
		if err := a.sender.Send(ctx, msg); err != nil {
			errs = append(errs, fmt.Errorf("notify: alert %s: %w", to, err))
		}
	}
	if len(errs) == 0 {
		a.logger.Info("sales alert sent", "lead_id", lead.ID, "recipients", len(a.recipients))
	}
	return errors.Join(errs...)
}

func (a *LeadAlerter) render(lead leads.Lead) (string, string, error) {
	received := lead.CreatedAt.Time
	if received.IsZero() {
		received = a.now()
	}
	optIn := "No"
	if lead.OptIn {
		optIn = "Yes"
	}
	data := alertData{
		Name:     lead.FullName(),
		Company:  lead.CompanyName,
		Website:  lead.Website,
		Email:    lead.WorkEmail,
		Phone:    lead.PhoneNumber,
		OptIn:    optIn,
		Received: received.In(a.loc).Format("02 Jan 2006, 03:04 PM"),
		Query:    strings.TrimSpace(lead.Query),
	}
	subject, err := a.renderer.Render("alert_subject", alertSubjectTmpl, data)
	if err != nil {
		return "", "", err
	}
	body, err := a.renderer.Render("alert_body", alertBodyTmpl, data)
	if err != nil {
		return "", "", err
	}
	return subject, body, nil
}
