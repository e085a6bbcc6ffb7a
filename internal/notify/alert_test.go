package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bridgei2p/leadportal/internal/leads"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSender struct {
	sent []EmailMessage
	fail map[string]error
}

func (c *captureSender) Send(_ context.Context, msg EmailMessage) error {
	if err := c.fail[msg.To]; err != nil {
		return err
	}
	c.sent = append(c.sent, msg)
	return nil
}

func TestNewLeadAlerter_NilWithoutRecipients(t *testing.T) {
	assert.Nil(t, NewLeadAlerter(&captureSender{}, []string{" ", ""}, nil, nil))
	assert.Nil(t, NewLeadAlerter(nil, []string{"sales@bridgei2p.com"}, nil, nil))

	var a *LeadAlerter
	assert.NoError(t, a.LeadSubmitted(context.Background(), leads.Lead{}))
}

func TestLeadAlerter_SendsToEachRecipient(t *testing.T) {
	sender := &captureSender{}
	a := NewLeadAlerter(sender, []string{"sales@bridgei2p.com", " Jack.s@bridgei2p.com "}, time.UTC, nil)
	require.NotNil(t, a)

	lead := leads.Lead{
		ID:          "lead-1",
		FirstName:   "Asha",
		LastName:    "Rao",
		CompanyName: "Acme Corp",
		Website:     "acme.example",
		WorkEmail:   "asha@acme.example",
		PhoneNumber: "9876543210",
		Query:       "Need 20 seats",
		OptIn:       true,
		CreatedAt:   leads.Timestamp{Time: time.Date(2026, 10, 15, 9, 5, 0, 0, time.UTC)},
	}
	require.NoError(t, a.LeadSubmitted(context.Background(), lead))

	require.Len(t, sender.sent, 2)
	assert.Equal(t, "sales@bridgei2p.com", sender.sent[0].To)
	assert.Equal(t, "Jack.s@bridgei2p.com", sender.sent[1].To)

	msg := sender.sent[0]
	assert.Equal(t, "New lead: Asha Rao (Acme Corp)", msg.Subject)
	assert.Contains(t, msg.Body, "Email:    asha@acme.example (verified)")
	assert.Contains(t, msg.Body, "Opt-in:   Yes")
	assert.Contains(t, msg.Body, "Received: 15 Oct 2026, 09:05 AM")
	assert.Contains(t, msg.Body, "Need 20 seats")
	assert.Equal(t, "asha@acme.example", msg.ReplyTo)
	assert.Equal(t, "Asha Rao", msg.ReplyToName)
	assert.Equal(t, CategoryLeadAlert, msg.Category)
}

func TestLeadAlerter_TriesEveryRecipient(t *testing.T) {
	sender := &captureSender{fail: map[string]error{"a@bridgei2p.com": errors.New("bounced")}}
	a := NewLeadAlerter(sender, []string{"a@bridgei2p.com", "b@bridgei2p.com"}, time.UTC, nil)

	err := a.LeadSubmitted(context.Background(), leads.Lead{FirstName: "Ravi"})

	assert.ErrorContains(t, err, "bounced")
	require.Len(t, sender.sent, 1)
	assert.Equal(t, "b@bridgei2p.com", sender.sent[0].To)
	assert.Equal(t, "New lead: Ravi", sender.sent[0].Subject)
}

func TestRenderer_MissingKey(t *testing.T) {
	_, err := Renderer{}.Render("t", "{{.Nope}}", map[string]string{})
	assert.Error(t, err)

	_, err = Renderer{}.Render("t", "", nil)
	assert.Error(t, err)

	out, err := Renderer{}.Render("t", "Hi {{.Name}}", map[string]string{"Name": "Asha"})
	require.NoError(t, err)
	assert.Equal(t, "Hi Asha", out)
}
