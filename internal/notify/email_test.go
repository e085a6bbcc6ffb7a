package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSendGridSender_NilWithoutAPIKey(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{FromEmail: "leads@bridgei2p.com"}, nil)
	assert.Nil(t, sender)
}

func TestNewSendGridSender_DefaultFromName(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{APIKey: "test-key", FromEmail: "leads@bridgei2p.com"}, nil)
	require.NotNil(t, sender)
	assert.Equal(t, DefaultFromName, sender.fromName)
}

func TestNewSendGridSender_CustomFromName(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{APIKey: "test-key", FromEmail: "leads@bridgei2p.com", FromName: "Sales Desk"}, nil)
	require.NotNil(t, sender)
	assert.Equal(t, "Sales Desk", sender.fromName)
}

func TestSendGridSender_Send_NilClient(t *testing.T) {
	err := (&SendGridSender{}).Send(context.Background(), EmailMessage{To: "sales@bridgei2p.com", Subject: "Test"})
	assert.Error(t, err)
}

func TestStubEmailSender_Send(t *testing.T) {
	err := NewStubEmailSender(nil).Send(context.Background(), EmailMessage{To: "sales@bridgei2p.com", Subject: "Test"})
	assert.NoError(t, err)
}

type fakeSES struct {
	input *sesv2.SendEmailInput
	err   error
}

func (f *fakeSES) SendEmail(_ context.Context, in *sesv2.SendEmailInput, _ ...func(*sesv2.Options)) (*sesv2.SendEmailOutput, error) {
	f.input = in
	if f.err != nil {
		return nil, f.err
	}
	return &sesv2.SendEmailOutput{MessageId: aws.String("msg-1")}, nil
}

func TestNewSESSender_NilClient(t *testing.T) {
	assert.Nil(t, NewSESSender(nil, SESConfig{FromEmail: "leads@bridgei2p.com"}, nil))
}

func TestSESSender_Send(t *testing.T) {
	client := &fakeSES{}
	sender := NewSESSender(client, SESConfig{FromEmail: "leads@bridgei2p.com"}, nil)
	require.NotNil(t, sender)

	err := sender.Send(context.Background(), EmailMessage{
		To:      "sales@bridgei2p.com",
		Subject: "New lead",
		Body:    "plain",
	})
	require.NoError(t, err)

	in := client.input
	require.NotNil(t, in)
	assert.Equal(t, `"Bridgei2p Leads" <leads@bridgei2p.com>`, aws.ToString(in.FromEmailAddress))
	assert.Equal(t, []string{"sales@bridgei2p.com"}, in.Destination.ToAddresses)
	assert.Equal(t, "New lead", aws.ToString(in.Content.Simple.Subject.Data))
	assert.Equal(t, "plain", aws.ToString(in.Content.Simple.Body.Text.Data))
	assert.Nil(t, in.Content.Simple.Body.Html)
	assert.Empty(t, in.ReplyToAddresses)
	assert.Empty(t, in.EmailTags)
}

func TestSESSender_ReplyToAndCategory(t *testing.T) {
	client := &fakeSES{}
	sender := NewSESSender(client, SESConfig{FromEmail: "leads@bridgei2p.com", FromName: "Bridgei2p"}, nil)

	err := sender.Send(context.Background(), EmailMessage{
		To:          "sales@bridgei2p.com",
		Subject:     "New lead",
		Body:        "plain",
		ReplyTo:     "asha@acme.example",
		ReplyToName: "Asha Rao",
		Category:    CategoryLeadAlert,
	})
	require.NoError(t, err)

	in := client.input
	assert.Equal(t, `"Bridgei2p" <leads@bridgei2p.com>`, aws.ToString(in.FromEmailAddress))
	assert.Equal(t, []string{`"Asha Rao" <asha@acme.example>`}, in.ReplyToAddresses)
	require.Len(t, in.EmailTags, 1)
	assert.Equal(t, CategoryLeadAlert, aws.ToString(in.EmailTags[0].Value))
}

func TestSendersRequireRecipient(t *testing.T) {
	ses := NewSESSender(&fakeSES{}, SESConfig{FromEmail: "leads@bridgei2p.com"}, nil)
	assert.ErrorIs(t, ses.Send(context.Background(), EmailMessage{Subject: "x"}), errNoRecipient)
	assert.ErrorIs(t, NewStubEmailSender(nil).Send(context.Background(), EmailMessage{To: " "}), errNoRecipient)
}

func TestSendGridSender_BuildsPlainTextWithReplyTo(t *testing.T) {
	sender := NewSendGridSender(SendGridConfig{APIKey: "k", FromEmail: "leads@bridgei2p.com"}, nil)
	m := sender.build(EmailMessage{
		To:          "sales@bridgei2p.com",
		Subject:     "New lead",
		Body:        "plain",
		ReplyTo:     "asha@acme.example",
		ReplyToName: "Asha Rao",
		Category:    CategoryLeadAlert,
	})

	require.Len(t, m.Personalizations, 1)
	assert.Equal(t, "sales@bridgei2p.com", m.Personalizations[0].To[0].Address)
	require.Len(t, m.Content, 1)
	assert.Equal(t, "text/plain", m.Content[0].Type)
	assert.Equal(t, "asha@acme.example", m.ReplyTo.Address)
	assert.Equal(t, []string{CategoryLeadAlert}, m.Categories)
	assert.Equal(t, DefaultFromName, m.From.Name)
}

func TestSESSender_SendError(t *testing.T) {
	sender := NewSESSender(&fakeSES{err: errors.New("throttled")}, SESConfig{FromEmail: "leads@bridgei2p.com"}, nil)
	err := sender.Send(context.Background(), EmailMessage{To: "sales@bridgei2p.com", Subject: "x", Body: "y"})
	assert.ErrorContains(t, err, "throttled")
}
