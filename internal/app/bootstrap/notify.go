package bootstrap

import (
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"

	appconfig "github.com/bridgei2p/leadportal/internal/config"
	"github.com/bridgei2p/leadportal/internal/notify"
	"github.com/bridgei2p/leadportal/pkg/logging"
)

// BuildEmailSender returns the sender named by EMAIL_PROVIDER. A provider
// missing its credentials degrades to the logging stub.
func BuildEmailSender(cfg *appconfig.Config, awsCfg *aws.Config, logger *logging.Logger) notify.EmailSender {
	if logger == nil {
		logger = logging.Default()
	}
	switch cfg.EmailProvider {
	case "sendgrid":
		if s := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger); s != nil {
			return s
		}
		logger.Warn("EMAIL_PROVIDER=sendgrid but SENDGRID_API_KEY is empty; using stub sender")
	case "ses":
		if awsCfg != nil && cfg.SESFromEmail != "" {
			return notify.NewSESSender(sesv2.NewFromConfig(*awsCfg), notify.SESConfig{
				FromEmail: cfg.SESFromEmail,
				FromName:  cfg.SendGridFromName,
			}, logger)
		}
		logger.Warn("EMAIL_PROVIDER=ses but AWS config or SES_FROM_EMAIL missing; using stub sender")
	}
	return notify.NewStubEmailSender(logger)
}

// BuildLeadAlerter returns nil when SALES_ALERT_EMAILS is empty.
func BuildLeadAlerter(cfg *appconfig.Config, sender notify.EmailSender, logger *logging.Logger) *notify.LeadAlerter {
	loc, err := cfg.Location()
	if err != nil {
		loc = nil
	}
	return notify.NewLeadAlerter(sender, cfg.SalesAlertEmails, loc, logger)
}
