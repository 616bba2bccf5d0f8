// internal/notifier/resend.go
package notifier

import (
	"context"
	"strings"

	"github.com/resend/resend-go/v2"

	"github.com/meirhagag/needme/internal/common/logger"
)

// ResendEmails is the slice of the Resend client the notifier uses, kept
// as an interface for mocking.
type ResendEmails interface {
	SendWithContext(ctx context.Context, params *resend.SendEmailRequest) (*resend.SendEmailResponse, error)
}

// ResendNotifier sends mail through the Resend API. It is the default
// transport; SES is the alternative for AWS-hosted deployments.
type ResendNotifier struct {
	emails ResendEmails
	from   string
	logger logger.Logger
}

func NewResendNotifier(apiKey, from string, log logger.Logger) *ResendNotifier {
	return &ResendNotifier{
		emails: resend.NewClient(apiKey).Emails,
		from:   strings.TrimSpace(from),
		logger: log.WithFields(map[string]interface{}{"component": "resend-notifier"}),
	}
}

// NewResendNotifierWithClient wires an existing client, used by tests.
func NewResendNotifierWithClient(emails ResendEmails, from string, log logger.Logger) *ResendNotifier {
	return &ResendNotifier{
		emails: emails,
		from:   strings.TrimSpace(from),
		logger: log.WithFields(map[string]interface{}{"component": "resend-notifier"}),
	}
}

// Send delivers one message. Failure is reported in the result, never as a
// panic.
func (n *ResendNotifier) Send(ctx context.Context, msg Message) SendResult {
	if n.from == "" {
		return SendResult{OK: false, Error: "mail from address is not configured"}
	}

	to := normalizeRecipients(msg.To)
	if len(to) == 0 {
		return SendResult{OK: false, Error: "empty recipient"}
	}

	params := &resend.SendEmailRequest{
		From:    n.from,
		To:      to,
		Subject: msg.Subject,
		Text:    msg.TextBody,
		Html:    msg.HTMLBody,
	}
	if msg.ReplyTo != "" {
		params.ReplyTo = msg.ReplyTo
	}

	out, err := n.emails.SendWithContext(ctx, params)
	if err != nil {
		n.logger.Error("resend send failed", map[string]interface{}{
			"to":    msg.To,
			"error": err,
		})
		return SendResult{OK: false, Error: err.Error()}
	}

	id := ""
	if out != nil {
		id = out.Id
	}
	return SendResult{OK: true, ID: id}
}
