// internal/notifier/ses.go
package notifier

import (
	"context"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/meirhagag/needme/internal/common/logger"
)

// SESAPI is the slice of the SES client the notifier uses, kept as an
// interface for mocking.
type SESAPI interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESNotifier sends mail through AWS SES. The From address comes from
// configuration and is required; sends fail fast without it.
type SESNotifier struct {
	client SESAPI
	from   string
	logger logger.Logger
}

func NewSESNotifier(ctx context.Context, region, from string, log logger.Logger) (*SESNotifier, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &SESNotifier{
		client: ses.NewFromConfig(cfg),
		from:   strings.TrimSpace(from),
		logger: log.WithFields(map[string]interface{}{"component": "ses-notifier"}),
	}, nil
}

// NewSESNotifierWithClient wires an existing client, used by tests.
func NewSESNotifierWithClient(client SESAPI, from string, log logger.Logger) *SESNotifier {
	return &SESNotifier{
		client: client,
		from:   strings.TrimSpace(from),
		logger: log.WithFields(map[string]interface{}{"component": "ses-notifier"}),
	}
}

// Send delivers one message. Failure is reported in the result, never as a
// panic, so one bad recipient cannot take down a dispatch batch.
func (n *SESNotifier) Send(ctx context.Context, msg Message) SendResult {
	if n.from == "" {
		return SendResult{OK: false, Error: "mail from address is not configured"}
	}

	to := normalizeRecipients(msg.To)
	if len(to) == 0 {
		return SendResult{OK: false, Error: "empty recipient"}
	}

	body := &types.Body{}
	if msg.TextBody != "" {
		body.Text = &types.Content{Data: aws.String(msg.TextBody)}
	}
	if msg.HTMLBody != "" {
		body.Html = &types.Content{Data: aws.String(msg.HTMLBody)}
	}

	input := &ses.SendEmailInput{
		Destination: &types.Destination{ToAddresses: to},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(msg.Subject)},
			Body:    body,
		},
		Source: aws.String(n.from),
	}
	if msg.ReplyTo != "" {
		input.ReplyToAddresses = normalizeRecipients(msg.ReplyTo)
	}

	out, err := n.client.SendEmail(ctx, input)
	if err != nil {
		n.logger.Error("ses send failed", map[string]interface{}{
			"to":    msg.To,
			"error": err,
		})
		return SendResult{OK: false, Error: err.Error()}
	}

	id := ""
	if out != nil && out.MessageId != nil {
		id = *out.MessageId
	}
	return SendResult{OK: true, ID: id}
}

// normalizeRecipients splits a comma-separated recipient string into a
// clean address list.
func normalizeRecipients(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
