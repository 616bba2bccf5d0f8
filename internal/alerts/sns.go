// internal/alerts/sns.go

// Package alerts publishes operational alerts when a dispatch cycle ends
// with failures. Alerts are best-effort: a failed publish is logged and
// dropped, never surfaced to the requester.
package alerts

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sns"

	"github.com/meirhagag/needme/internal/common/logger"
	"github.com/meirhagag/needme/internal/models"
)

// SNSAPI is the slice of the SNS client the publisher uses.
type SNSAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Publisher raises dispatch-failure alerts on an SNS topic.
type Publisher struct {
	client   SNSAPI
	topicARN string
	logger   logger.Logger
}

func NewPublisher(ctx context.Context, region, topicARN string, log logger.Logger) (*Publisher, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &Publisher{
		client:   sns.NewFromConfig(cfg),
		topicARN: topicARN,
		logger:   log.WithFields(map[string]interface{}{"component": "alerts"}),
	}, nil
}

// NewPublisherWithClient wires an existing client, used by tests.
func NewPublisherWithClient(client SNSAPI, topicARN string, log logger.Logger) *Publisher {
	return &Publisher{
		client:   client,
		topicARN: topicARN,
		logger:   log.WithFields(map[string]interface{}{"component": "alerts"}),
	}
}

// DispatchFailed publishes a summary of a failed or partially failed
// dispatch cycle.
func (p *Publisher) DispatchFailed(ctx context.Context, requestID string, summary models.DispatchSummary) {
	msg := fmt.Sprintf(
		"NeedMe dispatch %s: %d of %d notifications failed",
		requestID, summary.Failed, summary.Sent+summary.Failed,
	)

	_, err := p.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(p.topicARN),
		Subject:  aws.String("NeedMe dispatch failure"),
		Message:  aws.String(msg),
	})
	if err != nil {
		p.logger.Error("alert publish failed", map[string]interface{}{
			"requestId": requestID,
			"error":     err,
		})
		return
	}

	p.logger.Info("dispatch failure alert published", map[string]interface{}{
		"requestId": requestID,
		"failed":    summary.Failed,
	})
}
