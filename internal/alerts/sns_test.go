// internal/alerts/sns_test.go
package alerts

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meirhagag/needme/internal/common/logger"
	"github.com/meirhagag/needme/internal/models"
)

type mockSNS struct {
	lastInput *sns.PublishInput
	err       error
}

func (m *mockSNS) Publish(_ context.Context, params *sns.PublishInput, _ ...func(*sns.Options)) (*sns.PublishOutput, error) {
	m.lastInput = params
	return &sns.PublishOutput{}, m.err
}

func TestPublisher_DispatchFailed(t *testing.T) {
	mock := &mockSNS{}
	p := NewPublisherWithClient(mock, "arn:aws:sns:eu-west-1:1:needme-alerts", logger.NewNoOpLogger())

	p.DispatchFailed(context.Background(), "req-1", models.DispatchSummary{Sent: 2, Failed: 1})

	require.NotNil(t, mock.lastInput)
	assert.Equal(t, "arn:aws:sns:eu-west-1:1:needme-alerts", *mock.lastInput.TopicArn)
	assert.Contains(t, *mock.lastInput.Message, "1 of 3 notifications failed")
	assert.Contains(t, *mock.lastInput.Message, "req-1")
}

func TestPublisher_PublishErrorIsSwallowed(t *testing.T) {
	mock := &mockSNS{err: errors.New("topic gone")}
	p := NewPublisherWithClient(mock, "arn:topic", logger.NewNoOpLogger())

	// Must not panic or propagate.
	p.DispatchFailed(context.Background(), "req-2", models.DispatchSummary{Failed: 3})
	require.NotNil(t, mock.lastInput)
}
