// internal/dispatch/aggregator_test.go
package dispatch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meirhagag/needme/internal/models"
)

func TestAggregate_AllSucceeded(t *testing.T) {
	summary := Aggregate([]models.DispatchOutcome{
		{To: "a@x.com", OK: true},
		{To: "b@x.com", OK: true},
	})

	assert.Equal(t, 2, summary.Sent)
	assert.Equal(t, 0, summary.Failed)
	assert.True(t, summary.OverallOK)
	assert.Len(t, summary.Details, 2)
}

func TestAggregate_PartialFailure(t *testing.T) {
	outcomes := []models.DispatchOutcome{
		{To: "a@x.com", OK: true},
		{To: "b@x.com", OK: false, Error: "bounced"},
		{To: "c@x.com", OK: true},
	}

	summary := Aggregate(outcomes)

	assert.Equal(t, 2, summary.Sent)
	assert.Equal(t, 1, summary.Failed)
	assert.False(t, summary.OverallOK)
	require.Len(t, summary.Details, 3)
	assert.False(t, summary.Details[1].OK, "detail order must match outcome order")
	assert.Equal(t, "b@x.com", summary.Details[1].To)
}

func TestAggregate_TotalFailure(t *testing.T) {
	summary := Aggregate([]models.DispatchOutcome{
		{To: "a@x.com", OK: false, Error: "down"},
		{To: "b@x.com", OK: false, Error: "down"},
	})

	assert.Equal(t, 0, summary.Sent)
	assert.Equal(t, 2, summary.Failed)
	assert.False(t, summary.OverallOK)
}

func TestAggregate_ZeroOutcomesIsSuccessfulNoOp(t *testing.T) {
	summary := Aggregate(nil)

	assert.Equal(t, 0, summary.Sent)
	assert.Equal(t, 0, summary.Failed)
	assert.True(t, summary.OverallOK)
	assert.Empty(t, summary.Details)
}

func TestAggregate_CopiesDetails(t *testing.T) {
	outcomes := []models.DispatchOutcome{{To: "a@x.com", OK: true}}
	summary := Aggregate(outcomes)

	outcomes[0].To = "mutated@x.com"
	assert.Equal(t, "a@x.com", summary.Details[0].To)
}

func TestCombinedError(t *testing.T) {
	assert.NoError(t, CombinedError(nil))
	assert.NoError(t, CombinedError([]models.DispatchOutcome{{To: "a@x.com", OK: true}}))

	err := CombinedError([]models.DispatchOutcome{
		{To: "a@x.com", OK: true},
		{To: "b@x.com", OK: false, Error: "bounced"},
		{To: "c@x.com", OK: false, Error: "timeout"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "b@x.com: bounced")
	assert.Contains(t, err.Error(), "c@x.com: timeout")
}
