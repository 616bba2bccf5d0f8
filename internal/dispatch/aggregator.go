// internal/dispatch/aggregator.go
package dispatch

import (
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/meirhagag/needme/internal/models"
)

// Aggregate reduces per-target outcomes into counts plus the ordered
// detail list. Zero outcomes is a valid input and aggregates to a
// successful no-op.
func Aggregate(outcomes []models.DispatchOutcome) models.DispatchSummary {
	summary := models.DispatchSummary{
		Details: make([]models.DispatchOutcome, len(outcomes)),
	}
	copy(summary.Details, outcomes)

	for _, o := range outcomes {
		if o.OK {
			summary.Sent++
		} else {
			summary.Failed++
		}
	}
	summary.OverallOK = summary.Failed == 0
	return summary
}

// CombinedError flattens the failed outcomes into one error for logging.
// It is diagnostic only; control flow always goes through the summary.
func CombinedError(outcomes []models.DispatchOutcome) error {
	var result *multierror.Error
	for _, o := range outcomes {
		if !o.OK {
			result = multierror.Append(result, fmt.Errorf("%s: %s", o.To, o.Error))
		}
	}
	return result.ErrorOrNil()
}
