// internal/dispatch/dispatcher.go
package dispatch

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/meirhagag/needme/internal/common/logger"
	"github.com/meirhagag/needme/internal/models"
	"github.com/meirhagag/needme/internal/notifier"
)

// DefaultMaxConcurrent bounds in-flight sends. It must stay at or above
// the shortlist cap so a normal dispatch batch starts every send without
// waiting.
const DefaultMaxConcurrent = 32

// MessageBuilder produces the notification for one target address.
type MessageBuilder func(to string) notifier.Message

// Dispatcher sends one notification per unique target concurrently. One
// send's failure never cancels, delays or alters the outcome of another;
// every target settles into exactly one outcome.
type Dispatcher struct {
	notifier      notifier.Notifier
	maxConcurrent int64
	logger        logger.Logger
}

func NewDispatcher(n notifier.Notifier, maxConcurrent int, log logger.Logger) *Dispatcher {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrent
	}
	return &Dispatcher{
		notifier:      n,
		maxConcurrent: int64(maxConcurrent),
		logger:        log.WithFields(map[string]interface{}{"component": "dispatcher"}),
	}
}

// Dispatch runs one send per target and returns the outcomes in target
// order. The whole batch always runs to completion; no timeout is imposed
// here and no retry is attempted.
func (d *Dispatcher) Dispatch(ctx context.Context, targets []string, build MessageBuilder) []models.DispatchOutcome {
	outcomes := make([]models.DispatchOutcome, len(targets))
	if len(targets) == 0 {
		return outcomes
	}

	sem := semaphore.NewWeighted(d.maxConcurrent)
	var wg sync.WaitGroup

	for i, target := range targets {
		// Acquire with context.Background: a batch in flight is never
		// preempted, even if the caller's context dies mid-dispatch.
		if err := sem.Acquire(context.Background(), 1); err != nil {
			outcomes[i] = models.DispatchOutcome{To: target, OK: false, Error: err.Error()}
			continue
		}

		wg.Add(1)
		go func(slot int, to string) {
			defer wg.Done()
			defer sem.Release(1)
			outcomes[slot] = d.sendOne(ctx, to, build)
		}(i, target)
	}

	wg.Wait()
	return outcomes
}

// sendOne invokes the notifier for a single target. A panicking notifier
// is converted into a failed outcome so it cannot abort the batch.
func (d *Dispatcher) sendOne(ctx context.Context, to string, build MessageBuilder) (outcome models.DispatchOutcome) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("notifier panicked", map[string]interface{}{
				"to":    to,
				"panic": fmt.Sprintf("%v", r),
			})
			outcome = models.DispatchOutcome{
				To:    to,
				OK:    false,
				Error: fmt.Sprintf("notifier panic: %v", r),
			}
		}
	}()

	res := d.notifier.Send(ctx, build(to))
	if !res.OK {
		errMsg := res.Error
		if errMsg == "" {
			errMsg = "send failed"
		}
		d.logger.Warn("notification send failed", map[string]interface{}{
			"to":    to,
			"error": errMsg,
		})
		return models.DispatchOutcome{To: to, OK: false, Error: errMsg}
	}

	d.logger.Debug("notification sent", map[string]interface{}{
		"to":        to,
		"messageId": res.ID,
	})
	return models.DispatchOutcome{To: to, OK: true}
}
