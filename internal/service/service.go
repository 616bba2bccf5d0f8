// internal/service/service.go

// Package service orchestrates the full match-and-notify pipeline: validate
// the request, load the provider snapshot, rank, resolve targets, dispatch
// and aggregate. It is the only package that sees the whole flow.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/meirhagag/needme/internal/alerts"
	stderrors "github.com/meirhagag/needme/internal/common/errors"
	"github.com/meirhagag/needme/internal/common/logger"
	"github.com/meirhagag/needme/internal/common/metrics"
	"github.com/meirhagag/needme/internal/common/observability"
	"github.com/meirhagag/needme/internal/dispatch"
	"github.com/meirhagag/needme/internal/matching"
	"github.com/meirhagag/needme/internal/models"
	"github.com/meirhagag/needme/internal/notifier"
	"github.com/meirhagag/needme/internal/store"
)

// NoteNoEligibleTargets marks a response where the pipeline ran but found
// nobody to notify. It distinguishes "nothing to do" from "all sends
// failed" when both counts are zero.
const NoteNoEligibleTargets = "no eligible targets"

// AlertSink receives dispatch-failure alerts. alerts.Publisher is the
// production implementation; a nil sink disables alerting.
type AlertSink interface {
	DispatchFailed(ctx context.Context, requestID string, summary models.DispatchSummary)
}

var _ AlertSink = (*alerts.Publisher)(nil)

// MatchService runs the match-and-notify pipeline end to end.
type MatchService struct {
	store      store.ProviderStore
	ranker     *matching.Ranker
	dispatcher *dispatch.Dispatcher
	alerts     AlertSink
	obs        *observability.Observability
	logger     logger.Logger
}

func NewMatchService(
	s store.ProviderStore,
	ranker *matching.Ranker,
	dispatcher *dispatch.Dispatcher,
	alertSink AlertSink,
	obs *observability.Observability,
	log logger.Logger,
) *MatchService {
	if obs == nil {
		obs = &observability.Observability{}
	}
	return &MatchService{
		store:      s,
		ranker:     ranker,
		dispatcher: dispatcher,
		alerts:     alertSink,
		obs:        obs,
		logger:     log.WithFields(map[string]interface{}{"component": "match-service"}),
	}
}

// ValidateRequest checks the typed request before any scoring work. The
// category must be known and the requester address, when present, must at
// least look like an email.
func (m *MatchService) ValidateRequest(req *models.MatchRequest) error {
	if req == nil {
		return stderrors.NewInvalidRequestError("missing request")
	}
	if !models.ValidCategory(req.Category) {
		return stderrors.NewInvalidCategoryError(string(req.Category))
	}
	if req.RequesterEmail != "" && !dispatch.ValidAddress(req.RequesterEmail) {
		return stderrors.NewInvalidRequesterError(req.RequesterEmail)
	}
	return nil
}

// ProcessRequest runs one request through the pipeline and returns the
// dispatch record. Partial failure is reported through the response, not
// the error: an error return means the pipeline itself could not run.
func (m *MatchService) ProcessRequest(ctx context.Context, req *models.MatchRequest) (*models.MatchResponse, error) {
	ctx, span := m.obs.StartSpan(ctx, "match.process")
	defer span.End()

	if err := m.ValidateRequest(req); err != nil {
		category := ""
		if req != nil {
			category = string(req.Category)
		}
		metrics.MatchRequestsTotal.WithLabelValues(category, "invalid").Inc()
		m.obs.RecordMatchProcessed(ctx, "invalid")
		return nil, err
	}

	requestID := uuid.New().String()
	log := m.logger.WithFields(map[string]interface{}{"requestId": requestID})

	providers := req.Providers
	if providers == nil {
		snapshot, err := m.store.ListActiveProviders(ctx)
		if err != nil {
			metrics.MatchRequestsTotal.WithLabelValues(string(req.Category), "error").Inc()
			m.obs.RecordMatchProcessed(ctx, "error")
			return nil, stderrors.NewProviderQueryFailedError(err)
		}
		providers = snapshot
	}

	shortlist := m.ranker.Rank(req, providers)
	metrics.ProvidersMatched.Observe(float64(len(shortlist)))

	targets := dispatch.ResolveTargets(shortlist)
	if len(targets) == 0 {
		log.Info("no eligible targets", map[string]interface{}{
			"category":  string(req.Category),
			"shortlist": len(shortlist),
		})
		metrics.MatchRequestsTotal.WithLabelValues(string(req.Category), "no_targets").Inc()
		m.obs.RecordMatchProcessed(ctx, "no_targets")
		return &models.MatchResponse{
			OK:               true,
			RequestID:        requestID,
			Details:          []models.DispatchOutcome{},
			MatchedProviders: len(shortlist),
			Note:             NoteNoEligibleTargets,
		}, nil
	}

	start := time.Now()
	outcomes := m.dispatcher.Dispatch(ctx, targets, func(to string) notifier.Message {
		return BuildMessage(req, to)
	})
	summary := dispatch.Aggregate(outcomes)
	elapsed := time.Since(start)

	metrics.NotificationsSent.Add(float64(summary.Sent))
	metrics.NotificationsFailed.Add(float64(summary.Failed))
	metrics.DispatchDuration.Observe(elapsed.Seconds())

	result := "success"
	if !summary.OverallOK {
		result = "partial_failure"
		if summary.Sent == 0 {
			result = "failure"
		}
	}
	metrics.MatchRequestsTotal.WithLabelValues(string(req.Category), result).Inc()
	m.obs.RecordMatchProcessed(ctx, result)
	m.obs.RecordDispatchDuration(ctx, elapsed, result)

	log.Info("dispatch completed", map[string]interface{}{
		"category":   string(req.Category),
		"shortlist":  len(shortlist),
		"targets":    len(targets),
		"sent":       summary.Sent,
		"failed":     summary.Failed,
		"durationMs": elapsed.Milliseconds(),
	})

	if summary.Failed > 0 {
		if err := dispatch.CombinedError(outcomes); err != nil {
			log.Error("dispatch finished with failures", map[string]interface{}{
				"error": err,
			})
		}
		if m.alerts != nil {
			m.alerts.DispatchFailed(ctx, requestID, summary)
		}
	}

	return &models.MatchResponse{
		OK:               summary.OverallOK,
		RequestID:        requestID,
		Sent:             summary.Sent,
		Failed:           summary.Failed,
		Details:          summary.Details,
		MatchedProviders: len(shortlist),
	}, nil
}
