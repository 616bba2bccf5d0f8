// internal/service/service_test.go
package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "github.com/meirhagag/needme/internal/common/errors"
	"github.com/meirhagag/needme/internal/common/logger"
	"github.com/meirhagag/needme/internal/dispatch"
	"github.com/meirhagag/needme/internal/matching"
	"github.com/meirhagag/needme/internal/models"
	"github.com/meirhagag/needme/internal/notifier"
	"github.com/meirhagag/needme/internal/store"
)

type fakeNotifier struct {
	mu      sync.Mutex
	sent    []notifier.Message
	failFor map[string]bool
}

func (f *fakeNotifier) Send(_ context.Context, msg notifier.Message) notifier.SendResult {
	f.mu.Lock()
	f.sent = append(f.sent, msg)
	f.mu.Unlock()
	if f.failFor[msg.To] {
		return notifier.SendResult{OK: false, Error: "mailbox unavailable"}
	}
	return notifier.SendResult{OK: true, ID: "msg-1"}
}

type fakeStore struct {
	providers []models.Provider
	err       error
	listCalls int
}

func (f *fakeStore) ListActiveProviders(_ context.Context) ([]models.Provider, error) {
	f.listCalls++
	return f.providers, f.err
}

func (f *fakeStore) ListAllProviders(_ context.Context) ([]models.Provider, error) {
	return f.providers, f.err
}

func (f *fakeStore) UpsertProviders(_ context.Context, providers []models.Provider) (int, error) {
	return len(providers), nil
}

func (f *fakeStore) CountProviders(_ context.Context) (int, error) {
	return len(f.providers), nil
}

var _ store.ProviderStore = (*fakeStore)(nil)

type recordingAlerts struct {
	calls     int
	requestID string
	summary   models.DispatchSummary
}

func (r *recordingAlerts) DispatchFailed(_ context.Context, requestID string, summary models.DispatchSummary) {
	r.calls++
	r.requestID = requestID
	r.summary = summary
}

func newService(t *testing.T, s store.ProviderStore, n notifier.Notifier, sink AlertSink) *MatchService {
	t.Helper()
	log := logger.NewNoOpLogger()
	ranker := matching.NewRanker(matching.NewScorer(matching.DefaultWeights()), matching.DefaultShortlistCap, log)
	dispatcher := dispatch.NewDispatcher(n, dispatch.DefaultMaxConcurrent, log)
	return NewMatchService(s, ranker, dispatcher, sink, nil, log)
}

func serviceProvider(org, email string) models.Provider {
	return models.Provider{
		OrgName:    org,
		Email:      email,
		Categories: "service",
		Regions:    "center",
		Active:     true,
	}
}

func baseRequest(providers ...models.Provider) *models.MatchRequest {
	return &models.MatchRequest{
		Category:       models.CategoryService,
		Region:         "center",
		Title:          "Fix ceiling fan",
		RequesterName:  "Dana",
		RequesterEmail: "dana@x.com",
		Providers:      providers,
	}
}

func TestProcessRequest_AllSent(t *testing.T) {
	n := &fakeNotifier{}
	svc := newService(t, &fakeStore{}, n, nil)

	resp, err := svc.ProcessRequest(context.Background(), baseRequest(
		serviceProvider("Acme", "acme@x.com"),
		serviceProvider("Beta", "beta@x.com"),
	))

	require.NoError(t, err)
	assert.True(t, resp.OK)
	assert.Equal(t, 2, resp.Sent)
	assert.Equal(t, 0, resp.Failed)
	assert.Equal(t, 2, resp.MatchedProviders)
	assert.NotEmpty(t, resp.RequestID)
	assert.Empty(t, resp.Note)
	assert.Len(t, n.sent, 2)
}

func TestProcessRequest_PartialFailure(t *testing.T) {
	n := &fakeNotifier{failFor: map[string]bool{"beta@x.com": true}}
	sink := &recordingAlerts{}
	svc := newService(t, &fakeStore{}, n, sink)

	resp, err := svc.ProcessRequest(context.Background(), baseRequest(
		serviceProvider("Acme", "acme@x.com"),
		serviceProvider("Beta", "beta@x.com"),
	))

	require.NoError(t, err)
	assert.False(t, resp.OK)
	assert.Equal(t, 1, resp.Sent)
	assert.Equal(t, 1, resp.Failed)
	require.Len(t, resp.Details, 2)

	// Failure raises exactly one alert carrying the request id.
	assert.Equal(t, 1, sink.calls)
	assert.Equal(t, resp.RequestID, sink.requestID)
	assert.Equal(t, 1, sink.summary.Failed)
}

func TestProcessRequest_NoEligibleTargets(t *testing.T) {
	n := &fakeNotifier{}
	svc := newService(t, &fakeStore{}, n, nil)

	req := baseRequest()
	req.Providers = []models.Provider{
		{OrgName: "Wrong Category", Email: "x@x.com", Categories: "real_estate", Regions: "center", Active: true},
	}

	resp, err := svc.ProcessRequest(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, resp.OK)
	assert.Equal(t, 0, resp.Sent)
	assert.Equal(t, 0, resp.Failed)
	assert.Equal(t, NoteNoEligibleTargets, resp.Note)
	assert.Empty(t, n.sent)
}

func TestProcessRequest_UsesStoreWhenNoOverride(t *testing.T) {
	s := &fakeStore{providers: []models.Provider{serviceProvider("Stored", "stored@x.com")}}
	n := &fakeNotifier{}
	svc := newService(t, s, n, nil)

	req := baseRequest()
	req.Providers = nil

	resp, err := svc.ProcessRequest(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, 1, s.listCalls)
	assert.Equal(t, 1, resp.Sent)
}

func TestProcessRequest_StoreError(t *testing.T) {
	s := &fakeStore{err: errors.New("db down")}
	svc := newService(t, s, &fakeNotifier{}, nil)

	req := baseRequest()
	req.Providers = nil

	_, err := svc.ProcessRequest(context.Background(), req)
	require.Error(t, err)

	se := stderrors.AsStandard(err)
	require.NotNil(t, se)
	assert.Equal(t, stderrors.ErrCodeProviderQueryFailed, se.Code)
	assert.True(t, se.Retryable)
}

func TestProcessRequest_InvalidCategory(t *testing.T) {
	svc := newService(t, &fakeStore{}, &fakeNotifier{}, nil)

	req := baseRequest()
	req.Category = "plumbing"

	_, err := svc.ProcessRequest(context.Background(), req)
	require.Error(t, err)

	se := stderrors.AsStandard(err)
	require.NotNil(t, se)
	assert.Equal(t, stderrors.ErrCodeInvalidCategory, se.Code)
}

func TestProcessRequest_InvalidRequesterEmail(t *testing.T) {
	svc := newService(t, &fakeStore{}, &fakeNotifier{}, nil)

	req := baseRequest()
	req.RequesterEmail = "not-an-address"

	_, err := svc.ProcessRequest(context.Background(), req)
	require.Error(t, err)

	se := stderrors.AsStandard(err)
	require.NotNil(t, se)
	assert.Equal(t, stderrors.ErrCodeInvalidRequester, se.Code)
}

func TestProcessRequest_DeduplicatesTargets(t *testing.T) {
	n := &fakeNotifier{}
	svc := newService(t, &fakeStore{}, n, nil)

	resp, err := svc.ProcessRequest(context.Background(), baseRequest(
		serviceProvider("Acme", "acme@x.com"),
		serviceProvider("Acme Duplicate", "ACME@X.COM"),
	))

	require.NoError(t, err)
	assert.Equal(t, 2, resp.MatchedProviders)
	assert.Equal(t, 1, resp.Sent, "shared mailbox gets one notification")
	require.Len(t, n.sent, 1)
	assert.Equal(t, "acme@x.com", n.sent[0].To)
}
