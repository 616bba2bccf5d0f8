// internal/intake/handlers_test.go
package intake

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meirhagag/needme/internal/common/logger"
	"github.com/meirhagag/needme/internal/dispatch"
	"github.com/meirhagag/needme/internal/importer"
	"github.com/meirhagag/needme/internal/matching"
	"github.com/meirhagag/needme/internal/models"
	"github.com/meirhagag/needme/internal/notifier"
	"github.com/meirhagag/needme/internal/service"
)

type fakeNotifier struct {
	mu      sync.Mutex
	failAll bool
	sent    []string
}

func (f *fakeNotifier) Send(_ context.Context, msg notifier.Message) notifier.SendResult {
	f.mu.Lock()
	f.sent = append(f.sent, msg.To)
	f.mu.Unlock()
	if f.failAll {
		return notifier.SendResult{OK: false, Error: "smtp down"}
	}
	return notifier.SendResult{OK: true, ID: "id-1"}
}

type memStore struct {
	providers []models.Provider
}

func (m *memStore) ListActiveProviders(_ context.Context) ([]models.Provider, error) {
	return m.providers, nil
}

func (m *memStore) ListAllProviders(_ context.Context) ([]models.Provider, error) {
	return m.providers, nil
}

func (m *memStore) UpsertProviders(_ context.Context, providers []models.Provider) (int, error) {
	m.providers = append(m.providers, providers...)
	return len(providers), nil
}

func (m *memStore) CountProviders(_ context.Context) (int, error) {
	return len(m.providers), nil
}

func newTestRouter(t *testing.T, n notifier.Notifier, s *memStore) http.Handler {
	t.Helper()
	log := logger.NewNoOpLogger()
	ranker := matching.NewRanker(matching.NewScorer(matching.DefaultWeights()), matching.DefaultShortlistCap, log)
	dispatcher := dispatch.NewDispatcher(n, dispatch.DefaultMaxConcurrent, log)
	svc := service.NewMatchService(s, ranker, dispatcher, nil, nil, log)
	imp := importer.New(s, log)
	return NewRouter(NewHandlers(svc, imp, s, log)).Handler()
}

const requestBody = `{
	"category": "service",
	"region": "center",
	"title": "Fix ceiling fan",
	"requesterEmail": "dana@x.com",
	"providers": [
		{"orgName": "Acme", "email": "acme@x.com", "categories": "service", "regions": "center", "active": true}
	]
}`

func TestCreateRequest_Success(t *testing.T) {
	n := &fakeNotifier{}
	router := newTestRouter(t, n, &memStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/requests", strings.NewReader(requestBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok":true`)
	assert.Contains(t, rec.Body.String(), `"sent":1`)
	assert.Equal(t, []string{"acme@x.com"}, n.sent)
}

func TestCreateRequest_UnsupportedContentType(t *testing.T) {
	router := newTestRouter(t, &fakeNotifier{}, &memStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/requests", strings.NewReader("category=service"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
}

func TestCreateRequest_MalformedJSON(t *testing.T) {
	router := newTestRouter(t, &fakeNotifier{}, &memStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/requests", strings.NewReader(`{"category":`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateRequest_SchemaRejectsUnknownCategory(t *testing.T) {
	router := newTestRouter(t, &fakeNotifier{}, &memStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/requests",
		strings.NewReader(`{"category": "plumbing"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateRequest_TotalDispatchFailure(t *testing.T) {
	router := newTestRouter(t, &fakeNotifier{failAll: true}, &memStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/requests", strings.NewReader(requestBody))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok":false`)
	assert.Contains(t, rec.Body.String(), `"failed":1`)
}

func TestCreateRequest_MethodNotAllowed(t *testing.T) {
	router := newTestRouter(t, &fakeNotifier{}, &memStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/requests", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestImportProviders_JSON(t *testing.T) {
	s := &memStore{}
	router := newTestRouter(t, &fakeNotifier{}, s)

	req := httptest.NewRequest(http.MethodPost, "/api/providers/import",
		strings.NewReader(`[{"orgName": "Acme", "email": "acme@x.com", "categories": "service", "regions": "center"}]`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"inserted":1`)
	assert.Len(t, s.providers, 1)
}

func TestImportProviders_CSV(t *testing.T) {
	s := &memStore{}
	router := newTestRouter(t, &fakeNotifier{}, s)

	csvDoc := "orgName,email,categories,regions\nAcme,acme@x.com,service,center\n"
	req := httptest.NewRequest(http.MethodPost, "/api/providers/import", strings.NewReader(csvDoc))
	req.Header.Set("Content-Type", "text/csv")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, s.providers, 1)
}

func TestImportProviders_NoValidRows(t *testing.T) {
	router := newTestRouter(t, &fakeNotifier{}, &memStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/providers/import",
		strings.NewReader(`[{"orgName": "Nameless"}]`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCountProviders(t *testing.T) {
	s := &memStore{providers: []models.Provider{{OrgName: "A"}, {OrgName: "B"}}}
	router := newTestRouter(t, &fakeNotifier{}, s)

	req := httptest.NewRequest(http.MethodGet, "/api/providers", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"count":2`)
}

func TestExportProviders(t *testing.T) {
	s := &memStore{providers: []models.Provider{
		{ID: "p1", OrgName: "Acme", Email: "acme@x.com", Categories: "service", Regions: "center", Active: true},
	}}
	router := newTestRouter(t, &fakeNotifier{}, s)

	req := httptest.NewRequest(http.MethodGet, "/api/providers/export", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, rec.Body.String(), "acme@x.com")
}

func TestPingAndHealthz(t *testing.T) {
	router := newTestRouter(t, &fakeNotifier{}, &memStore{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/ping", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok":true`)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
}
