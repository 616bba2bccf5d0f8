// internal/intake/handlers.go

// Package intake is the thin HTTP boundary in front of the match pipeline.
// It accepts only the canonical JSON request shape; body-format negotiation
// lives with upstream clients, not here.
package intake

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	stderrors "github.com/meirhagag/needme/internal/common/errors"
	"github.com/meirhagag/needme/internal/common/logger"
	"github.com/meirhagag/needme/internal/common/validation"
	"github.com/meirhagag/needme/internal/importer"
	"github.com/meirhagag/needme/internal/models"
	"github.com/meirhagag/needme/internal/service"
	"github.com/meirhagag/needme/internal/store"
)

// maxBodyBytes bounds intake payloads. Imports can be sizable CSV files.
const maxBodyBytes = 8 << 20

// Handlers holds the HTTP handlers and their collaborators.
type Handlers struct {
	service  *service.MatchService
	importer *importer.Importer
	store    store.ProviderStore
	logger   logger.Logger
}

func NewHandlers(svc *service.MatchService, imp *importer.Importer, s store.ProviderStore, log logger.Logger) *Handlers {
	return &Handlers{
		service:  svc,
		importer: imp,
		store:    s,
		logger:   log.WithFields(map[string]interface{}{"component": "intake"}),
	}
}

// CreateRequest handles POST /api/requests: decode, validate against the
// schema, run the pipeline and return the dispatch record.
func (h *Handlers) CreateRequest(w http.ResponseWriter, r *http.Request) {
	if !hasContentType(r, "application/json") {
		writeError(w, http.StatusUnsupportedMediaType, "unsupported content type")
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "failed to read body")
		return
	}

	// Schema check runs on the raw document so unknown shapes are rejected
	// with a useful message before decoding.
	var raw interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := validation.Validate(validation.MatchRequestSchema, raw); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req models.MatchRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request shape")
		return
	}

	resp, err := h.service.ProcessRequest(r.Context(), &req)
	if err != nil {
		h.logger.Warn("request rejected", map[string]interface{}{"error": err})
		writeError(w, stderrors.HTTPStatus(err), err.Error())
		return
	}

	// Total dispatch failure maps to a gateway error; partial failure is
	// still a processed request and reports through the body.
	status := http.StatusOK
	if resp.Failed > 0 && resp.Sent == 0 {
		status = http.StatusBadGateway
	}
	writeJSON(w, status, resp)
}

// ImportProviders handles POST /api/providers/import. JSON and CSV bodies
// are both accepted, selected by content type.
func (h *Handlers) ImportProviders(w http.ResponseWriter, r *http.Request) {
	var (
		inserted int
		err      error
	)

	switch {
	case hasContentType(r, "application/json"):
		var body []byte
		body, err = io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
		if err == nil {
			inserted, err = h.importer.ImportJSON(r.Context(), body)
		}
	case hasContentType(r, "text/csv"), hasContentType(r, "text/plain"):
		inserted, err = h.importer.ImportCSV(r.Context(), io.LimitReader(r.Body, maxBodyBytes))
	default:
		writeError(w, http.StatusUnsupportedMediaType, "unsupported content type")
		return
	}

	if err != nil {
		writeError(w, stderrors.HTTPStatus(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "inserted": inserted})
}

// CountProviders handles GET /api/providers: the stored provider count.
func (h *Handlers) CountProviders(w http.ResponseWriter, r *http.Request) {
	count, err := h.store.CountProviders(r.Context())
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"ok": true, "count": count})
}

// ExportProviders handles GET /api/providers/export as a CSV download.
func (h *Handlers) ExportProviders(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="providers.csv"`)
	if _, err := h.importer.ExportCSV(r.Context(), w); err != nil {
		h.logger.Error("provider export failed", map[string]interface{}{"error": err})
	}
}

// Ping handles GET /api/ping.
func (h *Handlers) Ping(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":  true,
		"now": time.Now().UTC().Format(time.RFC3339),
	})
}

// Healthz handles GET /healthz.
func (h *Handlers) Healthz(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func hasContentType(r *http.Request, want string) bool {
	return strings.Contains(r.Header.Get("Content-Type"), want)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{"ok": false, "error": msg})
}
