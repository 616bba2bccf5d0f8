// internal/importer/importer.go

// Package importer ingests provider rows from CSV or JSON payloads and
// exports the provider table back to CSV. Rows are coerced from the loose
// representations spreadsheets produce (string booleans, numeric strings,
// blank optionals) into the typed Provider model.
package importer

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	stderrors "github.com/meirhagag/needme/internal/common/errors"
	"github.com/meirhagag/needme/internal/common/logger"
	"github.com/meirhagag/needme/internal/common/metrics"
	"github.com/meirhagag/needme/internal/models"
	"github.com/meirhagag/needme/internal/store"
)

// RawProvider is one not-yet-coerced import row. Budget and active fields
// accept whatever type the source produced.
type RawProvider struct {
	ID         string      `json:"id"`
	OrgName    string      `json:"orgName"`
	Email      string      `json:"email"`
	Categories string      `json:"categories"`
	Tags       string      `json:"tags"`
	Regions    string      `json:"regions"`
	MinBudget  interface{} `json:"minBudget"`
	MaxBudget  interface{} `json:"maxBudget"`
	Active     interface{} `json:"active"`
}

// Importer turns raw payloads into stored providers.
type Importer struct {
	store  store.ProviderStore
	logger logger.Logger
}

func New(s store.ProviderStore, log logger.Logger) *Importer {
	return &Importer{
		store:  s,
		logger: log.WithFields(map[string]interface{}{"component": "importer"}),
	}
}

// ImportJSON ingests a JSON payload holding either a single provider
// object or an array of them. Returns the number of rows inserted.
func (imp *Importer) ImportJSON(ctx context.Context, payload []byte) (int, error) {
	trimmed := strings.TrimSpace(string(payload))
	if trimmed == "" {
		return 0, stderrors.NewImportParseFailedError(fmt.Errorf("empty payload"))
	}

	var items []RawProvider
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(payload, &items); err != nil {
			return 0, stderrors.NewImportParseFailedError(err)
		}
	} else {
		var single RawProvider
		if err := json.Unmarshal(payload, &single); err != nil {
			return 0, stderrors.NewImportParseFailedError(err)
		}
		items = []RawProvider{single}
	}

	return imp.ingest(ctx, items)
}

// ImportCSV ingests a CSV document whose header row names the provider
// fields (orgName, email, categories, tags, regions, minBudget,
// maxBudget, active).
func (imp *Importer) ImportCSV(ctx context.Context, r io.Reader) (int, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return 0, stderrors.NewImportParseFailedError(err)
	}
	if len(records) < 2 {
		return 0, stderrors.NewImportNoValidRowsError()
	}

	header := records[0]
	items := make([]RawProvider, 0, len(records)-1)
	for _, record := range records[1:] {
		row := map[string]string{}
		for i, name := range header {
			if i < len(record) {
				row[strings.TrimSpace(name)] = strings.TrimSpace(record[i])
			}
		}
		items = append(items, RawProvider{
			ID:         row["id"],
			OrgName:    row["orgName"],
			Email:      row["email"],
			Categories: row["categories"],
			Tags:       row["tags"],
			Regions:    row["regions"],
			MinBudget:  row["minBudget"],
			MaxBudget:  row["maxBudget"],
			Active:     row["active"],
		})
	}

	return imp.ingest(ctx, items)
}

func (imp *Importer) ingest(ctx context.Context, items []RawProvider) (int, error) {
	rows := make([]models.Provider, 0, len(items))
	for _, raw := range items {
		p := models.Provider{
			ID:         clean(raw.ID),
			OrgName:    clean(raw.OrgName),
			Email:      clean(raw.Email),
			Categories: clean(raw.Categories),
			Tags:       clean(raw.Tags),
			Regions:    clean(raw.Regions),
			MinBudget:  toIntOrNil(raw.MinBudget),
			MaxBudget:  toIntOrNil(raw.MaxBudget),
			Active:     toBool(raw.Active, true),
		}
		// Minimal required fields; rows missing them are skipped, not
		// fatal.
		if p.OrgName == "" || p.Email == "" || p.Categories == "" || p.Regions == "" {
			continue
		}
		rows = append(rows, p)
	}

	if len(rows) == 0 {
		return 0, stderrors.NewImportNoValidRowsError()
	}

	inserted, err := imp.store.UpsertProviders(ctx, rows)
	if err != nil {
		return inserted, stderrors.NewProviderUpsertFailedError(err)
	}

	metrics.ProvidersImported.Add(float64(inserted))
	imp.logger.Info("provider import completed", map[string]interface{}{
		"parsed":   len(items),
		"valid":    len(rows),
		"inserted": inserted,
	})
	return inserted, nil
}

var exportHeader = []string{"id", "orgName", "email", "categories", "tags", "regions", "minBudget", "maxBudget", "active"}

// ExportCSV writes every provider to w as CSV, returning the row count.
func (imp *Importer) ExportCSV(ctx context.Context, w io.Writer) (int, error) {
	providers, err := imp.store.ListAllProviders(ctx)
	if err != nil {
		return 0, stderrors.NewProviderQueryFailedError(err)
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return 0, err
	}
	for _, p := range providers {
		record := []string{
			p.ID, p.OrgName, p.Email, p.Categories, p.Tags, p.Regions,
			intOrEmpty(p.MinBudget), intOrEmpty(p.MaxBudget), strconv.FormatBool(p.Active),
		}
		if err := writer.Write(record); err != nil {
			return 0, err
		}
	}
	writer.Flush()
	return len(providers), writer.Error()
}

func clean(s string) string {
	return strings.TrimSpace(s)
}

// toBool accepts bool, "true"/"1"/"yes" (any case) and falls back to def
// when the value is absent.
func toBool(v interface{}, def bool) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		s := strings.ToLower(strings.TrimSpace(val))
		if s == "" {
			return def
		}
		return s == "true" || s == "1" || s == "yes"
	case nil:
		return def
	}
	return def
}

// toIntOrNil accepts numbers and numeric strings; anything else is nil.
func toIntOrNil(v interface{}) *int {
	switch val := v.(type) {
	case float64:
		n := int(val)
		return &n
	case int:
		n := val
		return &n
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			n := int(f)
			return &n
		}
	}
	return nil
}

func intOrEmpty(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
