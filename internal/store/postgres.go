// internal/store/postgres.go
package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/meirhagag/needme/internal/common/logger"
	"github.com/meirhagag/needme/internal/models"
)

const providerColumns = "id, org_name, email, categories, tags, regions, min_budget, max_budget, active"

// PostgresStore persists providers in the providers table. Multi-valued
// attributes stay as '|'-delimited text columns, matching the legacy
// schema.
type PostgresStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostgresStore(db *sql.DB, log logger.Logger) *PostgresStore {
	return &PostgresStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "provider-store"}),
	}
}

// ListActiveProviders returns the active provider set in stable id order.
// Ranking relies on this order for deterministic tie-breaking.
func (s *PostgresStore) ListActiveProviders(ctx context.Context) ([]models.Provider, error) {
	query := fmt.Sprintf(`SELECT %s FROM providers WHERE active = true ORDER BY id`, providerColumns)
	return s.queryProviders(ctx, query)
}

// ListAllProviders returns every provider, active or not, for export and
// admin listing.
func (s *PostgresStore) ListAllProviders(ctx context.Context) ([]models.Provider, error) {
	query := fmt.Sprintf(`SELECT %s FROM providers ORDER BY id`, providerColumns)
	return s.queryProviders(ctx, query)
}

func (s *PostgresStore) queryProviders(ctx context.Context, query string) ([]models.Provider, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query providers: %w", err)
	}
	defer rows.Close()

	var providers []models.Provider
	for rows.Next() {
		var p models.Provider
		var minBudget, maxBudget sql.NullInt64
		if err := rows.Scan(&p.ID, &p.OrgName, &p.Email, &p.Categories, &p.Tags, &p.Regions, &minBudget, &maxBudget, &p.Active); err != nil {
			return nil, fmt.Errorf("scan provider: %w", err)
		}
		if minBudget.Valid {
			v := int(minBudget.Int64)
			p.MinBudget = &v
		}
		if maxBudget.Valid {
			v := int(maxBudget.Int64)
			p.MaxBudget = &v
		}
		providers = append(providers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate providers: %w", err)
	}
	return providers, nil
}

// UpsertProviders inserts providers, skipping rows whose email already
// exists. Returns the number of rows actually inserted.
func (s *PostgresStore) UpsertProviders(ctx context.Context, providers []models.Provider) (int, error) {
	inserted := 0
	for i := range providers {
		p := providers[i]
		if p.ID == "" {
			p.ID = uuid.New().String()
		}

		res, err := s.db.ExecContext(ctx, `
			INSERT INTO providers (id, org_name, email, categories, tags, regions, min_budget, max_budget, active)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (email) DO NOTHING`,
			p.ID, p.OrgName, p.Email, p.Categories, p.Tags, p.Regions,
			nullableInt(p.MinBudget), nullableInt(p.MaxBudget), p.Active,
		)
		if err != nil {
			return inserted, fmt.Errorf("insert provider %s: %w", p.Email, err)
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			inserted++
		}
	}

	s.logger.Info("providers upserted", map[string]interface{}{
		"requested": len(providers),
		"inserted":  inserted,
	})
	return inserted, nil
}

// CountProviders returns the total provider count.
func (s *PostgresStore) CountProviders(ctx context.Context) (int, error) {
	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM providers`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count providers: %w", err)
	}
	return count, nil
}

func nullableInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return *v
}
