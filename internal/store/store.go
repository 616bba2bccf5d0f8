// internal/store/store.go

// Package store persists and loads providers. The match pipeline depends
// on the ProviderStore interface only; the Postgres and Redis pieces are
// wiring details behind it.
package store

import (
	"context"

	"github.com/meirhagag/needme/internal/models"
)

// ProviderStore is the provider persistence contract. ListActiveProviders
// materializes the full active set before ranking begins; the core never
// streams or re-queries mid-computation.
type ProviderStore interface {
	ListActiveProviders(ctx context.Context) ([]models.Provider, error)
	ListAllProviders(ctx context.Context) ([]models.Provider, error)
	UpsertProviders(ctx context.Context, providers []models.Provider) (int, error)
	CountProviders(ctx context.Context) (int, error)
}
