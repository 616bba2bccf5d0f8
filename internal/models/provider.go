// internal/models/provider.go
package models

// Provider is a registered service/real-estate/second-hand provider.
// Categories, Tags and Regions are multi-valued fields persisted as a
// single '|'-delimited text blob; use the fieldset package for membership
// checks instead of raw string operations.
type Provider struct {
	ID         string `json:"id"`
	OrgName    string `json:"orgName"`
	Email      string `json:"email"`
	Categories string `json:"categories"` // e.g. "service|real_estate"
	Tags       string `json:"tags"`       // e.g. "electric|paint"
	Regions    string `json:"regions"`    // e.g. "center|south"
	MinBudget  *int   `json:"minBudget,omitempty"`
	MaxBudget  *int   `json:"maxBudget,omitempty"`
	Active     bool   `json:"active"`
}

// ScoredProvider pairs a provider with its fitness score for one request.
// A score below zero means the provider is categorically ineligible.
type ScoredProvider struct {
	Provider Provider `json:"provider"`
	Score    int      `json:"score"`
}
