// internal/matching/scorer.go

// Package matching computes fitness scores for (request, provider) pairs
// and ranks the provider set into a capped shortlist.
package matching

import (
	"strings"

	"github.com/meirhagag/needme/internal/fieldset"
	"github.com/meirhagag/needme/internal/models"
)

// ExcludedScore marks a provider as categorically ineligible. The additive
// path can never produce it: with a passing category the minimum reachable
// score is 3 - 1 - 1 - 1 = 0, so -1 is unambiguous.
const ExcludedScore = -1

// Weights holds the scoring constants. The values are observed product
// behavior; they are configuration, not something to tune without product
// input.
type Weights struct {
	CategoryBase   int `mapstructure:"category_base"`
	TagHit         int `mapstructure:"tag_hit"`
	TagMiss        int `mapstructure:"tag_miss"`
	RegionHit      int `mapstructure:"region_hit"`
	RegionMiss     int `mapstructure:"region_miss"`
	BudgetConflict int `mapstructure:"budget_conflict"`
	TitleMention   int `mapstructure:"title_mention"`
}

// DefaultWeights returns the production scoring constants.
func DefaultWeights() Weights {
	return Weights{
		CategoryBase:   3,
		TagHit:         2,
		TagMiss:        1,
		RegionHit:      2,
		RegionMiss:     1,
		BudgetConflict: 1,
		TitleMention:   1,
	}
}

// Scorer computes an integer fitness score for one (request, provider)
// pair. Scoring is pure: no I/O, no side effects.
type Scorer struct {
	weights Weights
}

func NewScorer(weights Weights) *Scorer {
	return &Scorer{weights: weights}
}

// Score evaluates the request against the provider. The category check is
// a hard gate: a provider whose category set does not contain the request
// category is excluded immediately and no other signal runs.
func (s *Scorer) Score(req *models.MatchRequest, p *models.Provider) int {
	if !fieldset.Contains(p.Categories, string(req.Category)) {
		return ExcludedScore
	}
	score := s.weights.CategoryBase

	if sub := strings.TrimSpace(req.Subcategory); sub != "" {
		if fieldset.Contains(p.Tags, sub) {
			score += s.weights.TagHit
		} else {
			score -= s.weights.TagMiss
		}
	}

	if reg := strings.TrimSpace(req.Region); reg != "" {
		if fieldset.Contains(p.Regions, reg) {
			score += s.weights.RegionHit
		} else {
			score -= s.weights.RegionMiss
		}
	}

	// Provider's minimum exceeds what the requester is willing to pay.
	if req.BudgetMax != nil && p.MinBudget != nil && *req.BudgetMax < *p.MinBudget {
		score -= s.weights.BudgetConflict
	}

	// Weak relevance signal: the request title mentions the provider by
	// name.
	if req.Title != "" && p.OrgName != "" && strings.Contains(req.Title, p.OrgName) {
		score += s.weights.TitleMention
	}

	return score
}
