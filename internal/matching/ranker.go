// internal/matching/ranker.go
package matching

import (
	"sort"
	"time"

	"github.com/meirhagag/needme/internal/common/logger"
	"github.com/meirhagag/needme/internal/models"
)

// DefaultShortlistCap bounds notification fan-out per request.
const DefaultShortlistCap = 20

// Ranker filters inactive and ineligible providers, sorts the rest by
// score and truncates to a shortlist.
type Ranker struct {
	scorer *Scorer
	cap    int
	logger logger.Logger
}

func NewRanker(scorer *Scorer, shortlistCap int, log logger.Logger) *Ranker {
	if shortlistCap <= 0 {
		shortlistCap = DefaultShortlistCap
	}
	return &Ranker{
		scorer: scorer,
		cap:    shortlistCap,
		logger: log.WithFields(map[string]interface{}{"component": "ranker"}),
	}
}

// Rank scores every active provider against the request and returns the
// shortlist, highest score first. Ties keep the relative order providers
// appeared in the input. An empty result is valid, not an error.
func (r *Ranker) Rank(req *models.MatchRequest, providers []models.Provider) []models.ScoredProvider {
	start := time.Now()

	shortlist := make([]models.ScoredProvider, 0, len(providers))
	for i := range providers {
		p := providers[i]
		if !p.Active {
			continue
		}
		score := r.scorer.Score(req, &p)
		if score < 0 {
			continue
		}
		shortlist = append(shortlist, models.ScoredProvider{Provider: p, Score: score})
	}

	// Stable sort: no secondary key beyond input order.
	sort.SliceStable(shortlist, func(i, j int) bool {
		return shortlist[i].Score > shortlist[j].Score
	})

	if len(shortlist) > r.cap {
		shortlist = shortlist[:r.cap]
	}

	r.logger.Info("ranking completed", map[string]interface{}{
		"inputCount":  len(providers),
		"outputCount": len(shortlist),
		"durationMs":  time.Since(start).Milliseconds(),
	})

	return shortlist
}
