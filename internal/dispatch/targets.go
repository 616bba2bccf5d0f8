// internal/dispatch/targets.go

// Package dispatch fans one notification out to every unique target of a
// shortlist and reduces the per-target outcomes into a summary. The model
// is parallel tasks joined at the end: all-settled, no cancellation, no
// retry.
package dispatch

import (
	"strings"

	"github.com/meirhagag/needme/internal/models"
)

// ResolveTargets collapses a shortlist into the deduplicated, ordered
// sequence of notification addresses. Duplicate detection is
// case-insensitive but the address actually used for sending keeps the
// first trimmed original spelling. Addresses failing the minimal
// syntactic check are dropped silently.
func ResolveTargets(shortlist []models.ScoredProvider) []string {
	seen := make(map[string]struct{}, len(shortlist))
	targets := make([]string, 0, len(shortlist))

	for i := range shortlist {
		addr := strings.TrimSpace(shortlist[i].Provider.Email)
		if !ValidAddress(addr) {
			continue
		}
		key := strings.ToLower(addr)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		targets = append(targets, addr)
	}
	return targets
}

// ValidAddress applies the minimal syntactic check: exactly one '@' with
// non-empty local and domain parts. Full RFC validation belongs to the
// mail transport.
func ValidAddress(addr string) bool {
	local, domain, ok := strings.Cut(addr, "@")
	if !ok || local == "" || domain == "" {
		return false
	}
	return !strings.Contains(domain, "@")
}
