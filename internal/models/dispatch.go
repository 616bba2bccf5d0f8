// internal/models/dispatch.go
package models

// DispatchOutcome is the settled result of one notification send. Every
// target produces exactly one outcome, success or failure.
type DispatchOutcome struct {
	To    string `json:"to"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// DispatchSummary reduces per-target outcomes into counts plus the ordered
// detail list. Details preserves target order so callers can correlate
// target -> outcome positionally.
type DispatchSummary struct {
	Sent      int               `json:"sent"`
	Failed    int               `json:"failed"`
	OverallOK bool              `json:"overallOk"`
	Details   []DispatchOutcome `json:"details"`
}

// MatchResponse is the wire-level record returned to callers of the whole
// match-and-notify pipeline.
type MatchResponse struct {
	OK               bool              `json:"ok"`
	RequestID        string            `json:"requestId"`
	Sent             int               `json:"sent"`
	Failed           int               `json:"failed"`
	Details          []DispatchOutcome `json:"details"`
	MatchedProviders int               `json:"matchedProviders"`
	// Note distinguishes "nothing to do" from "everything failed" when
	// Sent and Failed are both zero.
	Note string `json:"note,omitempty"`
}
