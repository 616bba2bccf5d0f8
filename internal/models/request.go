// internal/models/request.go
package models

// Category is the closed set of request categories.
type Category string

const (
	CategoryService    Category = "service"
	CategoryRealEstate Category = "real_estate"
	CategorySecondHand Category = "second_hand"
)

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryService, CategoryRealEstate, CategorySecondHand:
		return true
	}
	return false
}

// MatchRequest is the canonical, already-normalized request delivered by
// the intake boundary. The core never parses raw bodies or content types.
type MatchRequest struct {
	Category    Category `json:"category"`
	Subcategory string   `json:"subcategory,omitempty"`
	Region      string   `json:"region"`
	BudgetMax   *int     `json:"budgetMax,omitempty"`
	Title       string   `json:"title,omitempty"`
	Description string   `json:"description,omitempty"`

	// Requester contact block, included in the notification body and used
	// as the reply-to address for outgoing mail.
	RequesterName  string `json:"requesterName,omitempty"`
	RequesterEmail string `json:"requesterEmail,omitempty"`
	RequesterPhone string `json:"requesterPhone,omitempty"`

	// Providers overrides the stored provider set for this request when
	// non-nil. Used by tests and batch tooling.
	Providers []Provider `json:"providers,omitempty"`
}
