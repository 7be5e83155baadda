package models

// Priority orders recommendations from most to least pressing.
// Lower rank sorts first.
type Priority int

const (
	PriorityImmediate Priority = iota
	PriorityUrgent
	PriorityImportant
	PriorityGeneral
)

func (p Priority) String() string {
	switch p {
	case PriorityImmediate:
		return "immediate"
	case PriorityUrgent:
		return "urgent"
	case PriorityImportant:
		return "important"
	default:
		return "general"
	}
}

// MarshalText makes priority serialize as its name.
func (p Priority) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

func (p *Priority) UnmarshalText(text []byte) error {
	switch string(text) {
	case "immediate":
		*p = PriorityImmediate
	case "urgent":
		*p = PriorityUrgent
	case "important":
		*p = PriorityImportant
	default:
		*p = PriorityGeneral
	}
	return nil
}

// RecommendationCategory groups recommendations by the kind of action.
type RecommendationCategory string

const (
	CategoryHomeCare     RecommendationCategory = "home_care"
	CategoryProfessional RecommendationCategory = "professional"
	CategoryLifestyle    RecommendationCategory = "lifestyle"
	CategoryProducts     RecommendationCategory = "products"
	CategoryEmergency    RecommendationCategory = "emergency"
)

// Recommendation is a single actionable suggestion for the user.
type Recommendation struct {
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Priority    Priority               `json:"priority"`
	Category    RecommendationCategory `json:"category"`
	ActionItems []string               `json:"action_items,omitempty"`
}

// Equal reports full value equality, the identity used for deduplication.
func (r Recommendation) Equal(other Recommendation) bool {
	if r.Title != other.Title ||
		r.Description != other.Description ||
		r.Priority != other.Priority ||
		r.Category != other.Category ||
		len(r.ActionItems) != len(other.ActionItems) {
		return false
	}
	for i := range r.ActionItems {
		if r.ActionItems[i] != other.ActionItems[i] {
			return false
		}
	}
	return true
}
