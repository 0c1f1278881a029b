package model

// Priority ranks an advice item. Lower rank sorts first.
type Priority string

// Advice priorities, most urgent first.
const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// Rank returns the sort rank for a priority. Unknown priorities sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 99
	}
}

// Advice is a single consulting recommendation produced by a rule.
// One instance per triggered rule; consumed by presentation, never stored.
type Advice struct {
	Title          string   `json:"title"`
	Category       string   `json:"category"` // review, delivery, product, pricing, reach, growth, dispatch, seasonal, inventory
	Priority       Priority `json:"priority"`
	CurrentValue   string   `json:"current_value"`
	TargetValue    string   `json:"target_value"`
	Description    string   `json:"description"`
	Actions        []string `json:"actions"`
	ExpectedEffect string   `json:"expected_effect"`
}

// RoadmapPhase is one time horizon of a growth roadmap. Phases are always
// emitted in order and never empty.
type RoadmapPhase struct {
	Phase string   `json:"phase"`
	Label string   `json:"label"`
	Goals []string `json:"goals"`
}
