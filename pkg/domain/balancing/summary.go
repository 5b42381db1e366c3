package balancing

// Opportunity grades how much rebalancing could help.
type Opportunity string

const (
	OpportunityNone   Opportunity = "none"
	OpportunityLow    Opportunity = "low"
	OpportunityMedium Opportunity = "medium"
	OpportunityHigh   Opportunity = "high"
)

// Summary counts the balancing outcome. Message is filled in by the
// narrative layer.
type Summary struct {
	OverallocatedCount  int         `json:"overallocatedCount"`
	UnderallocatedCount int         `json:"underallocatedCount"`
	RecommendationCount int         `json:"recommendationCount"`
	Opportunity         Opportunity `json:"balancingOpportunity"`
	Message             string      `json:"message"`
}

// Summarize grades the opportunity from the recommendation to overload ratio.
func Summarize(overallocated, underallocated, recommendations int) Summary {
	s := Summary{
		OverallocatedCount:  overallocated,
		UnderallocatedCount: underallocated,
		RecommendationCount: recommendations,
		Opportunity:         OpportunityNone,
	}
	if overallocated == 0 || underallocated == 0 {
		return s
	}
	ratio := float64(recommendations) / float64(overallocated)
	switch {
	case ratio > 0.7:
		s.Opportunity = OpportunityHigh
	case ratio > 0.3:
		s.Opportunity = OpportunityMedium
	default:
		s.Opportunity = OpportunityLow
	}
	return s
}
