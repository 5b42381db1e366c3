package sdk

// Query selects the forecast window. Zero fields use the server defaults.
type Query struct {
	StartDate   string // YYYY-MM-DD
	EndDate     string // YYYY-MM-DD, takes precedence over Months
	Months      int
	ResourceIDs []string
}

func (q Query) args(withResources bool) map[string]any {
	args := map[string]any{}
	if q.StartDate != "" {
		args["start_date"] = q.StartDate
	}
	if q.EndDate != "" {
		args["end_date"] = q.EndDate
	}
	if q.Months != 0 {
		args["months"] = q.Months
	}
	if withResources && len(q.ResourceIDs) > 0 {
		args["resource_ids"] = q.ResourceIDs
	}
	return args
}

// Month is a calendar month as rendered by the server.
type Month struct {
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Label string `json:"label"`
}

// ActiveAllocation is an allocation covering a month.
type ActiveAllocation struct {
	AllocationID       string `json:"allocationId"`
	ProjectID          string `json:"projectId"`
	ProjectName        string `json:"projectName"`
	UtilizationPercent int    `json:"utilizationPercent"`
}

// MonthlyUtilization is one resource's load in one month.
type MonthlyUtilization struct {
	Month             Month              `json:"month"`
	TotalUtilization  int                `json:"totalUtilization"`
	AvailableCapacity int                `json:"availableCapacity"`
	PlannedTimeOff    int                `json:"plannedTimeOff"`
	EffectiveCapacity int                `json:"effectiveCapacity"`
	RemainingCapacity int                `json:"remainingCapacity"`
	Overallocated     bool               `json:"overallocated"`
	Allocations       []ActiveAllocation `json:"allocations"`
}

// ResourceForecast is the forecast for one resource.
type ResourceForecast struct {
	ResourceID     string               `json:"resourceId"`
	Name           string               `json:"name"`
	Role           string               `json:"role"`
	Skills         []string             `json:"skills"`
	AvgUtilization float64              `json:"avgUtilization"`
	TrendDirection string               `json:"trendDirection"`
	TrendSlope     float64              `json:"trendSlope"`
	Status         string               `json:"forecastStatus"`
	Note           string               `json:"note,omitempty"`
	Months         []MonthlyUtilization `json:"monthlyUtilization"`
}

// TeamMonth is the team aggregate for one month.
type TeamMonth struct {
	Month              Month   `json:"month"`
	TotalUtilization   int     `json:"totalUtilization"`
	TotalCapacity      int     `json:"totalCapacity"`
	UtilizationRate    float64 `json:"utilizationRate"`
	RawUtilizationRate float64 `json:"rawUtilizationRate"`
	Overallocated      bool    `json:"overallocated"`
	ResourceCount      int     `json:"resourceCount"`
}

// TeamForecast is the team-level view of a forecast.
type TeamForecast struct {
	MonthlyUtilization []TeamMonth `json:"monthlyUtilization"`
	AvgUtilizationRate float64     `json:"avgUtilizationRate"`
	TrendDirection     string      `json:"trendDirection"`
	Category           string      `json:"utilizationCategory"`
	BottleneckMonths   []string    `json:"bottleneckMonths"`
	Forecast           string      `json:"forecast"`
}

// ForecastReport is the result of the loadline_forecast tool.
type ForecastReport struct {
	StartDate string             `json:"startDate"`
	EndDate   string             `json:"endDate"`
	Months    []string           `json:"months"`
	Team      TeamForecast       `json:"team"`
	Resources []ResourceForecast `json:"resources"`
}

// OverallocatedMonth is a month in which a resource or role exceeds capacity.
type OverallocatedMonth struct {
	Month                Month   `json:"month"`
	Utilization          int     `json:"utilization"`
	Capacity             int     `json:"capacity"`
	OverallocationAmount int     `json:"overallocationAmount"`
	UtilizationRate      float64 `json:"utilizationRate"`
}

// ResourceBottleneck is an overallocated resource.
type ResourceBottleneck struct {
	ResourceID          string               `json:"resourceId"`
	Name                string               `json:"name"`
	Role                string               `json:"role"`
	OverallocatedMonths []OverallocatedMonth `json:"overallocatedMonths"`
	Severity            float64              `json:"severity"`
	Level               string               `json:"level"`
}

// RoleBottleneck is a role whose combined load exceeds its capacity.
type RoleBottleneck struct {
	Role                string               `json:"role"`
	ResourceCount       int                  `json:"resourceCount"`
	OverallocatedMonths []OverallocatedMonth `json:"overallocatedMonths"`
	Severity            float64              `json:"severity"`
	Level               string               `json:"level"`
}

// ProjectMonth is a month in which a project draws on many resources.
type ProjectMonth struct {
	Month            Month    `json:"month"`
	ResourceCount    int      `json:"resourceCount"`
	TotalUtilization int      `json:"totalUtilization"`
	ResourceIDs      []string `json:"resourceIds"`
}

// ProjectBottleneck is a project with critical months.
type ProjectBottleneck struct {
	ProjectID         string         `json:"projectId"`
	ProjectName       string         `json:"projectName"`
	CriticalMonths    []ProjectMonth `json:"criticalMonths"`
	PeakResourceCount int            `json:"peakResourceCount"`
	PeakUtilization   int            `json:"peakUtilization"`
	RiskLevel         string         `json:"riskLevel"`
}

// BottleneckReport is the result of the loadline_bottlenecks tool.
type BottleneckReport struct {
	StartDate           string               `json:"startDate"`
	EndDate             string               `json:"endDate"`
	Months              []string             `json:"months"`
	ResourceBottlenecks []ResourceBottleneck `json:"resourceBottlenecks"`
	RoleBottlenecks     []RoleBottleneck     `json:"roleBottlenecks"`
	ProjectBottlenecks  []ProjectBottleneck  `json:"projectBottlenecks"`
	Recommendations     []string             `json:"aiRecommendations"`
}

// CriticalMonth is an overallocated month of a resource with its allocations.
type CriticalMonth struct {
	Month                Month              `json:"month"`
	Utilization          int                `json:"utilization"`
	OverallocationAmount int                `json:"overallocationAmount"`
	Allocations          []ActiveAllocation `json:"allocations"`
}

// OverallocatedResource is a transfer source.
type OverallocatedResource struct {
	ResourceID     string          `json:"resourceId"`
	Name           string          `json:"name"`
	Role           string          `json:"role"`
	Skills         []string        `json:"skills"`
	AvgUtilization float64         `json:"avgUtilization"`
	CriticalMonths []CriticalMonth `json:"criticalMonths"`
}

// UnderallocatedResource is a transfer candidate.
type UnderallocatedResource struct {
	ResourceID      string   `json:"resourceId"`
	Name            string   `json:"name"`
	Role            string   `json:"role"`
	Skills          []string `json:"skills"`
	AvgUtilization  float64  `json:"avgUtilization"`
	PeakUtilization int      `json:"peakUtilization"`
}

// ResourceRef names a resource.
type ResourceRef struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Project names a project.
type Project struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Recommendation proposes moving one allocation in one month.
type Recommendation struct {
	Project            Project     `json:"project"`
	Utilization        int         `json:"utilization"`
	Month              Month       `json:"month"`
	FromResource       ResourceRef `json:"fromResource"`
	ToResource         ResourceRef `json:"toResource"`
	CompatibilityScore float64     `json:"compatibilityScore"`
	SkillsMatch        []string    `json:"skillsMatch"`
	RoleMatch          bool        `json:"roleMatch"`
}

// BalancingSummary summarizes a rebalancing proposal.
type BalancingSummary struct {
	OverallocatedCount  int    `json:"overallocatedCount"`
	UnderallocatedCount int    `json:"underallocatedCount"`
	RecommendationCount int    `json:"recommendationCount"`
	Opportunity         string `json:"balancingOpportunity"`
	Message             string `json:"message"`
}

// BalancingReport is the result of the loadline_balance tool.
type BalancingReport struct {
	StartDate               string                   `json:"startDate"`
	EndDate                 string                   `json:"endDate"`
	Months                  []string                 `json:"months"`
	OverallocatedResources  []OverallocatedResource  `json:"overallocatedResources"`
	UnderallocatedResources []UnderallocatedResource `json:"underallocatedResources"`
	Recommendations         []Recommendation         `json:"balancingRecommendations"`
	Summary                 BalancingSummary         `json:"summary"`
}
