package models

import "time"

// Insight types.
const (
	InsightTypePrediction     = "prediction"
	InsightTypeRecommendation = "recommendation"
	InsightTypeAnomaly        = "anomaly"
	InsightTypeTrend          = "trend"
)

// Impact tiers.
const (
	ImpactHigh   = "high"
	ImpactMedium = "medium"
	ImpactLow    = "low"
)

// Insight is a single scored finding produced by one rule family. Insights
// are constructed fresh on every run and never persisted; the ID is derived
// from the source entity keys so an unchanged snapshot yields the same IDs.
type Insight struct {
	ID          string         `json:"id"`
	Type        string         `json:"type"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Confidence  float64        `json:"confidence"`
	Impact      string         `json:"impact"`
	Category    string         `json:"category"`
	Data        map[string]any `json:"data,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// SkillTrend is one entry in the skill-demand trend list. Growth is an
// acknowledged placeholder drawn from an injected random source and is the
// one non-reproducible field in the whole payload.
type SkillTrend struct {
	Skill  string  `json:"skill"`
	Demand int     `json:"demand"`
	Growth float64 `json:"growth"`
}

// PredictiveMetrics is the aggregate summary computed alongside insights.
type PredictiveMetrics struct {
	AttritionRisk        float64      `json:"attrition_risk"`
	StudentSuccessRate   float64      `json:"student_success_rate"`
	PlacementProbability float64      `json:"placement_probability"`
	RevenueGrowth        float64      `json:"revenue_growth"`
	SkillDemandTrends    []SkillTrend `json:"skill_demand_trends"`
}
