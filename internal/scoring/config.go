// Package scoring implements the deterministic rule engine behind the
// insights API: feature extraction over snapshot rows, weighted-threshold
// scoring, and skill demand/supply analysis. Everything here is pure; no
// I/O, no shared state.
package scoring

// AttritionWeights are the additive contributions of each attrition rule.
// The raw sum can exceed 1; callers receive the clamped value.
type AttritionWeights struct {
	LowAttendance       float64
	LowTaskCompletion   float64
	DecliningWithTenure float64
}

// SuccessWeights are the additive contributions of each student-success rule.
type SuccessWeights struct {
	HighAssessments     float64
	ExcellentCompletion float64
	MultipleEnrollments float64
}

// Config enumerates every weight, cutoff, and emission threshold used by
// the rule families. Each value appears exactly once so tuning is a
// one-line change.
type Config struct {
	Attrition AttritionWeights
	Success   SuccessWeights

	// Feature extraction.
	NeutralRate float64 // prior used when an employee has no attendance or task rows

	// Attrition rule cutoffs.
	LowAttendanceCutoff    float64
	LowCompletionCutoff    float64
	TenureYearsCutoff      float64
	DecliningAverageCutoff float64

	// Student success rule cutoffs. Assessment scores are normalized to
	// [0,1] before they reach the rules.
	HighAssessmentCutoff      float64
	ExcellentCompletionCutoff float64
	MultiEnrollmentCount      int

	// Emission thresholds: a score must exceed these to become an Insight.
	AttritionThreshold float64
	SuccessThreshold   float64
	MatchThreshold     float64
	GapThreshold       int

	// Impact tier boundaries.
	HighRiskCutoff  float64
	HighMatchCutoff float64
	HighGapCutoff   int

	// Tokenization and result caps.
	MinTokenLen int
	MaxMatches  int
	MaxGaps     int
}

// DefaultConfig returns the canonical rule parameters. Thresholds follow
// the stricter server-side variant of the original dashboard.
func DefaultConfig() Config {
	return Config{
		Attrition: AttritionWeights{
			LowAttendance:       0.3,
			LowTaskCompletion:   0.3,
			DecliningWithTenure: 0.4,
		},
		Success: SuccessWeights{
			HighAssessments:     0.4,
			ExcellentCompletion: 0.3,
			MultipleEnrollments: 0.3,
		},

		NeutralRate: 0.8,

		LowAttendanceCutoff:    0.85,
		LowCompletionCutoff:    0.8,
		TenureYearsCutoff:      2,
		DecliningAverageCutoff: 0.7,

		HighAssessmentCutoff:      0.8,
		ExcellentCompletionCutoff: 0.9,
		MultiEnrollmentCount:      2,

		AttritionThreshold: 0.5,
		SuccessThreshold:   0.6,
		MatchThreshold:     0.6,
		GapThreshold:       3,

		HighRiskCutoff:  0.7,
		HighMatchCutoff: 0.8,
		HighGapCutoff:   10,

		MinTokenLen: 3,
		MaxMatches:  20,
		MaxGaps:     10,
	}
}

// Clamp01 clamps v to [0,1]. Every score leaving this package goes through
// it before being used as a confidence.
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
