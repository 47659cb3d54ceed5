package scoring

import (
	"sort"
	"strings"
)

// Factor labels appended by the rules. These are user-facing strings shown
// on the dashboard next to each insight.
const (
	FactorLowAttendance       = "Low attendance rate"
	FactorLowTaskCompletion   = "Low task completion rate"
	FactorDecliningWithTenure = "Declining performance with tenure"

	FactorHighAssessments     = "High assessment scores"
	FactorExcellentCompletion = "Excellent completion rate"
	FactorMultipleEnrollments = "Multiple program enrollments"
)

// RuleResult is the outcome of running one rule family on one entity:
// a clamped score in [0,1] plus the labels of every rule that fired.
type RuleResult struct {
	Score   float64
	Factors []string
}

// AttritionRisk scores an employee's attrition risk. The three rules are
// additive and independent; their weights can sum above 1, so the result
// is clamped.
func AttritionRisk(f EmployeeFeatures, cfg Config) RuleResult {
	var r RuleResult

	if f.AttendanceRate < cfg.LowAttendanceCutoff {
		r.Score += cfg.Attrition.LowAttendance
		r.Factors = append(r.Factors, FactorLowAttendance)
	}
	if f.TaskCompletionRate < cfg.LowCompletionCutoff {
		r.Score += cfg.Attrition.LowTaskCompletion
		r.Factors = append(r.Factors, FactorLowTaskCompletion)
	}
	if f.TenureYears > cfg.TenureYearsCutoff &&
		(f.AttendanceRate+f.TaskCompletionRate)/2 < cfg.DecliningAverageCutoff {
		r.Score += cfg.Attrition.DecliningWithTenure
		r.Factors = append(r.Factors, FactorDecliningWithTenure)
	}

	r.Score = Clamp01(r.Score)
	return r
}

// StudentSuccess scores a student's probability of completing their program.
func StudentSuccess(f StudentFeatures, cfg Config) RuleResult {
	var r RuleResult

	if f.AvgAssessmentScore > cfg.HighAssessmentCutoff {
		r.Score += cfg.Success.HighAssessments
		r.Factors = append(r.Factors, FactorHighAssessments)
	}
	if f.CompletionRate > cfg.ExcellentCompletionCutoff {
		r.Score += cfg.Success.ExcellentCompletion
		r.Factors = append(r.Factors, FactorExcellentCompletion)
	}
	if f.EnrollmentCount > cfg.MultiEnrollmentCount {
		r.Score += cfg.Success.MultipleEnrollments
		r.Factors = append(r.Factors, FactorMultipleEnrollments)
	}

	r.Score = Clamp01(r.Score)
	return r
}

// MatchSkills scores how well a student's assessed skills cover a job's
// requirement tokens. A skill matches a token when either string contains
// the other; the containment is intentionally loose so "postgresql" covers
// a "sql" requirement and vice versa. Both sides are expected lower-cased.
// Returns the clamped score and the list of matched requirement tokens.
func MatchSkills(studentSkills, jobTokens []string) (float64, []string) {
	if len(jobTokens) == 0 {
		return 0, nil
	}

	var matched []string
	for _, tok := range jobTokens {
		for _, skill := range studentSkills {
			if strings.Contains(skill, tok) || strings.Contains(tok, skill) {
				matched = append(matched, tok)
				break
			}
		}
	}

	return Clamp01(float64(len(matched)) / float64(len(jobTokens))), matched
}

// Gap is the numeric excess of demand for a skill token over its assessed
// supply.
type Gap struct {
	Skill  string
	Demand int
	Supply int
	Gap    int
}

// SkillGaps computes per-token demand minus supply, keeps gaps above the
// emission threshold, sorts descending by gap (ties alphabetical), and
// caps the list at cfg.MaxGaps.
func SkillGaps(demand, supply map[string]int, cfg Config) []Gap {
	var gaps []Gap
	for skill, d := range demand {
		g := d - supply[skill]
		if g > cfg.GapThreshold {
			gaps = append(gaps, Gap{Skill: skill, Demand: d, Supply: supply[skill], Gap: g})
		}
	}

	sort.Slice(gaps, func(i, j int) bool {
		if gaps[i].Gap != gaps[j].Gap {
			return gaps[i].Gap > gaps[j].Gap
		}
		return gaps[i].Skill < gaps[j].Skill
	})

	if len(gaps) > cfg.MaxGaps {
		gaps = gaps[:cfg.MaxGaps]
	}
	return gaps
}
