package insight

import (
	"fmt"
	"sort"
	"time"

	"github.com/upliftlabs/insights/internal/scoring"
	"github.com/upliftlabs/insights/pkg/models"
)

// Insight categories shown on the dashboard.
const (
	CategoryWorkforce = "workforce"
	CategoryEducation = "education"
	CategoryPlacement = "placement"
	CategorySkills    = "skills"
)

// attritionInsights emits one prediction per employee whose clamped risk
// score exceeds the emission threshold.
func (s *Service) attritionInsights(employees []models.Employee, now time.Time) []models.Insight {
	var out []models.Insight
	for _, emp := range employees {
		f := scoring.ExtractEmployeeFeatures(emp, now, s.cfg)
		r := scoring.AttritionRisk(f, s.cfg)
		if r.Score <= s.cfg.AttritionThreshold {
			continue
		}

		impact := models.ImpactMedium
		if r.Score > s.cfg.HighRiskCutoff {
			impact = models.ImpactHigh
		}

		out = append(out, models.Insight{
			ID:          fmt.Sprintf("attrition-%s", emp.ID),
			Type:        models.InsightTypePrediction,
			Title:       fmt.Sprintf("Attrition risk: %s", emp.Name),
			Description: fmt.Sprintf("%s (%s, %s) shows elevated attrition risk", emp.Name, emp.Position, emp.Department),
			Confidence:  r.Score,
			Impact:      impact,
			Category:    CategoryWorkforce,
			Data: map[string]any{
				"employee_id":          emp.ID.String(),
				"department":           emp.Department,
				"risk_factors":         r.Factors,
				"attendance_rate":      f.AttendanceRate,
				"task_completion_rate": f.TaskCompletionRate,
				"tenure_years":         f.TenureYears,
			},
			CreatedAt: now,
		})
	}
	return out
}

// successInsights emits one prediction per student whose success score
// exceeds the emission threshold. Emitted success insights are always
// high impact.
func (s *Service) successInsights(students []models.Student, now time.Time) []models.Insight {
	var out []models.Insight
	for _, st := range students {
		f := scoring.ExtractStudentFeatures(st)
		r := scoring.StudentSuccess(f, s.cfg)
		if r.Score <= s.cfg.SuccessThreshold {
			continue
		}

		out = append(out, models.Insight{
			ID:          fmt.Sprintf("success-%s", st.ID),
			Type:        models.InsightTypePrediction,
			Title:       fmt.Sprintf("High success probability: %s", st.Name),
			Description: fmt.Sprintf("%s is on track to complete their program", st.Name),
			Confidence:  r.Score,
			Impact:      models.ImpactHigh,
			Category:    CategoryEducation,
			Data: map[string]any{
				"student_id":       st.ID.String(),
				"success_factors":  r.Factors,
				"avg_score":        f.AvgAssessmentScore,
				"completion_rate":  f.CompletionRate,
				"enrollment_count": f.EnrollmentCount,
			},
			CreatedAt: now,
		})
	}
	return out
}

// placementInsights scores every student against every posting and emits
// recommendations for matches above the threshold. The cap is applied
// after sorting so the strongest matches survive.
func (s *Service) placementInsights(students []models.Student, jobs []models.JobPosting, now time.Time) []models.Insight {
	var out []models.Insight
	for _, job := range jobs {
		tokens := scoring.TokenizeRequirements(job.Requirements, s.cfg)
		for _, st := range students {
			f := scoring.ExtractStudentFeatures(st)
			score, matched := scoring.MatchSkills(f.Skills, tokens)
			if score <= s.cfg.MatchThreshold {
				continue
			}

			impact := models.ImpactMedium
			if score > s.cfg.HighMatchCutoff {
				impact = models.ImpactHigh
			}

			out = append(out, models.Insight{
				ID:          fmt.Sprintf("match-%s-%s", st.ID, job.ID),
				Type:        models.InsightTypeRecommendation,
				Title:       fmt.Sprintf("Placement match: %s", st.Name),
				Description: fmt.Sprintf("%s covers most requirements for %s at %s", st.Name, job.Title, job.Company),
				Confidence:  score,
				Impact:      impact,
				Category:    CategoryPlacement,
				Data: map[string]any{
					"student_id":     st.ID.String(),
					"job_id":         job.ID.String(),
					"job_title":      job.Title,
					"company":        job.Company,
					"matched_skills": matched,
				},
				CreatedAt: now,
			})
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].ID < out[j].ID
	})
	if len(out) > s.cfg.MaxMatches {
		out = out[:s.cfg.MaxMatches]
	}
	return out
}

// skillGapInsights emits one trend per skill token whose posting demand
// exceeds assessed supply by more than the threshold.
func (s *Service) skillGapInsights(jobs []models.JobPosting, assessments []models.SkillAssessment, now time.Time) []models.Insight {
	demand := scoring.DemandHistogram(jobs, s.cfg)
	supply := scoring.SupplyHistogram(assessments, s.cfg)
	gaps := scoring.SkillGaps(demand, supply, s.cfg)

	var out []models.Insight
	for _, g := range gaps {
		impact := models.ImpactMedium
		if g.Gap > s.cfg.HighGapCutoff {
			impact = models.ImpactHigh
		}

		// Gap counts are open-ended; the confidence is the demand share
		// covered by the shortfall, clamped like every other score.
		confidence := scoring.Clamp01(float64(g.Gap) / float64(g.Demand))

		out = append(out, models.Insight{
			ID:          fmt.Sprintf("gap-%s", g.Skill),
			Type:        models.InsightTypeTrend,
			Title:       fmt.Sprintf("Skill gap: %s", g.Skill),
			Description: fmt.Sprintf("Demand for %s (%d postings) outpaces assessed supply (%d students)", g.Skill, g.Demand, g.Supply),
			Confidence:  confidence,
			Impact:      impact,
			Category:    CategorySkills,
			Data: map[string]any{
				"skill":  g.Skill,
				"demand": g.Demand,
				"supply": g.Supply,
				"gap":    g.Gap,
			},
			CreatedAt: now,
		})
	}
	return out
}
