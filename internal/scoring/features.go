package scoring

import (
	"strings"
	"time"

	"github.com/upliftlabs/insights/pkg/models"
)

const daysPerYear = 365

// EmployeeFeatures is the reduced numeric summary of an employee's nested
// attendance and task rows.
type EmployeeFeatures struct {
	AttendanceRate     float64
	TaskCompletionRate float64
	TenureYears        float64
}

// ExtractEmployeeFeatures reduces an employee record to its feature tuple.
// Employees with no attendance or task rows get the neutral prior rate:
// the value means "unknown, assume adequate", not a measurement. A missing
// hire date yields zero tenure.
func ExtractEmployeeFeatures(emp models.Employee, now time.Time, cfg Config) EmployeeFeatures {
	f := EmployeeFeatures{
		AttendanceRate:     cfg.NeutralRate,
		TaskCompletionRate: cfg.NeutralRate,
	}

	if n := len(emp.Attendance); n > 0 {
		present := 0
		for _, a := range emp.Attendance {
			if a.Status == models.AttendanceStatusPresent {
				present++
			}
		}
		f.AttendanceRate = float64(present) / float64(n)
	}

	if n := len(emp.Tasks); n > 0 {
		completed := 0
		for _, t := range emp.Tasks {
			if t.Status == models.TaskStatusCompleted {
				completed++
			}
		}
		f.TaskCompletionRate = float64(completed) / float64(n)
	}

	if emp.HireDate != nil && emp.HireDate.Before(now) {
		f.TenureYears = now.Sub(*emp.HireDate).Hours() / 24 / daysPerYear
	}

	return f
}

// StudentFeatures is the reduced numeric summary of a student's assessments
// and enrollments. AvgAssessmentScore is normalized to [0,1]; Skills holds
// the lower-cased assessed skill names for matching.
type StudentFeatures struct {
	AvgAssessmentScore float64
	CompletionRate     float64
	EnrollmentCount    int
	Skills             []string
}

// ExtractStudentFeatures reduces a student record to its feature tuple.
// Assessment scores arrive on the 0-100 scale and are normalized here, at
// the boundary, so the rules see one consistent scale.
func ExtractStudentFeatures(st models.Student) StudentFeatures {
	f := StudentFeatures{
		EnrollmentCount: len(st.Enrollments),
	}

	if n := len(st.Assessments); n > 0 {
		sum := 0.0
		for _, a := range st.Assessments {
			sum += a.Score
		}
		f.AvgAssessmentScore = Clamp01(sum / float64(n) / 100)
	}

	if n := len(st.Enrollments); n > 0 {
		completed := 0
		for _, e := range st.Enrollments {
			if e.Status == models.EnrollmentStatusCompleted {
				completed++
			}
		}
		f.CompletionRate = float64(completed) / float64(n)
	}

	seen := make(map[string]bool, len(st.Assessments))
	for _, a := range st.Assessments {
		skill := strings.ToLower(strings.TrimSpace(a.SkillName))
		if skill == "" || seen[skill] {
			continue
		}
		seen[skill] = true
		f.Skills = append(f.Skills, skill)
	}

	return f
}
