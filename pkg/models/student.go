package models

import (
	"time"

	"github.com/google/uuid"
)

// Assessment and enrollment statuses used by the program screens.
const (
	AssessmentStatusCompleted  = "completed"
	AssessmentStatusInProgress = "in_progress"

	EnrollmentStatusActive    = "active"
	EnrollmentStatusCompleted = "completed"
	EnrollmentStatusDropped   = "dropped"
)

// Student is a program participant. Assessments and Enrollments are the
// nested rows consumed by the success-probability and skill-match rules.
type Student struct {
	ID        uuid.UUID `db:"id"         json:"id"`
	TenantID  uuid.UUID `db:"tenant_id"  json:"tenant_id"`
	Name      string    `db:"name"       json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`

	Assessments []SkillAssessment `db:"-" json:"assessments,omitempty"`
	Enrollments []Enrollment      `db:"-" json:"enrollments,omitempty"`
}

// SkillAssessment is a scored skill evaluation. Score is on the 0-100
// scale as entered; normalization to [0,1] happens in feature extraction.
type SkillAssessment struct {
	ID        uuid.UUID `db:"id"         json:"id"`
	StudentID uuid.UUID `db:"student_id" json:"student_id"`
	SkillName string    `db:"skill_name" json:"skill_name"`
	Score     float64   `db:"score"      json:"score"`
	Status    string    `db:"status"     json:"status"`
}

// Enrollment ties a student to a course or incubation program.
type Enrollment struct {
	ID        uuid.UUID `db:"id"         json:"id"`
	StudentID uuid.UUID `db:"student_id" json:"student_id"`
	Program   string    `db:"program"    json:"program"`
	Status    string    `db:"status"     json:"status"`
}
