package store

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/upliftlabs/insights/pkg/models"
)

var ErrNotFound = errors.New("resource not found")
var ErrDuplicateKey = errors.New("duplicate key violation")

// Store is the data access interface. The insight pipeline only reads;
// the API-key operations back the auth middleware and admin endpoints.
// Snapshot list methods return records with their nested child rows
// (attendance, tasks, assessments, enrollments) already resolved.
type Store interface {
	Ping(ctx context.Context) error
	GetDefaultTenant(ctx context.Context) (*models.Tenant, error)

	GetAPIKeyByPrefix(ctx context.Context, prefix string) ([]*models.APIKey, error)
	UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error
	CreateAPIKey(ctx context.Context, key *models.APIKey) error
	ListAPIKeys(ctx context.Context, tenantID uuid.UUID) ([]*models.APIKey, error)
	RevokeAPIKey(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) error

	ListEmployees(ctx context.Context, tenantID uuid.UUID) ([]models.Employee, error)
	ListStudents(ctx context.Context, tenantID uuid.UUID) ([]models.Student, error)
	ListJobPostings(ctx context.Context, tenantID uuid.UUID) ([]models.JobPosting, error)
	ListSkillAssessments(ctx context.Context, tenantID uuid.UUID) ([]models.SkillAssessment, error)
}
