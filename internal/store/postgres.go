package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/upliftlabs/insights/pkg/models"
)

// PostgresStore implements the Store interface using pgx/v5.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new PostgresStore.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Ping checks database connectivity.
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// --- Tenants ---

func (s *PostgresStore) GetDefaultTenant(ctx context.Context) (*models.Tenant, error) {
	var t models.Tenant
	err := s.pool.QueryRow(ctx,
		`SELECT id, name, created_at, updated_at FROM tenants WHERE name = 'default' LIMIT 1`,
	).Scan(&t.ID, &t.Name, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get default tenant: %w", err)
	}
	return &t, nil
}

// --- API Keys ---

func (s *PostgresStore) GetAPIKeyByPrefix(ctx context.Context, prefix string) ([]*models.APIKey, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, tenant_id, name, key_hash, key_prefix, scopes, last_used_at, deleted_at, created_at, updated_at
		 FROM api_keys WHERE key_prefix = $1 AND deleted_at IS NULL`, prefix)
	if err != nil {
		return nil, fmt.Errorf("get api key by prefix: %w", err)
	}
	defer rows.Close()

	return scanAPIKeys(rows)
}

func (s *PostgresStore) UpdateAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE api_keys SET last_used_at = NOW(), updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("update api key last used: %w", err)
	}
	return nil
}

func (s *PostgresStore) CreateAPIKey(ctx context.Context, key *models.APIKey) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO api_keys (id, tenant_id, name, key_hash, key_prefix, scopes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		key.ID, key.TenantID, key.Name, key.KeyHash, key.KeyPrefix, key.Scopes, key.CreatedAt, key.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			return ErrDuplicateKey
		}
		return fmt.Errorf("create api key: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListAPIKeys(ctx context.Context, tenantID uuid.UUID) ([]*models.APIKey, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, tenant_id, name, key_hash, key_prefix, scopes, last_used_at, deleted_at, created_at, updated_at
		 FROM api_keys WHERE tenant_id = $1 AND deleted_at IS NULL ORDER BY created_at DESC`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}
	defer rows.Close()

	return scanAPIKeys(rows)
}

func (s *PostgresStore) RevokeAPIKey(ctx context.Context, id uuid.UUID, tenantID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE api_keys SET deleted_at = NOW(), updated_at = NOW()
		 WHERE id = $1 AND tenant_id = $2 AND deleted_at IS NULL`, id, tenantID)
	if err != nil {
		return fmt.Errorf("revoke api key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func scanAPIKeys(rows pgx.Rows) ([]*models.APIKey, error) {
	var keys []*models.APIKey
	for rows.Next() {
		var k models.APIKey
		if err := rows.Scan(&k.ID, &k.TenantID, &k.Name, &k.KeyHash, &k.KeyPrefix, &k.Scopes,
			&k.LastUsedAt, &k.DeletedAt, &k.CreatedAt, &k.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan api key: %w", err)
		}
		keys = append(keys, &k)
	}
	return keys, rows.Err()
}

// --- Employees ---

// ListEmployees returns every employee of a tenant with attendance and
// task rows attached. The snapshot is read in three queries, not one
// N+1 loop; child rows are grouped in memory by employee id.
func (s *PostgresStore) ListEmployees(ctx context.Context, tenantID uuid.UUID) ([]models.Employee, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, tenant_id, name, department, position, hire_date, created_at, updated_at
		 FROM employees WHERE tenant_id = $1 ORDER BY created_at`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list employees: %w", err)
	}
	defer rows.Close()

	var employees []models.Employee
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var e models.Employee
		if err := rows.Scan(&e.ID, &e.TenantID, &e.Name, &e.Department, &e.Position,
			&e.HireDate, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan employee: %w", err)
		}
		index[e.ID] = len(employees)
		employees = append(employees, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(employees) == 0 {
		return []models.Employee{}, nil
	}

	attRows, err := s.pool.Query(ctx,
		`SELECT a.id, a.employee_id, a.date, a.status
		 FROM attendance_records a
		 JOIN employees e ON e.id = a.employee_id
		 WHERE e.tenant_id = $1 ORDER BY a.date`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list attendance: %w", err)
	}
	defer attRows.Close()

	for attRows.Next() {
		var a models.AttendanceRecord
		if err := attRows.Scan(&a.ID, &a.EmployeeID, &a.Date, &a.Status); err != nil {
			return nil, fmt.Errorf("scan attendance record: %w", err)
		}
		if i, ok := index[a.EmployeeID]; ok {
			employees[i].Attendance = append(employees[i].Attendance, a)
		}
	}
	if err := attRows.Err(); err != nil {
		return nil, err
	}

	taskRows, err := s.pool.Query(ctx,
		`SELECT t.id, t.employee_id, t.title, t.status, t.due_date
		 FROM employee_tasks t
		 JOIN employees e ON e.id = t.employee_id
		 WHERE e.tenant_id = $1 ORDER BY t.id`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list employee tasks: %w", err)
	}
	defer taskRows.Close()

	for taskRows.Next() {
		var t models.EmployeeTask
		if err := taskRows.Scan(&t.ID, &t.EmployeeID, &t.Title, &t.Status, &t.DueDate); err != nil {
			return nil, fmt.Errorf("scan employee task: %w", err)
		}
		if i, ok := index[t.EmployeeID]; ok {
			employees[i].Tasks = append(employees[i].Tasks, t)
		}
	}
	return employees, taskRows.Err()
}

// --- Students ---

// ListStudents returns every student of a tenant with assessments and
// enrollments attached, grouped the same way as ListEmployees.
func (s *PostgresStore) ListStudents(ctx context.Context, tenantID uuid.UUID) ([]models.Student, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, tenant_id, name, created_at, updated_at
		 FROM students WHERE tenant_id = $1 ORDER BY created_at`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	defer rows.Close()

	var students []models.Student
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var st models.Student
		if err := rows.Scan(&st.ID, &st.TenantID, &st.Name, &st.CreatedAt, &st.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan student: %w", err)
		}
		index[st.ID] = len(students)
		students = append(students, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(students) == 0 {
		return []models.Student{}, nil
	}

	assessRows, err := s.pool.Query(ctx,
		`SELECT a.id, a.student_id, a.skill_name, a.score, a.status
		 FROM skill_assessments a
		 JOIN students s ON s.id = a.student_id
		 WHERE s.tenant_id = $1 ORDER BY a.id`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list skill assessments: %w", err)
	}
	defer assessRows.Close()

	for assessRows.Next() {
		var a models.SkillAssessment
		if err := assessRows.Scan(&a.ID, &a.StudentID, &a.SkillName, &a.Score, &a.Status); err != nil {
			return nil, fmt.Errorf("scan skill assessment: %w", err)
		}
		if i, ok := index[a.StudentID]; ok {
			students[i].Assessments = append(students[i].Assessments, a)
		}
	}
	if err := assessRows.Err(); err != nil {
		return nil, err
	}

	enrollRows, err := s.pool.Query(ctx,
		`SELECT e.id, e.student_id, e.program, e.status
		 FROM student_enrollments e
		 JOIN students s ON s.id = e.student_id
		 WHERE s.tenant_id = $1 ORDER BY e.id`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	defer enrollRows.Close()

	for enrollRows.Next() {
		var e models.Enrollment
		if err := enrollRows.Scan(&e.ID, &e.StudentID, &e.Program, &e.Status); err != nil {
			return nil, fmt.Errorf("scan enrollment: %w", err)
		}
		if i, ok := index[e.StudentID]; ok {
			students[i].Enrollments = append(students[i].Enrollments, e)
		}
	}
	return students, enrollRows.Err()
}

// --- Job postings ---

func (s *PostgresStore) ListJobPostings(ctx context.Context, tenantID uuid.UUID) ([]models.JobPosting, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, tenant_id, title, company, requirements, created_at
		 FROM job_postings WHERE tenant_id = $1 ORDER BY created_at`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list job postings: %w", err)
	}
	defer rows.Close()

	jobs := []models.JobPosting{}
	for rows.Next() {
		var j models.JobPosting
		if err := rows.Scan(&j.ID, &j.TenantID, &j.Title, &j.Company, &j.Requirements, &j.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan job posting: %w", err)
		}
		jobs = append(jobs, j)
	}
	return jobs, rows.Err()
}

// --- Skill assessments (tenant-wide supply) ---

func (s *PostgresStore) ListSkillAssessments(ctx context.Context, tenantID uuid.UUID) ([]models.SkillAssessment, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT a.id, a.student_id, a.skill_name, a.score, a.status
		 FROM skill_assessments a
		 JOIN students s ON s.id = a.student_id
		 WHERE s.tenant_id = $1 ORDER BY a.id`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list skill assessments: %w", err)
	}
	defer rows.Close()

	assessments := []models.SkillAssessment{}
	for rows.Next() {
		var a models.SkillAssessment
		if err := rows.Scan(&a.ID, &a.StudentID, &a.SkillName, &a.Score, &a.Status); err != nil {
			return nil, fmt.Errorf("scan skill assessment: %w", err)
		}
		assessments = append(assessments, a)
	}
	return assessments, rows.Err()
}

// isDuplicateKeyError checks if a pgx error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" // unique_violation
	}
	return false
}
