package models

import (
	"time"

	"github.com/google/uuid"
)

// Attendance statuses recorded by the check-in screens.
const (
	AttendanceStatusPresent = "present"
	AttendanceStatusAbsent  = "absent"
	AttendanceStatusLate    = "late"
)

// Task statuses recorded by the task tracker.
const (
	TaskStatusPending    = "pending"
	TaskStatusInProgress = "in_progress"
	TaskStatusCompleted  = "completed"
)

// Employee is a staff member record. Attendance and Tasks are the nested
// child rows the insight aggregators reduce into feature tuples; the store
// resolves the joins before the record reaches this package's consumers.
type Employee struct {
	ID         uuid.UUID  `db:"id"         json:"id"`
	TenantID   uuid.UUID  `db:"tenant_id"  json:"tenant_id"`
	Name       string     `db:"name"       json:"name"`
	Department string     `db:"department" json:"department"`
	Position   string     `db:"position"   json:"position"`
	HireDate   *time.Time `db:"hire_date"  json:"hire_date,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`

	Attendance []AttendanceRecord `db:"-" json:"attendance,omitempty"`
	Tasks      []EmployeeTask     `db:"-" json:"tasks,omitempty"`
}

// AttendanceRecord is a single check-in row for an employee.
type AttendanceRecord struct {
	ID         uuid.UUID `db:"id"          json:"id"`
	EmployeeID uuid.UUID `db:"employee_id" json:"employee_id"`
	Date       time.Time `db:"date"        json:"date"`
	Status     string    `db:"status"      json:"status"`
}

// EmployeeTask is a single assigned task row for an employee.
type EmployeeTask struct {
	ID         uuid.UUID  `db:"id"          json:"id"`
	EmployeeID uuid.UUID  `db:"employee_id" json:"employee_id"`
	Title      string     `db:"title"       json:"title"`
	Status     string     `db:"status"      json:"status"`
	DueDate    *time.Time `db:"due_date"    json:"due_date,omitempty"`
}
