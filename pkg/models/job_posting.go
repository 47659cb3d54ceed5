package models

import (
	"time"

	"github.com/google/uuid"
)

// JobPosting is a placement opportunity. Requirements is a free-text,
// comma-separated skill list; tokenization is owned by the scoring package.
type JobPosting struct {
	ID           uuid.UUID `db:"id"           json:"id"`
	TenantID     uuid.UUID `db:"tenant_id"    json:"tenant_id"`
	Title        string    `db:"title"        json:"title"`
	Company      string    `db:"company"      json:"company"`
	Requirements string    `db:"requirements" json:"requirements"`
	CreatedAt    time.Time `db:"created_at"   json:"created_at"`
}
