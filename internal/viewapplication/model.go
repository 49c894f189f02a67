package viewapplication

import (
	"time"

	"github.com/uptrace/bun"
)

type Status string

const (
	StatusPending       Status = "pending"
	StatusInterested    Status = "interested"
	StatusNotInterested Status = "not_interested"
	StatusAccepted      Status = "accepted"
	StatusRejected      Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInterested, StatusNotInterested, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// Application is an expression of interest in a project from someone without an account.
type Application struct {
	bun.BaseModel `bun:"table:project_view_applications,alias:va"`

	ID         int64     `bun:"id,pk,autoincrement" json:"id"`
	ProjectID  int64     `bun:"project_id,notnull" json:"projectId"`
	Name       string    `bun:"name,notnull" json:"name"`
	Department string    `bun:"department,notnull" json:"department"`
	Email      string    `bun:"email,notnull" json:"email"`
	Role       string    `bun:"role" json:"role"`
	Github     string    `bun:"github" json:"github"`
	Linkedin   string    `bun:"linkedin" json:"linkedin"`
	Experience string    `bun:"experience" json:"experience"`
	Status     Status    `bun:"status,notnull,default:'pending'" json:"status"`
	AppliedAt  time.Time `bun:"applied_at,nullzero,notnull,default:current_timestamp" json:"appliedAt"`
}

var Migrations = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS project_view_applications_project_email_uniq
		ON project_view_applications (project_id, email)`,
}

type ApplyRequest struct {
	Name       string `json:"name" validate:"required,max=200"`
	Department string `json:"department" validate:"required,max=100"`
	Email      string `json:"email" validate:"required,email"`
	Role       string `json:"role" validate:"max=100"`
	Github     string `json:"github" validate:"omitempty,url"`
	Linkedin   string `json:"linkedin" validate:"omitempty,url"`
	Experience string `json:"experience" validate:"max=2000"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}
