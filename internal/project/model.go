package project

import (
	"time"

	"github.com/uptrace/bun"
)

const (
	DefaultAdminID   = "ADMIN001"
	DefaultAdminName = "Admin User"
)

// Project is a posting that users can ask to join. Immutable once created.
type Project struct {
	bun.BaseModel `bun:"table:projects,alias:p"`

	ID                 int64      `bun:"id,pk,autoincrement" json:"id"`
	AdminID            string     `bun:"admin_id,notnull,default:'ADMIN001'" json:"adminId"`
	AdminName          string     `bun:"admin_name,notnull,default:'Admin User'" json:"adminName"`
	Department         string     `bun:"department" json:"department"`
	Branch             string     `bun:"branch" json:"branch"`
	Domain             string     `bun:"domain" json:"domain"`
	SkillsNeeded       string     `bun:"skills_needed" json:"skillsNeeded"`
	ProjectDescription string     `bun:"project_description" json:"projectDescription"`
	Competitions       string     `bun:"competitions" json:"competitions"`
	StartDate          time.Time  `bun:"start_date,nullzero,notnull,default:current_timestamp" json:"startDate"`
	EndDate            *time.Time `bun:"end_date" json:"endDate,omitempty"`
	CreatedAt          time.Time  `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt          time.Time  `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updatedAt"`
}

type CreateRequest struct {
	Department         string     `json:"department" validate:"max=100"`
	Branch             string     `json:"branch" validate:"max=100"`
	Domain             string     `json:"domain" validate:"max=100"`
	SkillsNeeded       string     `json:"skillsNeeded"`
	ProjectDescription string     `json:"projectDescription" validate:"required"`
	Competitions       string     `json:"competitions"`
	StartDate          *time.Time `json:"startDate"`
	EndDate            *time.Time `json:"endDate"`
}
