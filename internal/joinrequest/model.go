package joinrequest

import (
	"time"

	"github.com/uptrace/bun"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Terminal reports whether the status can no longer change.
func (s Status) Terminal() bool {
	return s == StatusAccepted || s == StatusRejected
}

// ParseResponseStatus accepts only the two terminal statuses a responder may set.
func ParseResponseStatus(raw string) (Status, error) {
	s := Status(raw)
	if !s.Terminal() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

const (
	UnknownProject = "Unknown Project"
	UnknownUser    = "Unknown User"
)

type JoinRequest struct {
	bun.BaseModel `bun:"table:join_requests,alias:jr"`

	ID              int64      `bun:"id,pk,autoincrement" json:"id"`
	ProjectID       int64      `bun:"project_id,notnull" json:"projectId"`
	UserID          int64      `bun:"user_id,notnull" json:"userId"`
	Status          Status     `bun:"status,notnull,default:'pending'" json:"status"`
	Message         string     `bun:"message,notnull,default:''" json:"message"`
	ResponseMessage string     `bun:"response_message,notnull,default:''" json:"responseMessage"`
	RequestedAt     time.Time  `bun:"requested_at,notnull" json:"requestedAt"`
	RespondedAt     *time.Time `bun:"responded_at" json:"respondedAt,omitempty"`
}

// Migrations run after the table exists. The partial unique index is what
// makes "one active request per (project, user)" hold under concurrent submits.
var Migrations = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS join_requests_active_uniq
		ON join_requests (project_id, user_id)
		WHERE status IN ('pending', 'accepted')`,
	`CREATE INDEX IF NOT EXISTS join_requests_requested_at_idx ON join_requests (requested_at DESC)`,
	`CREATE INDEX IF NOT EXISTS join_requests_user_id_idx ON join_requests (user_id)`,
}

// ProjectInfo is the project display subset attached to a listed request.
type ProjectInfo struct {
	ID                 int64      `json:"id"`
	Found              bool       `json:"found"`
	AdminName          string     `json:"adminName"`
	Department         string     `json:"department"`
	Branch             string     `json:"branch"`
	Domain             string     `json:"domain"`
	ProjectDescription string     `json:"projectDescription"`
	StartDate          *time.Time `json:"startDate,omitempty"`
	EndDate            *time.Time `json:"endDate,omitempty"`
}

// UserInfo is the applicant display subset attached to a listed request.
type UserInfo struct {
	ID         int64  `json:"id"`
	Found      bool   `json:"found"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	RegNo      int64  `json:"regNo"`
}

// Resolved is a join request with its project and user display fields.
type Resolved struct {
	JoinRequest
	Project ProjectInfo `json:"project"`
	User    UserInfo    `json:"user"`
}

type SubmitRequest struct {
	Message string `json:"message" validate:"max=2000"`
}

type RespondRequest struct {
	Status  string  `json:"status"`
	Message *string `json:"message" validate:"omitempty,max=2000"`
}
