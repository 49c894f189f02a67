package joinrequest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nagumeena22/ColabSphere/internal/events"
	"github.com/nagumeena22/ColabSphere/internal/metrics"
)

var (
	ErrProjectNotFound     = errors.New("project not found")
	ErrJoinRequestNotFound = errors.New("join request not found")
	ErrDuplicateRequest    = errors.New("you already have an active join request for this project")
	ErrInvalidStatus       = errors.New("invalid status. Must be accepted or rejected")
	ErrAlreadyResolved     = errors.New("join request has already been resolved with a different status")
)

// ProjectLookup answers whether a project id resolves.
type ProjectLookup interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

type Service interface {
	Submit(ctx context.Context, callerID, projectID int64, message string) (*JoinRequest, error)
	Respond(ctx context.Context, requestID int64, status string, message *string) (*Resolved, error)
	List(ctx context.Context) ([]Resolved, error)
	ListForUser(ctx context.Context, userID int64) ([]Resolved, error)
}

type service struct {
	repo      Repository
	projects  ProjectLookup
	publisher events.Publisher
	logger    *slog.Logger
	metrics   *metrics.Metrics
	now       func() time.Time
}

func NewService(repo Repository, projects ProjectLookup, publisher events.Publisher, logger *slog.Logger, m *metrics.Metrics) Service {
	if publisher == nil {
		publisher = events.Noop{}
	}
	return &service{
		repo:      repo,
		projects:  projects,
		publisher: publisher,
		logger:    logger,
		metrics:   m,
		now:       time.Now,
	}
}

func (s *service) Submit(ctx context.Context, callerID, projectID int64, message string) (*JoinRequest, error) {
	exists, err := s.projects.Exists(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("lookup project: %w", err)
	}
	if !exists {
		return nil, ErrProjectNotFound
	}

	active, err := s.repo.ExistsActive(ctx, projectID, callerID)
	if err != nil {
		return nil, fmt.Errorf("check active request: %w", err)
	}
	if active {
		return nil, ErrDuplicateRequest
	}

	// The partial unique index rejects a concurrent submission that passed the check above.
	created, err := s.repo.Create(ctx, &JoinRequest{
		ProjectID:   projectID,
		UserID:      callerID,
		Status:      StatusPending,
		Message:     message,
		RequestedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordJoinRequestSubmitted(ctx)
	s.logger.InfoContext(ctx, "join request submitted",
		"request_id", created.ID, "project_id", projectID, "user_id", callerID)
	s.publish(ctx, events.TypeJoinRequestSubmitted, created)

	return created, nil
}

func (s *service) Respond(ctx context.Context, requestID int64, rawStatus string, message *string) (*Resolved, error) {
	status, err := ParseResponseStatus(rawStatus)
	if err != nil {
		return nil, err
	}

	current, err := s.repo.GetByID(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if current.Status.Terminal() && current.Status != status {
		return nil, ErrAlreadyResolved
	}

	updated, err := s.repo.UpdateResponse(ctx, requestID, status, s.now().UTC(), message)
	if err != nil {
		if errors.Is(err, ErrJoinRequestNotFound) {
			// resolved to the other status between the read and the update
			return nil, ErrAlreadyResolved
		}
		return nil, err
	}

	s.metrics.RecordJoinRequestResponded(ctx, string(status))
	s.logger.InfoContext(ctx, "join request responded",
		"request_id", requestID, "status", status, "previous_status", current.Status)
	s.publish(ctx, events.TypeJoinRequestResponded, updated)

	return s.repo.GetResolved(ctx, requestID)
}

func (s *service) List(ctx context.Context) ([]Resolved, error) {
	return s.repo.ListResolved(ctx, 0)
}

func (s *service) ListForUser(ctx context.Context, userID int64) ([]Resolved, error) {
	if userID <= 0 {
		return []Resolved{}, nil
	}
	return s.repo.ListResolved(ctx, userID)
}

func (s *service) publish(ctx context.Context, eventType string, jr *JoinRequest) {
	err := s.publisher.Publish(ctx, events.Event{
		Type:            eventType,
		RequestID:       jr.ID,
		ProjectID:       jr.ProjectID,
		UserID:          jr.UserID,
		Status:          string(jr.Status),
		ResponseMessage: jr.ResponseMessage,
		OccurredAt:      s.now().UTC(),
	})
	s.metrics.RecordEventPublished(ctx, eventType, err)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to publish join request event",
			"error", err, "type", eventType, "request_id", jr.ID)
	}
}
