package pto

import (
	"context"
	"errors"
	"log/slog"
	"time"

	apperrors "github.com/frahmantamala/project-management/internal"
	"github.com/frahmantamala/project-management/internal/auth"
	"github.com/frahmantamala/project-management/internal/user"
	"github.com/frahmantamala/project-management/pkg/logger"
)

var ErrNotFound = errors.New("pto request not found")

// Repository persists PTO requests. UpdateStatus only writes when the row is
// still in expected and reports how many rows changed.
type Repository interface {
	Create(ctx context.Context, r *Request) error
	FindByID(ctx context.Context, id string) (*Request, error)
	ListByUser(ctx context.Context, userID string) ([]*Request, error)
	ListPending(ctx context.Context, userIDs []string) ([]*Request, error)
	ListAllPending(ctx context.Context) ([]*Request, error)
	ListApprovedOverlapping(ctx context.Context, userIDs []string, from, to time.Time) ([]*Request, error)
	UpdateStatus(ctx context.Context, id string, expected, next Status) (int64, error)
}

type TeamResolver interface {
	DirectReports(ctx context.Context, managerID string) ([]*user.User, error)
}

type Service struct {
	repo   Repository
	team   TeamResolver
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, team TeamResolver, lg *slog.Logger) *Service {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &Service{
		repo:   repo,
		team:   team,
		logger: lg,
		now:    time.Now,
	}
}

func (s *Service) CreateRequest(ctx context.Context, actor auth.Actor, dto CreateRequestDTO) (*Request, error) {
	if !actor.Can(auth.PermPTORequest) {
		return nil, apperrors.ErrMissingPermission
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	req := NewRequest(actor.ID, dto, s.now())
	if err := s.repo.Create(ctx, req); err != nil {
		logger.From(ctx, s.logger).ErrorContext(ctx, "failed to create pto request", "user_id", actor.ID, "error", err)
		return nil, apperrors.NewInternalError("failed to create pto request", err)
	}

	logger.From(ctx, s.logger).InfoContext(ctx, "pto request created", "request_id", req.ID, "user_id", actor.ID, "days", req.Days)
	return req, nil
}

func (s *Service) ListMine(ctx context.Context, actor auth.Actor) ([]*Request, error) {
	reqs, err := s.repo.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list pto requests", err)
	}
	return reqs, nil
}

// ListPendingForApproval returns pending requests the actor can see, oldest
// first. Admins see every pending request; managers see their direct reports.
func (s *Service) ListPendingForApproval(ctx context.Context, actor auth.Actor) ([]*Request, error) {
	if actor.Can(auth.PermPTOViewAll) {
		reqs, err := s.repo.ListAllPending(ctx)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to list pending pto requests", err)
		}
		return reqs, nil
	}
	if !actor.Can(auth.PermPTOViewTeam) {
		return nil, apperrors.ErrMissingPermission
	}

	reports, err := s.team.DirectReports(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return []*Request{}, nil
	}

	reqs, err := s.repo.ListPending(ctx, user.IDs(reports))
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list pending pto requests", err)
	}
	return reqs, nil
}

// TeamCalendar lists the actor's direct reports and their approved leave
// touching [from, to]. Both bounds are whole UTC days.
func (s *Service) TeamCalendar(ctx context.Context, actor auth.Actor, from, to time.Time) (*TeamCalendar, error) {
	if !actor.Can(auth.PermPTOViewTeam) && !actor.Can(auth.PermPTOViewAll) {
		return nil, apperrors.ErrMissingPermission
	}

	from, to = truncateDay(from), truncateDay(to)
	if to.Before(from) {
		return nil, apperrors.NewValidationFieldError("to", "must not be before from", apperrors.ErrCodeInvalidDateRange)
	}
	if SpanDays(from, to) > MaxSpanDays {
		return nil, apperrors.NewValidationFieldError("to", "window is longer than a year", apperrors.ErrCodeInvalidDateRange)
	}

	reports, err := s.team.DirectReports(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	cal := &TeamCalendar{From: from, To: to, Team: []*user.User{}, Requests: []*Request{}}
	if len(reports) == 0 {
		return cal, nil
	}
	cal.Team = reports

	reqs, err := s.repo.ListApprovedOverlapping(ctx, user.IDs(reports), from, to)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load team calendar", err)
	}
	cal.Requests = reqs
	return cal, nil
}

// Cancel withdraws the actor's own pending request.
func (s *Service) Cancel(ctx context.Context, actor auth.Actor, id string) error {
	if !actor.Can(auth.PermPTOCancelOwn) {
		return apperrors.ErrMissingPermission
	}

	req, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return apperrors.ErrRequestNotFound
		}
		return apperrors.NewInternalError("failed to load pto request", err)
	}
	if !req.OwnedBy(actor.ID) {
		return apperrors.ErrNotOwner
	}
	if !req.IsPending() {
		return apperrors.ErrInvalidState
	}

	rows, err := s.repo.UpdateStatus(ctx, id, StatusPending, StatusCancelled)
	if err != nil {
		return apperrors.NewInternalError("failed to cancel pto request", err)
	}
	if rows == 0 {
		return apperrors.ErrInvalidState
	}

	logger.From(ctx, s.logger).InfoContext(ctx, "pto request cancelled", "request_id", id, "user_id", actor.ID)
	return nil
}
