package timesheet

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

var (
	ErrNotFound  = errors.New("timesheet not found")
	ErrWeekTaken = errors.New("timesheet already exists for week")
)

// Repository persists timesheets. Submit only moves a row whose status is one
// of from and reports how many rows changed.
type Repository interface {
	Create(ctx context.Context, t *Timesheet) error
	FindByID(ctx context.Context, id string) (*Timesheet, error)
	FindByUserAndWeek(ctx context.Context, userID string, weekStart time.Time) (*Timesheet, error)
	ListByUser(ctx context.Context, userID string) ([]*Timesheet, error)
	ListSubmitted(ctx context.Context, userIDs []string) ([]*Timesheet, error)
	ListAllSubmitted(ctx context.Context) ([]*Timesheet, error)
	ListSince(ctx context.Context, userIDs []string, statuses []Status, since time.Time) ([]*Timesheet, error)
	Submit(ctx context.Context, id string, from []Status, submittedAt time.Time) (int64, error)
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

// Create opens a draft for the week containing dto.WeekStart. One timesheet
// per user and week.
func (s *Service) Create(ctx context.Context, actor auth.Actor, dto CreateTimesheetDTO) (*Timesheet, error) {
	if !actor.Can(auth.PermTimesheetSubmit) {
		return nil, apperrors.ErrMissingPermission
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	week := WeekStart(dto.WeekStart)
	_, err := s.repo.FindByUserAndWeek(ctx, actor.ID, week)
	switch {
	case err == nil:
		return nil, apperrors.ErrDuplicateWeek
	case !errors.Is(err, ErrNotFound):
		return nil, apperrors.NewInternalError("failed to check existing timesheet", err)
	}

	ts := NewTimesheet(actor.ID, dto, s.now())
	if err := s.repo.Create(ctx, ts); err != nil {
		// lost a race with a concurrent create for the same week
		if errors.Is(err, ErrWeekTaken) {
			return nil, apperrors.ErrDuplicateWeek
		}
		logger.From(ctx, s.logger).ErrorContext(ctx, "failed to create timesheet", "user_id", actor.ID, "error", err)
		return nil, apperrors.NewInternalError("failed to create timesheet", err)
	}

	logger.From(ctx, s.logger).InfoContext(ctx, "timesheet created", "timesheet_id", ts.ID, "user_id", actor.ID, "week_start", ts.WeekStart)
	return ts, nil
}

// Submit sends the owner's draft, or a sheet returned for correction, to the
// manager.
func (s *Service) Submit(ctx context.Context, actor auth.Actor, id string) (*Timesheet, error) {
	if !actor.Can(auth.PermTimesheetSubmit) {
		return nil, apperrors.ErrMissingPermission
	}

	ts, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperrors.ErrRequestNotFound
		}
		return nil, apperrors.NewInternalError("failed to load timesheet", err)
	}
	if !ts.OwnedBy(actor.ID) {
		return nil, apperrors.ErrNotOwner
	}
	if !ts.CanSubmit() {
		return nil, apperrors.ErrInvalidState
	}

	now := s.now()
	rows, err := s.repo.Submit(ctx, id, []Status{StatusDraft, StatusNeedsCorrection}, now)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to submit timesheet", err)
	}
	if rows == 0 {
		return nil, apperrors.ErrInvalidState
	}

	ts.Status = StatusSubmitted
	ts.SubmittedAt = &now
	ts.UpdatedAt = now

	logger.From(ctx, s.logger).InfoContext(ctx, "timesheet submitted", "timesheet_id", id, "user_id", actor.ID)
	return ts, nil
}

func (s *Service) ListMine(ctx context.Context, actor auth.Actor) ([]*Timesheet, error) {
	sheets, err := s.repo.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list timesheets", err)
	}
	return sheets, nil
}

// ListPendingForApproval returns submitted sheets the actor can review, newest
// week first. Admins see all of them; managers see their direct reports.
func (s *Service) ListPendingForApproval(ctx context.Context, actor auth.Actor) ([]*Timesheet, error) {
	if actor.Can(auth.PermTimesheetViewAll) {
		sheets, err := s.repo.ListAllSubmitted(ctx)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to list submitted timesheets", err)
		}
		return sheets, nil
	}
	if !actor.Can(auth.PermTimesheetViewTeam) {
		return nil, apperrors.ErrMissingPermission
	}

	reports, err := s.team.DirectReports(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return []*Timesheet{}, nil
	}

	sheets, err := s.repo.ListSubmitted(ctx, user.IDs(reports))
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list submitted timesheets", err)
	}
	return sheets, nil
}

// TeamCapacity reports each direct report's average weekly hours across
// submitted and approved sheets whose week began within CapacityWindow.
func (s *Service) TeamCapacity(ctx context.Context, actor auth.Actor) ([]*MemberCapacity, error) {
	if !actor.Can(auth.PermCapacityViewTeam) && !actor.Can(auth.PermCapacityViewAll) {
		return nil, apperrors.ErrMissingPermission
	}

	reports, err := s.team.DirectReports(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	out := make([]*MemberCapacity, 0, len(reports))
	if len(reports) == 0 {
		return out, nil
	}

	since := s.now().UTC().Add(-CapacityWindow)
	sheets, err := s.repo.ListSince(ctx, user.IDs(reports), []Status{StatusSubmitted, StatusApproved}, since)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to load team capacity", err)
	}

	hours := make(map[string]float64, len(reports))
	counts := make(map[string]int, len(reports))
	for _, ts := range sheets {
		hours[ts.UserID] += ts.TotalHours
		counts[ts.UserID]++
	}

	for _, u := range reports {
		c := &MemberCapacity{User: u, Timesheets: counts[u.ID]}
		if c.Timesheets > 0 {
			c.AvgWeeklyHours = hours[u.ID] / float64(c.Timesheets)
			c.Utilization = c.AvgWeeklyHours / StandardWeeklyHours
		}
		out = append(out, c)
	}
	return out, nil
}
