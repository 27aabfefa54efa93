package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	apperrors "github.com/frahmantamala/project-management/internal"
	"github.com/frahmantamala/project-management/internal/auth"
	"github.com/frahmantamala/project-management/pkg/logger"
)

var ErrNotFound = errors.New("user not found")

// Repository reads users. FindByID returns ErrNotFound for unknown ids. The
// list methods return active users only, ordered by first name.
type Repository interface {
	FindByID(ctx context.Context, id string) (*User, error)
	ListDirectReports(ctx context.Context, managerID string) ([]*User, error)
	ListReportsOf(ctx context.Context, managerIDs []string) ([]*User, error)
}

type Service struct {
	repo   Repository
	logger *slog.Logger
}

func NewService(repo Repository, lg *slog.Logger) *Service {
	if lg == nil {
		lg = logger.LoggerWrapper()
	}
	return &Service{
		repo:   repo,
		logger: lg,
	}
}

func (s *Service) GetByID(ctx context.Context, id string) (*User, error) {
	u, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, apperrors.ErrUserNotFound
		}
		return nil, apperrors.NewInternalError("failed to load user", err)
	}
	return u, nil
}

// LoadActor implements auth.ActorLoader. Inactive users cannot act.
func (s *Service) LoadActor(ctx context.Context, userID string) (auth.Actor, error) {
	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return auth.Actor{}, err
	}
	if u.Status == StatusInactive {
		return auth.Actor{}, apperrors.ErrUserInactive
	}
	return u.Actor(), nil
}

// IsDirectReport is false, without error, when userID does not exist.
func (s *Service) IsDirectReport(ctx context.Context, managerID, userID string) (bool, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("is direct report: %w", err)
	}
	return u.ReportsTo(managerID), nil
}

func (s *Service) DirectReports(ctx context.Context, managerID string) ([]*User, error) {
	reports, err := s.repo.ListDirectReports(ctx, managerID)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list direct reports", err)
	}
	return reports, nil
}

// ExtendedTeam walks exactly two levels below managerID. Visibility only;
// approval stays with the direct manager.
func (s *Service) ExtendedTeam(ctx context.Context, managerID string) (*Team, error) {
	direct, err := s.DirectReports(ctx, managerID)
	if err != nil {
		return nil, err
	}

	team := &Team{
		DirectReports:   direct,
		ExtendedReports: []*User{},
	}

	if len(direct) > 0 {
		ids := make([]string, len(direct))
		for i, u := range direct {
			ids[i] = u.ID
		}
		extended, err := s.repo.ListReportsOf(ctx, ids)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to list extended team", err)
		}
		team.ExtendedReports = extended
	}

	team.All = make([]*User, 0, len(team.DirectReports)+len(team.ExtendedReports))
	team.All = append(team.All, team.DirectReports...)
	team.All = append(team.All, team.ExtendedReports...)
	return team, nil
}

// CanManage is the single approver predicate shared by every approval path.
// Admins pass without a lookup. Everyone else goes through
// auth.CanManageUser against the target's recorded manager; an unknown target
// is never manageable.
func (s *Service) CanManage(ctx context.Context, actor auth.Actor, targetUserID string) (bool, error) {
	if auth.IsAdmin(actor.Role) {
		return true, nil
	}
	if !auth.IsManager(actor.Role) {
		return false, nil
	}

	target, err := s.repo.FindByID(ctx, targetUserID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("can manage: %w", err)
	}
	return auth.CanManageUser(actor.Role, actor.ID, target.ID, target.ManagerID), nil
}

func (s *Service) Permissions(actor auth.Actor) PermissionsView {
	return PermissionsView{
		Role:          actor.Role,
		Permissions:   auth.RolePermissionsFor(actor.Role),
		DashboardPath: auth.DashboardPath(actor.Role),
	}
}
