package postgres

import (
	"context"
	"errors"
	"time"

	timesheetDatamodel "github.com/frahmantamala/project-management/internal/core/datamodel/timesheet"
	"github.com/frahmantamala/project-management/internal/timesheet"
	"gorm.io/gorm"
)

// TimesheetRepository implements timesheet.Repository using GORM
type TimesheetRepository struct {
	db *gorm.DB
}

func NewTimesheetRepository(db *gorm.DB) timesheet.Repository {
	return &TimesheetRepository{db: db}
}

// Create needs a gorm.DB opened with TranslateError so the unique week index
// surfaces as gorm.ErrDuplicatedKey.
func (r *TimesheetRepository) Create(ctx context.Context, ts *timesheet.Timesheet) error {
	err := r.db.WithContext(ctx).Create(timesheet.ToDataModel(ts)).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return timesheet.ErrWeekTaken
	}
	return err
}

func (r *TimesheetRepository) FindByID(ctx context.Context, id string) (*timesheet.Timesheet, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *TimesheetRepository) FindByUserAndWeek(ctx context.Context, userID string, weekStart time.Time) (*timesheet.Timesheet, error) {
	return r.first(ctx, "user_id = ? AND week_start = ?", userID, weekStart)
}

func (r *TimesheetRepository) first(ctx context.Context, query string, args ...interface{}) (*timesheet.Timesheet, error) {
	var row timesheetDatamodel.Timesheet
	err := r.db.WithContext(ctx).Where(query, args...).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, timesheet.ErrNotFound
		}
		return nil, err
	}
	return timesheet.FromDataModel(&row), nil
}

func (r *TimesheetRepository) ListByUser(ctx context.Context, userID string) ([]*timesheet.Timesheet, error) {
	var rows []*timesheetDatamodel.Timesheet
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("week_start DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return timesheet.FromDataModelSlice(rows), nil
}

func (r *TimesheetRepository) ListSubmitted(ctx context.Context, userIDs []string) ([]*timesheet.Timesheet, error) {
	var rows []*timesheetDatamodel.Timesheet
	err := r.db.WithContext(ctx).
		Where("user_id IN ? AND status = ?", userIDs, string(timesheet.StatusSubmitted)).
		Order("week_start DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return timesheet.FromDataModelSlice(rows), nil
}

func (r *TimesheetRepository) ListAllSubmitted(ctx context.Context) ([]*timesheet.Timesheet, error) {
	var rows []*timesheetDatamodel.Timesheet
	err := r.db.WithContext(ctx).
		Where("status = ?", string(timesheet.StatusSubmitted)).
		Order("week_start DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return timesheet.FromDataModelSlice(rows), nil
}

// ListSince returns sheets of userIDs in statuses whose week starts at or
// after since, newest week first.
func (r *TimesheetRepository) ListSince(ctx context.Context, userIDs []string, statuses []timesheet.Status, since time.Time) ([]*timesheet.Timesheet, error) {
	states := make([]string, len(statuses))
	for i, s := range statuses {
		states[i] = string(s)
	}

	var rows []*timesheetDatamodel.Timesheet
	err := r.db.WithContext(ctx).
		Where("user_id IN ? AND status IN ? AND week_start >= ?", userIDs, states, since).
		Order("week_start DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return timesheet.FromDataModelSlice(rows), nil
}

func (r *TimesheetRepository) Submit(ctx context.Context, id string, from []timesheet.Status, submittedAt time.Time) (int64, error) {
	states := make([]string, len(from))
	for i, s := range from {
		states[i] = string(s)
	}

	res := r.db.WithContext(ctx).
		Model(&timesheetDatamodel.Timesheet{}).
		Where("id = ? AND status IN ?", id, states).
		Updates(map[string]interface{}{
			"status":       string(timesheet.StatusSubmitted),
			"submitted_at": submittedAt,
			"updated_at":   time.Now(),
		})
	return res.RowsAffected, res.Error
}
