package postgres

import (
	"context"
	"errors"
	"time"

	ptoDatamodel "github.com/frahmantamala/project-management/internal/core/datamodel/pto"
	"github.com/frahmantamala/project-management/internal/pto"
	"gorm.io/gorm"
)

// PTORepository implements pto.Repository using GORM
type PTORepository struct {
	db *gorm.DB
}

func NewPTORepository(db *gorm.DB) pto.Repository {
	return &PTORepository{db: db}
}

func (r *PTORepository) Create(ctx context.Context, req *pto.Request) error {
	return r.db.WithContext(ctx).Create(pto.ToDataModel(req)).Error
}

func (r *PTORepository) FindByID(ctx context.Context, id string) (*pto.Request, error) {
	var row ptoDatamodel.Request
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pto.ErrNotFound
		}
		return nil, err
	}
	return pto.FromDataModel(&row), nil
}

func (r *PTORepository) ListByUser(ctx context.Context, userID string) ([]*pto.Request, error) {
	var rows []*ptoDatamodel.Request
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("start_date DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return pto.FromDataModelSlice(rows), nil
}

// ListPending is FIFO so the oldest request is reviewed first.
func (r *PTORepository) ListPending(ctx context.Context, userIDs []string) ([]*pto.Request, error) {
	var rows []*ptoDatamodel.Request
	err := r.db.WithContext(ctx).
		Where("user_id IN ? AND status = ?", userIDs, string(pto.StatusPending)).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return pto.FromDataModelSlice(rows), nil
}

// ListApprovedOverlapping returns approved leave of userIDs that touches
// [from, to], earliest start first.
func (r *PTORepository) ListApprovedOverlapping(ctx context.Context, userIDs []string, from, to time.Time) ([]*pto.Request, error) {
	var rows []*ptoDatamodel.Request
	err := r.db.WithContext(ctx).
		Where("user_id IN ? AND status = ?", userIDs, string(pto.StatusApproved)).
		Where("start_date <= ? AND end_date >= ?", to, from).
		Order("start_date ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return pto.FromDataModelSlice(rows), nil
}

func (r *PTORepository) ListAllPending(ctx context.Context) ([]*pto.Request, error) {
	var rows []*ptoDatamodel.Request
	err := r.db.WithContext(ctx).
		Where("status = ?", string(pto.StatusPending)).
		Order("created_at ASC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return pto.FromDataModelSlice(rows), nil
}

func (r *PTORepository) UpdateStatus(ctx context.Context, id string, expected, next pto.Status) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&ptoDatamodel.Request{}).
		Where("id = ? AND status = ?", id, string(expected)).
		Updates(map[string]interface{}{
			"status":     string(next),
			"updated_at": time.Now(),
		})
	return res.RowsAffected, res.Error
}
