package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/frahmantamala/project-management/internal/approval"
	ptoDatamodel "github.com/frahmantamala/project-management/internal/core/datamodel/pto"
	timesheetDatamodel "github.com/frahmantamala/project-management/internal/core/datamodel/timesheet"
	"gorm.io/gorm"
)

// ApprovalRepository implements approval.Store on top of the pto_requests and
// timesheets tables.
type ApprovalRepository struct {
	db *gorm.DB
}

func NewApprovalRepository(db *gorm.DB) approval.Store {
	return &ApprovalRepository{db: db}
}

type requestRow struct {
	ID     string
	UserID string
	Status string
}

type table struct {
	name       string
	noteColumn string
}

func tableFor(kind approval.Kind) (table, error) {
	switch kind {
	case approval.KindPTO:
		return table{name: ptoDatamodel.Request{}.TableName(), noteColumn: "rejection_reason"}, nil
	case approval.KindTimesheet:
		return table{name: timesheetDatamodel.Timesheet{}.TableName(), noteColumn: "comments"}, nil
	default:
		return table{}, fmt.Errorf("unknown request kind %q", kind)
	}
}

func (r *ApprovalRepository) FindRequestByID(ctx context.Context, kind approval.Kind, id string) (*approval.Request, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}

	var row requestRow
	err = r.db.WithContext(ctx).
		Table(t.name).
		Select("id", "user_id", "status").
		Where("id = ?", id).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, approval.ErrNotFound
		}
		return nil, err
	}

	return &approval.Request{
		Kind:   kind,
		ID:     row.ID,
		UserID: row.UserID,
		Status: row.Status,
	}, nil
}

// UpdateRequestStatus is a single UPDATE guarded on the expected status, so a
// concurrent decision that got there first leaves zero rows affected.
func (r *ApprovalRepository) UpdateRequestStatus(ctx context.Context, kind approval.Kind, id string, tr approval.Transition) (int64, error) {
	t, err := tableFor(kind)
	if err != nil {
		return 0, err
	}

	updates := map[string]interface{}{
		"status":     tr.To,
		"updated_at": time.Now(),
	}
	if tr.ApproverID != nil {
		updates["approver_id"] = *tr.ApproverID
	}
	if tr.DecidedAt != nil {
		updates["approved_at"] = *tr.DecidedAt
	}
	if tr.Note != nil {
		updates[t.noteColumn] = *tr.Note
	}

	res := r.db.WithContext(ctx).
		Table(t.name).
		Where("id = ? AND status = ?", id, tr.From).
		Updates(updates)
	return res.RowsAffected, res.Error
}
