package timesheet

import (
	"time"

	timesheetDatamodel "github.com/frahmantamala/project-management/internal/core/datamodel/timesheet"
	"github.com/frahmantamala/project-management/internal/user"
	"github.com/google/uuid"
)

type Status string

const (
	StatusDraft           Status = "DRAFT"
	StatusSubmitted       Status = "SUBMITTED"
	StatusApproved        Status = "APPROVED"
	StatusRejected        Status = "REJECTED"
	StatusNeedsCorrection Status = "NEEDS_CORRECTION"
)

// MaxWeeklyHours caps a single week's total.
const MaxWeeklyHours = 168

const (
	// StandardWeeklyHours is the full-time week utilization is measured against.
	StandardWeeklyHours = 40
	// CapacityWindow is how far back TeamCapacity looks for week starts.
	CapacityWindow = 14 * 24 * time.Hour
)

type Timesheet struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	WeekStart   time.Time  `json:"week_start"`
	TotalHours  float64    `json:"total_hours"`
	Notes       string     `json:"notes,omitempty"`
	Status      Status     `json:"status"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	ApproverID  *string    `json:"approver_id,omitempty"`
	ApprovedAt  *time.Time `json:"approved_at,omitempty"`
	Comments    *string    `json:"comments,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// MemberCapacity is one report's recent load.
type MemberCapacity struct {
	User           *user.User `json:"user"`
	Timesheets     int        `json:"timesheets"`
	AvgWeeklyHours float64    `json:"avg_weekly_hours"`
	Utilization    float64    `json:"utilization"`
}

// CanSubmit is true for fresh drafts and sheets sent back for correction.
func (t *Timesheet) CanSubmit() bool {
	return t.Status == StatusDraft || t.Status == StatusNeedsCorrection
}

func (t *Timesheet) OwnedBy(userID string) bool {
	return t.UserID == userID
}

func NewTimesheet(userID string, dto CreateTimesheetDTO, now time.Time) *Timesheet {
	return &Timesheet{
		ID:         uuid.NewString(),
		UserID:     userID,
		WeekStart:  WeekStart(dto.WeekStart),
		TotalHours: dto.TotalHours,
		Notes:      dto.Notes,
		Status:     StatusDraft,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// WeekStart normalises t to midnight UTC of its Monday.
func WeekStart(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func ToDataModel(t *Timesheet) *timesheetDatamodel.Timesheet {
	return &timesheetDatamodel.Timesheet{
		ID:          t.ID,
		UserID:      t.UserID,
		WeekStart:   t.WeekStart,
		TotalHours:  t.TotalHours,
		Notes:       t.Notes,
		Status:      string(t.Status),
		SubmittedAt: t.SubmittedAt,
		ApproverID:  t.ApproverID,
		ApprovedAt:  t.ApprovedAt,
		Comments:    t.Comments,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func FromDataModel(t *timesheetDatamodel.Timesheet) *Timesheet {
	return &Timesheet{
		ID:          t.ID,
		UserID:      t.UserID,
		WeekStart:   t.WeekStart,
		TotalHours:  t.TotalHours,
		Notes:       t.Notes,
		Status:      Status(t.Status),
		SubmittedAt: t.SubmittedAt,
		ApproverID:  t.ApproverID,
		ApprovedAt:  t.ApprovedAt,
		Comments:    t.Comments,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func FromDataModelSlice(ts []*timesheetDatamodel.Timesheet) []*Timesheet {
	result := make([]*Timesheet, len(ts))
	for i, t := range ts {
		result[i] = FromDataModel(t)
	}
	return result
}
