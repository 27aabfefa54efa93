package pto

import (
	"time"

	ptoDatamodel "github.com/frahmantamala/project-management/internal/core/datamodel/pto"
	"github.com/frahmantamala/project-management/internal/user"
	"github.com/google/uuid"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
)

type Type string

const (
	TypeVacation    Type = "VACATION"
	TypeSickLeave   Type = "SICK_LEAVE"
	TypePersonal    Type = "PERSONAL"
	TypeBereavement Type = "BEREAVEMENT"
	TypeParental    Type = "PARENTAL_LEAVE"
	TypeOther       Type = "OTHER"
)

var Types = []Type{TypeVacation, TypeSickLeave, TypePersonal, TypeBereavement, TypeParental, TypeOther}

// MaxSpanDays bounds a single request and a calendar window, inclusive.
const MaxSpanDays = 366

type Request struct {
	ID              string     `json:"id"`
	UserID          string     `json:"user_id"`
	Type            Type       `json:"type"`
	StartDate       time.Time  `json:"start_date"`
	EndDate         time.Time  `json:"end_date"`
	Days            int        `json:"days"`
	Reason          string     `json:"reason,omitempty"`
	Status          Status     `json:"status"`
	ApproverID      *string    `json:"approver_id,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

func (r *Request) IsPending() bool {
	return r.Status == StatusPending
}

func (r *Request) OwnedBy(userID string) bool {
	return r.UserID == userID
}

func NewRequest(userID string, dto CreateRequestDTO, now time.Time) *Request {
	start := truncateDay(dto.StartDate)
	end := truncateDay(dto.EndDate)
	return &Request{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      Type(dto.Type),
		StartDate: start,
		EndDate:   end,
		Days:      WorkingDays(start, end),
		Reason:    dto.Reason,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// WorkingDays counts Monday to Friday dates in [start, end].
func WorkingDays(start, end time.Time) int {
	start, end = truncateDay(start), truncateDay(end)
	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd != time.Saturday && wd != time.Sunday {
			days++
		}
	}
	return days
}

// SpanDays counts calendar dates in [start, end].
func SpanDays(start, end time.Time) int {
	return int(truncateDay(end).Sub(truncateDay(start))/(24*time.Hour)) + 1
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// TeamCalendar is a manager's direct reports with their approved leave
// overlapping [From, To].
type TeamCalendar struct {
	From     time.Time    `json:"from"`
	To       time.Time    `json:"to"`
	Team     []*user.User `json:"team"`
	Requests []*Request   `json:"pto_requests"`
}

func ToDataModel(r *Request) *ptoDatamodel.Request {
	return &ptoDatamodel.Request{
		ID:              r.ID,
		UserID:          r.UserID,
		Type:            string(r.Type),
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		Days:            r.Days,
		Reason:          r.Reason,
		Status:          string(r.Status),
		ApproverID:      r.ApproverID,
		ApprovedAt:      r.ApprovedAt,
		RejectionReason: r.RejectionReason,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func FromDataModel(r *ptoDatamodel.Request) *Request {
	return &Request{
		ID:              r.ID,
		UserID:          r.UserID,
		Type:            Type(r.Type),
		StartDate:       r.StartDate,
		EndDate:         r.EndDate,
		Days:            r.Days,
		Reason:          r.Reason,
		Status:          Status(r.Status),
		ApproverID:      r.ApproverID,
		ApprovedAt:      r.ApprovedAt,
		RejectionReason: r.RejectionReason,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func FromDataModelSlice(rs []*ptoDatamodel.Request) []*Request {
	result := make([]*Request, len(rs))
	for i, r := range rs {
		result[i] = FromDataModel(r)
	}
	return result
}
