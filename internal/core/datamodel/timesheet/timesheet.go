package timesheet

import "time"

type Timesheet struct {
	ID          string     `gorm:"primaryKey;type:text"`
	UserID      string     `gorm:"column:user_id;not null;uniqueIndex:idx_timesheets_user_week"`
	WeekStart   time.Time  `gorm:"column:week_start;not null;uniqueIndex:idx_timesheets_user_week"`
	TotalHours  float64    `gorm:"column:total_hours;not null"`
	Notes       string     `gorm:"column:notes"`
	Status      string     `gorm:"column:status;not null;index"`
	SubmittedAt *time.Time `gorm:"column:submitted_at"`
	ApproverID  *string    `gorm:"column:approver_id"`
	ApprovedAt  *time.Time `gorm:"column:approved_at"`
	Comments    *string    `gorm:"column:comments"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Timesheet) TableName() string {
	return "timesheets"
}
