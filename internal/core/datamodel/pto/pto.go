package pto

import "time"

type Request struct {
	ID              string     `gorm:"primaryKey;type:text"`
	UserID          string     `gorm:"column:user_id;not null;index"`
	Type            string     `gorm:"column:type;not null"`
	StartDate       time.Time  `gorm:"column:start_date;not null"`
	EndDate         time.Time  `gorm:"column:end_date;not null"`
	Days            int        `gorm:"column:days;not null"`
	Reason          string     `gorm:"column:reason"`
	Status          string     `gorm:"column:status;not null;index"`
	ApproverID      *string    `gorm:"column:approver_id"`
	ApprovedAt      *time.Time `gorm:"column:approved_at"`
	RejectionReason *string    `gorm:"column:rejection_reason"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Request) TableName() string {
	return "pto_requests"
}
