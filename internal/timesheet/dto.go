package timesheet

import (
	"time"

	errors "github.com/frahmantamala/project-management/internal"
	"github.com/frahmantamala/project-management/internal/core/common/validation"
)

type CreateTimesheetDTO struct {
	WeekStart  time.Time `json:"week_start"`
	TotalHours float64   `json:"total_hours"`
	Notes      string    `json:"notes,omitempty"`
}

func (dto CreateTimesheetDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("week_start", dto.WeekStart).Required()
	v.Field("total_hours", dto.TotalHours).RangeFloat(0, MaxWeeklyHours, errors.ErrCodeInvalidHours)
	v.Field("notes", dto.Notes).MaxLength(2000)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
