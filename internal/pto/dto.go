package pto

import (
	"time"

	errors "github.com/frahmantamala/project-management/internal"
	"github.com/frahmantamala/project-management/internal/core/common/validation"
)

// CreateRequestDTO represents the request payload for filing a PTO request
type CreateRequestDTO struct {
	Type      string    `json:"type"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	Reason    string    `json:"reason,omitempty"`
}

func (dto CreateRequestDTO) Validate() error {
	allowed := make([]string, len(Types))
	for i, t := range Types {
		allowed[i] = string(t)
	}

	v := validation.NewValidator()
	v.Field("type", dto.Type).Required().OneOf(errors.ErrCodeInvalidPTOType, allowed...)
	v.Field("start_date", dto.StartDate).Required()
	v.Field("end_date", dto.EndDate).Required().NotBefore(dto.StartDate, "start_date")
	v.Field("reason", dto.Reason).MaxLength(1000)
	if err := v.Validate(); err != nil {
		return err
	}

	if SpanDays(dto.StartDate, dto.EndDate) > MaxSpanDays {
		return errors.NewValidationFieldError("end_date", "requested range is longer than a year", errors.ErrCodeInvalidDateRange)
	}
	if WorkingDays(dto.StartDate, dto.EndDate) == 0 {
		return errors.NewValidationFieldError("end_date", "requested range contains no working days", errors.ErrCodeInvalidDateRange)
	}
	return nil
}
