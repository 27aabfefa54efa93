package approval

import (
	"github.com/frahmantamala/project-management/internal/core/common/validation"
)

// RejectDTO represents the request body for rejecting a PTO request or a
// timesheet. The reason is optional.
type RejectDTO struct {
	Reason string `json:"reason,omitempty"`
}

func (dto RejectDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("reason", dto.Reason).MaxLength(1000)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}

// CorrectionDTO represents the request body for sending a timesheet back
type CorrectionDTO struct {
	Comments string `json:"comments"`
}

func (dto CorrectionDTO) Validate() error {
	v := validation.NewValidator()
	v.Field("comments", dto.Comments).Required().MaxLength(2000)
	if err := v.Validate(); err != nil {
		return err
	}
	return nil
}
