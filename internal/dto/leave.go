package dto

import "github.com/noah-isme/lawfirm-bo-api/internal/models"

// CreateLeaveRequest payload for submitting a leave request.
type CreateLeaveRequest struct {
	Type      string  `json:"type" validate:"required"`
	StartDate string  `json:"startDate" validate:"required"`
	EndDate   string  `json:"endDate" validate:"required"`
	Days      float64 `json:"days" validate:"required,gt=0"`
	Reason    string  `json:"reason" validate:"required"`
}

// ProcessLeaveRequest carries the reviewer decision.
type ProcessLeaveRequest struct {
	Status models.LeaveStatus `json:"status" validate:"required"`
}
