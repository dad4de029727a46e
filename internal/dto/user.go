package dto

import "github.com/noah-isme/lawfirm-bo-api/internal/models"

// UpdateUserRequest carries admin-editable account fields. Nil fields are
// left unchanged.
type UpdateUserRequest struct {
	Department  *string          `json:"department,omitempty"`
	Role        *models.UserRole `json:"role,omitempty"`
	ManagerName *string          `json:"managerName,omitempty"`
	Plan        *string          `json:"plan,omitempty"`
	Active      *bool            `json:"active,omitempty"`
}
