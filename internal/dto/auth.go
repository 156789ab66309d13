package dto

import (
	"time"

	"github.com/coinadmin/backend/internal/core/domain"
)

// LoginRequest authenticates an administrator.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// AdminResponse is the public rendering of an administrator.
type AdminResponse struct {
	AdminID   string     `json:"adminID"`
	Name      string     `json:"name"`
	Email     string     `json:"email"`
	Role      string     `json:"role"`
	LastLogin *time.Time `json:"lastLogin,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// ToAdminResponse converts a domain admin to its response DTO.
func ToAdminResponse(a *domain.Admin) AdminResponse {
	return AdminResponse{
		AdminID:   a.AdminID,
		Name:      a.Name,
		Email:     a.Email,
		Role:      string(a.Role),
		LastLogin: a.LastLogin,
		CreatedAt: a.CreatedAt,
	}
}

// LoginResponse is returned after a successful login.
type LoginResponse struct {
	Message string        `json:"message"`
	Token   string        `json:"token"`
	Admin   AdminResponse `json:"admin"`
}

// UpdateProfileRequest updates an admin's own profile. Pointers distinguish
// omitted fields from zero values.
type UpdateProfileRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=2"`
	Email *string `json:"email" binding:"omitempty,email"`
}

// ChangePasswordRequest rotates an admin's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required,min=6"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}
