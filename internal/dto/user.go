package dto

import (
	"time"

	"github.com/coinadmin/backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateUserRequest registers a new user. ReferralCode, when present, is the
// code of the referring user, not the new user's own code.
type CreateUserRequest struct {
	Username     string `json:"username" binding:"required,min=3,max=30"`
	Email        string `json:"email" binding:"required,email"`
	FirstName    string `json:"firstName" binding:"required"`
	LastName     string `json:"lastName" binding:"required"`
	Phone        string `json:"phone" binding:"omitempty,min=5,max=20"`
	ReferralCode string `json:"referralCode" binding:"omitempty,min=4,max=32,referralcode"`
}

// UpdateUserStatusRequest changes a user's lifecycle status.
type UpdateUserStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active inactive suspended"`
}

// ListUsersParams are the query parameters of the user listing endpoints.
type ListUsersParams struct {
	Page      int    `form:"page,default=1" binding:"omitempty,min=1"`
	Limit     int    `form:"limit,default=20" binding:"omitempty,min=1,max=100"`
	Search    string `form:"search"`
	SortBy    string `form:"sortBy,default=balance_coins" binding:"omitempty,oneof=balance_coins balance_usd username created_at"`
	SortOrder string `form:"sortOrder,default=desc" binding:"omitempty,oneof=asc desc"`
}

// BalancePayload renders a two-currency balance.
type BalancePayload struct {
	Coins decimal.Decimal `json:"coins"`
	Usd   decimal.Decimal `json:"usd"`
}

// UserResponse is the public rendering of a user.
type UserResponse struct {
	UserID        string         `json:"userID"`
	Username      string         `json:"username"`
	Email         string         `json:"email"`
	FirstName     string         `json:"firstName"`
	LastName      string         `json:"lastName"`
	Phone         string         `json:"phone,omitempty"`
	ReferralCode  string         `json:"referralCode"`
	ReferredBy    string         `json:"referredBy,omitempty"`
	ReferralLevel int            `json:"referralLevel"`
	Balance       BalancePayload `json:"balance"`
	Status        string         `json:"status"`
	LastLogin     *time.Time     `json:"lastLogin,omitempty"`
	CreatedAt     time.Time      `json:"createdAt"`
}

// ToUserResponse converts a domain user to its response DTO.
func ToUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		UserID:        u.UserID,
		Username:      u.Username,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Phone:         u.Phone,
		ReferralCode:  u.ReferralCode,
		ReferredBy:    u.ReferredBy,
		ReferralLevel: u.ReferralLevel,
		Balance:       BalancePayload{Coins: u.Balance.Coins, Usd: u.Balance.Usd},
		Status:        string(u.Status),
		LastLogin:     u.LastLogin,
		CreatedAt:     u.CreatedAt,
	}
}

// ToUserResponses converts a slice of domain users.
func ToUserResponses(users []domain.User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = ToUserResponse(&users[i])
	}
	return out
}

// ListUsersResponse wraps a page of users.
type ListUsersResponse struct {
	Users      []UserResponse `json:"users"`
	Pagination Pagination     `json:"pagination"`
}
