package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating a user.
type LoginRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse returns the issued tokens and user info.
type LoginResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int64     `json:"expires_in"`
	User         UserInfo  `json:"user"`
	IssuedAt     time.Time `json:"issued_at"`
}

// RefreshTokenRequest exchanges a refresh token for a new access token.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
	IP           string `json:"-"`
	UserAgent    string `json:"-"`
}

// RefreshTokenResponse returns the refreshed tokens.
type RefreshTokenResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresIn    int64     `json:"expires_in"`
	IssuedAt     time.Time `json:"issued_at"`
}

// ChangePasswordRequest payload for updating password.
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

// UserInfo describes the authenticated user in responses.
type UserInfo struct {
	UID         string   `json:"uid"`
	Email       string   `json:"email"`
	Role        UserRole `json:"role"`
	BizNum      string   `json:"bizNum"`
	CompanyName string   `json:"companyName"`
	ManagerName string   `json:"managerName"`
	Department  string   `json:"department"`
	Plan        string   `json:"plan"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UID         string   `json:"uid"`
	Role        UserRole `json:"role"`
	Email       string   `json:"email"`
	BizNum      string   `json:"biz_num"`
	CompanyName string   `json:"company_name"`
	ManagerName string   `json:"manager_name"`
	Department  string   `json:"department"`
	Plan        string   `json:"plan"`
	jwt.RegisteredClaims
}

// DisplayName returns the best human-readable name for the claims holder.
func (c *JWTClaims) DisplayName() string {
	if c == nil {
		return ""
	}
	if c.ManagerName != "" {
		return c.ManagerName
	}
	return c.Email
}
