package domain

import (
	"context"
	"time"
)

type Service interface {
	Register(ctx context.Context, req RegisterRequest) (*User, error)
	Login(ctx context.Context, req LoginRequest) (*LoginResult, error)
	// Authenticate resolves a bearer token to its user.
	Authenticate(ctx context.Context, rawToken string) (*User, error)
	// EnsureAdmin creates a super_admin account when the email is not taken yet.
	EnsureAdmin(ctx context.Context, req RegisterRequest) (*User, bool, error)
}

type RegisterRequest struct {
	Email            string   `json:"email"`
	Password         string   `json:"password"`
	FullName         string   `json:"full_name"`
	Role             string   `json:"role"`
	AssignedZones    []string `json:"assigned_zones"`
	AssignedAgencies []string `json:"assigned_agencies"`
	AssignedGares    []string `json:"assigned_gares"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResult struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresAt   time.Time   `json:"-"`
	User        UserSummary `json:"user"`
}
