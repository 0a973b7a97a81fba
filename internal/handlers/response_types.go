package handlers

import (
	"github.com/xpanvictor/audioscribe/internal/domains/auth"
	"github.com/xpanvictor/audioscribe/internal/domains/credit"
)

// Response wrapper types for Swagger documentation

// SuccessResponse represents a generic success response
type SuccessResponse struct {
	Message string `json:"message" example:"Operation completed successfully"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error" example:"Something went wrong"`
	Details string `json:"details,omitempty" example:"Validation error details"`
}

// LoginRequest is the mock login form
type LoginRequest struct {
	Email string `json:"email" binding:"required,email" example:"guest@example.com"`
	Name  string `json:"name" example:"Guest"`
}

// LoginResponse represents the response for user login
type LoginResponse struct {
	Message string          `json:"message" example:"Login successful"`
	User    auth.Identity   `json:"user"`
	Tokens  auth.AuthTokens `json:"tokens"`
	Account credit.Account  `json:"account"`
}

// TopUpRequest is an optional top-up amount
type TopUpRequest struct {
	Minutes int `json:"minutes" example:"500"`
}

// AccountResponse wraps a credit account
type AccountResponse struct {
	Account credit.Account `json:"account"`
}

// TopUpResponse represents a completed top-up
type TopUpResponse struct {
	Message string         `json:"message" example:"Credits added"`
	Added   int            `json:"added" example:"500"`
	Account credit.Account `json:"account"`
}

// HistoryResponse lists ledger entries newest first
type HistoryResponse struct {
	Entries []credit.Entry `json:"entries"`
}
