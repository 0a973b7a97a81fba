package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xpanvictor/audioscribe/internal/domains/auth"
	"github.com/xpanvictor/audioscribe/internal/domains/credit"
	"github.com/xpanvictor/audioscribe/internal/domains/transcription"
)

// gin context keys set by the middleware
const (
	ContextUserID    = "userID"
	ContextEmail     = "email"
	ContextRequestID = "requestID"
)

const HeaderRequestID = "X-Request-ID"

type HTTPUserInfo struct {
	UserID string
	Email  string
}

func ExtractUserInfo(c *gin.Context) (HTTPUserInfo, bool) {
	userID := c.GetString(ContextUserID) // From auth middleware
	if userID == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User not authenticated"})
		return HTTPUserInfo{}, false
	}
	return HTTPUserInfo{
		UserID: userID,
		Email:  c.GetString(ContextEmail),
	}, true
}

// StatusFor maps a domain error to its HTTP status.
func StatusFor(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.Is(err, auth.ErrUnauthorized), errors.Is(err, credit.ErrAccountNotFound):
		return http.StatusUnauthorized
	case errors.Is(err, credit.ErrInsufficientBalance):
		return http.StatusPaymentRequired
	case errors.Is(err, transcription.ErrUnsupportedMediaType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, transcription.ErrInvalidInput), errors.Is(err, credit.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, transcription.ErrRequestInFlight), errors.Is(err, credit.ErrDuplicateReference):
		return http.StatusConflict
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	default:
		return http.StatusInternalServerError
	}
}

// ErrorBody is the response for err. Internal failures carry no details.
func ErrorBody(err error) ErrorResponse {
	status := StatusFor(err)
	resp := ErrorResponse{Error: transcription.UserMessage(err)}
	switch status {
	case http.StatusBadRequest, http.StatusUnsupportedMediaType:
		resp.Details = err.Error()
	case http.StatusRequestEntityTooLarge:
		resp.Error = "Audio file is too large"
	}
	return resp
}

func writeError(c *gin.Context, err error) {
	c.JSON(StatusFor(err), ErrorBody(err))
}
