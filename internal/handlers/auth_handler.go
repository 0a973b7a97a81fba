package handlers

import (
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/xpanvictor/audioscribe/internal/domains/auth"
	"github.com/xpanvictor/audioscribe/internal/domains/credit"
	"github.com/xpanvictor/audioscribe/pkg/Logger"
)

// AuthHandler issues tokens for the mock login
type AuthHandler struct {
	issuer *auth.JWTService
	ledger credit.Ledger
	logger *Logger.Logger
}

func NewAuthHandler(issuer *auth.JWTService, ledger credit.Ledger, logger *Logger.Logger) *AuthHandler {
	return &AuthHandler{
		issuer: issuer,
		ledger: ledger,
		logger: logger,
	}
}

// UserIDForEmail derives a stable account id from an email address.
func UserIDForEmail(email string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(email))))
	return "user_" + hex.EncodeToString(sum[:8])
}

// Login handles mock login
// @Summary Mock login
// @Description Issues a bearer token for the email and provisions the account with the signup allowance
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Login data"
// @Success 200 {object} LoginResponse "Login successful with token and account"
// @Failure 400 {object} ErrorResponse "Invalid request data"
// @Failure 500 {object} ErrorResponse "Internal server error"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	id := auth.Identity{UserID: UserIDForEmail(req.Email), Email: strings.ToLower(req.Email)}
	account, err := h.ledger.Provision(c.Request.Context(), id.UserID, id.Email)
	if err != nil {
		h.logger.Errorf("login provisioning error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}

	tokens, err := h.issuer.Issue(id)
	if err != nil {
		h.logger.Errorf("token issue error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Message: "Login successful",
		User:    id,
		Tokens:  *tokens,
		Account: *account,
	})
}
