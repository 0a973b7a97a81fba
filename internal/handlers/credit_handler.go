package handlers

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xpanvictor/audioscribe/internal/domains/credit"
	"github.com/xpanvictor/audioscribe/pkg/Logger"
)

// CreditHandler exposes the caller's balance
type CreditHandler struct {
	ledger       credit.Ledger
	topUpMinutes int
	logger       *Logger.Logger
}

func NewCreditHandler(ledger credit.Ledger, topUpMinutes int, logger *Logger.Logger) *CreditHandler {
	if topUpMinutes <= 0 {
		topUpMinutes = 500
	}
	return &CreditHandler{
		ledger:       ledger,
		topUpMinutes: topUpMinutes,
		logger:       logger,
	}
}

// GetBalance returns the caller's account
// @Summary Get credit balance
// @Tags Credits
// @Produce json
// @Security BearerAuth
// @Success 200 {object} AccountResponse "Account with balance"
// @Failure 401 {object} ErrorResponse "Missing or invalid credential"
// @Router /credits [get]
func (h *CreditHandler) GetBalance(c *gin.Context) {
	userInfo, ok := ExtractUserInfo(c)
	if !ok {
		return
	}

	account, err := h.ledger.Get(c.Request.Context(), userInfo.UserID)
	if err != nil {
		if !errors.Is(err, credit.ErrAccountNotFound) {
			h.logger.Errorf("balance lookup error: %v", err)
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, AccountResponse{Account: *account})
}

// TopUp adds minutes to the caller's account (simulated checkout)
// @Summary Top up credits
// @Description Adds the configured bundle, or the requested minutes
// @Tags Credits
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Request-ID header string false "Idempotency key"
// @Param request body TopUpRequest false "Minutes to add"
// @Success 200 {object} TopUpResponse "Credits added"
// @Failure 400 {object} ErrorResponse "Invalid amount"
// @Failure 401 {object} ErrorResponse "Missing or invalid credential"
// @Router /credits/topup [post]
func (h *CreditHandler) TopUp(c *gin.Context) {
	userInfo, ok := ExtractUserInfo(c)
	if !ok {
		return
	}

	var req TopUpRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}
	minutes := req.Minutes
	if minutes == 0 {
		minutes = h.topUpMinutes
	}

	account, err := h.ledger.Credit(c.Request.Context(), userInfo.UserID, minutes, c.GetString(ContextRequestID))
	if err != nil {
		if StatusFor(err) == http.StatusInternalServerError {
			h.logger.Errorf("top-up error: %v", err)
		}
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, TopUpResponse{
		Message: "Credits added",
		Added:   minutes,
		Account: *account,
	})
}

// History lists recent debits and credits
// @Summary Ledger history
// @Tags Credits
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Max entries" default(20)
// @Success 200 {object} HistoryResponse "Newest first"
// @Failure 401 {object} ErrorResponse "Missing or invalid credential"
// @Router /credits/history [get]
func (h *CreditHandler) History(c *gin.Context) {
	userInfo, ok := ExtractUserInfo(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	entries, err := h.ledger.History(c.Request.Context(), userInfo.UserID, limit)
	if err != nil {
		if StatusFor(err) == http.StatusInternalServerError {
			h.logger.Errorf("history error: %v", err)
		}
		writeError(c, err)
		return
	}
	if entries == nil {
		entries = []credit.Entry{}
	}
	c.JSON(http.StatusOK, HistoryResponse{Entries: entries})
}
