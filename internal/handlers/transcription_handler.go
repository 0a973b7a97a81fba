package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/xpanvictor/audioscribe/internal/domains/transcript"
	"github.com/xpanvictor/audioscribe/internal/domains/transcription"
	"github.com/xpanvictor/audioscribe/pkg/Logger"
)

const HeaderSessionID = "X-Session-ID"

// TranscriptionHandler serves the processing and export endpoints
type TranscriptionHandler struct {
	service transcription.Service
	logger  *Logger.Logger
}

func NewTranscriptionHandler(service transcription.Service, logger *Logger.Logger) *TranscriptionHandler {
	return &TranscriptionHandler{
		service: service,
		logger:  logger,
	}
}

// Transcribe handles one diarization request
// @Summary Diarize and transcribe audio
// @Description Checks the credit balance, sends the audio to the engine, merges the segments and debits the audio duration
// @Tags Transcription
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param X-Request-ID header string false "Idempotency key for billing"
// @Param request body transcription.Request true "Audio and options"
// @Success 200 {object} transcript.TranscriptionResult "Normalized transcript"
// @Failure 400 {object} ErrorResponse "Invalid request data"
// @Failure 401 {object} ErrorResponse "Missing or invalid credential"
// @Failure 402 {object} ErrorResponse "Insufficient credits"
// @Failure 409 {object} ErrorResponse "A request is already processing"
// @Failure 415 {object} ErrorResponse "Unsupported audio type"
// @Failure 429 {object} ErrorResponse "Rate limited"
// @Failure 500 {object} ErrorResponse "AI Processing failed"
// @Router /transcribe [post]
func (h *TranscriptionHandler) Transcribe(c *gin.Context) {
	userInfo, ok := ExtractUserInfo(c)
	if !ok {
		return
	}

	var req transcription.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		if isBodyTooLarge(err) {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	outcome, err := h.service.Transcribe(c.Request.Context(), transcription.Submission{
		AccountID: userInfo.UserID,
		SessionID: c.GetHeader(HeaderSessionID),
		RequestID: c.GetString(ContextRequestID),
		Request:   req,
	}, nil)
	if err != nil {
		if StatusFor(err) == http.StatusInternalServerError {
			h.logger.Errorf("transcription error: %v", err)
		}
		writeError(c, err)
		return
	}

	c.Header("X-Credits-Charged", strconv.Itoa(outcome.ChargedMinutes))
	c.Header("X-Credits-Remaining", strconv.Itoa(outcome.BalanceMinutes))
	c.JSON(http.StatusOK, outcome.Result)
}

// Export renders a transcript as a downloadable file
// @Summary Export a transcript
// @Description Renders a transcript as plain text, JSON or Markdown
// @Tags Transcription
// @Accept json
// @Produce plain
// @Produce json
// @Param format query string false "txt, json or md" default(txt)
// @Param timestamps query bool false "Include timestamps in text and markdown" default(true)
// @Param request body transcript.TranscriptionResult true "Transcript to export"
// @Success 200 {file} file "transcript.<ext>"
// @Failure 400 {object} ErrorResponse "Invalid request data"
// @Router /transcripts/export [post]
func (h *TranscriptionHandler) Export(c *gin.Context) {
	format, err := transcript.ParseExportFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid export format", Details: err.Error()})
		return
	}
	showTimestamps := true
	if raw := c.Query("timestamps"); raw != "" {
		showTimestamps, err = strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid timestamps flag", Details: err.Error()})
			return
		}
	}

	var result transcript.TranscriptionResult
	if err := c.ShouldBindJSON(&result); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request data",
			Details: err.Error(),
		})
		return
	}

	body, err := transcript.Export(result, format, showTimestamps)
	if err != nil {
		h.logger.Errorf("export error: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+format.FileName()+`"`)
	c.Data(http.StatusOK, format.ContentType(), body)
}

// Stage reports the caller's current processing stage
// @Summary Current processing stage
// @Tags Transcription
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string "stage"
// @Router /transcribe/stage [get]
func (h *TranscriptionHandler) Stage(c *gin.Context) {
	userInfo, ok := ExtractUserInfo(c)
	if !ok {
		return
	}
	stage := h.service.Stage(userInfo.UserID, c.GetHeader(HeaderSessionID))
	c.JSON(http.StatusOK, gin.H{"stage": stage})
}
