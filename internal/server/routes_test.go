package server_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"github.com/xpanvictor/audioscribe/internal/config"
	"github.com/xpanvictor/audioscribe/internal/domains/auth"
	"github.com/xpanvictor/audioscribe/internal/domains/credit"
	"github.com/xpanvictor/audioscribe/internal/domains/transcript"
	"github.com/xpanvictor/audioscribe/internal/domains/transcription"
	"github.com/xpanvictor/audioscribe/internal/models/diarizer"
	"github.com/xpanvictor/audioscribe/internal/ratelimit"
	creditRepo "github.com/xpanvictor/audioscribe/internal/repository/credit"
	"github.com/xpanvictor/audioscribe/internal/server"
	"github.com/xpanvictor/audioscribe/pkg/Logger"
)

type testServer struct {
	router *gin.Engine
	ledger credit.Ledger
	calls  *int
}

func newTestServer(t *testing.T, engineErr error, rateMax int) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Settings{
		Server:  config.ServerConfig{AllowedOrigins: []string{"https://scribe.example.com"}, BodyLimitMB: 1},
		Credits: config.CreditsConfig{SignupMinutes: 60, TopUpMinutes: 500},
	}
	logger := Logger.NewNop()

	calls := 0
	engine := diarizer.EngineFunc(func(ctx context.Context, audio diarizer.Audio, opts transcript.Options) (*transcript.TranscriptionResult, error) {
		calls++
		if engineErr != nil {
			return nil, engineErr
		}
		return &transcript.TranscriptionResult{
			SpeakersDetected: 2,
			Segments: []transcript.TranscriptSegment{
				{Start: 0, End: 2, Speaker: "A", Text: "Hi"},
				{Start: 2.1, End: 4, Speaker: "A", Text: "there"},
				{Start: 5, End: 7, Speaker: "B", Text: "Hello"},
			},
		}, nil
	})

	issuer := auth.NewJWTService("test-secret", time.Hour)
	verifier := auth.ChainVerifier{issuer, auth.StaticVerifier{auth.MockToken: {UserID: "user_01", Email: "guest@example.com"}}}
	ledger := credit.NewLedger(creditRepo.NewMemoryAccountRepo(), logger, cfg.Credits.SignupMinutes)
	svc := transcription.NewService(ledger, engine, logger, transcription.Config{EngineTimeout: time.Second})
	limiter := ratelimit.NewMemoryLimiter(ratelimit.Config{Window: time.Hour, Max: rateMax})

	r := gin.New()
	server.InitializeRoutes(cfg, r, server.NewServerDependencies(verifier, issuer, ledger, svc, limiter, logger, cfg))
	return &testServer{router: r, ledger: ledger, calls: &calls}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func transcribeBody(minutes int) map[string]any {
	return map[string]any{
		"audioData":    base64.StdEncoding.EncodeToString([]byte("fake audio")),
		"mimeType":     "audio/mpeg",
		"options":      map[string]any{"speakerCount": "auto"},
		"durationMins": minutes,
	}
}

func TestHealth(t *testing.T) {
	s := newTestServer(t, nil, 100)
	w := s.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "OK", w.Body.String())
}

func TestTranscribeRequiresCredential(t *testing.T) {
	s := newTestServer(t, nil, 100)

	w := s.do(t, http.MethodPost, "/api/transcribe", "", transcribeBody(1))
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodPost, "/api/transcribe", "wrong", transcribeBody(1))
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Zero(t, *s.calls)
}

func TestTranscribeSuccess(t *testing.T) {
	s := newTestServer(t, nil, 100)

	w := s.do(t, http.MethodPost, "/api/transcribe", auth.MockToken, transcribeBody(45), "X-Request-ID", "req-42")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Equal(t, "req-42", w.Header().Get("X-Request-ID"))
	require.Equal(t, "45", w.Header().Get("X-Credits-Charged"))
	require.Equal(t, "15", w.Header().Get("X-Credits-Remaining"))

	var result transcript.TranscriptionResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	require.Equal(t, 2, result.SpeakersDetected)
	require.Equal(t, []transcript.TranscriptSegment{
		{Start: 0, End: 4, Speaker: "A", Text: "Hi there"},
		{Start: 5, End: 7, Speaker: "B", Text: "Hello"},
	}, result.Segments)

	w = s.do(t, http.MethodGet, "/api/credits", auth.MockToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"balanceMinutes":15`)
}

func TestTranscribeReplayedRequestIDIsRejected(t *testing.T) {
	s := newTestServer(t, nil, 100)

	w := s.do(t, http.MethodPost, "/api/transcribe", auth.MockToken, transcribeBody(10), "X-Request-ID", "fixed")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	for i := 0; i < 3; i++ {
		w = s.do(t, http.MethodPost, "/api/transcribe", auth.MockToken, transcribeBody(10), "X-Request-ID", "fixed")
		require.Equal(t, http.StatusConflict, w.Code)
		require.Contains(t, w.Body.String(), "This request was already processed.")
	}
	require.Equal(t, 1, *s.calls)

	account, err := s.ledger.Get(context.Background(), "user_01")
	require.NoError(t, err)
	require.Equal(t, 50, account.BalanceMinutes)
}

func TestTranscribeInsufficientCredits(t *testing.T) {
	s := newTestServer(t, nil, 100)

	w := s.do(t, http.MethodPost, "/api/transcribe", auth.MockToken, transcribeBody(61))
	require.Equal(t, http.StatusPaymentRequired, w.Code)
	require.JSONEq(t, `{"error":"Insufficient credits for this file."}`, w.Body.String())
	require.Zero(t, *s.calls)

	account, err := s.ledger.Get(context.Background(), "user_01")
	require.NoError(t, err)
	require.Equal(t, 60, account.BalanceMinutes)
}

func TestTranscribeEngineFailure(t *testing.T) {
	s := newTestServer(t, errors.New("quota exceeded"), 100)

	w := s.do(t, http.MethodPost, "/api/transcribe", auth.MockToken, transcribeBody(5))
	require.Equal(t, http.StatusInternalServerError, w.Code)
	require.JSONEq(t, `{"error":"AI Processing failed"}`, w.Body.String())

	account, err := s.ledger.Get(context.Background(), "user_01")
	require.NoError(t, err)
	require.Equal(t, 60, account.BalanceMinutes)
}

func TestTranscribeInvalidInput(t *testing.T) {
	s := newTestServer(t, nil, 100)

	body := transcribeBody(1)
	body["mimeType"] = "image/png"
	w := s.do(t, http.MethodPost, "/api/transcribe", auth.MockToken, body)
	require.Equal(t, http.StatusUnsupportedMediaType, w.Code)

	w = s.do(t, http.MethodPost, "/api/transcribe", auth.MockToken, map[string]any{"mimeType": "audio/wav"})
	require.Equal(t, http.StatusBadRequest, w.Code)

	body = transcribeBody(1)
	body["options"] = map[string]any{"speakerCount": 11}
	w = s.do(t, http.MethodPost, "/api/transcribe", auth.MockToken, body)
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Zero(t, *s.calls)
}

func TestTranscribeBodyLimit(t *testing.T) {
	s := newTestServer(t, nil, 100)

	body := transcribeBody(1)
	body["audioData"] = strings.Repeat("A", 2<<20)
	w := s.do(t, http.MethodPost, "/api/transcribe", auth.MockToken, body)
	require.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
}

func TestTranscribeRateLimited(t *testing.T) {
	s := newTestServer(t, nil, 2)

	for i := 0; i < 2; i++ {
		w := s.do(t, http.MethodPost, "/api/transcribe", auth.MockToken, transcribeBody(1))
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := s.do(t, http.MethodPost, "/api/transcribe", auth.MockToken, transcribeBody(1))
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	require.JSONEq(t, `{"error":"Too many requests, please try again later."}`, w.Body.String())
	require.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestLoginProvisionsAndTopUp(t *testing.T) {
	s := newTestServer(t, nil, 100)

	w := s.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "Ada@Example.com", "name": "Ada"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var login struct {
		Tokens  auth.AuthTokens `json:"tokens"`
		Account credit.Account  `json:"account"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))
	require.Equal(t, 60, login.Account.BalanceMinutes)
	require.Equal(t, "ada@example.com", login.Account.Email)

	token := login.Tokens.AccessToken
	w = s.do(t, http.MethodPost, "/api/credits/topup", token, nil, "X-Request-ID", "checkout-1")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Contains(t, w.Body.String(), `"balanceMinutes":560`)

	// same checkout replayed
	w = s.do(t, http.MethodPost, "/api/credits/topup", token, nil, "X-Request-ID", "checkout-1")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"balanceMinutes":560`)

	w = s.do(t, http.MethodPost, "/api/credits/topup", token, map[string]any{"minutes": -5})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/api/credits/history", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var history struct {
		Entries []credit.Entry `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &history))
	require.Len(t, history.Entries, 1)
	require.Equal(t, credit.EntryCredit, history.Entries[0].Kind)

	w = s.do(t, http.MethodPost, "/api/auth/login", "", map[string]any{"email": "not-an-email"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestExport(t *testing.T) {
	s := newTestServer(t, nil, 100)
	result := transcript.TranscriptionResult{
		SpeakersDetected: 1,
		Segments:         []transcript.TranscriptSegment{{Start: 65.25, End: 70, Speaker: "Speaker 1", Text: "Hello"}},
	}

	w := s.do(t, http.MethodPost, "/api/transcripts/export?format=txt", "", result)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "[1:05.2 - 1:10.0] Speaker 1: Hello", w.Body.String())
	require.Equal(t, `attachment; filename="transcript.txt"`, w.Header().Get("Content-Disposition"))

	w = s.do(t, http.MethodPost, "/api/transcripts/export?format=txt&timestamps=false", "", result)
	require.Equal(t, "Speaker 1: Hello", w.Body.String())

	w = s.do(t, http.MethodPost, "/api/transcripts/export?format=json", "", result)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"speakersDetected":1,"segments":[{"start":65.25,"end":70,"speaker":"Speaker 1","text":"Hello"}]}`, w.Body.String())

	w = s.do(t, http.MethodPost, "/api/transcripts/export?format=pdf", "", result)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCORS(t *testing.T) {
	s := newTestServer(t, nil, 100)

	w := s.do(t, http.MethodOptions, "/api/transcribe", "", nil, "Origin", "https://scribe.example.com")
	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "https://scribe.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	w = s.do(t, http.MethodGet, "/health", "", nil, "Origin", "http://localhost:3000")
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodGet, "/health", "", nil, "Origin", "https://evil.example.com")
	require.Equal(t, http.StatusForbidden, w.Code)
}
