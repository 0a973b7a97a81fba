package transcription

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/xpanvictor/audioscribe/internal/domains/auth"
	"github.com/xpanvictor/audioscribe/internal/domains/credit"
	"github.com/xpanvictor/audioscribe/internal/domains/transcript"
	"github.com/xpanvictor/audioscribe/internal/models/diarizer"
	"github.com/xpanvictor/audioscribe/pkg/Logger"
)

var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrUnsupportedMediaType = fmt.Errorf("%w: unsupported audio type", ErrInvalidInput)
	ErrEngineFailure        = errors.New("engine failure")
	ErrRequestInFlight      = errors.New("a request is already processing for this session")
)

const (
	DefaultEngineTimeout = 5 * time.Minute
	DefaultMaxSessions   = 8
)

// Submission is a Request bound to the caller.
type Submission struct {
	AccountID string
	// SessionID scopes the no-overlap rule within the account
	SessionID string
	// RequestID is the debit reference, generated when empty
	RequestID string
	Request   Request
}

// Outcome is a successful run.
type Outcome struct {
	RequestID      string                          `json:"requestId"`
	Result         *transcript.TranscriptionResult `json:"result"`
	ChargedMinutes int                             `json:"chargedMinutes"`
	BalanceMinutes int                             `json:"balanceMinutes"`
}

// Service runs the gated pipeline: reserve the minutes, call the engine,
// normalize and, only after all of that succeeds, commit the debit.
type Service interface {
	Transcribe(ctx context.Context, sub Submission, observe Observer) (*Outcome, error)
	// Stage is the current stage of a session, idle if not tracked.
	Stage(accountID, sessionID string) Stage
}

type Config struct {
	EngineTimeout time.Duration
	// MaxSessions caps the sessions tracked per account. Finished ones
	// are evicted oldest first.
	MaxSessions int
}

// tracked is a session plus its registry bookkeeping, guarded by
// transcriptionService.mu.
type tracked struct {
	*session
	busy bool
	// order in which it last finished
	finished uint64
}

type transcriptionService struct {
	ledger credit.Ledger
	engine diarizer.Engine
	logger *Logger.Logger
	config Config

	mu sync.Mutex
	// account -> session id -> session
	sessions map[string]map[string]*tracked
	finishes uint64
}

// acquire claims the session for one request.
func (s *transcriptionService) acquire(sub Submission) (*tracked, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID := s.sessions[sub.AccountID]
	if byID == nil {
		byID = make(map[string]*tracked)
		s.sessions[sub.AccountID] = byID
	}
	t, ok := byID[sub.SessionID]
	if ok {
		if t.busy || !t.canStart() {
			return nil, ErrRequestInFlight
		}
	} else {
		if len(byID) >= s.config.MaxSessions && !s.evictLocked(byID) {
			return nil, fmt.Errorf("%w: %d sessions busy", ErrRequestInFlight, len(byID))
		}
		log := s.logger.With("account", sub.AccountID, "session", sub.SessionID)
		t = &tracked{session: newSession(func(stage Stage) {
			log.Debugf("stage -> %s", stage)
		})}
		byID[sub.SessionID] = t
	}
	t.busy = true
	return t, nil
}

func (s *transcriptionService) finish(t *tracked) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finishes++
	t.busy = false
	t.finished = s.finishes
}

// evictLocked drops the session that finished first. False if every
// session is busy.
func (s *transcriptionService) evictLocked(byID map[string]*tracked) bool {
	var (
		oldest string
		found  bool
	)
	for id, t := range byID {
		if t.busy {
			continue
		}
		if !found || t.finished < byID[oldest].finished {
			oldest, found = id, true
		}
	}
	if found {
		delete(byID, oldest)
	}
	return found
}

// Stage implements Service
func (s *transcriptionService) Stage(accountID, sessionID string) Stage {
	s.mu.Lock()
	t, ok := s.sessions[accountID][sessionID]
	s.mu.Unlock()
	if !ok {
		return StageIdle
	}
	return t.current()
}

// Transcribe implements Service
func (s *transcriptionService) Transcribe(ctx context.Context, sub Submission, observe Observer) (*Outcome, error) {
	if sub.AccountID == "" {
		return nil, auth.ErrUnauthorized
	}
	input, err := sub.Request.validate()
	if err != nil {
		return nil, err
	}
	if sub.RequestID == "" {
		sub.RequestID = uuid.NewString()
	}
	log := s.logger.With("account", sub.AccountID, "request_id", sub.RequestID)

	sess, err := s.acquire(sub)
	if err != nil {
		return nil, err
	}
	defer s.finish(sess)

	ok, err := s.ledger.CheckSufficient(ctx, sub.AccountID, input.minutes)
	if err != nil {
		return nil, err
	}
	if !ok {
		log.Infof("rejected: %d minutes required", input.minutes)
		return nil, fmt.Errorf("%w: %d minutes required", credit.ErrInsufficientBalance, input.minutes)
	}

	// the hold serializes this check with the debit across sessions
	reservation, err := s.ledger.Reserve(ctx, sub.AccountID, input.minutes, sub.RequestID)
	if err != nil {
		log.Infof("rejected: %v", err)
		return nil, err
	}

	if err := sess.fire(ctx, eventUpload, observe); err != nil {
		s.ledger.Release(reservation)
		return nil, ErrRequestInFlight
	}

	outcome, err := s.run(ctx, sess.session, sub, input, reservation, observe, log)
	if err != nil {
		s.ledger.Release(reservation)
		if ferr := sess.fire(ctx, eventFail, observe); ferr != nil {
			log.Warnf("failed to record error stage: %v", ferr)
		}
		return nil, err
	}
	return outcome, nil
}

func (s *transcriptionService) run(ctx context.Context, sess *session, sub Submission, input *validated, reservation *credit.Reservation, observe Observer, log *Logger.Logger) (*Outcome, error) {
	if err := sess.fire(ctx, eventDiarize, observe); err != nil {
		return nil, err
	}

	engineCtx, cancel := context.WithTimeout(ctx, s.config.EngineTimeout)
	raw, err := s.engine.Diarize(engineCtx, diarizer.Audio{
		Data:     input.audio,
		MIMEType: sub.Request.MediaType(),
	}, sub.Request.Options)
	cancel()
	if err != nil {
		log.Errorf("engine %s failed: %v", s.engine.Name(), err)
		return nil, fmt.Errorf("%w: %v", ErrEngineFailure, err)
	}

	if err := sess.fire(ctx, eventTranscribe, observe); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: empty engine result", ErrEngineFailure)
	}

	if err := sess.fire(ctx, eventMerge, observe); err != nil {
		return nil, err
	}
	result := transcript.NormalizeResult(*raw)

	account, err := s.ledger.Commit(ctx, reservation)
	if err != nil {
		log.Errorf("debit of %d minutes failed: %v", input.minutes, err)
		return nil, err
	}

	if err := sess.fire(ctx, eventComplete, observe); err != nil {
		return nil, err
	}
	log.Infof("completed: %d segments, %d speakers, balance %d", len(result.Segments), result.SpeakersDetected, account.BalanceMinutes)

	return &Outcome{
		RequestID:      sub.RequestID,
		Result:         &result,
		ChargedMinutes: input.minutes,
		BalanceMinutes: account.BalanceMinutes,
	}, nil
}

// UserMessage is the short text shown to a user for err.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, auth.ErrUnauthorized), errors.Is(err, credit.ErrAccountNotFound):
		return "Your session has expired. Please log in again."
	case errors.Is(err, credit.ErrInsufficientBalance):
		return "Insufficient credits for this file."
	case errors.Is(err, credit.ErrInvalidAmount):
		return "Invalid credit amount."
	case errors.Is(err, ErrUnsupportedMediaType):
		return "Please upload a valid audio file (MP3, WAV, M4A)."
	case errors.Is(err, ErrInvalidInput):
		return "The audio file could not be read."
	case errors.Is(err, ErrRequestInFlight):
		return "A transcription is already in progress."
	case errors.Is(err, credit.ErrDuplicateReference):
		return "This request was already processed."
	default:
		return "AI Processing failed"
	}
}

func NewService(ledger credit.Ledger, engine diarizer.Engine, logger *Logger.Logger, config Config) Service {
	if config.EngineTimeout <= 0 {
		config.EngineTimeout = DefaultEngineTimeout
	}
	if config.MaxSessions <= 0 {
		config.MaxSessions = DefaultMaxSessions
	}
	return &transcriptionService{
		ledger:   ledger,
		engine:   engine,
		logger:   logger,
		config:   config,
		sessions: make(map[string]map[string]*tracked),
	}
}
