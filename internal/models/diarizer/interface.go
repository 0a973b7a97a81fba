package diarizer

import (
	"context"
	"errors"

	"github.com/xpanvictor/audioscribe/internal/domains/transcript"
)

var (
	ErrEmptyAudio        = errors.New("empty audio payload")
	ErrNoCandidates      = errors.New("no response candidates received")
	ErrMalformedResponse = errors.New("malformed diarization response")
)

// DefaultModel is used when the configuration names none.
const DefaultModel = "gemini-3-flash-preview"

// Audio is a complete uploaded file.
type Audio struct {
	Data     []byte
	MIMEType string
}

// Engine performs speaker diarization plus transcription on a full audio
// file and returns the raw, unmerged segments.
type Engine interface {
	Diarize(ctx context.Context, audio Audio, opts transcript.Options) (*transcript.TranscriptionResult, error)
	Name() string
}

// EngineFunc adapts a function to Engine.
type EngineFunc func(ctx context.Context, audio Audio, opts transcript.Options) (*transcript.TranscriptionResult, error)

func (f EngineFunc) Diarize(ctx context.Context, audio Audio, opts transcript.Options) (*transcript.TranscriptionResult, error) {
	return f(ctx, audio, opts)
}

func (f EngineFunc) Name() string { return "func" }

// Config holds configuration shared by the Gemini engines
type Config struct {
	APIKey      string
	ModelName   string
	Temperature float32
}

func (c Config) model() string {
	if c.ModelName == "" {
		return DefaultModel
	}
	return c.ModelName
}

func (c Config) temperature() float32 {
	if c.Temperature <= 0 {
		return 0.1 // low temperature for consistency
	}
	return c.Temperature
}
