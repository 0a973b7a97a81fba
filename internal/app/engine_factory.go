package app

import (
	"context"
	"fmt"

	"github.com/xpanvictor/audioscribe/internal/config"
	"github.com/xpanvictor/audioscribe/internal/models/diarizer"
	"github.com/xpanvictor/audioscribe/pkg/Logger"
)

const (
	ProviderGenAI        = "genai"
	ProviderGenerativeAI = "generative-ai"
)

// EngineFactory creates the diarization engine named by the settings
type EngineFactory struct {
	config config.EngineConfig
	logger *Logger.Logger
}

func NewEngineFactory(config config.EngineConfig, logger *Logger.Logger) *EngineFactory {
	return &EngineFactory{
		config: config,
		logger: logger,
	}
}

func (f *EngineFactory) diarizerConfig() diarizer.Config {
	return diarizer.Config{
		APIKey:      f.config.APIKey,
		ModelName:   f.config.Model,
		Temperature: f.config.Temperature,
	}
}

// CreateEngine returns the engine and a function releasing its client.
func (f *EngineFactory) CreateEngine(ctx context.Context) (diarizer.Engine, func() error, error) {
	if f.config.APIKey == "" {
		return nil, nil, fmt.Errorf("engine.apiKey is not configured")
	}

	switch f.config.Provider {
	case "", ProviderGenAI:
		engine, err := diarizer.NewGenAIEngine(ctx, f.diarizerConfig(), f.logger.Named("genai"))
		if err != nil {
			return nil, nil, err
		}
		f.logger.Infof("diarization engine: %s", engine.Name())
		return engine, func() error { return nil }, nil
	case ProviderGenerativeAI:
		engine, err := diarizer.NewGenerativeAIEngine(ctx, f.diarizerConfig(), f.logger.Named("generative-ai"))
		if err != nil {
			return nil, nil, err
		}
		f.logger.Infof("diarization engine: %s", engine.Name())
		return engine, engine.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown engine provider %q", f.config.Provider)
	}
}
