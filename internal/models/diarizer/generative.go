package diarizer

import (
	"context"
	"fmt"
	"strings"

	gemini "github.com/google/generative-ai-go/genai"
	"github.com/xpanvictor/audioscribe/internal/domains/transcript"
	"github.com/xpanvictor/audioscribe/pkg/Logger"
	"google.golang.org/api/option"
)

// GenerativeAIEngine implements Engine on the generative-ai-go client.
type GenerativeAIEngine struct {
	client *gemini.Client
	model  *gemini.GenerativeModel
	name   string
	logger *Logger.Logger
}

func NewGenerativeAIEngine(ctx context.Context, config Config, logger *Logger.Logger) (*GenerativeAIEngine, error) {
	client, err := gemini.NewClient(ctx, option.WithAPIKey(config.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(config.model())
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = generativeResultSchema()
	model.SetTemperature(config.temperature())

	return &GenerativeAIEngine{
		client: client,
		model:  model,
		name:   config.model(),
		logger: logger,
	}, nil
}

func (g *GenerativeAIEngine) Name() string { return "generative-ai:" + g.name }

// Diarize implements Engine
func (g *GenerativeAIEngine) Diarize(ctx context.Context, audio Audio, opts transcript.Options) (*transcript.TranscriptionResult, error) {
	if len(audio.Data) == 0 {
		return nil, ErrEmptyAudio
	}

	g.logger.Debugf("gemini diarize: model=%s mime=%s bytes=%d", g.name, audio.MIMEType, len(audio.Data))

	resp, err := g.model.GenerateContent(ctx,
		gemini.Blob{MIMEType: audio.MIMEType, Data: audio.Data},
		gemini.Text(BuildPrompt(opts)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, ErrNoCandidates
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if textPart, ok := part.(gemini.Text); ok {
			sb.WriteString(string(textPart))
		}
	}

	return DecodeResult(sb.String())
}

// Close releases the underlying client.
func (g *GenerativeAIEngine) Close() error {
	return g.client.Close()
}

func generativeResultSchema() *gemini.Schema {
	return &gemini.Schema{
		Type: gemini.TypeObject,
		Properties: map[string]*gemini.Schema{
			"speakersDetected": {Type: gemini.TypeInteger},
			"segments": {
				Type: gemini.TypeArray,
				Items: &gemini.Schema{
					Type: gemini.TypeObject,
					Properties: map[string]*gemini.Schema{
						"start":   {Type: gemini.TypeNumber},
						"end":     {Type: gemini.TypeNumber},
						"speaker": {Type: gemini.TypeString},
						"text":    {Type: gemini.TypeString},
					},
					Required: []string{"start", "end", "speaker", "text"},
				},
			},
		},
		Required: []string{"speakersDetected", "segments"},
	}
}
