package diarizer

import (
	"context"
	"fmt"
	"strings"

	"github.com/xpanvictor/audioscribe/internal/domains/transcript"
	"github.com/xpanvictor/audioscribe/pkg/Logger"
	"google.golang.org/genai"
)

// GenAIEngine implements Engine on the google.golang.org/genai SDK.
type GenAIEngine struct {
	client *genai.Client
	cfg    Config
	logger *Logger.Logger
}

func NewGenAIEngine(ctx context.Context, config Config, logger *Logger.Logger) (*GenAIEngine, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GenAIEngine{client: client, cfg: config, logger: logger}, nil
}

func (g *GenAIEngine) Name() string { return "genai:" + g.cfg.model() }

// Diarize implements Engine
func (g *GenAIEngine) Diarize(ctx context.Context, audio Audio, opts transcript.Options) (*transcript.TranscriptionResult, error) {
	if len(audio.Data) == 0 {
		return nil, ErrEmptyAudio
	}

	prompt := BuildPrompt(opts)
	g.logger.Debugf("genai diarize: model=%s mime=%s bytes=%d speakers=%s", g.cfg.model(), audio.MIMEType, len(audio.Data), opts.SpeakerCount)

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromBytes(audio.Data, audio.MIMEType),
			genai.NewPartFromText(prompt),
		}, genai.RoleUser),
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.cfg.model(), contents, g.generateConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, ErrNoCandidates
	}

	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil && p.Text != "" {
			sb.WriteString(p.Text)
		}
	}
	g.logger.Debugf("genai response: %d bytes", sb.Len())

	return DecodeResult(sb.String())
}

func (g *GenAIEngine) generateConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   genaiResultSchema(),
		Temperature:      genai.Ptr(g.cfg.temperature()),
	}
}

func genaiResultSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"speakersDetected": {Type: genai.TypeInteger},
			"segments": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"start":   {Type: genai.TypeNumber},
						"end":     {Type: genai.TypeNumber},
						"speaker": {Type: genai.TypeString},
						"text":    {Type: genai.TypeString},
					},
					Required: []string{"start", "end", "speaker", "text"},
				},
			},
		},
		Required: []string{"speakersDetected", "segments"},
	}
}
