package diarizer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xpanvictor/audioscribe/internal/domains/transcript"
)

func TestSpeakerDirective(t *testing.T) {
	t.Parallel()

	require.Equal(t, "Detect all unique speakers automatically.", SpeakerDirective(transcript.SpeakerCountAuto))

	n, err := transcript.FixedSpeakers(3)
	require.NoError(t, err)
	require.Contains(t, SpeakerDirective(n), "exactly 3 speakers")

	prompt := BuildPrompt(transcript.Options{SpeakerCount: n})
	require.Contains(t, prompt, "exactly 3 speakers")
	require.Contains(t, prompt, "speakersDetected")
}

func TestDecodeResult(t *testing.T) {
	t.Parallel()

	raw := `{"speakersDetected":2,"segments":[{"start":0,"end":1.5,"speaker":"Speaker 1","text":"Hi"},{"start":1.6,"end":3,"speaker":"Speaker 2","text":"Hello"}]}`
	res, err := DecodeResult(raw)
	require.NoError(t, err)
	require.Equal(t, 2, res.SpeakersDetected)
	require.Len(t, res.Segments, 2)
	require.Equal(t, "Speaker 2", res.Segments[1].Speaker)
	require.InDelta(t, 1.6, res.Segments[1].Start, 1e-9)
}

func TestDecodeResultStripsFences(t *testing.T) {
	t.Parallel()

	res, err := DecodeResult("```json\n{\"speakersDetected\":1,\"segments\":[]}\n```")
	require.NoError(t, err)
	require.Equal(t, 1, res.SpeakersDetected)
	require.NotNil(t, res.Segments)
	require.Empty(t, res.Segments)
}

func TestDecodeResultRepairsTrailingComma(t *testing.T) {
	t.Parallel()

	res, err := DecodeResult(`{"speakersDetected":1,"segments":[{"start":0,"end":1,"speaker":"A","text":"x"},]}`)
	require.NoError(t, err)
	require.Len(t, res.Segments, 1)
}

func TestDecodeResultEmptyAndMalformed(t *testing.T) {
	t.Parallel()

	res, err := DecodeResult("   ")
	require.NoError(t, err)
	require.Equal(t, 0, res.SpeakersDetected)
	require.NotNil(t, res.Segments)

	res, err = DecodeResult(`{"speakersDetected":-2}`)
	require.NoError(t, err)
	require.Equal(t, 0, res.SpeakersDetected)
	require.NotNil(t, res.Segments)

	_, err = DecodeResult(`{"speakersDetected":"two","segments":[]}`)
	require.ErrorIs(t, err, ErrMalformedResponse)
}

func TestResultSchemas(t *testing.T) {
	t.Parallel()

	s := genaiResultSchema()
	require.ElementsMatch(t, []string{"speakersDetected", "segments"}, s.Required)
	require.ElementsMatch(t, []string{"start", "end", "speaker", "text"}, s.Properties["segments"].Items.Required)

	g := generativeResultSchema()
	require.ElementsMatch(t, []string{"speakersDetected", "segments"}, g.Required)
	require.Len(t, g.Properties["segments"].Items.Properties, 4)
}

func TestEngineFunc(t *testing.T) {
	t.Parallel()

	var e Engine = EngineFunc(func(ctx context.Context, a Audio, o transcript.Options) (*transcript.TranscriptionResult, error) {
		return &transcript.TranscriptionResult{SpeakersDetected: 1}, nil
	})
	res, err := e.Diarize(context.Background(), Audio{Data: []byte{1}}, transcript.Options{})
	require.NoError(t, err)
	require.Equal(t, 1, res.SpeakersDetected)
	require.Equal(t, "func", e.Name())
}
