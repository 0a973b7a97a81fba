package transcript

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want string
	}{
		{0, "0:00.0"},
		{4, "0:04.0"},
		{2.5, "0:02.5"},
		{65.25, "1:05.2"},
		{125.5, "2:05.5"},
		{600, "10:00.0"},
		{3725.75, "62:05.7"},
		{-1, "0:00.0"},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, FormatTimestamp(tc.in), "seconds=%v", tc.in)
	}
}

var sample = TranscriptionResult{
	SpeakersDetected: 2,
	Segments: []TranscriptSegment{
		{Start: 0, End: 4, Speaker: "A", Text: "Hi there"},
		{Start: 5, End: 7, Speaker: "B", Text: "Hello"},
	},
}

func TestExportText(t *testing.T) {
	t.Parallel()

	require.Equal(t,
		"[0:00.0 - 0:04.0] A: Hi there\n[0:05.0 - 0:07.0] B: Hello",
		ExportText(sample, true))
	require.Equal(t, "A: Hi there\nB: Hello", ExportText(sample, false))
	require.Empty(t, ExportText(TranscriptionResult{}, true))
}

func TestExportJSONFieldNames(t *testing.T) {
	t.Parallel()

	out, err := ExportJSON(TranscriptionResult{
		SpeakersDetected: 1,
		Segments:         []TranscriptSegment{{Start: 0, End: 2.5, Speaker: "A", Text: "Hi"}},
	})
	require.NoError(t, err)
	require.Equal(t, `{
  "speakersDetected": 1,
  "segments": [
    {
      "start": 0,
      "end": 2.5,
      "speaker": "A",
      "text": "Hi"
    }
  ]
}`, string(out))

	empty, err := ExportJSON(TranscriptionResult{})
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(empty, &decoded))
	require.Equal(t, []any{}, decoded["segments"])
}

func TestExportMarkdownGroupsTurns(t *testing.T) {
	t.Parallel()

	md := ExportMarkdown(TranscriptionResult{
		SpeakersDetected: 2,
		Segments: []TranscriptSegment{
			{Start: 0, End: 4, Speaker: "A", Text: "Hi there"},
			{Start: 5, End: 7, Speaker: "A", Text: "again"},
			{Start: 8, End: 9, Speaker: "B", Text: "Hello"},
		},
	}, true)
	require.Contains(t, md, "- Speakers: 2\n")
	require.Contains(t, md, "### A (0:00.0 - 0:07.0)\n\nHi there\n\nagain\n\n")
	require.Contains(t, md, "### B (0:08.0 - 0:09.0)")

	plain := ExportMarkdown(sample, false)
	require.Contains(t, plain, "### A\n\n")
}

func TestParseExportFormat(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]ExportFormat{
		"":         FormatText,
		"TXT":      FormatText,
		"json":     FormatJSON,
		"markdown": FormatMarkdown,
		"md":       FormatMarkdown,
	} {
		got, err := ParseExportFormat(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	_, err := ParseExportFormat("pdf")
	require.Error(t, err)
	require.Equal(t, "transcript.json", FormatJSON.FileName())
}

func TestExportDispatch(t *testing.T) {
	t.Parallel()

	out, err := Export(sample, FormatText, false)
	require.NoError(t, err)
	require.Equal(t, "A: Hi there\nB: Hello", string(out))

	_, err = Export(sample, ExportFormat("pdf"), false)
	require.Error(t, err)
}
