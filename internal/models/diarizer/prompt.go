package diarizer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"github.com/xpanvictor/audioscribe/internal/domains/transcript"
)

// SpeakerDirective tells the model how many speakers to look for.
func SpeakerDirective(count transcript.SpeakerCount) string {
	if count.IsAuto() {
		return "Detect all unique speakers automatically."
	}
	return fmt.Sprintf("There are exactly %d speakers in this audio. Identify them as Speaker 1, Speaker 2, etc.", count.Value())
}

// BuildPrompt is the instruction sent alongside the audio part.
func BuildPrompt(opts transcript.Options) string {
	return "Analyze the attached audio. " +
		"1. Perform speaker diarization. " +
		"2. Transcribe accurately. " +
		"3. " + SpeakerDirective(opts.SpeakerCount) + " " +
		"4. Provide JSON with speakersDetected (number) and segments " +
		"(array of {start, end, speaker, text}, times in seconds)."
}

// DecodeResult parses the model's JSON reply. An empty reply is an empty
// transcript. Syntax errors get one repair attempt before failing.
func DecodeResult(text string) (*transcript.TranscriptionResult, error) {
	text = stripFences(text)
	if text == "" {
		return &transcript.TranscriptionResult{Segments: []transcript.TranscriptSegment{}}, nil
	}

	var result transcript.TranscriptionResult
	if err := unmarshalJSON([]byte(text), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if result.Segments == nil {
		result.Segments = []transcript.TranscriptSegment{}
	}
	if result.SpeakersDetected < 0 {
		result.SpeakersDetected = 0
	}
	return &result, nil
}

func unmarshalJSON(data []byte, v any) error {
	err := json.Unmarshal(data, v)
	if err == nil {
		return nil
	}
	if _, ok := err.(*json.SyntaxError); ok {
		fixed, rerr := jsonrepair.JSONRepair(string(data))
		if rerr != nil {
			return err
		}
		return json.Unmarshal([]byte(fixed), v)
	}
	return err
}

// stripFences drops a markdown code fence some models wrap JSON in.
func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[i+1:]
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	return strings.TrimSpace(text)
}
