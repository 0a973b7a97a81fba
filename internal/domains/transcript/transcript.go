package transcript

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	ErrInvalidSpeakerCount = errors.New("invalid speaker count")
)

// MaxSpeakerHint bounds the explicit speaker count a caller may request.
const MaxSpeakerHint = 10

// TranscriptSegment is a time-bounded, speaker-attributed span of text.
// @Description One diarized segment, times in seconds
type TranscriptSegment struct {
	Start   float64 `json:"start" example:"0"`
	End     float64 `json:"end" example:"4.2"`
	Speaker string  `json:"speaker" example:"Speaker 1"`
	Text    string  `json:"text" example:"Hi there"`
}

// Duration of the segment in seconds.
func (s TranscriptSegment) Duration() float64 {
	return s.End - s.Start
}

// TranscriptionResult is what the engine returns and what callers export.
// @Description Diarized transcript
type TranscriptionResult struct {
	SpeakersDetected int                 `json:"speakersDetected" example:"2"`
	Segments         []TranscriptSegment `json:"segments"`
}

// DistinctSpeakers counts the distinct speaker labels across segments.
func DistinctSpeakers(segments []TranscriptSegment) int {
	seen := make(map[string]struct{}, 4)
	for _, s := range segments {
		seen[s.Speaker] = struct{}{}
	}
	return len(seen)
}

// SpeakerCount is either "auto" (zero value) or a fixed number of speakers.
// On the wire it is the string "auto" or an integer.
type SpeakerCount struct {
	n int
}

var SpeakerCountAuto = SpeakerCount{}

func FixedSpeakers(n int) (SpeakerCount, error) {
	if n < 1 || n > MaxSpeakerHint {
		return SpeakerCount{}, fmt.Errorf("%w: %d (want 1..%d or \"auto\")", ErrInvalidSpeakerCount, n, MaxSpeakerHint)
	}
	return SpeakerCount{n: n}, nil
}

func (c SpeakerCount) IsAuto() bool { return c.n == 0 }

// Value returns the fixed count, 0 when auto.
func (c SpeakerCount) Value() int { return c.n }

func (c SpeakerCount) String() string {
	if c.IsAuto() {
		return "auto"
	}
	return strconv.Itoa(c.n)
}

func (c SpeakerCount) MarshalJSON() ([]byte, error) {
	if c.IsAuto() {
		return []byte(`"auto"`), nil
	}
	return []byte(strconv.Itoa(c.n)), nil
}

func (c *SpeakerCount) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == `""` {
		*c = SpeakerCountAuto
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if strings.EqualFold(s, "auto") {
			*c = SpeakerCountAuto
			return nil
		}
		// a numeric string, e.g. from a <select> value
		n, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrInvalidSpeakerCount, s)
		}
		parsed, err := FixedSpeakers(n)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}
	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidSpeakerCount, raw)
	}
	parsed, err := FixedSpeakers(n)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Options controls diarization and rendering.
// @Description Processing options
type Options struct {
	SpeakerCount   SpeakerCount `json:"speakerCount" swaggertype:"string" example:"auto"`
	ShowTimestamps bool         `json:"showTimestamps" example:"true"`
}
