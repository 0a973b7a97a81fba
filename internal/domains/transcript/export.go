package transcript

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
)

type ExportFormat string

const (
	FormatText     ExportFormat = "txt"
	FormatJSON     ExportFormat = "json"
	FormatMarkdown ExportFormat = "md"
)

// FileName is the attachment name used for downloads.
func (f ExportFormat) FileName() string {
	return "transcript." + string(f)
}

func (f ExportFormat) ContentType() string {
	switch f {
	case FormatJSON:
		return "application/json"
	case FormatMarkdown:
		return "text/markdown; charset=utf-8"
	default:
		return "text/plain; charset=utf-8"
	}
}

func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatText, "text":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatMarkdown, "markdown":
		return FormatMarkdown, nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// FormatTimestamp renders seconds as m:ss.d, seconds zero padded to two
// digits and one truncated decisecond digit.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	mins := int(math.Floor(seconds / 60))
	secs := int(math.Floor(math.Mod(seconds, 60)))
	ds := int(math.Floor(math.Mod(seconds, 1) * 10))
	return fmt.Sprintf("%d:%02d.%d", mins, secs, ds)
}

// Line renders one segment as a text export line.
func Line(s TranscriptSegment, showTimestamps bool) string {
	if showTimestamps {
		return fmt.Sprintf("[%s - %s] %s: %s", FormatTimestamp(s.Start), FormatTimestamp(s.End), s.Speaker, s.Text)
	}
	return fmt.Sprintf("%s: %s", s.Speaker, s.Text)
}

// ExportText joins one line per segment with newlines, no trailing newline.
func ExportText(r TranscriptionResult, showTimestamps bool) string {
	lines := make([]string, len(r.Segments))
	for i, s := range r.Segments {
		lines[i] = Line(s, showTimestamps)
	}
	return strings.Join(lines, "\n")
}

// ExportJSON pretty prints the result with two-space indentation.
func ExportJSON(r TranscriptionResult) ([]byte, error) {
	if r.Segments == nil {
		r.Segments = []TranscriptSegment{}
	}
	return json.MarshalIndent(r, "", "  ")
}

// ExportMarkdown renders speaker turns as sections, one paragraph per segment.
func ExportMarkdown(r TranscriptionResult, showTimestamps bool) string {
	var b strings.Builder
	b.WriteString("# Transcript\n\n")
	fmt.Fprintf(&b, "- Speakers: %d\n", r.SpeakersDetected)
	if n := len(r.Segments); n > 0 {
		fmt.Fprintf(&b, "- Duration: %s\n", FormatTimestamp(r.Segments[n-1].End))
	}
	b.WriteString("\n---\n\n")

	for _, group := range GroupBySpeaker(r.Segments) {
		fmt.Fprintf(&b, "### %s", group[0].Speaker)
		if showTimestamps {
			fmt.Fprintf(&b, " (%s - %s)", FormatTimestamp(group[0].Start), FormatTimestamp(group[len(group)-1].End))
		}
		b.WriteString("\n\n")
		for _, seg := range group {
			fmt.Fprintf(&b, "%s\n\n", strings.TrimSpace(seg.Text))
		}
	}
	return b.String()
}

// Export renders r in the requested format.
func Export(r TranscriptionResult, format ExportFormat, showTimestamps bool) ([]byte, error) {
	switch format {
	case FormatJSON:
		return ExportJSON(r)
	case FormatMarkdown:
		return []byte(ExportMarkdown(r, showTimestamps)), nil
	case FormatText:
		return []byte(ExportText(r, showTimestamps)), nil
	}
	return nil, fmt.Errorf("unsupported export format %q", format)
}
