package transcript

import "sort"

// GapThreshold is the largest pause, in seconds, that still joins two
// same-speaker segments into one turn. Gaps equal to it do not merge.
const GapThreshold = 0.4

// Normalize coalesces adjacent same-speaker segments whose gap is below
// GapThreshold in a single left-to-right pass. The input is not modified.
//
// Segments are stably sorted by start first, which leaves already ordered
// input untouched, and an end before its start is clamped to the start.
func Normalize(raw []TranscriptSegment) []TranscriptSegment {
	if len(raw) == 0 {
		return []TranscriptSegment{}
	}

	ordered := make([]TranscriptSegment, len(raw))
	copy(ordered, raw)
	for i := range ordered {
		if ordered[i].End < ordered[i].Start {
			ordered[i].End = ordered[i].Start
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Start < ordered[j].Start
	})

	merged := make([]TranscriptSegment, 0, len(ordered))
	current := ordered[0]
	for _, next := range ordered[1:] {
		gap := next.Start - current.End
		if next.Speaker == current.Speaker && gap < GapThreshold {
			current.End = next.End
			current.Text = current.Text + " " + next.Text
			continue
		}
		merged = append(merged, current)
		current = next
	}
	merged = append(merged, current)
	return merged
}

// NormalizeResult normalizes the segments of r and reconciles the speaker
// count with the labels actually present. An empty result keeps the count
// the engine reported.
func NormalizeResult(r TranscriptionResult) TranscriptionResult {
	out := TranscriptionResult{
		SpeakersDetected: r.SpeakersDetected,
		Segments:         Normalize(r.Segments),
	}
	if len(out.Segments) > 0 {
		out.SpeakersDetected = DistinctSpeakers(out.Segments)
	}
	return out
}

// GroupBySpeaker clusters consecutive segments that share a speaker, for
// display. It does not look at gaps and never reorders.
func GroupBySpeaker(segments []TranscriptSegment) [][]TranscriptSegment {
	groups := [][]TranscriptSegment{}
	for i, seg := range segments {
		if i == 0 || seg.Speaker != segments[i-1].Speaker {
			groups = append(groups, []TranscriptSegment{seg})
			continue
		}
		last := len(groups) - 1
		groups[last] = append(groups[last], seg)
	}
	return groups
}
