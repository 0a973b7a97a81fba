package transcript

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSpeakerCountJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw     string
		want    SpeakerCount
		wantErr bool
	}{
		{raw: `"auto"`, want: SpeakerCountAuto},
		{raw: `"AUTO"`, want: SpeakerCountAuto},
		{raw: `null`, want: SpeakerCountAuto},
		{raw: `3`, want: SpeakerCount{n: 3}},
		{raw: `"2"`, want: SpeakerCount{n: 2}},
		{raw: `0`, wantErr: true},
		{raw: `11`, wantErr: true},
		{raw: `"many"`, wantErr: true},
		{raw: `2.5`, wantErr: true},
	}
	for _, tc := range tests {
		var got SpeakerCount
		err := json.Unmarshal([]byte(tc.raw), &got)
		if tc.wantErr {
			require.Error(t, err, tc.raw)
			continue
		}
		require.NoError(t, err, tc.raw)
		require.Equal(t, tc.want, got, tc.raw)
	}
}

func TestSpeakerCountRoundTripInOptions(t *testing.T) {
	t.Parallel()

	var opts Options
	require.NoError(t, json.Unmarshal([]byte(`{"speakerCount":4,"showTimestamps":true}`), &opts))
	require.Equal(t, 4, opts.SpeakerCount.Value())
	require.True(t, opts.ShowTimestamps)

	out, err := json.Marshal(Options{})
	require.NoError(t, err)
	require.JSONEq(t, `{"speakerCount":"auto","showTimestamps":false}`, string(out))
	require.Equal(t, "auto", SpeakerCountAuto.String())
}

func TestDistinctSpeakers(t *testing.T) {
	t.Parallel()

	require.Equal(t, 0, DistinctSpeakers(nil))
	require.Equal(t, 2, DistinctSpeakers([]TranscriptSegment{
		{Speaker: "A"}, {Speaker: "B"}, {Speaker: "A"},
	}))
}
