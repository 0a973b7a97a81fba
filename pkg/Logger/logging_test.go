package Logger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewBuildsBothModes(t *testing.T) {
	for _, debug := range []bool{true, false} {
		l := New(debug)
		require.NotNil(t, l)
		require.NotNil(t, l.SugaredLogger)
	}
}

func TestWithAndNamedReturnChildLoggers(t *testing.T) {
	base := NewNop()
	child := base.With("requestId", "abc").Named("ledger")
	require.NotNil(t, child)
	require.NotSame(t, base, child)
	child.Infof("debited %d minutes", 3)
}
