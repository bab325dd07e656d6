package runtime_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/argon/internal/runtime"
)

func TestSetScriptArgumentsRoundTrips(t *testing.T) {
	runtime.SetScriptArguments([]string{"argon", "script.js", "--flag"})
	require.Equal(t, []string{"argon", "script.js", "--flag"}, runtime.Argv())
}

func TestSetExitCodeRoundTrips(t *testing.T) {
	runtime.SetExitCode(0)
	require.Equal(t, 0, runtime.ExitCode())
	runtime.SetExitCode(7)
	require.Equal(t, 7, runtime.ExitCode())
}

func TestHRTimeSubtractsPrevious(t *testing.T) {
	sec1, nsec1 := runtime.HRTime(0, 0)
	sec2, nsec2 := runtime.HRTime(sec1, nsec1)
	require.GreaterOrEqual(t, sec2, float64(0))
	if sec2 == 0 {
		require.GreaterOrEqual(t, nsec2, float64(0))
	}
}
