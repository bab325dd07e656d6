package config_test

import (
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/argon/internal/config"
)

func TestLoadFallsBackToDefaults(t *testing.T) {
	opts := config.Load(viper.New())
	require.Equal(t, config.Defaults(), opts)
}

func TestLoadReadsSetValues(t *testing.T) {
	v := viper.New()
	v.Set("strict-mode", true)
	v.Set("module-path", []string{"./vendor", "./lib"})
	v.Set("memory-limit-bytes", int64(1<<20))

	opts := config.Load(v)
	require.True(t, opts.StrictMode)
	require.Equal(t, []string{"./vendor", "./lib"}, opts.ModulePaths)
	require.Equal(t, int64(1<<20), opts.MemoryLimitBytes)
}

func TestLoadHandlesNilViper(t *testing.T) {
	require.Equal(t, config.Defaults(), config.Load(nil))
}
