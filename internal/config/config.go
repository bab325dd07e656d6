// Package config holds the runtime-wide options the host CLI layers from
// flags, ARGON_* environment variables, and an optional config file via
// viper (SPEC_FULL's ambient-stack Configuration section) — the same
// env+flag+file precedence kubernetes-kube-state-metrics uses viper for,
// applied here to the handful of options a long-running Argon host would
// want tunable without a rebuild: strict-mode default, module search
// roots, and a soft memory ceiling for the heap (spec.md's §6 notes a
// host may want to bound allocation; nothing in this module enforces it
// yet, so MemoryLimitBytes is plumbed through but unconsulted — see
// DESIGN.md).
package config

import "github.com/spf13/viper"

// Options is the resolved, process-wide runtime configuration.
type Options struct {
	// StrictMode sets the default for env.New's strict flag on every
	// script/module environment this process creates.
	StrictMode bool
	// ModulePaths are additional roots a linker.FileResolver searches for
	// bare (non-relative) import specifiers, beyond the entry file's own
	// directory.
	ModulePaths []string
	// MemoryLimitBytes is a soft ceiling on heap allocation; 0 means
	// unbounded. Not yet enforced anywhere (see DESIGN.md).
	MemoryLimitBytes int64
}

// Defaults returns Argon's out-of-the-box options before any layering.
func Defaults() Options {
	return Options{StrictMode: false, MemoryLimitBytes: 0}
}

// Load resolves Options from v, falling back to Defaults() for any key v
// has no value for (v is expected to already have flag bindings and
// AutomaticEnv wired by the caller, matching cmd/argon/cmd/root.go's
// initConfig).
func Load(v *viper.Viper) Options {
	opts := Defaults()
	if v == nil {
		return opts
	}
	if v.IsSet("strict-mode") {
		opts.StrictMode = v.GetBool("strict-mode")
	}
	if v.IsSet("module-path") {
		opts.ModulePaths = v.GetStringSlice("module-path")
	}
	if v.IsSet("memory-limit-bytes") {
		opts.MemoryLimitBytes = v.GetInt64("memory-limit-bytes")
	}
	return opts
}
