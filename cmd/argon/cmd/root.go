package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cwbudde/argon/internal/config"
)

var (
	// Version information (set by build flags).
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	verbose     bool
	strictMode  bool
	cfgFile     string
	modulePaths []string
	log         = logrus.New()
)

var rootCmd = &cobra.Command{
	Use:   "argon",
	Short: "Argon TypeScript-like runtime",
	Long: `argon is the host CLI for the Argon execution core: a Go-native
value model, evaluator, built-in dispatch, module linker, and virtual-timer
event loop for a statically typed, TypeScript-like scripting language.

argon itself never tokenizes or parses source text, the same way the
execution core it drives never does — a linked frontend supplies the
parsed AST. See "argon help run".`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose diagnostic logging")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.argon.yaml)")
	rootCmd.PersistentFlags().StringSliceVar(&modulePaths, "module-path", nil, "search root for bare module specifiers (repeatable)")
	rootCmd.PersistentFlags().BoolVar(&strictMode, "strict", false, "default every script/module environment to strict mode")

	cobra.OnInitialize(initConfig, initLogging)
}

// initConfig wires viper's env + flag + file layering (SPEC_FULL's
// ambient-stack config requirement): ARGON_* environment variables,
// --config/--module-path flags, and an optional $HOME/.argon.{yaml,json,toml}
// file, in increasing precedence (file < env < flag, viper's own default
// layering).
func initConfig() {
	viper.SetEnvPrefix("argon")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
		}
		viper.AddConfigPath(".")
		viper.SetConfigName(".argon")
	}

	_ = viper.BindPFlag("module-path", rootCmd.PersistentFlags().Lookup("module-path"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("strict-mode", rootCmd.PersistentFlags().Lookup("strict"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && verbose {
			fmt.Fprintf(os.Stderr, "argon: could not read config file: %v\n", err)
		}
	}
}

// initLogging sets the host-side diagnostic logger's verbosity (spec's
// C12 Diagnostics component) — distinct from the script-visible
// console.*/process.stdout surface, which always writes regardless of
// this setting.
func initLogging() {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&logrus.TextFormatter{DisableTimestamp: !verbose})
	if verbose || viper.GetBool("verbose") {
		log.SetLevel(logrus.DebugLevel)
	} else {
		log.SetLevel(logrus.WarnLevel)
	}
}

// resolvedOptions layers config.Load's view over viper with whatever
// flags cobra has already parsed, for run/check/ast/modules to consult.
func resolvedOptions() config.Options {
	opts := config.Load(viper.GetViper())
	if len(opts.ModulePaths) == 0 {
		opts.ModulePaths = modulePaths
	}
	return opts
}

// resolvedModulePaths is a convenience accessor over resolvedOptions for
// callers that only need the search roots.
func resolvedModulePaths() []string {
	return resolvedOptions().ModulePaths
}

func exitWithError(msg string, args ...any) {
	fmt.Fprintf(os.Stderr, "Error: "+msg+"\n", args...)
	os.Exit(1)
}
