// Command argon is the Argon runtime's host CLI entry point.
package main

import (
	"os"

	"github.com/cwbudde/argon/cmd/argon/cmd"
	"github.com/cwbudde/argon/internal/runtime"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
	os.Exit(runtime.ExitCode())
}
