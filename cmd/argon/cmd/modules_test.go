package cmd

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

// TestFormatModuleOrderMatchesGoldenOutput pins the `argon modules`
// listing's exact text via a committed snapshot, so a future formatting
// change is forced to update it deliberately rather than drift unnoticed.
func TestFormatModuleOrderMatchesGoldenOutput(t *testing.T) {
	out := formatModuleOrder([]string{"util.js", "helpers.js", "main.js"})
	snaps.MatchSnapshot(t, out)
}
