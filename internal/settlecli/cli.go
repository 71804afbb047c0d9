package settlecli

import (
	"fmt"
	"io"

	"github.com/okian/splitpool/pkg/logger"
)

// SetupLogging sends CLI logs to w so the report on stdout stays clean.
func SetupLogging(w io.Writer, verbose bool) error {
	if err := logger.Init(logger.WithFormat(logger.FormatConsole), logger.WithOutput(w)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	level := "warn"
	if verbose {
		level = "debug"
	}
	return logger.SetLevelString(level)
}

// ShowHelp prints usage information for the settle tool.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `Splitpool Settle
================

Settles a snapshot of participants and prints who owes whom.

Usage:
  settle -file snapshot.yaml [options]

Options:
  -file string
        Snapshot file in YAML or JSON with a "participants" list (required)
  -url string
        Base URL of a running splitpool server; settles locally when empty
  -json
        Print the summary as JSON
  -lang string
        Language for unnamed participants (en, ar)
  -policy string
        Invalid amount handling for local runs: reject or coerce (default "reject")
  -timeout duration
        HTTP request timeout (default 10s)
  -verbose
        Enable debug logging on stderr
  -help
        Show this help message

Snapshot:
  participants:
    - name: Alice
      paid: 90
    - name: Bob
      paid: 0

Examples:
  settle -file trip.yaml
  settle -file trip.json -url http://localhost:9080 -json
`)
}
