package rehearse

import "io"

// ShowHelp prints usage information for the rehearse tool.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `Action Cam Rehearsal
====================

Prints a shot's guidance plan with start times, then shows each step on
time until the plan is done or the rehearsal is interrupted.

Usage:
  go run ./cmd/rehearse [options] [shot-id]

Options:
  -shots string
        Shot catalog (default "configs/shots.json")
  -config string
        Effects and solver catalog (default "configs/config.json")
  -duration index=seconds
        Replace one step's duration; may be repeated
  -help
        Show this help message

Examples:
  # List the shots in the catalog
  go run ./cmd/rehearse

  # Rehearse a shot with a longer second step
  go run ./cmd/rehearse -duration 1=6 dolly-zoom
`)
}
