// Package rehearse walks a shot's guidance plan in the terminal on the real
// clock, so timings can be tried out before a take.
package rehearse

import (
	"io"

	"github.com/syamnaths/Action-cam/internal/domain/guidance"
)

// Config holds configuration for a rehearsal.
type Config struct {
	ShotsPath     string         // Shot catalog file
	AppConfigPath string         // Effects and solver catalog file
	ShotID        string         // Shot to rehearse; empty lists the catalog
	Overrides     Overrides      // Step durations replacing the template's
	Out           io.Writer      // Where the plan and the guidance are printed
	Clock         guidance.Clock // Nil uses the real clock
}
