// Command rehearse prints a shot's guidance plan and walks it on the real
// clock.
package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/syamnaths/Action-cam/internal/rehearse"
	"github.com/syamnaths/Action-cam/pkg/logger"
)

func main() {
	overrides := rehearse.Overrides{}
	var (
		shotsPath  = flag.String("shots", "configs/shots.json", "Shot catalog")
		configPath = flag.String("config", "configs/config.json", "Effects and solver catalog")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Var(overrides, "duration", "Replace a step duration as index=seconds; may be repeated")
	flag.Parse()

	if *help {
		rehearse.ShowHelp(os.Stdout)
		return
	}

	if err := logger.Init(logger.WithWriter(os.Stderr)); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	_ = logger.SetLevelString("warn")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err := rehearse.Run(ctx, &rehearse.Config{
		ShotsPath:     *shotsPath,
		AppConfigPath: *configPath,
		ShotID:        flag.Arg(0),
		Overrides:     overrides,
		Out:           os.Stdout,
	})
	if err != nil && !errors.Is(err, rehearse.ErrInterrupted) {
		os.Stderr.WriteString("rehearsal failed: " + err.Error() + "\n")
		stop()
		os.Exit(1)
	}
}
