package rehearse

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/syamnaths/Action-cam/internal/adapters/catalog"
	"github.com/syamnaths/Action-cam/internal/domain/guidance"
	"github.com/syamnaths/Action-cam/internal/domain/shot"
	"github.com/syamnaths/Action-cam/pkg/logger"
)

// console prints each instruction as it is shown.
type console struct {
	mu sync.Mutex
	w  io.Writer
}

func (c *console) Show(label string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, "> %s\n", label)
}

func (c *console) Clear() {}

func (c *console) printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintf(c.w, format, args...)
}

// Run executes a rehearsal. Without a shot id it lists the catalog.
func Run(ctx context.Context, cfg *Config) error {
	out := cfg.Out
	if out == nil {
		out = os.Stdout
	}
	con := &console{w: out}

	cat, err := catalog.Load(ctx, cfg.ShotsPath, cfg.AppConfigPath)
	if err != nil {
		return err
	}
	if cfg.ShotID == "" {
		listShots(con, cat.Shots())
		return nil
	}

	tmpl, err := cat.Shot(cfg.ShotID)
	if err != nil {
		return err
	}
	p := tmpl.Plan()
	if err := cfg.Overrides.Apply(p); err != nil {
		return err
	}

	con.printf("%s\n", tmpl.Name)
	for _, line := range p.Lines() {
		con.printf("  %s\n", line)
	}
	if p.Len() == 0 {
		con.printf("no guidance steps\n")
		return nil
	}

	log := logger.Get().Named("rehearse")
	log.Info(ctx, "rehearsal started", logger.String("shot", tmpl.ID), logger.Int("steps", p.Len()))

	done := make(chan struct{})
	opts := []guidance.Option{
		guidance.WithLogger(log),
		guidance.WithCompletion(func() { close(done) }),
	}
	if cfg.Clock != nil {
		opts = append(opts, guidance.WithClock(cfg.Clock))
	}
	seq := guidance.New(con, opts...)
	seq.Start(p)

	select {
	case <-done:
		con.printf("done\n")
		log.Info(ctx, "rehearsal completed", logger.String("shot", tmpl.ID))
		return nil
	case <-ctx.Done():
		seq.Stop()
		con.printf("interrupted\n")
		return fmt.Errorf("%w: %w", ErrInterrupted, ctx.Err())
	}
}

func listShots(con *console, shots []shot.Template) {
	for _, t := range shots {
		con.printf("%-20s %s\n", t.ID, t.Name)
	}
}
