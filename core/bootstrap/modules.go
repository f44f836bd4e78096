package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/m3rciful/librarybot/core/logger"
)

// Seeder loads reference data into storage once infrastructure is ready.
type Seeder interface {
	Name() string
	Seed(ctx context.Context) error
}

// SeederFunc adapts a bare function to the Seeder interface.
type SeederFunc struct {
	Label string
	Fn    func(ctx context.Context) error
}

// Name returns the label used in logs.
func (f SeederFunc) Name() string { return f.Label }

// Seed executes the underlying function.
func (f SeederFunc) Seed(ctx context.Context) error {
	if f.Fn == nil {
		return nil
	}
	return f.Fn(ctx)
}

// RunSeeders executes seeders in order and stops at the first failure.
func RunSeeders(ctx context.Context, seeders ...Seeder) error {
	for _, s := range seeders {
		if s == nil {
			continue
		}
		start := time.Now()
		if err := s.Seed(ctx); err != nil {
			logger.SEED.Error("seed failed",
				slog.String("event", "db.seed"),
				slog.String("seeder", s.Name()),
				slog.String("err", err.Error()),
			)
			return fmt.Errorf("bootstrap: seeder %s failed: %w", s.Name(), err)
		}
		logger.SEED.Info("seed applied",
			slog.String("event", "db.seed"),
			slog.String("seeder", s.Name()),
			slog.Duration("duration", logger.Took(start)),
		)
	}
	return nil
}
