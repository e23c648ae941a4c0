package floor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lawnchairsociety/floorforge/internal/catalog"
	"github.com/lawnchairsociety/floorforge/internal/logger"
)

// DefaultMaxAttempts bounds retries when the runner is not configured
const DefaultMaxAttempts = 50

// DefaultBossKeys is the key requirement used when none is given: a quarter
// of the floor width less one, rounded, and never negative.
func DefaultBossKeys(width int) int {
	return max(int(math.Round(float64(width)/4-1)), 0)
}

// Runner retries generation with derived seeds until an attempt succeeds.
// Attempt i uses Options.Seed + i*1000. Attempts run in batches of
// Parallel; the lowest successful attempt wins, so the result for a seed
// does not depend on the batch size.
type Runner struct {
	Catalog     *catalog.Catalog
	Options     Options
	MaxAttempts int
	Parallel    int
	Logger      *slog.Logger
}

// Result is the winning attempt of a run
type Result struct {
	Generator *Generator
	Package   *Package
	// Attempt is the zero-based index of the winning attempt.
	Attempt  int
	Seed     int64
	Duration time.Duration
}

type attemptResult struct {
	gen *Generator
	err error
}

// Run generates a floor requiring bossKeys keys
func (r *Runner) Run(ctx context.Context, bossKeys int) (*Result, error) {
	maxAttempts := r.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	parallel := max(r.Parallel, 1)

	log := r.Logger
	if log == nil {
		log = logger.Logger()
	}

	begin := time.Now()
	var lastErr error
	for base := 0; base < maxAttempts; base += parallel {
		n := min(parallel, maxAttempts-base)
		results := make([]attemptResult, n)

		var eg errgroup.Group
		for i := 0; i < n; i++ {
			i := i
			eg.Go(func() error {
				opts := r.Options
				opts.Seed = r.Options.Seed + int64(base+i)*1000
				opts.Logger = log.With("attempt", base+i)

				gen, err := New(r.Catalog, opts)
				if err != nil {
					return err
				}
				results[i] = attemptResult{gen: gen, err: gen.Generate(ctx, bossKeys)}
				return nil
			})
		}
		if err := eg.Wait(); err != nil {
			return nil, err
		}

		for i, res := range results {
			attempt := base + i
			if res.err == nil {
				pkg, err := res.gen.Package()
				if err != nil {
					return nil, err
				}
				stats := res.gen.Stats()
				log.Info("floor generated",
					"attempt", attempt,
					"seed", res.gen.Seed(),
					"rooms", stats.Rooms,
					"tiles", stats.Tiles,
					"iterations", stats.Iterations,
					"max_depth", stats.MaxDepth)
				return &Result{
					Generator: res.gen,
					Package:   pkg,
					Attempt:   attempt,
					Seed:      res.gen.Seed(),
					Duration:  time.Since(begin),
				}, nil
			}

			if errors.Is(res.err, context.Canceled) || errors.Is(res.err, context.DeadlineExceeded) {
				return nil, res.err
			}
			log.Info("generation attempt failed", "attempt", attempt, "error", res.err)
			lastErr = res.err
		}
	}

	return nil, fmt.Errorf("%w after %d attempts: %w", ErrAttemptsExhausted, maxAttempts, lastErr)
}
