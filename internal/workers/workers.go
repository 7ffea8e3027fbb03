package workers

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/MKhiriev/workshop-qa/internal/logger"
)

// Workers runs a fixed set of named workers.
type Workers struct {
	workers []named
	logger  *logger.Logger
}

type named struct {
	name string
	Worker
}

// NewWorkers returns an empty aggregate; add workers with Add.
func NewWorkers(logger *logger.Logger) *Workers {
	return &Workers{logger: logger}
}

// Add registers worker under name. Nil workers are ignored.
func (w *Workers) Add(name string, worker Worker) *Workers {
	if worker != nil {
		w.workers = append(w.workers, named{name: name, Worker: worker})
	}
	return w
}

// Len returns the number of registered workers.
func (w *Workers) Len() int {
	return len(w.workers)
}

// Run starts every worker in its own goroutine and blocks until all of them
// return. The first failure cancels the others and is returned.
func (w *Workers) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	for _, worker := range w.workers {
		g.Go(func() error {
			w.logger.Info().Str("worker", worker.name).Msg("worker started")
			if err := worker.Run(ctx); err != nil {
				w.logger.Error().Err(err).Str("worker", worker.name).Msg("worker failed")
				return fmt.Errorf("worker %s: %w", worker.name, err)
			}
			w.logger.Info().Str("worker", worker.name).Msg("worker stopped")
			return nil
		})
	}

	return g.Wait()
}
