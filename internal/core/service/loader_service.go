package service

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/storegate/backoffice/internal/core/domain"
	"github.com/storegate/backoffice/internal/core/ports"
	"github.com/storegate/backoffice/internal/infrastructure/metrics"
)

// Task is one independent collection fetch within a screen load. Its
// result is buffered during the fan-out and committed only once the
// whole load wins the generation race.
type Task struct {
	name   string
	run    func(ctx context.Context) (any, error)
	commit func(v any)
}

// Collection adapts a typed list fetch into a Task writing into dst. A
// failed fetch commits the empty collection, so dst never keeps data
// from an earlier screen when the current fetch degrades.
func Collection[T any](name string, fetch func(ctx context.Context) ([]T, error), dst *[]T) Task {
	return Task{
		name: name,
		run: func(ctx context.Context) (any, error) {
			items, err := fetch(ctx)
			if err != nil {
				return nil, err
			}
			return items, nil
		},
		commit: func(v any) {
			if v == nil {
				*dst = []T{}
				return
			}
			*dst = v.([]T)
		},
	}
}

// LoaderService is the per-screen data-loading protocol: resolve the
// principal first (fatal on failure), then fetch the screen's
// collections concurrently with each failure degraded to an empty
// result, then commit — unless a newer load already did.
type LoaderService struct {
	identity ports.IdentityService
	log      zerolog.Logger

	mu           sync.Mutex
	nextGen      uint64
	committedGen uint64
}

func NewLoaderService(identity ports.IdentityService, log zerolog.Logger) *LoaderService {
	return &LoaderService{identity: identity, log: log}
}

// Load runs one screen activation. The identity fetch strictly precedes
// every task; a failure there returns ErrIdentityUnavailable (wrapped)
// with zero tasks issued. Task failures never surface: they are logged,
// counted, and replaced with empty collections. Safe to invoke while a
// previous invocation is still in flight: the later invocation's
// results win, and a superseded completion returns ErrStaleLoad with
// nothing committed.
func (l *LoaderService) Load(ctx context.Context, tasks ...Task) (*domain.User, error) {
	l.mu.Lock()
	l.nextGen++
	gen := l.nextGen
	l.mu.Unlock()

	loadID := uuid.NewString()

	principal, err := l.identity.ResolveCurrent(ctx)
	if err != nil {
		metrics.ScreenLoadsTotal.WithLabelValues("identity_failed").Inc()
		l.log.Debug().Err(err).Str("load_id", loadID).Msg("screen load aborted: identity unavailable")
		return nil, err
	}

	results := make([]any, len(tasks))
	g, gctx := errgroup.WithContext(ctx)
	for i, task := range tasks {
		i, task := i, task
		g.Go(func() error {
			v, err := task.run(gctx)
			if err != nil {
				// Degraded, not fatal: siblings continue, the screen renders.
				metrics.ResourceFetchFailures.WithLabelValues(task.name).Inc()
				l.log.Debug().Err(err).
					Str("resource", task.name).
					Str("load_id", loadID).
					Msg("resource fetch degraded to empty collection")
				return nil
			}
			results[i] = v
			return nil
		})
	}
	// Tasks never return errors; Wait only joins them.
	_ = g.Wait()

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen <= l.committedGen {
		metrics.ScreenLoadsTotal.WithLabelValues("discarded").Inc()
		l.log.Debug().Str("load_id", loadID).Msg("screen load superseded, results discarded")
		return nil, domain.ErrStaleLoad
	}
	l.committedGen = gen
	for i, task := range tasks {
		task.commit(results[i])
	}
	metrics.ScreenLoadsTotal.WithLabelValues("committed").Inc()
	return principal, nil
}
