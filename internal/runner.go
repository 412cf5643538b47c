package internal

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/chrisconley/metcorr/internal/infra"
	"github.com/chrisconley/metcorr/specs"
)

// EventRunner corrects a batch of events on a pool of workers. Payloads are
// parsed once; every worker builds its own engine from them.
type EventRunner struct {
	levels  JetCorrectionLevels
	policy  TypeIPolicy
	workers int
	bus     *infra.Bus
}

// NewEventRunner loads the configuration once. bus may be nil.
func NewEventRunner(configSpec specs.TypeICorrectionConfigSpec, workers int, bus *infra.Bus) (*EventRunner, error) {
	if workers < 1 {
		return nil, fmt.Errorf("workers must be at least 1, got %d", workers)
	}
	policy, err := NewTypeIPolicy(configSpec.Policy)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	levels, err := LoadJetCorrectionLevels(configSpec.JECPayloads)
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &EventRunner{levels: levels, policy: policy, workers: workers, bus: bus}, nil
}

// Run corrects events and returns their records in input order. Worker
// engines never fill their own branches; each event's records are kept once,
// in its input slot, until they are merged. Engines are built before any
// event is processed, so a construction error
// is returned before work starts. On cancellation Run returns ctx's error and
// publishes nothing.
func (r *EventRunner) Run(ctx context.Context, events []specs.EventSpec) (*specs.METBranchesSpec, error) {
	workers := r.workers
	if workers > len(events) {
		workers = len(events)
	}

	engines := make([]*TypeICorrectionEngine, workers)
	for w := range engines {
		engine, err := NewTypeICorrectionEngineFromLevels(r.levels, r.policy, &specs.METBranchesSpec{})
		if err != nil {
			return nil, fmt.Errorf("worker %d: %w", w, err)
		}
		engines[w] = engine
	}

	results := make([][]specs.METRecordSpec, len(events))
	g, gctx := errgroup.WithContext(ctx)
	for w, engine := range engines {
		w, engine := w, engine
		g.Go(func() error {
			for i := w; i < len(events); i += workers {
				if err := gctx.Err(); err != nil {
					return err
				}
				results[i] = engine.Correct(events[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := &specs.METBranchesSpec{}
	for i, records := range results {
		for _, rec := range records {
			out.Append(rec)
		}
		r.publish(infra.EventCorrectedEvent{
			Index:   i,
			Run:     events[i].Run,
			Event:   events[i].Event,
			Records: records,
		})
	}
	r.publish(infra.RunCompletedEvent{Events: len(events), Records: out.Len()})

	log.Info().Int("events", len(events)).Int("records", out.Len()).Int("workers", workers).Msg("run completed")
	return out, nil
}

func (r *EventRunner) publish(e infra.Event) {
	if r.bus != nil {
		r.bus.Publish(e)
	}
}

// IsCanceled reports whether err comes from a canceled or expired context.
func IsCanceled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
