package render

import (
	"context"
	"log"

	"github.com/pkg/errors"
	"golang.org/x/exp/slices"

	"github.com/textburn/textburn/internal/engine"
	"github.com/textburn/textburn/pkg/types"
)

// Orchestrator drives the ordered strategy chain and decides
// success or escalation. It never fails except when every strategy and
// the final raw passthrough have failed.
type Orchestrator struct {
	strategies []Strategy
	verbose    bool
}

// NewOrchestrator builds an orchestrator over an ordered strategy chain.
// The last strategy must be the overlay-free safe re-encode; it doubles as
// the direct path for annotation-free jobs.
func NewOrchestrator(strategies []Strategy, verbose bool) *Orchestrator {
	return &Orchestrator{strategies: strategies, verbose: verbose}
}

// AddCharacterOverlays renders the annotations into the video, degrading
// through the strategy chain on failure. A strategy that runs without
// error but yields a zero-length result is treated as failed. When every
// strategy fails, the original bytes are returned unchanged as a last
// resort; only when that is impossible too does the job fail, with the
// per-strategy causes aggregated.
func (o *Orchestrator) AddCharacterOverlays(ctx context.Context, video []byte, annotations []types.Annotation, onProgress types.ProgressFunc) ([]byte, error) {
	snapshot := types.Snapshot(annotations)

	chain := o.strategies
	if len(snapshot) == 0 {
		// No overlay needed: go straight to the safe re-encode.
		chain = o.strategies[len(o.strategies)-1:]
	}

	attempts := make([]*engine.StrategyError, 0, len(chain))
	for _, strat := range chain {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		out, err := strat.Run(ctx, video, snapshot, onProgress)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			attempts = append(attempts, asStrategyError(strat.Name(), err))
			if o.verbose {
				log.Printf("Strategy %s failed, escalating: %v", strat.Name(), err)
			}
			continue
		}
		if len(out) == 0 {
			attempts = append(attempts, &engine.StrategyError{
				Strategy: strat.Name(),
				Cause:    errors.New("zero-length result"),
			})
			if o.verbose {
				log.Printf("Strategy %s returned empty output, escalating", strat.Name())
			}
			continue
		}

		if o.verbose {
			log.Printf("Strategy %s succeeded (%d bytes)", strat.Name(), len(out))
		}
		return out, nil
	}

	// Last resort: hand the caller the original bytes untouched rather
	// than failing the whole job.
	if len(video) > 0 {
		log.Printf("All %d rendering strategies failed, returning original video unmodified", len(chain))
		return slices.Clone(video), nil
	}

	return nil, &engine.ExhaustedError{Attempts: attempts}
}

func asStrategyError(name string, err error) *engine.StrategyError {
	var stratErr *engine.StrategyError
	if errors.As(err, &stratErr) {
		return stratErr
	}
	return &engine.StrategyError{Strategy: name, Cause: err}
}
