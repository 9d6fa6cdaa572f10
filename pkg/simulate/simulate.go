// Package simulate implements OldSpot's Monte-Carlo event-driven failure
// simulator: repeatedly reset the failure dependency tree, advance every
// healthy unit to its next sampled failure event, and record times to
// failure until the root fails.
package simulate

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/google/uuid"

	"github.com/oldspot/oldspot/internal/warn"
	"github.com/oldspot/oldspot/pkg/component"
)

// Run executes iterations Monte-Carlo trials against root, using units as
// the flat registry of every Unit reachable from root (ComputeReliability
// must already have been called on each). rng drives every sampling
// decision, so a run is fully reproducible from its seed.
//
// ctx is checked once per iteration, not inside the per-event loop: the
// core is CPU-bound with no natural suspension point once an iteration has
// started, so cancellation takes effect at iteration boundaries only.
//
// Run returns a UUID identifying this run, for correlating log lines and
// optional sqlite persistence across repeated or concurrent invocations.
func Run(ctx context.Context, root component.Component, units []*component.Unit, iterations int, rng *rand.Rand) (uuid.UUID, error) {
	runID := uuid.New()

	for it := 0; it < iterations; it++ {
		select {
		case <-ctx.Done():
			return runID, ctx.Err()
		default:
		}

		runIteration(root, units, it, rng)
	}

	return runID, nil
}

// runIteration runs a single Monte-Carlo trial to completion: root.Failed()
// becoming true, or a stalled iteration with no finite next event.
func runIteration(root component.Component, units []*component.Unit, iteration int, rng *rand.Rand) {
	for _, u := range units {
		u.Reset()
	}

	t := 0.0
	recorded := make(map[component.Component]bool)

	for !root.Failed() {
		for _, u := range units {
			if !u.Failed() {
				u.SetConfiguration(root)
			}
		}

		winner, dtMin := nextEvent(units, rng)
		if winner == nil {
			warn.Warn(fmt.Sprintf("simulate: iteration %d stalled, no finite next event", iteration))
			return
		}

		for _, u := range units {
			if !u.Failed() {
				u.UpdateReliability(dtMin)
			}
		}

		winner.Failure()
		t += dtMin

		component.Walk(root, func(c component.Component) {
			rec, ok := c.(component.TTFRecorder)
			if !ok || !c.Failed() || recorded[c] {
				return
			}
			rec.RecordTTF(t)
			recorded[c] = true
		})

		for _, u := range component.ParentsFailed(root, units) {
			recorded[u] = true
		}
	}
}

// nextEvent samples the incremental next-event time for every healthy unit
// and returns the one with the smallest, breaking ties by registry order.
// It returns (nil, +Inf) if every healthy unit's next event is infinite.
func nextEvent(units []*component.Unit, rng *rand.Rand) (*component.Unit, float64) {
	var winner *component.Unit
	minT := math.Inf(1)

	for _, u := range units {
		if u.Failed() {
			continue
		}
		dt := u.GetNextEvent(rng)
		if dt < minT {
			minT = dt
			winner = u
		}
	}

	return winner, minT
}
