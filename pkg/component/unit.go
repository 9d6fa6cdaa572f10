package component

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/oldspot/oldspot/internal/warn"
	"github.com/oldspot/oldspot/pkg/mechanism"
	"github.com/oldspot/oldspot/pkg/reliability"
	"github.com/oldspot/oldspot/pkg/system/trace"
	"github.com/oldspot/oldspot/pkg/system/util"
)

// Kind dispatches a Unit's activity(dp, mechanism) policy. A tagged field
// on Unit rather than a polymorphic type hierarchy, per the original's
// design: it keeps Unit POD-like and avoids an extra layer of dynamic
// dispatch in the hottest loop in the simulator.
type Kind int

const (
	// Generic reads the trace's "activity" column directly as duty cycle.
	Generic Kind = iota
	// Core derives duty cycle from power/peak_power.
	Core
	// Logic derives duty cycle from an activity event count normalized by
	// duration*frequency, with a distinct NBTI weighting.
	Logic
	// Memory is driven to duty cycle 1 except under HCI, which it doesn't
	// experience (static-zero-dominated storage).
	Memory
)

func (k Kind) String() string {
	switch k {
	case Core:
		return "core"
	case Logic:
		return "logic"
	case Memory:
		return "memory"
	default:
		return "unit"
	}
}

// Unit is a leaf of the failure dependency tree: a physical block with its
// own reliability model, built from one activity trace per configuration
// it might run under.
type Unit struct {
	id   int
	name string
	Kind Kind

	// Area is the unit's die area, as declared in its XML node. It plays
	// no role in any reliability computation; it is carried through only
	// to be reported in the unit-aging-rate CSV output.
	Area float64

	// Copies is the total redundancy count (1 if the unit has none).
	// Serial selects serial vs. parallel semantics for a multi-copy unit:
	// on a serial unit's failure(), a non-terminal decrement rejuvenates
	// the unit (spare takes over fresh); on a parallel unit it does not.
	Copies int
	Serial bool

	// Traces holds one activity trace per configuration this unit has a
	// recorded trace for. Traces[Fresh] always exists — synthesized from
	// the unit's defaults if the configuration file provided none.
	Traces map[Configuration][]trace.DataPoint

	// PerMechanismReliability[c][mechanismName] and OverallReliability[c]
	// are populated once by ComputeReliability and read many times per
	// Monte-Carlo iteration.
	PerMechanismReliability map[Configuration]map[string]reliability.WeibullDistribution
	OverallReliability      map[Configuration]reliability.WeibullDistribution

	// Per-iteration mutable state.
	Age                float64
	CurrentReliability float64
	Remaining          int
	Config             Configuration
	PrevConfig         Configuration
	hasPrevConfig      bool
	failed             bool

	// TTFs accumulates one sample per Monte-Carlo iteration in which this
	// unit was observed to fail.
	TTFs []float64
}

// NewUnit constructs a Unit. copies must be >= 1; a non-redundant unit has
// copies=1 and serial is irrelevant.
func NewUnit(id int, name string, kind Kind, copies int, serial bool, area float64) *Unit {
	if copies < 1 {
		copies = 1
	}
	return &Unit{
		id:                      id,
		name:                    name,
		Kind:                    kind,
		Area:                    area,
		Copies:                  copies,
		Serial:                  serial,
		Traces:                  make(map[Configuration][]trace.DataPoint),
		PerMechanismReliability: make(map[Configuration]map[string]reliability.WeibullDistribution),
		OverallReliability:      make(map[Configuration]reliability.WeibullDistribution),
	}
}

func (u *Unit) ID() int      { return u.id }
func (u *Unit) Name() string { return u.name }
func (u *Unit) Failed() bool { return u.failed }

// Reset restores a Unit to its state at the start of a Monte-Carlo
// iteration: full reliability, zero age, no recorded failure, full
// redundancy, and fresh configuration.
func (u *Unit) Reset() {
	u.Age = 0
	u.CurrentReliability = 1
	u.failed = false
	u.Remaining = u.Copies
	u.Config = Fresh
	u.PrevConfig = Fresh
	u.hasPrevConfig = false
}

// ComputeReliability builds PerMechanismReliability and OverallReliability
// for every configuration this unit has a trace for, from the given set of
// wearout mechanisms. It must be called once per unit before any
// Monte-Carlo iteration runs.
func (u *Unit) ComputeReliability(mechanisms []mechanism.Mechanism) {
	for config, points := range u.Traces {
		perMech := make(map[string]reliability.WeibullDistribution, len(mechanisms))
		var overall reliability.WeibullDistribution
		first := true

		for _, m := range mechanisms {
			segments := make([]reliability.MTTFSegment, 0, len(points))
			for _, dp := range points {
				duty := util.Clamp01(u.activity(dp, m.Name()))
				mttf := m.TimeToFailure(dp, duty, mechanism.FailDefault)
				segments = append(segments, reliability.MTTFSegment{Duration: dp.Duration, MTTF: mttf})
			}

			dist := m.Distribution(segments)
			perMech[m.Name()] = dist

			if first {
				overall = dist
				first = false
			} else {
				overall = overall.Mul(dist)
			}
		}

		u.PerMechanismReliability[config] = perMech
		u.OverallReliability[config] = overall
	}
}

// activity computes the duty cycle for the given mechanism under dp,
// dispatching on the unit's Kind.
func (u *Unit) activity(dp trace.DataPoint, mechanismName string) float64 {
	switch u.Kind {
	case Core:
		return util.SafeDiv(dp.Get("power", 1), dp.Get("peak_power", 1))

	case Logic:
		freq := dp.Get("frequency", 1000)
		base := util.Clamp01(util.SafeDiv(dp.Get("activity", 0), dp.Duration*freq))
		if mechanismName == "NBTI" {
			return 1 - base*base/2
		}
		return base

	case Memory:
		if mechanismName == "HCI" {
			return 0
		}
		return 1

	default: // Generic
		return dp.Get("activity", 0)
	}
}

// SetConfiguration recomputes Config from the current failure frontier
// reachable from root: a ConditionalWalk that stops descending at the
// first failed node on each branch, collecting those nodes' names. An
// empty frontier resolves to Fresh. If the resulting configuration has no
// trace, it is a configuration this unit was never told about — warn once
// and fall back to Fresh.
func (u *Unit) SetConfiguration(root Component) {
	var frontier []string
	ConditionalWalk(root, func(c Component) bool {
		if c.Failed() {
			frontier = append(frontier, c.Name())
			return false
		}
		return true
	})

	next := NewConfiguration(frontier)
	if _, known := u.Traces[next]; !known {
		warn.Warn(fmt.Sprintf("unit %q: no trace for configuration %v, falling back to fresh", u.name, frontier))
		next = Fresh
	}

	u.PrevConfig = u.Config
	u.hasPrevConfig = true
	u.Config = next
}

// Inverse returns the time at which this unit's distribution under its
// current configuration reaches reliability r.
func (u *Unit) Inverse(r float64) float64 {
	return u.OverallReliability[u.Config].Inverse(r)
}

// Reliability returns this unit's reliability at age t under its current
// configuration.
func (u *Unit) Reliability(t float64) float64 {
	return u.OverallReliability[u.Config].Reliability(t)
}

// GetNextEvent samples the incremental time until this unit's next failure
// event under its current configuration: draw r ~ Uniform(0,
// CurrentReliability), and return the difference between the ages at which
// the distribution reaches r and CurrentReliability. The subtraction
// cancels the age already consumed, leaving an incremental time.
func (u *Unit) GetNextEvent(rng *rand.Rand) float64 {
	if u.CurrentReliability <= 0 {
		return math.Inf(1)
	}
	r := rng.Float64() * u.CurrentReliability
	inv := u.Inverse(r)
	if math.IsInf(inv, 1) {
		return math.Inf(1)
	}
	return inv - u.Inverse(u.CurrentReliability)
}

// UpdateReliability advances age by dt for every healthy unit in an
// iteration. If SetConfiguration has recorded a previous configuration
// (changed or not), the age is translated so that the unit's reliability
// function, evaluated at the new age under the new configuration, still
// equals the residual reliability it had under the old one; when the two
// configurations are the same and their alpha is finite, the shift is zero.
func (u *Unit) UpdateReliability(dt float64) {
	u.Age += dt
	if u.hasPrevConfig {
		prevDist := u.OverallReliability[u.PrevConfig]
		curDist := u.OverallReliability[u.Config]
		u.Age -= prevDist.Inverse(u.CurrentReliability) - curDist.Inverse(u.CurrentReliability)
	}
	u.CurrentReliability = u.OverallReliability[u.Config].Reliability(u.Age)
}

// Failure records one failure event against this unit's redundancy.
// Remaining is decremented; the unit becomes failed once it reaches zero.
// A serial unit additionally rejuvenates on every failure event (the next
// spare in the chain starts fresh), whether or not this event was
// terminal — harmless in the terminal case since the unit is failed and
// won't be touched again.
func (u *Unit) Failure() {
	u.Remaining--
	if u.Remaining <= 0 {
		u.failed = true
	}
	if u.Serial {
		u.CurrentReliability = 1
		u.Age = 0
		u.hasPrevConfig = false
	}
}

// AgingRateForMechanism returns this unit's characteristic life (alpha)
// for a single mechanism, evaluated under the Fresh configuration.
func (u *Unit) AgingRateForMechanism(mechanismName string) float64 {
	if per, ok := u.PerMechanismReliability[Fresh]; ok {
		if d, ok := per[mechanismName]; ok {
			return d.Rate()
		}
	}
	return 0
}

// AgingRate returns this unit's overall characteristic life (alpha) under
// configuration c, or 0 if the unit's own name is a member of c — i.e. c
// describes a configuration in which this unit has itself already failed.
func (u *Unit) AgingRate(c Configuration) float64 {
	if c.Contains(u.name) {
		return 0
	}
	if d, ok := u.OverallReliability[c]; ok {
		return d.Rate()
	}
	return 0
}

// RecordTTF appends one Monte-Carlo iteration's observed time to failure.
func (u *Unit) RecordTTF(t float64) {
	u.TTFs = append(u.TTFs, t)
}

// AllTTFs returns every time to failure recorded for this unit so far.
func (u *Unit) AllTTFs() []float64 {
	return u.TTFs
}

// Dump renders a short human-readable summary of the unit's static
// configuration, for --verbose startup logging.
func (u *Unit) Dump() string {
	return fmt.Sprintf("unit %q kind=%s copies=%d serial=%t area=%g traces=%d",
		u.name, u.Kind, u.Copies, u.Serial, u.Area, len(u.Traces))
}
