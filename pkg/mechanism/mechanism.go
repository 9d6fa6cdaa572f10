// Package mechanism implements the four wearout-mechanism models OldSpot
// uses to turn an activity trace into a time-to-failure estimate: NBTI, EM,
// HCI and TDDB. Every mechanism shares a small set of physical constants
// and device parameters, both overridable from a parameter file loaded by
// pkg/system/params.
package mechanism

import (
	"math"

	"github.com/oldspot/oldspot/pkg/reliability"
	"github.com/oldspot/oldspot/pkg/system/trace"
)

// Universal physical constants.
const (
	Q        = 1.60217662e-19 // elementary charge, C
	KBoltz   = 8.6173303e-5   // Boltzmann constant, eV/K
	EVJoule  = 6.242e18       // J -> eV conversion factor
	FailBeta = 2.0            // Weibull shape used throughout OldSpot

	// FailDefault is the default relative ΔVth at which a device is
	// considered failed, used by the NBTI and HCI models.
	FailDefault = 0.05
)

// Params is a flat table of tunable device and mechanism constants, as
// loaded from a parameter file by pkg/system/params. Mechanisms fall back
// to their literature defaults for any key they don't find.
type Params map[string]float64

// Get returns params[key], or def if the key is absent.
func (p Params) Get(key string, def float64) float64 {
	if p == nil {
		return def
	}
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

// DeviceParams are the technology parameters shared by every mechanism,
// tunable via a technology parameter file.
type DeviceParams struct {
	L       float64 // channel length, nm
	Vt0P    float64 // PMOS threshold voltage, V
	Vt0N    float64 // NMOS threshold voltage, V
	Tox     float64 // oxide thickness, nm
	Cox     float64 // oxide capacitance, F/nm^2
	AlphaPL float64 // power-law exponent relating fail fraction to ΔVth
}

// DefaultDeviceParams reproduces the literature values encoded in the
// original implementation.
func DefaultDeviceParams() DeviceParams {
	return DeviceParams{
		L:       65,
		Vt0P:    0.5,
		Vt0N:    0.5,
		Tox:     1.8,
		Cox:     1.92e-20,
		AlphaPL: 1.3,
	}
}

// DeviceParamsFromParams overlays any of L, Vt0_p, Vt0_n, tox, Cox, alpha
// found in p onto the literature defaults.
func DeviceParamsFromParams(p Params) DeviceParams {
	d := DefaultDeviceParams()
	d.L = p.Get("L", d.L)
	d.Vt0P = p.Get("Vt0_p", d.Vt0P)
	d.Vt0N = p.Get("Vt0_n", d.Vt0N)
	d.Tox = p.Get("tox", d.Tox)
	d.Cox = p.Get("Cox", d.Cox)
	d.AlphaPL = p.Get("alpha", d.AlphaPL)
	return d
}

// Mechanism models one wearout physics model.
type Mechanism interface {
	// Name identifies the mechanism, e.g. "NBTI".
	Name() string

	// TimeToFailure returns the expected time to failure, in seconds, of a
	// device exposed to the conditions in dp at the given duty cycle, for
	// the given relative degradation threshold fail.
	TimeToFailure(dp trace.DataPoint, dutyCycle, fail float64) float64

	// Distribution delegates to the Weibull engine with the shared shape
	// parameter to turn a set of piecewise-stationary MTTF segments into a
	// residual-life distribution.
	Distribution(segments []reliability.MTTFSegment) reliability.WeibullDistribution
}

// distribution is the shared Distribution implementation every mechanism
// delegates to.
func distribution(segments []reliability.MTTFSegment) reliability.WeibullDistribution {
	return reliability.FromSegments(FailBeta, segments)
}

// deltaVthFail returns the ΔVth threshold, measured from the fresh device,
// at which the relative degradation reaches fail — the same formula used
// by both NBTI (against Vt0_p) and HCI (against Vt0_n).
func deltaVthFail(vdd, vt0, fail, alphaPL float64) float64 {
	return (vdd - vt0) * (1 - math.Pow(1+fail, -1/alphaPL))
}

// linterp linearly interpolates the x at which y crosses yTarget, given two
// bracketing samples (x0,y0) and (x1,y1).
func linterp(x0, y0, x1, y1, yTarget float64) float64 {
	if y1 == y0 {
		return x0
	}
	return x0 + (yTarget-y0)*(x1-x0)/(y1-y0)
}
