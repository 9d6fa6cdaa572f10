package mechanism

import (
	"math"

	"github.com/oldspot/oldspot/pkg/reliability"
	"github.com/oldspot/oldspot/pkg/system/trace"
)

// TDDB models time-dependent dielectric breakdown via the empirical
// voltage/temperature power law of:
//
//	J. Sune and E. Wu, "A New Approach for the Prediction of the TDDB
//	Lifetime of Ultra-Thin Gate Oxides," IRPS, 2002.
//
// Resolved open question: the V_dd exponent is V_dd^(a - b*T), matching the
// latest revision of the original model (an earlier revision inverted the
// sign).
type TDDB struct {
	Params Params

	A float64
	B float64
	X float64
	Y float64
	Z float64
}

// NewTDDB builds a TDDB model from a parameter table.
func NewTDDB(p Params) *TDDB {
	return &TDDB{
		Params: p,
		A:      p.Get("a", 78),
		B:      p.Get("b", -0.081),
		X:      p.Get("X", 0.759),
		Y:      p.Get("Y", -66.8),
		Z:      p.Get("Z", -8.37e-4),
	}
}

func (m *TDDB) Name() string { return "TDDB" }

func (m *TDDB) Distribution(segments []reliability.MTTFSegment) reliability.WeibullDistribution {
	return distribution(segments)
}

func (m *TDDB) TimeToFailure(dp trace.DataPoint, dutyCycle, fail float64) float64 {
	vdd := dp.Get("vdd", 1)
	T := dp.Get("temperature", 350)

	return math.Pow(vdd, m.A-m.B*T) * math.Exp((m.X+m.Y/T+m.Z*T)/(KBoltz*T))
}
