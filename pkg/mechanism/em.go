package mechanism

import (
	"math"

	"github.com/oldspot/oldspot/pkg/reliability"
	"github.com/oldspot/oldspot/pkg/system/trace"

	"github.com/oldspot/oldspot/internal/warn"
)

// EM models electromigration via Black's equation:
//
//	J. R. Black, "Electromigration - A Brief Survey and Some Recent
//	Results," IEEE Trans. Electron Devices, vol. 16, no. 4, 1969.
type EM struct {
	Params Params

	N  float64
	Ea float64
	W  float64 // interconnect width, m
	H  float64 // interconnect height, m
	A  float64
}

// NewEM builds an EM model from a parameter table.
func NewEM(p Params) *EM {
	return &EM{
		Params: p,
		N:      p.Get("n", 2),
		Ea:     p.Get("Ea", 0.8),
		W:      p.Get("w", 4.5e-7),
		H:      p.Get("h", 1.2e-6),
		A:      p.Get("A", 3.22e21),
	}
}

func (m *EM) Name() string { return "EM" }

func (m *EM) Distribution(segments []reliability.MTTFSegment) reliability.WeibullDistribution {
	return distribution(segments)
}

// currentDensity resolves the trace's current density, preferring an
// explicit reading, then deriving it from current, then falling back to
// power/vdd — each fallback a step further from a direct measurement, the
// last one warned about exactly once.
func (m *EM) currentDensity(dp trace.DataPoint, vdd float64) float64 {
	area := m.W * m.H
	if j, ok := dp.Data["current_density"]; ok {
		return j
	}
	if i, ok := dp.Data["current"]; ok {
		return i / area
	}
	warn.Warn("em: no current or current_density column, falling back to power/Vdd")
	power := dp.Get("power", 1)
	return power / vdd / area
}

func (m *EM) TimeToFailure(dp trace.DataPoint, dutyCycle, fail float64) float64 {
	vdd := dp.Get("vdd", 1)
	temperature := dp.Get("temperature", 350)
	j := m.currentDensity(dp, vdd)

	return m.A * math.Pow(j, -m.N) * math.Exp(m.Ea/(KBoltz*temperature))
}
