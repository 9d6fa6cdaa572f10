package mechanism

import (
	"math"

	"github.com/oldspot/oldspot/pkg/reliability"
	"github.com/oldspot/oldspot/pkg/system/trace"
	"github.com/oldspot/oldspot/pkg/system/util"
)

// HCI models NMOS hot-carrier injection via the closed-form "ExtraTime"
// parametrisation of:
//
//	W. Wang et al., "Compact Modeling and Simulation of Circuit Reliability
//	for 65nm CMOS Technology," IEEE TDMR, vol. 7, no. 4, 2007.
type HCI struct {
	Params Params
	Device DeviceParams

	E0     float64
	K      float64
	ABulk  float64
	PhiIT  float64
	Lambda float64
	L      float64 // hot-carrier effective channel length parameter
	Esat   float64
	N      float64
}

// NewHCI builds an HCI model from a parameter table.
func NewHCI(p Params) *HCI {
	return &HCI{
		Params: p,
		Device: DeviceParamsFromParams(p),
		E0:     p.Get("E0", 0.8),
		K:      p.Get("K", 1.7e8),
		ABulk:  p.Get("A_bulk", 0.005),
		PhiIT:  p.Get("phi_it", 3.7),
		Lambda: p.Get("lambda", 7.8),
		L:      p.Get("l", 17),
		Esat:   p.Get("Esat", 0.011),
		N:      p.Get("n", 0.45),
	}
}

func (m *HCI) Name() string { return "HCI" }

func (m *HCI) Distribution(segments []reliability.MTTFSegment) reliability.WeibullDistribution {
	return distribution(segments)
}

func (m *HCI) TimeToFailure(dp trace.DataPoint, dutyCycle, fail float64) float64 {
	if fail <= 0 {
		fail = FailDefault
	}
	dutyCycle = util.Clamp01(dutyCycle)
	frequency := dp.Get("frequency", 1000)
	if dutyCycle == 0 || frequency == 0 {
		return math.Inf(1)
	}

	vdd := dp.Get("vdd", 1)
	temperature := dp.Get("temperature", 350)
	vt0n := m.Device.Vt0N

	vt := KBoltz / EVJoule * temperature / Q
	vdsat := ((vdd - vt0n + 2*vt) * m.Device.L * m.Esat) / (vdd - vt0n + 2*vt + m.ABulk*m.Device.L*m.Esat)
	em := (vdd - vdsat) / m.L
	eox := (vdd - vt0n) / m.Device.Tox
	aHCI := Q / m.Device.Cox * m.K * math.Sqrt(m.Device.Cox*(vdd-vt0n))

	vthFail := deltaVthFail(vdd, vt0n, fail, m.Device.AlphaPL)

	denom := aHCI * math.Exp(eox/m.E0) * math.Exp(-m.PhiIT/EVJoule/(Q*m.Lambda*em))
	return math.Pow(vthFail/denom, 1/m.N) / (dutyCycle * frequency)
}
