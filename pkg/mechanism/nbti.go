package mechanism

import (
	"math"

	"github.com/oldspot/oldspot/pkg/reliability"
	"github.com/oldspot/oldspot/pkg/system/trace"
	"github.com/oldspot/oldspot/pkg/system/util"

	"github.com/oldspot/oldspot/internal/warn"
)

// nbtiStepSeconds is the forward-simulation step, one day, matching the
// reaction-diffusion model's original calibration.
const nbtiStepSeconds = 86400.0

// NBTI forward-simulates PMOS negative-bias temperature instability: ΔVth
// grows with stress time following the reaction-diffusion model of
//
//	S. Mahapatra et al., "A Comparative Study of Different Physics-Based
//	NBTI Models," IEEE TED, vol. 60, no. 3, 2013.
//
// until it crosses the threshold implied by the requested failure fraction,
// then linearly interpolates the exact crossing time.
type NBTI struct {
	Params Params
	Device DeviceParams

	A       float64
	B       float64
	GammaIT float64
	GammaHT float64
	EAkf    float64
	EAkr    float64
	EADH2   float64
	EAHT    float64
}

// NewNBTI builds an NBTI model from a parameter table, falling back to the
// literature defaults for any key not present.
func NewNBTI(p Params) *NBTI {
	return &NBTI{
		Params:  p,
		Device:  DeviceParamsFromParams(p),
		A:       p.Get("A", 5.5e12),
		B:       p.Get("B", 8e11),
		GammaIT: p.Get("Gamma_IT", 4.5),
		GammaHT: p.Get("Gamma_HT", 4.5),
		EAkf:    p.Get("E_Akf", 0.175),
		EAkr:    p.Get("E_Akr", 0.2),
		EADH2:   p.Get("E_ADH2", 0.58),
		EAHT:    p.Get("E_AHT", 0.03),
	}
}

func (m *NBTI) Name() string { return "NBTI" }

func (m *NBTI) Distribution(segments []reliability.MTTFSegment) reliability.WeibullDistribution {
	return distribution(segments)
}

// effectiveActivity converts a raw duty cycle into the reaction-diffusion
// model's effective duty cycle, which integrates recovery between stress
// periods.
func effectiveActivity(dc float64) float64 {
	return math.Pow(dc/(1+math.Sqrt((1-dc)/2)), 1.0/6.0)
}

// deltaVth computes ΔVth(t) from absolute stress time t — not incrementally
// integrated from the previous step's dN_IT/dN_HT — per the closed-form
// piecewise-stationary solution this model is built on. The previous step's
// ΔVth does feed back into the stress voltage V, though: the device
// degrades into a smaller effective stress as it wears, exactly as
// failure.cc's degradation(t, vdd, dVth, temperature, duty_cycle) threads
// its dVth argument.
func (m *NBTI) deltaVth(t, vdd, temperature, dcEff, dVthPrev float64) float64 {
	V := vdd - m.Device.Vt0P - dVthPrev
	if V < 0 {
		warn.Warn("nbti: vdd below Vt0_p, clamping stress voltage to 0")
		V = 0
	}

	eAIT := 2.0/3.0*(m.EAkf-m.EAkr) + m.EADH2/6
	dnIT := m.A * math.Pow(V, m.GammaIT) * math.Exp(-eAIT/(KBoltz*temperature)) * math.Pow(t, 1.0/6.0)
	dnHT := m.B * math.Pow(V, m.GammaHT) * math.Exp(-m.EAHT/(KBoltz*temperature))

	return dcEff * 0.027e-12 * (dnIT + dnHT)
}

func (m *NBTI) TimeToFailure(dp trace.DataPoint, dutyCycle, fail float64) float64 {
	if fail <= 0 {
		fail = FailDefault
	}
	dutyCycle = util.Clamp01(dutyCycle)
	if dutyCycle == 0 {
		return math.Inf(1)
	}

	vdd := dp.Get("vdd", 1)
	temperature := dp.Get("temperature", 350)
	dcEff := effectiveActivity(dutyCycle)

	vthFail := deltaVthFail(vdd, m.Device.Vt0P, fail, m.Device.AlphaPL)

	t := 0.0
	dVth := 0.0
	dVthPrev := 0.0
	for dVth < vthFail {
		dVthPrev = dVth
		dVth = m.deltaVth(t, vdd, temperature, dcEff, dVthPrev)
		t += nbtiStepSeconds
	}
	t -= nbtiStepSeconds

	if dVth == 0 {
		return 0
	}
	return linterp(t-nbtiStepSeconds, dVthPrev, t, dVth, vthFail)
}
