package mechanism

import (
	"math"
	"testing"

	"github.com/oldspot/oldspot/pkg/reliability"
	"github.com/oldspot/oldspot/pkg/system/trace"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freshDataPoint() trace.DataPoint {
	return trace.DataPoint{
		Time:     1,
		Duration: 1,
		Data: map[string]float64{
			"vdd":         1,
			"temperature": 350,
			"frequency":   1e9,
			"activity":    1,
			"power":       0.5,
			"peak_power":  1,
		},
	}
}

func TestNBTI_ZeroDutyCycleIsInfinite(t *testing.T) {
	m := NewNBTI(nil)
	ttf := m.TimeToFailure(freshDataPoint(), 0, 0)
	assert.True(t, math.IsInf(ttf, 1))
}

func TestNBTI_PositiveDutyCycleIsFiniteAndPositive(t *testing.T) {
	m := NewNBTI(nil)
	ttf := m.TimeToFailure(freshDataPoint(), 1, 0.05)
	t.Logf("NBTI TTF = %g s", ttf)

	require.False(t, math.IsInf(ttf, 1))
	assert.Greater(t, ttf, 0.0)
}

func TestHCI_ZeroDutyCycleIsInfinite(t *testing.T) {
	m := NewHCI(nil)
	ttf := m.TimeToFailure(freshDataPoint(), 0, 0)
	assert.True(t, math.IsInf(ttf, 1))
}

func TestHCI_PositiveDutyCycleIsFiniteAndPositive(t *testing.T) {
	m := NewHCI(nil)
	ttf := m.TimeToFailure(freshDataPoint(), 1, 0.05)
	t.Logf("HCI TTF = %g s", ttf)

	require.False(t, math.IsInf(ttf, 1))
	assert.Greater(t, ttf, 0.0)
}

func TestEM_FallsBackToPowerOverVdd(t *testing.T) {
	m := NewEM(nil)
	dp := freshDataPoint()
	delete(dp.Data, "current")
	delete(dp.Data, "current_density")

	ttf := m.TimeToFailure(dp, 1, 0)
	t.Logf("EM TTF = %g s", ttf)
	assert.Greater(t, ttf, 0.0)
}

func TestEM_PrefersCurrentDensityOverFallback(t *testing.T) {
	m := NewEM(nil)

	dpDensity := freshDataPoint()
	dpDensity.Data["current_density"] = 1e9

	dpFallback := freshDataPoint()
	delete(dpFallback.Data, "current_density")

	ttfDensity := m.TimeToFailure(dpDensity, 1, 0)
	ttfFallback := m.TimeToFailure(dpFallback, 1, 0)

	assert.NotEqual(t, ttfDensity, ttfFallback)
}

func TestTDDB_PositiveFinite(t *testing.T) {
	m := NewTDDB(nil)
	ttf := m.TimeToFailure(freshDataPoint(), 1, 0)
	t.Logf("TDDB TTF = %g s", ttf)

	require.False(t, math.IsInf(ttf, 1))
	assert.Greater(t, ttf, 0.0)
}

func TestAllMechanisms_DistributionIsWeibullShapeTwo(t *testing.T) {
	mechanisms := []Mechanism{NewNBTI(nil), NewEM(nil), NewHCI(nil), NewTDDB(nil)}
	dp := freshDataPoint()

	for _, m := range mechanisms {
		ttf := m.TimeToFailure(dp, 1, 0.05)
		require.False(t, math.IsNaN(ttf), "%s produced NaN TTF", m.Name())

		d := m.Distribution([]reliability.MTTFSegment{{Duration: dp.Duration, MTTF: ttf}})
		assert.Equal(t, FailBeta, d.Beta)
	}
}
