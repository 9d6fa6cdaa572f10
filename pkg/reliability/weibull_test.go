package reliability

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWeibullDistribution_ReliabilityMonotonicity(t *testing.T) {
	d := New(1000, 2)

	require.Equal(t, 1.0, d.Reliability(0))

	prev := d.Reliability(0)
	for _, tm := range []float64{1, 10, 100, 500, 1000, 5000, 50000} {
		r := d.Reliability(tm)
		t.Logf("reliability(%g) = %g", tm, r)
		assert.LessOrEqual(t, r, prev)
		prev = r
	}

	assert.InDelta(t, 0, d.Reliability(1e9), 1e-12)
}

func TestWeibullDistribution_InverseRoundTrip(t *testing.T) {
	d := New(750, 2)

	for _, r := range []float64{1, 0.9, 0.5, 0.1, 0.01, 1e-6} {
		tm := d.Inverse(r)
		got := d.Reliability(tm)
		t.Logf("r=%g -> t=%g -> reliability=%g", r, tm, got)
		assert.InDelta(t, r, got, 1e-9)
	}
}

func TestWeibullDistribution_MTTFIdentity(t *testing.T) {
	d := New(400, 2)
	want := d.Alpha * math.Gamma(1/d.Beta+1)
	assert.Equal(t, want, d.MTTF())
}

func TestWeibullDistribution_ProductClosure(t *testing.T) {
	da := New(1000, 2)
	db := New(2000, 2)

	product := da.Mul(db)
	for _, tm := range []float64{0, 10, 500, 5000} {
		want := da.Reliability(tm) * db.Reliability(tm)
		got := product.Reliability(tm)
		t.Logf("t=%g want=%g got=%g", tm, want, got)
		assert.InDelta(t, want, got, 1e-12)
	}
}

func TestWeibullDistribution_Mul_PanicsOnUnequalBeta(t *testing.T) {
	da := New(1000, 2)
	db := New(1000, 3)

	assert.Panics(t, func() {
		da.Mul(db)
	})
}

func TestWeibullDistribution_InfiniteAbsorption(t *testing.T) {
	d := FromSegments(2, []MTTFSegment{
		{Duration: 1, MTTF: math.Inf(1)},
		{Duration: 1, MTTF: math.Inf(1)},
	})

	require.True(t, math.IsInf(d.Alpha, 1))
	assert.Equal(t, 1.0, d.Reliability(1e12))
	assert.True(t, math.IsInf(d.Inverse(0.5), 1))
}

func TestWeibullDistribution_FromSegments_FiniteHarmonicMean(t *testing.T) {
	// Two equal-duration segments with different MTTFs should land strictly
	// between the two rate extremes.
	d := FromSegments(2, []MTTFSegment{
		{Duration: 1, MTTF: 1000},
		{Duration: 1, MTTF: 2000},
	})

	assert.Greater(t, d.Alpha, 0.0)
	assert.Less(t, d.MTTF(), 2000.0)
	assert.Greater(t, d.MTTF(), 1000.0)
}
