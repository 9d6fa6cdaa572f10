package aggregate

import (
	"math"
	"testing"

	"github.com/oldspot/oldspot/pkg/component"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOf_EmptySamplesIsNaN(t *testing.T) {
	u := component.NewUnit(0, "u", component.Generic, 1, false, 0)
	s := Of(u, 0.95)

	assert.True(t, math.IsNaN(s.MTTF))
	assert.True(t, math.IsNaN(s.StdTTF))
	assert.True(t, math.IsNaN(s.CILow))
	assert.Equal(t, 0, s.Samples)
}

func TestOf_SingleSampleHasNaNStdDevButFiniteMean(t *testing.T) {
	u := component.NewUnit(0, "u", component.Generic, 1, false, 0)
	u.RecordTTF(500)

	s := Of(u, 0.95)
	assert.Equal(t, 500.0, s.MTTF)
	assert.True(t, math.IsNaN(s.StdTTF))
	assert.True(t, math.IsNaN(s.CILow))
}

func TestOf_MeanAndIntervalMatchManualComputation(t *testing.T) {
	u := component.NewUnit(0, "u", component.Generic, 1, false, 0)
	samples := []float64{100, 200, 300, 400, 500}
	for _, s := range samples {
		u.RecordTTF(s)
	}

	s := Of(u, 0.95)
	require.Equal(t, 5, s.Samples)
	assert.Equal(t, 300.0, s.MTTF)

	// manual sample stddev of {100..500} step 100 is ~158.11
	assert.InDelta(t, 158.11, s.StdTTF, 0.01)

	margin := 1.96 * s.StdTTF / math.Sqrt(5)
	assert.InDelta(t, s.MTTF-margin, s.CILow, 1e-9)
	assert.InDelta(t, s.MTTF+margin, s.CIHigh, 1e-9)
}

func TestOf_ConfidenceParameterIsIgnored(t *testing.T) {
	u := component.NewUnit(0, "u", component.Generic, 1, false, 0)
	for _, s := range []float64{10, 20, 30} {
		u.RecordTTF(s)
	}

	a := Of(u, 0.5)
	b := Of(u, 0.99)
	assert.Equal(t, a, b)
}

func TestAll_PreservesOrder(t *testing.T) {
	a := component.NewUnit(0, "a", component.Generic, 1, false, 0)
	b := component.NewUnit(1, "b", component.Generic, 1, false, 0)
	a.RecordTTF(1)
	b.RecordTTF(2)

	summaries := All([]component.TTFRecorder{a, b}, 0.95)
	require.Len(t, summaries, 2)
	assert.Equal(t, "a", summaries[0].Name)
	assert.Equal(t, "b", summaries[1].Name)
}
