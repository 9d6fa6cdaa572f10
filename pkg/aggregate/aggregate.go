// Package aggregate computes summary statistics over the raw times to
// failure recorded by a Monte-Carlo run: sample mean, sample standard
// deviation, and a 95% normal-approximation confidence interval.
package aggregate

import (
	"math"

	"github.com/oldspot/oldspot/pkg/component"
)

// normal95 is the z-score for a 95% two-sided normal confidence interval.
const normal95 = 1.96

// Summary is the per-component result of a completed Monte-Carlo run.
type Summary struct {
	Name    string
	MTTF    float64
	StdTTF  float64
	CILow   float64
	CIHigh  float64
	Samples int
}

// Of summarizes a single component's recorded times to failure. confidence
// is accepted for interface parity with the reference model's
// mttf_interval(confidence) but ignored: this implementation always
// reports the 95% normal approximation.
func Of(c component.TTFRecorder, confidence float64) Summary {
	ttfs := c.AllTTFs()
	mean := sampleMean(ttfs)
	std := sampleStdDev(ttfs)
	lo, hi := interval(mean, std, len(ttfs))

	return Summary{
		Name:    c.Name(),
		MTTF:    mean,
		StdTTF:  std,
		CILow:   lo,
		CIHigh:  hi,
		Samples: len(ttfs),
	}
}

// All summarizes every component in cs, in the order given.
func All(cs []component.TTFRecorder, confidence float64) []Summary {
	out := make([]Summary, len(cs))
	for i, c := range cs {
		out[i] = Of(c, confidence)
	}
	return out
}

func sampleMean(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

func sampleStdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return math.NaN()
	}
	mean := sampleMean(xs)
	var sumSq float64
	for _, x := range xs {
		d := x - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(xs)-1))
}

func interval(mean, std float64, n int) (lo, hi float64) {
	if n < 2 || math.IsNaN(std) {
		return math.NaN(), math.NaN()
	}
	margin := normal95 * std / math.Sqrt(float64(n))
	return mean - margin, mean + margin
}
