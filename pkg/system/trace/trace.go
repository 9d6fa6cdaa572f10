// Package trace holds the DataPoint type shared by the mechanism and
// component packages, and the CSV trace-file parser that produces it.
//
// It is deliberately a leaf package: both pkg/mechanism and pkg/component
// depend on it, but it depends on neither, which avoids an import cycle
// between them.
package trace

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// DataPoint is one sampled row of a unit's activity trace. Time and Duration
// are seconds; Data holds every other column by name (vdd, temperature,
// frequency, activity, power, peak_power, current, current_density, ...).
type DataPoint struct {
	Time     float64
	Duration float64
	Data     map[string]float64
}

// Get returns the named quantity, or def if the trace did not record it.
func (dp DataPoint) Get(name string, def float64) float64 {
	if v, ok := dp.Data[name]; ok {
		return v
	}
	return def
}

// ParseCSV reads a delimited trace file. The first row is a header naming
// "time" in column 0 followed by arbitrary quantity names; every subsequent
// row is parsed as floats. Duration is derived as the difference between
// consecutive Time values, with the first row's Duration equal to its Time
// (the convention used throughout original_source/src/trace.cc).
func ParseCSV(path string, delimiter rune) ([]DataPoint, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("trace: open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = delimiter
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, fmt.Errorf("trace: read header of %s: %w", path, err)
	}
	if len(header) < 1 {
		return nil, fmt.Errorf("trace: %s: empty header", path)
	}

	var points []DataPoint
	prevTime := 0.0
	first := true

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("trace: %s: %w", path, err)
		}
		if len(row) != len(header) {
			return nil, fmt.Errorf("trace: %s: row has %d columns, header has %d", path, len(row), len(header))
		}

		values := make([]float64, len(row))
		for i, cell := range row {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("trace: %s: column %q: %w", path, header[i], err)
			}
			values[i] = v
		}

		dp := DataPoint{Time: values[0], Data: make(map[string]float64, len(header)-1)}
		for i := 1; i < len(header); i++ {
			dp.Data[header[i]] = values[i]
		}

		if first {
			dp.Duration = dp.Time
			first = false
		} else {
			dp.Duration = dp.Time - prevTime
		}
		prevTime = dp.Time

		points = append(points, dp)
	}

	return points, nil
}
