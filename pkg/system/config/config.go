// Package config loads the XML chip-configuration document: the flat unit
// registry (type, redundancy, per-configuration traces) and the failure
// dependency tree built from it. Grounded on original_source/src/unit.cc's
// Unit/Group constructors and original_source/src/main.cc's document
// traversal.
package config

import (
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/oldspot/oldspot/internal/warn"
	"github.com/oldspot/oldspot/pkg/component"
	"github.com/oldspot/oldspot/pkg/system/trace"
)

// baseDefaults are the literature defaults a unit falls back to for any
// quantity that neither its XML <default> elements nor its traces supply.
var baseDefaults = map[string]float64{
	"vdd":         1,
	"temperature": 350,
	"frequency":   1000,
	"activity":    0,
}

type document struct {
	XMLName xml.Name  `xml:"config"`
	Units   []unitDef `xml:"unit"`
	Root    groupNode `xml:"group"`
}

type unitDef struct {
	Type       string         `xml:"type,attr"`
	Name       string         `xml:"name,attr"`
	Area       float64        `xml:"area,attr"`
	Defaults   []attrSet      `xml:"default"`
	Redundancy *redundancyDef `xml:"redundancy"`
	Traces     []traceDef     `xml:"trace"`
}

type attrSet struct {
	Attrs []xml.Attr `xml:",any,attr"`
}

type redundancyDef struct {
	Type  string `xml:"type,attr"`
	Count int    `xml:"count,attr"`
}

type traceDef struct {
	File   string `xml:"file,attr"`
	Failed string `xml:"failed,attr"`
}

type groupNode struct {
	Name     string      `xml:"name,attr"`
	Failures int         `xml:"failures,attr"`
	Units    []unitRef   `xml:"unit"`
	Groups   []groupNode `xml:"group"`
}

type unitRef struct {
	Name string `xml:"name,attr"`
}

// Result is the loaded configuration: the flat registry of Units in
// document order (dense IDs assigned by that order) and the root of the
// failure dependency tree.
type Result struct {
	Units []*component.Unit
	Root  *component.Group
}

// Load parses the chip-configuration XML document at path, using delimiter
// to parse every referenced trace file.
func Load(path string, delimiter rune) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}

	var doc document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	byName := make(map[string]*component.Unit, len(doc.Units))
	units := make([]*component.Unit, 0, len(doc.Units))

	for i, ud := range doc.Units {
		u, err := buildUnit(i, ud, delimiter)
		if err != nil {
			return nil, fmt.Errorf("config: unit %q: %w", ud.Name, err)
		}
		if _, dup := byName[ud.Name]; dup {
			return nil, fmt.Errorf("config: duplicate unit name %q", ud.Name)
		}
		byName[ud.Name] = u
		units = append(units, u)
	}

	root, err := buildGroup(doc.Root, byName)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	return &Result{Units: units, Root: root}, nil
}

func buildUnit(id int, ud unitDef, delimiter rune) (*component.Unit, error) {
	kind, err := parseKind(ud.Type)
	if err != nil {
		return nil, err
	}

	defaults := mergedDefaults(ud.Defaults)

	copies, serial := 1, false
	if ud.Redundancy != nil {
		if ud.Redundancy.Count > 0 {
			copies = ud.Redundancy.Count
		}
		switch ud.Redundancy.Type {
		case "serial":
			serial = true
		case "parallel", "":
			serial = false
		default:
			return nil, fmt.Errorf("unknown redundancy type %q", ud.Redundancy.Type)
		}
	}

	u := component.NewUnit(id, ud.Name, kind, copies, serial, ud.Area)

	for _, td := range ud.Traces {
		cfg := parseFailedConfig(td.Failed)
		points, err := trace.ParseCSV(td.File, delimiter)
		if err != nil {
			return nil, err
		}
		u.Traces[cfg] = applyDefaults(points, defaults)
	}

	// A unit's fresh configuration must always exist, whether it has no
	// traces at all or has one or more traces that are all for failed
	// configurations and never include an explicit fresh one.
	if _, ok := u.Traces[component.Fresh]; !ok {
		u.Traces[component.Fresh] = applyDefaults([]trace.DataPoint{{Time: 1, Duration: 1, Data: map[string]float64{}}}, defaults)
	}

	return u, nil
}

func parseKind(typ string) (component.Kind, error) {
	switch typ {
	case "unit", "":
		return component.Generic, nil
	case "core":
		return component.Core, nil
	case "logic":
		return component.Logic, nil
	case "memory":
		return component.Memory, nil
	default:
		return 0, fmt.Errorf("unknown unit type %q", typ)
	}
}

// mergedDefaults overlays every <default VAR="..."> attribute found onto
// the literature base defaults.
func mergedDefaults(sets []attrSet) map[string]float64 {
	merged := make(map[string]float64, len(baseDefaults))
	for k, v := range baseDefaults {
		merged[k] = v
	}
	for _, set := range sets {
		for _, attr := range set.Attrs {
			v, err := strconv.ParseFloat(attr.Value, 64)
			if err != nil {
				warn.Warn(fmt.Sprintf("config: default %s=%q is not a number, ignoring", attr.Name.Local, attr.Value))
				continue
			}
			merged[attr.Name.Local] = v
		}
	}
	return merged
}

// frequencyColumn is converted from MHz to Hz once every DataPoint has its
// final merged set of quantities, matching original_source/src/unit.cc,
// which merges defaults into every trace — including the synthesized fresh
// one — and only then multiplies every resulting frequency by 1e6. Applying
// it here, after the merge, guarantees a defaulted frequency is converted
// exactly like one read from a trace's own "frequency" column.
const frequencyColumn = "frequency"

// applyDefaults fills every quantity in defaults that a DataPoint's Data
// doesn't already have, without mutating the caller's slice in place, then
// converts the resulting frequency from MHz to Hz.
func applyDefaults(points []trace.DataPoint, defaults map[string]float64) []trace.DataPoint {
	out := make([]trace.DataPoint, len(points))
	for i, dp := range points {
		merged := make(map[string]float64, len(defaults)+len(dp.Data))
		for k, v := range defaults {
			merged[k] = v
		}
		for k, v := range dp.Data {
			merged[k] = v
		}
		if freq, ok := merged[frequencyColumn]; ok {
			merged[frequencyColumn] = freq * 1e6
		}
		out[i] = trace.DataPoint{Time: dp.Time, Duration: dp.Duration, Data: merged}
	}
	return out
}

// parseFailedConfig turns a trace's failed="NAME1,NAME2" attribute into a
// Configuration. An empty attribute is the fresh trace.
func parseFailedConfig(failed string) component.Configuration {
	failed = strings.TrimSpace(failed)
	if failed == "" {
		return component.Fresh
	}
	parts := strings.Split(failed, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return component.NewConfiguration(parts)
}

func buildGroup(g groupNode, byName map[string]*component.Unit) (*component.Group, error) {
	var children []component.Component

	for _, ref := range g.Units {
		u, ok := byName[ref.Name]
		if !ok {
			return nil, fmt.Errorf("group %q references unknown unit %q", g.Name, ref.Name)
		}
		children = append(children, u)
	}

	for _, sub := range g.Groups {
		child, err := buildGroup(sub, byName)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}

	return component.NewGroup(g.Name, g.Failures, children), nil
}
