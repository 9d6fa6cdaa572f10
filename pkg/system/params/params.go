// Package params loads the tab-separated key/value parameter files used to
// override a mechanism's or device's literature defaults. Grounded on
// original_source/src/failure.cc's read_params.
package params

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/oldspot/oldspot/internal/warn"
	"github.com/oldspot/oldspot/pkg/mechanism"
)

// Load reads a parameter file: one "key<TAB>value" pair per line, "#"-prefixed
// lines are comments, blank lines are skipped. A line that doesn't parse as
// key/value or whose value isn't a float triggers a deduplicated warning and
// is otherwise ignored — parameter files are a warning-only surface, never a
// fatal one.
func Load(path string) (mechanism.Params, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("params: open %s: %w", path, err)
	}
	defer f.Close()

	p := mechanism.Params{}
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		if len(fields) != 2 {
			warn.Warn(fmt.Sprintf("params: %s:%d: expected \"key<TAB>value\", got %q", path, lineNo, line))
			continue
		}

		key := strings.TrimSpace(fields[0])
		value, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			warn.Warn(fmt.Sprintf("params: %s:%d: unparseable value for key %q", path, lineNo, key))
			continue
		}

		p[key] = value
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("params: %s: %w", path, err)
	}

	return p, nil
}

// LoadOrWarn is Load without the file being required: a missing path is
// reported as a deduplicated warning and an empty Params (the mechanism
// falls back to its literature defaults) rather than a fatal error, since
// the CLI treats "--*-parameters" flags as optional overrides.
func LoadOrWarn(path string) mechanism.Params {
	if path == "" {
		return mechanism.Params{}
	}
	p, err := Load(path)
	if err != nil {
		warn.Warn(fmt.Sprintf("params: %v", err))
		return mechanism.Params{}
	}
	return p
}
