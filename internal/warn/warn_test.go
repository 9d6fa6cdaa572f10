package warn

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeduper_EmitsEachMessageOnce(t *testing.T) {
	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, nil)))
	defer slog.SetDefault(prev)

	d := NewDeduper()
	d.Warn("subthreshold VDD on unit x")
	d.Warn("subthreshold VDD on unit x")
	d.Warn("subthreshold VDD on unit y")

	out := buf.String()
	t.Logf("log output:\n%s", out)

	assert.Equal(t, 2, countOccurrences(out, "subthreshold VDD"))
}

func countOccurrences(s, substr string) int {
	count := 0
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			count++
		}
	}
	return count
}
