package timeunit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvert_HoursAndDays(t *testing.T) {
	assert.Equal(t, 1.0, Convert(3600, Hours))
	assert.Equal(t, 1.0, Convert(86400, Days))
	assert.Equal(t, 2.0, Convert(7200, Hours))
}

func TestConvert_Seconds(t *testing.T) {
	assert.Equal(t, 42.0, Convert(42, Seconds))
}

func TestParse_KnownAndUnknown(t *testing.T) {
	u, err := Parse("weeks")
	require.NoError(t, err)
	assert.Equal(t, Weeks, u)

	_, err = Parse("fortnights")
	assert.Error(t, err)
}

func TestString_RoundTripsWithParse(t *testing.T) {
	for _, u := range []Unit{Seconds, Minutes, Hours, Days, Weeks, Months, Years} {
		parsed, err := Parse(u.String())
		require.NoError(t, err)
		assert.Equal(t, u, parsed)
	}
}
