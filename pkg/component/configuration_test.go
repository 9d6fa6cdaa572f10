package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewConfiguration_EmptyIsFresh(t *testing.T) {
	assert.Equal(t, Fresh, NewConfiguration(nil))
	assert.Equal(t, Fresh, NewConfiguration([]string{}))
}

func TestNewConfiguration_OrderIndependent(t *testing.T) {
	a := NewConfiguration([]string{"b", "a"})
	b := NewConfiguration([]string{"a", "b"})
	assert.Equal(t, a, b)
	assert.NotEqual(t, Fresh, a)
}

func TestNewConfiguration_Dedupes(t *testing.T) {
	a := NewConfiguration([]string{"a", "a", "b"})
	assert.Equal(t, []string{"a", "b"}, a.Names())
}
