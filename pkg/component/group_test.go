package component

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGroup_Failed_StrictlyGreaterThanThreshold(t *testing.T) {
	a := NewUnit(0, "a", Generic, 1, false, 0)
	b := NewUnit(1, "b", Generic, 1, false, 0)
	c := NewUnit(2, "c", Generic, 1, false, 0)

	g := NewGroup("g", 1, []Component{a, b, c})

	assert.False(t, g.Failed(), "no children failed")

	a.failed = true
	assert.False(t, g.Failed(), "one of three failed, threshold 1 not exceeded")

	b.failed = true
	assert.True(t, g.Failed(), "two of three failed exceeds threshold 1")
}

func TestGroup_Failed_ThresholdZeroMeansAnyFailureFails(t *testing.T) {
	a := NewUnit(0, "a", Generic, 1, false, 0)
	g := NewGroup("g", 0, []Component{a})

	assert.False(t, g.Failed())
	a.failed = true
	assert.True(t, g.Failed())
}

func TestParentsFailed_PromotesEnclosedUnits(t *testing.T) {
	a := NewUnit(0, "a", Generic, 1, false, 0)
	b := NewUnit(1, "b", Generic, 1, false, 0)
	inner := NewGroup("inner", 0, []Component{a, b})

	c := NewUnit(2, "c", Generic, 1, false, 0)
	root := NewGroup("root", 1, []Component{inner, c})

	a.failed = true // inner now failed: 1 of 2 children > threshold 0

	promoted := ParentsFailed(root, []*Unit{a, b, c})

	require.Len(t, promoted, 1)
	assert.Equal(t, "b", promoted[0].Name())
	assert.True(t, b.Failed())
	assert.False(t, c.Failed())
}

func TestParentsFailed_DoesNotRepromoteAlreadyFailedUnits(t *testing.T) {
	a := NewUnit(0, "a", Generic, 1, false, 0)
	a.failed = true
	root := NewGroup("root", 0, []Component{a})

	promoted := ParentsFailed(root, []*Unit{a})
	assert.Empty(t, promoted)
}

func TestWalk_VisitsEveryNode(t *testing.T) {
	a := NewUnit(0, "a", Generic, 1, false, 0)
	b := NewUnit(1, "b", Generic, 1, false, 0)
	g := NewGroup("g", 0, []Component{a, b})

	var visited []string
	Walk(g, func(c Component) {
		visited = append(visited, c.Name())
	})

	assert.ElementsMatch(t, []string{"g", "a", "b"}, visited)
}
