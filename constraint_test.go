package rigid

import (
	"math"
	"testing"

	tassert "github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpring_AddTensionForce(t *testing.T) {
	c1 := newTestCircle(t, "c1", Vector{10, 10}, 10)
	c2 := newTestCircle(t, "c2", Vector{100, 10}, 10)

	spring, err := NewSpring(c1, c2, 90, 100)
	require.NoError(t, err)
	tassert.Equal(t, Vector{55, 10}, spring.Equilibrium())

	spring.AddTensionForce()
	assertVector(t, Vector{45, 0}, c1.Force())
	assertVector(t, Vector{-45, 0}, c2.Force())

	// forces accumulate
	spring.AddTensionForce()
	assertVector(t, Vector{90, 0}, c1.Force())
}

func TestSpring_StaticEnd(t *testing.T) {
	c1 := newTestCircle(t, "c1", Vector{10, 10}, 10, WithStatic())
	c2 := newTestCircle(t, "c2", Vector{100, 10}, 10)

	spring, err := NewSpring(c1, c2, 90, 100)
	require.NoError(t, err)

	spring.AddTensionForce()
	tassert.Equal(t, Vector{}, c1.Force())
	assertVector(t, Vector{-45, 0}, c2.Force())
}

func TestSpring_Equilibrium(t *testing.T) {
	c1 := newTestCircle(t, "c1", Vector{3, 3}, 1)
	c2 := newTestCircle(t, "c2", Vector{3, 3}, 1)

	spring, err := NewSpring(c1, c2, 0, 100)
	require.NoError(t, err)

	spring.AddTensionForce()
	tassert.Equal(t, Vector{}, c1.Force())
	tassert.Equal(t, Vector{}, c2.Force())
}

func TestConstraint_Errors(t *testing.T) {
	c1 := newTestCircle(t, "c1", Vector{0, 0}, 1)
	c2 := newTestCircle(t, "c2", Vector{10, 0}, 1)

	_, err := NewSpring(c1, c1, 10, 1)
	tassert.ErrorIs(t, err, ErrSameBody)

	_, err = NewSpring(c1, nil, 10, 1)
	tassert.ErrorIs(t, err, ErrNilBody)

	_, err = NewSpring(c1, c2, -1, 1)
	tassert.ErrorIs(t, err, ErrInvalidLength)

	_, err = NewSpring(c1, c2, 10, -1)
	tassert.ErrorIs(t, err, ErrInvalidStiffness)

	_, err = NewString(c1, c2, 0)
	tassert.ErrorIs(t, err, ErrInvalidLength)

	_, err = NewString(c1, c2, math.Inf(1))
	tassert.ErrorIs(t, err, ErrInvalidLength)

	_, err = NewTautString(nil, c2)
	tassert.ErrorIs(t, err, ErrNilBody)
}

func TestString_Slack(t *testing.T) {
	c1 := newTestCircle(t, "c1", Vector{10, 10}, 10)
	c2 := newTestCircle(t, "c2", Vector{100, 10}, 10)

	str, err := NewString(c1, c2, 90)
	require.NoError(t, err)
	tassert.False(t, str.Taut())

	str.AddTensionForce()
	tassert.Equal(t, Vector{}, c1.Force())
	tassert.Equal(t, Vector{}, c2.Force())
	tassert.Equal(t, Vector{10, 10}, c1.Center())
	tassert.Equal(t, Vector{100, 10}, c2.Center())
}

func TestString_Taut(t *testing.T) {
	c1 := newTestCircle(t, "c1", Vector{10, 10}, 10)
	c2 := newTestCircle(t, "c2", Vector{100, 10}, 10)

	str, err := NewString(c1, c2, 90)
	require.NoError(t, err)

	c1.Move(Vector{0, 10})
	c1.SetForce(Vector{0, 10})
	tassert.True(t, str.Taut())

	anchor, radius := str.Anchor()
	tassert.Equal(t, Vector{50, 10}, anchor)
	tassert.Equal(t, 45.0, radius)

	str.AddTensionForce()
	assertVector(t, Vector{5, 10}, c1.Center())
	assertVector(t, Vector{95, 10}, c2.Center())
	tassert.InDelta(t, 90, str.Separation(), 1e-9)

	// at rest the centripetal force is zero and replaces the net force
	assertVector(t, Vector{}, c1.Force())
	assertVector(t, Vector{}, c2.Force())
}

func TestString_Anchored(t *testing.T) {
	peg := newTestCircle(t, "peg", Vector{0, 0}, 1, WithStatic())
	bob, err := NewCircle("bob", 2, Vector{0, -20}, 1, WithVelocity(Vector{3, -1}))
	require.NoError(t, err)

	str, err := NewString(peg, bob, 10)
	require.NoError(t, err)

	anchor, radius := str.Anchor()
	tassert.Equal(t, peg.Center(), anchor)
	tassert.Equal(t, 10.0, radius)

	str.AddTensionForce()
	assertVector(t, Vector{0, -10}, bob.Center())
	assertVector(t, Vector{0, 2.0 * 10 / 10}, bob.Force())
	assertVector(t, Vector{3, 0}, bob.Velocity(), "outward velocity removed")
	tassert.Equal(t, Vector{}, peg.Center())
}

func TestNewTautString(t *testing.T) {
	c1 := newTestCircle(t, "c1", Vector{0, 0}, 1)
	c2 := newTestCircle(t, "c2", Vector{3, 4}, 1)

	str, err := NewTautString(c1, c2)
	require.NoError(t, err)
	tassert.Equal(t, 5.0, str.Length())
	tassert.False(t, str.Taut())

	a, b := str.Bodies()
	tassert.Equal(t, Body(c1), a)
	tassert.Equal(t, Body(c2), b)
	tassert.True(t, str.Attached(c1))
	tassert.False(t, str.Attached(newTestCircle(t, "c3", Vector{}, 1)))
}
