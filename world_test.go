package rigid

import (
	"math"
	"testing"

	tassert "github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWorld_FreeFall(t *testing.T) {
	w := NewWorld()
	light, err := NewCircle("light", 1, Vector{0, 0}, 1)
	require.NoError(t, err)
	heavy, err := NewCircle("heavy", 5, Vector{100, 0}, 1)
	require.NoError(t, err)
	require.NoError(t, w.AddBody(light))
	require.NoError(t, w.AddBody(heavy))

	w.Simulate(0)
	tassert.Equal(t, uint(0), w.Stamp())
	tassert.Equal(t, Vector{}, light.Velocity())

	w.Simulate(0.1)
	tassert.Equal(t, uint(1), w.Stamp())
	tassert.InDelta(t, -0.981, light.Velocity().Y, 1e-9)
	tassert.InDelta(t, -0.981, heavy.Velocity().Y, 1e-9)
	tassert.InDelta(t, -0.0981, light.Center().Y, 1e-9)
	tassert.Equal(t, 0.0, light.Velocity().X)
	tassert.Equal(t, Stats{Stamp: 1, Bodies: 2}, w.Stats())
}

func TestWorld_Bodies(t *testing.T) {
	w := NewWorld()
	a := newTestCircle(t, "a", Vector{0, 0}, 1)
	b := newTestBox(t, "b", Vector{5, 0}, 1, 1)

	require.NoError(t, w.AddBody(a))
	require.NoError(t, w.AddBody(b))

	err := w.AddBody(newTestCircle(t, "a", Vector{}, 1))
	tassert.ErrorIs(t, err, ErrDuplicateBody)
	tassert.ErrorIs(t, w.AddBody(nil), ErrNilBody)

	got, ok := w.Body("b")
	require.True(t, ok)
	tassert.Equal(t, Body(b), got)
	_, ok = w.Body("missing")
	tassert.False(t, ok)

	tassert.Equal(t, []Body{a, b}, w.Bodies())
	tassert.True(t, w.ContainsBody(a))
	tassert.False(t, w.ContainsBody(newTestCircle(t, "a", Vector{}, 1)), "same name, different body")

	var names []string
	w.EachBody(func(body Body) { names = append(names, body.Name()) })
	tassert.Equal(t, []string{"a", "b"}, names)

	require.NoError(t, w.RemoveBody(a))
	tassert.ErrorIs(t, w.RemoveBody(a), ErrBodyNotFound)
	tassert.Equal(t, []Body{b}, w.Bodies())

	w.Clear()
	tassert.Empty(t, w.Bodies())
	_, ok = w.Body("b")
	tassert.False(t, ok)
	require.NoError(t, w.AddBody(b))
}

func TestWorld_Constraints(t *testing.T) {
	w := NewWorld()
	a := newTestCircle(t, "a", Vector{0, 0}, 1)
	b := newTestCircle(t, "b", Vector{10, 0}, 1)
	c := newTestCircle(t, "c", Vector{20, 0}, 1)
	require.NoError(t, w.AddBody(a))
	require.NoError(t, w.AddBody(b))

	outside, err := NewSpring(b, c, 10, 1)
	require.NoError(t, err)
	tassert.ErrorIs(t, w.AddConstraint(outside), ErrBodyNotFound)
	tassert.ErrorIs(t, w.AddConstraint(nil), ErrNilConstraint)

	spring, err := NewSpring(a, b, 10, 1)
	require.NoError(t, err)
	str, err := NewTautString(a, b)
	require.NoError(t, err)
	require.NoError(t, w.AddConstraint(spring))
	require.NoError(t, w.AddConstraint(str))
	tassert.Equal(t, []Constraint{spring, str}, w.Constraints())

	require.NoError(t, w.RemoveConstraint(spring))
	tassert.ErrorIs(t, w.RemoveConstraint(spring), ErrConstraintNotFound)
	tassert.Equal(t, []Constraint{str}, w.Constraints())

	require.NoError(t, w.AddConstraint(spring))
	require.NoError(t, w.RemoveBody(b))
	tassert.Empty(t, w.Constraints(), "constraints attached to a removed body go with it")

	var visited int
	w.EachConstraint(func(Constraint) { visited++ })
	tassert.Equal(t, 0, visited)
}

func TestWorld_SpringPull(t *testing.T) {
	w := NewWorld()
	w.SetGravity(Vector{})

	a := newTestCircle(t, "a", Vector{0, 0}, 1)
	b := newTestCircle(t, "b", Vector{100, 0}, 1)
	require.NoError(t, w.AddBody(a))
	require.NoError(t, w.AddBody(b))

	spring, err := NewSpring(a, b, 100, 100)
	require.NoError(t, err)
	require.NoError(t, w.AddConstraint(spring))

	w.Simulate(0.1)
	assertVector(t, Vector{5, 0}, a.Velocity())
	assertVector(t, Vector{-5, 0}, b.Velocity())
	tassert.Less(t, spring.Separation(), 100.0)
}

func TestWorld_BallOnGround(t *testing.T) {
	w := NewWorld()
	ball, err := NewCircle("ball", 1, Vector{0, 1.9}, 1, WithVelocity(Vector{0, -5}))
	require.NoError(t, err)
	ground := newTestBox(t, "ground", Vector{0, 0}, 20, 2, WithStatic())
	require.NoError(t, w.AddBody(ball))
	require.NoError(t, w.AddBody(ground))

	w.Simulate(1.0 / 60)

	tassert.Greater(t, ball.Velocity().Y, 0.0, "ball bounces")
	tassert.GreaterOrEqual(t, ball.Center().Y, 2.0, "ball rests on top of the ground")
	tassert.Equal(t, Vector{}, ground.Center())

	stats := w.Stats()
	tassert.Equal(t, 1, stats.Pairs)
	tassert.Equal(t, 1, stats.Tested)
	tassert.Equal(t, 1, stats.Collisions)

	var arbiters []*Arbiter
	w.EachArbiter(func(arb *Arbiter) { arbiters = append(arbiters, arb) })
	require.Len(t, arbiters, 1)
	tassert.Greater(t, arbiters[0].NormalImpulse(), 0.0)
	tassert.InDelta(t, 1, arbiters[0].Normal().Length(), 1e-9)
}

func TestWorld_SkipsPairs(t *testing.T) {
	w := NewWorld()
	w.SetGravity(Vector{})

	floor := newTestBox(t, "floor", Vector{0, 0}, 4, 2, WithStatic())
	wall := newTestBox(t, "wall", Vector{1, 0}, 2, 4, WithStatic())
	require.NoError(t, w.AddBody(floor))
	require.NoError(t, w.AddBody(wall))

	w.Simulate(0.1)
	tassert.Equal(t, 1, w.Stats().Pairs)
	tassert.Equal(t, 0, w.Stats().Tested, "two immovable bodies are never tested")

	w.Clear()
	ghost := newTestCircle(t, "ghost", Vector{0, 0}, 1, WithCollidable(false))
	solid := newTestCircle(t, "solid", Vector{0.5, 0}, 1)
	require.NoError(t, w.AddBody(ghost))
	require.NoError(t, w.AddBody(solid))

	w.Simulate(0.1)
	tassert.Equal(t, 0, w.Stats().Tested)
	tassert.Equal(t, Vector{0.5, 0}, solid.Center())
}

func TestWorld_BruteForce(t *testing.T) {
	w := NewWorld(WithSpatialIndex(NewBruteForce()), WithSettings(Settings{MaxDepth: 2}))
	a := newTestCircle(t, "a", Vector{0, 0}, 1)
	b := newTestCircle(t, "b", Vector{1, 0}, 1)
	require.NoError(t, w.AddBody(a))
	require.NoError(t, w.AddBody(b))

	w.Simulate(0.1)
	tassert.Equal(t, 1, w.Stats().Collisions)
	tassert.InDelta(t, 2, b.Center().X-a.Center().X, 1e-9, "equal split pushes both apart")
	tassert.Equal(t, Vector{}, w.Settings().Gravity)
}

func TestArbiter_Invariant(t *testing.T) {
	c1 := newTestCircle(t, "c1", Vector{0, 0}, 1)
	c2 := newTestCircle(t, "c2", Vector{1, 0}, 1)
	settings := DefaultSettings()

	tassert.Panics(t, func() {
		NewArbiter(c1, c2, CollisionResult{}).Resolve(&settings)
	})

	flipped := CircleCircle(c1, c2).Swap()
	tassert.Panics(t, func() {
		NewArbiter(c1, c2, flipped).Resolve(&settings)
	})

	tassert.NotPanics(t, func() {
		NewArbiter(c2, c1, flipped).Resolve(&settings)
	})
}

func TestWorld_Logging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	w := NewWorld(WithLogger(zap.New(core)))

	require.NoError(t, w.AddBody(newTestCircle(t, "a", Vector{}, 1)))
	w.Simulate(0.1)

	added := logs.FilterMessage("body added").All()
	require.Len(t, added, 1)
	tassert.Equal(t, "a", added[0].ContextMap()["name"])
	tassert.Equal(t, 1, logs.FilterMessage("step").Len())
}

func TestWorld_FrictionSlowsSlidingBox(t *testing.T) {
	w := NewWorld()
	box, err := NewBox("box", 1, Vector{0, 2}, 2, 2, WithVelocity(Vector{5, 0}))
	require.NoError(t, err)
	ground := newTestBox(t, "ground", Vector{0, 0}, 200, 2, WithStatic())
	require.NoError(t, w.AddBody(box))
	require.NoError(t, w.AddBody(ground))

	friction := w.Settings().Friction
	contacts := 0
	for i := 0; i < 60; i++ {
		w.Simulate(1.0 / 60)
		w.EachArbiter(func(arb *Arbiter) {
			contacts++
			tassert.LessOrEqual(t, math.Abs(arb.FrictionImpulse()), friction*arb.NormalImpulse()+1e-9)
		})
	}

	tassert.Greater(t, contacts, 0)
	tassert.Less(t, box.Velocity().X, 5.0)
}

func TestWorld_StaticBodyKeepsVelocity(t *testing.T) {
	w := NewWorld()
	belt := newTestBox(t, "belt", Vector{0, 0}, 20, 2, WithStatic(), WithVelocity(Vector{3, 0}))
	ball, err := NewCircle("ball", 1, Vector{0, 1.9}, 1, WithVelocity(Vector{0, -5}))
	require.NoError(t, err)
	require.NoError(t, w.AddBody(ball))
	require.NoError(t, w.AddBody(belt))

	w.Simulate(1.0 / 60)

	tassert.Equal(t, 1, w.Stats().Collisions)
	tassert.Equal(t, Vector{}, belt.Center(), "immovable bodies are not integrated")
	tassert.Equal(t, Vector{3, 0}, belt.Velocity())
	tassert.Equal(t, 0.0, ball.Velocity().X, "the belt counts as at rest in the contact")
	tassert.Greater(t, ball.Velocity().Y, 0.0)
}
