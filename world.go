package rigid

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// World owns a set of bodies and the constraints between them and advances
// them with Simulate. A World is not safe for concurrent use. Bodies and
// constraints belong to exactly one World.
type World struct {
	settings Settings
	logger   *zap.Logger
	index    SpatialIndex

	bodies      []Body
	names       map[string]Body
	constraints []Constraint

	// arbiters resolved during the last step, reused between steps
	arbiters []Arbiter

	stamp uint
	stats Stats
}

// Stats counts what the last Simulate call did.
type Stats struct {
	Stamp      uint
	Bodies     int
	Pairs      int
	Tested     int
	Collisions int
}

type WorldOption func(*World)

func WithSettings(settings Settings) WorldOption {
	return func(w *World) { w.settings = settings }
}

// WithLogger sets the logger. Bodies and constraints are logged at debug level
// and so is every step.
func WithLogger(logger *zap.Logger) WorldOption {
	return func(w *World) { w.logger = logger }
}

// WithSpatialIndex replaces the default QuadTree broad phase.
func WithSpatialIndex(index SpatialIndex) WorldOption {
	return func(w *World) { w.index = index }
}

func NewWorld(opts ...WorldOption) *World {
	w := &World{
		settings: DefaultSettings(),
		names:    map[string]Body{},
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.logger == nil {
		w.logger = zap.NewNop()
	}
	if w.index == nil {
		w.index = NewQuadTree(w.settings.MaxDepth)
	}
	return w
}

func (w *World) Settings() Settings {
	return w.settings
}

func (w *World) SetGravity(gravity Vector) {
	w.settings.Gravity = gravity
}

func (w *World) Stamp() uint {
	return w.stamp
}

func (w *World) Stats() Stats {
	return w.stats
}

func (w *World) AddBody(body Body) error {
	if body == nil {
		return ErrNilBody
	}
	if _, ok := w.names[body.Name()]; ok {
		return errors.Wrapf(ErrDuplicateBody, "body %q", body.Name())
	}

	w.bodies = append(w.bodies, body)
	w.names[body.Name()] = body

	w.logger.Debug("body added",
		zap.String("name", body.Name()),
		zap.Stringer("kind", body.Kind()),
		zap.Stringer("id", body.ID()),
	)
	return nil
}

// RemoveBody removes the body together with every constraint attached to it.
func (w *World) RemoveBody(body Body) error {
	if body == nil {
		return ErrNilBody
	}
	if w.names[body.Name()] != body {
		return errors.Wrapf(ErrBodyNotFound, "body %q", body.Name())
	}

	for i, b := range w.bodies {
		if b == body {
			w.bodies = append(w.bodies[:i], w.bodies[i+1:]...)
			break
		}
	}
	delete(w.names, body.Name())

	kept := w.constraints[:0]
	removed := 0
	for _, c := range w.constraints {
		if c.Attached(body) {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	clear(w.constraints[len(kept):])
	w.constraints = kept

	w.logger.Debug("body removed",
		zap.String("name", body.Name()),
		zap.Int("constraints", removed),
	)
	return nil
}

// Body looks a body up by name.
func (w *World) Body(name string) (Body, bool) {
	body, ok := w.names[name]
	return body, ok
}

func (w *World) ContainsBody(body Body) bool {
	return body != nil && w.names[body.Name()] == body
}

// Bodies returns the bodies in insertion order.
func (w *World) Bodies() []Body {
	return append([]Body(nil), w.bodies...)
}

func (w *World) EachBody(f func(body Body)) {
	for _, body := range w.bodies {
		f(body)
	}
}

// AddConstraint adds c. Both attached bodies must already be in the world.
func (w *World) AddConstraint(c Constraint) error {
	if c == nil {
		return ErrNilConstraint
	}
	a, b := c.Bodies()
	for _, body := range [2]Body{a, b} {
		if !w.ContainsBody(body) {
			return errors.Wrapf(ErrBodyNotFound, "constraint attached to %q", body.Name())
		}
	}

	w.constraints = append(w.constraints, c)

	w.logger.Debug("constraint added",
		zap.String("a", a.Name()),
		zap.String("b", b.Name()),
		zap.Float64("length", c.Length()),
	)
	return nil
}

func (w *World) RemoveConstraint(c Constraint) error {
	for i, other := range w.constraints {
		if other == c {
			w.constraints = append(w.constraints[:i], w.constraints[i+1:]...)
			w.logger.Debug("constraint removed", zap.Float64("length", c.Length()))
			return nil
		}
	}
	return ErrConstraintNotFound
}

// Constraints returns the constraints in insertion order.
func (w *World) Constraints() []Constraint {
	return append([]Constraint(nil), w.constraints...)
}

func (w *World) EachConstraint(f func(c Constraint)) {
	for _, c := range w.constraints {
		f(c)
	}
}

// EachArbiter visits the collisions resolved by the last step.
func (w *World) EachArbiter(f func(arb *Arbiter)) {
	for i := range w.arbiters {
		f(&w.arbiters[i])
	}
}

// Clear removes every body and constraint.
func (w *World) Clear() {
	clear(w.bodies)
	w.bodies = w.bodies[:0]
	clear(w.constraints)
	w.constraints = w.constraints[:0]
	clear(w.names)
	w.arbiters = w.arbiters[:0]
	w.logger.Debug("world cleared")
}

// Simulate advances the world by dt seconds. Forces are cleared, gravity and
// constraints are applied, bodies are integrated and finally colliding pairs
// are separated and given contact impulses. A dt that is not positive does
// nothing.
func (w *World) Simulate(dt float64) {
	if dt <= 0 {
		return
	}

	w.stamp++
	w.stats = Stats{Stamp: w.stamp, Bodies: len(w.bodies)}
	w.arbiters = w.arbiters[:0]

	bodies := w.bodies
	constraints := w.constraints

	for _, body := range bodies {
		body.core().resetForces()
	}

	gravity := w.settings.Gravity
	for _, body := range bodies {
		if body.Movable() {
			body.ApplyForce(gravity.Mult(body.Mass()))
		}
	}
	for _, c := range constraints {
		c.AddTensionForce()
	}

	for _, body := range bodies {
		BodyUpdateVelocity(body, dt)
		BodyUpdatePosition(body, dt)
	}

	w.index.Build(bodies)
	pairs := w.index.Pairs()
	w.stats.Pairs = len(pairs)

	for _, pair := range pairs {
		a, b := pair.A, pair.B
		if !a.Movable() && !b.Movable() {
			continue
		}
		if !a.Collidable() || !b.Collidable() {
			continue
		}

		w.stats.Tested++
		res := Collide(a, b)
		if !res.Collided {
			continue
		}

		w.arbiters = append(w.arbiters, Arbiter{a: a, b: b, res: res})
		w.arbiters[len(w.arbiters)-1].Resolve(&w.settings)
		w.stats.Collisions++
	}

	if ce := w.logger.Check(zap.DebugLevel, "step"); ce != nil {
		ce.Write(
			zap.Uint("stamp", w.stamp),
			zap.Float64("dt", dt),
			zap.Int("bodies", w.stats.Bodies),
			zap.Int("pairs", w.stats.Pairs),
			zap.Int("tested", w.stats.Tested),
			zap.Int("collisions", w.stats.Collisions),
		)
	}
}
