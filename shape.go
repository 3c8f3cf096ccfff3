package rigid

import (
	"fmt"

	"github.com/google/uuid"
)

// Kind tags the concrete variant of a Body.
type Kind int

const (
	KindCircle Kind = iota
	KindPolygon
)

func (k Kind) String() string {
	switch k {
	case KindCircle:
		return "Circle"
	case KindPolygon:
		return "Polygon"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Body is a rigid body taking part in a World. The set of implementations is
// closed: only *Circle and *Polygon satisfy it, so every switch over bodies in
// this package can be exhaustive.
type Body interface {
	ID() uuid.UUID
	Name() string
	Kind() Kind

	Mass() float64
	Moment() float64

	Center() Vector
	// Velocity is the stored velocity. An immovable body keeps it for
	// serialization but is never moved by it and counts as at rest in contacts.
	Velocity() Vector
	SetVelocity(v Vector)
	Force() Vector
	SetForce(f Vector)
	ApplyForce(f Vector)
	ApplyForceAtPoint(f, point Vector)
	ApplyImpulseAtPoint(j, point Vector)
	VelocityAtPoint(point Vector) Vector
	KineticEnergy() float64

	Angle() float64
	AngularVelocity() float64
	SetAngularVelocity(w float64)
	Torque() float64

	Movable() bool
	SetMovable(movable bool)
	Collidable() bool
	SetCollidable(collidable bool)

	// Translate moves the body by d.
	Translate(d Vector)
	// Rotate turns the body around its own center to the absolute angle (radians).
	Rotate(angle float64)
	// Move places the center at c. It is Translate(c - Center()).
	Move(c Vector)

	BB() BB

	// Clone returns a deep copy with a fresh ID. Nothing is shared with the
	// receiver.
	Clone() Body

	core() *body
}

type bodyOptions struct {
	velocity   Vector
	angle      float64
	pivot      *Vector
	static     bool
	collidable bool
}

func newBodyOptions(opts []BodyOption) bodyOptions {
	o := bodyOptions{collidable: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// BodyOption configures a body at construction.
type BodyOption func(*bodyOptions)

func WithVelocity(v Vector) BodyOption {
	return func(o *bodyOptions) { o.velocity = v }
}

// WithAngle sets the initial angle. Polygon vertices passed to the
// constructor are taken as already rotated by this angle.
func WithAngle(angle float64) BodyOption {
	return func(o *bodyOptions) { o.angle = angle }
}

// WithPivot sets a polygon's center explicitly instead of using the centroid.
// Circles ignore it. Circle-polygon detection only considers edges facing the
// center, so a pivot far from the centroid can hide a crossed edge whose
// normal points away from it.
func WithPivot(center Vector) BodyOption {
	return func(o *bodyOptions) { o.pivot = &center }
}

// WithStatic makes the body immovable. A velocity given with WithVelocity is
// kept but has no effect on the simulation.
func WithStatic() BodyOption {
	return func(o *bodyOptions) { o.static = true }
}

func WithCollidable(collidable bool) BodyOption {
	return func(o *bodyOptions) { o.collidable = collidable }
}
