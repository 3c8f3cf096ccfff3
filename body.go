package rigid

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// body is the state shared by every Body variant.
type body struct {
	id   uuid.UUID
	name string

	// mass, 1/mass (zero when immovable)
	m     float64
	m_inv float64

	// moment of inertia, 1/moment (zero when immovable)
	i     float64
	i_inv float64

	// position, velocity, force
	p Vector
	v Vector
	f Vector

	// Angle, angular velocity, torque (radians)
	a float64
	w float64
	t float64

	movable    bool
	collidable bool
}

func newBody(name string, mass float64, center Vector, o bodyOptions) (body, error) {
	if name == "" {
		return body{}, ErrInvalidName
	}
	if !(mass > 0) || math.IsInf(mass, 1) {
		return body{}, errors.Wrapf(ErrInvalidMass, "body %q mass %v", name, mass)
	}
	b := body{
		id:         uuid.New(),
		name:       name,
		m:          mass,
		m_inv:      1 / mass,
		p:          center,
		v:          o.velocity,
		a:          o.angle,
		movable:    true,
		collidable: o.collidable,
	}
	return b, nil
}

func (b body) String() string {
	return fmt.Sprint("Body ", b.name)
}

func (b *body) core() *body {
	return b
}

func (b *body) ID() uuid.UUID {
	return b.id
}

func (b *body) Name() string {
	return b.name
}

func (b *body) Mass() float64 {
	return b.m
}

func (b *body) Moment() float64 {
	return b.i
}

func (b *body) setMoment(moment float64) {
	b.i = moment
	if b.movable && moment > 0 {
		b.i_inv = 1 / moment
	} else {
		b.i_inv = 0
	}
}

func (b *body) Center() Vector {
	return b.p
}

func (b *body) Velocity() Vector {
	return b.v
}

func (b *body) SetVelocity(v Vector) {
	b.v = v
}

func (b *body) Force() Vector {
	return b.f
}

func (b *body) SetForce(force Vector) {
	b.f = force
}

func (b *body) ApplyForce(force Vector) {
	b.f = b.f.Add(force)
}

// ApplyForceAtPoint adds force at a world point, producing torque around the center.
func (b *body) ApplyForceAtPoint(force, point Vector) {
	b.f = b.f.Add(force)
	r := point.Sub(b.p)
	b.t += r.Cross(force)
}

// ApplyImpulseAtPoint changes velocity and angular velocity immediately.
// Immovable bodies have zero inverse mass and are unaffected.
func (b *body) ApplyImpulseAtPoint(j, point Vector) {
	apply_impulse(b, j, point.Sub(b.p))
}

func (b *body) VelocityAtPoint(point Vector) Vector {
	v, w := b.motion()
	r := point.Sub(b.p)
	return v.Add(r.Perp().Mult(w))
}

func (b *body) KineticEnergy() float64 {
	// skip zero terms so an infinite mass or moment cannot yield NaN
	v, w := b.motion()
	vsq := v.Dot(v)
	wsq := w * w
	var e float64
	if vsq != 0 {
		e += 0.5 * vsq * b.m
	}
	if wsq != 0 {
		e += 0.5 * wsq * b.i
	}
	return e
}

func (b *body) Angle() float64 {
	return b.a
}

func (b *body) AngularVelocity() float64 {
	return b.w
}

func (b *body) SetAngularVelocity(w float64) {
	b.w = w
}

func (b *body) Torque() float64 {
	return b.t
}

func (b *body) Movable() bool {
	return b.movable
}

// SetMovable toggles between a dynamic body and an immovable one. Immovable
// bodies have zero inverse mass and inertia and lose their velocity.
func (b *body) SetMovable(movable bool) {
	if movable {
		b.movable = true
		b.m_inv = 1 / b.m
		b.setMoment(b.i)
		return
	}
	b.freeze()
	b.v = Vector{}
	b.w = 0
}

// freeze makes the body immovable but keeps its stored velocity, which is
// never integrated and never enters a contact.
func (b *body) freeze() {
	b.movable = false
	b.m_inv = 0
	b.i_inv = 0
}

// motion is the velocity a contact sees. Immovable bodies are at rest.
func (b *body) motion() (Vector, float64) {
	if !b.movable {
		return Vector{}, 0
	}
	return b.v, b.w
}

func (b *body) Collidable() bool {
	return b.collidable
}

func (b *body) SetCollidable(collidable bool) {
	b.collidable = collidable
}

func (b *body) resetForces() {
	b.f = Vector{}
	b.t = 0
}

// BodyUpdateVelocity integrates force and torque into velocity (semi-implicit Euler).
func BodyUpdateVelocity(body Body, dt float64) {
	b := body.core()
	if !b.movable {
		return
	}

	assert(b.m > 0, "Body's mass must be positive")

	b.v = b.v.Add(b.f.Mult(b.m_inv * dt))
	b.w = b.w + b.t*b.i_inv*dt
}

// BodyUpdatePosition integrates the new velocity into position and angle.
func BodyUpdatePosition(body Body, dt float64) {
	b := body.core()
	if !b.movable {
		return
	}

	body.Translate(b.v.Mult(dt))
	if b.w != 0 {
		body.Rotate(b.a + b.w*dt)
	}
}

func apply_impulse(b *body, j, r Vector) {
	b.v = b.v.Add(j.Mult(b.m_inv))
	b.w += b.i_inv * r.Cross(j)
}

func apply_impulses(a, b *body, r1, r2, j Vector) {
	apply_impulse(a, j.Neg(), r1)
	apply_impulse(b, j, r2)
}

func relative_velocity(a, b *body, r1, r2 Vector) Vector {
	va, wa := a.motion()
	vb, wb := b.motion()
	v1_sum := va.Add(r1.Perp().Mult(wa))
	v2_sum := vb.Add(r2.Perp().Mult(wb))
	return v2_sum.Sub(v1_sum)
}

// k_scalar is the effective mass denominator along n for a contact at r1, r2.
func k_scalar(a, b *body, r1, r2, n Vector) float64 {
	rcn := r1.Cross(n)
	rcn2 := r2.Cross(n)
	return a.m_inv + b.m_inv + a.i_inv*rcn*rcn + b.i_inv*rcn2*rcn2
}
