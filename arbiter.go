package rigid

import (
	"math"
)

// Arbiter resolves one colliding pair found by the narrow phase.
type Arbiter struct {
	a, b Body
	res  CollisionResult

	// tangent direction used for friction
	t Vector

	// accumulated normal and tangent impulses
	jn, jt float64
}

func NewArbiter(a, b Body, res CollisionResult) *Arbiter {
	return &Arbiter{a: a, b: b, res: res}
}

func (arb *Arbiter) Bodies() (Body, Body) {
	return arb.a, arb.b
}

func (arb *Arbiter) Result() CollisionResult {
	return arb.res
}

func (arb *Arbiter) Normal() Vector {
	return arb.res.Normal
}

// TotalImpulse is the impulse applied to the second body.
func (arb *Arbiter) TotalImpulse() Vector {
	return arb.res.Normal.Mult(arb.jn).Add(arb.t.Mult(arb.jt))
}

func (arb *Arbiter) NormalImpulse() float64 {
	return arb.jn
}

func (arb *Arbiter) FrictionImpulse() float64 {
	return arb.jt
}

// Resolve separates the bodies and applies the contact impulses. A result
// whose direction contradicts the body centers is a fault in a detector and
// panics.
func (arb *Arbiter) Resolve(settings *Settings) {
	res := arb.res
	assert(res.Collided, "Arbiter resolving a pair that did not collide")
	assert(res.Valid(arb.a, arb.b), "Collision normal points away from body2: ", arb.a.Name(), ", ", arb.b.Name())

	arb.separate()
	arb.correct(settings.Slop, settings.CorrectionPercent)
	arb.applyImpulse(settings.Restitution, settings.Friction)
}

func (arb *Arbiter) separate() {
	if arb.a.Movable() && !arb.res.Body1MTV.Equal(Vector{}) {
		arb.a.Translate(arb.res.Body1MTV)
	}
	if arb.b.Movable() && !arb.res.Body2MTV.Equal(Vector{}) {
		arb.b.Translate(arb.res.Body2MTV)
	}
}

// correct pushes the bodies further apart along the normal by a percentage of
// the penetration beyond slop, split by inverse mass.
func (arb *Arbiter) correct(slop, percent float64) {
	a := arb.a.core()
	b := arb.b.core()

	invMass := a.m_inv + b.m_inv
	if invMass == 0 {
		return
	}

	depth := math.Max(arb.res.Depth-slop, 0)
	if depth == 0 {
		return
	}
	correction := arb.res.Normal.Mult(depth / invMass * percent)

	if a.m_inv > 0 {
		arb.a.Translate(correction.Mult(-a.m_inv))
	}
	if b.m_inv > 0 {
		arb.b.Translate(correction.Mult(b.m_inv))
	}
}

func (arb *Arbiter) applyImpulse(restitution, friction float64) {
	a := arb.a.core()
	b := arb.b.core()
	n := arb.res.Normal

	contact := a.p.Lerp(b.p, 0.5)
	if arb.res.HasContact {
		contact = arb.res.Contact
	}
	r1 := contact.Sub(a.p)
	r2 := contact.Sub(b.p)

	vr := relative_velocity(a, b, r1, r2)
	vrn := vr.Dot(n)

	// already separating
	if vrn > 0 {
		return
	}

	k := k_scalar(a, b, r1, r2, n)
	if k == 0 {
		return
	}
	arb.jn = -(1 + restitution) * vrn / k
	apply_impulses(a, b, r1, r2, n.Mult(arb.jn))

	vr = relative_velocity(a, b, r1, r2)
	tangent := vr.Sub(n.Mult(vr.Dot(n)))
	if tangent.LengthSq() < Epsilon*Epsilon {
		return
	}
	arb.t = tangent.Normalize()

	kt := k_scalar(a, b, r1, r2, arb.t)
	if kt == 0 {
		return
	}
	jtMax := friction * arb.jn
	arb.jt = Clamp(-vr.Dot(arb.t)/kt, -jtMax, jtMax)
	apply_impulses(a, b, r1, r2, arb.t.Mult(arb.jt))
}
