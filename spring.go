package rigid

import (
	"math"

	"github.com/pkg/errors"
)

// Spring pulls both bodies toward the midpoint between them with a Hooke's law
// force of k * SpringUnitScale * displacement. The length is kept for
// serialization; the force only depends on the live displacement.
type Spring struct {
	constraint
	k float64
}

func NewSpring(a, b Body, length, k float64) (*Spring, error) {
	c, err := newConstraint(a, b, length)
	if err != nil {
		return nil, err
	}
	if k < 0 || math.IsNaN(k) || math.IsInf(k, 0) {
		return nil, errors.Wrapf(ErrInvalidStiffness, "k %v between %q and %q", k, a.Name(), b.Name())
	}
	return &Spring{constraint: c, k: k}, nil
}

func (spring *Spring) KValue() float64 {
	return spring.k
}

func (spring *Spring) SetKValue(k float64) {
	assert(k >= 0, "Must be positive")
	spring.k = k
}

// Equilibrium is the point both bodies are pulled toward.
func (spring *Spring) Equilibrium() Vector {
	return spring.midpoint()
}

// AddTensionForce adds the spring force to the net force of each movable end.
func (spring *Spring) AddTensionForce() {
	eq := spring.Equilibrium()
	coef := spring.k * SpringUnitScale

	for _, body := range [2]Body{spring.a, spring.b} {
		if !body.Movable() {
			continue
		}
		body.ApplyForce(eq.Sub(body.Center()).Mult(coef))
	}
}
