package rigid

import (
	"math"

	"github.com/pkg/errors"
)

// Constraint links two bodies of a World and produces forces or positional
// corrections once per step, before integration. Implemented by *Spring and
// *String.
type Constraint interface {
	Bodies() (Body, Body)
	Length() float64
	// Attached reports whether body is one of the two ends.
	Attached(body Body) bool
	AddTensionForce()

	base() *constraint
}

type constraint struct {
	a, b   Body
	length float64
}

func newConstraint(a, b Body, length float64) (constraint, error) {
	if a == nil || b == nil {
		return constraint{}, ErrNilBody
	}
	if a == b {
		return constraint{}, errors.Wrapf(ErrSameBody, "body %q", a.Name())
	}
	if length < 0 || math.IsNaN(length) || math.IsInf(length, 0) {
		return constraint{}, errors.Wrapf(ErrInvalidLength, "length %v between %q and %q", length, a.Name(), b.Name())
	}
	return constraint{a: a, b: b, length: length}, nil
}

func (c *constraint) base() *constraint {
	return c
}

func (c *constraint) Bodies() (Body, Body) {
	return c.a, c.b
}

func (c *constraint) Length() float64 {
	return c.length
}

func (c *constraint) Attached(body Body) bool {
	return c.a == body || c.b == body
}

// Separation is the live distance between the two centers.
func (c *constraint) Separation() float64 {
	return c.a.Center().Distance(c.b.Center())
}

func (c *constraint) midpoint() Vector {
	return c.a.Center().Lerp(c.b.Center(), 0.5)
}
