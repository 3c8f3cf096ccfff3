package rigid

import (
	"github.com/pkg/errors"
)

// String is a one sided inextensible link. Its length is the largest
// separation allowed between the two centers. While the bodies are within
// that distance the string is slack and does nothing.
type String struct {
	constraint
}

func NewString(a, b Body, length float64) (*String, error) {
	c, err := newConstraint(a, b, length)
	if err != nil {
		return nil, err
	}
	if length == 0 {
		return nil, errors.Wrapf(ErrInvalidLength, "string between %q and %q has zero length", a.Name(), b.Name())
	}
	return &String{constraint: c}, nil
}

// NewTautString attaches a string whose length is the current separation.
func NewTautString(a, b Body) (*String, error) {
	if a == nil || b == nil {
		return nil, ErrNilBody
	}
	return NewString(a, b, a.Center().Distance(b.Center()))
}

func (str *String) Taut() bool {
	return str.Separation() > str.length
}

// Anchor returns the point the string swings around and the radius each
// movable end is kept within. With one immovable end the string hangs from
// that body's center at full length. Otherwise both ends share the midpoint,
// each at half the length.
func (str *String) Anchor() (Vector, float64) {
	a, b := str.a, str.b
	switch {
	case !a.Movable() && b.Movable():
		return a.Center(), str.length
	case a.Movable() && !b.Movable():
		return b.Center(), str.length
	}
	return str.midpoint(), str.length / 2
}

// AddTensionForce pulls taut ends back. Each movable end has its net force
// replaced by the centripetal force m*v^2/length toward the anchor, is moved
// back onto the circle around the anchor, and loses any velocity carrying it
// further out.
func (str *String) AddTensionForce() {
	if !str.a.Movable() && !str.b.Movable() {
		return
	}
	if !str.Taut() {
		return
	}

	anchor, radius := str.Anchor()
	for _, body := range [2]Body{str.a, str.b} {
		if !body.Movable() {
			continue
		}

		out := body.Center().Sub(anchor).Normalize()
		if out.Equal(Vector{}) {
			continue
		}

		v := body.Velocity()
		body.SetForce(out.Neg().Mult(body.Mass() * v.LengthSq() / str.length))
		body.Move(anchor.Add(out.Mult(radius)))

		if vo := v.Dot(out); vo > 0 {
			body.SetVelocity(v.Sub(out.Mult(vo)))
		}
	}
}
