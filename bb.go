package rigid

import "math"

// BB is an axis aligned bounding box.
type BB struct {
	L, B, R, T float64
}

func NewBBForExtents(c Vector, hw, hh float64) BB {
	return BB{
		L: c.X - hw,
		B: c.Y - hh,
		R: c.X + hw,
		T: c.Y + hh,
	}
}

func NewBBForCircle(p Vector, r float64) BB {
	return NewBBForExtents(p, r, r)
}

// NewBBForPoints returns the smallest box holding every point.
func NewBBForPoints(points []Vector) BB {
	bb := BB{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
	for _, p := range points {
		bb = bb.Expand(p)
	}
	return bb
}

// Intersects reports whether the boxes overlap. Boxes overlap unless one is
// strictly outside the other along an axis, so touching edges count.
func (a BB) Intersects(b BB) bool {
	return a.L <= b.R && b.L <= a.R && a.B <= b.T && b.B <= a.T
}

func (bb BB) Contains(other BB) bool {
	return bb.L <= other.L && bb.R >= other.R && bb.B <= other.B && bb.T >= other.T
}

func (bb BB) ContainsVect(v Vector) bool {
	return bb.L <= v.X && bb.R >= v.X && bb.B <= v.Y && bb.T >= v.Y
}

func (a BB) Merge(b BB) BB {
	return BB{
		math.Min(a.L, b.L),
		math.Min(a.B, b.B),
		math.Max(a.R, b.R),
		math.Max(a.T, b.T),
	}
}

func (bb BB) Expand(v Vector) BB {
	return BB{
		math.Min(bb.L, v.X),
		math.Min(bb.B, v.Y),
		math.Max(bb.R, v.X),
		math.Max(bb.T, v.Y),
	}
}

func (bb BB) Center() Vector {
	return Vector{bb.L, bb.B}.Lerp(Vector{bb.R, bb.T}, 0.5)
}

func (bb BB) Width() float64 {
	return bb.R - bb.L
}

func (bb BB) Height() float64 {
	return bb.T - bb.B
}

func (bb BB) Area() float64 {
	return (bb.R - bb.L) * (bb.T - bb.B)
}

func (bb BB) Offset(v Vector) BB {
	return BB{
		bb.L + v.X,
		bb.B + v.Y,
		bb.R + v.X,
		bb.T + v.Y,
	}
}

// Quadrants splits the box at its center into top-left, top-right,
// bottom-left and bottom-right (y grows upward).
func (bb BB) Quadrants() [4]BB {
	c := bb.Center()
	return [4]BB{
		{bb.L, c.Y, c.X, bb.T},
		{c.X, c.Y, bb.R, bb.T},
		{bb.L, bb.B, c.X, c.Y},
		{c.X, bb.B, bb.R, c.Y},
	}
}

// Overlap returns how far the boxes overlap along x and y. A negative value
// means the boxes are separated along that axis.
func (a BB) Overlap(b BB) (x, y float64) {
	x = math.Min(a.R, b.R) - math.Max(a.L, b.L)
	y = math.Min(a.T, b.T) - math.Max(a.B, b.B)
	return x, y
}
