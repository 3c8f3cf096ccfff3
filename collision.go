package rigid

import (
	"fmt"
	"math"
)

// CollisionResult is the outcome of a narrow phase test between body1 and
// body2. Detectors return it by value and never mutate their inputs.
type CollisionResult struct {
	Collided bool

	// MTV is the minimum translation vector that separates body1 from body2.
	// It points from body2 toward body1 and has length Depth.
	MTV Vector
	// Body1MTV and Body2MTV are the parts of the separation each body takes.
	// Body1MTV runs along MTV, Body2MTV against it. Shares follow speed; when
	// neither body moves the movable ones split evenly.
	Body1MTV, Body2MTV Vector

	// Normal is the unit contact normal, pointing from body1 toward body2.
	Normal Vector
	Depth  float64

	Contact    Vector
	HasContact bool
}

// velocityShares splits a separation between two bodies in proportion to
// their speeds. Immovable bodies never take a share. When nothing moves the
// movable bodies split evenly.
func velocityShares(a, b Body) (float64, float64) {
	var va, vb float64
	if a.Movable() {
		va = a.Velocity().Length()
	}
	if b.Movable() {
		vb = b.Velocity().Length()
	}

	if sum := va + vb; sum > 0 {
		return va / sum, vb / sum
	}

	switch {
	case a.Movable() && b.Movable():
		return 0.5, 0.5
	case a.Movable():
		return 1, 0
	case b.Movable():
		return 0, 1
	}
	return 0, 0
}

func newCollisionResult(a, b Body, normal Vector, depth float64) CollisionResult {
	mtv := normal.Mult(-depth)
	s1, s2 := velocityShares(a, b)
	return CollisionResult{
		Collided: true,
		MTV:      mtv,
		Body1MTV: mtv.Mult(s1),
		Body2MTV: mtv.Mult(-s2),
		Normal:   normal,
		Depth:    depth,
	}
}

// Swap returns the same collision seen with body1 and body2 exchanged.
func (res CollisionResult) Swap() CollisionResult {
	if !res.Collided {
		return res
	}
	return CollisionResult{
		Collided:   true,
		MTV:        res.MTV.Neg(),
		Body1MTV:   res.Body2MTV,
		Body2MTV:   res.Body1MTV,
		Normal:     res.Normal.Neg(),
		Depth:      res.Depth,
		Contact:    res.Contact,
		HasContact: res.HasContact,
	}
}

// Valid reports whether the result obeys the direction invariant for the
// given pair: the normal points from body1 toward body2 and the MTV away.
func (res CollisionResult) Valid(a, b Body) bool {
	if !res.Collided {
		return true
	}
	delta := b.Center().Sub(a.Center())
	return res.Normal.Dot(delta) >= 0 && res.MTV.Dot(delta) <= 0
}

// Collide runs the detector matching the pair's variants.
func Collide(a, b Body) CollisionResult {
	switch a := a.(type) {
	case *Circle:
		switch b := b.(type) {
		case *Circle:
			return CircleCircle(a, b)
		case *Polygon:
			return CirclePolygon(a, b)
		}
	case *Polygon:
		switch b := b.(type) {
		case *Circle:
			return PolygonCircle(a, b)
		case *Polygon:
			return PolygonPolygon(a, b)
		}
	}
	panic(fmt.Sprintf("rigid: no detector for %T and %T", a, b))
}

// BoxBox tests the bounding boxes only. Boxes that touch count as
// overlapping. The MTV runs along the axis of least overlap.
func BoxBox(a, b Body) CollisionResult {
	bbA := a.BB()
	bbB := b.BB()
	if !bbA.Intersects(bbB) {
		return CollisionResult{}
	}

	ox, oy := bbA.Overlap(bbB)
	delta := b.Center().Sub(a.Center())

	var normal Vector
	var depth float64
	if ox < oy {
		normal = Vector{sign(delta.X), 0}
		depth = ox
	} else {
		normal = Vector{0, sign(delta.Y)}
		depth = oy
	}
	return newCollisionResult(a, b, normal, depth)
}

func sign(f float64) float64 {
	if f < 0 {
		return -1
	}
	return 1
}

// CircleCircle collides when the center distance is strictly less than the
// sum of the radii. Circles that only touch do not collide.
func CircleCircle(a, b *Circle) CollisionResult {
	delta := b.p.Sub(a.p)
	d := delta.Length()
	r := a.r + b.r
	if !(d < r) {
		return CollisionResult{}
	}

	// Concentric circles have no preferred axis.
	n := Vector{0, 1}
	if d > 0 {
		n = delta.Mult(1 / d)
	}

	res := newCollisionResult(a, b, n, r-d)
	res.Contact = a.p.Add(n.Mult(a.r))
	res.HasContact = true
	return res
}

// CirclePolygon tests every polygon edge facing the circle with the ray/circle
// quadratic. For each crossed edge the circle center is projected onto the
// edge to find the penetration along the edge normal; the shallowest positive
// one wins. A circle swallowed whole by the polygon collides on its shallowest
// facing edge. Facing is judged against the polygon's center (its pivot), the
// point the direction invariant is checked against.
func CirclePolygon(circle *Circle, poly *Polygon) CollisionResult {
	count := len(poly.verts)
	toCircle := circle.p.Sub(poly.p)

	best := -1
	bestDepth := math.Inf(1)

	for i := 0; i < count; i++ {
		n := poly.normals[i]
		if n.Dot(toCircle) < 0 {
			continue
		}

		a := poly.verts[i]
		b := poly.verts[(i+1)%count]
		if _, hit := CircleSegmentQuery(circle.p, circle.r, a, b); !hit {
			continue
		}

		dir := b.Sub(a).Normalize()
		closest := a.Add(dir.Mult(circle.p.Sub(a).Dot(dir)))
		depth := circle.r - circle.p.Sub(closest).Dot(n)
		if depth > 0 && depth < bestDepth {
			best = i
			bestDepth = depth
		}
	}

	if best < 0 {
		if !poly.ContainsPoint(circle.p) {
			return CollisionResult{}
		}
		for i := 0; i < count; i++ {
			n := poly.normals[i]
			if n.Dot(toCircle) < 0 {
				continue
			}
			depth := circle.r - circle.p.Sub(poly.verts[i]).Dot(n)
			if depth < bestDepth {
				best = i
				bestDepth = depth
			}
		}
		if best < 0 {
			return CollisionResult{}
		}
	}

	normal := poly.normals[best].Neg()
	res := newCollisionResult(circle, poly, normal, bestDepth)
	res.Contact = circle.p.Add(normal.Mult(circle.r))
	res.HasContact = true
	return res
}

func PolygonCircle(poly *Polygon, circle *Circle) CollisionResult {
	return CirclePolygon(circle, poly).Swap()
}

// PolygonPolygon applies the separating axis theorem. Both polygons are
// projected onto every outward edge normal of a, then of b. Any axis without
// overlap proves the polygons disjoint. Otherwise the MTV follows the axis of
// least overlap; between the best axis of a and the best axis of b the one
// with the smaller MTV wins, a on a tie.
func PolygonPolygon(a, b *Polygon) CollisionResult {
	axisA, depthA, ok := leastPenetration(a.normals, a, b)
	if !ok {
		return CollisionResult{}
	}
	axisB, depthB, ok := leastPenetration(b.normals, a, b)
	if !ok {
		return CollisionResult{}
	}

	axis, depth := axisA, depthA
	if depthB < depthA {
		axis, depth = axisB, depthB
	}
	if axis.Dot(b.p.Sub(a.p)) < 0 {
		axis = axis.Neg()
	}

	res := newCollisionResult(a, b, axis, depth)

	// Cast a ray from the moving polygon's center toward the other body and
	// take the vertex reaching furthest along it, shifted by that polygon's
	// share of the separation.
	if res.Body1MTV.LengthSq() >= res.Body2MTV.LengthSq() {
		res.Contact = supportVertex(a, axis).Add(res.Body1MTV)
	} else {
		res.Contact = supportVertex(b, axis.Neg()).Add(res.Body2MTV)
	}
	res.HasContact = true
	return res
}

func leastPenetration(axes []Vector, a, b *Polygon) (Vector, float64, bool) {
	var best Vector
	bestDepth := math.Inf(1)

	for _, axis := range axes {
		minA, maxA := a.Project(axis)
		minB, maxB := b.Project(axis)

		overlap := math.Min(maxA, maxB) - math.Max(minA, minB)
		if overlap <= 0 {
			return Vector{}, 0, false
		}
		if overlap < bestDepth {
			best = axis
			bestDepth = overlap
		}
	}
	return best, bestDepth, true
}

// supportVertex returns the vertex with the largest projection onto the ray
// from the polygon's center along dir.
func supportVertex(poly *Polygon, dir Vector) Vector {
	best := poly.verts[0]
	reach := math.Inf(-1)
	for _, v := range poly.verts {
		if d := v.Sub(poly.p).Dot(dir); d > reach {
			reach = d
			best = v
		}
	}
	return best
}
