package rigid

import (
	"math"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// Polygon is a convex polygon body. Vertices are kept in world coordinates and
// re-derived from the center, angle and the local offsets on every mutation,
// together with the edge normals and bounding box.
type Polygon struct {
	body

	// offsets from the center at angle zero
	local []Vector
	// world space vertices and outward edge normals; normal i belongs to the
	// edge from verts[i] to verts[i+1]
	verts   []Vector
	normals []Vector

	ccw bool
	bb  BB
}

// NewPolygon creates a polygon from vertices in world coordinates. The
// vertices must describe a convex polygon in either winding order. The center
// is the area centroid unless WithPivot is given.
func NewPolygon(name string, mass float64, verts []Vector, opts ...BodyOption) (*Polygon, error) {
	if len(verts) < 3 {
		return nil, errors.Wrapf(ErrTooFewVertices, "polygon %q has %d", name, len(verts))
	}
	area := SignedAreaForPoly(verts)
	if area == 0 || math.IsNaN(area) {
		return nil, errors.Wrapf(ErrDegeneratePolygon, "polygon %q", name)
	}

	o := newBodyOptions(opts)
	centroid := CentroidForPoly(verts)
	center := centroid
	if o.pivot != nil {
		center = *o.pivot
	}

	b, err := newBody(name, mass, center, o)
	if err != nil {
		return nil, err
	}

	poly := &Polygon{
		body:    b,
		local:   make([]Vector, len(verts)),
		verts:   make([]Vector, len(verts)),
		normals: make([]Vector, len(verts)),
		ccw:     area > 0,
	}

	toLocal := NewTransformRigidInverse(NewTransformRigid(center, o.angle))
	for i, v := range verts {
		poly.local[i] = toLocal.Point(v)
	}

	moment := MomentForPoly(mass, verts, centroid.Neg()) + mass*centroid.DistanceSq(center)
	poly.setMoment(moment)
	if o.static {
		poly.freeze()
	}
	poly.update()
	return poly, nil
}

// NewBox creates an axis aligned w by h rectangle around center.
func NewBox(name string, mass float64, center Vector, w, h float64, opts ...BodyOption) (*Polygon, error) {
	hw := w / 2.0
	hh := h / 2.0
	bb := NewBBForExtents(center, hw, hh)
	verts := []Vector{
		{bb.R, bb.B},
		{bb.R, bb.T},
		{bb.L, bb.T},
		{bb.L, bb.B},
	}
	return NewPolygon(name, mass, verts, opts...)
}

func (*Polygon) Kind() Kind {
	return KindPolygon
}

// update re-derives world vertices, normals and the bounding box.
func (poly *Polygon) update() {
	transform := NewTransformRigid(poly.p, poly.a)
	for i, v := range poly.local {
		poly.verts[i] = transform.Point(v)
	}

	count := len(poly.verts)
	for i := 0; i < count; i++ {
		a := poly.verts[i]
		b := poly.verts[(i+1)%count]
		if poly.ccw {
			poly.normals[i] = b.Sub(a).ReversePerp().Normalize()
		} else {
			poly.normals[i] = b.Sub(a).Perp().Normalize()
		}
	}

	poly.bb = NewBBForPoints(poly.verts)
}

func (poly *Polygon) Translate(d Vector) {
	poly.p = poly.p.Add(d)
	poly.update()
}

func (poly *Polygon) Rotate(angle float64) {
	poly.a = angle
	poly.update()
}

func (poly *Polygon) Move(c Vector) {
	poly.Translate(c.Sub(poly.p))
}

func (poly *Polygon) BB() BB {
	return poly.bb
}

func (poly *Polygon) Count() int {
	return len(poly.verts)
}

// Vertex returns the world position of vertex i.
func (poly *Polygon) Vertex(i int) Vector {
	return poly.verts[i]
}

// Vertices returns a copy of the world space vertices.
func (poly *Polygon) Vertices() []Vector {
	out := make([]Vector, len(poly.verts))
	copy(out, poly.verts)
	return out
}

// Normal returns the outward unit normal of the edge starting at vertex i.
func (poly *Polygon) Normal(i int) Vector {
	return poly.normals[i]
}

func (poly *Polygon) Clone() Body {
	clone := *poly
	clone.id = uuid.New()
	clone.local = append([]Vector(nil), poly.local...)
	clone.verts = append([]Vector(nil), poly.verts...)
	clone.normals = append([]Vector(nil), poly.normals...)
	return &clone
}

// Project returns the interval covered by the polygon on axis.
func (poly *Polygon) Project(axis Vector) (min, max float64) {
	min = math.Inf(1)
	max = math.Inf(-1)
	for _, v := range poly.verts {
		d := v.Dot(axis)
		min = math.Min(min, d)
		max = math.Max(max, d)
	}
	return min, max
}

// ContainsPoint reports whether p is inside or on the polygon.
func (poly *Polygon) ContainsPoint(p Vector) bool {
	for i, n := range poly.normals {
		if p.Sub(poly.verts[i]).Dot(n) > 0 {
			return false
		}
	}
	return true
}

// SignedAreaForPoly is positive for counter-clockwise winding.
func SignedAreaForPoly(verts []Vector) float64 {
	var area float64
	count := len(verts)
	for i := 0; i < count; i++ {
		area += verts[i].Cross(verts[(i+1)%count])
	}
	return area / 2
}

func AreaForPoly(verts []Vector) float64 {
	return math.Abs(SignedAreaForPoly(verts))
}

func CentroidForPoly(verts []Vector) Vector {
	var sum float64
	var vsum Vector
	count := len(verts)

	for i := 0; i < count; i++ {
		v1 := verts[i]
		v2 := verts[(i+1)%count]
		cross := v1.Cross(v2)

		sum += cross
		vsum = vsum.Add(v1.Add(v2).Mult(cross))
	}

	return vsum.Mult(1.0 / (3.0 * sum))
}

// MomentForPoly is the moment of inertia of a solid polygon, with the vertices
// shifted by offset first. Pass the negated centroid to get the moment around
// the center of mass.
func MomentForPoly(m float64, verts []Vector, offset Vector) float64 {
	var sum1, sum2 float64
	count := len(verts)
	for i := 0; i < count; i++ {
		v1 := verts[i].Add(offset)
		v2 := verts[(i+1)%count].Add(offset)

		a := v2.Cross(v1)
		b := v1.Dot(v1) + v1.Dot(v2) + v2.Dot(v2)

		sum1 += a * b
		sum2 += a
	}

	return (m * sum1) / (6.0 * sum2)
}
