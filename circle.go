package rigid

import (
	"math"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

type Circle struct {
	body
	r float64
}

func NewCircle(name string, mass float64, center Vector, radius float64, opts ...BodyOption) (*Circle, error) {
	if !(radius > 0) || math.IsInf(radius, 1) {
		return nil, errors.Wrapf(ErrInvalidRadius, "circle %q radius %v", name, radius)
	}
	o := newBodyOptions(opts)
	b, err := newBody(name, mass, center, o)
	if err != nil {
		return nil, err
	}
	circle := &Circle{body: b, r: radius}
	circle.setMoment(MomentForCircle(mass, radius))
	if o.static {
		circle.freeze()
	}
	return circle, nil
}

func MomentForCircle(m, r float64) float64 {
	return m * r * r / 2
}

func (*Circle) Kind() Kind {
	return KindCircle
}

func (circle *Circle) Radius() float64 {
	return circle.r
}

func (circle *Circle) Translate(d Vector) {
	circle.p = circle.p.Add(d)
}

func (circle *Circle) Rotate(angle float64) {
	circle.a = angle
}

func (circle *Circle) Move(c Vector) {
	circle.Translate(c.Sub(circle.p))
}

func (circle *Circle) BB() BB {
	return NewBBForCircle(circle.p, circle.r)
}

func (circle *Circle) Clone() Body {
	clone := *circle
	clone.id = uuid.New()
	return &clone
}

// SegmentQuery intersects the segment a-b with the circle, solving the ray
// equation |a + t(b-a) - center|^2 = r^2 for t. It returns the entry parameter
// clamped into [0, 1] and whether the segment touches the circle at all.
func (circle *Circle) SegmentQuery(a, b Vector) (float64, bool) {
	return CircleSegmentQuery(circle.p, circle.r, a, b)
}

func CircleSegmentQuery(center Vector, r float64, a, b Vector) (float64, bool) {
	da := a.Sub(center)
	db := b.Sub(center)

	qa := da.Dot(da) - 2*da.Dot(db) + db.Dot(db)
	qb := da.Dot(db) - da.Dot(da)
	qc := da.Dot(da) - r*r

	if qa == 0 {
		// degenerate segment, just a point
		return 0, qc <= 0
	}

	det := qb*qb - qa*qc
	if det < 0 {
		return 0, false
	}

	sqrtDet := math.Sqrt(det)
	t1 := (-qb - sqrtDet) / qa
	t2 := (-qb + sqrtDet) / qa

	// The segment touches the circle when the interval between the roots
	// overlaps [0, 1]. This includes segments entirely inside.
	if t2 < 0 || t1 > 1 {
		return 0, false
	}
	return Clamp01(t1), true
}
