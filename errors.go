package rigid

import "github.com/pkg/errors"

// Construction errors. Constructors wrap these with context, test with errors.Is.
var (
	ErrInvalidName        = errors.New("body name must not be empty")
	ErrInvalidMass        = errors.New("mass must be positive")
	ErrInvalidRadius      = errors.New("radius must be positive")
	ErrTooFewVertices     = errors.New("polygon needs at least 3 vertices")
	ErrDegeneratePolygon  = errors.New("polygon has zero area")
	ErrInvalidLength      = errors.New("constraint length must not be negative")
	ErrInvalidStiffness   = errors.New("spring k value must not be negative")
	ErrSameBody           = errors.New("constraint must attach two different bodies")
	ErrNilBody            = errors.New("body is nil")
	ErrNilConstraint      = errors.New("constraint is nil")
	ErrDuplicateBody      = errors.New("body name already in world")
	ErrBodyNotFound       = errors.New("body not found")
	ErrConstraintNotFound = errors.New("constraint not found")
)
