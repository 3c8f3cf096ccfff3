package rigid

// SpringUnitScale converts a spring's displacement (in world units) into the
// distance the k value is expressed against.
const SpringUnitScale = 0.01

// Settings holds the tunable constants of a World's step.
type Settings struct {
	// Gravity is an acceleration; every movable body receives mass*Gravity each step.
	Gravity Vector

	// Restitution is the fraction of normal relative velocity kept after an impulse.
	Restitution float64
	// Friction is the Coulomb coefficient bounding the tangent impulse.
	Friction float64

	// Slop is the penetration allowed before positional correction kicks in.
	Slop float64
	// CorrectionPercent is the share of the remaining penetration removed per step.
	CorrectionPercent float64

	// MaxDepth bounds the quadtree.
	MaxDepth int
}

func DefaultSettings() Settings {
	return Settings{
		Gravity:           Vector{0, -9.81},
		Restitution:       0.5,
		Friction:          0.3,
		Slop:              0.01,
		CorrectionPercent: 0.2,
		MaxDepth:          8,
	}
}
