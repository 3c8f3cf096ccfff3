package rigid

// SpatialIndex is the broad phase. Build indexes the bodies as they are right
// now; Pairs then lists the candidate pairs worth a narrow phase test.
// Implemented by QuadTree and BruteForce.
type SpatialIndex interface {
	Build(bodies []Body)
	Pairs() []Pair
	// Count is the number of bodies indexed by the last Build.
	Count() int
}

// BruteForce pairs every two bodies whose bounding boxes overlap. It has none
// of the quadtree's blind spots and is meant for small worlds and for checking
// the quadtree.
type BruteForce struct {
	count int
	pairs *PairSet
}

func NewBruteForce() *BruteForce {
	return &BruteForce{pairs: NewPairSet()}
}

func (index *BruteForce) Build(bodies []Body) {
	index.pairs.Clear()
	index.count = len(bodies)

	for i := 0; i < len(bodies); i++ {
		bbA := bodies[i].BB()
		for j := i + 1; j < len(bodies); j++ {
			if bbA.Intersects(bodies[j].BB()) {
				index.pairs.Insert(bodies[i], bodies[j])
			}
		}
	}
}

func (index *BruteForce) Pairs() []Pair {
	return index.pairs.Pairs()
}

func (index *BruteForce) Count() int {
	return index.count
}
