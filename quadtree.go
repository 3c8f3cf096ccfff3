package rigid

// QuadTree is the default broad phase. It is rebuilt from scratch by every
// Build. Each node splits at the center of the combined bounding box of its
// bodies into top-left, top-right, bottom-left and bottom-right children, and a
// body overlapping several quadrants goes into each of them. Splitting stops at
// the maximum depth, below two bodies, or when no quadrant would hold fewer
// bodies than its parent.
//
// Candidate pairs only come from bodies sharing a leaf. Two bodies whose boxes
// overlap but that never end up in the same leaf are not reported.
type QuadTree struct {
	maxDepth int

	// nodes is an arena reused across builds; used is the live prefix.
	nodes []quadNode
	used  int

	count int
	pairs *PairSet
}

type quadNode struct {
	bb     BB
	depth  int
	leaf   bool
	bodies []Body

	// indexes into the arena, TL TR BL BR
	children [4]int
}

func NewQuadTree(maxDepth int) *QuadTree {
	if maxDepth < 0 {
		maxDepth = 0
	}
	return &QuadTree{
		maxDepth: maxDepth,
		pairs:    NewPairSet(),
	}
}

func (tree *QuadTree) MaxDepth() int {
	return tree.maxDepth
}

func (tree *QuadTree) Count() int {
	return tree.count
}

// Nodes is the number of nodes built by the last Build.
func (tree *QuadTree) Nodes() int {
	return tree.used
}

func (tree *QuadTree) Pairs() []Pair {
	return tree.pairs.Pairs()
}

// EachLeaf calls f with the bounds and bodies of every leaf.
func (tree *QuadTree) EachLeaf(f func(bb BB, depth int, bodies []Body)) {
	for i := 0; i < tree.used; i++ {
		node := &tree.nodes[i]
		if node.leaf {
			f(node.bb, node.depth, node.bodies)
		}
	}
}

func (tree *QuadTree) Build(bodies []Body) {
	tree.used = 0
	tree.count = len(bodies)
	tree.pairs.Clear()

	if len(bodies) == 0 {
		return
	}

	root := tree.alloc(0)
	node := &tree.nodes[root]
	node.bodies = append(node.bodies, bodies...)
	node.bb = combinedBB(node.bodies)

	tree.split(root)
	tree.collectPairs(root)
}

func (tree *QuadTree) alloc(depth int) int {
	if tree.used == len(tree.nodes) {
		tree.nodes = append(tree.nodes, quadNode{})
	}
	i := tree.used
	tree.used++

	node := &tree.nodes[i]
	clear(node.bodies)
	node.bodies = node.bodies[:0]
	node.bb = BB{}
	node.depth = depth
	node.leaf = true
	return i
}

func combinedBB(bodies []Body) BB {
	if len(bodies) == 0 {
		return BB{}
	}
	bb := bodies[0].BB()
	for _, body := range bodies[1:] {
		bb = bb.Merge(body.BB())
	}
	return bb
}

func (tree *QuadTree) split(i int) {
	node := &tree.nodes[i]
	n := len(node.bodies)
	if node.depth >= tree.maxDepth || n < 2 {
		return
	}

	quads := node.bb.Quadrants()
	var counts [4]int
	for _, body := range node.bodies {
		bb := body.BB()
		for q := range quads {
			if bb.Intersects(quads[q]) {
				counts[q]++
			}
		}
	}

	reduces := false
	for _, c := range counts {
		if c < n {
			reduces = true
		}
	}
	if !reduces {
		return
	}

	depth := node.depth + 1
	var children [4]int
	for q := range children {
		// alloc may grow the arena, so node pointers are refreshed below
		children[q] = tree.alloc(depth)
	}

	node = &tree.nodes[i]
	node.leaf = false
	node.children = children

	for q, c := range children {
		child := &tree.nodes[c]
		for _, body := range tree.nodes[i].bodies {
			if body.BB().Intersects(quads[q]) {
				child.bodies = append(child.bodies, body)
			}
		}
		child.bb = combinedBB(child.bodies)
	}

	for _, c := range children {
		tree.split(c)
	}
}

// collectPairs walks the tree depth first so pairs come out in a stable order.
func (tree *QuadTree) collectPairs(i int) {
	node := &tree.nodes[i]
	if !node.leaf {
		for _, c := range node.children {
			tree.collectPairs(c)
		}
		return
	}

	bodies := node.bodies
	for a := 0; a < len(bodies); a++ {
		for b := a + 1; b < len(bodies); b++ {
			tree.pairs.Insert(bodies[a], bodies[b])
		}
	}
}
