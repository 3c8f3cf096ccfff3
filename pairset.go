package rigid

import (
	"bytes"

	"github.com/cespare/xxhash/v2"
)

type HashValue uint64

// Pair is an unordered candidate pair produced by the broad phase.
type Pair struct {
	A, B Body
}

func (p Pair) matches(a, b Body) bool {
	return (p.A == a && p.B == b) || (p.A == b && p.B == a)
}

// PairHash hashes the two body IDs independent of their order.
func PairHash(a, b Body) HashValue {
	var buf [32]byte
	idA := a.ID()
	idB := b.ID()
	if bytes.Compare(idA[:], idB[:]) > 0 {
		idA, idB = idB, idA
	}
	copy(buf[:16], idA[:])
	copy(buf[16:], idB[:])
	return HashValue(xxhash.Sum64(buf[:]))
}

type pairBin struct {
	pair Pair
	next *pairBin
}

// PairSet is a set of unordered body pairs. Pairs are chained in bins keyed by
// PairHash and remembered in insertion order.
type PairSet struct {
	entries int
	table   map[HashValue]*pairBin
	order   []Pair
}

func NewPairSet() *PairSet {
	return &PairSet{
		table: map[HashValue]*pairBin{},
	}
}

func (set *PairSet) Count() int {
	return set.entries
}

// Insert adds the pair and reports whether it was new.
func (set *PairSet) Insert(a, b Body) bool {
	hash := PairHash(a, b)

	bin := set.table[hash]
	for bin != nil && !bin.pair.matches(a, b) {
		bin = bin.next
	}
	if bin != nil {
		return false
	}

	pair := Pair{a, b}
	set.table[hash] = &pairBin{pair: pair, next: set.table[hash]}
	set.order = append(set.order, pair)
	set.entries++
	return true
}

func (set *PairSet) Contains(a, b Body) bool {
	bin := set.table[PairHash(a, b)]
	for bin != nil && !bin.pair.matches(a, b) {
		bin = bin.next
	}
	return bin != nil
}

// Remove deletes the pair and reports whether it was present.
func (set *PairSet) Remove(a, b Body) bool {
	hash := PairHash(a, b)
	var prev *pairBin
	bin := set.table[hash]

	for bin != nil && !bin.pair.matches(a, b) {
		prev = bin
		bin = bin.next
	}
	if bin == nil {
		return false
	}

	switch {
	case prev != nil:
		prev.next = bin.next
	case bin.next != nil:
		set.table[hash] = bin.next
	default:
		delete(set.table, hash)
	}

	for i, p := range set.order {
		if p.matches(a, b) {
			set.order = append(set.order[:i], set.order[i+1:]...)
			break
		}
	}
	set.entries--
	return true
}

// Pairs returns the pairs in the order they were first inserted. The slice is
// owned by the set and valid until the next mutation.
func (set *PairSet) Pairs() []Pair {
	return set.order
}

func (set *PairSet) Each(f func(p Pair)) {
	for _, p := range set.order {
		f(p)
	}
}

func (set *PairSet) Clear() {
	clear(set.table)
	clear(set.order)
	set.order = set.order[:0]
	set.entries = 0
}
