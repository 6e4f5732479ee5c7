package engine

import "sort"

// DeriveSeed returns the seed a depth receives the first time it is visited.
// Depth 1 uses the master seed; deeper levels use master+depth, wrapping at 2^32.
func DeriveSeed(master uint32, depth int) uint32 {
	if depth <= 1 {
		return master
	}
	return master + uint32(depth)
}

// Lineage maps depths to their frozen level seeds. Entries are allocated on
// first visit and never change or disappear afterwards.
type Lineage struct {
	master uint32
	seeds  map[int]uint32
}

// NewLineage starts a lineage holding only depth 1.
func NewLineage(master uint32) *Lineage {
	return &Lineage{
		master: master,
		seeds:  map[int]uint32{1: master},
	}
}

// RestoreLineage rebuilds a lineage from saved entries, taken verbatim.
func RestoreLineage(master uint32, seeds map[int]uint32) *Lineage {
	l := &Lineage{master: master, seeds: make(map[int]uint32, len(seeds))}
	for depth, seed := range seeds {
		l.seeds[depth] = seed
	}
	return l
}

// Master returns the master seed.
func (l *Lineage) Master() uint32 { return l.master }

// SeedFor returns the seed for depth, allocating and freezing it if the depth
// has not been visited yet.
func (l *Lineage) SeedFor(depth int) uint32 {
	if seed, ok := l.seeds[depth]; ok {
		return seed
	}
	seed := DeriveSeed(l.master, depth)
	l.seeds[depth] = seed
	return seed
}

// Lookup returns the seed for depth without allocating.
func (l *Lineage) Lookup(depth int) (uint32, bool) {
	seed, ok := l.seeds[depth]
	return seed, ok
}

// Seeds returns a copy of every allocated entry.
func (l *Lineage) Seeds() map[int]uint32 {
	out := make(map[int]uint32, len(l.seeds))
	for depth, seed := range l.seeds {
		out[depth] = seed
	}
	return out
}

// Depths returns the allocated depths in ascending order.
func (l *Lineage) Depths() []int {
	depths := make([]int, 0, len(l.seeds))
	for depth := range l.seeds {
		depths = append(depths, depth)
	}
	sort.Ints(depths)
	return depths
}

// Len returns the number of allocated depths.
func (l *Lineage) Len() int { return len(l.seeds) }
