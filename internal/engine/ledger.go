package engine

import (
	"sort"

	"github.com/zyedidia/generic/mapset"

	"github.com/samdwyer/dungeondepths/internal/entity"
	"github.com/samdwyer/dungeondepths/internal/world"
)

// Ledger records, per depth, the positions of enemies that have been killed.
// It only grows. Kill positions are kept in the order they were recorded.
type Ledger struct {
	kills map[int][]world.Point
}

// NewLedger returns an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{kills: make(map[int][]world.Point)}
}

// RestoreLedger rebuilds a ledger from saved entries. Duplicate positions
// within a depth are collapsed.
func RestoreLedger(kills map[int][]world.Point) *Ledger {
	l := NewLedger()
	for depth, points := range kills {
		for _, p := range points {
			l.RecordKill(depth, p)
		}
		if _, ok := l.kills[depth]; !ok {
			l.kills[depth] = []world.Point{}
		}
	}
	return l
}

// RecordKill adds p to depth's kill list. Recording the same position twice
// is a no-op.
func (l *Ledger) RecordKill(depth int, p world.Point) {
	for _, existing := range l.kills[depth] {
		if existing == p {
			return
		}
	}
	l.kills[depth] = append(l.kills[depth], p)
}

// Killed returns a copy of depth's kill list; nil when nothing was recorded.
func (l *Ledger) Killed(depth int) []world.Point {
	points, ok := l.kills[depth]
	if !ok {
		return nil
	}
	return append([]world.Point{}, points...)
}

// Depths returns every depth with an entry, ascending.
func (l *Ledger) Depths() []int {
	depths := make([]int, 0, len(l.kills))
	for depth := range l.kills {
		depths = append(depths, depth)
	}
	sort.Ints(depths)
	return depths
}

// Apply returns the enemies of a freshly generated roster for depth that
// survive the recorded kills. The input slice is not modified.
func (l *Ledger) Apply(depth int, enemies []*entity.Enemy) []*entity.Enemy {
	dead := mapset.New[world.Point]()
	for _, p := range l.kills[depth] {
		dead.Put(p)
	}

	survivors := make([]*entity.Enemy, 0, len(enemies))
	for _, e := range enemies {
		if dead.Has(world.Point{X: e.X, Y: e.Y}) {
			continue
		}
		survivors = append(survivors, e)
	}
	return survivors
}
