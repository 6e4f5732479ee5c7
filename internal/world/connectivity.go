package world

import "github.com/zyedidia/generic/mapset"

// AllRoomsConnected reports whether every room center is reachable from the
// first room's center through passable tiles, moving in 4 directions.
// An empty room list is trivially connected.
func AllRoomsConnected(g *Grid, rooms []Room) bool {
	if len(rooms) == 0 {
		return true
	}

	reached := Reachable(g, rooms[0].CenterPoint())
	for _, room := range rooms {
		if !reached.Has(room.CenterPoint()) {
			return false
		}
	}
	return true
}

// Reachable flood-fills from start and returns every passable tile visited.
// A start tile that is not passable yields an empty set.
func Reachable(g *Grid, start Point) mapset.Set[Point] {
	visited := mapset.New[Point]()
	if !g.IsPassable(start.X, start.Y) {
		return visited
	}

	visited.Put(start)
	queue := []Point{start}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, next := range current.Adjacent() {
			if visited.Has(next) || !g.IsPassable(next.X, next.Y) {
				continue
			}
			visited.Put(next)
			queue = append(queue, next)
		}
	}
	return visited
}
