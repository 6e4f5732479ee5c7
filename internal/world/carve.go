package world

// CarveRoom sets the room's interior to floor. The rectangle's edge is left as wall.
// Callers pass in-bounds rooms; anything else panics.
func CarveRoom(g *Grid, room Room) {
	for y := room.Y1 + 1; y < room.Y2; y++ {
		for x := room.X1 + 1; x < room.X2; x++ {
			g.Tiles[y][x] = TileFloor
		}
	}
}

// CarveHorizontalTunnel carves floor along row y from x1 to x2 inclusive.
func CarveHorizontalTunnel(g *Grid, x1, x2, y int) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	for x := x1; x <= x2; x++ {
		g.Tiles[y][x] = TileFloor
	}
}

// CarveVerticalTunnel carves floor along column x from y1 to y2 inclusive.
func CarveVerticalTunnel(g *Grid, y1, y2, x int) {
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for y := y1; y <= y2; y++ {
		g.Tiles[y][x] = TileFloor
	}
}

// CarveCorridor joins two points with an L-shaped tunnel. When horizontalFirst
// is set the corridor runs along from's row before turning, otherwise it
// runs along from's column first.
func CarveCorridor(g *Grid, from, to Point, horizontalFirst bool) {
	if horizontalFirst {
		CarveHorizontalTunnel(g, from.X, to.X, from.Y)
		CarveVerticalTunnel(g, from.Y, to.Y, to.X)
	} else {
		CarveVerticalTunnel(g, from.Y, to.Y, from.X)
		CarveHorizontalTunnel(g, from.X, to.X, to.Y)
	}
}
