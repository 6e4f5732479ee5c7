package world

// Grid is a fixed-size map of tiles, indexed Tiles[y][x].
type Grid struct {
	Width  int
	Height int
	Tiles  [][]Tile
}

// NewGrid creates a grid filled with walls.
func NewGrid(width, height int) *Grid {
	tiles := make([][]Tile, height)
	for y := range tiles {
		tiles[y] = make([]Tile, width)
		for x := range tiles[y] {
			tiles[y][x] = TileWall
		}
	}

	return &Grid{
		Width:  width,
		Height: height,
		Tiles:  tiles,
	}
}

// InBounds reports whether (x, y) lies on the grid.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

// IsPassable returns true if the given position can be walked on.
func (g *Grid) IsPassable(x, y int) bool {
	if !g.InBounds(x, y) {
		return false
	}
	return g.Tiles[y][x].IsPassable()
}

// GetTile returns the tile at the given position. Off-grid positions read as wall.
func (g *Grid) GetTile(x, y int) Tile {
	if !g.InBounds(x, y) {
		return TileWall
	}
	return g.Tiles[y][x]
}

// SetTile sets the tile at the given position. Out of bounds panics.
func (g *Grid) SetTile(x, y int, t Tile) {
	g.Tiles[y][x] = t
}

// CountTiles returns how many tiles of the given kind are on the grid.
func (g *Grid) CountTiles(kind Tile) int {
	n := 0
	for y := range g.Tiles {
		for _, t := range g.Tiles[y] {
			if t == kind {
				n++
			}
		}
	}
	return n
}

// FindStairs returns the position of the first STAIRS_DOWN tile.
func (g *Grid) FindStairs() (Point, bool) {
	for y := range g.Tiles {
		for x, t := range g.Tiles[y] {
			if t == TileStairsDown {
				return Point{x, y}, true
			}
		}
	}
	return Point{}, false
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	tiles := make([][]Tile, len(g.Tiles))
	for y := range g.Tiles {
		tiles[y] = append([]Tile(nil), g.Tiles[y]...)
	}
	return &Grid{Width: g.Width, Height: g.Height, Tiles: tiles}
}

// Equal reports whether two grids have the same size and tiles.
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.Width != other.Width || g.Height != other.Height {
		return false
	}
	for y := range g.Tiles {
		for x := range g.Tiles[y] {
			if g.Tiles[y][x] != other.Tiles[y][x] {
				return false
			}
		}
	}
	return true
}

// String renders the bare tiles, one row per line.
func (g *Grid) String() string {
	buf := make([]rune, 0, (g.Width+1)*g.Height)
	for y := range g.Tiles {
		for _, t := range g.Tiles[y] {
			buf = append(buf, t.Rune())
		}
		buf = append(buf, '\n')
	}
	return string(buf)
}
