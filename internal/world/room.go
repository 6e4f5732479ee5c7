package world

// Point is a grid coordinate.
type Point struct {
	X, Y int
}

// Adjacent returns the 4 cardinal neighbours.
func (p Point) Adjacent() [4]Point {
	return [4]Point{
		{p.X, p.Y - 1},
		{p.X + 1, p.Y},
		{p.X, p.Y + 1},
		{p.X - 1, p.Y},
	}
}

// Room is a rectangle spanning (X1,Y1)-(X2,Y2). The outer edge stays wall;
// only the interior is carved.
type Room struct {
	X1, Y1 int
	X2, Y2 int
}

// NewRoom creates a room with its top-left corner at (x, y).
func NewRoom(x, y, width, height int) Room {
	return Room{X1: x, Y1: y, X2: x + width, Y2: y + height}
}

// Center returns the center coordinates of the room.
func (r Room) Center() (int, int) {
	return (r.X1 + r.X2) / 2, (r.Y1 + r.Y2) / 2
}

// CenterPoint returns Center as a Point.
func (r Room) CenterPoint() Point {
	x, y := r.Center()
	return Point{x, y}
}

// Contains returns true if the point lies in the carved interior.
func (r Room) Contains(x, y int) bool {
	return x > r.X1 && x < r.X2 && y > r.Y1 && y < r.Y2
}

// Intersects returns true if the bounding boxes overlap, edges included.
func (r Room) Intersects(other Room) bool {
	return r.X1 <= other.X2 && r.X2 >= other.X1 &&
		r.Y1 <= other.Y2 && r.Y2 >= other.Y1
}
