// Package hexgrid holds the coordinate math for the campaign map.
//
// Hexes are addressed with odd-r offset coordinates (q = column, r = row),
// which is how map files and units name a position. Distance and direction
// work in cube coordinates, converted on the fly.
package hexgrid

import (
	"encoding/json"
	"fmt"
)

// Coord is an offset (odd-r) hex coordinate.
type Coord struct {
	Q int
	R int
}

// Cube is the cube form of a Coord. X+Y+Z is always zero.
type Cube struct {
	X, Y, Z int
}

// Directions in clockwise order starting east. Rivers and neighbor lists use this index.
const (
	East = iota
	SouthEast
	SouthWest
	West
	NorthWest
	NorthEast
)

var cubeDirections = [6]Cube{
	{X: 1, Y: -1, Z: 0},  // E
	{X: 0, Y: -1, Z: 1},  // SE
	{X: -1, Y: 0, Z: 1},  // SW
	{X: -1, Y: 1, Z: 0},  // W
	{X: 0, Y: 1, Z: -1},  // NW
	{X: 1, Y: 0, Z: -1},  // NE
}

func (c Coord) String() string {
	return fmt.Sprintf("[%d, %d]", c.Q, c.R)
}

// Key is the "q,r" form used by map files.
func (c Coord) Key() string {
	return fmt.Sprintf("%d,%d", c.Q, c.R)
}

// MarshalJSON writes the coordinate as a [q, r] pair.
func (c Coord) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{c.Q, c.R})
}

func (c *Coord) UnmarshalJSON(data []byte) error {
	var pair []int
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("coordinate must be a [q, r] pair: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("coordinate must have 2 elements, got %d", len(pair))
	}
	c.Q, c.R = pair[0], pair[1]
	return nil
}

// ToCube converts an offset coordinate to cube form.
func ToCube(c Coord) Cube {
	x := c.Q - (c.R-(c.R&1))/2
	z := c.R
	return Cube{X: x, Y: -x - z, Z: z}
}

// FromCube converts back to offset form.
func FromCube(c Cube) Coord {
	return Coord{Q: c.X + (c.Z-(c.Z&1))/2, R: c.Z}
}

// Distance is the number of hex steps between a and b.
func Distance(a, b Coord) int {
	ac, bc := ToCube(a), ToCube(b)
	return max(abs(ac.X-bc.X), abs(ac.Y-bc.Y), abs(ac.Z-bc.Z))
}

// Neighbors returns the six adjacent coordinates, clockwise from east.
// Coordinates outside any particular grid are included; callers filter.
func Neighbors(c Coord) [6]Coord {
	cube := ToCube(c)
	var out [6]Coord
	for i, d := range cubeDirections {
		out[i] = FromCube(Cube{X: cube.X + d.X, Y: cube.Y + d.Y, Z: cube.Z + d.Z})
	}
	return out
}

// Direction returns the side of a that faces b, if they are adjacent.
func Direction(a, b Coord) (int, bool) {
	for i, n := range Neighbors(a) {
		if n == b {
			return i, true
		}
	}
	return 0, false
}

// Opposite returns the direction facing back across the same hex side.
func Opposite(dir int) int {
	return (dir + 3) % 6
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// Grid reports which coordinates exist.
type Grid interface {
	Contains(c Coord) bool
}

// Rect is a rectangular grid of Width columns and Height rows starting at [0, 0].
type Rect struct {
	Width  int
	Height int
}

func (g Rect) Contains(c Coord) bool {
	return c.Q >= 0 && c.R >= 0 && c.Q < g.Width && c.R < g.Height
}

// Coords lists every coordinate column by column, the order map files are expanded in.
func (g Rect) Coords() []Coord {
	out := make([]Coord, 0, g.Width*g.Height)
	for q := 0; q < g.Width; q++ {
		for r := 0; r < g.Height; r++ {
			out = append(out, Coord{Q: q, R: r})
		}
	}
	return out
}

// Index is the position of c in Coords.
func (g Rect) Index(c Coord) int {
	return c.Q*g.Height + c.R
}
