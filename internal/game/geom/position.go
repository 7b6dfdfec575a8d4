package geom

import "fmt"

// Position is a zero-based board coordinate.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Pos is shorthand for Position{X: x, Y: y}.
func Pos(x, y int) Position {
	return Position{X: x, Y: y}
}

func (p Position) String() string {
	return fmt.Sprintf("(%d,%d)", p.X, p.Y)
}

// Abs returns the absolute value of v.
func Abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Sign returns -1, 0 or 1.
func Sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	default:
		return 0
	}
}

// Chebyshev returns the king-move distance between two cells.
func Chebyshev(fromX, fromY, toX, toY int) int {
	dx, dy := Abs(toX-fromX), Abs(toY-fromY)
	if dx > dy {
		return dx
	}
	return dy
}

// IsDiagonal reports whether the two cells share a diagonal and are distinct.
func IsDiagonal(fromX, fromY, toX, toY int) bool {
	dx, dy := Abs(toX-fromX), Abs(toY-fromY)
	return dx != 0 && dx == dy
}

// IsOrthogonal reports whether the two cells share a rank or file and are distinct.
func IsOrthogonal(fromX, fromY, toX, toY int) bool {
	return (fromX == toX) != (fromY == toY)
}

// Neighbors returns the in-bounds cells at king-distance 1 from (x, y) on a
// size×size grid, scanning dx then dy from -1 to 1.
func Neighbors(x, y, size int) []Position {
	out := make([]Position, 0, 8)
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx == 0 && dy == 0 {
				continue
			}
			nx, ny := x+dx, y+dy
			if nx >= 0 && nx < size && ny >= 0 && ny < size {
				out = append(out, Position{X: nx, Y: ny})
			}
		}
	}
	return out
}
