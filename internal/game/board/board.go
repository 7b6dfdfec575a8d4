// Package board holds the square grid pieces stand on. It knows geometry but
// no game rules.
package board

import (
	"fmt"

	"github.com/notnil/chess"

	"github.com/warchess/warchess-go/internal/game/geom"
	"github.com/warchess/warchess-go/internal/game/pieces"
)

// DefaultSize is the standard 8×8 board.
const DefaultSize = 8

// Board is a size×size grid holding at most one piece per cell, addressed by
// zero-based (x, y) and stored row-major.
type Board struct {
	size  int
	cells []pieces.Piece
}

var _ pieces.Grid = (*Board)(nil)

// New creates an empty board. Non-positive sizes fall back to DefaultSize.
func New(size int) *Board {
	if size <= 0 {
		size = DefaultSize
	}
	return &Board{size: size, cells: make([]pieces.Piece, size*size)}
}

func (b *Board) Size() int { return b.size }

// InBounds reports whether (x, y) lies on the board.
func (b *Board) InBounds(x, y int) bool {
	return x >= 0 && x < b.size && y >= 0 && y < b.size
}

// Get returns the piece at (x, y), or nil for empty or out-of-bounds cells.
func (b *Board) Get(x, y int) pieces.Piece {
	if !b.InBounds(x, y) {
		return nil
	}
	return b.cells[y*b.size+x]
}

// Place puts p on (x, y), replacing whatever was there.
func (b *Board) Place(p pieces.Piece, x, y int) bool {
	if !b.InBounds(x, y) {
		return false
	}
	b.cells[y*b.size+x] = p
	return true
}

// Remove empties (x, y) and returns the piece that stood there.
func (b *Board) Remove(x, y int) pieces.Piece {
	if !b.InBounds(x, y) {
		return nil
	}
	idx := y*b.size + x
	p := b.cells[idx]
	b.cells[idx] = nil
	return p
}

// Move relocates the piece on (fromX, fromY) to (toX, toY). It fails when the
// source is empty or either cell is off the board.
func (b *Board) Move(fromX, fromY, toX, toY int) bool {
	if !b.InBounds(fromX, fromY) || !b.InBounds(toX, toY) {
		return false
	}
	p := b.cells[fromY*b.size+fromX]
	if p == nil {
		return false
	}
	b.cells[fromY*b.size+fromX] = nil
	b.cells[toY*b.size+toX] = p
	return true
}

// PathClear walks the cells strictly between the endpoints, stepping by the
// sign of each axis delta, and reports whether all of them are empty. Callers
// must only pass straight or diagonal pairs; other pairs return false.
func (b *Board) PathClear(fromX, fromY, toX, toY int) bool {
	dx, dy := toX-fromX, toY-fromY
	if dx != 0 && dy != 0 && geom.Abs(dx) != geom.Abs(dy) {
		return false
	}
	stepX, stepY := geom.Sign(dx), geom.Sign(dy)
	x, y := fromX+stepX, fromY+stepY
	for x != toX || y != toY {
		if !b.InBounds(x, y) || b.Get(x, y) != nil {
			return false
		}
		x += stepX
		y += stepY
	}
	return true
}

// ForEachPiece visits occupied cells in row-major order (y outer, x inner).
func (b *Board) ForEachPiece(fn func(p pieces.Piece, x, y int)) {
	for y := 0; y < b.size; y++ {
		for x := 0; x < b.size; x++ {
			if p := b.cells[y*b.size+x]; p != nil {
				fn(p, x, y)
			}
		}
	}
}

// Find returns the first piece matching pred in row-major order.
func (b *Board) Find(pred func(p pieces.Piece) bool) (pieces.Piece, geom.Position, bool) {
	for y := 0; y < b.size; y++ {
		for x := 0; x < b.size; x++ {
			if p := b.cells[y*b.size+x]; p != nil && pred(p) {
				return p, geom.Pos(x, y), true
			}
		}
	}
	return nil, geom.Position{}, false
}

// Count returns the number of pieces on the board.
func (b *Board) Count() int {
	n := 0
	for _, p := range b.cells {
		if p != nil {
			n++
		}
	}
	return n
}

// Clear removes every piece.
func (b *Board) Clear() {
	for i := range b.cells {
		b.cells[i] = nil
	}
}

// Clone returns a structurally independent copy: a new grid holding new piece
// instances.
func (b *Board) Clone() *Board {
	out := New(b.size)
	for i, p := range b.cells {
		if p != nil {
			out.cells[i] = p.Clone()
		}
	}
	return out
}

// SquareName renders (x, y) in algebraic notation ("e4") on an 8×8 board,
// where x is the file and y the rank. Other coordinates render as "(x,y)".
func SquareName(x, y int) string {
	if x < 0 || x >= DefaultSize || y < 0 || y >= DefaultSize {
		return geom.Pos(x, y).String()
	}
	return chess.Square(y*DefaultSize + x).String()
}

// String draws the board with white's back row at the bottom, for debugging.
func (b *Board) String() string {
	var out []byte
	for y := b.size - 1; y >= 0; y-- {
		out = append(out, fmt.Sprintf("%d ", y)...)
		for x := 0; x < b.size; x++ {
			out = append(out, Glyph(b.Get(x, y)))
		}
		out = append(out, '\n')
	}
	return string(out)
}

var glyphs = map[pieces.Kind]byte{
	pieces.KindServitor:      'p',
	pieces.KindSniperScout:   'b',
	pieces.KindKnightArmiger: 'n',
	pieces.KindTank:          'r',
	pieces.KindCommissar:     'q',
	pieces.KindLordSolar:     'k',
}

// Glyph returns a one-letter symbol: lower case for black, upper case for
// white, '.' for an empty cell.
func Glyph(p pieces.Piece) byte {
	if p == nil {
		return '.'
	}
	g, ok := glyphs[p.Kind()]
	if !ok {
		return '?'
	}
	if p.Color() == pieces.White {
		return g - 'a' + 'A'
	}
	return g
}
