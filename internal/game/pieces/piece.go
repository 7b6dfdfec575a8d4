// Package pieces defines the six piece variants, their movement and attack
// geometry, and the factory that creates them with base statistics.
package pieces

import (
	"fmt"

	"github.com/warchess/warchess-go/internal/game/geom"
)

// Grid is the read-only board view pieces consult during legality checks.
// Pieces never keep a reference to it.
type Grid interface {
	Size() int
	InBounds(x, y int) bool
	Get(x, y int) Piece
	PathClear(fromX, fromY, toX, toY int) bool
}

// Attributes holds the state shared by every variant.
type Attributes struct {
	ID       string
	Owner    Color
	HP       int
	MaxHP    int
	Dmg      int
	HasMoved bool
	AP       int
}

// Attrs returns the mutable shared state.
func (a *Attributes) Attrs() *Attributes { return a }

// Color returns the owning side.
func (a *Attributes) Color() Color { return a.Owner }

// Damaged reports whether the piece is below its maximum HP.
func (a *Attributes) Damaged() bool { return a.HP < a.MaxHP }

// Piece is the closed capability set implemented by the six variants.
type Piece interface {
	Kind() Kind
	Color() Color
	Attrs() *Attributes

	// CanMoveTo is a pure legality check. Destinations must be in bounds and empty.
	CanMoveTo(fromX, fromY, toX, toY int, g Grid) bool
	// IsValidAttackPosition checks geometry only and ignores occupancy.
	IsValidAttackPosition(fromX, fromY, toX, toY int) bool
	// CanAttack requires an enemy target at a valid attack position.
	CanAttack(fromX, fromY, toX, toY int, g Grid) bool

	Clone() Piece
	String() string
}

func newAttributes(id string, color Color, stats Stats) Attributes {
	return Attributes{
		ID:    id,
		Owner: color,
		HP:    stats.HP,
		MaxHP: stats.HP,
		Dmg:   stats.Dmg,
	}
}

// describe renders "Display(color) HP:x/y DMG:z".
func describe(p Piece) string {
	a := p.Attrs()
	return fmt.Sprintf("%s(%s) HP:%d/%d DMG:%d", p.Kind().DisplayName(), a.Owner, a.HP, a.MaxHP, a.Dmg)
}

// emptyDestination is the shared precondition of every move.
func emptyDestination(toX, toY int, g Grid) bool {
	return g.InBounds(toX, toY) && g.Get(toX, toY) == nil
}

// adjacentAttack is the default attack geometry: any cell at king-distance 1.
func adjacentAttack(fromX, fromY, toX, toY int) bool {
	return geom.Chebyshev(fromX, fromY, toX, toY) == 1
}

// defaultCanAttack checks for an enemy target at a geometrically valid cell.
func defaultCanAttack(p Piece, fromX, fromY, toX, toY int, g Grid) bool {
	if !g.InBounds(toX, toY) {
		return false
	}
	target := g.Get(toX, toY)
	if target == nil || target.Color() == p.Color() {
		return false
	}
	return p.IsValidAttackPosition(fromX, fromY, toX, toY)
}

// AdjacentSquares returns the in-bounds cells at king-distance 1 from (x, y).
func AdjacentSquares(x, y int, g Grid) []geom.Position {
	return geom.Neighbors(x, y, g.Size())
}
