package pieces

import "github.com/warchess/warchess-go/internal/game/geom"

// Servitor is the pawn: it advances one cell, or two from an unmoved start,
// and strikes forward or diagonally forward.
type Servitor struct {
	Attributes
}

func (s *Servitor) Kind() Kind { return KindServitor }

func (s *Servitor) CanMoveTo(fromX, fromY, toX, toY int, g Grid) bool {
	if fromX != toX || !emptyDestination(toX, toY, g) {
		return false
	}
	dir := s.Owner.Forward()
	switch toY - fromY {
	case dir:
		return true
	case 2 * dir:
		return !s.HasMoved && g.Get(fromX, fromY+dir) == nil
	}
	return false
}

func (s *Servitor) IsValidAttackPosition(fromX, fromY, toX, toY int) bool {
	return toY == fromY+s.Owner.Forward() && geom.Abs(toX-fromX) <= 1
}

func (s *Servitor) CanAttack(fromX, fromY, toX, toY int, g Grid) bool {
	return defaultCanAttack(s, fromX, fromY, toX, toY, g)
}

func (s *Servitor) Clone() Piece {
	c := *s
	return &c
}

func (s *Servitor) String() string { return describe(s) }

// SniperScout is the bishop: it moves and shoots along clear diagonals.
type SniperScout struct {
	Attributes
}

func (s *SniperScout) Kind() Kind { return KindSniperScout }

func (s *SniperScout) CanMoveTo(fromX, fromY, toX, toY int, g Grid) bool {
	if !geom.IsDiagonal(fromX, fromY, toX, toY) || !emptyDestination(toX, toY, g) {
		return false
	}
	return g.PathClear(fromX, fromY, toX, toY)
}

func (s *SniperScout) IsValidAttackPosition(fromX, fromY, toX, toY int) bool {
	return geom.IsDiagonal(fromX, fromY, toX, toY)
}

func (s *SniperScout) CanAttack(fromX, fromY, toX, toY int, g Grid) bool {
	if !defaultCanAttack(s, fromX, fromY, toX, toY, g) {
		return false
	}
	return g.PathClear(fromX, fromY, toX, toY)
}

func (s *SniperScout) Clone() Piece {
	c := *s
	return &c
}

func (s *SniperScout) String() string { return describe(s) }

// KnightArmiger is the knight: it jumps in an L, fights adjacent cells and
// can heal adjacent damaged allies.
type KnightArmiger struct {
	Attributes
}

func (k *KnightArmiger) Kind() Kind { return KindKnightArmiger }

func (k *KnightArmiger) CanMoveTo(fromX, fromY, toX, toY int, g Grid) bool {
	dx, dy := geom.Abs(toX-fromX), geom.Abs(toY-fromY)
	if !(dx == 2 && dy == 1) && !(dx == 1 && dy == 2) {
		return false
	}
	return emptyDestination(toX, toY, g)
}

func (k *KnightArmiger) IsValidAttackPosition(fromX, fromY, toX, toY int) bool {
	return adjacentAttack(fromX, fromY, toX, toY)
}

func (k *KnightArmiger) CanAttack(fromX, fromY, toX, toY int, g Grid) bool {
	return defaultCanAttack(k, fromX, fromY, toX, toY, g)
}

// CanHeal reports whether (toX, toY) holds an adjacent ally below max HP.
func (k *KnightArmiger) CanHeal(fromX, fromY, toX, toY int, g Grid) bool {
	if !g.InBounds(toX, toY) {
		return false
	}
	target := g.Get(toX, toY)
	if target == nil || target.Color() != k.Owner || !target.Attrs().Damaged() {
		return false
	}
	return k.IsValidAttackPosition(fromX, fromY, toX, toY)
}

func (k *KnightArmiger) Clone() Piece {
	c := *k
	return &c
}

func (k *KnightArmiger) String() string { return describe(k) }

// Tank is the rook: it slides orthogonally and carries armor that absorbs
// one attack per owner turn.
type Tank struct {
	Attributes
	ArmorActive bool
}

func (t *Tank) Kind() Kind { return KindTank }

func (t *Tank) CanMoveTo(fromX, fromY, toX, toY int, g Grid) bool {
	if !geom.IsOrthogonal(fromX, fromY, toX, toY) || !emptyDestination(toX, toY, g) {
		return false
	}
	return g.PathClear(fromX, fromY, toX, toY)
}

func (t *Tank) IsValidAttackPosition(fromX, fromY, toX, toY int) bool {
	return adjacentAttack(fromX, fromY, toX, toY)
}

func (t *Tank) CanAttack(fromX, fromY, toX, toY int, g Grid) bool {
	return defaultCanAttack(t, fromX, fromY, toX, toY, g)
}

func (t *Tank) Clone() Piece {
	c := *t
	return &c
}

func (t *Tank) String() string { return describe(t) }

// Commissar is the queen: it slides in all eight directions but only strikes
// adjacent cells, and may revive one fallen Servitor per game.
type Commissar struct {
	Attributes
	ReviveUsed bool
}

func (c *Commissar) Kind() Kind { return KindCommissar }

func (c *Commissar) CanMoveTo(fromX, fromY, toX, toY int, g Grid) bool {
	straight := geom.IsOrthogonal(fromX, fromY, toX, toY) || geom.IsDiagonal(fromX, fromY, toX, toY)
	if !straight || !emptyDestination(toX, toY, g) {
		return false
	}
	return g.PathClear(fromX, fromY, toX, toY)
}

func (c *Commissar) IsValidAttackPosition(fromX, fromY, toX, toY int) bool {
	return adjacentAttack(fromX, fromY, toX, toY)
}

func (c *Commissar) CanAttack(fromX, fromY, toX, toY int, g Grid) bool {
	return defaultCanAttack(c, fromX, fromY, toX, toY, g)
}

func (c *Commissar) Clone() Piece {
	cp := *c
	return &cp
}

func (c *Commissar) String() string { return describe(c) }

// LordSolar is the king. Losing it loses the game; while threatened it gains
// temporary aura HP.
type LordSolar struct {
	Attributes
	BonusHP int
}

func (l *LordSolar) Kind() Kind { return KindLordSolar }

func (l *LordSolar) CanMoveTo(fromX, fromY, toX, toY int, g Grid) bool {
	if geom.Chebyshev(fromX, fromY, toX, toY) != 1 {
		return false
	}
	return emptyDestination(toX, toY, g)
}

func (l *LordSolar) IsValidAttackPosition(fromX, fromY, toX, toY int) bool {
	return adjacentAttack(fromX, fromY, toX, toY)
}

func (l *LordSolar) CanAttack(fromX, fromY, toX, toY int, g Grid) bool {
	return defaultCanAttack(l, fromX, fromY, toX, toY, g)
}

func (l *LordSolar) Clone() Piece {
	c := *l
	return &c
}

func (l *LordSolar) String() string { return describe(l) }
