package pieces

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// grid is a minimal Grid for exercising geometry without the board package.
type grid struct {
	size  int
	cells map[[2]int]Piece
}

func newGrid() *grid { return &grid{size: 8, cells: map[[2]int]Piece{}} }

func (g *grid) Size() int { return g.size }

func (g *grid) InBounds(x, y int) bool { return x >= 0 && x < g.size && y >= 0 && y < g.size }

func (g *grid) Get(x, y int) Piece { return g.cells[[2]int{x, y}] }

func (g *grid) PathClear(fx, fy, tx, ty int) bool {
	sx, sy := sign(tx-fx), sign(ty-fy)
	for x, y := fx+sx, fy+sy; x != tx || y != ty; x, y = x+sx, y+sy {
		if g.Get(x, y) != nil {
			return false
		}
	}
	return true
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}

func (g *grid) put(t *testing.T, kind Kind, color Color, x, y int) Piece {
	t.Helper()
	p, err := NewFactory(nil).Create(kind, color)
	require.NoError(t, err)
	g.cells[[2]int{x, y}] = p
	return p
}

func TestServitorDoubleStepOnlyBeforeFirstMove(t *testing.T) {
	g := newGrid()
	pawn := g.put(t, KindServitor, White, 3, 1)

	assert.True(t, pawn.CanMoveTo(3, 1, 3, 2, g))
	assert.True(t, pawn.CanMoveTo(3, 1, 3, 3, g))
	assert.False(t, pawn.CanMoveTo(3, 1, 4, 2, g), "no sideways move")
	assert.False(t, pawn.CanMoveTo(3, 1, 3, 0, g), "no backwards move")

	pawn.Attrs().HasMoved = true
	assert.False(t, pawn.CanMoveTo(3, 3, 3, 5, g))
	assert.True(t, pawn.CanMoveTo(3, 3, 3, 4, g))
}

func TestServitorDoubleStepBlocked(t *testing.T) {
	g := newGrid()
	pawn := g.put(t, KindServitor, Black, 2, 6)
	g.put(t, KindTank, White, 2, 5)

	assert.False(t, pawn.CanMoveTo(2, 6, 2, 4, g))
	assert.False(t, pawn.CanMoveTo(2, 6, 2, 5, g))
}

func TestServitorAttack(t *testing.T) {
	g := newGrid()
	pawn := g.put(t, KindServitor, White, 3, 3)
	g.put(t, KindServitor, Black, 3, 4)
	g.put(t, KindServitor, Black, 4, 4)
	g.put(t, KindServitor, Black, 2, 2)
	g.put(t, KindServitor, White, 2, 4)

	assert.True(t, pawn.CanAttack(3, 3, 3, 4, g), "straight ahead")
	assert.True(t, pawn.CanAttack(3, 3, 4, 4, g), "diagonal ahead")
	assert.False(t, pawn.CanAttack(3, 3, 2, 2, g), "behind")
	assert.False(t, pawn.CanAttack(3, 3, 2, 4, g), "ally")
	assert.False(t, pawn.CanAttack(3, 3, 4, 3, g), "empty cell")
}

func TestSniperScoutBlockedDiagonal(t *testing.T) {
	g := newGrid()
	sniper := g.put(t, KindSniperScout, White, 2, 0)
	g.put(t, KindServitor, Black, 4, 2)

	assert.True(t, sniper.CanAttack(2, 0, 4, 2, g))

	g.put(t, KindServitor, White, 3, 1)
	assert.False(t, sniper.CanAttack(2, 0, 4, 2, g))
	assert.True(t, sniper.IsValidAttackPosition(2, 0, 4, 2), "geometry ignores blockers")
	assert.False(t, sniper.CanMoveTo(2, 0, 5, 3, g))
}

func TestKnightArmigerMovesAndHeals(t *testing.T) {
	g := newGrid()
	knight := g.put(t, KindKnightArmiger, White, 1, 0).(*KnightArmiger)

	assert.True(t, knight.CanMoveTo(1, 0, 2, 2, g))
	assert.True(t, knight.CanMoveTo(1, 0, 3, 1, g))
	assert.False(t, knight.CanMoveTo(1, 0, 1, 2, g))

	ally := g.put(t, KindServitor, White, 2, 1)
	assert.False(t, knight.CanHeal(1, 0, 2, 1, g), "ally at full HP")

	ally.Attrs().HP--
	assert.True(t, knight.CanHeal(1, 0, 2, 1, g))
	assert.False(t, knight.CanHeal(1, 0, 2, 2, g), "empty cell")

	enemy := g.put(t, KindServitor, Black, 0, 1)
	enemy.Attrs().HP--
	assert.False(t, knight.CanHeal(1, 0, 0, 1, g), "enemy")
	assert.True(t, knight.CanAttack(1, 0, 0, 1, g))
}

func TestTankSlidesOrthogonally(t *testing.T) {
	g := newGrid()
	tank := g.put(t, KindTank, White, 0, 0)

	assert.True(t, tank.CanMoveTo(0, 0, 0, 5, g))
	assert.True(t, tank.CanMoveTo(0, 0, 7, 0, g))
	assert.False(t, tank.CanMoveTo(0, 0, 3, 3, g))

	g.put(t, KindServitor, White, 0, 2)
	assert.False(t, tank.CanMoveTo(0, 0, 0, 5, g))
	assert.False(t, tank.IsValidAttackPosition(0, 0, 0, 2), "not adjacent")
}

func TestCommissarAndLordSolar(t *testing.T) {
	g := newGrid()
	queen := g.put(t, KindCommissar, White, 3, 3)
	king := g.put(t, KindLordSolar, Black, 4, 4)

	assert.True(t, queen.CanMoveTo(3, 3, 0, 0, g))
	assert.True(t, queen.CanMoveTo(3, 3, 3, 7, g))
	assert.False(t, queen.CanMoveTo(3, 3, 5, 4, g))
	assert.False(t, queen.CanMoveTo(3, 3, 6, 6, g), "blocked by king")
	assert.True(t, queen.CanAttack(3, 3, 4, 4, g))

	assert.True(t, king.CanMoveTo(4, 4, 5, 5, g))
	assert.False(t, king.CanMoveTo(4, 4, 6, 4, g))
	assert.False(t, king.CanMoveTo(4, 4, 3, 3, g), "occupied")
	assert.True(t, king.CanAttack(4, 4, 3, 3, g))
}

func TestOutOfBoundsDestinationsRejected(t *testing.T) {
	g := newGrid()
	king := g.put(t, KindLordSolar, White, 0, 0)
	assert.False(t, king.CanMoveTo(0, 0, -1, 0, g))
	assert.False(t, king.CanAttack(0, 0, -1, -1, g))
}

func TestCloneIsIndependent(t *testing.T) {
	g := newGrid()
	tank := g.put(t, KindTank, White, 0, 0).(*Tank)
	clone := tank.Clone().(*Tank)

	clone.HP = 1
	clone.ArmorActive = false
	assert.Equal(t, 14, tank.HP)
	assert.True(t, tank.ArmorActive)
	assert.Equal(t, tank.ID, clone.ID)
}

func TestFactory(t *testing.T) {
	f := NewFactory(nil)
	for _, kind := range AllKinds {
		p, err := f.Create(kind, Black)
		require.NoError(t, err)
		stats, _ := f.Stats(kind)
		assert.Equal(t, kind, p.Kind())
		assert.Equal(t, Black, p.Color())
		assert.Equal(t, stats.HP, p.Attrs().HP)
		assert.Equal(t, stats.HP, p.Attrs().MaxHP)
		assert.Equal(t, stats.Dmg, p.Attrs().Dmg)
		assert.Zero(t, p.Attrs().AP)
		assert.False(t, p.Attrs().HasMoved)
		assert.NotEmpty(t, p.Attrs().ID)
	}

	tank, err := f.CreateNamed("rook", White)
	require.NoError(t, err)
	assert.True(t, tank.(*Tank).ArmorActive)

	_, err = f.CreateNamed("dragon", White)
	assert.True(t, errors.Is(err, ErrUnknownKind))

	_, err = f.Create(Kind(42), White)
	assert.ErrorIs(t, err, ErrUnknownKind)

	partial := NewFactory(map[Kind]Stats{KindServitor: {HP: 3, Dmg: 9}})
	_, err = partial.Create(KindTank, White)
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestParseKind(t *testing.T) {
	for input, want := range map[string]Kind{
		"servitor":     KindServitor,
		"Sniper Scout": KindSniperScout,
		"sniperscout":  KindSniperScout,
		"bishop":       KindSniperScout,
		"knight":       KindKnightArmiger,
		"LORD_SOLAR":   KindLordSolar,
		"queen":        KindCommissar,
	} {
		got, ok := ParseKind(input)
		assert.True(t, ok, input)
		assert.Equal(t, want, got, input)
	}
	_, ok := ParseKind("wizard")
	assert.False(t, ok)
}

func TestColor(t *testing.T) {
	assert.Equal(t, Black, White.Opponent())
	assert.Equal(t, 1, White.PawnRow(8))
	assert.Equal(t, 6, Black.PawnRow(8))
	assert.Equal(t, 7, Black.BackRow(8))
	assert.Equal(t, "Knight Armiger(white) HP:10/10 DMG:2", mustCreate(t, KindKnightArmiger, White).String())
}

func mustCreate(t *testing.T, kind Kind, color Color) Piece {
	t.Helper()
	p, err := NewFactory(nil).Create(kind, color)
	require.NoError(t, err)
	return p
}

func TestAdjacentSquares(t *testing.T) {
	g := newGrid()
	tests := []struct {
		name string
		x, y int
		want int
	}{
		{"corner", 0, 0, 3},
		{"edge", 0, 4, 5},
		{"centre", 3, 3, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cells := AdjacentSquares(tt.x, tt.y, g)
			assert.Len(t, cells, tt.want)
			for _, c := range cells {
				assert.True(t, g.InBounds(c.X, c.Y))
				assert.Equal(t, 1, max(sign(c.X-tt.x)*(c.X-tt.x), sign(c.Y-tt.y)*(c.Y-tt.y)))
			}
		})
	}
}
