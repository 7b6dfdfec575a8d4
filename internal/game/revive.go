package game

import (
	"go.uber.org/zap"

	"github.com/warchess/warchess-go/internal/game/board"
	"github.com/warchess/warchess-go/internal/game/geom"
	"github.com/warchess/warchess-go/internal/game/pieces"
	"github.com/warchess/warchess-go/internal/game/rules"
)

// CanRevive reports whether the Commissar on (x, y) could start a revive now:
// it belongs to the current player, has not revived before, and its side has
// at least one fallen Servitor.
func (g *GameState) CanRevive(x, y int) bool {
	if g.phase != rules.PhaseSelection {
		return false
	}
	queen, ok := g.board.Get(x, y).(*pieces.Commissar)
	if !ok || queen.Owner != g.currentPlayer || queen.ReviveUsed {
		return false
	}
	return g.fallenPawns[queen.Owner] > 0
}

// ActivateQueenRevive enters the Special phase for the Commissar on (x, y)
// and returns the offered cells: every empty cell of that side's pawn row
// followed by every empty cell around the Commissar, without duplicates.
// It returns false when the Commissar cannot revive or no cell is free.
func (g *GameState) ActivateQueenRevive(x, y int) ([]geom.Position, bool) {
	if g.reentrant("revive_activate") || !g.CanRevive(x, y) {
		return nil, false
	}
	queen := g.board.Get(x, y).(*pieces.Commissar)

	targets := g.reviveCells(queen.Owner, x, y)
	if len(targets) == 0 {
		g.logger.Debug("no free cell to revive onto", zap.String("square", board.SquareName(x, y)))
		return nil, false
	}

	g.selected = &Placement{Piece: queen, At: geom.Pos(x, y)}
	g.reviveTargets = targets
	g.setPhase(rules.PhaseSpecial)

	g.bus.Publish(rules.ReviveActivated{Queen: queen, Targets: g.ReviveTargets()})
	return g.ReviveTargets(), true
}

func (g *GameState) reviveCells(color pieces.Color, qx, qy int) []geom.Position {
	seen := make(map[geom.Position]bool)
	var out []geom.Position
	add := func(p geom.Position) {
		if seen[p] || g.board.Get(p.X, p.Y) != nil {
			return
		}
		seen[p] = true
		out = append(out, p)
	}

	size := g.board.Size()
	row := color.PawnRow(size)
	for x := 0; x < size; x++ {
		add(geom.Pos(x, row))
	}
	for _, p := range pieces.AdjacentSquares(qx, qy, g.board) {
		add(p)
	}
	return out
}

// RevivePawn places a new Servitor on one of the offered cells. The new
// Servitor counts as already moved, so it cannot double-step. The Commissar's
// ability is spent and the reviving player keeps the turn.
func (g *GameState) RevivePawn(x, y int) bool {
	if g.reentrant("revive") || g.phase != rules.PhaseSpecial || g.selected == nil {
		return false
	}
	queen, ok := g.selected.Piece.(*pieces.Commissar)
	if !ok || !containsPosition(g.reviveTargets, x, y) || g.board.Get(x, y) != nil {
		return false
	}

	pawn, err := g.factory.Create(pieces.KindServitor, queen.Owner)
	if err != nil {
		g.logger.Error("failed to create revived servitor", zap.Error(err))
		return false
	}
	pawn.Attrs().HasMoved = true

	g.board.Place(pawn, x, y)
	queen.ReviveUsed = true
	g.fallenPawns[queen.Owner]--

	g.setPhase(rules.PhaseSelection)
	g.selected = nil
	g.reviveTargets = nil

	g.logger.Info("servitor revived",
		zap.Stringer("player", queen.Owner),
		zap.String("square", board.SquareName(x, y)),
	)
	g.bus.Publish(rules.PawnRevived{Pawn: pawn, At: geom.Pos(x, y), Queen: queen})
	return true
}

// CancelRevive leaves the Special phase without reviving. The Commissar stays
// selected and its ability stays available.
func (g *GameState) CancelRevive() bool {
	if g.reentrant("revive_cancel") || g.phase != rules.PhaseSpecial || g.selected == nil {
		return false
	}
	queen := g.selected.Piece
	g.setPhase(rules.PhaseSelection)
	g.reviveTargets = nil
	g.bus.Publish(rules.ReviveCancelled{Queen: queen})
	return true
}

func containsPosition(list []geom.Position, x, y int) bool {
	for _, p := range list {
		if p.X == x && p.Y == y {
			return true
		}
	}
	return false
}
