package game

import (
	"go.uber.org/zap"

	"github.com/warchess/warchess-go/internal/game/board"
	"github.com/warchess/warchess-go/internal/game/geom"
	"github.com/warchess/warchess-go/internal/game/pieces"
	"github.com/warchess/warchess-go/internal/game/rules"
)

// auraBonus is the temporary HP a threatened LordSolar receives.
const auraBonus = 2

// Click routes a single cell click according to the current phase, the way a
// board front-end would: own piece selects, anything else tries to move the
// selection; in Action it acts; in Special it picks a revive target.
func (g *GameState) Click(x, y int) bool {
	switch g.phase {
	case rules.PhaseSelection:
		if p := g.board.Get(x, y); p != nil && p.Color() == g.currentPlayer {
			return g.SelectPiece(x, y)
		}
		if g.selected != nil {
			return g.MovePiece(x, y)
		}
	case rules.PhaseAction:
		return g.PerformAction(x, y)
	case rules.PhaseSpecial:
		return g.RevivePawn(x, y)
	}
	return false
}

// SelectPiece selects the current player's piece on (x, y).
func (g *GameState) SelectPiece(x, y int) bool {
	if g.reentrant("select") || g.phase != rules.PhaseSelection {
		return false
	}
	p := g.board.Get(x, y)
	if p == nil || p.Color() != g.currentPlayer {
		return false
	}
	g.selected = &Placement{Piece: p, At: geom.Pos(x, y)}
	g.bus.Publish(rules.PieceSelected{Piece: p, At: geom.Pos(x, y)})
	return true
}

// MovePiece moves the selected piece to the empty cell (x, y) if its movement
// rule allows it, grants action points and enters the Action phase.
func (g *GameState) MovePiece(x, y int) bool {
	if g.reentrant("move") || g.phase != rules.PhaseSelection || g.selected == nil {
		return false
	}
	sel := *g.selected
	from := sel.At
	if !sel.Piece.CanMoveTo(from.X, from.Y, x, y, g.board) {
		g.logger.Debug("illegal move",
			zap.Stringer("kind", sel.Piece.Kind()),
			zap.String("from", board.SquareName(from.X, from.Y)),
			zap.String("to", board.SquareName(x, y)),
		)
		return false
	}
	if !g.board.Move(from.X, from.Y, x, y) {
		return false
	}

	attrs := sel.Piece.Attrs()
	attrs.HasMoved = true
	attrs.AP = rules.ActionPointsFor(sel.Piece.Kind())

	to := geom.Pos(x, y)
	g.setPhase(rules.PhaseAction)
	g.selected = &Placement{Piece: sel.Piece, At: to}
	g.acting = &Placement{Piece: sel.Piece, At: to}

	g.logger.Debug("piece moved",
		zap.Stringer("player", g.currentPlayer),
		zap.Stringer("kind", sel.Piece.Kind()),
		zap.String("from", board.SquareName(from.X, from.Y)),
		zap.String("to", board.SquareName(x, y)),
		zap.Int("ap", attrs.AP),
	)
	g.bus.Publish(rules.PieceMoved{Piece: sel.Piece, From: from, To: to})
	return true
}

// PerformAction spends one action point of the acting piece on (x, y):
// a heal for a KnightArmiger targeting an adjacent damaged ally, otherwise an
// attack on an enemy. Clicking any other own piece ends the phase early.
func (g *GameState) PerformAction(x, y int) bool {
	if g.reentrant("action") || g.phase != rules.PhaseAction || g.acting == nil {
		return false
	}
	actor := g.acting.Piece
	from := g.acting.At
	target := g.board.Get(x, y)

	if knight, ok := actor.(*pieces.KnightArmiger); ok && knight.CanHeal(from.X, from.Y, x, y, g.board) {
		g.heal(knight, target)
		return true
	}

	if target != nil && target.Color() == g.currentPlayer {
		g.logger.Debug("action phase ended early", zap.Stringer("player", g.currentPlayer))
		g.endActionPhase()
		return true
	}

	if actor.CanAttack(from.X, from.Y, x, y, g.board) {
		g.attack(actor, target, x, y)
		return true
	}
	return false
}

func (g *GameState) attack(actor, target pieces.Piece, x, y int) {
	at := geom.Pos(x, y)
	if tank, ok := target.(*pieces.Tank); ok && tank.ArmorActive {
		tank.ArmorActive = false
		g.logger.Debug("armor absorbed attack", zap.String("square", board.SquareName(x, y)))
		g.bus.Publish(rules.ArmorBlocked{Target: target, At: at})
		g.spendActionPoint(actor)
		return
	}

	dmg := actor.Attrs().Dmg
	ta := target.Attrs()
	ta.HP -= dmg
	g.logger.Debug("attack",
		zap.Stringer("attacker", actor.Kind()),
		zap.Stringer("target", target.Kind()),
		zap.String("square", board.SquareName(x, y)),
		zap.Int("damage", dmg),
		zap.Int("target_hp", ta.HP),
	)
	g.bus.Publish(rules.Attack{Attacker: actor, Target: target, Damage: dmg})

	if ta.HP <= 0 {
		if target.Kind() == pieces.KindServitor {
			g.fallenPawns[target.Color()]++
		}
		g.board.Remove(x, y)
		g.logger.Info("piece fallen",
			zap.Stringer("kind", target.Kind()),
			zap.Stringer("color", target.Color()),
			zap.String("square", board.SquareName(x, y)),
		)
		g.bus.Publish(rules.PieceFallen{Piece: target, At: at})

		// A fallen LordSolar ends the game on the spot, even with AP left.
		if target.Kind() == pieces.KindLordSolar && g.checkGameOver() {
			actor.Attrs().AP = 0
			return
		}
	}
	g.spendActionPoint(actor)
}

func (g *GameState) heal(healer *pieces.KnightArmiger, target pieces.Piece) {
	target.Attrs().HP++
	g.bus.Publish(rules.Heal{Healer: healer, Target: target, Amount: 1})
	g.spendActionPoint(healer)
}

func (g *GameState) spendActionPoint(actor pieces.Piece) {
	a := actor.Attrs()
	a.AP--
	if a.AP <= 0 {
		g.endActionPhase()
	}
}

// endActionPhase returns to Selection, clears the acting context and hands
// the turn to the opponent.
func (g *GameState) endActionPhase() {
	if g.acting != nil {
		g.acting.Piece.Attrs().AP = 0
	}
	g.setPhase(rules.PhaseSelection)
	g.acting = nil
	g.selected = nil
	g.switchPlayer()
}

// switchPlayer passes the turn, re-arms the new player's Tanks, recomputes
// king auras and checks for a finished game.
func (g *GameState) switchPlayer() {
	g.currentPlayer = g.currentPlayer.Opponent()

	g.board.ForEachPiece(func(p pieces.Piece, _, _ int) {
		if tank, ok := p.(*pieces.Tank); ok && tank.Owner == g.currentPlayer {
			tank.ArmorActive = true
		}
	})

	g.checkKingsAura()

	g.logger.Debug("player switched", zap.Stringer("player", g.currentPlayer))
	g.bus.Publish(rules.PlayerSwitched{CurrentPlayer: g.currentPlayer})

	g.checkGameOver()
}

// checkKingsAura grants or removes aura HP on every LordSolar according to
// whether any enemy piece can currently attack it. Calling it again without a
// board change has no effect.
func (g *GameState) checkKingsAura() {
	var kings []Placement
	g.board.ForEachPiece(func(p pieces.Piece, x, y int) {
		if p.Kind() == pieces.KindLordSolar {
			kings = append(kings, Placement{Piece: p, At: geom.Pos(x, y)})
		}
	})

	for _, k := range kings {
		king, ok := k.Piece.(*pieces.LordSolar)
		if !ok {
			continue
		}
		threatened := g.isThreatened(king, k.At.X, k.At.Y)
		switch {
		case threatened && king.BonusHP < auraBonus:
			king.HP += auraBonus - king.BonusHP
			king.BonusHP = auraBonus
			g.bus.Publish(rules.KingAuraActivated{King: king, At: k.At})
		case !threatened && king.BonusHP > 0:
			king.HP -= king.BonusHP
			// Losing the aura never kills.
			if king.HP < 1 {
				king.HP = 1
			}
			king.BonusHP = 0
			g.bus.Publish(rules.KingAuraDeactivated{King: king, At: k.At})
		}
	}
}

// isThreatened reports whether any piece of the other side can attack (x, y).
func (g *GameState) isThreatened(target pieces.Piece, x, y int) bool {
	threatened := false
	g.board.ForEachPiece(func(p pieces.Piece, px, py int) {
		if threatened || p.Color() == target.Color() {
			return
		}
		if p.CanAttack(px, py, x, y, g.board) {
			threatened = true
		}
	})
	return threatened
}

// checkGameOver ends the game when a side has no LordSolar left. The winner is
// the side whose LordSolar survives.
func (g *GameState) checkGameOver() bool {
	if g.gameOver {
		return true
	}
	alive := map[pieces.Color]bool{}
	g.board.ForEachPiece(func(p pieces.Piece, _, _ int) {
		if p.Kind() == pieces.KindLordSolar {
			alive[p.Color()] = true
		}
	})
	if alive[pieces.White] && alive[pieces.Black] {
		return false
	}

	g.winner = pieces.Black
	if alive[pieces.White] {
		g.winner = pieces.White
	}
	g.gameOver = true
	g.setPhase(rules.PhaseGameOver)
	g.selected = nil
	g.acting = nil
	g.reviveTargets = nil

	g.logger.Info("game over", zap.Stringer("winner", g.winner))
	g.bus.Publish(rules.GameOver{Winner: g.winner})
	return true
}
