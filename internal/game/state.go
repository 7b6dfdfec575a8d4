// Package game implements the turn/phase engine: it owns the board and pieces,
// interprets cell clicks according to the current phase, resolves combat and
// abilities, and publishes every state change on an EventBus.
package game

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/warchess/warchess-go/internal/game/board"
	"github.com/warchess/warchess-go/internal/game/geom"
	"github.com/warchess/warchess-go/internal/game/pieces"
	"github.com/warchess/warchess-go/internal/game/rules"
)

// ErrReentrant is returned when Initialize is called from inside an event listener.
var ErrReentrant = errors.New("engine called from inside an event listener")

// backRow is the officer order on row 0 (white) and row size-1 (black).
var backRow = []pieces.Kind{
	pieces.KindTank,
	pieces.KindKnightArmiger,
	pieces.KindSniperScout,
	pieces.KindCommissar,
	pieces.KindLordSolar,
	pieces.KindSniperScout,
	pieces.KindKnightArmiger,
	pieces.KindTank,
}

// Placement is a piece together with the cell it stands on.
type Placement struct {
	Piece pieces.Piece
	At    geom.Position
}

// GameState is the single-threaded rule engine. Every exported mutating
// method either applies all of its effects and publishes the matching events,
// or returns false and changes nothing. Board and pieces are owned here;
// collaborators read them through the accessors and must not mutate them.
type GameState struct {
	id       string
	logger   *zap.Logger
	factory  *pieces.Factory
	board    *board.Board
	bus      *rules.EventBus
	watchers *rules.WatcherRegistry

	currentPlayer pieces.Color
	phase         rules.Phase
	selected      *Placement
	acting        *Placement
	fallenPawns   map[pieces.Color]int
	reviveTargets []geom.Position
	gameOver      bool
	winner        pieces.Color
}

// NewGameState creates an engine with an empty board. Call Initialize to set
// up the starting position. A nil logger discards logs; a nil factory uses
// the default stats table. Watchers are subscribed ahead of any other listener.
func NewGameState(logger *zap.Logger, factory *pieces.Factory, watchers ...rules.Watcher) *GameState {
	if logger == nil {
		logger = zap.NewNop()
	}
	if factory == nil {
		factory = pieces.NewFactory(nil)
	}
	g := &GameState{
		id:          uuid.NewString(),
		factory:     factory,
		board:       board.New(board.DefaultSize),
		bus:         rules.NewEventBus(),
		watchers:    rules.NewWatcherRegistry(),
		fallenPawns: map[pieces.Color]int{pieces.White: 0, pieces.Black: 0},
	}
	g.logger = logger.With(zap.String("game_id", g.id))
	for _, w := range watchers {
		g.watchers.AddWatcher(w)
	}
	g.bus.Subscribe(g.watchers.NotifyWatchers)
	return g
}

// Initialize clears the board, resets all turn state and places the standard
// starting position: Servitors on rows 1 and 6, officers on rows 0 and 7.
func (g *GameState) Initialize() error {
	if g.bus.Depth() > 0 {
		return ErrReentrant
	}
	fresh := board.New(g.board.Size())
	size := fresh.Size()
	for _, color := range []pieces.Color{pieces.White, pieces.Black} {
		for x := 0; x < size; x++ {
			pawn, err := g.factory.Create(pieces.KindServitor, color)
			if err != nil {
				return fmt.Errorf("setup %s pawn row: %w", color, err)
			}
			fresh.Place(pawn, x, color.PawnRow(size))

			officer, err := g.factory.Create(backRow[x%len(backRow)], color)
			if err != nil {
				return fmt.Errorf("setup %s back row: %w", color, err)
			}
			fresh.Place(officer, x, color.BackRow(size))
		}
	}

	g.board = fresh
	g.resetTurnState()
	g.watchers.ResetWatchers()

	g.logger.Info("game initialized", zap.Int("pieces", g.board.Count()))
	g.bus.Publish(rules.GameInitialized{})
	return nil
}

func (g *GameState) resetTurnState() {
	g.currentPlayer = pieces.White
	g.phase = rules.PhaseSelection
	g.selected = nil
	g.acting = nil
	g.reviveTargets = nil
	g.fallenPawns = map[pieces.Color]int{pieces.White: 0, pieces.Black: 0}
	g.gameOver = false
	g.winner = pieces.White
}

// reentrant reports, and logs, a mutation attempted from inside a listener.
func (g *GameState) reentrant(op string) bool {
	if g.bus.Depth() == 0 {
		return false
	}
	g.logger.Warn("rejected engine call from inside event listener", zap.String("op", op))
	return true
}

func (g *GameState) setPhase(to rules.Phase) {
	if !rules.CanTransition(g.phase, to) {
		g.logger.Error("illegal phase transition",
			zap.Stringer("from", g.phase),
			zap.Stringer("to", to),
		)
		return
	}
	g.logger.Debug("phase transition", zap.Stringer("from", g.phase), zap.Stringer("to", to))
	g.phase = to
}

// ID returns the game's unique identifier.
func (g *GameState) ID() string { return g.id }

// Events returns the bus collaborators subscribe to.
func (g *GameState) Events() *rules.EventBus { return g.bus }

// Watchers returns the registry of watchers fed by the bus.
func (g *GameState) Watchers() *rules.WatcherRegistry { return g.watchers }

// CurrentPlayer returns the side to act.
func (g *GameState) CurrentPlayer() pieces.Color { return g.currentPlayer }

// CurrentPhase returns the phase that determines how input is interpreted.
func (g *GameState) CurrentPhase() rules.Phase { return g.phase }

// Selected returns the selected piece, if any.
func (g *GameState) Selected() (Placement, bool) {
	if g.selected == nil {
		return Placement{}, false
	}
	return *g.selected, true
}

// Acting returns the piece spending action points, if in the Action phase.
func (g *GameState) Acting() (Placement, bool) {
	if g.acting == nil {
		return Placement{}, false
	}
	return *g.acting, true
}

// FallenPawns returns how many of color's Servitors are destroyed and not yet revived.
func (g *GameState) FallenPawns(color pieces.Color) int { return g.fallenPawns[color] }

// IsGameOver reports whether a LordSolar has fallen.
func (g *GameState) IsGameOver() bool { return g.gameOver }

// Winner returns the winning side once the game is over.
func (g *GameState) Winner() (pieces.Color, bool) {
	if !g.gameOver {
		return pieces.White, false
	}
	return g.winner, true
}

// Size returns the board edge length.
func (g *GameState) Size() int { return g.board.Size() }

// PieceAt returns the piece on (x, y), or nil. The result is read-only.
func (g *GameState) PieceAt(x, y int) pieces.Piece { return g.board.Get(x, y) }

// ForEachPiece visits every piece in row-major order. Visitors must not mutate.
func (g *GameState) ForEachPiece(fn func(p pieces.Piece, x, y int)) { g.board.ForEachPiece(fn) }

// BoardSnapshot returns a deep copy of the board for what-if evaluation.
func (g *GameState) BoardSnapshot() *board.Board { return g.board.Clone() }

// ReviveTargets returns the cells offered by the pending revive.
func (g *GameState) ReviveTargets() []geom.Position {
	out := make([]geom.Position, len(g.reviveTargets))
	copy(out, g.reviveTargets)
	return out
}
