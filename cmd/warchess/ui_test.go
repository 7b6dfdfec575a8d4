package main

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/warchess/warchess-go/internal/game"
	"github.com/warchess/warchess-go/internal/game/geom"
	"github.com/warchess/warchess-go/internal/game/pieces"
	"github.com/warchess/warchess-go/internal/game/rules"
	"github.com/warchess/warchess-go/internal/game/watchers"
)

func newTestTerminal(t *testing.T) (*terminal, tcell.SimulationScreen) {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(120, 30)
	t.Cleanup(screen.Fini)

	logger := zaptest.NewLogger(t)
	combat := watchers.NewCombatWatcher()
	turns := watchers.NewTurnWatcher()
	g := game.NewGameState(logger, nil, combat, turns)
	ui := newTerminal(screen, g, combat, turns, logger, true)
	require.NoError(t, g.Initialize())
	return ui, screen
}

// screenLine returns row y of the screen as text.
func screenLine(s tcell.SimulationScreen, y int) string {
	cells, width, _ := s.GetContents()
	var b strings.Builder
	for x := 0; x < width; x++ {
		runes := cells[y*width+x].Runes
		if len(runes) == 0 {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(runes[0])
	}
	return b.String()
}

// clickAt returns a left-click event on the screen cell showing board (x, y).
func clickAt(ui *terminal, x, y int) *tcell.EventMouse {
	size := ui.game.Size()
	sx := originX + x*cellW + 1
	sy := originY + (size-1-y)*cellH
	return tcell.NewEventMouse(sx, sy, tcell.Button1, tcell.ModNone)
}

func TestCellAt(t *testing.T) {
	ui, _ := newTestTerminal(t)

	pos, ok := ui.cellAt(originX, originY)
	require.True(t, ok)
	assert.Equal(t, geom.Pos(0, 7), pos)

	pos, ok = ui.cellAt(originX+cellW*4+2, originY+cellH*7+1)
	require.True(t, ok)
	assert.Equal(t, geom.Pos(4, 0), pos)

	_, ok = ui.cellAt(0, 0)
	assert.False(t, ok)
	_, ok = ui.cellAt(originX+cellW*8, originY)
	assert.False(t, ok)
}

func TestMouseDrivesTurn(t *testing.T) {
	ui, _ := newTestTerminal(t)

	assert.True(t, ui.handle(clickAt(ui, 4, 1)))
	assert.True(t, ui.handle(clickAt(ui, 4, 3)))
	assert.Equal(t, rules.PhaseAction, ui.game.CurrentPhase())
	assert.True(t, ui.handle(clickAt(ui, 0, 0)))
	assert.Equal(t, pieces.Black, ui.game.CurrentPlayer())

	require.NotEmpty(t, ui.log)
	assert.Equal(t, "white Servitor e2-e4", ui.log[len(ui.log)-1])

	// Button releases are ignored.
	release := tcell.NewEventMouse(originX, originY, tcell.ButtonNone, tcell.ModNone)
	assert.True(t, ui.handle(release))
	_, selected := ui.game.Selected()
	assert.False(t, selected)
}

func TestKeyboard(t *testing.T) {
	ui, _ := newTestTerminal(t)

	ui.cursor = geom.Pos(6, 0)
	assert.True(t, ui.handle(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)))
	sel, ok := ui.game.Selected()
	require.True(t, ok)
	assert.Equal(t, pieces.KindKnightArmiger, sel.Piece.Kind())

	ui.handle(tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone))
	ui.handle(tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone))
	ui.handle(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone))
	assert.Equal(t, geom.Pos(7, 2), ui.cursor)
	ui.handle(tcell.NewEventKey(tcell.KeyRight, 0, tcell.ModNone))
	assert.Equal(t, geom.Pos(7, 2), ui.cursor, "clamped at the edge")

	ui.handle(tcell.NewEventKey(tcell.KeyRune, ' ', tcell.ModNone))
	assert.NotNil(t, ui.game.PieceAt(7, 2))
	assert.Equal(t, rules.PhaseAction, ui.game.CurrentPhase())

	// No fallen pawns: revive is refused and reported.
	ui.handle(tcell.NewEventKey(tcell.KeyRune, 'r', tcell.ModNone))
	assert.Equal(t, "revive not available", ui.log[len(ui.log)-1])

	ui.handle(tcell.NewEventKey(tcell.KeyRune, 'n', tcell.ModNone))
	assert.Equal(t, rules.PhaseSelection, ui.game.CurrentPhase())
	assert.Nil(t, ui.game.PieceAt(7, 2))

	assert.False(t, ui.handle(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
	assert.False(t, ui.handle(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModNone)))
}

func TestDraw(t *testing.T) {
	ui, screen := newTestTerminal(t)
	ui.draw()

	top := screenLine(screen, originY)
	assert.Contains(t, top, "r14")
	assert.Contains(t, top, "k16")
	assert.Contains(t, top, "white to play")

	bottom := screenLine(screen, originY+7*cellH)
	assert.Contains(t, bottom, "R14")
	assert.Contains(t, bottom, "Q12")
	assert.Contains(t, screenLine(screen, originY+7*cellH+1), "[A]")
	assert.Contains(t, screenLine(screen, originY+8*cellH+2), "click/space/enter")
}
