package main

import (
	"fmt"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"github.com/warchess/warchess-go/internal/game"
	"github.com/warchess/warchess-go/internal/game/board"
	"github.com/warchess/warchess-go/internal/game/geom"
	"github.com/warchess/warchess-go/internal/game/pieces"
	"github.com/warchess/warchess-go/internal/game/rules"
	"github.com/warchess/warchess-go/internal/game/watchers"
)

const (
	cellW   = 6
	cellH   = 2
	originX = 3
	originY = 1
	maxLog  = 6
)

// terminal draws the board on a tcell screen and feeds clicks and keys to
// the engine. Both players share the keyboard and mouse.
type terminal struct {
	screen     tcell.Screen
	game       *game.GameState
	combat     *watchers.CombatWatcher
	turns      *watchers.TurnWatcher
	logger     *zap.Logger
	showLegend bool

	cursor geom.Position
	log    []string
}

func newTerminal(screen tcell.Screen, g *game.GameState, combat *watchers.CombatWatcher, turns *watchers.TurnWatcher, logger *zap.Logger, showLegend bool) *terminal {
	t := &terminal{
		screen:     screen,
		game:       g,
		combat:     combat,
		turns:      turns,
		logger:     logger,
		showLegend: showLegend,
	}
	g.Events().Subscribe(t.onEvent)
	return t
}

func (t *terminal) onEvent(e rules.Event) {
	var line string
	switch p := e.Payload.(type) {
	case rules.GameInitialized:
		t.log = nil
		line = "new game, white to play"
	case rules.PieceMoved:
		line = fmt.Sprintf("%s %s %s-%s", p.Piece.Color(), p.Piece.Kind().DisplayName(),
			board.SquareName(p.From.X, p.From.Y), board.SquareName(p.To.X, p.To.Y))
	case rules.Attack:
		line = fmt.Sprintf("%s hits %s for %d", p.Attacker.Kind().DisplayName(), p.Target.Kind().DisplayName(), p.Damage)
	case rules.PieceFallen:
		line = fmt.Sprintf("%s %s falls on %s", p.Piece.Color(), p.Piece.Kind().DisplayName(), board.SquareName(p.At.X, p.At.Y))
	case rules.Heal:
		line = fmt.Sprintf("%s heals %s", p.Healer.Kind().DisplayName(), p.Target.Kind().DisplayName())
	case rules.ArmorBlocked:
		line = fmt.Sprintf("armor absorbs the hit on %s", board.SquareName(p.At.X, p.At.Y))
	case rules.KingAuraActivated:
		line = fmt.Sprintf("%s Lord Solar aura up", p.King.Color())
	case rules.KingAuraDeactivated:
		line = fmt.Sprintf("%s Lord Solar aura down", p.King.Color())
	case rules.ReviveActivated:
		line = fmt.Sprintf("revive: pick one of %d cells (esc cancels)", len(p.Targets))
	case rules.ReviveCancelled:
		line = "revive cancelled"
	case rules.PawnRevived:
		line = fmt.Sprintf("servitor revived on %s", board.SquareName(p.At.X, p.At.Y))
	case rules.GameOver:
		line = fmt.Sprintf("game over: %s wins", p.Winner)
	default:
		return
	}
	t.log = append(t.log, line)
	if len(t.log) > maxLog {
		t.log = t.log[len(t.log)-maxLog:]
	}
}

// cellAt maps a screen coordinate to a board cell.
func (t *terminal) cellAt(sx, sy int) (geom.Position, bool) {
	size := t.game.Size()
	if sx < originX || sy < originY {
		return geom.Position{}, false
	}
	col := (sx - originX) / cellW
	row := (sy - originY) / cellH
	if col >= size || row >= size {
		return geom.Position{}, false
	}
	return geom.Pos(col, size-1-row), true
}

// handle processes one event. It returns false when the user asked to quit.
func (t *terminal) handle(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		t.screen.Sync()
	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 == 0 {
			return true
		}
		if cell, ok := t.cellAt(ev.Position()); ok {
			t.cursor = cell
			t.click(cell)
		}
	case *tcell.EventKey:
		return t.key(ev)
	}
	return true
}

func (t *terminal) key(ev *tcell.EventKey) bool {
	size := t.game.Size()
	switch ev.Key() {
	case tcell.KeyCtrlC:
		return false
	case tcell.KeyEscape:
		t.game.CancelRevive()
	case tcell.KeyEnter:
		t.click(t.cursor)
	case tcell.KeyUp:
		t.cursor.Y = min(t.cursor.Y+1, size-1)
	case tcell.KeyDown:
		t.cursor.Y = max(t.cursor.Y-1, 0)
	case tcell.KeyLeft:
		t.cursor.X = max(t.cursor.X-1, 0)
	case tcell.KeyRight:
		t.cursor.X = min(t.cursor.X+1, size-1)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			return false
		case ' ':
			t.click(t.cursor)
		case 'r':
			t.revive()
		case 'n':
			if err := t.game.Initialize(); err != nil {
				t.logger.Error("restart failed", zap.Error(err))
			}
		}
	}
	return true
}

func (t *terminal) click(cell geom.Position) {
	if !t.game.Click(cell.X, cell.Y) {
		t.logger.Debug("click rejected",
			zap.String("square", board.SquareName(cell.X, cell.Y)),
			zap.Stringer("phase", t.game.CurrentPhase()),
		)
	}
}

// revive starts the revive ability of the selected Commissar.
func (t *terminal) revive() {
	sel, ok := t.game.Selected()
	if !ok {
		return
	}
	if _, ok := t.game.ActivateQueenRevive(sel.At.X, sel.At.Y); !ok {
		t.log = append(t.log, "revive not available")
	}
}

func (t *terminal) draw() {
	s := t.screen
	s.Clear()
	size := t.game.Size()

	selected, hasSel := t.game.Selected()
	targets := map[geom.Position]bool{}
	for _, p := range t.game.ReviveTargets() {
		targets[p] = true
	}

	for row := 0; row < size; row++ {
		y := size - 1 - row
		drawText(s, 0, originY+row*cellH, tcell.StyleDefault, fmt.Sprintf("%d", y+1))
		for x := 0; x < size; x++ {
			style := tcell.StyleDefault.Background(tcell.ColorDarkOliveGreen)
			if (x+y)%2 == 1 {
				style = tcell.StyleDefault.Background(tcell.ColorDarkKhaki)
			}
			pos := geom.Pos(x, y)
			switch {
			case hasSel && selected.At == pos:
				style = style.Background(tcell.ColorGoldenrod)
			case targets[pos]:
				style = style.Background(tcell.ColorSeaGreen)
			case t.cursor == pos:
				style = style.Background(tcell.ColorSteelBlue)
			}

			top, bottom := "", ""
			if p := t.game.PieceAt(x, y); p != nil {
				fg := tcell.ColorWhite
				if p.Color() == pieces.Black {
					fg = tcell.ColorBlack
				}
				style = style.Foreground(fg).Bold(true)
				top = fmt.Sprintf(" %c%d", board.Glyph(p), p.Attrs().HP)
				bottom = marker(p)
			}
			sx := originX + x*cellW
			sy := originY + row*cellH
			fillText(s, sx, sy, cellW, style, top)
			fillText(s, sx, sy+1, cellW, style, bottom)
		}
	}
	for x := 0; x < size; x++ {
		drawText(s, originX+x*cellW+2, originY+size*cellH, tcell.StyleDefault, string(rune('a'+x)))
	}

	right := originX + size*cellW + 2
	line := originY
	drawText(s, right, line, tcell.StyleDefault.Bold(true), t.status())
	line += 2
	for _, c := range []pieces.Color{pieces.White, pieces.Black} {
		tally := t.combat.Tally(c)
		drawText(s, right, line, tcell.StyleDefault, fmt.Sprintf("%-5s dmg %d  lost %d  fallen pawns %d",
			c, tally.DamageDealt, tally.Losses, t.game.FallenPawns(c)))
		line++
	}
	line++
	for _, l := range t.log {
		drawText(s, right, line, tcell.StyleDefault, l)
		line++
	}

	if t.showLegend {
		legend := []string{
			"click/space/enter: select, move, act",
			"arrows: cursor   r: revive   esc: cancel",
			"n: new game   q: quit",
			"P servitor  B sniper  N knight  R tank  Q commissar  K lord solar",
		}
		base := originY + size*cellH + 2
		for i, l := range legend {
			drawText(s, 0, base+i, tcell.StyleDefault.Dim(true), l)
		}
	}
	s.Show()
}

func (t *terminal) status() string {
	if winner, over := t.game.Winner(); over {
		return fmt.Sprintf("game over, %s wins", winner)
	}
	status := fmt.Sprintf("turn %d  %s to play  [%s]", t.turns.Turns()+1, t.game.CurrentPlayer(), t.game.CurrentPhase())
	if acting, ok := t.game.Acting(); ok {
		status += fmt.Sprintf("  AP %d", acting.Piece.Attrs().AP)
	}
	return status
}

// marker is the second line of a piece cell.
func marker(p pieces.Piece) string {
	switch v := p.(type) {
	case *pieces.Tank:
		if v.ArmorActive {
			return " [A]"
		}
	case *pieces.LordSolar:
		if v.BonusHP > 0 {
			return fmt.Sprintf(" +%d", v.BonusHP)
		}
	case *pieces.Commissar:
		if !v.ReviveUsed {
			return " (r)"
		}
	}
	return ""
}

func drawText(s tcell.Screen, x, y int, style tcell.Style, text string) {
	for i, r := range text {
		s.SetContent(x+i, y, r, nil, style)
	}
}

// fillText draws text padded with spaces to width.
func fillText(s tcell.Screen, x, y, width int, style tcell.Style, text string) {
	runes := []rune(text)
	for i := 0; i < width; i++ {
		r := ' '
		if i < len(runes) {
			r = runes[i]
		}
		s.SetContent(x+i, y, r, nil, style)
	}
}
