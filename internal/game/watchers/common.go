package watchers

import (
	"github.com/warchess/warchess-go/internal/game/pieces"
	"github.com/warchess/warchess-go/internal/game/rules"
)

// Tally is a per-side combat summary.
type Tally struct {
	DamageDealt  int `json:"damageDealt"`
	Attacks      int `json:"attacks"`
	Losses       int `json:"losses"`
	Heals        int `json:"heals"`
	ArmorBlocks  int `json:"armorBlocks"`
	PawnsRevived int `json:"pawnsRevived"`
}

// CombatWatcher tallies attacks, losses, heals and armor blocks per side.
type CombatWatcher struct {
	*rules.BaseWatcher
	tallies map[pieces.Color]*Tally
}

// NewCombatWatcher creates a new combat watcher.
func NewCombatWatcher() *CombatWatcher {
	w := &CombatWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeGame),
	}
	w.SetKey("CombatWatcher")
	w.Reset()
	return w
}

// Watch implements the Watcher interface.
func (w *CombatWatcher) Watch(event rules.Event) {
	switch p := event.Payload.(type) {
	case rules.Attack:
		t := w.tallies[p.Attacker.Color()]
		t.Attacks++
		t.DamageDealt += p.Damage
		w.SetCondition(true)
	case rules.PieceFallen:
		w.tallies[p.Piece.Color()].Losses++
	case rules.Heal:
		w.tallies[p.Healer.Color()].Heals += p.Amount
	case rules.ArmorBlocked:
		// Credited to the defender.
		w.tallies[p.Target.Color()].ArmorBlocks++
		w.SetCondition(true)
	case rules.PawnRevived:
		w.tallies[p.Pawn.Color()].PawnsRevived++
	}
}

// Reset clears the watcher's state.
func (w *CombatWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.tallies = map[pieces.Color]*Tally{
		pieces.White: {},
		pieces.Black: {},
	}
}

// Tally returns a copy of the summary for color.
func (w *CombatWatcher) Tally(color pieces.Color) Tally {
	if t, ok := w.tallies[color]; ok {
		return *t
	}
	return Tally{}
}

// TurnWatcher counts completed turns and remembers whose turn it is.
type TurnWatcher struct {
	*rules.BaseWatcher
	turns   int
	current pieces.Color
	winner  *pieces.Color
}

// NewTurnWatcher creates a new turn watcher.
func NewTurnWatcher() *TurnWatcher {
	w := &TurnWatcher{
		BaseWatcher: rules.NewBaseWatcher(rules.WatcherScopeGame),
	}
	w.SetKey("TurnWatcher")
	return w
}

// Watch implements the Watcher interface.
func (w *TurnWatcher) Watch(event rules.Event) {
	switch p := event.Payload.(type) {
	case rules.GameInitialized:
		w.Reset()
	case rules.PlayerSwitched:
		w.turns++
		w.current = p.CurrentPlayer
	case rules.GameOver:
		winner := p.Winner
		w.winner = &winner
		w.SetCondition(true)
	}
}

// Reset clears the watcher's state.
func (w *TurnWatcher) Reset() {
	w.BaseWatcher.Reset()
	w.turns = 0
	w.current = pieces.White
	w.winner = nil
}

// Turns returns the number of completed turns.
func (w *TurnWatcher) Turns() int {
	return w.turns
}

// Current returns the side to move as last announced.
func (w *TurnWatcher) Current() pieces.Color {
	return w.current
}

// Winner returns the winner once a gameOver event has been seen.
func (w *TurnWatcher) Winner() (pieces.Color, bool) {
	if w.winner == nil {
		return pieces.White, false
	}
	return *w.winner, true
}
