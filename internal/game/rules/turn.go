package rules

import (
	"fmt"

	"github.com/warchess/warchess-go/internal/game/pieces"
)

// Phase is the engine's current interaction mode.
type Phase int

const (
	// PhaseSelection: the current player picks a piece and moves it.
	PhaseSelection Phase = iota
	// PhaseAction: the piece that just moved spends its action points.
	PhaseAction
	// PhaseSpecial: a Commissar is choosing where to revive a Servitor.
	PhaseSpecial
	// PhaseGameOver is terminal.
	PhaseGameOver
)

var phaseNames = map[Phase]string{
	PhaseSelection: "selection",
	PhaseAction:    "action",
	PhaseSpecial:   "special",
	PhaseGameOver:  "gameOver",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// MarshalText renders the phase name for JSON views.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// Terminal reports whether no transition may leave p.
func (p Phase) Terminal() bool {
	return p == PhaseGameOver
}

var phaseTransitions = map[Phase][]Phase{
	PhaseSelection: {PhaseAction, PhaseSpecial, PhaseGameOver},
	PhaseAction:    {PhaseSelection, PhaseGameOver},
	PhaseSpecial:   {PhaseSelection, PhaseGameOver},
}

// CanTransition reports whether the state machine allows from -> to.
func CanTransition(from, to Phase) bool {
	for _, next := range phaseTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ActionPointsFor returns the action points granted to a piece of kind
// after a successful move.
func ActionPointsFor(kind pieces.Kind) int {
	if kind == pieces.KindKnightArmiger {
		return 2
	}
	return 1
}
