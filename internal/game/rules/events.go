package rules

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/warchess/warchess-go/internal/game/geom"
	"github.com/warchess/warchess-go/internal/game/pieces"
)

// EventType names a state-change notification published by the engine.
type EventType string

const (
	EventGameInitialized     EventType = "gameInitialized"
	EventPieceSelected       EventType = "pieceSelected"
	EventPieceMoved          EventType = "pieceMoved"
	EventAttack              EventType = "attack"
	EventPieceFallen         EventType = "pieceFallen"
	EventHeal                EventType = "heal"
	EventArmorBlocked        EventType = "armorBlocked"
	EventKingAuraActivated   EventType = "kingAuraActivated"
	EventKingAuraDeactivated EventType = "kingAuraDeactivated"
	EventReviveActivated     EventType = "reviveActivated"
	EventReviveCancelled     EventType = "reviveCancelled"
	EventPawnRevived         EventType = "pawnRevived"
	EventPlayerSwitched      EventType = "playerSwitched"
	EventGameOver            EventType = "gameOver"
)

// AllEventTypes lists the closed set of event kinds.
var AllEventTypes = []EventType{
	EventGameInitialized,
	EventPieceSelected,
	EventPieceMoved,
	EventAttack,
	EventPieceFallen,
	EventHeal,
	EventArmorBlocked,
	EventKingAuraActivated,
	EventKingAuraDeactivated,
	EventReviveActivated,
	EventReviveCancelled,
	EventPawnRevived,
	EventPlayerSwitched,
	EventGameOver,
}

// Valid reports whether et belongs to the closed event set.
func (et EventType) Valid() bool {
	for _, known := range AllEventTypes {
		if et == known {
			return true
		}
	}
	return false
}

// Payload is implemented by exactly one struct per event kind.
type Payload interface {
	EventType() EventType
}

// GameInitialized is published once the starting position is set up.
type GameInitialized struct{}

// PieceSelected is published when the current player selects a piece.
type PieceSelected struct {
	Piece pieces.Piece
	At    geom.Position
}

// PieceMoved is published after a selected piece moves.
type PieceMoved struct {
	Piece pieces.Piece
	From  geom.Position
	To    geom.Position
}

// Attack is published when an attack lands (not when armor absorbs it).
type Attack struct {
	Attacker pieces.Piece
	Target   pieces.Piece
	Damage   int
}

// PieceFallen is published when a piece reaches 0 HP and leaves the board.
type PieceFallen struct {
	Piece pieces.Piece
	At    geom.Position
}

// Heal is published when a KnightArmiger restores HP to an ally.
type Heal struct {
	Healer pieces.Piece
	Target pieces.Piece
	Amount int
}

// ArmorBlocked is published when a Tank's armor absorbs an attack.
type ArmorBlocked struct {
	Target pieces.Piece
	At     geom.Position
}

// KingAuraActivated is published when a threatened LordSolar gains bonus HP.
type KingAuraActivated struct {
	King pieces.Piece
	At   geom.Position
}

// KingAuraDeactivated is published when a LordSolar is no longer threatened.
type KingAuraDeactivated struct {
	King pieces.Piece
	At   geom.Position
}

// ReviveActivated lists the cells offered for a Servitor revive, for highlighting.
type ReviveActivated struct {
	Queen   pieces.Piece
	Targets []geom.Position
}

// ReviveCancelled is published when a pending revive is abandoned.
type ReviveCancelled struct {
	Queen pieces.Piece
}

// PawnRevived is published when a Commissar returns a Servitor to the board.
type PawnRevived struct {
	Pawn  pieces.Piece
	At    geom.Position
	Queen pieces.Piece
}

// PlayerSwitched carries the side that moves next.
type PlayerSwitched struct {
	CurrentPlayer pieces.Color
}

// GameOver is published once, when one side has no LordSolar left.
type GameOver struct {
	Winner pieces.Color
}

func (GameInitialized) EventType() EventType     { return EventGameInitialized }
func (PieceSelected) EventType() EventType       { return EventPieceSelected }
func (PieceMoved) EventType() EventType          { return EventPieceMoved }
func (Attack) EventType() EventType              { return EventAttack }
func (PieceFallen) EventType() EventType         { return EventPieceFallen }
func (Heal) EventType() EventType                { return EventHeal }
func (ArmorBlocked) EventType() EventType        { return EventArmorBlocked }
func (KingAuraActivated) EventType() EventType   { return EventKingAuraActivated }
func (KingAuraDeactivated) EventType() EventType { return EventKingAuraDeactivated }
func (ReviveActivated) EventType() EventType     { return EventReviveActivated }
func (ReviveCancelled) EventType() EventType     { return EventReviveCancelled }
func (PawnRevived) EventType() EventType         { return EventPawnRevived }
func (PlayerSwitched) EventType() EventType      { return EventPlayerSwitched }
func (GameOver) EventType() EventType            { return EventGameOver }

// Event is the envelope delivered to listeners.
type Event struct {
	Type      EventType
	ID        string
	Seq       uint64
	Timestamp time.Time
	Payload   Payload
}

// NewEvent wraps payload in an envelope with a fresh ID and timestamp.
func NewEvent(payload Payload) Event {
	return Event{
		Type:      payload.EventType(),
		ID:        uuid.NewString(),
		Timestamp: time.Now(),
		Payload:   payload,
	}
}

// Listener reacts to a published event.
type Listener func(Event)

type subscription struct {
	handle   int
	typed    bool
	filter   EventType
	callback Listener
}

// EventBus is a synchronous publish/subscribe channel. Listeners run on the
// publisher's goroutine, in subscription order, before Publish returns; there
// is no replay of past events.
//
// Re-entrancy: a listener runs while the publisher is in the middle of a state
// transition. Listeners may subscribe or unsubscribe, but must not call back
// into the publisher to mutate state. Depth reports whether a publish is in
// progress so publishers can refuse such calls.
type EventBus struct {
	mu         sync.Mutex
	subs       []subscription
	nextHandle int
	seq        uint64
	depth      int
}

// NewEventBus constructs a fresh event bus instance.
func NewEventBus() *EventBus {
	return &EventBus{}
}

// Subscribe registers a listener for all events and returns a handle.
func (bus *EventBus) Subscribe(listener Listener) int {
	return bus.add(subscription{callback: listener})
}

// SubscribeTyped registers a listener for one event type.
func (bus *EventBus) SubscribeTyped(eventType EventType, listener Listener) int {
	return bus.add(subscription{typed: true, filter: eventType, callback: listener})
}

func (bus *EventBus) add(sub subscription) int {
	if sub.callback == nil {
		return -1
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	sub.handle = bus.nextHandle
	bus.nextHandle++
	bus.subs = append(bus.subs, sub)
	return sub.handle
}

// Unsubscribe removes the listener identified by handle.
func (bus *EventBus) Unsubscribe(handle int) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	for i, sub := range bus.subs {
		if sub.handle == handle {
			bus.subs = append(bus.subs[:i:i], bus.subs[i+1:]...)
			return
		}
	}
}

// UnsubscribeType removes every listener registered for eventType.
func (bus *EventBus) UnsubscribeType(eventType EventType) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	kept := bus.subs[:0:0]
	for _, sub := range bus.subs {
		if sub.typed && sub.filter == eventType {
			continue
		}
		kept = append(kept, sub)
	}
	bus.subs = kept
}

// Len returns the number of registered listeners.
func (bus *EventBus) Len() int {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	return len(bus.subs)
}

// Depth returns how many Publish calls are currently on the stack.
func (bus *EventBus) Depth() int {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	return bus.depth
}

// Publish wraps payload in an Event and delivers it to every matching
// listener. The listener list is snapshotted first, so subscription changes
// made by a listener take effect from the next Publish.
func (bus *EventBus) Publish(payload Payload) Event {
	event := NewEvent(payload)

	bus.mu.Lock()
	bus.seq++
	event.Seq = bus.seq
	subs := make([]subscription, len(bus.subs))
	copy(subs, bus.subs)
	bus.depth++
	bus.mu.Unlock()

	defer func() {
		bus.mu.Lock()
		bus.depth--
		bus.mu.Unlock()
	}()

	for _, sub := range subs {
		if sub.typed && sub.filter != event.Type {
			continue
		}
		sub.callback(event)
	}
	return event
}
