package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warchess/warchess-go/internal/game/pieces"
)

func TestEventBusDeliversInSubscriptionOrder(t *testing.T) {
	bus := NewEventBus()

	var order []string
	for _, name := range []string{"first", "second", "third"} {
		name := name
		bus.Subscribe(func(Event) { order = append(order, name) })
	}

	bus.Publish(GameInitialized{})
	assert.Equal(t, []string{"first", "second", "third"}, order)
}

func TestEventBusSubscribeTyped(t *testing.T) {
	bus := NewEventBus()

	switched := 0
	over := 0
	h1 := bus.SubscribeTyped(EventPlayerSwitched, func(e Event) {
		switched++
		payload, ok := e.Payload.(PlayerSwitched)
		require.True(t, ok)
		assert.Equal(t, pieces.Black, payload.CurrentPlayer)
	})
	bus.SubscribeTyped(EventGameOver, func(Event) { over++ })

	bus.Publish(PlayerSwitched{CurrentPlayer: pieces.Black})
	assert.Equal(t, 1, switched)
	assert.Equal(t, 0, over)

	bus.Unsubscribe(h1)
	bus.Publish(PlayerSwitched{CurrentPlayer: pieces.Black})
	assert.Equal(t, 1, switched)

	bus.Publish(GameOver{Winner: pieces.White})
	assert.Equal(t, 1, over)

	bus.UnsubscribeType(EventGameOver)
	bus.Publish(GameOver{Winner: pieces.White})
	assert.Equal(t, 1, over)
	assert.Zero(t, bus.Len())
}

func TestEventBusSequenceAndDepth(t *testing.T) {
	bus := NewEventBus()

	depths := []int{}
	bus.Subscribe(func(Event) { depths = append(depths, bus.Depth()) })

	first := bus.Publish(GameInitialized{})
	second := bus.Publish(PlayerSwitched{})

	assert.Equal(t, uint64(1), first.Seq)
	assert.Equal(t, uint64(2), second.Seq)
	assert.Equal(t, EventGameInitialized, first.Type)
	assert.NotEmpty(t, first.ID)
	assert.False(t, first.Timestamp.IsZero())
	assert.Equal(t, []int{1, 1}, depths)
	assert.Zero(t, bus.Depth())
}

func TestEventBusSubscribeDuringPublish(t *testing.T) {
	bus := NewEventBus()

	late := 0
	bus.Subscribe(func(Event) {
		bus.Subscribe(func(Event) { late++ })
	})

	bus.Publish(GameInitialized{})
	assert.Zero(t, late, "listeners added during delivery wait for the next event")

	bus.Publish(GameInitialized{})
	assert.Equal(t, 1, late)
}

func TestEventBusIgnoresNilListener(t *testing.T) {
	bus := NewEventBus()
	assert.Equal(t, -1, bus.Subscribe(nil))
	assert.Zero(t, bus.Len())
}

func TestEventTypes(t *testing.T) {
	payloads := []Payload{
		GameInitialized{}, PieceSelected{}, PieceMoved{}, Attack{}, PieceFallen{},
		Heal{}, ArmorBlocked{}, KingAuraActivated{}, KingAuraDeactivated{},
		ReviveActivated{}, ReviveCancelled{}, PawnRevived{}, PlayerSwitched{}, GameOver{},
	}
	require.Len(t, payloads, len(AllEventTypes))
	for i, p := range payloads {
		assert.Equal(t, AllEventTypes[i], p.EventType())
		assert.True(t, p.EventType().Valid())
	}
	assert.False(t, EventType("spellCast").Valid())
}
