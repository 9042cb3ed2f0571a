package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestBus(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("delivers only to the owning company", func(t *testing.T) {
		bus := NewBus(zap.NewNop())

		acme, cancelAcme := bus.Subscribe("acme", 4)
		defer cancelAcme()
		other, cancelOther := bus.Subscribe("other", 4)
		defer cancelOther()

		event := NewEvent(ApplicationSubmitted, now)
		event.CompanyID = "acme"
		event.ApplicationID = "a-1"
		bus.Publish(ctx, event)

		select {
		case got := <-acme:
			assert.Equal(t, "a-1", got.ApplicationID)
			assert.NotEmpty(t, got.EventID)
		case <-time.After(time.Second):
			t.Fatal("expected event for acme")
		}

		assert.Empty(t, other)
	})

	t.Run("full subscriber does not block", func(t *testing.T) {
		bus := NewBus(zap.NewNop())
		ch, cancel := bus.Subscribe("acme", 1)
		defer cancel()

		for i := 0; i < 3; i++ {
			e := NewEvent(ApplicationStatusChanged, now)
			e.CompanyID = "acme"
			bus.Publish(ctx, e)
		}

		assert.Len(t, ch, 1)
	})

	t.Run("cancel unsubscribes and closes", func(t *testing.T) {
		bus := NewBus(zap.NewNop())
		ch, cancel := bus.Subscribe("acme", 1)
		require.Equal(t, 1, bus.Subscribers("acme"))

		cancel()
		cancel()

		assert.Equal(t, 0, bus.Subscribers("acme"))
		_, open := <-ch
		assert.False(t, open)
	})
}
