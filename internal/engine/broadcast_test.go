package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcaster_FanOut(t *testing.T) {
	b := NewBroadcaster[int](nil)
	first, cancelFirst := b.Subscribe(4)
	second, cancelSecond := b.Subscribe(4)
	defer cancelSecond()

	b.Publish(1)
	cancelFirst()
	b.Publish(2)

	assert.Equal(t, 1, <-first)
	_, open := <-first
	assert.False(t, open, "unsubscribed channel is closed")

	assert.Equal(t, 1, <-second)
	assert.Equal(t, 2, <-second)
	assert.Equal(t, 1, b.Len())
}

func TestBroadcaster_DropsForSlowSubscriber(t *testing.T) {
	drops := 0
	b := NewBroadcaster[string](func() { drops++ })
	ch, cancel := b.Subscribe(1)
	defer cancel()

	b.Publish("a")
	b.Publish("b")
	b.Publish("c")

	assert.Equal(t, 2, drops)
	assert.Equal(t, "a", <-ch)
}

func TestBroadcaster_Close(t *testing.T) {
	b := NewBroadcaster[int](nil)
	ch, cancel := b.Subscribe(1)

	b.Close()
	b.Close()
	cancel()

	_, open := <-ch
	assert.False(t, open)

	late, _ := b.Subscribe(1)
	_, open = <-late
	require.False(t, open, "subscribe after close returns a closed channel")
	b.Publish(1)
}
