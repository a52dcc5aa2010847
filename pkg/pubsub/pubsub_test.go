package pubsub_test

import (
	"bytes"
	"io"
	"log/slog"
	"testing"

	"github.com/clambin/lights/pkg/pubsub"
	"github.com/stretchr/testify/assert"
)

func TestPublisher(t *testing.T) {
	p := pubsub.New[string](slog.New(slog.NewTextHandler(io.Discard, nil)))
	ch1 := p.Subscribe()
	ch2 := p.Subscribe()
	assert.Equal(t, 2, p.Subscribers())

	assert.Equal(t, 2, p.Publish("myZonePreset1"))
	assert.Equal(t, "myZonePreset1", <-ch1)
	assert.Equal(t, "myZonePreset1", <-ch2)

	p.Unsubscribe(ch1)
	assert.Equal(t, 1, p.Subscribers())
	p.Unsubscribe(ch2)
	assert.Zero(t, p.Subscribers())
	assert.Zero(t, p.Publish("myZonePreset2"))
}

func TestPublisher_SlowSubscriber(t *testing.T) {
	var out bytes.Buffer
	p := pubsub.NewWithBuffer[int](2, slog.New(slog.NewTextHandler(&out, nil)))
	ch := p.Subscribe()

	for i := range 5 {
		p.Publish(i)
	}
	assert.Len(t, ch, 2)
	assert.Equal(t, 0, <-ch)
	assert.Equal(t, 1, <-ch)
	assert.Empty(t, out.String())

	assert.Equal(t, 1, p.Publish(5))
	assert.Equal(t, 5, <-ch)
	assert.Contains(t, out.String(), "msg=\"subscriber missed messages\" dropped=3")
}
