package adapter

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/user/uplink-client/internal/models"
)

func TestBusBroadcastsToEverySubscriber(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	first, stop1 := bus.Subscribe()
	defer stop1()
	second, stop2 := bus.Subscribe()
	defer stop2()

	ev := models.ConversationDeletedEvent{ID: uuid.New()}
	bus.Publish(ev)

	for i, ch := range []<-chan models.Event{first, second} {
		select {
		case got := <-ch:
			if got != models.Event(ev) {
				t.Fatalf("subscriber %d got wrong event %T", i, got)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d never got the event", i)
		}
	}
}

func TestBusUnsubscribeClosesChannel(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	ch, stop := bus.Subscribe()
	stop()
	if _, ok := <-ch; ok {
		t.Fatal("unsubscribed channel should be closed")
	}
	stop()

	bus.Publish(models.CallEndedEvent{CallID: uuid.New()})
}

func TestBusDropsWhenSubscriberFull(t *testing.T) {
	bus := NewBus()
	defer bus.Close()

	slow, stop := bus.Subscribe()
	defer stop()

	for i := 0; i < subscriberBuffer+10; i++ {
		bus.Publish(models.CallEndedEvent{CallID: uuid.New()})
	}

	drained := 0
	for {
		select {
		case <-slow:
			drained++
			continue
		default:
		}
		break
	}
	if drained != subscriberBuffer {
		t.Fatalf("want %d buffered events, got %d", subscriberBuffer, drained)
	}
}
