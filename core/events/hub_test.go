package events

import (
	"math/big"
	"testing"
)

func TestHubBroadcastsToSubscribers(t *testing.T) {
	hub := NewHub()
	first, cancelFirst := hub.Subscribe(4)
	second, cancelSecond := hub.Subscribe(4)
	defer cancelSecond()

	hub.Emit(Withdraw{Amount: big.NewInt(1)})
	for _, ch := range []<-chan Event{first, second} {
		select {
		case evt := <-ch:
			if evt.EventType() != TypeWithdraw {
				t.Fatalf("unexpected event: %s", evt.EventType())
			}
		default:
			t.Fatalf("subscriber did not receive the event")
		}
	}

	cancelFirst()
	cancelFirst()
	if _, ok := <-first; ok {
		t.Fatalf("cancelled channel must be closed")
	}
	if hub.Subscribers() != 1 {
		t.Fatalf("expected one subscriber, got %d", hub.Subscribers())
	}
}

func TestHubDropsForSlowSubscriber(t *testing.T) {
	hub := NewHub()
	_, cancel := hub.Subscribe(1)
	defer cancel()

	hub.Emit(Trade{})
	hub.Emit(Cancel{})
	hub.Emit(nil)
	if hub.Dropped() != 1 {
		t.Fatalf("expected one dropped delivery, got %d", hub.Dropped())
	}
}

func TestMultiForwardsInOrder(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	Multi{a, nil, b}.Emit(TokenBurned{})
	if len(a.seen) != 1 || len(b.seen) != 1 || b.seen[0] != TypeTokenBurned {
		t.Fatalf("unexpected fan-out: %v %v", a.seen, b.seen)
	}
}
