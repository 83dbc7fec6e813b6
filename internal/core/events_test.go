package core_test

import (
	"testing"
	"time"

	"stockmaster/internal/core"
)

func TestChangeBus_FanOut(t *testing.T) {
	bus := core.NewChangeBus()
	a := bus.Subscribe(4)
	b := bus.Subscribe(4)

	bus.Publish(core.ChangeEvent{Kind: core.ChangeItem, ItemID: "i1"})

	for name, ch := range map[string]<-chan core.ChangeEvent{"a": a, "b": b} {
		select {
		case ev := <-ch:
			if ev.ItemID != "i1" {
				t.Errorf("subscriber %s got ItemID %q", name, ev.ItemID)
			}
			if ev.At.IsZero() {
				t.Errorf("subscriber %s got zero timestamp", name)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %s did not receive the event", name)
		}
	}
}

func TestChangeBus_SlowSubscriberDoesNotBlock(t *testing.T) {
	bus := core.NewChangeBus()
	slow := bus.Subscribe(1)
	fast := bus.Subscribe(8)

	// Fill the slow subscriber's buffer, then keep publishing.
	for i := 0; i < 5; i++ {
		bus.Publish(core.ChangeEvent{Kind: core.ChangeTransaction})
	}

	// The fast subscriber saw everything its buffer could hold.
	got := 0
	for {
		select {
		case <-fast:
			got++
			continue
		default:
		}
		break
	}
	if got != 5 {
		t.Errorf("fast subscriber received %d events, want 5", got)
	}

	// The slow one kept only one; the rest were dropped, not queued.
	if n := len(slow); n != 1 {
		t.Errorf("slow subscriber buffered %d events, want 1", n)
	}
}
