package core

import (
	"sync"
	"time"
)

// ChangeKind identifies what part of the system state changed.
type ChangeKind string

const (
	ChangeItem        ChangeKind = "item"
	ChangeTransaction ChangeKind = "transaction"
	ChangeWarehouse   ChangeKind = "warehouse"
)

// ChangeEvent is a notification that the stock ledger, transaction log, or
// warehouse set changed. Events carry identifiers, not state: subscribers
// reload a fresh snapshot and recompute derived views, keeping
// reconciliation a pure function of the latest data.
type ChangeEvent struct {
	Kind        ChangeKind
	WarehouseID string
	ItemID      string
	TxType      TransactionType // set for ChangeTransaction
	At          time.Time
}

// ChangeBus fans change events out to subscribers. Publishing never blocks:
// a subscriber that falls behind loses events, which is acceptable because
// consumers recompute from snapshots rather than replaying deltas.
type ChangeBus struct {
	mu   sync.Mutex
	subs []chan ChangeEvent
}

func NewChangeBus() *ChangeBus {
	return &ChangeBus{}
}

// Subscribe registers a new subscriber with the given channel buffer.
func (b *ChangeBus) Subscribe(buffer int) <-chan ChangeEvent {
	ch := make(chan ChangeEvent, buffer)
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()
	return ch
}

// Publish delivers ev to every subscriber, dropping it for any subscriber
// whose buffer is full.
func (b *ChangeBus) Publish(ev ChangeEvent) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
		default:
		}
	}
}
