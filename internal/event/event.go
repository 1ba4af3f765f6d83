// Package event carries game progress notifications from the engine to
// observers (the SSE handler, the console renderer, tests). The engine only
// knows the Sink interface; fan-out and slow-subscriber handling live in Bus.
package event

import (
	"sync"
	"time"

	"github.com/jacky88927/werewolf-llm-game/internal/domain"
)

type Kind string

const (
	KindPhase       Kind = "phase"
	KindDeath       Kind = "death"
	KindDiscussion  Kind = "discussion"
	KindVote        Kind = "vote"
	KindElimination Kind = "elimination"
	KindGameOver    Kind = "gameover"
	KindError       Kind = "error"
)

// Event is one progress notification. Fields beyond Kind/GameID are set per
// kind: Phase for phase changes, Death for deaths and eliminations,
// Discussion for speeches, Message for errors and game-over summaries.
type Event struct {
	Kind       Kind               `json:"kind"`
	GameID     string             `json:"game_id"`
	Day        int                `json:"day"`
	Phase      domain.Phase       `json:"phase,omitempty"`
	Death      *domain.Death      `json:"death,omitempty"`
	Discussion *domain.Discussion `json:"discussion,omitempty"`
	Tally      map[int]int        `json:"tally,omitempty"`
	Winner     domain.Team        `json:"winner,omitempty"`
	Message    string             `json:"message,omitempty"`
}

// Sink receives events. Publish must not block the engine indefinitely.
type Sink interface {
	Publish(ev Event)
}

// Discard is a Sink that drops everything.
type Discard struct{}

func (Discard) Publish(Event) {}

// Bus fans events out to subscribers. A subscriber that cannot accept an
// event within sendTimeout loses that event rather than stalling the game.
type Bus struct {
	mu   sync.RWMutex
	subs map[chan Event]struct{}

	sendTimeout time.Duration
}

func NewBus() *Bus {
	return &Bus{
		subs:        make(map[chan Event]struct{}),
		sendTimeout: 2 * time.Second,
	}
}

// Subscribe registers a buffered channel for events. Call the returned
// cancel func to unsubscribe; the channel is closed by it.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, 64)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, cancel
}

// Publish delivers ev to every subscriber. The read lock is held across the
// sends so an unsubscribe (which closes the channel) cannot race a send; the
// per-send timeout bounds how long a slow subscriber can hold things up.
func (b *Bus) Publish(ev Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for ch := range b.subs {
		select {
		case ch <- ev:
		case <-time.After(b.sendTimeout):
			// Dropped; the subscriber fell too far behind.
		}
	}
}
