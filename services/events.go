// services/events.go - Outbound progression events
package services

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Event types produced by the progression engine, consumed by the
// notification/websocket relay.
const (
	EventAchievementUnlocked = "achievement_unlocked"
	EventAchievementRevoked  = "achievement_revoked"
	EventLevelUp             = "level_up"
	EventStreakRecord        = "streak_record"
)

// Streak record kinds carried by EventStreakRecord.
const (
	StreakKindMonthly  = "monthly"
	StreakKindLifetime = "lifetime"
	StreakKindWin      = "win"
)

type Event struct {
	ID     string         `json:"id"`
	Type   string         `json:"type"`
	UserID uint           `json:"user_id"`
	At     time.Time      `json:"at"`
	Data   map[string]any `json:"data,omitempty"`
}

// EventBus fans events out to subscribers. Subscribers get a buffered
// channel; a slow subscriber drops events rather than blocking the
// publishing pipeline.
type EventBus struct {
	mu   sync.RWMutex
	subs map[uint][]chan Event // userID -> subscriber channels
	all  []chan Event          // firehose subscribers
}

func NewEventBus() *EventBus {
	return &EventBus{subs: make(map[uint][]chan Event)}
}

// Publish delivers an event to the user's subscribers and the firehose.
func (b *EventBus) Publish(evt Event) {
	if evt.ID == "" {
		evt.ID = uuid.New().String()
	}
	if evt.At.IsZero() {
		evt.At = time.Now()
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, ch := range b.subs[evt.UserID] {
		select {
		case ch <- evt:
		default:
		}
	}
	for _, ch := range b.all {
		select {
		case ch <- evt:
		default:
		}
	}
}

// Subscribe registers a channel for one user's events. userID 0 subscribes
// to all users. The returned function unsubscribes and closes the channel.
func (b *EventBus) Subscribe(userID uint) (<-chan Event, func()) {
	ch := make(chan Event, 64)

	b.mu.Lock()
	if userID == 0 {
		b.all = append(b.all, ch)
	} else {
		b.subs[userID] = append(b.subs[userID], ch)
	}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if userID == 0 {
			b.all = removeChan(b.all, ch)
		} else {
			b.subs[userID] = removeChan(b.subs[userID], ch)
			if len(b.subs[userID]) == 0 {
				delete(b.subs, userID)
			}
		}
		close(ch)
	}
	return ch, cancel
}

func removeChan(chans []chan Event, target chan Event) []chan Event {
	out := chans[:0]
	for _, ch := range chans {
		if ch != target {
			out = append(out, ch)
		}
	}
	return out
}
