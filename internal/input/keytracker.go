package input

import (
	"sync"
	"time"
)

// Terminals report key presses and auto-repeats but never releases. A key
// counts as down until no repeat arrived for the hold window. The first
// press waits longer because the OS repeat delay exceeds the repeat rate.
const (
	DefaultFirstHold  = 550 * time.Millisecond
	DefaultRepeatHold = 120 * time.Millisecond
)

type keyState struct {
	last    time.Time
	repeats int
}

// KeyTracker synthesises key levels from press events. It is safe for one
// goroutine to Press while another polls IsDown.
type KeyTracker struct {
	FirstHold  time.Duration
	RepeatHold time.Duration

	mu   sync.Mutex
	keys map[string]*keyState
	now  func() time.Time
}

func NewKeyTracker() *KeyTracker {
	return &KeyTracker{
		FirstHold:  DefaultFirstHold,
		RepeatHold: DefaultRepeatHold,
		keys:       make(map[string]*keyState),
		now:        time.Now,
	}
}

// Press records a press or repeat of key.
func (t *KeyTracker) Press(key string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	ks, ok := t.keys[key]
	if !ok || !t.downLocked(ks, now) {
		t.keys[key] = &keyState{last: now}
		return
	}
	ks.last = now
	ks.repeats++
}

// Release forgets key immediately, for terminals that do report releases.
func (t *KeyTracker) Release(key string) {
	t.mu.Lock()
	delete(t.keys, key)
	t.mu.Unlock()
}

// IsDown reports whether key is considered held now.
func (t *KeyTracker) IsDown(key string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	ks, ok := t.keys[key]
	if !ok {
		return false
	}
	if !t.downLocked(ks, t.now()) {
		delete(t.keys, key)
		return false
	}
	return true
}

func (t *KeyTracker) downLocked(ks *keyState, now time.Time) bool {
	window := t.RepeatHold
	if ks.repeats == 0 {
		window = t.FirstHold
	}
	return now.Sub(ks.last) <= window
}
