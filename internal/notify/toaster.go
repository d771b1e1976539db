// Package notify holds the short-lived feedback state shared by the
// controllers: the toast queue and the confirmation bridge.
package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Kind classifies a toast.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// DefaultTTL is how long a toast stays queued without dismissal.
const DefaultTTL = 3500 * time.Millisecond

// Toast is one queued notification.
type Toast struct {
	ID        string
	Message   string
	Kind      Kind
	CreatedAt time.Time
}

// Sink receives each toast as it is pushed.
type Sink func(Toast)

// Toaster is an append-only toast queue whose entries expire on their own.
type Toaster struct {
	mu     sync.Mutex
	ttl    time.Duration
	sink   Sink
	items  []Toast
	timers map[string]*time.Timer
	closed bool
}

// NewToaster builds a queue. A non-positive ttl falls back to DefaultTTL.
func NewToaster(ttl time.Duration, sink Sink) *Toaster {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Toaster{ttl: ttl, sink: sink, timers: map[string]*time.Timer{}}
}

// Success queues a success toast.
func (t *Toaster) Success(message string) Toast {
	return t.Push(message, KindSuccess)
}

// Error queues an error toast.
func (t *Toaster) Error(message string) Toast {
	return t.Push(message, KindError)
}

// Push queues a toast. Identical messages each get their own entry.
func (t *Toaster) Push(message string, kind Kind) Toast {
	toast := Toast{ID: newToastID(), Message: message, Kind: kind, CreatedAt: time.Now()}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return toast
	}
	t.items = append(t.items, toast)
	id := toast.ID
	t.timers[id] = time.AfterFunc(t.ttl, func() { t.Dismiss(id) })
	sink := t.sink
	t.mu.Unlock()

	if sink != nil {
		sink(toast)
	}
	return toast
}

// Dismiss removes a toast immediately. Unknown ids are ignored.
func (t *Toaster) Dismiss(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if timer, ok := t.timers[id]; ok {
		timer.Stop()
		delete(t.timers, id)
	}
	for i, item := range t.items {
		if item.ID == id {
			t.items = append(t.items[:i:i], t.items[i+1:]...)
			return
		}
	}
}

// List returns the queued toasts, oldest first.
func (t *Toaster) List() []Toast {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Toast, len(t.items))
	copy(out, t.items)
	return out
}

// Close stops every pending expiry and drops the queue.
func (t *Toaster) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for id, timer := range t.timers {
		timer.Stop()
		delete(t.timers, id)
	}
	t.items = nil
	t.closed = true
}

func newToastID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
