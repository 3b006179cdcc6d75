package usermovies

import (
	"context"
	"sync"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is a toast shown to the operator.
type Notification struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Toasts queues notifications until the page drains them on its next render.
type Toasts struct {
	mu    sync.Mutex
	items []Notification
}

func (t *Toasts) Notify(_ context.Context, n Notification) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items = append(t.items, n)
}

// Drain returns the queued notifications in arrival order and empties the queue.
func (t *Toasts) Drain() []Notification {
	t.mu.Lock()
	defer t.mu.Unlock()
	items := t.items
	t.items = nil
	return items
}

// Len reports how many notifications are waiting.
func (t *Toasts) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.items)
}
