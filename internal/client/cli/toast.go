package cli

import (
	"fmt"
	"io"
	"sync"
	"time"
)

type ToastKind string

const (
	ToastInfo    ToastKind = "info"
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
)

// Toast is the one-line status message. Show prints it and keeps it visible
// until ttl elapses or another message replaces it; ttl <= 0 never expires.
type Toast struct {
	mu      sync.Mutex
	out     io.Writer
	kind    ToastKind
	text    string
	visible bool
	timer   *time.Timer
}

func NewToast(out io.Writer) *Toast {
	return &Toast{out: out}
}

func (t *Toast) Show(kind ToastKind, text string, ttl time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.kind, t.text, t.visible = kind, text, true
	fmt.Fprintf(t.out, "[%s] %s\n", kind, text)

	if ttl > 0 {
		var timer *time.Timer
		timer = time.AfterFunc(ttl, func() {
			t.mu.Lock()
			defer t.mu.Unlock()
			// a newer Show owns the toast now
			if t.timer == timer {
				t.visible = false
				t.timer = nil
			}
		})
		t.timer = timer
	}
}

// Current returns the visible message, if any.
func (t *Toast) Current() (ToastKind, string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.kind, t.text, t.visible
}
