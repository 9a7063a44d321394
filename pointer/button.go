// Package pointer tracks whether the primary mouse button is held down.
//
// The state is shared by every keyboard in the process, the same way a page
// has one physical mouse: a drag that starts on one keyboard, or outside any
// keyboard, is seen as "button down" by all of them. The shared tracker is
// created on first use and lives for the rest of the process.
package pointer

import (
	"sync"
	"sync/atomic"

	"github.com/rapidmidiex/rmxpiano/surface"
)

type (
	ButtonState interface {
		Down() bool
	}

	// Document is where button presses are observed.
	Document interface {
		OnDocument(kind surface.Kind, fn surface.Handler) func()
	}

	Tracker struct {
		down atomic.Bool

		mu      sync.Mutex
		tracked map[Document]struct{}
	}
)

var shared = NewTracker()

// Shared returns the process-wide tracker.
func Shared() *Tracker { return shared }

func NewTracker() *Tracker {
	return &Tracker{tracked: make(map[Document]struct{})}
}

func (t *Tracker) Down() bool { return t.down.Load() }
func (t *Tracker) Press() { t.down.Store(true) }
func (t *Tracker) Release() { t.down.Store(false) }

// Track follows presses and releases anywhere on doc. Tracking the same
// document twice is a no-op. There is no way to stop tracking.
func (t *Tracker) Track(doc Document) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.tracked[doc]; ok {
		return
	}
	t.tracked[doc] = struct{}{}
	doc.OnDocument(surface.PointerDown, func(surface.PointerEvent) { t.Press() })
	doc.OnDocument(surface.PointerUp, func(surface.PointerEvent) { t.Release() })
}

// Fixed is a ButtonState that never changes, for tests.
type Fixed bool

func (f Fixed) Down() bool { return bool(f) }
