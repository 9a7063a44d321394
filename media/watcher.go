package media

import (
	"github.com/rapidmidiex/rmxpiano/layout"
)

type (
	// Match is handed to callbacks whenever a query is (re)evaluated.
	Match struct {
		Media   string
		Matches bool
	}

	Watcher[T any] struct {
		viewport layout.Viewport
		watches  []*watch[T]
	}

	watch[T any] struct {
		query   Query
		target  T
		fn      func(T, Match)
		matches bool
		live    bool
	}
)

func NewWatcher[T any](vp layout.Viewport) *Watcher[T] {
	return &Watcher[T]{viewport: vp}
}

// Add registers fn for query. fn runs once right away with the current state
// and then every time the state flips during Update. The returned func
// cancels the registration.
func (w *Watcher[T]) Add(query string, target T, fn func(T, Match)) (func(), error) {
	q, err := Parse(query)
	if err != nil {
		return nil, err
	}
	wt := &watch[T]{query: q, target: target, fn: fn, live: true}
	wt.matches = q.Matches(w.viewport)
	w.watches = append(w.watches, wt)
	fn(target, Match{Media: query, Matches: wt.matches})
	return func() { w.remove(wt) }, nil
}

// Update re-evaluates every query against vp.
func (w *Watcher[T]) Update(vp layout.Viewport) {
	w.viewport = vp
	for _, wt := range append([]*watch[T](nil), w.watches...) {
		if !wt.live {
			continue
		}
		m := wt.query.Matches(vp)
		if m == wt.matches {
			continue
		}
		wt.matches = m
		wt.fn(wt.target, Match{Media: wt.query.String(), Matches: m})
	}
}

// Len returns the number of live registrations.
func (w *Watcher[T]) Len() int { return len(w.watches) }

// Close cancels every registration.
func (w *Watcher[T]) Close() {
	for _, wt := range w.watches {
		wt.live = false
	}
	w.watches = nil
}

func (w *Watcher[T]) remove(wt *watch[T]) {
	if !wt.live {
		return
	}
	wt.live = false
	for i, other := range w.watches {
		if other == wt {
			w.watches = append(w.watches[:i:i], w.watches[i+1:]...)
			return
		}
	}
}
