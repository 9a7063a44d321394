// Package surface is a retained tree of rectangles that receives pointer
// input. It stands in for a page's document: elements are looked up by id,
// hit tested top-most first, and get enter/leave events as the pointer moves
// between them.
package surface

import (
	"strings"

	"github.com/rapidmidiex/rmxpiano/layout"
)

type (
	Kind int

	PointerEvent struct {
		Kind Kind
		X, Y float64
		// Pressure in 0..1, or 0 when the device does not report it.
		Pressure float64
		// Element the event was delivered to; nil for document listeners
		// when nothing was hit.
		Target *Element
	}

	Handler func(PointerEvent)

	Surface struct {
		root     *Element
		viewport layout.Viewport
		hover    *Element

		document      map[Kind][]*docListener
		listenerCount int
	}

	docListener struct {
		fn   Handler
		live bool
	}
)

const (
	PointerMove Kind = iota
	PointerDown
	PointerUp
	PointerEnter
	PointerLeave
)

func (k Kind) String() string {
	switch k {
	case PointerDown:
		return "pointerdown"
	case PointerUp:
		return "pointerup"
	case PointerEnter:
		return "pointerenter"
	case PointerLeave:
		return "pointerleave"
	default:
		return "pointermove"
	}
}

func New(vp layout.Viewport) *Surface {
	s := &Surface{
		viewport: vp,
		document: make(map[Kind][]*docListener),
	}
	s.root = NewElement("", "root")
	s.root.passThrough = true
	s.root.bounds = layout.Rect{W: vp.Width, H: vp.Height}
	s.root.attach(s)
	return s
}

func (s *Surface) Root() *Element { return s.root }

func (s *Surface) Viewport() layout.Viewport { return s.viewport }

func (s *Surface) SetViewport(vp layout.Viewport) {
	s.viewport = vp
	s.root.bounds = layout.Rect{W: vp.Width, H: vp.Height}
}

// Query finds the first element whose id matches selector. Both "#piano"
// and "piano" are accepted.
func (s *Surface) Query(selector string) *Element {
	id := strings.TrimPrefix(strings.TrimSpace(selector), "#")
	if id == "" {
		return nil
	}
	return s.root.find(func(e *Element) bool { return e.id == id })
}

// OnDocument registers fn for every event of kind, whatever element it hits.
func (s *Surface) OnDocument(kind Kind, fn Handler) func() {
	l := &docListener{fn: fn, live: true}
	s.document[kind] = append(s.document[kind], l)
	s.listenerCount++
	return func() {
		if !l.live {
			return
		}
		l.live = false
		ls := s.document[kind]
		for i, other := range ls {
			if other == l {
				s.document[kind] = append(ls[:i:i], ls[i+1:]...)
				break
			}
		}
		s.listenerCount--
	}
}

// ListenerCount returns the number of live listeners, document ones included.
func (s *Surface) ListenerCount() int { return s.listenerCount }

// Hover returns the element currently under the pointer.
func (s *Surface) Hover() *Element { return s.hover }

// Hit returns the top-most element at (x, y), or nil.
func (s *Surface) Hit(x, y float64) *Element {
	return s.root.hit(x, y)
}

// Dispatch delivers a pointer event. Moving onto a different element first
// sends PointerLeave to the old one and PointerEnter to the new one. Down and
// Up go to the hit element and then to document listeners.
func (s *Surface) Dispatch(ev PointerEvent) {
	target := s.Hit(ev.X, ev.Y)

	if target != s.hover {
		prev := s.hover
		s.hover = target
		if prev != nil && prev.Attached() {
			leave := ev
			leave.Kind = PointerLeave
			prev.fire(leave)
		}
		if target != nil && target.Attached() {
			enter := ev
			enter.Kind = PointerEnter
			target.fire(enter)
		}
	}

	switch ev.Kind {
	case PointerDown, PointerUp:
		if target != nil && target.Attached() {
			target.fire(ev)
		}
		ev.Target = target
		ls := append([]*docListener(nil), s.document[ev.Kind]...)
		for _, l := range ls {
			if l.live {
				l.fn(ev)
			}
		}
	}
}
