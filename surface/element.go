package surface

import (
	"github.com/rapidmidiex/rmxpiano/layout"
)

type (
	Style struct {
		Fill        string
		Border      string
		BorderWidth float64
		Hidden      bool
	}

	Element struct {
		id       string
		class    string
		bounds   layout.Rect
		style    Style
		parent   *Element
		children []*Element
		// Pointer events go through this element to whatever is below.
		passThrough bool

		surface   *Surface
		listeners map[Kind][]*listener
	}

	listener struct {
		fn      Handler
		element *Element
		live    bool
	}
)

func NewElement(id, class string) *Element {
	return &Element{id: id, class: class}
}

func (e *Element) ID() string { return e.id }
func (e *Element) Class() string { return e.class }
func (e *Element) Bounds() layout.Rect { return e.bounds }
func (e *Element) Style() Style { return e.style }
func (e *Element) SetBounds(r layout.Rect) { e.bounds = r }
func (e *Element) SetStyle(s Style) { e.style = s }

func (e *Element) SetPassThrough(v bool) { e.passThrough = v }

// Attached reports whether e is part of a surface.
func (e *Element) Attached() bool { return e.surface != nil }

func (e *Element) Children() []*Element {
	return append([]*Element(nil), e.children...)
}

// Append adds child as the top-most child of e.
func (e *Element) Append(child *Element) {
	if child.parent != nil {
		child.Remove()
	}
	child.parent = e
	e.children = append(e.children, child)
	if e.surface != nil {
		child.attach(e.surface)
	}
}

// Remove detaches e and its subtree and releases every listener registered
// on them.
func (e *Element) Remove() {
	if p := e.parent; p != nil {
		for i, c := range p.children {
			if c == e {
				p.children = append(p.children[:i:i], p.children[i+1:]...)
				break
			}
		}
		e.parent = nil
	}
	e.detach()
}

// Listen registers fn for events of kind on e. The returned func cancels it.
func (e *Element) Listen(kind Kind, fn Handler) func() {
	if e.listeners == nil {
		e.listeners = make(map[Kind][]*listener)
	}
	l := &listener{fn: fn, element: e, live: true}
	e.listeners[kind] = append(e.listeners[kind], l)
	if e.surface != nil {
		e.surface.listenerCount++
	}
	return func() { e.unlisten(kind, l) }
}

func (e *Element) unlisten(kind Kind, l *listener) {
	if !l.live {
		return
	}
	l.live = false
	ls := e.listeners[kind]
	for i, other := range ls {
		if other == l {
			e.listeners[kind] = append(ls[:i:i], ls[i+1:]...)
			break
		}
	}
	if e.surface != nil {
		e.surface.listenerCount--
	}
}

func (e *Element) fire(ev PointerEvent) {
	ev.Target = e
	ls := append([]*listener(nil), e.listeners[ev.Kind]...)
	for _, l := range ls {
		if l.live {
			l.fn(ev)
		}
	}
}

func (e *Element) attach(s *Surface) {
	e.surface = s
	for _, ls := range e.listeners {
		s.listenerCount += len(ls)
	}
	for _, c := range e.children {
		c.attach(s)
	}
}

func (e *Element) detach() {
	for _, c := range e.children {
		c.detach()
	}
	for kind, ls := range e.listeners {
		for _, l := range ls {
			l.live = false
		}
		if e.surface != nil {
			e.surface.listenerCount -= len(ls)
		}
		delete(e.listeners, kind)
	}
	if e.surface != nil && e.surface.hover == e {
		e.surface.hover = nil
	}
	e.surface = nil
}

// hit returns the top-most element under (x, y). Later children are on top.
func (e *Element) hit(x, y float64) *Element {
	if e.style.Hidden {
		return nil
	}
	for i := len(e.children) - 1; i >= 0; i-- {
		if h := e.children[i].hit(x, y); h != nil {
			return h
		}
	}
	if !e.passThrough && e.bounds.Contains(x, y) {
		return e
	}
	return nil
}

func (e *Element) find(match func(*Element) bool) *Element {
	if match(e) {
		return e
	}
	for _, c := range e.children {
		if f := c.find(match); f != nil {
			return f
		}
	}
	return nil
}
