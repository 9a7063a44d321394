// Package event is a small synchronous publish/subscribe bus.
package event

type (
	// Handler receives a payload. A non-nil error stops delivery of the
	// current Emit and is returned to its caller.
	Handler[T any] func(payload T) error

	Bus[T any] struct {
		next     int
		handlers map[string][]*Subscription[T]
	}

	Subscription[T any] struct {
		id   int
		name string
		fn   Handler[T]
		bus  *Bus[T]
	}
)

func NewBus[T any]() *Bus[T] {
	return &Bus[T]{handlers: make(map[string][]*Subscription[T])}
}

// On subscribes fn to name. Handlers run in subscription order.
func (b *Bus[T]) On(name string, fn Handler[T]) *Subscription[T] {
	b.next++
	s := &Subscription[T]{id: b.next, name: name, fn: fn, bus: b}
	b.handlers[name] = append(b.handlers[name], s)
	return s
}

// Emit calls every handler of name on the calling goroutine. Handlers added
// or removed while emitting take effect on the next Emit.
func (b *Bus[T]) Emit(name string, payload T) error {
	subs := append([]*Subscription[T](nil), b.handlers[name]...)
	for _, s := range subs {
		if err := s.fn(payload); err != nil {
			return err
		}
	}
	return nil
}

// Len returns the number of handlers subscribed to name.
func (b *Bus[T]) Len(name string) int {
	return len(b.handlers[name])
}

// Clear drops every subscription.
func (b *Bus[T]) Clear() {
	for name, subs := range b.handlers {
		for _, s := range subs {
			s.bus = nil
		}
		delete(b.handlers, name)
	}
}

// Off unsubscribes. Calling it more than once is a no-op.
func (s *Subscription[T]) Off() {
	if s == nil || s.bus == nil {
		return
	}
	subs := s.bus.handlers[s.name]
	for i, other := range subs {
		if other.id == s.id {
			s.bus.handlers[s.name] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	if len(s.bus.handlers[s.name]) == 0 {
		delete(s.bus.handlers, s.name)
	}
	s.bus = nil
}
