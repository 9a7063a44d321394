// Package keyboard is an interactive piano keyboard drawn on a surface.
//
// Keys are laid out by package layout and materialized as surface elements.
// Pointer input turns keys on and off; every change of a key is published as
// a "noteOn" or "noteOff" event. A Keyboard is not safe for concurrent use:
// drive it from the goroutine that dispatches pointer events.
package keyboard

import (
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/google/uuid"

	"github.com/rapidmidiex/rmxpiano/event"
	"github.com/rapidmidiex/rmxpiano/layout"
	"github.com/rapidmidiex/rmxpiano/media"
	"github.com/rapidmidiex/rmxpiano/pointer"
	"github.com/rapidmidiex/rmxpiano/surface"
	"github.com/rapidmidiex/rmxpiano/theme"
)

type (
	// Document is the page a keyboard is created in.
	Document interface {
		Query(selector string) *surface.Element
		Viewport() layout.Viewport
		OnDocument(kind surface.Kind, fn surface.Handler) func()
	}

	// Rule is called with the keyboard whenever its media query starts or
	// stops matching, and once when it is registered.
	Rule func(k *Keyboard, m media.Match)

	// Rules maps media queries, ex: "(max-width: 600px)", to rules.
	Rules map[string]Rule

	Opt func(*Keyboard)

	Keyboard struct {
		id        string
		doc       Document
		container *surface.Element
		root      *surface.Element

		settings Settings
		layout   layout.Layout
		keys     map[int]*key

		bus     *event.Bus[NoteEvent]
		buttons pointer.ButtonState
		media   *media.Watcher[*Keyboard]
		log     *log.Logger
		torn    bool
	}
)

var (
	ErrNotFound        = errors.New("element not found")
	ErrNotMounted      = errors.New("keyboard is not mounted")
	ErrTornDown        = errors.New("keyboard was torn down")
	ErrNoteOutOfRange  = errors.New("note outside of keyboard range")
	ErrInvalidVelocity = errors.New("velocity outside 0..127")
)

// WithButtons replaces the shared mouse button state.
func WithButtons(b pointer.ButtonState) Opt {
	return func(k *Keyboard) { k.buttons = b }
}

func WithLogger(l *log.Logger) Opt {
	return func(k *Keyboard) { k.log = l }
}

// Create builds a keyboard inside the element matched by selector and
// registers rules. Invalid entries in opts are ignored.
func Create(doc Document, selector string, opts Options, rules Rules, configure ...Opt) (*Keyboard, error) {
	container := doc.Query(selector)
	if container == nil {
		return nil, fmt.Errorf("%w: could not find element matching %q", ErrNotFound, selector)
	}

	k := New(doc, opts, configure...)
	if err := k.Mount(container); err != nil {
		return nil, err
	}

	queries := make([]string, 0, len(rules))
	for q := range rules {
		queries = append(queries, q)
	}
	sort.Strings(queries)
	for _, q := range queries {
		if err := k.AddRule(q, rules[q]); err != nil {
			_ = k.Teardown()
			return nil, err
		}
	}
	return k, nil
}

// New returns an unmounted keyboard.
func New(doc Document, opts Options, configure ...Opt) *Keyboard {
	k := &Keyboard{
		id:      uuid.NewString(),
		doc:     doc,
		keys:    make(map[int]*key),
		bus:     event.NewBus[NoteEvent](),
		buttons: pointer.Shared(),
		log:     log.Default(),
	}
	for _, c := range configure {
		c(k)
	}
	k.media = media.NewWatcher[*Keyboard](doc.Viewport())

	var dropped []string
	k.settings, dropped = DefaultSettings().Merge(opts)
	if len(dropped) > 0 {
		k.log.Printf("keyboard %s: ignoring invalid options: %v", k.id, dropped)
	}
	return k
}

// Mount draws the keyboard into container.
func (k *Keyboard) Mount(container *surface.Element) error {
	if k.torn {
		return ErrTornDown
	}
	if tr, ok := k.buttons.(*pointer.Tracker); ok {
		tr.Track(k.doc)
	}
	l, err := layout.Compute(k.settings.Range, k.settings.layoutOptions())
	if err != nil {
		return fmt.Errorf("mount: %w", err)
	}
	if k.root != nil {
		k.root.Remove()
		k.root = nil
	}
	k.container = container
	return k.render(l)
}

func (k *Keyboard) ID() string { return k.id }

// On subscribes fn to NoteOn or NoteOff.
func (k *Keyboard) On(name string, fn event.Handler[NoteEvent]) *event.Subscription[NoteEvent] {
	return k.bus.On(name, fn)
}

// AddRule registers a viewport rule; it runs once immediately.
func (k *Keyboard) AddRule(query string, rule Rule) error {
	if k.torn {
		return ErrTornDown
	}
	_, err := k.media.Add(query, k, func(k *Keyboard, m media.Match) {
		if !k.torn {
			rule(k, m)
		}
	})
	if err != nil {
		return fmt.Errorf("rule: %w", err)
	}
	return nil
}

// Refresh re-evaluates the viewport rules and lays the keys out again. Call
// it after the document viewport or the container bounds changed.
func (k *Keyboard) Refresh() error {
	if k.torn {
		return ErrTornDown
	}
	k.media.Update(k.doc.Viewport())
	return k.update(func(*Settings) error { return nil })
}

func (k *Keyboard) Settings() Settings { return k.settings }

func (k *Keyboard) Layout() layout.Layout { return k.layout }

// Range returns the inclusive note range.
func (k *Keyboard) Range() [2]int {
	return [2]int{k.settings.Range.Low, k.settings.Range.High}
}

// SetRange changes the range; bounds on black keys move down to the white
// key below.
func (k *Keyboard) SetRange(low, high int) error {
	return k.update(func(s *Settings) error {
		return s.setRange(low, high)
	})
}

// Size returns the declared width and height, ex: ["800px", "125px"].
func (k *Keyboard) Size() [2]string {
	return k.settings.Size.Strings()
}

func (k *Keyboard) SetSize(width, height string) error {
	return k.update(func(s *Settings) error {
		return s.setSize(width, height)
	})
}

// SetSizeAndRange changes both with a single relayout.
func (k *Keyboard) SetSizeAndRange(size [2]string, rng [2]int) error {
	return k.update(func(s *Settings) error {
		if err := s.setSize(size[0], size[1]); err != nil {
			return err
		}
		return s.setRange(rng[0], rng[1])
	})
}

func (k *Keyboard) Colors() theme.Theme { return k.settings.Colors }

// SetColors applies the known roles of partial. Unknown roles and bad colors
// are ignored.
func (k *Keyboard) SetColors(partial map[string]string) {
	var dropped []string
	_ = k.update(func(s *Settings) error {
		s.Colors, dropped = s.Colors.Merge(partial)
		return nil
	})
	if len(dropped) > 0 {
		k.log.Printf("keyboard %s: ignoring invalid colors: %v", k.id, dropped)
	}
}

func (k *Keyboard) SetBlackKeyWidthRatio(ratio float64) error {
	return k.update(func(s *Settings) error {
		if ratio < 0 || ratio > 1 {
			return fmt.Errorf("%w: %v", layout.ErrInvalidRatio, ratio)
		}
		s.BlackKeyWidthRatio = ratio
		return nil
	})
}

// SetBlackKeyHeight sets the black key height in percent of the keyboard.
func (k *Keyboard) SetBlackKeyHeight(percent float64) error {
	return k.update(func(s *Settings) error {
		if percent < 0 || percent > 100 {
			return fmt.Errorf("%w: black key height %v%%", layout.ErrInvalidSize, percent)
		}
		s.BlackKeyHeight = percent
		return nil
	})
}

func (k *Keyboard) SetWhiteKeyBorderWidth(w float64) error {
	return k.update(func(s *Settings) error {
		if w < 0 {
			return fmt.Errorf("%w: border width %v", layout.ErrInvalidSize, w)
		}
		s.WhiteKeyBorderWidth = w
		return nil
	})
}

func (k *Keyboard) SetBlackKeyBorderWidth(w float64) error {
	return k.update(func(s *Settings) error {
		if w < 0 {
			return fmt.Errorf("%w: border width %v", layout.ErrInvalidSize, w)
		}
		s.BlackKeyBorderWidth = w
		return nil
	})
}

// SetKeyActive turns a key on as if it had been pressed, with source External.
func (k *Keyboard) SetKeyActive(note, velocity int) error {
	kk, err := k.lookup(note, velocity)
	if err != nil {
		return err
	}
	return k.press(kk, velocity, External)
}

// SetKeyInactive turns a key off, with source External.
func (k *Keyboard) SetKeyInactive(note, velocity int) error {
	kk, err := k.lookup(note, velocity)
	if err != nil {
		return err
	}
	return k.release(kk, velocity, External)
}

// ActiveNotes returns the notes currently on, lowest first.
func (k *Keyboard) ActiveNotes() []int {
	var notes []int
	for n, kk := range k.keys {
		if kk.active {
			notes = append(notes, n)
		}
	}
	sort.Ints(notes)
	return notes
}

// KeyElement returns the element drawn for note, or nil.
func (k *Keyboard) KeyElement(note int) *surface.Element {
	if kk, ok := k.keys[note]; ok {
		return kk.el
	}
	return nil
}

// Teardown turns every active key off, removes the keyboard from its
// container and drops all listeners and rules. The keyboard cannot be used
// afterwards.
func (k *Keyboard) Teardown() error {
	if k.torn {
		return nil
	}
	err := k.ReleaseAll()
	if k.root != nil {
		k.root.Remove()
		k.root = nil
	}
	k.keys = make(map[int]*key)
	k.media.Close()
	k.bus.Clear()
	k.torn = true
	return err
}

func (k *Keyboard) lookup(note, velocity int) (*key, error) {
	if k.torn {
		return nil, ErrTornDown
	}
	if k.container == nil {
		return nil, ErrNotMounted
	}
	if velocity < 0 || velocity > 127 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidVelocity, velocity)
	}
	kk, ok := k.keys[note]
	if !ok {
		return nil, fmt.Errorf("%w: %d not in %v", ErrNoteOutOfRange, note, k.Range())
	}
	return kk, nil
}

// update applies change to a copy of the settings and relayouts. Nothing is
// kept when change or the layout fails.
func (k *Keyboard) update(change func(*Settings) error) error {
	if k.torn {
		return ErrTornDown
	}
	next := k.settings
	if err := change(&next); err != nil {
		k.log.Printf("keyboard %s: %v", k.id, err)
		return err
	}
	l, err := layout.Compute(next.Range, next.layoutOptions())
	if err != nil {
		k.log.Printf("keyboard %s: %v", k.id, err)
		return err
	}
	k.settings = next
	if k.container == nil {
		return nil
	}
	return k.render(l)
}

func (s *Settings) setRange(low, high int) error {
	r := layout.Range{Low: low, High: high}
	if err := r.Validate(); err != nil {
		return err
	}
	s.Range = r.Correct()
	return nil
}

func (s *Settings) setSize(width, height string) error {
	size, err := layout.ParseSize(width, height)
	if err != nil {
		return fmt.Errorf("%w: %v", layout.ErrInvalidSize, err)
	}
	s.Size = size
	return nil
}
