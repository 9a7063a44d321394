package keyboard

import (
	"fmt"
	"math"
	"sort"

	"github.com/rapidmidiex/rmxpiano/layout"
	"github.com/rapidmidiex/rmxpiano/surface"
)

type (
	// Source tells what turned a key on or off.
	Source int

	NoteEvent struct {
		// Note index within the keyboard range.
		Note int
		// MIDI velocity (0-127)
		Velocity int
		Source   Source
	}

	key struct {
		desc     layout.KeyDescriptor
		el       *surface.Element
		active   bool
		velocity int
	}
)

// Event names.
const (
	NoteOn  = "noteOn"
	NoteOff = "noteOff"
)

const (
	PointerDown Source = iota
	PointerUp
	PointerOver
	PointerOut
	// External is a change requested through SetKeyActive/SetKeyInactive or
	// caused by the keyboard itself, such as a key leaving the range.
	External
)

func (s Source) String() string {
	switch s {
	case PointerDown:
		return "pointerDown"
	case PointerUp:
		return "pointerUp"
	case PointerOver:
		return "pointerOver"
	case PointerOut:
		return "pointerOut"
	case External:
		return "external"
	}
	return fmt.Sprintf("Source(%d)", int(s))
}

func (kk *key) paint() {
	fill := kk.desc.PrimaryColor
	if kk.active {
		fill = kk.desc.HighlightColor
	}
	kk.el.SetStyle(surface.Style{
		Fill:        fill,
		Border:      kk.desc.BorderColor,
		BorderWidth: kk.desc.BorderWidth,
	})
}

// render throws away the current key elements and builds new ones from l.
// Keys that were on and are still in range stay on without new events; the
// rest are turned off.
func (k *Keyboard) render(l layout.Layout) error {
	held := make(map[int]int)
	for n, kk := range k.keys {
		if kk.active {
			held[n] = kk.velocity
		}
	}
	if k.root != nil {
		k.root.Remove()
	}

	k.layout = l
	geo := l.Place(k.container.Bounds(), k.doc.Viewport())

	root := surface.NewElement(k.id, "piano")
	root.SetBounds(geo.Bounds)
	whiteRow := surface.NewElement(k.id+"-white-keys", "white-keys")
	whiteRow.SetBounds(geo.Bounds)
	whiteRow.SetPassThrough(true)
	blackRow := surface.NewElement(k.id+"-black-keys", "black-keys")
	blackRow.SetBounds(layout.Rect{X: geo.Bounds.X, Y: geo.Bounds.Y, W: geo.Bounds.W, H: geo.Bounds.H * l.Options.BlackKeyHeight / 100})
	blackRow.SetPassThrough(true)

	k.keys = make(map[int]*key, len(l.Keys))
	for _, pk := range geo.White {
		whiteRow.Append(k.newKey(pk))
	}
	for i, pk := range geo.Black {
		if pk.Ghost {
			ghost := surface.NewElement(fmt.Sprintf("%s-ghost-%d", k.id, i), "key ghost-key")
			ghost.SetBounds(pk.Bounds)
			ghost.SetPassThrough(true)
			ghost.SetStyle(surface.Style{Hidden: true})
			blackRow.Append(ghost)
			continue
		}
		blackRow.Append(k.newKey(pk))
	}

	// black keys are drawn over white ones
	root.Append(whiteRow)
	root.Append(blackRow)
	k.container.Append(root)
	k.root = root

	notes := make([]int, 0, len(held))
	for n := range held {
		notes = append(notes, n)
	}
	sort.Ints(notes)

	var firstErr error
	for _, n := range notes {
		if kk, ok := k.keys[n]; ok {
			kk.active = true
			kk.velocity = held[n]
			kk.paint()
			continue
		}
		ev := NoteEvent{Note: n, Velocity: held[n], Source: External}
		if err := k.bus.Emit(NoteOff, ev); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (k *Keyboard) newKey(pk layout.PlacedKey) *surface.Element {
	el := surface.NewElement(fmt.Sprintf("%s-%d", k.id, pk.Note), "key")
	el.SetBounds(pk.Bounds)
	kk := &key{desc: pk.KeyDescriptor, el: el}
	kk.paint()
	k.keys[pk.Note] = kk

	el.Listen(surface.PointerDown, func(ev surface.PointerEvent) {
		k.report(k.press(kk, k.velocity(ev), PointerDown))
	})
	el.Listen(surface.PointerUp, func(ev surface.PointerEvent) {
		k.report(k.release(kk, k.velocity(ev), PointerUp))
	})
	el.Listen(surface.PointerEnter, func(ev surface.PointerEvent) {
		if k.buttons.Down() {
			k.report(k.press(kk, k.velocity(ev), PointerOver))
		}
	})
	el.Listen(surface.PointerLeave, func(ev surface.PointerEvent) {
		if k.buttons.Down() {
			k.report(k.release(kk, k.velocity(ev), PointerOut))
		}
	})
	return el
}

func (k *Keyboard) velocity(ev surface.PointerEvent) int {
	if ev.Pressure > 0 {
		return int(math.Round(math.Min(ev.Pressure, 1) * 127))
	}
	return k.settings.MouseVelocity
}

// Pointer handlers have no caller to return errors to.
func (k *Keyboard) report(err error) {
	if err != nil {
		k.log.Printf("keyboard %s: note handler: %v", k.id, err)
	}
}

func (k *Keyboard) press(kk *key, velocity int, src Source) error {
	if kk.active {
		return nil
	}
	kk.active = true
	kk.velocity = velocity
	kk.paint()
	return k.bus.Emit(NoteOn, NoteEvent{Note: kk.desc.Note, Velocity: velocity, Source: src})
}

func (k *Keyboard) release(kk *key, velocity int, src Source) error {
	if !kk.active {
		return nil
	}
	kk.active = false
	kk.paint()
	return k.bus.Emit(NoteOff, NoteEvent{Note: kk.desc.Note, Velocity: velocity, Source: src})
}

// ReleaseAll turns every active key off with source External.
func (k *Keyboard) ReleaseAll() error {
	var firstErr error
	for _, n := range k.ActiveNotes() {
		kk := k.keys[n]
		if err := k.release(kk, kk.velocity, External); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
