// Package synth turns keyboard note events into sound.
package synth

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/rapidmidiex/rmxpiano/event"
	"github.com/rapidmidiex/rmxpiano/keyboard"
)

type (
	// Voice is a monophonic instrument.
	Voice interface {
		// TriggerAttack starts pitch, ex: "C#4", after at. velocity is a gain in 0..1.
		TriggerAttack(pitch string, at time.Duration, velocity float64)
		TriggerRelease()
	}

	// Source publishes keyboard note events.
	Source interface {
		On(name string, fn event.Handler[keyboard.NoteEvent]) *event.Subscription[keyboard.NoteEvent]
	}

	// Adapter plays a Voice from a Source.
	Adapter struct {
		voice    Voice
		subs     []*event.Subscription[keyboard.NoteEvent]
		sounding int
		playing  bool
	}
)

var ErrInvalidPitch = errors.New("invalid pitch")

var pitchNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

// Connect subscribes a new Adapter to src.
func Connect(src Source, v Voice) *Adapter {
	a := &Adapter{voice: v}
	a.subs = append(a.subs,
		src.On(keyboard.NoteOn, a.noteOn),
		src.On(keyboard.NoteOff, a.noteOff),
	)
	return a
}

// Close unsubscribes and silences the voice.
func (a *Adapter) Close() {
	for _, s := range a.subs {
		s.Off()
	}
	a.subs = nil
	if a.playing {
		a.voice.TriggerRelease()
		a.playing = false
	}
}

func (a *Adapter) noteOn(ev keyboard.NoteEvent) error {
	a.voice.TriggerAttack(PitchName(ev.Note), 0, Gain(ev.Velocity))
	a.sounding = ev.Note
	a.playing = true
	return nil
}

// A monophonic voice is only released by the note it is playing; releasing
// an older note of a chord must not cut the newest one.
func (a *Adapter) noteOff(ev keyboard.NoteEvent) error {
	if !a.playing || ev.Note != a.sounding {
		return nil
	}
	a.voice.TriggerRelease()
	a.playing = false
	return nil
}

// Gain maps a MIDI velocity to 0..1.
func Gain(velocity int) float64 {
	return math.Max(0, math.Min(1, float64(velocity)/127))
}

// PitchName names a note index, based on C4=60. ex: 61 -> "C#4"
func PitchName(note int) string {
	return pitchNames[note%12] + strconv.Itoa(note/12-1)
}

// ParsePitch is the inverse of PitchName. Flats are accepted too, ex: "Db4".
func ParsePitch(pitch string) (int, error) {
	p := strings.TrimSpace(pitch)
	if p == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidPitch)
	}

	base := strings.IndexByte("C D EF G A B", strings.ToUpper(p[:1])[0])
	if base < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPitch, pitch)
	}
	rest := p[1:]
	for len(rest) > 0 && (rest[0] == '#' || rest[0] == 'b') {
		if rest[0] == '#' {
			base++
		} else {
			base--
		}
		rest = rest[1:]
	}

	octave, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPitch, pitch)
	}
	note := (octave+1)*12 + base
	if note < 0 || note > 127 {
		return 0, fmt.Errorf("%w: %q out of MIDI range", ErrInvalidPitch, pitch)
	}
	return note, nil
}
