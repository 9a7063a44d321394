package synth

import (
	"errors"
	"fmt"
	"log"
	"math"
	"os"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"
	"github.com/sinshu/go-meltysynth/meltysynth"
	"gitlab.com/gomidi/midi/v2"
)

const DefaultSampleRate = beep.SampleRate(44100)

type (
	// Renderer is the part of a synthesizer the Engine drives.
	// *meltysynth.Synthesizer implements it.
	Renderer interface {
		NoteOn(channel, key, velocity int32)
		NoteOff(channel, key int32)
		Render(left, right []float32)
	}

	// Engine is a monophonic Voice backed by a SoundFont synthesizer. It is
	// also a beep.Streamer that renders audio on demand.
	Engine struct {
		mu         sync.Mutex
		synth      Renderer
		sampleRate beep.SampleRate

		// voice guards held, playing and gen.
		voice   sync.Mutex
		held    uint8
		playing bool
		// gen changes on every attack and release. A delayed attack only
		// sounds if gen is unchanged when it fires.
		gen uint64

		left  []float32
		right []float32
		log   *log.Logger
	}

	NewEngineOpts struct {
		// Path of the .sf2 file to load.
		SoundFontPath string
		// Defaults to DefaultSampleRate.
		SampleRate beep.SampleRate
		// Defaults to log.Default().
		Logger *log.Logger
	}
)

var ErrUnsupportedMessage = errors.New("unsupported MIDI message")

// NewEngine loads the SoundFont at o.SoundFontPath.
func NewEngine(o NewEngineOpts) (*Engine, error) {
	if o.SampleRate == 0 {
		o.SampleRate = DefaultSampleRate
	}

	sf2, err := os.Open(o.SoundFontPath)
	if err != nil {
		return nil, fmt.Errorf("open soundfont: %w", err)
	}
	defer sf2.Close()

	soundFont, err := meltysynth.NewSoundFont(sf2)
	if err != nil {
		return nil, fmt.Errorf("parse soundfont %s: %w", o.SoundFontPath, err)
	}

	settings := meltysynth.NewSynthesizerSettings(int32(o.SampleRate))
	synthesizer, err := meltysynth.NewSynthesizer(soundFont, settings)
	if err != nil {
		return nil, fmt.Errorf("create synthesizer: %w", err)
	}

	e := NewEngineWith(synthesizer, o.SampleRate)
	if o.Logger != nil {
		e.SetLogger(o.Logger)
	}
	return e, nil
}

// NewEngineWith wraps an existing Renderer.
func NewEngineWith(r Renderer, sampleRate beep.SampleRate) *Engine {
	return &Engine{
		synth:      r,
		sampleRate: sampleRate,
		log:        log.Default(),
	}
}

func (e *Engine) SetLogger(l *log.Logger) { e.log = l }

// Send plays a Note On or Note Off message. A Note On with velocity 0 is a
// Note Off.
func (e *Engine) Send(msg midi.Message) error {
	var channel, key, velocity uint8
	switch {
	case msg.GetNoteOn(&channel, &key, &velocity):
		e.mu.Lock()
		defer e.mu.Unlock()
		if velocity == 0 {
			e.synth.NoteOff(int32(channel), int32(key))
			return nil
		}
		e.synth.NoteOn(int32(channel), int32(key), int32(velocity))
	case msg.GetNoteOff(&channel, &key, &velocity):
		e.mu.Lock()
		defer e.mu.Unlock()
		e.synth.NoteOff(int32(channel), int32(key))
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedMessage, msg)
	}
	return nil
}

// TriggerAttack implements Voice. The note already sounding is released
// first. A later attack or release supersedes a delayed one.
func (e *Engine) TriggerAttack(pitch string, at time.Duration, velocity float64) {
	note, err := ParsePitch(pitch)
	if err != nil {
		e.log.Printf("synth: attack: %v", err)
		return
	}
	vel := uint8(math.Round(math.Max(0, math.Min(1, velocity)) * 127))

	e.voice.Lock()
	e.gen++
	gen := e.gen
	e.voice.Unlock()

	attack := func() {
		e.voice.Lock()
		defer e.voice.Unlock()
		if e.gen != gen {
			return
		}
		if e.playing {
			e.send(midi.NoteOff(0, e.held))
		}
		e.held = uint8(note)
		e.playing = true
		e.send(midi.NoteOn(0, uint8(note), vel))
	}
	if at > 0 {
		time.AfterFunc(at, attack)
		return
	}
	attack()
}

// TriggerRelease implements Voice. It also cancels a delayed attack that has
// not sounded yet.
func (e *Engine) TriggerRelease() {
	e.voice.Lock()
	defer e.voice.Unlock()
	e.gen++
	if !e.playing {
		return
	}
	e.playing = false
	e.send(midi.NoteOff(0, e.held))
}

func (e *Engine) send(msg midi.Message) {
	if err := e.Send(msg); err != nil {
		e.log.Printf("synth: %v", err)
	}
}

// Stream implements beep.Streamer. It never drains.
func (e *Engine) Stream(samples [][2]float64) (n int, ok bool) {
	if cap(e.left) < len(samples) {
		e.left = make([]float32, len(samples))
		e.right = make([]float32, len(samples))
	}
	left, right := e.left[:len(samples)], e.right[:len(samples)]

	e.mu.Lock()
	e.synth.Render(left, right)
	e.mu.Unlock()

	for i := range samples {
		samples[i][0] = float64(left[i])
		samples[i][1] = float64(right[i])
	}
	return len(samples), true
}

func (e *Engine) Err() error {
	return nil
}

// Play opens the speaker and streams the engine to it.
// bufferSize trades CPU for latency.
func (e *Engine) Play(bufferSize time.Duration) error {
	if err := speaker.Init(e.sampleRate, e.sampleRate.N(bufferSize)); err != nil {
		return fmt.Errorf("speaker: %w", err)
	}
	speaker.Play(e)
	return nil
}

// Close releases the held note and closes the speaker.
func (e *Engine) Close() {
	e.TriggerRelease()
	speaker.Close()
}
