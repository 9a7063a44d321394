package rmxpiano

import (
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/rapidmidiex/rmxpiano/keyboard"
	"github.com/rapidmidiex/rmxpiano/keymap"
	"github.com/rapidmidiex/rmxpiano/layout"
	"github.com/rapidmidiex/rmxpiano/media"
	"github.com/rapidmidiex/rmxpiano/render"
	"github.com/rapidmidiex/rmxpiano/rmxerr"
	"github.com/rapidmidiex/rmxpiano/stats"
	"github.com/rapidmidiex/rmxpiano/styles"
	"github.com/rapidmidiex/rmxpiano/surface"
	"github.com/rapidmidiex/rmxpiano/synth"
	"github.com/rapidmidiex/rmxpiano/theme"
	"github.com/rapidmidiex/rmxpiano/vpiano"
)

// ********
// Code heavily based on "Project Journal"
// https://github.com/bashbunni/pjs
// https://www.youtube.com/watch?v=uJ2egAkSkjg&t=319s
// ********

const (
	// Rows under the keyboard: status bar and help.
	chromeHeight = 2
	// Terminals don't report key releases; qwerty notes are released after
	// this long without a repeat.
	qwertyHold = 300 * time.Millisecond
	ratioStep  = 0.05
	keepHolds  = 50
)

type (
	Config struct {
		// Keyboard options, ex: decoded from a JSON file.
		Options keyboard.Options
		// SoundFont to play notes with. Silent when empty.
		SoundFont string
		// Below this many columns the keyboard shows a single octave.
		NarrowWidth int
		Logger      *log.Logger
	}

	// Message types
	releaseMsg struct {
		note int
		seq  int
	}

	// piano is the state shared by every copy of the model.
	piano struct {
		doc       *surface.Surface
		container *surface.Element
		kb        *keyboard.Keyboard

		engine  *synth.Engine
		adapter *synth.Adapter

		holds *stats.Holds
		// Latest qwerty press per note, to release after qwertyHold.
		pressed map[int]int
		seq     int

		theme int
		// Range to go back to when the terminal is wide again.
		wideRange *[2]int

		lastEvent string
		lastHold  stats.CalcMsg
		queued    []tea.Cmd
	}

	mainModel struct {
		width, height int
		keys          keymap.Mapping
		help          help.Model
		err           error
		p             *piano
		log           *log.Logger
	}
)

func NewModel(cfg Config) (mainModel, error) {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}

	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 || height <= 0 {
		width, height = 80, 24
	}

	p := &piano{
		doc:     surface.New(layout.Viewport{Width: float64(width), Height: float64(height)}),
		holds:   stats.NewHolds(keepHolds, nil),
		pressed: make(map[int]int),
	}
	p.container = surface.NewElement("piano", "container")
	p.container.SetBounds(keyboardBounds(width, height))
	p.doc.Root().Append(p.container)

	rules := keyboard.Rules{}
	if cfg.NarrowWidth > 0 {
		rules[fmt.Sprintf("(max-width: %dpx)", cfg.NarrowWidth)] = p.narrow
	}
	kb, err := keyboard.Create(p.doc, "#piano", cfg.Options, rules, keyboard.WithLogger(cfg.Logger))
	if err != nil {
		return mainModel{}, err
	}
	p.kb = kb
	kb.On(keyboard.NoteOn, p.noteOn)
	kb.On(keyboard.NoteOff, p.noteOff)

	if cfg.SoundFont != "" {
		engine, err := synth.NewEngine(synth.NewEngineOpts{SoundFontPath: cfg.SoundFont, Logger: cfg.Logger})
		if err != nil {
			_ = kb.Teardown()
			return mainModel{}, err
		}
		p.engine = engine
		p.adapter = synth.Connect(kb, engine)
	}

	return mainModel{
		width:  width,
		height: height,
		keys:   keymap.DefaultMapping,
		help:   help.New(),
		p:      p,
		log:    cfg.Logger,
	}, nil
}

func (m mainModel) Init() tea.Cmd {
	if m.p.engine == nil {
		return nil
	}
	return func() tea.Msg {
		if err := m.p.engine.Play(20 * time.Millisecond); err != nil {
			return rmxerr.ErrMsg{Err: err}
		}
		return nil
	}
}

func (m mainModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case rmxerr.ErrMsg:
		m.err = msg
		m.log.Println(msg.Err)

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.p.doc.SetViewport(layout.Viewport{Width: float64(msg.Width), Height: float64(msg.Height)})
		m.p.container.SetBounds(keyboardBounds(msg.Width, msg.Height))
		cmds = append(cmds, rmxerr.Cmd(m.p.kb.Refresh()))

	case tea.MouseMsg:
		ev := surface.PointerEvent{X: float64(msg.X) + 0.5, Y: float64(msg.Y) + 0.5}
		switch msg.Type {
		case tea.MouseLeft:
			ev.Kind = surface.PointerDown
		case tea.MouseRelease:
			ev.Kind = surface.PointerUp
		case tea.MouseMotion:
			ev.Kind = surface.PointerMove
		default:
			return m, nil
		}
		m.p.doc.Dispatch(ev)

	case tea.KeyMsg:
		m.err = nil
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.p.close()
			return m, tea.Quit
		case key.Matches(msg, m.keys.OctaveDown):
			cmds = append(cmds, rmxerr.Cmd(m.p.shift(-12)))
		case key.Matches(msg, m.keys.OctaveUp):
			cmds = append(cmds, rmxerr.Cmd(m.p.shift(12)))
		case key.Matches(msg, m.keys.Narrower):
			cmds = append(cmds, rmxerr.Cmd(m.p.widen(-ratioStep)))
		case key.Matches(msg, m.keys.Wider):
			cmds = append(cmds, rmxerr.Cmd(m.p.widen(ratioStep)))
		case key.Matches(msg, m.keys.CycleTheme):
			m.p.theme = (m.p.theme + 1) % len(theme.Presets)
			m.p.kb.SetColors(theme.Presets[m.p.theme].Map())
		case key.Matches(msg, m.keys.ReleaseAll):
			cmds = append(cmds, rmxerr.Cmd(m.p.kb.ReleaseAll()))
		default:
			cmds = append(cmds, m.p.play(msg.String()))
		}

	case releaseMsg:
		if m.p.pressed[msg.note] == msg.seq {
			delete(m.p.pressed, msg.note)
			if err := m.p.kb.SetKeyInactive(msg.note, m.p.kb.Settings().MouseVelocity); err != nil {
				m.log.Printf("release %d: %v", msg.note, err)
			}
		}

	case stats.CalcMsg:
		m.p.lastHold = msg
	}

	// Commands queued by note handlers.
	cmds = append(cmds, m.p.queued...)
	m.p.queued = nil
	return m, tea.Batch(cmds...)
}

func (m mainModel) View() string {
	doc := strings.Builder{}
	doc.WriteString(render.Region(m.p.doc, m.p.container.Bounds()))
	doc.WriteString("\n")

	if m.err != nil {
		doc.WriteString(styles.RenderError(m.err.Error()))
	} else {
		doc.WriteString(m.statusBar())
	}
	doc.WriteString("\n")
	doc.WriteString(styles.HelpMenu.Render(m.help.View(m.keys)))
	return doc.String()
}

func (m mainModel) statusBar() string {
	r := m.p.kb.Range()
	var on []string
	for _, n := range m.p.kb.ActiveNotes() {
		on = append(on, synth.PitchName(n))
	}
	desc := fmt.Sprintf("%s..%s  ratio %.2f  %s",
		synth.PitchName(r[0]), synth.PitchName(r[1]),
		m.p.kb.Settings().BlackKeyWidthRatio,
		strings.Join(on, " "),
	)

	var extras []string
	if m.p.lastEvent != "" {
		extras = append(extras, styles.NoteStyle.Render(m.p.lastEvent))
	}
	if h := m.p.lastHold; h.Latest > 0 {
		extras = append(extras, styles.HoldStyle.Render(fmt.Sprintf("held %s avg %s", h.Latest.Round(time.Millisecond), h.Avg)))
	}
	return styles.StatusBar(m.width, "RMX", desc, extras...)
}

func Run(cfg Config) {
	m, err := NewModel(cfg)
	if err != nil {
		bail(err)
	}

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		bail(err)
	}
}

// DiscardLogs silences the standard logger, which would draw over the UI.
func DiscardLogs() {
	log.SetOutput(io.Discard)
}

func bail(err error) {
	if err != nil {
		fmt.Printf("Uh oh, there was an error: %v\n", err)
		os.Exit(1)
	}
}

func keyboardBounds(width, height int) layout.Rect {
	h := height - chromeHeight
	if h < 0 {
		h = 0
	}
	return layout.Rect{W: float64(width), H: float64(h)}
}

func (p *piano) noteOn(ev keyboard.NoteEvent) error {
	p.holds.Start(ev.Note)
	p.lastEvent = fmt.Sprintf("%s %s %d", keyboard.NoteOn, synth.PitchName(ev.Note), ev.Velocity)
	return nil
}

func (p *piano) noteOff(ev keyboard.NoteEvent) error {
	if cmd := p.holds.Stop(ev.Note); cmd != nil {
		p.queued = append(p.queued, cmd)
	}
	p.lastEvent = fmt.Sprintf("%s %s", keyboard.NoteOff, synth.PitchName(ev.Note))
	return nil
}

// play turns on the note bound to a qwerty key and schedules its release.
func (p *piano) play(k string) tea.Cmd {
	r := p.kb.Range()
	note, ok := vpiano.MakeOctaveNotes(vpiano.OctaveOf(r[0])).ToBindingMap()[k]
	if !ok || !vpiano.InRange(note.MIDI, r[0], r[1]) {
		return nil
	}
	if err := p.kb.SetKeyActive(note.MIDI, p.kb.Settings().MouseVelocity); err != nil {
		return rmxerr.Cmd(err)
	}

	p.seq++
	seq := p.seq
	p.pressed[note.MIDI] = seq
	return tea.Tick(qwertyHold, func(time.Time) tea.Msg {
		return releaseMsg{note: note.MIDI, seq: seq}
	})
}

// shift moves the range by semitones, staying inside MIDI notes.
func (p *piano) shift(semitones int) error {
	r := p.kb.Range()
	if !inMIDI(r, semitones) {
		return nil
	}
	if p.wideRange != nil {
		if !inMIDI(*p.wideRange, semitones) {
			return nil
		}
		p.wideRange[0] += semitones
		p.wideRange[1] += semitones
	}
	return p.kb.SetRange(r[0]+semitones, r[1]+semitones)
}

func inMIDI(r [2]int, semitones int) bool {
	return r[0]+semitones >= 0 && r[1]+semitones <= 127
}

func (p *piano) widen(step float64) error {
	ratio := p.kb.Settings().BlackKeyWidthRatio + step
	ratio = math.Round(math.Max(0, math.Min(1, ratio))*100) / 100
	return p.kb.SetBlackKeyWidthRatio(ratio)
}

// narrow shows one octave while the terminal is narrow.
func (p *piano) narrow(k *keyboard.Keyboard, m media.Match) {
	if m.Matches {
		if p.wideRange != nil {
			return
		}
		r := k.Range()
		p.wideRange = &r
		_ = k.SetRange(r[0], int(math.Min(float64(r[0]+12), float64(r[1]))))
		return
	}
	if p.wideRange != nil {
		r := *p.wideRange
		p.wideRange = nil
		_ = k.SetRange(r[0], r[1])
	}
}

func (p *piano) close() {
	if p.adapter != nil {
		p.adapter.Close()
	}
	if p.engine != nil {
		p.engine.Close()
	}
	_ = p.kb.Teardown()
}
