package rmxpiano

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/rapidmidiex/rmxpiano/keyboard"
	"github.com/rapidmidiex/rmxpiano/rmxerr"
	"github.com/rapidmidiex/rmxpiano/stats"
	"github.com/rapidmidiex/rmxpiano/theme"
)

func newTestModel(t *testing.T) mainModel {
	t.Helper()
	var logs bytes.Buffer
	m, err := NewModel(Config{
		Options: keyboard.Options{
			keyboard.OptRange: []int{36, 60},
		},
		NarrowWidth: 40,
		Logger:      log.New(&logs, "", 0),
	})
	require.NoError(t, err)
	t.Cleanup(m.p.close)

	// 15 white keys, 6 columns each; 10 rows of keyboard.
	m, _ = update(m, tea.WindowSizeMsg{Width: 90, Height: 12})
	return m
}

func update(m mainModel, msg tea.Msg) (mainModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(mainModel), cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func mouse(x, y int, typ tea.MouseEventType) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Type: typ}
}

func TestMouse(t *testing.T) {
	t.Run("press and release a white key", func(t *testing.T) {
		m := newTestModel(t)

		m, _ = update(m, mouse(2, 8, tea.MouseLeft))
		require.Equal(t, []int{36}, m.p.kb.ActiveNotes())
		require.Equal(t, "noteOn C2 100", m.p.lastEvent)

		m, _ = update(m, mouse(2, 8, tea.MouseRelease))
		require.Empty(t, m.p.kb.ActiveNotes())
		require.Equal(t, "noteOff C2", m.p.lastEvent)
	})

	t.Run("black keys cover the top of white keys", func(t *testing.T) {
		m := newTestModel(t)

		// C#2 is centered on the line between C2 and D2
		m, _ = update(m, mouse(6, 1, tea.MouseLeft))
		require.Equal(t, []int{37}, m.p.kb.ActiveNotes())
		m, _ = update(m, mouse(6, 1, tea.MouseRelease))
		require.Empty(t, m.p.kb.ActiveNotes())
	})

	t.Run("dragging moves the note", func(t *testing.T) {
		m := newTestModel(t)

		m, _ = update(m, mouse(2, 8, tea.MouseLeft))
		m, _ = update(m, mouse(8, 8, tea.MouseMotion))
		require.Equal(t, []int{38}, m.p.kb.ActiveNotes())
		m, _ = update(m, mouse(8, 8, tea.MouseRelease))
		require.Empty(t, m.p.kb.ActiveNotes())
	})

	t.Run("other buttons are ignored", func(t *testing.T) {
		m := newTestModel(t)

		m, _ = update(m, mouse(2, 8, tea.MouseRight))
		require.Empty(t, m.p.kb.ActiveNotes())
	})
}

func TestQwerty(t *testing.T) {
	t.Run("plays and releases after a while", func(t *testing.T) {
		m := newTestModel(t)

		m, cmd := update(m, runes("a"))
		require.NotNil(t, cmd)
		require.Equal(t, []int{36}, m.p.kb.ActiveNotes())

		m, _ = update(m, releaseMsg{note: 36, seq: m.p.seq})
		require.Empty(t, m.p.kb.ActiveNotes())
	})

	t.Run("repeats keep the note on", func(t *testing.T) {
		m := newTestModel(t)

		m, _ = update(m, runes("w"))
		first := m.p.seq
		m, _ = update(m, runes("w"))

		m, _ = update(m, releaseMsg{note: 37, seq: first})
		require.Equal(t, []int{37}, m.p.kb.ActiveNotes())

		m, _ = update(m, releaseMsg{note: 37, seq: m.p.seq})
		require.Empty(t, m.p.kb.ActiveNotes())
	})

	t.Run("keys outside the range do nothing", func(t *testing.T) {
		m := newTestModel(t)
		m, _ = update(m, runes("q"))
		require.Empty(t, m.p.kb.ActiveNotes())
	})

	t.Run("release all", func(t *testing.T) {
		m := newTestModel(t)
		m, _ = update(m, runes("a"))
		m, _ = update(m, runes("d"))
		require.Equal(t, []int{36, 40}, m.p.kb.ActiveNotes())

		m, _ = update(m, runes(" "))
		require.Empty(t, m.p.kb.ActiveNotes())
	})
}

func TestControls(t *testing.T) {
	t.Run("octave shifts", func(t *testing.T) {
		m := newTestModel(t)

		m, _ = update(m, runes("x"))
		require.Equal(t, [2]int{48, 72}, m.p.kb.Range())
		m, _ = update(m, runes("z"))
		m, _ = update(m, runes("z"))
		require.Equal(t, [2]int{24, 48}, m.p.kb.Range())

		for i := 0; i < 5; i++ {
			m, _ = update(m, runes("z"))
		}
		require.Equal(t, [2]int{0, 24}, m.p.kb.Range())
	})

	t.Run("black key width", func(t *testing.T) {
		m := newTestModel(t)

		m, _ = update(m, runes("-"))
		require.Equal(t, 0.7, m.p.kb.Settings().BlackKeyWidthRatio)
		m, _ = update(m, runes("="))
		m, _ = update(m, runes("="))
		require.Equal(t, 0.8, m.p.kb.Settings().BlackKeyWidthRatio)
	})

	t.Run("cycles themes", func(t *testing.T) {
		m := newTestModel(t)

		m, _ = update(m, runes("c"))
		require.Equal(t, theme.Presets[1].WhiteKey, m.p.kb.Colors().WhiteKey)
		for range theme.Presets {
			m, _ = update(m, runes("c"))
		}
		require.Equal(t, theme.Presets[1].WhiteKey, m.p.kb.Colors().WhiteKey)
	})

	t.Run("quit tears the keyboard down", func(t *testing.T) {
		m := newTestModel(t)

		m, cmd := update(m, tea.KeyMsg{Type: tea.KeyCtrlC})
		require.NotNil(t, cmd)
		require.ErrorIs(t, m.p.kb.Refresh(), keyboard.ErrTornDown)
	})
}

func TestNarrowTerminal(t *testing.T) {
	m := newTestModel(t)

	m, _ = update(m, tea.WindowSizeMsg{Width: 30, Height: 12})
	require.Equal(t, [2]int{36, 48}, m.p.kb.Range())

	// shifting while narrow also moves the range restored later
	m, _ = update(m, runes("x"))
	require.Equal(t, [2]int{48, 60}, m.p.kb.Range())

	m, _ = update(m, tea.WindowSizeMsg{Width: 90, Height: 12})
	require.Equal(t, [2]int{48, 72}, m.p.kb.Range())

	t.Run("the restored range stays within MIDI", func(t *testing.T) {
		m := newTestModel(t)
		m, _ = update(m, tea.WindowSizeMsg{Width: 30, Height: 12})

		for i := 0; i < 10; i++ {
			m, _ = update(m, runes("x"))
		}
		// 36..60 can go up five octaves, 36..48 could go six
		require.Equal(t, [2]int{96, 108}, m.p.kb.Range())

		m, _ = update(m, tea.WindowSizeMsg{Width: 90, Height: 12})
		require.Equal(t, [2]int{96, 120}, m.p.kb.Range())
	})
}

func TestView(t *testing.T) {
	t.Run("draws keys, status and help", func(t *testing.T) {
		m := newTestModel(t)
		m, _ = update(m, stats.CalcMsg{Note: 36, Latest: 120 * time.Millisecond, Avg: 100 * time.Millisecond})

		lines := strings.Split(m.View(), "\n")
		require.GreaterOrEqual(t, len(lines), 12)
		require.Contains(t, lines[10], "C2..C4")
		require.Contains(t, lines[10], "held 120ms avg 100ms")
	})

	t.Run("shows errors", func(t *testing.T) {
		m := newTestModel(t)
		m, _ = update(m, rmxerr.ErrMsg{Err: errors.New("no speaker")})
		require.Contains(t, m.View(), "no speaker")

		m, _ = update(m, runes("x"))
		require.NotContains(t, m.View(), "no speaker")
	})
}
