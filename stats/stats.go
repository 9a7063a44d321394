// Package stats contains tools for calculating stats on how long notes are held.
package stats

import (
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type (
	CalcMsg struct {
		Note   int
		Latest time.Duration
		Avg    time.Duration
		Min    time.Duration
		Max    time.Duration
	}

	// Holds remembers when notes went on and how long the last ones were held.
	Holds struct {
		started map[int]time.Time
		held    []time.Duration
		keep    int
		now     func() time.Time
	}
)

// NewHolds keeps the durations of the last keep notes.
func NewHolds(keep int, now func() time.Time) *Holds {
	if now == nil {
		now = time.Now
	}
	return &Holds{
		started: make(map[int]time.Time),
		keep:    keep,
		now:     now,
	}
}

func (h *Holds) Start(note int) {
	h.started[note] = h.now()
}

// Stop returns a command reporting the stats for note, or nil if note was
// never started.
func (h *Holds) Stop(note int) tea.Cmd {
	at, ok := h.started[note]
	if !ok {
		return nil
	}
	delete(h.started, note)

	d := h.now().Sub(at)
	h.held = append(h.held, d)
	if len(h.held) > h.keep {
		h.held = h.held[len(h.held)-h.keep:]
	}
	return CalcStats(note, d, h.held)
}

func CalcStats(note int, held time.Duration, prev []time.Duration) tea.Cmd {
	roundedAvg := math.Round(float64(Avg(prev)/time.Millisecond)) * float64(time.Millisecond)
	return func() tea.Msg {
		return CalcMsg{
			Note:   note,
			Latest: held,
			Avg:    time.Duration(roundedAvg),
			Max:    Max(prev),
			Min:    Min(prev),
		}
	}
}

func Min(times []time.Duration) time.Duration {
	if len(times) == 0 {
		return 0
	}
	min := math.Inf(1)
	for _, t := range times {
		min = math.Min(min, float64(t))
	}
	return time.Duration(min)
}

func Max(times []time.Duration) time.Duration {
	if len(times) == 0 {
		return 0
	}
	max := math.Inf(-1)
	for _, t := range times {
		max = math.Max(max, float64(t))
	}
	return time.Duration(max)
}

func Avg(times []time.Duration) time.Duration {
	if len(times) == 0 {
		return 0
	}
	sum := time.Duration(0)
	for _, t := range times {
		sum = sum + t
	}
	return sum / time.Duration(len(times))
}
