package vpiano_test

import (
	"testing"

	"github.com/rapidmidiex/rmxpiano/vpiano"
	"github.com/stretchr/testify/require"
)

func TestMakeOctaveNotes(t *testing.T) {
	t.Run("maps the home and q rows from C", func(t *testing.T) {
		got := vpiano.MakeOctaveNotes(vpiano.C4)
		wantNotes := []vpiano.Note{
			{MIDI: 60, KeyBinding: "a", Name: "C", IsAccidental: false},
			{MIDI: 61, KeyBinding: "w", Name: "C#/Db", IsAccidental: true},
			{MIDI: 62, KeyBinding: "s", Name: "D", IsAccidental: false},
			{MIDI: 63, KeyBinding: "e", Name: "D#/Eb", IsAccidental: true},
			{MIDI: 64, KeyBinding: "d", Name: "E", IsAccidental: false},
			{MIDI: 65, KeyBinding: "f", Name: "F", IsAccidental: false},
			{MIDI: 66, KeyBinding: "t", Name: "F#/Gb", IsAccidental: true},
			{MIDI: 67, KeyBinding: "g", Name: "G", IsAccidental: false},
			{MIDI: 68, KeyBinding: "y", Name: "G#/Ab", IsAccidental: true},
			{MIDI: 69, KeyBinding: "h", Name: "A", IsAccidental: false},
			{MIDI: 70, KeyBinding: "u", Name: "A#/Bb", IsAccidental: true},
			{MIDI: 71, KeyBinding: "j", Name: "B", IsAccidental: false},
			{MIDI: 72, KeyBinding: "k", Name: "C", IsAccidental: false},
			{MIDI: 73, KeyBinding: "o", Name: "C#/Db", IsAccidental: true},
			{MIDI: 74, KeyBinding: "l", Name: "D", IsAccidental: false},
			{MIDI: 75, KeyBinding: "p", Name: "D#/Eb", IsAccidental: true},
			{MIDI: 76, KeyBinding: ";", Name: "E", IsAccidental: false},
			{MIDI: 77, KeyBinding: "'", Name: "F", IsAccidental: false},
		}
		require.Equal(t, vpiano.Notes(wantNotes), got)
	})

	t.Run("stops at the top of the MIDI range", func(t *testing.T) {
		got := vpiano.MakeOctaveNotes(vpiano.C9)
		require.Len(t, got, 8)
		require.Equal(t, 127, got[len(got)-1].MIDI)
	})

	t.Run("starts at MIDI 0 for the lowest octave", func(t *testing.T) {
		got := vpiano.MakeOctaveNotes(vpiano.Cneg1)
		require.Equal(t, 0, got[0].MIDI)
	})
}

func TestToBindingMap(t *testing.T) {
	m := vpiano.MakeOctaveNotes(vpiano.C2).ToBindingMap()
	require.Len(t, m, 18)
	require.Equal(t, 36, m["a"].MIDI)
	require.Equal(t, 53, m["'"].MIDI)
	_, ok := m["z"]
	require.False(t, ok)
}

func TestOctaveOf(t *testing.T) {
	require.Equal(t, vpiano.C4, vpiano.OctaveOf(60))
	require.Equal(t, vpiano.C4, vpiano.OctaveOf(71))
	require.Equal(t, vpiano.C2, vpiano.OctaveOf(36))
	require.Equal(t, vpiano.Cneg1, vpiano.OctaveOf(0))
}

func TestInRange(t *testing.T) {
	require.True(t, vpiano.InRange(36, 36, 60))
	require.True(t, vpiano.InRange(60, 36, 60))
	require.False(t, vpiano.InRange(61, 36, 60))
	require.False(t, vpiano.InRange(130, 0, 200))
}
