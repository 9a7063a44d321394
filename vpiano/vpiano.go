// Package vpiano maps the qwerty keyboard onto piano notes.
package vpiano

type (
	Note struct {
		// MIDI note number, based on C4=60
		MIDI int
		// Name of the note, ex: "C", "F#/Gb"
		Name string
		// Denotes if note is sharp/flat ie. "black" key.
		IsAccidental bool
		// qwerty keyboard key binding.
		KeyBinding string
	}

	Notes []Note

	NoteKeyMap map[string]Note

	Octave int
)

const (
	Cneg1 Octave = iota - 1
	C0
	C1
	C2
	C3
	C4
	C5
	C6
	C7
	C8
	C9
)

var noteNames = []struct {
	name         string
	isAccidental bool
}{
	{name: "C", isAccidental: false},
	{name: "C#/Db", isAccidental: true},
	{name: "D", isAccidental: false},
	{name: "D#/Eb", isAccidental: true},
	{name: "E", isAccidental: false},
	{name: "F", isAccidental: false},
	{name: "F#/Gb", isAccidental: true},
	{name: "G", isAccidental: false},
	{name: "G#/Ab", isAccidental: true},
	{name: "A", isAccidental: false},
	{name: "A#/Bb", isAccidental: true},
	{name: "B", isAccidental: false},
}

// qwerty keys ordered to allow for fingering similar to a real piano: the
// home row for naturals and the q-row for accidentals.
var qwertyKeys = []string{"a", "w", "s", "e", "d", "f", "t", "g", "y", "h", "u", "j", "k", "o", "l", "p", ";", "'"}

// OctaveOf returns the octave note belongs to. ex: 61 -> C4
func OctaveOf(note int) Octave {
	if note < 0 {
		return Cneg1
	}
	return Octave(note/12 - 1)
}

// MakeOctaveNotes lists the notes reachable from the qwerty keyboard, starting
// at C of the given octave. Notes above MIDI 127 are left out.
func MakeOctaveNotes(octave Octave) Notes {
	midiC := 12 * (int(octave) + 1)
	notes := make(Notes, 0, len(qwertyKeys))

	for i, kb := range qwertyKeys {
		midi := midiC + i
		if midi > 127 {
			break
		}
		n := noteNames[i%len(noteNames)]
		notes = append(notes, Note{
			MIDI:         midi,
			Name:         n.name,
			IsAccidental: n.isAccidental,
			KeyBinding:   kb,
		})
	}

	return notes
}

func (notes Notes) ToBindingMap() NoteKeyMap {
	nMap := make(NoteKeyMap, len(notes))
	for _, n := range notes {
		nMap[n.KeyBinding] = n
	}
	return nMap
}

// InRange reports whether note is playable on a keyboard spanning [low, high].
func InRange(note, low, high int) bool {
	return note >= low && note <= high && note >= 0 && note < 128
}
