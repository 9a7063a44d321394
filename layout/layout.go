// Package layout computes the key geometry of a piano keyboard.
//
// A keyboard is two rows: white keys side by side, and on top of them a row
// of black keys. The black row holds one entry for every gap between two
// white keys; where no black key exists (E-F and B-C) an invisible ghost key
// keeps the spacing.
package layout

import (
	"errors"
	"fmt"

	"github.com/rapidmidiex/rmxpiano/theme"
)

type (
	// Range of note indexes, inclusive on both ends.
	Range struct {
		Low  int
		High int
	}

	KeyColor int

	KeyDescriptor struct {
		// Note index. For ghost keys, the note the ghost follows.
		Note  int
		Color KeyColor
		Ghost bool
		// Position within the key's row.
		Slot int
		// Offset and width along the keyboard, in Layout.Unit.
		X     float64
		Width float64

		PrimaryColor   string
		HighlightColor string
		BorderColor    string
		BorderWidth    float64
	}

	Options struct {
		Size Size
		// Width of a black key relative to a white key, 0..1.
		BlackKeyWidthRatio float64
		// Height of a black key, in percent of the keyboard height.
		BlackKeyHeight      float64
		WhiteKeyBorderWidth float64
		BlackKeyBorderWidth float64
		Theme               theme.Theme
	}

	Layout struct {
		Range   Range
		Options Options
		// Unit of every X/Width value. For relative units they are percentages
		// of the keyboard's own width.
		Unit Unit
		// Keys in note order, ghosts right after the E or B they follow.
		Keys []KeyDescriptor

		WhiteKeyCount  int
		WhiteKeyWidth  float64
		BlackKeyWidth  float64
		BlackKeyMargin float64
		// Horizontal padding on each side of the black row.
		Padding float64
	}
)

const (
	White KeyColor = iota
	Black
)

var (
	ErrInvalidRange = errors.New("invalid range")
	ErrInvalidRatio = errors.New("invalid black key width ratio")
	ErrInvalidSize  = errors.New("invalid size")
)

var keyPattern = [12]KeyColor{White, Black, White, Black, White, White, Black, White, Black, White, Black, White}

func (c KeyColor) String() string {
	if c == Black {
		return "black"
	}
	return "white"
}

func PitchClass(note int) int {
	return note % 12
}

func Octave(note int) int {
	return note / 12
}

func ColorOf(note int) KeyColor {
	return keyPattern[PitchClass(note)]
}

func IsWhite(note int) bool {
	return note >= 0 && ColorOf(note) == White
}

// Correct moves a bound sitting on a black key down to the white key below it.
func (r Range) Correct() Range {
	fix := func(n int) int {
		if n < 0 || IsWhite(n) {
			return n
		}
		if n-1 < 0 {
			return 0
		}
		return n - 1
	}
	return Range{Low: fix(r.Low), High: fix(r.High)}
}

func (r Range) Validate() error {
	if r.Low < 0 || r.High < 0 {
		return fmt.Errorf("%w: negative bound in [%d, %d]", ErrInvalidRange, r.Low, r.High)
	}
	if r.Low > r.High {
		return fmt.Errorf("%w: low %d above high %d", ErrInvalidRange, r.Low, r.High)
	}
	return nil
}

func (r Range) Contains(note int) bool {
	return note >= r.Low && note <= r.High
}

// WhiteKeys counts the white keys in r.
func (r Range) WhiteKeys() int {
	n := 0
	for i := r.Low; i <= r.High; i++ {
		if IsWhite(i) {
			n++
		}
	}
	return n
}

func (o Options) validate() error {
	if o.BlackKeyWidthRatio < 0 || o.BlackKeyWidthRatio > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidRatio, o.BlackKeyWidthRatio)
	}
	if o.Size.Width.Value <= 0 || o.Size.Height.Value <= 0 {
		return fmt.Errorf("%w: %s x %s", ErrInvalidSize, o.Size.Width, o.Size.Height)
	}
	if o.BlackKeyHeight < 0 || o.BlackKeyHeight > 100 {
		return fmt.Errorf("%w: black key height %v%%", ErrInvalidSize, o.BlackKeyHeight)
	}
	return nil
}

// Compute lays out r. The range is corrected first so both ends are white keys.
func Compute(r Range, o Options) (Layout, error) {
	if err := r.Validate(); err != nil {
		return Layout{}, err
	}
	if err := o.validate(); err != nil {
		return Layout{}, err
	}
	r = r.Correct()

	l := Layout{
		Range:         r,
		Options:       o,
		Unit:          o.Size.Width.Unit,
		WhiteKeyCount: r.WhiteKeys(),
	}

	// Relative widths are measured against the keyboard box itself, so the
	// declared percentage is divided out and the base becomes 100.
	base := o.Size.Width.Value
	if l.Unit.Relative() {
		base = 100
	}

	ratio := o.BlackKeyWidthRatio
	l.WhiteKeyWidth = base / float64(l.WhiteKeyCount)
	l.BlackKeyWidth = l.WhiteKeyWidth * ratio
	if ratio == 1 {
		l.BlackKeyMargin = 0
		l.Padding = l.WhiteKeyWidth / 2
	} else {
		marginRatio := (1 - ratio) / 2
		l.BlackKeyMargin = l.WhiteKeyWidth * marginRatio
		l.Padding = l.BlackKeyMargin / (marginRatio * 2)
	}

	white, black := 0, 0
	blackEntry := func(note int, ghost bool) KeyDescriptor {
		k := KeyDescriptor{
			Note:           note,
			Color:          Black,
			Ghost:          ghost,
			Slot:           black,
			X:              l.Padding + float64(black)*l.WhiteKeyWidth + l.BlackKeyMargin,
			Width:          l.BlackKeyWidth,
			PrimaryColor:   o.Theme.BlackKey,
			HighlightColor: o.Theme.BlackKeyHighlight,
			BorderColor:    o.Theme.BlackKeyBorder,
			BorderWidth:    o.BlackKeyBorderWidth,
		}
		black++
		return k
	}

	for n := r.Low; n <= r.High; n++ {
		if ColorOf(n) == White {
			l.Keys = append(l.Keys, KeyDescriptor{
				Note:           n,
				Color:          White,
				Slot:           white,
				X:              float64(white) * l.WhiteKeyWidth,
				Width:          l.WhiteKeyWidth,
				PrimaryColor:   o.Theme.WhiteKey,
				HighlightColor: o.Theme.WhiteKeyHighlight,
				BorderColor:    o.Theme.WhiteKeyBorder,
				BorderWidth:    o.WhiteKeyBorderWidth,
			})
			white++
		} else {
			l.Keys = append(l.Keys, blackEntry(n, false))
		}

		pc := PitchClass(n)
		if (pc == 4 || pc == 11) && n != r.High {
			l.Keys = append(l.Keys, blackEntry(n, true))
		}
	}

	return l, nil
}

// White returns the white keys in order.
func (l Layout) White() []KeyDescriptor {
	return l.filter(func(k KeyDescriptor) bool { return k.Color == White })
}

// BlackRow returns the black keys and ghosts in order.
func (l Layout) BlackRow() []KeyDescriptor {
	return l.filter(func(k KeyDescriptor) bool { return k.Color == Black })
}

// Playable returns every key that carries a note.
func (l Layout) Playable() []KeyDescriptor {
	return l.filter(func(k KeyDescriptor) bool { return !k.Ghost })
}

func (l Layout) filter(keep func(KeyDescriptor) bool) []KeyDescriptor {
	out := make([]KeyDescriptor, 0, len(l.Keys))
	for _, k := range l.Keys {
		if keep(k) {
			out = append(out, k)
		}
	}
	return out
}
