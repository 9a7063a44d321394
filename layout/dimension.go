package layout

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type (
	// Unit of a declared dimension.
	Unit string

	// Dimension is a number paired with a unit, ex: "800px", "70%".
	Dimension struct {
		Value float64
		Unit  Unit
	}

	Size struct {
		Width  Dimension
		Height Dimension
	}

	// Viewport is the size of the whole drawing area, in px.
	Viewport struct {
		Width  float64
		Height float64
	}
)

const (
	Px      Unit = "px"
	Percent Unit = "%"
	VW      Unit = "vw"
	VH      Unit = "vh"
)

var ErrInvalidDimension = errors.New("invalid dimension")

// Relative reports whether values in u depend on a reference box rather than
// being absolute.
func (u Unit) Relative() bool {
	return u != Px
}

// ParseDimension parses strings such as "800px", "70%", "90vw" or "12".
// A bare number is taken as px.
func ParseDimension(s string) (Dimension, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Dimension{}, fmt.Errorf("%w: empty", ErrInvalidDimension)
	}

	unit := Px
	num := s
	for _, u := range []Unit{Px, Percent, VW, VH} {
		if strings.HasSuffix(s, string(u)) {
			unit = u
			num = strings.TrimSpace(strings.TrimSuffix(s, string(u)))
			break
		}
	}

	v, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Dimension{}, fmt.Errorf("%w: %q", ErrInvalidDimension, s)
	}
	if v < 0 {
		return Dimension{}, fmt.Errorf("%w: negative %q", ErrInvalidDimension, s)
	}
	return Dimension{Value: v, Unit: unit}, nil
}

// MustParseDimension is like ParseDimension but panics on error.
func MustParseDimension(s string) Dimension {
	d, err := ParseDimension(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Dimension) String() string {
	return strconv.FormatFloat(d.Value, 'f', -1, 64) + string(d.Unit)
}

// Resolve converts d to px. Percentages are taken of parent, vw/vh of the viewport.
func (d Dimension) Resolve(parent float64, vp Viewport) float64 {
	switch d.Unit {
	case Percent:
		return parent * d.Value / 100
	case VW:
		return vp.Width * d.Value / 100
	case VH:
		return vp.Height * d.Value / 100
	default:
		return d.Value
	}
}

// ParseSize parses a width/height pair.
func ParseSize(width, height string) (Size, error) {
	w, err := ParseDimension(width)
	if err != nil {
		return Size{}, fmt.Errorf("width: %w", err)
	}
	h, err := ParseDimension(height)
	if err != nil {
		return Size{}, fmt.Errorf("height: %w", err)
	}
	return Size{Width: w, Height: h}, nil
}

func (s Size) Strings() [2]string {
	return [2]string{s.Width.String(), s.Height.String()}
}
