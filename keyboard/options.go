package keyboard

import (
	"fmt"
	"sort"

	"github.com/rapidmidiex/rmxpiano/layout"
	"github.com/rapidmidiex/rmxpiano/theme"
)

type (
	// Options is the loosely typed form of Settings, as read from JSON or
	// written inline by an embedder. Recognized keys:
	//
	//	size                 [width, height]  ex: ["800px", "125px"]
	//	range                [low, high]      inclusive note indexes
	//	colors               {role: color}    see theme.Roles
	//	whiteKeyBorderWidth  number
	//	blackKeyBorderWidth  number
	//	blackKeyWidthRatio   number in 0..1
	//	blackKeyHeight       percent of the keyboard height
	//	mouseVelocity        0..127, used when the pointer reports no pressure
	Options map[string]any

	Settings struct {
		Size                layout.Size
		Range               layout.Range
		Colors              theme.Theme
		WhiteKeyBorderWidth float64
		BlackKeyBorderWidth float64
		BlackKeyWidthRatio  float64
		BlackKeyHeight      float64
		MouseVelocity       int
	}
)

const (
	OptSize                = "size"
	OptRange               = "range"
	OptColors              = "colors"
	OptWhiteKeyBorderWidth = "whiteKeyBorderWidth"
	OptBlackKeyBorderWidth = "blackKeyBorderWidth"
	OptBlackKeyWidthRatio  = "blackKeyWidthRatio"
	OptBlackKeyHeight      = "blackKeyHeight"
	OptMouseVelocity       = "mouseVelocity"
)

// DefaultSettings is what a keyboard starts from before options are merged.
func DefaultSettings() Settings {
	return Settings{
		Size: layout.Size{
			Width:  layout.Dimension{Value: 100, Unit: layout.Percent},
			Height: layout.Dimension{Value: 100, Unit: layout.Percent},
		},
		Range:               layout.Range{Low: 36, High: 60},
		Colors:              theme.Default(),
		WhiteKeyBorderWidth: 1,
		BlackKeyBorderWidth: 1,
		BlackKeyWidthRatio:  0.75,
		BlackKeyHeight:      55,
		MouseVelocity:       100,
	}
}

// Merge applies opts over s. Keys that are unknown, of the wrong type or out
// of bounds are left out and returned, sorted, so they can be reported. s
// itself is never modified.
func (s Settings) Merge(opts Options) (Settings, []string) {
	out := s
	var dropped []string
	drop := func(format string, args ...any) {
		dropped = append(dropped, fmt.Sprintf(format, args...))
	}

	for name, raw := range opts {
		switch name {
		case OptSize:
			pair, ok := stringPair(raw)
			if !ok {
				drop("%s", name)
				continue
			}
			size, err := layout.ParseSize(pair[0], pair[1])
			if err != nil || size.Width.Value == 0 || size.Height.Value == 0 {
				drop("%s", name)
				continue
			}
			out.Size = size

		case OptRange:
			pair, ok := intPair(raw)
			if !ok {
				drop("%s", name)
				continue
			}
			r := layout.Range{Low: pair[0], High: pair[1]}
			if r.Validate() != nil {
				drop("%s", name)
				continue
			}
			out.Range = r.Correct()

		case OptColors:
			colors, ok := stringMap(raw)
			if !ok {
				drop("%s", name)
				continue
			}
			var bad []string
			out.Colors, bad = out.Colors.Merge(colors)
			for _, role := range bad {
				drop("%s.%s", name, role)
			}

		case OptWhiteKeyBorderWidth, OptBlackKeyBorderWidth:
			v, ok := number(raw)
			if !ok || v < 0 {
				drop("%s", name)
				continue
			}
			if name == OptWhiteKeyBorderWidth {
				out.WhiteKeyBorderWidth = v
			} else {
				out.BlackKeyBorderWidth = v
			}

		case OptBlackKeyWidthRatio:
			v, ok := number(raw)
			if !ok || v < 0 || v > 1 {
				drop("%s", name)
				continue
			}
			out.BlackKeyWidthRatio = v

		case OptBlackKeyHeight:
			v, ok := number(raw)
			if !ok || v < 0 || v > 100 {
				drop("%s", name)
				continue
			}
			out.BlackKeyHeight = v

		case OptMouseVelocity:
			v, ok := number(raw)
			if !ok || v < 0 || v > 127 || v != float64(int(v)) {
				drop("%s", name)
				continue
			}
			out.MouseVelocity = int(v)

		default:
			drop("%s", name)
		}
	}

	sort.Strings(dropped)
	return out, dropped
}

func (s Settings) layoutOptions() layout.Options {
	return layout.Options{
		Size:                s.Size,
		BlackKeyWidthRatio:  s.BlackKeyWidthRatio,
		BlackKeyHeight:      s.BlackKeyHeight,
		WhiteKeyBorderWidth: s.WhiteKeyBorderWidth,
		BlackKeyBorderWidth: s.BlackKeyBorderWidth,
		Theme:               s.Colors,
	}
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	}
	return 0, false
}

func stringPair(v any) ([2]string, bool) {
	switch p := v.(type) {
	case [2]string:
		return p, true
	case []string:
		if len(p) == 2 {
			return [2]string{p[0], p[1]}, true
		}
	case []any:
		if len(p) == 2 {
			a, okA := p[0].(string)
			b, okB := p[1].(string)
			if okA && okB {
				return [2]string{a, b}, true
			}
		}
	}
	return [2]string{}, false
}

func intPair(v any) ([2]int, bool) {
	var raw []any
	switch p := v.(type) {
	case [2]int:
		return p, true
	case []int:
		if len(p) == 2 {
			return [2]int{p[0], p[1]}, true
		}
		return [2]int{}, false
	case []any:
		raw = p
	default:
		return [2]int{}, false
	}
	if len(raw) != 2 {
		return [2]int{}, false
	}
	var out [2]int
	for i, x := range raw {
		n, ok := number(x)
		if !ok || n != float64(int(n)) {
			return [2]int{}, false
		}
		out[i] = int(n)
	}
	return out, true
}

func stringMap(v any) (map[string]string, bool) {
	switch m := v.(type) {
	case map[string]string:
		return m, true
	case map[string]any:
		out := make(map[string]string, len(m))
		for k, x := range m {
			s, ok := x.(string)
			if !ok {
				// leave it to theme.Merge to reject as an unparseable color
				s = ""
			}
			out[k] = s
		}
		return out, true
	}
	return nil, false
}
