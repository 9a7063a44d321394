// Package theme holds the color roles of a piano keyboard.
package theme

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"
)

type (
	Role string

	Theme struct {
		WhiteKey          string
		BlackKey          string
		WhiteKeyHighlight string
		BlackKeyHighlight string
		WhiteKeyBorder    string
		BlackKeyBorder    string
	}
)

const (
	WhiteKey          Role = "whiteKey"
	BlackKey          Role = "blackKey"
	WhiteKeyHighlight Role = "whiteKeyHighlight"
	BlackKeyHighlight Role = "blackKeyHighlight"
	WhiteKeyBorder    Role = "whiteKeyBorder"
	BlackKeyBorder    Role = "blackKeyBorder"
)

var ErrInvalidColor = errors.New("invalid color")

// Roles lists every known role in a stable order.
var Roles = []Role{WhiteKey, BlackKey, WhiteKeyHighlight, BlackKeyHighlight, WhiteKeyBorder, BlackKeyBorder}

// Default returns the stock black and white keyboard with aqua highlights.
func Default() Theme {
	return Theme{
		WhiteKey:          "white",
		BlackKey:          "black",
		WhiteKeyHighlight: "aqua",
		BlackKeyHighlight: "aqua",
		WhiteKeyBorder:    "black",
		BlackKeyBorder:    "black",
	}
}

func (r Role) Valid() bool {
	for _, k := range Roles {
		if k == r {
			return true
		}
	}
	return false
}

// Get returns the color assigned to role, or "" for an unknown role.
func (t Theme) Get(role Role) string {
	if p := t.field(role); p != nil {
		return *p
	}
	return ""
}

// Merge returns a copy of t with the colors of partial applied.
// Unknown roles and unparseable colors are not applied; their keys are
// returned sorted so the caller can report them.
func (t Theme) Merge(partial map[string]string) (Theme, []string) {
	var dropped []string
	for name, color := range partial {
		p := t.field(Role(name))
		if p == nil {
			dropped = append(dropped, name)
			continue
		}
		if _, err := Hex(color); err != nil {
			dropped = append(dropped, name)
			continue
		}
		*p = strings.TrimSpace(color)
	}
	sort.Strings(dropped)
	return t, dropped
}

// Map returns the theme as role name -> color.
func (t Theme) Map() map[string]string {
	m := make(map[string]string, len(Roles))
	for _, r := range Roles {
		m[string(r)] = t.Get(r)
	}
	return m
}

func (t *Theme) field(role Role) *string {
	switch role {
	case WhiteKey:
		return &t.WhiteKey
	case BlackKey:
		return &t.BlackKey
	case WhiteKeyHighlight:
		return &t.WhiteKeyHighlight
	case BlackKeyHighlight:
		return &t.BlackKeyHighlight
	case WhiteKeyBorder:
		return &t.WhiteKeyBorder
	case BlackKeyBorder:
		return &t.BlackKeyBorder
	}
	return nil
}

// Hex normalizes a CSS color name or hex string to "#rrggbb".
func Hex(color string) (string, error) {
	c := strings.ToLower(strings.TrimSpace(color))
	if named, ok := colornames.Map[c]; ok {
		parsed, _ := colorful.MakeColor(named)
		return parsed.Hex(), nil
	}
	if !strings.HasPrefix(c, "#") {
		return "", fmt.Errorf("%w: %q", ErrInvalidColor, color)
	}
	parsed, err := colorful.Hex(c)
	if err != nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidColor, color)
	}
	return parsed.Hex(), nil
}

// Presets used by the terminal app to cycle through looks.
var Presets = []Theme{
	Default(),
	{
		WhiteKey:          "#333",
		BlackKey:          "aqua",
		WhiteKeyHighlight: "deeppink",
		BlackKeyHighlight: "deeppink",
		WhiteKeyBorder:    "black",
		BlackKeyBorder:    "black",
	},
	{
		WhiteKey:          "ivory",
		BlackKey:          "#1b1b1b",
		WhiteKeyHighlight: "#9dcc3a",
		BlackKeyHighlight: "#4636f5",
		WhiteKeyBorder:    "gray",
		BlackKeyBorder:    "black",
	},
}
