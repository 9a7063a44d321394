package theme_test

import (
	"testing"

	"github.com/rapidmidiex/rmxpiano/theme"
	"github.com/stretchr/testify/require"
)

func TestHex(t *testing.T) {
	for in, want := range map[string]string{
		"aqua":      "#00ffff",
		" White ":   "#ffffff",
		"#333":      "#333333",
		"#FF1493":   "#ff1493",
		"deeppink":  "#ff1493",
		"#1b1b1b":   "#1b1b1b",
		"DeepPink ": "#ff1493",
		"lavender":  "#e6e6fa",
		"salmon":    "#fa8072",
		"lightgrey": "#d3d3d3",
		"beige":     "#f5f5dc",
		"slategray": "#708090",
	} {
		got, err := theme.Hex(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "sparkly", "#12", "#gggggg", "ff0000"} {
		_, err := theme.Hex(bad)
		require.ErrorIs(t, err, theme.ErrInvalidColor, bad)
	}
}

func TestMerge(t *testing.T) {
	t.Run("applies known roles", func(t *testing.T) {
		got, dropped := theme.Default().Merge(map[string]string{
			"whiteKey":          "ivory",
			"blackKeyHighlight": " #ff1493 ",
		})
		require.Empty(t, dropped)
		require.Equal(t, "ivory", got.WhiteKey)
		require.Equal(t, "#ff1493", got.BlackKeyHighlight)
		require.Equal(t, "black", got.BlackKey)
	})

	t.Run("accepts every css color name", func(t *testing.T) {
		got, dropped := theme.Default().Merge(map[string]string{
			"whiteKey":       "lavender",
			"whiteKeyBorder": "LightSlateGrey",
		})
		require.Empty(t, dropped)
		require.Equal(t, "lavender", got.WhiteKey)
		require.Equal(t, "LightSlateGrey", got.WhiteKeyBorder)
	})

	t.Run("drops unknown roles and bad colors", func(t *testing.T) {
		base := theme.Default()
		got, dropped := base.Merge(map[string]string{
			"keyColor": "red",
			"blackKey": "not a color",
		})
		require.Equal(t, []string{"blackKey", "keyColor"}, dropped)
		require.Equal(t, base, got)
	})

	t.Run("empty merge changes nothing", func(t *testing.T) {
		got, dropped := theme.Default().Merge(nil)
		require.Empty(t, dropped)
		require.Equal(t, theme.Default(), got)
	})

	t.Run("map round trip", func(t *testing.T) {
		for _, p := range theme.Presets {
			got, dropped := theme.Default().Merge(p.Map())
			require.Empty(t, dropped)
			require.Equal(t, p, got)
		}
	})
}

func TestRoles(t *testing.T) {
	require.Len(t, theme.Roles, 6)
	for _, r := range theme.Roles {
		require.True(t, r.Valid())
		require.NotEmpty(t, theme.Default().Get(r))
	}
	require.False(t, theme.Role("keyColor").Valid())
	require.Empty(t, theme.Default().Get("keyColor"))
}
