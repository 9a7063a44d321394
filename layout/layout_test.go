package layout_test

import (
	"testing"

	"github.com/rapidmidiex/rmxpiano/layout"
	"github.com/rapidmidiex/rmxpiano/theme"
	"github.com/stretchr/testify/require"
)

func opts(width, height string, ratio float64) layout.Options {
	size, err := layout.ParseSize(width, height)
	if err != nil {
		panic(err)
	}
	return layout.Options{
		Size:                size,
		BlackKeyWidthRatio:  ratio,
		BlackKeyHeight:      55,
		WhiteKeyBorderWidth: 1,
		BlackKeyBorderWidth: 1,
		Theme:               theme.Default(),
	}
}

func TestCompute(t *testing.T) {
	t.Run("one octave plus the tonic above", func(t *testing.T) {
		l, err := layout.Compute(layout.Range{Low: 0, High: 12}, opts("800px", "125px", 0.75))
		require.NoError(t, err)

		require.Equal(t, 8, l.WhiteKeyCount)
		require.Len(t, l.White(), 8)
		require.InDelta(t, 100, l.WhiteKeyWidth, 1e-9)
		require.InDelta(t, 75, l.BlackKeyWidth, 1e-9)
		require.InDelta(t, 12.5, l.BlackKeyMargin, 1e-9)
		require.InDelta(t, 50, l.Padding, 1e-9)

		row := l.BlackRow()
		require.Len(t, row, 7)
		ghosts := 0
		for _, k := range row {
			if k.Ghost {
				ghosts++
			}
		}
		require.Equal(t, 2, ghosts)
	})

	t.Run("keys are emitted in note order with ghosts after E and B", func(t *testing.T) {
		l, err := layout.Compute(layout.Range{Low: 0, High: 12}, opts("800px", "125px", 0.75))
		require.NoError(t, err)

		type entry struct {
			note  int
			color layout.KeyColor
			ghost bool
		}
		var got []entry
		for _, k := range l.Keys {
			got = append(got, entry{k.Note, k.Color, k.Ghost})
		}
		want := []entry{
			{0, layout.White, false},
			{1, layout.Black, false},
			{2, layout.White, false},
			{3, layout.Black, false},
			{4, layout.White, false},
			{4, layout.Black, true},
			{5, layout.White, false},
			{6, layout.Black, false},
			{7, layout.White, false},
			{8, layout.Black, false},
			{9, layout.White, false},
			{10, layout.Black, false},
			{11, layout.White, false},
			{11, layout.Black, true},
			{12, layout.White, false},
		}
		require.Equal(t, want, got)
	})

	t.Run("no trailing ghost when the range ends on E or B", func(t *testing.T) {
		for _, high := range []int{4, 11, 16, 23} {
			l, err := layout.Compute(layout.Range{Low: 0, High: high}, opts("800px", "125px", 0.5))
			require.NoError(t, err)
			last := l.Keys[len(l.Keys)-1]
			require.False(t, last.Ghost, "range ending at %d", high)
			require.Equal(t, high, last.Note)
		}
	})

	t.Run("black row has one entry per gap between white keys", func(t *testing.T) {
		for low := 0; low < 24; low++ {
			for high := low; high < low+30; high++ {
				r := layout.Range{Low: low, High: high}.Correct()
				l, err := layout.Compute(r, opts("700px", "100px", 0.6))
				require.NoError(t, err)
				require.Len(t, l.BlackRow(), l.WhiteKeyCount-1, "range %v", r)
			}
		}
	})

	t.Run("white and black counts match the pitch classes in range", func(t *testing.T) {
		r := layout.Range{Low: 36, High: 60}
		l, err := layout.Compute(r, opts("1000px", "100px", 0.75))
		require.NoError(t, err)

		wantWhite, wantBlack := 0, 0
		for n := r.Low; n <= r.High; n++ {
			if layout.IsWhite(n) {
				wantWhite++
			} else {
				wantBlack++
			}
		}
		real := 0
		for _, k := range l.BlackRow() {
			if !k.Ghost {
				real++
			}
		}
		require.Equal(t, wantWhite, len(l.White()))
		require.Equal(t, wantBlack, real)
		require.Len(t, l.Playable(), r.High-r.Low+1)
	})

	t.Run("ratio of one leaves no margin", func(t *testing.T) {
		l, err := layout.Compute(layout.Range{Low: 0, High: 12}, opts("800px", "125px", 1))
		require.NoError(t, err)
		require.Zero(t, l.BlackKeyMargin)
		require.InDelta(t, 50, l.Padding, 1e-9)
		require.InDelta(t, 100, l.BlackKeyWidth, 1e-9)
	})

	t.Run("relative widths are percentages of the keyboard", func(t *testing.T) {
		l, err := layout.Compute(layout.Range{Low: 0, High: 12}, opts("70%", "50%", 0.75))
		require.NoError(t, err)
		require.Equal(t, layout.Percent, l.Unit)
		require.InDelta(t, 12.5, l.WhiteKeyWidth, 1e-9)
		require.InDelta(t, 12.5*0.75, l.BlackKeyWidth, 1e-9)
		require.InDelta(t, 12.5*0.125, l.BlackKeyMargin, 1e-9)
	})

	t.Run("mid-octave start keeps black keys between their neighbours", func(t *testing.T) {
		// E to A: E, ghost, F, F#, G, G#, A
		l, err := layout.Compute(layout.Range{Low: 4, High: 9}, opts("400px", "100px", 0.5))
		require.NoError(t, err)
		require.Equal(t, 4, l.WhiteKeyCount)

		row := l.BlackRow()
		require.Len(t, row, 3)
		require.True(t, row[0].Ghost)
		require.Equal(t, 6, row[1].Note)
		require.Equal(t, 8, row[2].Note)

		white := l.White()
		// F# sits across the F/G boundary.
		boundary := white[2].X
		require.InDelta(t, boundary, row[1].X+row[1].Width/2, 1e-9)
	})

	t.Run("corrects black bounds before laying out", func(t *testing.T) {
		l, err := layout.Compute(layout.Range{Low: 1, High: 61}, opts("800px", "100px", 0.75))
		require.NoError(t, err)
		require.Equal(t, layout.Range{Low: 0, High: 60}, l.Range)
	})

	t.Run("rejects bad input", func(t *testing.T) {
		_, err := layout.Compute(layout.Range{Low: 10, High: 2}, opts("800px", "100px", 0.75))
		require.ErrorIs(t, err, layout.ErrInvalidRange)

		_, err = layout.Compute(layout.Range{Low: 0, High: 12}, opts("800px", "100px", 1.5))
		require.ErrorIs(t, err, layout.ErrInvalidRatio)

		_, err = layout.Compute(layout.Range{Low: 0, High: 12}, opts("0px", "100px", 0.5))
		require.ErrorIs(t, err, layout.ErrInvalidSize)
	})

	t.Run("descriptors carry theme colors and borders", func(t *testing.T) {
		o := opts("800px", "100px", 0.75)
		o.Theme.BlackKeyHighlight = "deeppink"
		o.BlackKeyBorderWidth = 2
		l, err := layout.Compute(layout.Range{Low: 0, High: 2}, o)
		require.NoError(t, err)

		require.Equal(t, "white", l.Keys[0].PrimaryColor)
		require.Equal(t, "aqua", l.Keys[0].HighlightColor)
		require.Equal(t, "deeppink", l.Keys[1].HighlightColor)
		require.Equal(t, 2.0, l.Keys[1].BorderWidth)
	})
}

func TestCorrect(t *testing.T) {
	cases := []struct {
		in, want layout.Range
	}{
		{layout.Range{Low: 1, High: 60}, layout.Range{Low: 0, High: 60}},
		{layout.Range{Low: 36, High: 61}, layout.Range{Low: 36, High: 60}},
		{layout.Range{Low: 6, High: 10}, layout.Range{Low: 5, High: 9}},
		{layout.Range{Low: 0, High: 12}, layout.Range{Low: 0, High: 12}},
	}
	for _, c := range cases {
		require.Equal(t, c.want, c.in.Correct())
	}
}

func TestPlace(t *testing.T) {
	t.Run("absolute units", func(t *testing.T) {
		l, err := layout.Compute(layout.Range{Low: 0, High: 12}, opts("800px", "120px", 0.75))
		require.NoError(t, err)
		g := l.Place(layout.Rect{X: 10, Y: 5, W: 2000, H: 500}, layout.Viewport{Width: 2000, Height: 500})

		require.Equal(t, layout.Rect{X: 10, Y: 5, W: 800, H: 120}, g.Bounds)
		require.InDelta(t, 75, g.BlackKeyWidth, 1e-9)
		require.InDelta(t, 12.5, g.BlackKeyMargin, 1e-9)
		require.InDelta(t, 50, g.Padding, 1e-9)

		first := g.Black[0].Bounds
		require.InDelta(t, 10+50+12.5, first.X, 1e-9)
		require.InDelta(t, 66, first.H, 1e-9)
		require.InDelta(t, 10+700, g.White[7].Bounds.X, 1e-9)
	})

	t.Run("relative units resolve against the parent", func(t *testing.T) {
		l, err := layout.Compute(layout.Range{Low: 0, High: 12}, opts("50%", "100%", 0.75))
		require.NoError(t, err)
		g := l.Place(layout.Rect{W: 1600, H: 200}, layout.Viewport{Width: 1600, Height: 200})

		containerW := 800.0
		require.InDelta(t, containerW/8*0.75, g.BlackKeyWidth, 1e-9)
		require.InDelta(t, containerW/8*0.125, g.BlackKeyMargin, 1e-9)
		require.InDelta(t, containerW/8, g.White[1].Bounds.W, 1e-9)
		require.InDelta(t, 200, g.Bounds.H, 1e-9)
	})

	t.Run("viewport units", func(t *testing.T) {
		l, err := layout.Compute(layout.Range{Low: 36, High: 60}, opts("90vw", "20vh", 0.5))
		require.NoError(t, err)
		g := l.Place(layout.Rect{W: 300, H: 300}, layout.Viewport{Width: 1000, Height: 500})
		require.InDelta(t, 900, g.Bounds.W, 1e-9)
		require.InDelta(t, 100, g.Bounds.H, 1e-9)
		require.InDelta(t, 900.0/15, g.White[0].Bounds.W, 1e-9)
	})
}
