package layout

type (
	Rect struct {
		X, Y, W, H float64
	}

	PlacedKey struct {
		KeyDescriptor
		// Absolute bounds.
		Bounds Rect
	}

	Geometry struct {
		// Bounds of the whole keyboard.
		Bounds Rect
		White  []PlacedKey
		// Black keys and ghosts.
		Black []PlacedKey
		// Black key measurements in px.
		BlackKeyWidth  float64
		BlackKeyMargin float64
		Padding        float64
	}
)

func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Place resolves the layout inside parent, which is the box the declared
// size is relative to.
func (l Layout) Place(parent Rect, vp Viewport) Geometry {
	w := l.Options.Size.Width.Resolve(parent.W, vp)
	h := l.Options.Size.Height.Resolve(parent.H, vp)

	scale := 1.0
	if l.Unit.Relative() {
		scale = w / 100
	}
	blackH := h * l.Options.BlackKeyHeight / 100

	g := Geometry{
		Bounds:         Rect{X: parent.X, Y: parent.Y, W: w, H: h},
		BlackKeyWidth:  l.BlackKeyWidth * scale,
		BlackKeyMargin: l.BlackKeyMargin * scale,
		Padding:        l.Padding * scale,
	}
	for _, k := range l.Keys {
		r := Rect{X: parent.X + k.X*scale, Y: parent.Y, W: k.Width * scale, H: h}
		if k.Color == Black {
			r.H = blackH
			g.Black = append(g.Black, PlacedKey{KeyDescriptor: k, Bounds: r})
			continue
		}
		g.White = append(g.White, PlacedKey{KeyDescriptor: k, Bounds: r})
	}
	return g
}
