package mover

// boundsPadding keeps the cursor away from window edges so reflected motion
// never lands on a border or title bar.
const boundsPadding = 10

type Bounds struct {
	Left   int
	Top    int
	Right  int
	Bottom int
}

func boundsFromGeometry(g Geometry) Bounds {
	b := Bounds{
		Left:   g.Left + boundsPadding,
		Top:    g.Top + boundsPadding,
		Right:  g.Left + g.Width - boundsPadding,
		Bottom: g.Top + g.Height - boundsPadding,
	}
	// Windows smaller than twice the padding collapse to their midpoint.
	if b.Right < b.Left {
		mid := g.Left + g.Width/2
		b.Left, b.Right = mid, mid
	}
	if b.Bottom < b.Top {
		mid := g.Top + g.Height/2
		b.Top, b.Bottom = mid, mid
	}
	return b
}

func (b Bounds) Width() int {
	return b.Right - b.Left
}

func (b Bounds) Height() int {
	return b.Bottom - b.Top
}

func (b Bounds) Center() (int, int) {
	return b.Left + b.Width()/2, b.Top + b.Height()/2
}

func (b Bounds) Clamp(x, y int) (int, int) {
	if x < b.Left {
		x = b.Left
	}
	if x > b.Right {
		x = b.Right
	}
	if y < b.Top {
		y = b.Top
	}
	if y > b.Bottom {
		y = b.Bottom
	}
	return x, y
}

func (b Bounds) Contains(x, y int) bool {
	return x >= b.Left && x <= b.Right && y >= b.Top && y <= b.Bottom
}
