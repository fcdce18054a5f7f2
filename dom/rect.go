package dom

// Rect is an axis-aligned rectangle in viewport coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the right edge (X + Width).
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the bottom edge (Y + Height).
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.Right() && y >= r.Y && y <= r.Bottom()
}

// Intersects reports whether two rectangles overlap, using the separating
// axis test. Touching edges count as overlapping.
func (r Rect) Intersects(o Rect) bool {
	return !(r.Right() < o.X || r.X > o.Right() || r.Bottom() < o.Y || r.Y > o.Bottom())
}

// Expand grows the rectangle by pad on every side.
func (r Rect) Expand(pad float64) Rect {
	return Rect{X: r.X - pad, Y: r.Y - pad, Width: r.Width + 2*pad, Height: r.Height + 2*pad}
}

// Clamp restricts the rectangle to the bounds of o. A zero o leaves r
// unchanged.
func (r Rect) Clamp(o Rect) Rect {
	if o.Empty() {
		return r
	}
	x1 := max(r.X, o.X)
	y1 := max(r.Y, o.Y)
	x2 := min(r.Right(), o.Right())
	y2 := min(r.Bottom(), o.Bottom())
	if x2 < x1 {
		x2 = x1
	}
	if y2 < y1 {
		y2 = y1
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}

// RectBetween returns the rectangle spanned by two corner points,
// normalised so width and height are non-negative regardless of drag
// direction.
func RectBetween(x1, y1, x2, y2 float64) Rect {
	if x2 < x1 {
		x1, x2 = x2, x1
	}
	if y2 < y1 {
		y1, y2 = y2, y1
	}
	return Rect{X: x1, Y: y1, Width: x2 - x1, Height: y2 - y1}
}
