package economy

// Compatible reports whether a and b form a supply-chain link, in either
// direction. Empty resources never match.
func Compatible(a, b BusinessType) bool {
	if a.Requires != ResourceNone && a.Requires == b.Produces {
		return true
	}

	return a.Produces != ResourceNone && a.Produces == b.Requires
}

// WithinRadius reports whether two tiles are at most r apart in Chebyshev distance.
func WithinRadius(x1, y1, x2, y2, r int) bool {
	return abs(x1-x2) <= r && abs(y1-y2) <= r
}

// Window is an inclusive tile rectangle.
type Window struct {
	MinX, MinY, MaxX, MaxY int
}

// ConnectionWindow returns the tiles a business at (x, y) may link to,
// clipped to the map.
func (e *Engine) ConnectionWindow(x, y int) Window {
	r := e.rules.ConnectionRadius
	size := e.gameMap.Size()

	return Window{
		MinX: max(x-r, 0),
		MinY: max(y-r, 0),
		MaxX: min(x+r, size),
		MaxY: min(y+r, size),
	}
}

// CanConnect reports whether a business of type a at (ax, ay) links to one of
// type b at (bx, by).
func (e *Engine) CanConnect(a BusinessType, ax, ay int, b BusinessType, bx, by int) bool {
	if ax == bx && ay == by {
		return false
	}

	return WithinRadius(ax, ay, bx, by, e.rules.ConnectionRadius) && Compatible(a, b)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}

	return v
}
