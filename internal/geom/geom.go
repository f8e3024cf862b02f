// Package geom provides integer geometry in the global logical coordinate
// space shared by windows, outputs and pointer focus resolution.
package geom

// Point is a location in logical coordinates.
type Point struct {
	X int
	Y int
}

func Pt(x, y int) Point {
	return Point{X: x, Y: y}
}

func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

func (p Point) F() PointF {
	return PointF{X: float64(p.X), Y: float64(p.Y)}
}

// PointF is a sub-pixel location, used for pointer coordinates.
type PointF struct {
	X float64
	Y float64
}

func PtF(x, y float64) PointF {
	return PointF{X: x, Y: y}
}

func (p PointF) Sub(o PointF) PointF {
	return PointF{X: p.X - o.X, Y: p.Y - o.Y}
}

// Round truncates toward zero, matching the conversion used when applying
// pointer deltas to window locations.
func (p PointF) Round() Point {
	return Point{X: int(p.X), Y: int(p.Y)}
}

// Size is a width and height in logical coordinates. The zero Size means
// unmapped or unbounded depending on context.
type Size struct {
	W int
	H int
}

func Sz(w, h int) Size {
	return Size{W: w, H: h}
}

func (s Size) IsZero() bool {
	return s.W == 0 && s.H == 0
}

// Rect is an axis-aligned rectangle. Containment is half-open, a point on
// the right or bottom edge is outside.
type Rect struct {
	Loc  Point
	Size Size
}

func Rt(x, y, w, h int) Rect {
	return Rect{Loc: Point{X: x, Y: y}, Size: Size{W: w, H: h}}
}

func (r Rect) Contains(p Point) bool {
	return p.X >= r.Loc.X && p.X < r.Loc.X+r.Size.W &&
		p.Y >= r.Loc.Y && p.Y < r.Loc.Y+r.Size.H
}

func (r Rect) ContainsF(p PointF) bool {
	return p.X >= float64(r.Loc.X) && p.X < float64(r.Loc.X+r.Size.W) &&
		p.Y >= float64(r.Loc.Y) && p.Y < float64(r.Loc.Y+r.Size.H)
}

func (r Rect) Overlaps(o Rect) bool {
	return r.Loc.X < o.Loc.X+o.Size.W && o.Loc.X < r.Loc.X+r.Size.W &&
		r.Loc.Y < o.Loc.Y+o.Size.H && o.Loc.Y < r.Loc.Y+r.Size.H
}

// Merge returns the smallest rectangle containing both r and o.
func (r Rect) Merge(o Rect) Rect {
	x1 := min(r.Loc.X, o.Loc.X)
	y1 := min(r.Loc.Y, o.Loc.Y)
	x2 := max(r.Loc.X+r.Size.W, o.Loc.X+o.Size.W)
	y2 := max(r.Loc.Y+r.Size.H, o.Loc.Y+o.Size.H)
	return Rect{Loc: Point{X: x1, Y: y1}, Size: Size{W: x2 - x1, H: y2 - y1}}
}
