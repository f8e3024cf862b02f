package comp

import (
	"github.com/ItsNotGoodName/way-compositor/internal/geom"
	"github.com/google/uuid"
)

// Output is one logical display region.
type Output struct {
	UUID  string
	Name  string
	Scale float64

	location geom.Point
	size     geom.Size
}

func (o *Output) Geometry() geom.Rect {
	return geom.Rect{Loc: o.location, Size: o.size}
}

func (o *Output) Location() geom.Point {
	return o.location
}

func (o *Output) Size() geom.Size {
	return o.size
}

// OutputMap owns the output layout. Outputs sit side by side on one row,
// left to right in insertion order, and the first output is primary.
type OutputMap struct {
	outputs []*Output
	windows *WindowMap
}

func NewOutputMap(windows *WindowMap) *OutputMap {
	return &OutputMap{windows: windows}
}

// Add appends an output after the current overall width and re-arranges.
func (m *OutputMap) Add(name string, size geom.Size, scale float64) *Output {
	o := &Output{
		UUID:     uuid.NewString(),
		Name:     name,
		Scale:    scale,
		location: geom.Pt(m.Width(), 0),
		size:     size,
	}
	m.outputs = append(m.outputs, o)
	m.Arrange()
	return o
}

// Retain drops every output the predicate rejects and re-arranges.
func (m *OutputMap) Retain(fn func(*Output) bool) {
	kept := m.outputs[:0]
	for _, o := range m.outputs {
		if fn(o) {
			kept = append(kept, o)
		}
	}
	m.outputs = kept
	m.Arrange()
}

// Width is the total width of the single-row layout.
func (m *OutputMap) Width() int {
	w := 0
	for _, o := range m.outputs {
		w += o.size.W
	}
	return w
}

func (m *OutputMap) IsEmpty() bool {
	return len(m.outputs) == 0
}

func (m *OutputMap) Outputs() []*Output {
	return m.outputs
}

// Primary returns the first output, nil when there is none.
func (m *OutputMap) Primary() *Output {
	if len(m.outputs) == 0 {
		return nil
	}
	return m.outputs[0]
}

func (m *OutputMap) FindByName(name string) *Output {
	for _, o := range m.outputs {
		if o.Name == name {
			return o
		}
	}
	return nil
}

// FindByPosition returns the output containing the point.
func (m *OutputMap) FindByPosition(position geom.Point) *Output {
	for _, o := range m.outputs {
		if o.Geometry().Contains(position) {
			return o
		}
	}
	return nil
}

// Arrange recomputes the row layout and reconciles windows with it:
// windows on an output that moved shift with it, windows stranded outside
// every output move to the primary output, and maximized or fullscreen
// windows take the new output size.
func (m *OutputMap) Arrange() {
	outputX := 0
	for _, o := range m.outputs {
		shift := outputX - o.location.X
		if shift != 0 {
			m.windows.WithWindowsFromBottomToTop(func(toplevel Toplevel, location geom.Point, _ geom.Rect) {
				if o.Geometry().Contains(location) {
					m.windows.SetLocation(toplevel, geom.Pt(location.X+shift, location.Y))
				}
			})
		}
		o.location = geom.Pt(outputX, 0)
		outputX += o.size.W
	}

	// Rescue windows that no output covers anymore.
	var primaryLocation geom.Point
	if p := m.Primary(); p != nil {
		primaryLocation = p.Location()
	}
	var toMove []Toplevel
	m.windows.WithWindowsFromBottomToTop(func(toplevel Toplevel, _ geom.Point, bbox geom.Rect) {
		for _, o := range m.outputs {
			if o.Geometry().Overlaps(bbox) {
				return
			}
		}
		toMove = append(toMove, toplevel)
	})
	for _, toplevel := range toMove {
		m.windows.SetLocation(toplevel, primaryLocation)
	}

	// Maximized and fullscreen windows track their output's geometry.
	toMove = toMove[:0]
	var newGeometry []geom.Rect
	m.windows.WithWindowsFromBottomToTop(func(toplevel Toplevel, location geom.Point, _ geom.Rect) {
		xdg, ok := toplevel.(*XDGToplevel)
		if !ok {
			return
		}
		state := xdg.Current()
		if !state.States.Has(XDGStateMaximized | XDGStateFullscreen) {
			return
		}
		var o *Output
		if state.FullscreenOutput != "" {
			o = m.FindByName(state.FullscreenOutput)
		} else {
			o = m.FindByPosition(location)
		}
		if o == nil {
			return
		}
		toMove = append(toMove, toplevel)
		newGeometry = append(newGeometry, o.Geometry())
	})
	for i, toplevel := range toMove {
		g := newGeometry[i]
		if location, ok := m.windows.Location(toplevel); ok && location != g.Loc {
			m.windows.SetLocation(toplevel, g.Loc)
		}
		xdg := toplevel.(*XDGToplevel)
		xdg.WithPendingState(func(s *XDGToplevelState) {
			s.Size = g.Size
		})
		xdg.SendConfigure()
	}
}
