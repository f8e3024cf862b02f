package comp

import (
	"github.com/ItsNotGoodName/way-compositor/internal/bus"
	"github.com/ItsNotGoodName/way-compositor/internal/geom"
	"github.com/google/uuid"
)

// Window is one mapped toplevel: its location, the cached bounding box
// over its surface tree and the toplevel handle.
type Window struct {
	// UUID is the stable public identity surfaced by the API and logs.
	UUID     string
	location geom.Point
	// bbox covers the surface and all its sub-surfaces. It is the fast
	// path of the hit test and the geometry fallback, never the precise
	// window size.
	bbox     geom.Rect
	toplevel Toplevel
}

func (w *Window) Toplevel() Toplevel {
	return w.toplevel
}

func (w *Window) Location() geom.Point {
	return w.location
}

func (w *Window) BBox() geom.Rect {
	return w.bbox
}

// matching finds the topmost surface of this window under the point, with
// the surface's location in global coordinates.
func (w *Window) matching(point geom.PointF) (Surface, geom.Point, bool) {
	if !w.bbox.ContainsF(point) {
		return nil, geom.Point{}, false
	}
	// The bbox said maybe, check each node's input region.
	var (
		found    Surface
		foundLoc geom.Point
	)
	WithSurfaceTree(w.toplevel.Surface(), w.location, func(s Surface, loc geom.Point) TraversalAction {
		local := point.Sub(loc.F())
		if s.State().ContainsPoint(local) {
			found, foundLoc = s, loc
			return TraversalStop
		}
		return TraversalDoChildren
	})
	if found == nil {
		return nil, geom.Point{}, false
	}
	return found, foundLoc, true
}

// selfUpdate recomputes the bounding box from the committed surface tree.
func (w *Window) selfUpdate() {
	bbox := geom.Rect{Loc: w.location}
	WithSurfaceTree(w.toplevel.Surface(), w.location, func(s Surface, loc geom.Point) TraversalAction {
		size := s.State().Size
		if size.IsZero() {
			// An unmapped surface hides its sub-surfaces as well.
			return TraversalSkipChildren
		}
		bbox = bbox.Merge(geom.Rect{Loc: loc, Size: size})
		return TraversalDoChildren
	})
	w.bbox = bbox
}

// geometry is the protocol-declared window geometry with the bounding box
// as the fallback.
func (w *Window) geometry() geom.Rect {
	if g := w.toplevel.Surface().Cached().Geometry; g != nil {
		return *g
	}
	return w.bbox
}

func (w *Window) sendFrame(time uint32) {
	WithSurfaceTree(w.toplevel.Surface(), w.location, func(s Surface, _ geom.Point) TraversalAction {
		s.SendFrame(time)
		return TraversalDoChildren
	})
}

// WindowMap is the ordered registry of all mapped toplevels and popups.
// The slice order is the sole source of truth for stacking: index 0 is the
// topmost window and wins hit-test ties.
type WindowMap struct {
	windows []*Window
	popups  []*Popup
}

func NewWindowMap() *WindowMap {
	return &WindowMap{}
}

// Insert wraps the toplevel in a Window at the given location and stacks
// it on top. No configure is sent here, the protocol requires the first
// configure to go out from commit processing.
func (m *WindowMap) Insert(toplevel Toplevel, location geom.Point) *Window {
	w := &Window{UUID: uuid.NewString(), location: location, toplevel: toplevel}
	w.selfUpdate()
	m.windows = append([]*Window{w}, m.windows...)
	bus.Publish(EventWindowMapped{UUID: w.UUID, SurfaceID: toplevel.Surface().ID()})
	return w
}

func (m *WindowMap) InsertPopup(kind PopupKind) {
	m.popups = append(m.popups, &Popup{Kind: kind})
}

// Len returns the number of mapped windows.
func (m *WindowMap) Len() int {
	return len(m.windows)
}

// Windows returns the toplevels front to back.
func (m *WindowMap) Windows() []Toplevel {
	out := make([]Toplevel, len(m.windows))
	for i, w := range m.windows {
		out[i] = w.toplevel
	}
	return out
}

// At returns the window at the given stacking position, 0 being topmost.
func (m *WindowMap) At(i int) *Window {
	return m.windows[i]
}

// GetSurfaceUnder returns the topmost surface under the point together
// with that surface's global location.
func (m *WindowMap) GetSurfaceUnder(point geom.PointF) (Surface, geom.Point, bool) {
	for _, w := range m.windows {
		if s, loc, ok := w.matching(point); ok {
			return s, loc, true
		}
	}
	return nil, geom.Point{}, false
}

// GetSurfaceAndBringToTop performs the same hit test and, on a hit, raises
// the winning window to the front and moves protocol activation to it
// exclusively.
func (m *WindowMap) GetSurfaceAndBringToTop(point geom.PointF) (Surface, geom.Point, bool) {
	for i, w := range m.windows {
		s, loc, ok := w.matching(point)
		if !ok {
			continue
		}
		winner := m.windows[i]
		m.windows = append(m.windows[:i], m.windows[i+1:]...)
		for _, other := range m.windows {
			other.toplevel.SetActivated(false)
		}
		winner.toplevel.SetActivated(true)
		m.windows = append([]*Window{winner}, m.windows...)
		return s, loc, true
	}
	return nil, geom.Point{}, false
}

// WithWindowsFromBottomToTop visits every window in painting order.
func (m *WindowMap) WithWindowsFromBottomToTop(fn func(toplevel Toplevel, location geom.Point, bbox geom.Rect)) {
	for i := len(m.windows) - 1; i >= 0; i-- {
		w := m.windows[i]
		fn(w.toplevel, w.location, w.bbox)
	}
}

// WithChildPopups visits the popups parented on base, topmost first.
func (m *WindowMap) WithChildPopups(base Surface, fn func(kind PopupKind)) {
	for i := len(m.popups) - 1; i >= 0; i-- {
		p := m.popups[i].Kind
		parent := p.Parent()
		if parent != nil && parent.ID() == base.ID() {
			fn(p)
		}
	}
}

// Refresh drops every window and popup whose surface died and recomputes
// the bounding boxes of the survivors. Hit tests are only trustworthy
// after a refresh, it must run once per event-loop tick.
func (m *WindowMap) Refresh() {
	kept := m.windows[:0]
	for _, w := range m.windows {
		if w.toplevel.Alive() {
			kept = append(kept, w)
			continue
		}
		bus.Publish(EventWindowUnmapped{UUID: w.UUID, SurfaceID: w.toplevel.Surface().ID()})
	}
	m.windows = kept
	keptPopups := m.popups[:0]
	for _, p := range m.popups {
		if p.Kind.Alive() {
			keptPopups = append(keptPopups, p)
		}
	}
	m.popups = keptPopups
	for _, w := range m.windows {
		w.selfUpdate()
	}
}

// RefreshToplevel recomputes one window's bounding box, if it is mapped.
func (m *WindowMap) RefreshToplevel(toplevel Toplevel) {
	if w := m.findWindow(toplevel.Surface()); w != nil {
		w.selfUpdate()
	}
}

func (m *WindowMap) Clear() {
	m.windows = nil
	m.popups = nil
}

func (m *WindowMap) findWindow(surface Surface) *Window {
	for _, w := range m.windows {
		if w.toplevel.Surface().ID() == surface.ID() {
			return w
		}
	}
	return nil
}

// Find returns the toplevel whose root surface is the given surface.
func (m *WindowMap) Find(surface Surface) Toplevel {
	if w := m.findWindow(surface); w != nil {
		return w.toplevel
	}
	return nil
}

// FindPopup returns the popup whose surface is the given surface.
func (m *WindowMap) FindPopup(surface Surface) PopupKind {
	for _, p := range m.popups {
		if p.Kind.Surface().ID() == surface.ID() {
			return p.Kind
		}
	}
	return nil
}

// Location returns the toplevel's location, if it is mapped.
func (m *WindowMap) Location(toplevel Toplevel) (geom.Point, bool) {
	if w := m.findWindow(toplevel.Surface()); w != nil {
		return w.location, true
	}
	return geom.Point{}, false
}

// SetLocation moves the toplevel, if it is mapped.
func (m *WindowMap) SetLocation(toplevel Toplevel, location geom.Point) {
	if w := m.findWindow(toplevel.Surface()); w != nil {
		w.location = location
		w.selfUpdate()
	}
}

// Geometry returns the toplevel's effective geometry, if it is mapped.
func (m *WindowMap) Geometry(toplevel Toplevel) (geom.Rect, bool) {
	if w := m.findWindow(toplevel.Surface()); w != nil {
		return w.geometry(), true
	}
	return geom.Rect{}, false
}

// SendFrames delivers frame callbacks to every surface that asked for one.
func (m *WindowMap) SendFrames(time uint32) {
	for _, w := range m.windows {
		w.sendFrame(time)
	}
}

// DrawFrontToBack supplies the renderer with every visible surface and its
// global location, frontmost first. A window whose bounding box misses the
// output rectangle is skipped without walking its tree. Locations are
// shifted into output-local coordinates. The core owns ordering and
// geometry only, pixels are the renderer's problem.
func (m *WindowMap) DrawFrontToBack(outputRect geom.Rect, scale float64, visit func(s Surface, location geom.Point, scale float64)) {
	for _, w := range m.windows {
		if !outputRect.Overlaps(w.bbox) {
			continue
		}
		base := w.location.Sub(outputRect.Loc)
		// Popups stack in front of their window, placed relative to the
		// window geometry when the client declared one.
		var geometryOffset geom.Point
		if g := w.toplevel.Surface().Cached().Geometry; g != nil {
			geometryOffset = g.Loc
		}
		m.WithChildPopups(w.toplevel.Surface(), func(kind PopupKind) {
			popupLoc := base.Add(kind.Location()).Add(geometryOffset)
			WithSurfaceTree(kind.Surface(), popupLoc, func(s Surface, loc geom.Point) TraversalAction {
				visit(s, loc, scale)
				return TraversalDoChildren
			})
		})
		WithSurfaceTree(w.toplevel.Surface(), base, func(s Surface, loc geom.Point) TraversalAction {
			visit(s, loc, scale)
			return TraversalDoChildren
		})
	}
}
