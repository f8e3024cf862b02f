package comp

import (
	"github.com/ItsNotGoodName/way-compositor/internal/geom"
)

// Commit is the reconciliation entry point, invoked exactly once per
// wire-level commit after the protocol layer recorded buffer attach and
// damage. It propagates committed buffer metadata through the subtree,
// sends first configures, and keeps window geometry consistent with an
// in-flight resize.
func (m *WindowMap) Commit(surface Surface) {
	// A synchronized sub-surface applies together with its parent, its
	// own commit must not flush state early.
	if !surface.IsSyncSubsurface() {
		WithSurfaceTree(surface, geom.Point{}, func(s Surface, _ geom.Point) TraversalAction {
			st := s.State()
			cached := s.Cached()
			st.Size = cached.BufferSize
			st.InputRegion = cached.InputRegion
			return TraversalDoChildren
		})
	}

	if toplevel := m.Find(surface); toplevel != nil {
		if xdg, ok := toplevel.(*XDGToplevel); ok && !xdg.InitialConfigureSent() {
			xdg.SendConfigure()
		}

		m.RefreshToplevel(toplevel)

		geometry, _ := m.Geometry(toplevel)
		st := surface.State()
		rs := &st.ResizeState

		// A window resized by its top or left edge moves so the opposite
		// edge stays put as the client picks its new size.
		if rs.Active() && rs.Data.Edges.Intersects(EdgeTopLeft) {
			location, _ := m.Location(toplevel)
			if rs.Data.Edges.Intersects(EdgeLeft) {
				location.X = rs.Data.InitialWindowLocation.X + (rs.Data.InitialWindowSize.W - geometry.Size.W)
			}
			if rs.Data.Edges.Intersects(EdgeTop) {
				location.Y = rs.Data.InitialWindowLocation.Y + (rs.Data.InitialWindowSize.H - geometry.Size.H)
			}
			m.SetLocation(toplevel, location)
		}

		// This commit is the client's word that resizing is visually done.
		rs.Committed()
	}

	if popup := m.FindPopup(surface); popup != nil {
		if xdg, ok := popup.(*XDGPopup); ok && !xdg.InitialConfigureSent() {
			xdg.SendConfigure()
		}
	}
}
