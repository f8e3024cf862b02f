package comp

import (
	"testing"

	"github.com/ItsNotGoodName/way-compositor/internal/geom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWindowMap_InsertStacksOnTop(t *testing.T) {
	m := NewWindowMap()
	serials := &SerialCounter{}

	sa := newFakeSurface(1, geom.Sz(100, 100))
	a, _ := newTestXDG(sa, serials)
	m.Insert(a, geom.Pt(0, 0))

	sb := newFakeSurface(2, geom.Sz(100, 100))
	b, _ := newTestXDG(sb, serials)
	m.Insert(b, geom.Pt(50, 50))

	require.Equal(t, 2, m.Len())
	assert.True(t, SameToplevel(b, m.At(0).Toplevel()))
	assert.True(t, SameToplevel(a, m.At(1).Toplevel()))
	assert.NotEmpty(t, m.At(0).UUID)
	assert.NotEqual(t, m.At(0).UUID, m.At(1).UUID)
}

func TestWindowMap_GetSurfaceUnder(t *testing.T) {
	m := NewWindowMap()
	serials := &SerialCounter{}

	sBottom := newFakeSurface(1, geom.Sz(200, 200))
	bottom, _ := newTestXDG(sBottom, serials)
	m.Insert(bottom, geom.Pt(0, 0))

	sTop := newFakeSurface(2, geom.Sz(100, 100))
	top, _ := newTestXDG(sTop, serials)
	m.Insert(top, geom.Pt(50, 50))

	t.Run("topmost window wins where both overlap", func(t *testing.T) {
		s, loc, ok := m.GetSurfaceUnder(geom.PtF(60, 60))
		require.True(t, ok)
		assert.Equal(t, uint64(2), s.ID())
		assert.Equal(t, geom.Pt(50, 50), loc)
	})

	t.Run("exposed part of the lower window", func(t *testing.T) {
		s, loc, ok := m.GetSurfaceUnder(geom.PtF(10, 10))
		require.True(t, ok)
		assert.Equal(t, uint64(1), s.ID())
		assert.Equal(t, geom.Pt(0, 0), loc)
	})

	t.Run("right and bottom edges are outside", func(t *testing.T) {
		_, _, ok := m.GetSurfaceUnder(geom.PtF(200, 100))
		assert.False(t, ok)
		s, _, ok := m.GetSurfaceUnder(geom.PtF(199.5, 100))
		require.True(t, ok)
		assert.Equal(t, uint64(1), s.ID())
	})

	t.Run("miss everything", func(t *testing.T) {
		_, _, ok := m.GetSurfaceUnder(geom.PtF(500, 500))
		assert.False(t, ok)
	})
}

func TestWindowMap_GetSurfaceUnder_BBoxFastPath(t *testing.T) {
	m := NewWindowMap()
	serials := &SerialCounter{}

	sFar := newFakeSurface(1, geom.Sz(100, 100))
	far, _ := newTestXDG(sFar, serials)
	m.Insert(far, geom.Pt(1000, 1000))

	sHit := newFakeSurface(2, geom.Sz(100, 100))
	hit, _ := newTestXDG(sHit, serials)
	m.Insert(hit, geom.Pt(0, 0))

	sFar.stateCalls = 0
	sHit.stateCalls = 0

	_, _, ok := m.GetSurfaceUnder(geom.PtF(5, 5))
	require.True(t, ok)

	// A window whose bounding box misses is rejected without walking
	// its surface tree.
	assert.Zero(t, sFar.stateCalls)
	assert.Positive(t, sHit.stateCalls)
}

func TestWindowMap_GetSurfaceUnder_InputRegion(t *testing.T) {
	m := NewWindowMap()
	serials := &SerialCounter{}

	region := geom.Rt(0, 0, 50, 100)
	s := newFakeSurface(1, geom.Sz(100, 100))
	s.state.InputRegion = &region
	top, _ := newTestXDG(s, serials)
	m.Insert(top, geom.Pt(0, 0))

	_, _, ok := m.GetSurfaceUnder(geom.PtF(25, 50))
	assert.True(t, ok)

	// Inside the buffer but outside the input region.
	_, _, ok = m.GetSurfaceUnder(geom.PtF(75, 50))
	assert.False(t, ok)
}

func TestWindowMap_GetSurfaceUnder_Subsurface(t *testing.T) {
	m := NewWindowMap()
	serials := &SerialCounter{}

	parent := newFakeSurface(1, geom.Sz(100, 100))
	child := newFakeSurface(2, geom.Sz(100, 40))
	child.cached.SubsurfaceOffset = geom.Pt(0, 100)
	parent.children = []Surface{child}
	top, _ := newTestXDG(parent, serials)
	m.Insert(top, geom.Pt(10, 10))

	// The bounding box covers parent plus child.
	assert.Equal(t, geom.Rt(10, 10, 100, 140), m.At(0).BBox())

	s, loc, ok := m.GetSurfaceUnder(geom.PtF(20, 120))
	require.True(t, ok)
	assert.Equal(t, uint64(2), s.ID())
	assert.Equal(t, geom.Pt(10, 110), loc)

	// A point over the parent resolves to the parent.
	s, _, ok = m.GetSurfaceUnder(geom.PtF(20, 20))
	require.True(t, ok)
	assert.Equal(t, uint64(1), s.ID())
}

func TestWindowMap_GetSurfaceAndBringToTop(t *testing.T) {
	m := NewWindowMap()
	serials := &SerialCounter{}

	sa := newFakeSurface(1, geom.Sz(200, 200))
	a, _ := newTestXDG(sa, serials)
	m.Insert(a, geom.Pt(0, 0))

	sb := newFakeSurface(2, geom.Sz(100, 100))
	b, _ := newTestXDG(sb, serials)
	m.Insert(b, geom.Pt(50, 50))

	// Click the exposed part of the bottom window.
	s, _, ok := m.GetSurfaceAndBringToTop(geom.PtF(10, 10))
	require.True(t, ok)
	assert.Equal(t, uint64(1), s.ID())

	assert.True(t, SameToplevel(a, m.At(0).Toplevel()))
	assert.True(t, SameToplevel(b, m.At(1).Toplevel()))

	// Activation is exclusive to the raised window.
	assert.True(t, a.Pending().States.Has(XDGStateActivated))
	assert.False(t, b.Pending().States.Has(XDGStateActivated))

	// Clicking the now-top window again keeps the order.
	_, _, ok = m.GetSurfaceAndBringToTop(geom.PtF(10, 10))
	require.True(t, ok)
	assert.True(t, SameToplevel(a, m.At(0).Toplevel()))

	// A miss changes nothing.
	_, _, ok = m.GetSurfaceAndBringToTop(geom.PtF(900, 900))
	assert.False(t, ok)
	assert.True(t, SameToplevel(a, m.At(0).Toplevel()))
	assert.True(t, a.Pending().States.Has(XDGStateActivated))
}

func TestWindowMap_Refresh(t *testing.T) {
	m := NewWindowMap()
	serials := &SerialCounter{}

	sa := newFakeSurface(1, geom.Sz(100, 100))
	a, _ := newTestXDG(sa, serials)
	m.Insert(a, geom.Pt(0, 0))

	sb := newFakeSurface(2, geom.Sz(100, 100))
	b, _ := newTestXDG(sb, serials)
	m.Insert(b, geom.Pt(200, 0))

	sa.alive = false
	m.Refresh()

	require.Equal(t, 1, m.Len())
	assert.True(t, SameToplevel(b, m.At(0).Toplevel()))
	assert.Nil(t, m.Find(sa))

	// Refresh also recomputes bounding boxes from committed state.
	sb.state.Size = geom.Sz(300, 150)
	m.Refresh()
	assert.Equal(t, geom.Rt(200, 0, 300, 150), m.At(0).BBox())
}

func TestWindowMap_Refresh_PreservesSurvivorOrder(t *testing.T) {
	m := NewWindowMap()
	serials := &SerialCounter{}

	var tops []*XDGToplevel
	surfaces := make([]*fakeSurface, 5)
	for i := range surfaces {
		surfaces[i] = newFakeSurface(uint64(i+1), geom.Sz(100, 100))
		top, _ := newTestXDG(surfaces[i], serials)
		tops = append(tops, top)
		m.Insert(top, geom.Pt(i*10, 0))
	}

	surfaces[1].alive = false
	surfaces[3].alive = false
	m.Refresh()

	// Stacking order front to back was 5,4,3,2,1; killing 2 and 4
	// leaves 5,3,1 in that order.
	require.Equal(t, 3, m.Len())
	assert.True(t, SameToplevel(tops[4], m.At(0).Toplevel()))
	assert.True(t, SameToplevel(tops[2], m.At(1).Toplevel()))
	assert.True(t, SameToplevel(tops[0], m.At(2).Toplevel()))
}

func TestWindowMap_Refresh_DropsDeadPopups(t *testing.T) {
	m := NewWindowMap()
	serials := &SerialCounter{}

	parent := newFakeSurface(1, geom.Sz(100, 100))
	top, _ := newTestXDG(parent, serials)
	m.Insert(top, geom.Pt(0, 0))

	ps := newFakeSurface(2, geom.Sz(50, 50))
	popup := NewXDGPopup(ps, parent, geom.Rt(10, 10, 50, 50), serials, nil)
	m.InsertPopup(popup)

	require.NotNil(t, m.FindPopup(ps))

	ps.alive = false
	m.Refresh()
	assert.Nil(t, m.FindPopup(ps))
}

func TestWindowMap_WithChildPopups(t *testing.T) {
	m := NewWindowMap()
	serials := &SerialCounter{}

	parent := newFakeSurface(1, geom.Sz(100, 100))
	top, _ := newTestXDG(parent, serials)
	m.Insert(top, geom.Pt(0, 0))

	other := newFakeSurface(2, geom.Sz(100, 100))
	otherTop, _ := newTestXDG(other, serials)
	m.Insert(otherTop, geom.Pt(200, 0))

	p1 := NewXDGPopup(newFakeSurface(3, geom.Sz(10, 10)), parent, geom.Rt(0, 0, 10, 10), serials, nil)
	p2 := NewXDGPopup(newFakeSurface(4, geom.Sz(10, 10)), parent, geom.Rt(5, 5, 10, 10), serials, nil)
	pOther := NewXDGPopup(newFakeSurface(5, geom.Sz(10, 10)), other, geom.Rt(0, 0, 10, 10), serials, nil)
	m.InsertPopup(p1)
	m.InsertPopup(p2)
	m.InsertPopup(pOther)

	var got []uint64
	m.WithChildPopups(parent, func(kind PopupKind) {
		got = append(got, kind.Surface().ID())
	})
	assert.Equal(t, []uint64{4, 3}, got)
}

func TestWindowMap_GeometryFallsBackToBBox(t *testing.T) {
	m := NewWindowMap()
	serials := &SerialCounter{}

	s := newFakeSurface(1, geom.Sz(120, 80))
	top, _ := newTestXDG(s, serials)
	m.Insert(top, geom.Pt(10, 20))

	g, ok := m.Geometry(top)
	require.True(t, ok)
	assert.Equal(t, geom.Rt(10, 20, 120, 80), g)

	explicit := geom.Rt(5, 5, 110, 70)
	s.cached.Geometry = &explicit
	g, ok = m.Geometry(top)
	require.True(t, ok)
	assert.Equal(t, explicit, g)
}

func TestWindowMap_SetLocation(t *testing.T) {
	m := NewWindowMap()
	serials := &SerialCounter{}

	s := newFakeSurface(1, geom.Sz(100, 100))
	top, _ := newTestXDG(s, serials)
	m.Insert(top, geom.Pt(0, 0))

	m.SetLocation(top, geom.Pt(300, 400))

	loc, ok := m.Location(top)
	require.True(t, ok)
	assert.Equal(t, geom.Pt(300, 400), loc)
	assert.Equal(t, geom.Rt(300, 400, 100, 100), m.At(0).BBox())

	// Unmapped toplevels are ignored.
	stray, _ := newTestXDG(newFakeSurface(2, geom.Sz(10, 10)), serials)
	m.SetLocation(stray, geom.Pt(1, 1))
	_, ok = m.Location(stray)
	assert.False(t, ok)
}

func TestWindowMap_SendFrames(t *testing.T) {
	m := NewWindowMap()
	serials := &SerialCounter{}

	parent := newFakeSurface(1, geom.Sz(100, 100))
	child := newFakeSurface(2, geom.Sz(50, 50))
	parent.children = []Surface{child}
	top, _ := newTestXDG(parent, serials)
	m.Insert(top, geom.Pt(0, 0))

	m.SendFrames(42)

	assert.Equal(t, []uint32{42}, parent.frameTimes)
	assert.Equal(t, []uint32{42}, child.frameTimes)
}

func TestWindowMap_DrawFrontToBack(t *testing.T) {
	m := NewWindowMap()
	serials := &SerialCounter{}

	sOff := newFakeSurface(1, geom.Sz(100, 100))
	off, _ := newTestXDG(sOff, serials)
	m.Insert(off, geom.Pt(5000, 0))

	sOn := newFakeSurface(2, geom.Sz(100, 100))
	on, _ := newTestXDG(sOn, serials)
	m.Insert(on, geom.Pt(100, 100))

	outputRect := geom.Rt(0, 0, 1920, 1080)

	var visited []uint64
	var locations []geom.Point
	m.DrawFrontToBack(outputRect, 1, func(s Surface, location geom.Point, scale float64) {
		visited = append(visited, s.ID())
		locations = append(locations, location)
	})

	// The off-screen window is skipped, the visible one is output-local.
	require.Equal(t, []uint64{2}, visited)
	assert.Equal(t, geom.Pt(100, 100), locations[0])

	// A shifted output rectangle shifts the local coordinates.
	visited = nil
	m.DrawFrontToBack(geom.Rt(50, 50, 1920, 1080), 1, func(s Surface, location geom.Point, scale float64) {
		visited = append(visited, s.ID())
		locations = append(locations, location)
	})
	require.Equal(t, []uint64{2}, visited)
	assert.Equal(t, geom.Pt(50, 50), locations[1])
}

func TestWindowMap_Clear(t *testing.T) {
	m := NewWindowMap()
	serials := &SerialCounter{}

	s := newFakeSurface(1, geom.Sz(100, 100))
	top, _ := newTestXDG(s, serials)
	m.Insert(top, geom.Pt(0, 0))

	m.Clear()
	assert.Zero(t, m.Len())
	assert.Nil(t, m.Find(s))
}
