package comp

import (
	"github.com/ItsNotGoodName/way-compositor/internal/geom"
)

// fakeSurface stands in for the protocol layer's surface handle.
type fakeSurface struct {
	id       uint64
	client   uint64
	alive    bool
	state    SurfaceState
	cached   CachedState
	children []Surface
	sync     bool

	frameTimes []uint32
	stateCalls int
}

func newFakeSurface(id uint64, size geom.Size) *fakeSurface {
	return &fakeSurface{
		id:     id,
		client: 1,
		alive:  true,
		state:  SurfaceState{Size: size},
		cached: CachedState{BufferSize: size},
	}
}

func (s *fakeSurface) ID() uint64     { return s.id }
func (s *fakeSurface) Client() uint64 { return s.client }
func (s *fakeSurface) Alive() bool    { return s.alive }

func (s *fakeSurface) State() *SurfaceState {
	s.stateCalls++
	return &s.state
}

func (s *fakeSurface) Cached() CachedState    { return s.cached }
func (s *fakeSurface) Children() []Surface    { return s.children }
func (s *fakeSurface) IsSyncSubsurface() bool { return s.sync }

func (s *fakeSurface) SendFrame(time uint32) {
	s.frameTimes = append(s.frameTimes, time)
}

// configureRecorder captures the configures an XDGToplevel sends.
type configureRecorder struct {
	sent []XDGConfigure
}

func (r *configureRecorder) send(cfg XDGConfigure) {
	r.sent = append(r.sent, cfg)
}

func (r *configureRecorder) last() XDGConfigure {
	return r.sent[len(r.sent)-1]
}

func newTestXDG(surface Surface, serials *SerialCounter) (*XDGToplevel, *configureRecorder) {
	rec := &configureRecorder{}
	return NewXDGToplevel(surface, serials, rec.send), rec
}

// legacyRecorder captures legacy-shell configures.
type legacyRecorder struct {
	sizes []geom.Size
	edges []ResizeEdge
}

func (r *legacyRecorder) send(size geom.Size, edges ResizeEdge) {
	r.sizes = append(r.sizes, size)
	r.edges = append(r.edges, edges)
}
