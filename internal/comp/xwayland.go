package comp

import (
	"github.com/ItsNotGoodName/way-compositor/internal/geom"
	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// X11Toplevel is a toplevel owned by the XWayland bridge. Size changes are
// delivered as X11 ConfigureWindow requests on the bridge connection
// instead of protocol configures, and there is no acknowledgment.
type X11Toplevel struct {
	surface Surface
	conn    *xgb.Conn
	win     xproto.Window
}

func NewX11Toplevel(surface Surface, conn *xgb.Conn, win xproto.Window) *X11Toplevel {
	return &X11Toplevel{surface: surface, conn: conn, win: win}
}

func (t *X11Toplevel) toplevel() {}

func (t *X11Toplevel) Alive() bool {
	return t.surface.Alive()
}

func (t *X11Toplevel) Surface() Surface {
	return t.surface
}

// SetActivated is a no-op, input focus for X11 clients is the bridge's
// business.
func (t *X11Toplevel) SetActivated(bool) {}

// Window returns the X11 window backing this toplevel.
func (t *X11Toplevel) Window() xproto.Window {
	return t.win
}

// ConfigureSize resizes the X11 window. Errors are not checked, a dead X11
// window behaves like any other dead surface on the next refresh.
func (t *X11Toplevel) ConfigureSize(size geom.Size) {
	if t.conn == nil {
		return
	}
	xproto.ConfigureWindow(t.conn, t.win,
		xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(size.W), uint32(size.H)})
}
