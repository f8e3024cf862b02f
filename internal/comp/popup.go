package comp

import (
	"github.com/ItsNotGoodName/way-compositor/internal/geom"
)

// PopupKind is the closed set of popup roles. Only the XDG shell defines
// popups today.
type PopupKind interface {
	Alive() bool
	Surface() Surface
	// Parent is the surface the popup is positioned relative to, re-read
	// from role data on every use, never cached by the core.
	Parent() Surface
	// Location is the popup's placement relative to its parent geometry.
	Location() geom.Point

	popup()
}

// XDGPopupConfigureSender delivers the popup configure over the wire.
type XDGPopupConfigureSender func(geometry geom.Rect, serial Serial)

// XDGPopup tracks the xdg_popup role: the parent back-reference and the
// geometry the positioner resolved to.
type XDGPopup struct {
	surface Surface
	parent  Surface
	serials *SerialCounter
	send    XDGPopupConfigureSender

	geometry             geom.Rect
	initialConfigureSent bool
}

func NewXDGPopup(surface, parent Surface, geometry geom.Rect, serials *SerialCounter, send XDGPopupConfigureSender) *XDGPopup {
	return &XDGPopup{surface: surface, parent: parent, serials: serials, send: send, geometry: geometry}
}

func (p *XDGPopup) popup() {}

func (p *XDGPopup) Alive() bool {
	return p.surface.Alive()
}

func (p *XDGPopup) Surface() Surface {
	return p.surface
}

func (p *XDGPopup) Parent() Surface {
	if p.parent != nil && !p.parent.Alive() {
		return nil
	}
	return p.parent
}

func (p *XDGPopup) Location() geom.Point {
	return p.geometry.Loc
}

func (p *XDGPopup) SendConfigure() Serial {
	serial := p.serials.Next()
	p.initialConfigureSent = true
	if p.send != nil {
		p.send(p.geometry, serial)
	}
	return serial
}

func (p *XDGPopup) InitialConfigureSent() bool {
	return p.initialConfigureSent
}

// Popup is one transient popup surface tracked by the window map.
type Popup struct {
	Kind PopupKind
}
