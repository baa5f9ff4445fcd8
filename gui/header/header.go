// Package header draws the title bar on top of every screen: an optional
// screen icon, the title and the USB and LAN indicators.
package header

import (
	"minipanel/gui/display"
	"minipanel/proto"
)

// State is an indicator state.
type State uint8

const (
	// Off hides the icon.
	Off State = iota
	// On shows the icon shadowed.
	On
	// Active shows the icon lit.
	Active
)

func (s State) String() string {
	switch s {
	case On:
		return "on"
	case Active:
		return "active"
	default:
		return "off"
	}
}

// LANStatus reports the network link. Nil means the panel has no network.
type LANStatus func() State

// Rect is where the header sits on a 240x320 panel.
var Rect = display.R(0, 0, 240, 32)

const (
	span      = 2 + 2
	usbWidth  = 36
	lanWidth  = 20
	iconWidth = usbWidth + lanWidth
	baseWidth = 40
)

type Header struct {
	p    display.Painter
	rect display.Rect
	font *display.Font

	icon  *display.Icon
	title string
	usb   State
	lan   State

	lanStatus LANStatus
}

// New returns a header with the USB indicator lit when media is inserted.
func New(p display.Painter, title string, mediaInserted bool, lan LANStatus) *Header {
	h := &Header{p: p, rect: Rect, font: display.FontNormal, title: title, lanStatus: lan}
	if mediaInserted {
		h.USBActivate()
	} else {
		h.USBOn()
	}
	h.updateLAN()
	return h
}

func (h *Header) SetText(title string) { h.title = title }

func (h *Header) SetIcon(ic *display.Icon) { h.icon = ic }

func (h *Header) USBOff()      { h.usb = Off }
func (h *Header) USBOn()       { h.usb = On }
func (h *Header) USBActivate() { h.usb = Active }
func (h *Header) LANOff()      { h.lan = Off }
func (h *Header) LANOn()       { h.lan = On }
func (h *Header) LANActivate() { h.lan = Active }

func (h *Header) StateUSB() State { return h.usb }
func (h *Header) StateLAN() State { return h.lan }

func (h *Header) updateLAN() {
	if h.lanStatus == nil {
		h.lan = Off
		return
	}
	h.lan = h.lanStatus()
}

// Event applies a media event and reports whether the header changed.
func (h *Header) Event(ev proto.Event) bool {
	oldUSB, oldLAN := h.usb, h.lan
	h.updateLAN()
	switch ev {
	case proto.EventMediaInserted:
		h.USBActivate()
	case proto.EventMediaRemoved:
		h.USBOn()
	}
	return h.usb != oldUSB || h.lan != oldLAN
}

func (h *Header) Draw() {
	if h.p == nil {
		return
	}
	r := h.rect
	bg, fg := display.Black, display.White

	h.p.DrawIcon(display.R(r.X, r.Y, baseWidth, r.H-5), h.icon, bg, fg, display.AlignCenter)

	lw := int(r.W) - iconWidth - span - baseWidth
	if lw < 0 {
		lw = 0
	}
	tr := display.R(r.X+baseWidth, r.Y, uint16(lw), r.H)
	if f := h.font; f != nil && int(r.H) > int(f.H) {
		// Bottom aligned.
		tr.Y += int16(r.H) - f.H
		tr.H = uint16(f.H)
		h.p.FillRect(display.R(tr.X, r.Y, tr.W, r.H-tr.H), bg)
	}
	h.p.DrawText(tr, h.title, h.font, bg, fg, 0)

	h.p.FillRect(display.R(r.X+baseWidth+int16(lw), r.Y, span, r.H), bg)
	h.drawIndicator(display.R(r.Right()-iconWidth, r.Y, lanWidth, r.H), display.IconLAN, h.lan)
	h.drawIndicator(display.R(r.Right()-usbWidth, r.Y, usbWidth, r.H), display.IconUSB, h.usb)
}

func (h *Header) drawIndicator(r display.Rect, ic *display.Icon, st State) {
	switch st {
	case Off:
		h.p.FillRect(r, display.Black)
	case On:
		h.p.DrawIcon(r, ic, display.Black, display.Gray, display.AlignCenter)
	case Active:
		h.p.DrawIcon(r, ic, display.Black, display.White, display.AlignCenter)
	}
}
