package fault

import (
	"minipanel/cortexm"
	"minipanel/dump"
	"minipanel/fault/catalog"
	"minipanel/gui/display"
)

// ErrorScreen draws the catalog entry for short over a red background that
// the caller has already painted. An unknown code draws nothing and
// reports false.
func (r *Reporter) ErrorScreen(short uint16) bool {
	e, ok := catalog.Lookup(short)
	if !ok {
		return false
	}
	p := r.cfg.Painter
	if p == nil {
		return true
	}
	w, h := p.Size()
	bg, fg := display.RedAlert, display.White

	p.DrawText(display.R(13, 12, uint16(w-13), uint16(h-12)), r.tr(e.Title), display.FontNormal, bg, fg, 0)
	p.DrawLine(display.Point{X: 10, Y: 33}, display.Point{X: 229, Y: 33}, fg)
	p.DrawText(display.R(padding, 31+padding, uint16(w-2*padding), 220), r.tr(e.Text), display.FontNormal, bg, fg, display.WordBreak)

	p.DrawText(display.R(0, 142, uint16(w), uint16(h-142)), r.tr("Scan me for details"), display.FontSmall, bg, fg, display.AlignHCenter)
	p.DrawIcon(display.R(176, 160, 64, 82), display.IconArrow, bg, fg, 0)

	const qrSide = 140
	qrRect := display.R(120-qrSide/2, 223-qrSide/2, qrSide, qrSide)
	url := catalog.AppendLongURL(r.url[:0], e.Code, r.cfg.Language)
	if err := r.code.Encode(view(url)); err == nil {
		r.code.Draw(p, qrRect)
	} else {
		r.log("fault: qr: " + err.Error())
	}

	url = catalog.AppendShortURL(r.url[:0], e.Code)
	p.DrawText(display.R(0, 293, uint16(w), uint16(h-293)), view(url), display.FontSmall, bg, fg, display.AlignHCenter)
	return true
}

// TempErrorScreen paints the red background, the catalog entry and
// presents the frame.
func (r *Reporter) TempErrorScreen(short uint16) {
	if p := r.cfg.Painter; p != nil {
		p.Clear(display.RedAlert)
	}
	r.ErrorScreen(short)
	if p := r.cfg.Painter; p != nil {
		p.Present()
	}
}

// TempError records a thermal or kill error in the dump region and resets.
// The next boot shows the matching error screen. If the dump cannot be
// written the general error screen is shown instead.
func (r *Reporter) TempError(title, module string) {
	r.disableInterrupts()
	short := catalog.ShortFor(title, module != "")

	rec := dump.Record{
		Flags:    dump.FlagTempError,
		ErrCode:  short,
		Firmware: r.cfg.Version,
		SCB:      cortexm.CaptureSCB(),
	}
	if img := r.cfg.Memory; img != nil {
		rec.RAMBase = img.Base()
		rec.RAM = img.Bytes()
	}
	if r.cfg.Dumps == nil {
		r.GeneralError(title, module)
		return
	}
	if err := r.cfg.Dumps.Save(&rec); err != nil {
		r.log("fault: save dump: " + err.Error())
		r.GeneralError(title, module)
		return
	}
	r.log("fault: temp error " + title)
	r.reset()
}
