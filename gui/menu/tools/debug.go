package tools

import "minipanel/gui/menu"

// The hard fault tests crash the UI task on purpose so the fault path can be
// checked on a real panel. Labels are not translated.

var hfDivisor int

// HFTest0 divides by zero.
func HFTest0() *menu.Label {
	return menu.NewLabel("HF0 test", func(*menu.Menu) {
		_ = 1 / hfDivisor
	})
}

type hfNode struct{ next *hfNode }

var hfHead *hfNode

// HFTest1 dereferences a nil pointer.
func HFTest1() *menu.Label {
	return menu.NewLabel("HF1 test", func(*menu.Menu) {
		_ = hfHead.next
	})
}
