package menu

import (
	"strconv"

	"minipanel/gui/display"
)

// Label runs an action on click.
type Label struct {
	base
	action func(m *Menu)
}

func NewLabel(label string, action func(m *Menu)) *Label {
	return &Label{base: base{label: label}, action: action}
}

func (l *Label) Click(m *Menu) {
	if l.disabled || l.action == nil {
		return
	}
	l.action(m)
}

func (l *Label) Increment(int) bool { return false }
func (l *Label) Decrement(int) bool { return false }
func (l *Label) Value() string      { return "" }

func (l *Label) Print(p display.Painter, r display.Rect, s *Style) { l.print(p, r, s, "") }

// Switch cycles through a fixed list of values, one per click.
type Switch struct {
	base
	values   []string
	index    int
	onChange func(old int)
}

// NewSwitch returns a switch showing values[index]. onChange runs after every
// click with the index the switch had before it.
func NewSwitch(label string, index int, values []string, onChange func(old int)) *Switch {
	if index < 0 || index >= len(values) {
		index = 0
	}
	return &Switch{base: base{label: label}, values: values, index: index, onChange: onChange}
}

// NewSwitchOffOn is a two state switch; index 1 is On.
func NewSwitchOffOn(label string, on bool, onChange func(old int)) *Switch {
	index := 0
	if on {
		index = 1
	}
	return NewSwitch(label, index, []string{"Off", "On"}, onChange)
}

func (w *Switch) Index() int { return w.index }

// SetIndex changes the value without running the change hook.
func (w *Switch) SetIndex(i int) bool {
	if i < 0 || i >= len(w.values) {
		return false
	}
	w.index = i
	return true
}

func (w *Switch) Click(m *Menu) {
	if w.disabled || len(w.values) == 0 {
		return
	}
	old := w.index
	w.index = (w.index + 1) % len(w.values)
	if w.onChange != nil {
		w.onChange(old)
	}
	if m != nil {
		m.Invalidate()
	}
}

func (w *Switch) Increment(int) bool { return false }
func (w *Switch) Decrement(int) bool { return false }

func (w *Switch) Value() string {
	if len(w.values) == 0 {
		return ""
	}
	return "[" + w.values[w.index] + "]"
}

func (w *Switch) Print(p display.Painter, r display.Rect, s *Style) {
	w.print(p, r, s, w.Value())
}

// Spin edits an integer in [lo, hi]. The first click enters edit mode,
// the second commits; onCommit runs with the value from before editing
// when it changed.
type Spin struct {
	base
	value        int
	lo, hi, step int
	start        int
	onCommit     func(old int)
}

func NewSpin(label string, value, lo, hi, step int, onCommit func(old int)) *Spin {
	if step <= 0 {
		step = 1
	}
	s := &Spin{base: base{label: label}, lo: lo, hi: hi, step: step, onCommit: onCommit}
	s.value = s.clamp(value)
	return s
}

func (s *Spin) clamp(v int) int {
	if v < s.lo {
		return s.lo
	}
	if v > s.hi {
		return s.hi
	}
	return v
}

func (s *Spin) Val() int { return s.value }

// SetValue changes the value without running the commit hook and reports
// whether it changed.
func (s *Spin) SetValue(v int) bool {
	v = s.clamp(v)
	if v == s.value {
		return false
	}
	s.value = v
	return true
}

func (s *Spin) Click(m *Menu) {
	if s.disabled {
		return
	}
	if s.selected {
		s.selected = false
		if s.value != s.start && s.onCommit != nil {
			s.onCommit(s.start)
		}
	} else {
		s.selected = true
		s.start = s.value
	}
	if m != nil {
		m.Invalidate()
	}
}

func (s *Spin) Increment(dif int) bool { return s.change(dif) }
func (s *Spin) Decrement(dif int) bool { return s.change(-dif) }

func (s *Spin) change(dif int) bool {
	if s.disabled {
		return false
	}
	return s.SetValue(s.value + dif*s.step)
}

func (s *Spin) Value() string { return strconv.Itoa(s.value) }

func (s *Spin) Print(p display.Painter, r display.Rect, st *Style) {
	s.print(p, r, st, s.Value())
}
