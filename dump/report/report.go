// Package report turns a stored crash dump into a document for the host:
// markdown for people, yaml or json for scripts and msgpack for archives.
package report

import (
	"fmt"
	"strings"

	"minipanel/cortexm"
	"minipanel/dump"
	"minipanel/fault"
	"minipanel/fault/catalog"
)

// MaxStackWords caps the stack words a report carries.
const MaxStackWords = 64

// Register is a named 32-bit register value.
type Register struct {
	Name  string `json:"name" yaml:"name" msgpack:"name"`
	Value uint32 `json:"value" yaml:"value" msgpack:"value"`
}

// Cause is one fault status bit found set.
type Cause struct {
	Name string `json:"name" yaml:"name" msgpack:"name"`
	Text string `json:"text" yaml:"text" msgpack:"text"`
}

// Task is the task that was running when the dump was taken.
type Task struct {
	Name      string   `json:"name" yaml:"name" msgpack:"name"`
	StackBase uint32   `json:"stack_base" yaml:"stack_base" msgpack:"stack_base"`
	StackTop  uint32   `json:"stack_top" yaml:"stack_top" msgpack:"stack_top"`
	Stack     []uint32 `json:"stack,omitempty" yaml:"stack,omitempty" msgpack:"stack,omitempty"`
}

// Report is the decoded dump.
type Report struct {
	Flags     string `json:"flags" yaml:"flags" msgpack:"flags"`
	Firmware  string `json:"firmware" yaml:"firmware" msgpack:"firmware"`
	Displayed bool   `json:"displayed" yaml:"displayed" msgpack:"displayed"`

	ErrCode uint16 `json:"error_code,omitempty" yaml:"error_code,omitempty" msgpack:"error_code,omitempty"`
	Title   string `json:"title,omitempty" yaml:"title,omitempty" msgpack:"title,omitempty"`
	Text    string `json:"text,omitempty" yaml:"text,omitempty" msgpack:"text,omitempty"`
	HelpURL string `json:"help_url,omitempty" yaml:"help_url,omitempty" msgpack:"help_url,omitempty"`

	Cause  string  `json:"cause,omitempty" yaml:"cause,omitempty" msgpack:"cause,omitempty"`
	Causes []Cause `json:"causes,omitempty" yaml:"causes,omitempty" msgpack:"causes,omitempty"`

	Task *Task `json:"task,omitempty" yaml:"task,omitempty" msgpack:"task,omitempty"`

	SCB  []Register `json:"scb,omitempty" yaml:"scb,omitempty" msgpack:"scb,omitempty"`
	Core []Register `json:"core" yaml:"core" msgpack:"core"`

	RAMBase uint32 `json:"ram_base" yaml:"ram_base" msgpack:"ram_base"`
	RAMLen  uint32 `json:"ram_len" yaml:"ram_len" msgpack:"ram_len"`
}

// Build decodes sn. lang picks the language of the help link.
func Build(sn *dump.Snapshot, lang string) *Report {
	r := &Report{
		Flags:     sn.Flags().String(),
		Firmware:  sn.Firmware(),
		Displayed: sn.Displayed(),
		RAMBase:   sn.RAMBase(),
		RAMLen:    sn.RAMLen(),
	}

	if short := sn.ErrCode(); short != 0 {
		full := catalog.FullCode(short)
		r.ErrCode = full
		if e, ok := catalog.Lookup(short); ok {
			r.Title = e.Title
			r.Text = e.Text
			r.HelpURL = string(catalog.AppendLongURL(nil, full, lang))
		}
	}

	scb := sn.SCB()
	if cfsr := scb.CFSR(); cfsr != 0 {
		r.Cause = cortexm.DescribeCFSR(cfsr)
		for _, c := range cortexm.SetCauses(cfsr) {
			r.Causes = append(r.Causes, Cause{Name: c.Name, Text: strings.TrimSpace(c.Text)})
		}
	}
	for _, reg := range cortexm.AppendAux(nil, scb) {
		r.SCB = append(r.SCB, Register{Name: reg.Name, Value: reg.Value})
	}

	regs := sn.Regs()
	r.Core = []Register{
		{"R0", regs.R0}, {"R1", regs.R1}, {"R2", regs.R2}, {"R3", regs.R3},
		{"R12", regs.R12}, {"LR", regs.LR}, {"PC", regs.PC}, {"PSR", regs.PSR},
	}

	if task, ok := fault.CurrentTask(sn); ok {
		r.Task = &Task{
			Name:      task.Name,
			StackBase: task.StackBase,
			StackTop:  task.StackTop,
			Stack:     fault.StackWords(sn, task, MaxStackWords),
		}
	}
	return r
}

// Summary is the one-line description used in listings and logs.
func (r *Report) Summary() string {
	switch {
	case r.Title != "":
		return fmt.Sprintf("%s: %d %s", r.Flags, r.ErrCode, r.Title)
	case r.Cause != "":
		return fmt.Sprintf("%s: %s", r.Flags, r.Cause)
	}
	return r.Flags
}

func hex32(v uint32) string { return fmt.Sprintf("0x%08x", v) }
