package app

import (
	"errors"

	"minipanel/dump"
	"minipanel/fault"
)

// dumpSource is what the boot post-mortem needs from the dump store.
type dumpSource interface {
	Open() (*dump.Snapshot, error)
	MarkDisplayed() error
}

// postmortem shows a stored dump that was not displayed yet and marks it
// displayed. It reports whether a screen is up.
func (s *system) postmortem() bool {
	return showPostmortem(s.rep, s.dumps, s.log)
}

type lineWriter interface {
	WriteLineString(string)
}

func showPostmortem(rep *fault.Reporter, src dumpSource, log lineWriter) bool {
	sn, err := src.Open()
	if err != nil {
		if !errors.Is(err, dump.ErrNoDump) && log != nil {
			log.WriteLineString("postmortem: " + err.Error())
		}
		return false
	}
	if sn.Displayed() {
		return false
	}
	if log != nil {
		log.WriteLineString("postmortem: " + sn.Flags().String() + " dump from " + sn.Firmware())
	}

	shown := false
	switch {
	case sn.Flags()&dump.FlagTempError != 0:
		rep.TempErrorScreen(sn.ErrCode())
		shown = true
	case sn.Flags()&(dump.FlagHardFault|dump.FlagWatchdog) != 0:
		rep.HardFault(sn)
		shown = true
	}
	if err := src.MarkDisplayed(); err != nil && log != nil {
		log.WriteLineString("postmortem: " + err.Error())
	}
	return shown
}

var _ fault.Postmortem = (*dump.Snapshot)(nil)
