// Package proto defines the IPC message kinds exchanged between the panel's
// kernel tasks and their payload encodings.
package proto

// Kind identifies the message type carried in rtos.Message.Kind.
type Kind uint16

const (
	MsgLogLine Kind = iota + 1
	MsgGcode
	MsgGcodeFront
	MsgTestStart
	MsgTestAbort
	MsgPrinterEvent
)

func (k Kind) String() string {
	switch k {
	case MsgLogLine:
		return "log_line"
	case MsgGcode:
		return "gcode"
	case MsgGcodeFront:
		return "gcode_front"
	case MsgTestStart:
		return "test_start"
	case MsgTestAbort:
		return "test_abort"
	case MsgPrinterEvent:
		return "printer_event"
	default:
		return "unknown"
	}
}

// Test selects a self test routine of the motion controller.
type Test uint8

const (
	TestNone Test = iota
	TestFans
	TestXYZ
	TestHeaters
	TestFansFine
)

func (t Test) String() string {
	switch t {
	case TestFans:
		return "fans"
	case TestXYZ:
		return "xyz"
	case TestHeaters:
		return "heaters"
	case TestFansFine:
		return "fans_fine"
	default:
		return "none"
	}
}

// TestPayload encodes a self test request.
//
// Payload format:
//
//	b[0] : Test
func TestPayload(t Test) []byte { return []byte{byte(t)} }

func DecodeTestPayload(b []byte) (Test, bool) {
	if len(b) != 1 || Test(b[0]) > TestFansFine {
		return TestNone, false
	}
	return Test(b[0]), true
}

// Event is a printer state change broadcast to the UI.
type Event uint8

const (
	EventCommandBegin Event = iota + 1
	EventCommandEnd
	EventMediaInserted
	EventMediaRemoved
	EventMediaError
)

func (e Event) String() string {
	switch e {
	case EventCommandBegin:
		return "command_begin"
	case EventCommandEnd:
		return "command_end"
	case EventMediaInserted:
		return "media_inserted"
	case EventMediaRemoved:
		return "media_removed"
	case EventMediaError:
		return "media_error"
	default:
		return "unknown"
	}
}

// EventPayload encodes a printer event.
//
// Payload format:
//
//	b[0] : Event
func EventPayload(e Event) []byte { return []byte{byte(e)} }

func DecodeEventPayload(b []byte) (Event, bool) {
	if len(b) != 1 || b[0] == 0 || Event(b[0]) > EventMediaError {
		return 0, false
	}
	return Event(b[0]), true
}
