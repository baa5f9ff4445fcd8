// Package catalog holds the printer error codes shown on the error screen.
package catalog

import "fmt"

// PrinterCode is the printer family prefix of every full error code.
const PrinterCode = 12

// Short codes used by the firmware.
const (
	BedHeatingFailed  = 201
	HeatingFailed     = 202
	BedThermalRunaway = 203
	ThermalRunaway    = 204
	BedMaxTemp        = 205
	MaxTemp           = 206
	BedMinTemp        = 207
	MinTemp           = 208
	EmergencyStop     = 510
)

// Entry is one catalog record. Code is the full code, PrinterCode*1000+short.
type Entry struct {
	Code  uint16
	Short uint16
	Title string
	Text  string
}

// Entries is kept in insertion order; lookups scan it linearly.
var Entries = [...]Entry{
	{12201, BedHeatingFailed, "HEATBED HEATING FAILED", "Check the heatbed heater & thermistor wiring for possible damage."},
	{12202, HeatingFailed, "HOTEND HEATING FAILED", "Check the print head heater & thermistor wiring for possible damage."},
	{12203, BedThermalRunaway, "HEATBED THERMAL RUNAWAY", "Check the heatbed thermistor wiring for possible damage."},
	{12204, ThermalRunaway, "HOTEND THERMAL RUNAWAY", "Check the print head thermistor wiring for possible damage."},
	{12205, BedMaxTemp, "HEATBED MAXTEMP ERROR", "Check the heatbed thermistor wiring for possible damage."},
	{12206, MaxTemp, "HOTEND MAXTEMP ERROR", "Check the print head thermistor wiring for possible damage."},
	{12207, BedMinTemp, "HEATBED MINTEMP ERROR", "Check the heatbed thermistor wiring for possible damage."},
	{12208, MinTemp, "HOTEND MINTEMP ERROR", "Check the print head thermistor wiring for possible damage."},
	{12510, EmergencyStop, "EMERGENCY STOP", "Emergency stop invoked by G-code (M112)."},
}

// FullCode returns PrinterCode*1000 + short.
func FullCode(short uint16) uint16 { return PrinterCode*1000 + short }

// Lookup returns the entry for a short code.
func Lookup(short uint16) (*Entry, bool) {
	for i := range Entries {
		if Entries[i].Short == short {
			return &Entries[i], true
		}
	}
	return nil, false
}

const (
	longURLFormat  = "https://help.3dprinter.support/%d/%s"
	shortURLFormat = "3dp.support/%d"
)

// AppendLongURL appends the help page URL for a full code in lang.
func AppendLongURL(dst []byte, code uint16, lang string) []byte {
	if lang == "" {
		lang = "en"
	}
	return fmt.Appendf(dst, longURLFormat, code, lang)
}

// AppendShortURL appends the printed short form of the help URL.
func AppendShortURL(dst []byte, code uint16) []byte {
	return fmt.Appendf(dst, shortURLFormat, code)
}

// Map from the motion controller's kill messages to short codes. A message
// without a module is a stop request rather than a thermal error.
var (
	thermal = [...]struct {
		msg   string
		short uint16
	}{
		{"Bed Heating failed", BedHeatingFailed},
		{"Heating failed", HeatingFailed},
		{"Bed Thermal Runaway", BedThermalRunaway},
		{"Thermal Runaway", ThermalRunaway},
		{"Err: MAXTEMP BED", BedMaxTemp},
		{"Err: MAXTEMP", MaxTemp},
		{"Err: MINTEMP BED", BedMinTemp},
		{"Err: MINTEMP", MinTemp},
	}
	stops = [...]struct {
		msg   string
		short uint16
	}{
		{"Invalid extruder number !", 0},
		{"Emergency stop (M112)", EmergencyStop},
		{"Inactive time kill", 0},
	}
)

// ShortFor maps a kill message to its short code. hasModule selects the
// thermal table. Unknown messages and plain stops map to 0.
func ShortFor(msg string, hasModule bool) uint16 {
	if hasModule {
		for _, e := range thermal {
			if e.msg == msg {
				return e.short
			}
		}
		return 0
	}
	for _, e := range stops {
		if e.msg == msg {
			return e.short
		}
	}
	return 0
}
