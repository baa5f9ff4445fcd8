package tools

import (
	"minipanel/gui/menu"
	"minipanel/proto"
)

func Wizard(d *Deps) *menu.Label {
	return d.label("Wizard", func() { d.open(ScreenWizard) })
}

func LiveAdjustZ(d *Deps) *menu.Label {
	return d.label("Live Adjust Z", func() { d.open(ScreenLiveAdjustZ) })
}

func AutoHome(d *Deps) *menu.Label {
	return d.label("Auto Home", func() {
		if d.Printer.Gcode("G28") {
			d.open(ScreenWait)
		}
	})
}

// MeshBed homes first when the axes are not homed yet.
func MeshBed(d *Deps) *menu.Label {
	return d.label("Mesh Bed Leveling", func() {
		if !d.Printer.AllAxesHomed() {
			d.Printer.Gcode("G28")
		}
		if d.Printer.Gcode("G29") {
			d.open(ScreenWait)
		}
	})
}

func SelfTest(d *Deps) *menu.Label {
	return d.label("SelfTest", func() { d.open(ScreenSelfTest) })
}

func CalibFirst(d *Deps) *menu.Label {
	return d.label("First Layer Calibration", func() { d.open(ScreenFirstLayer) })
}

func testLabel(d *Deps, text string, t proto.Test) *menu.Label {
	return d.label(text, func() {
		if d.Printer.TestStart(t) {
			d.open(ScreenTest)
		}
	})
}

func TestFans(d *Deps) *menu.Label     { return testLabel(d, "Test FANs", proto.TestFans) }
func TestXYZ(d *Deps) *menu.Label      { return testLabel(d, "Test XYZ-Axis", proto.TestXYZ) }
func TestHeat(d *Deps) *menu.Label     { return testLabel(d, "Test heaters", proto.TestHeaters) }
func TestFansFine(d *Deps) *menu.Label { return testLabel(d, "Test FANs fine", proto.TestFansFine) }

func TestAbort(d *Deps) *menu.Label {
	return d.label("Test Abort", func() { d.Printer.TestAbort() })
}

func DisableSteppers(d *Deps) *menu.Label {
	return d.label("Disable Steppers", func() { d.Printer.Gcode("M18") })
}

// M600 puts the filament change ahead of everything queued.
func M600(d *Deps) *menu.Label {
	return d.label("Change Filament", func() { d.Printer.GcodeFront("M600") })
}

func FactoryDefaults(d *Deps) *menu.Label {
	return d.label("Factory Reset", func() {
		if d.Screens == nil {
			return
		}
		d.Screens.Confirm(d.tr("This operation can't be undone, current configuration will be lost! Are you really sure to reset printer to factory defaults?"), func() {
			if d.Settings != nil {
				if err := d.Settings.FactoryReset(); err != nil {
					d.message("Error saving settings.", nil)
					return
				}
			}
			d.message("Factory defaults loaded. The system will now restart.", d.reset)
		})
	})
}

// DumpFile is the crash dump name on the USB drive.
const DumpFile = "dump.bin"

func SaveDump(d *Deps) *menu.Label {
	return d.label("Save Crash Dump", func() {
		if err := saveDump(d); err != nil {
			d.message("Error saving crash dump report to the USB drive. Please reinsert the USB drive and try again.", nil)
			return
		}
		d.message("A crash dump report (file dump.bin) has been saved to the USB drive.", nil)
	})
}
