// Command dumptool reads the crash dump a panel leaves in flash or on a USB
// stick, renders it for people and scripts, and keeps an archive of them.
//
// Usage:
//
//	dumptool decode [dump-file]
//	dumptool export --format yaml --out report.yaml
//	dumptool archive add [dump-file]
//	dumptool synth --kind hardfault
//
// Without a dump file the dump region of the flash image is read.
package main

func main() {
	Execute()
}
