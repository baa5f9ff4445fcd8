package main

import (
	"fmt"
	"strings"

	"minipanel/cortexm"
	"minipanel/dump"
	"minipanel/internal/buildinfo"
	"minipanel/rtos"

	"github.com/spf13/cobra"
)

// synthTask is the task name recorded in synthetic dumps.
const synthTask = "synth"

// NewSynthCmd creates the synth command.
func NewSynthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Write a synthetic dump into the flash image",
		Long: `Write a dump as the panel would after a fault, so the post-mortem screens
can be tried in the simulator. The task RAM comes from a scheduler run with
one task that pushed --words onto its stack.`,
		Args: cobra.NoArgs,
		RunE: runSynthCmd,
	}
	cmd.Flags().String("kind", "hardfault", "Dump reason: hardfault, watchdog, temperror")
	cmd.Flags().Uint16("code", 0, "Short error code for temperror dumps")
	cmd.Flags().Uint32("cfsr", cortexm.DIVBYZERO, "CFSR value for hardfault and watchdog dumps")
	cmd.Flags().UintSlice("words", []uint{0xDEADBEEF, 0x08001234}, "Words pushed onto the task stack")
	cmd.Flags().Bool("clear", false, "Erase the dump instead of writing one")
	return cmd
}

func runSynthCmd(cmd *cobra.Command, _ []string) error {
	log := setupLogger(cmd)
	path := getStringFlag(cmd, "flash")
	ff, err := openFlashFile(path, true)
	if err != nil {
		return err
	}
	defer func() { _ = ff.Close() }()
	store := ff.dumpStore()

	if erase, _ := cmd.Flags().GetBool("clear"); erase {
		if err := store.Clear(); err != nil {
			return err
		}
		log.Info("cleared dump", "flash", path)
		return nil
	}

	kind, _ := cmd.Flags().GetString("kind")
	code, _ := cmd.Flags().GetUint16("code")
	cfsr, _ := cmd.Flags().GetUint32("cfsr")
	list, _ := cmd.Flags().GetUintSlice("words")
	words := make([]uint32, len(list))
	for i, w := range list {
		words[i] = uint32(w)
	}

	rec, err := synthRecord(kind, code, cfsr, words)
	if err != nil {
		return err
	}
	if err := store.Save(&rec); err != nil {
		return err
	}
	log.Info("wrote dump", "flash", path, "flags", rec.Flags, "ram", len(rec.RAM))
	fmt.Fprintf(cmd.OutOrStdout(), "%s dump written to %s\n", rec.Flags, path)
	return nil
}

type taskFunc func(*rtos.Context)

func (f taskFunc) Step(ctx *rtos.Context) { f(ctx) }

// synthRecord builds a record whose RAM image is a real scheduler arena
// captured while its only task is running.
func synthRecord(kind string, code uint16, cfsr uint32, words []uint32) (dump.Record, error) {
	rec := dump.Record{Firmware: buildinfo.Short()}
	switch strings.ToLower(kind) {
	case "hardfault":
		rec.Flags = dump.FlagHardFault
	case "watchdog":
		rec.Flags = dump.FlagWatchdog
	case "temperror":
		if code == 0 {
			return rec, fmt.Errorf("synth: temperror needs --code")
		}
		rec.Flags = dump.FlagTempError
		rec.ErrCode = code
	default:
		return rec, fmt.Errorf("synth: unknown kind %q", kind)
	}
	if rec.Flags != dump.FlagTempError {
		rec.SCB.SetCFSR(cfsr)
		rec.SCB.SetHFSR(1 << 30)
	}
	rec.SCB.SetCPUID(0x410FC241)

	k := rtos.New(rtos.NewArena(rtos.DefaultArenaSize))
	if _, ok := k.AddTask(synthTask, taskFunc(func(ctx *rtos.Context) {
		ctx.Push(words...)
		if len(words) > 0 {
			rec.Regs.PC = words[len(words)-1]
		}
		a := k.Arena()
		rec.RAMBase = a.Base()
		rec.RAM = append([]byte(nil), a.Bytes()...)
	}), 64); !ok {
		return rec, fmt.Errorf("synth: no room for task")
	}
	k.Step()
	return rec, nil
}
