package archive

import (
	"context"
	"errors"
	"testing"

	"minipanel/dump/report"
)

func openTemp(t *testing.T) *Archive {
	t.Helper()
	a, err := Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func sample() *report.Report {
	return &report.Report{
		Flags:    "temperror",
		Firmware: "1.2.3",
		ErrCode:  12204,
		Title:    "HOTEND THERMAL RUNAWAY",
		Core:     []report.Register{{Name: "PC", Value: 0x08001234}},
		Task:     &report.Task{Name: "marlin", StackBase: 0x20000100, StackTop: 0x20000108, Stack: []uint32{3, 2, 1}},
	}
}

func TestAddGet(t *testing.T) {
	a := openTemp(t)
	ctx := context.Background()
	raw := []byte{0x44, 0x50, 0x4d, 0x50}

	id, err := a.Add(ctx, "usb", sample(), raw)
	if err != nil {
		t.Fatal(err)
	}
	e, err := a.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	if e.ID != id || e.Source != "usb" || e.ErrCode != 12204 || e.Firmware != "1.2.3" {
		t.Fatalf("entry %+v", e)
	}
	if e.Summary != "temperror: 12204 HOTEND THERMAL RUNAWAY" {
		t.Fatalf("summary %q", e.Summary)
	}
	if string(e.Raw) != string(raw) {
		t.Fatalf("raw %x", e.Raw)
	}
	if e.Report == nil || e.Report.Task == nil || len(e.Report.Task.Stack) != 3 {
		t.Fatalf("report %+v", e.Report)
	}
	if e.ArchivedAt.IsZero() {
		t.Fatal("no timestamp")
	}
}

func TestListAndDelete(t *testing.T) {
	a := openTemp(t)
	ctx := context.Background()
	for range 3 {
		if _, err := a.Add(ctx, "flash", sample(), nil); err != nil {
			t.Fatal(err)
		}
	}
	list, err := a.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 || list[0].Report != nil {
		t.Fatalf("list %+v", list)
	}
	if err := a.Delete(ctx, list[0].ID); err != nil {
		t.Fatal(err)
	}
	if _, err := a.Get(ctx, list[0].ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get deleted: %v", err)
	}
	if err := a.Delete(ctx, list[0].ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete twice: %v", err)
	}
}

func TestGetRejectsBadID(t *testing.T) {
	a := openTemp(t)
	if _, err := a.Get(context.Background(), "not-a-uuid"); err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("err=%v", err)
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	dir := t.TempDir()
	a, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	id, err := a.Add(context.Background(), "usb", sample(), nil)
	if err != nil {
		t.Fatal(err)
	}
	_ = a.Close()

	b, err := Open(dir)
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()
	if _, err := b.Get(context.Background(), id); err != nil {
		t.Fatal(err)
	}
}
