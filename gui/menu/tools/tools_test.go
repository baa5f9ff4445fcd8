package tools

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"minipanel/dump"
	"minipanel/gui/menu"
	"minipanel/hal"
	"minipanel/proto"
	"minipanel/rtos"
	"minipanel/services/printer"
	"minipanel/settings"
	"minipanel/sound"
)

type fakeScreens struct {
	opened   []ScreenID
	closed   int
	timeout  bool
	messages []string
	confirm  bool
}

func (s *fakeScreens) Open(id ScreenID)       { s.opened = append(s.opened, id) }
func (s *fakeScreens) Close()                 { s.closed++ }
func (s *fakeScreens) MenuTimeout() bool      { return s.timeout }
func (s *fakeScreens) SetMenuTimeout(on bool) { s.timeout = on }
func (s *fakeScreens) Message(text string, done func()) {
	s.messages = append(s.messages, text)
	if done != nil {
		done()
	}
}
func (s *fakeScreens) Confirm(text string, yes func()) {
	s.messages = append(s.messages, text)
	if s.confirm {
		yes()
	}
}

type memFlash struct{ mem []byte }

func newMemFlash(size int) *memFlash {
	f := &memFlash{mem: make([]byte, size)}
	for i := range f.mem {
		f.mem[i] = 0xFF
	}
	return f
}

func (f *memFlash) SizeBytes() uint32       { return uint32(len(f.mem)) }
func (f *memFlash) EraseBlockBytes() uint32 { return 4096 }
func (f *memFlash) ReadAt(p []byte, off uint32) (int, error) {
	if int(off) >= len(f.mem) {
		return 0, io.EOF
	}
	return copy(p, f.mem[off:]), nil
}
func (f *memFlash) WriteAt(p []byte, off uint32) (int, error) { return copy(f.mem[off:], p), nil }
func (f *memFlash) Erase(off, size uint32) error {
	for i := off; i < off+size && int(i) < len(f.mem); i++ {
		f.mem[i] = 0xFF
	}
	return nil
}

type memMedia struct {
	in    bool
	files map[string][]byte
}

type memFile struct {
	bytes.Buffer
	m    *memMedia
	name string
}

func (f *memFile) Close() error {
	f.m.files[f.name] = f.Bytes()
	return nil
}

func (m *memMedia) Inserted() bool { return m.in }
func (m *memMedia) Create(name string) (io.WriteCloser, error) {
	return &memFile{m: m, name: name}, nil
}
func (m *memMedia) Open(name string) (io.ReadCloser, error) {
	b, ok := m.files[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

type recBeeper struct{ tones int }

func (b *recBeeper) Tone(uint32, uint32, uint8) { b.tones++ }
func (b *recBeeper) Off()                       {}

type fakePin struct {
	level bool
	err   error
}

func (p *fakePin) Name() string                               { return hal.PinFilamentSensor }
func (p *fakePin) Caps() hal.GPIOCaps                         { return hal.GPIOCapInput }
func (p *fakePin) Configure(hal.GPIOMode, hal.GPIOPull) error { return nil }
func (p *fakePin) Read() (bool, error)                        { return p.level, p.err }
func (p *fakePin) Write(level bool) error                     { p.level = level; return nil }

type stepFunc func(*rtos.Context)

func (f stepFunc) Step(ctx *rtos.Context) { f(ctx) }

type sent struct {
	kind    proto.Kind
	payload string
}

type rig struct {
	k      *rtos.Kernel
	ep     rtos.Capability
	st     *printer.Status
	d      *Deps
	scr    *fakeScreens
	media  *memMedia
	beeper *recBeeper
	resets int
	sent   []sent
}

func newRig(t *testing.T) *rig {
	t.Helper()
	r := &rig{
		k:      rtos.New(nil),
		st:     &printer.Status{},
		scr:    &fakeScreens{timeout: true},
		media:  &memMedia{in: true, files: map[string][]byte{}},
		beeper: &recBeeper{},
	}
	r.ep = r.k.NewEndpoint(rtos.RightSend | rtos.RightRecv)
	flash := newMemFlash(256 * 1024)
	st, _ := settings.Open(flash, dump.SettingsOffset)
	r.d = &Deps{
		Printer:  printer.NewClient(r.ep, r.st),
		Settings: st,
		Sound:    sound.New(r.beeper, sound.Once, 5),
		Dumps:    dump.NewStore(flash, dump.RegionOffset, 128*1024),
		Media:    r.media,
		Screens:  r.scr,
		Reset:    func() { r.resets++ },
	}
	return r
}

// do runs fn inside a kernel task step, as the UI task would, and collects
// what reached the printer endpoint.
func (r *rig) do(fn func()) {
	done := false
	r.k.AddTask("ui", stepFunc(func(ctx *rtos.Context) {
		if !done {
			done = true
			r.d.Printer.Attach(ctx)
			fn()
			r.d.Printer.Attach(nil)
			for {
				m, ok := ctx.TryRecv(r.ep)
				if !ok {
					break
				}
				r.sent = append(r.sent, sent{proto.Kind(m.Kind), string(m.Payload())})
			}
		}
		ctx.BlockOnTick()
	}), 32)
	for r.k.Step() {
	}
}

func (r *rig) click(it menu.Item) { r.do(func() { it.Click(nil) }) }

func (r *rig) gcodes() string {
	var out []string
	for _, s := range r.sent {
		if s.kind == proto.MsgGcode || s.kind == proto.MsgGcodeFront {
			out = append(out, s.payload)
		}
	}
	return strings.Join(out, ",")
}

func TestAutoHome(t *testing.T) {
	r := newRig(t)
	r.click(AutoHome(r.d))
	if r.gcodes() != "G28" {
		t.Fatalf("gcodes=%q", r.gcodes())
	}
	if len(r.scr.opened) != 1 || r.scr.opened[0] != ScreenWait {
		t.Fatalf("opened=%v", r.scr.opened)
	}
}

func TestMeshBedHomesFirst(t *testing.T) {
	r := newRig(t)
	r.click(MeshBed(r.d))
	if r.gcodes() != "G28,G29" {
		t.Fatalf("gcodes=%q", r.gcodes())
	}

	r = newRig(t)
	r.st.Homed = true
	r.click(MeshBed(r.d))
	if r.gcodes() != "G29" {
		t.Fatalf("gcodes=%q", r.gcodes())
	}
}

func TestSelfTestItems(t *testing.T) {
	r := newRig(t)
	r.click(TestFans(r.d))
	r.click(TestAbort(r.d))
	if len(r.sent) != 2 {
		t.Fatalf("sent=%v", r.sent)
	}
	if r.sent[0].kind != proto.MsgTestStart || r.sent[0].payload != string(proto.TestPayload(proto.TestFans)) {
		t.Fatalf("start=%+v", r.sent[0])
	}
	if r.sent[1].kind != proto.MsgTestAbort {
		t.Fatalf("abort=%+v", r.sent[1])
	}
	if len(r.scr.opened) != 1 || r.scr.opened[0] != ScreenTest {
		t.Fatalf("opened=%v", r.scr.opened)
	}
}

func TestChangeFilamentGoesFirst(t *testing.T) {
	r := newRig(t)
	r.click(M600(r.d))
	r.click(DisableSteppers(r.d))
	if r.sent[0].kind != proto.MsgGcodeFront || r.sent[0].payload != "M600" {
		t.Fatalf("sent=%+v", r.sent)
	}
	if r.sent[1].kind != proto.MsgGcode || r.sent[1].payload != "M18" {
		t.Fatalf("sent=%+v", r.sent)
	}
}

func TestFilamentPreheat(t *testing.T) {
	r := newRig(t)
	r.click(FilamentItem(r.d, 1))
	if r.gcodes() != "M86 S1800,M104 S170 D215,M140 S60" {
		t.Fatalf("gcodes=%q", r.gcodes())
	}
	if r.d.Settings.Get().LastFilament != 1 || r.scr.closed != 1 {
		t.Fatalf("last=%d closed=%d", r.d.Settings.Get().LastFilament, r.scr.closed)
	}
	if n := len(FilamentItems(r.d)); n != len(Filaments)-1 {
		t.Fatalf("items=%d", n)
	}
}

func TestTimeoutSwitch(t *testing.T) {
	r := newRig(t)
	sw := Timeout(r.d)
	if sw.Index() != 1 {
		t.Fatalf("index=%d", sw.Index())
	}
	sw.Click(nil)
	if r.scr.timeout || r.d.Settings.Get().MenuTimeout {
		t.Fatal("timeout still on")
	}
	sw.Click(nil)
	if !r.scr.timeout || !r.d.Settings.Get().MenuTimeout {
		t.Fatal("timeout still off")
	}
}

func TestSoundModeSwitch(t *testing.T) {
	r := newRig(t)
	sw := SoundMode(r.d)
	sw.Click(nil)
	if r.d.Sound.Mode() != sound.Loud || r.d.Settings.Get().SoundMode != uint8(sound.Loud) {
		t.Fatalf("mode=%v saved=%d", r.d.Sound.Mode(), r.d.Settings.Get().SoundMode)
	}

	r.d.Sound.SetMode(sound.Debug)
	if SoundMode(r.d).Index() != int(sound.Default) {
		t.Fatal("debug mode shown on a release build")
	}
	r.d.Debug = true
	if SoundMode(r.d).Index() != int(sound.Debug) {
		t.Fatal("debug mode hidden on a debug build")
	}
}

func TestSoundTypePlaysPrevious(t *testing.T) {
	r := newRig(t)
	r.d.Sound.SetMode(sound.Assist)
	sw := SoundType(r.d)
	sw.Click(nil)
	if r.beeper.tones != 1 || len(r.scr.messages) != 0 {
		t.Fatalf("tones=%d messages=%v", r.beeper.tones, r.scr.messages)
	}
	sw.Click(nil)
	if len(r.scr.messages) != 1 || !strings.Contains(r.scr.messages[0], "Continual beeps") {
		t.Fatalf("messages=%v", r.scr.messages)
	}
}

func TestSortFilesToggles(t *testing.T) {
	r := newRig(t)
	sw := SortFiles(r.d)
	sw.Click(nil)
	if r.d.Settings.Get().FileSort != settings.SortByName {
		t.Fatal("expected sort by name")
	}
	sw.Click(nil)
	if r.d.Settings.Get().FileSort != settings.SortByTime {
		t.Fatal("expected sort by time")
	}
}

func TestSoundVolumeCommit(t *testing.T) {
	r := newRig(t)
	sp := SoundVolume(r.d)
	sp.Click(nil)
	sp.Increment(2)
	if r.d.Sound.Volume() != 5 {
		t.Fatal("volume applied before commit")
	}
	sp.Click(nil)
	if r.d.Sound.Volume() != 7 || r.d.Settings.Get().SoundVolume != 7 {
		t.Fatalf("volume=%d saved=%d", r.d.Sound.Volume(), r.d.Settings.Get().SoundVolume)
	}
}

func TestTimezone(t *testing.T) {
	r := newRig(t)
	sp := Timezone(r.d)
	sp.Click(nil)
	sp.Decrement(3)
	sp.Click(nil)
	if r.d.Settings.Get().Timezone != -3 {
		t.Fatalf("tz=%d", r.d.Settings.Get().Timezone)
	}
	sp.Click(nil)
	sp.Decrement(20)
	sp.Click(nil)
	if r.d.Settings.Get().Timezone != -12 {
		t.Fatalf("tz=%d", r.d.Settings.Get().Timezone)
	}
}

func TestFactoryReset(t *testing.T) {
	r := newRig(t)
	r.d.Settings.Update(func(s *settings.Settings) { s.SoundVolume = 1 })

	FactoryDefaults(r.d).Click(nil)
	if r.d.Settings.Get().SoundVolume != 1 || r.resets != 0 {
		t.Fatal("reset without confirmation")
	}

	r.scr.confirm = true
	FactoryDefaults(r.d).Click(nil)
	if r.d.Settings.Get() != settings.Defaults() || r.resets != 1 {
		t.Fatalf("settings=%+v resets=%d", r.d.Settings.Get(), r.resets)
	}
}

func TestSaveDump(t *testing.T) {
	r := newRig(t)
	rec := &dump.Record{Flags: dump.FlagHardFault, Firmware: "1.0.0", RAMBase: rtos.RAMBase, RAM: make([]byte, 256)}
	if err := r.d.Dumps.Save(rec); err != nil {
		t.Fatal(err)
	}

	SaveDump(r.d).Click(nil)
	if got := len(r.media.files[DumpFile]); got != int(dump.Size(256)) {
		t.Fatalf("dump.bin has %d bytes", got)
	}
	if !strings.Contains(r.scr.messages[0], "has been saved") {
		t.Fatalf("messages=%v", r.scr.messages)
	}

	r.media.in = false
	SaveDump(r.d).Click(nil)
	if !strings.HasPrefix(r.scr.messages[1], "Error saving crash dump") {
		t.Fatalf("messages=%v", r.scr.messages)
	}
}

func TestSettingsImageRoundTrip(t *testing.T) {
	r := newRig(t)
	r.d.Settings.Update(func(s *settings.Settings) { s.Timezone = 2 })
	EESave(r.d).Click(nil)
	EESaveText(r.d).Click(nil)
	if len(r.media.files[SettingsFile]) == 0 {
		t.Fatal("no settings image")
	}
	if !strings.Contains(string(r.media.files[SettingsYAMLFile]), "timezone: 2") {
		t.Fatalf("yaml=%q", r.media.files[SettingsYAMLFile])
	}

	r.d.Settings.FactoryReset()
	loads := EELoad(r.d)
	last := loads[len(loads)-1]
	if last.Label() != "EE load" {
		t.Fatalf("label=%q", last.Label())
	}
	last.Click(nil)
	if r.d.Settings.Get().Timezone != 2 || r.resets != 1 {
		t.Fatalf("tz=%d resets=%d", r.d.Settings.Get().Timezone, r.resets)
	}

	loads[0].Click(nil)
	if r.resets != 1 || len(r.scr.messages) != 1 {
		t.Fatalf("missing image: resets=%d messages=%v", r.resets, r.scr.messages)
	}
}

func TestSensorStates(t *testing.T) {
	pin := &fakePin{level: true}
	d := &Deps{FilamentSensor: pin}
	fs := FilamentSensorState(d)
	if fs.Val() != int(SensorHigh) || fs.Enabled() {
		t.Fatalf("value=%d enabled=%v", fs.Val(), fs.Enabled())
	}
	if fs.StateChanged() {
		t.Fatal("unchanged state reported")
	}
	pin.level = false
	if !fs.StateChanged() || fs.Val() != int(SensorLow) {
		t.Fatalf("value=%d", fs.Val())
	}
	pin.err = os.ErrClosed
	if !fs.StateChanged() || fs.Val() != int(SensorUnknown) {
		t.Fatalf("value=%d", fs.Val())
	}

	if MINDA(&Deps{}).Val() != int(SensorUnknown) {
		t.Fatal("missing pin should read unknown")
	}
	fs.Click(nil)
	if fs.Selected() {
		t.Fatal("read-only sensor entered edit mode")
	}
}

func TestHardFaultTestsPanic(t *testing.T) {
	for _, it := range []*menu.Label{HFTest0(), HFTest1()} {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("%s did not fault", it.Label())
				}
			}()
			it.Click(nil)
		}()
	}
}
