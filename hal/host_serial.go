//go:build !tinygo

package hal

import (
	"bytes"
	"strings"
	"sync"
)

// hostMotion stands in for the motion controller on the other end of the
// serial link. It acknowledges every line and answers M112 the way the
// controller firmware does. Reads never block.
type hostMotion struct {
	mu   sync.Mutex
	line []byte
	out  bytes.Buffer
}

func newHostMotion() *hostMotion { return &hostMotion{} }

func (m *hostMotion) Read(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.out.Len() == 0 {
		return 0, nil
	}
	return m.out.Read(p)
}

func (m *hostMotion) Write(p []byte) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range p {
		if c != '\n' {
			m.line = append(m.line, c)
			continue
		}
		m.handle(string(m.line))
		m.line = m.line[:0]
	}
	return len(p), nil
}

func (m *hostMotion) handle(line string) {
	// Strip "N<n> " and "*<checksum>".
	if strings.HasPrefix(line, "N") {
		if i := strings.IndexByte(line, ' '); i > 0 {
			line = line[i+1:]
		}
	}
	if i := strings.LastIndexByte(line, '*'); i >= 0 {
		line = line[:i]
	}
	if strings.HasPrefix(strings.TrimSpace(line), "M112") {
		m.out.WriteString("Error:Emergency stop (M112)\nError:Printer halted. kill() called!\n")
		return
	}
	m.out.WriteString("ok\n")
}

// inject queues a line as if the controller had sent it.
func (m *hostMotion) inject(line string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.out.WriteString(line)
	m.out.WriteByte('\n')
}

// thermalRunaway makes the controller report a hotend thermal runaway and halt.
func (m *hostMotion) thermalRunaway() {
	m.inject("Error:Thermal Runaway, system stopped! Heater_ID: 0")
	m.inject("Error:Printer halted. kill() called!")
}
