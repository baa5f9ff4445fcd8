package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"
)

// Format selects a report encoding.
type Format uint8

const (
	Markdown Format = iota
	YAML
	JSON
	Msgpack
)

var formatNames = [...]string{"markdown", "yaml", "json", "msgpack"}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return "format(" + strconv.Itoa(int(f)) + ")"
}

// Ext is the file extension written for f.
func (f Format) Ext() string {
	switch f {
	case YAML:
		return ".yaml"
	case JSON:
		return ".json"
	case Msgpack:
		return ".msgpack"
	}
	return ".md"
}

// ParseFormat accepts a format name or its usual short form.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "markdown", "md":
		return Markdown, nil
	case "yaml", "yml":
		return YAML, nil
	case "json":
		return JSON, nil
	case "msgpack", "mp":
		return Msgpack, nil
	}
	return 0, fmt.Errorf("report: unknown format %q", s)
}

// Write encodes r to w in format f.
func Write(w io.Writer, r *Report, f Format) error {
	switch f {
	case Markdown:
		return writeMarkdown(w, r)
	case YAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("report: yaml: %w", err)
		}
		return enc.Close()
	case JSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("report: json: %w", err)
		}
		return nil
	case Msgpack:
		if err := msgpack.NewEncoder(w).Encode(r); err != nil {
			return fmt.Errorf("report: msgpack: %w", err)
		}
		return nil
	}
	return fmt.Errorf("report: unknown format %d", f)
}

// Decode reads a msgpack report, as stored in the archive.
func Decode(b []byte) (*Report, error) {
	var r Report
	if err := msgpack.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("report: msgpack: %w", err)
	}
	return &r, nil
}

func writeMarkdown(w io.Writer, r *Report) error {
	md := markdown.NewMarkdown(w)
	md.H1("Crash dump")
	md.PlainText("")

	displayed := "no"
	if r.Displayed {
		displayed = "yes"
	}
	rows := [][]string{
		{"Reason", r.Flags},
		{"Firmware", orDash(r.Firmware)},
		{"Shown on panel", displayed},
		{"RAM", fmt.Sprintf("%s + %d bytes", hex32(r.RAMBase), r.RAMLen)},
	}
	if r.Task != nil {
		rows = append(rows, []string{"Task", orDash(r.Task.Name)})
	}
	md.Table(markdown.TableSet{Header: []string{"Property", "Value"}, Rows: rows})
	md.PlainText("")

	if r.ErrCode != 0 {
		md.H2("Error")
		md.PlainText("")
		if r.Title != "" {
			md.Cautionf("%d %s", r.ErrCode, r.Title)
			md.PlainText("")
			md.PlainText(r.Text)
			md.PlainText("")
			md.PlainTextf("More: %s", r.HelpURL)
		} else {
			md.Warningf("Unknown error code %d", r.ErrCode)
		}
		md.PlainText("")
	}

	if r.Cause != "" {
		md.H2("Fault")
		md.PlainText("")
		md.Importantf("%s", r.Cause)
		md.PlainText("")
		if len(r.Causes) > 1 {
			items := make([]string, len(r.Causes))
			for i, c := range r.Causes {
				items[i] = c.Name + ": " + c.Text
			}
			md.BulletList(items...)
			md.PlainText("")
		}
	}

	md.H2("Registers")
	md.PlainText("")
	md.Table(registerTable(append(append([]Register(nil), r.Core...), r.SCB...)))
	md.PlainText("")

	if r.Task != nil && len(r.Task.Stack) > 0 {
		md.H2("Stack")
		md.PlainText("")
		md.PlainTextf("%s .. %s, top first", hex32(r.Task.StackBase), hex32(r.Task.StackTop))
		md.PlainText("")
		md.CodeBlocks(markdown.SyntaxHighlight("text"), stackText(r.Task))
		md.PlainText("")
	} else if r.Task == nil {
		md.Note("No running task was recorded.")
		md.PlainText("")
	}

	md.HorizontalRule()
	return md.Build()
}

func registerTable(regs []Register) markdown.TableSet {
	rows := make([][]string, len(regs))
	for i, reg := range regs {
		rows[i] = []string{reg.Name, hex32(reg.Value)}
	}
	return markdown.TableSet{Header: []string{"Register", "Value"}, Rows: rows}
}

func stackText(t *Task) string {
	var b strings.Builder
	for i, w := range t.Stack {
		fmt.Fprintf(&b, "%s: %s\n", hex32(t.StackTop-uint32(i)*4), hex32(w))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
