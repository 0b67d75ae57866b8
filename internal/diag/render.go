package diag

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"strata/internal/source"
)

// Renderer formats diagnostics for humans: one header line per diagnostic
// followed by the offending source line with a caret underline.
type Renderer struct {
	Out     io.Writer
	Files   *source.FileSet
	Color   bool
	MaxWidth int // 0 means autodetect (or 100 when not a terminal)
}

// NewRenderer builds a renderer writing to out.
func NewRenderer(out io.Writer, files *source.FileSet) *Renderer {
	r := &Renderer{Out: out, Files: files, Color: false, MaxWidth: 100}
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		r.Color = true
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 20 {
			r.MaxWidth = w
		}
	}
	return r
}

// RenderBag renders all diagnostics in the bag in their current order.
func (r *Renderer) RenderBag(bag *Bag) {
	for _, d := range bag.Items() {
		r.Render(d)
	}
}

// Render writes a single diagnostic.
func (r *Renderer) Render(d Diagnostic) {
	header := r.header(d)
	fmt.Fprintln(r.Out, header)
	r.renderSpan(d.Primary, "^")
	for _, n := range d.Notes {
		fmt.Fprintf(r.Out, "  note: %s\n", n.Msg)
		r.renderSpan(n.Span, "-")
	}
}

func (r *Renderer) header(d Diagnostic) string {
	loc := ""
	if r.Files != nil && r.Files.Len() > int(d.Primary.File) {
		f := r.Files.Get(d.Primary.File)
		start, _ := r.Files.Resolve(d.Primary)
		loc = fmt.Sprintf("%s:%d:%d: ", f.Path, start.Line, start.Col)
	}
	sev := d.Severity.String()
	if r.Color {
		switch d.Severity {
		case SevError:
			sev = color.New(color.FgRed, color.Bold).Sprint(sev)
		case SevWarning:
			sev = color.New(color.FgYellow, color.Bold).Sprint(sev)
		default:
			sev = color.New(color.FgCyan).Sprint(sev)
		}
	}
	return fmt.Sprintf("%s%s [%s] %s", loc, sev, d.Code, d.Message)
}

func (r *Renderer) renderSpan(sp source.Span, mark string) {
	if r.Files == nil || sp.Empty() && sp.Start == 0 {
		return
	}
	if int(sp.File) >= r.Files.Len() {
		return
	}
	f := r.Files.Get(sp.File)
	start, end := r.Files.Resolve(sp)
	line := f.Line(start.Line)
	if line == "" {
		return
	}
	if len(line) > r.MaxWidth-8 && r.MaxWidth > 8 {
		line = line[:r.MaxWidth-8]
	}
	fmt.Fprintf(r.Out, "    %s\n", line)

	// Underline with display-aware widths so tabs and wide runes line up.
	prefix := line
	if int(start.Col-1) <= len(line) {
		prefix = line[:start.Col-1]
	}
	pad := runewidth.StringWidth(prefix)
	n := 1
	if end.Line == start.Line && end.Col > start.Col {
		upTo := int(end.Col - 1)
		if upTo > len(line) {
			upTo = len(line)
		}
		n = runewidth.StringWidth(line[start.Col-1 : upTo])
		if n < 1 {
			n = 1
		}
	}
	underline := strings.Repeat(mark, n)
	if r.Color && mark == "^" {
		underline = color.New(color.FgRed).Sprint(underline)
	}
	fmt.Fprintf(r.Out, "    %s%s\n", strings.Repeat(" ", pad), underline)
}
