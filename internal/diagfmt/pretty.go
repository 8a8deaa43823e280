// Package diagfmt renders diagnostics for humans: one header line per
// diagnostic, the offending source line and a caret underline sized to the
// span.
package diagfmt

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"vela/internal/diag"
	"vela/internal/source"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan, color.Bold)
	noteColor    = color.New(color.FgBlue)
	caretColor   = color.New(color.FgGreen, color.Bold)
)

// Pretty renders bag.Items() in order; callers sort the bag first. Each
// diagnostic prints as
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//
// followed by the source line with a ^~~~ underline covering the span.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		writeDiagnostic(w, d, fs, opts)
	}
}

func writeDiagnostic(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	sev := severityStyle(d.Severity)
	header := fmt.Sprintf("%s %s: %s",
		paint(sev, d.Severity.String(), opts.Color),
		paint(sev, d.Code.ID(), opts.Color),
		d.Message)

	if d.Primary.Empty() && d.Primary.File == 0 {
		// I/O and project diagnostics carry no source location.
		fmt.Fprintf(w, "%s\n", header)
		return
	}

	start, _ := fs.Resolve(d.Primary)
	fmt.Fprintf(w, "%s:%d:%d: %s\n", displayPath(fs, d.Primary.File, opts), start.Line, start.Col, header)
	writeContext(w, fs, d.Primary, opts)

	if opts.WithNotes {
		for _, n := range d.Notes {
			nStart, _ := fs.Resolve(n.Span)
			fmt.Fprintf(w, "  %s: %s (%s:%d:%d)\n",
				paint(noteColor, "note", opts.Color), n.Msg,
				displayPath(fs, n.Span.File, opts), nStart.Line, nStart.Col)
			writeContext(w, fs, n.Span, opts)
		}
	}
}

// writeContext prints the first line the span touches plus an underline.
// Tabs are expanded so the caret column survives any terminal tab width.
func writeContext(w io.Writer, fs *source.FileSet, span source.Span, opts PrettyOpts) {
	file := fs.Get(span.File)
	start, end := fs.Resolve(span)
	line := file.Line(start.Line)
	if line == "" && span.Empty() {
		return
	}

	expanded := strings.ReplaceAll(line, "\t", "    ")
	fmt.Fprintf(w, "    %s\n", expanded)

	prefix := line
	if int(start.Col)-1 <= len(line) {
		prefix = line[:start.Col-1]
	}
	pad := runewidth.StringWidth(strings.ReplaceAll(prefix, "\t", "    "))

	width := 1
	if end.Line == start.Line && end.Col > start.Col {
		underlined := line
		if int(end.Col)-1 <= len(line) {
			underlined = line[start.Col-1 : end.Col-1]
		} else if int(start.Col)-1 <= len(line) {
			underlined = line[start.Col-1:]
		}
		if uw := runewidth.StringWidth(underlined); uw > 0 {
			width = uw
		}
	}

	caret := "^" + strings.Repeat("~", width-1)
	fmt.Fprintf(w, "    %s%s\n", strings.Repeat(" ", pad), paint(caretColor, caret, opts.Color))
}

func displayPath(fs *source.FileSet, id source.FileID, opts PrettyOpts) string {
	path := fs.Get(id).Path
	if opts.FullPath {
		return path
	}
	if base := fs.BaseDir(); base != "" {
		if rel, err := filepath.Rel(base, path); err == nil && !strings.HasPrefix(rel, "..") {
			return rel
		}
	}
	return path
}

func severityStyle(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return errorColor
	case diag.SevWarning:
		return warningColor
	default:
		return infoColor
	}
}

func paint(c *color.Color, s string, enabled bool) string {
	if !enabled {
		return s
	}
	return c.Sprint(s)
}
