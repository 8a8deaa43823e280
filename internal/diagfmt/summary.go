package diagfmt

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"vela/internal/diag"
)

var (
	okStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	errStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true)
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("3")).Bold(true)
	subtleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	summaryStyle = lipgloss.NewStyle().PaddingTop(1)
)

// Summary prints the closing tally for a verification pass.
func Summary(w io.Writer, bag *diag.Bag, unitCount int, opts PrettyOpts) {
	var errs, warns, infos int
	for _, d := range bag.Items() {
		switch d.Severity {
		case diag.SevError:
			errs++
		case diag.SevWarning:
			warns++
		default:
			infos++
		}
	}

	units := fmt.Sprintf("%d unit(s) verified", unitCount)
	var tally string
	switch {
	case errs == 0 && warns == 0:
		tally = "no issues"
		if opts.Color {
			tally = okStyle.Render(tally)
		}
	default:
		e := fmt.Sprintf("%d error(s)", errs)
		wn := fmt.Sprintf("%d warning(s)", warns)
		if opts.Color {
			if errs > 0 {
				e = errStyle.Render(e)
			}
			if warns > 0 {
				wn = warnStyle.Render(wn)
			}
		}
		tally = e + ", " + wn
	}
	if opts.Color {
		units = subtleStyle.Render(units)
	}

	line := units + ": " + tally
	if opts.Color {
		line = summaryStyle.Render(line)
	}
	fmt.Fprintln(w, line)
}
