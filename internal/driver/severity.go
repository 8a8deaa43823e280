package driver

import (
	"vela/internal/diag"
)

// OverrideReporter rewrites severities from the manifest's [severity] table
// before forwarding to the sink. Rule code never sees the override.
type OverrideReporter struct {
	Next  diag.Reporter
	Rules map[diag.Code]diag.Severity
}

func (r OverrideReporter) Report(d diag.Diagnostic) {
	if sev, ok := r.Rules[d.Code]; ok {
		d.Severity = sev
	}
	r.Next.Report(d)
}
