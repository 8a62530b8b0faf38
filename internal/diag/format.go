package diag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"

	"resurface/internal/source"
)

var (
	errorLabel   = color.New(color.FgRed, color.Bold)
	warningLabel = color.New(color.FgYellow, color.Bold)
	infoLabel    = color.New(color.FgCyan)
)

type renderedDiagnostic struct {
	Severity Severity
	Code     string
	Path     string
	Line     uint32
	Column   uint32
	Message  string
}

// FormatShort renders diagnostics one per line in a stable order:
//
//	path:line:col SEVERITY [CODE] message
//
// Severity labels are colored; color.NoColor is respected globally.
func FormatShort(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}

	rendered := make([]renderedDiagnostic, 0, len(diags))
	for _, d := range diags {
		rendered = append(rendered, renderOne(d.Severity, d.Code.ID(), d.Primary, d.Message, fs))
		if includeNotes {
			for _, n := range d.Notes {
				rendered = append(rendered, renderOne(SevInfo, "NOTE", n.Span, n.Msg, fs))
			}
		}
	}

	sort.SliceStable(rendered, func(i, j int) bool {
		di, dj := rendered[i], rendered[j]
		if di.Path != dj.Path {
			return di.Path < dj.Path
		}
		if di.Line != dj.Line {
			return di.Line < dj.Line
		}
		if di.Column != dj.Column {
			return di.Column < dj.Column
		}
		return di.Code < dj.Code
	})

	var sb strings.Builder
	for _, r := range rendered {
		fmt.Fprintf(&sb, "%s:%d:%d %s [%s] %s\n",
			r.Path, r.Line, r.Column, severityLabel(r.Severity), r.Code, r.Message)
	}
	return sb.String()
}

func renderOne(sev Severity, code string, span source.Span, msg string, fs *source.FileSet) renderedDiagnostic {
	r := renderedDiagnostic{
		Severity: sev,
		Code:     code,
		Message:  msg,
	}
	if int(span.File) < fs.Len() {
		f := fs.Get(span.File)
		start, _ := fs.Resolve(span)
		r.Path = f.FormatPath("relative", fs.BaseDir())
		r.Line = start.Line
		r.Column = start.Col
	}
	return r
}

func severityLabel(sev Severity) string {
	switch sev {
	case SevError:
		return errorLabel.Sprint(sev.String())
	case SevWarning:
		return warningLabel.Sprint(sev.String())
	default:
		return infoLabel.Sprint(sev.String())
	}
}
