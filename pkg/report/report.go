// Package report renders the diagnostic log and delivers it to its
// sinks: the console, an optional on-disk copy, and mail. A run with
// an empty log produces no artifact anywhere.
package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"

	"patchcheck/pkg/diagnostics"
	"patchcheck/pkg/errors"
	"patchcheck/pkg/logging"
)

var log = logging.GetLogger("report")

// Header is the build-identification line at the top of the report.
func Header(branch string) string {
	if branch == "" {
		return "patch reconciliation report"
	}
	return "patch reconciliation report for branch " + branch
}

// Summary returns the error and warning counts, used for exit codes
// and mail subjects.
func Summary(dlog *diagnostics.Log) (errs, warns int) {
	for _, d := range dlog.Items() {
		switch d.Severity {
		case diagnostics.SeverityError:
			errs++
		case diagnostics.SeverityWarning:
			warns++
		}
	}
	return errs, warns
}

// Render returns the report in the given format, resolving FormatAuto
// against stdout. An empty log renders to the empty string in every
// format.
func Render(dlog *diagnostics.Log, branch string, format Format) (string, error) {
	if dlog.Empty() {
		return "", nil
	}
	if format == FormatAuto {
		format = DetectFormat(os.Stdout)
	}

	switch format {
	case FormatJSON:
		return renderJSON(dlog, branch)
	case FormatYAML:
		return renderYAML(dlog, branch)
	case FormatTerminal:
		return renderTerm(dlog, Header(branch)), nil
	default:
		return renderText(dlog, Header(branch))
	}
}

func renderText(dlog *diagnostics.Log, header string) (string, error) {
	var b strings.Builder
	if err := dlog.Render(&b, header); err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "rendering report")
	}
	return b.String(), nil
}

// renderTerm keeps the text layout and adds severity coloring, so a
// terminal and a saved report file always agree line for line.
func renderTerm(dlog *diagnostics.Log, header string) string {
	var b strings.Builder
	if header != "" {
		b.WriteString(pterm.Bold.Sprint(header))
		b.WriteString("\n\n")
	}
	for i, d := range dlog.Items() {
		if i > 0 {
			b.WriteString("\n")
		}
		switch d.Severity {
		case diagnostics.SeverityError:
			b.WriteString(severityStyle(d.Severity).Sprintf("Error %d:", d.Code))
			b.WriteString(" ")
		case diagnostics.SeverityWarning:
			b.WriteString(severityStyle(d.Severity).Sprintf("Warning %d:", d.Code))
			b.WriteString(" ")
		}
		b.WriteString(d.Message)
		b.WriteString("\n")
	}
	return b.String()
}

func severityStyle(s diagnostics.Severity) *pterm.Style {
	switch s {
	case diagnostics.SeverityError:
		return pterm.NewStyle(pterm.FgRed, pterm.Bold)
	case diagnostics.SeverityWarning:
		return pterm.NewStyle(pterm.FgYellow)
	default:
		return pterm.NewStyle(pterm.FgDefault)
	}
}

// reportEntry is the machine-format view of one diagnostic.
// Informational entries carry no code, so the field is omitted.
type reportEntry struct {
	Severity string `json:"severity" yaml:"severity"`
	Code     int    `json:"code,omitempty" yaml:"code,omitempty"`
	Path     string `json:"path,omitempty" yaml:"path,omitempty"`
	Message  string `json:"message" yaml:"message"`
}

type reportDoc struct {
	Branch      string        `json:"branch,omitempty" yaml:"branch,omitempty"`
	Errors      int           `json:"errors" yaml:"errors"`
	Warnings    int           `json:"warnings" yaml:"warnings"`
	Diagnostics []reportEntry `json:"diagnostics" yaml:"diagnostics"`
}

func buildDoc(dlog *diagnostics.Log, branch string) reportDoc {
	items := dlog.Items()
	doc := reportDoc{
		Branch:      branch,
		Diagnostics: make([]reportEntry, 0, len(items)),
	}
	for _, d := range items {
		switch d.Severity {
		case diagnostics.SeverityError:
			doc.Errors++
		case diagnostics.SeverityWarning:
			doc.Warnings++
		}
		doc.Diagnostics = append(doc.Diagnostics, reportEntry{
			Severity: d.Severity.String(),
			Code:     int(d.Code),
			Path:     d.Path,
			Message:  d.Message,
		})
	}
	return doc
}

func renderJSON(dlog *diagnostics.Log, branch string) (string, error) {
	data, err := json.MarshalIndent(buildDoc(dlog, branch), "", "  ")
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "encoding report as json")
	}
	return string(data) + "\n", nil
}

func renderYAML(dlog *diagnostics.Log, branch string) (string, error) {
	data, err := yaml.Marshal(buildDoc(dlog, branch))
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInternal, "encoding report as yaml")
	}
	return string(data), nil
}

// WriteFile writes the rendered report, creating parent directories
// as needed.
func WriteFile(path, content string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, errors.ErrReportWrite, "creating report directory for %s", path)
		}
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return errors.Wrapf(err, errors.ErrReportWrite, "writing report to %s", path)
	}
	log.Info().Str("path", path).Msg("Report written")
	return nil
}
