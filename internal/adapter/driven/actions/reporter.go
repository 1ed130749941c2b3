package actions

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/ericfisherdev/armlabeler/internal/adapter/driven/report"
	"github.com/ericfisherdev/armlabeler/internal/domain/model"
	"github.com/ericfisherdev/armlabeler/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.RunReporter = (*Reporter)(nil)

// Reporter writes step outputs to $GITHUB_OUTPUT and decision summaries to
// $GITHUB_STEP_SUMMARY. Empty paths disable the respective file; outputs are
// then only logged, which is what happens outside Actions.
type Reporter struct {
	outputPath  string
	summaryPath string
	htmlPath    string

	summary strings.Builder
}

// NewReporter creates a Reporter. htmlPath, when set, receives a sanitized
// HTML rendering of every summary written so far.
func NewReporter(outputPath, summaryPath, htmlPath string) *Reporter {
	return &Reporter{
		outputPath:  outputPath,
		summaryPath: summaryPath,
		htmlPath:    htmlPath,
	}
}

// SetOutput sets a step output.
func (r *Reporter) SetOutput(name, value string) error {
	slog.Info("step output", "name", name, "value", value)
	if r.outputPath == "" {
		return nil
	}

	entry, err := formatOutput(name, value)
	if err != nil {
		return err
	}
	return appendFile(r.outputPath, entry)
}

// ReportDecision appends the decision to the job summary.
func (r *Reporter) ReportDecision(d model.LabelDecision) error {
	md := report.Markdown(d)
	r.summary.WriteString(md)

	if r.summaryPath != "" {
		if err := appendFile(r.summaryPath, md); err != nil {
			return err
		}
	}

	if r.htmlPath != "" {
		page := report.Document("armlabeler", report.RenderHTML(r.summary.String()))
		if err := os.WriteFile(r.htmlPath, []byte(page), 0o644); err != nil {
			return fmt.Errorf("writing html report: %w", err)
		}
	}
	return nil
}

// formatOutput encodes one output entry. Multiline values use the heredoc
// form with a random delimiter.
func formatOutput(name, value string) (string, error) {
	if strings.ContainsAny(name, "=\n") {
		return "", fmt.Errorf("invalid output name %q", name)
	}
	if !strings.Contains(value, "\n") {
		return name + "=" + value + "\n", nil
	}

	var raw [8]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", fmt.Errorf("generating output delimiter: %w", err)
	}
	delim := "ghadelimiter_" + hex.EncodeToString(raw[:])
	return fmt.Sprintf("%s<<%s\n%s\n%s\n", name, delim, value, delim), nil
}

func appendFile(path, content string) error {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	if _, err := f.WriteString(content); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
