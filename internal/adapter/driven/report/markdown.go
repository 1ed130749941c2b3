// Package report renders label decisions for the job summary.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/ericfisherdev/armlabeler/internal/domain/model"
)

var (
	mdRenderer    goldmark.Markdown
	htmlSanitizer *bluemonday.Policy
)

func init() {
	mdRenderer = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)

	htmlSanitizer = bluemonday.UGCPolicy()
}

// maxListedFiles caps the changed-file list in a summary.
const maxListedFiles = 50

// Markdown renders one decision as a GitHub-flavored Markdown section.
func Markdown(d model.LabelDecision) string {
	var b strings.Builder

	fmt.Fprintf(&b, "### %s: `%s`\n\n", d.Command, d.Outcome)

	b.WriteString("| | |\n|---|---|\n")
	fmt.Fprintf(&b, "| Pull request | %s#%d |\n", d.RepoFullName, d.PRNumber)
	if d.HeadSHA != "" {
		fmt.Fprintf(&b, "| Head | `%s` |\n", d.HeadSHA)
	}
	if d.Applied != "" {
		fmt.Fprintf(&b, "| Label applied | `%s` |\n", d.Applied)
	}
	if len(d.Removed) > 0 {
		fmt.Fprintf(&b, "| Labels removed | %s |\n", codeList(d.Removed))
	}
	if !d.DecidedAt.IsZero() {
		fmt.Fprintf(&b, "| Decided at | %s |\n", d.DecidedAt.UTC().Format("2006-01-02 15:04:05 MST"))
	}

	fmt.Fprintf(&b, "\n**Changed resource-manager files (%d)**\n\n", len(d.ChangedFiles))
	if len(d.ChangedFiles) == 0 {
		b.WriteString("_none_\n")
	}
	for i, f := range d.ChangedFiles {
		if i == maxListedFiles {
			fmt.Fprintf(&b, "- ... and %d more\n", len(d.ChangedFiles)-maxListedFiles)
			break
		}
		fmt.Fprintf(&b, "- `%s`\n", f)
	}
	b.WriteString("\n")

	return b.String()
}

// RenderHTML converts a markdown string to sanitized HTML.
// Returns empty string for empty input.
func RenderHTML(src string) string {
	if src == "" {
		return ""
	}

	var buf bytes.Buffer
	if err := mdRenderer.Convert([]byte(src), &buf); err != nil {
		return htmlSanitizer.Sanitize(src)
	}

	return htmlSanitizer.Sanitize(buf.String())
}

// Document wraps rendered HTML in a standalone page.
func Document(title, body string) string {
	var b strings.Builder
	b.WriteString("<!DOCTYPE html>\n<html>\n<head>\n<meta charset=\"utf-8\">\n<title>")
	b.WriteString(htmlSanitizer.Sanitize(title))
	b.WriteString("</title>\n</head>\n<body>\n")
	b.WriteString(body)
	b.WriteString("</body>\n</html>\n")
	return b.String()
}

func codeList(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = "`" + s + "`"
	}
	return strings.Join(quoted, ", ")
}
