package actions

import (
	"fmt"
	"io"
	"strings"
)

// Console writes workflow commands understood by the Actions runner.
type Console struct {
	w io.Writer
}

// NewConsole creates a Console writing to w, normally stdout.
func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Group starts a collapsible log group. The returned function ends it.
func (c *Console) Group(title string) func() {
	fmt.Fprintf(c.w, "::group::%s\n", escapeData(title))
	return func() {
		fmt.Fprintln(c.w, "::endgroup::")
	}
}

// Notice emits a notice annotation.
func (c *Console) Notice(message string) {
	fmt.Fprintf(c.w, "::notice::%s\n", escapeData(message))
}

// Warning emits a warning annotation.
func (c *Console) Warning(message string) {
	fmt.Fprintf(c.w, "::warning::%s\n", escapeData(message))
}

var dataEscaper = strings.NewReplacer("%", "%25", "\r", "%0D", "\n", "%0A")

func escapeData(s string) string {
	return dataEscaper.Replace(s)
}
