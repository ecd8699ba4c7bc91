package feed

import (
	"bytes"
	"fmt"
	"strings"
)

// ANSI escape codes used by colorized rendering.
const (
	colorCyan   = "\033[1;36m"
	colorYellow = "\033[1;33m"
	colorRed    = "\033[1;31m"
	colorReset  = "\033[0m"
)

// Renderer formats a record as multi-line text for terminal display.
type Renderer struct {
	colorized bool
}

func NewRenderer(colorized bool) *Renderer {
	return &Renderer{colorized: colorized}
}

func (r *Renderer) Run(record *Record) string {
	var buf bytes.Buffer

	buf.WriteString("[")
	buf.WriteString(r.colorize(record.FeedTitle, colorRed))
	buf.WriteString("] ")
	buf.WriteString(r.colorize(record.Title, colorYellow))
	buf.WriteString("\n")

	buf.WriteString(r.colorize("Date:", colorCyan))
	buf.WriteString(" ")
	buf.WriteString(r.colorize(record.FormattedDate, colorYellow))
	buf.WriteString("\n")

	buf.WriteString(r.colorize("Link:", colorCyan))
	buf.WriteString(" ")
	buf.WriteString(record.URL)
	buf.WriteString("\n\n")

	if record.Description != "" {
		buf.WriteString(r.colorize(record.Description, colorYellow))
	}
	buf.WriteString("\n\n")

	if record.Content != "" {
		buf.WriteString(r.colorize(record.Content, colorYellow))
		buf.WriteString("\n\n")
	}

	if record.Links.Len() > 0 {
		buf.WriteString(r.colorize("Links:", colorCyan))
		for index, link := range record.Links.All() {
			buf.WriteString(fmt.Sprintf("\n[%d] %s (%s)", index, link.URL, link.Type))
		}
	}

	return strings.TrimRight(buf.String(), " \t\n")
}

func (r *Renderer) colorize(s, color string) string {
	if !r.colorized {
		return s
	}
	return color + s + colorReset
}
