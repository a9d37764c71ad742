// Package output renders entries for the local read command.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/simons-plugins/logs-over-reflector/internal/model"
)

// Renderer writes entries to an output stream.
type Renderer interface {
	Render(entry model.Entry) error
}

// ---------------------------------------------------------------------------
// Text Renderer (colorized terminal output)
// ---------------------------------------------------------------------------

var (
	styleTime    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))              // gray
	styleSource  = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Faint(true)   // cyan
	styleWarning = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))              // yellow
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)   // red bold
)

// TextRenderer prints entries with the timestamp and source dimmed and the
// message highlighted when it looks like a warning or error.
type TextRenderer struct {
	w io.Writer
}

// NewTextRenderer returns a Renderer that writes colorized text to stdout.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{w: os.Stdout}
}

func (r *TextRenderer) Render(entry model.Entry) error {
	msg := entry.Message
	upper := strings.ToUpper(msg)
	switch {
	case strings.Contains(upper, "ERROR"):
		msg = styleError.Render(msg)
	case strings.Contains(upper, "WARN"):
		msg = styleWarning.Render(msg)
	}

	line := fmt.Sprintf("%s %s %s",
		styleTime.Render(entry.Timestamp),
		styleSource.Render(entry.Source),
		msg)
	_, err := fmt.Fprintln(r.w, line)
	return err
}

// ---------------------------------------------------------------------------
// JSON Renderer (structured output for piping)
// ---------------------------------------------------------------------------

// JSONRenderer prints each entry as a single JSON object per line.
type JSONRenderer struct {
	enc *json.Encoder
}

// NewJSONRenderer returns a Renderer that writes JSON lines to stdout.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{enc: json.NewEncoder(os.Stdout)}
}

func (r *JSONRenderer) Render(entry model.Entry) error {
	return r.enc.Encode(entry)
}
