package tui

import (
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/ruminaider/bag-filter/internal/baginfo"
)

// glamourStyle is the standard glamour theme used for the info pane.
const glamourStyle = "dark"

// InfoPane shows the bag duration and per-topic counts as rendered markdown.
type InfoPane struct {
	markdown string
	rendered string
	width    int // width the cached rendering was produced for
}

// SetInfo replaces the report and drops the cached rendering.
func (p *InfoPane) SetInfo(info baginfo.Info) {
	p.markdown = info.Markdown()
	p.rendered = ""
}

// Clear forgets the report.
func (p *InfoPane) Clear() {
	p.markdown = ""
	p.rendered = ""
}

// Render produces the pane content for width, reusing the cached output
// when nothing changed. It falls back to raw markdown if glamour fails.
func (p *InfoPane) Render(width int) string {
	if p.markdown == "" {
		return DimStyle.Render("No bag info.")
	}
	if p.rendered != "" && p.width == width {
		return p.rendered
	}

	out := p.markdown
	if width > 0 {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(glamourStyle),
			glamour.WithWordWrap(width),
		)
		if err == nil {
			if s, renderErr := r.Render(p.markdown); renderErr == nil {
				out = strings.Trim(s, "\n")
			}
		}
	}
	p.rendered = out
	p.width = width
	return out
}
