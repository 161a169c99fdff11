package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// DefaultLogLines caps the playback output buffer when no limit is given.
const DefaultLogLines = 500

// LogPane is a bounded, scrollable buffer of playback output lines.
type LogPane struct {
	lines   []string
	limit   int
	offset  int // scroll offset from the bottom
	height  int
	width   int
	focused bool
	dropped int // lines evicted by the cap
}

// NewLogPane creates an empty pane holding at most limit lines.
func NewLogPane(limit int) LogPane {
	if limit <= 0 {
		limit = DefaultLogLines
	}
	return LogPane{limit: limit, height: 5}
}

// Add appends a line and caps the buffer. The view follows the tail unless
// the user has scrolled up.
func (l *LogPane) Add(line string) {
	l.lines = append(l.lines, line)
	if over := len(l.lines) - l.limit; over > 0 {
		l.lines = l.lines[over:]
		l.dropped += over
	}
	if l.offset > 0 {
		l.ScrollUp(1)
	}
}

// Clear empties the buffer.
func (l *LogPane) Clear() {
	l.lines = nil
	l.offset = 0
	l.dropped = 0
}

// Lines returns the buffered lines, oldest first.
func (l LogPane) Lines() []string {
	return l.lines
}

// ScrollUp moves the viewport towards older lines.
func (l *LogPane) ScrollUp(n int) {
	l.offset += n
	max := len(l.lines) - l.height
	if max < 0 {
		max = 0
	}
	if l.offset > max {
		l.offset = max
	}
}

// ScrollDown moves the viewport towards the tail.
func (l *LogPane) ScrollDown(n int) {
	l.offset -= n
	if l.offset < 0 {
		l.offset = 0
	}
}

// SetSize sets the visible area.
func (l *LogPane) SetSize(w, h int) {
	if h < 1 {
		h = 1
	}
	l.width = w
	l.height = h
	l.ScrollUp(0)
}

// SetFocused sets whether the pane has keyboard focus.
func (l *LogPane) SetFocused(f bool) {
	l.focused = f
}

// View renders the visible tail of the buffer.
func (l LogPane) View() string {
	if len(l.lines) == 0 {
		return DimStyle.Render("No playback output.")
	}

	end := len(l.lines) - l.offset
	start := end - l.height
	if start < 0 {
		start = 0
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		line := l.lines[i]
		if l.width > 0 {
			line = ansi.Truncate(line, l.width, "…")
		}
		b.WriteString(line)
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	if l.offset > 0 {
		b.WriteString("\n")
		b.WriteString(DimStyle.Render(fmt.Sprintf("↓ %d more", l.offset)))
	}
	return b.String()
}
