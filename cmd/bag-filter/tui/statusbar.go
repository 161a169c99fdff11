package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/x/ansi"

	"github.com/ruminaider/bag-filter/internal/playback"
)

// StatusBar renders the bottom row with domain id, selection count, playback
// usage and keyboard shortcuts.
type StatusBar struct {
	domainID int
	selected int
	total    int
	stats    *playback.Stats
	hints    []key.Binding
	width    int
}

// NewStatusBar creates a status bar with default values.
func NewStatusBar() StatusBar {
	return StatusBar{}
}

// SetWidth sets the available width for rendering.
func (s *StatusBar) SetWidth(w int) {
	s.width = w
}

// Update refreshes the counters and hints.
func (s *StatusBar) Update(domainID, selected, total int, hints []key.Binding) {
	s.domainID = domainID
	s.selected = selected
	s.total = total
	s.hints = hints
}

// SetStats records the latest playback sample; nil clears it.
func (s *StatusBar) SetStats(st *playback.Stats) {
	s.stats = st
}

// View renders the status bar.
func (s StatusBar) View() string {
	left := fmt.Sprintf("ROS_DOMAIN_ID=%d · %d/%d topics selected", s.domainID, s.selected, s.total)
	if s.stats != nil {
		left += fmt.Sprintf(" · pid %d %.1f%% cpu %s", s.stats.PID, s.stats.CPUPercent, playback.FormatBytes(s.stats.RSS))
	}

	shortcuts := make([]string, 0, len(s.hints))
	for _, h := range s.hints {
		shortcuts = append(shortcuts, StatusBarKeyStyle.Render(h.Help().Key)+": "+h.Help().Desc)
	}
	right := strings.Join(shortcuts, " · ")

	availableWidth := s.width - 2 // account for StatusBarStyle padding
	gap := availableWidth - ansi.StringWidth(left) - ansi.StringWidth(right)
	if gap < 1 {
		gap = 1
	}

	return StatusBarStyle.Width(s.width).Render(left + strings.Repeat(" ", gap) + right)
}
