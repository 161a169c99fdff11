package tui

import (
	"github.com/ruminaider/bag-filter/internal/baginfo"
	"github.com/ruminaider/bag-filter/internal/playback"
)

// FocusZone identifies which pane currently has keyboard focus.
type FocusZone int

const (
	FocusTopics FocusZone = iota
	FocusLog              // Playback output, scroll only
)

// --- Inter-component messages ---

// TopicsLoadedMsg carries the result of introspecting a bag.
type TopicsLoadedMsg struct {
	Path string
	Info baginfo.Info
	Err  error
}

// PlaybackEventMsg wraps one lifecycle event from the launcher.
type PlaybackEventMsg struct{ Event playback.Event }

// StatsTickMsg asks the model to sample playback resource usage.
type StatsTickMsg struct{}

// StatsMsg carries a playback resource sample.
type StatsMsg struct {
	Stats playback.Stats
	Err   error
}

// OverlayCloseMsg is emitted when any overlay is dismissed.
type OverlayCloseMsg struct {
	Result    string // Text result (for text input or choice) or empty
	Confirmed bool   // true = OK/Submit, false = Cancel/Esc
}
