package tui

import (
	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
)

// ProfilePaneWidth is the fixed width of the right-hand profile column.
const ProfilePaneWidth = 34

// Catppuccin Mocha palette.
var flavor = catppuccin.Mocha

// Color constants extracted from the Mocha palette for convenience.
var (
	colorBase     = lipgloss.Color(flavor.Base().Hex)
	colorMantle   = lipgloss.Color(flavor.Mantle().Hex)
	colorSurface0 = lipgloss.Color(flavor.Surface0().Hex)
	colorSurface1 = lipgloss.Color(flavor.Surface1().Hex)
	colorText     = lipgloss.Color(flavor.Text().Hex)
	colorSubtext0 = lipgloss.Color(flavor.Subtext0().Hex)
	colorBlue     = lipgloss.Color(flavor.Blue().Hex)
	colorGreen    = lipgloss.Color(flavor.Green().Hex)
	colorRed      = lipgloss.Color(flavor.Red().Hex)
	colorYellow   = lipgloss.Color(flavor.Yellow().Hex)
	colorMauve    = lipgloss.Color(flavor.Mauve().Hex)
	colorOverlay0 = lipgloss.Color(flavor.Overlay0().Hex)
)

// Header styles.
var (
	// TitleStyle renders the application name in the header row.
	TitleStyle = lipgloss.NewStyle().
			Foreground(colorBase).
			Background(colorBlue).
			Padding(0, 1).
			Bold(true)

	// BagPathStyle renders the selected bag next to the title.
	BagPathStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorSurface0).
			Padding(0, 1)

	// PlayingStyle is the indicator while playback runs.
	PlayingStyle = lipgloss.NewStyle().
			Foreground(colorGreen).
			Bold(true)

	// IdleStyle is the indicator while nothing plays.
	IdleStyle = lipgloss.NewStyle().
			Foreground(colorOverlay0).
			Bold(true)
)

// Content pane styles.
var (
	// HeaderStyle is used for pane headers.
	HeaderStyle = lipgloss.NewStyle().
			Foreground(colorMauve).
			Bold(true)

	// SelectedStyle is used for checked topics.
	SelectedStyle = lipgloss.NewStyle().
			Foreground(colorGreen)

	// UnselectedStyle is used for unchecked topics.
	UnselectedStyle = lipgloss.NewStyle().
			Foreground(colorText)

	// CursorStyle highlights the focused row.
	CursorStyle = lipgloss.NewStyle().
			Background(colorSurface1)

	// CountStyle renders per-topic message counts.
	CountStyle = lipgloss.NewStyle().
			Foreground(colorOverlay0)

	// MissingStyle renders the missing-topics report.
	MissingStyle = lipgloss.NewStyle().
			Foreground(colorRed)

	// DimStyle is used for hints and empty-state text.
	DimStyle = lipgloss.NewStyle().
			Foreground(colorOverlay0)

	// PaneStyle frames each pane.
	PaneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 1)

	// FocusedPaneStyle frames the pane with keyboard focus.
	FocusedPaneStyle = PaneStyle.
				BorderForeground(colorBlue)
)

// Status bar styles.
var (
	// StatusBarStyle is the base style for the bottom status bar.
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0).
			Background(colorSurface0).
			Padding(0, 1)

	// StatusBarKeyStyle highlights keyboard shortcuts in the status bar.
	StatusBarKeyStyle = lipgloss.NewStyle().
				Foreground(colorYellow).
				Background(colorSurface0).
				Bold(true)
)

// Overlay styles.
var (
	// OverlayStyle is the border and background for modal overlays.
	OverlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBlue).
			Background(colorMantle).
			Foreground(colorText).
			Padding(1, 2)

	// WarningOverlayStyle is used for warning dialogs.
	WarningOverlayStyle = OverlayStyle.
				BorderForeground(colorYellow)

	// ErrorOverlayStyle is used for error dialogs.
	ErrorOverlayStyle = OverlayStyle.
				BorderForeground(colorRed)

	// OverlayTitleStyle is used for the title text in overlays.
	OverlayTitleStyle = lipgloss.NewStyle().
				Foreground(colorBlue).
				Bold(true)

	// OverlayButtonActiveStyle is used for the focused button in overlays.
	OverlayButtonActiveStyle = lipgloss.NewStyle().
					Foreground(colorBase).
					Background(colorBlue).
					Padding(0, 2)

	// OverlayButtonInactiveStyle is used for the unfocused button in overlays.
	OverlayButtonInactiveStyle = lipgloss.NewStyle().
					Foreground(colorText).
					Background(colorSurface1).
					Padding(0, 2)

	// OverlayChoiceCursorStyle is used for the cursor in choice overlays.
	OverlayChoiceCursorStyle = lipgloss.NewStyle().
					Foreground(colorBlue).
					Bold(true)
)
