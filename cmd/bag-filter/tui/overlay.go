package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// OverlayType identifies the kind of modal overlay.
type OverlayType int

const (
	OverlayConfirm   OverlayType = iota // Yes/No confirmation
	OverlayTextInput                    // Single-line text input
	OverlayChoice                       // List of choices with cursor
	OverlayMessage                      // Information, warning or error with OK
)

// MessageKind selects the frame color of a message overlay.
type MessageKind int

const (
	MessageInfo MessageKind = iota
	MessageWarning
	MessageError
)

// Overlay renders a centered modal box on top of existing content.
type Overlay struct {
	overlayType OverlayType
	kind        MessageKind
	title       string
	message     string   // body text (for Confirm, Message)
	choices     []string // choice list (for Choice)
	cursor      int      // selected choice index (Choice), or button index (Confirm: 0=Cancel, 1=OK)
	input       textinput.Model
	width       int
	active      bool
}

// NewConfirmOverlay creates a confirmation dialog with Cancel/OK buttons.
func NewConfirmOverlay(title, message string) Overlay {
	return Overlay{
		overlayType: OverlayConfirm,
		title:       title,
		message:     message,
		cursor:      1, // default to OK
		active:      true,
	}
}

// NewTextInputOverlay creates a text input dialog pre-filled with value.
func NewTextInputOverlay(title, placeholder, value string) Overlay {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.SetValue(value)
	ti.CursorEnd()
	ti.Focus()
	ti.CharLimit = 4096
	ti.Width = 40
	return Overlay{
		overlayType: OverlayTextInput,
		title:       title,
		input:       ti,
		active:      true,
	}
}

// NewChoiceOverlay creates a list-of-choices dialog with the cursor on
// the choice equal to current, if present.
func NewChoiceOverlay(title string, choices []string, current string) Overlay {
	cursor := 0
	for i, c := range choices {
		if c == current {
			cursor = i
			break
		}
	}
	return Overlay{
		overlayType: OverlayChoice,
		title:       title,
		choices:     choices,
		cursor:      cursor,
		active:      true,
	}
}

// NewMessageOverlay creates a dialog that only needs acknowledging.
func NewMessageOverlay(kind MessageKind, title, message string) Overlay {
	return Overlay{
		overlayType: OverlayMessage,
		kind:        kind,
		title:       title,
		message:     message,
		active:      true,
	}
}

// Active returns whether the overlay is currently shown.
func (o Overlay) Active() bool {
	return o.active
}

// Type returns the overlay kind.
func (o Overlay) Type() OverlayType {
	return o.overlayType
}

// Update handles key messages for the overlay.
func (o Overlay) Update(msg tea.Msg) (Overlay, tea.Cmd) {
	if !o.active {
		return o, nil
	}

	switch o.overlayType {
	case OverlayConfirm:
		return o.updateConfirm(msg)
	case OverlayTextInput:
		return o.updateTextInput(msg)
	case OverlayChoice:
		return o.updateChoice(msg)
	case OverlayMessage:
		return o.updateMessage(msg)
	}
	return o, nil
}

func closeWith(result string, confirmed bool) tea.Cmd {
	return func() tea.Msg {
		return OverlayCloseMsg{Result: result, Confirmed: confirmed}
	}
}

func (o Overlay) updateConfirm(msg tea.Msg) (Overlay, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			o.active = false
			return o, closeWith("", false)
		case "tab", "left", "right", "h", "l":
			o.cursor = 1 - o.cursor // toggle between 0 and 1
		case "y":
			o.active = false
			return o, closeWith("", true)
		case "enter":
			o.active = false
			return o, closeWith("", o.cursor == 1)
		}
	}
	return o, nil
}

func (o Overlay) updateTextInput(msg tea.Msg) (Overlay, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			o.active = false
			return o, closeWith("", false)
		case "enter":
			value := strings.TrimSpace(o.input.Value())
			if value == "" {
				return o, nil // don't submit empty
			}
			o.active = false
			return o, closeWith(value, true)
		}
	}

	// Delegate other keys to the text input.
	var cmd tea.Cmd
	o.input, cmd = o.input.Update(msg)
	return o, cmd
}

func (o Overlay) updateChoice(msg tea.Msg) (Overlay, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "esc":
			o.active = false
			return o, closeWith("", false)
		case "up", "k":
			if o.cursor > 0 {
				o.cursor--
			}
		case "down", "j":
			if o.cursor < len(o.choices)-1 {
				o.cursor++
			}
		case "enter":
			o.active = false
			result := ""
			if o.cursor >= 0 && o.cursor < len(o.choices) {
				result = o.choices[o.cursor]
			}
			return o, closeWith(result, true)
		}
	}
	return o, nil
}

func (o Overlay) updateMessage(msg tea.Msg) (Overlay, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter", "esc", " ", "q":
			o.active = false
			return o, closeWith("", true)
		}
	}
	return o, nil
}

// View renders the overlay box. It does not composite over a background;
// that is the caller's responsibility using Composite().
func (o Overlay) View() string {
	if !o.active {
		return ""
	}

	var content string
	switch o.overlayType {
	case OverlayConfirm:
		content = o.viewConfirm()
	case OverlayTextInput:
		content = o.viewTextInput()
	case OverlayChoice:
		content = o.viewChoice()
	case OverlayMessage:
		content = o.viewMessage()
	}

	style := OverlayStyle
	switch o.kind {
	case MessageWarning:
		style = WarningOverlayStyle
	case MessageError:
		style = ErrorOverlayStyle
	}
	if o.width > 0 {
		style = style.MaxWidth(o.width)
	}
	return style.Render(content)
}

func (o Overlay) viewConfirm() string {
	var b strings.Builder
	b.WriteString(OverlayTitleStyle.Render(o.title))
	b.WriteString("\n\n")
	b.WriteString(o.wrap(o.message))
	b.WriteString("\n\n")
	b.WriteString(o.renderButtons("Cancel", "OK"))
	return b.String()
}

func (o Overlay) viewTextInput() string {
	var b strings.Builder
	b.WriteString(OverlayTitleStyle.Render(o.title))
	b.WriteString("\n\n")
	b.WriteString(o.input.View())
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(colorOverlay0).Render("Enter: submit  Esc: cancel"))
	return b.String()
}

func (o Overlay) viewChoice() string {
	var b strings.Builder
	b.WriteString(OverlayTitleStyle.Render(o.title))
	b.WriteString("\n\n")
	for i, choice := range o.choices {
		if i == o.cursor {
			b.WriteString(OverlayChoiceCursorStyle.Render("> " + choice))
		} else {
			b.WriteString("  " + choice)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (o Overlay) viewMessage() string {
	var b strings.Builder
	b.WriteString(OverlayTitleStyle.Render(o.title))
	b.WriteString("\n\n")
	b.WriteString(o.wrap(o.message))
	b.WriteString("\n\n")
	b.WriteString(OverlayButtonActiveStyle.Render("OK"))
	return b.String()
}

// wrap breaks long message lines to fit inside the overlay frame.
func (o Overlay) wrap(s string) string {
	if o.width <= 6 {
		return s
	}
	return ansi.Wrap(s, o.width-6, "")
}

// renderButtons draws two side-by-side buttons with the cursor on one.
func (o Overlay) renderButtons(cancel, ok string) string {
	var cancelBtn, okBtn string
	if o.cursor == 0 {
		cancelBtn = OverlayButtonActiveStyle.Render(cancel)
		okBtn = OverlayButtonInactiveStyle.Render(ok)
	} else {
		cancelBtn = OverlayButtonInactiveStyle.Render(cancel)
		okBtn = OverlayButtonActiveStyle.Render(ok)
	}
	return cancelBtn + "  " + okBtn
}

// Composite places the overlay box centered on top of the background string.
// The background is expected to be a fully rendered terminal frame.
func Composite(background string, overlay string, totalWidth, totalHeight int) string {
	if overlay == "" {
		return background
	}

	bgLines := strings.Split(background, "\n")

	// Pad background to fill the screen height.
	for len(bgLines) < totalHeight {
		bgLines = append(bgLines, "")
	}

	overlayLines := strings.Split(overlay, "\n")
	overlayHeight := len(overlayLines)
	overlayWidth := 0
	for _, line := range overlayLines {
		if w := ansi.StringWidth(line); w > overlayWidth {
			overlayWidth = w
		}
	}

	startRow := (totalHeight - overlayHeight) / 2
	if startRow < 0 {
		startRow = 0
	}
	startCol := (totalWidth - overlayWidth) / 2
	if startCol < 0 {
		startCol = 0
	}

	for i, overlayLine := range overlayLines {
		row := startRow + i
		if row >= len(bgLines) {
			break
		}

		bgLine := bgLines[row]

		// Keep the styled background on the left; the right remainder is
		// plain text since a styled cut would split escape sequences.
		leftPad := ansi.Truncate(bgLine, startCol, "")
		if w := ansi.StringWidth(leftPad); w < startCol {
			leftPad += strings.Repeat(" ", startCol-w)
		}

		plain := []rune(ansi.Strip(bgLine))
		overlayEnd := startCol + ansi.StringWidth(overlayLine)
		rightPad := ""
		if overlayEnd < len(plain) {
			rightPad = string(plain[overlayEnd:])
		}

		bgLines[row] = leftPad + overlayLine + rightPad
	}

	return strings.Join(bgLines[:totalHeight], "\n")
}

// SetWidth sets the overlay box width.
func (o *Overlay) SetWidth(w int) {
	o.width = w
	if o.overlayType == OverlayTextInput {
		inputWidth := w - 8 // account for overlay padding and border
		if inputWidth < 20 {
			inputWidth = 20
		}
		o.input.Width = inputWidth
	}
}

// OverlayMaxWidth returns a reasonable maximum width for the overlay content.
func OverlayMaxWidth(termWidth int) int {
	w := termWidth * 2 / 3
	if w < 40 {
		w = 40
	}
	if w > 80 {
		w = 80
	}
	return w
}

// messageKind maps a dialog role onto its overlay frame.
func messageKind(warning bool) MessageKind {
	if warning {
		return MessageWarning
	}
	return MessageError
}
