package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/ruminaider/bag-filter/internal/baginfo"
)

// PickerItem represents a single topic row in the checkbox list.
type PickerItem struct {
	Key      string // topic name
	Detail   string // message type
	Count    int
	Selected bool
}

// Picker is the multi-select topic list.
type Picker struct {
	items   []PickerItem
	cursor  int // index of the highlighted row
	height  int // viewport height (number of visible rows)
	width   int
	offset  int // scroll offset for long lists
	focused bool
}

// NewPicker creates a Picker with the given items.
func NewPicker(items []PickerItem) Picker {
	return Picker{
		items:  items,
		height: 10,
	}
}

// TopicPickerItems builds one unchecked row per topic in report order.
func TopicPickerItems(info baginfo.Info) []PickerItem {
	items := make([]PickerItem, 0, len(info.Topics))
	for _, t := range info.Topics {
		items = append(items, PickerItem{
			Key:    t.Name,
			Detail: t.Type,
			Count:  t.Count,
		})
	}
	return items
}

// SetHeight sets the number of visible rows.
func (p *Picker) SetHeight(h int) {
	if h < 1 {
		h = 1
	}
	p.height = h
	p.clampOffset()
}

// SetWidth sets the available width for rendering.
func (p *Picker) SetWidth(w int) {
	p.width = w
}

// SetFocused sets whether the picker currently has keyboard focus.
func (p *Picker) SetFocused(f bool) {
	p.focused = f
}

// Len returns the number of rows.
func (p Picker) Len() int {
	return len(p.items)
}

// Current returns the key under the cursor, or "" when empty.
func (p Picker) Current() string {
	if p.cursor < 0 || p.cursor >= len(p.items) {
		return ""
	}
	return p.items[p.cursor].Key
}

// Sync copies checkbox state from selected into the rows.
func (p *Picker) Sync(selected func(string) bool) {
	for i := range p.items {
		p.items[i].Selected = selected(p.items[i].Key)
	}
}

// SelectedKeys returns the checked keys in row order.
func (p Picker) SelectedKeys() []string {
	var keys []string
	for _, it := range p.items {
		if it.Selected {
			keys = append(keys, it.Key)
		}
	}
	return keys
}

// Update handles cursor movement. Toggling is done by the root model so the
// session stays the source of truth.
func (p Picker) Update(msg tea.Msg) (Picker, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || len(p.items) == 0 {
		return p, nil
	}
	switch key.String() {
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.items)-1 {
			p.cursor++
		}
	case "home", "g":
		p.cursor = 0
	case "end", "G":
		p.cursor = len(p.items) - 1
	case "pgup":
		p.cursor -= p.height
		if p.cursor < 0 {
			p.cursor = 0
		}
	case "pgdown":
		p.cursor += p.height
		if p.cursor > len(p.items)-1 {
			p.cursor = len(p.items) - 1
		}
	}
	p.clampOffset()
	return p, nil
}

// clampOffset keeps the cursor inside the visible window.
func (p *Picker) clampOffset() {
	if p.cursor < p.offset {
		p.offset = p.cursor
	}
	if p.cursor >= p.offset+p.height {
		p.offset = p.cursor - p.height + 1
	}
	if p.offset < 0 {
		p.offset = 0
	}
}

// View renders the visible rows.
func (p Picker) View() string {
	if len(p.items) == 0 {
		return DimStyle.Render("No topics loaded. Press o to open a bag.")
	}

	var b strings.Builder
	end := p.offset + p.height
	if end > len(p.items) {
		end = len(p.items)
	}
	for i := p.offset; i < end; i++ {
		b.WriteString(p.renderRow(i))
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	if end < len(p.items) || p.offset > 0 {
		b.WriteString("\n")
		b.WriteString(DimStyle.Render(fmt.Sprintf("%d-%d of %d", p.offset+1, end, len(p.items))))
	}
	return b.String()
}

func (p Picker) renderRow(i int) string {
	it := p.items[i]

	check := "[ ]"
	style := UnselectedStyle
	if it.Selected {
		check = "[x]"
		style = SelectedStyle
	}

	cursor := "  "
	if i == p.cursor && p.focused {
		cursor = "> "
	}

	count := fmt.Sprintf("%d msgs", it.Count)
	label := fmt.Sprintf("%s%s %s", cursor, check, it.Key)

	if p.width > 0 {
		gap := p.width - ansi.StringWidth(label) - ansi.StringWidth(count)
		if gap < 1 {
			label = ansi.Truncate(label, p.width-ansi.StringWidth(count)-2, "…")
			gap = 1
		}
		label += strings.Repeat(" ", gap)
	} else {
		label += "  "
	}

	row := style.Render(label) + CountStyle.Render(count)
	if i == p.cursor && p.focused {
		row = CursorStyle.Render(row)
	}
	return row
}
