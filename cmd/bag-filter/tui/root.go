package tui

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/ruminaider/bag-filter/internal/paths"
	"github.com/ruminaider/bag-filter/internal/playback"
	"github.com/ruminaider/bag-filter/internal/profiles"
	"github.com/ruminaider/bag-filter/internal/session"
)

// NoProfileChoice is the first entry of the profile chooser; picking it
// leaves the topic selection alone.
const NoProfileChoice = "-- Select Profile --"

// statsInterval is how often playback resource usage is sampled.
const statsInterval = time.Second

// overlayContext tracks what the currently-active overlay was opened for.
type overlayContext int

const (
	overlayNone          overlayContext = iota
	overlayBagPath                      // text input for the bag directory
	overlayProfilesPath                 // text input for the profile YAML file
	overlayExportPath                   // text input for the example profile destination
	overlayDomainID                     // text input for ROS_DOMAIN_ID
	overlayProfileChoice                // profile chooser
	overlayMessage                      // information, warning or error dialog
	overlayQuitConfirm                  // quit while playing confirmation
)

// Options configures the root model.
type Options struct {
	// Events delivers playback lifecycle events; nil disables them.
	Events <-chan playback.Event
	// Stats samples the running playback; nil hides usage in the status bar.
	Stats func() (playback.Stats, error)
	// LogLines caps the playback output pane.
	LogLines int
	// BagPath is opened on start when non-empty.
	BagPath string
	// ProfilesFile is the default profile file; it is loaded on start when
	// non-empty.
	ProfilesFile string
	// Logger receives diagnostics; nil discards them.
	Logger *log.Logger
	// Context bounds bag introspection. Defaults to context.Background().
	Context context.Context
}

// pendingDialog is a message waiting for the current overlay to close.
type pendingDialog struct {
	kind           MessageKind
	title, message string
}

// Model is the root bubbletea model that composes all TUI child components.
type Model struct {
	session *session.Session
	opts    Options
	ctx     context.Context
	keys    KeyMap

	// Layout components.
	picker    Picker
	info      InfoPane
	logPane   LogPane
	statusBar StatusBar
	overlay   Overlay

	// Overlay tracking.
	overlayCtx overlayContext
	queue      []pendingDialog

	// State.
	focusZone     FocusZone
	width, height int
	ready         bool // set after first WindowSizeMsg
	quitting      bool
	loading       string // bag path being introspected, or ""
	ticking       bool   // a stats tick is scheduled
	stats         *playback.Stats
	playPID       int // pid from the latest Started event
}

// NewModel creates the root TUI model around s.
func NewModel(s *session.Session, opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	m := Model{
		session:   s,
		opts:      opts,
		ctx:       ctx,
		keys:      DefaultKeyMap(),
		picker:    NewPicker(nil),
		logPane:   NewLogPane(opts.LogLines),
		statusBar: NewStatusBar(),
		focusZone: FocusTopics,
	}
	m.picker.SetFocused(true)

	if opts.ProfilesFile != "" {
		if err := s.LoadProfiles(opts.ProfilesFile); err != nil {
			m.showError(err)
		} else {
			m.logf("loaded %d profiles from %s", s.Catalog().Len(), opts.ProfilesFile)
		}
	}
	m.refresh()
	return m
}

// Init starts listening for playback events and opens the initial bag.
func (m Model) Init() tea.Cmd {
	var cmds []tea.Cmd
	if m.opts.Events != nil {
		cmds = append(cmds, waitForPlayback(m.opts.Events))
	}
	if m.opts.BagPath != "" {
		cmds = append(cmds, func() tea.Msg {
			return openBagMsg{path: m.opts.BagPath}
		})
	}
	return tea.Batch(cmds...)
}

// openBagMsg asks the model to introspect path.
type openBagMsg struct{ path string }

// waitForPlayback blocks on the next launcher event.
func waitForPlayback(events <-chan playback.Event) tea.Cmd {
	return func() tea.Msg {
		return PlaybackEventMsg{Event: <-events}
	}
}

// introspect runs the bag introspector off the update loop.
func (m Model) introspect(path string) tea.Cmd {
	s := m.session
	ctx := m.ctx
	return func() tea.Msg {
		info, err := s.Introspect(ctx, path)
		return TopicsLoadedMsg{Path: path, Info: info, Err: err}
	}
}

func statsTick() tea.Cmd {
	return tea.Tick(statsInterval, func(time.Time) tea.Msg {
		return StatsTickMsg{}
	})
}

func (m Model) sampleStats() tea.Cmd {
	sample := m.opts.Stats
	return func() tea.Msg {
		st, err := sample()
		return StatsMsg{Stats: st, Err: err}
	}
}

// Update handles all messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.layout()
		return m, nil

	case openBagMsg:
		return m.openBag(msg.path)

	case TopicsLoadedMsg:
		return m.handleTopicsLoaded(msg), nil

	case PlaybackEventMsg:
		return m.handlePlaybackEvent(msg.Event)

	case StatsTickMsg:
		m.ticking = false
		if !m.session.Playing() || m.opts.Stats == nil {
			m.stats = nil
			m.refresh()
			return m, nil
		}
		m.ticking = true
		return m, tea.Batch(m.sampleStats(), statsTick())

	case StatsMsg:
		if msg.Err != nil || !m.session.Playing() {
			m.stats = nil
		} else {
			st := msg.Stats
			m.stats = &st
		}
		m.refresh()
		return m, nil

	case OverlayCloseMsg:
		return m.handleOverlayClose(msg)
	}

	// Overlay captures all input while active.
	if m.overlay.Active() {
		var cmd tea.Cmd
		m.overlay, cmd = m.overlay.Update(msg)
		return m, cmd
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.session.Playing() {
			m.openOverlay(overlayQuitConfirm, NewConfirmOverlay("Quit",
				"Bag playback is running. Stop it and quit?"))
			return m, nil
		}
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Focus):
		if m.focusZone == FocusTopics {
			m.focusZone = FocusLog
		} else {
			m.focusZone = FocusTopics
		}
		m.picker.SetFocused(m.focusZone == FocusTopics)
		m.logPane.SetFocused(m.focusZone == FocusLog)
		return m, nil

	case key.Matches(msg, m.keys.OpenBag):
		m.openOverlay(overlayBagPath, NewTextInputOverlay("Open Bag", "path/to/bag", m.session.BagPath()))
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		if m.session.BagPath() == "" {
			m.showError(session.ErrNoBag)
			return m, nil
		}
		return m.openBag(m.session.BagPath())

	case key.Matches(msg, m.keys.LoadProfiles):
		current := m.session.CatalogPath()
		if current == "" {
			current = m.opts.ProfilesFile
		}
		m.openOverlay(overlayProfilesPath, NewTextInputOverlay("Load Profiles", "profiles.yaml", current))
		return m, nil

	case key.Matches(msg, m.keys.Profile):
		choices := append([]string{NoProfileChoice}, m.session.Catalog().Names()...)
		current := m.session.ActiveProfile()
		if current == "" {
			current = NoProfileChoice
		}
		m.openOverlay(overlayProfileChoice, NewChoiceOverlay("Select Profile", choices, current))
		return m, nil

	case key.Matches(msg, m.keys.Export):
		m.openOverlay(overlayExportPath, NewTextInputOverlay("Export Example Profiles", "example_profiles.yaml", paths.ExampleProfilesFile()))
		return m, nil

	case key.Matches(msg, m.keys.DomainID):
		m.openOverlay(overlayDomainID, NewTextInputOverlay("ROS_DOMAIN_ID", "0-255", strconv.Itoa(m.session.DomainID())))
		return m, nil

	case key.Matches(msg, m.keys.Play):
		return m.play()

	case key.Matches(msg, m.keys.Stop):
		if err := m.session.Stop(); err != nil {
			m.showError(err)
		}
		return m, nil
	}

	if m.focusZone == FocusLog {
		switch msg.String() {
		case "up", "k":
			m.logPane.ScrollUp(1)
		case "down", "j":
			m.logPane.ScrollDown(1)
		case "pgup":
			m.logPane.ScrollUp(m.logPane.height)
		case "pgdown":
			m.logPane.ScrollDown(m.logPane.height)
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Toggle):
		if t := m.picker.Current(); t != "" {
			m.session.Toggle(t)
			m.refresh()
		}
		return m, nil
	case key.Matches(msg, m.keys.All):
		m.session.SelectAll()
		m.refresh()
		return m, nil
	case key.Matches(msg, m.keys.None):
		m.session.SelectNone()
		m.refresh()
		return m, nil
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m Model) openBag(path string) (tea.Model, tea.Cmd) {
	path = paths.Expand(path)
	if err := m.session.SetBag(path); err != nil {
		m.showError(err)
		return m, nil
	}
	m.loading = path
	m.logf("reading bag info %s", path)
	return m, m.introspect(path)
}

func (m Model) handleTopicsLoaded(msg TopicsLoadedMsg) Model {
	if msg.Path != m.loading {
		// A newer bag was opened while this one was being read.
		return m
	}
	m.loading = ""
	if msg.Err != nil {
		m.logf("bag info failed: %v", msg.Err)
		m.showError(msg.Err)
		return m
	}

	m.session.ApplyInfo(msg.Path, msg.Info)
	m.picker = NewPicker(TopicPickerItems(msg.Info))
	m.picker.SetFocused(m.focusZone == FocusTopics)
	m.info.SetInfo(msg.Info)
	m.logPane.Add(fmt.Sprintf("Loaded %s: %d topics, %d messages", msg.Path, len(msg.Info.Topics), msg.Info.TotalMessages()))
	m.layout()
	m.refresh()
	return m
}

func (m Model) play() (tea.Model, tea.Cmd) {
	if err := m.session.Play(); err != nil {
		m.showError(err)
		return m, nil
	}
	topics := m.session.SelectedTopics()
	m.logPane.Add(fmt.Sprintf("Playing %d topics with ROS_DOMAIN_ID=%d", len(topics), m.session.DomainID()))
	m.refresh()
	if m.opts.Stats == nil || m.ticking {
		return m, nil
	}
	m.ticking = true
	return m, statsTick()
}

func (m Model) handlePlaybackEvent(ev playback.Event) (tea.Model, tea.Cmd) {
	switch ev.Kind {
	case playback.EventStarted:
		m.playPID = ev.PID
		m.logPane.Add(fmt.Sprintf("playback started (pid %d)", ev.PID))
	case playback.EventOutput:
		m.logPane.Add(ev.Line)
	case playback.EventExited:
		if m.playPID != 0 && ev.PID != m.playPID {
			// A newer playback is already running.
			m.logPane.Add(fmt.Sprintf("earlier playback exited (pid %d)", ev.PID))
			break
		}
		m.playPID = 0
		if ev.Err != nil {
			m.logPane.Add(fmt.Sprintf("playback exited: %v", ev.Err))
		} else {
			m.logPane.Add("playback exited")
		}
		m.stats = nil
		m.showMessage(MessageInfo, "Bag Playback", "Bag playback has stopped.")
	}
	m.refresh()

	if m.opts.Events == nil {
		return m, nil
	}
	return m, waitForPlayback(m.opts.Events)
}

func (m Model) handleOverlayClose(msg OverlayCloseMsg) (tea.Model, tea.Cmd) {
	ctx := m.overlayCtx
	m.overlayCtx = overlayNone
	m.overlay = Overlay{}

	var cmd tea.Cmd
	if msg.Confirmed {
		switch ctx {
		case overlayBagPath:
			var model tea.Model
			model, cmd = m.openBag(msg.Result)
			m = model.(Model)

		case overlayProfilesPath:
			path := paths.Expand(msg.Result)
			if err := m.session.LoadProfiles(path); err != nil {
				m.showError(err)
			} else {
				m.logPane.Add(fmt.Sprintf("Loaded %d profiles from %s", m.session.Catalog().Len(), path))
			}

		case overlayProfileChoice:
			name := msg.Result
			if name == NoProfileChoice {
				name = ""
			}
			if _, err := m.session.SelectProfile(name); err != nil {
				m.showError(err)
			}

		case overlayExportPath:
			path := paths.Expand(msg.Result)
			if err := m.session.ExportExample(path); err != nil {
				m.showError(err)
			} else {
				m.showMessage(MessageInfo, "Example Profiles", "Example profiles written to "+path)
			}

		case overlayDomainID:
			id, err := strconv.Atoi(strings.TrimSpace(msg.Result))
			if err != nil {
				m.showMessage(MessageError, "Invalid Domain ID", fmt.Sprintf("%q is not a number.", msg.Result))
			} else if err := m.session.SetDomainID(id); err != nil {
				m.showMessage(MessageError, "Invalid Domain ID", err.Error())
			}

		case overlayQuitConfirm:
			if err := m.session.Stop(); err != nil {
				m.logf("stopping playback on quit: %v", err)
			}
			m.quitting = true
			return m, tea.Quit
		}
	}

	m.refresh()
	m.nextDialog()
	return m, cmd
}

// openOverlay activates o for ctx, sized to the terminal.
func (m *Model) openOverlay(ctx overlayContext, o Overlay) {
	if m.width > 0 {
		o.SetWidth(OverlayMaxWidth(m.width))
	}
	m.overlay = o
	m.overlayCtx = ctx
}

// showError presents err with the title, body and frame its class calls for.
func (m *Model) showError(err error) {
	kind := messageKind(session.Classify(err) == session.SeverityWarning)
	m.showMessage(kind, session.Title(err), session.Message(err))
}

// showMessage opens a dialog, or queues it behind the active overlay.
func (m *Model) showMessage(kind MessageKind, title, message string) {
	if m.overlay.Active() {
		m.queue = append(m.queue, pendingDialog{kind: kind, title: title, message: message})
		return
	}
	m.openOverlay(overlayMessage, NewMessageOverlay(kind, title, message))
}

// nextDialog opens the oldest queued dialog, if any.
func (m *Model) nextDialog() {
	if m.overlay.Active() || len(m.queue) == 0 {
		return
	}
	d := m.queue[0]
	m.queue = m.queue[1:]
	m.openOverlay(overlayMessage, NewMessageOverlay(d.kind, d.title, d.message))
}

// refresh copies session state into the child components.
func (m *Model) refresh() {
	m.picker.Sync(m.session.Selected)
	m.statusBar.Update(m.session.DomainID(), len(m.session.SelectedTopics()),
		len(m.session.Topics()), m.keys.hints(m.session.Playing()))
	m.statusBar.SetStats(m.stats)
}

// Pane geometry. Borders take two columns and rows; padding one column a side.
const (
	paneChrome = 4
	minLogRows = 3
	infoWidth  = ProfilePaneWidth - 2
)

func (m Model) logRows() int {
	rows := m.height / 4
	if rows < minLogRows {
		rows = minLogRows
	}
	return rows
}

func (m Model) bodyRows() int {
	// header + status bar + log pane frame
	rows := m.height - 2 - (m.logRows() + 2)
	if rows < 3 {
		rows = 3
	}
	return rows
}

func (m Model) leftWidth() int {
	w := m.width - (ProfilePaneWidth + 2) - 2
	if w < 20 {
		w = 20
	}
	return w
}

// layout distributes the terminal size across the child components.
func (m *Model) layout() {
	// Pane header takes one row inside the frame.
	m.picker.SetHeight(m.bodyRows() - 3)
	m.picker.SetWidth(m.leftWidth() - 2)
	m.logPane.SetSize(m.width-paneChrome, m.logRows())
	m.statusBar.SetWidth(m.width)
	m.info.Render(infoWidth)
	if m.overlay.Active() {
		m.overlay.SetWidth(OverlayMaxWidth(m.width))
	}
}

// View renders the full screen.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	header := m.viewHeader()

	topicsStyle := PaneStyle
	logStyle := PaneStyle
	if m.focusZone == FocusTopics {
		topicsStyle = FocusedPaneStyle
	} else {
		logStyle = FocusedPaneStyle
	}

	bodyRows := m.bodyRows()
	topics := topicsStyle.
		Width(m.leftWidth()).
		Height(bodyRows - 2).
		MaxHeight(bodyRows).
		Render(HeaderStyle.Render("Topics") + "\n" + m.picker.View())

	right := PaneStyle.
		Width(ProfilePaneWidth).
		Height(bodyRows - 2).
		MaxHeight(bodyRows).
		Render(m.viewProfile())

	body := lipgloss.JoinHorizontal(lipgloss.Top, topics, right)

	logView := logStyle.
		Width(m.width - 2).
		Height(m.logRows()).
		Render(m.logPane.View())

	screen := lipgloss.JoinVertical(lipgloss.Left, header, body, logView, m.statusBar.View())

	if m.overlay.Active() {
		return Composite(screen, m.overlay.View(), m.width, m.height)
	}
	return screen
}

func (m Model) viewHeader() string {
	bag := m.session.BagPath()
	if bag == "" {
		bag = "No bag selected"
	}
	if m.loading != "" {
		bag += " (reading…)"
	}
	indicator := IdleStyle.Render("○ Idle")
	if m.session.Playing() {
		indicator = PlayingStyle.Render("● Playing")
	}
	return TitleStyle.Render("bag-filter") + BagPathStyle.Render(bag) + " " + indicator
}

func (m Model) viewProfile() string {
	var b strings.Builder
	b.WriteString(HeaderStyle.Render("Profile"))
	b.WriteString("\n")

	active := m.session.ActiveProfile()
	if active == "" {
		b.WriteString(DimStyle.Render(NoProfileChoice))
	} else {
		b.WriteString(active)
		if p, ok := m.session.Catalog().Get(active); ok {
			b.WriteString(DimStyle.Render(" (" + profiles.Summary(p) + ")"))
		}
	}
	b.WriteString("\n")
	if path := m.session.CatalogPath(); path != "" {
		b.WriteString(DimStyle.Render(fmt.Sprintf("%d profiles loaded", m.session.Catalog().Len())))
		b.WriteString("\n")
	}

	missing := m.session.Missing()
	report := session.MissingReport(missing)
	if len(missing) > 0 {
		b.WriteString(MissingStyle.Render(report))
	} else {
		b.WriteString(DimStyle.Render(report))
	}

	b.WriteString("\n\n")
	b.WriteString(HeaderStyle.Render("Bag Info"))
	b.WriteString("\n")
	b.WriteString(m.info.Render(infoWidth))
	return b.String()
}

func (m Model) logf(format string, args ...any) {
	if m.opts.Logger != nil {
		m.opts.Logger.Printf(format, args...)
	}
}
