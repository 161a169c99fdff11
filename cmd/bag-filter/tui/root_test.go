package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruminaider/bag-filter/internal/playback"
	"github.com/ruminaider/bag-filter/internal/ros2"
	"github.com/ruminaider/bag-filter/internal/session"
)

const sampleInfo = `Files:             demo_0.db3
Duration:          12.5s
Topic information: Topic: /imu | Type: sensor_msgs/msg/Imu | Count: 120 | Serialization Format: cdr
                   Topic: /gps | Type: sensor_msgs/msg/NavSatFix | Count: 10 | Serialization Format: cdr
`

type fakeIntrospector struct {
	out string
	err error
}

func (f fakeIntrospector) Info(ctx context.Context, bagPath string) (string, error) {
	return f.out, f.err
}

type fakePlayer struct {
	running bool
	started []playback.Request
	stopped int
}

func (f *fakePlayer) Start(req playback.Request) error {
	if f.running {
		return playback.ErrAlreadyRunning
	}
	f.running = true
	f.started = append(f.started, req)
	return nil
}

func (f *fakePlayer) Stop() error {
	if !f.running {
		return playback.ErrNotRunning
	}
	f.stopped++
	return nil
}

func (f *fakePlayer) Running() bool { return f.running }

func newTestModel(t *testing.T, intro fakeIntrospector, opts Options) (Model, *fakePlayer) {
	t.Helper()
	player := &fakePlayer{}
	s := session.New(intro, player, 0)
	m := NewModel(s, opts)
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, player
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func updateCmd(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func press(t *testing.T, m Model, k string) Model {
	t.Helper()
	return update(t, m, keyMsg(k))
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

// loadBag opens path and feeds the introspection result back in.
func loadBag(t *testing.T, m Model, path string) Model {
	t.Helper()
	m, cmd := updateCmd(t, m, openBagMsg{path: path})
	require.NotNil(t, cmd)
	return update(t, m, cmd())
}

func TestModel_OpenBagPopulatesTopics(t *testing.T) {
	m, _ := newTestModel(t, fakeIntrospector{out: sampleInfo}, Options{})
	m = loadBag(t, m, "/bags/demo")

	assert.Equal(t, "/bags/demo", m.session.BagPath())
	assert.Equal(t, []string{"/imu", "/gps"}, m.session.Topics())
	assert.Equal(t, 2, m.picker.Len())
	assert.Empty(t, m.loading)
	assert.False(t, m.overlay.Active())
	assert.Contains(t, m.View(), "/imu")
}

func TestModel_OpenBagFailureShowsError(t *testing.T) {
	cmdErr := &ros2.CommandError{Args: []string{"ros2", "bag", "info", "/bags/bad"}, Output: "no such bag", Err: errors.New("exit status 1")}
	m, _ := newTestModel(t, fakeIntrospector{err: cmdErr}, Options{})
	m = loadBag(t, m, "/bags/bad")

	require.True(t, m.overlay.Active())
	assert.Equal(t, OverlayMessage, m.overlay.Type())
	assert.Equal(t, "Failed to Read Bag Info", m.overlay.title)
	assert.Equal(t, MessageError, m.overlay.kind)
	assert.Empty(t, m.session.Topics())
}

func TestModel_StaleIntrospectionIgnored(t *testing.T) {
	m, _ := newTestModel(t, fakeIntrospector{out: sampleInfo}, Options{})
	m, first := updateCmd(t, m, openBagMsg{path: "/bags/one"})
	m, _ = updateCmd(t, m, openBagMsg{path: "/bags/two"})

	m = update(t, m, first())
	assert.Empty(t, m.session.Topics())
	assert.Equal(t, "/bags/two", m.loading)
}

func TestModel_ToggleAllNone(t *testing.T) {
	m, _ := newTestModel(t, fakeIntrospector{out: sampleInfo}, Options{})
	m = loadBag(t, m, "/bags/demo")

	m = press(t, m, " ")
	assert.Equal(t, []string{"/imu"}, m.session.SelectedTopics())
	assert.Equal(t, []string{"/imu"}, m.picker.SelectedKeys())

	m = press(t, m, "down")
	m = press(t, m, " ")
	assert.Equal(t, []string{"/imu", "/gps"}, m.session.SelectedTopics())

	m = press(t, m, "n")
	assert.Empty(t, m.session.SelectedTopics())

	m = press(t, m, "a")
	assert.Equal(t, []string{"/imu", "/gps"}, m.session.SelectedTopics())
}

func TestModel_PlayWithoutBagWarns(t *testing.T) {
	m, player := newTestModel(t, fakeIntrospector{out: sampleInfo}, Options{})
	m = press(t, m, "p")

	require.True(t, m.overlay.Active())
	assert.Equal(t, "No Bag Selected", m.overlay.title)
	assert.Equal(t, MessageWarning, m.overlay.kind)
	assert.Empty(t, player.started)
}

func TestModel_PlayWithoutTopicsWarns(t *testing.T) {
	m, player := newTestModel(t, fakeIntrospector{out: sampleInfo}, Options{})
	m = loadBag(t, m, "/bags/demo")
	m = press(t, m, "p")

	require.True(t, m.overlay.Active())
	assert.Equal(t, "No Topics Selected", m.overlay.title)
	assert.Empty(t, player.started)
}

func TestModel_PlayStartsPlayer(t *testing.T) {
	m, player := newTestModel(t, fakeIntrospector{out: sampleInfo}, Options{})
	m = loadBag(t, m, "/bags/demo")
	require.NoError(t, m.session.SetDomainID(42))
	m = press(t, m, "a")
	m = press(t, m, "p")

	assert.False(t, m.overlay.Active())
	require.Len(t, player.started, 1)
	assert.Equal(t, playback.Request{BagPath: "/bags/demo", Topics: []string{"/imu", "/gps"}, DomainID: 42}, player.started[0])
	assert.Contains(t, m.View(), "Playing")

	m = press(t, m, "p")
	require.True(t, m.overlay.Active())
	assert.Equal(t, "Playback Running", m.overlay.title)
	assert.Len(t, player.started, 1)
}

func TestModel_PlaybackEvents(t *testing.T) {
	events := make(chan playback.Event, 4)
	m, _ := newTestModel(t, fakeIntrospector{out: sampleInfo}, Options{Events: events})

	m, cmd := updateCmd(t, m, PlaybackEventMsg{Event: playback.Event{Kind: playback.EventStarted, PID: 7}})
	require.NotNil(t, cmd, "model keeps listening for events")
	m = update(t, m, PlaybackEventMsg{Event: playback.Event{Kind: playback.EventOutput, PID: 7, Line: "[INFO] playing"}})
	m = update(t, m, PlaybackEventMsg{Event: playback.Event{Kind: playback.EventExited, PID: 7}})

	lines := m.logPane.Lines()
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "pid 7")
	assert.Equal(t, "[INFO] playing", lines[1])

	require.True(t, m.overlay.Active())
	assert.Equal(t, "Bag playback has stopped.", m.overlay.message)
	assert.Equal(t, MessageInfo, m.overlay.kind)
}

func TestModel_WaitForPlaybackReadsChannel(t *testing.T) {
	events := make(chan playback.Event, 1)
	events <- playback.Event{Kind: playback.EventOutput, Line: "hello"}

	msg := waitForPlayback(events)()
	ev, ok := msg.(PlaybackEventMsg)
	require.True(t, ok)
	assert.Equal(t, "hello", ev.Event.Line)
}

func TestModel_ProfileSelectionReportsMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte("nav:\n  - /imu\n  - /odom\nall:\n  - /imu\n  - /gps\n"), 0644))

	m, _ := newTestModel(t, fakeIntrospector{out: sampleInfo}, Options{ProfilesFile: path})
	require.False(t, m.overlay.Active())
	m = loadBag(t, m, "/bags/demo")

	m = press(t, m, "f")
	require.Equal(t, overlayProfileChoice, m.overlayCtx)
	assert.Equal(t, []string{NoProfileChoice, "nav", "all"}, m.overlay.choices)

	m = update(t, m, OverlayCloseMsg{Result: "nav", Confirmed: true})
	assert.Equal(t, "nav", m.session.ActiveProfile())
	assert.Equal(t, []string{"/imu"}, m.session.SelectedTopics())
	assert.Equal(t, []string{"/odom"}, m.session.Missing())
	assert.Contains(t, m.View(), "/odom")

	m = press(t, m, "f")
	m = update(t, m, OverlayCloseMsg{Result: NoProfileChoice, Confirmed: true})
	assert.Equal(t, "", m.session.ActiveProfile())
	assert.Equal(t, []string{"/imu"}, m.session.SelectedTopics(), "none keeps the current checkboxes")
	assert.Empty(t, m.session.Missing())
}

func TestModel_BadProfileFileShowsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	require.NoError(t, os.WriteFile(path, []byte("- just\n- a list\n"), 0644))

	m, _ := newTestModel(t, fakeIntrospector{out: sampleInfo}, Options{ProfilesFile: path})
	require.True(t, m.overlay.Active())
	assert.Equal(t, "YAML Load Error", m.overlay.title)
	assert.Equal(t, 0, m.session.Catalog().Len())
}

func TestModel_DomainIDInput(t *testing.T) {
	m, _ := newTestModel(t, fakeIntrospector{out: sampleInfo}, Options{})

	m = press(t, m, "i")
	require.Equal(t, overlayDomainID, m.overlayCtx)
	m = update(t, m, OverlayCloseMsg{Result: "17", Confirmed: true})
	assert.Equal(t, 17, m.session.DomainID())
	assert.False(t, m.overlay.Active())

	m = press(t, m, "i")
	m = update(t, m, OverlayCloseMsg{Result: "300", Confirmed: true})
	assert.Equal(t, 17, m.session.DomainID())
	require.True(t, m.overlay.Active())
	assert.Equal(t, "Invalid Domain ID", m.overlay.title)

	m = update(t, m, OverlayCloseMsg{Confirmed: true})
	m = press(t, m, "i")
	m = update(t, m, OverlayCloseMsg{Result: "abc", Confirmed: true})
	assert.Equal(t, 17, m.session.DomainID())
	assert.Equal(t, "Invalid Domain ID", m.overlay.title)
}

func TestModel_ExportExample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "example_profiles.yaml")
	m, _ := newTestModel(t, fakeIntrospector{out: sampleInfo}, Options{})

	m = press(t, m, "e")
	require.Equal(t, overlayExportPath, m.overlayCtx)
	m = update(t, m, OverlayCloseMsg{Result: path, Confirmed: true})

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "profile1_no_topic1")
	require.True(t, m.overlay.Active())
	assert.True(t, strings.HasSuffix(m.overlay.message, path))
}

func TestModel_QuitWhilePlayingAsks(t *testing.T) {
	m, player := newTestModel(t, fakeIntrospector{out: sampleInfo}, Options{})
	m = loadBag(t, m, "/bags/demo")
	m = press(t, m, "a")
	m = press(t, m, "p")
	require.True(t, player.running)

	m, cmd := updateCmd(t, m, keyMsg("q"))
	assert.Nil(t, cmd)
	assert.False(t, m.quitting)
	require.Equal(t, overlayQuitConfirm, m.overlayCtx)

	m, cmd = updateCmd(t, m, OverlayCloseMsg{Confirmed: true})
	assert.True(t, m.quitting)
	assert.Equal(t, 1, player.stopped)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_QuitWhenIdle(t *testing.T) {
	m, _ := newTestModel(t, fakeIntrospector{out: sampleInfo}, Options{})
	m, cmd := updateCmd(t, m, keyMsg("q"))
	assert.True(t, m.quitting)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_StopWhenIdleWarns(t *testing.T) {
	m, _ := newTestModel(t, fakeIntrospector{out: sampleInfo}, Options{})
	m = press(t, m, "s")
	require.True(t, m.overlay.Active())
	assert.Equal(t, "Not Playing", m.overlay.title)
}

func TestModel_StaleExitIgnored(t *testing.T) {
	m, _ := newTestModel(t, fakeIntrospector{out: sampleInfo}, Options{})

	m = update(t, m, PlaybackEventMsg{Event: playback.Event{Kind: playback.EventStarted, PID: 8}})
	m = update(t, m, PlaybackEventMsg{Event: playback.Event{Kind: playback.EventExited, PID: 7}})
	assert.False(t, m.overlay.Active(), "exit of an earlier process must not report the current one stopped")
	lines := m.logPane.Lines()
	assert.Contains(t, lines[len(lines)-1], "pid 7")

	m = update(t, m, PlaybackEventMsg{Event: playback.Event{Kind: playback.EventExited, PID: 8}})
	require.True(t, m.overlay.Active())
	assert.Equal(t, "Bag playback has stopped.", m.overlay.message)
}

func TestModel_DialogsQueue(t *testing.T) {
	m, _ := newTestModel(t, fakeIntrospector{out: sampleInfo}, Options{})
	m = press(t, m, "p")
	require.Equal(t, "No Bag Selected", m.overlay.title)

	m = update(t, m, PlaybackEventMsg{Event: playback.Event{Kind: playback.EventExited}})
	assert.Equal(t, "No Bag Selected", m.overlay.title)
	require.Len(t, m.queue, 1)

	m = update(t, m, OverlayCloseMsg{Confirmed: true})
	require.True(t, m.overlay.Active())
	assert.Equal(t, "Bag playback has stopped.", m.overlay.message)
	assert.Empty(t, m.queue)
}

func TestModel_StatsSampling(t *testing.T) {
	sample := playback.Stats{PID: 9, CPUPercent: 12.5, RSS: 2048}
	m, _ := newTestModel(t, fakeIntrospector{out: sampleInfo}, Options{
		Stats: func() (playback.Stats, error) { return sample, nil },
	})
	m = loadBag(t, m, "/bags/demo")
	m = press(t, m, "a")

	m, cmd := updateCmd(t, m, keyMsg("p"))
	require.NotNil(t, cmd)
	assert.True(t, m.ticking)

	m = update(t, m, StatsMsg{Stats: sample})
	require.NotNil(t, m.stats)
	assert.Contains(t, m.statusBar.View(), "2.0 KiB")

	m = update(t, m, StatsMsg{Err: playback.ErrNotRunning})
	assert.Nil(t, m.stats)
}

func TestModel_FocusSwitchScrollsLog(t *testing.T) {
	m, _ := newTestModel(t, fakeIntrospector{out: sampleInfo}, Options{})
	for i := 0; i < 50; i++ {
		m = update(t, m, PlaybackEventMsg{Event: playback.Event{Kind: playback.EventOutput, Line: "line"}})
	}
	m = press(t, m, "tab")
	assert.Equal(t, FocusLog, m.focusZone)

	m = press(t, m, "k")
	assert.Equal(t, 1, m.logPane.offset)
	m = press(t, m, "j")
	assert.Equal(t, 0, m.logPane.offset)
}
