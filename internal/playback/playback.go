// Package playback runs at most one `ros2 bag play` process at a time and
// reports its lifecycle as a stream of events.
package playback

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/ruminaider/bag-filter/internal/ros2"
)

var (
	// ErrNoTopics is returned when playback is requested with an empty
	// topic allow-list.
	ErrNoTopics = errors.New("no topics selected")

	// ErrAlreadyRunning is returned when a playback process is already active.
	ErrAlreadyRunning = errors.New("playback already running")

	// ErrNotRunning is returned by Stop and Stats when nothing is playing.
	ErrNotRunning = errors.New("playback not running")
)

// MaxDomainID is the largest accepted ROS_DOMAIN_ID.
const MaxDomainID = 255

// eventBuffer bounds how far output may run ahead of the consumer.
const eventBuffer = 256

// maxLineSize is the longest output line forwarded as an Output event.
// Longer lines end output forwarding for that process.
const maxLineSize = 1024 * 1024

// State is the launcher's lifecycle position: Idle → Starting → Running → Idle.
type State int

const (
	StateIdle State = iota
	StateStarting
	StateRunning
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	default:
		return "unknown"
	}
}

// EventKind identifies what happened to the playback process.
type EventKind int

const (
	EventStarted EventKind = iota
	EventOutput
	EventExited
)

// Event is one lifecycle notification. Events for a single process arrive in
// order: one Started, any number of Output lines, then exactly one Exited.
type Event struct {
	Kind EventKind
	PID  int
	Line string // EventOutput only
	Err  error  // EventExited only; nil on a clean exit
}

// Request describes a playback to start.
type Request struct {
	BagPath  string
	Topics   []string
	DomainID int
}

// Session describes the active playback.
type Session struct {
	PID       int
	BagPath   string
	Topics    []string
	DomainID  int
	StartedAt time.Time
}

// Launcher owns the single playback slot.
type Launcher struct {
	runner ros2.Runner
	logger *log.Logger

	mu      sync.Mutex
	state   State
	cmd     *exec.Cmd
	session Session
	// done is closed once the latest playback has delivered its Exited event.
	done chan struct{}

	events chan Event
}

// NewLauncher returns an idle launcher that plays bags with runner. logger
// may be nil.
func NewLauncher(runner ros2.Runner, logger *log.Logger) *Launcher {
	return &Launcher{
		runner: runner,
		logger: logger,
		events: make(chan Event, eventBuffer),
	}
}

// Events returns the channel on which lifecycle events are delivered. The
// channel is shared by every playback the launcher runs and is never closed.
func (l *Launcher) Events() <-chan Event {
	return l.events
}

// State returns the current lifecycle state.
func (l *Launcher) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Running reports whether a playback is starting or running.
func (l *Launcher) Running() bool {
	return l.State() != StateIdle
}

// Current returns the active session, if any.
func (l *Launcher) Current() (Session, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateRunning {
		return Session{}, false
	}
	return l.session, true
}

// ValidateDomainID checks that id is a usable ROS_DOMAIN_ID.
func ValidateDomainID(id int) error {
	if id < 0 || id > MaxDomainID {
		return fmt.Errorf("domain id %d out of range 0-%d", id, MaxDomainID)
	}
	return nil
}

// Start launches playback and returns as soon as the process is running.
// Output and termination are reported on Events.
func (l *Launcher) Start(req Request) error {
	if len(req.Topics) == 0 {
		return ErrNoTopics
	}
	if err := ValidateDomainID(req.DomainID); err != nil {
		return err
	}

	l.mu.Lock()
	if l.state != StateIdle {
		l.mu.Unlock()
		return ErrAlreadyRunning
	}
	l.state = StateStarting
	l.mu.Unlock()

	topics := make([]string, len(req.Topics))
	copy(topics, req.Topics)

	cmd := l.runner.PlayCommand(req.BagPath, topics)
	cmd.Env = append(os.Environ(), ros2.DomainIDEnv+"="+strconv.Itoa(req.DomainID))

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		l.reset()
		return fmt.Errorf("starting playback: %w", err)
	}
	// Same *os.File for both streams merges them into one ordered stream.
	cmd.Stderr = cmd.Stdout

	if err := cmd.Start(); err != nil {
		l.reset()
		return fmt.Errorf("starting playback: %w", err)
	}

	pid := cmd.Process.Pid
	done := make(chan struct{})
	l.mu.Lock()
	prev := l.done
	l.done = done
	l.cmd = cmd
	l.state = StateRunning
	l.session = Session{
		PID:       pid,
		BagPath:   req.BagPath,
		Topics:    topics,
		DomainID:  req.DomainID,
		StartedAt: time.Now(),
	}
	l.mu.Unlock()

	l.logf("playback started pid=%d bag=%s domain=%d topics=%d", pid, req.BagPath, req.DomainID, len(topics))

	go func() {
		defer close(done)
		// Events of this playback must follow the previous one's Exited.
		if prev != nil {
			<-prev
		}
		l.events <- Event{Kind: EventStarted, PID: pid}

		scanner := bufio.NewScanner(stdout)
		scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
		for scanner.Scan() {
			l.events <- Event{Kind: EventOutput, PID: pid, Line: scanner.Text()}
		}
		if err := scanner.Err(); err != nil {
			l.logf("playback output pid=%d: %v", pid, err)
		}
		// Keep the pipe drained so the child never blocks on a full buffer.
		_, _ = io.Copy(io.Discard, stdout)

		waitErr := cmd.Wait()
		l.reset()
		l.logf("playback exited pid=%d err=%v", pid, waitErr)
		l.events <- Event{Kind: EventExited, PID: pid, Err: waitErr}
	}()

	return nil
}

// Stop asks the running playback to terminate. It never force-kills; the
// Exited event follows once the process is gone.
func (l *Launcher) Stop() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateRunning || l.cmd == nil || l.cmd.Process == nil {
		return ErrNotRunning
	}
	l.logf("stopping playback pid=%d", l.cmd.Process.Pid)
	if err := l.cmd.Process.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("stopping playback: %w", err)
	}
	return nil
}

// PID returns the running process id, or 0 when idle.
func (l *Launcher) PID() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != StateRunning {
		return 0
	}
	return l.session.PID
}

func (l *Launcher) reset() {
	l.mu.Lock()
	l.state = StateIdle
	l.cmd = nil
	l.session = Session{}
	l.mu.Unlock()
}

func (l *Launcher) logf(format string, args ...any) {
	if l.logger != nil {
		l.logger.Printf(format, args...)
	}
}
