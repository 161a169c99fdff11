// Package session holds the operator's working state: the chosen bag, its
// topics, the topic selection, the loaded profiles and the playback slot.
// Every user action in the UI or CLI maps to one method here.
package session

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/ruminaider/bag-filter/internal/baginfo"
	"github.com/ruminaider/bag-filter/internal/playback"
	"github.com/ruminaider/bag-filter/internal/profiles"
	"github.com/ruminaider/bag-filter/internal/ros2"
	"github.com/ruminaider/bag-filter/internal/selection"
)

var (
	// ErrNoBag is returned by operations that need a bag before one is chosen.
	ErrNoBag = errors.New("no bag selected")

	// ErrUnknownProfile is returned when selecting a profile the catalog lacks.
	ErrUnknownProfile = errors.New("unknown profile")

	// ErrProfileLoad wraps any failure to read or parse a profile file.
	ErrProfileLoad = errors.New("loading profiles")
)

// Introspector returns the human-readable report for a bag.
type Introspector interface {
	Info(ctx context.Context, bagPath string) (string, error)
}

// Player runs one playback at a time.
type Player interface {
	Start(req playback.Request) error
	Stop() error
	Running() bool
}

// Session is the single owner of mutable state. It is not safe for
// concurrent use; the UI drives it from its update loop.
type Session struct {
	introspector Introspector
	player       Player

	bagPath  string
	info     baginfo.Info
	selected selection.State

	catalog       profiles.Catalog
	catalogPath   string
	activeProfile string
	missing       []string

	domainID int
}

// New returns an empty session.
func New(introspector Introspector, player Player, domainID int) *Session {
	return &Session{
		introspector: introspector,
		player:       player,
		selected:     selection.State{},
		catalog:      profiles.NewCatalog(),
		domainID:     domainID,
	}
}

// SelectBag records path as the current bag and loads its topics. The path is
// kept even if loading fails, matching a file picker that already closed.
func (s *Session) SelectBag(ctx context.Context, path string) error {
	if err := s.SetBag(path); err != nil {
		return err
	}
	return s.LoadTopics(ctx)
}

// SetBag records path as the current bag without reading it.
func (s *Session) SetBag(path string) error {
	if path == "" {
		return ErrNoBag
	}
	s.bagPath = path
	return nil
}

// LoadTopics (re)reads the current bag's topic list. On failure the previous
// topics and selection are kept.
func (s *Session) LoadTopics(ctx context.Context) error {
	if s.bagPath == "" {
		return ErrNoBag
	}
	info, err := s.Introspect(ctx, s.bagPath)
	if err != nil {
		return err
	}
	s.ApplyInfo(s.bagPath, info)
	return nil
}

// Introspect runs the introspector for path and parses its report. It does
// not touch session state, so the UI may call it off its update loop.
func (s *Session) Introspect(ctx context.Context, path string) (baginfo.Info, error) {
	if path == "" {
		return baginfo.Info{}, ErrNoBag
	}
	out, err := s.introspector.Info(ctx, path)
	if err != nil {
		return baginfo.Info{}, fmt.Errorf("reading bag info: %w", err)
	}
	return baginfo.Parse(out), nil
}

// ApplyInfo installs a freshly parsed report for path: the topic list is
// replaced, every checkbox cleared and the missing report reset.
func (s *Session) ApplyInfo(path string, info baginfo.Info) {
	s.bagPath = path
	s.info = info
	s.selected = selection.NewState(info.Names())
	s.missing = nil
}

// LoadProfiles replaces the catalog with the profiles in path. On failure the
// previous catalog is kept. The active profile resets to none.
func (s *Session) LoadProfiles(path string) error {
	c, err := profiles.Load(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrProfileLoad, err)
	}
	s.catalog = c
	s.catalogPath = path
	s.activeProfile = ""
	s.missing = nil
	return nil
}

// SelectProfile applies the named profile to the topic selection and returns
// the declared topics the bag lacks. An empty name selects no profile, which
// leaves the selection as it is.
func (s *Session) SelectProfile(name string) ([]string, error) {
	var p *profiles.Profile
	if name != "" {
		found, ok := s.catalog.Get(name)
		if !ok {
			return nil, fmt.Errorf("%w %q", ErrUnknownProfile, name)
		}
		p = &found
	}

	res := selection.Apply(s.info.Names(), s.selected, p)
	s.selected = res.State
	s.activeProfile = name
	s.missing = res.Missing
	return res.Missing, nil
}

// Toggle flips one topic's checkbox.
func (s *Session) Toggle(topic string) {
	s.selected.Toggle(topic)
}

// SetSelected sets one topic's checkbox. Unknown topics are ignored.
func (s *Session) SetSelected(topic string, on bool) {
	if _, ok := s.selected[topic]; ok {
		s.selected[topic] = on
	}
}

// SelectAll checks every topic.
func (s *Session) SelectAll() {
	s.selected.SetAll(true)
}

// SelectNone clears every topic.
func (s *Session) SelectNone() {
	s.selected.SetAll(false)
}

// SetDomainID sets the ROS_DOMAIN_ID used by the next playback.
func (s *Session) SetDomainID(id int) error {
	if err := playback.ValidateDomainID(id); err != nil {
		return err
	}
	s.domainID = id
	return nil
}

// Play starts playback of the checked topics.
func (s *Session) Play() error {
	if s.bagPath == "" {
		return ErrNoBag
	}
	topics := s.SelectedTopics()
	if len(topics) == 0 {
		return playback.ErrNoTopics
	}
	if s.player.Running() {
		return playback.ErrAlreadyRunning
	}
	return s.player.Start(playback.Request{
		BagPath:  s.bagPath,
		Topics:   topics,
		DomainID: s.domainID,
	})
}

// Stop asks the running playback to terminate.
func (s *Session) Stop() error {
	return s.player.Stop()
}

// Playing reports whether playback is active.
func (s *Session) Playing() bool {
	return s.player.Running()
}

// ExportExample writes the example profile file to path.
func (s *Session) ExportExample(path string) error {
	return profiles.WriteExample(path)
}

// --- Snapshots ---

// BagPath returns the chosen bag, or "".
func (s *Session) BagPath() string { return s.bagPath }

// Info returns the parsed introspection report of the current bag.
func (s *Session) Info() baginfo.Info { return s.info }

// Topics returns the bag's topics in report order.
func (s *Session) Topics() []string { return s.info.Names() }

// Selected reports whether topic is checked.
func (s *Session) Selected(topic string) bool { return s.selected[topic] }

// SelectedTopics returns the checked topics in report order.
func (s *Session) SelectedTopics() []string {
	return s.selected.Selected(s.info.Names())
}

// Selection returns a copy of the checkbox state.
func (s *Session) Selection() selection.State { return s.selected.Clone() }

// Catalog returns the loaded profiles.
func (s *Session) Catalog() profiles.Catalog { return s.catalog }

// CatalogPath returns the file the catalog was loaded from.
func (s *Session) CatalogPath() string { return s.catalogPath }

// ActiveProfile returns the selected profile name, or "" for none.
func (s *Session) ActiveProfile() string { return s.activeProfile }

// Missing returns the topics the active profile declares but the bag lacks.
func (s *Session) Missing() []string {
	out := make([]string, len(s.missing))
	copy(out, s.missing)
	return out
}

// DomainID returns the ROS_DOMAIN_ID for the next playback.
func (s *Session) DomainID() int { return s.domainID }

// MissingReport renders the missing-topics label text.
func MissingReport(missing []string) string {
	if len(missing) == 0 {
		return "No missing topics."
	}
	report := "Missing topics in bag:"
	for _, t := range missing {
		report += "\n" + t
	}
	return report
}

// SortedCounts returns topic names ordered by descending message count, ties
// broken by name. Used by the CLI info listing.
func SortedCounts(info baginfo.Info) []baginfo.Topic {
	out := make([]baginfo.Topic, len(info.Topics))
	copy(out, info.Topics)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Compile-time checks that the production collaborators fit.
var (
	_ Introspector = ros2.Runner{}
	_ Player       = (*playback.Launcher)(nil)
)
