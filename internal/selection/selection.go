// Package selection reconciles a profile's declared topics with the topics
// actually present in a bag.
package selection

import "github.com/ruminaider/bag-filter/internal/profiles"

// State is the checkbox state of every topic in the loaded bag.
type State map[string]bool

// NewState returns a state with every topic unselected.
func NewState(topics []string) State {
	s := make(State, len(topics))
	for _, t := range topics {
		s[t] = false
	}
	return s
}

// Clone returns an independent copy of s.
func (s State) Clone() State {
	out := make(State, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Toggle flips the selection of topic. Unknown topics are ignored.
func (s State) Toggle(topic string) {
	if v, ok := s[topic]; ok {
		s[topic] = !v
	}
}

// SetAll selects or clears every topic.
func (s State) SetAll(selected bool) {
	for k := range s {
		s[k] = selected
	}
}

// Count returns the number of selected topics.
func (s State) Count() int {
	n := 0
	for _, v := range s {
		if v {
			n++
		}
	}
	return n
}

// Selected returns the selected topics in the order of topics.
func (s State) Selected(topics []string) []string {
	var out []string
	for _, t := range topics {
		if s[t] {
			out = append(out, t)
		}
	}
	return out
}

// Result is the outcome of applying a profile.
type Result struct {
	State   State
	Missing []string
}

// Apply maps profile onto the bag's topics. A nil profile means no profile
// is selected: prior is returned unchanged and nothing is reported missing.
//
// Otherwise a topic is selected iff the profile declares it, and Missing lists
// the declared topics absent from the bag in declaration order, duplicates
// included.
func Apply(topics []string, prior State, profile *profiles.Profile) Result {
	if profile == nil {
		if prior == nil {
			return Result{State: NewState(topics)}
		}
		return Result{State: prior.Clone()}
	}

	declared := make(map[string]bool, len(profile.Topics))
	for _, t := range profile.Topics {
		declared[t] = true
	}

	present := make(map[string]bool, len(topics))
	state := make(State, len(topics))
	for _, t := range topics {
		present[t] = true
		state[t] = declared[t]
	}

	var missing []string
	for _, t := range profile.Topics {
		if !present[t] {
			missing = append(missing, t)
		}
	}

	return Result{State: state, Missing: missing}
}
