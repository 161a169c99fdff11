package baginfo

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// durationMarker precedes the bag duration in `ros2 bag info` output.
const durationMarker = "Duration:"

// topicLine matches one topic row, e.g.
//
//	Topic: /mavros/vfr_hud | Type: mavros_msgs/msg/VfrHud | Count: 482 | Serialization Format: cdr
var topicLine = regexp.MustCompile(
	`Topic:\s+(?P<topic>\S+)\s+\|\s+Type:\s+(?P<type>[^|]+)\|\s+Count:\s+(?P<count>\d+)\s+\|`,
)

// Topic is a single recorded channel reported by the introspector.
type Topic struct {
	Name  string
	Type  string
	Count int
}

// Info is the parsed form of `ros2 bag info` output.
type Info struct {
	Duration string
	Topics   []Topic
}

// Parse extracts the duration and topic rows from introspector text.
// Lines that are not topic rows are ignored. If the same topic name shows up
// more than once, only the first row is kept.
func Parse(text string) Info {
	var info Info
	seen := make(map[string]bool)

	topicIdx := topicLine.SubexpIndex("topic")
	typeIdx := topicLine.SubexpIndex("type")
	countIdx := topicLine.SubexpIndex("count")

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, "\r")

		if _, after, ok := strings.Cut(line, durationMarker); ok {
			// Only the text up to a repeated marker counts.
			after, _, _ = strings.Cut(after, durationMarker)
			info.Duration = strings.TrimSpace(after)
		}

		m := topicLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name := m[topicIdx]
		if seen[name] {
			continue
		}
		count, err := strconv.Atoi(m[countIdx])
		if err != nil {
			// \d+ that overflows int; skip rather than report a bogus count.
			continue
		}
		seen[name] = true
		info.Topics = append(info.Topics, Topic{
			Name:  name,
			Type:  strings.TrimSpace(m[typeIdx]),
			Count: count,
		})
	}

	return info
}

// Names returns topic names in the order they were reported.
func (i Info) Names() []string {
	names := make([]string, 0, len(i.Topics))
	for _, t := range i.Topics {
		names = append(names, t.Name)
	}
	return names
}

// Counts returns the message count per topic.
func (i Info) Counts() map[string]int {
	counts := make(map[string]int, len(i.Topics))
	for _, t := range i.Topics {
		counts[t.Name] = t.Count
	}
	return counts
}

// TotalMessages sums the message counts of every topic.
func (i Info) TotalMessages() int {
	total := 0
	for _, t := range i.Topics {
		total += t.Count
	}
	return total
}

// Empty reports whether no topics were found.
func (i Info) Empty() bool {
	return len(i.Topics) == 0
}

// Summary renders the plain-text info block shown after loading a bag.
func (i Info) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Duration: %s\n", i.Duration)
	b.WriteString("Topics:")
	for _, t := range i.Topics {
		fmt.Fprintf(&b, "\n  • %s — %d msgs", t.Name, t.Count)
	}
	return b.String()
}

// Markdown renders the info block as a markdown table for the TUI info pane.
func (i Info) Markdown() string {
	var b strings.Builder
	duration := i.Duration
	if duration == "" {
		duration = "unknown"
	}
	fmt.Fprintf(&b, "**Duration:** %s\n\n", duration)

	if i.Empty() {
		b.WriteString("_No topics found._\n")
		return b.String()
	}

	b.WriteString("| Topic | Type | Messages |\n")
	b.WriteString("|---|---|---:|\n")
	for _, t := range i.Topics {
		fmt.Fprintf(&b, "| `%s` | %s | %d |\n", t.Name, escapePipes(t.Type), t.Count)
	}
	return b.String()
}

func escapePipes(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
