package profiles

import (
	"fmt"
	"os"

	"go.yaml.in/yaml/v3"
)

// Profile is a named, reusable list of topics to play.
type Profile struct {
	Name   string
	Topics []string
}

// Catalog holds the profiles from one profile file in file order.
type Catalog struct {
	profiles []Profile
	index    map[string]int
}

// NewCatalog builds a catalog from profiles. A later profile with the same
// name replaces an earlier one but keeps its position.
func NewCatalog(ps ...Profile) Catalog {
	c := Catalog{index: make(map[string]int, len(ps))}
	for _, p := range ps {
		c.put(p)
	}
	return c
}

func (c *Catalog) put(p Profile) {
	if c.index == nil {
		c.index = make(map[string]int)
	}
	if i, ok := c.index[p.Name]; ok {
		c.profiles[i] = p
		return
	}
	c.index[p.Name] = len(c.profiles)
	c.profiles = append(c.profiles, p)
}

// Get returns the named profile.
func (c Catalog) Get(name string) (Profile, bool) {
	i, ok := c.index[name]
	if !ok {
		return Profile{}, false
	}
	return c.profiles[i], true
}

// Names returns profile names in file order.
func (c Catalog) Names() []string {
	names := make([]string, 0, len(c.profiles))
	for _, p := range c.profiles {
		names = append(names, p.Name)
	}
	return names
}

// Profiles returns a copy of the profiles in file order.
func (c Catalog) Profiles() []Profile {
	out := make([]Profile, len(c.profiles))
	copy(out, c.profiles)
	return out
}

// Len returns the number of profiles.
func (c Catalog) Len() int {
	return len(c.profiles)
}

// Parse parses a profile file: a top-level mapping from profile name to a
// list of topic names. Mapping order is preserved, which is why this walks
// yaml.Node rather than decoding into a Go map.
func Parse(data []byte) (Catalog, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Catalog{}, fmt.Errorf("parsing profiles: %w", err)
	}

	// Empty document is a valid empty catalog.
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return NewCatalog(), nil
	}

	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.ShortTag() == "!!null" {
		return NewCatalog(), nil
	}
	if root.Kind != yaml.MappingNode {
		return Catalog{}, fmt.Errorf("parsing profiles: expected mapping at top level")
	}

	c := NewCatalog()
	for i := 0; i < len(root.Content)-1; i += 2 {
		keyNode := root.Content[i]
		valNode := root.Content[i+1]

		if keyNode.Kind != yaml.ScalarNode {
			return Catalog{}, fmt.Errorf("parsing profiles: line %d: profile name must be a string", keyNode.Line)
		}

		topics, err := parseTopics(valNode)
		if err != nil {
			return Catalog{}, fmt.Errorf("parsing profile %q: %w", keyNode.Value, err)
		}
		c.put(Profile{Name: keyNode.Value, Topics: topics})
	}

	return c, nil
}

// parseTopics decodes the topic list of a single profile. A null value is an
// empty profile.
func parseTopics(node *yaml.Node) ([]string, error) {
	node = resolveAlias(node)
	if node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null" {
		return []string{}, nil
	}
	if node.Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("line %d: expected a list of topics", node.Line)
	}

	topics := make([]string, 0, len(node.Content))
	for _, item := range node.Content {
		item = resolveAlias(item)
		if item.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: topic must be a string", item.Line)
		}
		topics = append(topics, item.Value)
	}
	return topics, nil
}

// resolveAlias follows *anchor references to the node they name.
func resolveAlias(node *yaml.Node) *yaml.Node {
	for node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}
	return node
}

// Load reads and parses a profile file.
func Load(path string) (Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Catalog{}, fmt.Errorf("reading profiles %s: %w", path, err)
	}
	return Parse(data)
}

// Marshal serializes a catalog back into the profile file format, keeping
// profile order.
func Marshal(c Catalog) ([]byte, error) {
	doc := &yaml.Node{Kind: yaml.DocumentNode}
	root := &yaml.Node{Kind: yaml.MappingNode}
	doc.Content = append(doc.Content, root)

	for _, p := range c.profiles {
		list := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, t := range p.Topics {
			list.Content = append(list.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: t, Tag: "!!str"},
			)
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: p.Name, Tag: "!!str"},
			list,
		)
	}

	return yaml.Marshal(doc)
}

// Save writes a catalog to path.
func Save(path string, c Catalog) error {
	data, err := Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding profiles: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing profiles %s: %w", path, err)
	}
	return nil
}

// Example returns the sample catalog offered to new users.
func Example() Catalog {
	return NewCatalog(
		Profile{Name: "profile1", Topics: []string{"/topic1", "/topic2"}},
		Profile{Name: "profile1_no_topic1", Topics: []string{"/topic2"}},
		Profile{Name: "profile2", Topics: []string{"topic3", "topic4"}},
	)
}

// WriteExample saves the sample catalog to path.
func WriteExample(path string) error {
	return Save(path, Example())
}

// Summary returns a short human-readable description of a profile.
func Summary(p Profile) string {
	n := len(p.Topics)
	return fmt.Sprintf("%d %s", n, pluralize("topic", n))
}

// pluralize returns the singular or plural form depending on count.
func pluralize(word string, count int) string {
	if count == 1 {
		return word
	}
	return word + "s"
}
