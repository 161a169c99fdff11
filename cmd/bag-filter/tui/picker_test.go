package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruminaider/bag-filter/internal/baginfo"
)

func testInfo() baginfo.Info {
	return baginfo.Info{
		Duration: "3s",
		Topics: []baginfo.Topic{
			{Name: "/a", Type: "std_msgs/msg/String", Count: 3},
			{Name: "/b", Type: "std_msgs/msg/Int32", Count: 5},
			{Name: "/c", Type: "std_msgs/msg/Bool", Count: 1},
		},
	}
}

func TestTopicPickerItems(t *testing.T) {
	items := TopicPickerItems(testInfo())
	require.Len(t, items, 3)
	assert.Equal(t, PickerItem{Key: "/b", Detail: "std_msgs/msg/Int32", Count: 5}, items[1])
	for _, it := range items {
		assert.False(t, it.Selected)
	}
}

func TestPicker_CursorMovement(t *testing.T) {
	p := NewPicker(TopicPickerItems(testInfo()))
	assert.Equal(t, "/a", p.Current())

	p, _ = p.Update(keyMsg("down"))
	assert.Equal(t, "/b", p.Current())
	p, _ = p.Update(keyMsg("G"))
	assert.Equal(t, "/c", p.Current())
	p, _ = p.Update(keyMsg("j"))
	assert.Equal(t, "/c", p.Current())
	p, _ = p.Update(keyMsg("g"))
	assert.Equal(t, "/a", p.Current())
	p, _ = p.Update(keyMsg("k"))
	assert.Equal(t, "/a", p.Current())
}

func TestPicker_Empty(t *testing.T) {
	p := NewPicker(nil)
	assert.Equal(t, "", p.Current())
	p, _ = p.Update(keyMsg("down"))
	assert.Contains(t, p.View(), "No topics loaded")
}

func TestPicker_SyncAndSelectedKeys(t *testing.T) {
	p := NewPicker(TopicPickerItems(testInfo()))
	p.Sync(func(topic string) bool { return topic != "/b" })
	assert.Equal(t, []string{"/a", "/c"}, p.SelectedKeys())

	view := p.View()
	assert.Contains(t, view, "[x] /a")
	assert.Contains(t, view, "[ ] /b")
	assert.Contains(t, view, "5 msgs")
}

func TestPicker_Scrolling(t *testing.T) {
	p := NewPicker(TopicPickerItems(testInfo()))
	p.SetHeight(2)
	p, _ = p.Update(keyMsg("G"))
	assert.Equal(t, 1, p.offset)
	assert.Contains(t, p.View(), "2-3 of 3")
}
