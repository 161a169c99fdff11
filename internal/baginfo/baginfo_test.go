package baginfo_test

import (
	"testing"

	"github.com/ruminaider/bag-filter/internal/baginfo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleInfo = `
Files:             rosbag2_2024_05_01-10_12_44_0.db3
Bag size:          14.2 MiB
Storage id:        sqlite3
Duration:          83.412s
Start:             May  1 2024 10:12:44.123 (1714551164.123)
End:               May  1 2024 10:14:07.535 (1714551247.535)
Messages:          2310
Topic information: Topic: /mavros/vfr_hud | Type: mavros_msgs/msg/VfrHud | Count: 482 | Serialization Format: cdr
                   Topic: /tf | Type: tf2_msgs/msg/TFMessage | Count: 1820 | Serialization Format: cdr
                   Topic: /rosout | Type: rcl_interfaces/msg/Log | Count: 8 | Serialization Format: cdr
`

func TestParse(t *testing.T) {
	t.Run("full ros2 bag info output", func(t *testing.T) {
		info := baginfo.Parse(sampleInfo)
		assert.Equal(t, "83.412s", info.Duration)
		assert.Equal(t, []string{"/mavros/vfr_hud", "/tf", "/rosout"}, info.Names())
		assert.Equal(t, map[string]int{"/mavros/vfr_hud": 482, "/tf": 1820, "/rosout": 8}, info.Counts())
		assert.Equal(t, "mavros_msgs/msg/VfrHud", info.Topics[0].Type)
		assert.Equal(t, 2310, info.TotalMessages())
	})

	t.Run("minimal topic lines", func(t *testing.T) {
		info := baginfo.Parse("Topic: /a | Type: X | Count: 5 |\nTopic: /b | Type: Y | Count: 0 |\n")
		assert.Equal(t, []string{"/a", "/b"}, info.Names())
		assert.Equal(t, map[string]int{"/a": 5, "/b": 0}, info.Counts())
		assert.Empty(t, info.Duration)
	})

	t.Run("unrecognized lines are ignored", func(t *testing.T) {
		info := baginfo.Parse("hello\nTopic: /a Type: X Count: 5\nTopic: /b | Type: Y | Count: many |\n")
		assert.True(t, info.Empty())
	})

	t.Run("last duration line wins", func(t *testing.T) {
		info := baginfo.Parse("Duration: 1s\nsomething\n  Duration:   2:03s  \n")
		assert.Equal(t, "2:03s", info.Duration)
	})

	t.Run("duration stops at a repeated marker", func(t *testing.T) {
		info := baginfo.Parse("Duration: 4s Duration: 9s")
		assert.Equal(t, "4s", info.Duration)
	})

	t.Run("duplicate topic keeps first row", func(t *testing.T) {
		info := baginfo.Parse("Topic: /a | Type: X | Count: 5 |\nTopic: /a | Type: X | Count: 7 |\n")
		require.Len(t, info.Topics, 1)
		assert.Equal(t, 5, info.Topics[0].Count)
	})

	t.Run("windows line endings", func(t *testing.T) {
		info := baginfo.Parse("Duration: 3s\r\nTopic: /a | Type: X | Count: 1 |\r\n")
		assert.Equal(t, "3s", info.Duration)
		assert.Equal(t, []string{"/a"}, info.Names())
	})

	t.Run("empty input", func(t *testing.T) {
		info := baginfo.Parse("")
		assert.True(t, info.Empty())
		assert.Empty(t, info.Names())
	})
}

func TestSummary(t *testing.T) {
	info := baginfo.Parse("Duration: 1:23s\nTopic: /a | Type: X | Count: 5 |\n")
	assert.Equal(t, "Duration: 1:23s\nTopics:\n  • /a — 5 msgs", info.Summary())
}

func TestMarkdown(t *testing.T) {
	t.Run("table of topics", func(t *testing.T) {
		info := baginfo.Info{
			Duration: "2s",
			Topics:   []baginfo.Topic{{Name: "/a", Type: "std_msgs/msg/String", Count: 3}},
		}
		md := info.Markdown()
		assert.Contains(t, md, "**Duration:** 2s")
		assert.Contains(t, md, "| `/a` | std_msgs/msg/String | 3 |")
	})

	t.Run("no topics", func(t *testing.T) {
		md := baginfo.Info{}.Markdown()
		assert.Contains(t, md, "**Duration:** unknown")
		assert.Contains(t, md, "_No topics found._")
	})
}
