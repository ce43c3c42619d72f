package bot

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logger "github.com/m7mdxyz/discord-logger/middleware/log"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.NewDevelopmentLogger()
	if err != nil {
		t.Fatalf("create logger: %v", err)
	}
	return log
}

func TestLoadLogChannelsMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log_channels.json")

	lc, err := LoadLogChannels(path, testLogger(t))
	require.NoError(t, err)
	assert.Empty(t, lc.LogCategoryID)

	// The default document is written out immediately.
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, "log_category_id")
	assert.Contains(t, doc, "deleted_messages_channel_id")
	assert.Contains(t, doc, "voice_activity_channel_id")
}

func TestLoadLogChannelsMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "log_channels.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	lc, err := LoadLogChannels(path, testLogger(t))
	require.NoError(t, err)
	assert.Empty(t, lc.DeletedMessagesChannelID)

	// The broken content survives in a .bak copy, the file itself is reset.
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)

	var backups []string
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ".bak" {
			backups = append(backups, e.Name())
		}
	}
	require.Len(t, backups, 1)

	backup, err := os.ReadFile(filepath.Join(dir, backups[0]))
	require.NoError(t, err)
	assert.Equal(t, "{not json", string(backup))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, json.Valid(data))
}

func TestLogChannelsSaveLoadRoundtrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "log_channels.json")

	lc, err := LoadLogChannels(path, testLogger(t))
	require.NoError(t, err)

	lc.LogCategoryID = "cat-1"
	lc.setChannel(categoryDeletedMessages, "chan-del")
	lc.setChannel(categoryMemberActivity, "chan-mem")
	require.NoError(t, lc.Save())

	loaded, err := LoadLogChannels(path, testLogger(t))
	require.NoError(t, err)
	assert.Equal(t, "cat-1", loaded.LogCategoryID)
	assert.Equal(t, "chan-del", loaded.ChannelFor(categoryDeletedMessages))
	assert.Equal(t, "chan-mem", loaded.ChannelFor(categoryMemberActivity))
	assert.Empty(t, loaded.ChannelFor(categoryVoiceActivity))
}

func TestLogChannelsChannelFor(t *testing.T) {
	lc := &LogChannels{
		DeletedMessagesChannelID: "a",
		EditedMessagesChannelID:  "b",
		VoiceActivityChannelID:   "c",
		GuildActivityChannelID:   "d",
		MemberActivityChannelID:  "e",
	}

	assert.Equal(t, "a", lc.ChannelFor(categoryDeletedMessages))
	assert.Equal(t, "b", lc.ChannelFor(categoryEditedMessages))
	assert.Equal(t, "c", lc.ChannelFor(categoryVoiceActivity))
	assert.Equal(t, "d", lc.ChannelFor(categoryGuildActivity))
	assert.Equal(t, "e", lc.ChannelFor(categoryMemberActivity))
	assert.Empty(t, lc.ChannelFor("unknown"))
}
