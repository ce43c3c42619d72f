package bot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	logger "github.com/m7mdxyz/discord-logger/middleware/log"
)

// Log event categories, each routed to its own guild channel.
const (
	categoryDeletedMessages = "deleted_messages"
	categoryEditedMessages  = "edited_messages"
	categoryVoiceActivity   = "voice_activity"
	categoryGuildActivity   = "guild_activity"
	categoryMemberActivity  = "member_activity"
)

// LogChannels is the persisted JSON document mapping log categories to
// channel ids. Empty ids are filled in by provisioning on first run.
type LogChannels struct {
	LogCategoryID            string `json:"log_category_id"`
	DeletedMessagesChannelID string `json:"deleted_messages_channel_id"`
	EditedMessagesChannelID  string `json:"edited_messages_channel_id"`
	VoiceActivityChannelID   string `json:"voice_activity_channel_id"`
	GuildActivityChannelID   string `json:"guild_activity_channel_id"`
	MemberActivityChannelID  string `json:"member_activity_channel_id"`

	path string
}

// channelNames maps each category to the text channel created for it.
var channelNames = map[string]string{
	categoryDeletedMessages: "deleted-messages",
	categoryEditedMessages:  "edited-messages",
	categoryVoiceActivity:   "voice-activity",
	categoryGuildActivity:   "guild-activity",
	categoryMemberActivity:  "member-activity",
}

// LoadLogChannels reads the mapping document. A missing file is created with
// the default shape; a malformed one is backed up with a timestamped copy and
// replaced.
func LoadLogChannels(path string, log *logger.Logger) (*LogChannels, error) {
	lc := &LogChannels{path: path}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.Info("log channels config missing, writing default", zap.String("path", path))
		return lc, lc.Save()
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(data, lc); err != nil {
		backup := fmt.Sprintf("%s.%s.bak", path, time.Now().UTC().Format("20060102-150405"))
		if werr := os.WriteFile(backup, data, 0644); werr == nil {
			log.Warn("log channels config malformed, backed up and reset",
				zap.String("backup", backup), zap.Error(err))
		} else {
			log.Warn("log channels config malformed, reset without backup", zap.Error(err))
		}
		*lc = LogChannels{path: path}
		return lc, lc.Save()
	}
	return lc, nil
}

// Save rewrites the document. Called whenever provisioning fills a mapping.
func (lc *LogChannels) Save() error {
	data, err := json.MarshalIndent(lc, "", "    ")
	if err != nil {
		return err
	}
	return os.WriteFile(lc.path, data, 0644)
}

// ChannelFor returns the channel id configured for a category, or "".
func (lc *LogChannels) ChannelFor(category string) string {
	switch category {
	case categoryDeletedMessages:
		return lc.DeletedMessagesChannelID
	case categoryEditedMessages:
		return lc.EditedMessagesChannelID
	case categoryVoiceActivity:
		return lc.VoiceActivityChannelID
	case categoryGuildActivity:
		return lc.GuildActivityChannelID
	case categoryMemberActivity:
		return lc.MemberActivityChannelID
	default:
		return ""
	}
}

func (lc *LogChannels) setChannel(category, id string) {
	switch category {
	case categoryDeletedMessages:
		lc.DeletedMessagesChannelID = id
	case categoryEditedMessages:
		lc.EditedMessagesChannelID = id
	case categoryVoiceActivity:
		lc.VoiceActivityChannelID = id
	case categoryGuildActivity:
		lc.GuildActivityChannelID = id
	case categoryMemberActivity:
		lc.MemberActivityChannelID = id
	}
}

// provisionLogChannels creates the hidden "Logs" category and one text
// channel per category, reusing same-named channels that already exist. The
// document is rewritten only when something was filled in.
func (b *Bot) provisionLogChannels(s *discordgo.Session, log *logger.Logger) error {
	updated := false

	if b.channels.LogCategoryID == "" {
		overwrites := []*discordgo.PermissionOverwrite{
			// @everyone (role id == guild id) cannot see the log channels.
			{
				ID:   b.guildID,
				Type: discordgo.PermissionOverwriteTypeRole,
				Deny: discordgo.PermissionViewChannel,
			},
		}
		if guild, err := s.Guild(b.guildID); err == nil {
			overwrites = append(overwrites, &discordgo.PermissionOverwrite{
				ID:    guild.OwnerID,
				Type:  discordgo.PermissionOverwriteTypeMember,
				Allow: discordgo.PermissionViewChannel,
			})
		}
		category, err := s.GuildChannelCreateComplex(b.guildID, discordgo.GuildChannelCreateData{
			Name:                 "Logs",
			Type:                 discordgo.ChannelTypeGuildCategory,
			PermissionOverwrites: overwrites,
		})
		if err != nil {
			return fmt.Errorf("create log category: %w", err)
		}
		b.channels.LogCategoryID = category.ID
		updated = true
	}

	existing, err := s.GuildChannels(b.guildID)
	if err != nil {
		return fmt.Errorf("list channels: %w", err)
	}
	byName := make(map[string]string, len(existing))
	for _, c := range existing {
		if c.Type == discordgo.ChannelTypeGuildText {
			byName[c.Name] = c.ID
		}
	}

	for category, name := range channelNames {
		if b.channels.ChannelFor(category) != "" {
			continue
		}
		if id, ok := byName[name]; ok {
			b.channels.setChannel(category, id)
			updated = true
			continue
		}
		channel, err := s.GuildChannelCreateComplex(b.guildID, discordgo.GuildChannelCreateData{
			Name:     name,
			Type:     discordgo.ChannelTypeGuildText,
			ParentID: b.channels.LogCategoryID,
		})
		if err != nil {
			return fmt.Errorf("create %s channel: %w", name, err)
		}
		b.channels.setChannel(category, channel.ID)
		updated = true
	}

	if updated {
		if err := b.channels.Save(); err != nil {
			return fmt.Errorf("save log channels config: %w", err)
		}
	}
	log.Info("log channels verified")
	return nil
}
