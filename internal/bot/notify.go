package bot

import (
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/m7mdxyz/discord-logger/internal/models"
	logger "github.com/m7mdxyz/discord-logger/middleware/log"
)

const timestampLayout = "2006-01-02 15:04:05 UTC"

const (
	colorRed       = 0xED4245
	colorGreen     = 0x57F287
	colorBlue      = 0x3498DB
	colorOrange    = 0xE67E22
	colorGold      = 0xF1C40F
	colorMagenta   = 0xE91E63
	colorPurple    = 0x9B59B6
	colorTeal      = 0x1ABC9C
	colorDarkTeal  = 0x11806A
	colorDarkGreen = 0x1F8B4C
	colorDarkRed   = 0x992D22
	colorDarkGrey  = 0x607D8B
	colorLightGrey = 0x979C9F
)

// notify sends an embed to the channel configured for the category. It runs
// after the store write and is best effort: permission and transport failures
// are logged and dropped, never retried or propagated.
func (b *Bot) notify(log *logger.Logger, category string, embed *discordgo.MessageEmbed) {
	if !b.cfg.LogToDiscord || b.channels == nil || embed == nil {
		return
	}
	channelID := b.channels.ChannelFor(category)
	if channelID == "" {
		log.Warn("no log channel configured", zap.String("category", category))
		return
	}

	if _, err := b.session.ChannelMessageSendEmbed(channelID, embed); err != nil {
		if isMissingPermissions(err) {
			log.Warn("missing permissions to send in log channel",
				zap.String("channel_id", channelID))
			return
		}
		log.Warn("send log message failed",
			zap.String("channel_id", channelID), zap.Error(err))
	}
}

func isMissingPermissions(err error) bool {
	var restErr *discordgo.RESTError
	if errors.As(err, &restErr) && restErr.Message != nil {
		return restErr.Message.Code == discordgo.ErrCodeMissingPermissions ||
			restErr.Message.Code == discordgo.ErrCodeMissingAccess
	}
	return false
}

func (b *Bot) deletionEmbed(record *models.DeletedMessage, stored *models.Message) *discordgo.MessageEmbed {
	content := record.Content
	if content == "" {
		content = "*(unknown, message was not logged)*"
	} else {
		content = fmt.Sprintf("```\n%s\n```", content)
	}

	embed := &discordgo.MessageEmbed{
		Title:       "Message Deleted",
		Description: "**Content:**\n" + content,
		Color:       colorRed,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Channel", Value: channelMention(record.ChannelID), Inline: true},
			{Name: "Message ID", Value: record.MessageID, Inline: true},
		},
	}
	if record.MemberID != "" {
		embed.Fields = append(embed.Fields,
			&discordgo.MessageEmbedField{Name: "Author ID", Value: record.MemberID, Inline: true})
	}
	if stored != nil {
		embed.Fields = append(embed.Fields,
			&discordgo.MessageEmbedField{Name: "Sent at", Value: stored.CreatedAt.UTC().Format(timestampLayout)})
	}
	embed.Fields = append(embed.Fields,
		&discordgo.MessageEmbedField{Name: "Deleted at", Value: record.DeletedAt.UTC().Format(timestampLayout)})
	return embed
}

func (b *Bot) editEmbed(m *discordgo.MessageUpdate, record *models.EditedMessage) *discordgo.MessageEmbed {
	before := "*(No content)*"
	if record.ContentBefore != "" {
		before = fmt.Sprintf("```%s```", record.ContentBefore)
	}
	after := "*(No content)*"
	if record.ContentAfter != "" {
		after = fmt.Sprintf("```%s```", record.ContentAfter)
	}

	embed := &discordgo.MessageEmbed{
		Title: "Message Edited",
		Color: colorBlue,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Channel", Value: channelMention(m.ChannelID), Inline: true},
			{Name: "Message ID", Value: m.ID, Inline: true},
			{Name: "Author ID", Value: m.Author.ID, Inline: true},
			{Name: "Before", Value: before},
			{Name: "After", Value: after},
			{Name: "Edited at", Value: record.EditedAt.UTC().Format(timestampLayout)},
			{Name: "Jump to Message", Value: fmt.Sprintf("[Click Here](https://discord.com/channels/%s/%s/%s)", m.GuildID, m.ChannelID, m.ID)},
		},
	}
	embed.Author = &discordgo.MessageEmbedAuthor{
		Name:    fmt.Sprintf("%s (%s)", m.Author.GlobalName, m.Author.Username),
		IconURL: m.Author.AvatarURL(""),
	}
	return embed
}

// voiceActions maps each classifier action to its embed title verb and color.
var voiceActions = map[string]struct {
	verb  string
	color int
}{
	models.VoiceJoin:         {"joined voice channel", colorGreen},
	models.VoiceLeave:        {"left voice channel", colorRed},
	models.VoiceMove:         {"moved voice channels", colorBlue},
	models.VoiceMute:         {"was server muted", colorOrange},
	models.VoiceUnmute:       {"was server unmuted", colorDarkGreen},
	models.VoiceDeafen:       {"was server deafened", colorDarkRed},
	models.VoiceUndeafen:     {"was server undeafened", colorPurple},
	models.VoiceSelfMute:     {"self-muted", colorGold},
	models.VoiceSelfUnmute:   {"self-unmuted", colorMagenta},
	models.VoiceSelfDeafen:   {"self-deafened", colorDarkGrey},
	models.VoiceSelfUndeafen: {"self-undeafened", colorLightGrey},
	models.VideoStart:        {"started video", colorTeal},
	models.VideoStop:         {"stopped video", colorDarkTeal},
	models.StreamingStart:    {"started streaming", colorRed},
	models.StreamingStop:     {"stopped streaming", colorDarkRed},
}

func (b *Bot) voiceEmbed(v *discordgo.VoiceStateUpdate, transition VoiceTransition, ts time.Time) *discordgo.MessageEmbed {
	action, ok := voiceActions[transition.Action]
	if !ok {
		return nil
	}

	name := v.UserID
	var iconURL string
	if v.Member != nil && v.Member.User != nil {
		name = displayName(v.Member)
		iconURL = v.Member.User.AvatarURL("")
	}

	var description string
	switch transition.Action {
	case models.VoiceJoin:
		description = "**Channel:** " + channelMention(transition.ToChannelID)
	case models.VoiceLeave:
		description = "**Channel:** " + channelMention(transition.FromChannelID)
	case models.VoiceMove:
		description = fmt.Sprintf("**From:** %s\n**To:** %s",
			channelMention(transition.FromChannelID), channelMention(transition.ToChannelID))
	default:
		if v.ChannelID != "" {
			description = "**Channel:** " + channelMention(v.ChannelID)
		}
	}

	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s %s", name, action.verb),
		Description: description,
		Color:       action.color,
		Author:      &discordgo.MessageEmbedAuthor{Name: name, IconURL: iconURL},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User ID", Value: v.UserID, Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("ID: %s • %s", v.UserID, ts.UTC().Format(timestampLayout)),
		},
	}
}

func (b *Bot) joinEmbed(user *discordgo.User, now time.Time) *discordgo.MessageEmbed {
	age := formatAccountAge(userCreatedAt(user.ID), now)
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s joined the server", user.Username),
		Description: fmt.Sprintf("**Account age:** %s", age),
		Color:       colorGreen,
		Author:      &discordgo.MessageEmbedAuthor{Name: user.Username, IconURL: user.AvatarURL("")},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User ID", Value: user.ID, Inline: true},
			{Name: "Joined at", Value: now.UTC().Format(timestampLayout), Inline: true},
		},
	}
}

func (b *Bot) leaveEmbed(user *discordgo.User, ts time.Time) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:  fmt.Sprintf("%s left the server", user.Username),
		Color:  colorRed,
		Author: &discordgo.MessageEmbedAuthor{Name: user.Username, IconURL: user.AvatarURL("")},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User ID", Value: user.ID, Inline: true},
			{Name: "Left at", Value: ts.UTC().Format(timestampLayout), Inline: true},
		},
	}
}

func (b *Bot) banEmbed(user *discordgo.User, action string, ts time.Time) *discordgo.MessageEmbed {
	title := fmt.Sprintf("%s was banned", user.Username)
	color := colorDarkRed
	if action == models.GuildUnban {
		title = fmt.Sprintf("%s was unbanned", user.Username)
		color = colorDarkGreen
	}
	return &discordgo.MessageEmbed{
		Title:  title,
		Color:  color,
		Author: &discordgo.MessageEmbedAuthor{Name: user.Username, IconURL: user.AvatarURL("")},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User ID", Value: user.ID, Inline: true},
			{Name: "At", Value: ts.UTC().Format(timestampLayout), Inline: true},
		},
	}
}

func (b *Bot) roleChangeEmbed(member *models.Member, action, roleID string, ts time.Time) *discordgo.MessageEmbed {
	verb := "was given role"
	color := colorGreen
	if action == models.RoleRemoved {
		verb = "lost role"
		color = colorOrange
	}
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("%s %s", member.Name, verb),
		Description: "**Role:** " + roleMention(roleID),
		Color:       color,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User ID", Value: member.ID, Inline: true},
			{Name: "Role ID", Value: roleID, Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("ID: %s • %s", member.ID, ts.UTC().Format(timestampLayout)),
		},
	}
}

func (b *Bot) timeoutEmbed(user *discordgo.User, text string, color int) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:  fmt.Sprintf("%s %s", user.Username, text),
		Color:  color,
		Author: &discordgo.MessageEmbedAuthor{Name: user.Username, IconURL: user.AvatarURL("")},
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User ID", Value: user.ID, Inline: true},
		},
	}
}

func displayName(m *discordgo.Member) string {
	if m.Nick != "" {
		return m.Nick
	}
	if m.User.GlobalName != "" {
		return m.User.GlobalName
	}
	return m.User.Username
}

func channelMention(id string) string {
	if id == "" {
		return "N/A"
	}
	return "<#" + id + ">"
}

func roleMention(id string) string {
	return "<@&" + id + ">"
}
