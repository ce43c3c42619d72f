package bot

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/m7mdxyz/discord-logger/internal/models"
	logger "github.com/m7mdxyz/discord-logger/middleware/log"
)

// bootstrapSync catches the store up with the guild's current members,
// channels and roles. Upsert semantics keep it idempotent: rows that already
// exist are skipped, never overwritten.
func (b *Bot) bootstrapSync(s *discordgo.Session, log *logger.Logger) {
	start := b.now()

	members := 0
	after := ""
	for {
		page, err := s.GuildMembers(b.guildID, after, 1000)
		if err != nil {
			log.Error("list guild members failed", zap.Error(err))
			break
		}
		if len(page) == 0 {
			break
		}
		for _, m := range page {
			if m.User.Bot {
				continue
			}
			if created, err := b.store.UpsertMember(memberModel(m)); err != nil {
				log.Error("sync member failed", zap.String("member_id", m.User.ID), zap.Error(err))
			} else if created {
				members++
			}
		}
		after = page[len(page)-1].User.ID
		if len(page) < 1000 {
			break
		}
	}

	channels := 0
	guildChannels, err := s.GuildChannels(b.guildID)
	if err != nil {
		log.Error("list guild channels failed", zap.Error(err))
	}
	for _, c := range guildChannels {
		if created, err := b.store.UpsertChannel(channelModel(c)); err != nil {
			log.Error("sync channel failed", zap.String("channel_id", c.ID), zap.Error(err))
		} else if created {
			channels++
		}
	}

	roles := 0
	guildRoles, err := s.GuildRoles(b.guildID)
	if err != nil {
		log.Error("list guild roles failed", zap.Error(err))
	}
	for _, r := range guildRoles {
		if created, err := b.store.UpsertRole(roleModel(r)); err != nil {
			log.Error("sync role failed", zap.String("role_id", r.ID), zap.Error(err))
		} else if created {
			roles++
		}
	}

	log.Info("bootstrap sync done",
		zap.Int("new_members", members),
		zap.Int("new_channels", channels),
		zap.Int("new_roles", roles),
		zap.Duration("took", b.now().Sub(start)))
}

// memberModel maps a platform member to its row. The account creation time
// comes from the id's snowflake timestamp.
func memberModel(m *discordgo.Member) *models.Member {
	member := &models.Member{
		ID:         m.User.ID,
		Name:       m.User.Username,
		GlobalName: m.User.GlobalName,
		AvatarURL:  m.User.AvatarURL(""),
		CreatedAt:  userCreatedAt(m.User.ID),
	}
	member.SetRoleIDs(m.Roles)
	return member
}

func channelModel(c *discordgo.Channel) *models.Channel {
	return &models.Channel{
		ID:   c.ID,
		Name: c.Name,
		Type: channelTypeName(c.Type),
	}
}

func roleModel(r *discordgo.Role) *models.Role {
	created, _ := discordgo.SnowflakeTimestamp(r.ID)
	return &models.Role{
		ID:          r.ID,
		Name:        r.Name,
		Color:       fmt.Sprintf("%06x", r.Color),
		Permissions: r.Permissions,
		CreatedAt:   created,
	}
}

func userCreatedAt(id string) time.Time {
	created, err := discordgo.SnowflakeTimestamp(id)
	if err != nil {
		return time.Time{}
	}
	return created
}

func channelTypeName(t discordgo.ChannelType) string {
	switch t {
	case discordgo.ChannelTypeGuildText:
		return "text"
	case discordgo.ChannelTypeGuildVoice:
		return "voice"
	case discordgo.ChannelTypeGuildCategory:
		return "category"
	case discordgo.ChannelTypeGuildNews:
		return "news"
	case discordgo.ChannelTypeGuildStageVoice:
		return "stage"
	case discordgo.ChannelTypeGuildForum:
		return "forum"
	default:
		return fmt.Sprintf("type_%d", int(t))
	}
}
