package bot

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

func (b *Bot) onGuildRoleCreate(_ *discordgo.Session, e *discordgo.GuildRoleCreate) {
	if e.Role == nil {
		return
	}
	log := b.logger.WithEvent("guild_role_create")

	if err := b.store.InsertRole(roleModel(e.Role)); err != nil {
		log.Error("insert role failed", zap.String("role_id", e.Role.ID), zap.Error(err))
		return
	}
	log.Info("role created", zap.String("role_id", e.Role.ID), zap.String("name", e.Role.Name))
}

func (b *Bot) onGuildRoleUpdate(_ *discordgo.Session, e *discordgo.GuildRoleUpdate) {
	if e.Role == nil {
		return
	}
	log := b.logger.WithEvent("guild_role_update")

	stored, err := b.store.GetRole(e.Role.ID)
	if err != nil {
		log.Error("lookup role failed", zap.String("role_id", e.Role.ID), zap.Error(err))
		return
	}
	if stored == nil {
		// Role predates the bot; record it as-is.
		if _, err := b.store.UpsertRole(roleModel(e.Role)); err != nil {
			log.Error("upsert role failed", zap.String("role_id", e.Role.ID), zap.Error(err))
		}
		return
	}

	// Patch only the attributes that actually changed.
	fields := map[string]any{}
	if stored.Name != e.Role.Name {
		fields["name"] = e.Role.Name
	}
	if color := fmt.Sprintf("%06x", e.Role.Color); stored.Color != color {
		fields["color"] = color
	}
	if stored.Permissions != e.Role.Permissions {
		fields["permissions"] = e.Role.Permissions
	}
	if len(fields) == 0 {
		return
	}

	if err := b.store.UpdateRoleFields(e.Role.ID, fields); err != nil {
		log.Error("update role failed", zap.String("role_id", e.Role.ID), zap.Error(err))
		return
	}
	log.Info("role updated", zap.String("role_id", e.Role.ID), zap.Int("changed_fields", len(fields)))
}

// Role rows are historical record; deletion on the platform side does not
// delete the row.
func (b *Bot) onGuildRoleDelete(_ *discordgo.Session, e *discordgo.GuildRoleDelete) {
	b.logger.WithEvent("guild_role_delete").
		Info("role deleted, row retained", zap.String("role_id", e.RoleID))
}
