package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/m7mdxyz/discord-logger/internal/models"
	logger "github.com/m7mdxyz/discord-logger/middleware/log"
)

func (b *Bot) onGuildMemberAdd(_ *discordgo.Session, e *discordgo.GuildMemberAdd) {
	if e.User == nil || e.User.Bot {
		return
	}
	log := b.logger.WithEvent("guild_member_add")
	joinedAt := b.now()

	// Upsert: a returning member keeps the row from their previous stay.
	if _, err := b.store.UpsertMember(memberModel(e.Member)); err != nil {
		log.Error("upsert member failed", zap.String("member_id", e.User.ID), zap.Error(err))
	}

	record := &models.GuildActivity{
		Action:    models.GuildJoin,
		MemberID:  e.User.ID,
		Timestamp: joinedAt,
	}
	if err := b.store.InsertGuildActivity(record); err != nil {
		log.Error("insert guild activity failed", zap.String("member_id", e.User.ID), zap.Error(err))
		return
	}

	b.notify(log, categoryGuildActivity, b.joinEmbed(e.User, joinedAt))
}

func (b *Bot) onGuildMemberRemove(_ *discordgo.Session, e *discordgo.GuildMemberRemove) {
	if e.User == nil || e.User.Bot {
		return
	}
	log := b.logger.WithEvent("guild_member_remove")

	record := &models.GuildActivity{
		Action:    models.GuildLeave,
		MemberID:  e.User.ID,
		Timestamp: b.now(),
	}
	if err := b.store.InsertGuildActivity(record); err != nil {
		log.Error("insert guild activity failed", zap.String("member_id", e.User.ID), zap.Error(err))
		return
	}

	b.notify(log, categoryGuildActivity, b.leaveEmbed(e.User, record.Timestamp))
}

func (b *Bot) onGuildMemberUpdate(_ *discordgo.Session, e *discordgo.GuildMemberUpdate) {
	if e.User == nil || e.User.Bot {
		return
	}
	log := b.logger.WithEvent("guild_member_update")
	now := b.now()

	stored, err := b.store.GetMember(e.User.ID)
	if err != nil {
		log.Error("lookup member failed", zap.String("member_id", e.User.ID), zap.Error(err))
		return
	}
	if stored == nil {
		// First observation of this member; record them with the new role
		// set, nothing to diff against.
		if _, err := b.store.UpsertMember(memberModel(e.Member)); err != nil {
			log.Error("upsert member failed", zap.String("member_id", e.User.ID), zap.Error(err))
		}
		return
	}

	// The event's before snapshot is only populated with state tracking;
	// the stored role list is the fallback baseline.
	beforeRoles := stored.RoleIDs()
	if e.BeforeUpdate != nil {
		beforeRoles = e.BeforeUpdate.Roles
	}
	added, removed := diffRoles(beforeRoles, e.Roles)

	// Both sets are journaled: one row and one stored-list mutation per
	// changed role, additions first.
	current := beforeRoles
	for _, roleID := range added {
		current = append(current, roleID)
		b.recordRoleChange(log, stored, models.RoleAdded, roleID, current, now)
	}
	for _, roleID := range removed {
		current = withoutRole(current, roleID)
		b.recordRoleChange(log, stored, models.RoleRemoved, roleID, current, now)
	}

	if e.BeforeUpdate != nil {
		b.checkTimeout(log, e, now)
	}
}

func (b *Bot) recordRoleChange(log *logger.Logger, member *models.Member, action, roleID string, current []string, now time.Time) {
	member.SetRoleIDs(current)
	if err := b.store.UpdateMemberRoles(member.ID, member.Roles); err != nil {
		log.Error("update member roles failed", zap.String("member_id", member.ID), zap.Error(err))
	}

	record := &models.MemberActivity{
		Action:    action,
		MemberID:  member.ID,
		RoleID:    roleID,
		Timestamp: now,
	}
	if err := b.store.InsertMemberActivity(record); err != nil {
		log.Error("insert member activity failed",
			zap.String("member_id", member.ID),
			zap.String("role_id", roleID),
			zap.Error(err))
		return
	}

	b.notify(log, categoryMemberActivity, b.roleChangeEmbed(member, action, roleID, now))
}

// checkTimeout reports timeout transitions. They are notification-only;
// nothing is persisted for them.
func (b *Bot) checkTimeout(log *logger.Logger, e *discordgo.GuildMemberUpdate, now time.Time) {
	before := e.BeforeUpdate.CommunicationDisabledUntil
	after := e.CommunicationDisabledUntil

	beforeActive := before != nil && before.After(now)
	afterActive := after != nil && after.After(now)

	switch {
	case !beforeActive && afterActive:
		remaining := after.Sub(now).Round(time.Second)
		b.notify(log, categoryMemberActivity,
			b.timeoutEmbed(e.User, fmt.Sprintf("timed out for %s", remaining), colorOrange))
	case beforeActive && !afterActive:
		b.notify(log, categoryMemberActivity,
			b.timeoutEmbed(e.User, "timeout removed", colorGreen))
	}
}

func (b *Bot) onGuildBanAdd(_ *discordgo.Session, e *discordgo.GuildBanAdd) {
	if e.User == nil {
		return
	}
	log := b.logger.WithEvent("guild_ban_add")

	// The banned user need not be a member; the journal keys on the user id.
	record := &models.GuildActivity{
		Action:    models.GuildBan,
		MemberID:  e.User.ID,
		Timestamp: b.now(),
	}
	if err := b.store.InsertGuildActivity(record); err != nil {
		log.Error("insert guild activity failed", zap.String("member_id", e.User.ID), zap.Error(err))
		return
	}

	b.notify(log, categoryGuildActivity, b.banEmbed(e.User, models.GuildBan, record.Timestamp))
}

func (b *Bot) onGuildBanRemove(_ *discordgo.Session, e *discordgo.GuildBanRemove) {
	if e.User == nil {
		return
	}
	log := b.logger.WithEvent("guild_ban_remove")

	record := &models.GuildActivity{
		Action:    models.GuildUnban,
		MemberID:  e.User.ID,
		Timestamp: b.now(),
	}
	if err := b.store.InsertGuildActivity(record); err != nil {
		log.Error("insert guild activity failed", zap.String("member_id", e.User.ID), zap.Error(err))
		return
	}

	b.notify(log, categoryGuildActivity, b.banEmbed(e.User, models.GuildUnban, record.Timestamp))
}

// diffRoles computes added = after - before and removed = before - after by
// role id, preserving the input order.
func diffRoles(before, after []string) (added, removed []string) {
	beforeSet := make(map[string]struct{}, len(before))
	for _, id := range before {
		beforeSet[id] = struct{}{}
	}
	afterSet := make(map[string]struct{}, len(after))
	for _, id := range after {
		afterSet[id] = struct{}{}
	}

	for _, id := range after {
		if _, ok := beforeSet[id]; !ok {
			added = append(added, id)
		}
	}
	for _, id := range before {
		if _, ok := afterSet[id]; !ok {
			removed = append(removed, id)
		}
	}
	return added, removed
}

func withoutRole(roles []string, roleID string) []string {
	out := roles[:0:0]
	for _, id := range roles {
		if id != roleID {
			out = append(out, id)
		}
	}
	return out
}

// formatAccountAge renders the age of an account as floor years/months/days,
// using the 365/30-day approximations.
func formatAccountAge(created, now time.Time) string {
	days := int(now.Sub(created).Hours() / 24)
	if days < 0 {
		days = 0
	}
	years := days / 365
	days %= 365
	months := days / 30
	days %= 30

	var parts []string
	if years > 0 {
		parts = append(parts, plural(years, "year"))
	}
	if months > 0 {
		parts = append(parts, plural(months, "month"))
	}
	if days > 0 || len(parts) == 0 {
		parts = append(parts, plural(days, "day"))
	}
	return strings.Join(parts, ", ")
}

func plural(n int, unit string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", unit)
	}
	return fmt.Sprintf("%d %ss", n, unit)
}
