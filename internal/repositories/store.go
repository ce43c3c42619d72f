package repositories

import (
	"database/sql"
	"errors"
	"sort"

	"gorm.io/gorm"

	"github.com/m7mdxyz/discord-logger/internal/models"
)

// store is the gorm-backed Store. Each method runs as its own short-lived
// session; no state spans events.
type store struct {
	db *gorm.DB
}

// NewStore wraps the database handle in the Store gateway.
func NewStore(db *gorm.DB) Store {
	return &store{db: db}
}

func (s *store) UpsertMember(m *models.Member) (bool, error) {
	return s.upsert(&models.Member{}, m.ID, m)
}

func (s *store) UpsertChannel(c *models.Channel) (bool, error) {
	return s.upsert(&models.Channel{}, c.ID, c)
}

func (s *store) UpsertRole(r *models.Role) (bool, error) {
	return s.upsert(&models.Role{}, r.ID, r)
}

// upsert inserts value only when no row with the primary key exists. Existing
// rows are never overwritten, which is what makes bootstrap sync idempotent.
func (s *store) upsert(probe any, id string, value any) (bool, error) {
	err := s.db.Select("id").First(probe, "id = ?", id).Error
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return false, err
	}
	if err := s.db.Create(value).Error; err != nil {
		return false, err
	}
	return true, nil
}

func (s *store) InsertRole(r *models.Role) error {
	return s.db.Create(r).Error
}

func (s *store) InsertMessage(m *models.Message) error {
	return s.db.Create(m).Error
}

func (s *store) InsertDeletedMessage(d *models.DeletedMessage) error {
	return s.db.Create(d).Error
}

func (s *store) InsertEditedMessage(e *models.EditedMessage) error {
	return s.db.Create(e).Error
}

func (s *store) InsertVoiceActivity(v *models.VoiceActivity) error {
	return s.db.Create(v).Error
}

func (s *store) InsertGuildActivity(g *models.GuildActivity) error {
	return s.db.Create(g).Error
}

func (s *store) InsertMemberActivity(a *models.MemberActivity) error {
	return s.db.Create(a).Error
}

func (s *store) GetMember(id string) (*models.Member, error) {
	var m models.Member
	if err := s.db.First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (s *store) GetMessage(id string) (*models.Message, error) {
	var m models.Message
	if err := s.db.First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &m, nil
}

func (s *store) GetRole(id string) (*models.Role, error) {
	var r models.Role
	if err := s.db.First(&r, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &r, nil
}

func (s *store) MarkMessageEdited(id, content string) error {
	// Updates on zero rows is not an error; a missing message is a no-op.
	return s.db.Model(&models.Message{}).
		Where("id = ?", id).
		Updates(map[string]any{"content": content, "is_edited": true}).Error
}

func (s *store) UpdateMemberRoles(id string, rolesJSON string) error {
	return s.db.Model(&models.Member{}).
		Where("id = ?", id).
		Update("roles", rolesJSON).Error
}

func (s *store) UpdateRoleFields(id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	return s.db.Model(&models.Role{}).
		Where("id = ?", id).
		Updates(fields).Error
}

func (s *store) DeletedMessageViews(limit int) ([]DeletedMessageView, error) {
	var views []DeletedMessageView
	err := s.db.Table("deleted_messages").
		Select(`deleted_messages.message_id AS message_id,
			deleted_messages.content AS content,
			COALESCE(members.name, deleted_messages.member_id) AS member_name,
			COALESCE(members.avatar_url, '') AS member_avatar,
			COALESCE(channels.name, deleted_messages.channel_id) AS channel_name,
			messages.created_at AS sent_at,
			deleted_messages.deleted_at AS deleted_at`).
		Joins("LEFT JOIN messages ON messages.id = deleted_messages.message_id").
		Joins("LEFT JOIN members ON members.id = deleted_messages.member_id").
		Joins("LEFT JOIN channels ON channels.id = deleted_messages.channel_id").
		Order("deleted_messages.deleted_at DESC").
		Limit(limit).
		Scan(&views).Error
	return views, err
}

func (s *store) EditedMessageViews(limit int) ([]EditedMessageView, error) {
	var views []EditedMessageView
	err := s.db.Table("edited_messages").
		Select(`edited_messages.message_id AS message_id,
			edited_messages.content_before AS content_before,
			edited_messages.content_after AS content_after,
			COALESCE(members.name, '') AS member_name,
			COALESCE(members.avatar_url, '') AS member_avatar,
			COALESCE(channels.name, '') AS channel_name,
			edited_messages.edited_at AS edited_at`).
		Joins("LEFT JOIN messages ON messages.id = edited_messages.message_id").
		Joins("LEFT JOIN members ON members.id = messages.member_id").
		Joins("LEFT JOIN channels ON channels.id = messages.channel_id").
		Order("edited_messages.edited_at DESC").
		Limit(limit).
		Scan(&views).Error
	return views, err
}

func (s *store) VoiceActivityViews(limit int) ([]VoiceActivityView, error) {
	var views []VoiceActivityView
	err := s.db.Table("voice_activities").
		Select(`COALESCE(members.name, voice_activities.member_id) AS member_name,
			COALESCE(members.avatar_url, '') AS member_avatar,
			voice_activities.action AS action,
			COALESCE(from_channels.name, voice_activities.from_channel_id) AS from_channel,
			COALESCE(to_channels.name, voice_activities.to_channel_id) AS to_channel,
			voice_activities.details AS details,
			voice_activities.timestamp AS timestamp`).
		Joins("LEFT JOIN members ON members.id = voice_activities.member_id").
		Joins("LEFT JOIN channels AS from_channels ON from_channels.id = voice_activities.from_channel_id").
		Joins("LEFT JOIN channels AS to_channels ON to_channels.id = voice_activities.to_channel_id").
		Order("voice_activities.timestamp DESC").
		Limit(limit).
		Scan(&views).Error
	return views, err
}

func (s *store) MemberActivityViews(limit int) ([]MemberActivityView, error) {
	var guild []MemberActivityView
	err := s.db.Table("guild_activities").
		Select(`guild_activities.action AS action,
			COALESCE(members.name, guild_activities.member_id) AS member_name,
			COALESCE(members.avatar_url, '') AS member_avatar,
			'' AS role_name,
			guild_activities.timestamp AS timestamp`).
		Joins("LEFT JOIN members ON members.id = guild_activities.member_id").
		Order("guild_activities.timestamp DESC").
		Limit(limit).
		Scan(&guild).Error
	if err != nil {
		return nil, err
	}

	var member []MemberActivityView
	err = s.db.Table("member_activities").
		Select(`member_activities.action AS action,
			COALESCE(members.name, member_activities.member_id) AS member_name,
			COALESCE(members.avatar_url, '') AS member_avatar,
			COALESCE(roles.name, member_activities.role_id) AS role_name,
			member_activities.timestamp AS timestamp`).
		Joins("LEFT JOIN members ON members.id = member_activities.member_id").
		Joins("LEFT JOIN roles ON roles.id = member_activities.role_id").
		Order("member_activities.timestamp DESC").
		Limit(limit).
		Scan(&member).Error
	if err != nil {
		return nil, err
	}

	merged := append(guild, member...)
	sort.Slice(merged, func(i, j int) bool {
		return merged[i].Timestamp.After(merged[j].Timestamp)
	})
	if limit > 0 && len(merged) > limit {
		merged = merged[:limit]
	}
	return merged, nil
}

func (s *store) Stats() (*Stats, error) {
	stats := &Stats{}

	journals := []struct {
		model  any
		column string
	}{
		{&models.DeletedMessage{}, "deleted_at"},
		{&models.EditedMessage{}, "edited_at"},
		{&models.VoiceActivity{}, "timestamp"},
		{&models.GuildActivity{}, "timestamp"},
		{&models.MemberActivity{}, "timestamp"},
	}

	for _, j := range journals {
		var count int64
		if err := s.db.Model(j.model).Count(&count).Error; err != nil {
			return nil, err
		}
		stats.TotalEntries += count

		var last sql.NullTime
		row := s.db.Model(j.model).Select("MAX(" + j.column + ")").Row()
		if err := row.Scan(&last); err != nil {
			return nil, err
		}
		if last.Valid && (stats.LastEvent == nil || last.Time.After(*stats.LastEvent)) {
			t := last.Time
			stats.LastEvent = &t
		}
	}
	return stats, nil
}
