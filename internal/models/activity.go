package models

import "time"

// Voice activity actions produced by the voice-state classifier.
const (
	VoiceJoin         = "voice_join"
	VoiceLeave        = "voice_leave"
	VoiceMove         = "voice_move"
	VoiceMute         = "voice_mute"
	VoiceUnmute       = "voice_unmute"
	VoiceDeafen       = "voice_deafen"
	VoiceUndeafen     = "voice_undeafen"
	VoiceSelfMute     = "voice_self_mute"
	VoiceSelfUnmute   = "voice_self_unmute"
	VoiceSelfDeafen   = "voice_self_deafen"
	VoiceSelfUndeafen = "voice_self_undeafen"
	VideoStart        = "video_start"
	VideoStop         = "video_stop"
	StreamingStart    = "streaming_start"
	StreamingStop     = "streaming_stop"
)

// Guild activity actions.
const (
	GuildJoin  = "join"
	GuildLeave = "leave"
	GuildBan   = "ban"
	GuildUnban = "unban"
)

// Member activity actions.
const (
	RoleAdded   = "role_added"
	RoleRemoved = "role_removed"
)

// VoiceActivity journals one classified voice-state transition. From/to
// channel ids are filled per action; flag toggles carry the new flag value in
// the Details JSON blob.
type VoiceActivity struct {
	ID            uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	MemberID      string `gorm:"index;type:varchar(64)" json:"member_id"`
	Action        string `gorm:"type:varchar(64)" json:"action"`
	FromChannelID string `gorm:"type:varchar(64)" json:"from_channel_id"`
	ToChannelID   string `gorm:"type:varchar(64)" json:"to_channel_id"`
	Details       string `gorm:"type:text" json:"details"`

	Timestamp time.Time `gorm:"index" json:"timestamp"`
}

func (VoiceActivity) TableName() string {
	return "voice_activities"
}

// GuildActivity journals joins, leaves/kicks, bans and unbans. For bans the
// member id may belong to a user who was never a member.
type GuildActivity struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Action   string `gorm:"type:varchar(64)" json:"action"`
	MemberID string `gorm:"index;type:varchar(64)" json:"member_id"`

	Timestamp time.Time `gorm:"index" json:"timestamp"`
}

func (GuildActivity) TableName() string {
	return "guild_activities"
}

// MemberActivity journals role grants and removals, one row per role change.
type MemberActivity struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Action   string `gorm:"type:varchar(64)" json:"action"`
	MemberID string `gorm:"index;type:varchar(64)" json:"member_id"`
	RoleID   string `gorm:"type:varchar(64)" json:"role_id"`

	Timestamp time.Time `gorm:"index" json:"timestamp"`
}

func (MemberActivity) TableName() string {
	return "member_activities"
}
