package repositories

import (
	"time"

	"github.com/m7mdxyz/discord-logger/internal/models"
)

// Store is the single seam between the event handlers, the dashboard and the
// database. Every handler opens at most one short-lived session per event
// through it; tests substitute an in-memory implementation.
type Store interface {
	// Upserts insert if no row with the primary key exists and otherwise
	// leave the existing row untouched.
	UpsertMember(m *models.Member) (created bool, err error)
	UpsertChannel(c *models.Channel) (created bool, err error)
	UpsertRole(r *models.Role) (created bool, err error)

	InsertRole(r *models.Role) error
	InsertMessage(m *models.Message) error
	InsertDeletedMessage(d *models.DeletedMessage) error
	InsertEditedMessage(e *models.EditedMessage) error
	InsertVoiceActivity(v *models.VoiceActivity) error
	InsertGuildActivity(g *models.GuildActivity) error
	InsertMemberActivity(a *models.MemberActivity) error

	// Lookups return (nil, nil) when no row matches; a miss is not an error.
	GetMember(id string) (*models.Member, error)
	GetMessage(id string) (*models.Message, error)
	GetRole(id string) (*models.Role, error)

	// MarkMessageEdited updates content and the is_edited flag of an
	// existing Message row; a missing row is a silent no-op.
	MarkMessageEdited(id, content string) error
	UpdateMemberRoles(id string, rolesJSON string) error
	UpdateRoleFields(id string, fields map[string]any) error

	// Dashboard reads, newest first.
	DeletedMessageViews(limit int) ([]DeletedMessageView, error)
	EditedMessageViews(limit int) ([]EditedMessageView, error)
	VoiceActivityViews(limit int) ([]VoiceActivityView, error)
	MemberActivityViews(limit int) ([]MemberActivityView, error)
	Stats() (*Stats, error)
}

// DeletedMessageView is a deleted_messages row joined to the author, channel
// and original message for display.
type DeletedMessageView struct {
	MessageID    string
	Content      string
	MemberName   string
	MemberAvatar string
	ChannelName  string
	SentAt       *time.Time // nil when the original message was never logged
	DeletedAt    time.Time
}

type EditedMessageView struct {
	MessageID     string
	ContentBefore string
	ContentAfter  string
	MemberName    string
	MemberAvatar  string
	ChannelName   string
	EditedAt      time.Time
}

type VoiceActivityView struct {
	MemberName   string
	MemberAvatar string
	Action       string
	FromChannel  string
	ToChannel    string
	Details      string
	Timestamp    time.Time
}

// MemberActivityView merges the guild journal (join/leave/ban/unban) and the
// member journal (role changes); RoleName is empty for guild rows.
type MemberActivityView struct {
	Action       string
	MemberName   string
	MemberAvatar string
	RoleName     string
	Timestamp    time.Time
}

// Stats backs the dashboard homepage: total rows across the five journals and
// the single most recent journal timestamp.
type Stats struct {
	TotalEntries int64
	LastEvent    *time.Time
}
