package models

import "time"

// Message is keyed by the platform message id. Content is updated in place on
// edit; the full edit history lives in EditedMessage.
type Message struct {
	ID        string `gorm:"primaryKey;type:varchar(64)" json:"id"`
	MemberID  string `gorm:"index;type:varchar(64)" json:"member_id"`
	ChannelID string `gorm:"index;type:varchar(64)" json:"channel_id"`
	Content   string `gorm:"type:text" json:"content"`
	IsEdited  bool   `gorm:"default:false" json:"is_edited"`

	CreatedAt time.Time `json:"created_at"`
}

func (Message) TableName() string {
	return "messages"
}

// DeletedMessage is an append-only journal row, one per delete event. The
// content snapshot is carried here because the Message row may predate the
// bot and be absent.
type DeletedMessage struct {
	ID        uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	MessageID string `gorm:"index;type:varchar(64)" json:"message_id"`
	MemberID  string `gorm:"type:varchar(64)" json:"member_id"`
	ChannelID string `gorm:"type:varchar(64)" json:"channel_id"`
	Content   string `gorm:"type:text" json:"content"`

	DeletedAt time.Time `json:"deleted_at"`
}

func (DeletedMessage) TableName() string {
	return "deleted_messages"
}

// EditedMessage is an append-only journal row, one per edit event.
type EditedMessage struct {
	ID            uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	MessageID     string `gorm:"index;type:varchar(64)" json:"message_id"`
	ContentBefore string `gorm:"type:text" json:"content_before"`
	ContentAfter  string `gorm:"type:text" json:"content_after"`

	EditedAt time.Time `json:"edited_at"`
}

func (EditedMessage) TableName() string {
	return "edited_messages"
}
