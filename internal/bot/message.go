package bot

import (
	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/m7mdxyz/discord-logger/internal/models"
)

func (b *Bot) onMessageCreate(_ *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.ID == b.selfID || m.GuildID == "" {
		return
	}
	log := b.logger.WithEvent("message_create")

	msg := &models.Message{
		ID:        m.ID,
		MemberID:  m.Author.ID,
		ChannelID: m.ChannelID,
		Content:   m.Content,
		CreatedAt: m.Timestamp,
	}
	if err := b.store.InsertMessage(msg); err != nil {
		log.Error("insert message failed", zap.String("message_id", m.ID), zap.Error(err))
	}
}

func (b *Bot) onMessageDelete(_ *discordgo.Session, m *discordgo.MessageDelete) {
	if m.GuildID == "" {
		return
	}
	log := b.logger.WithEvent("message_delete")
	deletedAt := b.now()

	// The delete payload carries only ids; recover the snapshot from the
	// stored row, falling back to the session state cache.
	stored, err := b.store.GetMessage(m.ID)
	if err != nil {
		log.Error("lookup deleted message failed", zap.String("message_id", m.ID), zap.Error(err))
	}

	record := &models.DeletedMessage{
		MessageID: m.ID,
		ChannelID: m.ChannelID,
		DeletedAt: deletedAt,
	}
	if stored != nil {
		record.MemberID = stored.MemberID
		record.Content = stored.Content
	} else if m.BeforeDelete != nil && m.BeforeDelete.Author != nil {
		record.MemberID = m.BeforeDelete.Author.ID
		record.Content = m.BeforeDelete.Content
	}
	if record.MemberID == b.selfID && b.selfID != "" {
		return
	}

	if err := b.store.InsertDeletedMessage(record); err != nil {
		log.Error("insert deleted message failed", zap.String("message_id", m.ID), zap.Error(err))
		return
	}

	b.notify(log, categoryDeletedMessages, b.deletionEmbed(record, stored))
}

func (b *Bot) onMessageUpdate(_ *discordgo.Session, m *discordgo.MessageUpdate) {
	// Edits without an author are embed unfurls and similar non-content
	// updates pushed by the platform itself.
	if m.Author == nil || m.Author.ID == b.selfID || m.GuildID == "" {
		return
	}
	log := b.logger.WithEvent("message_update")
	editedAt := b.now()

	var before string
	if m.BeforeUpdate != nil {
		before = m.BeforeUpdate.Content
	} else if stored, err := b.store.GetMessage(m.ID); err != nil {
		log.Error("lookup edited message failed", zap.String("message_id", m.ID), zap.Error(err))
	} else if stored != nil {
		before = stored.Content
	}

	if before == m.Content {
		return
	}

	record := &models.EditedMessage{
		MessageID:     m.ID,
		ContentBefore: before,
		ContentAfter:  m.Content,
		EditedAt:      editedAt,
	}
	if err := b.store.InsertEditedMessage(record); err != nil {
		log.Error("insert edited message failed", zap.String("message_id", m.ID), zap.Error(err))
		return
	}

	if err := b.store.MarkMessageEdited(m.ID, m.Content); err != nil {
		log.Error("update message content failed", zap.String("message_id", m.ID), zap.Error(err))
	}

	b.notify(log, categoryEditedMessages, b.editEmbed(m, record))
}
