package bot

import (
	"testing"
	"time"

	"github.com/m7mdxyz/discord-logger/config"
	"github.com/m7mdxyz/discord-logger/internal/models"
	"github.com/m7mdxyz/discord-logger/internal/repositories"
	logger "github.com/m7mdxyz/discord-logger/middleware/log"
)

// memStore is an in-memory Store for handler tests.
type memStore struct {
	members  map[string]*models.Member
	channels map[string]*models.Channel
	roles    map[string]*models.Role
	messages map[string]*models.Message

	deleted []models.DeletedMessage
	edited  []models.EditedMessage
	voice   []models.VoiceActivity
	guild   []models.GuildActivity
	member  []models.MemberActivity
}

func newMemStore() *memStore {
	return &memStore{
		members:  map[string]*models.Member{},
		channels: map[string]*models.Channel{},
		roles:    map[string]*models.Role{},
		messages: map[string]*models.Message{},
	}
}

func (s *memStore) UpsertMember(m *models.Member) (bool, error) {
	if _, ok := s.members[m.ID]; ok {
		return false, nil
	}
	clone := *m
	s.members[m.ID] = &clone
	return true, nil
}

func (s *memStore) UpsertChannel(c *models.Channel) (bool, error) {
	if _, ok := s.channels[c.ID]; ok {
		return false, nil
	}
	clone := *c
	s.channels[c.ID] = &clone
	return true, nil
}

func (s *memStore) UpsertRole(r *models.Role) (bool, error) {
	if _, ok := s.roles[r.ID]; ok {
		return false, nil
	}
	clone := *r
	s.roles[r.ID] = &clone
	return true, nil
}

func (s *memStore) InsertRole(r *models.Role) error {
	clone := *r
	s.roles[r.ID] = &clone
	return nil
}

func (s *memStore) InsertMessage(m *models.Message) error {
	clone := *m
	s.messages[m.ID] = &clone
	return nil
}

func (s *memStore) InsertDeletedMessage(d *models.DeletedMessage) error {
	s.deleted = append(s.deleted, *d)
	return nil
}

func (s *memStore) InsertEditedMessage(e *models.EditedMessage) error {
	s.edited = append(s.edited, *e)
	return nil
}

func (s *memStore) InsertVoiceActivity(v *models.VoiceActivity) error {
	s.voice = append(s.voice, *v)
	return nil
}

func (s *memStore) InsertGuildActivity(g *models.GuildActivity) error {
	s.guild = append(s.guild, *g)
	return nil
}

func (s *memStore) InsertMemberActivity(a *models.MemberActivity) error {
	s.member = append(s.member, *a)
	return nil
}

func (s *memStore) GetMember(id string) (*models.Member, error) {
	if m, ok := s.members[id]; ok {
		clone := *m
		return &clone, nil
	}
	return nil, nil
}

func (s *memStore) GetMessage(id string) (*models.Message, error) {
	if m, ok := s.messages[id]; ok {
		clone := *m
		return &clone, nil
	}
	return nil, nil
}

func (s *memStore) GetRole(id string) (*models.Role, error) {
	if r, ok := s.roles[id]; ok {
		clone := *r
		return &clone, nil
	}
	return nil, nil
}

func (s *memStore) MarkMessageEdited(id, content string) error {
	if m, ok := s.messages[id]; ok {
		m.Content = content
		m.IsEdited = true
	}
	return nil
}

func (s *memStore) UpdateMemberRoles(id string, rolesJSON string) error {
	if m, ok := s.members[id]; ok {
		m.Roles = rolesJSON
	}
	return nil
}

func (s *memStore) UpdateRoleFields(id string, fields map[string]any) error {
	r, ok := s.roles[id]
	if !ok {
		return nil
	}
	if name, ok := fields["name"]; ok {
		r.Name = name.(string)
	}
	if color, ok := fields["color"]; ok {
		r.Color = color.(string)
	}
	if permissions, ok := fields["permissions"]; ok {
		r.Permissions = permissions.(int64)
	}
	return nil
}

func (s *memStore) DeletedMessageViews(int) ([]repositories.DeletedMessageView, error) {
	return nil, nil
}

func (s *memStore) EditedMessageViews(int) ([]repositories.EditedMessageView, error) {
	return nil, nil
}

func (s *memStore) VoiceActivityViews(int) ([]repositories.VoiceActivityView, error) {
	return nil, nil
}

func (s *memStore) MemberActivityViews(int) ([]repositories.MemberActivityView, error) {
	return nil, nil
}

func (s *memStore) Stats() (*repositories.Stats, error) {
	return &repositories.Stats{}, nil
}

func messageRow(id, content string) *models.Message {
	return &models.Message{
		ID:        id,
		MemberID:  "user-1",
		ChannelID: "chan-1",
		Content:   content,
		CreatedAt: time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC),
	}
}

// newTestBot wires a bot around the in-memory store with notifications off
// and a pinned clock.
func newTestBot(t *testing.T, store *memStore) *Bot {
	t.Helper()
	log, err := logger.NewDevelopmentLogger()
	if err != nil {
		t.Fatalf("create logger: %v", err)
	}
	return &Bot{
		store:   store,
		logger:  log,
		cfg:     &config.BotConfig{},
		guildID: "guild-1",
		selfID:  "bot-self",
		now:     func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) },
	}
}
