package dashboard

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m7mdxyz/discord-logger/config"
	"github.com/m7mdxyz/discord-logger/internal/models"
	"github.com/m7mdxyz/discord-logger/internal/repositories"
	logger "github.com/m7mdxyz/discord-logger/middleware/log"
)

// stubStore serves canned dashboard reads; the write half of the interface is
// never reached from the dashboard.
type stubStore struct {
	deleted []repositories.DeletedMessageView
	edited  []repositories.EditedMessageView
	voice   []repositories.VoiceActivityView
	member  []repositories.MemberActivityView
	stats   repositories.Stats
	err     error
}

func (s *stubStore) UpsertMember(*models.Member) (bool, error)   { return false, nil }
func (s *stubStore) UpsertChannel(*models.Channel) (bool, error) { return false, nil }
func (s *stubStore) UpsertRole(*models.Role) (bool, error)       { return false, nil }

func (s *stubStore) InsertRole(*models.Role) error                     { return nil }
func (s *stubStore) InsertMessage(*models.Message) error               { return nil }
func (s *stubStore) InsertDeletedMessage(*models.DeletedMessage) error { return nil }
func (s *stubStore) InsertEditedMessage(*models.EditedMessage) error   { return nil }
func (s *stubStore) InsertVoiceActivity(*models.VoiceActivity) error   { return nil }
func (s *stubStore) InsertGuildActivity(*models.GuildActivity) error   { return nil }
func (s *stubStore) InsertMemberActivity(*models.MemberActivity) error { return nil }

func (s *stubStore) GetMember(string) (*models.Member, error)   { return nil, nil }
func (s *stubStore) GetMessage(string) (*models.Message, error) { return nil, nil }
func (s *stubStore) GetRole(string) (*models.Role, error)       { return nil, nil }

func (s *stubStore) MarkMessageEdited(string, string) error        { return nil }
func (s *stubStore) UpdateMemberRoles(string, string) error        { return nil }
func (s *stubStore) UpdateRoleFields(string, map[string]any) error { return nil }

func (s *stubStore) DeletedMessageViews(int) ([]repositories.DeletedMessageView, error) {
	return s.deleted, s.err
}

func (s *stubStore) EditedMessageViews(int) ([]repositories.EditedMessageView, error) {
	return s.edited, s.err
}

func (s *stubStore) VoiceActivityViews(int) ([]repositories.VoiceActivityView, error) {
	return s.voice, s.err
}

func (s *stubStore) MemberActivityViews(int) ([]repositories.MemberActivityView, error) {
	return s.member, s.err
}

func (s *stubStore) Stats() (*repositories.Stats, error) {
	if s.err != nil {
		return nil, s.err
	}
	stats := s.stats
	return &stats, nil
}

func newTestServer(t *testing.T, store repositories.Store) *Server {
	t.Helper()
	log, err := logger.NewDevelopmentLogger()
	if err != nil {
		t.Fatalf("create logger: %v", err)
	}
	return NewServer(&config.DashboardConfig{
		Port:         0,
		Mode:         "test",
		TemplateGlob: "../../web/templates/*.html",
	}, store, log)
}

func get(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestIndex(t *testing.T) {
	t.Run("shows totals and last event", func(t *testing.T) {
		last := time.Date(2025, 6, 1, 12, 30, 0, 0, time.UTC)
		s := newTestServer(t, &stubStore{
			stats: repositories.Stats{TotalEntries: 42, LastEvent: &last},
		})

		rec := get(t, s, "/")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "42")
		assert.Contains(t, rec.Body.String(), "2025-06-01 12:30:00 UTC")
	})

	t.Run("empty store", func(t *testing.T) {
		s := newTestServer(t, &stubStore{})

		rec := get(t, s, "/")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "No events recorded")
	})

	t.Run("store failure still renders", func(t *testing.T) {
		s := newTestServer(t, &stubStore{err: errors.New("connection refused")})

		rec := get(t, s, "/")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "No events recorded")
	})
}

func TestDeletedMessagesPage(t *testing.T) {
	sentAt := time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC)
	s := newTestServer(t, &stubStore{
		deleted: []repositories.DeletedMessageView{
			{
				MessageID:   "msg-1",
				Content:     "now you see me",
				MemberName:  "alice",
				ChannelName: "general",
				SentAt:      &sentAt,
				DeletedAt:   sentAt.Add(time.Minute),
			},
			{
				MessageID:   "msg-2",
				Content:     "untracked original",
				MemberName:  "bob",
				ChannelName: "general",
				DeletedAt:   sentAt.Add(2 * time.Minute),
			},
		},
	})

	rec := get(t, s, "/deleted-messages")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "now you see me")
	assert.Contains(t, rec.Body.String(), "alice")
	// Unlogged originals render without a sent timestamp.
	assert.Contains(t, rec.Body.String(), "unknown")
}

func TestEditedMessagesPage(t *testing.T) {
	s := newTestServer(t, &stubStore{
		edited: []repositories.EditedMessageView{
			{
				MessageID:     "msg-1",
				ContentBefore: "helo",
				ContentAfter:  "hello",
				MemberName:    "alice",
				ChannelName:   "general",
				EditedAt:      time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC),
			},
		},
	})

	rec := get(t, s, "/edited-messages")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "helo")
	assert.Contains(t, rec.Body.String(), "hello")
}

func TestVoiceActivityPage(t *testing.T) {
	s := newTestServer(t, &stubStore{
		voice: []repositories.VoiceActivityView{
			{
				MemberName:  "alice",
				Action:      "voice_move",
				FromChannel: "lobby",
				ToChannel:   "gaming",
				Timestamp:   time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC),
			},
		},
	})

	rec := get(t, s, "/voice-activity")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "voice_move")
	assert.Contains(t, rec.Body.String(), "lobby")
	assert.Contains(t, rec.Body.String(), "gaming")
}

func TestMemberActivityPage(t *testing.T) {
	s := newTestServer(t, &stubStore{
		member: []repositories.MemberActivityView{
			{
				Action:     "role_added",
				MemberName: "alice",
				RoleName:   "moderators",
				Timestamp:  time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC),
			},
			{
				Action:     "guild_join",
				MemberName: "bob",
				Timestamp:  time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
			},
		},
	})

	rec := get(t, s, "/member-activity")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "role_added")
	assert.Contains(t, rec.Body.String(), "moderators")
	assert.Contains(t, rec.Body.String(), "guild_join")
}

func TestEmptyViewsRender(t *testing.T) {
	s := newTestServer(t, &stubStore{})

	for _, path := range []string{
		"/deleted-messages",
		"/edited-messages",
		"/voice-activity",
		"/member-activity",
	} {
		rec := get(t, s, path)
		assert.Equal(t, http.StatusOK, rec.Code, path)
	}
}
