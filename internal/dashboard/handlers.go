package dashboard

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/m7mdxyz/discord-logger/internal/repositories"
)

// A store failure degrades to the empty view; the dashboard never surfaces
// errors to the browser.

func (s *Server) index(c *gin.Context) {
	stats, err := s.store.Stats()
	if err != nil {
		s.logger.Error("load stats failed", zap.Error(err))
		stats = &repositories.Stats{}
	}

	lastEvent := "No events recorded"
	if stats.LastEvent != nil {
		lastEvent = formatTime(*stats.LastEvent)
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"TotalEntries": stats.TotalEntries,
		"LastEvent":    lastEvent,
	})
}

func (s *Server) deletedMessages(c *gin.Context) {
	views, err := s.store.DeletedMessageViews(viewLimit)
	if err != nil {
		s.logger.Error("load deleted messages failed", zap.Error(err))
	}
	c.HTML(http.StatusOK, "deleted_messages.html", gin.H{"Messages": views})
}

func (s *Server) editedMessages(c *gin.Context) {
	views, err := s.store.EditedMessageViews(viewLimit)
	if err != nil {
		s.logger.Error("load edited messages failed", zap.Error(err))
	}
	c.HTML(http.StatusOK, "edited_messages.html", gin.H{"Messages": views})
}

func (s *Server) voiceActivity(c *gin.Context) {
	views, err := s.store.VoiceActivityViews(viewLimit)
	if err != nil {
		s.logger.Error("load voice activity failed", zap.Error(err))
	}
	c.HTML(http.StatusOK, "voice_activity.html", gin.H{"Activities": views})
}

func (s *Server) memberActivity(c *gin.Context) {
	views, err := s.store.MemberActivityViews(viewLimit)
	if err != nil {
		s.logger.Error("load member activity failed", zap.Error(err))
	}
	c.HTML(http.StatusOK, "member_activity.html", gin.H{"Activities": views})
}
