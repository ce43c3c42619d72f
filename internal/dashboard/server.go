package dashboard

import (
	"html/template"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/m7mdxyz/discord-logger/config"
	"github.com/m7mdxyz/discord-logger/internal/repositories"
	logger "github.com/m7mdxyz/discord-logger/middleware/log"
)

const timestampLayout = "2006-01-02 15:04:05 UTC"

// viewLimit caps each report page; the journals are unbounded.
const viewLimit = 200

// Server is the read-only dashboard over the activity store. It issues
// queries and renders templates; it never writes.
type Server struct {
	engine *gin.Engine
	store  repositories.Store
	logger *logger.Logger
	cfg    *config.DashboardConfig
}

// NewServer builds the gin engine with the five report routes.
func NewServer(cfg *config.DashboardConfig, store repositories.Store, log *logger.Logger) *Server {
	gin.SetMode(cfg.Mode)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(log))

	engine.SetFuncMap(template.FuncMap{
		"formatTime":    formatTime,
		"formatTimePtr": formatTimePtr,
	})
	engine.LoadHTMLGlob(cfg.TemplateGlob)

	s := &Server{
		engine: engine,
		store:  store,
		logger: log,
		cfg:    cfg,
	}

	engine.GET("/", s.index)
	engine.GET("/deleted-messages", s.deletedMessages)
	engine.GET("/edited-messages", s.editedMessages)
	engine.GET("/voice-activity", s.voiceActivity)
	engine.GET("/member-activity", s.memberActivity)

	return s
}

// Run blocks serving the dashboard.
func (s *Server) Run() error {
	return s.engine.Run(":" + strconv.Itoa(s.cfg.Port))
}

// Handler exposes the engine, used by tests.
func (s *Server) Handler() *gin.Engine {
	return s.engine
}

// requestLogger tags every request with an id and logs it on completion.
func requestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := logger.NewEventID()
		c.Next()
		log.Info("dashboard request",
			zap.String("request_id", requestID),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timestampLayout)
}

func formatTimePtr(t *time.Time) string {
	if t == nil {
		return "unknown"
	}
	return formatTime(*t)
}
