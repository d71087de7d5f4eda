package api

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"complaints-backend/internal/calendar"
	"complaints-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store store.Store
	zone  *calendar.Zone
	log   zerolog.Logger
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, zone *calendar.Zone, log zerolog.Logger) *Handler {
	return &Handler{
		store: s,
		zone:  zone,
		log:   log,
	}
}

// internalError logs err and answers with a generic message.
func (h *Handler) internalError(c *gin.Context, err error, message string) {
	h.log.Error().Err(err).Str("path", c.Request.URL.Path).Msg(message)
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": message})
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": message})
}

const (
	flashError = "error"
	flashInfo  = "info"
)

// addFlash queues a message for the next rendered page.
func (h *Handler) addFlash(c *gin.Context, category, message string) {
	session := sessions.Default(c)
	session.AddFlash(message, category)
	if err := session.Save(); err != nil {
		h.log.Warn().Err(err).Msg("failed to save flash message")
	}
}

// takeFlashes pops all queued messages by category.
func (h *Handler) takeFlashes(c *gin.Context) map[string][]string {
	session := sessions.Default(c)
	out := make(map[string][]string)
	for _, category := range []string{flashError, flashInfo} {
		for _, f := range session.Flashes(category) {
			if msg, ok := f.(string); ok {
				out[category] = append(out[category], msg)
			}
		}
	}
	if len(out) > 0 {
		if err := session.Save(); err != nil {
			h.log.Warn().Err(err).Msg("failed to clear flash messages")
		}
	}
	return out
}
