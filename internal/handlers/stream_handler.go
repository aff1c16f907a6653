package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/salon-agenda/internal/middleware"
	"github.com/BruksfildServices01/salon-agenda/internal/models"
	"github.com/BruksfildServices01/salon-agenda/internal/realtime"
	"github.com/BruksfildServices01/salon-agenda/internal/session"
	"github.com/BruksfildServices01/salon-agenda/internal/store"
)

// StreamHandler expõe as assinaturas reativas como SSE: cada conexão monta a
// própria sessão e o próprio store, e cada mudança reenvia a lista completa
// (nunca deltas), já ordenada.
type StreamHandler struct {
	users     realtime.Collection[*models.User]
	clients   realtime.Collection[*models.Client]
	schedules realtime.Collection[*models.Schedule]
	log       *zap.Logger
}

func NewStreamHandler(
	users realtime.Collection[*models.User],
	clients realtime.Collection[*models.Client],
	schedules realtime.Collection[*models.Schedule],
	log *zap.Logger,
) *StreamHandler {
	return &StreamHandler{
		users:     users,
		clients:   clients,
		schedules: schedules,
		log:       log.With(zap.String("component", "stream")),
	}
}

// ======================================================
// CLIENTS STREAM
// ======================================================
func (h *StreamHandler) Clients(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)

	user, err := h.users.Get(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, realtime.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "invalid_session",
				"message": "Sessão inválida. Por favor, faça login novamente.",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	sess := session.NewController()
	clientStore := store.NewClientStore(sess, h.users, h.clients, h.log)
	defer clientStore.Close()

	events := make(chan []byte, 8)
	cancel := clientStore.OnSnapshot(func(list []*models.Client) {
		payload, err := json.Marshal(list)
		if err != nil {
			return
		}
		select {
		case events <- payload:
		default:
			// conexão lenta: a próxima entrega traz a lista completa de
			// qualquer forma
		}
	})
	defer cancel()

	// A entrada da sessão dispara a resolução do tenant e o snapshot inicial.
	sess.SetUser(user)

	h.stream(c, "clients", events)
}

// ======================================================
// SCHEDULES STREAM
// ======================================================
func (h *StreamHandler) Schedules(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)

	user, err := h.users.Get(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, realtime.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "invalid_session",
				"message": "Sessão inválida. Por favor, faça login novamente.",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return
	}

	sess := session.NewController()
	scheduleStore := store.NewScheduleStore(sess, h.schedules, h.log)
	defer scheduleStore.Close()

	events := make(chan []byte, 8)
	cancel := scheduleStore.OnSnapshot(func(list []*models.Schedule) {
		payload, err := json.Marshal(list)
		if err != nil {
			return
		}
		select {
		case events <- payload:
		default:
		}
	})
	defer cancel()

	sess.SetUser(user)

	h.stream(c, "schedules", events)
}

func (h *StreamHandler) stream(c *gin.Context, event string, events <-chan []byte) {
	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	c.Stream(func(w io.Writer) bool {
		select {
		case payload, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(event, string(payload))
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
