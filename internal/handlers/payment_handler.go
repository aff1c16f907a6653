package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-agenda/internal/httperr"
	"github.com/BruksfildServices01/salon-agenda/internal/middleware"
	"github.com/BruksfildServices01/salon-agenda/internal/models"
	"github.com/BruksfildServices01/salon-agenda/internal/payments"
	"github.com/BruksfildServices01/salon-agenda/internal/realtime"
)

type PaymentHandler struct {
	schedules realtime.Collection[*models.Schedule]
	links     *payments.LinkGenerator
}

func NewPaymentHandler(
	schedules realtime.Collection[*models.Schedule],
	links *payments.LinkGenerator,
) *PaymentHandler {
	return &PaymentHandler{schedules: schedules, links: links}
}

// CreateLink gera um link de checkout para um agendamento com valor do
// próprio usuário.
func (h *PaymentHandler) CreateLink(c *gin.Context) {
	if h.links == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "payments_disabled",
			"message": "Pagamentos não estão configurados.",
		})
		return
	}

	userID := c.MustGet(middleware.ContextUserID).(string)
	schedID := c.Param("id")

	sched, err := h.schedules.Get(c.Request.Context(), schedID)
	if err != nil || sched.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "schedule_not_found"})
		return
	}

	link, err := h.links.LinkForSchedule(c.Request.Context(), sched)
	if err != nil {
		if httperr.IsBusiness(err, "schedule_without_value") {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "schedule_without_value",
				"message": "Este agendamento não tem valor definido.",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_payment_link"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"payment_url": link})
}
