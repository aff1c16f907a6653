package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-agenda/internal/audit"
	"github.com/BruksfildServices01/salon-agenda/internal/httpresp"
	"github.com/BruksfildServices01/salon-agenda/internal/middleware"
	"github.com/BruksfildServices01/salon-agenda/internal/models"
	"github.com/BruksfildServices01/salon-agenda/internal/realtime"
	"github.com/BruksfildServices01/salon-agenda/internal/store"
	"github.com/BruksfildServices01/salon-agenda/internal/timezone"
)

type ScheduleHandler struct {
	schedules realtime.Collection[*models.Schedule]
	clients   realtime.Collection[*models.Client]
	audit     *audit.Dispatcher
}

func NewScheduleHandler(
	schedules realtime.Collection[*models.Schedule],
	clients realtime.Collection[*models.Client],
	audit *audit.Dispatcher,
) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules, clients: clients, audit: audit}
}

// ======================================================
// LIST SCHEDULES
// ======================================================
func (h *ScheduleHandler) List(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)

	schedules, err := h.schedules.QueryOnce(c.Request.Context(), realtime.Filter{
		Field: "user_id", Value: userID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_schedules"})
		return
	}

	// Filtros opcionais: por dia e por cliente (histórico de atendimentos).
	if date := c.Query("date"); date != "" {
		filtered := schedules[:0]
		for _, s := range schedules {
			if s.Date == date {
				filtered = append(filtered, s)
			}
		}
		schedules = filtered
	}
	if clientID := c.Query("client_id"); clientID != "" {
		filtered := schedules[:0]
		for _, s := range schedules {
			if s.ClientID == clientID {
				filtered = append(filtered, s)
			}
		}
		schedules = filtered
	}

	store.SortSchedules(schedules)
	httpresp.List(c, schedules)
}

// ======================================================
// CREATE SCHEDULE
// ======================================================

type CreateScheduleRequest struct {
	Date      string   `json:"date" binding:"required"`
	Title     string   `json:"title" binding:"required"`
	StartTime string   `json:"start_time" binding:"required"`
	EndTime   string   `json:"end_time"`
	ClientID  string   `json:"client_id"`
	Value     *float64 `json:"value"`
	Payment   string   `json:"payment"`
}

func (h *ScheduleHandler) Create(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)

	var req CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if !validDateTimes(c, req.Date, req.StartTime, req.EndTime) {
		return
	}

	sched := models.Schedule{
		UserID:    userID,
		Date:      req.Date,
		Title:     strings.TrimSpace(req.Title),
		StartTime: req.StartTime,
		EndTime:   req.EndTime,
		Value:     req.Value,
		Payment:   req.Payment,
		CreatedAt: timezone.Now(),
	}

	// O nome do cliente é congelado aqui; renomear o cliente depois não
	// reescreve agendamentos antigos.
	if req.ClientID != "" {
		client, err := h.clients.Get(c.Request.Context(), req.ClientID)
		if err != nil {
			if errors.Is(err, realtime.ErrNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "client_not_found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
			return
		}
		// Cliente de outro salão é tratado como inexistente: nem o vínculo
		// nem o nome podem vazar entre salões.
		if client.SalonID != c.MustGet(middleware.ContextSalonID).(string) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "client_not_found"})
			return
		}
		sched.ClientID = client.ID
		sched.ClientName = client.Name
	}

	id, err := h.schedules.Create(c.Request.Context(), &sched)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_schedule"})
		return
	}

	h.audit.Dispatch(audit.Event{
		SalonID:  c.MustGet(middleware.ContextSalonID).(string),
		UserID:   &userID,
		Action:   "schedule_created",
		Entity:   "schedule",
		EntityID: &id,
	})

	c.JSON(http.StatusCreated, sched)
}

// ======================================================
// UPDATE SCHEDULE
// ======================================================

type UpdateScheduleRequest struct {
	Date      *string  `json:"date"`
	Title     *string  `json:"title"`
	StartTime *string  `json:"start_time"`
	EndTime   *string  `json:"end_time"`
	Value     *float64 `json:"value"`
	Payment   *string  `json:"payment"`
}

func (h *ScheduleHandler) Update(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)
	schedID := c.Param("id")

	if !h.ownedByUser(c, schedID, userID) {
		return
	}

	var req UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	patch := make(map[string]any)
	if req.Date != nil {
		if _, err := time.Parse("2006-01-02", *req.Date); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_date"})
			return
		}
		patch["date"] = *req.Date
	}
	if req.StartTime != nil {
		if _, err := time.Parse("15:04", *req.StartTime); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_start_time"})
			return
		}
		patch["start_time"] = *req.StartTime
	}
	if req.EndTime != nil {
		if *req.EndTime != "" {
			if _, err := time.Parse("15:04", *req.EndTime); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_end_time"})
				return
			}
		}
		patch["end_time"] = *req.EndTime
	}
	if req.Title != nil {
		patch["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Value != nil {
		patch["value"] = *req.Value
	}
	if req.Payment != nil {
		patch["payment"] = *req.Payment
	}
	if len(patch) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty_patch"})
		return
	}

	if err := h.schedules.Update(c.Request.Context(), schedID, patch); err != nil {
		if errors.Is(err, realtime.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "schedule_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_update_schedule"})
		return
	}

	h.audit.Dispatch(audit.Event{
		SalonID:  c.MustGet(middleware.ContextSalonID).(string),
		UserID:   &userID,
		Action:   "schedule_updated",
		Entity:   "schedule",
		EntityID: &schedID,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Agendamento atualizado."})
}

// ======================================================
// DELETE SCHEDULE
// ======================================================
func (h *ScheduleHandler) Delete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)
	schedID := c.Param("id")

	if !h.ownedByUser(c, schedID, userID) {
		return
	}

	if err := h.schedules.Delete(c.Request.Context(), schedID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_delete_schedule"})
		return
	}

	h.audit.Dispatch(audit.Event{
		SalonID:  c.MustGet(middleware.ContextSalonID).(string),
		UserID:   &userID,
		Action:   "schedule_deleted",
		Entity:   "schedule",
		EntityID: &schedID,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Agendamento removido."})
}

func (h *ScheduleHandler) ownedByUser(c *gin.Context, schedID, userID string) bool {
	sched, err := h.schedules.Get(c.Request.Context(), schedID)
	if err != nil {
		if errors.Is(err, realtime.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "schedule_not_found"})
			return false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return false
	}
	if sched.UserID != userID {
		c.JSON(http.StatusNotFound, gin.H{"error": "schedule_not_found"})
		return false
	}
	return true
}

func validDateTimes(c *gin.Context, date, start, end string) bool {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_date"})
		return false
	}
	if _, err := time.Parse("15:04", start); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_start_time"})
		return false
	}
	if end != "" {
		if _, err := time.Parse("15:04", end); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid_end_time"})
			return false
		}
	}
	return true
}
