package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-agenda/internal/audit"
	"github.com/BruksfildServices01/salon-agenda/internal/httpresp"
	"github.com/BruksfildServices01/salon-agenda/internal/middleware"
	"github.com/BruksfildServices01/salon-agenda/internal/models"
	"github.com/BruksfildServices01/salon-agenda/internal/realtime"
	"github.com/BruksfildServices01/salon-agenda/internal/store"
	"github.com/BruksfildServices01/salon-agenda/internal/timezone"
	"github.com/BruksfildServices01/salon-agenda/internal/validators"
)

type ClientHandler struct {
	clients realtime.Collection[*models.Client]
	audit   *audit.Dispatcher
}

func NewClientHandler(
	clients realtime.Collection[*models.Client],
	audit *audit.Dispatcher,
) *ClientHandler {
	return &ClientHandler{clients: clients, audit: audit}
}

// requireSalon devolve o salão do token. Sessão sem salão resolvido ainda
// está em configuração: a escrita é recusada com mensagem informativa, não
// com erro de autenticação.
func requireSalon(c *gin.Context) (string, bool) {
	salonID := c.MustGet(middleware.ContextSalonID).(string)
	if salonID == "" {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "account_not_ready",
			"message": "Aguarde um momento, estamos finalizando a configuração da sua conta.",
		})
		return "", false
	}
	return salonID, true
}

// ======================================================
// LIST CLIENTS
// ======================================================
func (h *ClientHandler) List(c *gin.Context) {
	salonID, ok := requireSalon(c)
	if !ok {
		return
	}

	clients, err := h.clients.QueryOnce(c.Request.Context(), realtime.Filter{
		Field: "salon_id", Value: salonID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_list_clients"})
		return
	}

	if query := strings.TrimSpace(c.Query("query")); query != "" {
		folded := validators.Fold(query)
		digits := validators.Digits(query)
		filtered := clients[:0]
		for _, cl := range clients {
			byName := strings.Contains(validators.Fold(cl.Name), folded)
			byPhone := digits != "" && strings.Contains(validators.Digits(cl.Phone), digits)
			if byName || byPhone {
				filtered = append(filtered, cl)
			}
		}
		clients = filtered
	}

	store.SortClients(clients)
	httpresp.List(c, clients)
}

// ======================================================
// CREATE CLIENT
// ======================================================

type CreateClientRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone" binding:"required"`
	Address string `json:"address"`
}

func (h *ClientHandler) Create(c *gin.Context) {
	salonID, ok := requireSalon(c)
	if !ok {
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(string)

	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	if len(validators.Digits(req.Phone)) < 10 {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_phone",
			"message": "Informe um telefone válido com DDD.",
		})
		return
	}

	client := models.Client{
		SalonID:   salonID,
		UserID:    userID,
		Name:      strings.TrimSpace(req.Name),
		Phone:     req.Phone,
		Address:   strings.TrimSpace(req.Address),
		CreatedAt: timezone.Now(),
	}

	id, err := h.clients.Create(c.Request.Context(), &client)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_create_client"})
		return
	}

	h.audit.Dispatch(audit.Event{
		SalonID:  salonID,
		UserID:   &userID,
		Action:   "client_created",
		Entity:   "client",
		EntityID: &id,
	})

	c.JSON(http.StatusCreated, client)
}

// ======================================================
// UPDATE CLIENT
// ======================================================

type UpdateClientRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
}

func (h *ClientHandler) Update(c *gin.Context) {
	salonID, ok := requireSalon(c)
	if !ok {
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(string)
	clientID := c.Param("id")

	if !h.ownedBySalon(c, clientID, salonID) {
		return
	}

	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	patch := make(map[string]any)
	if req.Name != nil {
		patch["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		if len(validators.Digits(*req.Phone)) < 10 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_phone",
				"message": "Informe um telefone válido com DDD.",
			})
			return
		}
		patch["phone"] = *req.Phone
	}
	if req.Address != nil {
		patch["address"] = strings.TrimSpace(*req.Address)
	}
	if len(patch) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "empty_patch"})
		return
	}

	if err := h.clients.Update(c.Request.Context(), clientID, patch); err != nil {
		if errors.Is(err, realtime.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "client_not_found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_update_client"})
		return
	}

	h.audit.Dispatch(audit.Event{
		SalonID:  salonID,
		UserID:   &userID,
		Action:   "client_updated",
		Entity:   "client",
		EntityID: &clientID,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Cliente atualizado."})
}

// ======================================================
// DELETE CLIENT
// ======================================================
func (h *ClientHandler) Delete(c *gin.Context) {
	salonID, ok := requireSalon(c)
	if !ok {
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(string)
	clientID := c.Param("id")

	if !h.ownedBySalon(c, clientID, salonID) {
		return
	}

	if err := h.clients.Delete(c.Request.Context(), clientID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_delete_client"})
		return
	}

	h.audit.Dispatch(audit.Event{
		SalonID:  salonID,
		UserID:   &userID,
		Action:   "client_deleted",
		Entity:   "client",
		EntityID: &clientID,
	})

	c.JSON(http.StatusOK, gin.H{"message": "Cliente removido."})
}

// ownedBySalon garante que o id pertence ao salão do token; responde 404
// tanto para inexistente quanto para cliente de outro salão.
func (h *ClientHandler) ownedBySalon(c *gin.Context, clientID, salonID string) bool {
	client, err := h.clients.Get(c.Request.Context(), clientID)
	if err != nil {
		if errors.Is(err, realtime.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "client_not_found"})
			return false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
		return false
	}
	if client.SalonID != salonID {
		c.JSON(http.StatusNotFound, gin.H{"error": "client_not_found"})
		return false
	}
	return true
}
