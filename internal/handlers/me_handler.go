package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-agenda/internal/auth"
	"github.com/BruksfildServices01/salon-agenda/internal/middleware"
	"github.com/BruksfildServices01/salon-agenda/internal/models"
	"github.com/BruksfildServices01/salon-agenda/internal/realtime"
)

type MeHandler struct {
	users  realtime.Collection[*models.User]
	salons realtime.Collection[*models.Salon]
	svc    *auth.Service
}

func NewMeHandler(
	users realtime.Collection[*models.User],
	salons realtime.Collection[*models.Salon],
	svc *auth.Service,
) *MeHandler {
	return &MeHandler{users: users, salons: salons, svc: svc}
}

func (h *MeHandler) GetMe(c *gin.Context) {
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

	resp := gin.H{
		"user": gin.H{
			"id":         user.ID,
			"name":       user.Name,
			"email":      user.Email,
			"phone":      user.Phone,
			"salon_id":   user.SalonID,
			"salon_name": user.SalonName,
			"avatar_url": user.AvatarURL,
		},
	}

	if user.SalonID != "" {
		if salon, err := h.salons.Get(c.Request.Context(), user.SalonID); err == nil {
			resp["salon"] = gin.H{
				"id":       salon.ID,
				"name":     salon.Name,
				"document": salon.Document,
				"owner_id": salon.OwnerID,
			}
		}
	}

	c.JSON(http.StatusOK, resp)
}

type UpdateMeRequest struct {
	Name      *string `json:"name"`
	Phone     *string `json:"phone"`
	AvatarURL *string `json:"avatar_url"`
}

func (h *MeHandler) UpdateMe(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)

	var req UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	patch := make(map[string]any)
	if req.Name != nil {
		patch["name"] = *req.Name
	}
	if req.Phone != nil {
		patch["phone"] = *req.Phone
	}
	if req.AvatarURL != nil {
		patch["avatar_url"] = *req.AvatarURL
	}

	if err := h.svc.UpdateProfile(c.Request.Context(), userID, patch); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_update_profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Perfil atualizado."})
}
