package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-agenda/internal/auth"
	"github.com/BruksfildServices01/salon-agenda/internal/httperr"
	"github.com/BruksfildServices01/salon-agenda/internal/media"
	"github.com/BruksfildServices01/salon-agenda/internal/middleware"
)

type AvatarHandler struct {
	uploader *media.AvatarUploader
	svc      *auth.Service
	baseURL  string
}

func NewAvatarHandler(uploader *media.AvatarUploader, svc *auth.Service, baseURL string) *AvatarHandler {
	return &AvatarHandler{uploader: uploader, svc: svc, baseURL: baseURL}
}

// Upload recebe o arquivo multipart "avatar", publica a versão webp reduzida
// e grava a URL no perfil do usuário.
func (h *AvatarHandler) Upload(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)

	file, err := c.FormFile("avatar")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing_avatar_file"})
		return
	}

	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable_avatar_file"})
		return
	}
	defer src.Close()

	key, err := h.uploader.Upload(c.Request.Context(), userID, src)
	if err != nil {
		switch {
		case httperr.IsBusiness(err, "avatar_too_large"):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "avatar_too_large",
				"message": "A imagem deve ter no máximo 5MB.",
			})
		case httperr.IsBusiness(err, "invalid_image"):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "invalid_image",
				"message": "Envie uma imagem JPEG ou PNG.",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_upload_avatar"})
		}
		return
	}

	avatarURL := fmt.Sprintf("%s/%s", h.baseURL, key)
	if err := h.svc.UpdateProfile(c.Request.Context(), userID, map[string]any{
		"avatar_url": avatarURL,
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_update_profile"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"avatar_url": avatarURL})
}
