package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/salon-agenda/internal/contacts"
	"github.com/BruksfildServices01/salon-agenda/internal/httperr"
	"github.com/BruksfildServices01/salon-agenda/internal/middleware"
	"github.com/BruksfildServices01/salon-agenda/internal/usecase/importing"
)

type ImportHandler struct {
	preview *importing.PreviewImport
	confirm *importing.ConfirmImport
}

func NewImportHandler(
	preview *importing.PreviewImport,
	confirm *importing.ConfirmImport,
) *ImportHandler {
	return &ImportHandler{preview: preview, confirm: confirm}
}

// ======================================================
// PREVIEW
// ======================================================

type ImportPreviewRequest struct {
	Contacts []contacts.DeviceContact `json:"contacts" binding:"required"`
}

// Preview recebe a agenda do aparelho e devolve quem ainda não é cliente.
// Agenda vazia e "todos já cadastrados" são respostas informativas com
// candidates vazio, não erros.
func (h *ImportHandler) Preview(c *gin.Context) {
	salonID, ok := requireSalon(c)
	if !ok {
		return
	}

	var req ImportPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	candidates, err := h.preview.Execute(c.Request.Context(), salonID, req.Contacts)
	if err != nil {
		switch {
		case errors.Is(err, contacts.ErrNoContacts):
			c.JSON(http.StatusOK, gin.H{
				"candidates": []contacts.Candidate{},
				"message":    "Nenhum contato encontrado no aparelho.",
			})
		case errors.Is(err, contacts.ErrNothingToImport):
			c.JSON(http.StatusOK, gin.H{
				"candidates": []contacts.Candidate{},
				"message":    "Todos os contatos já estão cadastrados.",
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed_to_preview_import"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"candidates": candidates})
}

// ======================================================
// CONFIRM
// ======================================================

type ImportConfirmRequest struct {
	Selected []contacts.Candidate `json:"selected" binding:"required"`
}

func (h *ImportHandler) Confirm(c *gin.Context) {
	salonID, ok := requireSalon(c)
	if !ok {
		return
	}
	userID := c.MustGet(middleware.ContextUserID).(string)

	var req ImportConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"details": err.Error(),
		})
		return
	}

	err := h.confirm.Execute(c.Request.Context(), salonID, userID, req.Selected)
	if err != nil {
		if httperr.IsBusiness(err, "empty_selection") {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "empty_selection",
				"message": "Selecione pelo menos um contato.",
			})
			return
		}
		// Falha agregada: parte do lote pode ter confirmado mesmo assim e
		// vai aparecer na próxima entrega da assinatura.
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "import_failed",
			"message": "Não foi possível importar todos os contatos.",
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"imported": len(req.Selected)})
}
