package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/textbin/textbin/models"
	"github.com/textbin/textbin/services"
)

// PasteHandler handles paste API operations
type PasteHandler struct {
	service *services.PasteService
}

// NewPasteHandler creates a new paste handler
func NewPasteHandler(service *services.PasteService) *PasteHandler {
	return &PasteHandler{service: service}
}

// createPasteRequest is the creation request body
type createPasteRequest struct {
	Content           string   `json:"content"`
	Title             string   `json:"title"`
	Syntax            string   `json:"syntax"`
	ExpirationType    string   `json:"expirationType"`
	ExpirationMinutes *float64 `json:"expirationMinutes"`
	MaxViews          *float64 `json:"maxViews"`
}

// Create handles paste creation via POST /api/v1/pastes
func (h *PasteHandler) Create(c *gin.Context) {
	var req createPasteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	paste, err := h.service.CreatePaste(services.CreatePasteRequest{
		Content:           req.Content,
		Title:             req.Title,
		Syntax:            req.Syntax,
		ExpirationType:    req.ExpirationType,
		ExpirationMinutes: req.ExpirationMinutes,
		MaxViews:          req.MaxViews,
	})
	if err != nil {
		var verr *models.ValidationError
		if errors.As(err, &verr) {
			respondValidationError(c, http.StatusBadRequest, verr)
			return
		}
		if errors.Is(err, services.ErrIDExhaustion) {
			log.Printf("[ERROR] Create: id exhaustion: %v", err)
			respondError(c, http.StatusInternalServerError, "failed to generate unique paste id, please try again")
			return
		}
		log.Printf("[ERROR] Create: %v", err)
		respondError(c, http.StatusInternalServerError, "an unexpected error occurred")
		return
	}

	pastesCreated.Inc()
	respondSuccess(c, http.StatusCreated, "Paste created successfully", paste.View(true))
}

// Get handles the view-incrementing read via GET /api/v1/pastes/:id
func (h *PasteHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if !h.service.IsValidID(id) {
		respondError(c, http.StatusBadRequest, "invalid paste id")
		return
	}

	result, err := h.service.GetPasteByID(id)
	if err != nil {
		log.Printf("[ERROR] Get: %v", err)
		respondError(c, http.StatusInternalServerError, "an unexpected error occurred")
		return
	}

	if !result.Found {
		respondError(c, http.StatusNotFound, "Paste not found")
		return
	}
	if result.Expired {
		expiredReads.WithLabelValues(result.Reason).Inc()
		respondError(c, http.StatusGone, expiredMessage(result.Reason))
		return
	}

	pasteViews.Inc()
	view := result.Paste.View(true)
	view.LastView = result.LastView
	respondSuccess(c, http.StatusOK, "Paste retrieved successfully", view)
}

// GetMeta handles the metadata read via GET /api/v1/pastes/:id/meta.
// Never increments the view count and never returns content.
func (h *PasteHandler) GetMeta(c *gin.Context) {
	id := c.Param("id")
	if !h.service.IsValidID(id) {
		respondError(c, http.StatusBadRequest, "invalid paste id")
		return
	}

	result, err := h.service.GetPasteMetadata(id)
	if err != nil {
		log.Printf("[ERROR] GetMeta: %v", err)
		respondError(c, http.StatusInternalServerError, "an unexpected error occurred")
		return
	}

	if !result.Found {
		respondError(c, http.StatusNotFound, "Paste not found")
		return
	}
	if result.Expired {
		respondError(c, http.StatusGone, expiredMessage(result.Reason))
		return
	}

	respondSuccess(c, http.StatusOK, "Paste metadata retrieved", result.Paste.View(false))
}

// Delete handles paste deletion via DELETE /api/v1/pastes/:id
func (h *PasteHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if !h.service.IsValidID(id) {
		respondError(c, http.StatusBadRequest, "invalid paste id")
		return
	}

	deleted, err := h.service.DeletePaste(id)
	if err != nil {
		log.Printf("[ERROR] Delete: %v", err)
		respondError(c, http.StatusInternalServerError, "an unexpected error occurred")
		return
	}
	if !deleted {
		respondError(c, http.StatusNotFound, "Paste not found")
		return
	}

	respondSuccess(c, http.StatusOK, "Paste deleted successfully", gin.H{"id": id})
}

// Stats handles GET /api/v1/pastes/stats
func (h *PasteHandler) Stats(c *gin.Context) {
	stats, err := h.service.GetStats()
	if err != nil {
		log.Printf("[ERROR] Stats: %v", err)
		respondError(c, http.StatusInternalServerError, "an unexpected error occurred")
		return
	}
	respondSuccess(c, http.StatusOK, "Statistics retrieved", stats)
}

// Cleanup handles POST /api/v1/pastes/cleanup, the external trigger for the
// expired-paste sweep
func (h *PasteHandler) Cleanup(c *gin.Context) {
	deleted, err := h.service.CleanupExpired()
	if err != nil {
		log.Printf("[ERROR] Cleanup: %v", err)
		respondError(c, http.StatusInternalServerError, "an unexpected error occurred")
		return
	}

	cleanupDeleted.Add(float64(deleted))
	respondSuccess(c, http.StatusOK, "Cleanup completed", gin.H{"deleted": deleted})
}

func expiredMessage(reason string) string {
	if reason == services.ReasonViews {
		return "This paste has reached its maximum view count"
	}
	return "This paste has expired due to time limit"
}
