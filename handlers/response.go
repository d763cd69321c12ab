package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/textbin/textbin/models"
)

// apiResponse is the envelope shared by all JSON endpoints
type apiResponse struct {
	Success   bool                      `json:"success"`
	Message   string                    `json:"message"`
	Data      interface{}               `json:"data,omitempty"`
	Errors    []*models.ValidationError `json:"errors,omitempty"`
	Timestamp string                    `json:"timestamp"`
}

func respondSuccess(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, apiResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, apiResponse{
		Success:   false,
		Message:   message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func respondValidationError(c *gin.Context, status int, verr *models.ValidationError) {
	c.JSON(status, apiResponse{
		Success:   false,
		Message:   verr.Message,
		Errors:    []*models.ValidationError{verr},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
