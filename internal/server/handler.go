// internal/server/handler.go
package server

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"certificate-service/internal/common/errors"
	"certificate-service/internal/common/logger"
	"certificate-service/internal/common/validation"
	"certificate-service/internal/models"
)

type generateHandler struct {
	log       logger.Logger
	generator Generator
}

type generateResponse struct {
	Success       bool     `json:"success"`
	CertificateID string   `json:"certificateId,omitempty"`
	FileURL       string   `json:"fileUrl,omitempty"`
	Error         string   `json:"error,omitempty"`
	Details       []string `json:"details,omitempty"`
}

func (h *generateHandler) handle(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, generateResponse{
			Success: false,
			Error:   "unable to read request body",
		})
		return
	}

	result, err := validation.ValidateGenerationRequest(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, generateResponse{
			Success: false,
			Error:   "request body is not valid JSON",
		})
		return
	}
	if !result.Valid {
		c.JSON(http.StatusBadRequest, generateResponse{
			Success: false,
			Error:   "request validation failed",
			Details: result.GetErrorMessages(),
		})
		return
	}

	var req models.GenerationRequest
	if err := json.Unmarshal(body, &req); err != nil {
		c.JSON(http.StatusBadRequest, generateResponse{
			Success: false,
			Error:   "request body is not valid JSON",
		})
		return
	}

	artifact, err := h.generator.Generate(c.Request.Context(), &req)
	if err != nil {
		h.log.WithError(err).Error("Generation request failed", map[string]interface{}{
			"certificateId": req.CertificateID,
		})
		c.JSON(http.StatusInternalServerError, generateResponse{
			Success: false,
			Error:   errorMessage(err),
		})
		return
	}

	c.JSON(http.StatusOK, generateResponse{
		Success:       true,
		CertificateID: artifact.CertificateID,
		FileURL:       artifact.FileURL,
	})
}

// errorMessage keeps internal detail out of the response body for anything
// that is not a StandardError.
func errorMessage(err error) string {
	if std := errors.AsStandardError(err); std != nil {
		return std.Message
	}
	return "document generation failed"
}
