package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"onerinn/internal/services"
)

type VerificationHandler struct {
	verifications services.VerificationService
}

func NewVerificationHandler(verifications services.VerificationService) *VerificationHandler {
	return &VerificationHandler{verifications: verifications}
}

// @Summary      Подать заявку на верификацию продавца
// @Description  Документы загружаются заранее через /api/uploads, сюда передаются ключи
// @Tags         Verification
// @Accept       json
// @Produce      json
// @Param        body  body      map[string]interface{}  true  "document_keys и comment"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Router       /api/verification [post]
func (h *VerificationHandler) Submit(c *gin.Context) {
	var req struct {
		DocumentKeys []string `json:"document_keys"`
		Comment      string   `json:"comment"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "BAD_REQUEST"})
		return
	}
	v, err := h.verifications.Submit(currentUserID(c), req.DocumentKeys, req.Comment)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"request": v})
	case errors.Is(err, services.ErrVerificationPending):
		c.JSON(http.StatusBadRequest, gin.H{"error": "ALREADY_PENDING"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "VALIDATION_FAILED", "details": err.Error()})
	}
}

// @Summary      Статус моей верификации
// @Tags         Verification
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/verification [get]
func (h *VerificationHandler) Status(c *gin.Context) {
	v, err := h.verifications.Status(currentUserID(c))
	if err != nil {
		log.Printf("[verification][status] userID=%d: %v", currentUserID(c), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "UNKNOWN_ERROR"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"request": v})
}
