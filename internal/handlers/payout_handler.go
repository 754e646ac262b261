package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"onerinn/internal/models"
	"onerinn/internal/services"
)

type PayoutHandler struct {
	payouts services.PayoutService
}

func NewPayoutHandler(payouts services.PayoutService) *PayoutHandler {
	return &PayoutHandler{payouts: payouts}
}

// @Summary      Заявка на выплату
// @Description  Только верифицированные продавцы; реквизиты хранятся маскированными
// @Tags         Payouts
// @Accept       json
// @Produce      json
// @Param        body  body      models.PayoutRequest  true  "Сумма и реквизиты"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /api/payouts [post]
func (h *PayoutHandler) Request(c *gin.Context) {
	var req models.PayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "BAD_REQUEST"})
		return
	}
	p, err := h.payouts.Request(currentUserID(c), &req)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"payout": p})
	case errors.Is(err, services.ErrPayoutBadAmount):
		c.JSON(http.StatusBadRequest, gin.H{"error": "BAD_AMOUNT"})
	case errors.Is(err, services.ErrNotVerified):
		c.JSON(http.StatusForbidden, gin.H{"error": "NOT_VERIFIED"})
	default:
		log.Printf("[payouts][request] userID=%d: %v", currentUserID(c), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "UNKNOWN_ERROR"})
	}
}

// @Summary      Мои выплаты
// @Tags         Payouts
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/payouts [get]
func (h *PayoutHandler) Mine(c *gin.Context) {
	items, err := h.payouts.ListMine(currentUserID(c))
	if err != nil {
		log.Printf("[payouts][mine] userID=%d: %v", currentUserID(c), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "UNKNOWN_ERROR"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payouts": items})
}

// @Summary      PDF-выписка по выплате
// @Description  Доступна владельцу после исполнения выплаты
// @Tags         Payouts
// @Produce      application/pdf
// @Param        id   path  int  true  "ID выплаты"
// @Success      200  {file}    binary
// @Failure      404  {object}  map[string]string
// @Router       /api/payouts/{id}/statement [get]
func (h *PayoutHandler) Statement(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	data, err := h.payouts.Statement(id, currentUserID(c), false)
	switch {
	case err == nil:
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=payout_%d.pdf", id))
		c.Data(http.StatusOK, "application/pdf", data)
	case errors.Is(err, services.ErrPayoutNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "NOT_FOUND"})
	case errors.Is(err, services.ErrPayoutBadState):
		c.JSON(http.StatusBadRequest, gin.H{"error": "NOT_PAID_YET"})
	default:
		log.Printf("[payouts][statement] id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "UNKNOWN_ERROR"})
	}
}
