package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"onerinn/internal/services"
)

type FavoriteHandler struct {
	listings services.ListingService
}

func NewFavoriteHandler(listings services.ListingService) *FavoriteHandler {
	return &FavoriteHandler{listings: listings}
}

// @Summary      Добавить в избранное
// @Description  Повторное добавление — no-op, не ошибка
// @Tags         Favorites
// @Produce      json
// @Param        id   path      int  true  "ID объявления"
// @Success      200  {object}  map[string]bool
// @Failure      404  {object}  map[string]string
// @Router       /api/favorites/{id} [post]
func (h *FavoriteHandler) Add(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.listings.AddFavorite(currentUserID(c), id); err != nil {
		if errors.Is(err, services.ErrListingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "NOT_FOUND"})
			return
		}
		log.Printf("[favorites][add] userID=%d listingID=%d: %v", currentUserID(c), id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "UNKNOWN_ERROR"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// @Summary      Убрать из избранного
// @Tags         Favorites
// @Produce      json
// @Param        id   path      int  true  "ID объявления"
// @Success      200  {object}  map[string]bool
// @Router       /api/favorites/{id} [delete]
func (h *FavoriteHandler) Remove(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.listings.RemoveFavorite(currentUserID(c), id); err != nil {
		log.Printf("[favorites][remove] userID=%d listingID=%d: %v", currentUserID(c), id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "UNKNOWN_ERROR"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// @Summary      Моё избранное
// @Tags         Favorites
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/favorites [get]
func (h *FavoriteHandler) List(c *gin.Context) {
	items, err := h.listings.ListFavorites(currentUserID(c))
	if err != nil {
		log.Printf("[favorites][list] userID=%d: %v", currentUserID(c), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "UNKNOWN_ERROR"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": items})
}
