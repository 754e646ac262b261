package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"onerinn/internal/models"
	"onerinn/internal/services"
)

type ListingHandler struct {
	listings services.ListingService
}

func NewListingHandler(listings services.ListingService) *ListingHandler {
	return &ListingHandler{listings: listings}
}

// @Summary      Публичный каталог
// @Description  Только активные объявления, фильтр по категории
// @Tags         Listings
// @Produce      json
// @Param        category  query     string  false  "artwork | electronics"
// @Param        limit     query     int     false  "Макс. количество (до 100)"
// @Param        offset    query     int     false  "Смещение"
// @Success      200       {object}  map[string]interface{}
// @Router       /api/listings [get]
func (h *ListingHandler) List(c *gin.Context) {
	limit, offset := pagination(c)
	items, err := h.listings.ListPublic(c.Query("category"), limit, offset)
	if err != nil {
		log.Printf("[listings][list] failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "UNKNOWN_ERROR"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": items})
}

// ListCategory — фиксированные витрины /api/artworks и /api/electronics
func (h *ListingHandler) ListCategory(category string) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := pagination(c)
		items, err := h.listings.ListPublic(category, limit, offset)
		if err != nil {
			log.Printf("[listings][list] category=%s: %v", category, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "UNKNOWN_ERROR"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"listings": items})
	}
}

// @Summary      Объявление по ID
// @Tags         Listings
// @Produce      json
// @Param        id   path      int  true  "ID объявления"
// @Success      200  {object}  map[string]interface{}
// @Failure      404  {object}  map[string]string
// @Router       /api/listings/{id} [get]
func (h *ListingHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	// неавторизованный зритель — viewerID=0, свои pending он не увидит
	l, err := h.listings.Get(id, currentUserID(c), false)
	if err != nil {
		if errors.Is(err, services.ErrListingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "NOT_FOUND"})
			return
		}
		log.Printf("[listings][get] id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "UNKNOWN_ERROR"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"listing": l})
}

// @Summary      Создать объявление
// @Description  Новое объявление попадает в очередь модерации
// @Tags         Listings
// @Accept       json
// @Produce      json
// @Param        body  body      models.ListingCreateRequest  true  "Объявление"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Router       /api/listings [post]
func (h *ListingHandler) Create(c *gin.Context) {
	var req models.ListingCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "BAD_REQUEST"})
		return
	}
	l, err := h.listings.Create(currentUserID(c), &req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "VALIDATION_FAILED", "details": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"listing": l})
}

// CreateCategory — POST-варианты витрин (/api/artworks, /api/artworks/create
// и зеркала electronics): категория задаётся маршрутом, поле в теле игнорируется
func (h *ListingHandler) CreateCategory(category string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.ListingCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "BAD_REQUEST"})
			return
		}
		req.Category = category
		l, err := h.listings.Create(currentUserID(c), &req)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "VALIDATION_FAILED", "details": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true, "item": l})
	}
}

// @Summary      Обновить своё объявление
// @Tags         Listings
// @Accept       json
// @Produce      json
// @Param        id    path      int                          true  "ID объявления"
// @Param        body  body      models.ListingCreateRequest  true  "Новые данные"
// @Success      200   {object}  map[string]interface{}
// @Failure      403   {object}  map[string]string
// @Router       /api/listings/{id} [put]
func (h *ListingHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req models.ListingCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "BAD_REQUEST"})
		return
	}
	l, err := h.listings.Update(id, currentUserID(c), &req)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"listing": l})
	case errors.Is(err, services.ErrListingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "NOT_FOUND"})
	case errors.Is(err, services.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "FORBIDDEN"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "VALIDATION_FAILED", "details": err.Error()})
	}
}

// @Summary      Удалить своё объявление
// @Tags         Listings
// @Produce      json
// @Param        id   path      int  true  "ID объявления"
// @Success      200  {object}  map[string]bool
// @Failure      403  {object}  map[string]string
// @Router       /api/listings/{id} [delete]
func (h *ListingHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	err := h.listings.Delete(id, currentUserID(c))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"ok": true})
	case errors.Is(err, services.ErrListingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "NOT_FOUND"})
	case errors.Is(err, services.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": "FORBIDDEN"})
	default:
		log.Printf("[listings][delete] id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "UNKNOWN_ERROR"})
	}
}

// @Summary      Мои объявления (любой статус)
// @Tags         Listings
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/my/listings [get]
func (h *ListingHandler) Mine(c *gin.Context) {
	limit, offset := pagination(c)
	items, err := h.listings.ListMine(currentUserID(c), limit, offset)
	if err != nil {
		log.Printf("[listings][mine] userID=%d: %v", currentUserID(c), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "UNKNOWN_ERROR"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": items})
}
