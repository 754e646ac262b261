package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"onerinn/internal/storage"
)

const maxUploadBytes = 10 << 20 // 10 МБ на файл

var allowedUploadTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"application/pdf": true, // документы верификации
}

type UploadHandler struct {
	store storage.Storage
}

func NewUploadHandler(store storage.Storage) *UploadHandler {
	return &UploadHandler{store: store}
}

// @Summary      Загрузка файла
// @Description  Изображения объявлений и документы верификации; имя файла клиента не сохраняется
// @Tags         Uploads
// @Accept       multipart/form-data
// @Produce      json
// @Param        file  formData  file  true  "Файл (jpeg/png/webp/pdf, до 10 МБ)"
// @Success      200   {object}  map[string]string
// @Failure      400   {object}  map[string]string
// @Router       /api/uploads [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "FILE_REQUIRED"})
		return
	}
	if fh.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "FILE_TOO_LARGE"})
		return
	}
	contentType := fh.Header.Get("Content-Type")
	if !allowedUploadTypes[contentType] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "UNSUPPORTED_TYPE"})
		return
	}

	f, err := fh.Open()
	if err != nil {
		log.Printf("[uploads] open multipart: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "UNKNOWN_ERROR"})
		return
	}
	defer f.Close()

	key, publicURL, err := h.store.Upload(c.Request.Context(), f, contentType)
	if err != nil {
		log.Printf("[uploads] userID=%d: %v", currentUserID(c), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "UNKNOWN_ERROR"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"key": key, "url": publicURL})
}

// @Summary      Временная ссылка на объект
// @Tags         Uploads
// @Produce      json
// @Param        key  query     string  true  "Ключ объекта"
// @Success      200  {object}  map[string]string
// @Router       /api/uploads/presign [get]
func (h *UploadHandler) Presign(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "KEY_REQUIRED"})
		return
	}
	url, err := h.store.PresignGet(c.Request.Context(), key, 15*time.Minute)
	if err != nil {
		log.Printf("[uploads][presign] key=%s: %v", key, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "UNKNOWN_ERROR"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": url})
}
