package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"onerinn/internal/services"
)

type UserHandler struct {
	users services.UserService
}

func NewUserHandler(users services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// @Summary      Обновить профиль
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        body  body      map[string]string  true  "avatar_url, bio, contact"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Router       /api/me [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req struct {
		AvatarURL *string `json:"avatar_url"`
		Bio       *string `json:"bio"`
		Contact   *string `json:"contact"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "BAD_REQUEST"})
		return
	}

	user, err := h.users.GetUserByID(currentUserID(c))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "UNAUTHORIZED"})
		return
	}
	// частичное обновление: трогаем только присланные поля
	if req.AvatarURL != nil {
		user.AvatarURL = *req.AvatarURL
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Contact != nil {
		user.Contact = *req.Contact
	}

	if err := h.users.UpdateProfile(user); err != nil {
		if errors.Is(err, services.ErrDuplicateAccount) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "DUPLICATE_ACCOUNT"})
			return
		}
		log.Printf("[users][update] userID=%d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "UNKNOWN_ERROR"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// @Summary      Смена пароля (со старым паролем)
// @Tags         Users
// @Accept       json
// @Produce      json
// @Param        body  body      map[string]string  true  "old_password и new_password"
// @Success      200   {object}  map[string]bool
// @Failure      400   {object}  map[string]string
// @Router       /api/me/password [put]
func (h *UserHandler) ChangePassword(c *gin.Context) {
	var req struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "BAD_REQUEST"})
		return
	}
	err := h.users.ChangePassword(currentUserID(c), req.OldPassword, req.NewPassword)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"ok": true})
	case errors.Is(err, services.ErrInvalidCredentials):
		c.JSON(http.StatusBadRequest, gin.H{"error": "INVALID_CREDENTIALS"})
	case errors.Is(err, services.ErrPasswordTooShort):
		c.JSON(http.StatusBadRequest, gin.H{"error": "PASSWORD_TOO_SHORT"})
	default:
		log.Printf("[users][password] userID=%d: %v", currentUserID(c), err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "UNKNOWN_ERROR"})
	}
}
