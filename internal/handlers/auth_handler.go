package handlers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"onerinn/internal/middleware"
	"onerinn/internal/models"
	"onerinn/internal/services"
)

type AuthHandler struct {
	users         services.UserService
	auth          services.AuthService
	resets        services.PasswordResetService
	cookieName    string
	secureCookies bool
	sessionTTL    time.Duration
}

func NewAuthHandler(
	users services.UserService,
	auth services.AuthService,
	resets services.PasswordResetService,
	cookieName string,
	secureCookies bool,
	sessionTTL time.Duration,
) *AuthHandler {
	return &AuthHandler{
		users:         users,
		auth:          auth,
		resets:        resets,
		cookieName:    cookieName,
		secureCookies: secureCookies,
		sessionTTL:    sessionTTL,
	}
}

func (h *AuthHandler) issueSession(c *gin.Context, userID int) error {
	token, err := h.auth.IssueSessionToken(services.SessionKindUser, userID, h.sessionTTL)
	if err != nil {
		return err
	}
	setSessionCookie(c, h.cookieName, token, int(h.sessionTTL.Seconds()), h.secureCookies)
	return nil
}

// @Summary      Регистрация
// @Description  Создаёт аккаунт и сразу выставляет сессионную cookie
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      models.RegisterRequest  true  "Данные регистрации"
// @Success      200   {object}  map[string]interface{}
// @Failure      400   {object}  map[string]string
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "BAD_REQUEST"})
		return
	}
	if req.Locale == "" {
		req.Locale = middleware.GetLocale(c)
	}

	user, err := h.users.Register(&req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrIncompleteRequest):
			c.JSON(http.StatusBadRequest, gin.H{"error": "INCOMPLETE_DATA"})
		case errors.Is(err, services.ErrDuplicateAccount):
			c.JSON(http.StatusBadRequest, gin.H{"error": "DUPLICATE_ACCOUNT"})
		default:
			log.Printf("[auth][register] failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "UNKNOWN_ERROR"})
		}
		return
	}

	if err := h.issueSession(c, user.ID); err != nil {
		log.Printf("[auth][register] issue session for userID=%d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "UNKNOWN_ERROR"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "user": user})
}

// @Summary      Вход
// @Description  Проверяет пароль и выставляет сессионную cookie
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      models.LoginRequest  true  "Логин (email или username) и пароль"
// @Success      200   {object}  map[string]interface{}
// @Failure      401   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "BAD_REQUEST"})
		return
	}
	log.Printf("[auth][login] attempt login=%q", req.Login)

	user, err := h.users.Authenticate(req.Login, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrAccountBlocked) {
			c.JSON(http.StatusForbidden, gin.H{"error": "ACCOUNT_BLOCKED"})
			return
		}
		// "нет аккаунта" и "не тот пароль" — один ответ
		c.JSON(http.StatusUnauthorized, gin.H{"error": "INVALID_CREDENTIALS"})
		return
	}

	if err := h.issueSession(c, user.ID); err != nil {
		log.Printf("[auth][login] issue session for userID=%d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "UNKNOWN_ERROR"})
		return
	}
	log.Printf("[auth][login] success userID=%d", user.ID)
	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "user": user})
}

// @Summary      Вход или регистрация одним запросом
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      models.LoginRegisterRequest  true  "Идентификатор, имя и пароль"
// @Success      200   {object}  map[string]interface{}
// @Failure      401   {object}  map[string]string
// @Router       /api/login-register [post]
func (h *AuthHandler) LoginRegister(c *gin.Context) {
	var req models.LoginRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "BAD_REQUEST"})
		return
	}
	if req.Locale == "" {
		req.Locale = middleware.GetLocale(c)
	}

	user, created, err := h.users.LoginOrRegister(&req)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrIncompleteRequest):
			c.JSON(http.StatusBadRequest, gin.H{"error": "INCOMPLETE_DATA"})
		case errors.Is(err, services.ErrAccountBlocked):
			c.JSON(http.StatusForbidden, gin.H{"error": "ACCOUNT_BLOCKED"})
		case errors.Is(err, services.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, gin.H{"error": "INVALID_CREDENTIALS"})
		default:
			log.Printf("[auth][login-register] failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "UNKNOWN_ERROR"})
		}
		return
	}

	if err := h.issueSession(c, user.ID); err != nil {
		log.Printf("[auth][login-register] issue session for userID=%d: %v", user.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "UNKNOWN_ERROR"})
		return
	}
	msg := "Login successful"
	if created {
		msg = "Account created"
	}
	c.JSON(http.StatusOK, gin.H{"message": msg, "user": user})
}

// @Summary      Выход
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  map[string]bool
// @Router       /api/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	clearSessionCookie(c, h.cookieName, h.secureCookies)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// @Summary      Текущий пользователь
// @Tags         Auth
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Failure      401  {object}  map[string]string
// @Router       /api/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.users.GetUserByID(currentUserID(c))
	if err != nil || user == nil || user.Blocked {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "UNAUTHORIZED"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// @Summary      Запрос сброса пароля
// @Description  Ответ всегда одинаковый — существование аккаунта не раскрывается
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      map[string]string  true  "identity (email/телефон/username), locale"
// @Success      200   {object}  map[string]bool
// @Router       /api/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Identity     string `json:"identity"`
		EmailOrPhone string `json:"emailOrPhone"` // второй фронтовый вариант того же поля
		Locale       string `json:"locale"`
	}
	// ошибки разбора тоже дают ok: этот эндпоинт не «подтверждает» ничего
	_ = c.ShouldBindJSON(&req)

	identity := req.Identity
	if identity == "" {
		identity = req.EmailOrPhone
	}
	locale := req.Locale
	if locale == "" {
		locale = middleware.GetLocale(c)
	}
	h.resets.RequestReset(c.Request.Context(), identity, locale, c.ClientIP())
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// @Summary      Сброс пароля по токену
// @Tags         Auth
// @Accept       json
// @Produce      json
// @Param        body  body      map[string]string  true  "token и новый password"
// @Success      200   {object}  map[string]bool
// @Failure      400   {object}  map[string]string
// @Router       /api/auth/reset-password [post]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "REQUIRED_FIELDS"})
		return
	}

	err := h.resets.ResetPassword(req.Token, req.Password)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"ok": true})
	case errors.Is(err, services.ErrRequiredFields):
		c.JSON(http.StatusBadRequest, gin.H{"error": "REQUIRED_FIELDS"})
	case errors.Is(err, services.ErrPasswordTooShort):
		c.JSON(http.StatusBadRequest, gin.H{"error": "PASSWORD_TOO_SHORT"})
	case errors.Is(err, services.ErrBadToken):
		c.JSON(http.StatusBadRequest, gin.H{"error": "BAD_TOKEN"})
	case errors.Is(err, services.ErrTokenExpired):
		c.JSON(http.StatusBadRequest, gin.H{"error": "TOKEN_EXPIRED"})
	default:
		log.Printf("[auth][reset-password] failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "UNKNOWN_ERROR"})
	}
}
