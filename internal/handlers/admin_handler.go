package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"onerinn/internal/middleware"
	"onerinn/internal/models"
	"onerinn/internal/services"
)

const adminCookieMaxAge = 30 * 24 * 60 * 60

type AdminHandler struct {
	admins        services.AdminService
	users         services.UserService
	listings      services.ListingService
	payouts       services.PayoutService
	verifications services.VerificationService
	assistant     *services.AssistantService
	cookieName    string
	secureCookies bool
}

func NewAdminHandler(
	admins services.AdminService,
	users services.UserService,
	listings services.ListingService,
	payouts services.PayoutService,
	verifications services.VerificationService,
	assistant *services.AssistantService,
	cookieName string,
	secureCookies bool,
) *AdminHandler {
	return &AdminHandler{
		admins:        admins,
		users:         users,
		listings:      listings,
		payouts:       payouts,
		verifications: verifications,
		assistant:     assistant,
		cookieName:    cookieName,
		secureCookies: secureCookies,
	}
}

// --- аутентификация ---

// @Summary      Вход администратора
// @Description  Сессия — непрозрачный ID в БД, cookie на 30 дней
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        body  body      models.AdminLoginRequest  true  "Логин и пароль"
// @Success      200   {object}  map[string]interface{}
// @Failure      401   {object}  map[string]string
// @Router       /api/admin/login [post]
func (h *AdminHandler) Login(c *gin.Context) {
	var req models.AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "BAD_REQUEST"})
		return
	}
	acc, session, err := h.admins.Login(req.Login, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "INVALID_CREDENTIALS"})
		return
	}
	setSessionCookie(c, h.cookieName, session.ID, adminCookieMaxAge, h.secureCookies)
	c.JSON(http.StatusOK, gin.H{"admin": acc})
}

// @Summary      Выход администратора
// @Description  Идемпотентен: повторный вызов с тем же cookie тоже ok
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  map[string]bool
// @Router       /api/admin/logout [post]
func (h *AdminHandler) Logout(c *gin.Context) {
	if sessionID, err := c.Cookie(h.cookieName); err == nil && sessionID != "" {
		if err := h.admins.Logout(sessionID); err != nil {
			log.Printf("[admin][logout] sessionID=%s: %v", sessionID, err)
		}
		h.assistant.Forget(sessionID)
	}
	clearSessionCookie(c, h.cookieName, h.secureCookies)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// @Summary      Текущий администратор
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/admin/me [get]
func (h *AdminHandler) Me(c *gin.Context) {
	role, _ := c.Get(middleware.CtxAdminRole)
	c.JSON(http.StatusOK, gin.H{"admin_id": currentAdminID(c), "role": role})
}

// @Summary      Запрос сброса пароля администратора
// @Description  Ответ всегда одинаковый; токен одноразовый и живёт в памяти процесса
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        body  body      map[string]string  true  "login"
// @Success      200   {object}  map[string]bool
// @Router       /api/admin/forgot-password [post]
func (h *AdminHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Login  string `json:"login"`
		Locale string `json:"locale"`
	}
	_ = c.ShouldBindJSON(&req)
	locale := req.Locale
	if locale == "" {
		locale = middleware.GetLocale(c)
	}
	h.admins.RequestPasswordReset(req.Login, locale)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// @Summary      Сброс пароля администратора по токену
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        body  body      map[string]string  true  "token и новый password"
// @Success      200   {object}  map[string]bool
// @Failure      400   {object}  map[string]string
// @Router       /api/admin/reset-password [post]
func (h *AdminHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Token    string `json:"token"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "REQUIRED_FIELDS"})
		return
	}
	err := h.admins.ResetPassword(req.Token, req.Password)
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
		log.Printf("[admin][reset-password] failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "UNKNOWN_ERROR"})
	}
}

// --- пользователи ---

// @Summary      Список пользователей
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	limit, offset := pagination(c)
	users, err := h.users.ListUsers(limit, offset)
	if err != nil {
		log.Printf("[admin][users] list: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "UNKNOWN_ERROR"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

// @Summary      Заблокировать / разблокировать пользователя
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        id    path      int                true  "ID пользователя"
// @Param        body  body      map[string]bool    true  "blocked"
// @Success      200   {object}  map[string]bool
// @Router       /api/admin/users/{id}/block [post]
func (h *AdminHandler) SetUserBlocked(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		Blocked bool `json:"blocked"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "BAD_REQUEST"})
		return
	}
	if err := h.users.SetBlocked(id, req.Blocked); err != nil {
		log.Printf("[admin][users] block id=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "UNKNOWN_ERROR"})
		return
	}
	log.Printf("[admin][users] adminID=%d set blocked=%t for userID=%d", currentAdminID(c), req.Blocked, id)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// --- модерация объявлений ---

// @Summary      Очередь модерации объявлений
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/admin/listings/pending [get]
func (h *AdminHandler) PendingListings(c *gin.Context) {
	limit, offset := pagination(c)
	items, err := h.listings.ListPending(limit, offset)
	if err != nil {
		log.Printf("[admin][moderation] pending: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "UNKNOWN_ERROR"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"listings": items})
}

// @Summary      Решение по объявлению
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        id    path      int              true  "ID объявления"
// @Param        body  body      map[string]bool  true  "approve"
// @Success      200   {object}  map[string]bool
// @Router       /api/admin/listings/{id}/moderate [post]
func (h *AdminHandler) ModerateListing(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		Approve bool `json:"approve"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "BAD_REQUEST"})
		return
	}
	if err := h.listings.Moderate(id, req.Approve); err != nil {
		log.Printf("[admin][moderation] listingID=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "UNKNOWN_ERROR"})
		return
	}
	log.Printf("[admin][moderation] adminID=%d approve=%t listingID=%d", currentAdminID(c), req.Approve, id)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// --- выплаты (только superadmin, см. маршруты) ---

// @Summary      Выплаты по статусу
// @Tags         Admin
// @Produce      json
// @Param        status  query     string  false  "requested | approved | paid | rejected"
// @Success      200     {object}  map[string]interface{}
// @Router       /api/admin/payouts [get]
func (h *AdminHandler) ListPayouts(c *gin.Context) {
	limit, offset := pagination(c)
	status := c.DefaultQuery("status", models.PayoutStatusRequested)
	items, err := h.payouts.ListByStatus(status, limit, offset)
	if err != nil {
		log.Printf("[admin][payouts] list status=%s: %v", status, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "UNKNOWN_ERROR"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"payouts": items})
}

func (h *AdminHandler) payoutAction(c *gin.Context, action string, fn func(id int) error) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	err := fn(id)
	switch {
	case err == nil:
		log.Printf("[admin][payouts] adminID=%d %s payoutID=%d", currentAdminID(c), action, id)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	case errors.Is(err, services.ErrPayoutNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "NOT_FOUND"})
	case errors.Is(err, services.ErrPayoutBadState):
		c.JSON(http.StatusBadRequest, gin.H{"error": "BAD_STATE"})
	default:
		log.Printf("[admin][payouts] %s payoutID=%d: %v", action, id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "UNKNOWN_ERROR"})
	}
}

// @Summary      Одобрить выплату
// @Tags         Admin
// @Produce      json
// @Param        id   path      int  true  "ID выплаты"
// @Success      200  {object}  map[string]bool
// @Router       /api/admin/payouts/{id}/approve [post]
func (h *AdminHandler) ApprovePayout(c *gin.Context) {
	h.payoutAction(c, "approve", h.payouts.Approve)
}

// @Summary      Отклонить выплату
// @Tags         Admin
// @Produce      json
// @Param        id   path      int  true  "ID выплаты"
// @Success      200  {object}  map[string]bool
// @Router       /api/admin/payouts/{id}/reject [post]
func (h *AdminHandler) RejectPayout(c *gin.Context) {
	h.payoutAction(c, "reject", h.payouts.Reject)
}

// @Summary      Отметить выплату исполненной
// @Tags         Admin
// @Produce      json
// @Param        id   path      int  true  "ID выплаты"
// @Success      200  {object}  map[string]bool
// @Router       /api/admin/payouts/{id}/paid [post]
func (h *AdminHandler) MarkPayoutPaid(c *gin.Context) {
	locale := middleware.GetLocale(c)
	h.payoutAction(c, "paid", func(id int) error {
		return h.payouts.MarkPaid(id, locale)
	})
}

// @Summary      PDF-выписка по выплате (админ)
// @Tags         Admin
// @Produce      application/pdf
// @Param        id   path  int  true  "ID выплаты"
// @Success      200  {file}    binary
// @Router       /api/admin/payouts/{id}/statement [get]
func (h *AdminHandler) PayoutStatement(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	data, err := h.payouts.Statement(id, 0, true)
	switch {
	case err == nil:
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=payout_%d.pdf", id))
		c.Data(http.StatusOK, "application/pdf", data)
	case errors.Is(err, services.ErrPayoutNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "NOT_FOUND"})
	case errors.Is(err, services.ErrPayoutBadState):
		c.JSON(http.StatusBadRequest, gin.H{"error": "NOT_PAID_YET"})
	default:
		log.Printf("[admin][payouts] statement payoutID=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "UNKNOWN_ERROR"})
	}
}

// --- верификация продавцов ---

// @Summary      Заявки на верификацию
// @Tags         Admin
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/admin/verification [get]
func (h *AdminHandler) PendingVerifications(c *gin.Context) {
	limit, offset := pagination(c)
	items, err := h.verifications.ListPending(limit, offset)
	if err != nil {
		log.Printf("[admin][verification] pending: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "UNKNOWN_ERROR"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": items})
}

// @Summary      Решение по верификации
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        id    path      int              true  "ID заявки"
// @Param        body  body      map[string]bool  true  "approve"
// @Success      200   {object}  map[string]bool
// @Router       /api/admin/verification/{id}/review [post]
func (h *AdminHandler) ReviewVerification(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req struct {
		Approve bool `json:"approve"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "BAD_REQUEST"})
		return
	}
	err := h.verifications.Review(id, currentAdminID(c), req.Approve)
	switch {
	case err == nil:
		log.Printf("[admin][verification] adminID=%d approve=%t requestID=%d", currentAdminID(c), req.Approve, id)
		c.JSON(http.StatusOK, gin.H{"ok": true})
	case errors.Is(err, services.ErrVerificationNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "NOT_FOUND"})
	default:
		log.Printf("[admin][verification] review requestID=%d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "UNKNOWN_ERROR"})
	}
}

// --- ассистент ---

// @Summary      Вопрос LLM-ассистенту модератора
// @Description  История диалога привязана к админской сессии и живёт в памяти
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        body  body      map[string]string  true  "message"
// @Success      200   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /api/admin/assistant [post]
func (h *AdminHandler) AskAssistant(c *gin.Context) {
	var req struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "MESSAGE_REQUIRED"})
		return
	}
	sessionID, _ := c.Get(middleware.CtxAdminSessionID)
	sessionStr, _ := sessionID.(string)

	reply, err := h.assistant.Ask(c.Request.Context(), sessionStr, req.Message)
	if err != nil {
		log.Printf("[admin][assistant] adminID=%d: %v", currentAdminID(c), err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "ASSISTANT_UNAVAILABLE"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"reply": reply})
}
