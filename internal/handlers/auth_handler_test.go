package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onerinn/internal/middleware"
	"onerinn/internal/models"
	"onerinn/internal/services"
)

type fakeUserSvc struct {
	user *models.User // аккаунт с паролем "correct-pass"
}

func (f *fakeUserSvc) Authenticate(login, password string) (*models.User, error) {
	if f.user == nil || login != f.user.Email || password != "correct-pass" {
		return nil, services.ErrInvalidCredentials
	}
	if f.user.Blocked {
		return nil, services.ErrAccountBlocked
	}
	return f.user, nil
}

func (f *fakeUserSvc) GetUserByID(id int) (*models.User, error) {
	if f.user != nil && f.user.ID == id {
		return f.user, nil
	}
	return nil, services.ErrInvalidCredentials
}

func (f *fakeUserSvc) Register(*models.RegisterRequest) (*models.User, error) { panic("unused") }
func (f *fakeUserSvc) LoginOrRegister(*models.LoginRegisterRequest) (*models.User, bool, error) {
	panic("unused")
}
func (f *fakeUserSvc) FindByIdentity(string) (*models.User, error) { panic("unused") }
func (f *fakeUserSvc) UpdateProfile(*models.User) error            { panic("unused") }
func (f *fakeUserSvc) ChangePassword(int, string, string) error    { panic("unused") }
func (f *fakeUserSvc) ListUsers(int, int) ([]*models.User, error)  { panic("unused") }
func (f *fakeUserSvc) SetBlocked(int, bool) error                  { panic("unused") }

type fakeResetSvc struct {
	requests []string
	resetErr error
}

func (f *fakeResetSvc) RequestReset(_ context.Context, identity, _, _ string) {
	f.requests = append(f.requests, identity)
}

func (f *fakeResetSvc) ResetPassword(token, password string) error { return f.resetErr }

func newAuthRouter(t *testing.T) (*gin.Engine, *fakeUserSvc, *fakeResetSvc, services.AuthService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := &fakeUserSvc{user: &models.User{ID: 7, Username: "ivan", Email: "ivan@example.com"}}
	resets := &fakeResetSvc{}
	auth := services.NewAuthService("test-secret")
	h := NewAuthHandler(users, auth, resets, "onerinn_session", false, time.Hour)

	r := gin.New()
	r.POST("/api/auth/login", h.Login)
	r.POST("/api/forgot-password", h.ForgotPassword)
	r.POST("/api/auth/reset-password", h.ResetPassword)
	r.GET("/api/me", middleware.RequireUser(auth, "onerinn_session"), h.Me)
	return r, users, resets, auth
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestLoginWrongPassword(t *testing.T) {
	r, _, _, _ := newAuthRouter(t)

	w := doJSON(r, http.MethodPost, "/api/auth/login",
		`{"login":"ivan@example.com","password":"wrong"}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_CREDENTIALS")
	assert.Empty(t, w.Result().Cookies())
}

func TestLoginUnknownAccountSameResponse(t *testing.T) {
	r, _, _, _ := newAuthRouter(t)

	wrongPass := doJSON(r, http.MethodPost, "/api/auth/login",
		`{"login":"ivan@example.com","password":"wrong"}`)
	noAccount := doJSON(r, http.MethodPost, "/api/auth/login",
		`{"login":"ghost@example.com","password":"wrong"}`)

	assert.Equal(t, wrongPass.Code, noAccount.Code)
	assert.Equal(t, wrongPass.Body.String(), noAccount.Body.String())
}

func TestLoginSuccessSetsSessionCookie(t *testing.T) {
	r, _, _, auth := newAuthRouter(t)

	w := doJSON(r, http.MethodPost, "/api/auth/login",
		`{"login":"ivan@example.com","password":"correct-pass"}`)
	require.Equal(t, http.StatusOK, w.Code)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, "onerinn_session", c.Name)
	assert.True(t, c.HttpOnly)

	// в cookie подписанный токен, а не голый userId
	claims, err := auth.ParseSessionToken(c.Value, services.SessionKindUser)
	require.NoError(t, err)
	assert.Equal(t, 7, claims.SubjectID)
}

func TestLoginBlockedAccount(t *testing.T) {
	r, users, _, _ := newAuthRouter(t)
	users.user.Blocked = true

	w := doJSON(r, http.MethodPost, "/api/auth/login",
		`{"login":"ivan@example.com","password":"correct-pass"}`)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "ACCOUNT_BLOCKED")
}

func TestMeRequiresValidCookie(t *testing.T) {
	r, _, _, auth := newAuthRouter(t)

	// без cookie
	w := doJSON(r, http.MethodGet, "/api/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// подделанный токен
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: "onerinn_session", Value: "forged"})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// настоящий
	token, err := auth.IssueSessionToken(services.SessionKindUser, 7, time.Hour)
	require.NoError(t, err)
	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: "onerinn_session", Value: token})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ivan")
}

func TestForgotPasswordAlwaysOK(t *testing.T) {
	r, _, resets, _ := newAuthRouter(t)

	bodies := []string{
		`{"identity":"ivan@example.com"}`,
		`{"identity":"nobody@example.com"}`,
		`{"emailOrPhone":"+77001234567"}`,
		`not even json`,
	}
	var responses []string
	for _, b := range bodies {
		w := doJSON(r, http.MethodPost, "/api/forgot-password", b)
		assert.Equal(t, http.StatusOK, w.Code)
		responses = append(responses, w.Body.String())
	}
	// ответ буквально одинаковый для всех вариантов
	for _, resp := range responses[1:] {
		assert.Equal(t, responses[0], resp)
	}
	// пустая identity тоже уходит в сервис, отбрасывает её сервис
	assert.Len(t, resets.requests, len(bodies))
}

func TestResetPasswordErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{nil, http.StatusOK, "ok"},
		{services.ErrRequiredFields, http.StatusBadRequest, "REQUIRED_FIELDS"},
		{services.ErrPasswordTooShort, http.StatusBadRequest, "PASSWORD_TOO_SHORT"},
		{services.ErrBadToken, http.StatusBadRequest, "BAD_TOKEN"},
		{services.ErrTokenExpired, http.StatusBadRequest, "TOKEN_EXPIRED"},
	}
	for _, tc := range cases {
		r, _, resets, _ := newAuthRouter(t)
		resets.resetErr = tc.err

		w := doJSON(r, http.MethodPost, "/api/auth/reset-password",
			`{"token":"sometoken","password":"new-password"}`)
		assert.Equal(t, tc.status, w.Code)
		assert.Contains(t, w.Body.String(), tc.code)
	}
}
