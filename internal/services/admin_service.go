package services

import (
	"database/sql"
	"errors"
	"log"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"onerinn/internal/models"
	"onerinn/internal/onetime"
	"onerinn/internal/repositories"
)

const adminSessionTTL = 30 * 24 * time.Hour

var ErrNoSession = errors.New("no valid admin session")

type AdminService interface {
	Login(login, password string) (*models.AdminAccount, *models.AdminSession, error)
	// LookupSession всегда проверяет срок сессии и активность аккаунта,
	// эта проверка не делегируется вызывающим
	LookupSession(sessionID string) (*models.AdminAccount, error)
	Logout(sessionID string) error
	// Сброс пароля через одноразовый токен в памяти процесса
	RequestPasswordReset(login, locale string)
	ResetPassword(token, newPassword string) error
}

type adminService struct {
	accounts repositories.AdminAccountRepository
	sessions repositories.AdminSessionRepository
	tokens   onetime.Store
	emails   EmailService
	auth     AuthService
	baseURL  string
}

func NewAdminService(
	accounts repositories.AdminAccountRepository,
	sessions repositories.AdminSessionRepository,
	tokens onetime.Store,
	emails EmailService,
	auth AuthService,
	baseURL string,
) AdminService {
	return &adminService{
		accounts: accounts,
		sessions: sessions,
		tokens:   tokens,
		emails:   emails,
		auth:     auth,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
	}
}

func (s *adminService) Login(login, password string) (*models.AdminAccount, *models.AdminSession, error) {
	acc, err := s.accounts.GetByLogin(strings.TrimSpace(login))
	if err != nil || acc == nil {
		return nil, nil, ErrInvalidCredentials
	}
	if !acc.Active {
		return nil, nil, ErrInvalidCredentials
	}
	if !s.auth.CheckPassword(acc.PasswordHash, strings.TrimSpace(password)) {
		return nil, nil, ErrInvalidCredentials
	}

	session, err := s.sessions.Create(uuid.NewString(), acc.ID, time.Now().Add(adminSessionTTL))
	if err != nil {
		return nil, nil, err
	}
	log.Printf("[admin][login] success adminID=%d sessionID=%s", acc.ID, session.ID)
	return acc, session, nil
}

func (s *adminService) LookupSession(sessionID string) (*models.AdminAccount, error) {
	if sessionID == "" {
		return nil, ErrNoSession
	}
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return nil, ErrNoSession
	}
	if !time.Now().Before(session.ExpiresAt) {
		// протухшую строку подчищаем сразу
		if err := s.sessions.Delete(sessionID); err != nil {
			log.Printf("[admin][session] delete expired %s: %v", sessionID, err)
		}
		return nil, ErrNoSession
	}
	acc, err := s.accounts.GetByID(session.AdminID)
	if err != nil || acc == nil || !acc.Active {
		return nil, ErrNoSession
	}
	return acc, nil
}

func (s *adminService) Logout(sessionID string) error {
	// повторный logout с тем же cookie — тоже ok
	return s.sessions.Delete(sessionID)
}

func (s *adminService) RequestPasswordReset(login, locale string) {
	acc, err := s.accounts.GetByLogin(strings.TrimSpace(login))
	if err != nil || acc == nil || acc.Email == "" {
		log.Printf("[admin][reset] login=%q: no account: %v", login, err)
		return
	}
	token, err := s.tokens.Create(strconv.Itoa(acc.ID), resetTokenTTL)
	if err != nil {
		log.Printf("[admin][reset] token for adminID=%d failed: %v", acc.ID, err)
		return
	}
	resetURL := s.baseURL + "/admin/reset-password?token=" + url.QueryEscape(token)
	if err := s.emails.SendPasswordResetEmail(acc.Email, resetURL, locale); err != nil {
		log.Printf("[admin][reset] email to %s failed: %v", acc.Email, err)
	}
}

func (s *adminService) ResetPassword(token, newPassword string) error {
	token = strings.TrimSpace(token)
	newPassword = strings.TrimSpace(newPassword)
	if token == "" || newPassword == "" {
		return ErrRequiredFields
	}
	if len(newPassword) < MinPasswordLen {
		return ErrPasswordTooShort
	}

	idStr, err := s.tokens.VerifyAndUse(token)
	if err != nil {
		if errors.Is(err, onetime.ErrExpired) {
			return ErrTokenExpired
		}
		return ErrBadToken
	}
	adminID, err := strconv.Atoi(idStr)
	if err != nil {
		return ErrBadToken
	}
	if _, err := s.accounts.GetByID(adminID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBadToken
		}
		return err
	}

	hash, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.accounts.UpdatePassword(adminID, hash); err != nil {
		return err
	}
	// старые сессии после смены пароля недействительны
	if err := s.sessions.DeleteForAdmin(adminID); err != nil {
		log.Printf("[admin][reset] drop sessions for adminID=%d: %v", adminID, err)
	}
	return nil
}
