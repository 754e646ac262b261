package services

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/url"
	"strings"
	"time"

	"onerinn/internal/identity"
	"onerinn/internal/models"
	"onerinn/internal/ratelimit"
	"onerinn/internal/repositories"
	"onerinn/internal/utils"
)

var (
	ErrRequiredFields   = errors.New("token and password are required")
	ErrPasswordTooShort = errors.New("password too short")
	ErrBadToken         = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token expired")
)

const (
	resetTokenTTL = 60 * time.Minute

	// лимиты на выдачу: по IP и по введённой identity
	resetIPLimit       = 10
	resetIdentityLimit = 3
	resetWindow        = time.Hour
)

type PasswordResetService interface {
	// RequestReset всегда "успешен" для вызывающего: существование
	// аккаунта по ответу не определить. Ошибки только логируются.
	RequestReset(ctx context.Context, identityStr, locale, ip string)
	ResetPassword(token, newPassword string) error
}

type passwordResetService struct {
	users   UserService
	repo    repositories.PasswordResetRepository
	emails  EmailService
	auth    AuthService
	limiter ratelimit.Limiter
	baseURL string
}

func NewPasswordResetService(
	users UserService,
	repo repositories.PasswordResetRepository,
	emails EmailService,
	auth AuthService,
	limiter ratelimit.Limiter,
	baseURL string,
) PasswordResetService {
	return &passwordResetService{
		users:   users,
		repo:    repo,
		emails:  emails,
		auth:    auth,
		limiter: limiter,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

func (s *passwordResetService) RequestReset(ctx context.Context, identityStr, locale, ip string) {
	identityStr = strings.TrimSpace(identityStr)
	if identityStr == "" {
		return
	}

	// ошибка лимитера = отказ, на этом пути не бывает fail-open
	if ip != "" {
		if ok, err := s.limiter.Allow(ctx, "reset:ip:"+ip, resetIPLimit, resetWindow); err != nil || !ok {
			log.Printf("[password-reset][request] throttled ip=%s err=%v", ip, err)
			return
		}
	}
	idKey := "reset:id:" + identity.NormalizeEmail(identityStr)
	if ok, err := s.limiter.Allow(ctx, idKey, resetIdentityLimit, resetWindow); err != nil || !ok {
		log.Printf("[password-reset][request] throttled identity=%q err=%v", identityStr, err)
		return
	}

	user, err := s.users.FindByIdentity(identityStr)
	if err != nil || user == nil || user.Email == "" {
		// не раскрываем существование аккаунта
		log.Printf("[password-reset][request] identity=%q: no account or no email: %v", identityStr, err)
		return
	}

	token, err := utils.NewToken(32)
	if err != nil {
		log.Printf("[password-reset][request] token generation failed: %v", err)
		return
	}
	expires := time.Now().Add(resetTokenTTL)
	if _, err := s.repo.IssueNew(user.Email, utils.HashToken(token), expires); err != nil {
		log.Printf("[password-reset][request] store token for %s failed: %v", user.Email, err)
		return
	}

	resetURL := s.baseURL + "/reset-password?token=" + url.QueryEscape(token)
	if err := s.emails.SendPasswordResetEmail(user.Email, resetURL, locale); err != nil {
		log.Printf("[password-reset][request] send email to %s failed: %v", user.Email, err)
		return
	}
	log.Printf("[password-reset][request] issued for userID=%d exp_at=%s", user.ID, expires.Format(time.RFC3339))
}

func (s *passwordResetService) ResetPassword(token, newPassword string) error {
	token = strings.TrimSpace(token)
	newPassword = strings.TrimSpace(newPassword)
	if token == "" || newPassword == "" {
		return ErrRequiredFields
	}
	// длину проверяем до любых обращений к БД
	if len(newPassword) < MinPasswordLen {
		return ErrPasswordTooShort
	}

	pr, err := s.repo.GetByTokenHash(utils.HashToken(token))
	if err != nil || pr == nil || pr.Email == "" {
		return ErrBadToken
	}
	if pr.Status != models.ResetStatusIssued {
		return ErrBadToken
	}
	// момент expires_at включительно — просрочен
	if !time.Now().Before(pr.ExpiresAt) {
		return ErrTokenExpired
	}

	user, err := s.users.FindByIdentity(pr.Email)
	if err != nil || user == nil {
		return ErrBadToken
	}

	hash, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	if err := s.repo.Consume(pr.ID, user.ID, hash); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrBadToken
		}
		return err
	}
	log.Printf("[password-reset][consume] password updated for userID=%d", user.ID)
	return nil
}
