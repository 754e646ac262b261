package services

import (
	"database/sql"
	"errors"
	"log"
	"strings"

	"onerinn/internal/identity"
	"onerinn/internal/models"
	"onerinn/internal/repositories"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrDuplicateAccount   = errors.New("account already exists")
	ErrAccountBlocked     = errors.New("account blocked")
	ErrIncompleteRequest  = errors.New("incomplete request")
)

const MinPasswordLen = 6

type UserService interface {
	Register(req *models.RegisterRequest) (*models.User, error)
	// Authenticate — и "нет аккаунта", и "неверный пароль" дают один
	// и тот же ErrInvalidCredentials, форму ответа не различить
	Authenticate(login, password string) (*models.User, error)
	// LoginOrRegister — первый вход: есть аккаунт — логин, нет — создаём
	LoginOrRegister(req *models.LoginRegisterRequest) (*models.User, bool, error)
	// FindByIdentity — порядок фиксированный: email, телефон, username
	FindByIdentity(identityStr string) (*models.User, error)
	GetUserByID(id int) (*models.User, error)
	UpdateProfile(user *models.User) error
	ChangePassword(userID int, oldPassword, newPassword string) error
	ListUsers(limit, offset int) ([]*models.User, error)
	SetBlocked(userID int, blocked bool) error
}

type userService struct {
	repo   repositories.UserRepository
	emails EmailService
	auth   AuthService
}

func NewUserService(repo repositories.UserRepository, emails EmailService, auth AuthService) UserService {
	return &userService{repo: repo, emails: emails, auth: auth}
}

func (s *userService) Register(req *models.RegisterRequest) (*models.User, error) {
	username := identity.NormalizeUsername(req.Username)
	email := identity.NormalizeEmail(req.Email)
	phone := identity.NormalizePhone(req.Phone)

	if username == "" || strings.TrimSpace(req.Password) == "" {
		return nil, ErrIncompleteRequest
	}
	if email == "" && phone == "" {
		return nil, ErrIncompleteRequest
	}
	if len(req.Password) < MinPasswordLen {
		return nil, ErrIncompleteRequest
	}

	hash, err := s.auth.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Username:     username,
		Email:        email,
		Phone:        phone,
		PasswordHash: hash,
	}
	if err := s.repo.Create(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrDuplicateAccount
		}
		return nil, err
	}

	if s.emails != nil && user.Email != "" {
		if err := s.emails.SendWelcomeEmail(user.Email, user.Username, req.Locale); err != nil {
			// письмо не критично, регистрацию не откатываем
			log.Printf("[users][register] warning: welcome email to %s failed: %v", user.Email, err)
		}
	}
	return user, nil
}

func (s *userService) Authenticate(login, password string) (*models.User, error) {
	user, err := s.FindByIdentity(login)
	if err != nil || user == nil {
		return nil, ErrInvalidCredentials
	}
	ph := strings.TrimSpace(user.PasswordHash)
	if ph == "" || !s.auth.CheckPassword(ph, strings.TrimSpace(password)) {
		return nil, ErrInvalidCredentials
	}
	if user.Blocked {
		return nil, ErrAccountBlocked
	}
	return user, nil
}

func (s *userService) LoginOrRegister(req *models.LoginRegisterRequest) (*models.User, bool, error) {
	login := req.Email
	if login == "" {
		login = req.Phone
	}
	if login == "" || req.Password == "" {
		return nil, false, ErrIncompleteRequest
	}

	existing, err := s.FindByIdentity(login)
	if err == nil && existing != nil {
		user, err := s.Authenticate(login, req.Password)
		if err != nil {
			return nil, false, err
		}
		return user, false, nil
	}

	username := identity.NormalizeUsername(req.Name)
	if username == "" {
		// имя не прислали — выводим из email/телефона
		username = deriveUsername(req.Email, req.Phone)
	}
	user, err := s.Register(&models.RegisterRequest{
		Username: username,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Locale:   req.Locale,
	})
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

func (s *userService) FindByIdentity(identityStr string) (*models.User, error) {
	switch identity.Classify(identityStr) {
	case identity.KindEmail:
		return s.ignoreNoRows(s.repo.GetByEmail(identity.NormalizeEmail(identityStr)))
	case identity.KindPhone:
		return s.ignoreNoRows(s.repo.GetByPhone(identity.NormalizePhone(identityStr)))
	case identity.KindUsername:
		return s.ignoreNoRows(s.repo.GetByUsername(identity.NormalizeUsername(identityStr)))
	default:
		return nil, nil
	}
}

func (s *userService) ignoreNoRows(u *models.User, err error) (*models.User, error) {
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return u, err
}

func (s *userService) GetUserByID(id int) (*models.User, error) {
	return s.repo.GetByID(id)
}

func (s *userService) UpdateProfile(user *models.User) error {
	if err := s.repo.Update(user); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return ErrDuplicateAccount
		}
		return err
	}
	return nil
}

func (s *userService) ChangePassword(userID int, oldPassword, newPassword string) error {
	if len(newPassword) < MinPasswordLen {
		return ErrPasswordTooShort
	}
	user, err := s.repo.GetByID(userID)
	if err != nil {
		return err
	}
	if !s.auth.CheckPassword(user.PasswordHash, oldPassword) {
		return ErrInvalidCredentials
	}
	hash, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.repo.UpdatePassword(userID, hash)
}

func (s *userService) ListUsers(limit, offset int) ([]*models.User, error) {
	return s.repo.List(limit, offset)
}

func (s *userService) SetBlocked(userID int, blocked bool) error {
	return s.repo.SetBlocked(userID, blocked)
}

func deriveUsername(email, phone string) string {
	if email != "" {
		if i := strings.IndexByte(email, '@'); i > 0 {
			return identity.NormalizeUsername(email[:i])
		}
	}
	p := identity.NormalizePhone(phone)
	return strings.TrimPrefix(p, "+")
}
