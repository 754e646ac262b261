package models

import "time"

type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	PasswordHash string `json:"-"` // не отдаём наружу

	// профиль
	AvatarURL string `json:"avatar_url,omitempty"`
	Bio       string `json:"bio,omitempty"`
	Contact   string `json:"contact,omitempty"`

	// флаги модерации: аккаунты не удаляем, блокируем
	Blocked        bool `json:"blocked"`
	SellerVerified bool `json:"seller_verified"`

	CreatedAt time.Time `json:"created_at"`
}

type LoginRequest struct {
	Login    string `json:"login"` // email или username
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
	Locale   string `json:"locale"`
}

// LoginRegisterRequest — комбинированный вход: если аккаунт есть — логин,
// если нет — регистрация на лету
type LoginRegisterRequest struct {
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Name     string `json:"name"`
	Password string `json:"password"`
	Locale   string `json:"locale"`
}
