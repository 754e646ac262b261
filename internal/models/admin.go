package models

import "time"

// AdminAccount — отдельное пространство аккаунтов, не пересекается с users.
// Заводится скриптом cmd/createadmin, не через API.
type AdminAccount struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
}

// AdminSession — серверная сессия: в cookie уходит только ID (uuid),
// всё остальное по нему достаётся из БД
type AdminSession struct {
	ID        string    `json:"id"`
	AdminID   int       `json:"admin_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

type AdminLoginRequest struct {
	Login    string `json:"login"` // email или username
	Password string `json:"password"`
}
