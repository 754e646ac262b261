package models

import "time"

// Статусы токена сброса. Переходы только вперёд:
// issued -> consumed | superseded; просрочка определяется по expires_at.
const (
	ResetStatusIssued     = "issued"
	ResetStatusConsumed   = "consumed"
	ResetStatusSuperseded = "superseded"
)

type PasswordReset struct {
	ID        int       `json:"id"`
	Email     string    `json:"email"`
	TokenHash string    `json:"-"` // SHA-256, открытый токен в БД не попадает
	Status    string    `json:"status"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
