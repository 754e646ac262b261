package models

import "time"

const (
	VerificationStatusPending  = "pending"
	VerificationStatusApproved = "approved"
	VerificationStatusRejected = "rejected"
)

// VerificationRequest — заявка продавца на верификацию: документы
// загружаются через /api/uploads, сюда попадают их ключи
type VerificationRequest struct {
	ID           int      `json:"id"`
	UserID       int      `json:"user_id"`
	DocumentKeys []string `json:"document_keys"`
	Comment      string   `json:"comment,omitempty"`
	Status       string   `json:"status"`

	ReviewedBy *int       `json:"reviewed_by,omitempty"` // admin_accounts.id
	ReviewedAt *time.Time `json:"reviewed_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
