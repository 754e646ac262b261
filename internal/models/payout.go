package models

import "time"

const (
	PayoutStatusRequested = "requested"
	PayoutStatusApproved  = "approved"
	PayoutStatusPaid      = "paid"
	PayoutStatusRejected  = "rejected"
)

type Payout struct {
	ID          int    `json:"id"`
	UserID      int    `json:"user_id"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	// реквизиты храним маской, полные данные в платёжном контуре
	Destination string `json:"destination"`
	Status      string `json:"status"`

	CreatedAt time.Time  `json:"created_at"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
}

type PayoutRequest struct {
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	Destination string `json:"destination"`
}
