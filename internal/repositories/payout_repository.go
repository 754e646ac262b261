package repositories

import (
	"database/sql"
	"time"

	"onerinn/internal/models"
)

type PayoutRepository interface {
	Create(p *models.Payout) error
	GetByID(id int) (*models.Payout, error)
	ListByUser(userID int) ([]*models.Payout, error)
	ListByStatus(status string, limit, offset int) ([]*models.Payout, error)
	SetStatus(id int, status string, paidAt *time.Time) error
}

type payoutRepository struct {
	DB *sql.DB
}

func NewPayoutRepository(db *sql.DB) PayoutRepository {
	return &payoutRepository{DB: db}
}

const payoutColumns = `id, user_id, amount_cents, currency, destination, status, created_at, paid_at`

func scanPayout(scan func(dest ...any) error) (*models.Payout, error) {
	p := &models.Payout{}
	var paidAt sql.NullTime
	if err := scan(&p.ID, &p.UserID, &p.AmountCents, &p.Currency, &p.Destination, &p.Status, &p.CreatedAt, &paidAt); err != nil {
		return nil, err
	}
	if paidAt.Valid {
		t := paidAt.Time
		p.PaidAt = &t
	}
	return p, nil
}

func (r *payoutRepository) Create(p *models.Payout) error {
	const q = `
		INSERT INTO payouts (user_id, amount_cents, currency, destination, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	return r.DB.QueryRow(q, p.UserID, p.AmountCents, p.Currency, p.Destination, p.Status).
		Scan(&p.ID, &p.CreatedAt)
}

func (r *payoutRepository) GetByID(id int) (*models.Payout, error) {
	const q = `SELECT ` + payoutColumns + ` FROM payouts WHERE id = $1`
	return scanPayout(r.DB.QueryRow(q, id).Scan)
}

func (r *payoutRepository) ListByUser(userID int) ([]*models.Payout, error) {
	const q = `SELECT ` + payoutColumns + ` FROM payouts WHERE user_id = $1 ORDER BY created_at DESC`
	return r.queryList(q, userID)
}

func (r *payoutRepository) ListByStatus(status string, limit, offset int) ([]*models.Payout, error) {
	const q = `
		SELECT ` + payoutColumns + `
		FROM payouts
		WHERE status = $1
		ORDER BY created_at
		LIMIT $2 OFFSET $3
	`
	return r.queryList(q, status, limit, offset)
}

func (r *payoutRepository) queryList(q string, args ...any) ([]*models.Payout, error) {
	rows, err := r.DB.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*models.Payout
	for rows.Next() {
		p, err := scanPayout(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, p)
	}
	return res, rows.Err()
}

func (r *payoutRepository) SetStatus(id int, status string, paidAt *time.Time) error {
	_, err := r.DB.Exec(`UPDATE payouts SET status=$1, paid_at=$2 WHERE id=$3`, status, paidAt, id)
	return err
}
