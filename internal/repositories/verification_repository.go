package repositories

import (
	"database/sql"
	"time"

	"github.com/lib/pq"

	"onerinn/internal/models"
)

type VerificationRepository interface {
	Create(v *models.VerificationRequest) error
	GetByID(id int) (*models.VerificationRequest, error)
	GetLatestByUser(userID int) (*models.VerificationRequest, error)
	ListByStatus(status string, limit, offset int) ([]*models.VerificationRequest, error)
	Review(id int, status string, adminID int, reviewedAt time.Time) error
}

type verificationRepository struct {
	DB *sql.DB
}

func NewVerificationRepository(db *sql.DB) VerificationRepository {
	return &verificationRepository{DB: db}
}

const verificationColumns = `id, user_id, document_keys, COALESCE(comment,''), status, reviewed_by, reviewed_at, created_at`

func scanVerification(scan func(dest ...any) error) (*models.VerificationRequest, error) {
	v := &models.VerificationRequest{}
	var reviewedBy sql.NullInt64
	var reviewedAt sql.NullTime
	err := scan(&v.ID, &v.UserID, pq.Array(&v.DocumentKeys), &v.Comment, &v.Status, &reviewedBy, &reviewedAt, &v.CreatedAt)
	if err != nil {
		return nil, err
	}
	if reviewedBy.Valid {
		n := int(reviewedBy.Int64)
		v.ReviewedBy = &n
	}
	if reviewedAt.Valid {
		t := reviewedAt.Time
		v.ReviewedAt = &t
	}
	return v, nil
}

func (r *verificationRepository) Create(v *models.VerificationRequest) error {
	const q = `
		INSERT INTO verification_requests (user_id, document_keys, comment, status)
		VALUES ($1, $2, NULLIF($3,''), $4)
		RETURNING id, created_at
	`
	return r.DB.QueryRow(q, v.UserID, pq.Array(v.DocumentKeys), v.Comment, v.Status).
		Scan(&v.ID, &v.CreatedAt)
}

func (r *verificationRepository) GetByID(id int) (*models.VerificationRequest, error) {
	const q = `SELECT ` + verificationColumns + ` FROM verification_requests WHERE id = $1`
	return scanVerification(r.DB.QueryRow(q, id).Scan)
}

func (r *verificationRepository) GetLatestByUser(userID int) (*models.VerificationRequest, error) {
	const q = `
		SELECT ` + verificationColumns + `
		FROM verification_requests
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	return scanVerification(r.DB.QueryRow(q, userID).Scan)
}

func (r *verificationRepository) ListByStatus(status string, limit, offset int) ([]*models.VerificationRequest, error) {
	const q = `
		SELECT ` + verificationColumns + `
		FROM verification_requests
		WHERE status = $1
		ORDER BY created_at
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.Query(q, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*models.VerificationRequest
	for rows.Next() {
		v, err := scanVerification(rows.Scan)
		if err != nil {
			return nil, err
		}
		res = append(res, v)
	}
	return res, rows.Err()
}

func (r *verificationRepository) Review(id int, status string, adminID int, reviewedAt time.Time) error {
	const q = `
		UPDATE verification_requests
		SET status=$1, reviewed_by=$2, reviewed_at=$3
		WHERE id=$4
	`
	_, err := r.DB.Exec(q, status, adminID, reviewedAt, id)
	return err
}
