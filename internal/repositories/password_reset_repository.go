package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"onerinn/internal/models"
)

type PasswordResetRepository interface {
	// IssueNew атомарно гасит живые токены этого email и создаёт новый:
	// одновременные запросы сериализуются блокировками строк,
	// два живых токена на один email существовать не могут.
	IssueNew(email, tokenHash string, expiresAt time.Time) (*models.PasswordReset, error)
	GetByTokenHash(tokenHash string) (*models.PasswordReset, error)
	// Consume в одной транзакции помечает токен использованным и меняет
	// пароль: упасть между этими шагами и оставить токен живым нельзя.
	Consume(resetID, userID int, newPasswordHash string) error
}

type passwordResetRepository struct {
	DB *sql.DB
}

func NewPasswordResetRepository(db *sql.DB) PasswordResetRepository {
	return &passwordResetRepository{DB: db}
}

func (r *passwordResetRepository) IssueNew(email, tokenHash string, expiresAt time.Time) (*models.PasswordReset, error) {
	tx, err := r.DB.Begin()
	if err != nil {
		return nil, fmt.Errorf("password_reset issue: %w", err)
	}
	defer tx.Rollback()

	const supersede = `
		UPDATE password_resets
		SET status = 'superseded'
		WHERE email = $1 AND status = 'issued' AND expires_at > NOW()
	`
	if _, err := tx.Exec(supersede, email); err != nil {
		return nil, fmt.Errorf("password_reset supersede: %w", err)
	}

	const insert = `
		INSERT INTO password_resets (email, token_hash, status, expires_at)
		VALUES ($1, $2, 'issued', $3)
		RETURNING id, created_at
	`
	pr := &models.PasswordReset{
		Email:     email,
		TokenHash: tokenHash,
		Status:    models.ResetStatusIssued,
		ExpiresAt: expiresAt,
	}
	if err := tx.QueryRow(insert, email, tokenHash, expiresAt).Scan(&pr.ID, &pr.CreatedAt); err != nil {
		return nil, fmt.Errorf("password_reset insert: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("password_reset issue commit: %w", err)
	}
	return pr, nil
}

func (r *passwordResetRepository) GetByTokenHash(tokenHash string) (*models.PasswordReset, error) {
	const q = `
		SELECT id, email, token_hash, status, expires_at, created_at
		FROM password_resets
		WHERE token_hash = $1
	`
	pr := &models.PasswordReset{}
	err := r.DB.QueryRow(q, tokenHash).Scan(
		&pr.ID, &pr.Email, &pr.TokenHash, &pr.Status, &pr.ExpiresAt, &pr.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return pr, nil
}

func (r *passwordResetRepository) Consume(resetID, userID int, newPasswordHash string) error {
	tx, err := r.DB.Begin()
	if err != nil {
		return fmt.Errorf("password_reset consume: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(`
		UPDATE password_resets
		SET status = 'consumed'
		WHERE id = $1 AND status = 'issued'
	`, resetID)
	if err != nil {
		return fmt.Errorf("password_reset mark consumed: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// токен увели из-под нас (повторный submit, supersede)
		return sql.ErrNoRows
	}

	if _, err := tx.Exec(`UPDATE users SET password_hash=$1 WHERE id=$2`, newPasswordHash, userID); err != nil {
		return fmt.Errorf("password_reset update password: %w", err)
	}

	return tx.Commit()
}
