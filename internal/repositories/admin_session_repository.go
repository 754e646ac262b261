package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"onerinn/internal/models"
)

type AdminSessionRepository interface {
	Create(sessionID string, adminID int, expiresAt time.Time) (*models.AdminSession, error)
	Get(sessionID string) (*models.AdminSession, error)
	Delete(sessionID string) error
	DeleteForAdmin(adminID int) error
}

type adminSessionRepository struct {
	DB *sql.DB
}

func NewAdminSessionRepository(db *sql.DB) AdminSessionRepository {
	return &adminSessionRepository{DB: db}
}

func (r *adminSessionRepository) Create(sessionID string, adminID int, expiresAt time.Time) (*models.AdminSession, error) {
	const q = `
		INSERT INTO admin_sessions (id, admin_id, expires_at)
		VALUES ($1, $2, $3)
		RETURNING created_at
	`
	s := &models.AdminSession{ID: sessionID, AdminID: adminID, ExpiresAt: expiresAt}
	if err := r.DB.QueryRow(q, sessionID, adminID, expiresAt).Scan(&s.CreatedAt); err != nil {
		return nil, fmt.Errorf("admin_session create: %w", err)
	}
	return s, nil
}

func (r *adminSessionRepository) Get(sessionID string) (*models.AdminSession, error) {
	const q = `
		SELECT id, admin_id, expires_at, created_at
		FROM admin_sessions
		WHERE id = $1
	`
	s := &models.AdminSession{}
	err := r.DB.QueryRow(q, sessionID).Scan(&s.ID, &s.AdminID, &s.ExpiresAt, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *adminSessionRepository) Delete(sessionID string) error {
	// отсутствие строки — не ошибка: logout идемпотентен
	_, err := r.DB.Exec(`DELETE FROM admin_sessions WHERE id=$1`, sessionID)
	return err
}

func (r *adminSessionRepository) DeleteForAdmin(adminID int) error {
	_, err := r.DB.Exec(`DELETE FROM admin_sessions WHERE admin_id=$1`, adminID)
	return err
}
