package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"onerinn/internal/models"
)

type AdminAccountRepository interface {
	Create(acc *models.AdminAccount) error
	GetByID(id int) (*models.AdminAccount, error)
	// GetByLogin ищет по email, затем по username (без регистра)
	GetByLogin(login string) (*models.AdminAccount, error)
	UpdatePassword(adminID int, passwordHash string) error
	SetActive(adminID int, active bool) error
}

type adminAccountRepository struct {
	DB *sql.DB
}

func NewAdminAccountRepository(db *sql.DB) AdminAccountRepository {
	return &adminAccountRepository{DB: db}
}

const adminColumns = `id, email, username, password_hash, role, active, created_at`

func scanAdmin(row *sql.Row) (*models.AdminAccount, error) {
	a := &models.AdminAccount{}
	err := row.Scan(&a.ID, &a.Email, &a.Username, &a.PasswordHash, &a.Role, &a.Active, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *adminAccountRepository) Create(acc *models.AdminAccount) error {
	const q = `
		INSERT INTO admin_accounts (email, username, password_hash, role, active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	err := r.DB.QueryRow(q, acc.Email, acc.Username, acc.PasswordHash, acc.Role, acc.Active).
		Scan(&acc.ID, &acc.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicate
		}
		return fmt.Errorf("admin create: %w", err)
	}
	return nil
}

func (r *adminAccountRepository) GetByID(id int) (*models.AdminAccount, error) {
	const q = `SELECT ` + adminColumns + ` FROM admin_accounts WHERE id = $1`
	return scanAdmin(r.DB.QueryRow(q, id))
}

func (r *adminAccountRepository) GetByLogin(login string) (*models.AdminAccount, error) {
	const q = `
		SELECT ` + adminColumns + `
		FROM admin_accounts
		WHERE LOWER(email) = LOWER($1) OR LOWER(username) = LOWER($1)
		LIMIT 1
	`
	return scanAdmin(r.DB.QueryRow(q, login))
}

func (r *adminAccountRepository) UpdatePassword(adminID int, passwordHash string) error {
	_, err := r.DB.Exec(`UPDATE admin_accounts SET password_hash=$1 WHERE id=$2`, passwordHash, adminID)
	return err
}

func (r *adminAccountRepository) SetActive(adminID int, active bool) error {
	_, err := r.DB.Exec(`UPDATE admin_accounts SET active=$1 WHERE id=$2`, active, adminID)
	return err
}
