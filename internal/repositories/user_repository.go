package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"onerinn/internal/models"
)

// ErrDuplicate — нарушение уникальности (username/email/phone уже заняты)
var ErrDuplicate = errors.New("duplicate record")

type UserRepository interface {
	Create(user *models.User) error
	GetByID(id int) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByPhone(phone string) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
	Update(user *models.User) error
	UpdatePassword(userID int, passwordHash string) error
	SetBlocked(userID int, blocked bool) error
	SetSellerVerified(userID int, verified bool) error
	List(limit, offset int) ([]*models.User, error)
	GetCount() (int, error)
}

type userRepository struct {
	DB *sql.DB
}

func NewUserRepository(db *sql.DB) UserRepository {
	return &userRepository{DB: db}
}

const userColumns = `
	id, username, COALESCE(email,''), COALESCE(phone,''), password_hash,
	COALESCE(avatar_url,''), COALESCE(bio,''), COALESCE(contact,''),
	blocked, seller_verified, created_at
`

func scanUser(row *sql.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(
		&u.ID, &u.Username, &u.Email, &u.Phone, &u.PasswordHash,
		&u.AvatarURL, &u.Bio, &u.Contact,
		&u.Blocked, &u.SellerVerified, &u.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *userRepository) Create(user *models.User) error {
	const q = `
		INSERT INTO users (username, email, phone, password_hash, avatar_url, bio, contact)
		VALUES ($1, NULLIF($2,''), NULLIF($3,''), $4, NULLIF($5,''), NULLIF($6,''), NULLIF($7,''))
		RETURNING id, created_at
	`
	err := r.DB.QueryRow(q,
		user.Username, user.Email, user.Phone, user.PasswordHash,
		user.AvatarURL, user.Bio, user.Contact,
	).Scan(&user.ID, &user.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicate
		}
		return fmt.Errorf("user create: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(id int) (*models.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.DB.QueryRow(q, id))
}

func (r *userRepository) GetByEmail(email string) (*models.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	return scanUser(r.DB.QueryRow(q, email))
}

func (r *userRepository) GetByPhone(phone string) (*models.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE phone = $1`
	return scanUser(r.DB.QueryRow(q, phone))
}

func (r *userRepository) GetByUsername(username string) (*models.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users WHERE LOWER(username) = LOWER($1)`
	return scanUser(r.DB.QueryRow(q, username))
}

func (r *userRepository) Update(user *models.User) error {
	const q = `
		UPDATE users
		SET username=$1, email=NULLIF($2,''), phone=NULLIF($3,''),
		    avatar_url=NULLIF($4,''), bio=NULLIF($5,''), contact=NULLIF($6,'')
		WHERE id=$7
	`
	_, err := r.DB.Exec(q,
		user.Username, user.Email, user.Phone,
		user.AvatarURL, user.Bio, user.Contact,
		user.ID,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return ErrDuplicate
		}
		return fmt.Errorf("user update: %w", err)
	}
	return nil
}

func (r *userRepository) UpdatePassword(userID int, passwordHash string) error {
	_, err := r.DB.Exec(`UPDATE users SET password_hash=$1 WHERE id=$2`, passwordHash, userID)
	return err
}

func (r *userRepository) SetBlocked(userID int, blocked bool) error {
	_, err := r.DB.Exec(`UPDATE users SET blocked=$1 WHERE id=$2`, blocked, userID)
	return err
}

func (r *userRepository) SetSellerVerified(userID int, verified bool) error {
	_, err := r.DB.Exec(`UPDATE users SET seller_verified=$1 WHERE id=$2`, verified, userID)
	return err
}

func (r *userRepository) List(limit, offset int) ([]*models.User, error) {
	const q = `SELECT ` + userColumns + ` FROM users ORDER BY id LIMIT $1 OFFSET $2`
	rows, err := r.DB.Query(q, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*models.User
	for rows.Next() {
		u := &models.User{}
		if err := rows.Scan(
			&u.ID, &u.Username, &u.Email, &u.Phone, &u.PasswordHash,
			&u.AvatarURL, &u.Bio, &u.Contact,
			&u.Blocked, &u.SellerVerified, &u.CreatedAt,
		); err != nil {
			return nil, err
		}
		res = append(res, u)
	}
	return res, rows.Err()
}

func (r *userRepository) GetCount() (int, error) {
	var c int
	err := r.DB.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&c)
	return c, err
}
