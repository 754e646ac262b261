package repositories

import (
	"database/sql"

	"onerinn/internal/models"
)

type FavoriteRepository interface {
	Add(userID, listingID int) error
	Remove(userID, listingID int) error
	ListByUser(userID int) ([]*models.Favorite, error)
}

type favoriteRepository struct {
	DB *sql.DB
}

func NewFavoriteRepository(db *sql.DB) FavoriteRepository {
	return &favoriteRepository{DB: db}
}

func (r *favoriteRepository) Add(userID, listingID int) error {
	// повторное добавление — no-op
	const q = `
		INSERT INTO favorites (user_id, listing_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, listing_id) DO NOTHING
	`
	_, err := r.DB.Exec(q, userID, listingID)
	return err
}

func (r *favoriteRepository) Remove(userID, listingID int) error {
	_, err := r.DB.Exec(`DELETE FROM favorites WHERE user_id=$1 AND listing_id=$2`, userID, listingID)
	return err
}

func (r *favoriteRepository) ListByUser(userID int) ([]*models.Favorite, error) {
	const q = `
		SELECT id, user_id, listing_id, created_at
		FROM favorites
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.Query(q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*models.Favorite
	for rows.Next() {
		f := &models.Favorite{}
		if err := rows.Scan(&f.ID, &f.UserID, &f.ListingID, &f.CreatedAt); err != nil {
			return nil, err
		}
		res = append(res, f)
	}
	return res, rows.Err()
}
