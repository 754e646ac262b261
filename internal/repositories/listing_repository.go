package repositories

import (
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"onerinn/internal/models"
)

type ListingFilter struct {
	Category string
	OwnerID  int
	Status   string
	Limit    int
	Offset   int
}

type ListingRepository interface {
	Create(l *models.Listing) error
	GetByID(id int) (*models.Listing, error)
	Update(l *models.Listing) error
	Delete(id int) error
	List(f ListingFilter) ([]*models.Listing, error)
	SetStatus(id int, status string) error
}

type listingRepository struct {
	DB *sql.DB
}

func NewListingRepository(db *sql.DB) ListingRepository {
	return &listingRepository{DB: db}
}

const listingColumns = `
	id, owner_id, category, title, COALESCE(description,''),
	price_cents, currency, for_rent, COALESCE(rent_price_cents,0),
	image_keys, status, created_at, updated_at
`

func (r *listingRepository) Create(l *models.Listing) error {
	const q = `
		INSERT INTO listings
			(owner_id, category, title, description, price_cents, currency,
			 for_rent, rent_price_cents, image_keys, status)
		VALUES ($1,$2,$3,NULLIF($4,''),$5,$6,$7,$8,$9,$10)
		RETURNING id, created_at, updated_at
	`
	return r.DB.QueryRow(q,
		l.OwnerID, l.Category, l.Title, l.Description, l.PriceCents, l.Currency,
		l.ForRent, l.RentPriceCents, pq.Array(l.ImageKeys), l.Status,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
}

func (r *listingRepository) GetByID(id int) (*models.Listing, error) {
	const q = `SELECT ` + listingColumns + ` FROM listings WHERE id = $1`
	l := &models.Listing{}
	err := r.DB.QueryRow(q, id).Scan(
		&l.ID, &l.OwnerID, &l.Category, &l.Title, &l.Description,
		&l.PriceCents, &l.Currency, &l.ForRent, &l.RentPriceCents,
		pq.Array(&l.ImageKeys), &l.Status, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *listingRepository) Update(l *models.Listing) error {
	const q = `
		UPDATE listings
		SET title=$1, description=NULLIF($2,''), price_cents=$3, currency=$4,
		    for_rent=$5, rent_price_cents=$6, image_keys=$7, updated_at=NOW()
		WHERE id=$8
	`
	_, err := r.DB.Exec(q,
		l.Title, l.Description, l.PriceCents, l.Currency,
		l.ForRent, l.RentPriceCents, pq.Array(l.ImageKeys), l.ID,
	)
	return err
}

func (r *listingRepository) Delete(id int) error {
	_, err := r.DB.Exec(`DELETE FROM listings WHERE id=$1`, id)
	return err
}

func (r *listingRepository) List(f ListingFilter) ([]*models.Listing, error) {
	var (
		where []string
		args  []any
	)
	add := func(cond string, val any) {
		args = append(args, val)
		where = append(where, cond+"$"+strconv.Itoa(len(args)))
	}
	if f.Category != "" {
		add("category = ", f.Category)
	}
	if f.OwnerID != 0 {
		add("owner_id = ", f.OwnerID)
	}
	if f.Status != "" {
		add("status = ", f.Status)
	}

	q := `SELECT ` + listingColumns + ` FROM listings`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	q += " ORDER BY created_at DESC"
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 20
	}
	args = append(args, f.Limit)
	q += " LIMIT $" + strconv.Itoa(len(args))
	args = append(args, f.Offset)
	q += " OFFSET $" + strconv.Itoa(len(args))

	rows, err := r.DB.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("listing list: %w", err)
	}
	defer rows.Close()

	var res []*models.Listing
	for rows.Next() {
		l := &models.Listing{}
		if err := rows.Scan(
			&l.ID, &l.OwnerID, &l.Category, &l.Title, &l.Description,
			&l.PriceCents, &l.Currency, &l.ForRent, &l.RentPriceCents,
			pq.Array(&l.ImageKeys), &l.Status, &l.CreatedAt, &l.UpdatedAt,
		); err != nil {
			return nil, err
		}
		res = append(res, l)
	}
	return res, rows.Err()
}

func (r *listingRepository) SetStatus(id int, status string) error {
	_, err := r.DB.Exec(`UPDATE listings SET status=$1, updated_at=NOW() WHERE id=$2`, status, id)
	return err
}
