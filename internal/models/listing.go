package models

import "time"

const (
	CategoryArtwork     = "artwork"
	CategoryElectronics = "electronics"
)

// Статусы объявления: новое висит в pending до модерации
const (
	ListingStatusPending = "pending"
	ListingStatusActive  = "active"
	ListingStatusBlocked = "blocked"
)

type Listing struct {
	ID          int    `json:"id"`
	OwnerID     int    `json:"owner_id"`
	Category    string `json:"category"`
	Title       string `json:"title"`
	Description string `json:"description"`

	PriceCents int64  `json:"price_cents"`
	Currency   string `json:"currency"`

	// аренда: флаг + цена за сутки
	ForRent        bool  `json:"for_rent"`
	RentPriceCents int64 `json:"rent_price_cents,omitempty"`

	ImageKeys []string `json:"image_keys"` // ключи в объектном хранилище
	Status    string   `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListingCreateRequest struct {
	Category       string   `json:"category"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	PriceCents     int64    `json:"price_cents"`
	Currency       string   `json:"currency"`
	ForRent        bool     `json:"for_rent"`
	RentPriceCents int64    `json:"rent_price_cents"`
	ImageKeys      []string `json:"image_keys"`
}
