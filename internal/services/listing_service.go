package services

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"onerinn/internal/models"
	"onerinn/internal/repositories"
)

var (
	ErrNotOwner        = errors.New("not the owner of this listing")
	ErrListingNotFound = errors.New("listing not found")
)

type ListingService interface {
	Create(ownerID int, req *models.ListingCreateRequest) (*models.Listing, error)
	// Get: чужие pending/blocked объявления наружу не отдаём
	Get(id, viewerID int, isAdmin bool) (*models.Listing, error)
	Update(id, userID int, req *models.ListingCreateRequest) (*models.Listing, error)
	Delete(id, userID int) error
	ListPublic(category string, limit, offset int) ([]*models.Listing, error)
	ListMine(ownerID int, limit, offset int) ([]*models.Listing, error)
	ListPending(limit, offset int) ([]*models.Listing, error)
	Moderate(id int, approve bool) error

	AddFavorite(userID, listingID int) error
	RemoveFavorite(userID, listingID int) error
	ListFavorites(userID int) ([]*models.Listing, error)
}

type listingService struct {
	repo      repositories.ListingRepository
	favorites repositories.FavoriteRepository
	notifier  *TelegramService
}

func NewListingService(repo repositories.ListingRepository, favorites repositories.FavoriteRepository, notifier *TelegramService) ListingService {
	return &listingService{repo: repo, favorites: favorites, notifier: notifier}
}

func validateListing(req *models.ListingCreateRequest) error {
	if strings.TrimSpace(req.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if req.Category != models.CategoryArtwork && req.Category != models.CategoryElectronics {
		return fmt.Errorf("unknown category %q", req.Category)
	}
	if req.PriceCents <= 0 {
		return fmt.Errorf("price must be positive")
	}
	if req.ForRent && req.RentPriceCents <= 0 {
		return fmt.Errorf("rent price must be positive")
	}
	return nil
}

func (s *listingService) Create(ownerID int, req *models.ListingCreateRequest) (*models.Listing, error) {
	if err := validateListing(req); err != nil {
		return nil, err
	}
	currency := req.Currency
	if currency == "" {
		currency = "KZT"
	}
	l := &models.Listing{
		OwnerID:        ownerID,
		Category:       req.Category,
		Title:          strings.TrimSpace(req.Title),
		Description:    req.Description,
		PriceCents:     req.PriceCents,
		Currency:       currency,
		ForRent:        req.ForRent,
		RentPriceCents: req.RentPriceCents,
		ImageKeys:      req.ImageKeys,
		Status:         models.ListingStatusPending, // до модерации не публикуем
	}
	if err := s.repo.Create(l); err != nil {
		return nil, err
	}
	s.notifier.NotifyOps(fmt.Sprintf("Новое объявление #%d (%s): %s — на модерацию", l.ID, l.Category, l.Title))
	return l, nil
}

func (s *listingService) Get(id, viewerID int, isAdmin bool) (*models.Listing, error) {
	l, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	if l.Status != models.ListingStatusActive && l.OwnerID != viewerID && !isAdmin {
		return nil, ErrListingNotFound
	}
	return l, nil
}

func (s *listingService) Update(id, userID int, req *models.ListingCreateRequest) (*models.Listing, error) {
	l, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrListingNotFound
		}
		return nil, err
	}
	if l.OwnerID != userID {
		return nil, ErrNotOwner
	}
	if err := validateListing(req); err != nil {
		return nil, err
	}

	l.Title = strings.TrimSpace(req.Title)
	l.Description = req.Description
	l.PriceCents = req.PriceCents
	if req.Currency != "" {
		l.Currency = req.Currency
	}
	l.ForRent = req.ForRent
	l.RentPriceCents = req.RentPriceCents
	l.ImageKeys = req.ImageKeys
	if err := s.repo.Update(l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *listingService) Delete(id, userID int) error {
	l, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrListingNotFound
		}
		return err
	}
	if l.OwnerID != userID {
		return ErrNotOwner
	}
	return s.repo.Delete(id)
}

func (s *listingService) ListPublic(category string, limit, offset int) ([]*models.Listing, error) {
	return s.repo.List(repositories.ListingFilter{
		Category: category,
		Status:   models.ListingStatusActive,
		Limit:    limit,
		Offset:   offset,
	})
}

func (s *listingService) ListMine(ownerID int, limit, offset int) ([]*models.Listing, error) {
	return s.repo.List(repositories.ListingFilter{OwnerID: ownerID, Limit: limit, Offset: offset})
}

func (s *listingService) ListPending(limit, offset int) ([]*models.Listing, error) {
	return s.repo.List(repositories.ListingFilter{Status: models.ListingStatusPending, Limit: limit, Offset: offset})
}

func (s *listingService) Moderate(id int, approve bool) error {
	status := models.ListingStatusBlocked
	if approve {
		status = models.ListingStatusActive
	}
	return s.repo.SetStatus(id, status)
}

func (s *listingService) AddFavorite(userID, listingID int) error {
	if _, err := s.repo.GetByID(listingID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrListingNotFound
		}
		return err
	}
	return s.favorites.Add(userID, listingID)
}

func (s *listingService) RemoveFavorite(userID, listingID int) error {
	return s.favorites.Remove(userID, listingID)
}

func (s *listingService) ListFavorites(userID int) ([]*models.Listing, error) {
	favs, err := s.favorites.ListByUser(userID)
	if err != nil {
		return nil, err
	}
	res := make([]*models.Listing, 0, len(favs))
	for _, f := range favs {
		l, err := s.repo.GetByID(f.ListingID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				continue // объявление удалили, избранное оставляем как есть
			}
			return nil, err
		}
		res = append(res, l)
	}
	return res, nil
}
