package services

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onerinn/internal/models"
	"onerinn/internal/repositories"
)

type fakeListingRepo struct {
	rows   map[int]*models.Listing
	nextID int
}

func newFakeListingRepo() *fakeListingRepo {
	return &fakeListingRepo{rows: map[int]*models.Listing{}}
}

func (f *fakeListingRepo) Create(l *models.Listing) error {
	f.nextID++
	l.ID = f.nextID
	cp := *l
	f.rows[l.ID] = &cp
	return nil
}

func (f *fakeListingRepo) GetByID(id int) (*models.Listing, error) {
	l, ok := f.rows[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *l
	return &cp, nil
}

func (f *fakeListingRepo) Update(l *models.Listing) error {
	cp := *l
	f.rows[l.ID] = &cp
	return nil
}

func (f *fakeListingRepo) Delete(id int) error {
	delete(f.rows, id)
	return nil
}

func (f *fakeListingRepo) List(flt repositories.ListingFilter) ([]*models.Listing, error) {
	var res []*models.Listing
	for _, l := range f.rows {
		if flt.Category != "" && l.Category != flt.Category {
			continue
		}
		if flt.OwnerID != 0 && l.OwnerID != flt.OwnerID {
			continue
		}
		if flt.Status != "" && l.Status != flt.Status {
			continue
		}
		cp := *l
		res = append(res, &cp)
	}
	return res, nil
}

func (f *fakeListingRepo) SetStatus(id int, status string) error {
	l, ok := f.rows[id]
	if !ok {
		return sql.ErrNoRows
	}
	l.Status = status
	return nil
}

var _ repositories.ListingRepository = (*fakeListingRepo)(nil)

type fakeFavoriteRepo struct {
	rows map[[2]int]bool
}

func (f *fakeFavoriteRepo) Add(userID, listingID int) error {
	f.rows[[2]int{userID, listingID}] = true
	return nil
}

func (f *fakeFavoriteRepo) Remove(userID, listingID int) error {
	delete(f.rows, [2]int{userID, listingID})
	return nil
}

func (f *fakeFavoriteRepo) ListByUser(userID int) ([]*models.Favorite, error) {
	var res []*models.Favorite
	for k := range f.rows {
		if k[0] == userID {
			res = append(res, &models.Favorite{UserID: k[0], ListingID: k[1]})
		}
	}
	return res, nil
}

var _ repositories.FavoriteRepository = (*fakeFavoriteRepo)(nil)

func newListingFixture() (ListingService, *fakeListingRepo, *fakeFavoriteRepo) {
	repo := newFakeListingRepo()
	favs := &fakeFavoriteRepo{rows: map[[2]int]bool{}}
	// nil-notifier = no-op
	return NewListingService(repo, favs, nil), repo, favs
}

func validListingReq() *models.ListingCreateRequest {
	return &models.ListingCreateRequest{
		Category:   models.CategoryArtwork,
		Title:      "Пейзаж, холст, масло",
		PriceCents: 500000,
	}
}

func TestListingCreateStartsPending(t *testing.T) {
	svc, _, _ := newListingFixture()

	l, err := svc.Create(1, validListingReq())
	require.NoError(t, err)
	assert.Equal(t, models.ListingStatusPending, l.Status)
	assert.Equal(t, "KZT", l.Currency)
}

func TestListingValidation(t *testing.T) {
	svc, _, _ := newListingFixture()

	cases := []struct {
		name string
		mut  func(*models.ListingCreateRequest)
	}{
		{"empty title", func(r *models.ListingCreateRequest) { r.Title = "  " }},
		{"unknown category", func(r *models.ListingCreateRequest) { r.Category = "furniture" }},
		{"zero price", func(r *models.ListingCreateRequest) { r.PriceCents = 0 }},
		{"rent without rent price", func(r *models.ListingCreateRequest) { r.ForRent = true }},
	}
	for _, tc := range cases {
		req := validListingReq()
		tc.mut(req)
		_, err := svc.Create(1, req)
		assert.Error(t, err, tc.name)
	}
}

func TestListingPendingHiddenFromStrangers(t *testing.T) {
	svc, _, _ := newListingFixture()

	l, err := svc.Create(1, validListingReq())
	require.NoError(t, err)

	// владелец видит своё pending, чужой — нет
	_, err = svc.Get(l.ID, 1, false)
	assert.NoError(t, err)
	_, err = svc.Get(l.ID, 2, false)
	assert.ErrorIs(t, err, ErrListingNotFound)
	// админ видит всегда
	_, err = svc.Get(l.ID, 0, true)
	assert.NoError(t, err)
}

func TestListingModeration(t *testing.T) {
	svc, _, _ := newListingFixture()

	l, err := svc.Create(1, validListingReq())
	require.NoError(t, err)

	require.NoError(t, svc.Moderate(l.ID, true))
	got, err := svc.Get(l.ID, 2, false)
	require.NoError(t, err)
	assert.Equal(t, models.ListingStatusActive, got.Status)

	require.NoError(t, svc.Moderate(l.ID, false))
	_, err = svc.Get(l.ID, 2, false)
	assert.ErrorIs(t, err, ErrListingNotFound)
}

func TestListingUpdateOwnerOnly(t *testing.T) {
	svc, _, _ := newListingFixture()

	l, err := svc.Create(1, validListingReq())
	require.NoError(t, err)

	req := validListingReq()
	req.Title = "Новый заголовок"
	_, err = svc.Update(l.ID, 2, req)
	assert.ErrorIs(t, err, ErrNotOwner)

	got, err := svc.Update(l.ID, 1, req)
	require.NoError(t, err)
	assert.Equal(t, "Новый заголовок", got.Title)

	assert.ErrorIs(t, svc.Delete(l.ID, 2), ErrNotOwner)
	assert.NoError(t, svc.Delete(l.ID, 1))
}

func TestFavoritesSurviveListingDeletion(t *testing.T) {
	svc, repo, _ := newListingFixture()

	l1, err := svc.Create(1, validListingReq())
	require.NoError(t, err)
	l2, err := svc.Create(1, validListingReq())
	require.NoError(t, err)

	require.NoError(t, svc.AddFavorite(5, l1.ID))
	require.NoError(t, svc.AddFavorite(5, l2.ID))

	// удалённое объявление просто выпадает из выдачи
	require.NoError(t, repo.Delete(l1.ID))
	favs, err := svc.ListFavorites(5)
	require.NoError(t, err)
	require.Len(t, favs, 1)
	assert.Equal(t, l2.ID, favs[0].ID)
}

func TestAddFavoriteUnknownListing(t *testing.T) {
	svc, _, _ := newListingFixture()
	assert.ErrorIs(t, svc.AddFavorite(5, 999), ErrListingNotFound)
}
