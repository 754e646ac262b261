package services

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onerinn/internal/models"
	"onerinn/internal/pdf"
	"onerinn/internal/repositories"
)

type fakePayoutRepo struct {
	rows   map[int]*models.Payout
	nextID int
}

func (f *fakePayoutRepo) Create(p *models.Payout) error {
	f.nextID++
	p.ID = f.nextID
	p.CreatedAt = time.Now()
	cp := *p
	f.rows[p.ID] = &cp
	return nil
}

func (f *fakePayoutRepo) GetByID(id int) (*models.Payout, error) {
	p, ok := f.rows[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (f *fakePayoutRepo) ListByUser(userID int) ([]*models.Payout, error) {
	var res []*models.Payout
	for _, p := range f.rows {
		if p.UserID == userID {
			cp := *p
			res = append(res, &cp)
		}
	}
	return res, nil
}

func (f *fakePayoutRepo) ListByStatus(status string, limit, offset int) ([]*models.Payout, error) {
	var res []*models.Payout
	for _, p := range f.rows {
		if p.Status == status {
			cp := *p
			res = append(res, &cp)
		}
	}
	return res, nil
}

func (f *fakePayoutRepo) SetStatus(id int, status string, paidAt *time.Time) error {
	p, ok := f.rows[id]
	if !ok {
		return sql.ErrNoRows
	}
	p.Status = status
	p.PaidAt = paidAt
	return nil
}

var _ repositories.PayoutRepository = (*fakePayoutRepo)(nil)

type fakeUserRepo struct {
	byID map[int]*models.User
}

func (f *fakeUserRepo) GetByID(id int) (*models.User, error) {
	u, ok := f.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserRepo) Create(*models.User) error                     { panic("unused") }
func (f *fakeUserRepo) GetByEmail(string) (*models.User, error)       { panic("unused") }
func (f *fakeUserRepo) GetByPhone(string) (*models.User, error)       { panic("unused") }
func (f *fakeUserRepo) GetByUsername(string) (*models.User, error)    { panic("unused") }
func (f *fakeUserRepo) Update(*models.User) error                     { panic("unused") }
func (f *fakeUserRepo) UpdatePassword(int, string) error              { panic("unused") }
func (f *fakeUserRepo) SetBlocked(int, bool) error { panic("unused") }

func (f *fakeUserRepo) SetSellerVerified(userID int, verified bool) error {
	u, ok := f.byID[userID]
	if !ok {
		return sql.ErrNoRows
	}
	u.SellerVerified = verified
	return nil
}
func (f *fakeUserRepo) List(int, int) ([]*models.User, error)         { panic("unused") }
func (f *fakeUserRepo) GetCount() (int, error)                        { panic("unused") }

var _ repositories.UserRepository = (*fakeUserRepo)(nil)

type fakePDF struct{ calls int }

func (f *fakePDF) PayoutStatement(pdf.PayoutData) ([]byte, error) {
	f.calls++
	return []byte("%PDF-1.4 fake"), nil
}

func newPayoutFixture() (PayoutService, *fakePayoutRepo, *fakeUserRepo, *fakeEmails, *fakePDF) {
	repo := &fakePayoutRepo{rows: map[int]*models.Payout{}}
	users := &fakeUserRepo{byID: map[int]*models.User{
		1: {ID: 1, Username: "ivan", Email: "ivan@example.com", SellerVerified: true},
		2: {ID: 2, Username: "petr", Email: "petr@example.com", SellerVerified: false},
	}}
	emails := &fakeEmails{}
	gen := &fakePDF{}
	return NewPayoutService(repo, users, emails, gen, nil), repo, users, emails, gen
}

func TestPayoutRequestChecksVerificationAndAmount(t *testing.T) {
	svc, _, _, _, _ := newPayoutFixture()

	_, err := svc.Request(2, &models.PayoutRequest{AmountCents: 5000, Destination: "KZ123456789"})
	assert.ErrorIs(t, err, ErrNotVerified)

	_, err = svc.Request(1, &models.PayoutRequest{AmountCents: 500, Destination: "KZ123456789"})
	assert.ErrorIs(t, err, ErrPayoutBadAmount)

	_, err = svc.Request(1, &models.PayoutRequest{AmountCents: 5000})
	assert.ErrorIs(t, err, ErrPayoutBadAmount)
}

func TestPayoutDestinationMasked(t *testing.T) {
	svc, _, _, _, _ := newPayoutFixture()

	p, err := svc.Request(1, &models.PayoutRequest{AmountCents: 5000, Destination: "KZ86125KZT5004100100"})
	require.NoError(t, err)
	assert.Equal(t, "****0100", p.Destination)
	assert.Equal(t, models.PayoutStatusRequested, p.Status)
}

func TestPayoutLifecycle(t *testing.T) {
	svc, repo, _, emails, _ := newPayoutFixture()

	p, err := svc.Request(1, &models.PayoutRequest{AmountCents: 123450, Destination: "KZ123456789"})
	require.NoError(t, err)

	// paid можно только из approved
	assert.ErrorIs(t, svc.MarkPaid(p.ID, "ru"), ErrPayoutBadState)

	require.NoError(t, svc.Approve(p.ID))
	assert.ErrorIs(t, svc.Approve(p.ID), ErrPayoutBadState)
	assert.ErrorIs(t, svc.Reject(p.ID), ErrPayoutBadState)

	require.NoError(t, svc.MarkPaid(p.ID, "ru"))
	got := repo.rows[p.ID]
	assert.Equal(t, models.PayoutStatusPaid, got.Status)
	require.NotNil(t, got.PaidAt)
	assert.Equal(t, []string{"ivan@example.com"}, emails.to)
}

func TestPayoutStatementAccess(t *testing.T) {
	svc, _, _, _, gen := newPayoutFixture()

	p, err := svc.Request(1, &models.PayoutRequest{AmountCents: 5000, Destination: "KZ123456789"})
	require.NoError(t, err)

	// до исполнения выписки нет
	_, err = svc.Statement(p.ID, 1, false)
	assert.ErrorIs(t, err, ErrPayoutBadState)

	require.NoError(t, svc.Approve(p.ID))
	require.NoError(t, svc.MarkPaid(p.ID, "ru"))

	// чужому — "нет такой выплаты", не "запрещено"
	_, err = svc.Statement(p.ID, 99, false)
	assert.ErrorIs(t, err, ErrPayoutNotFound)

	data, err := svc.Statement(p.ID, 1, false)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	assert.Equal(t, 1, gen.calls)

	// админ тоже может
	_, err = svc.Statement(p.ID, 0, true)
	assert.NoError(t, err)
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "1234.50 KZT", formatAmount(123450, "KZT"))
	assert.Equal(t, "0.05 KZT", formatAmount(5, "KZT"))
}
