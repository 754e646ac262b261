package services

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onerinn/internal/models"
	"onerinn/internal/repositories"
	"onerinn/internal/utils"
)

// --- фейки ---

type fakeUsers struct {
	byIdentity map[string]*models.User
}

func (f *fakeUsers) FindByIdentity(id string) (*models.User, error) { return f.byIdentity[id], nil }

func (f *fakeUsers) Register(*models.RegisterRequest) (*models.User, error) { panic("unused") }
func (f *fakeUsers) Authenticate(string, string) (*models.User, error)     { panic("unused") }
func (f *fakeUsers) LoginOrRegister(*models.LoginRegisterRequest) (*models.User, bool, error) {
	panic("unused")
}
func (f *fakeUsers) GetUserByID(int) (*models.User, error)      { panic("unused") }
func (f *fakeUsers) UpdateProfile(*models.User) error           { panic("unused") }
func (f *fakeUsers) ChangePassword(int, string, string) error   { panic("unused") }
func (f *fakeUsers) ListUsers(int, int) ([]*models.User, error) { panic("unused") }
func (f *fakeUsers) SetBlocked(int, bool) error                 { panic("unused") }

type fakeResetRepo struct {
	rows       map[string]*models.PasswordReset // по token_hash
	nextID     int
	getCalls   int
	consumed   map[int]string // resetID -> новый хэш пароля
	consumeErr error
}

func newFakeResetRepo() *fakeResetRepo {
	return &fakeResetRepo{rows: map[string]*models.PasswordReset{}, consumed: map[int]string{}}
}

func (f *fakeResetRepo) IssueNew(email, tokenHash string, expiresAt time.Time) (*models.PasswordReset, error) {
	for _, pr := range f.rows {
		if pr.Email == email && pr.Status == models.ResetStatusIssued {
			pr.Status = models.ResetStatusSuperseded
		}
	}
	f.nextID++
	pr := &models.PasswordReset{
		ID:        f.nextID,
		Email:     email,
		TokenHash: tokenHash,
		Status:    models.ResetStatusIssued,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	f.rows[tokenHash] = pr
	return pr, nil
}

func (f *fakeResetRepo) GetByTokenHash(tokenHash string) (*models.PasswordReset, error) {
	f.getCalls++
	pr, ok := f.rows[tokenHash]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return pr, nil
}

func (f *fakeResetRepo) Consume(resetID, userID int, newPasswordHash string) error {
	if f.consumeErr != nil {
		return f.consumeErr
	}
	for _, pr := range f.rows {
		if pr.ID == resetID && pr.Status == models.ResetStatusIssued {
			pr.Status = models.ResetStatusConsumed
			f.consumed[resetID] = newPasswordHash
			return nil
		}
	}
	return sql.ErrNoRows
}

var _ repositories.PasswordResetRepository = (*fakeResetRepo)(nil)

type fakeEmails struct {
	resetURLs []string
	to        []string
	welcomed  []string
}

func (f *fakeEmails) SendWelcomeEmail(email, _, _ string) error {
	f.welcomed = append(f.welcomed, email)
	return nil
}
func (f *fakeEmails) SendPasswordResetEmail(email, resetURL, _ string) error {
	f.to = append(f.to, email)
	f.resetURLs = append(f.resetURLs, resetURL)
	return nil
}
func (f *fakeEmails) SendPayoutEmail(email string, _ int, _, _ string) error {
	f.to = append(f.to, email)
	return nil
}

type stubLimiter struct {
	allow bool
	err   error
	calls []string
}

func (s *stubLimiter) Allow(_ context.Context, key string, _ int, _ time.Duration) (bool, error) {
	s.calls = append(s.calls, key)
	return s.allow, s.err
}

func newResetFixture(allow bool) (PasswordResetService, *fakeResetRepo, *fakeEmails, *stubLimiter) {
	users := &fakeUsers{byIdentity: map[string]*models.User{
		"ivan@example.com": {ID: 7, Username: "ivan", Email: "ivan@example.com"},
	}}
	repo := newFakeResetRepo()
	emails := &fakeEmails{}
	limiter := &stubLimiter{allow: allow}
	svc := NewPasswordResetService(users, repo, emails, NewAuthService("test-secret"), limiter, "https://onerinn.example")
	return svc, repo, emails, limiter
}

// --- запрос сброса ---

func TestRequestResetIssuesHashedToken(t *testing.T) {
	svc, repo, emails, _ := newResetFixture(true)

	svc.RequestReset(context.Background(), "ivan@example.com", "ru", "1.2.3.4")

	require.Len(t, emails.resetURLs, 1)
	require.Len(t, repo.rows, 1)
	// в БД лежит только хэш, plaintext из письма в хранилище не встречается
	for hash := range repo.rows {
		assert.NotContains(t, emails.resetURLs[0], hash)
	}
}

func TestRequestResetUnknownIdentitySilent(t *testing.T) {
	svc, repo, emails, _ := newResetFixture(true)

	// поведение для незнакомого адреса неотличимо снаружи: ни ошибки, ни письма
	svc.RequestReset(context.Background(), "nobody@example.com", "ru", "1.2.3.4")

	assert.Empty(t, emails.to)
	assert.Empty(t, repo.rows)
}

func TestRequestResetThrottled(t *testing.T) {
	svc, repo, emails, limiter := newResetFixture(false)

	svc.RequestReset(context.Background(), "ivan@example.com", "ru", "1.2.3.4")

	assert.NotEmpty(t, limiter.calls)
	assert.Empty(t, emails.to)
	assert.Empty(t, repo.rows)
}

func TestRequestResetLimiterErrorMeansDeny(t *testing.T) {
	svc, repo, emails, limiter := newResetFixture(true)
	limiter.err = errors.New("redis down")

	svc.RequestReset(context.Background(), "ivan@example.com", "ru", "1.2.3.4")

	assert.Empty(t, emails.to)
	assert.Empty(t, repo.rows)
}

func TestRequestResetSupersedesPrevious(t *testing.T) {
	svc, repo, emails, _ := newResetFixture(true)

	svc.RequestReset(context.Background(), "ivan@example.com", "ru", "")
	svc.RequestReset(context.Background(), "ivan@example.com", "ru", "")
	require.Len(t, emails.resetURLs, 2)

	issued := 0
	for _, pr := range repo.rows {
		if pr.Status == models.ResetStatusIssued {
			issued++
		}
	}
	assert.Equal(t, 1, issued, "живой токен всегда один")
}

// --- сброс по токену ---

func issueToken(t *testing.T, svc PasswordResetService, emails *fakeEmails) string {
	t.Helper()
	svc.RequestReset(context.Background(), "ivan@example.com", "ru", "")
	require.NotEmpty(t, emails.resetURLs)
	u := emails.resetURLs[len(emails.resetURLs)-1]
	i := strings.Index(u, "token=")
	require.Greater(t, i, 0)
	return u[i+len("token="):]
}

func TestResetPasswordHappyPath(t *testing.T) {
	svc, repo, emails, _ := newResetFixture(true)
	token := issueToken(t, svc, emails)

	require.NoError(t, svc.ResetPassword(token, "new-password"))

	pr := repo.rows[utils.HashToken(token)]
	require.NotNil(t, pr)
	assert.Equal(t, models.ResetStatusConsumed, pr.Status)
	assert.NotEmpty(t, repo.consumed[pr.ID])
	assert.NotEqual(t, "new-password", repo.consumed[pr.ID])

	// повторный submit того же токена
	assert.ErrorIs(t, svc.ResetPassword(token, "another-pass"), ErrBadToken)
}

func TestResetPasswordRequiredFields(t *testing.T) {
	svc, _, _, _ := newResetFixture(true)
	assert.ErrorIs(t, svc.ResetPassword("", "new-password"), ErrRequiredFields)
	assert.ErrorIs(t, svc.ResetPassword("sometoken", "   "), ErrRequiredFields)
}

func TestResetPasswordLengthCheckedBeforeLookup(t *testing.T) {
	svc, repo, _, _ := newResetFixture(true)

	err := svc.ResetPassword("sometoken", "short")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
	assert.Zero(t, repo.getCalls, "до проверки длины в БД не ходим")
}

func TestResetPasswordUnknownToken(t *testing.T) {
	svc, _, _, _ := newResetFixture(true)
	assert.ErrorIs(t, svc.ResetPassword("deadbeef", "new-password"), ErrBadToken)
}

func TestResetPasswordExpiredAtBoundary(t *testing.T) {
	svc, repo, emails, _ := newResetFixture(true)
	token := issueToken(t, svc, emails)

	// момент expires_at включительно считается просроченным
	repo.rows[utils.HashToken(token)].ExpiresAt = time.Now()
	assert.ErrorIs(t, svc.ResetPassword(token, "new-password"), ErrTokenExpired)
}

func TestResetPasswordSupersededToken(t *testing.T) {
	svc, _, emails, _ := newResetFixture(true)
	first := issueToken(t, svc, emails)
	second := issueToken(t, svc, emails)

	assert.ErrorIs(t, svc.ResetPassword(first, "new-password"), ErrBadToken)
	require.NoError(t, svc.ResetPassword(second, "new-password"))
}

func TestResetPasswordConsumeRace(t *testing.T) {
	svc, repo, emails, _ := newResetFixture(true)
	token := issueToken(t, svc, emails)

	// токен увели между проверкой и consume
	repo.consumeErr = sql.ErrNoRows
	assert.ErrorIs(t, svc.ResetPassword(token, "new-password"), ErrBadToken)
}
