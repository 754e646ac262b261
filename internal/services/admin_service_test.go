package services

import (
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onerinn/internal/models"
	"onerinn/internal/onetime"
	"onerinn/internal/repositories"
)

// --- фейки ---

type fakeAdminAccounts struct {
	byID map[int]*models.AdminAccount
}

func (f *fakeAdminAccounts) Create(*models.AdminAccount) error { panic("unused") }

func (f *fakeAdminAccounts) GetByID(id int) (*models.AdminAccount, error) {
	acc, ok := f.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return acc, nil
}

func (f *fakeAdminAccounts) GetByLogin(login string) (*models.AdminAccount, error) {
	for _, acc := range f.byID {
		if acc.Email == login || acc.Username == login {
			return acc, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAdminAccounts) UpdatePassword(adminID int, hash string) error {
	f.byID[adminID].PasswordHash = hash
	return nil
}

func (f *fakeAdminAccounts) SetActive(adminID int, active bool) error {
	f.byID[adminID].Active = active
	return nil
}

var _ repositories.AdminAccountRepository = (*fakeAdminAccounts)(nil)

type fakeAdminSessions struct {
	rows map[string]*models.AdminSession
}

func (f *fakeAdminSessions) Create(sessionID string, adminID int, expiresAt time.Time) (*models.AdminSession, error) {
	s := &models.AdminSession{ID: sessionID, AdminID: adminID, ExpiresAt: expiresAt, CreatedAt: time.Now()}
	f.rows[sessionID] = s
	return s, nil
}

func (f *fakeAdminSessions) Get(sessionID string) (*models.AdminSession, error) {
	s, ok := f.rows[sessionID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return s, nil
}

func (f *fakeAdminSessions) Delete(sessionID string) error {
	delete(f.rows, sessionID)
	return nil
}

func (f *fakeAdminSessions) DeleteForAdmin(adminID int) error {
	for id, s := range f.rows {
		if s.AdminID == adminID {
			delete(f.rows, id)
		}
	}
	return nil
}

var _ repositories.AdminSessionRepository = (*fakeAdminSessions)(nil)

func newAdminFixture(t *testing.T) (AdminService, *fakeAdminAccounts, *fakeAdminSessions, *fakeEmails) {
	t.Helper()
	auth := NewAuthService("test-secret")
	hash, err := auth.HashPassword("admin-pass")
	require.NoError(t, err)

	accounts := &fakeAdminAccounts{byID: map[int]*models.AdminAccount{
		1: {ID: 1, Email: "mod@onerinn.example", Username: "mod", PasswordHash: hash, Role: "moderator", Active: true},
	}}
	sessions := &fakeAdminSessions{rows: map[string]*models.AdminSession{}}
	emails := &fakeEmails{}
	svc := NewAdminService(accounts, sessions, onetime.NewMemoryStore(), emails, auth, "https://onerinn.example")
	return svc, accounts, sessions, emails
}

// --- тесты ---

func TestAdminLoginAndLookup(t *testing.T) {
	svc, _, _, _ := newAdminFixture(t)

	acc, session, err := svc.Login("mod", "admin-pass")
	require.NoError(t, err)
	require.NotEmpty(t, session.ID)

	got, err := svc.LookupSession(session.ID)
	require.NoError(t, err)
	assert.Equal(t, acc.ID, got.ID)
}

func TestAdminLoginWrongPassword(t *testing.T) {
	svc, _, _, _ := newAdminFixture(t)

	_, _, err := svc.Login("mod", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// неизвестный логин неотличим от неверного пароля
	_, _, err = svc.Login("ghost", "admin-pass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAdminLogoutInvalidatesSession(t *testing.T) {
	svc, _, _, _ := newAdminFixture(t)

	_, session, err := svc.Login("mod", "admin-pass")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(session.ID))

	// старый cookie после logout не работает
	_, err = svc.LookupSession(session.ID)
	assert.ErrorIs(t, err, ErrNoSession)

	// повторный logout — тоже ok
	assert.NoError(t, svc.Logout(session.ID))
}

func TestAdminExpiredSessionRejectedAndDeleted(t *testing.T) {
	svc, _, sessions, _ := newAdminFixture(t)

	_, session, err := svc.Login("mod", "admin-pass")
	require.NoError(t, err)

	sessions.rows[session.ID].ExpiresAt = time.Now().Add(-time.Minute)

	_, err = svc.LookupSession(session.ID)
	assert.ErrorIs(t, err, ErrNoSession)
	_, ok := sessions.rows[session.ID]
	assert.False(t, ok, "просроченная строка подчищается при первом обращении")
}

func TestAdminDeactivatedAccountRejected(t *testing.T) {
	svc, accounts, _, _ := newAdminFixture(t)

	_, session, err := svc.Login("mod", "admin-pass")
	require.NoError(t, err)

	accounts.byID[1].Active = false
	_, err = svc.LookupSession(session.ID)
	assert.ErrorIs(t, err, ErrNoSession)
}

func TestAdminPasswordResetFlow(t *testing.T) {
	svc, accounts, sessions, emails := newAdminFixture(t)

	_, session, err := svc.Login("mod", "admin-pass")
	require.NoError(t, err)

	svc.RequestPasswordReset("mod", "ru")
	require.Len(t, emails.resetURLs, 1)

	u := emails.resetURLs[0]
	i := strings.Index(u, "token=")
	require.Greater(t, i, 0)
	token := u[i+len("token="):]

	oldHash := accounts.byID[1].PasswordHash
	require.NoError(t, svc.ResetPassword(token, "brand-new-pass"))
	assert.NotEqual(t, oldHash, accounts.byID[1].PasswordHash)

	// токен одноразовый
	assert.ErrorIs(t, svc.ResetPassword(token, "another-pass"), ErrBadToken)

	// после смены пароля старые сессии сброшены
	_, err = svc.LookupSession(session.ID)
	assert.ErrorIs(t, err, ErrNoSession)
	assert.Empty(t, sessions.rows)
}

func TestAdminPasswordResetUnknownLoginSilent(t *testing.T) {
	svc, _, _, emails := newAdminFixture(t)
	svc.RequestPasswordReset("ghost", "ru")
	assert.Empty(t, emails.resetURLs)
}

func TestAdminResetPasswordValidation(t *testing.T) {
	svc, _, _, _ := newAdminFixture(t)
	assert.ErrorIs(t, svc.ResetPassword("", "new-password"), ErrRequiredFields)
	assert.ErrorIs(t, svc.ResetPassword("sometoken", "short"), ErrPasswordTooShort)
	assert.ErrorIs(t, svc.ResetPassword("sometoken", "new-password"), ErrBadToken)
}
