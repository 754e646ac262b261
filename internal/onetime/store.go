// Package onetime — одноразовые токены в памяти процесса.
// Используется для сброса пароля админов: аккаунтов мало, инстанс один,
// потеря токенов при рестарте некритична (попросят новую ссылку).
package onetime

import (
	"errors"
	"sync"
	"time"

	"onerinn/internal/utils"
)

var (
	ErrNotFound = errors.New("token not found")
	ErrUsed     = errors.New("token already used")
	ErrExpired  = errors.New("token expired")
)

type Store interface {
	Create(identifier string, ttl time.Duration) (string, error)
	VerifyAndUse(plaintext string) (string, error)
}

type record struct {
	identifier string
	expiresAt  time.Time
	used       bool
}

type MemoryStore struct {
	mu      sync.Mutex
	records map[string]record // ключ — SHA-256 от открытого токена
	now     func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]record),
		now:     time.Now,
	}
}

// Create возвращает открытый токен ровно один раз; в памяти остаётся только хеш.
func (s *MemoryStore) Create(identifier string, ttl time.Duration) (string, error) {
	plaintext, err := utils.NewToken(32)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[utils.HashToken(plaintext)] = record{
		identifier: identifier,
		expiresAt:  s.now().Add(ttl),
	}
	return plaintext, nil
}

// VerifyAndUse — одноразовое потребление. Использованная запись остаётся
// с флагом used, чтобы повтор отдавал ErrUsed, а не ErrNotFound.
// Просроченная запись удаляется при обнаружении.
func (s *MemoryStore) VerifyAndUse(plaintext string) (string, error) {
	key := utils.HashToken(plaintext)

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[key]
	if !ok {
		return "", ErrNotFound
	}
	if rec.used {
		return "", ErrUsed
	}
	// момент expiresAt включительно считается просроченным
	if !s.now().Before(rec.expiresAt) {
		delete(s.records, key)
		return "", ErrExpired
	}

	rec.used = true
	s.records[key] = rec
	return rec.identifier, nil
}
