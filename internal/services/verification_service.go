package services

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"onerinn/internal/models"
	"onerinn/internal/repositories"
)

var (
	ErrVerificationPending  = errors.New("verification request already pending")
	ErrVerificationNotFound = errors.New("verification request not found")
)

type VerificationService interface {
	Submit(userID int, documentKeys []string, comment string) (*models.VerificationRequest, error)
	Status(userID int) (*models.VerificationRequest, error)
	ListPending(limit, offset int) ([]*models.VerificationRequest, error)
	Review(id, adminID int, approve bool) error
}

type verificationService struct {
	repo     repositories.VerificationRepository
	users    repositories.UserRepository
	notifier *TelegramService
}

func NewVerificationService(repo repositories.VerificationRepository, users repositories.UserRepository, notifier *TelegramService) VerificationService {
	return &verificationService{repo: repo, users: users, notifier: notifier}
}

func (s *verificationService) Submit(userID int, documentKeys []string, comment string) (*models.VerificationRequest, error) {
	if len(documentKeys) == 0 {
		return nil, fmt.Errorf("at least one document is required")
	}
	latest, err := s.repo.GetLatestByUser(userID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if latest != nil && latest.Status == models.VerificationStatusPending {
		return nil, ErrVerificationPending
	}

	v := &models.VerificationRequest{
		UserID:       userID,
		DocumentKeys: documentKeys,
		Comment:      comment,
		Status:       models.VerificationStatusPending,
	}
	if err := s.repo.Create(v); err != nil {
		return nil, err
	}
	s.notifier.NotifyOps(fmt.Sprintf("Заявка на верификацию продавца #%d (запрос #%d)", userID, v.ID))
	return v, nil
}

func (s *verificationService) Status(userID int) (*models.VerificationRequest, error) {
	v, err := s.repo.GetLatestByUser(userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return v, nil
}

func (s *verificationService) ListPending(limit, offset int) ([]*models.VerificationRequest, error) {
	return s.repo.ListByStatus(models.VerificationStatusPending, limit, offset)
}

func (s *verificationService) Review(id, adminID int, approve bool) error {
	v, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrVerificationNotFound
		}
		return err
	}
	if v.Status != models.VerificationStatusPending {
		return ErrVerificationNotFound
	}

	status := models.VerificationStatusRejected
	if approve {
		status = models.VerificationStatusApproved
	}
	if err := s.repo.Review(id, status, adminID, time.Now()); err != nil {
		return err
	}
	if approve {
		return s.users.SetSellerVerified(v.UserID, true)
	}
	return nil
}
