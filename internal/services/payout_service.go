package services

import (
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"onerinn/internal/models"
	"onerinn/internal/pdf"
	"onerinn/internal/repositories"
)

var (
	ErrPayoutNotFound  = errors.New("payout not found")
	ErrPayoutBadState  = errors.New("payout is not in a valid state for this operation")
	ErrPayoutBadAmount = errors.New("payout amount is invalid")
	ErrNotVerified     = errors.New("seller is not verified")
)

const minPayoutCents = 1000 // ниже минимума заявку не принимаем

type PayoutService interface {
	Request(userID int, req *models.PayoutRequest) (*models.Payout, error)
	ListMine(userID int) ([]*models.Payout, error)
	ListByStatus(status string, limit, offset int) ([]*models.Payout, error)
	Approve(id int) error
	Reject(id int) error
	MarkPaid(id int, locale string) error
	// Statement — PDF-выписка по исполненной выплате
	Statement(id, requesterID int, isAdmin bool) ([]byte, error)
}

type payoutService struct {
	repo     repositories.PayoutRepository
	users    repositories.UserRepository
	emails   EmailService
	pdfGen   pdf.Generator
	notifier *TelegramService
}

func NewPayoutService(
	repo repositories.PayoutRepository,
	users repositories.UserRepository,
	emails EmailService,
	pdfGen pdf.Generator,
	notifier *TelegramService,
) PayoutService {
	return &payoutService{repo: repo, users: users, emails: emails, pdfGen: pdfGen, notifier: notifier}
}

func (s *payoutService) Request(userID int, req *models.PayoutRequest) (*models.Payout, error) {
	if req.AmountCents < minPayoutCents {
		return nil, ErrPayoutBadAmount
	}
	if req.Destination == "" {
		return nil, ErrPayoutBadAmount
	}
	user, err := s.users.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if !user.SellerVerified {
		return nil, ErrNotVerified
	}

	currency := req.Currency
	if currency == "" {
		currency = "KZT"
	}
	p := &models.Payout{
		UserID:      userID,
		AmountCents: req.AmountCents,
		Currency:    currency,
		Destination: maskDestination(req.Destination),
		Status:      models.PayoutStatusRequested,
	}
	if err := s.repo.Create(p); err != nil {
		return nil, err
	}
	s.notifier.NotifyOps(fmt.Sprintf("Заявка на выплату #%d: %s от продавца #%d",
		p.ID, formatAmount(p.AmountCents, p.Currency), userID))
	return p, nil
}

func (s *payoutService) ListMine(userID int) ([]*models.Payout, error) {
	return s.repo.ListByUser(userID)
}

func (s *payoutService) ListByStatus(status string, limit, offset int) ([]*models.Payout, error) {
	return s.repo.ListByStatus(status, limit, offset)
}

func (s *payoutService) Approve(id int) error {
	return s.transition(id, models.PayoutStatusRequested, models.PayoutStatusApproved, nil)
}

func (s *payoutService) Reject(id int) error {
	return s.transition(id, models.PayoutStatusRequested, models.PayoutStatusRejected, nil)
}

func (s *payoutService) MarkPaid(id int, locale string) error {
	now := time.Now()
	if err := s.transition(id, models.PayoutStatusApproved, models.PayoutStatusPaid, &now); err != nil {
		return err
	}
	p, err := s.repo.GetByID(id)
	if err != nil {
		return nil // сама выплата прошла, письмо не критично
	}
	user, err := s.users.GetByID(p.UserID)
	if err == nil && user.Email != "" {
		if err := s.emails.SendPayoutEmail(user.Email, p.ID, formatAmount(p.AmountCents, p.Currency), locale); err != nil {
			log.Printf("[payouts][paid] warning: email to %s failed: %v", user.Email, err)
		}
	}
	return nil
}

func (s *payoutService) transition(id int, from, to string, paidAt *time.Time) error {
	p, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrPayoutNotFound
		}
		return err
	}
	if p.Status != from {
		return ErrPayoutBadState
	}
	return s.repo.SetStatus(id, to, paidAt)
}

func (s *payoutService) Statement(id, requesterID int, isAdmin bool) ([]byte, error) {
	p, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPayoutNotFound
		}
		return nil, err
	}
	if p.UserID != requesterID && !isAdmin {
		return nil, ErrPayoutNotFound
	}
	if p.Status != models.PayoutStatusPaid || p.PaidAt == nil {
		return nil, ErrPayoutBadState
	}
	user, err := s.users.GetByID(p.UserID)
	if err != nil {
		return nil, err
	}
	return s.pdfGen.PayoutStatement(pdf.PayoutData{
		PayoutID:    p.ID,
		Seller:      user.Username,
		Amount:      formatAmount(p.AmountCents, p.Currency),
		Destination: p.Destination,
		PaidAt:      *p.PaidAt,
	})
}

func maskDestination(dest string) string {
	if len(dest) <= 4 {
		return "****"
	}
	return "****" + dest[len(dest)-4:]
}

func formatAmount(cents int64, currency string) string {
	return fmt.Sprintf("%d.%02d %s", cents/100, cents%100, currency)
}
