package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	qrcode "github.com/skip2/go-qrcode"
	"github.com/veltra-services/fieldservice-api/internal/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const paymentQRSize = 256

// PaymentService renders the admin's payment link as a QR code PNG that
// technicians can show to customers on site.
type PaymentService struct {
	userRepo *repository.UserRepository
	logger   *zap.Logger
}

func NewPaymentService(userRepo *repository.UserRepository, logger *zap.Logger) *PaymentService {
	return &PaymentService{
		userRepo: userRepo,
		logger:   logger,
	}
}

// PaymentQR returns a PNG QR code of the payment link for the user's company.
// Technicians resolve through their linked admin; admins use their own link.
func (s *PaymentService) PaymentQR(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	link := user.PaymentLink
	if link == "" && user.AdminID != nil {
		admin, err := s.userRepo.GetByID(ctx, *user.AdminID)
		if err != nil {
			return nil, fmt.Errorf("failed to get admin: %w", err)
		}
		link = admin.PaymentLink
	}

	if link == "" {
		return nil, fmt.Errorf("%w: no payment link configured", ErrNotFound)
	}

	qr, err := qrcode.New(link, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("failed to create QR code: %w", err)
	}

	png, err := qr.PNG(paymentQRSize)
	if err != nil {
		return nil, fmt.Errorf("failed to render QR code: %w", err)
	}
	return png, nil
}
