package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"nauticare/internal/repositories"
	"nauticare/pkg/config"
	apperrors "nauticare/pkg/errors"
)

const referenceAttempts = 5

// BillingServiceInterface is the invoicing policy: reference numbering,
// deposit computation and due dates. Percentages and grace periods come from
// configuration, not constants.
type BillingServiceInterface interface {
	NextReference(ctx context.Context) (string, error)
	DepositFor(total float64) float64
	DueDate(issuedAt time.Time) time.Time
}

type BillingService struct {
	cache       repositories.CacheRepositoryInterface
	requestRepo repositories.RequestRepositoryInterface
	cfg         config.BillingConfig
	logger      *zap.Logger
}

func NewBillingService(
	cache repositories.CacheRepositoryInterface,
	requestRepo repositories.RequestRepositoryInterface,
	cfg config.BillingConfig,
	logger *zap.Logger,
) BillingServiceInterface {
	return &BillingService{
		cache:       cache,
		requestRepo: requestRepo,
		cfg:         cfg,
		logger:      logger,
	}
}

// NextReference produces a reference that does not collide with any invoice
// already in storage. Candidates come from a yearly redis sequence, with a
// random fallback when the cache is unavailable; each candidate is checked
// against storage and regenerated on collision.
func (s *BillingService) NextReference(ctx context.Context) (string, error) {
	year := time.Now().Year()

	for attempt := 0; attempt < referenceAttempts; attempt++ {
		candidate := s.candidate(ctx, year)

		exists, err := s.requestRepo.InvoiceReferenceExists(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
		s.logger.Warn("invoice reference collision, regenerating", zap.String("reference", candidate))
	}

	return "", apperrors.NewHttpError(500, "could not allocate an invoice reference", nil)
}

func (s *BillingService) candidate(ctx context.Context, year int) string {
	seq, err := s.cache.Incr(ctx, fmt.Sprintf("invoice_seq:%d", year))
	if err != nil {
		s.logger.Warn("invoice sequence unavailable, falling back to random reference", zap.Error(err))
		salt := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
		return fmt.Sprintf("%s-%d-%s", s.cfg.ReferencePrefix, year, salt)
	}
	return fmt.Sprintf("%s-%d-%06d", s.cfg.ReferencePrefix, year, seq)
}

func (s *BillingService) DepositFor(total float64) float64 {
	deposit := total * s.cfg.DepositPercent / 100
	if deposit < 0 {
		return 0
	}
	if deposit > total {
		return total
	}
	return deposit
}

func (s *BillingService) DueDate(issuedAt time.Time) time.Time {
	return issuedAt.AddDate(0, 0, s.cfg.PaymentGraceDays)
}
