package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/digkill/adboard/internal/metrics"
	"github.com/digkill/adboard/internal/models"
)

// ErrInvalidOrUsedCode covers both unknown codes and codes already burned;
// callers cannot tell the two apart on purpose.
var ErrInvalidOrUsedCode = errors.New("invalid or already used promo code")

const promoPrefix = "PREMIUM_"

// PromoStore is the slice of the storage gateway the promo authority needs.
type PromoStore interface {
	Create(ctx context.Context, code string) (*models.PromoCode, error)
	Consume(ctx context.Context, code string) (bool, error)
	List(ctx context.Context) ([]models.PromoCode, error)
}

type PromoService struct {
	promos PromoStore
	log    *slog.Logger
}

func NewPromoService(promos PromoStore, log *slog.Logger) *PromoService {
	return &PromoService{promos: promos, log: log}
}

// Generate mints a new single-use code and persists it unused. Collisions are
// vanishingly unlikely with 8 random hex chars behind the prefix; if one does
// happen the storage conflict is surfaced rather than retried.
func (s *PromoService) Generate(ctx context.Context) (string, error) {
	code := promoPrefix + newCodeSuffix()
	if _, err := s.promos.Create(ctx, code); err != nil {
		return "", fmt.Errorf("create promo code: %w", err)
	}
	s.log.Info("promo code generated", "code", code)
	return code, nil
}

// Redeem burns the code. The check-and-flip happens in one conditional write
// at the store, so a code can be redeemed at most once system-wide.
func (s *PromoService) Redeem(ctx context.Context, code string) error {
	code = strings.TrimSpace(code)
	if code == "" {
		return ErrInvalidOrUsedCode
	}
	ok, err := s.promos.Consume(ctx, code)
	if err != nil {
		return fmt.Errorf("consume promo code: %w", err)
	}
	if !ok {
		return ErrInvalidOrUsedCode
	}
	metrics.PromoRedemptions.Inc()
	return nil
}

// List returns every code, newest first, for the operator console.
func (s *PromoService) List(ctx context.Context) ([]models.PromoCode, error) {
	promos, err := s.promos.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list promo codes: %w", err)
	}
	return promos, nil
}

func newCodeSuffix() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(raw[:8])
}
