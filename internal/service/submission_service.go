package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/digkill/adboard/internal/metrics"
	"github.com/digkill/adboard/internal/models"
	"github.com/digkill/adboard/internal/repository"
)

var (
	ErrPayloadTooLarge = errors.New("photo exceeds the allowed size")
	ErrDuplicateOwner  = errors.New("you already have an ad; delete it to submit a new one")
	ErrMissingFields   = errors.New("title, description and user id are required")
)

// PromoRedeemer burns a promo code, or reports it invalid/used.
type PromoRedeemer interface {
	Redeem(ctx context.Context, code string) error
}

type SubmissionService struct {
	ads      AdStore
	promos   PromoRedeemer
	events   Events
	log      *slog.Logger
	photoMax int
}

func NewSubmissionService(ads AdStore, promos PromoRedeemer, events Events, log *slog.Logger, photoMax int) *SubmissionService {
	return &SubmissionService{ads: ads, promos: promos, events: events, log: log, photoMax: photoMax}
}

type SubmitInput struct {
	Title       string
	Photo       string
	Description string
	UserID      string
	PromoCode   string
}

// Submit validates and persists a new ad in pending status. A supplied promo
// code is redeemed before the insert; the accepted (and rare) failure mode of
// a crash between the two is a burned code with no ad. The one-ad-per-owner
// rule is checked up front for a friendly message and enforced for real by
// the unique owner index at insert time.
func (s *SubmissionService) Submit(ctx context.Context, in SubmitInput) error {
	if s.photoMax > 0 && len(in.Photo) > s.photoMax {
		return ErrPayloadTooLarge
	}

	title := strings.TrimSpace(in.Title)
	description := strings.TrimSpace(in.Description)
	owner := strings.TrimSpace(in.UserID)
	if title == "" || description == "" || owner == "" {
		return ErrMissingFields
	}

	count, err := s.ads.CountByOwner(ctx, owner)
	if err != nil {
		return fmt.Errorf("count ads for owner %s: %w", owner, err)
	}
	if count > 0 {
		return ErrDuplicateOwner
	}

	premium := false
	if strings.TrimSpace(in.PromoCode) != "" {
		if err := s.promos.Redeem(ctx, in.PromoCode); err != nil {
			return err
		}
		premium = true
	}

	ad := &models.Ad{
		Title:       title,
		Photo:       in.Photo,
		Description: description,
		UserID:      owner,
		IsPremium:   premium,
		Status:      models.AdStatusPending,
	}
	id, err := s.ads.Create(ctx, ad)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return ErrDuplicateOwner
		}
		return fmt.Errorf("create ad for owner %s: %w", owner, err)
	}

	metrics.AdsSubmitted.Inc()
	s.log.Info("ad submitted", "id", id, "owner", owner, "premium", premium)
	s.events.AdPending(id)
	return nil
}
