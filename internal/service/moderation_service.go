package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/digkill/adboard/internal/metrics"
	"github.com/digkill/adboard/internal/models"
	"github.com/digkill/adboard/internal/repository"
)

var (
	ErrNotFound         = errors.New("ad not found")
	ErrNotApproved      = errors.New("ad is not approved")
	ErrAlreadyPermanent = errors.New("ad is already permanent")
	ErrNotOwner         = errors.New("you cannot delete this ad")
)

// ModerationAd is a listing annotated for the operator console.
type ModerationAd struct {
	models.Ad
	Permanent bool
}

// ModerationListing is what the operator reviews: the pending queue plus the
// currently visible set.
type ModerationListing struct {
	Pending []models.Ad
	Active  []ModerationAd
}

type ModerationService struct {
	ads    AdStore
	perms  PermanentAdStore
	events Events
	log    *slog.Logger
}

func NewModerationService(ads AdStore, perms PermanentAdStore, events Events, log *slog.Logger) *ModerationService {
	return &ModerationService{ads: ads, perms: perms, events: events, log: log}
}

// Approve moves a pending ad to approved and broadcasts the full ad. A repeat
// approve of an already-approved ad is a quiet no-op; a missing ad is ErrNotFound.
func (s *ModerationService) Approve(ctx context.Context, id int64) error {
	changed, err := s.ads.UpdateStatus(ctx, id, models.AdStatusPending, models.AdStatusApproved)
	if err != nil {
		return fmt.Errorf("approve ad %d: %w", id, err)
	}
	if !changed {
		ad, err := s.ads.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("load ad %d: %w", id, err)
		}
		if ad == nil {
			return ErrNotFound
		}
		return nil
	}

	ad, err := s.ads.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load approved ad %d: %w", id, err)
	}
	if ad == nil {
		// Deleted between the update and the read; nothing left to announce.
		return nil
	}

	metrics.AdsApproved.Inc()
	s.log.Info("ad approved", "id", id)
	s.events.AdApproved(*ad)
	return nil
}

// Reject hard-deletes the live record regardless of status. Rejecting an ad
// that is already gone is a no-op.
func (s *ModerationService) Reject(ctx context.Context, id int64) error {
	removed, err := s.ads.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("reject ad %d: %w", id, err)
	}
	if removed {
		metrics.AdsDeleted.Inc()
		s.log.Info("ad rejected", "id", id)
		s.events.AdDeleted(id)
	}
	return nil
}

// MakePermanent copies an approved ad into the reset-exempt set.
func (s *ModerationService) MakePermanent(ctx context.Context, id int64) error {
	ad, err := s.ads.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load ad %d: %w", id, err)
	}
	if ad == nil {
		return ErrNotFound
	}
	if ad.Status != models.AdStatusApproved {
		return ErrNotApproved
	}

	exists, err := s.perms.Exists(ctx, id)
	if err != nil {
		return fmt.Errorf("check permanent ad %d: %w", id, err)
	}
	if exists {
		return ErrAlreadyPermanent
	}

	copyAd := &models.PermanentAd{
		ID:          ad.ID,
		Title:       ad.Title,
		Photo:       ad.Photo,
		Description: ad.Description,
		UserID:      ad.UserID,
		IsPremium:   ad.IsPremium,
	}
	if err := s.perms.Create(ctx, copyAd); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return ErrAlreadyPermanent
		}
		return fmt.Errorf("make ad %d permanent: %w", id, err)
	}
	s.log.Info("ad made permanent", "id", id)
	return nil
}

// RemovePermanent drops the permanent copy only; the live record, if any,
// keeps its approved status.
func (s *ModerationService) RemovePermanent(ctx context.Context, id int64) error {
	removed, err := s.perms.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("remove permanent ad %d: %w", id, err)
	}
	if !removed {
		return ErrNotFound
	}
	s.log.Info("permanent ad removed", "id", id)
	return nil
}

// DeleteAd removes the ad from both the live and the permanent set and
// broadcasts the deletion. ErrNotFound only when neither set held the id.
func (s *ModerationService) DeleteAd(ctx context.Context, id int64) error {
	liveGone, err := s.ads.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete ad %d: %w", id, err)
	}
	permGone, err := s.perms.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete permanent ad %d: %w", id, err)
	}
	if !liveGone && !permGone {
		return ErrNotFound
	}

	metrics.AdsDeleted.Inc()
	s.log.Info("ad deleted", "id", id, "live", liveGone, "permanent", permGone)
	s.events.AdDeleted(id)
	return nil
}

// DeleteOwn removes the caller's own live ad after the stored owner token
// matches. Any permanent copy stays: permanence outlives the live record.
func (s *ModerationService) DeleteOwn(ctx context.Context, id int64, userID string) error {
	ad, err := s.ads.GetByID(ctx, id)
	if err != nil {
		return fmt.Errorf("load ad %d: %w", id, err)
	}
	if ad == nil {
		return ErrNotFound
	}
	if ad.UserID != userID {
		return ErrNotOwner
	}

	removed, err := s.ads.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete own ad %d: %w", id, err)
	}
	if removed {
		metrics.AdsDeleted.Inc()
		s.log.Info("ad deleted by owner", "id", id)
		s.events.AdDeleted(id)
	}
	return nil
}

// ListForModeration returns the pending queue and the de-duplicated union of
// approved and permanent ads. When an id exists in both sets the permanent
// copy wins.
func (s *ModerationService) ListForModeration(ctx context.Context) (ModerationListing, error) {
	pending, err := s.ads.ListByStatus(ctx, models.AdStatusPending)
	if err != nil {
		return ModerationListing{}, fmt.Errorf("list pending ads: %w", err)
	}
	approved, err := s.ads.ListByStatus(ctx, models.AdStatusApproved)
	if err != nil {
		return ModerationListing{}, fmt.Errorf("list approved ads: %w", err)
	}
	perms, err := s.perms.List(ctx)
	if err != nil {
		return ModerationListing{}, fmt.Errorf("list permanent ads: %w", err)
	}

	permanent := make(map[int64]struct{}, len(perms))
	active := make([]ModerationAd, 0, len(approved)+len(perms))
	for _, p := range perms {
		permanent[p.ID] = struct{}{}
		active = append(active, ModerationAd{Ad: p.AsAd(), Permanent: true})
	}
	for _, ad := range approved {
		if _, ok := permanent[ad.ID]; ok {
			continue
		}
		active = append(active, ModerationAd{Ad: ad})
	}
	sort.SliceStable(active, func(i, j int) bool { return active[i].ID < active[j].ID })

	return ModerationListing{Pending: pending, Active: active}, nil
}

// ActiveAds builds the viewer-facing set: approved plus permanent ads,
// de-duplicated (permanent wins), premium first, stable otherwise, capped.
func (s *ModerationService) ActiveAds(ctx context.Context, limit int) ([]models.Ad, error) {
	approved, err := s.ads.ListByStatus(ctx, models.AdStatusApproved)
	if err != nil {
		return nil, fmt.Errorf("list approved ads: %w", err)
	}
	perms, err := s.perms.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list permanent ads: %w", err)
	}

	seen := make(map[int64]struct{}, len(perms))
	ads := make([]models.Ad, 0, len(approved)+len(perms))
	for _, p := range perms {
		seen[p.ID] = struct{}{}
		ads = append(ads, p.AsAd())
	}
	for _, ad := range approved {
		if _, ok := seen[ad.ID]; ok {
			continue
		}
		ads = append(ads, ad)
	}

	sort.SliceStable(ads, func(i, j int) bool {
		return ads[i].IsPremium && !ads[j].IsPremium
	})
	if limit > 0 && len(ads) > limit {
		ads = ads[:limit]
	}
	return ads, nil
}
