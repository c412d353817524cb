// Package service holds the business rules of the ad board: submission,
// promo redemption, and the moderation state machine. Storage and the
// realtime channel are consumed through narrow interfaces so the rules stay
// testable without a database or a websocket in the room.
package service

import (
	"context"

	"github.com/digkill/adboard/internal/models"
)

// AdStore is the slice of the storage gateway the services need for the
// live (ephemeral) ad set.
type AdStore interface {
	Create(ctx context.Context, ad *models.Ad) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Ad, error)
	ListByStatus(ctx context.Context, status models.AdStatus) ([]models.Ad, error)
	CountByOwner(ctx context.Context, userID string) (int, error)
	UpdateStatus(ctx context.Context, id int64, from, to models.AdStatus) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// PermanentAdStore covers the reset-exempt copy set.
type PermanentAdStore interface {
	Create(ctx context.Context, ad *models.PermanentAd) error
	List(ctx context.Context) ([]models.PermanentAd, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Delete(ctx context.Context, id int64) (bool, error)
}

// Events is the outbound side of the realtime channel. Every call fans out
// to all connected viewers.
type Events interface {
	AdApproved(ad models.Ad)
	AdPending(id int64)
	AdDeleted(id int64)
}
