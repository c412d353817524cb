package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/digkill/adboard/internal/models"
)

// Wire event names, shared with the browser client.
const (
	EventInitialAds   = "initial-ads"
	EventResetTime    = "reset-time"
	EventNewAd        = "new-ad"
	EventNewPendingAd = "new-pending-ad"
	EventDeleteAd     = "delete-ad"
	eventAck          = "ack"
)

// envelope is an inbound client frame. ID, when set, asks for an ack frame
// echoing it back.
type envelope struct {
	ID    int64           `json:"id,omitempty"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// frame is an outbound server frame.
type frame struct {
	ID    int64  `json:"id,omitempty"`
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// Ack is the acknowledgement payload for inbound operations. Message carries
// the specific validation reason on failure, never internal error detail.
type Ack struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func AckOK() Ack                 { return Ack{Success: true} }
func AckFail(message string) Ack { return Ack{Success: false, Message: message} }

// NewAdRequest is the inbound "new-ad" payload.
type NewAdRequest struct {
	Title       string `json:"title"`
	Photo       string `json:"photo"`
	Description string `json:"description"`
	UserID      string `json:"userId"`
	PromoCode   string `json:"promoCode,omitempty"`
}

// DeleteAdRequest is the inbound "delete-ad" payload.
type DeleteAdRequest struct {
	AdID   int64  `json:"adId"`
	UserID string `json:"userId"`
}

// Snapshot is what a freshly connected viewer receives privately.
type Snapshot struct {
	Ads       []models.Ad
	NextReset time.Time
}

// Handlers binds inbound events and the connect-time snapshot to the
// services behind them. The hub stays transport-only; error-to-message
// mapping happens on the other side of these funcs.
type Handlers struct {
	NewAd    func(ctx context.Context, req NewAdRequest) Ack
	DeleteAd func(ctx context.Context, req DeleteAdRequest) Ack
	Snapshot func(ctx context.Context) (Snapshot, error)
}
