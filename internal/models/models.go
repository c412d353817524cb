package models

import "time"

type AdStatus string

const (
	AdStatusPending  AdStatus = "pending"
	AdStatusApproved AdStatus = "approved"
)

// Ad is a single classified listing. Photo carries the client-encoded image
// (a data URL), size-capped at submission time. UserID is the opaque token
// the client identifies itself with; it is not authenticated.
type Ad struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Photo       string    `json:"photo"`
	Description string    `json:"description"`
	UserID      string    `json:"userId"`
	IsPremium   bool      `json:"isPremium"`
	Status      AdStatus  `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
}

// PermanentAd is a promoted copy of an approved Ad, keyed by the same id and
// exempt from the scheduled reset. It is deliberately not kept in sync with
// the originating record: permanence must survive the live record's deletion.
type PermanentAd struct {
	ID          int64
	Title       string
	Photo       string
	Description string
	UserID      string
	IsPremium   bool
	CreatedAt   time.Time
}

// AsAd converts the permanent copy back into the listing shape clients see.
// Permanent ads are by construction approved.
func (p PermanentAd) AsAd() Ad {
	return Ad{
		ID:          p.ID,
		Title:       p.Title,
		Photo:       p.Photo,
		Description: p.Description,
		UserID:      p.UserID,
		IsPremium:   p.IsPremium,
		Status:      AdStatusApproved,
		CreatedAt:   p.CreatedAt,
	}
}

// PromoCode is a single-use premium-unlock token. Used never reverts once set.
type PromoCode struct {
	ID        int64
	Code      string
	Used      bool
	CreatedAt time.Time
}
