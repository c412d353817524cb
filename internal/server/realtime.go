package server

import (
	"context"
	"errors"
	"log/slog"

	"github.com/digkill/adboard/internal/realtime"
	"github.com/digkill/adboard/internal/scheduler"
	"github.com/digkill/adboard/internal/service"
)

// NewRealtimeHandlers binds the websocket channel to the services. Sentinel
// errors travel to the viewer as the ack message; anything else is logged and
// reported as a generic failure.
func NewRealtimeHandlers(subs *service.SubmissionService, mod *service.ModerationService, resets *scheduler.Reset, log *slog.Logger, snapshotLimit int) realtime.Handlers {
	return realtime.Handlers{
		NewAd: func(ctx context.Context, req realtime.NewAdRequest) realtime.Ack {
			err := subs.Submit(ctx, service.SubmitInput{
				Title:       req.Title,
				Photo:       req.Photo,
				Description: req.Description,
				UserID:      req.UserID,
				PromoCode:   req.PromoCode,
			})
			if err == nil {
				return realtime.AckOK()
			}
			if isClientFault(err) {
				return realtime.AckFail(err.Error())
			}
			log.Error("submit ad", "owner", req.UserID, "err", err)
			return realtime.AckFail("server error")
		},
		DeleteAd: func(ctx context.Context, req realtime.DeleteAdRequest) realtime.Ack {
			err := mod.DeleteOwn(ctx, req.AdID, req.UserID)
			if err == nil {
				return realtime.AckOK()
			}
			if isClientFault(err) {
				return realtime.AckFail(err.Error())
			}
			log.Error("delete own ad", "id", req.AdID, "err", err)
			return realtime.AckFail("server error")
		},
		Snapshot: func(ctx context.Context) (realtime.Snapshot, error) {
			ads, err := mod.ActiveAds(ctx, snapshotLimit)
			if err != nil {
				return realtime.Snapshot{}, err
			}
			return realtime.Snapshot{Ads: ads, NextReset: resets.NextReset()}, nil
		},
	}
}

// isClientFault separates validation and not-found conditions, whose messages
// viewers may see, from storage faults, whose detail they may not.
func isClientFault(err error) bool {
	return errors.Is(err, service.ErrPayloadTooLarge) ||
		errors.Is(err, service.ErrDuplicateOwner) ||
		errors.Is(err, service.ErrMissingFields) ||
		errors.Is(err, service.ErrInvalidOrUsedCode) ||
		errors.Is(err, service.ErrNotFound) ||
		errors.Is(err, service.ErrNotOwner)
}
