package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	AdsSubmitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "adboard_ads_submitted_total",
		Help: "Ads accepted into the pending queue.",
	})
	AdsApproved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "adboard_ads_approved_total",
		Help: "Ads approved by the moderator.",
	})
	AdsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "adboard_ads_deleted_total",
		Help: "Ads removed by moderation, owners, or resets.",
	})
	PromoRedemptions = promauto.NewCounter(prometheus.CounterOpts{
		Name: "adboard_promo_redemptions_total",
		Help: "Promo codes successfully burned during submission.",
	})
	BoardResets = promauto.NewCounter(prometheus.CounterOpts{
		Name: "adboard_board_resets_total",
		Help: "Completed reset cycles.",
	})
	Connections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "adboard_realtime_connections",
		Help: "Currently connected realtime viewers.",
	})
)

// Handler exposes the default registry for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
