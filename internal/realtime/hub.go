// Package realtime is the push channel: a websocket hub that fans state
// changes out to every connected viewer and hands each new connection its
// private initial snapshot.
package realtime

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/digkill/adboard/internal/metrics"
	"github.com/digkill/adboard/internal/models"
)

type Hub struct {
	log *slog.Logger

	// Handlers must be set before Run; the server wires them to the services.
	Handlers Handlers

	register   chan *client
	unregister chan *client
	outbound   chan frame
	clients    map[*client]struct{}
	upgrader   websocket.Upgrader
}

func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		log:        log,
		register:   make(chan *client),
		unregister: make(chan *client),
		outbound:   make(chan frame, 64),
		clients:    make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// The board is public and the user token is client-chosen anyway.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Run owns the client set. All registration and fan-out goes through this
// loop, so no lock is needed around the map.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			for c := range h.clients {
				close(c.send)
				delete(h.clients, c)
			}
			return
		case c := <-h.register:
			h.clients[c] = struct{}{}
			metrics.Connections.Inc()
		case c := <-h.unregister:
			h.drop(c)
		case f := <-h.outbound:
			for c := range h.clients {
				select {
				case c.send <- f:
				default:
					// A viewer that cannot keep up is dropped rather than
					// allowed to stall the fan-out.
					h.drop(c)
				}
			}
		}
	}
}

func (h *Hub) drop(c *client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	close(c.send)
	metrics.Connections.Dec()
}

// ServeWS upgrades the request, delivers the private snapshot, and joins the
// connection to the hub.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Error("websocket upgrade", "err", err)
		return
	}

	c := &client{hub: h, conn: conn, send: make(chan frame, 32)}

	if h.Handlers.Snapshot != nil {
		snap, err := h.Handlers.Snapshot(r.Context())
		if err != nil {
			// The viewer still joins; broadcasts will catch it up.
			h.log.Error("connection snapshot", "err", err)
		} else {
			ads := snap.Ads
			if ads == nil {
				ads = []models.Ad{}
			}
			c.send <- frame{Event: EventInitialAds, Data: ads}
			c.send <- frame{Event: EventResetTime, Data: snap.NextReset.UnixMilli()}
		}
	}

	h.register <- c
	go c.writePump()
	go c.readPump()
	h.log.Info("viewer connected", "remote", conn.RemoteAddr().String())
}

func (h *Hub) broadcast(event string, data any) {
	h.outbound <- frame{Event: event, Data: data}
}

// AdApproved announces a freshly approved ad to all viewers.
func (h *Hub) AdApproved(ad models.Ad) { h.broadcast(EventNewAd, ad) }

// AdPending announces that a new submission entered the moderation queue.
func (h *Hub) AdPending(id int64) { h.broadcast(EventNewPendingAd, id) }

// AdDeleted announces a removal from the live board.
func (h *Hub) AdDeleted(id int64) { h.broadcast(EventDeleteAd, id) }

// AnnounceReset replaces every viewer's board with the post-reset set and
// publishes the new deadline.
func (h *Hub) AnnounceReset(ads []models.Ad, next time.Time) {
	if ads == nil {
		ads = []models.Ad{}
	}
	h.broadcast(EventInitialAds, ads)
	h.broadcast(EventResetTime, next.UnixMilli())
}
