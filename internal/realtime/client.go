package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	// Photo payloads alone may reach 2 MiB; leave headroom for the envelope.
	maxMessageSize = 4 << 20
)

type client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan frame
}

func (c *client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.hub.log.Debug("viewer read", "err", err)
			}
			return
		}

		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			c.reply(0, AckFail("malformed message"))
			continue
		}
		c.handle(env)
	}
}

// handle dispatches one inbound operation and always answers with an ack;
// a failed operation must never cost the viewer its connection.
func (c *client) handle(env envelope) {
	// Socket lifetime, not request lifetime, scopes these operations.
	ctx := context.Background()

	switch env.Event {
	case EventNewAd:
		if c.hub.Handlers.NewAd == nil {
			c.reply(env.ID, AckFail("unsupported operation"))
			return
		}
		var req NewAdRequest
		if err := json.Unmarshal(env.Data, &req); err != nil {
			c.reply(env.ID, AckFail("malformed payload"))
			return
		}
		c.reply(env.ID, c.hub.Handlers.NewAd(ctx, req))
	case EventDeleteAd:
		if c.hub.Handlers.DeleteAd == nil {
			c.reply(env.ID, AckFail("unsupported operation"))
			return
		}
		var req DeleteAdRequest
		if err := json.Unmarshal(env.Data, &req); err != nil {
			c.reply(env.ID, AckFail("malformed payload"))
			return
		}
		c.reply(env.ID, c.hub.Handlers.DeleteAd(ctx, req))
	default:
		c.reply(env.ID, AckFail("unknown event"))
	}
}

func (c *client) reply(id int64, ack Ack) {
	select {
	case c.send <- frame{ID: id, Event: eventAck, Data: ack}:
	default:
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case f, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(f); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
