package feed

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	writeWait  = 10 * time.Second
)

// Upgrader abstracts websocket.Upgrader for tests.
type Upgrader interface {
	Upgrade(w http.ResponseWriter, r *http.Request, responseHeader http.Header) (*websocket.Conn, error)
}

var defaultUpgrader = &websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origins are enforced by the CORS layer in front of the API.
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (h *Hub) SetUpgrader(u Upgrader) {
	h.upgrader = u
}

func (h *Hub) getUpgrader() Upgrader {
	if h.upgrader != nil {
		return h.upgrader
	}
	return defaultUpgrader
}

// Serve upgrades the request and streams the session's events until the
// client goes away. The feed is read-only; inbound frames are discarded.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request, sessionID int64) {
	conn, err := h.getUpgrader().Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn().Err(err).Int64("session_id", sessionID).Msg("feed.upgrade_failed")
		return
	}

	sub := h.Subscribe(sessionID, conn)
	h.log.Debug().Int64("session_id", sessionID).Str("subscriber", sub.ID).Msg("feed.connected")

	go h.writeLoop(sub)
	go h.readLoop(sub)
}

func (h *Hub) readLoop(sub *Subscriber) {
	defer func() {
		h.Unsubscribe(sub)
		sub.Conn.Close()
		h.log.Debug().Int64("session_id", sub.SessionID).Str("subscriber", sub.ID).Msg("feed.disconnected")
	}()

	sub.Conn.SetReadLimit(512)
	_ = sub.Conn.SetReadDeadline(time.Now().Add(pongWait))
	sub.Conn.SetPongHandler(func(string) error {
		return sub.Conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := sub.Conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warn().Err(err).Str("subscriber", sub.ID).Msg("feed.read_failed")
			}
			return
		}
	}
}

func (h *Hub) writeLoop(sub *Subscriber) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-sub.Done:
			sub.Conn.Close()
			return

		case event := <-sub.Send:
			_ = sub.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sub.Conn.WriteJSON(event); err != nil {
				h.log.Warn().Err(err).Str("subscriber", sub.ID).Msg("feed.write_failed")
				sub.Conn.Close()
				return
			}

		case <-ticker.C:
			_ = sub.Conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sub.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				sub.Conn.Close()
				return
			}
		}
	}
}
