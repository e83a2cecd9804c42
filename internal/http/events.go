package httpapp

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/cesargomez89/tunedeck/internal/events"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	eventBufferLen = 64
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
}

// Events streams bus events to a websocket client. The current session
// and result summary are sent first so a fresh client needs no polling.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logger.Warn("Websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	ch, unsubscribe := h.Bus.Subscribe(eventBufferLen)
	defer unsubscribe()

	initial := []events.Event{
		{Type: events.TypePlayback, Payload: h.Player.Session(), At: time.Now()},
		{Type: events.TypeResults, Payload: h.resultsChanged(), At: time.Now()},
	}
	for _, e := range initial {
		conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := conn.WriteJSON(e); err != nil {
			return
		}
	}

	done := make(chan struct{})
	go h.readPump(conn, done)

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case e, ok := <-ch:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := conn.WriteJSON(e); err != nil {
				h.Logger.Debug("Websocket write failed", "error", err)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}

// readPump discards client frames and closes done when the peer goes
// away.
func (h *Handler) readPump(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Handler) resultsChanged() events.ResultsChanged {
	snap := h.Library.Snapshot()
	return events.ResultsChanged{
		Query:    snap.Results.Query,
		Category: string(snap.Category),
		View:     string(snap.View),
		Counts:   snap.Counts,
	}
}
