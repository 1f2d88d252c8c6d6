package stream

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"nhooyr.io/websocket"
)

// Handler upgrades the connection and streams sighting events as JSON text
// frames until the client disconnects or the request context ends.
func Handler(log *slog.Logger, b *Broadcaster) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, nil)
		if err != nil {
			log.Error("websocket accept", "err", err)
			return
		}
		defer func() { _ = conn.Close(websocket.StatusNormalClosure, "done") }()

		ch, cancel := b.Subscribe()
		defer cancel()

		ctx := r.Context()
		for {
			select {
			case <-ctx.Done():
				return
			case e, ok := <-ch:
				if !ok {
					return
				}
				buf, err := json.Marshal(e)
				if err != nil {
					continue
				}
				if err := conn.Write(ctx, websocket.MessageText, buf); err != nil {
					return
				}
			}
		}
	})
}
