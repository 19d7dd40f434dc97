package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"nhooyr.io/websocket"
)

// wsIdleLimit bounds how long an echo connection may stay open. The
// endpoint exists for facilitators to verify WebSocket connectivity
// through their network before a drill, not for long-lived sessions.
const wsIdleLimit = 10 * time.Minute

func handleWSEcho(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("echo: accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		ctx, cancel := context.WithTimeout(r.Context(), wsIdleLimit)
		defer cancel()

		for {
			typ, msg, err := conn.Read(ctx)
			if err != nil {
				logger.Debug("echo: connection closed", "error", err)
				return
			}
			if err := conn.Write(ctx, typ, msg); err != nil {
				logger.Debug("echo: write failed", "error", err)
				return
			}
		}
	}
}
