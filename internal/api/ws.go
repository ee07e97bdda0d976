package api

import (
	"net/http"
	"slices"

	"github.com/gorilla/websocket"
)

// serveWs upgrades the connection and subscribes it to a room's live
// tally stream. The current result set is written immediately; every
// subsequent accepted vote pushes a fresh frame.
func (s *App) serveWs(w http.ResponseWriter, r *http.Request) {
	if _, ok := UserId(r.Context()); !ok {
		s.writeError(w, NewUnauthorizedError())
		return
	}

	code := r.URL.Query().Get("code")
	if code == "" {
		s.writeError(w, NewBadRequestError("code is required"))
		return
	}

	result, err := s.rooms.ResultByCode(code)
	if err != nil {
		s.writeError(w, serviceError(err))
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}

			return slices.Contains(s.allowedOrigins, origin)
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Println("error upgrading connection:", err)
		return
	}

	// initial frame goes out before the pumps take over the connection
	if err := conn.WriteJSON(result); err != nil {
		s.log.Println("error writing initial result:", err)
		conn.Close()
		return
	}

	s.live.Subscribe(code, conn)
}
