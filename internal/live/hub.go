// Package live fans fresh room tallies out to websocket subscribers.
// Viewers subscribe by room code; every accepted vote triggers a
// broadcast of the recomputed result set.
package live

import (
	"encoding/json"
	"log"
	"time"

	"github.com/gorilla/websocket"
	"github.com/gufronnakaaw/jujurly-backend/internal/stats"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = (pongWait * 9) / 10
)

type Hub struct {
	log       *log.Logger
	stats     stats.StatsProvider
	subs      map[string]map[*subscriber]struct{}
	subChan   chan *subscriber
	unsubChan chan *subscriber
	castChan  chan *broadcastReq
	stop      chan struct{}
	done      chan struct{}
}

type subscriber struct {
	code string
	conn *websocket.Conn
	hub  *Hub
	send chan []byte
}

type broadcastReq struct {
	code    string
	payload []byte
}

func NewHub(logger *log.Logger, statsProvider stats.StatsProvider) *Hub {
	return &Hub{
		log:       logger,
		stats:     statsProvider,
		subs:      make(map[string]map[*subscriber]struct{}),
		subChan:   make(chan *subscriber),
		unsubChan: make(chan *subscriber),
		castChan:  make(chan *broadcastReq, 256),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case sub := <-h.subChan:
			if _, ok := h.subs[sub.code]; !ok {
				h.subs[sub.code] = make(map[*subscriber]struct{})
			}
			h.subs[sub.code][sub] = struct{}{}
			h.stats.Incr(stats.ActiveResultStreams)
		case sub := <-h.unsubChan:
			if conns, ok := h.subs[sub.code]; ok {
				if _, ok := conns[sub]; ok {
					delete(conns, sub)
					close(sub.send)
					h.stats.Decr(stats.ActiveResultStreams)
				}
				if len(conns) == 0 {
					delete(h.subs, sub.code)
				}
			}
		case req := <-h.castChan:
			for sub := range h.subs[req.code] {
				select {
				case sub.send <- req.payload:
				default:
					// slow consumer, drop the frame
					h.log.Printf("dropping tally frame for room %q", req.code)
				}
			}
		case <-h.stop:
			for _, conns := range h.subs {
				for sub := range conns {
					close(sub.send)
				}
			}

			close(h.done)
			return
		}
	}
}

func (h *Hub) Shutdown() {
	close(h.stop)
	<-h.done
}

// Subscribe registers a websocket connection for a room code and
// starts its pumps. The connection is closed and deregistered when the
// peer goes away or the hub shuts down.
func (h *Hub) Subscribe(code string, conn *websocket.Conn) {
	sub := &subscriber{
		code: code,
		conn: conn,
		hub:  h,
		send: make(chan []byte, 16),
	}

	h.subChan <- sub
	go sub.write()
	go sub.read()
}

// Broadcast serializes payload and queues it for every subscriber of
// the room code.
func (h *Hub) Broadcast(code string, payload any) {
	bytes, err := json.Marshal(payload)
	if err != nil {
		h.log.Println("failed to serialize tally frame:", err)
		return
	}

	select {
	case h.castChan <- &broadcastReq{code: code, payload: bytes}:
	case <-h.stop:
	}
}

func (s *subscriber) write() {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-s.send:
			if !ok {
				s.conn.SetWriteDeadline(time.Now().Add(writeWait))
				s.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}

			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// read discards inbound frames; its job is detecting the peer closing
// the connection.
func (s *subscriber) read() {
	defer func() {
		s.conn.Close()

		select {
		case s.hub.unsubChan <- s:
		case <-s.hub.stop:
		}
	}()

	s.conn.SetReadLimit(512)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}
