/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Fox Game
//
// Every player but one learns a secret word from a topic's 16-word grid and
// writes a hint for it. The fox only sees the grid, plus the live typing of
// one other player, and has to bluff a hint. Everyone then votes; a strict
// majority on the fox catches them, and a caught fox gets one guess at the
// word to escape.
//
// Features:
// - One websocket endpoint; rooms are chosen by message, not by URL
// - 4-character room codes without ambiguous glyphs, shareable as /room/:code
// - Players keep their id across reconnects and get a full snapshot on rejoin
// - Rooms outlive dropped connections for a grace period
// - Host rights move to the earliest joiner only on an explicit leave
// - In-browser QR code for the room URL, backed by go-qrcode

package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
	"golang.org/x/time/rate"
)

const (
	sendBuffer     = 64
	maxMessageSize = 4096
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	qrSize         = 320
)

// Client is one websocket connection. playerID, roomCode and closed belong
// to the coordinator goroutine; limiter belongs to the read pump.
type Client struct {
	conn     *websocket.Conn
	send     chan []byte
	limiter  *rate.Limiter
	playerID string
	roomCode string
	closed   bool
}

func newClient(cfg *Config, conn *websocket.Conn) *Client {
	return &Client{
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		limiter: rate.NewLimiter(rate.Limit(cfg.messageRate), cfg.messageBurst),
	}
}

func (cl *Client) close() {
	if cl.closed {
		return
	}
	cl.closed = true
	close(cl.send)
}

// run is the only goroutine that touches rooms. It returns, closing every
// connection, when ctx is cancelled.
func (c *Coordinator) run(ctx context.Context) {
	defer close(c.done)

	for {
		select {
		case <-ctx.Done():
			for cl := range c.clients {
				cl.close()
			}
			return

		case cl := <-c.register:
			c.clients[cl] = struct{}{}

		case in := <-c.inbox:
			if in.data == nil {
				c.drop(in.client)
				continue
			}
			c.handle(in.client, in.data)

		case req := <-c.sweeps:
			c.sweep(req)
		}
	}
}

func (cl *Client) readPump(c *Coordinator) {
	// The close marker shares the inbox with data frames, so it is only
	// handled after everything this connection sent before it.
	defer func() {
		select {
		case c.inbox <- inbound{client: cl}:
		case <-c.done:
		}
		_ = cl.conn.Close()
	}()

	cl.conn.SetReadLimit(maxMessageSize)
	_ = cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	cl.conn.SetPongHandler(func(string) error {
		return cl.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := cl.conn.ReadMessage()
		if err != nil {
			return
		}

		if !cl.limiter.Allow() {
			c.log.Warn().Str("remote", cl.conn.RemoteAddr().String()).Msg("HANDLE: Dropping message over rate limit")
			continue
		}

		select {
		case c.inbox <- inbound{client: cl, data: data}:
		case <-c.done:
			return
		}
	}
}

func (cl *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = cl.conn.Close()
	}()

	for {
		select {
		case data, ok := <-cl.send:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = cl.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := cl.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := cl.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func serveWS(cfg *Config, c *Coordinator) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			cfg.logger.Warn().Err(err).Str("remote", realIP(r)).Msg("SERVE: Websocket upgrade failed")
			return
		}

		cl := newClient(cfg, conn)

		select {
		case c.register <- cl:
		case <-c.done:
			_ = conn.Close()
			return
		}

		logf(cfg, "SERVE: Websocket opened by %s", realIP(r))

		go cl.writePump()
		cl.readPump(c)
	}
}

// serveQR renders a PNG QR code of the shareable room URL.
func serveQR(cfg *Config) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		code := normalizeCode(ps.ByName("code"))
		if !validCode(code) {
			http.Error(w, "invalid room code", http.StatusBadRequest)
			return
		}

		scheme := cfg.scheme()
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}

		url := scheme + "://" + r.Host + cfg.prefix + "/room/" + code

		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		securityHeaders(cfg, w)

		_, _ = w.Write(png)
	}
}

type topicView struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Icon string `json:"icon"`
}

// serveTopics lists the word packs a host can pick from.
func serveTopics(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		list := make([]topicView, 0, len(topicOrder))
		for _, key := range topics() {
			pack, _ := lookupPack(key)
			list = append(list, topicView{Key: key, Name: pack.Name, Icon: pack.Icon})
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		securityHeaders(cfg, w)

		if err := json.NewEncoder(w).Encode(list); err != nil {
			errs <- err
		}
	}
}

// registerFoxGame sets up routes so that:
//   - /ws              → websocket for all rooms
//   - /topics          → JSON list of word packs
//   - /room/:code      → HTML client, joined to that room
//   - /room/:code/qr   → PNG QR code for that room URL
func registerFoxGame(ctx context.Context, cfg *Config, errs chan<- error, mux *httprouter.Router) {
	c := newCoordinator(cfg, newMemoryStore())
	go c.run(ctx)

	mux.GET(cfg.prefix+"/ws", serveWS(cfg, c))
	mux.GET(cfg.prefix+"/topics", serveTopics(cfg, errs))
	mux.GET(cfg.prefix+"/room/:code", serveHomePage(cfg))
	mux.GET(cfg.prefix+"/room/:code/qr", serveQR(cfg))
}
