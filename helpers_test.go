/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

var testNames = []string{"Alice", "Bob", "Carol", "Dave", "Erin", "Frank"}

// seq returns an intn that replays picks in order, then keeps returning 0.
func seq(picks ...int) func(int) int {
	return func(n int) int {
		if len(picks) == 0 {
			return 0
		}
		v := picks[0]
		picks = picks[1:]
		return v % n
	}
}

func newTestRoom(t *testing.T, n int, rules roomRules) *Room {
	t.Helper()

	host := &Player{id: "p1", name: testNames[0], connected: true}
	r := newRoom("ABCD", host, RoomSettings{TimerDuration: 15})
	for i := 2; i <= n; i++ {
		r.addPlayer(&Player{id: fmt.Sprintf("p%d", i), name: testNames[i-1], connected: true})
	}
	if rules.intn == nil {
		rules.intn = seq()
	}
	r.rules = rules

	return r
}

type harness struct {
	t      *testing.T
	c      *Coordinator
	sweeps []sweepRequest
}

func newHarness(t *testing.T, opts ...func(*Config)) *harness {
	t.Helper()

	cfg := &Config{
		defaultTimer: 15,
		roomGrace:    time.Minute,
		logger:       zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	h := &harness{t: t}
	h.c = newCoordinator(cfg, newMemoryStore())
	h.c.rules.intn = seq()

	ids := 0
	h.c.newID = func() string {
		ids++
		return fmt.Sprintf("p%d", ids)
	}
	h.c.schedule = func(_ time.Duration, req sweepRequest) {
		h.sweeps = append(h.sweeps, req)
	}

	return h
}

func newTestClient() *Client {
	return &Client{send: make(chan []byte, 256)}
}

func (h *harness) send(cl *Client, msg map[string]any) {
	h.t.Helper()

	data, err := json.Marshal(msg)
	require.NoError(h.t, err)

	h.c.handle(cl, data)
}

type received struct {
	typ string
	raw []byte
}

// drain empties a client's outbound buffer without blocking.
func drain(t *testing.T, cl *Client) []received {
	t.Helper()

	var out []received
	for {
		select {
		case data, ok := <-cl.send:
			if !ok {
				return out
			}
			var head struct {
				Type string `json:"type"`
			}
			require.NoError(t, json.Unmarshal(data, &head))
			out = append(out, received{typ: head.Type, raw: data})
		default:
			return out
		}
	}
}

func typesOf(msgs []received) []string {
	types := make([]string, 0, len(msgs))
	for _, m := range msgs {
		types = append(types, m.typ)
	}
	return types
}

// decode unmarshals the first message of type typ.
func decode[T any](t *testing.T, msgs []received, typ string) T {
	t.Helper()

	var v T
	for _, m := range msgs {
		if m.typ == typ {
			require.NoError(t, json.Unmarshal(m.raw, &v))
			return v
		}
	}
	require.Failf(t, "message not received", "no %s in %v", typ, typesOf(msgs))

	return v
}

func (h *harness) createRoom(name string, extra map[string]any) (*Client, roomContextMessage) {
	h.t.Helper()

	cl := newTestClient()
	msg := map[string]any{"type": msgCreateRoom, "playerName": name}
	for k, v := range extra {
		msg[k] = v
	}
	h.send(cl, msg)

	return cl, decode[roomContextMessage](h.t, drain(h.t, cl), evRoomCreated)
}

func (h *harness) join(code, name string) (*Client, roomContextMessage) {
	h.t.Helper()

	cl := newTestClient()
	h.send(cl, map[string]any{"type": msgJoinRoom, "roomCode": code, "playerName": name})

	return cl, decode[roomContextMessage](h.t, drain(h.t, cl), evRoomJoined)
}

// lobby creates a room with n players and empties every buffer.
func (h *harness) lobby(n int) (*Room, []*Client) {
	h.t.Helper()

	host, ctx := h.createRoom(testNames[0], nil)
	clients := []*Client{host}
	for i := 1; i < n; i++ {
		cl, _ := h.join(ctx.RoomCode, testNames[i])
		clients = append(clients, cl)
	}
	for _, cl := range clients {
		drain(h.t, cl)
	}

	r, ok := h.c.rooms.Lookup(ctx.RoomCode)
	require.True(h.t, ok)

	return r, clients
}

func drainAll(t *testing.T, clients []*Client) {
	t.Helper()
	for _, cl := range clients {
		drain(t, cl)
	}
}
