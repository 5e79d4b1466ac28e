/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"math/rand/v2"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// sweepRequest asks the coordinator to delete an idle room. It only
// succeeds if the room has not changed hands or regained a connection.
type sweepRequest struct {
	room *Room
	gen  int
}

// inbound is one frame from a connection. A nil data marks the
// connection as gone.
type inbound struct {
	client *Client
	data   []byte
}

// Coordinator owns the room store and every room in it. All state changes
// happen on the goroutine running run, one inbound message at a time.
type Coordinator struct {
	rooms        RoomStore
	log          zerolog.Logger
	rules        roomRules
	grace        time.Duration
	defaultTimer int
	handlers     map[string]handlerFunc

	newID    func() string
	schedule func(d time.Duration, req sweepRequest)

	clients  map[*Client]struct{}
	register chan *Client
	inbox    chan inbound
	sweeps   chan sweepRequest
	done     chan struct{}
}

func newCoordinator(cfg *Config, rooms RoomStore) *Coordinator {
	c := &Coordinator{
		rooms: rooms,
		log:   cfg.logger,
		rules: roomRules{
			roleReveal:  cfg.roleReveal,
			hintsReveal: cfg.hintsReveal,
			intn:        rand.IntN,
		},
		grace:        cfg.roomGrace,
		defaultTimer: cfg.defaultTimer,
		newID:        uuid.NewString,
		clients:      make(map[*Client]struct{}),
		register:     make(chan *Client),
		inbox:        make(chan inbound, 256),
		sweeps:       make(chan sweepRequest, 16),
		done:         make(chan struct{}),
	}
	c.schedule = c.afterGrace
	c.handlers = c.actions()

	return c
}

func (c *Coordinator) afterGrace(d time.Duration, req sweepRequest) {
	time.AfterFunc(d, func() {
		select {
		case c.sweeps <- req:
		case <-c.done:
		}
	})
}

func (c *Coordinator) session(cl *Client) (*Room, *Player, bool) {
	if cl == nil || cl.playerID == "" {
		return nil, nil, false
	}

	r, ok := c.rooms.Lookup(cl.roomCode)
	if !ok {
		return nil, nil, false
	}

	p, ok := r.players[cl.playerID]
	if !ok {
		return nil, nil, false
	}

	return r, p, true
}

func (c *Coordinator) bind(cl *Client, r *Room, p *Player) {
	p.client = cl
	p.connected = true
	cl.roomCode = r.code
	cl.playerID = p.id
}

// release detaches a connection from whatever player it currently speaks
// for, before it is bound to another one.
func (c *Coordinator) release(cl *Client) {
	if cl.playerID != "" {
		c.disconnect(cl)
	}
}

func (c *Coordinator) createRoom(cl *Client, msg clientMessage) ([]envelope, error) {
	name := strings.TrimSpace(msg.PlayerName)
	if name == "" {
		name = "Player 1"
	}

	host := &Player{id: c.newID(), name: name}

	r, err := c.rooms.Create(host, RoomSettings{
		Name:          msg.RoomName,
		IsPublic:      msg.IsPublic,
		MaxPlayers:    msg.MaxPlayers.n,
		TimerDuration: c.defaultTimer,
	})
	if err != nil {
		c.log.Error().Err(err).Int("rooms", c.rooms.Len()).Msg("GAMES: Unable to allocate a room code")
		return nil, errCodeSpaceExhausted
	}
	r.rules = c.rules

	c.release(cl)
	c.bind(cl, r, host)

	c.log.Info().Msgf("GAMES: Room %s (%q) created by %q", r.code, r.name, host.name)

	return []envelope{reply(r.context(evRoomCreated, host.id))}, nil
}

func (c *Coordinator) publicRooms(_ *Client, _ clientMessage) ([]envelope, error) {
	return []envelope{reply(publicRoomsMessage{
		Type:  evPublicRoomsList,
		Rooms: c.rooms.PublicLobbies(),
	})}, nil
}

func (c *Coordinator) joinRoom(cl *Client, msg clientMessage) ([]envelope, error) {
	r, ok := c.rooms.Lookup(msg.RoomCode)
	if !ok {
		return nil, errRoomNotFound
	}
	if r.phase != PhaseLobby {
		return nil, errGameInProgress
	}
	if len(r.players) >= r.maxPlayers {
		return nil, errRoomFull
	}

	c.release(cl)

	p := &Player{id: c.newID(), name: r.uniqueName(msg.PlayerName)}
	r.addPlayer(p)
	c.bind(cl, r, p)

	c.log.Info().Msgf("GAMES: Player %q joined %s", p.name, r.code)

	return []envelope{
		reply(r.context(evRoomJoined, p.id)),
		broadcast(r, playerEventMessage{
			Type:       evPlayerJoined,
			PlayerID:   p.id,
			PlayerName: p.name,
			Players:    r.roster(),
		}, p.id),
	}, nil
}

// rejoinRoom reattaches a returning connection to its player and sends a
// full snapshot, since the client may have lost everything in the drop.
func (c *Coordinator) rejoinRoom(cl *Client, msg clientMessage) ([]envelope, error) {
	r, ok := c.rooms.Lookup(msg.RoomCode)
	if !ok {
		return nil, errRoomNotFound
	}

	p, ok := r.players[msg.PlayerID]
	if !ok {
		return nil, errSessionExpired
	}

	if p.client != cl {
		c.release(cl)

		// Newest connection wins; the stale one is cut loose without
		// marking the player disconnected.
		if old := p.client; old != nil {
			old.playerID, old.roomCode = "", ""
			old.close()
		}

		c.bind(cl, r, p)
	}

	c.log.Info().Msgf("GAMES: Player %q rejoined %s", p.name, r.code)

	return []envelope{
		reply(fullSyncMessage{Type: evFullSync, Data: r.snapshot(p.id)}),
		broadcast(r, rosterMessage{Type: evPlayerUpdated, Players: r.roster()}, p.id),
	}, nil
}

func (c *Coordinator) rename(cl *Client, msg clientMessage) ([]envelope, error) {
	r, p, ok := c.session(cl)
	if !ok || (r.phase != PhaseLobby && r.phase != PhaseResults) {
		return nil, nil
	}

	name := strings.TrimSpace(msg.NewName)
	if !validName(name) {
		return nil, errInvalidName
	}
	if r.nameTaken(name, p.id) {
		return nil, errNameTaken
	}

	c.log.Info().Msgf("GAMES: Player %q renamed to %q in %s", p.name, name, r.code)
	p.name = name

	return []envelope{broadcast(r, rosterMessage{Type: evPlayerUpdated, Players: r.roster()}, "")}, nil
}

// disconnect handles a dropped transport. The player keeps everything,
// including host rights, until they rejoin or the room is swept.
func (c *Coordinator) disconnect(cl *Client) {
	r, p, ok := c.session(cl)
	cl.playerID, cl.roomCode = "", ""
	if !ok || p.client != cl {
		return
	}

	p.client = nil
	p.connected = false

	c.log.Info().Msgf("GAMES: Player %q disconnected from %s", p.name, r.code)

	envs := []envelope{broadcast(r, playerEventMessage{
		Type:       evPlayerDisconnected,
		PlayerID:   p.id,
		PlayerName: p.name,
		Players:    r.roster(),
	}, "")}

	c.scheduleIfIdle(r)
	c.deliver(nil, envs)
}

// drop forgets a connection whose read side has ended.
func (c *Coordinator) drop(cl *Client) {
	delete(c.clients, cl)
	c.disconnect(cl)
	cl.close()
}

func (c *Coordinator) scheduleIfIdle(r *Room) {
	if r.connectedCount() > 0 {
		return
	}
	r.idleGen++
	c.schedule(c.grace, sweepRequest{room: r, gen: r.idleGen})
}

// sweep deletes a room whose grace period ran out with nobody back.
func (c *Coordinator) sweep(req sweepRequest) {
	r, ok := c.rooms.Lookup(req.room.code)
	if !ok || r != req.room || r.idleGen != req.gen || r.connectedCount() > 0 {
		return
	}

	c.rooms.Delete(r.code)

	c.log.Info().Dur("age", time.Since(r.createdAt).Round(time.Second)).Msgf("GAMES: Room %s deleted (no players returned)", r.code)
}

// leaveGame removes the player for good. An empty room goes immediately;
// otherwise a departing host hands over to the earliest joiner left.
func (c *Coordinator) leaveGame(cl *Client, _ clientMessage) ([]envelope, error) {
	r, p, ok := c.session(cl)
	if !ok {
		return nil, nil
	}

	cl.playerID, cl.roomCode = "", ""
	p.client = nil
	p.connected = false
	r.removePlayer(p.id)

	c.log.Info().Msgf("GAMES: Player %q left %s", p.name, r.code)

	if len(r.players) == 0 {
		c.rooms.Delete(r.code)
		c.log.Info().Msgf("GAMES: Room %s deleted (empty)", r.code)
		return nil, nil
	}

	var newHostID *string
	if p.id == r.hostID {
		r.hostID = r.order[0]
		newHostID = optional(r.hostID)
		c.log.Info().Msgf("GAMES: Host of %s delegated to %q", r.code, r.playerName(r.hostID))
	}

	envs := []envelope{broadcast(r, playerLeftMessage{
		Type:         evPlayerLeft,
		LeftPlayerID: p.id,
		Players:      r.roster(),
		NewHostID:    newHostID,
	}, "")}
	envs = append(envs, r.afterDeparture(p.id)...)

	c.scheduleIfIdle(r)

	return envs, nil
}
