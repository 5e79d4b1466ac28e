/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	minPlayers        = 3
	defaultMaxPlayers = 6
	maxNameLength     = 20
	noHint            = "(no hint)"
)

// Player holds the data we store server-side. A disconnected player keeps
// their name, score, hint and vote; only client is cleared.
type Player struct {
	id        string
	name      string
	connected bool
	client    *Client
}

// RoomSettings are the creator's choices for a new room.
type RoomSettings struct {
	Name          string
	IsPublic      bool
	MaxPlayers    int
	TimerDuration int
}

// roomRules are server-wide options copied into each room at creation.
type roomRules struct {
	roleReveal  bool
	hintsReveal bool
	intn        func(n int) int
}

// Room is the authoritative state of one game. It is only ever touched by
// the coordinator goroutine.
type Room struct {
	code   string
	name   string
	hostID string
	phase  Phase

	players map[string]*Player
	order   []string // player ids in join order

	topic        string
	words        []string
	secretWord   string
	foxID        string
	peekPlayerID string
	escapeGuess  string

	hints     map[string]string
	votes     map[string]string
	voteOrder []string // voters in first-vote order
	scores    map[string]int

	timerDuration int
	isPublic      bool
	maxPlayers    int

	roundNumber      int
	lastResult       string
	lastFinders      []string
	lastScoreChanges map[string]int

	rules     roomRules
	idleGen   int
	createdAt time.Time
}

func newRoom(code string, host *Player, s RoomSettings) *Room {
	name := strings.TrimSpace(s.Name)
	if name == "" {
		name = fmt.Sprintf("%s's Room", host.name)
	}

	r := &Room{
		code:          code,
		name:          name,
		hostID:        host.id,
		phase:         PhaseLobby,
		players:       make(map[string]*Player),
		hints:         make(map[string]string),
		votes:         make(map[string]string),
		scores:        make(map[string]int),
		timerDuration: s.TimerDuration,
		isPublic:      s.IsPublic,
		maxPlayers:    clampMaxPlayers(s.MaxPlayers),
		createdAt:     time.Now(),
	}
	r.addPlayer(host)

	return r
}

// clampMaxPlayers treats zero as "unset" and bounds everything else to 3..6.
func clampMaxPlayers(n int) int {
	switch {
	case n == 0:
		return defaultMaxPlayers
	case n < minPlayers:
		return minPlayers
	case n > defaultMaxPlayers:
		return defaultMaxPlayers
	default:
		return n
	}
}

func (r *Room) addPlayer(p *Player) {
	r.players[p.id] = p
	r.order = append(r.order, p.id)
	r.scores[p.id] = 0
}

// removePlayer erases every trace of a player from the room.
func (r *Room) removePlayer(id string) {
	delete(r.players, id)
	delete(r.scores, id)
	delete(r.hints, id)
	delete(r.votes, id)
	r.order = without(r.order, id)
	r.voteOrder = without(r.voteOrder, id)
}

func without(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

func (r *Room) playerName(id string) string {
	if p, ok := r.players[id]; ok {
		return p.name
	}
	return ""
}

func (r *Room) connectedCount() int {
	n := 0
	for _, p := range r.players {
		if p.connected {
			n++
		}
	}
	return n
}

func (r *Room) nameTaken(name, except string) bool {
	for id, p := range r.players {
		if id != except && strings.EqualFold(p.name, name) {
			return true
		}
	}
	return false
}

// uniqueName resolves collisions as "Name", "Name 2", "Name 3", ...
func (r *Room) uniqueName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = fmt.Sprintf("Player %d", len(r.players)+1)
	}

	candidate := name
	for suffix := 2; r.nameTaken(candidate, ""); suffix++ {
		candidate = fmt.Sprintf("%s %d", name, suffix)
	}

	return candidate
}

func validName(name string) bool {
	n := utf8.RuneCountInString(name)
	return n >= 1 && n <= maxNameLength
}

func (r *Room) roster() []playerView {
	views := make([]playerView, 0, len(r.order))
	for _, id := range r.order {
		p := r.players[id]
		_, hasHint := r.hints[id]
		_, hasVoted := r.votes[id]
		views = append(views, playerView{
			ID:        id,
			Name:      p.name,
			Connected: p.connected,
			IsHost:    id == r.hostID,
			HasHint:   hasHint,
			HasVoted:  hasVoted,
			Score:     r.scores[id],
		})
	}
	return views
}

// hintList lists a hint for every current player, in join order.
func (r *Room) hintList() []hintView {
	hints := make([]hintView, 0, len(r.order))
	for _, id := range r.order {
		hint, ok := r.hints[id]
		if !ok {
			hint = noHint
		}
		hints = append(hints, hintView{
			PlayerID:   id,
			PlayerName: r.players[id].name,
			Hint:       hint,
		})
	}
	return hints
}

func (r *Room) describe() publicRoom {
	return publicRoom{
		RoomCode:    r.code,
		RoomName:    r.name,
		PlayerCount: len(r.players),
		MaxPlayers:  r.maxPlayers,
	}
}

func (r *Room) context(typ, playerID string) roomContextMessage {
	return roomContextMessage{
		Type:          typ,
		RoomCode:      r.code,
		RoomName:      r.name,
		PlayerID:      playerID,
		HostID:        r.hostID,
		Players:       r.roster(),
		TimerDuration: r.timerDuration,
		IsPublic:      r.isPublic,
		MaxPlayers:    r.maxPlayers,
	}
}

// snapshot is the FULL_SYNC payload for one player. The secret word is
// hidden from the fox until results, and only the fox learns who they peek.
func (r *Room) snapshot(playerID string) syncData {
	isFox := r.foxID != "" && playerID == r.foxID

	data := syncData{
		RoomCode:      r.code,
		RoomName:      r.name,
		HostID:        r.hostID,
		PlayerID:      playerID,
		Phase:         r.phase,
		Players:       r.roster(),
		TimerDuration: r.timerDuration,
		IsPublic:      r.isPublic,
		MaxPlayers:    r.maxPlayers,
		Topic:         optional(r.topic),
		Words:         r.words,
		IsFox:         isFox,
		Hints:         make([]hintView, 0, len(r.hints)),
		Votes:         make([]voteView, 0, len(r.votes)),
		RoundNumber:   r.roundNumber,
		LastResult:    optional(r.lastResult),
		LastFinders:   r.lastFinders,
		EscapeGuess:   optional(r.escapeGuess),
	}

	// Everyone learns who the fox is once the vote has caught them.
	if isFox || r.phase == PhaseEscape || r.phase == PhaseResults {
		data.FoxID = optional(r.foxID)
	}

	if r.phase == PhaseResults || !isFox {
		data.SecretWord = optional(r.secretWord)
	}

	if isFox {
		data.PeekPlayerID = optional(r.peekPlayerID)
		data.PeekPlayerName = optional(r.playerName(r.peekPlayerID))
	}

	// While hints are being written only counts are public, so a
	// reconnecting player gets back their own hint and nobody else's.
	for _, id := range r.order {
		if r.phase == PhaseHintWriting && id != playerID {
			continue
		}
		if hint, ok := r.hints[id]; ok {
			data.Hints = append(data.Hints, hintView{PlayerID: id, PlayerName: r.players[id].name, Hint: hint})
		}
	}

	for _, id := range r.voteOrder {
		if target, ok := r.votes[id]; ok {
			data.Votes = append(data.Votes, voteView{PlayerID: id, TargetID: target})
		}
	}

	data.LastScoreChanges = make([]scoreChangeView, 0, len(r.lastScoreChanges))
	for _, id := range r.order {
		if change, ok := r.lastScoreChanges[id]; ok {
			data.LastScoreChanges = append(data.LastScoreChanges, scoreChangeView{PlayerID: id, Change: change})
		}
	}

	return data
}
