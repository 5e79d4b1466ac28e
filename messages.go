/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"math"
	"strconv"
	"strings"
)

// Client → server message types.
const (
	msgCreateRoom     = "CREATE_ROOM"
	msgGetPublicRooms = "GET_PUBLIC_ROOMS"
	msgJoinRoom       = "JOIN_ROOM"
	msgRejoinRoom     = "REJOIN_ROOM"
	msgUpdateName     = "UPDATE_NAME"
	msgSetTimer       = "SET_TIMER"
	msgStartGame      = "START_GAME"
	msgReadyForHints  = "READY_FOR_HINTS"
	msgHintTyping     = "HINT_TYPING"
	msgSubmitHint     = "SUBMIT_HINT"
	msgStartVoting    = "START_VOTING"
	msgSubmitVote     = "SUBMIT_VOTE"
	msgEscapeGuess    = "ESCAPE_GUESS"
	msgPlayAgain      = "PLAY_AGAIN"
	msgLeaveGame      = "LEAVE_GAME"
	msgPing           = "PING"
)

// Server → client message types.
const (
	evRoomCreated        = "ROOM_CREATED"
	evRoomJoined         = "ROOM_JOINED"
	evPlayerJoined       = "PLAYER_JOINED"
	evPlayerDisconnected = "PLAYER_DISCONNECTED"
	evPlayerLeft         = "PLAYER_LEFT"
	evPlayerUpdated      = "PLAYER_UPDATED"
	evGameStarted        = "GAME_STARTED"
	evPhaseChange        = "PHASE_CHANGE"
	evHintSubmitted      = "HINT_SUBMITTED"
	evPeekHintUpdate     = "PEEK_HINT_UPDATE"
	evTimerUpdated       = "TIMER_UPDATED"
	evVoteSubmitted      = "VOTE_SUBMITTED"
	evFoxCaught          = "FOX_CAUGHT"
	evEscapePhase        = "ESCAPE_PHASE"
	evGameOver           = "GAME_OVER"
	evReturnToLobby      = "RETURN_TO_LOBBY"
	evPublicRoomsList    = "PUBLIC_ROOMS_LIST"
	evFullSync           = "FULL_SYNC"
	evError              = "ERROR"
	evPong               = "PONG"
)

// clientMessage is the union of every inbound message; only the fields
// relevant to Type are read.
type clientMessage struct {
	Type       string  `json:"type"`
	PlayerName string  `json:"playerName,omitempty"` // CREATE_ROOM, JOIN_ROOM
	IsPublic   bool    `json:"isPublic,omitempty"`   // CREATE_ROOM
	MaxPlayers flexInt `json:"maxPlayers"`           // CREATE_ROOM
	RoomName   string  `json:"roomName,omitempty"`   // CREATE_ROOM
	RoomCode   string  `json:"roomCode,omitempty"`   // JOIN_ROOM, REJOIN_ROOM
	PlayerID   string  `json:"playerId,omitempty"`   // REJOIN_ROOM
	NewName    string  `json:"newName,omitempty"`    // UPDATE_NAME
	Duration   flexInt `json:"duration"`             // SET_TIMER
	Topic      string  `json:"topic,omitempty"`      // START_GAME
	Hint       string  `json:"hint,omitempty"`       // HINT_TYPING, SUBMIT_HINT
	TargetID   string  `json:"targetId,omitempty"`   // SUBMIT_VOTE
	Word       string  `json:"word,omitempty"`       // ESCAPE_GUESS
}

// flexInt accepts a whole JSON number or a numeric string. Anything else,
// fractions and non-finite values included, leaves it unset rather than
// failing the whole message.
type flexInt struct {
	n  int
	ok bool
}

func (f *flexInt) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(strings.Trim(strings.TrimSpace(string(b)), `"`))
	if s == "" || s == "null" {
		return nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return nil
	}
	if v < math.MinInt32 || v > math.MaxInt32 {
		return nil
	}

	f.n, f.ok = int(v), true

	return nil
}

type playerView struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Connected bool   `json:"connected"`
	IsHost    bool   `json:"isHost"`
	HasHint   bool   `json:"hasHint"`
	HasVoted  bool   `json:"hasVoted"`
	Score     int    `json:"score"`
}

type hintView struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Hint       string `json:"hint"`
}

type voteView struct {
	PlayerID string `json:"playerId"`
	TargetID string `json:"targetId"`
}

type scoreChangeView struct {
	PlayerID string `json:"playerId"`
	Change   int    `json:"change"`
}

type scoreView struct {
	PlayerID   string `json:"playerId"`
	PlayerName string `json:"playerName"`
	Score      int    `json:"score"`
	Change     int    `json:"change"`
	IsFox      bool   `json:"isFox"`
}

type publicRoom struct {
	RoomCode    string `json:"roomCode"`
	RoomName    string `json:"roomName"`
	PlayerCount int    `json:"playerCount"`
	MaxPlayers  int    `json:"maxPlayers"`
}

// roomContextMessage answers CREATE_ROOM and JOIN_ROOM.
type roomContextMessage struct {
	Type          string       `json:"type"`
	RoomCode      string       `json:"roomCode"`
	RoomName      string       `json:"roomName"`
	PlayerID      string       `json:"playerId"`
	HostID        string       `json:"hostId"`
	Players       []playerView `json:"players"`
	TimerDuration int          `json:"timerDuration"`
	IsPublic      bool         `json:"isPublic"`
	MaxPlayers    int          `json:"maxPlayers"`
}

// playerEventMessage is PLAYER_JOINED and PLAYER_DISCONNECTED.
type playerEventMessage struct {
	Type       string       `json:"type"`
	PlayerID   string       `json:"playerId"`
	PlayerName string       `json:"playerName"`
	Players    []playerView `json:"players"`
}

type playerLeftMessage struct {
	Type         string       `json:"type"`
	LeftPlayerID string       `json:"leftPlayerId"`
	Players      []playerView `json:"players"`
	NewHostID    *string      `json:"newHostId"`
}

type rosterMessage struct {
	Type    string       `json:"type"`
	Players []playerView `json:"players"`
}

// phaseChangeMessage is PHASE_CHANGE and RETURN_TO_LOBBY.
type phaseChangeMessage struct {
	Type           string       `json:"type"`
	Phase          Phase        `json:"phase"`
	Players        []playerView `json:"players"`
	Hints          []hintView   `json:"hints,omitempty"`
	PeekPlayerID   *string      `json:"peekPlayerId,omitempty"`
	PeekPlayerName *string      `json:"peekPlayerName,omitempty"`
}

type gameStartedMessage struct {
	Type           string       `json:"type"`
	Phase          Phase        `json:"phase"`
	IsFox          bool         `json:"isFox"`
	Words          []string     `json:"words"`
	SecretWord     *string      `json:"secretWord"`
	Players        []playerView `json:"players"`
	Topic          string       `json:"topic"`
	PeekPlayerID   *string      `json:"peekPlayerId"`
	PeekPlayerName *string      `json:"peekPlayerName"`
	TimerDuration  int          `json:"timerDuration"`
}

type hintSubmittedMessage struct {
	Type         string       `json:"type"`
	PlayerID     string       `json:"playerId"`
	HintsCount   int          `json:"hintsCount"`
	TotalPlayers int          `json:"totalPlayers"`
	Players      []playerView `json:"players"`
}

type voteSubmittedMessage struct {
	Type         string       `json:"type"`
	VoterID      string       `json:"voterId"`
	VotesCount   int          `json:"votesCount"`
	TotalPlayers int          `json:"totalPlayers"`
	Players      []playerView `json:"players"`
}

type peekHintMessage struct {
	Type string `json:"type"`
	Hint string `json:"hint"`
}

type timerUpdatedMessage struct {
	Type     string `json:"type"`
	Duration int    `json:"duration"`
}

type foxCaughtMessage struct {
	Type    string `json:"type"`
	Phase   Phase  `json:"phase"`
	FoxName string `json:"foxName"`
	Message string `json:"message"`
}

type escapePhaseMessage struct {
	Type   string   `json:"type"`
	Phase  Phase    `json:"phase"`
	Words  []string `json:"words"`
	Caught bool     `json:"caught"`
}

type gameOverMessage struct {
	Type        string       `json:"type"`
	Phase       Phase        `json:"phase"`
	Result      string       `json:"result"`
	FoxID       string       `json:"foxId"`
	FoxName     string       `json:"foxName"`
	SecretWord  string       `json:"secretWord"`
	EscapeGuess *string      `json:"escapeGuess"`
	Finders     []string     `json:"finders"`
	Scores      []scoreView  `json:"scores"`
	Players     []playerView `json:"players"`
}

type publicRoomsMessage struct {
	Type  string       `json:"type"`
	Rooms []publicRoom `json:"rooms"`
}

// syncData is everything a reconnecting client needs to rebuild its view
// of the room, filtered by the same visibility rules as the deal itself.
type syncData struct {
	RoomCode         string            `json:"roomCode"`
	RoomName         string            `json:"roomName"`
	HostID           string            `json:"hostId"`
	PlayerID         string            `json:"playerId"`
	Phase            Phase             `json:"phase"`
	Players          []playerView      `json:"players"`
	TimerDuration    int               `json:"timerDuration"`
	IsPublic         bool              `json:"isPublic"`
	MaxPlayers       int               `json:"maxPlayers"`
	Topic            *string           `json:"topic"`
	Words            []string          `json:"words"`
	SecretWord       *string           `json:"secretWord"`
	IsFox            bool              `json:"isFox"`
	Hints            []hintView        `json:"hints"`
	Votes            []voteView        `json:"votes"`
	RoundNumber      int               `json:"roundNumber"`
	LastResult       *string           `json:"lastResult"`
	LastFinders      []string          `json:"lastFinders"`
	LastScoreChanges []scoreChangeView `json:"lastScoreChanges"`
	FoxID            *string           `json:"foxId"`
	PeekPlayerID     *string           `json:"peekPlayerId"`
	PeekPlayerName   *string           `json:"peekPlayerName"`
	EscapeGuess      *string           `json:"escapeGuess"`
}

type fullSyncMessage struct {
	Type string   `json:"type"`
	Data syncData `json:"data"`
}

type errorMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type pongMessage struct {
	Type string `json:"type"`
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
