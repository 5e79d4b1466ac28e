/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"slices"
)

type handlerFunc func(cl *Client, msg clientMessage) ([]envelope, error)

// roomAction is an in-room action by an already bound player.
type roomAction func(r *Room, playerID string, msg clientMessage) ([]envelope, error)

func (c *Coordinator) actions() map[string]handlerFunc {
	return map[string]handlerFunc{
		msgCreateRoom:     c.createRoom,
		msgGetPublicRooms: c.publicRooms,
		msgJoinRoom:       c.joinRoom,
		msgRejoinRoom:     c.rejoinRoom,
		msgUpdateName:     c.rename,
		msgLeaveGame:      c.leaveGame,
		msgPing:           pong,

		msgSetTimer: c.inRoom(hostOnly(func(r *Room, _ string, msg clientMessage) ([]envelope, error) {
			return r.setTimer(msg.Duration)
		})),
		msgStartGame: c.inRoom(during(hostOnly(func(r *Room, _ string, msg clientMessage) ([]envelope, error) {
			return r.startGame(msg.Topic)
		}), PhaseLobby)),
		msgReadyForHints: c.inRoom(during(hostOnly(func(r *Room, _ string, _ clientMessage) ([]envelope, error) {
			return r.beginHintWriting(), nil
		}), PhaseRoleReveal)),
		msgHintTyping: c.inRoom(func(r *Room, playerID string, msg clientMessage) ([]envelope, error) {
			return r.hintTyping(playerID, msg.Hint), nil
		}),
		msgSubmitHint: c.inRoom(func(r *Room, playerID string, msg clientMessage) ([]envelope, error) {
			return r.submitHint(playerID, msg.Hint), nil
		}),
		msgStartVoting: c.inRoom(during(hostOnly(func(r *Room, _ string, _ clientMessage) ([]envelope, error) {
			return r.startVoting(), nil
		}), PhaseHintsReveal)),
		msgSubmitVote: c.inRoom(func(r *Room, playerID string, msg clientMessage) ([]envelope, error) {
			return r.submitVote(playerID, msg.TargetID)
		}),
		msgEscapeGuess: c.inRoom(during(foxOnly(func(r *Room, _ string, msg clientMessage) ([]envelope, error) {
			return r.attemptEscape(msg.Word), nil
		}), PhaseEscape)),
		msgPlayAgain: c.inRoom(during(hostOnly(func(r *Room, _ string, _ clientMessage) ([]envelope, error) {
			return r.returnToLobby(), nil
		}), PhaseRoleReveal, PhaseHintWriting, PhaseHintsReveal, PhaseVoting, PhaseEscape, PhaseResults)),
	}
}

// inRoom resolves the sender's room. Connections not bound to a player are
// ignored.
func (c *Coordinator) inRoom(action roomAction) handlerFunc {
	return func(cl *Client, msg clientMessage) ([]envelope, error) {
		r, p, ok := c.session(cl)
		if !ok {
			c.log.Debug().Str("type", msg.Type).Msg("HANDLE: Ignoring action from unbound connection")
			return nil, nil
		}
		return action(r, p.id, msg)
	}
}

// during drops an action silently unless the room is in one of phases.
// It wraps the role checks so an out-of-phase action never earns an ERROR.
func during(action roomAction, phases ...Phase) roomAction {
	return func(r *Room, playerID string, msg clientMessage) ([]envelope, error) {
		if !slices.Contains(phases, r.phase) {
			return nil, nil
		}
		return action(r, playerID, msg)
	}
}

func hostOnly(action roomAction) roomAction {
	return func(r *Room, playerID string, msg clientMessage) ([]envelope, error) {
		if playerID != r.hostID {
			return nil, errNotHost
		}
		return action(r, playerID, msg)
	}
}

func foxOnly(action roomAction) roomAction {
	return func(r *Room, playerID string, msg clientMessage) ([]envelope, error) {
		if r.foxID == "" || playerID != r.foxID {
			return nil, errNotFox
		}
		return action(r, playerID, msg)
	}
}

func pong(_ *Client, _ clientMessage) ([]envelope, error) {
	return []envelope{reply(pongMessage{Type: evPong})}, nil
}

// handle processes one inbound frame to completion, including delivery of
// everything it produced. Nothing a client sends can take the loop down.
func (c *Coordinator) handle(cl *Client, data []byte) {
	defer func() {
		if rec := recover(); rec != nil {
			c.log.Error().Interface("panic", rec).Msg("HANDLE: Recovered from panic")
		}
	}()

	if cl.closed {
		c.log.Debug().Msg("HANDLE: Dropping message from closed connection")
		return
	}

	var msg clientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.log.Warn().Err(err).Msg("HANDLE: Dropping malformed message")
		return
	}

	h, ok := c.handlers[msg.Type]
	if !ok {
		c.log.Warn().Str("type", msg.Type).Msg("HANDLE: Dropping unknown message type")
		return
	}

	envs, err := h(cl, msg)
	if err != nil {
		c.log.Info().Str("type", msg.Type).Str("player", cl.playerID).Msgf("HANDLE: Rejected: %v", err)
		c.deliver(cl, []envelope{replyError(err)})
		return
	}

	c.deliver(cl, envs)
}
