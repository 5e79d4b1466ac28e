/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
)

type target int

const (
	toSender target = iota
	toPlayer
	toRoom
)

// envelope is one outbound event. Handlers return them in delivery order
// and the coordinator sends them after the state change is complete.
type envelope struct {
	target  target
	room    *Room
	player  string // recipient for toPlayer, excluded player for toRoom
	payload any
}

func reply(payload any) envelope {
	return envelope{target: toSender, payload: payload}
}

func replyError(err error) envelope {
	return reply(errorMessage{Type: evError, Message: err.Error()})
}

func sendTo(r *Room, playerID string, payload any) envelope {
	return envelope{target: toPlayer, room: r, player: playerID, payload: payload}
}

func broadcast(r *Room, payload any, exclude string) envelope {
	return envelope{target: toRoom, room: r, player: exclude, payload: payload}
}

// deliver serializes each envelope once and pushes it to every live
// recipient. Players without a connection simply miss the event; they are
// caught up by FULL_SYNC when they rejoin.
func (c *Coordinator) deliver(sender *Client, envs []envelope) {
	for _, e := range envs {
		data, err := json.Marshal(e.payload)
		if err != nil {
			c.log.Error().Err(err).Msg("SEND: Unable to encode message")
			continue
		}

		switch e.target {
		case toSender:
			c.push(sender, data)
		case toPlayer:
			if p, ok := e.room.players[e.player]; ok {
				c.push(p.client, data)
			}
		case toRoom:
			for _, id := range e.room.order {
				if id == e.player {
					continue
				}
				c.push(e.room.players[id].client, data)
			}
		}
	}
}

// push never blocks the coordinator. A client whose buffer is full is cut
// off; its read pump then reports the disconnect like any other drop.
func (c *Coordinator) push(cl *Client, data []byte) {
	if cl == nil || cl.closed {
		return
	}

	select {
	case cl.send <- data:
	default:
		c.log.Warn().Str("player", cl.playerID).Msg("SEND: Outbound buffer full, closing connection")
		cl.close()
	}
}
