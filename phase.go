/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

// Phase is a room's position in the round cycle, as named on the wire.
type Phase string

const (
	PhaseLobby       Phase = "lobby"
	PhaseRoleReveal  Phase = "role_reveal"
	PhaseHintWriting Phase = "hint_writing"
	PhaseHintsReveal Phase = "hints_reveal"
	PhaseVoting      Phase = "voting"
	PhaseEscape      Phase = "escape"
	PhaseResults     Phase = "results"
)

func (p Phase) String() string {
	return string(p)
}

// inRound reports whether a fox has been dealt and the round is unresolved.
func (p Phase) inRound() bool {
	switch p {
	case PhaseRoleReveal, PhaseHintWriting, PhaseHintsReveal, PhaseVoting, PhaseEscape:
		return true
	default:
		return false
	}
}

// Round outcomes reported in GAME_OVER.
const (
	resultFoxWins    = "fox_wins"
	resultFoxEscapes = "fox_escapes"
	resultFoxCaught  = "fox_caught"
)
