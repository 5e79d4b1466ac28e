/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"math/rand/v2"
	"sort"
	"strings"
)

const foxCaughtText = "Fox was caught! Waiting for escape attempt..."

func (r *Room) pick(n int) int {
	if r.rules.intn == nil {
		return rand.IntN(n)
	}
	return r.rules.intn(n)
}

// startGame deals a new round: the topic's words, a secret word, a fox and
// the player whose typing the fox may watch. Each player gets their own
// GAME_STARTED; only non-foxes see the word and only the fox sees the peek.
func (r *Room) startGame(topic string) ([]envelope, error) {
	if r.phase != PhaseLobby {
		return nil, nil
	}
	if len(r.players) < minPlayers {
		return nil, errNotEnoughPlayers
	}
	pack, ok := lookupPack(topic)
	if !ok {
		return nil, errUnknownTopic
	}

	r.topic = topic
	r.words = append([]string(nil), pack.Words...)
	r.secretWord = r.words[r.pick(len(r.words))]
	r.hints = make(map[string]string)
	r.votes = make(map[string]string)
	r.voteOrder = nil
	r.escapeGuess = ""
	r.roundNumber++

	r.foxID = r.order[r.pick(len(r.order))]

	nonFox := make([]string, 0, len(r.order)-1)
	for _, id := range r.order {
		if id != r.foxID {
			nonFox = append(nonFox, id)
		}
	}
	r.peekPlayerID = nonFox[r.pick(len(nonFox))]

	r.phase = PhaseHintWriting
	if r.rules.roleReveal {
		r.phase = PhaseRoleReveal
	}

	players := r.roster()
	envs := make([]envelope, 0, len(r.order))
	for _, id := range r.order {
		msg := gameStartedMessage{
			Type:          evGameStarted,
			Phase:         r.phase,
			IsFox:         id == r.foxID,
			Words:         r.words,
			Players:       players,
			Topic:         r.topic,
			TimerDuration: r.timerDuration,
		}
		if msg.IsFox {
			msg.PeekPlayerID = optional(r.peekPlayerID)
			msg.PeekPlayerName = optional(r.playerName(r.peekPlayerID))
		} else {
			msg.SecretWord = optional(r.secretWord)
		}
		envs = append(envs, sendTo(r, id, msg))
	}

	return envs, nil
}

// beginHintWriting leaves the role reveal screen.
func (r *Room) beginHintWriting() []envelope {
	if r.phase != PhaseRoleReveal {
		return nil
	}

	r.phase = PhaseHintWriting
	players := r.roster()

	return []envelope{
		sendTo(r, r.foxID, phaseChangeMessage{
			Type:           evPhaseChange,
			Phase:          r.phase,
			Players:        players,
			PeekPlayerID:   optional(r.peekPlayerID),
			PeekPlayerName: optional(r.playerName(r.peekPlayerID)),
		}),
		broadcast(r, phaseChangeMessage{
			Type:    evPhaseChange,
			Phase:   r.phase,
			Players: players,
		}, r.foxID),
	}
}

// hintTyping forwards the peeked player's draft to the fox. Nothing is
// stored; a fox who reconnects waits for the next keystroke.
func (r *Room) hintTyping(playerID, hint string) []envelope {
	if r.phase != PhaseHintWriting || r.peekPlayerID == "" || playerID != r.peekPlayerID {
		return nil
	}
	return []envelope{sendTo(r, r.foxID, peekHintMessage{Type: evPeekHintUpdate, Hint: hint})}
}

func (r *Room) submitHint(playerID, hint string) []envelope {
	if r.phase != PhaseHintWriting {
		return nil
	}

	text := strings.TrimSpace(hint)
	if text == "" {
		text = noHint
	}
	r.hints[playerID] = text

	envs := []envelope{broadcast(r, hintSubmittedMessage{
		Type:         evHintSubmitted,
		PlayerID:     playerID,
		HintsCount:   len(r.hints),
		TotalPlayers: len(r.players),
		Players:      r.roster(),
	}, "")}

	return append(envs, r.checkHints()...)
}

func (r *Room) hintsComplete() bool {
	if len(r.order) == 0 {
		return false
	}
	for _, id := range r.order {
		if _, ok := r.hints[id]; !ok {
			return false
		}
	}
	return true
}

// checkHints advances once every current player has a hint in.
func (r *Room) checkHints() []envelope {
	if r.phase != PhaseHintWriting || !r.hintsComplete() {
		return nil
	}

	if r.rules.hintsReveal {
		r.phase = PhaseHintsReveal
		return []envelope{broadcast(r, phaseChangeMessage{
			Type:    evPhaseChange,
			Phase:   r.phase,
			Players: r.roster(),
			Hints:   r.hintList(),
		}, "")}
	}

	return r.startVoting()
}

func (r *Room) startVoting() []envelope {
	r.phase = PhaseVoting
	r.votes = make(map[string]string)
	r.voteOrder = nil

	return []envelope{broadcast(r, phaseChangeMessage{
		Type:    evPhaseChange,
		Phase:   r.phase,
		Players: r.roster(),
		Hints:   r.hintList(),
	}, "")}
}

func (r *Room) submitVote(voterID, targetID string) ([]envelope, error) {
	if r.phase != PhaseVoting {
		return nil, nil
	}
	if _, ok := r.players[targetID]; !ok || targetID == voterID {
		return nil, errInvalidVote
	}

	if _, voted := r.votes[voterID]; !voted {
		r.voteOrder = append(r.voteOrder, voterID)
	}
	r.votes[voterID] = targetID

	envs := []envelope{broadcast(r, voteSubmittedMessage{
		Type:         evVoteSubmitted,
		VoterID:      voterID,
		VotesCount:   len(r.votes),
		TotalPlayers: len(r.players),
		Players:      r.roster(),
	}, "")}

	return append(envs, r.checkVotes()...), nil
}

func (r *Room) votesComplete() bool {
	if len(r.order) == 0 {
		return false
	}
	for _, id := range r.order {
		if _, ok := r.votes[id]; !ok {
			return false
		}
	}
	return true
}

func (r *Room) checkVotes() []envelope {
	if r.phase != PhaseVoting || !r.votesComplete() {
		return nil
	}
	return r.resolveVotes()
}

// consensus is a strict majority: a tie or a plurality does not catch the fox.
func consensus(foxVotes, totalVotes int) bool {
	return foxVotes*2 > totalVotes
}

// finders are the voters who named the fox, in the order they first voted.
func (r *Room) finders() []string {
	var ids []string
	for _, voter := range r.voteOrder {
		if r.votes[voter] == r.foxID {
			ids = append(ids, voter)
		}
	}
	return ids
}

func (r *Room) resolveVotes() []envelope {
	foxVotes := 0
	for _, suspect := range r.votes {
		if suspect == r.foxID {
			foxVotes++
		}
	}
	finders := r.finders()

	if !consensus(foxVotes, len(r.votes)) {
		changes := r.applyScores(false, false, finders)
		return r.showResults(resultFoxWins, changes, finders)
	}

	r.phase = PhaseEscape

	return []envelope{
		sendTo(r, r.foxID, escapePhaseMessage{
			Type:   evEscapePhase,
			Phase:  r.phase,
			Words:  r.words,
			Caught: true,
		}),
		broadcast(r, foxCaughtMessage{
			Type:    evFoxCaught,
			Phase:   r.phase,
			FoxName: r.playerName(r.foxID),
			Message: foxCaughtText,
		}, r.foxID),
	}
}

// attemptEscape is the caught fox's single guess at the secret word.
func (r *Room) attemptEscape(guess string) []envelope {
	if r.phase != PhaseEscape {
		return nil
	}

	r.escapeGuess = guess
	escaped := guess == r.secretWord
	finders := r.finders()
	changes := r.applyScores(true, escaped, finders)

	result := resultFoxCaught
	if escaped {
		result = resultFoxEscapes
	}

	return r.showResults(result, changes, finders)
}

// scoreRound returns every player's delta for one resolved round.
//
//   - fox not caught: fox +3, and a lone finder +2
//   - caught but escaped: fox +2
//   - caught for good: every other player +1
func scoreRound(players []string, foxID string, finders []string, caught, escaped bool) map[string]int {
	changes := make(map[string]int, len(players))
	for _, id := range players {
		changes[id] = 0
	}

	switch {
	case !caught:
		changes[foxID] = 3
		if len(finders) == 1 {
			changes[finders[0]] = 2
		}
	case escaped:
		changes[foxID] = 2
	default:
		for _, id := range players {
			if id != foxID {
				changes[id] = 1
			}
		}
	}

	return changes
}

func (r *Room) applyScores(caught, escaped bool, finders []string) map[string]int {
	changes := scoreRound(r.order, r.foxID, finders, caught, escaped)
	for id, delta := range changes {
		r.scores[id] += delta
	}
	return changes
}

func (r *Room) showResults(result string, changes map[string]int, finders []string) []envelope {
	r.phase = PhaseResults
	r.lastResult = result
	r.lastScoreChanges = changes

	r.lastFinders = make([]string, 0, len(finders))
	for _, id := range finders {
		name := r.playerName(id)
		if name == "" {
			name = "Unknown"
		}
		r.lastFinders = append(r.lastFinders, name)
	}

	scores := make([]scoreView, 0, len(r.order))
	for _, id := range r.order {
		scores = append(scores, scoreView{
			PlayerID:   id,
			PlayerName: r.players[id].name,
			Score:      r.scores[id],
			Change:     changes[id],
			IsFox:      id == r.foxID,
		})
	}
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].Score > scores[j].Score
	})

	return []envelope{broadcast(r, gameOverMessage{
		Type:        evGameOver,
		Phase:       r.phase,
		Result:      result,
		FoxID:       r.foxID,
		FoxName:     r.playerName(r.foxID),
		SecretWord:  r.secretWord,
		EscapeGuess: optional(r.escapeGuess),
		Finders:     r.lastFinders,
		Scores:      scores,
		Players:     r.roster(),
	}, "")}
}

// returnToLobby clears the round but keeps players and cumulative scores.
func (r *Room) returnToLobby() []envelope {
	r.phase = PhaseLobby
	r.hints = make(map[string]string)
	r.votes = make(map[string]string)
	r.voteOrder = nil
	r.foxID = ""
	r.peekPlayerID = ""
	r.secretWord = ""
	r.escapeGuess = ""

	return []envelope{broadcast(r, phaseChangeMessage{
		Type:    evReturnToLobby,
		Phase:   r.phase,
		Players: r.roster(),
	}, "")}
}

func (r *Room) setTimer(d flexInt) ([]envelope, error) {
	if !d.ok || d.n < 0 || d.n > maxTimerDuration {
		return nil, errInvalidTimer
	}

	r.timerDuration = d.n

	return []envelope{broadcast(r, timerUpdatedMessage{Type: evTimerUpdated, Duration: d.n}, "")}, nil
}

// afterDeparture keeps the round consistent once a player has been removed.
// Losing the fox ends the round; otherwise the departure may complete the
// hints or the vote.
func (r *Room) afterDeparture(playerID string) []envelope {
	if playerID == r.foxID {
		if r.phase.inRound() {
			return r.returnToLobby()
		}
		r.foxID = ""
	}
	if playerID == r.peekPlayerID {
		r.peekPlayerID = ""
	}

	switch r.phase {
	case PhaseHintWriting:
		return r.checkHints()
	case PhaseVoting:
		return r.checkVotes()
	default:
		return nil
	}
}
