/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreRound(t *testing.T) {
	t.Parallel()

	players := []string{"p1", "p2", "p3", "p4"}

	tests := []struct {
		name    string
		finders []string
		caught  bool
		escaped bool
		want    map[string]int
	}{
		{
			name:    "fox wins with a lone finder",
			finders: []string{"p3"},
			want:    map[string]int{"p1": 3, "p2": 0, "p3": 2, "p4": 0},
		},
		{
			name:    "fox wins with several finders",
			finders: []string{"p2", "p3"},
			want:    map[string]int{"p1": 3, "p2": 0, "p3": 0, "p4": 0},
		},
		{
			name: "fox wins unsuspected",
			want: map[string]int{"p1": 3, "p2": 0, "p3": 0, "p4": 0},
		},
		{
			name:    "fox escapes",
			finders: []string{"p2", "p3", "p4"},
			caught:  true,
			escaped: true,
			want:    map[string]int{"p1": 2, "p2": 0, "p3": 0, "p4": 0},
		},
		{
			name:    "fox caught",
			finders: []string{"p2", "p3", "p4"},
			caught:  true,
			want:    map[string]int{"p1": 0, "p2": 1, "p3": 1, "p4": 1},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := scoreRound(players, "p1", tc.finders, tc.caught, tc.escaped)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("scoreRound() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestScoreRoundCaughtSumsToOthers(t *testing.T) {
	t.Parallel()

	for n := minPlayers; n <= defaultMaxPlayers; n++ {
		players := make([]string, n)
		for i := range players {
			players[i] = testNames[i]
		}

		total := 0
		for _, delta := range scoreRound(players, players[0], nil, true, false) {
			total += delta
		}
		assert.Equal(t, n-1, total, "players=%d", n)
	}
}

func TestConsensus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		foxVotes, total int
		want            bool
	}{
		{2, 3, true},
		{3, 3, true},
		{1, 3, false},
		{2, 4, false},
		{3, 4, true},
		{3, 6, false},
		{0, 0, false},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, consensus(tc.foxVotes, tc.total), "%d of %d", tc.foxVotes, tc.total)
	}
}

func TestStartGameNeedsThreePlayers(t *testing.T) {
	t.Parallel()

	r := newTestRoom(t, 2, roomRules{})

	envs, err := r.startGame("animals")
	require.ErrorIs(t, err, errNotEnoughPlayers)
	assert.Nil(t, envs)
	assert.Equal(t, PhaseLobby, r.phase)
	assert.Empty(t, r.foxID)
	assert.Empty(t, r.secretWord)
	assert.Zero(t, r.roundNumber)
}

func TestStartGameUnknownTopic(t *testing.T) {
	t.Parallel()

	r := newTestRoom(t, 3, roomRules{})

	_, err := r.startGame("dinosaurs")
	require.ErrorIs(t, err, errUnknownTopic)
	assert.Equal(t, PhaseLobby, r.phase)
	assert.Empty(t, r.topic)
}

func TestStartGameDeal(t *testing.T) {
	t.Parallel()

	// word 5, fox is the third player, peek is the first non-fox
	r := newTestRoom(t, 4, roomRules{intn: seq(5, 2, 0)})

	envs, err := r.startGame("animals")
	require.NoError(t, err)

	pack, _ := lookupPack("animals")
	assert.Equal(t, PhaseHintWriting, r.phase)
	assert.Equal(t, pack.Words[5], r.secretWord)
	assert.Equal(t, "p3", r.foxID)
	assert.Equal(t, "p1", r.peekPlayerID)
	assert.Equal(t, 1, r.roundNumber)

	require.Len(t, envs, 4)

	foxes := 0
	for _, e := range envs {
		require.Equal(t, toPlayer, e.target)

		msg, ok := e.payload.(gameStartedMessage)
		require.True(t, ok)
		assert.Equal(t, pack.Words, msg.Words)

		if e.player == "p3" {
			foxes++
			assert.True(t, msg.IsFox)
			assert.Nil(t, msg.SecretWord)
			require.NotNil(t, msg.PeekPlayerID)
			assert.Equal(t, "p1", *msg.PeekPlayerID)
			assert.Equal(t, "Alice", *msg.PeekPlayerName)
		} else {
			assert.False(t, msg.IsFox)
			require.NotNil(t, msg.SecretWord)
			assert.Equal(t, r.secretWord, *msg.SecretWord)
			assert.Nil(t, msg.PeekPlayerID)
		}
	}
	assert.Equal(t, 1, foxes)
}

func TestStartGameOnlyFromLobby(t *testing.T) {
	t.Parallel()

	r := newTestRoom(t, 3, roomRules{})
	_, err := r.startGame("food")
	require.NoError(t, err)

	word := r.secretWord
	envs, err := r.startGame("animals")
	require.NoError(t, err)
	assert.Nil(t, envs)
	assert.Equal(t, "food", r.topic)
	assert.Equal(t, word, r.secretWord)
	assert.Equal(t, 1, r.roundNumber)
}

func TestRoleReveal(t *testing.T) {
	t.Parallel()

	r := newTestRoom(t, 3, roomRules{roleReveal: true})
	_, err := r.startGame("animals")
	require.NoError(t, err)
	require.Equal(t, PhaseRoleReveal, r.phase)

	// no hints before the reveal is over
	assert.Nil(t, r.submitHint("p2", "Roar"))

	envs := r.beginHintWriting()
	require.Len(t, envs, 2)
	assert.Equal(t, PhaseHintWriting, r.phase)

	assert.Equal(t, toPlayer, envs[0].target)
	assert.Equal(t, r.foxID, envs[0].player)
	assert.NotNil(t, envs[0].payload.(phaseChangeMessage).PeekPlayerID)

	assert.Equal(t, toRoom, envs[1].target)
	assert.Equal(t, r.foxID, envs[1].player)
	assert.Nil(t, envs[1].payload.(phaseChangeMessage).PeekPlayerID)

	assert.Nil(t, r.beginHintWriting())
}

func TestHintTypingOnlyFromPeekedPlayer(t *testing.T) {
	t.Parallel()

	// fox p1, peek p2
	r := newTestRoom(t, 3, roomRules{})
	_, err := r.startGame("animals")
	require.NoError(t, err)

	assert.Nil(t, r.hintTyping("p3", "Str"))
	assert.Nil(t, r.hintTyping("p1", "Str"))

	envs := r.hintTyping("p2", "Str")
	require.Len(t, envs, 1)
	assert.Equal(t, toPlayer, envs[0].target)
	assert.Equal(t, "p1", envs[0].player)
	assert.Equal(t, peekHintMessage{Type: evPeekHintUpdate, Hint: "Str"}, envs[0].payload)
}

func TestHintsAdvanceToVoting(t *testing.T) {
	t.Parallel()

	r := newTestRoom(t, 3, roomRules{})
	_, err := r.startGame("animals")
	require.NoError(t, err)

	r.submitHint("p1", "Roar")
	r.submitHint("p2", "   ")
	assert.Equal(t, PhaseHintWriting, r.phase)

	// resubmitting replaces, it does not count twice
	r.submitHint("p1", "Mane")
	assert.Len(t, r.hints, 2)
	assert.Equal(t, PhaseHintWriting, r.phase)

	envs := r.submitHint("p3", "Stripes")
	require.Len(t, envs, 2)
	assert.Equal(t, PhaseVoting, r.phase)

	change := envs[1].payload.(phaseChangeMessage)
	want := []hintView{
		{PlayerID: "p1", PlayerName: "Alice", Hint: "Mane"},
		{PlayerID: "p2", PlayerName: "Bob", Hint: noHint},
		{PlayerID: "p3", PlayerName: "Carol", Hint: "Stripes"},
	}
	if diff := cmp.Diff(want, change.Hints); diff != "" {
		t.Errorf("hints mismatch (-want +got):\n%s", diff)
	}

	// late hints are ignored
	assert.Nil(t, r.submitHint("p3", "Tiger"))
	assert.Equal(t, "Stripes", r.hints["p3"])
}

func TestHintsRevealWaitsForHost(t *testing.T) {
	t.Parallel()

	r := newTestRoom(t, 3, roomRules{hintsReveal: true})
	_, err := r.startGame("animals")
	require.NoError(t, err)

	for _, id := range r.order {
		r.submitHint(id, "hint")
	}
	assert.Equal(t, PhaseHintsReveal, r.phase)

	r.startVoting()
	assert.Equal(t, PhaseVoting, r.phase)
}

func playRound(t *testing.T, r *Room) {
	t.Helper()

	_, err := r.startGame("animals")
	require.NoError(t, err)
	for _, id := range r.order {
		r.submitHint(id, "hint "+id)
	}
	require.Equal(t, PhaseVoting, r.phase)
}

func TestSubmitVoteValidation(t *testing.T) {
	t.Parallel()

	r := newTestRoom(t, 3, roomRules{})
	playRound(t, r)

	_, err := r.submitVote("p2", "p2")
	assert.ErrorIs(t, err, errInvalidVote)

	_, err = r.submitVote("p2", "nobody")
	assert.ErrorIs(t, err, errInvalidVote)

	assert.Empty(t, r.votes)

	// changing a vote keeps the first-vote order
	_, err = r.submitVote("p2", "p3")
	require.NoError(t, err)
	_, err = r.submitVote("p3", "p1")
	require.NoError(t, err)
	_, err = r.submitVote("p2", "p1")
	require.NoError(t, err)

	assert.Equal(t, []string{"p2", "p3"}, r.voteOrder)
	assert.Equal(t, "p1", r.votes["p2"])
	assert.Equal(t, PhaseVoting, r.phase)
}

func TestCaughtFoxEscapes(t *testing.T) {
	t.Parallel()

	// fox p1
	r := newTestRoom(t, 3, roomRules{})
	playRound(t, r)

	_, err := r.submitVote("p2", "p1")
	require.NoError(t, err)
	_, err = r.submitVote("p3", "p1")
	require.NoError(t, err)
	envs, err := r.submitVote("p1", "p2")
	require.NoError(t, err)

	require.Equal(t, PhaseEscape, r.phase)
	require.Len(t, envs, 3)

	escape := envs[1]
	assert.Equal(t, toPlayer, escape.target)
	assert.Equal(t, "p1", escape.player)

	caught := envs[2]
	assert.Equal(t, toRoom, caught.target)
	assert.Equal(t, "p1", caught.player)
	assert.Equal(t, "Alice", caught.payload.(foxCaughtMessage).FoxName)

	envs = r.attemptEscape(r.secretWord)
	require.Len(t, envs, 1)
	assert.Equal(t, PhaseResults, r.phase)
	assert.Equal(t, resultFoxEscapes, r.lastResult)

	over := envs[0].payload.(gameOverMessage)
	assert.Equal(t, resultFoxEscapes, over.Result)
	assert.Equal(t, []string{"Bob", "Carol"}, over.Finders)
	require.NotNil(t, over.EscapeGuess)
	assert.Equal(t, r.secretWord, *over.EscapeGuess)
	assert.Equal(t, 2, r.scores["p1"])
	assert.Equal(t, 0, r.scores["p2"])

	assert.Equal(t, "p1", over.Scores[0].PlayerID)
	assert.True(t, over.Scores[0].IsFox)
}

func TestCaughtFoxGuessesWrong(t *testing.T) {
	t.Parallel()

	r := newTestRoom(t, 4, roomRules{})
	playRound(t, r)

	for _, id := range []string{"p2", "p3", "p4"} {
		_, err := r.submitVote(id, "p1")
		require.NoError(t, err)
	}
	_, err := r.submitVote("p1", "p4")
	require.NoError(t, err)
	require.Equal(t, PhaseEscape, r.phase)

	// matching is exact
	r.attemptEscape(" " + r.secretWord)

	assert.Equal(t, resultFoxCaught, r.lastResult)
	assert.Equal(t, map[string]int{"p1": 0, "p2": 1, "p3": 1, "p4": 1}, r.scores)
}

func TestTiedVoteLetsFoxWin(t *testing.T) {
	t.Parallel()

	r := newTestRoom(t, 4, roomRules{})
	playRound(t, r)

	votes := map[string]string{"p1": "p2", "p2": "p1", "p3": "p1", "p4": "p2"}
	for _, voter := range []string{"p1", "p2", "p3", "p4"} {
		_, err := r.submitVote(voter, votes[voter])
		require.NoError(t, err)
	}

	assert.Equal(t, PhaseResults, r.phase)
	assert.Equal(t, resultFoxWins, r.lastResult)
	assert.Equal(t, []string{"Bob", "Carol"}, r.lastFinders)
	assert.Equal(t, 3, r.scores["p1"])
	assert.Equal(t, 0, r.scores["p2"])
}

func TestLoneFinderScores(t *testing.T) {
	t.Parallel()

	r := newTestRoom(t, 3, roomRules{})
	playRound(t, r)

	for voter, suspect := range map[string]string{"p1": "p3", "p2": "p3", "p3": "p1"} {
		_, err := r.submitVote(voter, suspect)
		require.NoError(t, err)
	}

	assert.Equal(t, resultFoxWins, r.lastResult)
	assert.Equal(t, map[string]int{"p1": 3, "p2": 0, "p3": 2}, r.scores)
}

func TestReturnToLobbyKeepsScores(t *testing.T) {
	t.Parallel()

	r := newTestRoom(t, 3, roomRules{})
	playRound(t, r)
	for voter, suspect := range map[string]string{"p1": "p2", "p2": "p3", "p3": "p2"} {
		_, err := r.submitVote(voter, suspect)
		require.NoError(t, err)
	}
	require.Equal(t, PhaseResults, r.phase)

	envs := r.returnToLobby()
	require.Len(t, envs, 1)
	assert.Equal(t, evReturnToLobby, envs[0].payload.(phaseChangeMessage).Type)

	assert.Equal(t, PhaseLobby, r.phase)
	assert.Empty(t, r.foxID)
	assert.Empty(t, r.peekPlayerID)
	assert.Empty(t, r.secretWord)
	assert.Empty(t, r.hints)
	assert.Empty(t, r.votes)
	assert.Equal(t, 3, r.scores["p1"])
	assert.Equal(t, resultFoxWins, r.lastResult)

	_, err := r.startGame("food")
	require.NoError(t, err)
	assert.Equal(t, 2, r.roundNumber)
}

func TestSetTimer(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      flexInt
		wantErr bool
	}{
		{"zero disables", flexInt{n: 0, ok: true}, false},
		{"upper bound", flexInt{n: maxTimerDuration, ok: true}, false},
		{"negative", flexInt{n: -1, ok: true}, true},
		{"too long", flexInt{n: maxTimerDuration + 1, ok: true}, true},
		{"missing", flexInt{}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			r := newTestRoom(t, 3, roomRules{})
			_, err := r.setTimer(tc.in)
			if tc.wantErr {
				assert.ErrorIs(t, err, errInvalidTimer)
				assert.Equal(t, 15, r.timerDuration)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.in.n, r.timerDuration)
		})
	}
}

func TestDepartureCompletesHints(t *testing.T) {
	t.Parallel()

	// fox p1, peek p2
	r := newTestRoom(t, 4, roomRules{})
	_, err := r.startGame("animals")
	require.NoError(t, err)

	r.submitHint("p1", "a")
	r.submitHint("p2", "b")
	r.submitHint("p3", "c")

	r.removePlayer("p4")
	envs := r.afterDeparture("p4")
	require.Len(t, envs, 1)
	assert.Equal(t, PhaseVoting, r.phase)
}

func TestDepartureOfPeekedPlayer(t *testing.T) {
	t.Parallel()

	r := newTestRoom(t, 4, roomRules{})
	_, err := r.startGame("animals")
	require.NoError(t, err)
	require.Equal(t, "p2", r.peekPlayerID)

	r.removePlayer("p2")
	r.afterDeparture("p2")

	assert.Empty(t, r.peekPlayerID)
	assert.Equal(t, PhaseHintWriting, r.phase)
	assert.Nil(t, r.hintTyping("p2", "x"))
}

func TestDepartureOfFoxEndsRound(t *testing.T) {
	t.Parallel()

	r := newTestRoom(t, 4, roomRules{})
	playRound(t, r)

	r.removePlayer("p1")
	envs := r.afterDeparture("p1")
	require.Len(t, envs, 1)
	assert.Equal(t, evReturnToLobby, envs[0].payload.(phaseChangeMessage).Type)
	assert.Equal(t, PhaseLobby, r.phase)
	assert.Empty(t, r.foxID)
}
