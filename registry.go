/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"crypto/rand"
	"math/big"
	"sort"
	"strings"
)

const (
	// No O/0 or I/1.
	roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	roomCodeLength   = 4
	randomCodeTries  = 32
)

// RoomStore owns every live room. The coordinator is its only caller, so
// implementations need no locking of their own.
type RoomStore interface {
	Create(host *Player, settings RoomSettings) (*Room, error)
	Lookup(code string) (*Room, bool)
	PublicLobbies() []publicRoom
	Delete(code string)
	Len() int
}

type memoryStore struct {
	rooms    map[string]*Room
	alphabet string
	length   int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		rooms:    make(map[string]*Room),
		alphabet: roomCodeAlphabet,
		length:   roomCodeLength,
	}
}

func (s *memoryStore) Create(host *Player, settings RoomSettings) (*Room, error) {
	code, err := s.newCode()
	if err != nil {
		return nil, err
	}

	room := newRoom(code, host, settings)
	s.rooms[code] = room

	return room, nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

func (s *memoryStore) Lookup(code string) (*Room, bool) {
	room, ok := s.rooms[normalizeCode(code)]
	return room, ok
}

// PublicLobbies lists public rooms that are still waiting in the lobby.
func (s *memoryStore) PublicLobbies() []publicRoom {
	list := make([]publicRoom, 0)
	for _, room := range s.rooms {
		if room.isPublic && room.phase == PhaseLobby {
			list = append(list, room.describe())
		}
	}

	sort.Slice(list, func(i, j int) bool {
		return list[i].RoomCode < list[j].RoomCode
	})

	return list
}

func (s *memoryStore) Delete(code string) {
	delete(s.rooms, normalizeCode(code))
}

func (s *memoryStore) Len() int {
	return len(s.rooms)
}

func (s *memoryStore) space() int {
	n := 1
	for range s.length {
		n *= len(s.alphabet)
	}
	return n
}

// encode maps an index in [0, space) to a code.
func (s *memoryStore) encode(index int) string {
	out := make([]byte, s.length)
	base := len(s.alphabet)
	for i := s.length - 1; i >= 0; i-- {
		out[i] = s.alphabet[index%base]
		index /= base
	}
	return string(out)
}

func randomIndex(n int) (int, error) {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, err
	}
	return int(v.Int64()), nil
}

// newCode draws random codes a bounded number of times, then walks the
// whole code space once from a random offset. A full space is an error,
// never an endless loop.
func (s *memoryStore) newCode() (string, error) {
	space := s.space()

	for range randomCodeTries {
		index, err := randomIndex(space)
		if err != nil {
			return "", err
		}

		code := s.encode(index)
		if _, exists := s.rooms[code]; !exists {
			return code, nil
		}
	}

	start, err := randomIndex(space)
	if err != nil {
		return "", err
	}

	for i := range space {
		code := s.encode((start + i) % space)
		if _, exists := s.rooms[code]; !exists {
			return code, nil
		}
	}

	return "", errCodeSpaceExhausted
}

func validCode(code string) bool {
	if len(code) != roomCodeLength {
		return false
	}
	for _, r := range code {
		if !strings.ContainsRune(roomCodeAlphabet, r) {
			return false
		}
	}
	return true
}
