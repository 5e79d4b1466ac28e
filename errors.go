/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Validation and not-found errors. The text of each is sent verbatim to
// the offending connection in an ERROR message.
var (
	errRoomNotFound       = errors.New("Room not found")
	errSessionExpired     = errors.New("Session expired")
	errGameInProgress     = errors.New("Game already in progress")
	errRoomFull           = errors.New("Room is full")
	errNotHost            = errors.New("Only the host can do that")
	errNotFox             = errors.New("Only the fox can do that")
	errNotEnoughPlayers   = errors.New("Need at least 3 players")
	errUnknownTopic       = errors.New("Unknown topic")
	errNameTaken          = errors.New("Name already taken")
	errInvalidName        = errors.New("Name must be between 1 and 20 characters")
	errInvalidTimer       = fmt.Errorf("Timer must be between 0 and %d seconds", maxTimerDuration)
	errInvalidVote        = errors.New("You can only vote for another player in this room")
	errCodeSpaceExhausted = errors.New("Unable to create room, please try again later")
)

func newLogger(cfg *Config) zerolog.Logger {
	level := zerolog.WarnLevel
	if cfg.verbose {
		level = zerolog.InfoLevel
	}

	output := zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: logDate,
	}

	return zerolog.New(output).Level(level).With().Timestamp().Logger()
}

func logf(cfg *Config, format string, args ...any) {
	cfg.logger.Info().Msgf(format, args...)
}

func newPage(title, body string) string {
	var htmlBody strings.Builder

	htmlBody.WriteString(`<!DOCTYPE html><html lang="en"><head>`)
	htmlBody.WriteString(getFavicon())
	htmlBody.WriteString(`<style>`)
	htmlBody.WriteString(`html,body,a{display:block;height:100%;width:100%;text-decoration:none;color:inherit;cursor:auto;}</style>`)
	htmlBody.WriteString(fmt.Sprintf("<title>%s</title></head>", title))
	htmlBody.WriteString(fmt.Sprintf("<body><a href=\"/\">%s</a></body></html>", body))

	return htmlBody.String()
}
