/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const maxTimerDuration = 300

type Config struct {
	bind         string
	defaultTimer int
	hintsReveal  bool
	messageBurst int
	messageRate  float64
	port         int
	prefix       string
	profile      bool
	roleReveal   bool
	roomGrace    time.Duration
	tlsCert      string
	tlsKey       string
	verbose      bool
	version      bool

	logger zerolog.Logger
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.roomGrace <= 0 {
		return fmt.Errorf("invalid room grace period (must be positive): %s", c.roomGrace)
	}
	if c.defaultTimer < 0 || c.defaultTimer > maxTimerDuration {
		return fmt.Errorf("invalid default timer (must be between 0-%d inclusive): %d", maxTimerDuration, c.defaultTimer)
	}
	if c.messageRate <= 0 {
		return fmt.Errorf("invalid message rate (must be positive): %v", c.messageRate)
	}
	if c.messageBurst < 1 {
		return fmt.Errorf("invalid message burst (must be at least 1): %d", c.messageBurst)
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("FOXGAME")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "foxgame",
		Short:         "Find the fox who doesn't know the secret word. A real-time party game server.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			cfg.logger = newLogger(cfg)
			return ServePage(cmd.Context(), cfg, args)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: FOXGAME_BIND)")
	fs.IntVar(&cfg.defaultTimer, "default-timer", 15, "hint writing countdown for new rooms, in seconds, 0 to disable (env: FOXGAME_DEFAULT_TIMER)")
	fs.BoolVar(&cfg.hintsReveal, "hints-reveal", false, "show all hints before voting, until the host starts the vote (env: FOXGAME_HINTS_REVEAL)")
	fs.IntVar(&cfg.messageBurst, "message-burst", 40, "maximum burst of inbound messages per connection (env: FOXGAME_MESSAGE_BURST)")
	fs.Float64Var(&cfg.messageRate, "message-rate", 20, "sustained inbound messages per second per connection (env: FOXGAME_MESSAGE_RATE)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: FOXGAME_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: FOXGAME_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: FOXGAME_PROFILE)")
	fs.BoolVar(&cfg.roleReveal, "role-reveal", false, "hold each round on a role reveal screen until the host continues (env: FOXGAME_ROLE_REVEAL)")
	fs.DurationVar(&cfg.roomGrace, "room-grace", 5*time.Minute, "time before rooms with no connected players are deleted (env: FOXGAME_ROOM_GRACE)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: FOXGAME_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: FOXGAME_TLS_KEY)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: FOXGAME_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: FOXGAME_VERSION)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("foxgame v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
