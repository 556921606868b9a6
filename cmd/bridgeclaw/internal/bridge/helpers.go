package bridge

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/tinyland-inc/bridgeclaw/pkg/config"
	"github.com/tinyland-inc/bridgeclaw/pkg/discord"
	"github.com/tinyland-inc/bridgeclaw/pkg/failsafe"
	"github.com/tinyland-inc/bridgeclaw/pkg/gateway"
	"github.com/tinyland-inc/bridgeclaw/pkg/guilded"
	"github.com/tinyland-inc/bridgeclaw/pkg/heartbeat"
	"github.com/tinyland-inc/bridgeclaw/pkg/logger"
	"github.com/tinyland-inc/bridgeclaw/pkg/relay"
	"github.com/tinyland-inc/bridgeclaw/pkg/webhookcache"
)

// Webhook cache files, one per relay direction.
const (
	discordToGuildedCache = "dg_data.json"
	guildedToDiscordCache = "gd_data.json"
)

func bridgeCmd(debug bool, configPath string) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	if debug || cfg.PrintAllMsg {
		logger.SetLevel(logger.DEBUG)
		fmt.Println("🔍 Debug mode enabled")
	}

	table, err := config.LoadBindings(configPath)
	if err != nil {
		return err
	}
	fmt.Printf("✓ Loaded %d channel binding(s) from %s\n", table.Len(), configPath)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sw := failsafe.NewSwitch()

	// Guilded side: REST login, then the socket.io gateway.
	gclient, err := guilded.Login(ctx, cfg.GuildedEmail, cfg.GuildedPassword)
	if err != nil {
		return err
	}
	gconn, err := gclient.DialGateway()
	if err != nil {
		return err
	}
	gsession := gateway.NewSession("guilded_gateway", gconn, sw)
	gopen := gsession.Subscribe()
	grelay := gsession.Subscribe()
	gsession.Start()

	pingInterval := guilded.AwaitOpen(gopen)
	gbeat := &heartbeat.Supervisor{
		Name:     "guilded_heartbeat",
		Interval: pingInterval,
		Payload: func() (gateway.Frame, error) {
			return guilded.PingFrame(), nil
		},
		Send:   gsession.Send,
		Switch: sw,
	}
	go gbeat.Run(ctx)

	// Discord side: raw gateway with hello/identify/ready handshake.
	dconn, err := discord.DialGateway()
	if err != nil {
		return err
	}
	dsession := gateway.NewSession("discord_gateway", dconn, sw)
	dhandshake := dsession.Subscribe()
	dseq := dsession.Subscribe()
	dheartbeatReq := dsession.Subscribe()
	drelay := dsession.Subscribe()
	dsession.Start()

	advertised, err := discord.Handshake(dsession, dhandshake, cfg.DiscordAuth)
	if err != nil {
		return fmt.Errorf("discord handshake: %w", err)
	}

	seq := &discord.Sequence{}
	go discord.TrackSequence(dseq, seq)
	go discord.RespondHeartbeatRequests(dheartbeatReq, seq, dsession, sw)

	dbeat := &heartbeat.Supervisor{
		Name:     "discord_heartbeat",
		Interval: heartbeat.ScaleInterval(advertised),
		Payload: func() (gateway.Frame, error) {
			payload, err := discord.EncodeHeartbeat(seq.Last())
			if err != nil {
				return gateway.Frame{}, err
			}
			return gateway.TextFrame(payload), nil
		},
		Send:   dsession.Send,
		Switch: sw,
	}
	go dbeat.Run(ctx)

	// Relay pipelines, one per direction, each owning its webhook cache.
	dhooks, err := discord.NewWebhooks(cfg.DiscordAuth)
	if err != nil {
		return err
	}

	toGuilded := &relay.Pipeline{
		Name:   "discord_to_guilded",
		Decode: discord.DecodeMessageEvent,
		Link:   table.GuildedFor,
		Cache:  webhookcache.New(webhookcache.NewFileStore(discordToGuildedCache)),
		Remote: gclient,
	}
	toDiscord := &relay.Pipeline{
		Name:     "guilded_to_discord",
		Decode:   guilded.DecodeMessageEvent,
		Link:     table.DiscordFor,
		Cache:    webhookcache.New(webhookcache.NewFileStore(guildedToDiscordCache)),
		Remote:   dhooks,
		Profiles: gclient.Profile,
	}
	go toGuilded.Run(ctx, drelay)
	go toDiscord.Run(ctx, grelay)

	fmt.Println("✓ Bridge running")
	fmt.Println("Press Ctrl+C to stop")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)

	select {
	case <-sigChan:
		fmt.Println("\nShutting down...")
		return nil
	case cause := <-sw.Done():
		logger.ErrorCF(cause.Component, "Fatal bridge failure", map[string]any{
			"error": cause.Err.Error(),
		})
		return fmt.Errorf("%s: %w", cause.Component, cause.Err)
	}
}
