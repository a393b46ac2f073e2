package main

import (
	"bedwarslb/internal/bot"
	"bedwarslb/internal/common"
	"bedwarslb/internal/config"
	"bedwarslb/internal/health"
	"bedwarslb/internal/hypixel"
	"bedwarslb/internal/mojang"
	"bedwarslb/internal/store"
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/pool"
)

func main() {

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Could not load configuration")
	}

	// Logging
	zerolog.SetGlobalLevel(cfg.LogLevel)
	if cfg.LogFormat == config.LogFormatConsole {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	log.Info().Str("data", cfg.DataDir).Dur("interval", cfg.UpdateInterval).Msg("Starting leaderboard bot")

	// Persistent state and the two APIs
	database := store.New(cfg.DataDir)
	resolver := mojang.NewClient(cfg.MojangBaseURL, cfg.MojangTimeout)
	restrictions := []common.Restriction{{Requests: cfg.HypixelRequests, Duration: cfg.HypixelWindow}}
	fetcher := hypixel.NewClient(cfg.HypixelBaseURL, cfg.HypixelAPIKey, cfg.HypixelTimeout, cfg.RateLimitCooldown, restrictions)

	// Create bot
	discordBot, err := bot.New(cfg.DiscordToken, database, resolver, fetcher, bot.Options{
		UpdateInterval: cfg.UpdateInterval,
		FetchPacing:    cfg.FetchPacing,
		CommandWorkers: cfg.CommandWorkers,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Could not create discord bot")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The bot and the health endpoint live and die together
	tasks := pool.New().WithContext(ctx).WithCancelOnError()
	tasks.Go(discordBot.Run)
	tasks.Go(health.NewServer(cfg.Port).Run)
	if err := tasks.Wait(); err != nil {
		log.Error().Err(err).Msg("Stopped with error")
		stop()
		os.Exit(1)
	}
	log.Info().Msg("Stopped")
}
