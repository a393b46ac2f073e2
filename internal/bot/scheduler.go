package bot

import (
	"bedwarslb/internal/common"
	"bedwarslb/internal/store"
	"context"
	"slices"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/panics"
)

// Refreshes every recorded leaderboard periodically
type Scheduler struct {
	store     *store.Store
	platform  Platform
	refresher *Refresher
	executor  common.TimedExecutor
}

func NewScheduler(store *store.Store, platform Platform, refresher *Refresher, period time.Duration) *Scheduler {
	scheduler := &Scheduler{store: store, platform: platform, refresher: refresher}
	scheduler.executor = common.NewTimedExecutor(period, scheduler.RunCycle)
	return scheduler
}

// Run a cycle now and then once per period until the context is done
func (scheduler *Scheduler) Run(ctx context.Context) {
	scheduler.executor.Run(ctx)
}

// Refresh all the leaderboards once. Leaderboards whose guild or message
// no longer exists are removed, all of them with a single write. A guild
// that got a new leaderboard during the cycle keeps it
func (scheduler *Scheduler) RunCycle(ctx context.Context) {

	logger := log.With().Str("cycle", uuid.NewString()).Logger()

	leaderboards, err := scheduler.store.Leaderboards()
	if err != nil {
		logger.Error().Err(err).Msg("Could not load leaderboards")
		return
	}
	if len(leaderboards) == 0 {
		logger.Debug().Msg("No leaderboards to refresh")
		return
	}

	guildIDs := make([]string, 0, len(leaderboards))
	for guildID := range leaderboards {
		guildIDs = append(guildIDs, guildID)
	}
	slices.Sort(guildIDs)

	logger.Info().Int("leaderboards", len(guildIDs)).Msg("Starting refresh cycle")
	removals := store.Leaderboards{}
	for _, guildID := range guildIDs {
		if ctx.Err() != nil {
			logger.Info().Msg("Refresh cycle interrupted")
			break
		}
		target := leaderboards[guildID]
		if scheduler.refreshGuild(ctx, logger, guildID, target) {
			removals[guildID] = target
		}
	}

	if err := scheduler.store.RemoveLeaderboards(removals); err != nil {
		logger.Error().Err(err).Int("leaderboards", len(removals)).Msg("Could not remove leaderboards")
	}
	logger.Info().Int("removed", len(removals)).Msg("Refresh cycle finished")
}

// Refresh the leaderboard of one guild. Returns whether it has to be removed
func (scheduler *Scheduler) refreshGuild(ctx context.Context, logger zerolog.Logger, guildID string, target store.Target) bool {

	var remove bool
	var catcher panics.Catcher
	catcher.Try(func() {
		guild, err := scheduler.platform.Guild(guildID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				logger.Warn().Str("guild", guildID).Msg("Guild is no longer available, removing its leaderboard")
				remove = true
				return
			}
			logger.Error().Err(err).Str("guild", guildID).Msg("Could not get guild")
			return
		}

		err = scheduler.refresher.Publish(ctx, guild, target, false)
		switch {
		case err == nil:
		case errors.Is(err, common.ErrNotFound):
			logger.Warn().Err(err).Str("guild", guildID).Msg("Leaderboard message is gone, removing it")
			remove = true
		case errors.Is(err, common.ErrForbidden):
			logger.Warn().Err(err).Str("guild", guildID).Msg("Not allowed to update the leaderboard")
		default:
			logger.Error().Err(err).Str("guild", guildID).Msg("Could not refresh leaderboard")
		}
	})
	if recovered := catcher.Recovered(); recovered != nil {
		logger.Error().Err(recovered.AsError()).Str("guild", guildID).Str("stack", string(recovered.Stack)).Msg("Leaderboard refresh panicked")
		return false
	}
	return remove
}
