package bot

import (
	"bedwarslb/internal/common"
	"bedwarslb/internal/hypixel"
	"bedwarslb/internal/leaderboard"
	"bedwarslb/internal/mojang"
	"bedwarslb/internal/store"
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
)

// Returned by Republish when the leaderboard message was gone
// and its record has been removed
var ErrTargetRemoved = errors.New("leaderboard message no longer exists")

type Resolver interface {
	Resolve(ctx context.Context, username string) (mojang.Profile, error)
}

type Fetcher interface {
	Fetch(ctx context.Context, uuid string) hypixel.Result
}

// Builds the leaderboard of a guild and writes it into its message
type Refresher struct {
	store    *store.Store
	platform Platform
	fetcher  Fetcher
	pacing   time.Duration
	sleep    func(context.Context, time.Duration) error
	now      func() time.Time
}

// The pacing is the pause after every stats request
func NewRefresher(store *store.Store, platform Platform, fetcher Fetcher, pacing time.Duration) *Refresher {
	return &Refresher{
		store:    store,
		platform: platform,
		fetcher:  fetcher,
		pacing:   pacing,
		sleep:    common.Sleep,
		now:      time.Now,
	}
}

// Fetch the stats of every player of the guild, one after the other,
// and render the ranking. Players without usable stats are left out
func (refresher *Refresher) Build(ctx context.Context, guild leaderboard.GuildContext) (leaderboard.Document, error) {

	players, err := refresher.store.Players(guild.ID)
	if err != nil {
		return leaderboard.Document{}, errors.Wrapf(err, "players of guild %s", guild.ID)
	}

	entries := make([]leaderboard.Entry, 0, len(players))
	for _, player := range players {
		result := refresher.fetcher.Fetch(ctx, player.UUID)
		if !result.OK() {
			log.Debug().Str("guild", guild.ID).Str("result", result.Kind.String()).Msgf("Leaving player %s out of the leaderboard", player.Username)
		}
		entries = append(entries, leaderboard.Entry{Name: player.Username, Result: result})
		if err := refresher.sleep(ctx, refresher.pacing); err != nil {
			return leaderboard.Document{}, errors.Wrapf(err, "refresh of guild %s interrupted", guild.ID)
		}
	}

	return leaderboard.Render(guild, entries, refresher.now()), nil
}

// Rebuild the leaderboard of a guild and edit its message. With placeholder
// the message shows an updating notice while the stats are fetched
func (refresher *Refresher) Publish(ctx context.Context, guild leaderboard.GuildContext, target store.Target, placeholder bool) error {

	channelID, messageID := string(target.ChannelID), string(target.MessageID)
	if placeholder {
		if err := refresher.platform.EditEmbed(channelID, messageID, UpdatingEmbed()); err != nil {
			return errors.Wrapf(err, "placeholder for guild %s", guild.ID)
		}
	}

	document, err := refresher.Build(ctx, guild)
	if err != nil {
		return err
	}

	if err := refresher.platform.EditEmbed(channelID, messageID, LeaderboardEmbed(document)); err != nil {
		return errors.Wrapf(err, "leaderboard of guild %s", guild.ID)
	}
	log.Info().Str("guild", guild.ID).Int("rows", len(document.Rows)).Msg("Leaderboard published")
	return nil
}

// Publish the leaderboard recorded for the guild. A guild without one
// gets common.ErrNotFound. When the message no longer exists the record
// is removed, unless it was replaced meanwhile, and ErrTargetRemoved returned
func (refresher *Refresher) Republish(ctx context.Context, guild leaderboard.GuildContext, placeholder bool) error {

	target, ok, err := refresher.store.Leaderboard(guild.ID)
	if err != nil {
		return err
	}
	if !ok {
		return errors.Wrapf(common.ErrNotFound, "leaderboard of guild %s", guild.ID)
	}

	err = refresher.Publish(ctx, guild, target, placeholder)
	if !errors.Is(err, common.ErrNotFound) {
		return err
	}

	log.Warn().Err(err).Str("guild", guild.ID).Msg("Leaderboard message is gone, removing it")
	if _, removeErr := refresher.store.RemoveLeaderboardIf(guild.ID, target); removeErr != nil {
		log.Error().Err(removeErr).Str("guild", guild.ID).Msg("Could not remove leaderboard")
	}
	return errors.Wrapf(ErrTargetRemoved, "guild %s", guild.ID)
}
