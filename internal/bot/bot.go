package bot

import (
	"bedwarslb/internal/common"
	"bedwarslb/internal/store"
	"context"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/cockroachdb/errors"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
)

type Options struct {
	UpdateInterval time.Duration
	FetchPacing    time.Duration
	CommandWorkers int
}

type Bot struct {
	session   *discordgo.Session
	store     *store.Store
	resolver  Resolver
	platform  Platform
	refresher *Refresher
	scheduler *Scheduler
	pool      *ants.Pool
	started   sync.Once
	tasks     conc.WaitGroup
}

// What a command replies, and whether the leaderboard
// has to be refreshed once the reply is sent
type Reply struct {
	responses []Response
	refresh   bool
}

func New(token string, store *store.Store, resolver Resolver, fetcher Fetcher, options Options) (*Bot, error) {

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, errors.Wrap(err, "create discord session")
	}
	session.Identify.Intents = discordgo.IntentsGuilds

	pool, err := ants.NewPool(options.CommandWorkers, ants.WithPanicHandler(func(recovered any) {
		log.Error().Interface("panic", recovered).Msg("Command panicked")
	}))
	if err != nil {
		return nil, errors.Wrap(err, "create command pool")
	}

	bot := &Bot{session: session, store: store, resolver: resolver, pool: pool}
	bot.platform = NewDiscordPlatform(session)
	bot.refresher = NewRefresher(store, bot.platform, fetcher, options.FetchPacing)
	bot.scheduler = NewScheduler(store, bot.platform, bot.refresher, options.UpdateInterval)
	return bot, nil
}

// Connect and serve until the context is done
func (bot *Bot) Run(ctx context.Context) error {

	bot.session.AddHandler(func(s *discordgo.Session, ready *discordgo.Ready) {
		bot.onReady(ctx, s, ready)
	})
	bot.session.AddHandler(func(s *discordgo.Session, interaction *discordgo.InteractionCreate) {
		bot.onInteraction(ctx, s, interaction)
	})

	if err := bot.session.Open(); err != nil {
		return errors.Wrap(err, "open discord session")
	}
	log.Info().Msg("Connected to Discord")

	<-ctx.Done()
	log.Info().Msg("Shutting down the bot")
	if err := bot.session.Close(); err != nil {
		log.Warn().Err(err).Msg("Could not close discord session")
	}
	bot.tasks.Wait()
	if err := bot.pool.ReleaseTimeout(10 * time.Second); err != nil {
		log.Warn().Err(err).Msg("Commands still running at shutdown")
	}
	return nil
}

func (bot *Bot) onReady(ctx context.Context, s *discordgo.Session, ready *discordgo.Ready) {

	log.Info().Msgf("Logged in as %s", ready.User.String())
	commands, err := s.ApplicationCommandBulkOverwrite(ready.User.ID, "", Commands())
	if err != nil {
		log.Error().Err(err).Msg("Could not register commands")
	} else {
		log.Info().Msgf("Registered %d commands", len(commands))
	}

	// Ready is sent again on reconnections
	bot.started.Do(func() {
		bot.tasks.Go(func() { bot.scheduler.Run(ctx) })
	})
}

func (bot *Bot) onInteraction(ctx context.Context, s *discordgo.Session, event *discordgo.InteractionCreate) {

	if event.Type != discordgo.InteractionApplicationCommand {
		return
	}
	interaction := event.Interaction

	// Acknowledge straight away, the answer comes as a follow up
	if err := s.InteractionRespond(interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
	}); err != nil {
		log.Error().Err(err).Str("guild", interaction.GuildID).Msg("Could not acknowledge command")
		return
	}

	err := bot.pool.Submit(func() {
		parseResult := Parse(interaction.ApplicationCommandData())
		reply := bot.Execute(ctx, interaction.GuildID, interaction.ChannelID, parseResult)
		bot.sendResponses(s, interaction, reply.responses)
		if reply.refresh {
			bot.autoRefresh(ctx, interaction.GuildID)
		}
	})
	if err != nil {
		log.Error().Err(err).Str("guild", interaction.GuildID).Msg("Could not schedule command")
		bot.sendResponses(s, interaction, SomethingWentWrong())
	}
}

func (bot *Bot) sendResponses(s *discordgo.Session, interaction *discordgo.Interaction, responses []Response) {
	for _, response := range responses {
		if _, err := s.FollowupMessageCreate(interaction, true, response.Params()); err != nil {
			log.Error().Err(err).Str("guild", interaction.GuildID).Msg("Could not send reply")
		}
	}
}

// Run a parsed command for a guild. The channel is the one the command was used in
func (bot *Bot) Execute(ctx context.Context, guildID string, channelID string, parseResult ParseResult) Reply {

	if guildID == "" {
		return Reply{responses: OnlyInServers()}
	}
	if parseResult.parseid != PARSEID_OK {
		log.Info().Str("guild", guildID).Msgf("Wrong input: %s", parseResult.errorMessage)
		return Reply{responses: InputNotValid(parseResult.errorMessage)}
	}

	switch parseResult.command {
	case COMMAND_PLAYER_ADD:
		return bot.addPlayer(ctx, guildID, parseResult.arguments)
	case COMMAND_PLAYER_REMOVE:
		return bot.removePlayer(guildID, parseResult.arguments)
	case COMMAND_LEADERBOARD_CREATE:
		if parseResult.arguments != "" {
			channelID = parseResult.arguments
		}
		return Reply{responses: bot.createLeaderboard(ctx, guildID, channelID)}
	case COMMAND_LEADERBOARD_REMOVE:
		return Reply{responses: bot.removeLeaderboard(guildID)}
	case COMMAND_LEADERBOARD_REFRESH:
		return Reply{responses: bot.refreshLeaderboard(ctx, guildID)}
	case COMMAND_ADMIN_GETFILE:
		return Reply{responses: bot.getFile(guildID, parseResult.arguments)}
	default:
		log.Error().Str("guild", guildID).Msgf("Command %d is not one of the possible ones", parseResult.command)
		return Reply{responses: SomethingWentWrong()}
	}
}

func (bot *Bot) addPlayer(ctx context.Context, guildID string, username string) Reply {

	profile, err := bot.resolver.Resolve(ctx, username)
	if err != nil {
		log.Info().Err(err).Str("guild", guildID).Msgf("Could not resolve player %s", username)
		return Reply{responses: PlayerNotFound(username)}
	}

	err = bot.store.AddPlayer(guildID, store.Player{Username: profile.Username, UUID: profile.UUID})
	if errors.Is(err, common.ErrAlreadyExists) {
		log.Info().Str("guild", guildID).Msgf("Player %s is already registered", profile.Username)
		return Reply{responses: PlayerAlreadyRegistered(profile.Username)}
	}
	if err != nil {
		log.Error().Err(err).Str("guild", guildID).Msgf("Could not register player %s", profile.Username)
		return Reply{responses: SomethingWentWrong()}
	}

	log.Info().Str("guild", guildID).Msgf("Player %s has been registered", profile.Username)
	return Reply{responses: PlayerRegistered(profile.Username), refresh: true}
}

func (bot *Bot) removePlayer(guildID string, username string) Reply {

	removed, err := bot.store.RemovePlayer(guildID, username)
	if errors.Is(err, common.ErrNotFound) {
		log.Info().Str("guild", guildID).Msgf("Player %s was not registered", username)
		return Reply{responses: PlayerNotPreviouslyRegistered(username)}
	}
	if err != nil {
		log.Error().Err(err).Str("guild", guildID).Msgf("Could not unregister player %s", username)
		return Reply{responses: SomethingWentWrong()}
	}

	log.Info().Str("guild", guildID).Msgf("Player %s has been unregistered", removed.Username)
	return Reply{responses: PlayerUnregistered(removed.Username), refresh: true}
}

// Refresh the leaderboard after its players changed. The command has
// already been answered, so problems are only logged
func (bot *Bot) autoRefresh(ctx context.Context, guildID string) {

	guild, err := bot.platform.Guild(guildID)
	if err != nil {
		log.Warn().Err(err).Str("guild", guildID).Msg("Could not get guild for refresh")
		return
	}
	err = bot.refresher.Republish(ctx, guild, true)
	switch {
	case err == nil:
	case errors.Is(err, ErrTargetRemoved):
		log.Warn().Str("guild", guildID).Msg("Leaderboard removed during refresh")
	case errors.Is(err, common.ErrNotFound):
		log.Debug().Str("guild", guildID).Msg("No leaderboard to refresh")
	default:
		log.Warn().Err(err).Str("guild", guildID).Msg("Could not refresh leaderboard after a player change")
	}
}

func (bot *Bot) createLeaderboard(ctx context.Context, guildID string, channelID string) []Response {

	if _, ok, err := bot.store.Leaderboard(guildID); err != nil {
		log.Error().Err(err).Str("guild", guildID).Msg("Could not load leaderboards")
		return SomethingWentWrong()
	} else if ok {
		return LeaderboardAlreadyExists()
	}

	guild, err := bot.platform.Guild(guildID)
	if err != nil {
		log.Error().Err(err).Str("guild", guildID).Msg("Could not get guild")
		return SomethingWentWrong()
	}

	messageID, err := bot.platform.SendEmbed(channelID, CreatingEmbed())
	if err != nil {
		return bot.leaderboardFailure(err, guildID, channelID)
	}
	target := store.Target{ChannelID: store.Snowflake(channelID), MessageID: store.Snowflake(messageID)}

	if err := bot.store.CreateLeaderboard(guildID, target); err != nil {
		// Created by someone else in the meantime
		if deleteErr := bot.platform.DeleteMessage(channelID, messageID); deleteErr != nil {
			log.Warn().Err(deleteErr).Str("guild", guildID).Msg("Could not delete leaderboard message")
		}
		if errors.Is(err, common.ErrAlreadyExists) {
			return LeaderboardAlreadyExists()
		}
		log.Error().Err(err).Str("guild", guildID).Msg("Could not record leaderboard")
		return SomethingWentWrong()
	}
	log.Info().Str("guild", guildID).Str("channel", channelID).Msg("Leaderboard created")

	err = bot.refresher.Publish(ctx, guild, target, false)
	if errors.Is(err, common.ErrNotFound) {
		// Deleted before it could be filled in
		log.Warn().Err(err).Str("guild", guildID).Msg("New leaderboard message is gone, removing it")
		if _, removeErr := bot.store.RemoveLeaderboardIf(guildID, target); removeErr != nil {
			log.Error().Err(removeErr).Str("guild", guildID).Msg("Could not remove leaderboard")
		}
		return LeaderboardMessageGone()
	}
	if err != nil {
		return bot.leaderboardFailure(err, guildID, channelID)
	}
	return LeaderboardCreated(channelID)
}

func (bot *Bot) removeLeaderboard(guildID string) []Response {

	target, ok, err := bot.store.Leaderboard(guildID)
	if err != nil {
		log.Error().Err(err).Str("guild", guildID).Msg("Could not load leaderboards")
		return SomethingWentWrong()
	}
	if !ok {
		return NoLeaderboard()
	}

	err = bot.platform.DeleteMessage(string(target.ChannelID), string(target.MessageID))
	if err != nil && !errors.Is(err, common.ErrNotFound) && !errors.Is(err, common.ErrForbidden) {
		log.Error().Err(err).Str("guild", guildID).Msg("Could not delete leaderboard message")
		return SomethingWentWrong()
	}

	if _, err := bot.store.RemoveLeaderboardIf(guildID, target); err != nil {
		log.Error().Err(err).Str("guild", guildID).Msg("Could not remove leaderboard")
		return SomethingWentWrong()
	}
	log.Info().Str("guild", guildID).Msg("Leaderboard removed")
	return LeaderboardRemoved()
}

func (bot *Bot) refreshLeaderboard(ctx context.Context, guildID string) []Response {

	guild, err := bot.platform.Guild(guildID)
	if err != nil {
		log.Error().Err(err).Str("guild", guildID).Msg("Could not get guild")
		return SomethingWentWrong()
	}

	err = bot.refresher.Republish(ctx, guild, true)
	switch {
	case err == nil:
		return LeaderboardRefreshed()
	case errors.Is(err, ErrTargetRemoved):
		return LeaderboardMessageGone()
	case errors.Is(err, common.ErrNotFound):
		return NoLeaderboard()
	case errors.Is(err, common.ErrForbidden):
		target, _, _ := bot.store.Leaderboard(guildID)
		return MissingPermissions(string(target.ChannelID))
	default:
		log.Error().Err(err).Str("guild", guildID).Msg("Could not refresh leaderboard")
		return SomethingWentWrong()
	}
}

func (bot *Bot) getFile(guildID string, filename string) []Response {

	if _, err := bot.store.FilePath(filename); err != nil {
		log.Warn().Str("guild", guildID).Msgf("Refusing to send file %s", filename)
		return FileNotValid(filename)
	}
	content, err := bot.store.ReadFile(filename)
	if errors.Is(err, common.ErrNotFound) {
		return FileNotFound(filename)
	}
	if err != nil {
		log.Error().Err(err).Str("guild", guildID).Msgf("Could not read file %s", filename)
		return SomethingWentWrong()
	}
	log.Info().Str("guild", guildID).Msgf("Sending file %s", filename)
	return FileContent(filename, content)
}

func (bot *Bot) leaderboardFailure(err error, guildID string, channelID string) []Response {
	if errors.Is(err, common.ErrForbidden) || errors.Is(err, common.ErrNotFound) {
		log.Warn().Err(err).Str("guild", guildID).Msg("Cannot use leaderboard channel")
		return MissingPermissions(channelID)
	}
	log.Error().Err(err).Str("guild", guildID).Msg("Could not publish leaderboard")
	return SomethingWentWrong()
}
