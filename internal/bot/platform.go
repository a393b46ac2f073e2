package bot

import (
	"bedwarslb/internal/common"
	"bedwarslb/internal/leaderboard"
	"net/http"

	"github.com/bwmarrin/discordgo"
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
)

// What the bot needs from the chat platform.
// Missing guilds, channels or messages are reported as common.ErrNotFound
// and missing permissions as common.ErrForbidden
type Platform interface {
	Guild(guildID string) (leaderboard.GuildContext, error)
	SendEmbed(channelID string, embed *discordgo.MessageEmbed) (string, error)
	EditEmbed(channelID string, messageID string, embed *discordgo.MessageEmbed) error
	DeleteMessage(channelID string, messageID string) error
}

type DiscordPlatform struct {
	session *discordgo.Session
}

var _ Platform = (*DiscordPlatform)(nil)

func NewDiscordPlatform(session *discordgo.Session) *DiscordPlatform {
	return &DiscordPlatform{session}
}

// Only guilds the bot is currently a member of are known
func (platform *DiscordPlatform) Guild(guildID string) (leaderboard.GuildContext, error) {
	guild, err := platform.session.State.Guild(guildID)
	if err != nil {
		if errors.Is(err, discordgo.ErrStateNotFound) {
			return leaderboard.GuildContext{}, errors.Wrapf(common.ErrNotFound, "guild %s", guildID)
		}
		return leaderboard.GuildContext{}, errors.Wrapf(err, "guild %s", guildID)
	}
	// Right after connecting the state only holds a stub of each guild
	if guild.Name == "" {
		if fetched, err := platform.session.Guild(guildID); err == nil {
			guild = fetched
		} else {
			log.Debug().Err(err).Str("guild", guildID).Msg("Could not fetch guild details")
		}
	}
	return leaderboard.GuildContext{ID: guild.ID, Name: guild.Name, IconURL: guild.IconURL("256")}, nil
}

func (platform *DiscordPlatform) SendEmbed(channelID string, embed *discordgo.MessageEmbed) (string, error) {
	message, err := platform.session.ChannelMessageSendEmbed(channelID, embed)
	if err != nil {
		return "", errors.Wrapf(classify(err), "send embed to channel %s", channelID)
	}
	return message.ID, nil
}

func (platform *DiscordPlatform) EditEmbed(channelID string, messageID string, embed *discordgo.MessageEmbed) error {
	if _, err := platform.session.ChannelMessageEditEmbed(channelID, messageID, embed); err != nil {
		return errors.Wrapf(classify(err), "edit message %s in channel %s", messageID, channelID)
	}
	return nil
}

func (platform *DiscordPlatform) DeleteMessage(channelID string, messageID string) error {
	if err := platform.session.ChannelMessageDelete(channelID, messageID); err != nil {
		return errors.Wrapf(classify(err), "delete message %s in channel %s", messageID, channelID)
	}
	return nil
}

// Mark the REST errors the bot reacts to
func classify(err error) error {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) || restErr.Response == nil {
		return err
	}
	switch restErr.Response.StatusCode {
	case http.StatusNotFound:
		return errors.Mark(err, common.ErrNotFound)
	case http.StatusForbidden:
		return errors.Mark(err, common.ErrForbidden)
	default:
		return err
	}
}
