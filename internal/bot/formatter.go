package bot

import (
	"bedwarslb/internal/leaderboard"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Leaderboards are gold, notices about work in progress are blue
const (
	color            int = 0xF1C40F
	placeholderColor int = 0x3498DB
)

func LeaderboardEmbed(document leaderboard.Document) *discordgo.MessageEmbed {

	embed := &discordgo.MessageEmbed{
		Title:  fmt.Sprintf("Bedwars Level Leaderboard | %s", document.Guild.Name),
		Color:  color,
		Footer: &discordgo.MessageEmbedFooter{Text: document.Footer()},
	}
	if document.Guild.IconURL != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: document.Guild.IconURL}
	}
	switch document.Status {
	case leaderboard.StatusNoPlayers:
		embed.Description = "No players have been registered yet.\nAdd one with `/player add`."
	case leaderboard.StatusNoData:
		embed.Description = "Could not get the leaderboard data."
	default:
		embed.Description = strings.Join(document.Lines(), "\n")
	}
	return embed
}

func UpdatingEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Updating…",
		Description: "The leaderboard is being updated, this can take a moment.",
		Color:       placeholderColor,
	}
}

func CreatingEmbed() *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{Title: "Creating leaderboard…", Color: placeholderColor}
}

func InputNotValid(errorMessage string) []Response {
	return []Response{ResponseString{fmt.Sprintf("Input not valid: \n> %s", errorMessage)}}
}

func SomethingWentWrong() []Response {
	return []Response{ResponseString{"Something went wrong, please try again later."}}
}

func OnlyInServers() []Response {
	return []Response{ResponseString{"Commands can only be used inside a server."}}
}

func PlayerNotFound(username string) []Response {
	return []Response{ResponseString{fmt.Sprintf("Minecraft player `%s` was not found.", username)}}
}

func PlayerAlreadyRegistered(username string) []Response {
	return []Response{ResponseString{fmt.Sprintf("Player `%s` is already registered.", username)}}
}

func PlayerRegistered(username string) []Response {
	return []Response{ResponseString{fmt.Sprintf("Player `%s` has been added. Updating the leaderboard…", username)}}
}

func PlayerNotPreviouslyRegistered(username string) []Response {
	return []Response{ResponseString{fmt.Sprintf("Player `%s` is not registered.", username)}}
}

func PlayerUnregistered(username string) []Response {
	return []Response{ResponseString{fmt.Sprintf("Player `%s` has been removed. Updating the leaderboard…", username)}}
}

func LeaderboardAlreadyExists() []Response {
	return []Response{ResponseString{"This server already has a leaderboard."}}
}

func LeaderboardCreated(channelID string) []Response {
	return []Response{ResponseString{fmt.Sprintf("The leaderboard has been created in <#%s>.", channelID)}}
}

func NoLeaderboard() []Response {
	return []Response{ResponseString{"This server has no leaderboard. Create one with `/leaderboard create`."}}
}

func LeaderboardRemoved() []Response {
	return []Response{ResponseString{"The leaderboard has been removed."}}
}

func LeaderboardRefreshed() []Response {
	return []Response{ResponseString{"The leaderboard has been updated."}}
}

func LeaderboardMessageGone() []Response {
	return []Response{ResponseString{"The leaderboard message no longer exists, so the leaderboard has been removed. Create a new one with `/leaderboard create`."}}
}

func MissingPermissions(channelID string) []Response {
	return []Response{ResponseString{fmt.Sprintf("I am not allowed to send or edit messages in <#%s>.", channelID)}}
}

func FileNotValid(filename string) []Response {
	return []Response{ResponseString{fmt.Sprintf("`%s` is not a file that can be downloaded.", filename)}}
}

func FileNotFound(filename string) []Response {
	return []Response{ResponseString{fmt.Sprintf("`%s` was not found on the server.", filename)}}
}

func FileContent(filename string, content []byte) []Response {
	return []Response{ResponseFile{
		content: fmt.Sprintf("Sending `%s`.", filename),
		name:    filename,
		data:    content,
	}}
}
