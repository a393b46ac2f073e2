package bot

import (
	"bedwarslb/internal/store"

	"github.com/bwmarrin/discordgo"
)

var (
	manageServer  int64 = discordgo.PermissionManageServer
	administrator int64 = discordgo.PermissionAdministrator
	dmPermission        = false
)

// The slash commands of the bot, registered globally when connecting
func Commands() []*discordgo.ApplicationCommand {

	username := []*discordgo.ApplicationCommandOption{{
		Type:        discordgo.ApplicationCommandOptionString,
		Name:        "username",
		Description: "Minecraft username",
		Required:    true,
		MaxLength:   16,
	}}

	return []*discordgo.ApplicationCommand{
		{
			Name:                     "player",
			Description:              "Manage the players of the leaderboard",
			DefaultMemberPermissions: &manageServer,
			DMPermission:             &dmPermission,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "add",
					Description: "Add a Minecraft player to the leaderboard",
					Options:     username,
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "remove",
					Description: "Remove a Minecraft player from the leaderboard",
					Options:     username,
				},
			},
		},
		{
			Name:                     "leaderboard",
			Description:              "Manage the leaderboard of this server",
			DefaultMemberPermissions: &manageServer,
			DMPermission:             &dmPermission,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "create",
					Description: "Create the Bedwars leaderboard of this server",
					Options: []*discordgo.ApplicationCommandOption{{
						Type:         discordgo.ApplicationCommandOptionChannel,
						Name:         "channel",
						Description:  "Channel for the leaderboard, this one by default",
						ChannelTypes: []discordgo.ChannelType{discordgo.ChannelTypeGuildText},
					}},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "remove",
					Description: "Remove the leaderboard of this server",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "refresh",
					Description: "Update the leaderboard right now",
				},
			},
		},
		{
			Name:                     "admin",
			Description:              "Administration commands",
			DefaultMemberPermissions: &administrator,
			DMPermission:             &dmPermission,
			Options: []*discordgo.ApplicationCommandOption{{
				Type:        discordgo.ApplicationCommandOptionSubCommand,
				Name:        "getfile",
				Description: "Download one of the data files of the bot",
				Options: []*discordgo.ApplicationCommandOption{{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "filename",
					Description: "File to download",
					Required:    true,
					Choices: []*discordgo.ApplicationCommandOptionChoice{
						{Name: store.PlayersFile, Value: store.PlayersFile},
						{Name: store.LeaderboardsFile, Value: store.LeaderboardsFile},
					},
				}},
			}},
		},
	}
}
