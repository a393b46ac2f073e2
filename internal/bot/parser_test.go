package bot

import (
	"testing"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
)

func command(name string, subcommand string, options ...*discordgo.ApplicationCommandInteractionDataOption) discordgo.ApplicationCommandInteractionData {
	return discordgo.ApplicationCommandInteractionData{
		Name: name,
		Options: []*discordgo.ApplicationCommandInteractionDataOption{{
			Name:    subcommand,
			Type:    discordgo.ApplicationCommandOptionSubCommand,
			Options: options,
		}},
	}
}

func option(name string, optionType discordgo.ApplicationCommandOptionType, value any) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{Name: name, Type: optionType, Value: value}
}

func TestParse(t *testing.T) {
	username := func(value any) *discordgo.ApplicationCommandInteractionDataOption {
		return option("username", discordgo.ApplicationCommandOptionString, value)
	}

	tests := []struct {
		name     string
		data     discordgo.ApplicationCommandInteractionData
		expected ParseResult
	}{
		{
			"player add",
			command("player", "add", username("Notch")),
			ParseResult{command: COMMAND_PLAYER_ADD, parseid: PARSEID_OK, arguments: "Notch"},
		},
		{
			"player add trims",
			command("player", "add", username("  jeb_ ")),
			ParseResult{command: COMMAND_PLAYER_ADD, parseid: PARSEID_OK, arguments: "jeb_"},
		},
		{
			"player remove",
			command("player", "remove", username("Notch")),
			ParseResult{command: COMMAND_PLAYER_REMOVE, parseid: PARSEID_OK, arguments: "Notch"},
		},
		{
			"player add without username",
			command("player", "add"),
			ParseResult{command: COMMAND_PLAYER_ADD, parseid: PARSEID_NO_INPUT, errorMessage: "Command `player add` requires an argument"},
		},
		{
			"player add with blank username",
			command("player", "add", username("   ")),
			ParseResult{command: COMMAND_PLAYER_ADD, parseid: PARSEID_NO_INPUT, errorMessage: "Command `player add` requires an argument"},
		},
		{
			"player add with invalid username",
			command("player", "add", username("not a name")),
			ParseResult{command: COMMAND_PLAYER_ADD, parseid: PARSEID_NOT_A_USERNAME, errorMessage: "Input `not a name` is not a Minecraft username"},
		},
		{
			"player add with long username",
			command("player", "add", username("abcdefghijklmnopq")),
			ParseResult{command: COMMAND_PLAYER_ADD, parseid: PARSEID_NOT_A_USERNAME, errorMessage: "Input `abcdefghijklmnopq` is not a Minecraft username"},
		},
		{
			"player unknown subcommand",
			command("player", "list"),
			ParseResult{parseid: PARSEID_COMMAND_NOT_RECOGNISED, errorMessage: "Command `player list` not recognised"},
		},
		{
			"leaderboard create",
			command("leaderboard", "create"),
			ParseResult{command: COMMAND_LEADERBOARD_CREATE, parseid: PARSEID_OK},
		},
		{
			"leaderboard create in channel",
			command("leaderboard", "create", option("channel", discordgo.ApplicationCommandOptionChannel, "123456789")),
			ParseResult{command: COMMAND_LEADERBOARD_CREATE, parseid: PARSEID_OK, arguments: "123456789"},
		},
		{
			"leaderboard remove",
			command("leaderboard", "remove"),
			ParseResult{command: COMMAND_LEADERBOARD_REMOVE, parseid: PARSEID_OK},
		},
		{
			"leaderboard refresh",
			command("leaderboard", "refresh"),
			ParseResult{command: COMMAND_LEADERBOARD_REFRESH, parseid: PARSEID_OK},
		},
		{
			"admin getfile",
			command("admin", "getfile", option("filename", discordgo.ApplicationCommandOptionString, "players.json")),
			ParseResult{command: COMMAND_ADMIN_GETFILE, parseid: PARSEID_OK, arguments: "players.json"},
		},
		{
			"admin getfile without filename",
			command("admin", "getfile"),
			ParseResult{command: COMMAND_ADMIN_GETFILE, parseid: PARSEID_NO_INPUT, errorMessage: "Command `admin getfile` requires an argument"},
		},
		{
			"unknown command",
			command("rank", "show"),
			ParseResult{parseid: PARSEID_COMMAND_NOT_RECOGNISED, errorMessage: "Command `rank show` not recognised"},
		},
		{
			"no subcommand",
			discordgo.ApplicationCommandInteractionData{Name: "player"},
			ParseResult{parseid: PARSEID_NO_COMMAND, errorMessage: "No command provided"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, Parse(test.data))
		})
	}
}

func TestCommandsMatchParser(t *testing.T) {
	for _, definition := range Commands() {
		assert.False(t, *definition.DMPermission)
		assert.NotNil(t, definition.DefaultMemberPermissions)
		for _, subcommand := range definition.Options {
			data := discordgo.ApplicationCommandInteractionData{
				Name: definition.Name,
				Options: []*discordgo.ApplicationCommandInteractionDataOption{{
					Name: subcommand.Name,
					Type: subcommand.Type,
				}},
			}
			parseid := Parse(data).parseid
			assert.NotEqual(t, PARSEID_COMMAND_NOT_RECOGNISED, parseid, "%s %s", definition.Name, subcommand.Name)
		}
	}
}
