package bot

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

const (
	COMMAND_PLAYER_ADD          = iota
	COMMAND_PLAYER_REMOVE       = iota
	COMMAND_LEADERBOARD_CREATE  = iota
	COMMAND_LEADERBOARD_REMOVE  = iota
	COMMAND_LEADERBOARD_REFRESH = iota
	COMMAND_ADMIN_GETFILE       = iota
)

const (
	PARSEID_OK                     = iota
	PARSEID_NO_COMMAND             = iota
	PARSEID_COMMAND_NOT_RECOGNISED = iota
	PARSEID_NO_INPUT               = iota
	PARSEID_NOT_A_USERNAME         = iota
)

var errorMessages map[int]string = map[int]string{
	PARSEID_NO_COMMAND:             "No command provided",
	PARSEID_COMMAND_NOT_RECOGNISED: "Command `%s` not recognised",
	PARSEID_NO_INPUT:               "Command `%s` requires an argument",
	PARSEID_NOT_A_USERNAME:         "Input `%s` is not a Minecraft username",
}

// Minecraft names are at most 16 letters, digits or underscores
var usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{1,16}$`)

var validate = func() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("minecraft_username", func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(err)
	}
	return v
}()

type ParseResult struct {
	command      int
	parseid      int
	errorMessage string
	arguments    string
}

// Parse the data of a slash command into one of the commands of the bot
func Parse(data discordgo.ApplicationCommandInteractionData) ParseResult {

	noInput := func(command int, commandString string) ParseResult {
		parseid := PARSEID_NO_INPUT
		return ParseResult{command: command, parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], commandString)}
	}
	notRecognised := func(commandString string) ParseResult {
		parseid := PARSEID_COMMAND_NOT_RECOGNISED
		return ParseResult{parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], commandString)}
	}

	// Every command of the bot is a group with subcommands
	if data.Name == "" || len(data.Options) == 0 || data.Options[0].Type != discordgo.ApplicationCommandOptionSubCommand {
		parseid := PARSEID_NO_COMMAND
		return ParseResult{parseid: parseid, errorMessage: errorMessages[parseid]}
	}
	subcommand := data.Options[0]
	commandString := data.Name + " " + subcommand.Name
	log.Debug().Msgf("Parsing command %s", commandString)

	switch data.Name {
	case "player":
		var command int
		switch subcommand.Name {
		case "add":
			// /player add <username>
			command = COMMAND_PLAYER_ADD
		case "remove":
			// /player remove <username>
			command = COMMAND_PLAYER_REMOVE
		default:
			return notRecognised(commandString)
		}
		username, ok := stringOption(subcommand.Options, "username")
		if !ok {
			return noInput(command, commandString)
		}
		return parseUsername(command, username)
	case "leaderboard":
		switch subcommand.Name {
		case "create":
			// /leaderboard create [channel]
			channelID, _ := stringOption(subcommand.Options, "channel")
			return ParseResult{command: COMMAND_LEADERBOARD_CREATE, parseid: PARSEID_OK, arguments: channelID}
		case "remove":
			// /leaderboard remove
			return ParseResult{command: COMMAND_LEADERBOARD_REMOVE, parseid: PARSEID_OK}
		case "refresh":
			// /leaderboard refresh
			return ParseResult{command: COMMAND_LEADERBOARD_REFRESH, parseid: PARSEID_OK}
		default:
			return notRecognised(commandString)
		}
	case "admin":
		switch subcommand.Name {
		case "getfile":
			// /admin getfile <filename>
			command := COMMAND_ADMIN_GETFILE
			filename, ok := stringOption(subcommand.Options, "filename")
			if !ok {
				return noInput(command, commandString)
			}
			return ParseResult{command: command, parseid: PARSEID_OK, arguments: filename}
		default:
			return notRecognised(commandString)
		}
	default:
		return notRecognised(commandString)
	}
}

func parseUsername(command int, username string) ParseResult {
	if err := validate.Var(username, "minecraft_username"); err != nil {
		parseid := PARSEID_NOT_A_USERNAME
		return ParseResult{command: command, parseid: parseid, errorMessage: fmt.Sprintf(errorMessages[parseid], username)}
	}
	return ParseResult{command: command, parseid: PARSEID_OK, arguments: username}
}

// Value of a string or channel option, trimmed. Blank values count as missing
func stringOption(options []*discordgo.ApplicationCommandInteractionDataOption, name string) (string, bool) {
	for _, option := range options {
		if option.Name != name {
			continue
		}
		value, ok := option.Value.(string)
		value = strings.TrimSpace(value)
		return value, ok && value != ""
	}
	return "", false
}
