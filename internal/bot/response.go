package bot

import (
	"bytes"

	"github.com/bwmarrin/discordgo"
)

// Every reply to a command is a follow up only the caller can see
type Response interface {
	Params() *discordgo.WebhookParams
}

type ResponseString struct {
	string
}

type ResponseFile struct {
	content string
	name    string
	data    []byte
}

func (response ResponseString) Params() *discordgo.WebhookParams {
	return &discordgo.WebhookParams{Content: response.string, Flags: discordgo.MessageFlagsEphemeral}
}

func (response ResponseFile) Params() *discordgo.WebhookParams {
	return &discordgo.WebhookParams{
		Content: response.content,
		Files: []*discordgo.File{{
			Name:        response.name,
			ContentType: "application/json",
			Reader:      bytes.NewReader(response.data),
		}},
		Flags: discordgo.MessageFlagsEphemeral,
	}
}
