package bot

import (
	"bedwarslb/internal/common"
	"bedwarslb/internal/hypixel"
	"bedwarslb/internal/leaderboard"
	"bedwarslb/internal/mojang"
	"context"
	"strconv"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	"github.com/cockroachdb/errors"
)

type fakePlatform struct {
	mu         sync.Mutex
	guilds     map[string]leaderboard.GuildContext
	panicGuild string
	messages   map[string]*discordgo.MessageEmbed
	edits      []string
	deleted    []string
	sendErr    error
	editErr    map[string]error
	nextID     int
}

func newFakePlatform(guildIDs ...string) *fakePlatform {
	platform := &fakePlatform{
		guilds:   map[string]leaderboard.GuildContext{},
		messages: map[string]*discordgo.MessageEmbed{},
		editErr:  map[string]error{},
		nextID:   1000,
	}
	for _, guildID := range guildIDs {
		platform.guilds[guildID] = leaderboard.GuildContext{ID: guildID, Name: "Guild " + guildID}
	}
	return platform
}

func messageKey(channelID string, messageID string) string {
	return channelID + "/" + messageID
}

// Put a message in a channel as if the bot had sent it earlier
func (platform *fakePlatform) addMessage(channelID string, messageID string) {
	platform.mu.Lock()
	defer platform.mu.Unlock()
	platform.messages[messageKey(channelID, messageID)] = &discordgo.MessageEmbed{}
}

func (platform *fakePlatform) message(channelID string, messageID string) *discordgo.MessageEmbed {
	platform.mu.Lock()
	defer platform.mu.Unlock()
	return platform.messages[messageKey(channelID, messageID)]
}

func (platform *fakePlatform) Guild(guildID string) (leaderboard.GuildContext, error) {
	if guildID == platform.panicGuild {
		panic("guild lookup exploded")
	}
	platform.mu.Lock()
	defer platform.mu.Unlock()
	guild, ok := platform.guilds[guildID]
	if !ok {
		return leaderboard.GuildContext{}, errors.Wrapf(common.ErrNotFound, "guild %s", guildID)
	}
	return guild, nil
}

func (platform *fakePlatform) SendEmbed(channelID string, embed *discordgo.MessageEmbed) (string, error) {
	platform.mu.Lock()
	defer platform.mu.Unlock()
	if platform.sendErr != nil {
		return "", platform.sendErr
	}
	platform.nextID++
	messageID := strconv.Itoa(platform.nextID)
	platform.messages[messageKey(channelID, messageID)] = embed
	return messageID, nil
}

func (platform *fakePlatform) EditEmbed(channelID string, messageID string, embed *discordgo.MessageEmbed) error {
	platform.mu.Lock()
	defer platform.mu.Unlock()
	if err := platform.editErr[channelID]; err != nil {
		return err
	}
	key := messageKey(channelID, messageID)
	if _, ok := platform.messages[key]; !ok {
		return errors.Wrapf(common.ErrNotFound, "message %s", key)
	}
	platform.messages[key] = embed
	platform.edits = append(platform.edits, key+" "+embed.Title)
	return nil
}

func (platform *fakePlatform) DeleteMessage(channelID string, messageID string) error {
	platform.mu.Lock()
	defer platform.mu.Unlock()
	key := messageKey(channelID, messageID)
	if _, ok := platform.messages[key]; !ok {
		return errors.Wrapf(common.ErrNotFound, "message %s", key)
	}
	delete(platform.messages, key)
	platform.deleted = append(platform.deleted, key)
	return nil
}

type fakeFetcher struct {
	mu      sync.Mutex
	results map[string]hypixel.Result
	calls   []string
	// Runs before every fetch, to change things while a refresh is in progress
	before func(uuid string)
}

func (fetcher *fakeFetcher) Fetch(ctx context.Context, uuid string) hypixel.Result {
	if fetcher.before != nil {
		fetcher.before(uuid)
	}
	fetcher.mu.Lock()
	defer fetcher.mu.Unlock()
	fetcher.calls = append(fetcher.calls, uuid)
	if result, ok := fetcher.results[uuid]; ok {
		return result
	}
	return hypixel.Empty()
}

type fakeResolver struct {
	profiles map[string]mojang.Profile
}

func (resolver *fakeResolver) Resolve(ctx context.Context, username string) (mojang.Profile, error) {
	profile, ok := resolver.profiles[strings.ToLower(username)]
	if !ok {
		return mojang.Profile{}, errors.Wrapf(common.ErrNotFound, "player %s", username)
	}
	return profile, nil
}

func level(uuid string, bedwarsLevel int) hypixel.Result {
	return hypixel.Ok(hypixel.Snapshot{UUID: uuid, BedwarsLevel: bedwarsLevel})
}
