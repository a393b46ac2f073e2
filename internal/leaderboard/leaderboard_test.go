package leaderboard

import (
	"bedwarslb/internal/hypixel"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var guild = GuildContext{ID: "1", Name: "Bedwars Club"}

var now = time.Date(2026, 10, 19, 3, 30, 0, 0, time.UTC)

func entry(name string, level int) Entry {
	return Entry{Name: name, Result: hypixel.Ok(hypixel.Snapshot{BedwarsLevel: level})}
}

func names(document Document) []string {
	out := make([]string, len(document.Rows))
	for i, row := range document.Rows {
		out[i] = row.Name
	}
	return out
}

func TestRenderSortsByLevel(t *testing.T) {
	document := Render(guild, []Entry{entry("low", 500), entry("mid", 1500), entry("high", 2500)}, now)

	require.Equal(t, StatusRanked, document.Status)
	assert.Equal(t, []string{"high", "mid", "low"}, names(document))
	assert.Equal(t, []string{
		"**#1** [2500⚝] high",
		"**#2** [1500✪] mid",
		"**#3** [500✫] low",
	}, document.Lines())
}

func TestRenderIsStable(t *testing.T) {
	entries := []Entry{entry("a", 100), entry("b", 300), entry("c", 100), entry("d", 300), entry("e", 100)}
	document := Render(guild, entries, now)

	assert.Equal(t, []string{"b", "d", "a", "c", "e"}, names(document))
}

func TestRenderTruncates(t *testing.T) {
	entries := make([]Entry, 0, 40)
	for i := 0; i < 40; i++ {
		entries = append(entries, entry(fmt.Sprintf("p%02d", i), i*10))
	}
	document := Render(guild, entries, now)

	require.Len(t, document.Rows, MaxRows)
	require.Len(t, document.Lines(), MaxRows)
	assert.Equal(t, 390, document.Rows[0].Level)
	assert.Equal(t, 150, document.Rows[MaxRows-1].Level)
	assert.Equal(t, MaxRows, document.Rows[MaxRows-1].Position)
}

func TestRenderDropsMissingData(t *testing.T) {
	entries := []Entry{
		entry("ok", 10),
		{Name: "limited", Result: hypixel.RateLimited()},
		{Name: "empty", Result: hypixel.Empty()},
		entry("also ok", 20),
	}
	document := Render(guild, entries, now)

	assert.Equal(t, []string{"also ok", "ok"}, names(document))
}

func TestRenderPlaceholders(t *testing.T) {
	document := Render(guild, nil, now)
	assert.Equal(t, StatusNoPlayers, document.Status)
	assert.Empty(t, document.Lines())

	document = Render(guild, []Entry{{Name: "x", Result: hypixel.Empty()}}, now)
	assert.Equal(t, StatusNoData, document.Status)
	assert.Empty(t, document.Rows)
}

func TestRenderIsIdempotent(t *testing.T) {
	entries := []Entry{entry("a", 5), entry("b", 3000), entry("c", 5)}
	first := Render(guild, entries, now)
	second := Render(guild, entries, now.Add(time.Hour))

	assert.Equal(t, first.Lines(), second.Lines())
}

func TestPrestigeBoundaries(t *testing.T) {
	cases := map[int]string{
		0:    "[0✫]",
		1098: "[1098✫]",
		1099: "[1099✪]",
		2098: "[2098✪]",
		2099: "[2099⚝]",
		3098: "[3098⚝]",
		3099: "[3099✥]",
		5000: "[5000✥]",
	}
	for level, want := range cases {
		assert.Equal(t, want, Prestige(level), "level %d", level)
	}
}

func TestBadgePriority(t *testing.T) {
	cases := []struct {
		snapshot hypixel.Snapshot
		want     string
	}{
		{hypixel.Snapshot{Rank: "YOUTUBER", MonthlyPackageRank: "SUPERSTAR", NewPackageRank: "MVP_PLUS"}, "[YOUTUBE]"},
		{hypixel.Snapshot{Rank: "ADMIN", MonthlyPackageRank: "SUPERSTAR"}, "[ADMIN]"},
		{hypixel.Snapshot{Rank: "MODERATOR", NewPackageRank: "VIP"}, "[MOD]"},
		{hypixel.Snapshot{Rank: "NORMAL", MonthlyPackageRank: "SUPERSTAR", NewPackageRank: "MVP_PLUS"}, "[MVP++]"},
		{hypixel.Snapshot{MonthlyPackageRank: "NONE", NewPackageRank: "MVP_PLUS"}, "[MVP+]"},
		{hypixel.Snapshot{NewPackageRank: "MVP"}, "[MVP]"},
		{hypixel.Snapshot{NewPackageRank: "VIP_PLUS"}, "[VIP+]"},
		{hypixel.Snapshot{NewPackageRank: "VIP"}, "[VIP]"},
		{hypixel.Snapshot{}, ""},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Badge(c.snapshot), "%+v", c.snapshot)
	}
}

func TestRowString(t *testing.T) {
	row := Row{Position: 4, Name: "dream_team_", Level: 2200, Badge: "[MVP+]", Prestige: Prestige(2200)}
	assert.Equal(t, `**#4** [MVP+] [2200⚝] dream\_team\_`, row.String())
}

func TestEscapeMarkdown(t *testing.T) {
	assert.Equal(t, `a\_b\*c\~d\|e\\f`, EscapeMarkdown(`a_b*c~d|e\f`))
	assert.Equal(t, "Notch", EscapeMarkdown("Notch"))
}

func TestFooterUsesJST(t *testing.T) {
	document := Render(guild, nil, now)
	assert.Equal(t, "Last updated: 2026-10-19 12:30:00 JST", document.Footer())
}
