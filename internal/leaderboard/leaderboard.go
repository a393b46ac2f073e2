// Package leaderboard turns the stats of the players registered in a
// guild into a ranking ready to be displayed.
package leaderboard

import (
	"bedwarslb/internal/hypixel"
	"fmt"
	"sort"
	"strings"
	"time"
)

// The ranking never shows more players than this
const MaxRows = 25

// Footer timestamps are displayed in Japan Standard Time
var JST = time.FixedZone("JST", 9*60*60)

type Status int

const (
	StatusRanked Status = iota
	StatusNoData
	StatusNoPlayers
)

// The guild the ranking is rendered for
type GuildContext struct {
	ID      string
	Name    string
	IconURL string
}

// A registered player and the result of fetching its stats
type Entry struct {
	Name   string
	Result hypixel.Result
}

// One line of the ranking
type Row struct {
	Position int
	Name     string
	Level    int
	Badge    string
	Prestige string
}

type Document struct {
	Status    Status
	Guild     GuildContext
	Rows      []Row
	UpdatedAt time.Time
}

// Render the ranking of the provided entries. An empty list of entries
// means the guild has no registered players at all
func Render(guild GuildContext, entries []Entry, now time.Time) Document {

	document := Document{Guild: guild, UpdatedAt: now.In(JST)}
	if len(entries) == 0 {
		document.Status = StatusNoPlayers
		return document
	}

	// Keep only the players with data
	type ranked struct {
		name     string
		snapshot hypixel.Snapshot
	}
	players := make([]ranked, 0, len(entries))
	for _, entry := range entries {
		if !entry.Result.OK() {
			continue
		}
		players = append(players, ranked{entry.Name, entry.Result.Snapshot})
	}
	if len(players) == 0 {
		document.Status = StatusNoData
		return document
	}

	// Ties keep the registration order
	sort.SliceStable(players, func(i, j int) bool {
		return level(players[i].snapshot) > level(players[j].snapshot)
	})
	if len(players) > MaxRows {
		players = players[:MaxRows]
	}

	document.Status = StatusRanked
	document.Rows = make([]Row, len(players))
	for i, player := range players {
		lvl := level(player.snapshot)
		document.Rows[i] = Row{
			Position: i + 1,
			Name:     player.name,
			Level:    lvl,
			Badge:    Badge(player.snapshot),
			Prestige: Prestige(lvl),
		}
	}
	return document
}

func level(snapshot hypixel.Snapshot) int {
	return max(snapshot.BedwarsLevel, 0)
}

// Prestige label of a bedwars level, e.g. [1234✪]
func Prestige(level int) string {
	var star string
	switch {
	case level < 1099:
		star = "✫"
	case level < 2099:
		star = "✪"
	case level < 3099:
		star = "⚝"
	default:
		star = "✥"
	}
	return fmt.Sprintf("[%d%s]", level, star)
}

// Badge of the account. Staff and creator ranks come first, then the
// monthly subscription, then the permanent package
func Badge(snapshot hypixel.Snapshot) string {
	switch snapshot.Rank {
	case "YOUTUBER":
		return "[YOUTUBE]"
	case "ADMIN":
		return "[ADMIN]"
	case "MODERATOR":
		return "[MOD]"
	}
	if snapshot.MonthlyPackageRank == "SUPERSTAR" {
		return "[MVP++]"
	}
	switch snapshot.NewPackageRank {
	case "MVP_PLUS":
		return "[MVP+]"
	case "MVP":
		return "[MVP]"
	case "VIP_PLUS":
		return "[VIP+]"
	case "VIP":
		return "[VIP]"
	}
	return ""
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`,
	`*`, `\*`,
	`_`, `\_`,
	`~`, `\~`,
	"`", "\\`",
	`|`, `\|`,
	`>`, `\>`,
)

// Escape the characters Discord markdown would interpret
func EscapeMarkdown(text string) string {
	return markdownEscaper.Replace(text)
}

func (row Row) String() string {
	parts := []string{fmt.Sprintf("**#%d**", row.Position)}
	if row.Badge != "" {
		parts = append(parts, row.Badge)
	}
	parts = append(parts, row.Prestige, EscapeMarkdown(row.Name))
	return strings.Join(parts, " ")
}

// The ranking as text lines, one per row
func (document Document) Lines() []string {
	lines := make([]string, len(document.Rows))
	for i, row := range document.Rows {
		lines[i] = row.String()
	}
	return lines
}

func (document Document) Footer() string {
	return "Last updated: " + document.UpdatedAt.Format("2006-01-02 15:04:05") + " JST"
}
