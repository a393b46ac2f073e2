package store

import (
	"strconv"

	"github.com/cockroachdb/errors"
)

// A Discord id. Written as a JSON number, read from a number or a string
type Snowflake string

func (s Snowflake) MarshalJSON() ([]byte, error) {
	id, err := strconv.ParseUint(string(s), 10, 64)
	if err != nil {
		return strconv.AppendQuote(nil, string(s)), nil
	}
	return strconv.AppendUint(nil, id, 10), nil
}

func (s *Snowflake) UnmarshalJSON(data []byte) error {
	text := string(data)
	if text == "null" {
		*s = ""
		return nil
	}
	if unquoted, err := strconv.Unquote(text); err == nil {
		*s = Snowflake(unquoted)
		return nil
	}
	if _, err := strconv.ParseUint(text, 10, 64); err != nil {
		return errors.Newf("invalid snowflake %s", text)
	}
	*s = Snowflake(text)
	return nil
}

// A player registered in a guild
type Player struct {
	Username string `json:"username"`
	UUID     string `json:"uuid"`
}

// Where the leaderboard of a guild lives
type Target struct {
	ChannelID Snowflake `json:"channel_id"`
	MessageID Snowflake `json:"message_id"`
}

// Registered players per guild id
type Players map[string][]Player

// Leaderboard targets per guild id
type Leaderboards map[string]Target
