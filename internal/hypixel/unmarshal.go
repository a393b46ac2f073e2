package hypixel

import (
	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
)

var ErrNoPlayer = errors.New("player has never joined the network")

func UnmarshalSnapshot(data []byte) (Snapshot, error) {

	// unmarshal
	var raw struct {
		Success bool   `json:"success"`
		Cause   string `json:"cause"`
		Player  *struct {
			UUID               string `json:"uuid"`
			DisplayName        string `json:"displayname"`
			Rank               string `json:"rank"`
			MonthlyPackageRank string `json:"monthlyPackageRank"`
			NewPackageRank     string `json:"newPackageRank"`
			Achievements       struct {
				BedwarsLevel float64 `json:"bedwars_level"`
			} `json:"achievements"`
		} `json:"player"`
	}
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return Snapshot{}, errors.Wrap(err, "decode player")
	}
	if !raw.Success {
		return Snapshot{}, errors.Newf("request not successful: %s", raw.Cause)
	}
	if raw.Player == nil {
		return Snapshot{}, ErrNoPlayer
	}

	// A missing level is a level 0 player
	level := int(raw.Player.Achievements.BedwarsLevel)
	if level < 0 {
		level = 0
	}

	return Snapshot{
		UUID:               raw.Player.UUID,
		DisplayName:        raw.Player.DisplayName,
		Rank:               raw.Player.Rank,
		MonthlyPackageRank: raw.Player.MonthlyPackageRank,
		NewPackageRank:     raw.Player.NewPackageRank,
		BedwarsLevel:       level,
	}, nil
}
