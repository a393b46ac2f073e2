package hypixel

import (
	"bedwarslb/internal/common"
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
)

// Route inside the Hypixel API with the data of a player
const ROUTE_PLAYER = "/v2/player"

type Client struct {
	baseURL  string
	proxy    *common.Proxy
	cooldown time.Duration
}

// Create a client for the Hypixel API. The cooldown is the time
// a request waits after the API reported a rate limit
func NewClient(baseURL string, apiKey string, timeout time.Duration, cooldown time.Duration, restrictions []common.Restriction) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		proxy:    common.NewProxy(map[string]string{"API-Key": apiKey}, timeout, restrictions),
		cooldown: cooldown,
	}
}

// Fetch the current stats of a player.
// It never fails: anything that is not usable data nor a rate limit is Empty.
// A rate limit makes the call sleep the cooldown before returning
func (client *Client) Fetch(ctx context.Context, uuid string) Result {

	if uuid == "" {
		return Empty()
	}

	endpoint := client.baseURL + ROUTE_PLAYER + "?" + url.Values{"uuid": {uuid}}.Encode()
	log.Debug().Msgf("Requesting stats for uuid %s", uuid)
	data, err := client.proxy.Request(ctx, endpoint)
	if err != nil {
		if errors.Is(err, common.ErrRateLimited) {
			log.Warn().Dur("cooldown", client.cooldown).Msgf("Hypixel rate limit reached while requesting uuid %s", uuid)
			if err := common.Sleep(ctx, client.cooldown); err != nil {
				log.Debug().Err(err).Msg("Rate limit cooldown interrupted")
			}
			return RateLimited()
		}
		log.Warn().Err(err).Msgf("Could not get stats for uuid %s", uuid)
		return Empty()
	}

	snapshot, err := UnmarshalSnapshot(data)
	if err != nil {
		log.Warn().Err(err).Msgf("Unusable stats received for uuid %s", uuid)
		return Empty()
	}

	return Ok(snapshot)
}
