package mojang

import (
	"bedwarslb/internal/common"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
)

// Route inside the Mojang API to find a profile by name
const ROUTE_PROFILE = "/users/profiles/minecraft/%s"

// Mojang allows 600 profile lookups every 10 minutes
var restrictions = []common.Restriction{{Requests: 600, Duration: 10 * time.Minute}}

// A Minecraft account: its stable id and the name with its real casing
type Profile struct {
	UUID     string
	Username string
}

type Client struct {
	baseURL string
	proxy   *common.Proxy
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		proxy:   common.NewProxy(nil, timeout, restrictions),
	}
}

// Resolve a user supplied name into a profile. Whatever goes wrong
// (unknown name, timeout, malformed response) is reported as common.ErrNotFound
func (client *Client) Resolve(ctx context.Context, username string) (Profile, error) {

	username = strings.TrimSpace(username)
	if username == "" {
		return Profile{}, errors.Wrap(common.ErrNotFound, "empty username")
	}

	endpoint := client.baseURL + fmt.Sprintf(ROUTE_PROFILE, url.PathEscape(username))
	log.Debug().Msgf("Requesting to url %s", endpoint)
	data, err := client.proxy.Request(ctx, endpoint)
	if err != nil {
		if !errors.Is(err, common.ErrNotFound) {
			log.Warn().Err(err).Msgf("Profile lookup failed for %s", username)
		}
		return Profile{}, errors.Mark(errors.Wrapf(err, "profile for %s", username), common.ErrNotFound)
	}

	profile, err := UnmarshalProfile(data)
	if err != nil {
		log.Warn().Err(err).Msgf("Malformed profile received for %s", username)
		return Profile{}, errors.Mark(errors.Wrapf(err, "profile for %s", username), common.ErrNotFound)
	}

	log.Debug().Msgf("Found uuid %s for username %s", profile.UUID, profile.Username)
	return profile, nil
}

func UnmarshalProfile(data []byte) (Profile, error) {

	var raw struct {
		Id   string `json:"id"`
		Name string `json:"name"`
	}
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return Profile{}, errors.Wrap(err, "decode profile")
	}
	if raw.Id == "" || raw.Name == "" {
		return Profile{}, errors.New("profile without id or name")
	}

	return Profile{UUID: raw.Id, Username: raw.Name}, nil
}
