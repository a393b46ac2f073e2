package hypixel

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const playerBody = `{
	"success": true,
	"player": {
		"uuid": "b876ec32e396476ba1158438d83c67d4",
		"displayname": "Technoblade",
		"rank": "YOUTUBER",
		"newPackageRank": "MVP_PLUS",
		"monthlyPackageRank": "SUPERSTAR",
		"achievements": {"bedwars_level": 1234}
	}
}`

func TestFetch(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.Header.Get("API-Key") != "key" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		assert.Equal(t, "/v2/player", r.URL.Path)
		switch r.URL.Query().Get("uuid") {
		case "known":
			_, _ = w.Write([]byte(playerBody))
		case "never-joined":
			_, _ = w.Write([]byte(`{"success": true, "player": null}`))
		case "failure":
			_, _ = w.Write([]byte(`{"success": false, "cause": "Malformed UUID"}`))
		case "broken":
			_, _ = w.Write([]byte(`{"success": tru`))
		case "limited":
			w.WriteHeader(http.StatusTooManyRequests)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", time.Second, 30*time.Millisecond, nil)
	ctx := context.Background()

	result := client.Fetch(ctx, "known")
	require.Equal(t, ResultOK, result.Kind)
	assert.Equal(t, Snapshot{
		UUID:               "b876ec32e396476ba1158438d83c67d4",
		DisplayName:        "Technoblade",
		Rank:               "YOUTUBER",
		MonthlyPackageRank: "SUPERSTAR",
		NewPackageRank:     "MVP_PLUS",
		BedwarsLevel:       1234,
	}, result.Snapshot)

	for _, uuid := range []string{"never-joined", "failure", "broken", "exploding"} {
		assert.Equal(t, ResultEmpty, client.Fetch(ctx, uuid).Kind, uuid)
	}

	start := time.Now()
	result = client.Fetch(ctx, "limited")
	assert.Equal(t, ResultRateLimited, result.Kind)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)

	before := requests.Load()
	assert.Equal(t, ResultEmpty, client.Fetch(ctx, "").Kind)
	assert.Equal(t, before, requests.Load())

	wrongKey := NewClient(server.URL, "other", time.Second, 0, nil)
	assert.Equal(t, ResultEmpty, wrongKey.Fetch(ctx, "known").Kind)
}

func TestFetchTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	client := NewClient(server.URL, "key", 20*time.Millisecond, 0, nil)
	assert.Equal(t, ResultEmpty, client.Fetch(context.Background(), "slow").Kind)
}

func TestUnmarshalSnapshotDefaults(t *testing.T) {
	snapshot, err := UnmarshalSnapshot([]byte(`{"success": true, "player": {"displayname": "Fresh"}}`))
	require.NoError(t, err)
	assert.Equal(t, 0, snapshot.BedwarsLevel)
	assert.Equal(t, "", snapshot.Rank)

	snapshot, err = UnmarshalSnapshot([]byte(`{"success": true, "player": {"achievements": {"bedwars_level": -3}}}`))
	require.NoError(t, err)
	assert.Equal(t, 0, snapshot.BedwarsLevel)

	_, err = UnmarshalSnapshot([]byte(`{"success": true, "player": null}`))
	assert.ErrorIs(t, err, ErrNoPlayer)
}

func TestResultKindString(t *testing.T) {
	assert.Equal(t, "ok", ResultOK.String())
	assert.Equal(t, "rate limited", RateLimited().Kind.String())
	assert.True(t, Ok(Snapshot{}).OK())
	assert.False(t, Empty().OK())
}
