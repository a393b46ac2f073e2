// Package store keeps the registered players and the leaderboard
// messages of every guild in two JSON documents.
//
// Each operation loads the whole document, changes it and writes it
// back. A single mutex serialises the operations of the process, so a
// scheduled refresh and a command never overwrite each other's changes.
package store

import (
	"bedwarslb/internal/common"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog/log"
)

const (
	PlayersFile      = "players.json"
	LeaderboardsFile = "leaderboards.json"
)

type Store struct {
	mu  sync.Mutex
	dir string
}

func New(dir string) *Store {
	return &Store{dir: dir}
}

// Path of one of the documents. Only the two document names are accepted
func (s *Store) FilePath(name string) (string, error) {
	switch name {
	case PlayersFile, LeaderboardsFile:
		return filepath.Join(s.dir, name), nil
	default:
		return "", errors.Wrapf(common.ErrNotFound, "unknown file %q", name)
	}
}

// Read one of the documents as raw bytes
func (s *Store) ReadFile(name string) ([]byte, error) {
	path, err := s.FilePath(name)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrapf(common.ErrNotFound, "file %s", name)
	}
	return data, err
}

func (s *Store) Players(guildID string) ([]Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	players, err := load[Players](s.dir, PlayersFile)
	if err != nil {
		return nil, err
	}
	return players[guildID], nil
}

// Register a player in a guild. A player whose uuid is already
// registered is rejected with common.ErrAlreadyExists
func (s *Store) AddPlayer(guildID string, player Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	players, err := load[Players](s.dir, PlayersFile)
	if err != nil {
		return err
	}
	for _, registered := range players[guildID] {
		if registered.UUID == player.UUID {
			return errors.Wrapf(common.ErrAlreadyExists, "player %s in guild %s", player.Username, guildID)
		}
	}
	players[guildID] = append(players[guildID], player)
	return s.save(PlayersFile, players)
}

// Remove the first player of the guild whose name matches, ignoring case.
// The removed player is returned so that callers can show its exact name
func (s *Store) RemovePlayer(guildID string, username string) (Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	players, err := load[Players](s.dir, PlayersFile)
	if err != nil {
		return Player{}, err
	}
	list := players[guildID]
	for i, registered := range list {
		if strings.EqualFold(registered.Username, username) {
			players[guildID] = append(list[:i:i], list[i+1:]...)
			return registered, s.save(PlayersFile, players)
		}
	}
	return Player{}, errors.Wrapf(common.ErrNotFound, "player %s in guild %s", username, guildID)
}

func (s *Store) Leaderboards() (Leaderboards, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return load[Leaderboards](s.dir, LeaderboardsFile)
}

func (s *Store) Leaderboard(guildID string) (Target, bool, error) {
	leaderboards, err := s.Leaderboards()
	if err != nil {
		return Target{}, false, err
	}
	target, ok := leaderboards[guildID]
	return target, ok, nil
}

// Record the leaderboard of a guild. A guild can only have one,
// so a second one is rejected with common.ErrAlreadyExists
func (s *Store) CreateLeaderboard(guildID string, target Target) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	leaderboards, err := load[Leaderboards](s.dir, LeaderboardsFile)
	if err != nil {
		return err
	}
	if _, ok := leaderboards[guildID]; ok {
		return errors.Wrapf(common.ErrAlreadyExists, "leaderboard of guild %s", guildID)
	}
	leaderboards[guildID] = target
	return s.save(LeaderboardsFile, leaderboards)
}

// Remove the leaderboard of a guild only if it still is the provided one.
// Reports whether it was removed
func (s *Store) RemoveLeaderboardIf(guildID string, target Target) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	leaderboards, err := load[Leaderboards](s.dir, LeaderboardsFile)
	if err != nil {
		return false, err
	}
	if current, ok := leaderboards[guildID]; !ok || current != target {
		return false, nil
	}
	delete(leaderboards, guildID)
	return true, s.save(LeaderboardsFile, leaderboards)
}

// Remove the leaderboards of several guilds with a single write. A guild
// is only affected if its leaderboard still is the provided one, so that
// a leaderboard created in the meantime survives
func (s *Store) RemoveLeaderboards(removals Leaderboards) error {
	if len(removals) == 0 {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	leaderboards, err := load[Leaderboards](s.dir, LeaderboardsFile)
	if err != nil {
		return err
	}
	changed := false
	for guildID, target := range removals {
		if current, ok := leaderboards[guildID]; ok && current == target {
			delete(leaderboards, guildID)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.save(LeaderboardsFile, leaderboards)
}

// Load a whole document. A missing or unparseable document is an empty one
func load[D ~map[string]V, V any](dir string, name string) (D, error) {
	path := filepath.Join(dir, name)
	data, err := os.ReadFile(path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	document := make(D)
	if len(data) == 0 {
		return document, nil
	}
	var parsed D
	if err := sonic.Unmarshal(data, &parsed); err != nil {
		log.Warn().Err(err).Str("file", path).Msg("Document is corrupted, using an empty one")
		return document, nil
	}
	if parsed != nil {
		document = parsed
	}
	return document, nil
}

// Rewrite a whole document. The new content goes to a temporary file
// first so that a crash never leaves a half written document
func (s *Store) save(name string, document any) error {
	data, err := sonic.ConfigStd.MarshalIndent(document, "", "    ")
	if err != nil {
		return errors.Wrapf(err, "encode %s", name)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return errors.Wrapf(err, "create %s", s.dir)
	}
	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return errors.Wrapf(err, "create temporary file for %s", name)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "write %s", name)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "write %s", name)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(s.dir, name)); err != nil {
		return errors.Wrapf(err, "replace %s", name)
	}
	return nil
}
