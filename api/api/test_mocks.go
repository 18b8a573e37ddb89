/* test_mocks.go
 * Contains an in-memory MockStore implementing store.Interface for testing the API package.
 * The mock mirrors the real store's guarantees: unique round claims, conditional match
 * finishing and increment-in-place stat accumulation
 * Authors: Zachary Bower
 */

package api

import (
	"context"
	"fmt"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"liga-bot/api/shared"
	"liga-bot/api/store"
)

// MockStore implements the store Interface for testing
type MockStore struct {
	Catalog  map[int][]store.MachineTeam
	Matches  map[primitive.ObjectID]store.SeasonMatch
	Progress map[string]store.UserProgress         // key: userid|season
	Stats    map[string]store.MachineTeamStats     // key: userid|team|season|tier
	Rounds   map[string]store.MachineRound         // key: userid|season|tier|round

	// Error injection for testing error paths
	ListMachineTeamsError    error
	InsertSeasonMatchesError error
	FinishSeasonMatchError   error
	CreateProgressError      error
	UpdateProgressError      error
	ApplyStatDeltaError      error
	ClaimMachineRoundError   error

	// InsertSeasonMatchesAfter makes InsertSeasonMatchesError fire only after that
	// many rows of the batch have been written, modelling a batch that dies midway
	InsertSeasonMatchesAfter int

	// Call counters for side-effect assertions
	StatDeltasApplied int
	RoundClaims       int
}

// NewMockStore creates an empty MockStore
func NewMockStore() *MockStore {
	return &MockStore{
		Catalog:  make(map[int][]store.MachineTeam),
		Matches:  make(map[primitive.ObjectID]store.SeasonMatch),
		Progress: make(map[string]store.UserProgress),
		Stats:    make(map[string]store.MachineTeamStats),
		Rounds:   make(map[string]store.MachineRound),
	}
}

// Ensure MockStore implements the store interface
var _ store.Interface = (*MockStore)(nil)

// SeedCatalog installs a 19-team catalog for a tier in canonical name order
func (m *MockStore) SeedCatalog(tier int) []store.MachineTeam {
	teams := store.TestCatalog(tier)
	sort.Slice(teams, func(i, j int) bool { return teams[i].Name < teams[j].Name })
	m.Catalog[tier] = teams
	return teams
}

func progressKey(userID string, season int) string {
	return fmt.Sprintf("%s|%d", userID, season)
}

func statsKey(userID string, teamID primitive.ObjectID, season int, tier int) string {
	return fmt.Sprintf("%s|%s|%d|%d", userID, teamID.Hex(), season, tier)
}

func roundKey(userID string, season int, tier int, round int) string {
	return fmt.Sprintf("%s|%d|%d|%d", userID, season, tier, round)
}

func (m *MockStore) ListMachineTeams(tier int) ([]store.MachineTeam, error) {
	if m.ListMachineTeamsError != nil {
		return nil, m.ListMachineTeamsError
	}
	teams := m.Catalog[tier]
	if len(teams) != shared.TeamsPerTier {
		return nil, fmt.Errorf("tier %d has %d machine teams: %w", tier, len(teams), shared.ErrInvalidTierConfiguration)
	}
	return teams, nil
}

func (m *MockStore) GetMachineTeam(id primitive.ObjectID) (store.MachineTeam, error) {
	for _, teams := range m.Catalog {
		for _, team := range teams {
			if team.Id == id {
				return team, nil
			}
		}
	}
	return store.MachineTeam{}, shared.ErrTeamNotFound
}

func (m *MockStore) InsertSeasonMatches(matches []store.SeasonMatch) error {
	if m.InsertSeasonMatchesError != nil && m.InsertSeasonMatchesAfter == 0 {
		return m.InsertSeasonMatchesError
	}
	// Duplicate round rows are silently skipped, matching the real store's
	// duplicate-key handling of rounds that already exist
	written := 0
	for _, match := range matches {
		if m.InsertSeasonMatchesError != nil && written >= m.InsertSeasonMatchesAfter {
			return m.InsertSeasonMatchesError
		}
		exists := false
		for _, existing := range m.Matches {
			if existing.UserId == match.UserId && existing.Season == match.Season &&
				existing.Tier == match.Tier && existing.Round == match.Round {
				exists = true
				break
			}
		}
		if exists {
			continue
		}
		if match.Id.IsZero() {
			match.Id = primitive.NewObjectID()
		}
		m.Matches[match.Id] = match
		written++
	}
	return nil
}

func (m *MockStore) GetSeasonMatch(id primitive.ObjectID) (store.SeasonMatch, error) {
	match, ok := m.Matches[id]
	if !ok {
		return store.SeasonMatch{}, shared.ErrMatchNotFound
	}
	return match, nil
}

func (m *MockStore) CountSeasonMatches(userID string, season int, tier int) (int64, error) {
	var n int64
	for _, match := range m.Matches {
		if match.UserId == userID && match.Season == season && match.Tier == tier {
			n++
		}
	}
	return n, nil
}

func (m *MockStore) SeasonCalendar(userID string, season int) ([]store.SeasonMatch, error) {
	return m.filterMatches(func(sm store.SeasonMatch) bool {
		return sm.UserId == userID && sm.Season == season
	}, false, 0), nil
}

func (m *MockStore) UpcomingMatches(userID string, season int, limit int) ([]store.SeasonMatch, error) {
	return m.filterMatches(func(sm store.SeasonMatch) bool {
		return sm.UserId == userID && sm.Season == season && sm.Status == shared.MatchScheduled
	}, false, limit), nil
}

func (m *MockStore) RecentMatches(userID string, season int, limit int) ([]store.SeasonMatch, error) {
	return m.filterMatches(func(sm store.SeasonMatch) bool {
		return sm.UserId == userID && sm.Season == season && sm.Status == shared.MatchFinished
	}, true, limit), nil
}

func (m *MockStore) FinishedMatches(userID string, season int, tier int) ([]store.SeasonMatch, error) {
	return m.filterMatches(func(sm store.SeasonMatch) bool {
		return sm.UserId == userID && sm.Season == season && sm.Tier == tier && sm.Status == shared.MatchFinished
	}, false, 0), nil
}

func (m *MockStore) FinishSeasonMatch(id primitive.ObjectID, homeGoals int, awayGoals int) error {
	if m.FinishSeasonMatchError != nil {
		return m.FinishSeasonMatchError
	}
	match, ok := m.Matches[id]
	if !ok || match.Status != shared.MatchScheduled {
		return shared.ErrMatchAlreadyPlayed
	}
	match.HomeGoals = homeGoals
	match.AwayGoals = awayGoals
	match.Status = shared.MatchFinished
	m.Matches[id] = match
	return nil
}

func (m *MockStore) ResetSeasonMatches(userID string, season int, tier int) error {
	for id, match := range m.Matches {
		if match.UserId == userID && match.Season == season && match.Tier == tier {
			match.HomeGoals = 0
			match.AwayGoals = 0
			match.Status = shared.MatchScheduled
			m.Matches[id] = match
		}
	}
	return nil
}

func (m *MockStore) GetProgress(userID string, season int) (store.UserProgress, error) {
	p, ok := m.Progress[progressKey(userID, season)]
	if !ok {
		return store.UserProgress{}, shared.ErrProgressNotFound
	}
	return p, nil
}

func (m *MockStore) GetLatestProgress(userID string) (store.UserProgress, error) {
	var latest store.UserProgress
	found := false
	for _, p := range m.Progress {
		if p.UserId == userID && (!found || p.Season > latest.Season) {
			latest = p
			found = true
		}
	}
	if !found {
		return store.UserProgress{}, shared.ErrProgressNotFound
	}
	return latest, nil
}

func (m *MockStore) CreateProgress(p store.UserProgress) (store.UserProgress, error) {
	if m.CreateProgressError != nil {
		return store.UserProgress{}, m.CreateProgressError
	}
	key := progressKey(p.UserId, p.Season)
	if existing, ok := m.Progress[key]; ok {
		return existing, nil
	}
	if p.Id.IsZero() {
		p.Id = primitive.NewObjectID()
	}
	m.Progress[key] = p
	return p, nil
}

func (m *MockStore) UpdateProgressRecord(p store.UserProgress) error {
	if m.UpdateProgressError != nil {
		return m.UpdateProgressError
	}
	key := progressKey(p.UserId, p.Season)
	existing, ok := m.Progress[key]
	if !ok {
		return shared.ErrProgressNotFound
	}
	existing.Points = p.Points
	existing.Games = p.Games
	existing.Wins = p.Wins
	existing.Draws = p.Draws
	existing.Losses = p.Losses
	existing.GoalsFor = p.GoalsFor
	existing.GoalsAgainst = p.GoalsAgainst
	existing.Position = p.Position
	existing.Status = p.Status
	m.Progress[key] = existing
	return nil
}

func (m *MockStore) SetSeasonStatus(userID string, season int, status string) error {
	key := progressKey(userID, season)
	p, ok := m.Progress[key]
	if !ok {
		return shared.ErrProgressNotFound
	}
	p.Status = status
	m.Progress[key] = p
	return nil
}

func (m *MockStore) ZeroMachineStats(userID string, season int, tier int, teamIDs []primitive.ObjectID) error {
	for _, teamID := range teamIDs {
		key := statsKey(userID, teamID, season, tier)
		if _, ok := m.Stats[key]; ok {
			continue
		}
		m.Stats[key] = store.MachineTeamStats{
			Id:     primitive.NewObjectID(),
			UserId: userID,
			TeamId: teamID,
			Season: season,
			Tier:   tier,
		}
	}
	return nil
}

func (m *MockStore) ListMachineStats(userID string, season int, tier int) (map[primitive.ObjectID]store.MachineTeamStats, error) {
	stats := make(map[primitive.ObjectID]store.MachineTeamStats)
	for _, row := range m.Stats {
		if row.UserId == userID && row.Season == season && row.Tier == tier {
			stats[row.TeamId] = row
		}
	}
	return stats, nil
}

func (m *MockStore) ApplyStatDelta(userID string, teamID primitive.ObjectID, season int, tier int, delta store.StatDelta) error {
	if m.ApplyStatDeltaError != nil {
		return m.ApplyStatDeltaError
	}
	key := statsKey(userID, teamID, season, tier)
	row, ok := m.Stats[key]
	if !ok {
		row = store.MachineTeamStats{Id: primitive.NewObjectID(), UserId: userID, TeamId: teamID, Season: season, Tier: tier}
	}
	row.Games++
	row.Wins += delta.Wins
	row.Draws += delta.Draws
	row.Losses += delta.Losses
	row.GoalsFor += delta.GoalsFor
	row.GoalsAgainst += delta.GoalsAgainst
	row.Points += delta.Points
	m.Stats[key] = row
	m.StatDeltasApplied++
	return nil
}

func (m *MockStore) ResetMachineStats(userID string, season int, tier int) error {
	for key, row := range m.Stats {
		if row.UserId == userID && row.Season == season && row.Tier == tier {
			zeroed := store.MachineTeamStats{Id: row.Id, UserId: row.UserId, TeamId: row.TeamId, Season: row.Season, Tier: row.Tier}
			m.Stats[key] = zeroed
		}
	}
	return nil
}

func (m *MockStore) ClaimMachineRound(round store.MachineRound) (bool, error) {
	if m.ClaimMachineRoundError != nil {
		return false, m.ClaimMachineRoundError
	}
	key := roundKey(round.UserId, round.Season, round.Tier, round.Round)
	if _, ok := m.Rounds[key]; ok {
		return false, nil
	}
	round.Id = primitive.NewObjectID()
	m.Rounds[key] = round
	m.RoundClaims++
	return true, nil
}

func (m *MockStore) MachineRoundExists(userID string, season int, tier int, round int) (bool, error) {
	_, ok := m.Rounds[roundKey(userID, season, tier, round)]
	return ok, nil
}

func (m *MockStore) DeleteMachineRounds(userID string, season int, tier int) error {
	for key, round := range m.Rounds {
		if round.UserId == userID && round.Season == season && round.Tier == tier {
			delete(m.Rounds, key)
		}
	}
	return nil
}

// GetClient returns a no-op disconnector
func (m *MockStore) GetClient() interface{ Disconnect(context.Context) error } {
	return noopClient{}
}

type noopClient struct{}

func (noopClient) Disconnect(context.Context) error { return nil }

// filterMatches collects matches passing the predicate in round order, newest first
// when desc is set, trimmed to limit when limit > 0
func (m *MockStore) filterMatches(keep func(store.SeasonMatch) bool, desc bool, limit int) []store.SeasonMatch {
	var out []store.SeasonMatch
	for _, match := range m.Matches {
		if keep(match) {
			out = append(out, match)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if desc {
			return out[i].Round > out[j].Round
		}
		return out[i].Round < out[j].Round
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
