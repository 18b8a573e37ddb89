/* api_test.go
 * Contains unit tests for api.go - testing all public API methods against the MockStore
 * Authors: Zachary Bower
 */

package api

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"liga-bot/api/shared"
	"liga-bot/api/store"
)

func newTestAPI(tier int) (*API, *MockStore) {
	mockStore := NewMockStore()
	mockStore.SeedCatalog(tier)
	return &API{
		Store: mockStore,
		Rand:  rand.New(rand.NewSource(1)),
	}, mockStore
}

func initParams(season int, tier int) InitializeParams {
	return InitializeParams{
		User:     shared.User{UserId: "user1", Username: "testuser"},
		TeamId:   "team-1",
		TeamName: "Test FC",
		Season:   season,
		Tier:     tier,
	}
}

// region InitializeSeason tests

// TestInitializeSeason_FreshUser tests that a fresh tier 4 season yields 38 scheduled
// matches and 19 zeroed opponent stat rows
func TestInitializeSeason_FreshUser(t *testing.T) {
	api, mockStore := newTestAPI(4)

	setup, err := api.InitializeSeason(initParams(2025, 4))

	assert.NoError(t, err)
	assert.Equal(t, 2025, setup.Progress.Season)
	assert.Equal(t, 4, setup.Progress.Tier)
	assert.Equal(t, shared.SeasonActive, setup.Progress.Status)
	assert.Equal(t, shared.DefaultUserStrength, setup.Progress.TeamStrength)
	assert.Equal(t, 20, setup.Info.TotalTeams)

	assert.Len(t, setup.Calendar, shared.RoundsPerSeason)
	for _, m := range setup.Calendar {
		assert.Equal(t, shared.MatchScheduled, m.Status)
	}

	stats, err := mockStore.ListMachineStats("user1", 2025, 4)
	assert.NoError(t, err)
	assert.Len(t, stats, shared.TeamsPerTier)
	for _, row := range stats {
		assert.Zero(t, row.Games)
		assert.Zero(t, row.Points)
	}
}

// TestInitializeSeason_Idempotent tests that re-initializing an existing season has no side effects
func TestInitializeSeason_Idempotent(t *testing.T) {
	api, mockStore := newTestAPI(4)

	first, err := api.InitializeSeason(initParams(2025, 4))
	assert.NoError(t, err)

	second, err := api.InitializeSeason(initParams(2025, 4))
	assert.NoError(t, err)

	assert.Equal(t, first.Progress.Id, second.Progress.Id)
	assert.Len(t, mockStore.Matches, shared.RoundsPerSeason)
	assert.Zero(t, mockStore.StatDeltasApplied)
}

// TestInitializeSeason_MissingParams tests parameter validation
func TestInitializeSeason_MissingParams(t *testing.T) {
	api, _ := newTestAPI(4)

	tests := []struct {
		name   string
		userID string
		teamID string
	}{
		{"missing userId", "", "team-1"},
		{"missing teamId", "user1", ""},
		{"both missing", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := api.InitializeSeason(InitializeParams{
				User:   shared.User{UserId: tt.userID},
				TeamId: tt.teamID,
				Season: 2025,
				Tier:   4,
			})
			assert.Error(t, err)
		})
	}
}

// TestInitializeSeason_CompletesPartialCalendar tests that a calendar whose first
// write died midway is filled in on re-initialization instead of being reported as
// a healthy 20-row season forever
func TestInitializeSeason_CompletesPartialCalendar(t *testing.T) {
	api, mockStore := newTestAPI(4)
	mockStore.InsertSeasonMatchesError = assert.AnError
	mockStore.InsertSeasonMatchesAfter = 20

	_, err := api.InitializeSeason(initParams(2025, 4))
	assert.Error(t, err)
	assert.Len(t, mockStore.Matches, 20)

	mockStore.InsertSeasonMatchesError = nil
	mockStore.InsertSeasonMatchesAfter = 0

	setup, err := api.InitializeSeason(initParams(2025, 4))
	assert.NoError(t, err)
	assert.Len(t, setup.Calendar, shared.RoundsPerSeason)

	rounds := make(map[int]bool)
	for _, m := range setup.Calendar {
		rounds[m.Round] = true
	}
	assert.Len(t, rounds, shared.RoundsPerSeason)
}

// TestInitializeSeason_TeamMismatch tests that re-initializing an existing season
// with a different team is rejected instead of silently returning the old season
func TestInitializeSeason_TeamMismatch(t *testing.T) {
	api, _ := newTestAPI(4)

	_, err := api.InitializeSeason(initParams(2025, 4))
	assert.NoError(t, err)

	params := initParams(2025, 4)
	params.TeamId = "team-2"
	_, err = api.InitializeSeason(params)
	assert.Error(t, err)

	// The original team's season is untouched
	setup, err := api.InitializeSeason(initParams(2025, 4))
	assert.NoError(t, err)
	assert.Equal(t, "team-1", setup.Progress.TeamId)
}

// TestInitializeSeason_InvalidTierCatalog tests that a tier with the wrong number of
// machine teams aborts initialization instead of padding or truncating
func TestInitializeSeason_InvalidTierCatalog(t *testing.T) {
	mockStore := NewMockStore()
	teams := mockStore.SeedCatalog(2)
	mockStore.Catalog[2] = teams[:18]
	api := &API{Store: mockStore, Rand: rand.New(rand.NewSource(1))}

	_, err := api.InitializeSeason(initParams(2025, 2))

	assert.ErrorIs(t, err, shared.ErrInvalidTierConfiguration)
}

// endregion

// region SimulateMatch tests

// TestSimulateMatch_RoundFlow tests a full round: the user's result is persisted,
// exactly 9 machine fixtures are recorded and every stat delta lands once
func TestSimulateMatch_RoundFlow(t *testing.T) {
	api, mockStore := newTestAPI(4)
	setup, err := api.InitializeSeason(initParams(2025, 4))
	assert.NoError(t, err)

	round1 := setup.Calendar[0]
	assert.Equal(t, 1, round1.Round)

	result, err := api.SimulateMatch(round1.Id.Hex(), "user1")
	assert.NoError(t, err)
	assert.True(t, result.RoundCompleted)
	assert.Equal(t, 1, result.Round)

	// User match persisted
	played, err := mockStore.GetSeasonMatch(round1.Id)
	assert.NoError(t, err)
	assert.Equal(t, shared.MatchFinished, played.Status)
	assert.Equal(t, result.HomeScore, played.HomeGoals)
	assert.Equal(t, result.AwayScore, played.AwayGoals)

	// Exactly one machine round with 9 recorded fixtures
	assert.Equal(t, 1, mockStore.RoundClaims)
	machineRound := mockStore.Rounds[roundKey("user1", 2025, 4, 1)]
	assert.Len(t, machineRound.Fixtures, 9)

	fixturePoints := 0
	for _, f := range machineRound.Fixtures {
		home := store.DeltaFor(f.HomeGoals, f.AwayGoals)
		away := store.DeltaFor(f.AwayGoals, f.HomeGoals)
		fixturePoints += home.Points + away.Points
	}

	// 9 fixtures x two sides, plus the user's opponent's share of the user match
	assert.Equal(t, 19, mockStore.StatDeltasApplied)

	// Progress recomputed: one game played, points matching the simulated result
	progress, err := api.Progress("user1", 2025)
	assert.NoError(t, err)
	assert.Equal(t, 1, progress.Games)
	userDelta := store.DeltaFor(played.UserGoals(), played.OpponentGoals())
	assert.Equal(t, userDelta.Points, progress.Points)
	assert.GreaterOrEqual(t, progress.Position, 1)
	assert.LessOrEqual(t, progress.Position, 20)

	// League points stay consistent: machine stats hold the fixtures' points plus
	// the opponent's share of the user match
	stats, err := mockStore.ListMachineStats("user1", 2025, 4)
	assert.NoError(t, err)
	total := 0
	for _, row := range stats {
		total += row.Points
	}
	oppDelta := store.DeltaFor(played.OpponentGoals(), played.UserGoals())
	assert.Equal(t, fixturePoints+oppDelta.Points, total)
}

// TestSimulateMatch_SecondInvocationNoSideEffects tests the central idempotency
// invariant: re-simulating an already played match is rejected and changes nothing
func TestSimulateMatch_SecondInvocationNoSideEffects(t *testing.T) {
	api, mockStore := newTestAPI(4)
	setup, err := api.InitializeSeason(initParams(2025, 4))
	assert.NoError(t, err)

	round1 := setup.Calendar[0]
	_, err = api.SimulateMatch(round1.Id.Hex(), "user1")
	assert.NoError(t, err)

	statsBefore, _ := mockStore.ListMachineStats("user1", 2025, 4)
	deltasBefore := mockStore.StatDeltasApplied

	_, err = api.SimulateMatch(round1.Id.Hex(), "user1")
	assert.ErrorIs(t, err, shared.ErrMatchAlreadyPlayed)

	statsAfter, _ := mockStore.ListMachineStats("user1", 2025, 4)
	assert.Equal(t, statsBefore, statsAfter)
	assert.Equal(t, deltasBefore, mockStore.StatDeltasApplied)
	assert.Equal(t, 1, mockStore.RoundClaims)
}

// TestSimulateMatch_NotFound tests the not-found and not-owned rejections
func TestSimulateMatch_NotFound(t *testing.T) {
	api, _ := newTestAPI(4)
	setup, err := api.InitializeSeason(initParams(2025, 4))
	assert.NoError(t, err)

	tests := []struct {
		name    string
		matchID string
		userID  string
	}{
		{"malformed id", "not-a-hex-id", "user1"},
		{"unknown id", "65b2f0c4a1d2e3f4a5b6c7d8", "user1"},
		{"not the owner", setup.Calendar[0].Id.Hex(), "someone-else"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := api.SimulateMatch(tt.matchID, tt.userID)
			assert.ErrorIs(t, err, shared.ErrMatchNotFound)
		})
	}
}

// endregion

// region Standings tests

// TestFullStandings_FreshSeason tests the scenario of a table right after initialization:
// 20 rows, all zero, user position within the table, stable across repeated calls
func TestFullStandings_FreshSeason(t *testing.T) {
	api, _ := newTestAPI(4)
	_, err := api.InitializeSeason(initParams(2025, 4))
	assert.NoError(t, err)

	first, err := api.FullStandings("user1", 2025)
	assert.NoError(t, err)
	second, err := api.FullStandings("user1", 2025)
	assert.NoError(t, err)

	assert.Equal(t, 20, first.TotalTeams)
	assert.Len(t, first.Standings, 20)
	for _, row := range first.Standings {
		assert.Zero(t, row.Points)
	}
	assert.GreaterOrEqual(t, first.UserPosition, 1)
	assert.LessOrEqual(t, first.UserPosition, 20)

	for i := range first.Standings {
		assert.Equal(t, first.Standings[i].Name, second.Standings[i].Name, "row %d order unstable", i)
	}
}

// TestTeamStandings_FuzzyLookup tests resolving a club row by approximate name
func TestTeamStandings_FuzzyLookup(t *testing.T) {
	api, mockStore := newTestAPI(4)
	_, err := api.InitializeSeason(initParams(2025, 4))
	assert.NoError(t, err)

	target := mockStore.Catalog[4][0]
	row, err := api.TeamStandings("user1", target.Name)
	assert.NoError(t, err)
	assert.Equal(t, target.Name, row.Name)

	_, err = api.TeamStandings("user1", "zzzzqqqq")
	assert.ErrorIs(t, err, shared.ErrTeamNotFound)
}

// TestRecalculateStandings tests that recalculation reproduces the same totals as the
// incremental path and persists a position
func TestRecalculateStandings(t *testing.T) {
	api, _ := newTestAPI(4)
	setup, err := api.InitializeSeason(initParams(2025, 4))
	assert.NoError(t, err)

	_, err = api.SimulateMatch(setup.Calendar[0].Id.Hex(), "user1")
	assert.NoError(t, err)
	before, err := api.Progress("user1", 2025)
	assert.NoError(t, err)

	after, err := api.RecalculateStandings("user1", 2025)
	assert.NoError(t, err)

	assert.Equal(t, before.Points, after.Points)
	assert.Equal(t, before.Games, after.Games)
	assert.Equal(t, before.Position, after.Position)
}

// endregion

// region Match listing tests

// TestUpcomingAndRecentMatches tests list contents, ordering and limits
func TestUpcomingAndRecentMatches(t *testing.T) {
	api, _ := newTestAPI(4)
	setup, err := api.InitializeSeason(initParams(2025, 4))
	assert.NoError(t, err)

	upcoming, err := api.UpcomingMatches("user1", 5)
	assert.NoError(t, err)
	assert.Len(t, upcoming, 5)
	assert.Equal(t, 1, upcoming[0].Round)

	_, err = api.SimulateMatch(setup.Calendar[0].Id.Hex(), "user1")
	assert.NoError(t, err)
	_, err = api.SimulateMatch(setup.Calendar[1].Id.Hex(), "user1")
	assert.NoError(t, err)

	upcoming, err = api.UpcomingMatches("user1", 5)
	assert.NoError(t, err)
	assert.Equal(t, 3, upcoming[0].Round)

	recent, err := api.RecentMatches("user1", 5)
	assert.NoError(t, err)
	assert.Len(t, recent, 2)
	assert.Equal(t, 2, recent[0].Round)
	assert.Equal(t, 1, recent[1].Round)
}

// endregion

// region Season lifecycle tests

// TestFullSeason_Consistency simulates all 38 rounds and checks the league closes the
// books evenly: every one of the 20 competitors ends on exactly 38 games
func TestFullSeason_Consistency(t *testing.T) {
	api, _ := newTestAPI(3)
	setup, err := api.InitializeSeason(initParams(2025, 3))
	assert.NoError(t, err)

	for _, m := range setup.Calendar {
		_, err := api.SimulateMatch(m.Id.Hex(), "user1")
		assert.NoError(t, err)
	}

	standings, err := api.FullStandings("user1", 2025)
	assert.NoError(t, err)
	for _, row := range standings.Standings {
		assert.Equal(t, shared.RoundsPerSeason, row.Games, "club %s games", row.Name)
	}

	progress, err := api.Progress("user1", 2025)
	assert.NoError(t, err)
	assert.Equal(t, shared.SeasonFinished, progress.Status)
}

// TestResetSeason tests replaying a season from round 1: fixtures back to scheduled,
// stats zeroed, round guard released so the first round can be simulated again
func TestResetSeason(t *testing.T) {
	api, mockStore := newTestAPI(4)
	setup, err := api.InitializeSeason(initParams(2025, 4))
	assert.NoError(t, err)

	_, err = api.SimulateMatch(setup.Calendar[0].Id.Hex(), "user1")
	assert.NoError(t, err)
	_, err = api.SimulateMatch(setup.Calendar[1].Id.Hex(), "user1")
	assert.NoError(t, err)

	progress, err := api.ResetSeason("user1", 2025)
	assert.NoError(t, err)
	assert.Zero(t, progress.Games)
	assert.Zero(t, progress.Points)
	assert.Equal(t, shared.SeasonActive, progress.Status)

	// Calendar kept, every fixture back in the scheduled state
	calendar, err := mockStore.SeasonCalendar("user1", 2025)
	assert.NoError(t, err)
	assert.Len(t, calendar, shared.RoundsPerSeason)
	for _, m := range calendar {
		assert.Equal(t, shared.MatchScheduled, m.Status)
		assert.Zero(t, m.HomeGoals)
		assert.Zero(t, m.AwayGoals)
	}

	// Stats zeroed, round guard released
	stats, err := mockStore.ListMachineStats("user1", 2025, 4)
	assert.NoError(t, err)
	assert.Len(t, stats, shared.TeamsPerTier)
	for _, row := range stats {
		assert.Zero(t, row.Games)
		assert.Zero(t, row.Points)
	}
	exists, err := mockStore.MachineRoundExists("user1", 2025, 4, 1)
	assert.NoError(t, err)
	assert.False(t, exists)

	// Round 1 simulates again after the reset
	claimsBefore := mockStore.RoundClaims
	_, err = api.SimulateMatch(setup.Calendar[0].Id.Hex(), "user1")
	assert.NoError(t, err)
	assert.Equal(t, claimsBefore+1, mockStore.RoundClaims)
}

// TestResetSeason_NoProgress tests resetting a season that was never initialized
func TestResetSeason_NoProgress(t *testing.T) {
	api, _ := newTestAPI(4)
	_, err := api.ResetSeason("ghost", 0)
	assert.ErrorIs(t, err, shared.ErrProgressNotFound)
}

// TestStartNewSeason tests rollover: season+1 in the same tier, previous season archived,
// fresh calendar and zeroed stats
func TestStartNewSeason(t *testing.T) {
	api, mockStore := newTestAPI(4)
	setup, err := api.InitializeSeason(initParams(2025, 4))
	assert.NoError(t, err)
	_, err = api.SimulateMatch(setup.Calendar[0].Id.Hex(), "user1")
	assert.NoError(t, err)

	info, err := api.StartNewSeason("user1")
	assert.NoError(t, err)
	assert.Equal(t, 2026, info.Season)
	assert.Equal(t, 4, info.Tier)

	old, err := api.Progress("user1", 2025)
	assert.NoError(t, err)
	assert.Equal(t, shared.SeasonFinished, old.Status)

	fresh, err := api.Progress("user1", 2026)
	assert.NoError(t, err)
	assert.Equal(t, shared.SeasonActive, fresh.Status)
	assert.Zero(t, fresh.Points)

	calendar, err := mockStore.SeasonCalendar("user1", 2026)
	assert.NoError(t, err)
	assert.Len(t, calendar, shared.RoundsPerSeason)

	stats, err := mockStore.ListMachineStats("user1", 2026, 4)
	assert.NoError(t, err)
	assert.Len(t, stats, shared.TeamsPerTier)
	for _, row := range stats {
		assert.Zero(t, row.Games)
	}
}

// TestStartNewSeason_NoProgress tests rollover for a user who never initialized
func TestStartNewSeason_NoProgress(t *testing.T) {
	api, _ := newTestAPI(4)
	_, err := api.StartNewSeason("ghost")
	assert.ErrorIs(t, err, shared.ErrProgressNotFound)
}

// endregion
