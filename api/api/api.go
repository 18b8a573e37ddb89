/* api.go
 * This file contains the public methods for the season engine. For consistent results, callers
 * should only go through this file, not the store or logic sub packages directly. Each method
 * maps onto one operation exposed to the chat and admin layers
 * Authors: Zachary Bower
 */

package api

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"liga-bot/api/logic"
	"liga-bot/api/shared"
	"liga-bot/api/store"
)

// BottomTier is where fresh users start; promotion out of it belongs to the
// competition admin layer, not this engine
const BottomTier = 4

// API provides the season simulation operations over the data layer
type API struct {
	Store store.Interface
	Rand  *rand.Rand
}

// NewAPI creates a new API instance with the provided configuration
func NewAPI(dbName string, mongoURI string) (*API, error) {
	if dbName == "" {
		return nil, fmt.Errorf("dbName is required")
	}

	s, err := store.NewStore(dbName, mongoURI)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize store: %w", err)
	}

	return &API{
		Store: s,
		Rand:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}, nil
}

// InitializeSeason sets up a season for a user: a progress row, a 38-round calendar
// and a zeroed stats row for each of the tier's 19 machine clubs. Idempotent: calling
// it again for an existing (user, season) returns the existing state without side effects
// Preconditions: Receives InitializeParams with at least User.UserId and TeamId set
// Postconditions: Returns the progress, full calendar and season info, or an error
func (a *API) InitializeSeason(params InitializeParams) (*SeasonSetup, error) {
	if params.User.UserId == "" || params.TeamId == "" {
		return nil, fmt.Errorf("userId and teamId are required")
	}

	season := params.Season
	if season == 0 {
		season = time.Now().Year()
	}

	// Re-initialization returns the existing season. Scaffolding is re-run first,
	// so a calendar whose original write died midway is completed here instead of
	// being reported as a healthy season forever
	if existing, err := a.Store.GetProgress(params.User.UserId, season); err == nil {
		if existing.TeamId != params.TeamId {
			return nil, fmt.Errorf("season %d already belongs to team %s", season, existing.TeamId)
		}
		teams, err := a.Store.ListMachineTeams(existing.Tier)
		if err != nil {
			return nil, err
		}
		if err := a.ensureSeasonScaffolding(existing, teams); err != nil {
			return nil, err
		}
		return a.seasonSetup(existing)
	} else if !errors.Is(err, shared.ErrProgressNotFound) {
		return nil, err
	}

	tier := params.Tier
	if tier == 0 {
		tier = BottomTier
		if latest, err := a.Store.GetLatestProgress(params.User.UserId); err == nil {
			tier = latest.Tier
		} else if !errors.Is(err, shared.ErrProgressNotFound) {
			return nil, err
		}
	}
	if !shared.ValidTier(tier) {
		return nil, fmt.Errorf("tier %d is not a valid division", tier)
	}

	teamName := params.TeamName
	if teamName == "" {
		teamName = params.TeamId
	}
	strength := params.TeamStrength
	if strength == 0 {
		strength = shared.DefaultUserStrength
	}

	// Validate the tier catalog before touching any season-scoped state, so a
	// misconfigured tier aborts cleanly instead of leaving a half-built season
	teams, err := a.Store.ListMachineTeams(tier)
	if err != nil {
		return nil, err
	}

	progress, err := a.Store.CreateProgress(store.UserProgress{
		UserId:       params.User.UserId,
		TeamId:       params.TeamId,
		TeamName:     teamName,
		TeamStrength: strength,
		Season:       season,
		Tier:         tier,
		Status:       shared.SeasonActive,
	})
	if err != nil {
		return nil, err
	}

	if err := a.ensureSeasonScaffolding(progress, teams); err != nil {
		return nil, err
	}

	return a.seasonSetup(progress)
}

// Progress returns the user's progress row, defaulting to their most recent season
// Preconditions: Receives userID and a season year (0 selects the latest season)
// Postconditions: Returns the row, or shared.ErrProgressNotFound
func (a *API) Progress(userID string, season int) (store.UserProgress, error) {
	return a.resolveProgress(userID, season)
}

// UpcomingMatches returns the user's next scheduled fixtures in their latest season
// Preconditions: Receives userID and a row limit (limit <= 0 returns all)
// Postconditions: Returns the fixtures in round order, or an error
func (a *API) UpcomingMatches(userID string, limit int) ([]store.SeasonMatch, error) {
	p, err := a.resolveProgress(userID, 0)
	if err != nil {
		return nil, err
	}
	return a.Store.UpcomingMatches(userID, p.Season, limit)
}

// RecentMatches returns the user's most recently played fixtures in their latest season
// Preconditions: Receives userID and a row limit (limit <= 0 returns all)
// Postconditions: Returns the fixtures newest first, or an error
func (a *API) RecentMatches(userID string, limit int) ([]store.SeasonMatch, error) {
	p, err := a.resolveProgress(userID, 0)
	if err != nil {
		return nil, err
	}
	return a.Store.RecentMatches(userID, p.Season, limit)
}

// SimulateMatch plays out one of the user's scheduled fixtures and advances the rest
// of the league through the same round: the user's score is simulated and persisted,
// the 9 machine-vs-machine fixtures of that round are simulated at most once, every
// stats row is updated, and the user's cumulative record and position are recomputed
// Preconditions: Receives the match id hex and the calling user's id
// Postconditions: Returns the final score, or shared.ErrMatchNotFound /
// shared.ErrMatchAlreadyPlayed / a wrapped infrastructure error
func (a *API) SimulateMatch(matchID string, userID string) (*SimulateResult, error) {
	oid, err := primitive.ObjectIDFromHex(matchID)
	if err != nil {
		return nil, shared.ErrMatchNotFound
	}

	m, err := a.Store.GetSeasonMatch(oid)
	if err != nil {
		return nil, err
	}
	if m.UserId != userID {
		// Not the caller's fixture; indistinguishable from absent on purpose
		return nil, shared.ErrMatchNotFound
	}
	if m.Status != shared.MatchScheduled {
		return nil, shared.ErrMatchAlreadyPlayed
	}

	progress, err := a.Store.GetProgress(userID, m.Season)
	if err != nil {
		return nil, err
	}
	teams, err := a.Store.ListMachineTeams(m.Tier)
	if err != nil {
		return nil, err
	}

	opponent, ok := findTeam(teams, m.OpponentId)
	if !ok {
		return nil, fmt.Errorf("opponent %s missing from tier %d catalog: %w", m.OpponentName, m.Tier, shared.ErrInvalidTierConfiguration)
	}

	userGoals, oppGoals := logic.SimulateScore(progress.TeamStrength, opponent.Strength, m.UserHome, a.Rand)
	homeGoals, awayGoals := oppGoals, userGoals
	if m.UserHome {
		homeGoals, awayGoals = userGoals, oppGoals
	}

	if err := a.Store.FinishSeasonMatch(m.Id, homeGoals, awayGoals); err != nil {
		return nil, err
	}

	if err := a.completeRound(m, teams, userGoals, oppGoals); err != nil {
		return nil, err
	}

	updated, err := a.recomputeProgress(progress, teams)
	if err != nil {
		return nil, err
	}

	return &SimulateResult{
		MatchId:        m.Id.Hex(),
		Round:          m.Round,
		HomeScore:      homeGoals,
		AwayScore:      awayGoals,
		RoundCompleted: true,
		UserPosition:   updated.Position,
	}, nil
}

// FullStandings returns the sorted 20-row table for the user's league
// Preconditions: Receives userID and a season year (0 selects the latest season)
// Postconditions: Returns the table with the user's position, or an error
func (a *API) FullStandings(userID string, season int) (*StandingsResult, error) {
	p, err := a.resolveProgress(userID, season)
	if err != nil {
		return nil, err
	}

	rows, err := a.buildTable(p)
	if err != nil {
		return nil, err
	}

	result := &StandingsResult{
		Season:     p.Season,
		Tier:       p.Tier,
		Standings:  rows,
		TotalTeams: len(rows),
	}
	for _, row := range rows {
		if row.IsUser {
			result.UserPosition = row.Position
		}
	}
	return result, nil
}

// TeamStandings resolves a free-form club name against the user's league and returns
// that club's row of the table. Serves chat queries like "how is Santa Cruz doing?"
// Preconditions: Receives userID and the club name as typed by the user
// Postconditions: Returns the club's row, or shared.ErrTeamNotFound
func (a *API) TeamStandings(userID string, name string) (*logic.Row, error) {
	standings, err := a.FullStandings(userID, 0)
	if err != nil {
		return nil, err
	}

	names := make([]string, len(standings.Standings))
	for i, row := range standings.Standings {
		names[i] = row.Name
	}
	resolved, err := logic.ResolveTeamName(name, names)
	if err != nil {
		return nil, err
	}

	for i := range standings.Standings {
		if standings.Standings[i].Name == resolved {
			return &standings.Standings[i], nil
		}
	}
	return nil, shared.ErrTeamNotFound
}

// RecalculateStandings recomputes the user's cumulative record from their finished
// matches and re-derives their position, persisting both. Heals any drift without
// ever re-simulating results
// Preconditions: Receives userID and a season year (0 selects the latest season)
// Postconditions: Returns the refreshed progress row, or an error
func (a *API) RecalculateStandings(userID string, season int) (store.UserProgress, error) {
	p, err := a.resolveProgress(userID, season)
	if err != nil {
		return store.UserProgress{}, err
	}
	teams, err := a.Store.ListMachineTeams(p.Tier)
	if err != nil {
		return store.UserProgress{}, err
	}
	return a.recomputeProgress(p, teams)
}

// ResetSeason replays a season from round 1: every fixture goes back to the
// scheduled state with the scores wiped, every machine stats row is zeroed, and the
// round documents are deleted so the at-most-once guard arms again. The calendar
// itself is kept, opponents and dates included
// Preconditions: Receives userID and a season year (0 selects the latest season)
// Postconditions: Returns the zeroed progress row, or shared.ErrProgressNotFound
func (a *API) ResetSeason(userID string, season int) (store.UserProgress, error) {
	p, err := a.resolveProgress(userID, season)
	if err != nil {
		return store.UserProgress{}, err
	}
	teams, err := a.Store.ListMachineTeams(p.Tier)
	if err != nil {
		return store.UserProgress{}, err
	}

	if err := a.Store.DeleteMachineRounds(p.UserId, p.Season, p.Tier); err != nil {
		return store.UserProgress{}, err
	}
	if err := a.Store.ResetMachineStats(p.UserId, p.Season, p.Tier); err != nil {
		return store.UserProgress{}, err
	}
	if err := a.Store.ResetSeasonMatches(p.UserId, p.Season, p.Tier); err != nil {
		return store.UserProgress{}, err
	}

	p.Status = shared.SeasonActive
	return a.recomputeProgress(p, teams)
}

// StartNewSeason archives the user's current season and sets up the next year in the
// same tier: fresh progress, fresh calendar (unless one already exists) and zeroed
// stats rows. Tier changes are the competition admin layer's job and never happen here
// Preconditions: Receives userID
// Postconditions: Returns the new season's info, or shared.ErrProgressNotFound if the
// user has no season at all
func (a *API) StartNewSeason(userID string) (*SeasonInfo, error) {
	latest, err := a.Store.GetLatestProgress(userID)
	if err != nil {
		return nil, err
	}
	teams, err := a.Store.ListMachineTeams(latest.Tier)
	if err != nil {
		return nil, err
	}

	if latest.Status != shared.SeasonFinished {
		if err := a.Store.SetSeasonStatus(userID, latest.Season, shared.SeasonFinished); err != nil {
			return nil, err
		}
	}

	progress, err := a.Store.CreateProgress(store.UserProgress{
		UserId:       latest.UserId,
		TeamId:       latest.TeamId,
		TeamName:     latest.TeamName,
		TeamStrength: latest.TeamStrength,
		Season:       latest.Season + 1,
		Tier:         latest.Tier,
		Status:       shared.SeasonActive,
	})
	if err != nil {
		return nil, err
	}

	if err := a.ensureSeasonScaffolding(progress, teams); err != nil {
		return nil, err
	}

	return &SeasonInfo{
		Season:     progress.Season,
		Tier:       progress.Tier,
		TotalTeams: shared.TeamsPerTier + 1,
	}, nil
}

// ensureSeasonScaffolding builds the calendar and the zeroed stats rows for a
// progress row, skipping whatever already exists so initialization stays idempotent.
// A short calendar is rebuilt: the insert skips existing rounds and fills in the
// rest, so an interrupted first write converges to the full 38 on the next call
func (a *API) ensureSeasonScaffolding(p store.UserProgress, teams []store.MachineTeam) error {
	count, err := a.Store.CountSeasonMatches(p.UserId, p.Season, p.Tier)
	if err != nil {
		return err
	}
	if count < shared.RoundsPerSeason {
		matches, err := logic.BuildCalendar(p.UserId, p.Season, p.Tier, teams, logic.SeasonStart(p.Season), a.Rand)
		if err != nil {
			return err
		}
		if err := a.Store.InsertSeasonMatches(matches); err != nil {
			return err
		}
	}

	ids := make([]primitive.ObjectID, len(teams))
	for i, team := range teams {
		ids[i] = team.Id
	}
	return a.Store.ZeroMachineStats(p.UserId, p.Season, p.Tier, ids)
}

// completeRound simulates the machine half of a round at most once and applies every
// stat delta for the round: 9 machine fixtures plus the opponent's side of the user's
// own result, all guarded by the round claim so a retried request cannot double-count
func (a *API) completeRound(m store.SeasonMatch, teams []store.MachineTeam, userGoals int, oppGoals int) error {
	done, err := a.Store.MachineRoundExists(m.UserId, m.Season, m.Tier, m.Round)
	if err != nil {
		return err
	}
	if done {
		// Round already simulated; skip the fixture work entirely. The claim below
		// still guards the race where two requests pass this check together
		return nil
	}

	fixtures, err := logic.MachineFixtures(teams, m.Round, a.Rand)
	if err != nil {
		return err
	}

	claimed, err := a.Store.ClaimMachineRound(store.MachineRound{
		UserId:   m.UserId,
		Season:   m.Season,
		Tier:     m.Tier,
		Round:    m.Round,
		Fixtures: fixtures,
		PlayedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	if !claimed {
		// Round already simulated for this user; statistics were applied exactly once
		return nil
	}

	for _, f := range fixtures {
		if err := a.Store.ApplyStatDelta(m.UserId, f.HomeTeamId, m.Season, m.Tier, store.DeltaFor(f.HomeGoals, f.AwayGoals)); err != nil {
			return err
		}
		if err := a.Store.ApplyStatDelta(m.UserId, f.AwayTeamId, m.Season, m.Tier, store.DeltaFor(f.AwayGoals, f.HomeGoals)); err != nil {
			return err
		}
	}

	// The user's opponent records its share of the user match here, inside the same
	// guard, so the league's total points stay consistent round after round
	return a.Store.ApplyStatDelta(m.UserId, m.OpponentId, m.Season, m.Tier, store.DeltaFor(oppGoals, userGoals))
}

// recomputeProgress derives the user's cumulative record from their finished matches,
// re-sorts the table for their position, persists the row and returns it
func (a *API) recomputeProgress(p store.UserProgress, teams []store.MachineTeam) (store.UserProgress, error) {
	finished, err := a.Store.FinishedMatches(p.UserId, p.Season, p.Tier)
	if err != nil {
		return store.UserProgress{}, err
	}
	rec := logic.RecordFromMatches(finished)

	stats, err := a.Store.ListMachineStats(p.UserId, p.Season, p.Tier)
	if err != nil {
		return store.UserProgress{}, err
	}

	rows := logic.BuildTable(p.TeamName, rec, teams, stats)
	for _, row := range rows {
		if row.IsUser {
			p.Position = row.Position
		}
	}

	p.Points = rec.Points
	p.Games = rec.Games
	p.Wins = rec.Wins
	p.Draws = rec.Draws
	p.Losses = rec.Losses
	p.GoalsFor = rec.GoalsFor
	p.GoalsAgainst = rec.GoalsAgainst
	if rec.Games >= shared.RoundsPerSeason {
		p.Status = shared.SeasonFinished
	}

	if err := a.Store.UpdateProgressRecord(p); err != nil {
		return store.UserProgress{}, err
	}
	return p, nil
}

// buildTable assembles the current table for a progress row
func (a *API) buildTable(p store.UserProgress) ([]logic.Row, error) {
	teams, err := a.Store.ListMachineTeams(p.Tier)
	if err != nil {
		return nil, err
	}
	stats, err := a.Store.ListMachineStats(p.UserId, p.Season, p.Tier)
	if err != nil {
		return nil, err
	}

	rec := logic.Record{
		Points:       p.Points,
		Games:        p.Games,
		Wins:         p.Wins,
		Draws:        p.Draws,
		Losses:       p.Losses,
		GoalsFor:     p.GoalsFor,
		GoalsAgainst: p.GoalsAgainst,
	}
	return logic.BuildTable(p.TeamName, rec, teams, stats), nil
}

// seasonSetup packages the setup result for a progress row
func (a *API) seasonSetup(p store.UserProgress) (*SeasonSetup, error) {
	calendar, err := a.Store.SeasonCalendar(p.UserId, p.Season)
	if err != nil {
		return nil, err
	}
	return &SeasonSetup{
		Progress: p,
		Calendar: calendar,
		Info: SeasonInfo{
			Season:     p.Season,
			Tier:       p.Tier,
			TotalTeams: shared.TeamsPerTier + 1,
		},
	}, nil
}

// resolveProgress loads the progress row for a season, or the latest one when
// season is zero
func (a *API) resolveProgress(userID string, season int) (store.UserProgress, error) {
	if userID == "" {
		return store.UserProgress{}, fmt.Errorf("userId is required")
	}
	if season == 0 {
		return a.Store.GetLatestProgress(userID)
	}
	return a.Store.GetProgress(userID, season)
}

func findTeam(teams []store.MachineTeam, id primitive.ObjectID) (store.MachineTeam, bool) {
	for _, team := range teams {
		if team.Id == id {
			return team, true
		}
	}
	return store.MachineTeam{}, false
}
