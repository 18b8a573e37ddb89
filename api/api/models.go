/* models.go
 * Contains the parameter and result structs for the public API methods
 * Authors: Zachary Bower
 */

package api

import (
	"liga-bot/api/logic"
	"liga-bot/api/shared"
	"liga-bot/api/store"
)

// InitializeParams carries everything needed to set up a season. Season, Tier,
// TeamName and TeamStrength are optional; zero values pick the defaults
// (current year, the user's current tier or the bottom division, the team id,
// shared.DefaultUserStrength)
type InitializeParams struct {
	User         shared.User
	TeamId       string
	TeamName     string
	TeamStrength int
	Season       int
	Tier         int
}

// SeasonInfo summarises one season instance
type SeasonInfo struct {
	Season     int
	Tier       int
	TotalTeams int
}

// SeasonSetup is the result of initializing (or re-initializing) a season
type SeasonSetup struct {
	Progress store.UserProgress
	Calendar []store.SeasonMatch
	Info     SeasonInfo
}

// SimulateResult is the outcome of simulating one user match
type SimulateResult struct {
	MatchId        string
	Round          int
	HomeScore      int
	AwayScore      int
	RoundCompleted bool
	UserPosition   int
}

// StandingsResult is the full 20-row table for one user's league
type StandingsResult struct {
	Season       int
	Tier         int
	Standings    []logic.Row
	UserPosition int
	TotalTeams   int
}
