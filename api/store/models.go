/* models.go
 * This file contains the structs and helper functions that relate to DB objects. One struct per
 * collection document, plus the embedded types they carry
 * Authors: Zachary Bower
 */

package store

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"liga-bot/api/shared"
)

// MachineTeam is one catalog row: an AI-controlled club belonging to a tier.
// The catalog is seeded externally and is read-only from this engine's
// perspective; per-user statistics live in MachineTeamStats, never here.
type MachineTeam struct {
	Id             primitive.ObjectID `bson:"_id,omitempty"`
	Name           string             `bson:"name"`
	PrimaryColor   string             `bson:"primary_color,omitempty"`
	SecondaryColor string             `bson:"secondary_color,omitempty"`
	Stadium        string             `bson:"stadium,omitempty"`
	Tier           int                `bson:"tier"`
	Strength       int                `bson:"strength"` // 0-100 overall rating
}

// SeasonMatch is one fixture on the user's calendar, scheduled or finished.
// Exactly one side is the user's club; the other is a machine team.
type SeasonMatch struct {
	Id           primitive.ObjectID `bson:"_id,omitempty"`
	UserId       string             `bson:"userid"`
	Season       int                `bson:"season"`
	Tier         int                `bson:"tier"`
	Round        int                `bson:"round"` // 1-38
	OpponentId   primitive.ObjectID `bson:"opponent_id"`
	OpponentName string             `bson:"opponent_name"`
	UserHome     bool               `bson:"user_home"`
	HomeGoals    int                `bson:"home_goals"`
	AwayGoals    int                `bson:"away_goals"`
	Status       string             `bson:"status"` // shared.MatchScheduled or shared.MatchFinished
	KickoffAt    time.Time          `bson:"kickoff_at"`
}

// UserGoals returns the goals scored by the user's side of a match
func (m SeasonMatch) UserGoals() int {
	if m.UserHome {
		return m.HomeGoals
	}
	return m.AwayGoals
}

// OpponentGoals returns the goals scored by the machine side of a match
func (m SeasonMatch) OpponentGoals() int {
	if m.UserHome {
		return m.AwayGoals
	}
	return m.HomeGoals
}

// UserProgress is one row per (user, team, season): the user's cumulative
// record, current table position and season lifecycle status
type UserProgress struct {
	Id           primitive.ObjectID `bson:"_id,omitempty"`
	UserId       string             `bson:"userid"`
	TeamId       string             `bson:"team_id"`
	TeamName     string             `bson:"team_name,omitempty"`
	TeamStrength int                `bson:"team_strength"`
	Season       int                `bson:"season"`
	Tier         int                `bson:"tier"`
	Points       int                `bson:"points"`
	Games        int                `bson:"games"`
	Wins         int                `bson:"wins"`
	Draws        int                `bson:"draws"`
	Losses       int                `bson:"losses"`
	GoalsFor     int                `bson:"goals_for"`
	GoalsAgainst int                `bson:"goals_against"`
	Position     int                `bson:"position"`
	Status       string             `bson:"status"` // shared.SeasonActive or shared.SeasonFinished
}

// MachineTeamStats is the isolated per-user accumulator for one machine team
// in one (season, tier). The same physical club has an independent row for
// every user, because each user experiences their own instance of the league
type MachineTeamStats struct {
	Id           primitive.ObjectID `bson:"_id,omitempty"`
	UserId       string             `bson:"userid"`
	TeamId       primitive.ObjectID `bson:"team_id"`
	Season       int                `bson:"season"`
	Tier         int                `bson:"tier"`
	Points       int                `bson:"points"`
	Games        int                `bson:"games"`
	Wins         int                `bson:"wins"`
	Draws        int                `bson:"draws"`
	Losses       int                `bson:"losses"`
	GoalsFor     int                `bson:"goals_for"`
	GoalsAgainst int                `bson:"goals_against"`
}

// MachineFixture is one simulated machine-vs-machine result inside a round document
type MachineFixture struct {
	HomeTeamId primitive.ObjectID `bson:"home_team_id"`
	AwayTeamId primitive.ObjectID `bson:"away_team_id"`
	HomeGoals  int                `bson:"home_goals"`
	AwayGoals  int                `bson:"away_goals"`
}

// MachineRound records the machine half of one round for one user's league.
// The unique (userid, season, tier, round) index on this collection is what
// makes round simulation at-most-once: a duplicate-key insert means the round
// was already applied and its statistics must not be applied again
type MachineRound struct {
	Id       primitive.ObjectID `bson:"_id,omitempty"`
	UserId   string             `bson:"userid"`
	Season   int                `bson:"season"`
	Tier     int                `bson:"tier"`
	Round    int                `bson:"round"`
	Fixtures []MachineFixture   `bson:"fixtures"`
	PlayedAt time.Time          `bson:"played_at"`
}

// StatDelta is one team's share of a single result, applied to
// MachineTeamStats with an atomic $inc
type StatDelta struct {
	Points       int
	Wins         int
	Draws        int
	Losses       int
	GoalsFor     int
	GoalsAgainst int
}

// DeltaFor computes the stat delta for a side that scored goalsFor and
// conceded goalsAgainst
func DeltaFor(goalsFor, goalsAgainst int) StatDelta {
	d := StatDelta{GoalsFor: goalsFor, GoalsAgainst: goalsAgainst}
	switch {
	case goalsFor > goalsAgainst:
		d.Wins = 1
		d.Points = shared.PointsWin
	case goalsFor < goalsAgainst:
		d.Losses = 1
		d.Points = shared.PointsLoss
	default:
		d.Draws = 1
		d.Points = shared.PointsDraw
	}
	return d
}
