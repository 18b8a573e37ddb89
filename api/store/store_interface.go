/* store_interface.go
 * Contains the Store interface for dependency injection and testing
 * Authors: Zachary Bower
 */

package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Interface defines the methods that Store implements.
// This allows for mocking in tests.
type Interface interface {
	// Machine team catalog (read-only)
	ListMachineTeams(tier int) ([]MachineTeam, error)
	GetMachineTeam(id primitive.ObjectID) (MachineTeam, error)

	// Season calendar
	InsertSeasonMatches(matches []SeasonMatch) error
	GetSeasonMatch(id primitive.ObjectID) (SeasonMatch, error)
	CountSeasonMatches(userID string, season int, tier int) (int64, error)
	SeasonCalendar(userID string, season int) ([]SeasonMatch, error)
	UpcomingMatches(userID string, season int, limit int) ([]SeasonMatch, error)
	RecentMatches(userID string, season int, limit int) ([]SeasonMatch, error)
	FinishedMatches(userID string, season int, tier int) ([]SeasonMatch, error)
	FinishSeasonMatch(id primitive.ObjectID, homeGoals int, awayGoals int) error
	ResetSeasonMatches(userID string, season int, tier int) error

	// User progress
	GetProgress(userID string, season int) (UserProgress, error)
	GetLatestProgress(userID string) (UserProgress, error)
	CreateProgress(p UserProgress) (UserProgress, error)
	UpdateProgressRecord(p UserProgress) error
	SetSeasonStatus(userID string, season int, status string) error

	// Per-user machine team statistics
	ZeroMachineStats(userID string, season int, tier int, teamIDs []primitive.ObjectID) error
	ListMachineStats(userID string, season int, tier int) (map[primitive.ObjectID]MachineTeamStats, error)
	ApplyStatDelta(userID string, teamID primitive.ObjectID, season int, tier int, delta StatDelta) error
	ResetMachineStats(userID string, season int, tier int) error

	// Machine round guard
	ClaimMachineRound(round MachineRound) (bool, error)
	MachineRoundExists(userID string, season int, tier int, round int) (bool, error)
	DeleteMachineRounds(userID string, season int, tier int) error

	// Getter methods for accessing fields
	GetClient() interface{ Disconnect(context.Context) error }
}

// Ensure Store implements Interface
var _ Interface = (*Store)(nil)

// GetClient returns the MongoDB client
func (s *Store) GetClient() interface{ Disconnect(context.Context) error } {
	return s.Client
}
