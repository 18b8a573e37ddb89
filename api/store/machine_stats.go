/* machine_stats.go
 * Contains the methods for interacting with the machine_team_stats collection. All mutation
 * goes through atomic $inc updates so concurrent round processing cannot lose increments
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ZeroMachineStats creates one zeroed stats row per opponent for a fresh season.
// Upserts keep re-initialization side effect free: an existing row is left untouched
// Preconditions: Receives userID, season, tier and the catalog team ids
// Postconditions: Every team has a stats row for (user, season, tier), or an error is returned
func (s *Store) ZeroMachineStats(userID string, season int, tier int, teamIDs []primitive.ObjectID) error {
	for _, teamID := range teamIDs {
		filter := bson.M{"userid": userID, "team_id": teamID, "season": season, "tier": tier}
		update := bson.M{"$setOnInsert": MachineTeamStats{
			UserId: userID,
			TeamId: teamID,
			Season: season,
			Tier:   tier,
		}}

		_, err := s.Collections.MachineTeamStats.UpdateOne(context.TODO(), filter, update, options.Update().SetUpsert(true))
		if err != nil {
			return fmt.Errorf("failed to create zeroed stats row: %w", err)
		}
	}
	return nil
}

// ListMachineStats returns every stats row for (user, season, tier), keyed by team id.
// Teams with no row yet simply have no map entry; the standings aggregator treats
// that as a zeroed record
// Preconditions: Receives userID, season and tier
// Postconditions: Returns the map of stats rows, or an error if it occurs
func (s *Store) ListMachineStats(userID string, season int, tier int) (map[primitive.ObjectID]MachineTeamStats, error) {
	filter := bson.M{"userid": userID, "season": season, "tier": tier}

	cursor, err := s.Collections.MachineTeamStats.Find(context.TODO(), filter)
	if err != nil {
		return nil, fmt.Errorf("error fetching machine stats from db: %w", err)
	}

	var rows []MachineTeamStats
	if err = cursor.All(context.TODO(), &rows); err != nil {
		return nil, fmt.Errorf("error unpacking cursor into slice of machine stats: %w", err)
	}

	stats := make(map[primitive.ObjectID]MachineTeamStats, len(rows))
	for _, row := range rows {
		stats[row.TeamId] = row
	}
	return stats, nil
}

// ApplyStatDelta accumulates one result share onto a team's stats row with a single
// atomic increment. Upsert covers teams added to a tier after season start
// Preconditions: Receives the stats row key and the delta computed by DeltaFor
// Postconditions: Increments games, result counts, goals and points in place, or returns an error
func (s *Store) ApplyStatDelta(userID string, teamID primitive.ObjectID, season int, tier int, delta StatDelta) error {
	filter := bson.M{"userid": userID, "team_id": teamID, "season": season, "tier": tier}
	update := bson.M{"$inc": bson.M{
		"games":         1,
		"wins":          delta.Wins,
		"draws":         delta.Draws,
		"losses":        delta.Losses,
		"goals_for":     delta.GoalsFor,
		"goals_against": delta.GoalsAgainst,
		"points":        delta.Points,
	}}

	_, err := s.Collections.MachineTeamStats.UpdateOne(context.TODO(), filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to apply stat delta: %w", err)
	}
	return nil
}

// ResetMachineStats zeroes every stats row for (user, season, tier). Season reset
// keeps the rows and wipes the counters, so re-initialization is not needed
// Preconditions: Receives userID, season and tier
// Postconditions: All counters on the matching rows are zero, or an error is returned
func (s *Store) ResetMachineStats(userID string, season int, tier int) error {
	filter := bson.M{"userid": userID, "season": season, "tier": tier}
	update := bson.M{"$set": bson.M{
		"games":         0,
		"wins":          0,
		"draws":         0,
		"losses":        0,
		"goals_for":     0,
		"goals_against": 0,
		"points":        0,
	}}

	_, err := s.Collections.MachineTeamStats.UpdateMany(context.TODO(), filter, update)
	if err != nil {
		return fmt.Errorf("failed to reset machine stats: %w", err)
	}
	return nil
}
