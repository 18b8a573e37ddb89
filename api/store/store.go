/* store.go
 * Contains the Store struct and NewStore function. The methods for this package were split into five files:
 * machine_teams, season_matches, user_progress, machine_stats and machine_rounds. Each of these files contains
 * the methods for interacting with that collection
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	Client      *mongo.Client
	Database    *mongo.Database
	Collections struct {
		MachineTeams     *mongo.Collection
		SeasonMatches    *mongo.Collection
		UserProgress     *mongo.Collection
		MachineTeamStats *mongo.Collection
		MachineRounds    *mongo.Collection
	}
}

// NewStore initialises the db connection, binds the collection handles and ensures
// the indexes the engine's correctness guarantees depend on.
// Preconditions: Receives strings containing dbName and mongoURI
// Postconditions: Returns pointer to the Store object, or error if it occurs
func NewStore(dbName string, mongoURI string) (*Store, error) {
	if dbName == "" {
		return nil, fmt.Errorf("dbName cannot be empty")
	}

	client, err := mongo.Connect(context.TODO(), options.Client().ApplyURI(mongoURI))
	if err != nil {
		return nil, err
	}
	db := client.Database(dbName)

	s := &Store{
		Client:   client,
		Database: db,
	}
	s.Collections.MachineTeams = db.Collection("machine_teams")
	s.Collections.SeasonMatches = db.Collection("season_matches")
	s.Collections.UserProgress = db.Collection("user_progress")
	s.Collections.MachineTeamStats = db.Collection("machine_team_stats")
	s.Collections.MachineRounds = db.Collection("machine_rounds")

	if err := s.ensureIndexes(context.TODO()); err != nil {
		return nil, fmt.Errorf("failed to ensure indexes: %w", err)
	}

	return s, nil
}

// ensureIndexes creates the unique indexes the simulation invariants rely on:
// one user-facing match per round, one stats row per (user, team, season, tier),
// and at-most-once machine round simulation
func (s *Store) ensureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	matchIdx := mongo.IndexModel{
		Keys: bson.D{
			{Key: "userid", Value: 1},
			{Key: "season", Value: 1},
			{Key: "tier", Value: 1},
			{Key: "round", Value: 1},
		},
		Options: unique,
	}
	if _, err := s.Collections.SeasonMatches.Indexes().CreateOne(ctx, matchIdx); err != nil {
		return fmt.Errorf("season_matches index: %w", err)
	}

	statsIdx := mongo.IndexModel{
		Keys: bson.D{
			{Key: "userid", Value: 1},
			{Key: "team_id", Value: 1},
			{Key: "season", Value: 1},
			{Key: "tier", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}
	if _, err := s.Collections.MachineTeamStats.Indexes().CreateOne(ctx, statsIdx); err != nil {
		return fmt.Errorf("machine_team_stats index: %w", err)
	}

	roundIdx := mongo.IndexModel{
		Keys: bson.D{
			{Key: "userid", Value: 1},
			{Key: "season", Value: 1},
			{Key: "tier", Value: 1},
			{Key: "round", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}
	if _, err := s.Collections.MachineRounds.Indexes().CreateOne(ctx, roundIdx); err != nil {
		return fmt.Errorf("machine_rounds index: %w", err)
	}

	progressIdx := mongo.IndexModel{
		Keys: bson.D{
			{Key: "userid", Value: 1},
			{Key: "season", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	}
	if _, err := s.Collections.UserProgress.Indexes().CreateOne(ctx, progressIdx); err != nil {
		return fmt.Errorf("user_progress index: %w", err)
	}

	return nil
}
