/* machine_teams.go
 * Contains the methods for interacting with the machine_teams collection. The catalog is seeded
 * by the admin layer; this engine only ever reads it
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"liga-bot/api/shared"
)

// ListMachineTeams returns the machine team catalog for one tier, sorted by name.
// The name sort is load bearing: it fixes the league ordering the calendar and the
// round pairing both index into, so it must be identical on every call.
// Preconditions: Receives the tier whose catalog is wanted
// Postconditions: Returns the catalog rows, or shared.ErrInvalidTierConfiguration if the
// tier does not hold exactly shared.TeamsPerTier teams, or a wrapped infrastructure error
func (s *Store) ListMachineTeams(tier int) ([]MachineTeam, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := s.Collections.MachineTeams.Find(context.TODO(), bson.M{"tier": tier}, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching machine teams from db: %w", err)
	}

	var teams []MachineTeam
	if err = cursor.All(context.TODO(), &teams); err != nil {
		return nil, fmt.Errorf("error unpacking cursor into slice of machine teams: %w", err)
	}

	if len(teams) != shared.TeamsPerTier {
		return nil, fmt.Errorf("tier %d has %d machine teams: %w", tier, len(teams), shared.ErrInvalidTierConfiguration)
	}

	return teams, nil
}

// GetMachineTeam looks up a single catalog row by id
// Preconditions: Receives the team's ObjectID
// Postconditions: Returns the team, or an error if it does not exist
func (s *Store) GetMachineTeam(id primitive.ObjectID) (MachineTeam, error) {
	var team MachineTeam
	err := s.Collections.MachineTeams.FindOne(context.TODO(), bson.M{"_id": id}).Decode(&team)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return MachineTeam{}, shared.ErrTeamNotFound
		}
		return MachineTeam{}, fmt.Errorf("error fetching machine team from db: %w", err)
	}
	return team, nil
}
