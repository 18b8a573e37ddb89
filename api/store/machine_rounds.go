/* machine_rounds.go
 * Contains the methods for interacting with the machine_rounds collection. One document per
 * (user, season, tier, round) is the engine's at-most-once guard for round simulation
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// ClaimMachineRound inserts the round document recording the machine half of one
// round. The unique index turns a retried or concurrent duplicate into a duplicate
// key error, reported as claimed=false: the caller must then skip stat application,
// since the statistics for that round were already handed out exactly once
// Preconditions: Receives the fully populated MachineRound
// Postconditions: Returns true if this call won the insert, false if the round was
// already simulated, or a wrapped infrastructure error
func (s *Store) ClaimMachineRound(round MachineRound) (bool, error) {
	_, err := s.Collections.MachineRounds.InsertOne(context.TODO(), round)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to record machine round: %w", err)
	}
	return true, nil
}

// MachineRoundExists reports whether a round has already been simulated for
// (user, season, tier). Used as a cheap pre-check before building fixtures
// Preconditions: Receives userID, season, tier and the raw round number
// Postconditions: Returns whether the round document exists, or an error if it occurs
func (s *Store) MachineRoundExists(userID string, season int, tier int, round int) (bool, error) {
	filter := bson.M{"userid": userID, "season": season, "tier": tier, "round": round}
	n, err := s.Collections.MachineRounds.CountDocuments(context.TODO(), filter)
	if err != nil {
		return false, fmt.Errorf("error counting machine rounds: %w", err)
	}
	return n > 0, nil
}

// DeleteMachineRounds removes every round document for (user, season, tier),
// releasing the at-most-once guard so a reset season can be simulated again
func (s *Store) DeleteMachineRounds(userID string, season int, tier int) error {
	filter := bson.M{"userid": userID, "season": season, "tier": tier}
	_, err := s.Collections.MachineRounds.DeleteMany(context.TODO(), filter)
	if err != nil {
		return fmt.Errorf("failed to delete machine rounds: %w", err)
	}
	return nil
}
