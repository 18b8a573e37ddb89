/* season_matches.go
 * Contains the methods for interacting with the season_matches collection
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

// InsertSeasonMatches writes one season's calendar in a single batch. The insert is
// unordered and treats duplicate keys as already-written rows, so a re-run against a
// complete or partial calendar fills in whatever rounds are missing and touches
// nothing else. Callers rely on this to heal a calendar whose first write died midway
// Preconditions: Receives the slice of scheduled matches produced by the calendar generator
// Postconditions: Every round in matches has a row, or an error is returned
func (s *Store) InsertSeasonMatches(matches []SeasonMatch) error {
	if len(matches) == 0 {
		return fmt.Errorf("no matches to insert")
	}

	docs := make([]interface{}, len(matches))
	for i := range matches {
		docs[i] = matches[i]
	}

	_, err := s.Collections.SeasonMatches.InsertMany(context.TODO(), docs, options.InsertMany().SetOrdered(false))
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("failed to insert season calendar: %w", err)
	}
	return nil
}

// SeasonCalendar returns every fixture for (user, season), scheduled and finished,
// in round order
func (s *Store) SeasonCalendar(userID string, season int) ([]SeasonMatch, error) {
	filter := bson.M{"userid": userID, "season": season}
	opts := options.Find().SetSort(bson.D{{Key: "round", Value: 1}})
	return s.findMatches(filter, opts)
}

// GetSeasonMatch fetches one match by id
// Preconditions: Receives the match ObjectID
// Postconditions: Returns the match, shared.ErrMatchNotFound if absent, or a wrapped infrastructure error
func (s *Store) GetSeasonMatch(id primitive.ObjectID) (SeasonMatch, error) {
	var m SeasonMatch
	err := s.Collections.SeasonMatches.FindOne(context.TODO(), bson.M{"_id": id}).Decode(&m)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return SeasonMatch{}, shared.ErrMatchNotFound
		}
		return SeasonMatch{}, fmt.Errorf("error fetching season match from db: %w", err)
	}
	return m, nil
}

// CountSeasonMatches returns the number of calendar rows for (user, season, tier).
// Used at rollover to decide whether a fixture list already exists
func (s *Store) CountSeasonMatches(userID string, season int, tier int) (int64, error) {
	filter := bson.M{"userid": userID, "season": season, "tier": tier}
	n, err := s.Collections.SeasonMatches.CountDocuments(context.TODO(), filter)
	if err != nil {
		return 0, fmt.Errorf("error counting season matches: %w", err)
	}
	return n, nil
}

// UpcomingMatches returns the user's next scheduled fixtures for a season, in round order
// Preconditions: Receives userID, season and a row limit (limit <= 0 means no limit)
// Postconditions: Returns up to limit scheduled matches, or an error if it occurs
func (s *Store) UpcomingMatches(userID string, season int, limit int) ([]SeasonMatch, error) {
	filter := bson.M{"userid": userID, "season": season, "status": shared.MatchScheduled}
	opts := options.Find().SetSort(bson.D{{Key: "round", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return s.findMatches(filter, opts)
}

// RecentMatches returns the user's most recently played fixtures for a season,
// newest round first
// Preconditions: Receives userID, season and a row limit (limit <= 0 means no limit)
// Postconditions: Returns up to limit finished matches, or an error if it occurs
func (s *Store) RecentMatches(userID string, season int, limit int) ([]SeasonMatch, error) {
	filter := bson.M{"userid": userID, "season": season, "status": shared.MatchFinished}
	opts := options.Find().SetSort(bson.D{{Key: "round", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return s.findMatches(filter, opts)
}

// FinishedMatches returns every finished fixture for (user, season, tier) in round
// order. The progress recalculation derives the user's cumulative record from this
func (s *Store) FinishedMatches(userID string, season int, tier int) ([]SeasonMatch, error) {
	filter := bson.M{"userid": userID, "season": season, "tier": tier, "status": shared.MatchFinished}
	opts := options.Find().SetSort(bson.D{{Key: "round", Value: 1}})
	return s.findMatches(filter, opts)
}

// FinishSeasonMatch records a final score on a scheduled match and flips its status.
// The filter includes status=scheduled so two concurrent simulations of the same
// match cannot both succeed; the loser sees shared.ErrMatchAlreadyPlayed
// Preconditions: Receives the match id and the final home/away goals
// Postconditions: Marks the match finished, or returns shared.ErrMatchAlreadyPlayed if it
// was not in the scheduled state, or a wrapped infrastructure error
func (s *Store) FinishSeasonMatch(id primitive.ObjectID, homeGoals int, awayGoals int) error {
	filter := bson.M{"_id": id, "status": shared.MatchScheduled}
	update := bson.M{"$set": bson.M{
		"home_goals": homeGoals,
		"away_goals": awayGoals,
		"status":     shared.MatchFinished,
	}}

	res, err := s.Collections.SeasonMatches.UpdateOne(context.TODO(), filter, update)
	if err != nil {
		return fmt.Errorf("failed to record match result: %w", err)
	}
	if res.MatchedCount == 0 {
		return shared.ErrMatchAlreadyPlayed
	}
	return nil
}

// ResetSeasonMatches puts every fixture for (user, season, tier) back in the
// scheduled state with the scores wiped. Season reset housekeeping; the caller also
// resets the stats rows and deletes the round documents so the three stay in step
// Preconditions: Receives userID, season and tier
// Postconditions: All matching rows are scheduled 0-0, or an error is returned
func (s *Store) ResetSeasonMatches(userID string, season int, tier int) error {
	filter := bson.M{"userid": userID, "season": season, "tier": tier}
	update := bson.M{"$set": bson.M{
		"home_goals": 0,
		"away_goals": 0,
		"status":     shared.MatchScheduled,
	}}

	_, err := s.Collections.SeasonMatches.UpdateMany(context.TODO(), filter, update)
	if err != nil {
		return fmt.Errorf("failed to reset season matches: %w", err)
	}
	return nil
}

// findMatches runs a find against the season_matches collection and unpacks the cursor
func (s *Store) findMatches(filter bson.M, opts *options.FindOptions) ([]SeasonMatch, error) {
	cursor, err := s.Collections.SeasonMatches.Find(context.TODO(), filter, opts)
	if err != nil {
		return nil, fmt.Errorf("error fetching season matches from db: %w", err)
	}

	var matches []SeasonMatch
	if err = cursor.All(context.TODO(), &matches); err != nil {
		return nil, fmt.Errorf("error unpacking cursor into slice of season matches: %w", err)
	}
	return matches, nil
}
