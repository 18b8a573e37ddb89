/* user_progress.go
 * Contains the methods for interacting with the user_progress collection
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"liga-bot/api/shared"
)

// GetProgress returns the user's progress row for one season
// Preconditions: Receives userID and season year
// Postconditions: Returns the row, shared.ErrProgressNotFound if absent, or a wrapped infrastructure error
func (s *Store) GetProgress(userID string, season int) (UserProgress, error) {
	var p UserProgress
	err := s.Collections.UserProgress.FindOne(context.TODO(), bson.M{"userid": userID, "season": season}).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return UserProgress{}, shared.ErrProgressNotFound
		}
		return UserProgress{}, fmt.Errorf("error fetching user progress from db: %w", err)
	}
	return p, nil
}

// GetLatestProgress returns the user's most recent progress row across seasons.
// Operations with an optional season argument resolve it through this
func (s *Store) GetLatestProgress(userID string) (UserProgress, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "season", Value: -1}})

	var p UserProgress
	err := s.Collections.UserProgress.FindOne(context.TODO(), bson.M{"userid": userID}, opts).Decode(&p)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return UserProgress{}, shared.ErrProgressNotFound
		}
		return UserProgress{}, fmt.Errorf("error fetching user progress from db: %w", err)
	}
	return p, nil
}

// CreateProgress inserts a fresh progress row. The unique (userid, season) index
// rejects a second row for the same season, which keeps initialization idempotent
// Preconditions: Receives a zeroed UserProgress for the new season
// Postconditions: Inserts the row and returns it, or returns the existing row if one
// was already present, or a wrapped infrastructure error
func (s *Store) CreateProgress(p UserProgress) (UserProgress, error) {
	_, err := s.Collections.UserProgress.InsertOne(context.TODO(), p)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return s.GetProgress(p.UserId, p.Season)
		}
		return UserProgress{}, fmt.Errorf("failed to insert user progress: %w", err)
	}
	return s.GetProgress(p.UserId, p.Season)
}

// UpdateProgressRecord overwrites the cumulative record and position on a progress
// row. The record is recomputed from finished matches rather than incremented, so a
// plain $set is safe here
// Preconditions: Receives the progress row carrying the recomputed totals
// Postconditions: Persists the totals, status and position, or returns an error if it occurs
func (s *Store) UpdateProgressRecord(p UserProgress) error {
	filter := bson.M{"userid": p.UserId, "season": p.Season}
	update := bson.M{"$set": bson.M{
		"points":        p.Points,
		"games":         p.Games,
		"wins":          p.Wins,
		"draws":         p.Draws,
		"losses":        p.Losses,
		"goals_for":     p.GoalsFor,
		"goals_against": p.GoalsAgainst,
		"position":      p.Position,
		"status":        p.Status,
	}}

	res, err := s.Collections.UserProgress.UpdateOne(context.TODO(), filter, update)
	if err != nil {
		return fmt.Errorf("failed to update user progress: %w", err)
	}
	if res.MatchedCount == 0 {
		return shared.ErrProgressNotFound
	}
	return nil
}

// SetSeasonStatus flips the lifecycle status on a progress row
// Preconditions: Receives userID, season and one of the shared season status values
// Postconditions: Updates the status, or returns an error if it occurs
func (s *Store) SetSeasonStatus(userID string, season int, status string) error {
	filter := bson.M{"userid": userID, "season": season}
	update := bson.M{"$set": bson.M{"status": status}}

	res, err := s.Collections.UserProgress.UpdateOne(context.TODO(), filter, update)
	if err != nil {
		return fmt.Errorf("failed to update season status: %w", err)
	}
	if res.MatchedCount == 0 {
		return shared.ErrProgressNotFound
	}
	return nil
}
