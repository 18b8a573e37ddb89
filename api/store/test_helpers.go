/* test_helpers.go
 * Contains test helper functions for store package tests and for packages that need
 * catalog fixtures. Kept out of _test files so api tests can share them
 * Authors: Zachary Bower
 */

package store

import (
	"context"
	"fmt"

	"github.com/brianvoe/gofakeit/v7"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"liga-bot/api/shared"
)

// CreateTestStore creates a Store connected to a test database.
// Returns the store and a cleanup function.
func CreateTestStore(mongoURI string) (*Store, func(), error) {
	store, err := NewStore("test_liga", mongoURI)
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		if store.Client != nil {
			// Drop test database
			store.Database.Drop(context.TODO())
			// Disconnect client
			store.Client.Disconnect(context.TODO())
		}
	}

	return store, cleanup, nil
}

// TestCatalog builds a deterministic 19-team catalog for one tier. Names carry an
// index so they are unique and their sorted order is predictable; the remaining
// fields are faked since nothing in the engine depends on them
func TestCatalog(tier int) []MachineTeam {
	faker := gofakeit.New(uint64(tier))

	teams := make([]MachineTeam, shared.TeamsPerTier)
	for i := range teams {
		teams[i] = MachineTeam{
			Id:             primitive.NewObjectID(),
			Name:           fmt.Sprintf("%02d %s", i, faker.City()),
			PrimaryColor:   faker.HexColor(),
			SecondaryColor: faker.HexColor(),
			Stadium:        fmt.Sprintf("%s Arena", faker.LastName()),
			Tier:           tier,
			Strength:       40 + faker.Number(0, 55),
		}
	}
	return teams
}

// SeedTestCatalog inserts a TestCatalog into a live store's machine_teams collection
func SeedTestCatalog(s *Store, tier int) ([]MachineTeam, error) {
	teams := TestCatalog(tier)
	docs := make([]interface{}, len(teams))
	for i := range teams {
		docs[i] = teams[i]
	}
	if _, err := s.Collections.MachineTeams.InsertMany(context.TODO(), docs); err != nil {
		return nil, fmt.Errorf("failed to seed test catalog: %w", err)
	}
	return teams, nil
}
