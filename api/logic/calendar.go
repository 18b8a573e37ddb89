/* calendar.go
 * Contains the user calendar generator: a double round robin against the tier's 19 machine
 * clubs, turno rounds 1-19 and returno rounds 20-38 with venues reversed
 * Authors: Zachary Bower
 */

package logic

import (
	"fmt"
	"math/rand"
	"time"

	"liga-bot/api/shared"
	"liga-bot/api/store"
)

// Rounds are spaced 7-10 days apart so a season doesn't land on a perfectly
// periodic calendar. The jitter comes from the injected rng, so a seeded rng
// reproduces the same dates.
const (
	minRoundGapDays = 7
	roundGapJitter  = 4
)

// BuildCalendar produces the user's 38 scheduled matches for one season.
// Round r of the turno pairs the user against opponents[r-1], home when r is odd;
// the returno repeats the opponent order with venues reversed. The opponents slice
// must already be in the league's canonical (name-sorted) order, since the round
// batch simulator indexes into the same ordering.
// Preconditions: Receives userID, season, tier, exactly shared.TeamsPerTier opponents,
// the season start date and an rng
// Postconditions: Returns the 38 scheduled matches, or shared.ErrInvalidTierConfiguration
func BuildCalendar(userID string, season int, tier int, opponents []store.MachineTeam, start time.Time, rng *rand.Rand) ([]store.SeasonMatch, error) {
	if len(opponents) != shared.TeamsPerTier {
		return nil, fmt.Errorf("got %d opponents: %w", len(opponents), shared.ErrInvalidTierConfiguration)
	}

	matches := make([]store.SeasonMatch, 0, shared.RoundsPerSeason)
	kickoff := start
	for round := 1; round <= shared.RoundsPerSeason; round++ {
		folded := FoldRound(round)
		opp := opponents[folded-1]

		userHome := folded%2 == 1
		if round > shared.RoundsPerHalf {
			userHome = !userHome
		}

		matches = append(matches, store.SeasonMatch{
			UserId:       userID,
			Season:       season,
			Tier:         tier,
			Round:        round,
			OpponentId:   opp.Id,
			OpponentName: opp.Name,
			UserHome:     userHome,
			Status:       shared.MatchScheduled,
			KickoffAt:    kickoff,
		})

		kickoff = kickoff.AddDate(0, 0, minRoundGapDays+rng.Intn(roundGapJitter))
	}

	return matches, nil
}

// SeasonStart returns the fixed calendar anchor for a season year
func SeasonStart(season int) time.Time {
	return time.Date(season, time.March, 15, 16, 0, 0, 0, time.UTC)
}
