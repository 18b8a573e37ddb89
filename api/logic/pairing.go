/* pairing.go
 * Contains the machine round pairing: with 19 machine clubs one league slot sits out machine
 * play each round (it is busy playing the user), and the other 18 pair off by reflection
 * around that slot. All functions index into the tier's canonical name-sorted catalog order
 * Authors: Zachary Bower
 */

package logic

import (
	"fmt"
	"math/rand"

	"liga-bot/api/shared"
	"liga-bot/api/store"
)

// Pairing is one machine-vs-machine tie expressed as catalog indexes
type Pairing struct {
	Home int
	Away int
}

// FoldRound maps a raw round number (1-38) onto its turno equivalent (1-19)
func FoldRound(raw int) int {
	if raw > shared.RoundsPerHalf {
		return raw - shared.RoundsPerHalf
	}
	return raw
}

// RestingIndex returns the catalog index that sits out machine play in a raw round.
// It is always the user's opponent for that round, so over 38 rounds every machine
// club sits out exactly twice: the two rounds it spends playing the user
func RestingIndex(raw int) int {
	return (FoldRound(raw) - 1) % shared.TeamsPerTier
}

// RoundPairings returns the 9 machine ties for a raw round. With c the resting
// index, offset +d pairs with offset -d (mod 19) for d = 1..9; every pair of clubs
// reflects around exactly one c, so each pair meets once per half-season, and the
// returno replays the turno tie with the venue swapped
func RoundPairings(raw int) []Pairing {
	c := RestingIndex(raw)
	returno := raw > shared.RoundsPerHalf

	pairings := make([]Pairing, 0, (shared.TeamsPerTier-1)/2)
	for d := 1; d <= (shared.TeamsPerTier-1)/2; d++ {
		a := (c + d) % shared.TeamsPerTier
		b := (c - d + shared.TeamsPerTier) % shared.TeamsPerTier

		// Alternate venues within the half so no club plays home every round
		home, away := a, b
		if d%2 == 0 {
			home, away = b, a
		}
		if returno {
			home, away = away, home
		}
		pairings = append(pairings, Pairing{Home: home, Away: away})
	}
	return pairings
}

// MachineFixtures simulates the machine half of one raw round: 9 fixtures between
// the 18 clubs not facing the user, each scored by the outcome simulator with the
// usual home bonus. The teams slice must be the tier's canonical catalog order
// Preconditions: Receives exactly shared.TeamsPerTier teams, the raw round and an rng
// Postconditions: Returns the 9 simulated fixtures, or shared.ErrInvalidTierConfiguration
func MachineFixtures(teams []store.MachineTeam, raw int, rng *rand.Rand) ([]store.MachineFixture, error) {
	if len(teams) != shared.TeamsPerTier {
		return nil, fmt.Errorf("got %d teams: %w", len(teams), shared.ErrInvalidTierConfiguration)
	}

	pairings := RoundPairings(raw)
	fixtures := make([]store.MachineFixture, 0, len(pairings))
	for _, p := range pairings {
		home, away := teams[p.Home], teams[p.Away]
		hg, ag := SimulateScore(home.Strength, away.Strength, true, rng)
		fixtures = append(fixtures, store.MachineFixture{
			HomeTeamId: home.Id,
			AwayTeamId: away.Id,
			HomeGoals:  hg,
			AwayGoals:  ag,
		})
	}
	return fixtures, nil
}
