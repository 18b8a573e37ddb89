/* simulate.go
 * Contains the match outcome simulator: a pure mapping from two strength ratings to a
 * stochastic scoreline. Stateless and deterministic under a seeded rng
 * Authors: Zachary Bower
 */

package logic

import "math/rand"

const (
	homeBonus    = 3
	maxRatingGap = 30

	baseWinProb  = 0.35
	probPerPoint = 0.015
	minWinProb   = 0.10
	maxWinProb   = 0.70
	drawProb     = 0.30

	maxWinnerGoals = 3
	maxDrawGoals   = 3
)

// SimulateScore plays out one match between sides rated ratingA and ratingB.
// The home side gets a +3 bonus; the effective rating gap is clamped to ±30 and
// mapped linearly onto side A's win probability (35% base, 1.5 points per rating
// point, clamped to 10%-70%). Draws are a flat 30%; the loss band is the remainder.
// One uniform draw picks the band, then the scoreline is drawn to match it:
// winners score 1-3, losers anything below the winner, draws 0-3 apiece.
// Preconditions: Receives the two ratings, whether side A is at home, and an rng
// Postconditions: Returns side A's and side B's goals
func SimulateScore(ratingA int, ratingB int, aIsHome bool, rng *rand.Rand) (goalsA int, goalsB int) {
	effA, effB := ratingA, ratingB
	if aIsHome {
		effA += homeBonus
	} else {
		effB += homeBonus
	}

	diff := effA - effB
	if diff > maxRatingGap {
		diff = maxRatingGap
	} else if diff < -maxRatingGap {
		diff = -maxRatingGap
	}

	winA := baseWinProb + probPerPoint*float64(diff)
	if winA > maxWinProb {
		winA = maxWinProb
	} else if winA < minWinProb {
		winA = minWinProb
	}

	roll := rng.Float64()
	switch {
	case roll < winA:
		goalsA = 1 + rng.Intn(maxWinnerGoals)
		goalsB = rng.Intn(goalsA)
	case roll < winA+drawProb:
		goalsA = rng.Intn(maxDrawGoals + 1)
		goalsB = goalsA
	default:
		goalsB = 1 + rng.Intn(maxWinnerGoals)
		goalsA = rng.Intn(goalsB)
	}

	return goalsA, goalsB
}
