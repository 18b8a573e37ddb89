/* calendar_test.go
 * Contains unit tests for calendar.go functions
 * Authors: Zachary Bower
 */

package logic

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"liga-bot/api/shared"
	"liga-bot/api/store"
)

// TestBuildCalendar_RoundCoverage tests that a calendar holds exactly one match per round 1-38
func TestBuildCalendar_RoundCoverage(t *testing.T) {
	opponents := store.TestCatalog(1)
	rng := rand.New(rand.NewSource(1))

	matches, err := BuildCalendar("user1", 2025, 1, opponents, SeasonStart(2025), rng)

	assert.NoError(t, err)
	assert.Len(t, matches, shared.RoundsPerSeason)

	seen := make(map[int]bool)
	for _, m := range matches {
		assert.False(t, seen[m.Round], "round %d appears twice", m.Round)
		seen[m.Round] = true
		assert.GreaterOrEqual(t, m.Round, 1)
		assert.LessOrEqual(t, m.Round, shared.RoundsPerSeason)
		assert.Equal(t, shared.MatchScheduled, m.Status)
		assert.Equal(t, "user1", m.UserId)
		assert.Equal(t, 2025, m.Season)
		assert.Equal(t, 1, m.Tier)
	}
}

// TestBuildCalendar_DoubleRoundRobin tests that every opponent is met exactly twice, once home and once away
func TestBuildCalendar_DoubleRoundRobin(t *testing.T) {
	opponents := store.TestCatalog(2)
	rng := rand.New(rand.NewSource(7))

	matches, err := BuildCalendar("user1", 2025, 2, opponents, SeasonStart(2025), rng)
	assert.NoError(t, err)

	type venues struct{ home, away int }
	met := make(map[string]*venues)
	for _, m := range matches {
		v := met[m.OpponentName]
		if v == nil {
			v = &venues{}
			met[m.OpponentName] = v
		}
		if m.UserHome {
			v.home++
		} else {
			v.away++
		}
	}

	assert.Len(t, met, shared.TeamsPerTier)
	for name, v := range met {
		assert.Equal(t, 1, v.home, "opponent %s home meetings", name)
		assert.Equal(t, 1, v.away, "opponent %s away meetings", name)
	}
}

// TestBuildCalendar_ReturnoMirrorsTurno tests that rounds r and r+19 share an opponent with venues reversed
func TestBuildCalendar_ReturnoMirrorsTurno(t *testing.T) {
	opponents := store.TestCatalog(3)
	rng := rand.New(rand.NewSource(3))

	matches, err := BuildCalendar("user1", 2024, 3, opponents, SeasonStart(2024), rng)
	assert.NoError(t, err)

	byRound := make(map[int]store.SeasonMatch)
	for _, m := range matches {
		byRound[m.Round] = m
	}

	for r := 1; r <= shared.RoundsPerHalf; r++ {
		turno := byRound[r]
		returno := byRound[r+shared.RoundsPerHalf]
		assert.Equal(t, turno.OpponentId, returno.OpponentId, "round %d opponent", r)
		assert.Equal(t, turno.UserHome, !returno.UserHome, "round %d venue", r)
	}
}

// TestBuildCalendar_DatesSpacedAndReproducible tests kickoff spacing and seeded determinism
func TestBuildCalendar_DatesSpacedAndReproducible(t *testing.T) {
	opponents := store.TestCatalog(1)

	first, err := BuildCalendar("user1", 2025, 1, opponents, SeasonStart(2025), rand.New(rand.NewSource(42)))
	assert.NoError(t, err)
	second, err := BuildCalendar("user1", 2025, 1, opponents, SeasonStart(2025), rand.New(rand.NewSource(42)))
	assert.NoError(t, err)

	assert.Equal(t, SeasonStart(2025), first[0].KickoffAt)
	for i := 1; i < len(first); i++ {
		gap := first[i].KickoffAt.Sub(first[i-1].KickoffAt).Hours() / 24
		assert.GreaterOrEqual(t, gap, 7.0, "round %d gap", i+1)
		assert.LessOrEqual(t, gap, 10.0, "round %d gap", i+1)
	}

	for i := range first {
		assert.Equal(t, first[i].KickoffAt, second[i].KickoffAt, "round %d kickoff differs between seeded runs", i+1)
	}
}

// TestBuildCalendar_InvalidTier tests that a short or long catalog is rejected
func TestBuildCalendar_InvalidTier(t *testing.T) {
	tests := []struct {
		name  string
		count int
	}{
		{"too few teams", 18},
		{"too many teams", 20},
		{"empty catalog", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opponents := store.TestCatalog(1)
			if tt.count < len(opponents) {
				opponents = opponents[:tt.count]
			} else {
				for len(opponents) < tt.count {
					opponents = append(opponents, opponents[0])
				}
			}

			_, err := BuildCalendar("user1", 2025, 1, opponents, SeasonStart(2025), rand.New(rand.NewSource(1)))
			assert.ErrorIs(t, err, shared.ErrInvalidTierConfiguration)
		})
	}
}
