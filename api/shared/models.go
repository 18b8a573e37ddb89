/* models.go
 * This file contains the structs, constants and helper functions that are shared between sub packages
 * Authors: Zachary Bower
 */

package shared

type User struct {
	UserId   string
	Username string
}

// League shape constants. Every tier runs a 20-club league: the user's club
// plus 19 machine clubs, double round robin.
const (
	TeamsPerTier    = 19
	RoundsPerSeason = 38
	RoundsPerHalf   = 19
)

// Points awarded per result
const (
	PointsWin  = 3
	PointsDraw = 1
	PointsLoss = 0
)

// Match status values stored on season matches
const (
	MatchScheduled = "scheduled"
	MatchFinished  = "finished"
)

// Season status values stored on user progress
const (
	SeasonActive   = "active"
	SeasonFinished = "finished"
)

// DefaultUserStrength is used when the caller does not supply a rating for
// the user's club. Club data is owned by the admin layer, not this engine.
const DefaultUserStrength = 75

// ValidTier reports whether t is one of the four supported divisions
func ValidTier(t int) bool {
	return t >= 1 && t <= 4
}
