/* errors.go
 * Domain error sentinels shared between sub packages. Callers use errors.Is to tell
 * domain failures apart from infrastructure failures, which are wrapped and propagated as-is
 * Authors: Zachary Bower
 */

package shared

import "errors"

var (
	// ErrInvalidTierConfiguration is returned when a tier's machine team catalog
	// does not contain exactly TeamsPerTier teams. The engine never pads or
	// truncates the opponent list.
	ErrInvalidTierConfiguration = errors.New("tier catalog must contain exactly 19 machine teams")

	// ErrMatchNotFound is returned when a season match does not exist, is not
	// owned by the caller, or the id is malformed.
	ErrMatchNotFound = errors.New("match not found or not scheduled for this user")

	// ErrMatchAlreadyPlayed is returned when a caller tries to simulate a match
	// that already has a final score. Retrying would double-count statistics.
	ErrMatchAlreadyPlayed = errors.New("match has already been played")

	// ErrProgressNotFound is returned when a user has no season progress row.
	ErrProgressNotFound = errors.New("no season progress for this user")

	// ErrTeamNotFound is returned when a team name cannot be resolved against
	// the league's clubs.
	ErrTeamNotFound = errors.New("no team in this league matches that name")
)
