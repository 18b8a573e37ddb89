/* names.go
 * Contains fuzzy team name resolution so chat-facing callers can refer to clubs without
 * typing their exact catalog names
 * Authors: Zachary Bower
 */

package logic

import (
	"strings"

	"github.com/lithammer/fuzzysearch/fuzzy"

	"liga-bot/api/shared"
)

// ResolveTeamName matches free-form user input against the league's club names.
// Matching is case insensitive; an exact match wins outright, otherwise the best
// ranked fuzzy candidate is taken.
// Preconditions: Receives the user's input and the list of valid club names
// Postconditions: Returns the canonical club name, or shared.ErrTeamNotFound
func ResolveTeamName(input string, validNames []string) (string, error) {
	lookup := make(map[string]string, len(validNames))
	lower := make([]string, 0, len(validNames))
	for _, name := range validNames {
		l := strings.ToLower(name)
		lookup[l] = name
		lower = append(lower, l)
	}

	target := strings.ToLower(strings.TrimSpace(input))
	if target == "" {
		// An empty pattern fuzzy-matches every candidate, which would resolve
		// blank input to an arbitrary club
		return "", shared.ErrTeamNotFound
	}
	results := fuzzy.RankFind(target, lower)
	if len(results) == 0 {
		return "", shared.ErrTeamNotFound
	}

	// Prefer an exact hit when several names fuzzy-match
	for i := range results {
		if results[i].Target == target {
			return lookup[target], nil
		}
	}

	best := results[0]
	for _, r := range results[1:] {
		if r.Distance < best.Distance {
			best = r
		}
	}
	return lookup[best.Target], nil
}
