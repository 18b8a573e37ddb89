/* names_test.go
 * Contains unit tests for names.go functions
 * Authors: Zachary Bower
 */

package logic

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"liga-bot/api/shared"
)

// TestResolveTeamName tests exact, case-insensitive and fuzzy resolution
func TestResolveTeamName(t *testing.T) {
	valid := []string{"Porto Azul", "Porto Verde", "Santa Cruz"}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"exact match", "Porto Azul", "Porto Azul"},
		{"case insensitive", "santa cruz", "Santa Cruz"},
		{"whitespace trimmed", "  Porto Verde ", "Porto Verde"},
		{"fuzzy partial", "cruz", "Santa Cruz"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveTeamName(tt.input, valid)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestResolveTeamName_NotFound tests that unmatchable and blank inputs are rejected.
// A blank pattern would otherwise rank-match every club and resolve to an arbitrary one
func TestResolveTeamName_NotFound(t *testing.T) {
	valid := []string{"Porto Azul", "Santa Cruz"}

	tests := []struct {
		name  string
		input string
	}{
		{"no match", "xyzzy"},
		{"empty", ""},
		{"whitespace only", "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ResolveTeamName(tt.input, valid)
			assert.ErrorIs(t, err, shared.ErrTeamNotFound)
		})
	}
}
