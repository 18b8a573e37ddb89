/* standings.go
 * Contains the standings aggregator: merges the user's cumulative record with the tier's
 * per-user machine records into a sorted 20-row table. Computed at read time, never cached
 * Authors: Zachary Bower
 */

package logic

import (
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"liga-bot/api/store"
)

// Record is one competitor's cumulative season record
type Record struct {
	Points       int
	Games        int
	Wins         int
	Draws        int
	Losses       int
	GoalsFor     int
	GoalsAgainst int
}

// GoalDiff returns goals scored minus goals conceded
func (r Record) GoalDiff() int {
	return r.GoalsFor - r.GoalsAgainst
}

// Row is one line of the standings table
type Row struct {
	TeamId   primitive.ObjectID // zero value for the user's club
	Name     string
	IsUser   bool
	Position int
	Record
}

// RecordFromMatches recomputes a user's cumulative record from their finished
// matches. Recomputing instead of incrementing means a retried request can never
// drift the totals
func RecordFromMatches(matches []store.SeasonMatch) Record {
	var rec Record
	for _, m := range matches {
		gf, ga := m.UserGoals(), m.OpponentGoals()
		rec.Games++
		rec.GoalsFor += gf
		rec.GoalsAgainst += ga

		d := store.DeltaFor(gf, ga)
		rec.Wins += d.Wins
		rec.Draws += d.Draws
		rec.Losses += d.Losses
		rec.Points += d.Points
	}
	return rec
}

// BuildTable assembles the 20-row table for one user's league: the user's own
// record plus one row per machine club, zeroed where no stats row exists yet.
// The teams slice must be in the canonical name-sorted order so that rows tied on
// every sort key keep a stable, repeatable order across calls
// Preconditions: Receives the user's display name and record, the tier catalog and
// the per-user stats rows keyed by team id
// Postconditions: Returns the sorted table with 1-based positions assigned
func BuildTable(userName string, user Record, teams []store.MachineTeam, stats map[primitive.ObjectID]store.MachineTeamStats) []Row {
	rows := make([]Row, 0, len(teams)+1)
	rows = append(rows, Row{Name: userName, IsUser: true, Record: user})

	for _, team := range teams {
		row := Row{TeamId: team.Id, Name: team.Name}
		if st, ok := stats[team.Id]; ok {
			row.Record = Record{
				Points:       st.Points,
				Games:        st.Games,
				Wins:         st.Wins,
				Draws:        st.Draws,
				Losses:       st.Losses,
				GoalsFor:     st.GoalsFor,
				GoalsAgainst: st.GoalsAgainst,
			}
		}
		rows = append(rows, row)
	}

	SortTable(rows)
	return rows
}

// SortTable sorts rows by points, then goal difference, then goals scored, all
// descending. The sort is stable so ties fall back to the caller's row order and
// nothing else
func SortTable(rows []Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Points != b.Points {
			return a.Points > b.Points
		}
		if a.GoalDiff() != b.GoalDiff() {
			return a.GoalDiff() > b.GoalDiff()
		}
		return a.GoalsFor > b.GoalsFor
	})

	for i := range rows {
		rows[i].Position = i + 1
	}
}
