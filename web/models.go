/* models.go
 * Contains the server config and the request/response shapes for the HTTP surface
 * Authors: Zachary Bower
 */

package web

import (
	"liga-bot/api/api"
)

// Config holds the configuration for the web server
type Config struct {
	Addr string
	API  *api.API

	// Requests per second allowed across the API, with a small burst. Zero
	// falls back to DefaultRequestsPerSecond
	RequestsPerSecond float64
}

// DefaultRequestsPerSecond is plenty for a chat bot front end; the simulation
// itself is the expensive part, not the reads
const DefaultRequestsPerSecond = 25

// InitializeRequest is the body of POST /api/season/initialize
type InitializeRequest struct {
	UserId       string `json:"userId"`
	Username     string `json:"username,omitempty"`
	TeamId       string `json:"teamId"`
	TeamName     string `json:"teamName,omitempty"`
	TeamStrength int    `json:"teamStrength,omitempty"`
	Season       int    `json:"seasonYear,omitempty"`
	Tier         int    `json:"tier,omitempty"`
}

// SimulateRequest is the body of POST /api/season/matches/{matchId}/simulate
type SimulateRequest struct {
	UserId string `json:"userId"`
}

// ErrorResponse is the JSON envelope for all error replies
type ErrorResponse struct {
	Error string `json:"error"`
}
