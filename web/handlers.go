/* handlers.go
 * Contains the HTTP handlers mapping the season engine's operations onto JSON endpoints.
 * Domain errors map onto 404 (not found), 409 (state conflicts) and 400 (bad input);
 * everything else is a 500 and the underlying error stays in the server log only
 * Authors: Zachary Bower
 */

package web

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"liga-bot/api/api"
	"liga-bot/api/shared"
)

// InitializeHandler handles POST /api/season/initialize
func (s *Server) InitializeHandler(w http.ResponseWriter, r *http.Request) {
	var req InitializeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.UserId == "" || req.TeamId == "" {
		writeError(w, http.StatusBadRequest, "userId and teamId are required")
		return
	}

	setup, err := s.api.InitializeSeason(api.InitializeParams{
		User:         shared.User{UserId: req.UserId, Username: req.Username},
		TeamId:       req.TeamId,
		TeamName:     req.TeamName,
		TeamStrength: req.TeamStrength,
		Season:       req.Season,
		Tier:         req.Tier,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, setup)
}

// ProgressHandler handles GET /api/season/{userId}/progress
func (s *Server) ProgressHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	progress, err := s.api.Progress(userID, seasonParam(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

// UpcomingMatchesHandler handles GET /api/season/{userId}/matches/upcoming
func (s *Server) UpcomingMatchesHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	matches, err := s.api.UpcomingMatches(userID, limitParam(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

// RecentMatchesHandler handles GET /api/season/{userId}/matches/recent
func (s *Server) RecentMatchesHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	matches, err := s.api.RecentMatches(userID, limitParam(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, matches)
}

// SimulateMatchHandler handles POST /api/season/matches/{matchId}/simulate
func (s *Server) SimulateMatchHandler(w http.ResponseWriter, r *http.Request) {
	matchID := mux.Vars(r)["matchId"]

	var req SimulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if req.UserId == "" {
		writeError(w, http.StatusBadRequest, "userId is required")
		return
	}

	result, err := s.api.SimulateMatch(matchID, req.UserId)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// StandingsHandler handles GET /api/season/{userId}/standings
func (s *Server) StandingsHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	standings, err := s.api.FullStandings(userID, seasonParam(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, standings)
}

// TeamStandingsHandler handles GET /api/season/{userId}/standings/team/{name}
func (s *Server) TeamStandingsHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	row, err := s.api.TeamStandings(vars["userId"], vars["name"])
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, row)
}

// RecalculateHandler handles POST /api/season/{userId}/standings/recalculate
func (s *Server) RecalculateHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	progress, err := s.api.RecalculateStandings(userID, seasonParam(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

// ResetSeasonHandler handles POST /api/season/{userId}/reset
func (s *Server) ResetSeasonHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	progress, err := s.api.ResetSeason(userID, seasonParam(r))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, progress)
}

// NewSeasonHandler handles POST /api/season/{userId}/new-season
func (s *Server) NewSeasonHandler(w http.ResponseWriter, r *http.Request) {
	userID := mux.Vars(r)["userId"]

	info, err := s.api.StartNewSeason(userID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, info)
}

// seasonParam reads the optional ?season= query value; 0 means latest
func seasonParam(r *http.Request) int {
	season, _ := strconv.Atoi(r.URL.Query().Get("season"))
	return season
}

// limitParam reads the optional ?limit= query value; 0 means all rows
func limitParam(r *http.Request) int {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	return limit
}

// writeDomainError translates the engine's error taxonomy onto HTTP statuses
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrMatchNotFound),
		errors.Is(err, shared.ErrProgressNotFound),
		errors.Is(err, shared.ErrTeamNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, shared.ErrMatchAlreadyPlayed):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, shared.ErrInvalidTierConfiguration):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		log.Println("request failed:", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Println("failed to encode response:", err)
	}
}
