package handlers

import (
	"encoding/json"
	"net"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"
	"github.com/mroshb/trivia_duel/internal/security"
	"github.com/mroshb/trivia_duel/pkg/errors"
)

type registerRequest struct {
	Name string `json:"name"`
}

type registerResponse struct {
	Token  string        `json:"token"`
	Player playerPayload `json:"player"`
}

// Register creates a player and hands back a session token. This is the
// identity supplier; the game core only ever sees the resolved player ID.
func (m *Manager) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.New(errors.ErrCodeValidation, "invalid request body"))
		return
	}

	name := security.SanitizeText(req.Name)
	if !security.ValidatePlayerName(name) {
		writeError(w, errors.New(errors.ErrCodeValidation, "name must be 2-100 characters"))
		return
	}

	player, err := m.PlayerRepo.CreatePlayer(name)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := security.GenerateJWT(player.ID, player.Name, m.Config.JWTSecret)
	if err != nil {
		writeError(w, errors.Wrap(err, errors.ErrCodeInternalError, "failed to issue token"))
		return
	}

	writeJSON(w, http.StatusCreated, registerResponse{
		Token:  token,
		Player: toPlayer(player),
	})
}

// playerHandle is an httprouter.Handle with the authenticated player
// resolved from the bearer token.
type playerHandle func(w http.ResponseWriter, r *http.Request, ps httprouter.Params, playerID uint)

func realIP(r *http.Request) string {
	host, _, _ := net.SplitHostPort(r.RemoteAddr)
	if ip := r.Header.Get("X-Real-IP"); ip != "" && net.ParseIP(ip) != nil {
		host = ip
	}
	return host
}

// authed wraps a handler with bearer-token auth and rate limiting.
func (m *Manager) authed(next playerHandle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		header := r.Header.Get("Authorization")
		tokenString, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || tokenString == "" {
			writeError(w, errors.New(errors.ErrCodeNotAuthorized, "missing bearer token"))
			return
		}

		claims, err := security.ValidateJWT(tokenString, m.Config.JWTSecret)
		if err != nil {
			writeError(w, errors.New(errors.ErrCodeNotAuthorized, "invalid token"))
			return
		}

		if !m.Limiter.AllowIP(realIP(r)) || !m.Limiter.AllowPlayer(claims.PlayerID) {
			writeError(w, errors.New(errors.ErrCodeRateLimitExceeded, "too many requests"))
			return
		}

		next(w, r, ps, claims.PlayerID)
	}
}
