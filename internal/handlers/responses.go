package handlers

import (
	"encoding/json"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/mroshb/trivia_duel/internal/game"
	"github.com/mroshb/trivia_duel/internal/models"
	"github.com/mroshb/trivia_duel/pkg/errors"
	"github.com/mroshb/trivia_duel/pkg/logger"
)

// envelope is the uniform response shape: a discriminated state plus a
// payload the client renders.
type envelope struct {
	State string      `json:"state"`
	Data  interface{} `json:"data,omitempty"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeOutcome(w http.ResponseWriter, state string, data interface{}) {
	writeJSON(w, http.StatusOK, envelope{State: state, Data: data})
}

var codeStatus = map[string]int{
	errors.ErrCodeNotFound:          http.StatusNotFound,
	errors.ErrCodeNotAuthorized:     http.StatusForbidden,
	errors.ErrCodeInvalidSelection:  http.StatusUnprocessableEntity,
	errors.ErrCodeInvalidChoice:     http.StatusUnprocessableEntity,
	errors.ErrCodeValidation:        http.StatusBadRequest,
	errors.ErrCodeAlreadyExists:     http.StatusConflict,
	errors.ErrCodeRateLimitExceeded: http.StatusTooManyRequests,
	errors.ErrCodeInternalError:     http.StatusInternalServerError,
}

func writeError(w http.ResponseWriter, err error) {
	code := errors.CodeOf(err)
	status, ok := codeStatus[code]
	if !ok {
		status = http.StatusInternalServerError
	}

	msg := "internal error"
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) && status != http.StatusInternalServerError {
		msg = appErr.Message
	}
	if status == http.StatusInternalServerError {
		logger.Error("Request failed", "error", err)
	}

	writeJSON(w, status, envelope{State: "error", Data: errorBody{Code: code, Message: msg}})
}

// Payload shapes. Models are never serialized directly: question
// payloads must not leak which choice is correct.

type playerPayload struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type matchPayload struct {
	ID           uint           `json:"id"`
	Player1      playerPayload  `json:"player1"`
	Player2      *playerPayload `json:"player2,omitempty"`
	Status       string         `json:"status"`
	CurrentRound int            `json:"current_round"`
	CreatedAt    time.Time      `json:"created_at"`
	StartedAt    *time.Time     `json:"started_at,omitempty"`
}

type topicPayload struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type roundPayload struct {
	ID          uint         `json:"id"`
	MatchID     uint         `json:"match_id"`
	RoundNumber int          `json:"round_number"`
	ChooserID   uint         `json:"chooser_id"`
	Topic       topicPayload `json:"topic"`
}

type choicePayload struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

type questionPayload struct {
	ID      uint            `json:"id"`
	Text    string          `json:"text"`
	Choices []choicePayload `json:"choices"`
}

type roundScoresPayload struct {
	RoundNumber  int          `json:"round_number"`
	Topic        topicPayload `json:"topic"`
	Player1Score int          `json:"player1_score"`
	Player2Score int          `json:"player2_score"`
	Player1Done  bool         `json:"player1_done"`
	Player2Done  bool         `json:"player2_done"`
}

func toPlayer(p *models.Player) playerPayload {
	return playerPayload{ID: p.ID, Name: p.Name}
}

func toMatch(m *models.Match) matchPayload {
	payload := matchPayload{
		ID:           m.ID,
		Player1:      toPlayer(&m.Player1),
		Status:       m.Status,
		CurrentRound: m.CurrentRound,
		CreatedAt:    m.CreatedAt,
		StartedAt:    m.StartedAt,
	}
	if m.Player2 != nil {
		p2 := toPlayer(m.Player2)
		payload.Player2 = &p2
	}
	return payload
}

func toTopic(t *models.Topic) topicPayload {
	return topicPayload{ID: t.ID, Name: t.Name, Slug: t.Slug}
}

func toTopics(ts []models.Topic) []topicPayload {
	out := make([]topicPayload, len(ts))
	for i := range ts {
		out[i] = toTopic(&ts[i])
	}
	return out
}

func toRound(r *models.Round) roundPayload {
	return roundPayload{
		ID:          r.ID,
		MatchID:     r.MatchID,
		RoundNumber: r.RoundNumber,
		ChooserID:   r.ChooserID,
		Topic:       toTopic(&r.Topic),
	}
}

func toQuestion(q *models.Question) questionPayload {
	payload := questionPayload{ID: q.ID, Text: q.Text}
	for i := range q.Choices {
		payload.Choices = append(payload.Choices, choicePayload{
			ID:   q.Choices[i].ID,
			Text: q.Choices[i].Text,
		})
	}
	return payload
}

func toRoundScores(s *game.RoundScores) roundScoresPayload {
	return roundScoresPayload{
		RoundNumber:  s.RoundNumber,
		Topic:        toTopic(&s.Topic),
		Player1Score: s.Player1Score,
		Player2Score: s.Player2Score,
		Player1Done:  s.Player1Done,
		Player2Done:  s.Player2Done,
	}
}
