package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/julienschmidt/httprouter"
	"github.com/mroshb/trivia_duel/internal/game"
	"github.com/mroshb/trivia_duel/pkg/errors"
)

func paramUint(ps httprouter.Params, name string) (uint, error) {
	id, err := strconv.ParseUint(ps.ByName(name), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New(errors.ErrCodeValidation, "invalid "+name+" parameter")
	}
	return uint(id), nil
}

// ListTopics exposes the content bank's topic list.
func (m *Manager) ListTopics(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	topics, err := m.ContentRepo.ListTopics()
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"topics": toTopics(topics)})
}

// Join pairs the player into a match or queues them.
func (m *Manager) Join(w http.ResponseWriter, _ *http.Request, _ httprouter.Params, playerID uint) {
	result, err := m.Engine.JoinOrResume(playerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeOutcome(w, result.State, map[string]interface{}{"match": toMatch(result.Match)})
}

// Status reports the player's active match, if any.
func (m *Manager) Status(w http.ResponseWriter, _ *http.Request, _ httprouter.Params, playerID uint) {
	result, err := m.Engine.MatchStatus(playerID)
	if err != nil {
		writeError(w, err)
		return
	}

	if result.Match == nil {
		writeOutcome(w, result.State, nil)
		return
	}
	writeOutcome(w, result.State, map[string]interface{}{"match": toMatch(result.Match)})
}

// EnterRound routes the player into the current round of a match.
func (m *Manager) EnterRound(w http.ResponseWriter, _ *http.Request, ps httprouter.Params, playerID uint) {
	matchID, err := paramUint(ps, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	entry, err := m.Engine.EnterRound(matchID, playerID)
	if err != nil {
		writeError(w, err)
		return
	}

	switch entry.State {
	case game.EntryChooseTopic:
		writeOutcome(w, entry.State, map[string]interface{}{
			"round_number": entry.RoundNumber,
			"offer":        toTopics(entry.Offer),
		})
	case game.EntryWaitForChoice:
		writeOutcome(w, entry.State, map[string]interface{}{
			"round_number": entry.RoundNumber,
		})
	case game.EntryResumeRound:
		writeOutcome(w, entry.State, map[string]interface{}{
			"round": toRound(entry.Round),
			"phase": entry.Phase,
		})
	default: // EntryMatchComplete
		writeOutcome(w, entry.State, map[string]interface{}{
			"match": toMatch(entry.Match),
		})
	}
}

type submitTopicRequest struct {
	TopicID uint `json:"topic_id"`
}

// SubmitTopic finalizes the chooser's topic pick and starts the round.
func (m *Manager) SubmitTopic(w http.ResponseWriter, r *http.Request, ps httprouter.Params, playerID uint) {
	matchID, err := paramUint(ps, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req submitTopicRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.TopicID == 0 {
		writeError(w, errors.New(errors.ErrCodeValidation, "invalid request body"))
		return
	}

	start, err := m.Engine.SubmitTopic(matchID, playerID, req.TopicID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeOutcome(w, "round_started", map[string]interface{}{
		"round": toRound(start.Round),
		"phase": start.Phase,
	})
}

// EnterPhase fetches the player's next question, or a wait marker when
// it is not their turn yet.
func (m *Manager) EnterPhase(w http.ResponseWriter, _ *http.Request, ps httprouter.Params, playerID uint) {
	roundID, err := paramUint(ps, "id")
	if err != nil {
		writeError(w, err)
		return
	}
	phase := ps.ByName("phase")

	view, err := m.Engine.EnterPhase(roundID, playerID, phase)
	if err != nil {
		writeError(w, err)
		return
	}

	switch view.State {
	case game.PhasePresent:
		writeOutcome(w, view.State, map[string]interface{}{
			"session_id": view.Session.ID,
			"question":   toQuestion(view.Question),
			"index":      view.Index,
			"total":      view.Total,
			"time_limit": view.TimeLimit,
		})
	case game.PhaseFinished:
		data := map[string]interface{}{
			"session_id": view.Session.ID,
			"score":      view.Session.Score,
		}
		if view.NextPhase != "" {
			data["next_phase"] = view.NextPhase
		}
		writeOutcome(w, view.State, data)
	default: // PhaseWait
		writeOutcome(w, view.State, nil)
	}
}

type submitAnswerRequest struct {
	QuestionID uint `json:"question_id"`
	ChoiceID   uint `json:"choice_id"`
}

// SubmitAnswer records the player's choice for their pending question.
func (m *Manager) SubmitAnswer(w http.ResponseWriter, r *http.Request, ps httprouter.Params, playerID uint) {
	sessionID, err := paramUint(ps, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	var req submitAnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.QuestionID == 0 || req.ChoiceID == 0 {
		writeError(w, errors.New(errors.ErrCodeValidation, "invalid request body"))
		return
	}

	outcome, err := m.Engine.SubmitAnswer(sessionID, playerID, req.QuestionID, req.ChoiceID)
	if err != nil {
		writeError(w, err)
		return
	}

	data := map[string]interface{}{
		"correct": outcome.Correct,
		"score":   outcome.Score,
	}
	switch outcome.State {
	case game.AnswerPhaseComplete:
		data["next_phase"] = outcome.NextPhase
	case game.AnswerRoundComplete:
		data["match_completed"] = outcome.MatchCompleted
	}

	writeOutcome(w, outcome.State, data)
}

// RoundSummary reports both players' scores for one round.
func (m *Manager) RoundSummary(w http.ResponseWriter, _ *http.Request, ps httprouter.Params, playerID uint) {
	roundID, err := paramUint(ps, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	scores, err := m.Engine.RoundSummary(roundID, playerID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toRoundScores(scores))
}

// MatchSummary reports per-round scores and totals.
func (m *Manager) MatchSummary(w http.ResponseWriter, _ *http.Request, ps httprouter.Params, playerID uint) {
	matchID, err := paramUint(ps, "id")
	if err != nil {
		writeError(w, err)
		return
	}

	report, err := m.Engine.MatchSummary(matchID, playerID)
	if err != nil {
		writeError(w, err)
		return
	}

	rounds := make([]roundScoresPayload, len(report.Rounds))
	for i := range report.Rounds {
		rounds[i] = toRoundScores(&report.Rounds[i])
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"match":         toMatch(report.Match),
		"rounds":        rounds,
		"player1_total": report.Player1Total,
		"player2_total": report.Player2Total,
	})
}
