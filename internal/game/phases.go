package game

import (
	"github.com/mroshb/trivia_duel/internal/models"
	"github.com/mroshb/trivia_duel/pkg/errors"
	"github.com/mroshb/trivia_duel/pkg/logger"
)

func firstUnanswered(answers []models.AnswerLog) *models.AnswerLog {
	for i := range answers {
		if answers[i].SelectedChoiceID == nil {
			return &answers[i]
		}
	}
	return nil
}

func countUnanswered(answers []models.AnswerLog) int {
	n := 0
	for i := range answers {
		if answers[i].SelectedChoiceID == nil {
			n++
		}
	}
	return n
}

// EnterPhase fetches the requester's next question within a round.
// Phases are strictly sequential: the chooser's "self" phase first, then
// the other player's "opponent" phase. A request out of turn gets an
// immediate Wait with no mutation; the client re-polls.
func (e *Engine) EnterPhase(roundID, playerID uint, phase string) (*PhaseView, error) {
	if phase != models.PhaseSelf && phase != models.PhaseOpponent {
		return nil, errors.New(errors.ErrCodeValidation, "unknown phase")
	}

	round, err := e.rounds.GetRound(roundID)
	if err != nil {
		return nil, err
	}
	match := &round.Match

	if !match.HasPlayer(playerID) {
		return nil, errors.New(errors.ErrCodeNotAuthorized, "player is not part of this match")
	}

	turnPlayerID := round.ChooserID
	if phase == models.PhaseOpponent {
		turnPlayerID = match.OpponentOf(round.ChooserID)
	}

	if playerID != turnPlayerID {
		return &PhaseView{State: PhaseWait}, nil
	}

	// The opponent's phase only opens once the chooser has finished.
	if phase == models.PhaseOpponent {
		chooserSession, err := e.rounds.GetSessionByRoundPlayer(roundID, round.ChooserID)
		if err != nil {
			return nil, err
		}
		if chooserSession.CompletedAt == nil {
			return &PhaseView{State: PhaseWait}, nil
		}
	}

	session, err := e.rounds.GetSessionByRoundPlayer(roundID, playerID)
	if err != nil {
		return nil, err
	}

	answers, err := e.rounds.GetAnswers(session.ID)
	if err != nil {
		return nil, err
	}

	if len(answers) == 0 {
		answers, err = e.seedSession(session, round.TopicID)
		if err != nil {
			return nil, err
		}
	}

	pending := firstUnanswered(answers)
	if pending == nil {
		// Stamp is normally set by the final SubmitAnswer; covering it
		// here keeps a crashed client from leaving the round stuck.
		if session.CompletedAt == nil {
			if err := e.rounds.CompleteSession(session.ID); err != nil {
				return nil, err
			}
		}

		view := &PhaseView{State: PhaseFinished, Session: session}
		if phase == models.PhaseSelf {
			view.NextPhase = models.PhaseOpponent
		}
		return view, nil
	}

	question, err := e.content.GetQuestion(pending.QuestionID)
	if err != nil {
		return nil, err
	}

	return &PhaseView{
		State:     PhasePresent,
		Session:   session,
		Question:  question,
		Index:     pending.Position,
		Total:     len(answers),
		TimeLimit: e.cfg.QuestionTimeSeconds,
	}, nil
}

// seedSession draws this session's question set from the round topic's
// approved pool. Each session samples independently; the two players may
// face different questions on the same topic.
func (e *Engine) seedSession(session *models.RoundSession, topicID uint) ([]models.AnswerLog, error) {
	pool, err := e.content.ApprovedQuestions(topicID)
	if err != nil {
		return nil, err
	}
	if len(pool) == 0 {
		return nil, errors.New(errors.ErrCodeInternalError, "topic has no approved questions")
	}

	picked := e.sampler.PickQuestions(pool, e.cfg.QuestionsPerRound)

	ids := make([]uint, len(picked))
	for i, q := range picked {
		ids[i] = q.ID
	}

	if err := e.rounds.SeedAnswers(session.ID, ids); err != nil {
		return nil, err
	}

	return e.rounds.GetAnswers(session.ID)
}

// SubmitAnswer records the player's choice for the session's pending
// question, scores it, and advances phase/round/match state when the
// quiz runs out. The score increment and choice write are one atomic
// update, so a client retry cannot double-count.
func (e *Engine) SubmitAnswer(sessionID, playerID, questionID, choiceID uint) (*AnswerOutcome, error) {
	session, err := e.rounds.GetSession(sessionID)
	if err != nil {
		return nil, err
	}
	if session.PlayerID != playerID {
		return nil, errors.New(errors.ErrCodeNotAuthorized, "session belongs to another player")
	}

	round, err := e.rounds.GetRound(session.RoundID)
	if err != nil {
		return nil, err
	}
	match := &round.Match

	answers, err := e.rounds.GetAnswers(sessionID)
	if err != nil {
		return nil, err
	}

	pending := firstUnanswered(answers)
	if pending == nil {
		return nil, errors.New(errors.ErrCodeValidation, "no unanswered question in this session")
	}
	if pending.QuestionID != questionID {
		return nil, errors.New(errors.ErrCodeValidation, "question is not the pending item")
	}

	question, err := e.content.GetQuestion(questionID)
	if err != nil {
		return nil, err
	}
	if !question.HasChoice(choiceID) {
		return nil, errors.New(errors.ErrCodeInvalidChoice, "choice does not belong to this question")
	}

	correct := false
	if c := question.CorrectChoice(); c != nil && c.ID == choiceID {
		correct = true
	}

	// A duplicate submission affects zero rows; re-deriving the state
	// below keeps the response consistent either way.
	if _, err := e.rounds.RecordAnswer(sessionID, pending.Position, choiceID, correct); err != nil {
		return nil, err
	}

	session, err = e.rounds.GetSession(sessionID)
	if err != nil {
		return nil, err
	}

	answers, err = e.rounds.GetAnswers(sessionID)
	if err != nil {
		return nil, err
	}

	if countUnanswered(answers) > 0 {
		return &AnswerOutcome{State: AnswerNextItem, Correct: correct, Score: session.Score}, nil
	}

	if err := e.rounds.CompleteSession(sessionID); err != nil {
		return nil, err
	}

	// Chooser finished: hand the same round to the opponent. The chooser
	// does not wait for the opponent's score.
	if session.PlayerID == round.ChooserID {
		logger.Info("Chooser phase complete",
			"match_id", match.ID, "round", round.RoundNumber, "score", session.Score)
		return &AnswerOutcome{
			State:     AnswerPhaseComplete,
			Correct:   correct,
			Score:     session.Score,
			NextPhase: models.PhaseOpponent,
		}, nil
	}

	// Opponent finished: the round is over, advance the match. The
	// advancement is conditioned on the current round so a retried final
	// submission cannot advance twice.
	completed := round.RoundNumber+1 > e.cfg.RoundBudget
	if _, err := e.matches.AdvanceRound(match.ID, round.RoundNumber, completed); err != nil {
		return nil, err
	}

	logger.Info("Round complete",
		"match_id", match.ID, "round", round.RoundNumber, "match_completed", completed)

	return &AnswerOutcome{
		State:          AnswerRoundComplete,
		Correct:        correct,
		Score:          session.Score,
		MatchCompleted: completed,
	}, nil
}
