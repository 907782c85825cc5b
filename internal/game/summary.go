package game

import (
	"github.com/mroshb/trivia_duel/internal/models"
	"github.com/mroshb/trivia_duel/pkg/errors"
)

func (e *Engine) scoresForRound(round *models.Round, match *models.Match) (*RoundScores, error) {
	sessions, err := e.rounds.GetSessionsByRound(round.ID)
	if err != nil {
		return nil, err
	}

	scores := &RoundScores{
		RoundNumber: round.RoundNumber,
		Topic:       round.Topic,
	}

	for _, s := range sessions {
		done := s.CompletedAt != nil
		if s.PlayerID == match.Player1ID {
			scores.Player1Score = s.Score
			scores.Player1Done = done
		} else {
			scores.Player2Score = s.Score
			scores.Player2Done = done
		}
	}

	return scores, nil
}

// RoundSummary reports both players' scores for one round. A participant
// check keeps spectators out.
func (e *Engine) RoundSummary(roundID, playerID uint) (*RoundScores, error) {
	round, err := e.rounds.GetRound(roundID)
	if err != nil {
		return nil, err
	}

	if !round.Match.HasPlayer(playerID) {
		return nil, errors.New(errors.ErrCodeNotAuthorized, "player is not part of this match")
	}

	return e.scoresForRound(round, &round.Match)
}

// MatchSummary reports per-round scores and totals, ordered by round
// number. Read-only and callable at any match status, though only
// meaningful once the match completes.
func (e *Engine) MatchSummary(matchID, playerID uint) (*MatchReport, error) {
	match, err := e.matches.GetMatch(matchID)
	if err != nil {
		return nil, err
	}

	if !match.HasPlayer(playerID) {
		return nil, errors.New(errors.ErrCodeNotAuthorized, "player is not part of this match")
	}

	rounds, err := e.rounds.GetRoundsByMatch(matchID)
	if err != nil {
		return nil, err
	}

	report := &MatchReport{Match: match}
	for i := range rounds {
		scores, err := e.scoresForRound(&rounds[i], match)
		if err != nil {
			return nil, err
		}
		report.Rounds = append(report.Rounds, *scores)
		report.Player1Total += scores.Player1Score
		report.Player2Total += scores.Player2Score
	}

	return report, nil
}
