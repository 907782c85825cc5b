package game

import (
	"github.com/mroshb/trivia_duel/internal/models"
)

// Outcome states. Every engine entry point returns a discriminated
// result for the caller to render; wait states are not errors.
const (
	// JoinOrResume
	JoinQueued        = "queued"
	JoinPaired        = "paired"
	JoinAlreadyActive = "already_active"

	// MatchStatus
	StatusNone        = "none"
	StatusWaiting     = "waiting"
	StatusActiveRound = "active_round"

	// EnterRound
	EntryChooseTopic   = "choose_topic"
	EntryWaitForChoice = "wait_for_choice"
	EntryResumeRound   = "resume_round"
	EntryMatchComplete = "match_complete"

	// EnterPhase
	PhasePresent  = "present"
	PhaseWait     = "wait"
	PhaseFinished = "phase_finished"

	// SubmitAnswer
	AnswerNextItem      = "next_item"
	AnswerPhaseComplete = "phase_complete"
	AnswerRoundComplete = "round_complete"
)

// JoinResult is the outcome of JoinOrResume.
type JoinResult struct {
	State string
	Match *models.Match
}

// StatusResult is the outcome of MatchStatus.
type StatusResult struct {
	State string
	Match *models.Match
}

// RoundEntry is the outcome of EnterRound.
type RoundEntry struct {
	State       string
	Match       *models.Match
	Round       *models.Round  // set for EntryResumeRound
	Phase       string         // set for EntryResumeRound
	RoundNumber int            // set for EntryChooseTopic / EntryWaitForChoice
	Offer       []models.Topic // set for EntryChooseTopic
}

// RoundStart is the outcome of SubmitTopic.
type RoundStart struct {
	Round *models.Round
	Phase string // always "self": the chooser plays first
}

// PhaseView is the outcome of EnterPhase.
type PhaseView struct {
	State     string
	Session   *models.RoundSession
	Question  *models.Question // set for PhasePresent, choices included
	Index     int              // 1-based position within the quiz
	Total     int
	TimeLimit int // advisory seconds per question
	NextPhase string // set for PhaseFinished when the opponent still has to play
}

// AnswerOutcome is the outcome of SubmitAnswer.
type AnswerOutcome struct {
	State          string
	Correct        bool
	Score          int
	NextPhase      string // set for AnswerPhaseComplete
	MatchCompleted bool   // set for AnswerRoundComplete
}

// RoundScores reports both players' scores for one round.
type RoundScores struct {
	RoundNumber  int
	Topic        models.Topic
	Player1Score int
	Player2Score int
	Player1Done  bool
	Player2Done  bool
}

// MatchReport is the outcome of MatchSummary.
type MatchReport struct {
	Match        *models.Match
	Rounds       []RoundScores
	Player1Total int
	Player2Total int
}
