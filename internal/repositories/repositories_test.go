package repositories

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/mroshb/trivia_duel/internal/models"
	"github.com/mroshb/trivia_duel/pkg/errors"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get database instance: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	err = db.AutoMigrate(
		&models.Player{}, &models.Topic{}, &models.Question{}, &models.Choice{},
		&models.Match{}, &models.Round{}, &models.TopicOffer{},
		&models.RoundSession{}, &models.AnswerLog{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

func mustCreatePlayer(t *testing.T, db *gorm.DB, name string) *models.Player {
	t.Helper()
	p := &models.Player{Name: name}
	if err := db.Create(p).Error; err != nil {
		t.Fatalf("create player %s: %v", name, err)
	}
	return p
}

func TestCreatePlayerRejectsDuplicateName(t *testing.T) {
	db := newTestDB(t)
	repo := NewPlayerRepository(db)

	if _, err := repo.CreatePlayer("alice"); err != nil {
		t.Fatalf("CreatePlayer() error = %v", err)
	}

	_, err := repo.CreatePlayer("alice")
	if code := errors.CodeOf(err); code != errors.ErrCodeAlreadyExists {
		t.Errorf("error code = %q, want %q", code, errors.ErrCodeAlreadyExists)
	}
}

func TestClaimWaitingMatchWinsOnce(t *testing.T) {
	db := newTestDB(t)
	repo := NewMatchRepository(db)
	alice := mustCreatePlayer(t, db, "alice")
	bob := mustCreatePlayer(t, db, "bob")
	carol := mustCreatePlayer(t, db, "carol")

	match, err := repo.CreateWaitingMatch(alice.ID)
	if err != nil {
		t.Fatalf("CreateWaitingMatch() error = %v", err)
	}

	claimed, err := repo.ClaimWaitingMatch(match.ID, bob.ID)
	if err != nil {
		t.Fatalf("first claim error = %v", err)
	}
	if !claimed {
		t.Fatal("first claim lost on an open match")
	}

	claimed, err = repo.ClaimWaitingMatch(match.ID, carol.ID)
	if err != nil {
		t.Fatalf("second claim error = %v", err)
	}
	if claimed {
		t.Error("second claim won on a full match")
	}

	loaded, err := repo.GetMatch(match.ID)
	if err != nil {
		t.Fatalf("GetMatch() error = %v", err)
	}
	if loaded.Player2ID == nil || *loaded.Player2ID != bob.ID {
		t.Errorf("player2_id = %v, want %d", loaded.Player2ID, bob.ID)
	}
	if loaded.Status != models.MatchStatusInRound {
		t.Errorf("status = %q, want %q", loaded.Status, models.MatchStatusInRound)
	}
	if loaded.StartedAt == nil {
		t.Error("started_at not stamped")
	}
}

func TestClaimWaitingMatchRejectsOwner(t *testing.T) {
	db := newTestDB(t)
	repo := NewMatchRepository(db)
	alice := mustCreatePlayer(t, db, "alice")

	match, err := repo.CreateWaitingMatch(alice.ID)
	if err != nil {
		t.Fatalf("CreateWaitingMatch() error = %v", err)
	}

	claimed, err := repo.ClaimWaitingMatch(match.ID, alice.ID)
	if err != nil {
		t.Fatalf("ClaimWaitingMatch() error = %v", err)
	}
	if claimed {
		t.Error("player claimed their own waiting match")
	}
}

func TestFindWaitingMatchSkipsOwnAndOrdersOldest(t *testing.T) {
	db := newTestDB(t)
	repo := NewMatchRepository(db)
	alice := mustCreatePlayer(t, db, "alice")
	bob := mustCreatePlayer(t, db, "bob")
	carol := mustCreatePlayer(t, db, "carol")

	first, err := repo.CreateWaitingMatch(alice.ID)
	if err != nil {
		t.Fatalf("CreateWaitingMatch(alice) error = %v", err)
	}
	if _, err := repo.CreateWaitingMatch(bob.ID); err != nil {
		t.Fatalf("CreateWaitingMatch(bob) error = %v", err)
	}

	found, err := repo.FindWaitingMatch(carol.ID)
	if err != nil {
		t.Fatalf("FindWaitingMatch() error = %v", err)
	}
	if found == nil || found.ID != first.ID {
		t.Errorf("found = %v, want oldest match %d", found, first.ID)
	}

	found, err = repo.FindWaitingMatch(alice.ID)
	if err != nil {
		t.Fatalf("FindWaitingMatch(alice) error = %v", err)
	}
	if found == nil || found.Player1ID == alice.ID {
		t.Errorf("alice matched her own queue entry: %+v", found)
	}
}

func TestAdvanceRoundIsConditional(t *testing.T) {
	db := newTestDB(t)
	repo := NewMatchRepository(db)
	alice := mustCreatePlayer(t, db, "alice")
	bob := mustCreatePlayer(t, db, "bob")

	match, err := repo.CreateWaitingMatch(alice.ID)
	if err != nil {
		t.Fatalf("CreateWaitingMatch() error = %v", err)
	}
	if _, err := repo.ClaimWaitingMatch(match.ID, bob.ID); err != nil {
		t.Fatalf("ClaimWaitingMatch() error = %v", err)
	}

	advanced, err := repo.AdvanceRound(match.ID, 1, false)
	if err != nil {
		t.Fatalf("AdvanceRound() error = %v", err)
	}
	if !advanced {
		t.Fatal("advance from round 1 affected no rows")
	}

	// A retry of the same transition is a no-op.
	advanced, err = repo.AdvanceRound(match.ID, 1, false)
	if err != nil {
		t.Fatalf("retried AdvanceRound() error = %v", err)
	}
	if advanced {
		t.Error("stale advance affected rows")
	}

	loaded, err := repo.GetMatch(match.ID)
	if err != nil {
		t.Fatalf("GetMatch() error = %v", err)
	}
	if loaded.CurrentRound != 2 {
		t.Errorf("current_round = %d, want 2", loaded.CurrentRound)
	}

	if _, err := repo.AdvanceRound(match.ID, 2, true); err != nil {
		t.Fatalf("final AdvanceRound() error = %v", err)
	}
	loaded, err = repo.GetMatch(match.ID)
	if err != nil {
		t.Fatalf("GetMatch() error = %v", err)
	}
	if loaded.Status != models.MatchStatusCompleted {
		t.Errorf("status = %q, want %q", loaded.Status, models.MatchStatusCompleted)
	}
	if loaded.CurrentRound != 3 {
		t.Errorf("current_round = %d, want 3", loaded.CurrentRound)
	}
}

func setupRound(t *testing.T, db *gorm.DB) (*RoundRepository, *models.Round, *models.Player, *models.Player) {
	t.Helper()

	matches := NewMatchRepository(db)
	rounds := NewRoundRepository(db)
	alice := mustCreatePlayer(t, db, "alice")
	bob := mustCreatePlayer(t, db, "bob")

	topic := models.Topic{Name: "History", Slug: "history"}
	if err := db.Create(&topic).Error; err != nil {
		t.Fatalf("create topic: %v", err)
	}

	match, err := matches.CreateWaitingMatch(alice.ID)
	if err != nil {
		t.Fatalf("CreateWaitingMatch() error = %v", err)
	}
	if _, err := matches.ClaimWaitingMatch(match.ID, bob.ID); err != nil {
		t.Fatalf("ClaimWaitingMatch() error = %v", err)
	}

	round, err := rounds.CreateRoundWithSessions(match.ID, 1, alice.ID, topic.ID, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("CreateRoundWithSessions() error = %v", err)
	}

	for _, id := range []uint{11, 12, 13} {
		q := models.Question{ID: id, TopicID: topic.ID, Text: "q", Approved: true}
		if err := db.Create(&q).Error; err != nil {
			t.Fatalf("create question %d: %v", id, err)
		}
	}

	return rounds, round, alice, bob
}

func TestCreateRoundWithSessionsIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	rounds, round, alice, bob := setupRound(t, db)

	again, err := rounds.CreateRoundWithSessions(round.MatchID, 1, alice.ID, round.TopicID, alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("duplicate CreateRoundWithSessions() error = %v", err)
	}
	if again.ID != round.ID {
		t.Errorf("duplicate creation returned round %d, want %d", again.ID, round.ID)
	}

	sessions, err := rounds.GetSessionsByRound(round.ID)
	if err != nil {
		t.Fatalf("GetSessionsByRound() error = %v", err)
	}
	if len(sessions) != 2 {
		t.Errorf("session count = %d, want 2", len(sessions))
	}
}

func TestCreateOfferIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	rounds := NewRoundRepository(db)

	first, err := rounds.CreateOffer(1, 1, []uint{3, 1, 2})
	if err != nil {
		t.Fatalf("CreateOffer() error = %v", err)
	}

	second, err := rounds.CreateOffer(1, 1, []uint{9, 8, 7})
	if err != nil {
		t.Fatalf("duplicate CreateOffer() error = %v", err)
	}
	if second.TopicIDs != first.TopicIDs {
		t.Errorf("duplicate offer stored %q, want first offer %q", second.TopicIDs, first.TopicIDs)
	}
}

func TestSeedAnswersSeedsOnce(t *testing.T) {
	db := newTestDB(t)
	rounds, round, alice, _ := setupRound(t, db)

	session, err := rounds.GetSessionByRoundPlayer(round.ID, alice.ID)
	if err != nil {
		t.Fatalf("GetSessionByRoundPlayer() error = %v", err)
	}

	if err := rounds.SeedAnswers(session.ID, []uint{11, 12, 13}); err != nil {
		t.Fatalf("SeedAnswers() error = %v", err)
	}
	if err := rounds.SeedAnswers(session.ID, []uint{21, 22, 23}); err != nil {
		t.Fatalf("second SeedAnswers() error = %v", err)
	}

	answers, err := rounds.GetAnswers(session.ID)
	if err != nil {
		t.Fatalf("GetAnswers() error = %v", err)
	}
	if len(answers) != 3 {
		t.Fatalf("answer count = %d, want 3", len(answers))
	}
	for i, a := range answers {
		if a.QuestionID != uint(11+i) {
			t.Errorf("answer[%d] question = %d, want %d", i, a.QuestionID, 11+i)
		}
		if a.Position != i+1 {
			t.Errorf("answer[%d] position = %d, want %d", i, a.Position, i+1)
		}
	}
}

func TestRecordAnswerScoresOnce(t *testing.T) {
	db := newTestDB(t)
	rounds, round, alice, _ := setupRound(t, db)

	session, err := rounds.GetSessionByRoundPlayer(round.ID, alice.ID)
	if err != nil {
		t.Fatalf("GetSessionByRoundPlayer() error = %v", err)
	}
	if err := rounds.SeedAnswers(session.ID, []uint{11, 12}); err != nil {
		t.Fatalf("SeedAnswers() error = %v", err)
	}

	recorded, err := rounds.RecordAnswer(session.ID, 1, 42, true)
	if err != nil {
		t.Fatalf("RecordAnswer() error = %v", err)
	}
	if !recorded {
		t.Fatal("first record reported not recorded")
	}

	// A retry of the same position changes nothing.
	recorded, err = rounds.RecordAnswer(session.ID, 1, 43, true)
	if err != nil {
		t.Fatalf("retried RecordAnswer() error = %v", err)
	}
	if recorded {
		t.Error("retry reported recorded")
	}

	session, err = rounds.GetSession(session.ID)
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if session.Score != 1 {
		t.Errorf("score = %d, want 1", session.Score)
	}
	if session.Cursor != 1 {
		t.Errorf("cursor = %d, want 1", session.Cursor)
	}

	answers, err := rounds.GetAnswers(session.ID)
	if err != nil {
		t.Fatalf("GetAnswers() error = %v", err)
	}
	if answers[0].SelectedChoiceID == nil || *answers[0].SelectedChoiceID != 42 {
		t.Errorf("selected choice = %v, want 42", answers[0].SelectedChoiceID)
	}

	// An incorrect answer moves the cursor but not the score.
	if _, err := rounds.RecordAnswer(session.ID, 2, 44, false); err != nil {
		t.Fatalf("RecordAnswer(wrong) error = %v", err)
	}
	session, err = rounds.GetSession(session.ID)
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if session.Score != 1 {
		t.Errorf("score after wrong answer = %d, want 1", session.Score)
	}
	if session.Cursor != 2 {
		t.Errorf("cursor = %d, want 2", session.Cursor)
	}
}

func TestCompleteSessionStampsOnce(t *testing.T) {
	db := newTestDB(t)
	rounds, round, alice, _ := setupRound(t, db)

	session, err := rounds.GetSessionByRoundPlayer(round.ID, alice.ID)
	if err != nil {
		t.Fatalf("GetSessionByRoundPlayer() error = %v", err)
	}

	if err := rounds.CompleteSession(session.ID); err != nil {
		t.Fatalf("CompleteSession() error = %v", err)
	}

	loaded, err := rounds.GetSession(session.ID)
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if loaded.CompletedAt == nil {
		t.Fatal("completed_at not stamped")
	}
	stamp := *loaded.CompletedAt

	if err := rounds.CompleteSession(session.ID); err != nil {
		t.Fatalf("second CompleteSession() error = %v", err)
	}
	loaded, err = rounds.GetSession(session.ID)
	if err != nil {
		t.Fatalf("GetSession() error = %v", err)
	}
	if !loaded.CompletedAt.Equal(stamp) {
		t.Error("completed_at overwritten by second call")
	}
}

func TestUpsertTopicFindsExisting(t *testing.T) {
	db := newTestDB(t)
	repo := NewContentRepository(db)

	first, err := repo.UpsertTopic("History", "history")
	if err != nil {
		t.Fatalf("UpsertTopic() error = %v", err)
	}

	second, err := repo.UpsertTopic("History", "history")
	if err != nil {
		t.Fatalf("second UpsertTopic() error = %v", err)
	}
	if second.ID != first.ID {
		t.Errorf("upsert created a duplicate topic: %d vs %d", second.ID, first.ID)
	}

	var count int64
	if err := db.Model(&models.Topic{}).Count(&count).Error; err != nil {
		t.Fatalf("count topics: %v", err)
	}
	if count != 1 {
		t.Errorf("topic count = %d, want 1", count)
	}
}
