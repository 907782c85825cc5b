package models

import "testing"

func TestMatchChooserForRound(t *testing.T) {
	p2 := uint(7)
	m := &Match{Player1ID: 3, Player2ID: &p2}

	tests := []struct {
		round int
		want  uint
	}{
		{1, 3},
		{2, 7},
		{3, 3},
		{4, 7},
	}
	for _, tt := range tests {
		if got := m.ChooserForRound(tt.round); got != tt.want {
			t.Errorf("ChooserForRound(%d) = %d, want %d", tt.round, got, tt.want)
		}
	}

	waiting := &Match{Player1ID: 3}
	if got := waiting.ChooserForRound(2); got != 0 {
		t.Errorf("even-round chooser of a waiting match = %d, want 0", got)
	}
}

func TestMatchHasPlayerAndOpponentOf(t *testing.T) {
	p2 := uint(7)
	m := &Match{Player1ID: 3, Player2ID: &p2}

	if !m.HasPlayer(3) || !m.HasPlayer(7) {
		t.Error("participants not recognized")
	}
	if m.HasPlayer(9) {
		t.Error("outsider recognized as participant")
	}

	if got := m.OpponentOf(3); got != 7 {
		t.Errorf("OpponentOf(3) = %d, want 7", got)
	}
	if got := m.OpponentOf(7); got != 3 {
		t.Errorf("OpponentOf(7) = %d, want 3", got)
	}
	if got := m.OpponentOf(9); got != 0 {
		t.Errorf("OpponentOf(outsider) = %d, want 0", got)
	}

	waiting := &Match{Player1ID: 3}
	if got := waiting.OpponentOf(3); got != 0 {
		t.Errorf("OpponentOf in waiting match = %d, want 0", got)
	}
}

func TestTopicOfferRoundTrip(t *testing.T) {
	ids := []uint{4, 9, 2, 11}
	offer := &TopicOffer{TopicIDs: JoinTopicIDs(ids)}

	got := offer.OfferedIDs()
	if len(got) != len(ids) {
		t.Fatalf("parsed %d ids, want %d", len(got), len(ids))
	}
	for i := range ids {
		if got[i] != ids[i] {
			t.Errorf("id[%d] = %d, want %d", i, got[i], ids[i])
		}
	}

	for _, id := range ids {
		if !offer.Contains(id) {
			t.Errorf("Contains(%d) = false, want true", id)
		}
	}
	if offer.Contains(5) {
		t.Error("Contains(5) = true for absent topic")
	}
}

func TestTopicOfferIgnoresMalformedEntries(t *testing.T) {
	offer := &TopicOffer{TopicIDs: "1, x ,0,3"}

	got := offer.OfferedIDs()
	want := []uint{1, 3}
	if len(got) != len(want) {
		t.Fatalf("parsed %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("id[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestQuestionChoiceHelpers(t *testing.T) {
	q := &Question{
		Choices: []Choice{
			{ID: 1, Text: "a"},
			{ID: 2, Text: "b", IsCorrect: true},
			{ID: 3, Text: "c"},
		},
	}

	if c := q.CorrectChoice(); c == nil || c.ID != 2 {
		t.Errorf("CorrectChoice() = %v, want id 2", c)
	}
	if !q.HasChoice(3) {
		t.Error("HasChoice(3) = false")
	}
	if q.HasChoice(4) {
		t.Error("HasChoice(4) = true for foreign choice")
	}

	empty := &Question{}
	if empty.CorrectChoice() != nil {
		t.Error("CorrectChoice() on choiceless question should be nil")
	}
}
