package game

import (
	"math/rand"
	"sync"

	"github.com/mroshb/trivia_duel/internal/models"
)

// Sampler draws random subsets without replacement. It is injected into
// the engine so tests can pin a seed; the mutex makes it safe for
// concurrent requests sharing one engine.
type Sampler struct {
	mu  sync.Mutex
	rng *rand.Rand
}

func NewSampler(seed int64) *Sampler {
	return &Sampler{rng: rand.New(rand.NewSource(seed))}
}

// PickTopics returns up to n topics sampled without replacement. When the
// pool has n or fewer entries it is returned whole (copied), shuffled.
func (s *Sampler) PickTopics(pool []models.Topic, n int) []models.Topic {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Topic, len(pool))
	copy(out, pool)
	s.rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})

	if len(out) > n {
		out = out[:n]
	}
	return out
}

// PickQuestions returns up to n questions sampled without replacement.
func (s *Sampler) PickQuestions(pool []models.Question, n int) []models.Question {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Question, len(pool))
	copy(out, pool)
	s.rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})

	if len(out) > n {
		out = out[:n]
	}
	return out
}
