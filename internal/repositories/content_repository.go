package repositories

import (
	"github.com/mroshb/trivia_duel/internal/models"
	"github.com/mroshb/trivia_duel/pkg/errors"
	"gorm.io/gorm"
)

// ContentRepository is the read side of the question bank. Random
// selection is deliberately not done here; the game engine samples from
// the returned sets through its injected RNG so tests stay deterministic.
type ContentRepository struct {
	db *gorm.DB
}

func NewContentRepository(db *gorm.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// ListTopics returns every topic, ordered by name.
func (r *ContentRepository) ListTopics() ([]models.Topic, error) {
	var topics []models.Topic
	result := r.db.Order("name ASC").Find(&topics)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to list topics")
	}

	return topics, nil
}

// GetTopicsByIDs returns the topics with the given IDs, in the order of ids.
func (r *ContentRepository) GetTopicsByIDs(ids []uint) ([]models.Topic, error) {
	var topics []models.Topic
	if err := r.db.Where("id IN ?", ids).Find(&topics).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get topics")
	}

	byID := make(map[uint]models.Topic, len(topics))
	for _, t := range topics {
		byID[t.ID] = t
	}

	ordered := make([]models.Topic, 0, len(ids))
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			ordered = append(ordered, t)
		}
	}

	return ordered, nil
}

// GetTopic retrieves a topic by ID.
func (r *ContentRepository) GetTopic(id uint) (*models.Topic, error) {
	var topic models.Topic
	result := r.db.First(&topic, id)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "topic not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get topic")
	}

	return &topic, nil
}

// ApprovedQuestions returns the approved question pool for a topic,
// choices included.
func (r *ContentRepository) ApprovedQuestions(topicID uint) ([]models.Question, error) {
	var questions []models.Question
	result := r.db.Where("topic_id = ? AND approved = ?", topicID, true).
		Preload("Choices").
		Order("id ASC").
		Find(&questions)

	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get approved questions")
	}

	return questions, nil
}

// GetQuestion retrieves a question with its choices.
func (r *ContentRepository) GetQuestion(id uint) (*models.Question, error) {
	var question models.Question
	result := r.db.Preload("Choices").First(&question, id)

	if result.Error == gorm.ErrRecordNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "question not found")
	}
	if result.Error != nil {
		return nil, errors.Wrap(result.Error, errors.ErrCodeInternalError, "failed to get question")
	}

	return &question, nil
}

// GetQuestionsByIDs returns questions with choices, in the order of ids.
func (r *ContentRepository) GetQuestionsByIDs(ids []uint) ([]models.Question, error) {
	var questions []models.Question
	if err := r.db.Preload("Choices").Where("id IN ?", ids).Find(&questions).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to get questions")
	}

	byID := make(map[uint]models.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	ordered := make([]models.Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := byID[id]; ok {
			ordered = append(ordered, q)
		}
	}

	return ordered, nil
}

// UpsertTopic finds a topic by slug or creates it.
func (r *ContentRepository) UpsertTopic(name, slug string) (*models.Topic, error) {
	var topic models.Topic
	err := r.db.Where("slug = ?", slug).First(&topic).Error
	if err == nil {
		return &topic, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to look up topic")
	}

	topic = models.Topic{Name: name, Slug: slug}
	if err := r.db.Create(&topic).Error; err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternalError, "failed to create topic")
	}

	return &topic, nil
}

// CreateQuestion stores an approved question with its choice set. Exactly
// one choice must be marked correct.
func (r *ContentRepository) CreateQuestion(topicID uint, text string, options []string, correctIndex int) (*models.Question, error) {
	if correctIndex < 0 || correctIndex >= len(options) {
		return nil, errors.New(errors.ErrCodeValidation, "correct answer index out of range")
	}

	question := &models.Question{
		TopicID:  topicID,
		Text:     text,
		Approved: true,
	}

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(question).Error; err != nil {
			return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create question")
		}

		for i, opt := range options {
			choice := models.Choice{
				QuestionID: question.ID,
				Text:       opt,
				IsCorrect:  i == correctIndex,
			}
			if err := tx.Create(&choice).Error; err != nil {
				return errors.Wrap(err, errors.ErrCodeInternalError, "failed to create choice")
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return question, nil
}
