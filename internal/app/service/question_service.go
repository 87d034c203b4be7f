package service

import (
	"context"
	"sync/atomic"

	"suiquiz/internal/common"
	"suiquiz/internal/domain/model"
	"suiquiz/internal/domain/repository"
	"suiquiz/internal/platform/logger"

	"github.com/gosimple/slug"
	"go.uber.org/zap"
)

// QuestionService owns the question bank: an immutable snapshot built from
// the repository. The answer key lives only inside the snapshot and is
// never serialized. Admin mutations write through the repository and swap
// in a fresh snapshot.
type QuestionService struct {
	repo repository.QuestionRepository
	bank atomic.Pointer[questionBank]
}

type questionBank struct {
	ordered []model.Question
	byID    map[int]model.Question
}

func NewQuestionService(repo repository.QuestionRepository) *QuestionService {
	s := &QuestionService{repo: repo}
	s.bank.Store(&questionBank{byID: make(map[int]model.Question)})
	return s
}

// Load rebuilds the bank snapshot from the repository.
func (s *QuestionService) Load(ctx context.Context) error {
	questions, err := s.repo.ListQuestions(ctx)
	if err != nil {
		return common.Errorf("load question bank: %w", err)
	}
	bank := &questionBank{
		ordered: questions,
		byID:    make(map[int]model.Question, len(questions)),
	}
	for _, q := range questions {
		bank.byID[q.ID] = q
	}
	s.bank.Store(bank)
	logger.Log.Info("question bank loaded", zap.Int("questions", len(questions)))
	return nil
}

// PublicQuestions lists the bank without answer keys, optionally filtered
// by topic slug.
func (s *QuestionService) PublicQuestions(topicSlug string) []model.PublicQuestion {
	bank := s.bank.Load()
	result := make([]model.PublicQuestion, 0, len(bank.ordered))
	for _, q := range bank.ordered {
		if topicSlug != "" && q.TopicSlug != topicSlug {
			continue
		}
		result = append(result, q.Public())
	}
	return result
}

// Lookup resolves a question by id from the current snapshot.
func (s *QuestionService) Lookup(id int) (model.Question, bool) {
	q, ok := s.bank.Load().byID[id]
	return q, ok
}

type CreateQuestionRequest struct {
	Prompt        string           `json:"prompt"`
	Options       []string         `json:"options"`
	CorrectOption int              `json:"correct_option_index"`
	Difficulty    model.Difficulty `json:"difficulty"`
	Topic         string           `json:"topic"`
}

func (s *QuestionService) CreateQuestion(ctx context.Context, req CreateQuestionRequest) (*model.Question, error) {
	if req.Prompt == "" || req.Topic == "" {
		return nil, common.Errorf("prompt and topic are required: %w", common.ErrInvalidArgument)
	}
	if len(req.Options) < 2 || len(req.Options) > 4 {
		return nil, common.Errorf("questions need 2-4 options, got %d: %w", len(req.Options), common.ErrInvalidArgument)
	}
	if req.CorrectOption < 0 || req.CorrectOption >= len(req.Options) {
		return nil, common.Errorf("correct option index %d out of range: %w", req.CorrectOption, common.ErrInvalidArgument)
	}
	switch req.Difficulty {
	case model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard:
	default:
		return nil, common.Errorf("unknown difficulty %q: %w", req.Difficulty, common.ErrInvalidArgument)
	}

	question := &model.Question{
		Prompt:        req.Prompt,
		Options:       req.Options,
		CorrectOption: req.CorrectOption,
		Difficulty:    req.Difficulty,
		Topic:         req.Topic,
		TopicSlug:     slug.Make(req.Topic),
	}
	if err := s.repo.CreateQuestion(ctx, question); err != nil {
		return nil, err
	}
	if err := s.Load(ctx); err != nil {
		// The row is committed; the snapshot catches up on the next reload.
		logger.Log.Error("question bank reload after create failed", zap.Error(err))
	}
	return question, nil
}

func (s *QuestionService) DeleteQuestion(ctx context.Context, id int) error {
	if err := s.repo.DeleteQuestion(ctx, id); err != nil {
		return err
	}
	if err := s.Load(ctx); err != nil {
		logger.Log.Error("question bank reload after delete failed", zap.Error(err))
	}
	return nil
}
