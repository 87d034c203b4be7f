package service

import (
	"suiquiz/internal/domain/model"
	"suiquiz/internal/platform/logger"

	"go.uber.org/zap"
)

// ScoreService validates a submitted answer batch against the question
// bank. Scoring is pure with respect to the bank snapshot and safe to call
// concurrently.
type ScoreService struct {
	questions *QuestionService
}

func NewScoreService(questions *QuestionService) *ScoreService {
	return &ScoreService{questions: questions}
}

type ScoreResult struct {
	CorrectCount   int `json:"correct_count"`
	TotalAttempted int `json:"total_attempted"`
}

// Score counts correct answers in the batch. Submissions referencing an
// unknown question are skipped: they count toward neither total nor
// correct, and never fail the batch. Duplicate question ids are each
// scored independently.
func (s *ScoreService) Score(accountID string, submissions []model.AnswerSubmission) ScoreResult {
	var result ScoreResult
	for _, sub := range submissions {
		question, ok := s.questions.Lookup(sub.QuestionID)
		if !ok {
			logger.Log.Debug("skipping unknown question in batch",
				zap.String("account", accountID),
				zap.Int("question_id", sub.QuestionID))
			continue
		}
		result.TotalAttempted++
		if sub.SelectedOption == question.CorrectOption {
			result.CorrectCount++
		}
	}
	return result
}
