package service

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"suiquiz/internal/common"
	"suiquiz/internal/domain/model"
)

// stubQuestionRepo serves a fixed question set without a database.
type stubQuestionRepo struct {
	questions []model.Question
	nextID    int
}

func (r *stubQuestionRepo) ListQuestions(_ context.Context) ([]model.Question, error) {
	return r.questions, nil
}

func (r *stubQuestionRepo) CreateQuestion(_ context.Context, q *model.Question) error {
	r.nextID++
	q.ID = r.nextID
	r.questions = append(r.questions, *q)
	return nil
}

func (r *stubQuestionRepo) DeleteQuestion(_ context.Context, id int) error {
	for i, q := range r.questions {
		if q.ID == id {
			r.questions = append(r.questions[:i], r.questions[i+1:]...)
			return nil
		}
	}
	return common.ErrNotFound
}

func testBank(t *testing.T) *QuestionService {
	t.Helper()
	repo := &stubQuestionRepo{
		questions: []model.Question{
			{ID: 1, Prompt: "q1", Options: []string{"a", "b"}, CorrectOption: 0, Difficulty: model.DifficultyEasy, Topic: "Sui Basics", TopicSlug: "sui-basics"},
			{ID: 2, Prompt: "q2", Options: []string{"a", "b", "c"}, CorrectOption: 2, Difficulty: model.DifficultyMedium, Topic: "Sui Basics", TopicSlug: "sui-basics"},
			{ID: 3, Prompt: "q3", Options: []string{"a", "b", "c", "d"}, CorrectOption: 1, Difficulty: model.DifficultyHard, Topic: "Objects", TopicSlug: "objects"},
		},
		nextID: 3,
	}
	qs := NewQuestionService(repo)
	if err := qs.Load(context.Background()); err != nil {
		t.Fatalf("bank load: %v", err)
	}
	return qs
}

func TestScoreCountsCorrectAnswers(t *testing.T) {
	scorer := NewScoreService(testBank(t))

	result := scorer.Score("0xaa", []model.AnswerSubmission{
		{QuestionID: 1, SelectedOption: 0}, // correct
		{QuestionID: 2, SelectedOption: 1}, // wrong
		{QuestionID: 3, SelectedOption: 1}, // correct
	})
	if result.CorrectCount != 2 || result.TotalAttempted != 3 {
		t.Fatalf("got correct=%d attempted=%d, want 2/3", result.CorrectCount, result.TotalAttempted)
	}
}

func TestScoreSkipsUnknownQuestions(t *testing.T) {
	scorer := NewScoreService(testBank(t))

	result := scorer.Score("0xaa", []model.AnswerSubmission{
		{QuestionID: 1, SelectedOption: 0},
		{QuestionID: 999, SelectedOption: 0}, // unknown: skipped, not an error
	})
	if result.TotalAttempted != 1 {
		t.Fatalf("unknown question counted toward total: attempted=%d", result.TotalAttempted)
	}
	if result.CorrectCount != 1 {
		t.Fatalf("got correct=%d, want 1", result.CorrectCount)
	}
}

func TestScoreCountsDuplicatesIndependently(t *testing.T) {
	scorer := NewScoreService(testBank(t))

	result := scorer.Score("0xaa", []model.AnswerSubmission{
		{QuestionID: 1, SelectedOption: 0},
		{QuestionID: 1, SelectedOption: 0},
		{QuestionID: 1, SelectedOption: 1},
	})
	if result.CorrectCount != 2 || result.TotalAttempted != 3 {
		t.Fatalf("duplicates not scored independently: correct=%d attempted=%d", result.CorrectCount, result.TotalAttempted)
	}
}

func TestScoreIsOrderIndependent(t *testing.T) {
	scorer := NewScoreService(testBank(t))

	batch := []model.AnswerSubmission{
		{QuestionID: 1, SelectedOption: 0},
		{QuestionID: 2, SelectedOption: 2},
		{QuestionID: 3, SelectedOption: 0},
		{QuestionID: 999, SelectedOption: 0},
	}
	want := scorer.Score("0xaa", batch)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := make([]model.AnswerSubmission, len(batch))
		copy(shuffled, batch)
		rng.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })

		got := scorer.Score("0xaa", shuffled)
		if got != want {
			t.Fatalf("permutation %d changed result: got %+v, want %+v", i, got, want)
		}
	}
}

func TestPublicQuestionsNeverRevealAnswers(t *testing.T) {
	bank := testBank(t)

	questions := bank.PublicQuestions("")
	if len(questions) != 3 {
		t.Fatalf("got %d questions, want 3", len(questions))
	}

	filtered := bank.PublicQuestions("objects")
	if len(filtered) != 1 || filtered[0].ID != 3 {
		t.Fatalf("topic filter returned %+v", filtered)
	}
}

func TestCreateQuestionValidation(t *testing.T) {
	bank := testBank(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  CreateQuestionRequest
	}{
		{"missing prompt", CreateQuestionRequest{Options: []string{"a", "b"}, Difficulty: model.DifficultyEasy, Topic: "t"}},
		{"too few options", CreateQuestionRequest{Prompt: "p", Options: []string{"a"}, Difficulty: model.DifficultyEasy, Topic: "t"}},
		{"too many options", CreateQuestionRequest{Prompt: "p", Options: []string{"a", "b", "c", "d", "e"}, Difficulty: model.DifficultyEasy, Topic: "t"}},
		{"correct index out of range", CreateQuestionRequest{Prompt: "p", Options: []string{"a", "b"}, CorrectOption: 2, Difficulty: model.DifficultyEasy, Topic: "t"}},
		{"bad difficulty", CreateQuestionRequest{Prompt: "p", Options: []string{"a", "b"}, Difficulty: "extreme", Topic: "t"}},
	}
	for _, tc := range cases {
		if _, err := bank.CreateQuestion(ctx, tc.req); !errors.Is(err, common.ErrInvalidArgument) {
			t.Errorf("%s: expected ErrInvalidArgument, got %v", tc.name, err)
		}
	}

	question, err := bank.CreateQuestion(ctx, CreateQuestionRequest{
		Prompt:        "valid",
		Options:       []string{"a", "b", "c"},
		CorrectOption: 1,
		Difficulty:    model.DifficultyMedium,
		Topic:         "Sui Basics",
	})
	if err != nil {
		t.Fatalf("valid create failed: %v", err)
	}
	if question.TopicSlug != "sui-basics" {
		t.Fatalf("topic not slugified: %q", question.TopicSlug)
	}
	if _, ok := bank.Lookup(question.ID); !ok {
		t.Fatal("bank snapshot not reloaded after create")
	}
}
