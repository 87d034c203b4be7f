package model

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Question is immutable once loaded into the bank. CorrectOption is the
// answer key and must never reach a client-facing payload.
type Question struct {
	ID            int        `json:"id"`
	Prompt        string     `json:"prompt"`
	Options       []string   `json:"options"`
	CorrectOption int        `json:"-"`
	Difficulty    Difficulty `json:"difficulty"`
	Topic         string     `json:"topic"`
	TopicSlug     string     `json:"topic_slug"`
}

// PublicQuestion is the client-facing projection of a question.
type PublicQuestion struct {
	ID         int        `json:"id"`
	Prompt     string     `json:"prompt"`
	Options    []string   `json:"options"`
	Difficulty Difficulty `json:"difficulty"`
	Topic      string     `json:"topic"`
	TopicSlug  string     `json:"topic_slug"`
}

func (q Question) Public() PublicQuestion {
	return PublicQuestion{
		ID:         q.ID,
		Prompt:     q.Prompt,
		Options:    q.Options,
		Difficulty: q.Difficulty,
		Topic:      q.Topic,
		TopicSlug:  q.TopicSlug,
	}
}

// AnswerSubmission is one answer in a submitted batch. Transient: created
// per request and discarded after scoring.
type AnswerSubmission struct {
	QuestionID     int `json:"question_id"`
	SelectedOption int `json:"selected_option_index"`
}
