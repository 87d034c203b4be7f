package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"suiquiz/internal/common"
	"suiquiz/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type QuestionRepository interface {
	ListQuestions(ctx context.Context) ([]model.Question, error)
	CreateQuestion(ctx context.Context, q *model.Question) error
	DeleteQuestion(ctx context.Context, id int) error
}

type pgQuestionRepository struct {
	db *sql.DB
}

func NewPgQuestionRepository(db *sql.DB) QuestionRepository {
	return &pgQuestionRepository{db: db}
}

func (r *pgQuestionRepository) ListQuestions(ctx context.Context) ([]model.Question, error) {
	query := `SELECT id, prompt, options, correct_option, difficulty, topic, topic_slug
	          FROM questions ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("pgQuestionRepository.ListQuestions: %w", err)
	}
	defer rows.Close()

	var questions []model.Question
	for rows.Next() {
		var q model.Question
		var optionsJSON []byte
		if err := rows.Scan(&q.ID, &q.Prompt, &optionsJSON, &q.CorrectOption, &q.Difficulty, &q.Topic, &q.TopicSlug); err != nil {
			return nil, fmt.Errorf("pgQuestionRepository.ListQuestions scan: %w", err)
		}
		if err := json.Unmarshal(optionsJSON, &q.Options); err != nil {
			return nil, fmt.Errorf("pgQuestionRepository.ListQuestions options for question %d: %w", q.ID, err)
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("pgQuestionRepository.ListQuestions rows: %w", err)
	}
	return questions, nil
}

func (r *pgQuestionRepository) CreateQuestion(ctx context.Context, q *model.Question) error {
	optionsJSON, err := json.Marshal(q.Options)
	if err != nil {
		return fmt.Errorf("pgQuestionRepository.CreateQuestion marshal options: %w", err)
	}

	query := `INSERT INTO questions (prompt, options, correct_option, difficulty, topic, topic_slug)
	          VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	err = r.db.QueryRowContext(ctx, query, q.Prompt, optionsJSON, q.CorrectOption, q.Difficulty, q.Topic, q.TopicSlug).Scan(&q.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("question already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgQuestionRepository.CreateQuestion: %w", err)
	}
	return nil
}

func (r *pgQuestionRepository) DeleteQuestion(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM questions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgQuestionRepository.DeleteQuestion: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("pgQuestionRepository.DeleteQuestion rows affected: %w", err)
	}
	if affected == 0 {
		return common.ErrNotFound
	}
	return nil
}
