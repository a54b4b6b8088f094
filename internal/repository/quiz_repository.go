package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tubequiz/internal/domain"
	"tubequiz/internal/repository/models"
	"tubequiz/internal/util"

	"github.com/jmoiron/sqlx"
)

// sqlxQuizRepository implements domain.QuizRepository using sqlx. Every
// statement is scoped by owner_id so a quiz owned by another user is
// indistinguishable from a missing one.
type sqlxQuizRepository struct {
	db *sqlx.DB
}

// NewSQLXQuizRepository creates a new instance of sqlxQuizRepository.
func NewSQLXQuizRepository(db *sqlx.DB) domain.QuizRepository {
	return &sqlxQuizRepository{db: db}
}

func toDomainQuiz(m *models.Quiz, questions []models.Question) *domain.Quiz {
	quiz := &domain.Quiz{
		ID:          m.ID,
		OwnerID:     m.OwnerID,
		Title:       m.Title,
		Description: m.Description,
		VideoURL:    m.VideoURL,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
	for _, q := range questions {
		quiz.Questions = append(quiz.Questions, &domain.Question{
			ID:           q.ID,
			Text:         q.Text,
			Options:      []string(q.Options),
			CorrectIndex: q.CorrectIndex,
			CreatedAt:    q.CreatedAt,
			UpdatedAt:    q.UpdatedAt,
		})
	}
	return quiz
}

// CreateQuiz inserts the quiz and its questions in one transaction.
func (r *sqlxQuizRepository) CreateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	now := time.Now()
	quiz.CreatedAt = now
	quiz.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	quizModel := &models.Quiz{
		ID:          quiz.ID,
		OwnerID:     quiz.OwnerID,
		Title:       quiz.Title,
		Description: quiz.Description,
		VideoURL:    quiz.VideoURL,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	quizQuery := `INSERT INTO quizzes (id, owner_id, title, description, video_url, created_at, updated_at)
	              VALUES (:id, :owner_id, :title, :description, :video_url, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, quizQuery, quizModel); err != nil {
		return fmt.Errorf("failed to insert quiz: %w", err)
	}

	if err := insertQuestions(ctx, tx, quiz, now); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit quiz: %w", err)
	}
	return nil
}

// GetQuiz returns a quiz with its questions, or (nil, nil) if the id does
// not exist for this owner.
func (r *sqlxQuizRepository) GetQuiz(ctx context.Context, ownerID, quizID string) (*domain.Quiz, error) {
	var quizModel models.Quiz
	err := r.db.GetContext(ctx, &quizModel,
		`SELECT * FROM quizzes WHERE id = $1 AND owner_id = $2`, quizID, ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get quiz: %w", err)
	}

	questions, err := r.questionsFor(ctx, quizModel.ID)
	if err != nil {
		return nil, err
	}
	return toDomainQuiz(&quizModel, questions), nil
}

// ListQuizzes returns all quizzes owned by the user, most recent first.
func (r *sqlxQuizRepository) ListQuizzes(ctx context.Context, ownerID string) ([]*domain.Quiz, error) {
	var quizModels []models.Quiz
	err := r.db.SelectContext(ctx, &quizModels,
		`SELECT * FROM quizzes WHERE owner_id = $1 ORDER BY created_at DESC`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list quizzes: %w", err)
	}

	quizzes := make([]*domain.Quiz, 0, len(quizModels))
	for i := range quizModels {
		questions, err := r.questionsFor(ctx, quizModels[i].ID)
		if err != nil {
			return nil, err
		}
		quizzes = append(quizzes, toDomainQuiz(&quizModels[i], questions))
	}
	return quizzes, nil
}

// UpdateQuiz rewrites title/description and, when the quiz carries
// questions, replaces the whole question set in the same transaction.
// Returns sql.ErrNoRows when the quiz does not exist for this owner.
func (r *sqlxQuizRepository) UpdateQuiz(ctx context.Context, quiz *domain.Quiz) error {
	now := time.Now()
	quiz.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE quizzes SET title = $1, description = $2, updated_at = $3 WHERE id = $4 AND owner_id = $5`,
		quiz.Title, quiz.Description, now, quiz.ID, quiz.OwnerID)
	if err != nil {
		return fmt.Errorf("failed to update quiz: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}

	if quiz.Questions != nil {
		if _, err := tx.ExecContext(ctx, `DELETE FROM questions WHERE quiz_id = $1`, quiz.ID); err != nil {
			return fmt.Errorf("failed to clear questions: %w", err)
		}
		if err := insertQuestions(ctx, tx, quiz, now); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit quiz update: %w", err)
	}
	return nil
}

// DeleteQuiz removes a quiz; questions cascade at the database level.
// Returns sql.ErrNoRows when the quiz does not exist for this owner.
func (r *sqlxQuizRepository) DeleteQuiz(ctx context.Context, ownerID, quizID string) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM quizzes WHERE id = $1 AND owner_id = $2`, quizID, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete quiz: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

func (r *sqlxQuizRepository) questionsFor(ctx context.Context, quizID string) ([]models.Question, error) {
	var questions []models.Question
	err := r.db.SelectContext(ctx, &questions,
		`SELECT * FROM questions WHERE quiz_id = $1 ORDER BY position ASC`, quizID)
	if err != nil {
		return nil, fmt.Errorf("failed to get questions: %w", err)
	}
	return questions, nil
}

func insertQuestions(ctx context.Context, tx *sqlx.Tx, quiz *domain.Quiz, now time.Time) error {
	questionQuery := `INSERT INTO questions (id, quiz_id, position, text, options, correct_index, created_at, updated_at)
	                  VALUES (:id, :quiz_id, :position, :text, :options, :correct_index, :created_at, :updated_at)`
	for i, q := range quiz.Questions {
		if q.ID == "" {
			q.ID = util.NewULID()
		}
		q.CreatedAt = now
		q.UpdatedAt = now
		questionModel := &models.Question{
			ID:           q.ID,
			QuizID:       quiz.ID,
			Position:     i,
			Text:         q.Text,
			Options:      models.StringSlice(q.Options),
			CorrectIndex: q.CorrectIndex,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
		if _, err := tx.NamedExecContext(ctx, questionQuery, questionModel); err != nil {
			return fmt.Errorf("failed to insert question %d: %w", i, err)
		}
	}
	return nil
}
