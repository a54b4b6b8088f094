package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"tubequiz/internal/domain"
	"tubequiz/internal/dto"
	"tubequiz/internal/logger"
	"tubequiz/internal/validation"

	"go.uber.org/zap"
)

// QuizService exposes the CRUD surface over quizzes. Every operation runs
// under a user id; ownership mismatches and missing rows are both reported
// as not-found.
type QuizService interface {
	CreateFromURL(ctx context.Context, ownerID, rawURL string) (*domain.Quiz, error)
	ListQuizzes(ctx context.Context, ownerID string) ([]*domain.Quiz, error)
	GetQuiz(ctx context.Context, ownerID, quizID string) (*domain.Quiz, error)
	UpdateQuiz(ctx context.Context, ownerID, quizID string, req *dto.UpdateQuizRequest) (*domain.Quiz, error)
	DeleteQuiz(ctx context.Context, ownerID, quizID string) error
}

type quizServiceImpl struct {
	pipeline  *QuizPipeline
	quizRepo  domain.QuizRepository
	validator *validation.Validator
}

// NewQuizService creates a new QuizService instance.
func NewQuizService(pipeline *QuizPipeline, quizRepo domain.QuizRepository) QuizService {
	return &quizServiceImpl{
		pipeline:  pipeline,
		quizRepo:  quizRepo,
		validator: validation.NewValidator(),
	}
}

// CreateFromURL runs the generation pipeline and returns the persisted quiz.
func (s *quizServiceImpl) CreateFromURL(ctx context.Context, ownerID, rawURL string) (*domain.Quiz, error) {
	return s.pipeline.GenerateFromURL(ctx, ownerID, rawURL)
}

// ListQuizzes returns the caller's quizzes, most recent first.
func (s *quizServiceImpl) ListQuizzes(ctx context.Context, ownerID string) ([]*domain.Quiz, error) {
	quizzes, err := s.quizRepo.ListQuizzes(ctx, ownerID)
	if err != nil {
		return nil, domain.NewInternalError("failed to list quizzes", err)
	}
	return quizzes, nil
}

// GetQuiz returns a single quiz owned by the caller.
func (s *quizServiceImpl) GetQuiz(ctx context.Context, ownerID, quizID string) (*domain.Quiz, error) {
	quiz, err := s.quizRepo.GetQuiz(ctx, ownerID, quizID)
	if err != nil {
		return nil, domain.NewInternalError("failed to get quiz", err)
	}
	if quiz == nil {
		return nil, domain.NewQuizNotFoundError(quizID)
	}
	return quiz, nil
}

// UpdateQuiz applies a partial update to title, description and/or
// questions. It never re-runs the generation pipeline.
func (s *quizServiceImpl) UpdateQuiz(ctx context.Context, ownerID, quizID string, req *dto.UpdateQuizRequest) (*domain.Quiz, error) {
	if errs := s.validator.ValidateUpdateQuizRequest(req); len(errs) > 0 {
		return nil, errs
	}

	quiz, err := s.GetQuiz(ctx, ownerID, quizID)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		quiz.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		quiz.Description = strings.TrimSpace(*req.Description)
	}
	if req.Questions != nil {
		questions := make([]*domain.Question, 0, len(req.Questions))
		for _, q := range req.Questions {
			questions = append(questions, &domain.Question{
				Text:         strings.TrimSpace(q.Text),
				Options:      q.Options,
				CorrectIndex: q.CorrectIndex,
			})
		}
		quiz.Questions = questions
	}

	if err := quiz.Validate(); err != nil {
		return nil, domain.ValidationErrors{domain.NewInvalidFieldError("quiz", err.Error())}
	}

	// The repository replaces the question set only when Questions is
	// non-nil; a title/description-only update must leave the rows alone.
	toPersist := *quiz
	if req.Questions == nil {
		toPersist.Questions = nil
	}
	if err := s.quizRepo.UpdateQuiz(ctx, &toPersist); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.NewQuizNotFoundError(quizID)
		}
		return nil, domain.NewInternalError("failed to update quiz", err)
	}
	quiz.UpdatedAt = toPersist.UpdatedAt

	logger.Get().Info("Quiz updated", zap.String("quizID", quizID), zap.String("ownerID", ownerID))
	return quiz, nil
}

// DeleteQuiz removes a quiz and its questions.
func (s *quizServiceImpl) DeleteQuiz(ctx context.Context, ownerID, quizID string) error {
	if err := s.quizRepo.DeleteQuiz(ctx, ownerID, quizID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NewQuizNotFoundError(quizID)
		}
		return domain.NewInternalError("failed to delete quiz", err)
	}
	logger.Get().Info("Quiz deleted", zap.String("quizID", quizID), zap.String("ownerID", ownerID))
	return nil
}
