package dto

import (
	"time"

	"tubequiz/internal/domain"
)

// CreateQuizRequest is the body for POST /api/quiz/create.
type CreateQuizRequest struct {
	URL string `json:"url"`
}

// UpdateQuizRequest carries a partial update; nil fields are left unchanged.
// Updating never re-runs the generation pipeline.
type UpdateQuizRequest struct {
	Title       *string           `json:"title,omitempty"`
	Description *string           `json:"description,omitempty"`
	Questions   []QuestionPayload `json:"questions,omitempty"`
}

// QuestionPayload is a question as sent by or returned to clients.
type QuestionPayload struct {
	Text         string   `json:"text"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correct_index"`
}

// QuizResponse is the full representation of a quiz.
type QuizResponse struct {
	ID          string            `json:"id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	VideoURL    string            `json:"video_url,omitempty"`
	Questions   []QuestionPayload `json:"questions"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// QuizSummaryResponse is the list representation: no questions, just enough
// to render an index.
type QuizSummaryResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	VideoURL      string    `json:"video_url,omitempty"`
	QuestionCount int       `json:"question_count"`
	CreatedAt     time.Time `json:"created_at"`
}

// ToQuizResponse maps a domain quiz to its full API representation.
func ToQuizResponse(quiz *domain.Quiz) QuizResponse {
	questions := make([]QuestionPayload, 0, len(quiz.Questions))
	for _, q := range quiz.Questions {
		questions = append(questions, QuestionPayload{
			Text:         q.Text,
			Options:      q.Options,
			CorrectIndex: q.CorrectIndex,
		})
	}
	return QuizResponse{
		ID:          quiz.ID,
		Title:       quiz.Title,
		Description: quiz.Description,
		VideoURL:    quiz.VideoURL,
		Questions:   questions,
		CreatedAt:   quiz.CreatedAt,
		UpdatedAt:   quiz.UpdatedAt,
	}
}

// ToQuizSummary maps a domain quiz to its list representation.
func ToQuizSummary(quiz *domain.Quiz) QuizSummaryResponse {
	return QuizSummaryResponse{
		ID:            quiz.ID,
		Title:         quiz.Title,
		Description:   quiz.Description,
		VideoURL:      quiz.VideoURL,
		QuestionCount: len(quiz.Questions),
		CreatedAt:     quiz.CreatedAt,
	}
}
