package handler

import (
	"tubequiz/internal/domain"
	"tubequiz/internal/dto"
	"tubequiz/internal/middleware"
	"tubequiz/internal/service"
	"tubequiz/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// QuizHandler serves the /api/quiz routes. All of them run behind the
// Protected middleware, so a user id is always present in Locals.
type QuizHandler struct {
	service   service.QuizService
	validator *validation.Validator
}

// NewQuizHandler creates a new QuizHandler instance
func NewQuizHandler(service service.QuizService) *QuizHandler {
	return &QuizHandler{
		service:   service,
		validator: validation.NewValidator(),
	}
}

// CreateQuiz handles POST /api/quiz/create. The request blocks for the
// whole generation pipeline: download, transcription, completion, parse,
// persist.
func (h *QuizHandler) CreateQuiz(c *fiber.Ctx) error {
	ownerID := userID(c)

	var req dto.CreateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ValidationErrors{domain.NewInvalidFieldError("body", "is not valid JSON")}
	}
	if errs := h.validator.ValidateCreateQuizRequest(&req); len(errs) > 0 {
		return errs
	}

	quiz, err := h.service.CreateFromURL(c.Context(), ownerID, req.URL)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(dto.ToQuizResponse(quiz))
}

// ListQuizzes handles GET /api/quiz/list.
func (h *QuizHandler) ListQuizzes(c *fiber.Ctx) error {
	quizzes, err := h.service.ListQuizzes(c.Context(), userID(c))
	if err != nil {
		return err
	}

	summaries := make([]dto.QuizSummaryResponse, 0, len(quizzes))
	for _, quiz := range quizzes {
		summaries = append(summaries, dto.ToQuizSummary(quiz))
	}
	return c.Status(fiber.StatusOK).JSON(summaries)
}

// GetQuiz handles GET /api/quiz/:id.
func (h *QuizHandler) GetQuiz(c *fiber.Ctx) error {
	quizID, err := h.quizID(c)
	if err != nil {
		return err
	}

	quiz, err := h.service.GetQuiz(c.Context(), userID(c), quizID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(dto.ToQuizResponse(quiz))
}

// UpdateQuiz handles PATCH /api/quiz/:id with a partial body.
func (h *QuizHandler) UpdateQuiz(c *fiber.Ctx) error {
	quizID, err := h.quizID(c)
	if err != nil {
		return err
	}

	var req dto.UpdateQuizRequest
	if err := c.BodyParser(&req); err != nil {
		return domain.ValidationErrors{domain.NewInvalidFieldError("body", "is not valid JSON")}
	}

	quiz, err := h.service.UpdateQuiz(c.Context(), userID(c), quizID, &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(dto.ToQuizResponse(quiz))
}

// DeleteQuiz handles DELETE /api/quiz/:id.
func (h *QuizHandler) DeleteQuiz(c *fiber.Ctx) error {
	quizID, err := h.quizID(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteQuiz(c.Context(), userID(c), quizID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// quizID reads and shape-checks the :id path parameter. A malformed id
// can never match a row, so it reports not-found rather than a validation
// error, keeping the response identical to a genuinely missing quiz.
func (h *QuizHandler) quizID(c *fiber.Ctx) (string, error) {
	id := c.Params("id")
	if !validation.IsValidULID(id) {
		return "", domain.NewQuizNotFoundError(id)
	}
	return id, nil
}

func userID(c *fiber.Ctx) string {
	id, _ := c.Locals(middleware.UserIDKey).(string)
	return id
}
