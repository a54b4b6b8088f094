package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tubequiz/internal/domain"
	"tubequiz/internal/dto"
	"tubequiz/internal/middleware"
	"tubequiz/internal/util"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubQuizService scripts each operation with a function field.
type stubQuizService struct {
	createFromURL func(ctx context.Context, ownerID, rawURL string) (*domain.Quiz, error)
	listQuizzes   func(ctx context.Context, ownerID string) ([]*domain.Quiz, error)
	getQuiz       func(ctx context.Context, ownerID, quizID string) (*domain.Quiz, error)
	updateQuiz    func(ctx context.Context, ownerID, quizID string, req *dto.UpdateQuizRequest) (*domain.Quiz, error)
	deleteQuiz    func(ctx context.Context, ownerID, quizID string) error
}

func (s *stubQuizService) CreateFromURL(ctx context.Context, ownerID, rawURL string) (*domain.Quiz, error) {
	return s.createFromURL(ctx, ownerID, rawURL)
}

func (s *stubQuizService) ListQuizzes(ctx context.Context, ownerID string) ([]*domain.Quiz, error) {
	return s.listQuizzes(ctx, ownerID)
}

func (s *stubQuizService) GetQuiz(ctx context.Context, ownerID, quizID string) (*domain.Quiz, error) {
	return s.getQuiz(ctx, ownerID, quizID)
}

func (s *stubQuizService) UpdateQuiz(ctx context.Context, ownerID, quizID string, req *dto.UpdateQuizRequest) (*domain.Quiz, error) {
	return s.updateQuiz(ctx, ownerID, quizID, req)
}

func (s *stubQuizService) DeleteQuiz(ctx context.Context, ownerID, quizID string) error {
	return s.deleteQuiz(ctx, ownerID, quizID)
}

func sampleQuiz(ownerID string) *domain.Quiz {
	now := time.Now()
	return &domain.Quiz{
		ID:          util.NewULID(),
		OwnerID:     ownerID,
		Title:       "Sample",
		Description: "desc",
		VideoURL:    "https://www.youtube.com/watch?v=abc",
		Questions: []*domain.Question{
			{ID: util.NewULID(), Text: "Q?", Options: []string{"a", "b", "c", "d"}, CorrectIndex: 1},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// newQuizTestApp builds a fiber app with the quiz routes and a middleware
// that injects a fixed user id, standing in for Protected.
func newQuizTestApp(svc *stubQuizService) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(middleware.UserIDKey, "owner-1")
		return c.Next()
	})

	h := NewQuizHandler(svc)
	group := app.Group("/api/quiz")
	group.Post("/create", h.CreateQuiz)
	group.Get("/list", h.ListQuizzes)
	group.Get("/:id", h.GetQuiz)
	group.Patch("/:id", h.UpdateQuiz)
	group.Delete("/:id", h.DeleteQuiz)
	return app
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decodeBody(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, out))
}

func TestCreateQuizHandler(t *testing.T) {
	svc := &stubQuizService{
		createFromURL: func(ctx context.Context, ownerID, rawURL string) (*domain.Quiz, error) {
			assert.Equal(t, "owner-1", ownerID)
			assert.Equal(t, "https://youtu.be/abc", rawURL)
			return sampleQuiz(ownerID), nil
		},
	}
	app := newQuizTestApp(svc)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/quiz/create", `{"url":"https://youtu.be/abc"}`), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var body dto.QuizResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "Sample", body.Title)
	require.Len(t, body.Questions, 1)
	assert.Equal(t, 1, body.Questions[0].CorrectIndex)
}

func TestCreateQuizHandler_MissingURL(t *testing.T) {
	app := newQuizTestApp(&stubQuizService{})

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/quiz/create", `{}`), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body middleware.ValidationErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, string(domain.CodeValidation), body.Code)
	require.Len(t, body.Errors, 1)
	assert.Equal(t, "url", body.Errors[0].Field)
}

func TestCreateQuizHandler_BadJSON(t *testing.T) {
	app := newQuizTestApp(&stubQuizService{})

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/quiz/create", `{not json`), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateQuizHandler_PipelineFailure(t *testing.T) {
	svc := &stubQuizService{
		createFromURL: func(ctx context.Context, ownerID, rawURL string) (*domain.Quiz, error) {
			return nil, domain.NewPipelineError(domain.StageParsing, domain.ErrMalformedQuizResponse)
		},
	}
	app := newQuizTestApp(svc)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/quiz/create", `{"url":"https://youtu.be/abc"}`), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	var body middleware.ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, string(domain.CodePipelineError), body.Code)
}

func TestCreateQuizHandler_ProviderDown(t *testing.T) {
	svc := &stubQuizService{
		createFromURL: func(ctx context.Context, ownerID, rawURL string) (*domain.Quiz, error) {
			return nil, domain.NewProviderUnavailableError("completion", domain.ErrProviderError)
		},
	}
	app := newQuizTestApp(svc)

	resp, err := app.Test(jsonRequest(http.MethodPost, "/api/quiz/create", `{"url":"https://youtu.be/abc"}`), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
}

func TestListQuizzesHandler(t *testing.T) {
	svc := &stubQuizService{
		listQuizzes: func(ctx context.Context, ownerID string) ([]*domain.Quiz, error) {
			return []*domain.Quiz{sampleQuiz(ownerID), sampleQuiz(ownerID)}, nil
		},
	}
	app := newQuizTestApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/quiz/list", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body []dto.QuizSummaryResponse
	decodeBody(t, resp, &body)
	require.Len(t, body, 2)
	assert.Equal(t, 1, body[0].QuestionCount)
}

func TestGetQuizHandler_MalformedID(t *testing.T) {
	called := false
	svc := &stubQuizService{
		getQuiz: func(ctx context.Context, ownerID, quizID string) (*domain.Quiz, error) {
			called = true
			return sampleQuiz(ownerID), nil
		},
	}
	app := newQuizTestApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/quiz/not-a-ulid", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.False(t, called, "a malformed id never reaches the service")

	var body middleware.ErrorResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, string(domain.CodeQuizNotFound), body.Code)
}

func TestGetQuizHandler_NotFound(t *testing.T) {
	svc := &stubQuizService{
		getQuiz: func(ctx context.Context, ownerID, quizID string) (*domain.Quiz, error) {
			return nil, domain.NewQuizNotFoundError(quizID)
		},
	}
	app := newQuizTestApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/api/quiz/"+util.NewULID(), nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestUpdateQuizHandler(t *testing.T) {
	quizID := util.NewULID()
	svc := &stubQuizService{
		updateQuiz: func(ctx context.Context, ownerID, id string, req *dto.UpdateQuizRequest) (*domain.Quiz, error) {
			assert.Equal(t, quizID, id)
			require.NotNil(t, req.Title)
			assert.Equal(t, "Renamed", *req.Title)
			quiz := sampleQuiz(ownerID)
			quiz.Title = *req.Title
			return quiz, nil
		},
	}
	app := newQuizTestApp(svc)

	resp, err := app.Test(jsonRequest(http.MethodPatch, "/api/quiz/"+quizID, `{"title":"Renamed"}`), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body dto.QuizResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, "Renamed", body.Title)
}

func TestDeleteQuizHandler(t *testing.T) {
	quizID := util.NewULID()
	svc := &stubQuizService{
		deleteQuiz: func(ctx context.Context, ownerID, id string) error {
			assert.Equal(t, "owner-1", ownerID)
			assert.Equal(t, quizID, id)
			return nil
		},
	}
	app := newQuizTestApp(svc)

	resp, err := app.Test(httptest.NewRequest(http.MethodDelete, "/api/quiz/"+quizID, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}
