package service

import (
	"context"
	"errors"
	"time"

	"tubequiz/internal/adapter/quizgen"
	"tubequiz/internal/domain"
	"tubequiz/internal/logger"
	"tubequiz/internal/util"

	"go.uber.org/zap"
)

// QuizPipeline runs the full generation sequence for one creation request:
// download audio, transcribe, prompt the model, parse the completion and
// persist the result. It is synchronous and blocks for the duration of the
// request; temporary media is removed on every exit path. Re-submitting the
// same URL re-runs everything and creates a new quiz; there is deliberately
// no dedup or transcript caching.
type QuizPipeline struct {
	fetcher            domain.MediaFetcher
	transcriber        domain.Transcriber
	completions        domain.CompletionClient
	quizRepo           domain.QuizRepository
	maxTranscriptChars int
}

// NewQuizPipeline wires the pipeline stages together.
func NewQuizPipeline(
	fetcher domain.MediaFetcher,
	transcriber domain.Transcriber,
	completions domain.CompletionClient,
	quizRepo domain.QuizRepository,
	maxTranscriptChars int,
) *QuizPipeline {
	return &QuizPipeline{
		fetcher:            fetcher,
		transcriber:        transcriber,
		completions:        completions,
		quizRepo:           quizRepo,
		maxTranscriptChars: maxTranscriptChars,
	}
}

// GenerateFromURL executes the pipeline under the requesting user's
// identity so the quiz is created with the correct owner. A bad URL is a
// validation error; everything downstream is a pipeline failure, except an
// unreachable transcription/completion backend which surfaces as
// provider-unavailable.
func (p *QuizPipeline) GenerateFromURL(ctx context.Context, ownerID, rawURL string) (*domain.Quiz, error) {
	appLogger := logger.Get()
	start := time.Now()

	videoURL, err := p.fetcher.ValidateURL(rawURL)
	if err != nil {
		return nil, domain.ValidationErrors{domain.NewInvalidFieldError("url", err.Error())}
	}

	// Fetching
	appLogger.Info("Pipeline started", zap.String("ownerID", ownerID), zap.String("url", videoURL))
	audioPath, cleanup, err := p.fetcher.Fetch(ctx, videoURL)
	if err != nil {
		return nil, p.stageError(domain.StageFetching, err)
	}
	defer cleanup()

	// Transcribing
	transcript, err := p.transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return nil, p.stageError(domain.StageTranscribing, err)
	}
	appLogger.Info("Transcript ready", zap.Int("chars", len(transcript)))

	// Prompting (pure, cannot fail)
	systemPrompt, userPrompt := quizgen.BuildPrompt(transcript, p.maxTranscriptChars)

	// Completing
	completion, err := p.completions.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		return nil, p.stageError(domain.StageCompleting, err)
	}

	// Parsing
	generated, err := quizgen.ParseQuiz(completion)
	if err != nil {
		return nil, p.stageError(domain.StageParsing, err)
	}

	// Persisting
	quiz := &domain.Quiz{
		ID:          util.NewULID(),
		OwnerID:     ownerID,
		Title:       generated.Title,
		Description: generated.Description,
		VideoURL:    videoURL,
	}
	for _, q := range generated.Questions {
		quiz.Questions = append(quiz.Questions, &domain.Question{
			ID:           util.NewULID(),
			Text:         q.Text,
			Options:      q.Options,
			CorrectIndex: q.CorrectIndex,
		})
	}
	if err := quiz.Validate(); err != nil {
		return nil, p.stageError(domain.StageParsing, err)
	}
	if err := p.quizRepo.CreateQuiz(ctx, quiz); err != nil {
		return nil, p.stageError(domain.StagePersisting, err)
	}

	appLogger.Info("Pipeline finished",
		zap.String("quizID", quiz.ID),
		zap.Int("questions", len(quiz.Questions)),
		zap.Duration("duration", time.Since(start)),
	)
	return quiz, nil
}

// stageError logs the stage and underlying cause, then wraps them into the
// single API-facing error shape. Unreachable backends are distinguished so
// the HTTP layer can answer 502 instead of 422.
func (p *QuizPipeline) stageError(stage domain.PipelineStage, err error) error {
	logger.Get().Error("Pipeline stage failed",
		zap.String("stage", string(stage)),
		zap.Error(err),
	)

	switch {
	case errors.Is(err, domain.ErrProviderError) || errors.Is(err, domain.ErrCompletionTimeout):
		return domain.NewProviderUnavailableError("completion", err)
	case stage == domain.StageTranscribing && errors.Is(err, context.DeadlineExceeded):
		return domain.NewProviderUnavailableError("transcription", err)
	default:
		return domain.NewPipelineError(stage, err)
	}
}
