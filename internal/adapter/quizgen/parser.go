package quizgen

import (
	"encoding/json"
	"fmt"
	"strings"

	"tubequiz/internal/domain"
)

// quizWire is the JSON shape the model is instructed to produce. The answer
// is the correct option's text, not an index; ParseQuiz resolves it.
type quizWire struct {
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Questions   []questionWire `json:"questions"`
}

type questionWire struct {
	QuestionTitle   string   `json:"question_title"`
	QuestionOptions []string `json:"question_options"`
	Answer          string   `json:"answer"`
}

// ParseQuiz parses raw completion text into a validated quiz structure.
// A strict parse of the whole text is attempted first; on failure a tolerant
// pass strips surrounding prose, code fences and reasoning blocks before
// retrying. Output that still violates the contract fails with
// domain.ErrMalformedQuizResponse, never a silent default.
func ParseQuiz(raw string) (*domain.GeneratedQuiz, error) {
	var wire quizWire
	if err := json.Unmarshal([]byte(raw), &wire); err != nil {
		cleaned, extractErr := extractJSONObject(raw)
		if extractErr != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedQuizResponse, extractErr)
		}
		if err := json.Unmarshal([]byte(cleaned), &wire); err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrMalformedQuizResponse, err)
		}
	}
	return validateWire(&wire)
}

// extractJSONObject recovers a JSON object from model output wrapped in
// prose, markdown fences or <think> blocks.
func extractJSONObject(raw string) (string, error) {
	s := strings.TrimSpace(raw)

	if start := strings.Index(s, "<think>"); start != -1 {
		if end := strings.Index(s, "</think>"); end != -1 && end > start {
			s = strings.TrimSpace(s[:start] + s[end+len("</think>"):])
		}
	}

	s = strings.ReplaceAll(s, "```json", "```")
	if start := strings.Index(s, "```"); start != -1 {
		rest := s[start+3:]
		if end := strings.Index(rest, "```"); end != -1 {
			s = strings.TrimSpace(rest[:end])
		}
	}

	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no JSON object found in model output")
	}
	return s[start : end+1], nil
}

func validateWire(wire *quizWire) (*domain.GeneratedQuiz, error) {
	if strings.TrimSpace(wire.Title) == "" {
		return nil, fmt.Errorf("%w: missing title", domain.ErrMalformedQuizResponse)
	}
	if len(wire.Questions) == 0 {
		return nil, fmt.Errorf("%w: no questions", domain.ErrMalformedQuizResponse)
	}

	quiz := &domain.GeneratedQuiz{
		Title:       strings.TrimSpace(wire.Title),
		Description: strings.TrimSpace(wire.Description),
	}

	for i, q := range wire.Questions {
		if strings.TrimSpace(q.QuestionTitle) == "" {
			return nil, fmt.Errorf("%w: question %d has no text", domain.ErrMalformedQuizResponse, i)
		}
		if len(q.QuestionOptions) != domain.OptionsPerQuestion {
			return nil, fmt.Errorf("%w: question %d has %d options, want %d",
				domain.ErrMalformedQuizResponse, i, len(q.QuestionOptions), domain.OptionsPerQuestion)
		}
		options := make([]string, 0, domain.OptionsPerQuestion)
		for _, opt := range q.QuestionOptions {
			opt = strings.TrimSpace(opt)
			if opt == "" {
				return nil, fmt.Errorf("%w: question %d has an empty option", domain.ErrMalformedQuizResponse, i)
			}
			options = append(options, opt)
		}

		correct, err := resolveAnswerIndex(options, q.Answer)
		if err != nil {
			return nil, fmt.Errorf("%w: question %d: %v", domain.ErrMalformedQuizResponse, i, err)
		}

		quiz.Questions = append(quiz.Questions, domain.GeneratedQuestion{
			Text:         strings.TrimSpace(q.QuestionTitle),
			Options:      options,
			CorrectIndex: correct,
		})
	}

	return quiz, nil
}

// resolveAnswerIndex finds the option matching the model's answer text.
// Exact match first, then a case-insensitive fallback; models occasionally
// change option casing between the list and the answer field.
func resolveAnswerIndex(options []string, answer string) (int, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return 0, fmt.Errorf("answer is empty")
	}
	for i, opt := range options {
		if opt == answer {
			return i, nil
		}
	}
	for i, opt := range options {
		if strings.EqualFold(opt, answer) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("answer %q is not among the options", answer)
}
