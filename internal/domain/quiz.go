package domain

import (
	"fmt"
	"time"
)

// OptionsPerQuestion is the fixed number of answer options every question
// must carry.
const OptionsPerQuestion = 4

// Quiz represents a generated quiz owned by a single user. The owner is
// immutable after creation.
type Quiz struct {
	ID          string
	OwnerID     string
	Title       string
	Description string
	VideoURL    string
	Questions   []*Question
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Question is a single multiple-choice question: exactly four options and
// the index of the correct one.
type Question struct {
	ID           string
	Text         string
	Options      []string
	CorrectIndex int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Validate enforces the structural invariants of a quiz before it may be
// persisted: a title, at least one question, four non-empty options per
// question and an in-range correct index.
func (q *Quiz) Validate() error {
	if q.Title == "" {
		return NewInvalidFieldError("title", "must not be empty")
	}
	if q.OwnerID == "" {
		return NewInvalidFieldError("owner_id", "must not be empty")
	}
	if len(q.Questions) == 0 {
		return NewInvalidFieldError("questions", "must contain at least one question")
	}
	for i, question := range q.Questions {
		if err := question.Validate(); err != nil {
			return NewInvalidFieldError("questions", fmt.Sprintf("question %d is invalid: %v", i, err))
		}
	}
	return nil
}

// Validate checks a single question's invariants.
func (q *Question) Validate() error {
	if q.Text == "" {
		return NewInvalidFieldError("text", "must not be empty")
	}
	if len(q.Options) != OptionsPerQuestion {
		return NewInvalidFieldError("options", "must contain exactly 4 options")
	}
	for _, opt := range q.Options {
		if opt == "" {
			return NewInvalidFieldError("options", "option text must not be empty")
		}
	}
	if q.CorrectIndex < 0 || q.CorrectIndex >= OptionsPerQuestion {
		return NewInvalidFieldError("correct_index", "must be in range [0,4)")
	}
	return nil
}
