package validation

import (
	"fmt"
	"regexp"
	"strings"

	"tubequiz/internal/domain"
	"tubequiz/internal/dto"
)

// Validator provides request validation functionality
type Validator struct{}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{}
}

var (
	validUsername = regexp.MustCompile(`^[a-zA-Z0-9_.-]+$`)
	validEmail    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// ValidateRegisterRequest validates the registration payload.
func (v *Validator) ValidateRegisterRequest(req *dto.RegisterRequest) domain.ValidationErrors {
	var errs domain.ValidationErrors

	username := strings.TrimSpace(req.Username)
	if username == "" {
		errs = append(errs, domain.NewMissingFieldError("username"))
	} else if len(username) < 3 || len(username) > 150 {
		errs = append(errs, domain.NewInvalidFieldError("username", "must be between 3 and 150 characters"))
	} else if !validUsername.MatchString(username) {
		errs = append(errs, domain.NewInvalidFieldError("username", "may only contain letters, digits, and _.-"))
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		errs = append(errs, domain.NewMissingFieldError("email"))
	} else if !validEmail.MatchString(email) || len(email) > 254 {
		errs = append(errs, domain.NewInvalidFieldError("email", "is not a valid email address"))
	}

	if req.Password == "" {
		errs = append(errs, domain.NewMissingFieldError("password"))
	} else if len(req.Password) < 8 {
		errs = append(errs, domain.NewInvalidFieldError("password", "must be at least 8 characters"))
	} else if len(req.Password) > 72 {
		// bcrypt rejects inputs longer than 72 bytes.
		errs = append(errs, domain.NewInvalidFieldError("password", "must not exceed 72 bytes"))
	}

	return errs
}

// ValidateLoginRequest validates the login payload.
func (v *Validator) ValidateLoginRequest(req *dto.LoginRequest) domain.ValidationErrors {
	var errs domain.ValidationErrors
	if strings.TrimSpace(req.Username) == "" {
		errs = append(errs, domain.NewMissingFieldError("username"))
	}
	if req.Password == "" {
		errs = append(errs, domain.NewMissingFieldError("password"))
	}
	return errs
}

// ValidateCreateQuizRequest validates the quiz creation payload. URL
// canonicalization happens later, in the media fetcher; here only presence
// and gross size are checked.
func (v *Validator) ValidateCreateQuizRequest(req *dto.CreateQuizRequest) domain.ValidationErrors {
	var errs domain.ValidationErrors
	url := strings.TrimSpace(req.URL)
	if url == "" {
		errs = append(errs, domain.NewMissingFieldError("url"))
	} else if len(url) > 500 {
		errs = append(errs, domain.NewInvalidFieldError("url", "must not exceed 500 characters"))
	}
	return errs
}

// ValidateUpdateQuizRequest validates a partial quiz update.
func (v *Validator) ValidateUpdateQuizRequest(req *dto.UpdateQuizRequest) domain.ValidationErrors {
	var errs domain.ValidationErrors

	if req.Title == nil && req.Description == nil && req.Questions == nil {
		errs = append(errs, domain.NewInvalidFieldError("body", "at least one of title, description or questions must be provided"))
		return errs
	}

	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		errs = append(errs, domain.NewInvalidFieldError("title", "must not be empty"))
	}
	if req.Title != nil && len(*req.Title) > 200 {
		errs = append(errs, domain.NewInvalidFieldError("title", "must not exceed 200 characters"))
	}

	if req.Questions != nil {
		if len(req.Questions) == 0 {
			errs = append(errs, domain.NewInvalidFieldError("questions", "must contain at least one question"))
		}
		for i, q := range req.Questions {
			question := domain.Question{
				Text:         strings.TrimSpace(q.Text),
				Options:      q.Options,
				CorrectIndex: q.CorrectIndex,
			}
			if err := question.Validate(); err != nil {
				errs = append(errs, domain.NewInvalidFieldError("questions",
					fmt.Sprintf("question %d: %v", i, err)))
				break
			}
		}
	}

	return errs
}

// IsValidULID checks if the string is a valid ULID format
// (26 characters, Crockford's Base32).
func IsValidULID(s string) bool {
	if len(s) != 26 {
		return false
	}
	return validULID.MatchString(s)
}

var validULID = regexp.MustCompile(`^[0-9A-HJKMNP-TV-Z]{26}$`)
