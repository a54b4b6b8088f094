package domain

import "context"

// UserRepository defines the persistence contract for users.
// Lookups return (nil, nil) when no row matches.
type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, userID string) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

// QuizRepository defines the persistence contract for quizzes. Every read
// and write is scoped by the owning user; a quiz that exists but belongs to
// someone else behaves exactly like one that does not exist.
type QuizRepository interface {
	CreateQuiz(ctx context.Context, quiz *Quiz) error
	GetQuiz(ctx context.Context, ownerID, quizID string) (*Quiz, error)
	ListQuizzes(ctx context.Context, ownerID string) ([]*Quiz, error)
	UpdateQuiz(ctx context.Context, quiz *Quiz) error
	DeleteQuiz(ctx context.Context, ownerID, quizID string) error
}
