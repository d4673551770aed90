package ports

import (
	"context"

	"github.com/icct-edu/campus-events/internal/core/domain"
)

// RegisterStudentInput carries the student signup form.
type RegisterStudentInput struct {
	Name            string
	Email           string
	StudentID       string
	Campus          string
	Password        string
	ConfirmPassword string
}

// AuthService implements student signup/login and the fixed admin login.
type AuthService interface {
	RegisterStudent(ctx context.Context, input RegisterStudentInput) (*domain.User, error)
	// LoginStudent accepts the user's email or student id as identifier.
	LoginStudent(ctx context.Context, identifier, password string) (string, *domain.User, error)
	LoginAdmin(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context) error
}
