package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/icct-edu/campus-events/internal/core/domain"
	"github.com/icct-edu/campus-events/internal/core/ports"
)

const minPasswordLength = 8

// AuthService implements student signup/login and the fixed-credential
// admin login. Logins also update the device session: a student login
// clears the admin flag and vice versa.
type AuthService struct {
	store         ports.RecordStore
	session       ports.Session
	jwtSecret     string
	tokenTTL      time.Duration
	adminUsername string
	adminPassword string
	log           zerolog.Logger
}

func NewAuthService(
	store ports.RecordStore,
	session ports.Session,
	jwtSecret string,
	tokenTTL time.Duration,
	adminUsername, adminPassword string,
	log zerolog.Logger,
) *AuthService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &AuthService{
		store:         store,
		session:       session,
		jwtSecret:     jwtSecret,
		tokenTTL:      tokenTTL,
		adminUsername: adminUsername,
		adminPassword: adminPassword,
		log:           log,
	}
}

// RegisterStudent validates the signup form, enforces email/studentId
// uniqueness, and stores the user with a bcrypt digest.
func (s *AuthService) RegisterStudent(ctx context.Context, input ports.RegisterStudentInput) (*domain.User, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	input.StudentID = strings.TrimSpace(input.StudentID)

	if input.Name == "" || input.Email == "" || input.StudentID == "" || input.Campus == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: all required fields must be filled", domain.ErrValidation)
	}
	if len(input.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLength)
	}
	if input.Password != input.ConfirmPassword {
		return nil, fmt.Errorf("%w: passwords do not match", domain.ErrValidation)
	}

	emailTaken, err := s.store.Count(ctx, ports.CollectionUsers, map[string]any{"email": input.Email})
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if emailTaken > 0 {
		return nil, fmt.Errorf("%w: email already registered", domain.ErrUserExists)
	}
	idTaken, err := s.store.Count(ctx, ports.CollectionUsers, map[string]any{"studentId": input.StudentID})
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if idTaken > 0 {
		return nil, fmt.Errorf("%w: student id already registered", domain.ErrUserExists)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	user := domain.User{
		Name:      input.Name,
		Email:     input.Email,
		StudentID: input.StudentID,
		Campus:    input.Campus,
		Password:  string(hash),
		Role:      domain.RoleStudent,
	}
	rec, err := domain.ToRecord(user)
	if err != nil {
		return nil, err
	}

	created, err := s.store.Create(ctx, ports.CollectionUsers, rec)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	if err := domain.FromRecord(created, &user); err != nil {
		return nil, err
	}

	s.log.Info().Str("user", user.ID).Str("campus", user.Campus).Msg("student registered")
	return &user, nil
}

// LoginStudent matches identifier against email or student id, verifies the
// password, starts the student session, and issues a JWT.
func (s *AuthService) LoginStudent(ctx context.Context, identifier, password string) (string, *domain.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	user, err := s.findByIdentifier(ctx, identifier)
	if err != nil {
		return "", nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	if err := s.session.Login(ctx, *user); err != nil {
		return "", nil, err
	}

	token, err := s.generateToken(user.ID, user.Name, domain.RoleStudent)
	if err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// LoginAdmin checks the configured admin credentials, starts the admin
// session (purging any student snapshot), and issues an admin JWT.
func (s *AuthService) LoginAdmin(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", domain.ErrInvalidCredentials
	}
	if username != s.adminUsername || password != s.adminPassword {
		return "", domain.ErrInvalidCredentials
	}

	if err := s.session.LoginAdmin(ctx); err != nil {
		return "", err
	}
	return s.generateToken(s.adminUsername, "Administrator", domain.RoleAdmin)
}

// Logout clears both session keys.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.session.Logout(ctx)
}

func (s *AuthService) findByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	recs, err := s.store.ReadAll(ctx, ports.CollectionUsers, map[string]any{"email": identifier})
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if len(recs) == 0 {
		recs, err = s.store.ReadAll(ctx, ports.CollectionUsers, map[string]any{"studentId": identifier})
		if err != nil {
			return nil, fmt.Errorf("login: %w", err)
		}
	}
	if len(recs) == 0 {
		return nil, domain.ErrUserNotFound
	}

	var user domain.User
	if err := domain.FromRecord(recs[0], &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) generateToken(subject, name, role string) (string, error) {
	claims := jwt.MapClaims{
		"sub":  subject,
		"name": name,
		"role": role,
		"exp":  time.Now().Add(s.tokenTTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.jwtSecret))
}
