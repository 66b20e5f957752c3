package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/Dias221467/Habit_Tracker/internal/models"
	"github.com/Dias221467/Habit_Tracker/internal/repository"
	"github.com/Dias221467/Habit_Tracker/pkg/logger"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// UserService encapsulates the business logic for user operations.
type UserService struct {
	repo UserStore
}

// NewUserService creates a new instance of UserService.
func NewUserService(repo UserStore) *UserService {
	return &UserService{
		repo: repo,
	}
}

// RegisterUser creates an account with zero points and streak.
func (s *UserService) RegisterUser(ctx context.Context, name, email, password string) (*models.User, error) {
	logger.Log.Info("Registering new user")

	email = strings.ToLower(strings.TrimSpace(email))
	if strings.TrimSpace(name) == "" || email == "" || password == "" {
		logger.Log.Warn("Missing required fields during registration")
		return nil, fmt.Errorf("%w: missing required user fields", ErrValidation)
	}
	if !emailRegex.MatchString(email) {
		logger.Log.WithField("email", email).Warn("Invalid email format during registration")
		return nil, fmt.Errorf("%w: invalid email format", ErrValidation)
	}

	existing, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		logger.Log.WithField("email", email).Warn("Email already in use")
		return nil, ErrEmailTaken
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.WithError(err).Error("Password hashing failed")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Name:           strings.TrimSpace(name),
		Email:          email,
		HashedPassword: string(hashedPwd),
	}

	created, err := s.repo.CreateUser(ctx, user)
	if err != nil {
		logger.Log.WithError(err).Error("User registration failed")
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	logger.Log.WithField("userID", created.ID.Hex()).Info("User registered successfully")
	return created, nil
}

// AuthenticateUser verifies the email and password and returns the user if credentials are valid.
func (s *UserService) AuthenticateUser(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		logger.Log.WithField("email", email).Warn("User not found")
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		logger.Log.WithField("email", email).Warn("Invalid credentials")
		return nil, ErrInvalidCredentials
	}

	logger.Log.WithField("userID", user.ID.Hex()).Info("User authenticated successfully")
	return user, nil
}

// GetUser retrieves a user by their ID.
func (s *UserService) GetUser(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return user, nil
}

// ChangePassword replaces the password of userID after checking the
// current one.
func (s *UserService) ChangePassword(ctx context.Context, userID primitive.ObjectID, current, next string) error {
	if current == "" || next == "" {
		return fmt.Errorf("%w: current and new password are required", ErrValidation)
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		return notFound(err, "user")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(current)); err != nil {
		logger.Log.WithField("userID", userID.Hex()).Warn("Password change with wrong current password")
		return fmt.Errorf("%w: current password is incorrect", ErrValidation)
	}

	hashedPwd, err := bcrypt.GenerateFromPassword([]byte(next), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.WithError(err).Error("Password hashing failed")
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.repo.UpdatePassword(ctx, userID, string(hashedPwd)); err != nil {
		return notFound(err, "user")
	}

	logger.Log.WithField("userID", userID.Hex()).Info("Password changed")
	return nil
}
