package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/artemis-health/artemis/internal/models"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmailTaken   = errors.New("email already registered")
	ErrUserNotFound = errors.New("user not found")
)

// AuthUserRepository reports a duplicate email from CreateWithProfile as ErrEmailTaken.
type AuthUserRepository interface {
	ExistsByNormalizedEmail(ctx context.Context, email string) (bool, error)
	FindByNormalizedEmail(ctx context.Context, email string) (models.User, bool, error)
	FindByID(ctx context.Context, userID uint) (models.User, error)
	CreateWithProfile(ctx context.Context, user *models.User, fullName string) error
	UpdatePassword(ctx context.Context, userID uint, passwordHash string) error
}

type SignupInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	FullName        string
}

type AuthService struct {
	users      AuthUserRepository
	bcryptCost int
	// dummyHash keeps unknown-email logins as slow as wrong-password ones.
	dummyHash []byte
}

func NewAuthService(users AuthUserRepository) *AuthService {
	return newAuthServiceWithCost(users, bcrypt.DefaultCost)
}

func newAuthServiceWithCost(users AuthUserRepository, cost int) *AuthService {
	dummyHash, _ := bcrypt.GenerateFromPassword([]byte("artemis-dummy-password"), cost)
	return &AuthService{users: users, bcryptCost: cost, dummyHash: dummyHash}
}

func (service *AuthService) Signup(ctx context.Context, input SignupInput) (models.User, error) {
	email, password, err := NormalizeCredentialsInput(input.Email, input.Password)
	if err != nil {
		return models.User{}, err
	}
	if err := ValidatePasswordStrength(password); err != nil {
		return models.User{}, err
	}
	if password != strings.TrimSpace(input.ConfirmPassword) {
		return models.User{}, ErrPasswordMismatch
	}
	fullName, err := NormalizeFullName(input.FullName)
	if err != nil {
		return models.User{}, err
	}

	exists, err := service.users.ExistsByNormalizedEmail(ctx, email)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrReadFailure, err)
	}
	if exists {
		return models.User{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), service.bcryptCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := service.users.CreateWithProfile(ctx, &user, fullName); err != nil {
		// A concurrent signup can win the race after the existence check.
		if errors.Is(err, ErrEmailTaken) {
			return models.User{}, ErrEmailTaken
		}
		return models.User{}, fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	return user, nil
}

// Authenticate returns ErrAuthCredentialsInvalid for both unknown emails and wrong passwords.
func (service *AuthService) Authenticate(ctx context.Context, emailRaw string, passwordRaw string) (models.User, error) {
	email, password, err := NormalizeCredentialsInput(emailRaw, passwordRaw)
	if err != nil {
		return models.User{}, err
	}

	user, found, err := service.users.FindByNormalizedEmail(ctx, email)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrReadFailure, err)
	}
	if !found {
		_ = bcrypt.CompareHashAndPassword(service.dummyHash, []byte(password))
		return models.User{}, ErrAuthCredentialsInvalid
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return models.User{}, ErrAuthCredentialsInvalid
	}
	return user, nil
}

func (service *AuthService) FindByID(ctx context.Context, userID uint) (models.User, error) {
	user, err := service.users.FindByID(ctx, userID)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrReadFailure, err)
	}
	return user, nil
}

// ResetPassword skips the strength policy so operators can hand out generated passwords.
func (service *AuthService) ResetPassword(ctx context.Context, emailRaw string, password string) (models.User, error) {
	email := NormalizeAuthEmail(emailRaw)
	if email == "" {
		return models.User{}, ErrAuthCredentialsInvalid
	}
	user, found, err := service.users.FindByNormalizedEmail(ctx, email)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrReadFailure, err)
	}
	if !found {
		return models.User{}, ErrUserNotFound
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), service.bcryptCost)
	if err != nil {
		return models.User{}, fmt.Errorf("hash password: %w", err)
	}
	if err := service.users.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return models.User{}, fmt.Errorf("%w: %v", ErrWriteFailure, err)
	}
	user.PasswordHash = string(hash)
	return user, nil
}
