package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/artemis-health/artemis/internal/models"
	"golang.org/x/crypto/bcrypt"
)

type stubAuthUserRepository struct {
	users     []models.User
	fullNames map[uint]string
	createErr error
}

func (stub *stubAuthUserRepository) ExistsByNormalizedEmail(_ context.Context, email string) (bool, error) {
	_, found, err := stub.FindByNormalizedEmail(context.Background(), email)
	return found, err
}

func (stub *stubAuthUserRepository) FindByNormalizedEmail(_ context.Context, email string) (models.User, bool, error) {
	for _, user := range stub.users {
		if user.Email == email {
			return user, true, nil
		}
	}
	return models.User{}, false, nil
}

func (stub *stubAuthUserRepository) FindByID(_ context.Context, userID uint) (models.User, error) {
	for _, user := range stub.users {
		if user.ID == userID {
			return user, nil
		}
	}
	return models.User{}, errors.New("record not found")
}

func (stub *stubAuthUserRepository) CreateWithProfile(_ context.Context, user *models.User, fullName string) error {
	if stub.createErr != nil {
		return stub.createErr
	}
	user.ID = uint(len(stub.users) + 1)
	stub.users = append(stub.users, *user)
	if stub.fullNames == nil {
		stub.fullNames = make(map[uint]string)
	}
	stub.fullNames[user.ID] = fullName
	return nil
}

func (stub *stubAuthUserRepository) UpdatePassword(_ context.Context, userID uint, passwordHash string) error {
	for index := range stub.users {
		if stub.users[index].ID == userID {
			stub.users[index].PasswordHash = passwordHash
			return nil
		}
	}
	return errors.New("record not found")
}

func newTestAuthService(repo *stubAuthUserRepository) *AuthService {
	return newAuthServiceWithCost(repo, bcrypt.MinCost)
}

func TestSignupThenAuthenticate(t *testing.T) {
	repo := &stubAuthUserRepository{}
	service := newTestAuthService(repo)

	user, err := service.Signup(context.Background(), SignupInput{
		Email:           " Ada@Example.com ",
		Password:        "StrongPass1",
		ConfirmPassword: "StrongPass1",
		FullName:        " Ada  Lovelace ",
	})
	if err != nil {
		t.Fatalf("signup: %v", err)
	}
	if user.Email != "ada@example.com" {
		t.Fatalf("expected normalized email, got %q", user.Email)
	}
	if repo.fullNames[user.ID] != "Ada Lovelace" {
		t.Fatalf("expected profile name to be stored, got %q", repo.fullNames[user.ID])
	}

	authenticated, err := service.Authenticate(context.Background(), "ADA@example.com", "StrongPass1")
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if authenticated.ID != user.ID {
		t.Fatalf("expected user %d, got %d", user.ID, authenticated.ID)
	}
}

func TestSignupValidation(t *testing.T) {
	repo := &stubAuthUserRepository{}
	service := newTestAuthService(repo)
	if _, err := service.Signup(context.Background(), SignupInput{Email: "taken@example.com", Password: "StrongPass1", ConfirmPassword: "StrongPass1"}); err != nil {
		t.Fatalf("seed signup: %v", err)
	}

	tests := []struct {
		name  string
		input SignupInput
		want  error
	}{
		{name: "bad email", input: SignupInput{Email: "nope", Password: "StrongPass1", ConfirmPassword: "StrongPass1"}, want: ErrAuthCredentialsInvalid},
		{name: "weak password", input: SignupInput{Email: "a@example.com", Password: "weak", ConfirmPassword: "weak"}, want: ErrWeakPassword},
		{name: "mismatch", input: SignupInput{Email: "a@example.com", Password: "StrongPass1", ConfirmPassword: "StrongPass2"}, want: ErrPasswordMismatch},
		{name: "taken", input: SignupInput{Email: "TAKEN@example.com", Password: "StrongPass1", ConfirmPassword: "StrongPass1"}, want: ErrEmailTaken},
	}
	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			if _, err := service.Signup(context.Background(), testCase.input); !errors.Is(err, testCase.want) {
				t.Fatalf("expected %v, got %v", testCase.want, err)
			}
		})
	}
}

func TestSignupWrapsWriteFailure(t *testing.T) {
	service := newTestAuthService(&stubAuthUserRepository{createErr: errors.New("constraint failed")})
	_, err := service.Signup(context.Background(), SignupInput{Email: "a@example.com", Password: "StrongPass1", ConfirmPassword: "StrongPass1"})
	if !errors.Is(err, ErrWriteFailure) {
		t.Fatalf("expected ErrWriteFailure, got %v", err)
	}
}

func TestSignupReportsEmailTakenWhenInsertLosesRace(t *testing.T) {
	conflict := fmt.Errorf("%w: UNIQUE constraint failed", ErrEmailTaken)
	service := newTestAuthService(&stubAuthUserRepository{createErr: conflict})
	_, err := service.Signup(context.Background(), SignupInput{Email: "a@example.com", Password: "StrongPass1", ConfirmPassword: "StrongPass1"})
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
	if errors.Is(err, ErrWriteFailure) {
		t.Fatalf("did not expect a write failure, got %v", err)
	}
}

func TestAuthenticateRejectsBadCredentials(t *testing.T) {
	repo := &stubAuthUserRepository{}
	service := newTestAuthService(repo)
	if _, err := service.Signup(context.Background(), SignupInput{Email: "a@example.com", Password: "StrongPass1", ConfirmPassword: "StrongPass1"}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	if _, err := service.Authenticate(context.Background(), "a@example.com", "WrongPass1"); !errors.Is(err, ErrAuthCredentialsInvalid) {
		t.Fatalf("expected ErrAuthCredentialsInvalid for wrong password, got %v", err)
	}
	if _, err := service.Authenticate(context.Background(), "missing@example.com", "StrongPass1"); !errors.Is(err, ErrAuthCredentialsInvalid) {
		t.Fatalf("expected ErrAuthCredentialsInvalid for unknown email, got %v", err)
	}
}

func TestResetPassword(t *testing.T) {
	repo := &stubAuthUserRepository{}
	service := newTestAuthService(repo)
	if _, err := service.Signup(context.Background(), SignupInput{Email: "a@example.com", Password: "StrongPass1", ConfirmPassword: "StrongPass1"}); err != nil {
		t.Fatalf("signup: %v", err)
	}

	if _, err := service.ResetPassword(context.Background(), "a@example.com", "temporary-pass"); err != nil {
		t.Fatalf("reset: %v", err)
	}
	if _, err := service.Authenticate(context.Background(), "a@example.com", "temporary-pass"); err != nil {
		t.Fatalf("expected new password to work, got %v", err)
	}
	if _, err := service.ResetPassword(context.Background(), "ghost@example.com", "x"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
