package domain

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	// ErrUserNotFound is returned when a user cannot be located.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken rejects a registration for an already-registered email.
	ErrEmailTaken = errors.New("email already registered")
)

// User is a registered account that owns activities.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRepository captures persistence operations for users.
type UserRepository interface {
	CreateUser(ctx context.Context, user User) error
	GetUser(ctx context.Context, userID string) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UserExists(ctx context.Context, userID string) (bool, error)
}

// UserService handles registration and profile lookups, and acts as the
// user-existence validator for the activity write path.
type UserService struct {
	repo       UserRepository
	bcryptCost int
}

// NewUserService constructs a UserService.
func NewUserService(repo UserRepository, bcryptCost int) *UserService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &UserService{repo: repo, bcryptCost: bcryptCost}
}

// RegisterInput captures the registration payload.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// Register creates a new user after checking email uniqueness. The password
// is stored only as a bcrypt hash.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*User, error) {
	taken, err := s.repo.EmailExists(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	user := User{
		ID:           uuid.NewString(),
		Email:        input.Email,
		PasswordHash: string(hash),
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return &user, nil
}

// GetProfile fetches a user by ID.
func (s *UserService) GetProfile(ctx context.Context, userID string) (*User, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// ExistsByID reports whether the user identifier refers to a known user.
func (s *UserService) ExistsByID(ctx context.Context, userID string) (bool, error) {
	return s.repo.UserExists(ctx, userID)
}
