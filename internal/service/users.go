package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"quinta/internal/errors"
	"quinta/internal/middleware"
	"quinta/internal/models"
	"quinta/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// UserRepo is the slice of user storage the account services need.
type UserRepo interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id int64) error
}

type UserService struct {
	userRepo   UserRepo
	jwtSecret  string
	jwtTTL     time.Duration
	bcryptCost int
}

func NewUserService(userRepo UserRepo, jwtSecret string, jwtTTL time.Duration, bcryptCost int) *UserService {
	return &UserService{
		userRepo:   userRepo,
		jwtSecret:  jwtSecret,
		jwtTTL:     jwtTTL,
		bcryptCost: bcryptCost,
	}
}

// Register creates a new account. Email is the login identifier and must be
// unique; role defaults to CUSTOMER unless ADMIN is asked for explicitly.
func (s *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("failed to check email: %w", err))
	}
	if existing != nil {
		return nil, errors.Conflict(fmt.Sprintf("user with email %s already exists", email))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("failed to hash password: %w", err))
	}

	role := models.RoleCustomer
	if req.Role == models.RoleAdmin {
		role = models.RoleAdmin
	}

	user := &models.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PhoneNumber:  req.PhoneNumber,
		Role:         role,
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Concurrent registration with the same email loses the race on the
		// unique index.
		if repository.IsUniqueViolation(err, "users_email_key") {
			return nil, errors.Conflict(fmt.Sprintf("user with email %s already exists", email))
		}
		return nil, errors.Internal(fmt.Errorf("failed to create user: %w", err))
	}

	return user, nil
}

// LoginResult carries the issued token alongside its metadata.
type LoginResult struct {
	Token          string
	Role           string
	ExpirationTime time.Time
}

func (s *UserService) Login(ctx context.Context, req *models.LoginRequest) (*LoginResult, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("failed to look up user: %w", err))
	}
	if user == nil || !user.IsActive {
		return nil, errors.NotFound("user not found")
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		return nil, errors.Validation("invalid credentials")
	}

	token, expiresAt, err := middleware.IssueToken(s.jwtSecret, user, s.jwtTTL)
	if err != nil {
		return nil, errors.Internal(err)
	}

	return &LoginResult{
		Token:          token,
		Role:           user.Role,
		ExpirationTime: expiresAt,
	}, nil
}

func (s *UserService) GetAccount(ctx context.Context, userID int64) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("failed to get user: %w", err))
	}
	if user == nil {
		return nil, errors.NotFound("user not found")
	}
	return user, nil
}

// UpdateAccount patches the caller's own account. Nil fields keep their
// current value.
func (s *UserService) UpdateAccount(ctx context.Context, userID int64, req *models.UpdateAccountRequest) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("failed to get user: %w", err))
	}
	if user == nil {
		return nil, errors.NotFound("user not found")
	}

	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != user.Email {
			existing, err := s.userRepo.GetByEmail(ctx, email)
			if err != nil {
				return nil, errors.Internal(fmt.Errorf("failed to check email: %w", err))
			}
			if existing != nil {
				return nil, errors.Conflict(fmt.Sprintf("user with email %s already exists", email))
			}
			user.Email = email
		}
	}
	if req.FirstName != nil {
		user.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		user.LastName = *req.LastName
	}
	if req.PhoneNumber != nil {
		user.PhoneNumber = *req.PhoneNumber
	}
	if req.Password != nil {
		if len(*req.Password) < 6 {
			return nil, errors.Validation("password must be at least 6 characters")
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*req.Password), s.bcryptCost)
		if err != nil {
			return nil, errors.Internal(fmt.Errorf("failed to hash password: %w", err))
		}
		user.PasswordHash = string(hash)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if repository.IsUniqueViolation(err, "users_email_key") {
			return nil, errors.Conflict("email already in use")
		}
		return nil, errors.Internal(fmt.Errorf("failed to update user: %w", err))
	}

	return user, nil
}

func (s *UserService) DeleteAccount(ctx context.Context, userID int64) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return errors.Internal(fmt.Errorf("failed to get user: %w", err))
	}
	if user == nil {
		return errors.NotFound("user not found")
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		if repository.IsForeignKeyViolation(err) {
			return errors.Integrity("user has bookings and cannot be deleted")
		}
		return errors.Internal(fmt.Errorf("failed to delete user: %w", err))
	}
	return nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, errors.Internal(fmt.Errorf("failed to list users: %w", err))
	}
	return users, nil
}
