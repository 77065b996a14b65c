package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/shsharma-work/manhwa-translator/internal/apperr"
	"github.com/shsharma-work/manhwa-translator/internal/models"
	"github.com/shsharma-work/manhwa-translator/internal/repository"
	"github.com/shsharma-work/manhwa-translator/internal/security"
	"github.com/shsharma-work/manhwa-translator/internal/store"
)

// UserService owns user lifecycle business logic: registration with
// uniqueness checks, credential verification, profile updates and deletion.
type UserService struct {
	repo   *repository.UserRepository
	hasher *security.PasswordHasher
	policy PasswordPolicy
	log    *zap.Logger
}

func NewUserService(repo *repository.UserRepository, hasher *security.PasswordHasher, policy PasswordPolicy, log *zap.Logger) *UserService {
	return &UserService{repo: repo, hasher: hasher, policy: policy, log: log}
}

// Register validates the input, enforces email/username uniqueness, hashes
// the password and persists a new active, unverified user.
//
// The existence check and the create are two separate store calls; two
// concurrent registrations for the same email can both pass the check. The
// Mongo store's unique indexes turn the loser's create into a conflict.
func (s *UserService) Register(ctx context.Context, email, username, password string) (*models.User, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := s.policy.validate(password); err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("user with this email already exists")
	}

	existing, err = s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperr.Conflict("username already taken")
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return nil, apperr.Storage("failed to hash password", err)
	}

	now := time.Now().UTC()
	user := &models.User{
		UserID:         uuid.NewString(),
		Email:          email,
		Username:       username,
		HashedPassword: hashed,
		CreatedAt:      now,
		UpdatedAt:      now,
		IsActive:       true,
		IsVerified:     false,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user registered",
		zap.String("user_id", user.UserID),
		zap.String("email", user.Email),
	)
	return user, nil
}

// Authenticate verifies email/password and returns the matching active user.
// An unknown email, a wrong password and an inactive account all return
// (nil, nil); callers cannot distinguish the three.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, nil
	}
	if !s.hasher.Verify(password, user.HashedPassword) {
		return nil, nil
	}
	if !user.IsActive {
		return nil, nil
	}
	return user, nil
}

// GetByID returns the user with the given id, or nil if absent.
func (s *UserService) GetByID(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetByID(ctx, id)
}

// ProfileUpdate carries the mutable profile fields; nil means unchanged.
type ProfileUpdate struct {
	Email    *string
	Username *string
}

// Update applies a partial profile update, re-validating and re-checking
// uniqueness for any changed field, and returns the updated user.
func (s *UserService) Update(ctx context.Context, id string, changes ProfileUpdate) (*models.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("user not found")
	}

	fields := store.Document{}
	if changes.Email != nil && *changes.Email != user.Email {
		if err := validateEmail(*changes.Email); err != nil {
			return nil, err
		}
		other, err := s.repo.GetByEmail(ctx, *changes.Email)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, apperr.Conflict("user with this email already exists")
		}
		fields["email"] = *changes.Email
	}
	if changes.Username != nil && *changes.Username != user.Username {
		if err := validateUsername(*changes.Username); err != nil {
			return nil, err
		}
		other, err := s.repo.GetByUsername(ctx, *changes.Username)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, apperr.Conflict("username already taken")
		}
		fields["username"] = *changes.Username
	}

	if len(fields) > 0 {
		if err := s.repo.Update(ctx, id, fields); err != nil {
			return nil, err
		}
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, apperr.NotFound("user not found")
	}
	s.log.Info("user updated", zap.String("user_id", id))
	return updated, nil
}

// Delete removes the user record entirely.
func (s *UserService) Delete(ctx context.Context, id string) error {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return apperr.NotFound("user not found")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("user deleted", zap.String("user_id", id))
	return nil
}

// List returns up to limit users.
func (s *UserService) List(ctx context.Context, limit int64) ([]*models.User, error) {
	return s.repo.List(ctx, limit)
}
