package services

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/shsharma-work/manhwa-translator/internal/apperr"
	"github.com/shsharma-work/manhwa-translator/internal/models"
	"github.com/shsharma-work/manhwa-translator/internal/security"
)

// AuthService orchestrates register/login/verify and owns the translation
// between users and bearer tokens.
type AuthService struct {
	users     *UserService
	codec     *security.TokenCodec
	accessTTL time.Duration
	log       *zap.Logger
}

func NewAuthService(users *UserService, codec *security.TokenCodec, accessTTL time.Duration, log *zap.Logger) *AuthService {
	return &AuthService{users: users, codec: codec, accessTTL: accessTTL, log: log}
}

// RegisterInput is the registration payload after schema validation.
type RegisterInput struct {
	Email    string
	Username string
	Password string
}

// Register creates a new account and returns its public profile.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (models.Profile, error) {
	user, err := s.users.Register(ctx, in.Email, in.Username, in.Password)
	if err != nil {
		return models.Profile{}, err
	}
	return user.Profile(), nil
}

// Login authenticates the credentials and issues an access token. The error
// for a failed login is deliberately generic: it never reveals whether the
// email exists.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.Token, error) {
	user, err := s.users.Authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.Authentication("invalid email or password")
	}

	signed, err := s.codec.Encode(user.Email, user.UserID, s.accessTTL)
	if err != nil {
		return nil, apperr.Storage("failed to create access token", err)
	}

	s.log.Info("user logged in", zap.String("user_id", user.UserID))
	return &models.Token{
		AccessToken: signed,
		TokenType:   "bearer",
		ExpiresIn:   int(s.accessTTL.Seconds()),
	}, nil
}

// Verify resolves a bearer token to its user. It returns (nil, nil) for any
// invalid, expired or malformed token, for an unknown user id and for an
// inactive account.
func (s *AuthService) Verify(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.codec.Decode(token)
	if err != nil {
		s.log.Debug("token rejected", zap.Error(err))
		return nil, nil
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil || !user.IsActive {
		return nil, nil
	}
	return user, nil
}
