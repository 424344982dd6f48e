package service

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/kejiahp/QRcode-event-manager/config"
	"github.com/kejiahp/QRcode-event-manager/internal/model"
	"github.com/kejiahp/QRcode-event-manager/pkg/security"
	"github.com/kejiahp/QRcode-event-manager/pkg/util"
	"github.com/kejiahp/QRcode-event-manager/pkg/validators"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrResetMailFailure = newErr(KindDependencyFailure, "failed to send the password reset email, please try again")

type SignUpInput struct {
	Email    string
	Password string
}

type LoginInput struct {
	Email    string
	Password string
}

// UserService owns user records and everything related to credentials
type UserService struct {
	db     *gorm.DB
	hasher *security.ArgonHash
	tokens *security.TokenIssuer
	mailer Mailer
	cfg    *config.Config
}

func NewUserService(db *gorm.DB, hasher *security.ArgonHash, tokens *security.TokenIssuer, mailer Mailer, cfg *config.Config) *UserService {
	return &UserService{
		db:     db,
		hasher: hasher,
		tokens: tokens,
		mailer: mailer,
		cfg:    cfg,
	}
}

func (s *UserService) SignUp(ctx context.Context, in SignUpInput) (*model.User, error) {
	email := validators.NormalizeEmail(in.Email)

	if err := validators.EmailValidator(email); err != nil {
		return nil, ValidationError(err)
	}

	if err := validators.PasswordValidator(in.Password); err != nil {
		return nil, ValidationError(err)
	}

	var found int64
	err := s.db.WithContext(ctx).
		Model(model.User{}).
		Where("email = ?", email).
		Count(&found).
		Error
	if err != nil {
		return nil, fmt.Errorf("failed to check if user is registered, %w", err)
	}

	if found > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password, %w", err)
	}

	user := &model.User{
		ID:             util.RandStr(16),
		Email:          email,
		HashedPassword: hash,
		IsActive:       s.cfg.Auth.ActivateOnSignup,
		CreatedAt:      time.Now(),
	}

	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}

		return nil, fmt.Errorf("failed to create user, %w", err)
	}

	return user, nil
}

// Login checks the credentials and returns the user with a freshly signed
// session token
func (s *UserService) Login(ctx context.Context, in LoginInput) (*model.User, string, error) {
	email := validators.NormalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return nil, "", ErrInvalidCredentials
	}

	var user model.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrInvalidCredentials
		}

		return nil, "", fmt.Errorf("failed to fetch user, %w", err)
	}

	ok, err := s.hasher.Verify(in.Password, user.HashedPassword)
	if err != nil {
		return nil, "", fmt.Errorf("failed to verify password, %w", err)
	}

	if !ok {
		return nil, "", ErrInvalidCredentials
	}

	if !user.IsActive {
		return nil, "", ErrUserInactive
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate auth token, %w", err)
	}

	return &user, token, nil
}

// Authenticate resolves a session token into an active user
func (s *UserService) Authenticate(ctx context.Context, token string) (*model.User, error) {
	if token == "" {
		return nil, ErrMissingToken
	}

	userID, err := s.tokens.Verify(token)
	if err != nil {
		zap.L().Debug("Rejected session token", zap.Error(err))
		return nil, ErrInvalidToken
	}

	user, err := s.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	return user, nil
}

func (s *UserService) Get(ctx context.Context, id string) (*model.User, error) {
	var user model.User

	err := s.db.WithContext(ctx).Where("id = ?", id).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}

		return nil, fmt.Errorf("failed to fetch user, %w", err)
	}

	return &user, nil
}

// RequestPasswordReset stores a new reset key for the user and mails a link
// containing it. Unknown addresses are ignored so the endpoint can't be used
// to find out who is registered
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) error {
	email = validators.NormalizeEmail(email)
	if err := validators.EmailValidator(email); err != nil {
		return ValidationError(err)
	}

	key, err := security.MakeResetKey(s.cfg.Auth.ResetKeyTTL)
	if err != nil {
		return fmt.Errorf("failed to generate reset key, %w", err)
	}

	r := s.db.WithContext(ctx).
		Model(model.User{}).
		Where("email = ?", email).
		Updates(map[string]any{
			"password_reset_key":        key.Key,
			"password_reset_expires_at": key.ExpiresAt,
		})
	if r.Error != nil {
		return fmt.Errorf("failed to store reset key, %w", r.Error)
	}

	if r.RowsAffected == 0 {
		zap.L().Debug("Password reset requested for unknown email")
		return nil
	}

	link := s.cfg.Host.PublicURL + "/auth/password-reset?" + url.Values{"key": {key.Key}}.Encode()

	subject, html, err := renderPasswordResetMail(link, s.cfg.Auth.ResetKeyTTL)
	if err != nil {
		return err
	}

	if err := s.mailer.Send(email, subject, html); err != nil {
		return fmt.Errorf("%w, %w", ErrResetMailFailure, err)
	}

	return nil
}

// ResetPassword replaces the password of the user owning key. The key is
// consumed in the same statement so it can't be used twice
func (s *UserService) ResetPassword(ctx context.Context, key, password string) error {
	if key == "" {
		return ErrResetKeyInvalid
	}

	if err := validators.PasswordValidator(password); err != nil {
		return ValidationError(err)
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password, %w", err)
	}

	r := s.db.WithContext(ctx).
		Model(model.User{}).
		Where("password_reset_key = ? AND password_reset_expires_at > ?", key, time.Now()).
		Updates(map[string]any{
			"hashed_password":           hash,
			"password_reset_key":        nil,
			"password_reset_expires_at": nil,
		})
	if r.Error != nil {
		return fmt.Errorf("failed to update password, %w", r.Error)
	}

	if r.RowsAffected == 0 {
		return ErrResetKeyInvalid
	}

	return nil
}
