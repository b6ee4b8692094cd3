package service

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/MKhiriev/ai-pills/internal/config"
	"github.com/MKhiriev/ai-pills/internal/logger"
	"github.com/MKhiriev/ai-pills/internal/store"
	"github.com/MKhiriev/ai-pills/internal/utils"
	"github.com/MKhiriev/ai-pills/models"
)

// authService is the concrete implementation of AuthService.
// It keeps bcrypt hashes in the UserRepository and issues HS256 tokens
// whose type claim separates sessions from password resets.
type authService struct {
	userRepository store.UserRepository

	hasher *utils.PasswordHasher
	signer *utils.TokenSigner

	accessTokenTTL    time.Duration
	resetTokenTTL     time.Duration
	passwordMinLength int
	exposeResetTokens bool

	now    func() time.Time
	logger *logger.Logger
}

// NewAuthService constructs an AuthService from the auth configuration.
//
// It fails with utils.ErrHashing when the bcrypt self-test fails; the
// server must not start in that case.
func NewAuthService(userRepository store.UserRepository, cfg config.StructuredConfig, logger *logger.Logger) (AuthService, error) {
	hasher, err := utils.NewPasswordHasher(cfg.Auth.BcryptCost)
	if err != nil {
		logger.Err(err).Str("func", "NewAuthService").Msg("password hasher self-test failed")
		return nil, err
	}

	signer, err := utils.NewTokenSigner(cfg.Auth.TokenSignKey, cfg.Auth.TokenIssuer)
	if err != nil {
		return nil, fmt.Errorf("error creating token signer: %w", err)
	}

	return &authService{
		userRepository:    userRepository,
		hasher:            hasher,
		signer:            signer,
		accessTokenTTL:    cfg.Auth.AccessTokenTTL(),
		resetTokenTTL:     cfg.Auth.ResetTokenTTL.Std(),
		passwordMinLength: cfg.Auth.PasswordMinLength,
		exposeResetTokens: cfg.App.Environment != config.EnvProduction,
		now:               time.Now,
		logger:            logger,
	}, nil
}

// Register creates a developer account.
//
// The email is lower-cased before it is checked and stored. Duplicate emails
// and usernames come back as store.ErrEmailAlreadyExists and
// store.ErrUsernameAlreadyExists; nothing is written in either case.
func (a *authService) Register(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	log := logger.FromContext(ctx)

	email, err := normalizeEmail(req.Email)
	if err != nil {
		return models.User{}, err
	}
	if err := a.checkPassword(req.Password); err != nil {
		return models.User{}, err
	}
	username := trimmedOrNil(req.Username)
	phone := trimmedOrNil(req.Phone)

	hash, err := a.hasher.Hash(req.Password)
	if err != nil {
		log.Err(err).Str("func", "*authService.Register").Msg("error hashing password")
		return models.User{}, fmt.Errorf("error hashing password: %w", err)
	}

	user, err := a.userRepository.CreateUser(ctx, models.User{
		Email:        email,
		Username:     username,
		Phone:        phone,
		Role:         models.RoleDeveloper,
		IsActive:     true,
		PasswordHash: hash,
	})
	if err != nil {
		log.Err(err).Str("func", "*authService.Register").Str("email", email).Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	log.Info().Str("func", "*authService.Register").Str("user_id", user.ID).Msg("user registered")
	return user, nil
}

// Login authenticates by email (when the login contains '@') or by
// username. An unknown login and a wrong password both yield
// ErrInvalidCredentials.
func (a *authService) Login(ctx context.Context, req models.LoginRequest) (models.User, models.Token, error) {
	log := logger.FromContext(ctx)

	login := strings.TrimSpace(req.Login)
	if login == "" || req.Password == "" {
		return models.User{}, models.Token{}, ErrInvalidCredentials
	}

	var (
		user models.User
		err  error
	)
	if strings.Contains(login, "@") {
		user, err = a.userRepository.FindUserByEmail(ctx, strings.ToLower(login))
	} else {
		user, err = a.userRepository.FindUserByUsername(ctx, login)
	}
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return models.User{}, models.Token{}, ErrInvalidCredentials
		}
		log.Err(err).Str("func", "*authService.Login").Msg("user search by login failed")
		return models.User{}, models.Token{}, fmt.Errorf("user search by login failed: %w", err)
	}

	if !a.hasher.Verify(req.Password, user.PasswordHash) {
		log.Info().Str("func", "*authService.Login").Str("user_id", user.ID).Msg("wrong password")
		return models.User{}, models.Token{}, ErrInvalidCredentials
	}
	if !user.IsActive {
		return models.User{}, models.Token{}, ErrInactiveUser
	}

	token, err := a.issue(user, models.TokenTypeAccess, a.accessTokenTTL)
	if err != nil {
		log.Err(err).Str("func", "*authService.Login").Msg("error issuing access token")
		return models.User{}, models.Token{}, err
	}

	loginAt := a.now().UTC()
	if err := a.userRepository.UpdateLastLogin(ctx, user.ID, loginAt); err != nil {
		// the session is valid even if the timestamp could not be saved
		log.Warn().Err(err).Str("func", "*authService.Login").Str("user_id", user.ID).Msg("error updating last login")
	} else {
		user.LastLoginAt = &loginAt
	}

	return user, token, nil
}

// Authenticate verifies a session token and loads its active user. Reset
// tokens are rejected here.
func (a *authService) Authenticate(ctx context.Context, tokenString string) (models.User, error) {
	claims := a.signer.Verify(tokenString)
	if claims == nil || claims.Type != models.TokenTypeAccess {
		return models.User{}, ErrTokenIsExpiredOrInvalid
	}

	user, err := a.userRepository.FindUserByID(ctx, claims.UserID())
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return models.User{}, ErrTokenIsExpiredOrInvalid
		}
		return models.User{}, fmt.Errorf("error loading token subject: %w", err)
	}
	if !user.IsActive {
		return models.User{}, ErrInactiveUser
	}

	return user, nil
}

func (a *authService) Me(ctx context.Context, userID string) (models.User, error) {
	return a.userRepository.FindUserByID(ctx, userID)
}

func (a *authService) ForgotPassword(ctx context.Context, email string) (string, error) {
	log := logger.FromContext(ctx)

	normalized, err := normalizeEmail(email)
	if err != nil {
		return "", err
	}

	user, err := a.userRepository.FindUserByEmail(ctx, normalized)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug().Str("func", "*authService.ForgotPassword").Msg("reset requested for unknown email")
			return "", nil
		}
		return "", fmt.Errorf("user search by email failed: %w", err)
	}
	if !user.IsActive {
		return "", nil
	}

	token, err := a.issue(user, models.TokenTypePasswordReset, a.resetTokenTTL)
	if err != nil {
		log.Err(err).Str("func", "*authService.ForgotPassword").Msg("error issuing reset token")
		return "", err
	}

	// there is no mailer: the token goes to the debug log
	log.Debug().
		Str("func", "*authService.ForgotPassword").
		Str("user_id", user.ID).
		Str("reset_token", token.AccessToken).
		Msg("password reset token issued")

	if !a.exposeResetTokens {
		return "", nil
	}
	return token.AccessToken, nil
}

// ResetPassword accepts only password-reset tokens.
func (a *authService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	log := logger.FromContext(ctx)

	claims := a.signer.Verify(req.Token)
	if claims == nil || claims.Type != models.TokenTypePasswordReset {
		return ErrTokenIsExpiredOrInvalid
	}
	if err := a.checkPassword(req.NewPassword); err != nil {
		return err
	}

	hash, err := a.hasher.Hash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	if err := a.userRepository.UpdatePassword(ctx, claims.UserID(), hash); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return ErrTokenIsExpiredOrInvalid
		}
		log.Err(err).Str("func", "*authService.ResetPassword").Msg("error updating password")
		return fmt.Errorf("error updating password: %w", err)
	}

	log.Info().Str("func", "*authService.ResetPassword").Str("user_id", claims.UserID()).Msg("password reset")
	return nil
}

// Logout is advisory. Tokens stay valid until they expire.
func (a *authService) Logout(ctx context.Context, user models.User) {
	logger.FromContext(ctx).Info().
		Str("func", "*authService.Logout").
		Str("user_id", user.ID).
		Msg("user logged out")
}

func (a *authService) issue(user models.User, tokenType models.TokenType, ttl time.Duration) (models.Token, error) {
	claims := models.Claims{
		Email: user.Email,
		Role:  user.Role,
		Type:  tokenType,
	}
	claims.Subject = user.ID

	signed, expiresAt, err := a.signer.Issue(claims, ttl)
	if err != nil {
		return models.Token{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return models.Token{
		AccessToken: signed,
		TokenType:   "bearer",
		ExpiresIn:   int64(ttl / time.Second),
		ExpiresAt:   expiresAt,
	}, nil
}

func (a *authService) checkPassword(password string) error {
	if utf8.RuneCountInString(password) < a.passwordMinLength {
		return ErrPasswordTooShort
	}
	if len(password) > utils.MaxPasswordBytes {
		return ErrPasswordTooLong
	}
	return nil
}

func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", ErrInvalidEmail
	}
	return email, nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
