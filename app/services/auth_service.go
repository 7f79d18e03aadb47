package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/jobs"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/models"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/repositories"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/apperr"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/auth"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/crypt"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/logger"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/middleware"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/queue"
)

// verificationTTL is how long an email verification link stays valid.
const verificationTTL = 48 * time.Hour

// TokenPair is what a successful login or refresh returns.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// AuthService owns registration, login/logout, token refresh, and email
// verification. A token is only valid while it equals the copy stored on the
// user row, so clearing that copy revokes every issued duplicate at once.
type AuthService struct {
	users *repositories.UserRepository
}

func NewAuthService(users *repositories.UserRepository) *AuthService {
	return &AuthService{users: users}
}

// Register creates a user account and queues a verification email.
func (s *AuthService) Register(username, email, password string, isVendor bool) (models.User, error) {
	taken, err := s.users.UsernameOrEmailTaken(username, email)
	if err != nil {
		return models.User{}, err
	}
	if taken {
		return models.User{}, apperr.New(apperr.ErrConflict, "Username or email already registered")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return models.User{}, err
	}

	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hash,
		IsVendor:     isVendor,
	}
	if err := s.users.Create(&user); err != nil {
		return models.User{}, err
	}

	if err := s.sendVerification(user.Email); err != nil {
		// Registration stands; the user can request a fresh link.
		logger.Warn("auth: could not queue verification email", "email", user.Email, "error", err)
	}

	logger.Info("auth: user registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// sendVerification stores a fresh verification token and queues the email.
func (s *AuthService) sendVerification(email string) error {
	v := models.EmailVerification{
		Email:     email,
		Token:     uuid.NewString(),
		ExpiresAt: time.Now().Add(verificationTTL),
	}
	if err := s.users.UpsertVerification(&v); err != nil {
		return err
	}
	// The link carries a sealed copy so the raw token never travels in
	// cleartext; only the stored copy is ever compared.
	sealed, err := crypt.Encrypt(v.Token)
	if err != nil {
		return err
	}
	return queue.Dispatch(&jobs.VerificationEmailJob{Email: email, Token: sealed})
}

// ResendVerification issues a new link for an unverified account.
func (s *AuthService) ResendVerification(email string) error {
	user, err := s.users.FindByEmail(email)
	if err != nil {
		return err
	}
	if user.IsEmailVerified {
		return apperr.New(apperr.ErrConflict, "Email is already verified")
	}
	return s.sendVerification(user.Email)
}

// VerifyEmail consumes a sealed verification token and flips the user's flag.
func (s *AuthService) VerifyEmail(sealed string) error {
	token, err := crypt.Decrypt(sealed)
	if err != nil {
		return apperr.New(apperr.ErrUnauthorized, "Invalid verification token")
	}
	v, err := s.users.FindVerificationByToken(token)
	if err != nil {
		return err
	}
	if time.Now().After(v.ExpiresAt) {
		return apperr.New(apperr.ErrUnauthorized, "Verification token has expired")
	}

	user, err := s.users.FindByEmail(v.Email)
	if err != nil {
		return err
	}
	user.IsEmailVerified = true
	if err := s.users.Update(&user); err != nil {
		return err
	}
	if err := s.users.DeleteVerification(v.ID); err != nil {
		return err
	}

	if err := queue.Dispatch(&jobs.WelcomeEmailJob{Email: user.Email, Username: user.Username}); err != nil {
		logger.Warn("auth: could not queue welcome email", "email", user.Email, "error", err)
	}
	return nil
}

// Login verifies credentials and issues a fresh token pair, storing both on
// the user row and stamping last_signed_in.
func (s *AuthService) Login(username, password string) (models.User, TokenPair, error) {
	user, err := s.users.FindByUsername(username)
	if err != nil {
		// Do not leak whether the username exists.
		return models.User{}, TokenPair{}, apperr.New(apperr.ErrUnauthorized, "Invalid username or password")
	}
	if !auth.CheckPassword(user.PasswordHash, password) {
		return models.User{}, TokenPair{}, apperr.New(apperr.ErrUnauthorized, "Invalid username or password")
	}

	pair, err := s.issueTokens(&user)
	if err != nil {
		return models.User{}, TokenPair{}, err
	}

	logger.Info("auth: login", "user_id", user.ID, "username", user.Username)
	return user, pair, nil
}

// Refresh rotates the token pair. The presented refresh token must both
// verify and equal the stored copy; anything else is Unauthorized.
func (s *AuthService) Refresh(refreshToken string) (TokenPair, error) {
	claims, err := auth.ValidateRefreshToken(refreshToken)
	if err != nil {
		return TokenPair{}, apperr.New(apperr.ErrUnauthorized, "Invalid refresh token")
	}

	user, err := s.users.FindByUsername(claims.Username)
	if err != nil {
		return TokenPair{}, apperr.New(apperr.ErrUnauthorized, "Invalid refresh token")
	}
	if user.RefreshToken == "" || user.RefreshToken != refreshToken {
		return TokenPair{}, apperr.New(apperr.ErrUnauthorized, "Refresh token has been revoked")
	}

	return s.issueTokens(&user)
}

// Logout clears both stored tokens, revoking every copy in circulation.
func (s *AuthService) Logout(userID uint) error {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return err
	}
	user.AuthToken = ""
	user.RefreshToken = ""
	return s.users.Update(&user)
}

func (s *AuthService) issueTokens(user *models.User) (TokenPair, error) {
	access, err := auth.GenerateAccessToken(user.Username, user.Email, user.IsVendor, user.IsSuperuser)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := auth.GenerateRefreshToken(user.Username, user.Email, user.IsVendor, user.IsSuperuser)
	if err != nil {
		return TokenPair{}, err
	}

	now := time.Now()
	user.AuthToken = access
	user.RefreshToken = refresh
	user.LastSignedIn = &now
	if err := s.users.Update(user); err != nil {
		return TokenPair{}, err
	}

	return TokenPair{AccessToken: access, RefreshToken: refresh, TokenType: "bearer"}, nil
}

// ResolveIdentity is the middleware.UserResolver: after signature and expiry
// checks, the presented token must equal the stored active token.
func (s *AuthService) ResolveIdentity(_ context.Context, claims *auth.Claims, rawToken string) (middleware.Identity, error) {
	user, err := s.users.FindByUsername(claims.Username)
	if err != nil {
		return middleware.Identity{}, apperr.New(apperr.ErrUnauthorized, "Unknown user")
	}
	if user.AuthToken == "" || user.AuthToken != rawToken {
		return middleware.Identity{}, apperr.New(apperr.ErrUnauthorized, "Token has been revoked")
	}

	return middleware.Identity{
		UserID:      user.ID,
		Username:    user.Username,
		Email:       user.Email,
		IsVendor:    user.IsVendor,
		IsSuperuser: user.IsSuperuser,
	}, nil
}

// Me returns the full user record for an authenticated identity.
func (s *AuthService) Me(userID uint) (models.User, error) {
	return s.users.FindByID(userID)
}
