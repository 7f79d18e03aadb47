package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/models"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/repositories"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/apperr"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/auth"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/crypt"
)

func newAuthService(db *gorm.DB) *AuthService {
	return NewAuthService(repositories.NewUserRepository(db))
}

func TestRegisterAndLogin(t *testing.T) {
	db := openTestDB(t)
	svc := newAuthService(db)

	user, err := svc.Register("alice", "alice@example.com", "s3cret-pw", false)
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.False(t, user.IsVendor)
	assert.False(t, user.IsEmailVerified)
	assert.NotEqual(t, "s3cret-pw", user.PasswordHash)

	loggedIn, pair, err := svc.Login("alice", "s3cret-pw")
	require.NoError(t, err)
	assert.Equal(t, "bearer", pair.TokenType)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	require.NotNil(t, loggedIn.LastSignedIn)

	// Both tokens are persisted on the row.
	stored, err := svc.Me(user.ID)
	require.NoError(t, err)
	assert.Equal(t, pair.AccessToken, stored.AuthToken)
	assert.Equal(t, pair.RefreshToken, stored.RefreshToken)
}

func TestRegisterDuplicate(t *testing.T) {
	db := openTestDB(t)
	svc := newAuthService(db)

	_, err := svc.Register("alice", "alice@example.com", "pw", false)
	require.NoError(t, err)

	_, err = svc.Register("alice", "other@example.com", "pw", false)
	assert.True(t, errors.Is(err, apperr.ErrConflict))

	_, err = svc.Register("bob", "alice@example.com", "pw", false)
	assert.True(t, errors.Is(err, apperr.ErrConflict))
}

func TestLoginFailures(t *testing.T) {
	db := openTestDB(t)
	svc := newAuthService(db)

	_, err := svc.Register("alice", "alice@example.com", "correct-pw", false)
	require.NoError(t, err)

	// Wrong password and unknown username produce the same message.
	_, _, err = svc.Login("alice", "wrong-pw")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))
	wrongPassword := err.Error()

	_, _, err = svc.Login("nobody", "whatever")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))
	assert.Equal(t, wrongPassword, err.Error())
}

func TestResolveIdentityRequiresStoredToken(t *testing.T) {
	db := openTestDB(t)
	svc := newAuthService(db)

	user, err := svc.Register("alice", "alice@example.com", "pw", true)
	require.NoError(t, err)

	_, pair, err := svc.Login("alice", "pw")
	require.NoError(t, err)

	claims, err := auth.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	id, err := svc.ResolveIdentity(context.Background(), claims, pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id.UserID)
	assert.True(t, id.IsVendor)

	// A structurally valid token that is not the stored one is rejected.
	stray, err := auth.GenerateAccessToken("alice", "alice@example.com", true, false)
	require.NoError(t, err)
	_, err = svc.ResolveIdentity(context.Background(), claims, stray)
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))
}

func TestLogoutRevokesTokens(t *testing.T) {
	db := openTestDB(t)
	svc := newAuthService(db)

	user, err := svc.Register("alice", "alice@example.com", "pw", false)
	require.NoError(t, err)

	_, pair, err := svc.Login("alice", "pw")
	require.NoError(t, err)

	claims, err := auth.ValidateAccessToken(pair.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(user.ID))

	// The signature still verifies but the stored copy is gone.
	_, err = svc.ResolveIdentity(context.Background(), claims, pair.AccessToken)
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))

	_, err = svc.Refresh(pair.RefreshToken)
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))
}

func TestRefreshRotatesPair(t *testing.T) {
	db := openTestDB(t)
	svc := newAuthService(db)

	_, err := svc.Register("alice", "alice@example.com", "pw", false)
	require.NoError(t, err)

	_, first, err := svc.Login("alice", "pw")
	require.NoError(t, err)

	second, err := svc.Refresh(first.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, second.AccessToken)
	assert.NotEmpty(t, second.RefreshToken)

	// The superseded refresh token no longer matches the stored copy.
	_, err = svc.Refresh(first.RefreshToken)
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))

	// The rotated one works.
	_, err = svc.Refresh(second.RefreshToken)
	require.NoError(t, err)
}

func TestRefreshRejectsGarbage(t *testing.T) {
	db := openTestDB(t)
	svc := newAuthService(db)

	_, err := svc.Refresh("not-a-jwt")
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))
}

func TestVerifyEmail(t *testing.T) {
	db := openTestDB(t)
	svc := newAuthService(db)

	user, err := svc.Register("alice", "alice@example.com", "pw", false)
	require.NoError(t, err)

	var v models.EmailVerification
	require.NoError(t, db.Where("email = ?", user.Email).First(&v).Error)
	assert.True(t, v.ExpiresAt.After(time.Now()))

	// The raw stored token is never accepted directly.
	err = svc.VerifyEmail(v.Token)
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))

	require.NoError(t, svc.VerifyEmail(sealToken(t, v.Token)))

	verified, err := svc.Me(user.ID)
	require.NoError(t, err)
	assert.True(t, verified.IsEmailVerified)

	// The token is single-use.
	err = svc.VerifyEmail(sealToken(t, v.Token))
	assert.True(t, errors.Is(err, apperr.ErrNotFound))
}

func sealToken(t *testing.T, raw string) string {
	t.Helper()
	sealed, err := crypt.Encrypt(raw)
	require.NoError(t, err)
	return sealed
}

func TestVerifyEmailExpiredToken(t *testing.T) {
	db := openTestDB(t)
	svc := newAuthService(db)

	user, err := svc.Register("alice", "alice@example.com", "pw", false)
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.EmailVerification{}).
		Where("email = ?", user.Email).
		Update("expires_at", time.Now().Add(-time.Hour)).Error)

	var v models.EmailVerification
	require.NoError(t, db.Where("email = ?", user.Email).First(&v).Error)

	err = svc.VerifyEmail(sealToken(t, v.Token))
	assert.True(t, errors.Is(err, apperr.ErrUnauthorized))
}

func TestResendVerificationReplacesToken(t *testing.T) {
	db := openTestDB(t)
	svc := newAuthService(db)

	user, err := svc.Register("alice", "alice@example.com", "pw", false)
	require.NoError(t, err)

	var before models.EmailVerification
	require.NoError(t, db.Where("email = ?", user.Email).First(&before).Error)

	require.NoError(t, svc.ResendVerification(user.Email))

	var after models.EmailVerification
	require.NoError(t, db.Where("email = ?", user.Email).First(&after).Error)
	assert.NotEqual(t, before.Token, after.Token)

	var count int64
	require.NoError(t, db.Model(&models.EmailVerification{}).Where("email = ?", user.Email).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// Once verified, a resend is a conflict.
	require.NoError(t, svc.VerifyEmail(sealToken(t, after.Token)))
	err = svc.ResendVerification(user.Email)
	assert.True(t, errors.Is(err, apperr.ErrConflict))
}
