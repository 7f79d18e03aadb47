// Package repositories contains the database access layer. Each repository
// wraps a *gorm.DB handed in at construction time; WithTx rebinds a
// repository to an open transaction so services can scope several mutations
// into one atomic unit.
package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/app/models"
	"github.com/EdwardBKTay/online-shopping-platform-backend-clone/pkg/apperr"
)

// UserRepository handles database operations for User and EmailVerification.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// WithTx returns a copy of the repository bound to tx.
func (r *UserRepository) WithTx(tx *gorm.DB) *UserRepository {
	return &UserRepository{db: tx}
}

// FindByUsername looks up a user by their unique username.
func (r *UserRepository) FindByUsername(username string) (models.User, error) {
	var user models.User
	err := r.db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user, apperr.New(apperr.ErrNotFound, "User not found")
	}
	return user, err
}

// FindByEmail looks up a user by their email address.
func (r *UserRepository) FindByEmail(email string) (models.User, error) {
	var user models.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user, apperr.New(apperr.ErrNotFound, "User not found")
	}
	return user, err
}

// FindByID looks up a user by primary key.
func (r *UserRepository) FindByID(id uint) (models.User, error) {
	var user models.User
	err := r.db.First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return user, apperr.New(apperr.ErrNotFound, "User not found")
	}
	return user, err
}

// UsernameOrEmailTaken reports whether another user already holds the
// given username or email.
func (r *UserRepository) UsernameOrEmailTaken(username, email string) (bool, error) {
	var count int64
	err := r.db.Model(&models.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	return count > 0, err
}

// Create persists a new user record.
func (r *UserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// Update persists changes to an existing user.
func (r *UserRepository) Update(user *models.User) error {
	return r.db.Save(user).Error
}

// ------------------- Email verification -------------------

// UpsertVerification replaces any pending verification row for the email.
func (r *UserRepository) UpsertVerification(v *models.EmailVerification) error {
	if err := r.db.Where("email = ?", v.Email).
		Delete(&models.EmailVerification{}).Error; err != nil {
		return err
	}
	return r.db.Create(v).Error
}

// FindVerificationByToken returns the pending verification for token.
func (r *UserRepository) FindVerificationByToken(token string) (models.EmailVerification, error) {
	var v models.EmailVerification
	err := r.db.Where("token = ?", token).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return v, apperr.New(apperr.ErrNotFound, "Verification token not found")
	}
	return v, err
}

// DeleteVerification removes a consumed verification row.
func (r *UserRepository) DeleteVerification(id uint) error {
	return r.db.Delete(&models.EmailVerification{}, id).Error
}

// DeleteExpiredVerifications sweeps rows whose expiry has passed and returns
// the number removed.
func (r *UserRepository) DeleteExpiredVerifications() (int64, error) {
	res := r.db.Where("expires_at < CURRENT_TIMESTAMP").
		Delete(&models.EmailVerification{})
	return res.RowsAffected, res.Error
}
