package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/samber/lo"

	"github.com/solcafe/server/pkg/internal/cache"
	"github.com/solcafe/server/pkg/internal/database"
	"github.com/solcafe/server/pkg/internal/models"
	"github.com/solcafe/server/pkg/internal/security"
)

func GetAccountWithID(id uint) (models.Account, error) {
	var account models.Account
	if err := database.C.Where("id = ?", id).First(&account).Error; err != nil {
		return account, fmt.Errorf("unable to get account by id: %v", err)
	}
	return account, nil
}

func SignUp(email, password string) (models.Account, error) {
	var account models.Account

	if len(email) == 0 {
		return account, NewValidationError("email", "cannot be empty")
	}
	if len(password) < 8 {
		return account, NewValidationError("password", "must be at least 8 characters")
	}

	var count int64
	if err := database.C.Model(&models.Account{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return account, fmt.Errorf("unable to count existing accounts: %v", err)
	}
	if count > 0 {
		return account, fmt.Errorf("email is already registered")
	}

	hashed, err := security.HashPassword(password)
	if err != nil {
		return account, fmt.Errorf("unable to hash password: %v", err)
	}

	account = models.Account{
		Email:             email,
		Password:          hashed,
		VerificationToken: lo.ToPtr(uuid.NewString()),
	}

	if err := database.C.Create(&account).Error; err != nil {
		return account, err
	}

	// Mail dispatch is outside this service, the token is handed to it via log
	log.Info().Str("email", email).Str("token", *account.VerificationToken).
		Msg("Issued email verification token.")

	return account, nil
}

func SignIn(email, password string) (models.Account, string, error) {
	var account models.Account
	if err := database.C.Where("email = ?", email).First(&account).Error; err != nil {
		return account, "", fmt.Errorf("invalid email or password")
	}

	if !security.VerifyPassword(account.Password, password) {
		return account, "", fmt.Errorf("invalid email or password")
	}

	token, err := security.IssueToken(account.ID)
	if err != nil {
		return account, "", fmt.Errorf("unable to issue token: %v", err)
	}

	return account, token, nil
}

// SignOut revokes the presented token until its natural expiry. Without
// redis this degrades to a warning; the token then simply ages out.
func SignOut(tokenString string) error {
	claims, err := security.ParseToken(tokenString)
	if err != nil {
		return fmt.Errorf("unable to parse token: %v", err)
	}

	if cache.R == nil {
		log.Warn().Msg("Sign out requested but redis is unavailable, token was not revoked.")
		return nil
	}

	ttl := time.Until(claims.ExpiresAt.Time)
	if ttl <= 0 {
		return nil
	}

	return cache.R.Set(context.Background(), "token-revoked#"+claims.ID, 1, ttl).Err()
}

func IsTokenRevoked(jti string) bool {
	if cache.R == nil {
		return false
	}

	exists, err := cache.R.Exists(context.Background(), "token-revoked#"+jti).Result()
	if err != nil {
		log.Warn().Err(err).Msg("An error occurred when checking token revocation.")
		return false
	}
	return exists > 0
}

func VerifyEmail(token string) (models.Account, error) {
	var account models.Account
	if err := database.C.Where("verification_token = ?", token).First(&account).Error; err != nil {
		return account, fmt.Errorf("invalid verification token")
	}

	account.EmailVerified = true
	account.VerificationToken = nil
	if err := database.C.Save(&account).Error; err != nil {
		return account, err
	}

	return account, nil
}

const resetTokenLifetime = 30 * time.Minute

func RequestPasswordReset(email string) error {
	var account models.Account
	if err := database.C.Where("email = ?", email).First(&account).Error; err != nil {
		// Do not reveal whether the email exists
		return nil
	}

	account.ResetToken = lo.ToPtr(uuid.NewString())
	account.ResetExpiredAt = lo.ToPtr(time.Now().Add(resetTokenLifetime))
	if err := database.C.Save(&account).Error; err != nil {
		return err
	}

	log.Info().Str("email", email).Str("token", *account.ResetToken).
		Msg("Issued password reset token.")

	return nil
}

func ConfirmPasswordReset(token, password string) error {
	if len(password) < 8 {
		return NewValidationError("password", "must be at least 8 characters")
	}

	var account models.Account
	if err := database.C.Where("reset_token = ?", token).First(&account).Error; err != nil {
		return fmt.Errorf("invalid reset token")
	}
	if account.ResetExpiredAt == nil || account.ResetExpiredAt.Before(time.Now()) {
		return fmt.Errorf("reset token has expired")
	}

	hashed, err := security.HashPassword(password)
	if err != nil {
		return fmt.Errorf("unable to hash password: %v", err)
	}

	account.Password = hashed
	account.ResetToken = nil
	account.ResetExpiredAt = nil

	return database.C.Save(&account).Error
}
