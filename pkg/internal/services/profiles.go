package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/marshaler"
	"github.com/eko/gocache/lib/v4/store"
	"gorm.io/gorm"

	localCache "github.com/solcafe/server/pkg/internal/cache"
	"github.com/solcafe/server/pkg/internal/database"
	"github.com/solcafe/server/pkg/internal/models"
)

func GetProfile(id uint) (models.Profile, error) {
	var profile models.Profile
	if err := database.C.Where("id = ?", id).First(&profile).Error; err != nil {
		return profile, fmt.Errorf("unable to get profile: %v", err)
	}
	return profile, nil
}

func GetProfileByName(name string) (models.Profile, error) {
	var profile models.Profile
	if err := database.C.Where("name = ?", name).First(&profile).Error; err != nil {
		return profile, fmt.Errorf("unable to get profile: %v", err)
	}
	return profile, nil
}

func profileCacheKey(accountId uint) string {
	return fmt.Sprintf("account-profile#%d", accountId)
}

// EnsureProfile returns the profile for an account, creating it on first
// access. The default username is derived from the email local part, with a
// numeric suffix when taken.
func EnsureProfile(account models.Account) (models.Profile, error) {
	var profile models.Profile

	if localCache.S != nil {
		marshal := marshaler.New(cache.New[any](localCache.S))
		if hit, err := marshal.Get(context.Background(), profileCacheKey(account.ID), new(models.Profile)); err == nil {
			return *hit.(*models.Profile), nil
		}
	}

	err := database.C.Where("account_id = ?", account.ID).First(&profile).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return profile, fmt.Errorf("unable to get profile: %v", err)
		}

		name := strings.SplitN(account.Email, "@", 2)[0]
		candidate := name
		for suffix := 2; ; suffix++ {
			var count int64
			if err := database.C.Model(&models.Profile{}).
				Where("name = ?", candidate).
				Count(&count).Error; err != nil {
				return profile, fmt.Errorf("unable to check username: %v", err)
			}
			if count == 0 {
				break
			}
			candidate = fmt.Sprintf("%s%d", name, suffix)
		}

		profile = models.Profile{
			AccountID: account.ID,
			Role:      models.RoleDreamer,
			Name:      candidate,
			Nick:      candidate,
		}
		if err := database.C.Create(&profile).Error; err != nil {
			return profile, fmt.Errorf("unable to create profile: %v", err)
		}
	}

	cacheProfile(profile)

	return profile, nil
}

func cacheProfile(profile models.Profile) {
	if localCache.S == nil {
		return
	}
	marshal := marshaler.New(cache.New[any](localCache.S))
	_ = marshal.Set(
		context.Background(),
		profileCacheKey(profile.AccountID),
		profile,
		store.WithExpiration(5*time.Minute),
	)
}

func invalidateProfileCache(accountId uint) {
	if localCache.S == nil {
		return
	}
	marshal := marshaler.New(cache.New[any](localCache.S))
	_ = marshal.Delete(context.Background(), profileCacheKey(accountId))
}

// EditProfile updates the owner-editable fields. The role field is not
// touched here, see SetProfileRole.
func EditProfile(profile models.Profile, name, nick, bio string) (models.Profile, error) {
	if len(name) == 0 {
		return profile, NewValidationError("name", "cannot be empty")
	}
	if strings.ContainsAny(name, " \t") {
		return profile, NewValidationError("name", "cannot contain spaces")
	}

	if name != profile.Name {
		var count int64
		if err := database.C.Model(&models.Profile{}).
			Where("name = ? AND id != ?", name, profile.ID).
			Count(&count).Error; err != nil {
			return profile, fmt.Errorf("unable to check username: %v", err)
		}
		if count > 0 {
			return profile, NewValidationError("name", "is already taken")
		}
	}

	profile.Name = name
	profile.Nick = nick
	profile.Bio = bio

	if err := database.C.Save(&profile).Error; err != nil {
		return profile, err
	}

	invalidateProfileCache(profile.AccountID)

	return profile, nil
}

func SetProfileAvatar(profile models.Profile, path string) (models.Profile, error) {
	previous := profile.Avatar
	profile.Avatar = path
	if err := database.C.Save(&profile).Error; err != nil {
		return profile, err
	}

	if len(previous) > 0 {
		RemoveObjects(previous)
	}

	invalidateProfileCache(profile.AccountID)

	return profile, nil
}

// SetProfileRole is the admin-only role assignment path; the gate decides
// who may call it.
func SetProfileRole(profile models.Profile, role models.ProfileRole) (models.Profile, error) {
	if role < models.RoleDreamer || role > models.RoleAdmin {
		return profile, NewValidationError("role", "unknown role")
	}

	profile.Role = role
	if err := database.C.Save(&profile).Error; err != nil {
		return profile, err
	}

	invalidateProfileCache(profile.AccountID)

	return profile, nil
}

func DeleteProfile(profile models.Profile) error {
	if len(profile.Avatar) > 0 {
		RemoveObjects(profile.Avatar)
	}

	invalidateProfileCache(profile.AccountID)

	return database.C.Delete(&profile).Error
}
