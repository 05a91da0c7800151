package services

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/solcafe/server/pkg/internal/database"
	"github.com/solcafe/server/pkg/internal/models"
)

// DoAutoDatabaseCleanup reclaims uploaded objects nothing references
// anymore: the upload succeeded but the record mutation that should have
// referenced it never landed. Objects get a day of grace before the sweep
// considers them orphaned.
func DoAutoDatabaseCleanup() {
	log.Debug().Msg("Now doing auto database cleanup...")

	deadline := time.Now().Add(-24 * time.Hour)

	var objects []models.StoredObject
	if err := database.C.Where("created_at < ?", deadline).Find(&objects).Error; err != nil {
		log.Error().Err(err).Msg("An error occurred when listing stored objects for cleanup.")
		return
	}

	var count int
	for _, object := range objects {
		if isObjectReferenced(object.Path) {
			continue
		}

		RemoveObjects(object.Path)
		count++
	}

	database.C.Model(&models.Account{}).
		Where("reset_expired_at < ?", time.Now()).
		Updates(map[string]any{"reset_token": nil, "reset_expired_at": nil})

	if count > 0 {
		log.Info().Int("count", count).Msg("Removed orphaned stored objects.")
	}
}

func isObjectReferenced(path string) bool {
	like := "%" + path + "%"

	var count int64
	database.C.Model(&models.Post{}).
		Where("cover_url LIKE ? OR CAST(metadata AS TEXT) LIKE ?", like, like).
		Count(&count)
	if count > 0 {
		return true
	}

	database.C.Model(&models.Profile{}).
		Where("avatar = ?", path).
		Count(&count)

	return count > 0
}
