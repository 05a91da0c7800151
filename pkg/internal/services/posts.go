package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/solcafe/server/pkg/internal/database"
	"github.com/solcafe/server/pkg/internal/models"
)

// FilterPostDraft hides unpublished posts; use together with
// FilterPostWithAuthor when the viewer should still see their own drafts.
func FilterPostDraft(tx *gorm.DB) *gorm.DB {
	return tx.Where("published = ?", true)
}

// FilterPostWithUserContext widens the draft filter so an authenticated
// viewer sees their own drafts next to everything published.
func FilterPostWithUserContext(tx *gorm.DB, user *models.Profile) *gorm.DB {
	if user == nil {
		return FilterPostDraft(tx)
	}
	return tx.Where("published = ? OR profile_id = ?", true, user.ID)
}

func FilterPostWithType(tx *gorm.DB, t string) *gorm.DB {
	return tx.Where("type = ?", t)
}

func FilterPostWithAuthor(tx *gorm.DB, profileId uint) *gorm.DB {
	return tx.Where("profile_id = ?", profileId)
}

func FilterPostWithAuthorDraft(tx *gorm.DB, profileId uint) *gorm.DB {
	return tx.Where("profile_id = ? AND published = ?", profileId, false)
}

func FilterPostWithTag(tx *gorm.DB, tag string) *gorm.DB {
	return tx.Where(datatypes.JSONArrayQuery("tags").Contains(tag))
}

// FilterPostWithFuzzySearch matches probe case-insensitively against title
// and description. Folding happens in SQL so it works the same on every
// dialect.
func FilterPostWithFuzzySearch(tx *gorm.DB, probe string) *gorm.DB {
	if len(probe) == 0 {
		return tx
	}

	probe = "%" + strings.ToLower(probe) + "%"
	return tx.Where("LOWER(title) LIKE ? OR LOWER(description) LIKE ?", probe, probe)
}

func GetPost(tx *gorm.DB, id uint) (models.Post, error) {
	var item models.Post
	if err := tx.Preload("Profile").
		Where("id = ?", id).
		First(&item).Error; err != nil {
		return item, err
	}

	return item, nil
}

func GetPostBySlug(tx *gorm.DB, slug string) (models.Post, error) {
	var item models.Post
	if err := tx.Preload("Profile").
		Where("slug = ?", slug).
		Order("created_at DESC").
		First(&item).Error; err != nil {
		return item, err
	}

	return item, nil
}

func CountPost(tx *gorm.DB) (int64, error) {
	var count int64
	if err := tx.Model(&models.Post{}).Count(&count).Error; err != nil {
		return count, err
	}

	return count, nil
}

func ListPost(tx *gorm.DB, take int, offset int, order any) ([]*models.Post, error) {
	if take > 100 {
		take = 100
	}

	var items []*models.Post
	if err := tx.Preload("Profile").
		Limit(take).Offset(offset).
		Order(order).
		Find(&items).Error; err != nil {
		return items, err
	}

	return items, nil
}

func NewPost(user models.Profile, item models.Post) (models.Post, error) {
	item.ProfileID = user.ID

	if err := PreparePost(&item, nil); err != nil {
		return item, err
	}

	log.Debug().Str("slug", item.Slug).Str("type", item.Type).Msg("Saving post record into database...")
	start := time.Now()

	if err := database.C.Save(&item).Error; err != nil {
		return item, err
	}

	log.Debug().Dur("elapsed", time.Since(start)).Msg("The post is posted.")
	return item, nil
}

// EditPost persists an updated revision. When the caller sends the
// updated_at it last read, a mismatch fails with ErrStaleRecord instead of
// silently overwriting the newer revision.
func EditPost(item models.Post, existing models.Post, precondition *time.Time) (models.Post, error) {
	if precondition != nil && !existing.UpdatedAt.Equal(*precondition) {
		return item, ErrStaleRecord
	}

	// These never move across revisions
	item.ID = existing.ID
	item.CreatedAt = existing.CreatedAt
	item.ProfileID = existing.ProfileID
	item.Type = existing.Type

	if err := PreparePost(&item, &existing); err != nil {
		return item, err
	}

	err := database.C.Save(&item).Error

	return item, err
}

// collectStoredPaths gathers every stored object path a post references,
// including the tracked upload behind its cover url.
func collectStoredPaths(item models.Post) []string {
	paths := CollectMediaPaths(item)

	if len(item.CoverURL) > 0 {
		var cover models.StoredObject
		if err := database.C.Where("? LIKE '%' || path", item.CoverURL).First(&cover).Error; err == nil {
			paths = append(paths, cover.Path)
		}
	}

	return paths
}

// DeletePost removes the record and, best effort, the media it referenced.
// Media cleanup failure never blocks the delete.
func DeletePost(item models.Post) error {
	RemoveObjects(collectStoredPaths(item)...)

	return database.C.Delete(&item).Error
}

func DeletePostInBatch(items []models.Post) error {
	for _, item := range items {
		RemoveObjects(collectStoredPaths(item)...)
	}

	idx := make([]uint, 0, len(items))
	for _, item := range items {
		idx = append(idx, item.ID)
	}

	if err := database.C.Where("id IN ?", idx).Delete(&models.Post{}).Error; err != nil {
		return fmt.Errorf("unable to delete posts in batch: %v", err)
	}
	return nil
}
