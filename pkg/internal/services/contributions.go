package services

import (
	"strings"

	"github.com/solcafe/server/pkg/internal/database"
	"github.com/solcafe/server/pkg/internal/models"
)

func validateContribution(item models.Contribution) error {
	verr := &ValidationError{}
	if len(strings.TrimSpace(item.Title)) == 0 {
		verr.Add("title", "cannot be empty")
	}
	if len(strings.TrimSpace(item.Type)) == 0 {
		verr.Add("type", "cannot be empty")
	}
	if len(strings.TrimSpace(item.Content)) == 0 {
		verr.Add("content", "cannot be empty")
	}
	if verr.HasErrors() {
		return verr
	}
	return nil
}

func GetContribution(id uint) (models.Contribution, error) {
	var item models.Contribution
	if err := database.C.Where("id = ?", id).First(&item).Error; err != nil {
		return item, err
	}
	return item, nil
}

func ListContributionWithAuthor(profileId uint) ([]models.Contribution, error) {
	var items []models.Contribution
	if err := database.C.
		Where("profile_id = ?", profileId).
		Order("created_at DESC").
		Find(&items).Error; err != nil {
		return items, err
	}
	return items, nil
}

func NewContribution(user models.Profile, item models.Contribution) (models.Contribution, error) {
	if err := validateContribution(item); err != nil {
		return item, err
	}

	item.ProfileID = user.ID
	if err := database.C.Create(&item).Error; err != nil {
		return item, err
	}
	return item, nil
}

func EditContribution(item models.Contribution, existing models.Contribution) (models.Contribution, error) {
	if err := validateContribution(item); err != nil {
		return item, err
	}

	item.ID = existing.ID
	item.CreatedAt = existing.CreatedAt
	item.ProfileID = existing.ProfileID

	err := database.C.Save(&item).Error
	return item, err
}

func DeleteContribution(item models.Contribution) error {
	return database.C.Delete(&item).Error
}
