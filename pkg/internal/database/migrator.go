package database

import (
	"github.com/solcafe/server/pkg/internal/models"
	"gorm.io/gorm"
)

var AutoMaintainRange = []any{
	&models.Account{},
	&models.Profile{},
	&models.Post{},
	&models.Contribution{},
}

func RunMigration(source *gorm.DB) error {
	if err := source.AutoMigrate(
		append(
			AutoMaintainRange,
			&models.StoredObject{},
		)...,
	); err != nil {
		return err
	}

	return nil
}
