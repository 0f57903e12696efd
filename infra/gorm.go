package infra

import (
	"github.com/HavvokLab/solix-setup/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewGormDB(paths ...string) (*gorm.DB, error) {
	var path string = "database.db"
	if len(paths) > 0 && paths[0] != "" {
		path = paths[0]
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates the entry store and device registry tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&model.ConfigEntry{}, &model.DeviceEntry{})
}
