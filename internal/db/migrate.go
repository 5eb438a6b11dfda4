package db

import (
	"polyoracle/internal/models"
)

func AutoMigrate(db *DB) error {
	if db == nil || db.Gorm == nil || db.SQL == nil {
		return nil
	}
	return db.Gorm.AutoMigrate(
		&models.Market{},
		&models.Signal{},
		&models.WhaleTrade{},
		&models.RedditPost{},
	)
}
