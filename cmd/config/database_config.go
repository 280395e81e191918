package config

import (
	"fmt"
	"strings"

	"Foodgram-Backend/internal/utils"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func gormConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Warn),
	}
}

// ConnectDB opens the database selected by DB_DRIVER. sqlite is meant for
// local runs; postgres is the default.
func ConnectDB() (*gorm.DB, error) {
	switch strings.ToLower(utils.GetConfig("DB_DRIVER")) {
	case "sqlite":
		db, err := OpenSQLite(fmt.Sprintf("file:%s?_foreign_keys=on", utils.GetConfig("SQLITE_PATH")))
		if err != nil {
			return nil, fmt.Errorf("opening sqlite: %w", err)
		}
		return db, nil
	default:
		dsn := fmt.Sprintf(
			"host=%s user=%s password=%s dbname=%s port=%s sslmode=%s TimeZone=%s",
			utils.GetConfig("DB_HOST"),
			utils.GetConfig("DB_USER"),
			utils.GetConfig("DB_PASSWORD"),
			utils.GetConfig("DB_NAME"),
			utils.GetConfig("DB_PORT"),
			utils.GetConfig("DB_SSLMODE"),
			utils.GetConfig("DB_TIMEZONE"),
		)

		db, err := gorm.Open(postgres.Open(dsn), gormConfig())
		if err != nil {
			return nil, fmt.Errorf("opening postgres: %w", err)
		}
		return db, nil
	}
}

// OpenSQLite opens a sqlite database on a single connection, so in-memory
// databases are shared by every query and writers never hit SQLITE_BUSY.
func OpenSQLite(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), gormConfig())
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	return db, nil
}
