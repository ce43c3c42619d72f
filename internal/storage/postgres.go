package storage

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/m7mdxyz/discord-logger/internal/models"
)

// InitPostgres opens the database, configures the pool and migrates the
// logger tables.
func InitPostgres(dsn string, maxIdleConns, maxOpenConns int) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetMaxOpenConns(maxOpenConns)

	err = db.AutoMigrate(
		&models.Member{},
		&models.Channel{},
		&models.Role{},
		&models.Message{},
		&models.DeletedMessage{},
		&models.EditedMessage{},
		&models.VoiceActivity{},
		&models.GuildActivity{},
		&models.MemberActivity{},
	)
	if err != nil {
		return nil, fmt.Errorf("migrate models: %w", err)
	}
	return db, nil
}

// BuildDSN builds the postgres DSN from the config fields.
func BuildDSN(host, port, user, password, dbname string) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", host, port, user, password, dbname)
}
