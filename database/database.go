package database

import (
	"fmt"
	"strings"
	"time"

	"cafehere/config"
	"cafehere/model"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open connects to postgres, checks the connection and migrates the schema.
// Driver errors are translated so duplicate keys surface as gorm.ErrDuplicatedKey.
func Open(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{
		Logger:         newLogger(cfg.DatabaseLogLevel),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("database: open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database: ping: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	log.Info().Msg("database connected and migrated")
	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&model.User{},
		&model.Cafe{},
		&model.Category{},
		&model.OptionGroup{},
		&model.Option{},
		&model.Product{},
		&model.BlacklistedToken{},
	)
	if err != nil {
		return fmt.Errorf("database: migrate: %w", err)
	}
	return nil
}

// Close releases the connection pool.
func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warn().Err(err).Msg("database close failed")
	}
}

// zerologWriter routes gorm's log lines through the global zerolog logger.
type zerologWriter struct{}

func (zerologWriter) Printf(format string, args ...any) {
	log.Info().Str("component", "gorm").Msgf(format, args...)
}

func newLogger(level string) logger.Interface {
	return logger.New(zerologWriter{}, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  parseLogLevel(level),
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
