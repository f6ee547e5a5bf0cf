package database

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
	"gorm.io/gorm/schema"

	"github.com/onegreenvn/campaign-dashboard-backend/internal/config"
	"github.com/onegreenvn/campaign-dashboard-backend/internal/models"
)

// identifierPattern accepts provider ids such as 68d9406b00363bd294b3.
// They may start with a digit, so they are always quoted in SQL.
var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9_]{1,63}$`)

// InitDB opens the Postgres connection and configures the pool
func InitDB(cfg config.Database) (*gorm.DB, error) {
	if cfg.Host == "" || cfg.Port == "" || cfg.User == "" || cfg.Name == "" {
		return nil, fmt.Errorf("missing required database environment variables. Please check your .env file")
	}

	// Configure GORM logger
	gormLogger := logger.New(
		logrus.New(),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Error,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:                                   gormLogger,
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database connection: %w", err)
	}
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	logrus.Info("Database connection established")
	return db, nil
}

// CampaignTable returns the schema qualified table holding campaign
// documents. Both parts are limited to letters, digits and underscores.
func CampaignTable(databaseID, collectionID string) (string, error) {
	if !identifierPattern.MatchString(databaseID) {
		return "", fmt.Errorf("invalid database id %q", databaseID)
	}
	if !identifierPattern.MatchString(collectionID) {
		return "", fmt.Errorf("invalid collection id %q", collectionID)
	}
	return databaseID + "." + collectionID, nil
}

// Migrate creates the account, storage and campaign tables if missing
func Migrate(db *gorm.DB, sub config.Submission) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Bucket{},
		&models.File{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	table, err := CampaignTable(sub.DatabaseID, sub.CollectionID)
	if err != nil {
		return err
	}

	if err := createSchema(db, sub.DatabaseID); err != nil {
		return err
	}

	if err := db.Table(table).AutoMigrate(&models.Campaign{}); err != nil {
		return fmt.Errorf("failed to migrate %s: %w", table, err)
	}

	logrus.WithField("table", table).Info("Database migrations completed")
	return nil
}

func createSchema(db *gorm.DB, name string) error {
	if err := db.Exec("CREATE SCHEMA IF NOT EXISTS ?", clause.Table{Name: name}).Error; err != nil {
		return fmt.Errorf("failed to create schema %s: %w", name, err)
	}
	return nil
}

// TableExists reports whether the schema qualified table exists
func TableExists(db *gorm.DB, table string) (bool, error) {
	var exists bool
	schema, name, found := strings.Cut(table, ".")
	if !found {
		schema, name = "public", table
	}
	err := db.Raw(`
		SELECT EXISTS (
			SELECT 1
			FROM information_schema.tables
			WHERE table_schema = ?
			AND table_name = ?
		)
	`, schema, name).Scan(&exists).Error
	return exists, err
}

// CampaignColumns returns the column names the campaign model maps to
func CampaignColumns() ([]string, error) {
	s, err := schema.Parse(&models.Campaign{}, &sync.Map{}, schema.NamingStrategy{})
	if err != nil {
		return nil, fmt.Errorf("failed to parse campaign schema: %w", err)
	}
	return s.DBNames, nil
}
