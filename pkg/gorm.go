package pkg

import (
	"fmt"
	"sync"

	"github.com/SAP-F-2025/interview-service/internal/config"
	"github.com/SAP-F-2025/interview-service/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database owns one gorm handle for the life of the process. Open may be
// called any number of times; the connection is made once.
type Database struct {
	dialector gorm.Dialector
	logLevel  logger.LogLevel

	once sync.Once
	db   *gorm.DB
	err  error
}

func NewDatabase(cfg *config.Config) *Database {
	logLevel := logger.Warn
	if cfg.IsProduction() {
		logLevel = logger.Error
	}
	return NewDatabaseWithDialector(postgres.Open(cfg.DatabaseURL), logLevel)
}

func NewDatabaseWithDialector(dialector gorm.Dialector, logLevel logger.LogLevel) *Database {
	return &Database{dialector: dialector, logLevel: logLevel}
}

func (d *Database) Open() (*gorm.DB, error) {
	d.once.Do(func() {
		d.db, d.err = gorm.Open(d.dialector, &gorm.Config{
			Logger:         logger.Default.LogMode(d.logLevel),
			TranslateError: true,
		})
		if d.err != nil {
			d.err = fmt.Errorf("failed to connect to database: %w", d.err)
		}
	})
	return d.db, d.err
}

// Migrate creates or updates the tables for every model.
func (d *Database) Migrate() error {
	db, err := d.Open()
	if err != nil {
		return err
	}
	if err := db.AutoMigrate(models.AllModels()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func (d *Database) Close() error {
	if d.db == nil {
		return nil
	}
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
