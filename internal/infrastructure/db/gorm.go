package db

import (
	"log"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"biblioteca-backend/internal/domain/catalog"
	"biblioteca-backend/internal/domain/client"
	"biblioteca-backend/internal/domain/library"
	"biblioteca-backend/internal/domain/loan"
	"biblioteca-backend/internal/domain/user"
)

func OpenGorm(dsn string) (*gorm.DB, error) {
	return OpenGormWithDialector(mysql.Open(dsn))
}

// OpenGormWithDialector exists so tests can swap in a mocked connection.
func OpenGormWithDialector(dial gorm.Dialector) (*gorm.DB, error) {
	cfg := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	}
	db, err := gorm.Open(dial, cfg)
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(30)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	sqlDB.SetConnMaxIdleTime(10 * time.Minute)

	if err := sqlDB.Ping(); err != nil {
		return nil, err
	}
	log.Println("gorm: connected")
	return db, nil
}

// Migrate creates/updates every table the app owns. Order matters only for
// readability; gorm resolves FKs by name.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&library.Library{},
		&library.LoanPolicy{},
		&library.FinePolicy{},
		&library.NotificationSetting{},
		&library.EmailAccount{},
		&user.User{},
		&client.Client{},
		&catalog.Category{},
		&catalog.Book{},
		&catalog.Copy{},
		&loan.Loan{},
	)
}
