package database

import (
	"context"
	"log"
	"os"
	"time"

	"medisight/models"

	"github.com/pkg/errors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DB is the global database instance.
var DB *gorm.DB

// InitDB initializes the database connection and configures it.
func InitDB(ctx context.Context, dsn string) (*gorm.DB, error) {
	var err error

	logMode := logger.Silent
	if os.Getenv("ENV") == "development" {
		logMode = logger.Info
	}

	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		PrepareStmt: true,
		Logger:      logger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to open database connection")
	}

	if err := configureConnectionPool(); err != nil {
		return nil, err
	}

	if err := testDatabaseConnection(ctx); err != nil {
		return nil, err
	}

	if err := runMigrations(); err != nil {
		return nil, err
	}

	if os.Getenv("ENV") == "development" {
		if err := seedSandboxData(); err != nil {
			return nil, err
		}
	}

	log.Println("Database initialized successfully.")
	return DB, nil
}

// configureConnectionPool sets up the connection pool settings for the database.
func configureConnectionPool() error {
	sqlDB, err := DB.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB from GORM")
	}
	sqlDB.SetMaxOpenConns(40)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(10 * time.Minute)
	return nil
}

// testDatabaseConnection verifies that the database connection is functional.
func testDatabaseConnection(ctx context.Context) error {
	sqlDB, err := DB.DB()
	if err != nil {
		return errors.Wrap(err, "failed to get sql.DB from GORM")
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return errors.Wrap(err, "failed to ping database")
	}
	return nil
}

// runMigrations performs database schema migrations.
func runMigrations() error {
	return DB.AutoMigrate(
		&models.Invoice{},
		&models.Appointment{},
		&models.PaymentTransaction{},
		&models.CollectionsCase{},
	)
}

// seedSandboxData loads one invoice and one appointment so the follow-up
// and reminder flows can be exercised against a fresh development database.
func seedSandboxData() error {
	invoice := models.Invoice{
		InvoiceID:          "INV-1001",
		PatientName:        "John Doe",
		Amount:             250.00,
		DueDate:            "2024-07-15",
		ServiceDate:        "2024-06-15",
		ServiceDescription: "Annual Physical Exam",
		Phone:              "555-123-4567",
		Email:              "john.doe@email.com",
		Address:            "123 Main St, Anytown, CA 90210",
	}
	if err := DB.FirstOrCreate(&invoice, models.Invoice{InvoiceID: invoice.InvoiceID}).Error; err != nil {
		return errors.Wrap(err, "failed to seed sandbox invoice")
	}

	appointment := models.Appointment{
		AppointmentID: "APT-2001",
		PatientName:   "John Doe",
		Provider:      "Dr. Smith",
		DateTime:      time.Now().Add(48 * time.Hour),
		Location:      "Main Office",
		Phone:         "555-123-4567",
		Email:         "john.doe@email.com",
		Status:        "scheduled",
	}
	if err := DB.FirstOrCreate(&appointment, models.Appointment{AppointmentID: appointment.AppointmentID}).Error; err != nil {
		return errors.Wrap(err, "failed to seed sandbox appointment")
	}
	return nil
}
