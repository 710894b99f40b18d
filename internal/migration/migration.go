package migration

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	agencydomain "github.com/smallbiznis/gareline/internal/agency/domain"
	alertdomain "github.com/smallbiznis/gareline/internal/alert/domain"
	auditdomain "github.com/smallbiznis/gareline/internal/audit/domain"
	authdomain "github.com/smallbiznis/gareline/internal/auth/domain"
	connectiondomain "github.com/smallbiznis/gareline/internal/connection/domain"
	garedomain "github.com/smallbiznis/gareline/internal/gare/domain"
	rechargedomain "github.com/smallbiznis/gareline/internal/recharge/domain"
	zonedomain "github.com/smallbiznis/gareline/internal/zone/domain"
	"gorm.io/gorm"
)

const migrationsDir = "migrations"

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// Models lists every table owned by the application, parents first.
func Models() []any {
	return []any{
		&authdomain.User{},
		&zonedomain.Zone{},
		&agencydomain.Agency{},
		&garedomain.Gare{},
		&connectiondomain.Connection{},
		&rechargedomain.Recharge{},
		&alertdomain.Alert{},
		&auditdomain.AuditLog{},
	}
}

// Migrate applies the embedded SQL migrations on PostgreSQL and falls back to
// gorm AutoMigrate for the other dialects.
func Migrate(conn *gorm.DB, dbType string) error {
	if conn == nil {
		return errors.New("migration database handle is required")
	}
	if dbType != "postgres" {
		return conn.AutoMigrate(Models()...)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return RunMigrations(sqlDB)
}

func RunMigrations(db *sql.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// migrator.Close would close the shared *sql.DB.

	return nil
}
