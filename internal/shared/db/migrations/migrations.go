package migrations

import (
	"embed"
	"errors"
	"fmt"

	"github.com/cristianortiz/bidcoordinator/internal/shared/logger"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

//go:embed sql/*.sql
var sqlFiles embed.FS

// RunMigrations applies every pending up migration against dsn
func RunMigrations(dsn string) error {
	source, err := iofs.New(sqlFiles, "sql")
	if err != nil {
		return fmt.Errorf("open embedded migrations: %w", err)
	}
	m, err := migrate.NewWithSourceInstance("iofs", source, dsn)
	if err != nil {
		return fmt.Errorf("init migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	version, dirty, _ := m.Version()
	log.Info("RunMigrations: schema up to date", zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}
