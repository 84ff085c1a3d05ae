package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"toolrental-backend/internal/logger"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed sql/*.sql
var files embed.FS

// Migration is one versioned schema change.
type Migration struct {
	Version uint
	Name    string
}

func (m Migration) String() string {
	return fmt.Sprintf("%04d_%s", m.Version, m.Name)
}

// Status describes a migration and whether the database has it. Dirty marks
// the version whose last run failed halfway.
type Status struct {
	Version uint
	Name    string
	Applied bool
	Dirty   bool
}

// Load lists the embedded migrations ordered by version.
func Load() ([]Migration, error) {
	src, err := iofs.New(files, "sql")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded migrations: %w", err)
	}
	defer src.Close()
	return list(src)
}

func list(src source.Driver) ([]Migration, error) {
	var out []Migration
	for v, err := src.First(); ; v, err = src.Next(v) {
		if errors.Is(err, fs.ErrNotExist) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		body, name, err := src.ReadUp(v)
		if err != nil {
			return nil, fmt.Errorf("failed to read migration %d: %w", v, err)
		}
		body.Close()
		out = append(out, Migration{Version: v, Name: name})
	}
}

// Runner applies the embedded migrations with golang-migrate. The applied
// version is tracked in schema_migrations.
type Runner struct {
	db *sql.DB
}

func NewRunner(db *sql.DB) *Runner {
	return &Runner{db: db}
}

// open builds a migrator on a dedicated connection so that closing it hands
// the connection back without closing the pool.
func (r *Runner) open(ctx context.Context) (*migrate.Migrate, error) {
	src, err := iofs.New(files, "sql")
	if err != nil {
		return nil, fmt.Errorf("failed to read embedded migrations: %w", err)
	}
	conn, err := r.db.Conn(ctx)
	if err != nil {
		src.Close()
		return nil, err
	}
	driver, err := postgres.WithConnection(ctx, conn, &postgres.Config{})
	if err != nil {
		conn.Close()
		src.Close()
		return nil, fmt.Errorf("failed to prepare schema_migrations: %w", err)
	}
	m, err := migrate.NewWithInstance("iofs", src, "postgres", driver)
	if err != nil {
		driver.Close()
		src.Close()
		return nil, err
	}
	m.Log = migrateLogger{}
	return m, nil
}

func closeMigrate(m *migrate.Migrate) {
	srcErr, dbErr := m.Close()
	if srcErr != nil || dbErr != nil {
		logger.Warn("Failed to close migrator", "source_error", srcErr, "database_error", dbErr)
	}
}

func currentVersion(m *migrate.Migrate) (uint, bool, error) {
	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return v, dirty, err
}

// Up applies every pending migration and returns the ones it applied.
// Cancelling ctx stops after the migration in progress.
func (r *Runner) Up(ctx context.Context) ([]Migration, error) {
	all, err := Load()
	if err != nil {
		return nil, err
	}
	m, err := r.open(ctx)
	if err != nil {
		return nil, err
	}
	defer closeMigrate(m)

	before, _, err := currentVersion(m)
	if err != nil {
		return nil, err
	}

	stop := context.AfterFunc(ctx, func() { m.GracefulStop <- true })
	upErr := m.Up()
	stop()

	after, dirty, err := currentVersion(m)
	if err != nil {
		return nil, err
	}
	applied := appliedBetween(all, before, after, dirty)
	for _, mg := range applied {
		logger.Info("Migration applied", "version", mg.Version, "name", mg.Name)
	}

	switch {
	case upErr == nil, errors.Is(upErr, migrate.ErrNoChange):
		return applied, nil
	case dirty:
		return applied, fmt.Errorf("migration %s failed: %w", nameOf(all, after), upErr)
	default:
		return applied, fmt.Errorf("failed to apply migrations: %w", upErr)
	}
}

// Status lists all known migrations against the database version.
func (r *Runner) Status(ctx context.Context) ([]Status, error) {
	all, err := Load()
	if err != nil {
		return nil, err
	}
	m, err := r.open(ctx)
	if err != nil {
		return nil, err
	}
	defer closeMigrate(m)

	current, dirty, err := currentVersion(m)
	if err != nil {
		return nil, err
	}
	return statuses(all, current, dirty), nil
}

// appliedBetween returns the migrations that moved the database from before
// to after. A dirty version did not complete.
func appliedBetween(all []Migration, before, after uint, dirty bool) []Migration {
	var out []Migration
	for _, mg := range all {
		if mg.Version <= before || mg.Version > after {
			continue
		}
		if dirty && mg.Version == after {
			continue
		}
		out = append(out, mg)
	}
	return out
}

func statuses(all []Migration, current uint, dirty bool) []Status {
	out := make([]Status, 0, len(all))
	for _, mg := range all {
		st := Status{Version: mg.Version, Name: mg.Name}
		switch {
		case mg.Version < current:
			st.Applied = true
		case mg.Version == current:
			st.Applied = !dirty
			st.Dirty = dirty
		}
		out = append(out, st)
	}
	return out
}

func nameOf(all []Migration, version uint) string {
	for _, mg := range all {
		if mg.Version == version {
			return mg.String()
		}
	}
	return fmt.Sprintf("%04d", version)
}

// migrateLogger routes golang-migrate output to the application logger.
type migrateLogger struct{}

func (migrateLogger) Printf(format string, v ...interface{}) {
	logger.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)), "component", "migrate")
}

func (migrateLogger) Verbose() bool { return false }
