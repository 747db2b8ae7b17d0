package sql

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/fckoffmw/replay-service/pkg/log"
)

const (
	querySeparator = ";\n"

	migrationTableDDL = `
		CREATE TABLE IF NOT EXISTS migration (
			id text PRIMARY KEY
		)
	`
)

type MigrationSource fs.ReadDirFS

func FSMigrations(files embed.FS) MigrationSource {
	return files
}

type Migrator struct {
	db     Client
	logger log.Logger
}

func NewMigrator(db Client, logger log.Logger) *Migrator {
	return &Migrator{db: db, logger: logger}
}

func (m *Migrator) Execute(ctx context.Context, sources ...MigrationSource) error {
	_, err := m.db.ExecContext(ctx, migrationTableDDL)
	if err != nil {
		return fmt.Errorf("create migration table: %w", err)
	}

	performedIDs, err := m.performedMigrationIDs(ctx)
	if err != nil {
		return fmt.Errorf("get performed migrations: %w", err)
	}

	for _, source := range sources {
		err = m.performSourceMigrations(ctx, source, performedIDs)
		if err != nil {
			return err
		}
	}

	return nil
}

func (m *Migrator) performSourceMigrations(
	ctx context.Context,
	source MigrationSource,
	performedIDs map[string]struct{},
) error {
	migrationIDs, err := migrationFileNames(source)
	if err != nil {
		return fmt.Errorf("get migration file names: %w", err)
	}

	for _, migrationID := range migrationIDs {
		if _, ok := performedIDs[migrationID]; ok {
			continue
		}

		migrationSQL, err := fs.ReadFile(source, migrationID)
		if err != nil {
			return fmt.Errorf("read migration sql: %w", err)
		}

		err = m.performMigration(ctx, migrationID, string(migrationSQL))
		if err != nil {
			return err
		}
	}

	return nil
}

func (m *Migrator) performMigration(ctx context.Context, migrationID, migrationSQL string) error {
	for _, query := range strings.Split(migrationSQL, querySeparator) {
		query = strings.TrimSpace(query)
		if query == "" {
			continue
		}

		_, err := m.db.ExecContext(ctx, query)
		if err != nil {
			return fmt.Errorf("perform migration %s: %w", migrationID, err)
		}
	}

	_, err := m.db.ExecContext(ctx, "INSERT INTO migration (id) VALUES (?)", migrationID)
	if err != nil {
		return fmt.Errorf("store performed migration %s: %w", migrationID, err)
	}

	m.logger.WithField("migrationID", migrationID).Info(ctx, "migration performed")
	return nil
}

func (m *Migrator) performedMigrationIDs(ctx context.Context) (map[string]struct{}, error) {
	var ids []string
	err := m.db.SelectContext(ctx, &ids, "SELECT id FROM migration")
	if err != nil {
		return nil, err
	}

	result := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		result[id] = struct{}{}
	}
	return result, nil
}

func migrationFileNames(source MigrationSource) ([]string, error) {
	entries, err := source.ReadDir(".")
	if err != nil {
		return nil, err
	}

	result := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		result = append(result, entry.Name())
	}

	sort.Strings(result)
	return result, nil
}
