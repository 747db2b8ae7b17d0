package cache

import (
	"embed"

	"github.com/fckoffmw/replay-service/pkg/sql"
)

var Migrations = sql.FSMigrations(migrationFiles)

//go:embed *.sql
var migrationFiles embed.FS
