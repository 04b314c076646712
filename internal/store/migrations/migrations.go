// Package migrations holds the embedded schema for the entity store.
package migrations

import (
	"database/sql"
	_ "embed"

	"github.com/onchain-commerce/hubindexer/internal/db"
	"github.com/onchain-commerce/hubindexer/internal/logger"
)

//go:embed 001_entities.sql
var mig001 string

// RunMigrations brings the entity store schema up to date.
func RunMigrations(log *logger.Logger, database *sql.DB) error {
	migrations := []db.Migration{
		{
			ID:  "001_entities.sql",
			SQL: mig001,
		},
	}

	return db.RunMigrations(log, database, migrations)
}
