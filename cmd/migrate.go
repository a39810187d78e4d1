package cmd

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/cobra"
)

var (
	migrateCmd = &cobra.Command{
		RunE:  runMigration,
		Use:   "migrate",
		Short: "to run the embedded db migrations against the configured SQL store",
	}
	migrateRollback bool
)

func init() {
	migrateCmd.Flags().BoolVarP(&migrateRollback, "rollback", "r", false, "to rollback the latest version of sql migration")
}

// sqlDriverName maps a storage driver onto the database/sql driver that
// goose talks through.
func sqlDriverName(driver string) (string, error) {
	switch driver {
	case "postgres":
		return "pgx", nil
	case "sqlite":
		return "sqlite3", nil
	default:
		return "", fmt.Errorf("storage driver %q has no migrations", driver)
	}
}

func runMigration(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	cfg, err := loadConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}

	driverName, err := sqlDriverName(cfg.Storage.Driver)
	if err != nil {
		return err
	}
	db, err := sql.Open(driverName, cfg.Storage.Source)
	if err != nil {
		log.Fatalf("goose: failed to open DB: %v\n", err)
	}
	defer db.Close()

	if err := runMigrations(ctx, db, gooseDialect(cfg.Storage.Driver), migrateRollback); err != nil {
		log.Fatal(err)
	}
	return nil
}
