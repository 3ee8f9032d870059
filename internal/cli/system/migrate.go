package system

import (
	"fmt"

	"github.com/julianstephens/ecohabits/internal/backup"
	"github.com/julianstephens/ecohabits/internal/cli"
)

type MigrateCmd struct {
	NoBackup bool `help:"Skip the SQLite backup taken before migrating."`
}

func (c *MigrateCmd) Run(ctx *cli.Context) error {
	current, latest, err := ctx.Store.SchemaStatus()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current >= latest {
		ctx.Println("No migrations to apply. Database is up to date.")
		return nil
	}

	if path, ok := ctx.SQLitePath(); ok && !c.NoBackup {
		backupPath, err := backup.NewManager(path).Create()
		if err != nil {
			return fmt.Errorf("backup before migration failed: %w", err)
		}
		ctx.Printf("Backup created: %s\n", backupPath)
	}

	count, err := ctx.Store.Migrate(func(msg string) {
		ctx.Println(msg)
	})
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	ctx.Printf("\nSuccessfully applied %d migration(s).\n", count)
	return nil
}
