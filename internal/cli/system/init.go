package system

import (
	"fmt"
	"os"

	"github.com/julianstephens/ecohabits/internal/cli"
)

type InitCmd struct {
	Force bool `help:"Delete an existing SQLite database before initialization."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		dbPath, ok := ctx.SQLitePath()
		if !ok {
			return fmt.Errorf("--force is only supported for SQLite storage")
		}
		if _, err := os.Stat(dbPath); err == nil {
			if err := ctx.Store.Close(); err != nil {
				return fmt.Errorf("failed to close existing database: %w", err)
			}
			for _, suffix := range []string{"", "-wal", "-shm"} {
				if err := os.Remove(dbPath + suffix); err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("failed to delete existing database: %w", err)
				}
			}
			ctx.Printf("Deleted existing database at: %s\n", dbPath)
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("failed to access existing database: %w", err)
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	ctx.Printf("Initialized ecohabits storage at: %s\n", ctx.Store.GetConfigPath())
	return nil
}
