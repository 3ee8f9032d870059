package system

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/julianstephens/ecohabits/internal/cli"
	"github.com/julianstephens/ecohabits/internal/keyring"
	"github.com/julianstephens/ecohabits/internal/storage"
	"github.com/julianstephens/ecohabits/internal/storage/postgres"
)

type KeyringCmd struct {
	Set    KeyringSetCmd    `cmd:"" help:"Store the database connection string in the OS keyring."`
	Get    KeyringGetCmd    `cmd:"" help:"Show the stored connection string with secrets masked."`
	Delete KeyringDeleteCmd `cmd:"" help:"Remove the stored connection string."`
}

type KeyringSetCmd struct {
	ConnectionString string `arg:"" help:"SQLite path or PostgreSQL connection string."`
}

func (cmd *KeyringSetCmd) Run(ctx *cli.Context) error {
	if storage.IsPostgres(cmd.ConnectionString) || strings.Contains(cmd.ConnectionString, "host=") {
		if _, err := postgres.ValidateConnString(cmd.ConnectionString); err != nil {
			if !errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return fmt.Errorf("invalid connection string: %w", err)
			}
			// The keyring is encrypted, so credentials are tolerated here.
			ctx.Println("Warning: connection string contains embedded credentials; they will be kept in the OS keyring.")
		}
	}

	if err := keyring.SetConnectionString(cmd.ConnectionString); err != nil {
		return err
	}
	ctx.Println("Connection string stored in OS keyring.")
	return nil
}

type KeyringGetCmd struct{}

func (cmd *KeyringGetCmd) Run(ctx *cli.Context) error {
	connStr, err := keyring.GetConnectionString()
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring. Use 'ecohabits keyring set' to store one")
		}
		return err
	}
	ctx.Println(maskPassword(connStr))
	return nil
}

type KeyringDeleteCmd struct{}

func (cmd *KeyringDeleteCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteConnectionString(); err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return errors.New("no connection string found in keyring")
		}
		return err
	}
	ctx.Println("Connection string deleted from OS keyring.")
	return nil
}

// maskPassword hides the password of a URL or DSN connection string.
func maskPassword(connStr string) string {
	if storage.IsPostgres(connStr) {
		u, err := url.Parse(connStr)
		if err != nil || u.User == nil {
			return connStr
		}
		if _, ok := u.User.Password(); ok {
			u.User = url.UserPassword(u.User.Username(), "****")
			return u.String()
		}
		return connStr
	}

	parts := strings.Fields(connStr)
	for i, part := range parts {
		if key, _, ok := strings.Cut(part, "="); ok && strings.EqualFold(key, "password") {
			parts[i] = key + "=****"
		}
	}
	return strings.Join(parts, " ")
}
