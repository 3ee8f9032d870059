package cli

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/julianstephens/ecohabits/internal/actions"
	"github.com/julianstephens/ecohabits/internal/auth"
	"github.com/julianstephens/ecohabits/internal/backup"
	"github.com/julianstephens/ecohabits/internal/config"
	"github.com/julianstephens/ecohabits/internal/constants"
	"github.com/julianstephens/ecohabits/internal/keyring"
	"github.com/julianstephens/ecohabits/internal/logger"
	"github.com/julianstephens/ecohabits/internal/storage"
	"github.com/julianstephens/ecohabits/internal/storage/postgres"
	"github.com/julianstephens/ecohabits/internal/storage/sqlite"
)

type Context struct {
	Store   storage.Provider
	Actions *actions.Service
	Caller  auth.Caller
	Config  config.Config
	Out     io.Writer
}

// NewContext wires the action layer over store.
func NewContext(store storage.Provider, cfg config.Config, caller auth.Caller) *Context {
	return &Context{
		Store:   store,
		Actions: actions.NewFromProvider(store),
		Caller:  caller,
		Config:  cfg,
		Out:     os.Stdout,
	}
}

func (c *Context) Printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Context) Println(args ...any) {
	fmt.Fprintln(c.Out, args...)
}

// WriteJSON prints v as indented JSON.
func (c *Context) WriteJSON(v any) error {
	enc := json.NewEncoder(c.Out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// SQLitePath returns the database file of a SQLite store.
func (c *Context) SQLitePath() (string, bool) {
	if _, ok := c.Store.(*sqlite.Store); !ok {
		return "", false
	}
	return c.Store.GetConfigPath(), true
}

// PerformAutomaticBackup snapshots a SQLite database and only logs failures.
func (c *Context) PerformAutomaticBackup() {
	path, ok := c.SQLitePath()
	if !ok {
		return
	}
	if _, err := backup.NewManager(path).Create(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ResolveConnection picks the storage location: the --config flag, then
// ECOHABITS_DB_CONNECTION, then the keyring, then the default SQLite file.
func ResolveConnection(cfg config.Config, flag string) (string, error) {
	if flag != "" {
		return config.ExpandHome(flag)
	}
	if cfg.DBConnection != "" {
		return config.ExpandHome(cfg.DBConnection)
	}

	connStr, err := keyring.GetConnectionString()
	if err == nil {
		return connStr, nil
	}
	if !errors.Is(err, keyring.ErrNotFound) {
		logger.Debug("Keyring lookup failed", "error", err)
	}
	return cfg.DefaultDBPath(), nil
}

// OpenStore returns the backend for conn without loading it.
func OpenStore(conn string) (storage.Provider, error) {
	if !storage.IsPostgres(conn) {
		return sqlite.NewStore(conn), nil
	}
	if _, err := postgres.ValidateConnString(conn); err != nil {
		if errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return nil, fmt.Errorf("PostgreSQL connection strings with embedded credentials are not allowed; use ~/.pgpass or PGPASSWORD instead")
		}
		return nil, err
	}
	return postgres.New(conn), nil
}

// SigningSecret returns ECOHABITS_JWT_SECRET or the keyring secret. With
// create set, a missing keyring secret is generated and stored.
func SigningSecret(cfg config.Config, create bool) (string, error) {
	if cfg.JWTSecret != "" {
		return cfg.JWTSecret, nil
	}

	secret, err := keyring.GetSigningSecret()
	if err == nil {
		return secret, nil
	}
	if !errors.Is(err, keyring.ErrNotFound) || !create {
		return "", fmt.Errorf("no signing secret: set ECOHABITS_JWT_SECRET or run 'ecohabits login': %w", err)
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate signing secret: %w", err)
	}
	secret = hex.EncodeToString(buf)
	if err := keyring.SetSigningSecret(secret); err != nil {
		return "", err
	}
	logger.Info("Generated local signing secret")
	return secret, nil
}

// ResolveCaller verifies the --token flag, then ECOHABITS_TOKEN, then the
// keyring session. Any failure yields an anonymous caller.
func ResolveCaller(cfg config.Config, flag string) auth.Caller {
	token := flag
	if token == "" {
		token = cfg.Token
	}
	if token == "" {
		saved, err := keyring.GetSessionToken()
		if err != nil {
			return auth.Anonymous()
		}
		token = saved
	}

	secret, err := SigningSecret(cfg, false)
	if err != nil {
		logger.Warn("Cannot verify session token", "error", err)
		return auth.Anonymous()
	}
	caller, err := auth.ParseToken(cfg.TokenConfig(secret), token)
	if err != nil {
		logger.Warn("Ignoring session token", "error", err)
		return auth.Anonymous()
	}
	return caller
}

// ParseDate parses a YYYY-MM-DD log date in the local time zone.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(constants.DateFormat, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD)", s)
	}
	return t, nil
}
