package system

import (
	"errors"
	"fmt"

	"github.com/julianstephens/ecohabits/internal/auth"
	"github.com/julianstephens/ecohabits/internal/cli"
	"github.com/julianstephens/ecohabits/internal/keyring"
)

// LoginCmd issues a local session token. There is no password: the token
// only scopes this machine's data to a user ID.
type LoginCmd struct {
	User  string `required:"" help:"User ID to act as."`
	Print bool   `help:"Print the token instead of saving it in the keyring."`
}

func (c *LoginCmd) Run(ctx *cli.Context) error {
	secret, err := cli.SigningSecret(ctx.Config, true)
	if err != nil {
		return err
	}
	token, err := auth.IssueToken(ctx.Config.TokenConfig(secret), c.User)
	if err != nil {
		return err
	}

	if c.Print {
		ctx.Println(token)
		return nil
	}
	if !keyring.IsAvailable() {
		return fmt.Errorf("%w: use --print and ECOHABITS_TOKEN instead", keyring.ErrKeyringUnavailable)
	}
	if err := keyring.SetSessionToken(token); err != nil {
		return fmt.Errorf("%w (use --print and ECOHABITS_TOKEN instead)", err)
	}
	ctx.Printf("Logged in as %s\n", c.User)
	return nil
}

type LogoutCmd struct{}

func (c *LogoutCmd) Run(ctx *cli.Context) error {
	if err := keyring.DeleteSessionToken(); err != nil && !errors.Is(err, keyring.ErrNotFound) {
		return err
	}
	ctx.Println("Logged out.")
	return nil
}

type WhoamiCmd struct{}

func (c *WhoamiCmd) Run(ctx *cli.Context) error {
	if !ctx.Caller.Authenticated() {
		ctx.Println("Not logged in.")
		return nil
	}
	ctx.Println(ctx.Caller.UserID)
	return nil
}
