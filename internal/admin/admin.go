// Package admin implements the operator commands of the noteshare admin
// tool: creating accounts and switching them on or off.
package admin

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/dmitrijs2005/noteshare/internal/server/models"
	"github.com/dmitrijs2005/noteshare/internal/server/services"
)

// ErrUsage is returned for unknown commands or bad arguments.
var ErrUsage = errors.New("usage: admin [-d dsn] create-account | activate <id> | deactivate <id>")

type AccountAdmin interface {
	Create(ctx context.Context, in services.CreateAccountInput) (*models.Account, error)
	SetActive(ctx context.Context, id int64, active bool) error
}

type App struct {
	accounts AccountAdmin
	reader   *bufio.Reader
	out      io.Writer
}

func NewApp(accounts AccountAdmin, in io.Reader, out io.Writer) *App {
	return &App{accounts: accounts, reader: bufio.NewReader(in), out: out}
}

// Run executes one command given as args (without flags).
func (a *App) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}
	switch args[0] {
	case "create-account":
		if len(args) != 1 {
			return ErrUsage
		}
		return a.createAccount(ctx)
	case "activate", "deactivate":
		if len(args) != 2 {
			return ErrUsage
		}
		id, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("%w: id must be a positive integer", ErrUsage)
		}
		return a.setActive(ctx, id, args[0] == "activate")
	default:
		return ErrUsage
	}
}

func (a *App) createAccount(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	account, err := a.accounts.Create(ctx, services.CreateAccountInput{
		Name:     name,
		Email:    email,
		Password: password,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Account %d created for %s\n", account.ID, account.Email)
	return nil
}

func (a *App) setActive(ctx context.Context, id int64, active bool) error {
	if err := a.accounts.SetActive(ctx, id, active); err != nil {
		return err
	}
	state := "deactivated"
	if active {
		state = "activated"
	}
	fmt.Fprintf(a.out, "Account %d %s\n", id, state)
	return nil
}
