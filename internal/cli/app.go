package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dmitrijs2005/brimon/internal/authz"
	"github.com/dmitrijs2005/brimon/internal/common"
	"github.com/dmitrijs2005/brimon/internal/config"
	"github.com/dmitrijs2005/brimon/internal/logging"
	"github.com/dmitrijs2005/brimon/internal/models"
	"github.com/dmitrijs2005/brimon/internal/services"
	"github.com/dmitrijs2005/brimon/internal/storage"
)

// ErrNotLoggedIn is returned by RunCommand when no session is stored.
var ErrNotLoggedIn = errors.New("not logged in: start brimon and login first")

type App struct {
	config    *config.Config
	store     *storage.Store
	log       logging.Logger
	auth      services.AuthService
	tasks     services.TaskService
	orders    services.OrderService
	users     services.UserService
	projects  services.ProjectService
	dashboard services.DashboardService
	policy    authz.Policy

	user    *models.User
	scanner *bufio.Scanner
	out     io.Writer
	now     func() time.Time
}

// NewApp wires the services over an open store. The store stays owned by
// the caller.
func NewApp(c *config.Config, store *storage.Store, log logging.Logger) (*App, error) {
	policy, err := authz.ParsePolicy(c.OrderWorkflow)
	if err != nil {
		return nil, err
	}

	auth := services.NewAuthService(store.DB, store.Repos, c, log)

	return &App{
		config:    c,
		store:     store,
		log:       log,
		auth:      auth,
		tasks:     services.NewTaskService(store.DB, store.Repos, log),
		orders:    services.NewOrderService(store.DB, store.Repos, policy, log),
		users:     services.NewUserService(store.DB, store.Repos, auth, log),
		projects:  services.NewProjectService(store.DB, store.Repos, log),
		dashboard: services.NewDashboardService(store.DB, store.Repos),
		policy:    policy,
		scanner:   bufio.NewScanner(os.Stdin),
		out:       os.Stdout,
		now:       time.Now,
	}, nil
}

// RestoreSession picks up the user of the stored session, if any.
func (a *App) RestoreSession(ctx context.Context) error {
	u, err := a.auth.CurrentUser(ctx)
	if err != nil {
		return err
	}
	a.user = u
	return nil
}

// Run restores the previous session and starts the shell on stdin.
func (a *App) Run(ctx context.Context) error {
	if err := a.RestoreSession(ctx); err != nil {
		return err
	}

	printlnFn("Welcome to brimon (type 'help' for commands)")
	if a.user != nil {
		printlnFn(fmt.Sprintf("Logged in as %s", a.user.Username))
	}

	runREPL(ctx, a, a.getStatus, a.scanner)
	return nil
}

// Seed fills an empty store with the demo data and gives every user without
// a credential the configured default password. It reports whether demo data
// was added and how many credentials were set.
func (a *App) Seed(ctx context.Context) (bool, int, error) {
	seeded, err := storage.SeedInitialData(ctx, a.store.DB, a.store.Repos, a.now())
	if err != nil {
		return false, 0, err
	}

	password := []byte(a.config.DefaultPassword)
	defer common.WipeByteArray(password)

	n, err := a.auth.SeedDefaultCredentials(ctx, password)
	if err != nil {
		return seeded, 0, err
	}
	return seeded, n, nil
}

// RunCommand executes one shell command outside the REPL, on behalf of the
// stored session.
func (a *App) RunCommand(ctx context.Context, name string, args []string) error {
	run, ok := commands[name]
	if !ok {
		return fmt.Errorf("unknown command %q", name)
	}
	if err := a.RestoreSession(ctx); err != nil {
		return err
	}
	if !a.isLoggedIn() {
		return ErrNotLoggedIn
	}
	return run(ctx, a, args)
}

func (a *App) isLoggedIn() bool {
	return a.user != nil
}

// caller identifies the session user to the services. Only valid when
// isLoggedIn.
func (a *App) caller() authz.Caller {
	return authz.CallerOf(a.user)
}

func (a *App) getStatus() string {
	if a.user == nil {
		return ""
	}
	return fmt.Sprintf("(%s %s)", a.user.Username, a.user.Role)
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) prompt(text string) (string, error) {
	return getSimpleText(a.scanner, text, a.out)
}
