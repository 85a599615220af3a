package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/brimon/internal/common"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Login(ctx context.Context, args []string) error
	Logout(ctx context.Context) error
	WhoAmI(ctx context.Context) error
	Passwd(ctx context.Context, args []string) error
	Dashboard(ctx context.Context) error
	Tasks(ctx context.Context, args []string) error
	Task(ctx context.Context, args []string) error
	Orders(ctx context.Context, args []string) error
	Order(ctx context.Context, args []string) error
	Users(ctx context.Context) error
	User(ctx context.Context, args []string) error
	Projects(ctx context.Context) error
	Project(ctx context.Context, args []string) error
	Export(ctx context.Context, args []string) error
	Dump(ctx context.Context, args []string) error
	Restore(ctx context.Context, args []string) error
}

const helpLoggedOut = "Available commands: login [username], help, exit"

const helpLoggedIn = `Available commands:
  dashboard
  tasks [mine|all] [status=<status>] [project=<id>]
  task show|new|edit|status|comment|delete ...
  orders [mine|all]
  order show|new|status|arrival|notes ...
  projects, project new
  users, user add, user edit <username>
  passwd [username]
  export tasks|orders [mine|all] [csv|xlsx]
  dump <file>, restore <file>
  whoami, logout, exit`

// runREPL starts the read-eval-print loop of the shell.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a' with the remaining tokens.
// The loop exits on scanner EOF or when the user types "exit" or "quit".
//
// Before login only help, login and exit are accepted. Errors returned by
// handlers are printed as one line; an authorization failure always reads
// "access denied".
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("brimon %s> ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := strings.ToLower(parts[0]), parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn(helpLoggedIn)
			} else {
				printlnFn(helpLoggedOut)
			}
			continue

		case "exit", "quit":
			printlnFn("Bye!")
			return

		case "login":
			report(a.Login(ctx, args))
			continue
		}

		if !a.isLoggedIn() {
			if _, known := commands[cmd]; known {
				printlnFn("Please login first")
			} else {
				printlnFn("Unknown command:", cmd)
			}
			continue
		}

		run, ok := commands[cmd]
		if !ok {
			printlnFn("Unknown command:", cmd)
			continue
		}
		report(run(ctx, a, args))
	}
}

var commands = map[string]func(context.Context, execIface, []string) error{
	"logout":    func(ctx context.Context, a execIface, _ []string) error { return a.Logout(ctx) },
	"whoami":    func(ctx context.Context, a execIface, _ []string) error { return a.WhoAmI(ctx) },
	"passwd":    func(ctx context.Context, a execIface, args []string) error { return a.Passwd(ctx, args) },
	"dashboard": func(ctx context.Context, a execIface, _ []string) error { return a.Dashboard(ctx) },
	"tasks":     func(ctx context.Context, a execIface, args []string) error { return a.Tasks(ctx, args) },
	"task":      func(ctx context.Context, a execIface, args []string) error { return a.Task(ctx, args) },
	"orders":    func(ctx context.Context, a execIface, args []string) error { return a.Orders(ctx, args) },
	"order":     func(ctx context.Context, a execIface, args []string) error { return a.Order(ctx, args) },
	"users":     func(ctx context.Context, a execIface, _ []string) error { return a.Users(ctx) },
	"user":      func(ctx context.Context, a execIface, args []string) error { return a.User(ctx, args) },
	"projects":  func(ctx context.Context, a execIface, _ []string) error { return a.Projects(ctx) },
	"project":   func(ctx context.Context, a execIface, args []string) error { return a.Project(ctx, args) },
	"export":    func(ctx context.Context, a execIface, args []string) error { return a.Export(ctx, args) },
	"dump":      func(ctx context.Context, a execIface, args []string) error { return a.Dump(ctx, args) },
	"restore":   func(ctx context.Context, a execIface, args []string) error { return a.Restore(ctx, args) },
}

func report(err error) {
	if err != nil {
		printlnFn(errorMessage(err))
	}
}

// errorMessage turns a handler error into the line shown to the user.
func errorMessage(err error) string {
	var (
		authErr *common.AuthError
		usage   usageError
	)
	switch {
	case errors.As(err, &usage):
		return usage.Error()
	case errors.Is(err, common.ErrAccessDenied):
		return "access denied"
	case errors.Is(err, common.ErrInvalidCredentials):
		return "invalid username or password"
	case errors.Is(err, common.ErrUsernameTaken):
		return "username already taken"
	case errors.Is(err, common.ErrTimeout):
		return "login timed out, try again"
	case errors.Is(err, common.ErrorNotFound), errors.Is(err, common.ErrUserNotFound):
		return "not found"
	case errors.As(err, &authErr):
		return err.Error()
	}
	return "error: " + err.Error()
}

// usageError is returned for malformed command lines.
type usageError string

func (u usageError) Error() string { return "usage: " + string(u) }
