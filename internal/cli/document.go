package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/brimon/internal/authz"
	"github.com/dmitrijs2005/brimon/internal/common"
	"github.com/dmitrijs2005/brimon/internal/filex"
	"github.com/dmitrijs2005/brimon/internal/storage"
)

// requireAdmin allows whole-store operations only to user managers.
func (a *App) requireAdmin(what string) error {
	if !a.caller().Can(authz.ScopeUsers) {
		return fmt.Errorf("%w: %s", common.ErrAccessDenied, what)
	}
	return nil
}

// Dump writes the whole store as a JSON document: "dump <file>".
func (a *App) Dump(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("dump <file>")
	}
	if err := a.requireAdmin("dump"); err != nil {
		return err
	}

	doc, err := storage.ExportDocument(ctx, a.store.DB, a.store.Repos, a.now())
	if err != nil {
		return err
	}
	err = filex.WriteFile(args[0], func(w io.Writer) error {
		return storage.WriteDocument(w, doc)
	})
	if err != nil {
		return err
	}

	a.log.Info(ctx, "store dumped", "path", args[0], "by", a.user.Username)
	a.printf("Dumped %d users, %d tasks, %d orders to %s\n", len(doc.Users), len(doc.Tasks), len(doc.Orders), args[0])
	return nil
}

// Restore replaces users, projects, tasks and orders with the content of
// a JSON document: "restore <file>". The session is kept, but ends if its
// user is not in the document.
func (a *App) Restore(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return usageError("restore <file>")
	}
	if err := a.requireAdmin("restore"); err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	doc, err := storage.ReadDocument(f)
	if err != nil {
		return err
	}
	if err := storage.ImportDocument(ctx, a.store.DB, a.store.Repos, doc); err != nil {
		return err
	}

	a.log.Warn(ctx, "store restored", "path", args[0], "by", a.user.Username)
	a.printf("Restored %d users, %d tasks, %d orders\n", len(doc.Users), len(doc.Tasks), len(doc.Orders))

	if err := a.RestoreSession(ctx); err != nil {
		return err
	}
	if a.user == nil {
		a.printf("Your account is not in the restored data; logged out\n")
	}
	return nil
}
