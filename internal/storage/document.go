package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/brimon/internal/dbx"
	"github.com/dmitrijs2005/brimon/internal/models"
)

// ExportDocument reads the whole store into a Document stamped with now.
func ExportDocument(ctx context.Context, db *sql.DB, m Manager, now time.Time) (*models.Document, error) {
	doc := &models.Document{
		Meta:     models.Meta{CreatedAt: now.UTC(), Version: models.DocumentVersion},
		Users:    []models.User{},
		Projects: []models.Project{},
		Tasks:    []models.Task{},
		Orders:   []models.Order{},
	}

	err := dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		if doc.Users, err = orEmpty(m.Users(tx).List(ctx)); err != nil {
			return err
		}
		if doc.Projects, err = orEmpty(m.Projects(tx).List(ctx)); err != nil {
			return err
		}
		if doc.Tasks, err = orEmpty(m.Tasks(tx).List(ctx)); err != nil {
			return err
		}
		doc.Orders, err = orEmpty(m.Orders(tx).List(ctx))
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to export store: %w", err)
	}
	return doc, nil
}

func orEmpty[T any](v []T, err error) ([]T, error) {
	if v == nil {
		v = []T{}
	}
	return v, err
}

// ImportDocument replaces every user, project, task and order with the
// content of doc. The document is validated first and the replacement runs
// in one transaction, so a bad document leaves the store untouched.
// Metadata, including the session, is kept.
func ImportDocument(ctx context.Context, db *sql.DB, m Manager, doc *models.Document) error {
	if doc.Meta.Version > models.DocumentVersion {
		return fmt.Errorf("unsupported document version %d", doc.Meta.Version)
	}
	if err := doc.Validate(); err != nil {
		return err
	}

	return dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		u, p, t, o := m.Users(tx), m.Projects(tx), m.Tasks(tx), m.Orders(tx)

		for _, wipe := range []func(context.Context) error{u.Clear, p.Clear, t.Clear, o.Clear} {
			if err := wipe(ctx); err != nil {
				return err
			}
		}
		for i := range doc.Users {
			if err := u.Add(ctx, &doc.Users[i]); err != nil {
				return err
			}
		}
		for i := range doc.Projects {
			if err := p.Add(ctx, &doc.Projects[i]); err != nil {
				return err
			}
		}
		for i := range doc.Tasks {
			if err := t.Add(ctx, &doc.Tasks[i]); err != nil {
				return err
			}
		}
		for i := range doc.Orders {
			if err := o.Add(ctx, &doc.Orders[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteDocument encodes doc as indented JSON.
func WriteDocument(w io.Writer, doc *models.Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	return nil
}

// ReadDocument decodes a document written by WriteDocument.
func ReadDocument(r io.Reader) (*models.Document, error) {
	var doc models.Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return &doc, nil
}
