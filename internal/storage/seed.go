package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/brimon/internal/dbx"
	"github.com/dmitrijs2005/brimon/internal/models"
	"github.com/google/uuid"
)

type seedUser struct {
	username    string
	displayName string
	role        models.Role
}

var seedUsers = []seedUser{
	{"avri", "Avri", models.RoleAdmin},
	{"daniel", "Daniel", models.RoleEmployee},
	{"sasha", "Sasha", models.RoleEmployee},
	{"mathy", "Mathy", models.RoleEmployee},
	{"morine", "Morine", models.RoleOrdersManager},
	{"noumi", "Noumi", models.RoleOrdersManager},
	{"yair", "Yair", models.RoleMiniAdmin},
	{"itamar", "Itamar", models.RoleMiniAdmin},
}

const (
	seedLang         = "he"
	seedProjectName  = "פרויקט הדגמה"
	seedTaskTitle    = "משימה ראשונית"
	seedTaskDesc     = "תיאור משימה"
	seedPlannedHours = 2
)

// SeedInitialData fills an empty store with the default users, a demo
// project and one task assigned to daniel. Users are created without
// credentials; the auth service derives them afterwards. Nothing happens
// when any user already exists. The result reports whether seeding ran.
func SeedInitialData(ctx context.Context, db *sql.DB, m Manager, now time.Time) (bool, error) {
	existing, err := m.Users(db).List(ctx)
	if err != nil {
		return false, err
	}
	if len(existing) > 0 {
		return false, nil
	}

	now = now.UTC()
	err = dbx.WithTx(ctx, db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := m.Users(tx)
		for _, su := range seedUsers {
			u := &models.User{
				ID:          uuid.NewString(),
				Username:    su.username,
				DisplayName: su.displayName,
				Role:        su.role,
				Lang:        seedLang,
				CreatedAt:   now,
			}
			if err := repo.Add(ctx, u); err != nil {
				return fmt.Errorf("failed to seed user %s: %w", su.username, err)
			}
		}

		project := &models.Project{ID: uuid.NewString(), Name: seedProjectName, Start: now, CreatedAt: now}
		if err := m.Projects(tx).Add(ctx, project); err != nil {
			return fmt.Errorf("failed to seed project: %w", err)
		}

		task := &models.Task{
			ID:           uuid.NewString(),
			ProjectID:    project.ID,
			Title:        seedTaskTitle,
			Description:  seedTaskDesc,
			PlannedHours: seedPlannedHours,
			Assignees:    []string{"daniel"},
			Status:       models.TaskUnassigned,
			TimeLog:      []models.TimeLogEntry{{Type: "plan", By: "system", Hours: seedPlannedHours, At: now}},
			CreatedAt:    now,
		}
		if err := m.Tasks(tx).Add(ctx, task); err != nil {
			return fmt.Errorf("failed to seed task: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}
