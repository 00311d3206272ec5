package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/authcore/internal/audit"
	"github.com/mrlokans/authcore/internal/database"
	auditRepo "github.com/mrlokans/authcore/internal/database/audit"
	"github.com/mrlokans/authcore/internal/entities"
)

func seedEvents(t *testing.T, dbPath string, events ...*entities.AuthEvent) {
	t.Helper()
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)
	defer db.Close()

	svc := audit.NewService(auditRepo.NewRepository(db.DB))
	for _, ev := range events {
		require.NoError(t, svc.Log(context.Background(), ev))
	}
}

func TestEventsList(t *testing.T) {
	dbPath := setupCLI(t)

	out, err := execute(t, dbPath, "events", "list")
	require.NoError(t, err)
	assert.Equal(t, "0 of 0 events\n", out)

	seedEvents(t, dbPath,
		&entities.AuthEvent{UserID: "user-1", Action: entities.AuthActionLogin, Strategy: "service", Status: entities.AuditStatusSuccess},
		&entities.AuthEvent{UserID: "user-2", Action: entities.AuthActionLogout, Strategy: "service", Status: entities.AuditStatusSuccess},
	)

	out, err = execute(t, dbPath, "events", "list", "--user-id", "user-1")
	require.NoError(t, err)
	assert.Contains(t, out, "action=login;")
	assert.Contains(t, out, "user_id=user-1;")
	assert.NotContains(t, out, "user-2")
	assert.Contains(t, out, "1 of 1 events")
}

func TestEventsPrune(t *testing.T) {
	dbPath := setupCLI(t)
	now := time.Now()

	seedEvents(t, dbPath,
		&entities.AuthEvent{Action: entities.AuthActionLogin, Status: entities.AuditStatusFailed, CreatedAt: now.Add(-60 * 24 * time.Hour)},
		&entities.AuthEvent{Action: entities.AuthActionLogin, Status: entities.AuditStatusSuccess, CreatedAt: now.Add(-time.Hour)},
	)

	out, err := execute(t, dbPath, "events", "prune")
	require.NoError(t, err)
	assert.Equal(t, "deleted 1 events\n", out)

	_, err = execute(t, dbPath, "events", "prune", "--older-than", "0s")
	assert.Error(t, err)
}
