//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/tasklog-api/internal/domain"
	"github.com/phrazzld/tasklog-api/internal/platform/postgres"
	"github.com/phrazzld/tasklog-api/internal/store"
	"github.com/phrazzld/tasklog-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestUserStore_Integration(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		users := postgres.NewPostgresUserStore(tx, bcrypt.MinCost, nil)

		user, err := domain.NewUser("itest-"+uuid.NewString()[:8], "ITest-"+uuid.NewString()[:8]+"@Example.com", "secret1")
		require.NoError(t, err)
		require.NoError(t, users.Create(ctx, user))
		assert.Empty(t, user.Password)

		found, err := users.GetByEmail(ctx, user.Email)
		require.NoError(t, err)
		assert.Equal(t, user.ID, found.ID)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(found.HashedPassword), []byte("secret1")))

		dup, err := domain.NewUser(user.Username, "other-"+uuid.NewString()[:8]+"@example.com", "secret1")
		require.NoError(t, err)
		assert.ErrorIs(t, users.Create(ctx, dup), store.ErrUserExists)
	})
}

func TestTaskAndAuditStores_Integration(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()

	testdb.WithTx(t, db, func(t *testing.T, tx *sql.Tx) {
		tasks := postgres.NewPostgresTaskStore(tx, nil)
		audit := postgres.NewPostgresAuditStore(tx, nil)
		marker := "itest" + uuid.NewString()[:8]

		task, err := domain.NewTask(domain.TaskInput{Title: "Buy " + marker, Description: "100% oat_milk"},
			domain.NewSharedIdentity("admin"))
		require.NoError(t, err)
		require.NoError(t, tasks.Create(ctx, task))

		entry, err := domain.NewAuditLogEntry(domain.AuditActionCreate, task.ID,
			map[string]any{"title": task.Title, "description": task.Description}, "admin")
		require.NoError(t, err)
		require.NoError(t, audit.Append(ctx, entry))

		title := "Sell " + marker
		require.NoError(t, tasks.UpdateFields(ctx, task.ID, domain.TaskPatch{Title: &title}, time.Now().UTC()))

		got, err := tasks.GetByID(ctx, task.ID)
		require.NoError(t, err)
		assert.Equal(t, title, got.Title)
		assert.Nil(t, got.CreatedBy)
		assert.Equal(t, "admin", got.CreatedByName)

		page, total, err := tasks.List(ctx, store.TaskFilter{Search: marker, Limit: 5})
		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, page, 1)

		// LIKE metacharacters in the search term are matched literally.
		_, total, err = tasks.List(ctx, store.TaskFilter{Search: "100%", Limit: 5})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, total, 1)
		_, total, err = tasks.List(ctx, store.TaskFilter{Search: marker + "%zzz", Limit: 5})
		require.NoError(t, err)
		assert.Zero(t, total)

		require.NoError(t, tasks.Delete(ctx, task.ID))
		_, err = tasks.GetByID(ctx, task.ID)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)

		logs, _, err := audit.List(ctx, 0, 10)
		require.NoError(t, err)
		require.NotEmpty(t, logs)
		assert.Equal(t, task.ID, logs[0].TaskID)
		assert.Equal(t, task.Title, logs[0].UpdatedContent["title"])
	})
}
