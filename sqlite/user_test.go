package sqlite_test

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/fwojciec/harvest"
	"github.com/fwojciec/harvest/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_GetOrCreateUser(t *testing.T) {
	t.Parallel()

	t.Run("creates user with generated ID", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewUserService(setupTestDB(t))

		u, err := svc.GetOrCreateUser(context.Background(), "Ada", "Lovelace")
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, u.ID)
		assert.Equal(t, "Ada", u.FirstName)
		assert.Equal(t, "Lovelace", u.LastName)
	})

	t.Run("is idempotent on the natural key", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewUserService(setupTestDB(t))
		ctx := context.Background()

		first, err := svc.GetOrCreateUser(ctx, "Ada", "Lovelace")
		require.NoError(t, err)
		second, err := svc.GetOrCreateUser(ctx, "Ada", "Lovelace")
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("returns EINVALID for empty name part", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewUserService(setupTestDB(t))

		_, err := svc.GetOrCreateUser(context.Background(), "Ada", "")
		require.Error(t, err)
		assert.Equal(t, harvest.EINVALID, harvest.ErrorCode(err))
	})

	t.Run("concurrent callers on separate connections share one user", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "users.db")
		ctx := context.Background()

		const callers = 4
		var (
			wg   sync.WaitGroup
			ids  = make([]uuid.UUID, callers)
			errs = make([]error, callers)
		)
		for i := range callers {
			db := sqlite.NewDB(path)
			require.NoError(t, db.Open())
			t.Cleanup(func() { db.Close() })
			svc := sqlite.NewUserService(db)

			wg.Add(1)
			go func() {
				defer wg.Done()
				u, err := svc.GetOrCreateUser(ctx, "Grace", "Hopper")
				errs[i] = err
				if err == nil {
					ids[i] = u.ID
				}
			}()
		}
		wg.Wait()

		for i := range callers {
			require.NoError(t, errs[i])
			assert.Equal(t, ids[0], ids[i])
		}
	})
}

func TestUserService_ResolveUser(t *testing.T) {
	t.Parallel()

	t.Run("treats the last word as last name", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewUserService(setupTestDB(t))

		u, err := svc.ResolveUser(context.Background(), "Mary Ann Evans")
		require.NoError(t, err)
		assert.Equal(t, "Mary Ann", u.FirstName)
		assert.Equal(t, "Evans", u.LastName)
		assert.Equal(t, "Mary Ann Evans", u.FullName())
	})

	t.Run("returns EINVALID for a single word", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewUserService(setupTestDB(t))

		_, err := svc.ResolveUser(context.Background(), "Plato")
		require.Error(t, err)
		assert.Equal(t, harvest.EINVALID, harvest.ErrorCode(err))
	})
}

func TestUserService_FindUserByID(t *testing.T) {
	t.Parallel()

	t.Run("returns user when found", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewUserService(setupTestDB(t))
		ctx := context.Background()

		u, err := svc.GetOrCreateUser(ctx, "Ada", "Lovelace")
		require.NoError(t, err)

		found, err := svc.FindUserByID(ctx, u.ID)
		require.NoError(t, err)
		assert.Equal(t, u, found)
	})

	t.Run("returns ENOTFOUND when not found", func(t *testing.T) {
		t.Parallel()

		svc := sqlite.NewUserService(setupTestDB(t))

		_, err := svc.FindUserByID(context.Background(), uuid.New())
		require.Error(t, err)
		assert.Equal(t, harvest.ENOTFOUND, harvest.ErrorCode(err))
	})
}
