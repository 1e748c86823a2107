package redis

import (
	"context"
	"errors"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/stash/internal/models"
	"github.com/mmynk/stash/internal/storage"
)

func newTestStore(t *testing.T) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	store, err := New(context.Background(), Options{Addr: mr.Addr(), Prefix: "test"})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store, mr
}

func TestUsers(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		return tx.CreateUser(ctx, models.NewUser("alice"))
	}))
	assert.True(t, mr.Exists("test:user:alice"))

	err := store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		return tx.CreateUser(ctx, models.NewUser("alice"))
	})
	assert.ErrorIs(t, err, storage.ErrAlreadyExists)

	err = store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		_, err := tx.GetUser(ctx, "bob")
		return err
	})
	assert.ErrorIs(t, err, storage.ErrNotFound)

	require.NoError(t, store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		user, err := tx.GetUser(ctx, "alice")
		if err != nil {
			return err
		}
		user.TotalBalance = models.NewAmount(250)
		user.SavingsCount = 2
		return tx.UpdateUser(ctx, user)
	}))

	require.NoError(t, store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		user, err := tx.GetUser(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, user.TotalBalance.Equal(models.NewAmount(250)))
		assert.Equal(t, uint32(2), user.SavingsCount)
		assert.Empty(t, user.GroupMemberships)
		return nil
	}))
}

func TestPlansAndMembers(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	var planID uint64
	require.NoError(t, store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		for _, addr := range []string{"creator", "bob"} {
			if err := tx.CreateUser(ctx, models.NewUser(addr)); err != nil {
				return err
			}
		}
		id, err := tx.NextPlanID(ctx)
		if err != nil {
			return err
		}
		planID = id
		if err := tx.CreatePlan(ctx, &models.SavingsPlan{
			PlanID:  id,
			Owner:   "creator",
			Type:    models.Group{TargetAmount: models.NewAmount(1000), IsPublic: true, EndTime: 99},
			Balance: models.ZeroAmount(),
			Group:   &models.GroupInfo{Title: "Pool", MemberCount: 2},
		}); err != nil {
			return err
		}
		if err := tx.PutMember(ctx, &models.GroupMember{PlanID: id, Address: "creator", Contributed: models.ZeroAmount(), JoinedAt: 1}); err != nil {
			return err
		}
		return tx.PutMember(ctx, &models.GroupMember{PlanID: id, Address: "bob", Contributed: models.NewAmount(30), JoinedAt: 1})
	}))
	assert.Equal(t, uint64(1), planID)

	require.NoError(t, store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		plan, err := tx.GetPlan(ctx, planID)
		require.NoError(t, err)
		terms, ok := plan.GroupTerms()
		require.True(t, ok)
		assert.True(t, terms.TargetAmount.Equal(models.NewAmount(1000)))
		assert.True(t, terms.IsPublic)
		assert.Equal(t, uint64(99), terms.EndTime)
		require.NotNil(t, plan.Group)
		assert.Equal(t, "Pool", plan.Group.Title)

		members, err := tx.ListMembers(ctx, planID)
		require.NoError(t, err)
		require.Len(t, members, 2)
		assert.Equal(t, "bob", members[0].Address)
		assert.Equal(t, "creator", members[1].Address)

		user, err := tx.GetUser(ctx, "bob")
		require.NoError(t, err)
		assert.Equal(t, []uint64{planID}, user.GroupMemberships)

		plans, err := tx.ListPlansByOwner(ctx, "creator")
		require.NoError(t, err)
		assert.Len(t, plans, 1)
		return nil
	}))

	require.NoError(t, store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		return tx.DeleteMember(ctx, planID, "bob")
	}))

	require.NoError(t, store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		_, err := tx.GetMember(ctx, planID, "bob")
		assert.ErrorIs(t, err, storage.ErrNotFound)

		user, err := tx.GetUser(ctx, "bob")
		require.NoError(t, err)
		assert.Empty(t, user.GroupMemberships)

		assert.ErrorIs(t, tx.DeleteMember(ctx, planID, "bob"), storage.ErrNotFound)
		return nil
	}))
}

func TestWithTxDiscardsQueuedWritesOnError(t *testing.T) {
	store, mr := newTestStore(t)
	boom := errors.New("boom")

	err := store.WithTx(context.Background(), func(ctx context.Context, tx storage.Tx) error {
		if err := tx.CreateUser(ctx, models.NewUser("ghost")); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists("test:user:ghost"))
}

func TestWithTxReplaysOnConflict(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		return tx.CreateUser(ctx, models.NewUser("alice"))
	}))

	other := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer other.Close()

	attempts := 0
	require.NoError(t, store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		attempts++
		user, err := tx.GetUser(ctx, "alice")
		if err != nil {
			return err
		}
		if attempts == 1 {
			// Touch the watched key from another connection to abort EXEC.
			require.NoError(t, other.Set(ctx, "test:user:alice", `{"total_balance":"7","savings_count":0,"created_at":0}`, 0).Err())
		}
		user.TotalBalance = user.TotalBalance.Add(models.NewAmount(1))
		return tx.UpdateUser(ctx, user)
	}))
	assert.Equal(t, 2, attempts)

	require.NoError(t, store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		user, err := tx.GetUser(ctx, "alice")
		require.NoError(t, err)
		assert.True(t, user.TotalBalance.Equal(models.NewAmount(8)), "got %s", user.TotalBalance)
		return nil
	}))
}

func TestWithTxGivesUp(t *testing.T) {
	mr := miniredis.RunT(t)
	store := NewWithClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}), Options{MaxAttempts: 2})
	defer store.Close()
	ctx := context.Background()

	require.NoError(t, store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		return tx.CreateUser(ctx, models.NewUser("alice"))
	}))

	other := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer other.Close()

	err := store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		user, err := tx.GetUser(ctx, "alice")
		if err != nil {
			return err
		}
		require.NoError(t, other.Set(ctx, "stash:user:alice", `{"total_balance":"0","savings_count":0,"created_at":0}`, 0).Err())
		return tx.UpdateUser(ctx, user)
	})
	assert.ErrorIs(t, err, storage.ErrConflict)
}

// A concurrent write landing between GetPlan and UpdatePlan must abort the
// first attempt, even though UpdatePlan checks the plan key again.
func TestWithTxKeepsFirstWatchOnUpdate(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		return tx.CreatePlan(ctx, &models.SavingsPlan{
			PlanID:  1,
			Owner:   "alice",
			Type:    models.Flexi{},
			Balance: models.NewAmount(10),
		})
	}))

	writer := NewWithClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}), Options{Prefix: "test"})
	defer writer.Close()

	attempts := 0
	require.NoError(t, store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		attempts++
		plan, err := tx.GetPlan(ctx, 1)
		if err != nil {
			return err
		}
		if attempts == 1 {
			require.NoError(t, writer.WithTx(ctx, func(ctx context.Context, wtx storage.Tx) error {
				p, err := wtx.GetPlan(ctx, 1)
				if err != nil {
					return err
				}
				p.Balance = models.NewAmount(100)
				return wtx.UpdatePlan(ctx, p)
			}))
		}
		plan.Balance = plan.Balance.Add(models.NewAmount(1))
		return tx.UpdatePlan(ctx, plan)
	}))
	assert.Equal(t, 2, attempts)

	require.NoError(t, store.WithTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		plan, err := tx.GetPlan(ctx, 1)
		require.NoError(t, err)
		assert.True(t, plan.Balance.Equal(models.NewAmount(101)), "got %s", plan.Balance)
		return nil
	}))
}
