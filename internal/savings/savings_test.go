package savings

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/stash/internal/models"
	"github.com/mmynk/stash/internal/storage"
	"github.com/mmynk/stash/internal/storage/redis"
	"github.com/mmynk/stash/internal/storage/sqlite"
)

var testNow = time.Unix(1_700_000_000, 0)

type backend struct {
	name string
	open func(t *testing.T) storage.Store
}

var backends = []backend{
	{
		name: "sqlite",
		open: func(t *testing.T) storage.Store {
			store, err := sqlite.New(filepath.Join(t.TempDir(), "ledger.db"))
			require.NoError(t, err)
			t.Cleanup(func() { store.Close() })
			return store
		},
	},
	{
		name: "redis",
		open: func(t *testing.T) storage.Store {
			mr := miniredis.RunT(t)
			store, err := redis.New(context.Background(), redis.Options{Addr: mr.Addr()})
			require.NoError(t, err)
			t.Cleanup(func() { store.Close() })
			return store
		},
	},
}

// forEachBackend runs fn once per storage backend with a fresh ledger.
func forEachBackend(t *testing.T, fn func(t *testing.T, l *Ledger)) {
	t.Helper()
	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			fn(t, newTestLedger(t, b.open(t)))
		})
	}
}

func newTestLedger(t *testing.T, store storage.Store) *Ledger {
	t.Helper()
	return New(store,
		WithClock(func() time.Time { return testNow }),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func amt(v int64) models.Amount {
	return models.NewAmount(v)
}

func initUsers(t *testing.T, l *Ledger, addrs ...string) {
	t.Helper()
	for _, a := range addrs {
		require.NoError(t, l.InitializeUser(context.Background(), a))
	}
}

func groupParams(target int64) GroupSaveParams {
	return GroupSaveParams{
		Title:              "Test Group",
		Description:        "Test Description",
		Category:           "savings",
		TargetAmount:       amt(target),
		ContributionType:   0,
		ContributionAmount: amt(100),
		IsPublic:           true,
		StartTime:          1,
		EndTime:            1000,
	}
}

func createGroup(t *testing.T, l *Ledger, creator string, target int64) uint64 {
	t.Helper()
	id, err := l.CreateGroupSave(context.Background(), creator, groupParams(target))
	require.NoError(t, err)
	return id
}

func contribute(t *testing.T, l *Ledger, user string, planID uint64, amount int64) *ContributionResult {
	t.Helper()
	res, err := l.ContributeToGroupSave(context.Background(), user, planID, amt(amount))
	require.NoError(t, err)
	return res
}

func assertAmount(t *testing.T, want int64, got models.Amount, msgAndArgs ...any) {
	t.Helper()
	assert.True(t, got.Equal(amt(want)), append([]any{"want %d, got %s", want, got}, msgAndArgs...)...)
}

// assertGroupInvariants checks balance conservation, member count and the
// user-side membership index for one group plan.
func assertGroupInvariants(t *testing.T, l *Ledger, planID uint64) {
	t.Helper()
	ctx := context.Background()

	summary, err := l.GetGroupSave(ctx, planID)
	require.NoError(t, err)

	sum := models.ZeroAmount()
	for _, m := range summary.Members {
		sum = sum.Add(m.Contributed)

		user, err := l.GetUser(ctx, m.Address)
		require.NoError(t, err)
		assert.True(t, user.IsMemberOf(planID), "%s missing membership of %d", m.Address, planID)
		assert.False(t, user.TotalBalance.IsNegative(), "%s has negative balance", m.Address)
	}
	assert.True(t, sum.Equal(summary.Plan.Balance), "plan balance %s != sum of contributions %s", summary.Plan.Balance, sum)
	assert.Equal(t, uint32(len(summary.Members)), summary.Plan.Group.MemberCount)
}
