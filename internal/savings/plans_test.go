package savings

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/stash/internal/models"
)

func TestOpenPlan(t *testing.T) {
	forEachBackend(t, func(t *testing.T, l *Ledger) {
		ctx := context.Background()
		initUsers(t, l, "alice", "bob")

		tests := []struct {
			name     string
			planType models.PlanType
			kind     models.PlanKind
		}{
			{"flexi", models.Flexi{}, models.KindFlexi},
			{"lock", models.Lock{UnlockTime: 5000}, models.KindLock},
			{"goal", models.Goal{Label: "bike", TargetAmount: amt(900), TargetTime: 7000}, models.KindGoal},
		}

		var ids []uint64
		for _, tt := range tests {
			id, err := l.OpenPlan(ctx, "alice", tt.planType, 10, 250)
			require.NoError(t, err, tt.name)
			ids = append(ids, id)

			plan, err := l.GetSavingsPlan(ctx, "alice", id)
			require.NoError(t, err, tt.name)
			assert.Equal(t, tt.kind, plan.Type.Kind(), tt.name)
			assert.Equal(t, tt.planType.Kind(), plan.Type.Kind(), tt.name)
			assert.Equal(t, uint64(10), plan.StartTime, tt.name)
			assert.Equal(t, uint32(250), plan.InterestRate, tt.name)
			assert.True(t, plan.Balance.IsZero(), tt.name)
			assert.False(t, plan.IsCompleted, tt.name)
			assert.Nil(t, plan.Group, tt.name)
		}

		lock, err := l.GetSavingsPlan(ctx, "alice", ids[1])
		require.NoError(t, err)
		assert.Equal(t, models.Lock{UnlockTime: 5000}, lock.Type)

		goal, err := l.GetSavingsPlan(ctx, "alice", ids[2])
		require.NoError(t, err)
		g, ok := goal.Type.(models.Goal)
		require.True(t, ok)
		assert.Equal(t, "bike", g.Label)
		assertAmount(t, 900, g.TargetAmount)
		assert.Equal(t, uint64(7000), g.TargetTime)

		alice, err := l.GetUser(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, uint32(3), alice.SavingsCount)
		assert.Empty(t, alice.GroupMemberships)

		plans, err := l.ListSavingsPlans(ctx, "alice")
		require.NoError(t, err)
		require.Len(t, plans, 3)
		for i, p := range plans {
			assert.Equal(t, ids[i], p.PlanID)
		}

		plans, err = l.ListSavingsPlans(ctx, "bob")
		require.NoError(t, err)
		assert.Empty(t, plans)

		t.Run("owner mismatch", func(t *testing.T) {
			_, err := l.GetSavingsPlan(ctx, "bob", ids[0])
			assert.ErrorIs(t, err, ErrPlanNotFound)
		})

		t.Run("unknown plan", func(t *testing.T) {
			_, err := l.GetSavingsPlan(ctx, "alice", 424242)
			assert.ErrorIs(t, err, ErrPlanNotFound)
		})
	})
}

func TestOpenPlanErrors(t *testing.T) {
	l := newTestLedger(t, backends[0].open(t))
	ctx := context.Background()
	initUsers(t, l, "alice")

	t.Run("group through OpenPlan", func(t *testing.T) {
		_, err := l.OpenPlan(ctx, "alice", models.Group{TargetAmount: amt(100)}, 1, 0)
		assert.ErrorIs(t, err, ErrWrongPlanType)
	})

	t.Run("nil plan type", func(t *testing.T) {
		_, err := l.OpenPlan(ctx, "alice", nil, 1, 0)
		assert.ErrorIs(t, err, ErrWrongPlanType)
	})

	t.Run("fractional goal", func(t *testing.T) {
		goal := models.Goal{Label: "x", TargetAmount: models.NewAmount(1).Div(models.NewAmount(8))}
		_, err := l.OpenPlan(ctx, "alice", goal, 1, 0)
		assert.ErrorIs(t, err, ErrInvalidAmount)
	})

	t.Run("unknown owner", func(t *testing.T) {
		_, err := l.OpenPlan(ctx, "ghost", models.Flexi{}, 1, 0)
		assert.ErrorIs(t, err, ErrUserNotFound)

		_, err = l.ListSavingsPlans(ctx, "ghost")
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	alice, err := l.GetUser(ctx, "alice")
	require.NoError(t, err)
	assert.Zero(t, alice.SavingsCount)
}
