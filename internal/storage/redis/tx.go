package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	goredis "github.com/redis/go-redis/v9"

	"github.com/mmynk/stash/internal/models"
	"github.com/mmynk/stash/internal/storage"
)

// redisTx implements storage.Tx. Reads go straight to Redis after watching
// their keys; writes are queued and sent in one MULTI/EXEC by commit.
type redisTx struct {
	rtx     *goredis.Tx
	keys    keyspace
	ops     []func(pipe goredis.Pipeliner)
	watched map[string]struct{}
}

func newRedisTx(rtx *goredis.Tx, keys keyspace) *redisTx {
	return &redisTx{rtx: rtx, keys: keys, watched: make(map[string]struct{})}
}

// watch issues WATCH once per key. Watching a key again would move its
// check point past changes made since the first read.
func (t *redisTx) watch(ctx context.Context, keys ...string) error {
	var fresh []string
	for _, k := range keys {
		if _, ok := t.watched[k]; !ok {
			fresh = append(fresh, k)
		}
	}
	if len(fresh) == 0 {
		return nil
	}
	if err := t.rtx.Watch(ctx, fresh...).Err(); err != nil {
		return fmt.Errorf("failed to watch keys: %w", err)
	}
	for _, k := range fresh {
		t.watched[k] = struct{}{}
	}
	return nil
}

func (t *redisTx) queue(op func(pipe goredis.Pipeliner)) {
	t.ops = append(t.ops, op)
}

func (t *redisTx) commit(ctx context.Context) error {
	if len(t.ops) == 0 {
		return nil
	}
	_, err := t.rtx.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		for _, op := range t.ops {
			op(pipe)
		}
		return nil
	})
	return err
}

// getJSON loads and decodes a JSON value. Missing keys map to storage.ErrNotFound.
func (t *redisTx) getJSON(ctx context.Context, key string, v any) error {
	if err := t.watch(ctx, key); err != nil {
		return err
	}
	raw, err := t.rtx.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return fmt.Errorf("%s: %w", key, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return nil
}

func (t *redisTx) exists(ctx context.Context, key string) (bool, error) {
	if err := t.watch(ctx, key); err != nil {
		return false, err
	}
	n, err := t.rtx.Exists(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", key, err)
	}
	return n > 0, nil
}

func (t *redisTx) setJSON(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	t.queue(func(pipe goredis.Pipeliner) {
		pipe.Set(context.Background(), key, raw, 0)
	})
	return nil
}

// readIDs returns the members of a set of plan ids, sorted ascending.
func (t *redisTx) readIDs(ctx context.Context, key string) ([]uint64, error) {
	if err := t.watch(ctx, key); err != nil {
		return nil, err
	}
	raw, err := t.rtx.SMembers(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	ids := make([]uint64, 0, len(raw))
	for _, s := range raw {
		id, err := strconv.ParseUint(s, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("corrupt plan id %q in %s: %w", s, key, err)
		}
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// UserExists reports whether a user key exists.
func (t *redisTx) UserExists(ctx context.Context, address string) (bool, error) {
	return t.exists(ctx, t.keys.user(address))
}

// GetUser loads a user and its group membership set.
func (t *redisTx) GetUser(ctx context.Context, address string) (*models.User, error) {
	var rec userRecord
	if err := t.getJSON(ctx, t.keys.user(address), &rec); err != nil {
		return nil, err
	}
	groups, err := t.readIDs(ctx, t.keys.userGroups(address))
	if err != nil {
		return nil, err
	}
	return &models.User{
		Address:          address,
		TotalBalance:     rec.TotalBalance,
		SavingsCount:     rec.SavingsCount,
		GroupMemberships: groups,
		CreatedAt:        rec.CreatedAt,
	}, nil
}

// CreateUser queues a new user record.
func (t *redisTx) CreateUser(ctx context.Context, user *models.User) error {
	key := t.keys.user(user.Address)
	exists, err := t.exists(ctx, key)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("user %s: %w", user.Address, storage.ErrAlreadyExists)
	}
	return t.setJSON(key, userRecord{
		TotalBalance: user.TotalBalance,
		SavingsCount: user.SavingsCount,
		CreatedAt:    user.CreatedAt,
	})
}

// UpdateUser queues the new balance and plan count.
func (t *redisTx) UpdateUser(ctx context.Context, user *models.User) error {
	key := t.keys.user(user.Address)
	exists, err := t.exists(ctx, key)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("user %s: %w", user.Address, storage.ErrNotFound)
	}
	return t.setJSON(key, userRecord{
		TotalBalance: user.TotalBalance,
		SavingsCount: user.SavingsCount,
		CreatedAt:    user.CreatedAt,
	})
}

// NextPlanID increments the counter immediately, outside the MULTI block.
// An aborted transaction leaves a gap in the sequence.
func (t *redisTx) NextPlanID(ctx context.Context) (uint64, error) {
	id, err := t.rtx.Incr(ctx, t.keys.planCounter()).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to allocate plan id: %w", err)
	}
	return uint64(id), nil
}

// CreatePlan queues the plan record and its owner index entry.
func (t *redisTx) CreatePlan(ctx context.Context, plan *models.SavingsPlan) error {
	rec, err := toPlanRecord(plan)
	if err != nil {
		return fmt.Errorf("failed to create plan: %w", err)
	}
	if err := t.setJSON(t.keys.plan(plan.PlanID), rec); err != nil {
		return err
	}
	ownerKey := t.keys.ownerPlans(plan.Owner)
	id := strconv.FormatUint(plan.PlanID, 10)
	t.queue(func(pipe goredis.Pipeliner) {
		pipe.SAdd(context.Background(), ownerKey, id)
	})
	return nil
}

// GetPlan loads a plan by id.
func (t *redisTx) GetPlan(ctx context.Context, planID uint64) (*models.SavingsPlan, error) {
	var rec planRecord
	if err := t.getJSON(ctx, t.keys.plan(planID), &rec); err != nil {
		return nil, err
	}
	return rec.toModel()
}

// UpdatePlan queues the full plan record.
func (t *redisTx) UpdatePlan(ctx context.Context, plan *models.SavingsPlan) error {
	key := t.keys.plan(plan.PlanID)
	exists, err := t.exists(ctx, key)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("plan %d: %w", plan.PlanID, storage.ErrNotFound)
	}
	rec, err := toPlanRecord(plan)
	if err != nil {
		return fmt.Errorf("failed to update plan: %w", err)
	}
	return t.setJSON(key, rec)
}

// ListPlansByOwner loads every plan in the owner's index.
func (t *redisTx) ListPlansByOwner(ctx context.Context, address string) ([]*models.SavingsPlan, error) {
	ids, err := t.readIDs(ctx, t.keys.ownerPlans(address))
	if err != nil {
		return nil, err
	}
	plans := make([]*models.SavingsPlan, 0, len(ids))
	for _, id := range ids {
		plan, err := t.GetPlan(ctx, id)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

// GetMember loads one field of the plan's members hash.
func (t *redisTx) GetMember(ctx context.Context, planID uint64, address string) (*models.GroupMember, error) {
	key := t.keys.members(planID)
	if err := t.watch(ctx, key); err != nil {
		return nil, err
	}
	raw, err := t.rtx.HGet(ctx, key, address).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, fmt.Errorf("member %s of plan %d: %w", address, planID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	return decodeMember(planID, address, raw)
}

// PutMember queues the member record and the user's membership entry.
func (t *redisTx) PutMember(ctx context.Context, member *models.GroupMember) error {
	raw, err := json.Marshal(memberRecord{Contributed: member.Contributed, JoinedAt: member.JoinedAt})
	if err != nil {
		return fmt.Errorf("failed to encode member: %w", err)
	}
	membersKey := t.keys.members(member.PlanID)
	groupsKey := t.keys.userGroups(member.Address)
	id := strconv.FormatUint(member.PlanID, 10)
	t.queue(func(pipe goredis.Pipeliner) {
		pipe.HSet(context.Background(), membersKey, member.Address, raw)
		pipe.SAdd(context.Background(), groupsKey, id)
	})
	return nil
}

// DeleteMember queues removal of the member record and membership entry.
func (t *redisTx) DeleteMember(ctx context.Context, planID uint64, address string) error {
	membersKey := t.keys.members(planID)
	if err := t.watch(ctx, membersKey); err != nil {
		return err
	}
	present, err := t.rtx.HExists(ctx, membersKey, address).Result()
	if err != nil {
		return fmt.Errorf("failed to check member: %w", err)
	}
	if !present {
		return fmt.Errorf("member %s of plan %d: %w", address, planID, storage.ErrNotFound)
	}
	groupsKey := t.keys.userGroups(address)
	id := strconv.FormatUint(planID, 10)
	t.queue(func(pipe goredis.Pipeliner) {
		pipe.HDel(context.Background(), membersKey, address)
		pipe.SRem(context.Background(), groupsKey, id)
	})
	return nil
}

// ListMembers loads the whole members hash, ordered by join time then address.
func (t *redisTx) ListMembers(ctx context.Context, planID uint64) ([]*models.GroupMember, error) {
	key := t.keys.members(planID)
	if err := t.watch(ctx, key); err != nil {
		return nil, err
	}
	all, err := t.rtx.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}

	members := make([]*models.GroupMember, 0, len(all))
	for address, raw := range all {
		member, err := decodeMember(planID, address, []byte(raw))
		if err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	sort.Slice(members, func(i, j int) bool {
		if members[i].JoinedAt != members[j].JoinedAt {
			return members[i].JoinedAt < members[j].JoinedAt
		}
		return members[i].Address < members[j].Address
	})
	return members, nil
}

func decodeMember(planID uint64, address string, raw []byte) (*models.GroupMember, error) {
	var rec memberRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode member %s of plan %d: %w", address, planID, err)
	}
	return &models.GroupMember{
		PlanID:      planID,
		Address:     address,
		Contributed: rec.Contributed,
		JoinedAt:    rec.JoinedAt,
	}, nil
}
