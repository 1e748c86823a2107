package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/stash/internal/models"
	"github.com/mmynk/stash/internal/storage"
)

// GetMember retrieves one membership record.
func (t *sqliteTx) GetMember(ctx context.Context, planID uint64, address string) (*models.GroupMember, error) {
	member := &models.GroupMember{PlanID: planID, Address: address}
	var joinedAt int64
	err := t.tx.QueryRowContext(ctx,
		"SELECT contributed, joined_at FROM group_members WHERE plan_id = ? AND address = ?",
		int64(planID), address,
	).Scan(&member.Contributed, &joinedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("member %s of plan %d: %w", address, planID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get member: %w", err)
	}
	member.JoinedAt = uint64(joinedAt)
	return member, nil
}

// PutMember inserts or replaces a membership record.
func (t *sqliteTx) PutMember(ctx context.Context, member *models.GroupMember) error {
	_, err := t.tx.ExecContext(ctx,
		`INSERT INTO group_members (plan_id, address, contributed, joined_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(plan_id, address) DO UPDATE SET contributed = excluded.contributed, joined_at = excluded.joined_at`,
		int64(member.PlanID), member.Address, member.Contributed, int64(member.JoinedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to put member: %w", err)
	}
	return nil
}

// DeleteMember removes a membership record.
func (t *sqliteTx) DeleteMember(ctx context.Context, planID uint64, address string) error {
	res, err := t.tx.ExecContext(ctx,
		"DELETE FROM group_members WHERE plan_id = ? AND address = ?",
		int64(planID), address,
	)
	if err != nil {
		return fmt.Errorf("failed to delete member: %w", err)
	}
	return requireRow(res, fmt.Sprintf("member %s of plan %d", address, planID))
}

// ListMembers retrieves the members of a plan in join order.
func (t *sqliteTx) ListMembers(ctx context.Context, planID uint64) ([]*models.GroupMember, error) {
	rows, err := t.tx.QueryContext(ctx,
		"SELECT address, contributed, joined_at FROM group_members WHERE plan_id = ? ORDER BY joined_at, address",
		int64(planID),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*models.GroupMember
	for rows.Next() {
		member := &models.GroupMember{PlanID: planID}
		var joinedAt int64
		if err := rows.Scan(&member.Address, &member.Contributed, &joinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		member.JoinedAt = uint64(joinedAt)
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}
