// Package reconcile synchronizes a parent's stored child collection with a client-submitted
// replacement collection.
//
// The submitted collection is the desired final state, not a delta. Entries with a nil ID are
// new rows; entries with an ID update the stored row of that ID; stored rows whose ID is not
// submitted are deleted. The three groups touch disjoint IDs, so Apply runs deletions, then
// creations, then updates, and stops at the first failure. Callers are expected to run Apply
// inside a transaction so that a failure leaves nothing behind.
package reconcile

import (
	"context"
	"errors"
	"fmt"
)

// ErrDuplicateID is returned when one submitted collection names the same ID twice.
var ErrDuplicateID = errors.New("duplicate id in submitted collection")

// Entry is one submitted child: a nil ID asks for a new row.
type Entry[F any] struct {
	ID     *uint
	Fields F
}

// Store applies child mutations scoped to a single parent. Delete and Update must fail with
// a not-found error when the ID does not exist under that parent.
type Store[F any] interface {
	Delete(ctx context.Context, id uint) error
	Create(ctx context.Context, fields F) (uint, error)
	Update(ctx context.Context, id uint, fields F) error
}

// Plan is the set of mutations turning a stored collection into a submitted one.
type Plan[F any] struct {
	Deletes []uint
	Creates []F
	Updates []Update[F]
}

type Update[F any] struct {
	ID     uint
	Fields F
}

// Empty reports whether the plan changes nothing.
func (p Plan[F]) Empty() bool {
	return len(p.Deletes) == 0 && len(p.Creates) == 0 && len(p.Updates) == 0
}

// Result lists the IDs touched by Apply.
type Result struct {
	Deleted []uint
	Created []uint
	Updated []uint
}

// Diff computes the plan for storedIDs against submitted. Submitted order is preserved for
// creations and updates. IDs submitted but not stored are kept in the plan as updates so the
// store reports them as missing.
func Diff[F any](storedIDs []uint, submitted []Entry[F]) (Plan[F], error) {
	var plan Plan[F]

	submittedIDs := make(map[uint]struct{}, len(submitted))
	for _, entry := range submitted {
		if entry.ID == nil {
			plan.Creates = append(plan.Creates, entry.Fields)
			continue
		}
		if _, seen := submittedIDs[*entry.ID]; seen {
			return Plan[F]{}, fmt.Errorf("%w: %d", ErrDuplicateID, *entry.ID)
		}
		submittedIDs[*entry.ID] = struct{}{}
		plan.Updates = append(plan.Updates, Update[F]{ID: *entry.ID, Fields: entry.Fields})
	}

	for _, id := range storedIDs {
		if _, keep := submittedIDs[id]; !keep {
			plan.Deletes = append(plan.Deletes, id)
		}
	}

	return plan, nil
}

// Apply executes plan against store: deletions, then creations, then updates.
func Apply[F any](ctx context.Context, store Store[F], plan Plan[F]) (Result, error) {
	var result Result

	for _, id := range plan.Deletes {
		if err := store.Delete(ctx, id); err != nil {
			return result, fmt.Errorf("delete %d: %w", id, err)
		}
		result.Deleted = append(result.Deleted, id)
	}

	for _, fields := range plan.Creates {
		id, err := store.Create(ctx, fields)
		if err != nil {
			return result, fmt.Errorf("create: %w", err)
		}
		result.Created = append(result.Created, id)
	}

	for _, u := range plan.Updates {
		if err := store.Update(ctx, u.ID, u.Fields); err != nil {
			return result, fmt.Errorf("update %d: %w", u.ID, err)
		}
		result.Updated = append(result.Updated, u.ID)
	}

	return result, nil
}

// Reconcile diffs and applies in one call.
func Reconcile[F any](ctx context.Context, store Store[F], storedIDs []uint, submitted []Entry[F]) (Result, error) {
	plan, err := Diff(storedIDs, submitted)
	if err != nil {
		return Result{}, err
	}
	return Apply(ctx, store, plan)
}
