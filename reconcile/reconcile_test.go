package reconcile

import (
	"context"
	"errors"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errMissing = errors.New("missing")

type techFields struct {
	Desc string
}

// memoryStore is a single-parent child table with sequential IDs.
type memoryStore struct {
	rows   map[uint]techFields
	nextID uint
	ops    []string
}

func newMemoryStore(rows map[uint]techFields) *memoryStore {
	s := &memoryStore{rows: make(map[uint]techFields), nextID: 1}
	for id, f := range rows {
		s.rows[id] = f
		if id >= s.nextID {
			s.nextID = id + 1
		}
	}
	return s
}

func (s *memoryStore) Delete(_ context.Context, id uint) error {
	if _, ok := s.rows[id]; !ok {
		return errMissing
	}
	delete(s.rows, id)
	s.ops = append(s.ops, "delete")
	return nil
}

func (s *memoryStore) Create(_ context.Context, f techFields) (uint, error) {
	id := s.nextID
	s.nextID++
	s.rows[id] = f
	s.ops = append(s.ops, "create")
	return id, nil
}

func (s *memoryStore) Update(_ context.Context, id uint, f techFields) error {
	if _, ok := s.rows[id]; !ok {
		return errMissing
	}
	s.rows[id] = f
	s.ops = append(s.ops, "update")
	return nil
}

func (s *memoryStore) ids() []uint {
	ids := make([]uint, 0, len(s.rows))
	for id := range s.rows {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func idPtr(id uint) *uint { return &id }

func TestReconcile_ReplacesCollection(t *testing.T) {
	store := newMemoryStore(map[uint]techFields{1: {"A"}, 2: {"B"}})

	result, err := Reconcile(context.Background(), store, store.ids(), []Entry[techFields]{
		{ID: idPtr(1), Fields: techFields{"A2"}},
		{ID: nil, Fields: techFields{"C"}},
	})
	require.NoError(t, err)

	assert.Equal(t, []uint{1, 3}, store.ids())
	assert.Equal(t, "A2", store.rows[1].Desc)
	assert.Equal(t, "C", store.rows[3].Desc)
	assert.Equal(t, []uint{2}, result.Deleted)
	assert.Equal(t, []uint{3}, result.Created)
	assert.Equal(t, []uint{1}, result.Updated)
	assert.Equal(t, []string{"delete", "create", "update"}, store.ops)
}

func TestReconcile_EmptySubmissionDeletesEverything(t *testing.T) {
	store := newMemoryStore(map[uint]techFields{4: {"x"}, 9: {"y"}})

	_, err := Reconcile(context.Background(), store, store.ids(), nil)
	require.NoError(t, err)
	assert.Empty(t, store.ids())
}

func TestReconcile_UnknownIDFails(t *testing.T) {
	store := newMemoryStore(map[uint]techFields{1: {"A"}})

	_, err := Reconcile(context.Background(), store, store.ids(), []Entry[techFields]{
		{ID: idPtr(1), Fields: techFields{"A"}},
		{ID: idPtr(42), Fields: techFields{"ghost"}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errMissing)
	assert.Contains(t, err.Error(), "update 42")
}

func TestReconcile_StoredRowGoneAtDeleteFails(t *testing.T) {
	store := newMemoryStore(map[uint]techFields{1: {"A"}})

	// 7 is believed stored but no longer exists.
	_, err := Reconcile(context.Background(), store, []uint{1, 7}, []Entry[techFields]{
		{ID: idPtr(1), Fields: techFields{"A"}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, errMissing)
	assert.Contains(t, err.Error(), "delete 7")
}

func TestDiff_DuplicateID(t *testing.T) {
	_, err := Diff([]uint{1}, []Entry[techFields]{
		{ID: idPtr(1), Fields: techFields{"a"}},
		{ID: idPtr(1), Fields: techFields{"b"}},
	})
	assert.ErrorIs(t, err, ErrDuplicateID)
}

func TestDiff_NoChanges(t *testing.T) {
	plan, err := Diff[techFields](nil, nil)
	require.NoError(t, err)
	assert.True(t, plan.Empty())
}

func TestReconcile_RandomCollections(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	for i := 0; i < 200; i++ {
		initial := make(map[uint]techFields)
		for n := rng.Intn(8); n > 0; n-- {
			initial[uint(rng.Intn(20)+1)] = techFields{Desc: "old"}
		}
		store := newMemoryStore(initial)
		stored := store.ids()

		var submitted []Entry[techFields]
		kept := make(map[uint]string)
		for _, id := range stored {
			if rng.Intn(2) == 0 {
				desc := "new-" + string(rune('a'+rng.Intn(26)))
				submitted = append(submitted, Entry[techFields]{ID: idPtr(id), Fields: techFields{desc}})
				kept[id] = desc
			}
		}
		newCount := rng.Intn(4)
		for n := 0; n < newCount; n++ {
			submitted = append(submitted, Entry[techFields]{Fields: techFields{"fresh"}})
		}
		rng.Shuffle(len(submitted), func(a, b int) { submitted[a], submitted[b] = submitted[b], submitted[a] })

		result, err := Reconcile(context.Background(), store, stored, submitted)
		require.NoError(t, err)

		want := make(map[uint]bool)
		for id := range kept {
			want[id] = true
		}
		for _, id := range result.Created {
			want[id] = true
			assert.Equal(t, "fresh", store.rows[id].Desc)
		}
		assert.Len(t, result.Created, newCount)
		assert.Len(t, store.rows, len(want))
		for id := range want {
			_, ok := store.rows[id]
			assert.True(t, ok, "id %d should be stored", id)
		}
		for id, desc := range kept {
			assert.Equal(t, desc, store.rows[id].Desc)
		}
	}
}
