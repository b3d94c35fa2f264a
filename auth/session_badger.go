package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

const (
	sessionKeyPrefix          = "session:"
	sessionModeratorKeyPrefix = "session_mod:"
)

// BadgerSessionStore persists sessions in BadgerDB so they survive restarts.
// Entries carry a TTL matching the session expiry, so badger drops stale sessions itself.
type BadgerSessionStore struct {
	db  *badger.DB
	now func() time.Time
}

// OpenBadgerSessionStore opens (or creates) a badger database in dir.
// An empty dir opens an in-memory database.
func OpenBadgerSessionStore(dir string) (*BadgerSessionStore, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger session store: %w", err)
	}
	return NewBadgerSessionStore(db), nil
}

func NewBadgerSessionStore(db *badger.DB) *BadgerSessionStore {
	return &BadgerSessionStore{db: db, now: time.Now}
}

func moderatorKey(moderatorID uint, token string) []byte {
	return []byte(fmt.Sprintf("%s%d:%s", sessionModeratorKeyPrefix, moderatorID, token))
}

// Create stores a new session and its moderator index entry.
func (s *BadgerSessionStore) Create(_ context.Context, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		sessionEntry := badger.NewEntry([]byte(sessionKeyPrefix+session.Token), data)
		indexEntry := badger.NewEntry(moderatorKey(session.ModeratorID, session.Token), []byte(session.Token))
		if !session.ExpiresAt.IsZero() {
			ttl := session.ExpiresAt.Sub(s.now())
			if ttl <= 0 {
				return ErrSessionExpired
			}
			sessionEntry = sessionEntry.WithTTL(ttl)
			indexEntry = indexEntry.WithTTL(ttl)
		}

		if err := txn.SetEntry(sessionEntry); err != nil {
			return fmt.Errorf("set session: %w", err)
		}
		if err := txn.SetEntry(indexEntry); err != nil {
			return fmt.Errorf("set moderator index: %w", err)
		}
		return nil
	})
}

// Get retrieves a session by token.
func (s *BadgerSessionStore) Get(_ context.Context, token string) (*Session, error) {
	var session Session

	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(sessionKeyPrefix + token))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrSessionNotFound
		}
		if err != nil {
			return fmt.Errorf("get session: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &session)
		})
	})
	if err != nil {
		return nil, err
	}

	if session.IsExpired(s.now()) {
		return nil, ErrSessionExpired
	}
	return &session, nil
}

// Delete removes a session and its index entry.
func (s *BadgerSessionStore) Delete(ctx context.Context, token string) error {
	session, err := s.Get(ctx, token)
	if errors.Is(err, ErrSessionExpired) {
		return ErrSessionNotFound
	}
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Delete([]byte(sessionKeyPrefix + token)); err != nil {
			return fmt.Errorf("delete session: %w", err)
		}
		if err := txn.Delete(moderatorKey(session.ModeratorID, token)); err != nil {
			return fmt.Errorf("delete moderator index: %w", err)
		}
		return nil
	})
}

// DeleteByModerator removes every session of a moderator.
func (s *BadgerSessionStore) DeleteByModerator(_ context.Context, moderatorID uint) (int, error) {
	var tokens []string

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(fmt.Sprintf("%s%d:", sessionModeratorKeyPrefix, moderatorID))
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			err := it.Item().Value(func(val []byte) error {
				tokens = append(tokens, string(val))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("list moderator sessions: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		for _, token := range tokens {
			if err := txn.Delete([]byte(sessionKeyPrefix + token)); err != nil {
				return err
			}
			if err := txn.Delete(moderatorKey(moderatorID, token)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("delete moderator sessions: %w", err)
	}
	return len(tokens), nil
}

func (s *BadgerSessionStore) Close() error {
	return s.db.Close()
}
