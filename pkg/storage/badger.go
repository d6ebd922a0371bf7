package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync/atomic"

	"github.com/dgraph-io/badger/v4"
)

type BadgerConfig struct {
	// Dir is ignored when InMemory is set.
	Dir        string
	InMemory   bool
	SyncWrites bool
	// Logger receives badger's internal logs; nil silences them.
	Logger *slog.Logger
}

// BadgerStore is a persistent Storage. Keys are "<relation>\x00<key>", so a
// relation scan is a prefix iteration that already yields key order.
type BadgerStore struct {
	db     *badger.DB
	closed atomic.Bool
}

// badgerLogger adapts slog.Logger to badger.Logger.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...any) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func OpenBadger(cfg BadgerConfig) (*BadgerStore, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Dir == "" {
			return nil, errors.New("badger: dir is required for a persistent store")
		}
		if err := os.MkdirAll(cfg.Dir, 0750); err != nil {
			return nil, fmt.Errorf("badger: create dir %s: %w", cfg.Dir, err)
		}
		opts = badger.DefaultOptions(cfg.Dir)
	}

	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Get(ctx context.Context, relation, key string) (json.RawMessage, bool, error) {
	if err := s.check(ctx, relation, key); err != nil {
		return nil, false, err
	}

	var doc json.RawMessage
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(compositeKey(relation, key)))
		if err != nil {
			return err
		}
		doc, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("badger: get %s/%s: %w", relation, key, err)
	}
	return doc, true, nil
}

func (s *BadgerStore) Put(ctx context.Context, relation, key string, value any) error {
	if err := s.check(ctx, relation, key); err != nil {
		return err
	}
	doc, err := encode(value)
	if err != nil {
		return err
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(compositeKey(relation, key)), doc)
	})
	if err != nil {
		return fmt.Errorf("badger: put %s/%s: %w", relation, key, err)
	}
	return nil
}

func (s *BadgerStore) Del(ctx context.Context, relation, key string) error {
	if err := s.check(ctx, relation, key); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(compositeKey(relation, key)))
	})
	if err != nil {
		return fmt.Errorf("badger: delete %s/%s: %w", relation, key, err)
	}
	return nil
}

func (s *BadgerStore) Find(ctx context.Context, relation string, filter map[string]any) ([]json.RawMessage, error) {
	if relation == "" {
		return nil, ErrEmptyRelation
	}
	if s.closed.Load() {
		return nil, ErrClosed
	}
	norm, err := normalizeFilter(filter)
	if err != nil {
		return nil, err
	}

	out := make([]json.RawMessage, 0)
	prefix := []byte(relation + keySeparator)
	err = s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			doc, err := it.Item().ValueCopy(nil)
			if err != nil {
				return err
			}
			if matches(doc, norm) {
				out = append(out, doc)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("badger: find %s: %w", relation, err)
	}
	return out, nil
}

// Close is idempotent.
func (s *BadgerStore) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	return s.db.Close()
}

func (s *BadgerStore) check(ctx context.Context, relation, key string) error {
	if err := checkKey(relation, key); err != nil {
		return err
	}
	if s.closed.Load() {
		return ErrClosed
	}
	return ctx.Err()
}
