package cache

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/dgraph-io/badger/v4"
)

// BadgerCache keeps entries in an embedded BadgerDB. TTLs are enforced by
// badger itself.
type BadgerCache struct {
	db *badger.DB
}

// NewBadgerCache opens a database under dir, or an in-memory one when dir
// is empty. Badger's own logging goes to logger at debug level; a nil
// logger silences it.
func NewBadgerCache(dir string, logger *log.Logger) (*BadgerCache, error) {
	var opts badger.Options
	if dir == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, fmt.Errorf("badger cache: %w", err)
		}
		opts = badger.DefaultOptions(dir)
	}
	if logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: logger.WithPrefix("badger")})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger cache: %w", err)
	}
	return &BadgerCache{db: db}, nil
}

func (c *BadgerCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var data []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (c *BadgerCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(key), data)
		if ttl > 0 {
			e = e.WithTTL(ttl)
		}
		return txn.SetEntry(e)
	})
}

func (c *BadgerCache) Delete(ctx context.Context, key string) error {
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Close flushes and closes the database.
func (c *BadgerCache) Close() error {
	return c.db.Close()
}

// badgerLogger adapts a charmbracelet logger to badger.Logger. Badger is
// chatty at info level, so everything below a warning is logged as debug.
type badgerLogger struct {
	logger *log.Logger
}

func (l *badgerLogger) Errorf(format string, args ...any) {
	l.logger.Errorf(format, args...)
}

func (l *badgerLogger) Warningf(format string, args ...any) {
	l.logger.Warnf(format, args...)
}

func (l *badgerLogger) Infof(format string, args ...any) {
	l.logger.Debugf(format, args...)
}

func (l *badgerLogger) Debugf(format string, args ...any) {
	l.logger.Debugf(format, args...)
}

var _ Cache = (*BadgerCache)(nil)
