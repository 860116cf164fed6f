package badger

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/dgraph-io/badger/v4/options"
	"github.com/poiesic/promptharvest/storage"
)

// Backend owns the BadgerDB handle that prompt repositories share.
type Backend struct {
	db *badger.DB
}

// slogBridge routes Badger's printf-style logging into slog.
type slogBridge struct {
	logger *slog.Logger
}

var _ badger.Logger = (*slogBridge)(nil)

func (b *slogBridge) Errorf(msg string, items ...any)   { b.logger.Error(fmt.Sprintf(msg, items...)) }
func (b *slogBridge) Warningf(msg string, items ...any) { b.logger.Warn(fmt.Sprintf(msg, items...)) }
func (b *slogBridge) Infof(msg string, items ...any)    { b.logger.Info(fmt.Sprintf(msg, items...)) }
func (b *slogBridge) Debugf(msg string, items ...any)   { b.logger.Debug(fmt.Sprintf(msg, items...)) }

// BackendOption configures OpenBackend.
type BackendOption func(*backendConfig)

type backendConfig struct {
	inMemory   bool
	syncWrites bool
	logger     *slog.Logger
}

// InMemory keeps the database in memory; the path is ignored.
func InMemory() BackendOption {
	return func(c *backendConfig) {
		c.inMemory = true
	}
}

// WithSyncWrites fsyncs every committed transaction.
func WithSyncWrites(sync bool) BackendOption {
	return func(c *backendConfig) {
		c.syncWrites = sync
	}
}

// WithBackendLogger sets the logger Badger's own messages go to.
func WithBackendLogger(logger *slog.Logger) BackendOption {
	return func(c *backendConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// OpenBackend opens the database directory at path, creating it if needed.
func OpenBackend(path string, opts ...BackendOption) (*Backend, error) {
	cfg := &backendConfig{
		logger: slog.Default().With("component", "badger"),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	var bopts badger.Options
	if cfg.inMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := prepareDir(path); err != nil {
			return nil, err
		}
		bopts = badger.DefaultOptions(path).WithSyncWrites(cfg.syncWrites)
	}
	bopts.Logger = &slogBridge{logger: cfg.logger}
	bopts.Compression = options.None

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %w", storage.ErrInvalidConfig, path, err)
	}
	return &Backend{db: db}, nil
}

// prepareDir makes sure path names a directory, creating it when absent.
func prepareDir(path string) error {
	if path == "" {
		return fmt.Errorf("%w: database path is required", storage.ErrInvalidConfig)
	}
	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		return os.MkdirAll(path, 0o755)
	case err != nil:
		return err
	case !info.IsDir():
		return fmt.Errorf("%w: %s is not a directory", storage.ErrInvalidConfig, path)
	}
	return nil
}

// Close closes the database.
func (b *Backend) Close() error {
	return b.db.Close()
}

// IsClosed reports whether Close has been called.
func (b *Backend) IsClosed() bool {
	return b.db.IsClosed()
}

// Update runs fn in a read-write transaction that commits when fn returns nil.
func (b *Backend) Update(fn func(tx *badger.Txn) error) error {
	return b.db.Update(fn)
}

// View runs fn in a read-only transaction.
func (b *Backend) View(fn func(tx *badger.Txn) error) error {
	return b.db.View(fn)
}
