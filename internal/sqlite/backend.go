package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	_ "modernc.org/sqlite"

	"github.com/petrel-data/codelink/pkg/types"
)

// entryCacheSize bounds the per-asset entry cache. One slot per asset key.
const entryCacheSize = 1024

// Backend implements the Store interface using SQLite as the query engine
// and JSONL files as the source of truth.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	db       *sql.DB
	tables   map[string]types.Table

	// entryCache holds fetched entries keyed by asset key. Invalidated on
	// every entry write for that key.
	entryCache *lru.Cache[string, []*types.Entry]
}

// NewBackend creates a new SQLite backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{
		tables: make(map[string]types.Table),
	}
}

// GetTable returns a Table interface for the specified table name.
// Returns ErrTableNotFound if the table name is not recognized.
// Returns ErrStoreDetached if the backend is not attached.
func (b *Backend) GetTable(name string) (types.Table, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrStoreDetached
	}

	table, ok := b.tables[name]
	if !ok {
		return nil, types.ErrTableNotFound
	}
	return table, nil
}

// Attach initializes the backend with the given configuration. Creates
// DataDir if it does not exist, initializes the SQLite schema, loads the
// JSONL source of truth, and creates table accessors.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}

	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	// The database file is rebuilt from JSONL on every attach.
	dbPath := filepath.Join(dataDir, "codelink.db")
	_ = os.Remove(dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return err
	}

	for _, stmt := range schemaStatements {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return fmt.Errorf("creating schema: %w", err)
		}
	}

	b.db = db
	b.config = config
	b.config.DataDir = dataDir

	if err := b.initJSONLFiles(); err != nil {
		db.Close()
		return err
	}

	if err := loadAllJSONL(db, dataDir); err != nil {
		db.Close()
		return fmt.Errorf("loading JSONL: %w", err)
	}

	cache, err := lru.New[string, []*types.Entry](entryCacheSize)
	if err != nil {
		db.Close()
		return fmt.Errorf("creating entry cache: %w", err)
	}
	b.entryCache = cache

	b.attached = true
	b.tables[types.TableAssets] = &assetsTable{backend: b}
	b.tables[types.TableEntries] = &entriesTable{backend: b}

	return nil
}

// Detach releases all resources held by the backend. Closes the SQLite
// connection. After Detach, all operations return ErrStoreDetached.
// Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}

	if b.db != nil {
		if err := b.db.Close(); err != nil {
			return err
		}
		b.db = nil
	}

	b.attached = false
	b.tables = make(map[string]types.Table)
	b.entryCache = nil

	return nil
}

// initJSONLFiles creates empty JSONL files for any missing table file so
// the data directory is complete after init.
func (b *Backend) initJSONLFiles() error {
	for _, mapping := range jsonlTableMapping {
		path := filepath.Join(b.config.DataDir, mapping.file)
		if _, err := os.Stat(path); err == nil {
			continue
		} else if !os.IsNotExist(err) {
			return fmt.Errorf("checking %s: %w", mapping.file, err)
		}
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			return fmt.Errorf("creating %s: %w", mapping.file, err)
		}
	}
	return nil
}

// newUUID generates a UUID v7 string for entity IDs. Falls back to v4 if
// v7 generation fails.
func newUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}
