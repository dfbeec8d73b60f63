package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"stayvista/internal/shared"
)

const connectTimeout = 15 * time.Second

// OpenStore builds the RoomStore selected by cfg.StoreDriver and checks
// that it answers a ping. The caller owns the result and must Close it.
func OpenStore(ctx context.Context, cfg *shared.ServerConfig) (RoomStore, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	switch cfg.StoreDriver {
	case shared.DriverMongo:
		return ConnectMongo(ctx, cfg.MongoURI, cfg.DBName, cfg.DBCollection)

	case shared.DriverSQLite:
		dbDir := filepath.Dir(cfg.SQLitePath)
		if dbDir != "." && dbDir != "" {
			if err := os.MkdirAll(dbDir, 0700); err != nil {
				return nil, fmt.Errorf("create db dir %s: %w", dbDir, err)
			}
		}
		db, err := OpenDB(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("open sqlite %s: %w", cfg.SQLitePath, err)
		}
		s := NewSQLiteStore(db)
		if err := s.Ping(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return s, nil

	case shared.DriverMemory:
		return NewMemoryStore(), nil

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
