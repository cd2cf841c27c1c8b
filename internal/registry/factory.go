package registry

import (
	"context"
	"fmt"
	"os"
)

// Open selects a Registry implementation using environment variables.
//
//	DOCCORE_REGISTRY_DRIVER: sqlite|postgres|memory (default sqlite)
//	DOCCORE_REGISTRY_SQLITE_PATH: database path when driver=sqlite
//	DOCCORE_REGISTRY_POSTGRES_DSN: DSN when driver=postgres
func Open(ctx context.Context) (Registry, error) {
	driver := os.Getenv("DOCCORE_REGISTRY_DRIVER")
	if driver == "" {
		driver = "sqlite"
	}
	switch driver {
	case "sqlite":
		return NewSQLite(os.Getenv("DOCCORE_REGISTRY_SQLITE_PATH"))
	case "postgres":
		return NewPostgres(ctx, os.Getenv("DOCCORE_REGISTRY_POSTGRES_DSN"))
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("registry: unknown driver %s", driver)
	}
}
