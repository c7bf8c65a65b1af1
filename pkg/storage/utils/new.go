// Package storageutils builds the configured turn archive.
package storageutils

import (
	"context"
	"errors"
	"fmt"

	"github.com/Gorgooo61/AI-character/pkg/storage"
	"github.com/Gorgooo61/AI-character/pkg/storage/inmemory"
	"github.com/Gorgooo61/AI-character/pkg/storage/postgres"
	"github.com/Gorgooo61/AI-character/pkg/storage/sqlite"
)

const (
	ProviderInMemory = "inmemory"
	ProviderSQLite   = "sqlite"
	ProviderPostgres = "postgres"
)

// ErrUnknownProvider is returned for an unsupported archive provider.
var ErrUnknownProvider = errors.New("unsupported storage provider")

type NewDriverOpts struct {
	ProviderType string

	// SQLitePath is the database file for the sqlite provider.
	SQLitePath string

	// PostgresDSN is the connection string for the postgres provider.
	PostgresDSN string
}

func NewDriver(ctx context.Context, o *NewDriverOpts) (storage.Driver, error) {
	switch o.ProviderType {
	case ProviderInMemory, "":
		return inmemory.NewDriver(), nil
	case ProviderSQLite:
		if o.SQLitePath == "" {
			return nil, errors.New("sqlite path is required")
		}
		return sqlite.NewDriver(ctx, o.SQLitePath)
	case ProviderPostgres:
		if o.PostgresDSN == "" {
			return nil, errors.New("postgres dsn is required")
		}
		return postgres.NewDriver(ctx, o.PostgresDSN)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, o.ProviderType)
	}
}
