// Package vectorutils builds the configured vector.Driver.
package vectorutils

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Gorgooo61/AI-character/pkg/vector"
	"github.com/Gorgooo61/AI-character/pkg/vector/chroma"
	"github.com/Gorgooo61/AI-character/pkg/vector/chromem"
	"github.com/Gorgooo61/AI-character/pkg/vector/qdrant"
	"github.com/Gorgooo61/AI-character/pkg/vector/sqlitevec"
)

type NewVectorDriverOpts struct {
	// ProviderType is one of "chromem", "sqlite", "chroma" or "qdrant".
	ProviderType string

	// TargetURL is the Chroma URL or the Qdrant host.
	TargetURL string
	Port      int
	APIKey    string

	// Path is the on-disk location for the embedded providers.
	Path string

	Collection string
	Dimensions uint
	Logger     *slog.Logger
}

func NewVectorDriver(ctx context.Context, o *NewVectorDriverOpts) (vector.Driver, error) {
	switch o.ProviderType {
	case "chromem":
		return chromem.NewDriver(chromem.Config{
			Path:           o.Path,
			Compress:       true,
			CollectionName: o.Collection,
		}, o.Logger)
	case "sqlite":
		return sqlitevec.NewSQLiteVecDriver(sqlitevec.Config{
			DBPath:     o.Path,
			Dimensions: o.Dimensions,
		}, o.Logger)
	case "chroma":
		return chroma.NewDriver(chroma.Config{
			URL:            o.TargetURL,
			CollectionName: o.Collection,
		}, o.Logger)
	case "qdrant":
		return qdrant.NewDriver(ctx, qdrant.Config{
			Host:           o.TargetURL,
			Port:           o.Port,
			APIKey:         o.APIKey,
			CollectionName: o.Collection,
			Dimensions:     o.Dimensions,
		}, o.Logger)
	default:
		return nil, fmt.Errorf("unsupported vector store provider: %s", o.ProviderType)
	}
}
