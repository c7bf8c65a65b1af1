package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"dagger/character/internal/dagger"
)

// Build returns a directory holding the character binary for each linux
// platform. Builds run natively per platform because of CGO.
func (c *Character) Build(
	ctx context.Context,

	// Linker flags for go build
	// +optional
	// +default="-s -w"
	ldflags string,
) *dagger.Directory {
	outputs := dag.Directory()

	for _, platform := range []dagger.Platform{"linux/amd64", "linux/arm64"} {
		path := string(platform) + "/"

		build := c.platformContainer(platform).
			WithExec([]string{"go", "build", "-ldflags", ldflags, "-o", path + "character", "./cli/character"}).
			WithExec([]string{"go", "build", "-ldflags", ldflags, "-o", path + "characterd", "./cli/characterd"})

		outputs = outputs.WithDirectory(path, build.Directory(path))
	}

	return outputs
}

// BuildRelease compiles versioned binaries with embedded version info
func (c *Character) BuildRelease(
	ctx context.Context,

	// Version string of build
	version string,

	// Git commit SHA of build
	commit string,
) *dagger.Directory {
	ldflags := []string{
		"-s",
		"-w",
		fmt.Sprintf("-X 'github.com/Gorgooo61/AI-character/pkg/utils.Version=%s'", version),
		fmt.Sprintf("-X 'github.com/Gorgooo61/AI-character/pkg/utils.Sha=%s'", commit),
		fmt.Sprintf("-X 'github.com/Gorgooo61/AI-character/pkg/utils.Buildtime=%s'", time.Now().Format(time.RFC3339)),
	}

	return c.Build(ctx, strings.Join(ldflags, " "))
}
