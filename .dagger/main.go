// Character CI
//
// Package main runs the character's tests and builds in containers, locally
// and in GitHub actions.
package main

import (
	"context"

	"dagger/character/internal/dagger"
)

type Character struct {
	// Project source directory
	//
	// +private
	Source *dagger.Directory
}

func New(
	// Project source directory.
	//
	// +defaultPath="/"
	// +ignore=[".git", ".direnv", ".character", "build", "tmp", "_examples"]
	source *dagger.Directory,
) *Character {
	return &Character{
		Source: source,
	}
}

// goContainer returns a Debian Bookworm Go container with gcc, CGO enabled
// and the project source mounted. sqlite-vec needs CGO.
func (c *Character) goContainer() *dagger.Container {
	return c.platformContainer("")
}

// platformContainer is goContainer for a specific platform; "" is the host's.
func (c *Character) platformContainer(platform dagger.Platform) *dagger.Container {
	return dag.Container(dagger.ContainerOpts{Platform: platform}).
		From("golang:1.25-bookworm").
		WithExec([]string{"apt-get", "update"}).
		WithExec([]string{"apt-get", "install", "-y", "gcc", "libsqlite3-dev"}).
		WithEnvVariable("CGO_ENABLED", "1").
		WithEnvVariable("PATH", "/go/bin:$PATH", dagger.ContainerWithEnvVariableOpts{Expand: true}).
		WithMountedCache("/go/pkg/mod", dag.CacheVolume("go-mod")).
		WithMountedCache("/root/.cache/go-build", dag.CacheVolume("go-build")).
		WithWorkdir("/src").
		WithDirectory("/src", c.Source)
}

// Test runs the unit tests with ginkgo
func (c *Character) Test(ctx context.Context) (string, error) {
	return c.goContainer().
		WithExec([]string{"go", "run", "github.com/onsi/ginkgo/v2/ginkgo", "-r", "--randomize-all", "--race"}).
		Stdout(ctx)
}
