// Package dotdir manages the .character/ and ~/.character directories that
// hold configuration, lore, the fact database and the avatar token.
package dotdir

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// dirName is the name of the character directory.
	dirName = ".character"

	// Default file names inside the directory.
	FactsDB     = "facts.db"
	TurnsDB     = "turns.db"
	LoreFile    = "lore.json"
	TokenFile   = "vtubeStudio_token.txt"
	ChromemDir  = "chromem"
	LogFileName = "character.log"
)

type Manager struct{}

func NewManager() *Manager {
	return &Manager{}
}

// Target returns the target absolute path to a .character/ directory.
// Order of precedence is as follows:
//  1. Provided override
//  2. Local ./.character/ dir
//  3. Home ~/.character/ dir
//
// The directory is created if it does not exist.
func (m *Manager) Target(overrideDir string) (string, error) {
	var dir string

	switch {
	case overrideDir != "":
		dir = overrideDir

	case m.localDirExists():
		cwd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting current directory: %w", err)
		}
		dir = filepath.Join(cwd, dirName)

	default:
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting home directory: %w", err)
		}
		dir = filepath.Join(home, dirName)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating character directory %s: %w", dir, err)
	}

	return filepath.Abs(dir)
}

// Resolve returns path unchanged when set, otherwise name inside the
// target directory.
func (m *Manager) Resolve(overrideDir, path, name string) (string, error) {
	if path != "" {
		return path, nil
	}
	dir, err := m.Target(overrideDir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// localDirExists checks whether a .character/ directory exists in the current
// working directory.
func (m *Manager) localDirExists() bool {
	cwd, err := os.Getwd()
	if err != nil {
		return false
	}

	info, err := os.Stat(filepath.Join(cwd, dirName))
	return err == nil && info.IsDir()
}
