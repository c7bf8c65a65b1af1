// Package session records the running character process in the dot dir so
// that a second "character run" on the same directory is refused and client
// commands can find the live API.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Gorgooo61/AI-character/pkg/dotdir"
)

const (
	stateFileName = "session.json"
	lockFileName  = "session.lock"
	stateVersion  = 1
)

// ErrAlreadyRunning is returned by Acquire when another process holds the
// session lock.
var ErrAlreadyRunning = errors.New("a character is already running in this directory")

// State describes a running character.
type State struct {
	Version     int       `json:"version"`
	PID         int       `json:"pid"`
	Name        string    `json:"name"`
	CaptureMode string    `json:"capture_mode"`
	APIURL      string    `json:"api_url,omitempty"`
	LogPath     string    `json:"log_path,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Manager struct {
	Dir       string
	StatePath string
	LockPath  string
}

// Lock is a held session lock.
type Lock struct {
	file *os.File
}

func NewManager(configDir string) (*Manager, error) {
	dir, err := dotdir.NewManager().Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving character dir: %w", err)
	}

	return &Manager{
		Dir:       dir,
		StatePath: filepath.Join(dir, stateFileName),
		LockPath:  filepath.Join(dir, lockFileName),
	}, nil
}

// Acquire takes the session lock without blocking. It returns
// ErrAlreadyRunning when another process holds it.
func (m *Manager) Acquire() (*Lock, error) {
	file, err := os.OpenFile(m.LockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening lock file: %w", err)
	}

	if err := syscall.Flock(int(file.Fd()), syscall.LOCK_EX|syscall.LOCK_NB); err != nil {
		file.Close()
		if errors.Is(err, syscall.EWOULDBLOCK) {
			return nil, ErrAlreadyRunning
		}
		return nil, fmt.Errorf("locking session file: %w", err)
	}

	return &Lock{file: file}, nil
}

func (l *Lock) Release() error {
	if l == nil || l.file == nil {
		return nil
	}
	f := l.file
	l.file = nil
	if err := syscall.Flock(int(f.Fd()), syscall.LOCK_UN); err != nil {
		_ = f.Close()
		return fmt.Errorf("unlocking session file: %w", err)
	}
	return f.Close()
}

// Load returns the recorded state, or nil when no character has recorded one.
func (m *Manager) Load() (*State, error) {
	data, err := os.ReadFile(m.StatePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading session state: %w", err)
	}

	state := &State{}
	if err := json.Unmarshal(data, state); err != nil {
		return nil, fmt.Errorf("parsing session state: %w", err)
	}
	return state, nil
}

// Save writes state atomically through a temp file and rename.
func (m *Manager) Save(state *State) error {
	if state == nil {
		return errors.New("cannot save nil state")
	}
	if state.Version == 0 {
		state.Version = stateVersion
	}
	if state.PID == 0 {
		state.PID = os.Getpid()
	}
	state.UpdatedAt = time.Now()
	if state.StartedAt.IsZero() {
		state.StartedAt = state.UpdatedAt
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling session state: %w", err)
	}

	tmpFile, err := os.CreateTemp(m.Dir, "session-*.json")
	if err != nil {
		return fmt.Errorf("creating temp state file: %w", err)
	}
	if err := tmpFile.Chmod(0o600); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("chmod temp state file: %w", err)
	}
	if _, err := tmpFile.Write(data); err != nil {
		_ = tmpFile.Close()
		return fmt.Errorf("writing temp state file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("closing temp state file: %w", err)
	}
	if err := os.Rename(tmpFile.Name(), m.StatePath); err != nil {
		return fmt.Errorf("persisting state file: %w", err)
	}
	return nil
}

func (m *Manager) Clear() error {
	if err := os.Remove(m.StatePath); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("removing session state: %w", err)
	}
	return nil
}
