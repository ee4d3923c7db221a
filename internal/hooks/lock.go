// Package hooks implements the Stop and PreCompact hook handlers, the
// per-session lock guard that keeps concurrent analyses apart, and the
// settings installer.
package hooks

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
)

const (
	// DefaultLockAge is how long a lock suppresses re-analysis.
	DefaultLockAge = 60 * time.Second

	// StaleLockAge is when sweep reclaims locks from dead runs.
	StaleLockAge = 5 * time.Minute
)

// LockGuard manages per-session lock files. Lock files hold the unix
// timestamp of their creation; age decides validity, so a crashed run
// can never wedge the system.
type LockGuard struct {
	dir string
}

// NewLockGuard creates a guard over the given locks directory.
func NewLockGuard(dir string) *LockGuard {
	return &LockGuard{dir: dir}
}

func (g *LockGuard) lockPath(sessionID string) string {
	return filepath.Join(g.dir, sessionID+".lock")
}

// IsLocked reports whether a valid lock younger than maxAge exists.
// Unreadable or unparseable locks count as absent.
func (g *LockGuard) IsLocked(sessionID string, maxAge time.Duration) bool {
	data, err := os.ReadFile(g.lockPath(sessionID))
	if err != nil {
		return false
	}

	ts, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
	if err != nil {
		return false
	}

	age := time.Since(time.Unix(int64(ts), 0))
	return age < maxAge
}

// Create writes the lock file with the current timestamp.
func (g *LockGuard) Create(sessionID string) error {
	if err := os.MkdirAll(g.dir, 0755); err != nil {
		return err
	}
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	return os.WriteFile(g.lockPath(sessionID), []byte(ts), 0644)
}

// Remove deletes the lock file. Never fails: a missing or stuck lock
// expires on its own.
func (g *LockGuard) Remove(sessionID string) {
	os.Remove(g.lockPath(sessionID))
}

// SweepStale removes locks older than StaleLockAge, plus any lock that
// can't be parsed.
func (g *LockGuard) SweepStale() {
	matches, err := doublestar.FilepathGlob(filepath.Join(g.dir, "*.lock"))
	if err != nil {
		return
	}

	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			os.Remove(path)
			continue
		}
		ts, err := strconv.ParseFloat(strings.TrimSpace(string(data)), 64)
		if err != nil {
			os.Remove(path)
			continue
		}
		if time.Since(time.Unix(int64(ts), 0)) > StaleLockAge {
			os.Remove(path)
		}
	}
}
