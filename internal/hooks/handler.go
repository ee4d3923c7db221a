package hooks

import (
	"encoding/json"
	"io"

	"github.com/joss/debrief/internal/logging"
)

// Handler processes hook invocations from Claude Code. Handlers must
// return fast and must never surface an error: a broken hook would
// show up in the editor on every turn.
type Handler struct {
	locks   *LockGuard
	spawner *Spawner
	log     *logging.Logger
}

// NewHandler creates a hook handler.
func NewHandler(locks *LockGuard, spawner *Spawner) *Handler {
	return &Handler{locks: locks, spawner: spawner, log: logging.New("hooks")}
}

type hookInput struct {
	SessionID string `json:"session_id"`
}

type hookOutput struct {
	Continue       bool `json:"continue"`
	SuppressOutput bool `json:"suppressOutput"`
}

// respond writes the hook response. Output is suppressed so nothing
// leaks into the editor UI.
func respond(w io.Writer) {
	data, _ := json.Marshal(hookOutput{Continue: true, SuppressOutput: true})
	w.Write(data)
}

// readInput parses the hook payload. Any failure yields nil.
func readInput(r io.Reader) *hookInput {
	data, err := io.ReadAll(r)
	if err != nil || len(data) == 0 {
		return nil
	}

	var in hookInput
	if err := json.Unmarshal(data, &in); err != nil {
		return nil
	}
	return &in
}

// OnStop handles the Stop hook: spawn a background analysis unless one
// ran recently for this session.
func (h *Handler) OnStop(stdin io.Reader, stdout io.Writer) {
	defer respond(stdout)

	in := readInput(stdin)
	if in == nil || in.SessionID == "" {
		return
	}

	h.locks.SweepStale()

	if h.locks.IsLocked(in.SessionID, DefaultLockAge) {
		h.log.Debug("skip_locked", map[string]any{"session": in.SessionID})
		return
	}

	if err := h.locks.Create(in.SessionID); err != nil {
		h.log.Warn("lock_create_failed", map[string]any{"session": in.SessionID}, err)
	}
	if err := h.spawner.Spawn(in.SessionID, false); err != nil {
		h.log.Warn("spawn_failed", map[string]any{"session": in.SessionID}, err)
	}
}

// OnPreCompact handles the PreCompact hook: snapshot the session before
// compaction erases context. No dedup lock: it fires rarely and
// snapshots don't overwrite each other.
func (h *Handler) OnPreCompact(stdin io.Reader, stdout io.Writer) {
	defer respond(stdout)

	in := readInput(stdin)
	if in == nil || in.SessionID == "" {
		return
	}

	if err := h.spawner.Spawn(in.SessionID, true); err != nil {
		h.log.Warn("spawn_failed", map[string]any{"session": in.SessionID}, err)
	}
}
