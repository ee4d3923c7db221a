package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileLog appends plain timestamped lines to a per-session analysis log.
// Used by background runs, where stderr is already redirected to the same
// file by the spawner and human-readable progress lines are wanted.
type FileLog struct {
	file *os.File
}

// OpenFileLog opens (creating if needed) the analysis log for a session.
func OpenFileLog(logsDir, sessionID string) (*FileLog, error) {
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return nil, err
	}

	path := filepath.Join(logsDir, fmt.Sprintf("analyze-%s.log", sessionID))
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}
	return &FileLog{file: f}, nil
}

// Printf writes one timestamped line.
func (f *FileLog) Printf(format string, args ...any) {
	ts := time.Now().Format("2006-01-02 15:04:05")
	fmt.Fprintf(f.file, "[%s] "+format+"\n", append([]any{ts}, args...)...)
}

// Close closes the underlying file.
func (f *FileLog) Close() error {
	return f.file.Close()
}
