package changeset

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/joss/debrief/internal/exec"
	"github.com/joss/debrief/internal/logging"
	"github.com/joss/debrief/internal/session"
)

// gitTimeout bounds each git invocation.
const gitTimeout = 30 * time.Second

var errNotGitRepo = errors.New("not a git repository")

var diffHeaderRe = regexp.MustCompile(`b/(.+)$`)

// Extractor produces ChangeSets for project directories.
type Extractor struct {
	runner exec.Runner
	log    *logging.Logger
}

// NewExtractor creates an extractor using the given command runner.
func NewExtractor(runner exec.Runner) *Extractor {
	return &Extractor{runner: runner, log: logging.New("changeset")}
}

// Extract returns the change set for a session. Git is tried first;
// when the project isn't a usable git repo, file changes are
// reconstructed from Write/Edit tool calls in the messages.
func (e *Extractor) Extract(ctx context.Context, projectPath string, messages []session.Message) ChangeSet {
	cs, err := e.gitDiff(ctx, projectPath)
	if err != nil {
		e.log.Debug("git_unavailable", map[string]any{"project": projectPath, "reason": err.Error()})
		if len(messages) > 0 {
			return fromToolCalls(messages)
		}
		return ChangeSet{Source: SourceToolCalls}
	}
	return cs
}

func (e *Extractor) git(ctx context.Context, dir string, args ...string) (string, error) {
	runCtx, cancel := context.WithTimeout(ctx, gitTimeout)
	defer cancel()

	out, err := e.runner.Output(runCtx, dir, "git", args...)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

// gitDiff walks the fallback chain: diff against the previous commit,
// then against HEAD, then synthesize from porcelain status for repos
// with nothing committed yet.
func (e *Extractor) gitDiff(ctx context.Context, projectPath string) (ChangeSet, error) {
	if info, err := os.Stat(projectPath); err != nil || !info.IsDir() {
		return ChangeSet{}, fmt.Errorf("not a directory: %s", projectPath)
	}

	if _, err := e.git(ctx, projectPath, "rev-parse", "--git-dir"); err != nil {
		return ChangeSet{}, errNotGitRepo
	}

	diffText, _ := e.git(ctx, projectPath, "diff", "HEAD~1")

	if strings.TrimSpace(diffText) == "" {
		diffText, _ = e.git(ctx, projectPath, "diff", "HEAD")
	}

	if strings.TrimSpace(diffText) == "" {
		status, err := e.git(ctx, projectPath, "status", "--porcelain")
		if err == nil && strings.TrimSpace(status) != "" {
			return fromStatus(status, projectPath), nil
		}
		return ChangeSet{Source: SourceGit}, nil
	}

	return parseDiff(diffText), nil
}

// parseDiff splits unified diff output into per-file diffs.
func parseDiff(diffText string) ChangeSet {
	truncated := false
	if len(diffText) > MaxDiffChars {
		diffText = diffText[:MaxDiffChars]
		truncated = true
	}

	var files []FileDiff
	var currentFile string
	var currentLines []string

	for _, line := range strings.Split(diffText, "\n") {
		if strings.HasPrefix(line, "diff --git") {
			if currentFile != "" {
				files = append(files, buildFileDiff(currentFile, currentLines))
			}
			currentFile = "unknown"
			if m := diffHeaderRe.FindStringSubmatch(line); m != nil {
				currentFile = m[1]
			}
			currentLines = []string{line}
		} else if currentFile != "" {
			currentLines = append(currentLines, line)
		}
	}
	if currentFile != "" {
		files = append(files, buildFileDiff(currentFile, currentLines))
	}

	cs := ChangeSet{Files: files, Truncated: truncated, Source: SourceGit}
	for _, f := range files {
		cs.TotalAdditions += f.Additions
		cs.TotalDeletions += f.Deletions
	}
	return cs
}

func buildFileDiff(path string, lines []string) FileDiff {
	fd := FileDiff{Path: path, Status: StatusModified}

	for _, line := range lines {
		switch {
		case strings.HasPrefix(line, "new file"):
			fd.Status = StatusAdded
		case strings.HasPrefix(line, "deleted file"):
			fd.Status = StatusDeleted
		case strings.HasPrefix(line, "rename"):
			fd.Status = StatusRenamed
		case strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++"):
			fd.Additions++
		case strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---"):
			fd.Deletions++
		}
	}

	fd.DiffText = strings.Join(lines, "\n")
	return fd
}

// fromStatus converts porcelain status output into a ChangeSet. For new
// and modified files it reads the working tree content and synthesizes
// diff text so the summarizer has something to work with.
func fromStatus(statusOutput, projectPath string) ChangeSet {
	cs := ChangeSet{Source: SourceGit}
	totalChars := 0

	for _, line := range strings.Split(strings.TrimSpace(statusOutput), "\n") {
		if len(line) < 4 {
			continue
		}
		code := strings.TrimSpace(line[:2])
		path := strings.TrimSpace(line[3:])

		var status string
		switch code {
		case "??", "A":
			status = StatusAdded
		case "D":
			status = StatusDeleted
		case "R":
			status = StatusRenamed
		default:
			status = StatusModified
		}

		fd := FileDiff{Path: path, Status: status}
		if (status == StatusAdded || status == StatusModified) && totalChars < MaxDiffChars {
			if content, err := os.ReadFile(filepath.Join(projectPath, path)); err == nil {
				fileLines := strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
				fd.Additions = len(fileLines)

				var b strings.Builder
				fmt.Fprintf(&b, "diff --git a/%s b/%s\n", path, path)
				b.WriteString("new file\n--- /dev/null\n")
				fmt.Fprintf(&b, "+++ b/%s", path)
				for _, l := range fileLines {
					b.WriteString("\n+")
					b.WriteString(l)
				}
				fd.DiffText = b.String()
				totalChars += len(fd.DiffText)
			}
		}

		cs.TotalAdditions += fd.Additions
		cs.TotalDeletions += fd.Deletions
		cs.Files = append(cs.Files, fd)
	}

	cs.Truncated = totalChars >= MaxDiffChars
	return cs
}

// fromToolCalls reconstructs file changes from Write/Edit tool calls.
// The first tool to touch a path decides its status: a file Written and
// then Edited in the same session is still a new file.
func fromToolCalls(messages []session.Message) ChangeSet {
	statuses := make(map[string]string)
	var order []string

	for _, msg := range messages {
		if msg.Role != "assistant" {
			continue
		}
		for _, tool := range msg.ToolUses() {
			path := tool.InputString("file_path")
			if path == "" {
				path = tool.FilePath
			}
			if path == "" {
				continue
			}

			switch tool.Name {
			case "Write":
				if _, seen := statuses[path]; !seen {
					statuses[path] = StatusAdded
					order = append(order, path)
				}
			case "Edit":
				if _, seen := statuses[path]; !seen {
					statuses[path] = StatusModified
					order = append(order, path)
				}
			}
		}
	}

	cs := ChangeSet{Source: SourceToolCalls}
	for _, path := range order {
		cs.Files = append(cs.Files, FileDiff{Path: path, Status: statuses[path]})
	}
	return cs
}
