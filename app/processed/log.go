package processed

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"sync"

	cp "github.com/otiai10/copy"
)

// Log maps feed item GUIDs to the permalink they were posted to.
type Log struct {
	path    string
	entries map[string]string

	backedUp  bool
	closeOnce sync.Once
	closeErr  error
}

// Load reads the log at path. A missing file yields an empty log and
// existed=false; an unreadable or malformed file is an error.
func Load(path string) (*Log, bool, error) {
	l := &Log{
		path:    path,
		entries: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return l, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read log %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &l.entries); err != nil {
		return nil, true, fmt.Errorf("failed to parse log %s: %w", path, err)
	}
	if l.entries == nil {
		l.entries = make(map[string]string)
	}

	return l, true, nil
}

func (l *Log) Path() string {
	return l.path
}

func (l *Log) Get(guid string) (string, bool) {
	permalink, ok := l.entries[guid]
	return permalink, ok
}

func (l *Log) Record(guid, permalink string) {
	l.entries[guid] = permalink
}

func (l *Log) Len() int {
	return len(l.entries)
}

// Entries returns a copy of the mapping.
func (l *Log) Entries() map[string]string {
	return maps.Clone(l.entries)
}

// Save writes the mapping with sorted keys and two-space indentation. The
// file is replaced atomically; the first save of a run keeps the previous
// file as <path>.bak. Saving the same mapping repeatedly is safe.
func (l *Log) Save() error {
	var buf bytes.Buffer
	encoder := json.NewEncoder(&buf)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(l.entries); err != nil {
		return fmt.Errorf("failed to encode log: %w", err)
	}

	if !l.backedUp {
		if err := l.backup(); err != nil {
			slog.Warn("Could not back up previous log", "path", l.path, "error", err)
		}
		l.backedUp = true
	}

	dir := filepath.Dir(l.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(l.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to write log %s: %w", l.path, err)
	}
	tmpPath := tmp.Name()

	if err := tmp.Chmod(0644); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write log %s: %w", l.path, err)
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write log %s: %w", l.path, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("failed to sync log %s: %w", l.path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to write log %s: %w", l.path, err)
	}

	if err := os.Rename(tmpPath, l.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to replace log %s: %w", l.path, err)
	}

	return nil
}

// Close saves the log once. Later calls return the result of the first.
func (l *Log) Close() error {
	l.closeOnce.Do(func() {
		l.closeErr = l.Save()
		if l.closeErr != nil {
			slog.Warn("Could not write log", "path", l.path, "entries", len(l.entries), "error", l.closeErr)
			return
		}
		slog.Info("Logged posts", "path", l.path, "entries", len(l.entries))
	})
	return l.closeErr
}

func (l *Log) backup() error {
	if _, err := os.Stat(l.path); errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return cp.Copy(l.path, l.path+".bak")
}
