// Package backup reads and writes whole-ledger backup files named
// fbm-tools-backup-YYYY-MM-DD.json.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"fbm-tools-backend/internal/clock"
	"fbm-tools-backend/internal/domain"
	"fbm-tools-backend/internal/logger"
)

const (
	filePrefix = "fbm-tools-backup-"
	fileSuffix = ".json"
	backend    = "backup"
)

var requiredCollections = []string{"tools", "customers", "sites", "rentals"}

// FileName returns the backup file name for the calendar day of t in t's
// location.
func FileName(t time.Time) string {
	return filePrefix + t.Format(domain.DateLayout) + fileSuffix
}

// parseFileName returns the day encoded in a backup file name.
func parseFileName(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
		return time.Time{}, false
	}
	day, err := time.Parse(domain.DateLayout, strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix))
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}

// Encode writes snap as an indented JSON document.
func Encode(w io.Writer, snap domain.Snapshot) error {
	snap.Normalize()
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}

// Decode reads a backup document. All four collections must be present,
// even if empty.
func Decode(r io.Reader) (domain.Snapshot, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return domain.Snapshot{}, err
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return domain.Snapshot{}, fmt.Errorf("%w: backup is not a JSON object: %v", domain.ErrInvalidInput, err)
	}
	var missing []string
	for _, key := range requiredCollections {
		if _, ok := raw[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return domain.Snapshot{}, fmt.Errorf("%w: backup is missing %s", domain.ErrInvalidInput, strings.Join(missing, ", "))
	}

	var snap domain.Snapshot
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&snap); err != nil {
		return domain.Snapshot{}, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	snap.Normalize()
	return snap, nil
}

// Entry describes one backup file on disk.
type Entry struct {
	Name string
	Path string
	Day  time.Time
	Size int64
}

// Manager keeps dated backups in a directory.
type Manager struct {
	dir   string
	clock clock.Clock
}

func NewManager(dir string, clk clock.Clock) *Manager {
	if clk == nil {
		clk = clock.System()
	}
	return &Manager{dir: dir, clock: clk}
}

// Write stores snap under today's file name, replacing an earlier backup
// from the same day.
func (m *Manager) Write(ctx context.Context, snap domain.Snapshot) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(m.dir, 0o755); err != nil {
		return "", fmt.Errorf("create backup dir: %w", err)
	}

	path := filepath.Join(m.dir, FileName(m.clock.Now()))
	logger.StorageCall(backend, "write", path)

	var buf bytes.Buffer
	err := Encode(&buf, snap)
	if err == nil {
		err = os.WriteFile(path, buf.Bytes(), 0o644)
	}
	logger.StorageResult(backend, "write", err, "path", path, "bytes", buf.Len())
	if err != nil {
		return "", fmt.Errorf("write backup: %w", err)
	}
	return path, nil
}

// Read decodes one backup file.
func (m *Manager) Read(path string) (domain.Snapshot, error) {
	logger.StorageCall(backend, "read", path)
	f, err := os.Open(path)
	if err != nil {
		logger.StorageResult(backend, "read", err, "path", path)
		return domain.Snapshot{}, err
	}
	defer f.Close()

	snap, err := Decode(f)
	logger.StorageResult(backend, "read", err, "path", path)
	return snap, err
}

// List returns the backups in the directory, oldest first. Files that do
// not follow the naming scheme are ignored.
func (m *Manager) List() ([]Entry, error) {
	dirEntries, err := os.ReadDir(m.dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var out []Entry
	for _, de := range dirEntries {
		if de.IsDir() {
			continue
		}
		day, ok := parseFileName(de.Name())
		if !ok {
			continue
		}
		info, err := de.Info()
		if err != nil {
			return nil, err
		}
		out = append(out, Entry{
			Name: de.Name(),
			Path: filepath.Join(m.dir, de.Name()),
			Day:  day,
			Size: info.Size(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Day.Before(out[j].Day) })
	return out, nil
}

// Prune deletes backups older than retentionDays and returns the removed
// paths. A retention of zero or less keeps everything.
func (m *Manager) Prune(ctx context.Context, retentionDays int) ([]string, error) {
	if retentionDays <= 0 {
		return nil, nil
	}
	entries, err := m.List()
	if err != nil {
		return nil, err
	}

	now := m.clock.Now()
	cutoff := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -retentionDays)
	var removed []string
	for _, e := range entries {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if !e.Day.Before(cutoff) {
			continue
		}
		logger.StorageCall(backend, "delete", e.Path)
		err := os.Remove(e.Path)
		logger.StorageResult(backend, "delete", err, "path", e.Path)
		if err != nil {
			return removed, fmt.Errorf("remove %s: %w", e.Name, err)
		}
		removed = append(removed, e.Path)
	}
	return removed, nil
}
