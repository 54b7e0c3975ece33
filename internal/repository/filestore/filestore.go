// Package filestore keeps the ledger snapshot as one JSON file per
// collection in a data directory.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"fbm-tools-backend/internal/domain"
	"fbm-tools-backend/internal/logger"
	"fbm-tools-backend/internal/repository"
)

const backend = "file"

const (
	ToolsFile     = "tools.json"
	CustomersFile = "customers.json"
	SitesFile     = "sites.json"
	RentalsFile   = "rentals.json"
)

type Store struct {
	dir string
}

var _ repository.SnapshotRepository = (*Store)(nil)

func New(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) Dir() string { return s.dir }

// Load reads the four collection files. A missing file is an empty
// collection.
func (s *Store) Load(ctx context.Context) (*domain.Snapshot, error) {
	logger.EnterMethod("filestore.Load", "dir", s.dir)

	snap := &domain.Snapshot{}
	targets := []struct {
		name string
		dst  any
	}{
		{ToolsFile, &snap.Tools},
		{CustomersFile, &snap.Customers},
		{SitesFile, &snap.Sites},
		{RentalsFile, &snap.Rentals},
	}
	for _, t := range targets {
		if err := ctx.Err(); err != nil {
			logger.ExitMethodWithError("filestore.Load", err)
			return nil, err
		}
		if err := s.readFile(t.name, t.dst); err != nil {
			logger.ExitMethodWithError("filestore.Load", err, "file", t.name)
			return nil, err
		}
	}
	snap.Normalize()

	logger.ExitMethod("filestore.Load", "tools", len(snap.Tools), "rentals", len(snap.Rentals))
	return snap, nil
}

// Save rewrites all four files. Each file is written to a temporary name
// and renamed into place.
func (s *Store) Save(ctx context.Context, snapshot *domain.Snapshot) error {
	logger.EnterMethod("filestore.Save", "dir", s.dir)

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		logger.ExitMethodWithError("filestore.Save", err)
		return fmt.Errorf("create data dir: %w", err)
	}

	snap := snapshot.Clone()
	snap.Normalize()
	sources := []struct {
		name string
		src  any
	}{
		{ToolsFile, snap.Tools},
		{CustomersFile, snap.Customers},
		{SitesFile, snap.Sites},
		{RentalsFile, snap.Rentals},
	}
	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			logger.ExitMethodWithError("filestore.Save", err)
			return err
		}
		if err := s.writeFile(src.name, src.src); err != nil {
			logger.ExitMethodWithError("filestore.Save", err, "file", src.name)
			return err
		}
	}

	logger.ExitMethod("filestore.Save")
	return nil
}

func (s *Store) readFile(name string, dst any) error {
	path := filepath.Join(s.dir, name)
	logger.StorageCall(backend, "read", path)

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger.StorageResult(backend, "read", nil, "path", path, "missing", true)
		return nil
	}
	if err == nil && len(data) > 0 {
		err = json.Unmarshal(data, dst)
	}
	logger.StorageResult(backend, "read", err, "path", path, "bytes", len(data))
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	return nil
}

func (s *Store) writeFile(name string, src any) error {
	path := filepath.Join(s.dir, name)
	logger.StorageCall(backend, "write", path)

	data, err := json.MarshalIndent(src, "", "  ")
	if err == nil {
		err = writeAtomic(path, data)
	}
	logger.StorageResult(backend, "write", err, "path", path, "bytes", len(data))
	if err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*.tmp")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
