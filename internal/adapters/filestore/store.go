package filestore

// Package filestore provides the default persistent state store: a single
// JSON map file under the state directory, written atomically so a crash
// mid-write never leaves a truncated file behind.

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mediwound/wardview/internal/ports"
)

const stateFileName = "state.json"

// Store is a file-backed ports.StateStore.
// The whole map is rewritten on every mutation; the state is a handful of
// short strings, so this stays cheap.
type Store struct {
	mu   sync.Mutex
	path string
}

// New creates a file store rooted at dir, creating dir if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create state dir: %w", err)
	}
	return &Store{path: filepath.Join(dir, stateFileName)}, nil
}

// Path returns the location of the backing file.
func (s *Store) Path() string { return s.path }

func (s *Store) Get(_ context.Context, key ports.Key) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key ports.Key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	values[key] = value
	return s.save(values)
}

func (s *Store) Delete(_ context.Context, keys ...ports.Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	values, err := s.load()
	if err != nil {
		return err
	}
	changed := false
	for _, k := range keys {
		if _, ok := values[k]; ok {
			delete(values, k)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.save(values)
}

// load reads the backing file. A missing file is an empty store; a corrupt
// file is also treated as empty so a damaged workstation profile degrades
// to "signed out" instead of wedging the client.
func (s *Store) load() (map[ports.Key]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return make(map[ports.Key]string), nil
		}
		return nil, fmt.Errorf("read state file: %w", err)
	}

	var values map[ports.Key]string
	if err := json.Unmarshal(data, &values); err != nil {
		return make(map[ports.Key]string), nil
	}
	if values == nil {
		values = make(map[ports.Key]string)
	}
	return values, nil
}

// save writes via a temp file and rename in the same directory.
func (s *Store) save(values map[ports.Key]string) error {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), stateFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp state file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write temp state file: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("chmod temp state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp state file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}
