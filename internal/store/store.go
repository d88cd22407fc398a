package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"linebridge/internal/constants"
	"linebridge/pkg/errors"
	"linebridge/pkg/metrics"
)

// document is the single persisted JSON structure. Every append rewrites it
// whole so the file on disk is always well-formed.
type document struct {
	Messages []MessageRecord `json:"messages"`
}

// FileStore is an append-only, file-backed collection of message records.
// Writers serialize through the write lock; readers share the read lock and
// never observe a half-written document because writes go through an atomic
// temp-file rename.
type FileStore struct {
	path string
	mu   sync.RWMutex
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string {
	return s.path
}

// Ping reports whether the persisted document is readable. Used by the
// health endpoint; a missing file is healthy (empty collection).
func (s *FileStore) Ping(ctx context.Context) error {
	_, err := s.LoadAll(ctx)
	return err
}

// Append adds one record to the persisted document. The read-modify-write
// cycle holds the write lock end to end, so concurrent appends cannot
// interleave. A corrupt existing document is surfaced, never overwritten.
func (s *FileStore) Append(ctx context.Context, rec MessageRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.readDocument()
	if err != nil {
		metrics.IncStoreOperation("append", "error")
		return err
	}

	doc.Messages = append(doc.Messages, rec)

	if err := s.writeDocument(doc); err != nil {
		metrics.IncStoreOperation("append", "error")
		return err
	}

	metrics.IncStoreOperation("append", "success")
	metrics.ObserveStoreOperationDuration("append", time.Since(start))
	metrics.SetStoreRecords(len(doc.Messages))
	return nil
}

// LoadAll returns every stored record in original arrival order. A missing
// file is an empty collection; an unparseable file is a storage-corrupt
// error, never an empty success.
func (s *FileStore) LoadAll(ctx context.Context) ([]MessageRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := s.readDocument()
	if err != nil {
		metrics.IncStoreOperation("load", "error")
		return nil, err
	}

	metrics.IncStoreOperation("load", "success")
	return doc.Messages, nil
}

// Query returns the subsequence of records matching all provided constraints,
// preserving arrival order. An empty result is a successful read.
func (s *FileStore) Query(ctx context.Context, filter QueryFilter) ([]MessageRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, err := s.readDocument()
	if err != nil {
		metrics.IncStoreOperation("query", "error")
		return nil, err
	}

	matched := make([]MessageRecord, 0, len(doc.Messages))
	for _, rec := range doc.Messages {
		if filter.Matches(rec) {
			matched = append(matched, rec)
		}
	}

	metrics.IncStoreOperation("query", "success")
	return matched, nil
}

func (s *FileStore) readDocument() (document, error) {
	var doc document

	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return doc, nil
	}
	if err != nil {
		return doc, errors.ErrStorageWrite.WithCause(fmt.Errorf("read %s: %w", s.path, err))
	}

	if len(data) == 0 {
		return doc, nil
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, errors.ErrStorageCorrupt.WithCause(fmt.Errorf("parse %s: %w", s.path, err))
	}

	return doc, nil
}

func (s *FileStore) writeDocument(doc document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.ErrStorageWrite.WithCause(err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, constants.StorageDirMode); err != nil {
		return errors.ErrStorageWrite.WithCause(fmt.Errorf("create %s: %w", dir, err))
	}

	// Write-then-rename keeps the document valid even if the process dies
	// mid-write: readers see either the old or the new file, never a torn one.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, constants.StorageFileMode); err != nil {
		return errors.ErrStorageWrite.WithCause(fmt.Errorf("write %s: %w", tmp, err))
	}

	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return errors.ErrStorageWrite.WithCause(fmt.Errorf("replace %s: %w", s.path, err))
	}

	return nil
}
