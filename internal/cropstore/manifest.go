package cropstore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
)

var manifestHeader = []string{"path", "label"}

// labelManifest is the CSV of (path, label) pairs behind a store. Existing
// rows are indexed by path so appends stay idempotent across runs.
type labelManifest struct {
	mu     sync.Mutex
	path   string
	file   *os.File
	writer *csv.Writer
	rows   map[string]string
}

func openManifest(path string) (*labelManifest, error) {
	rows, err := readManifestRows(path)
	if err != nil {
		return nil, err
	}

	fresh := len(rows) == 0
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open label manifest: %w", err)
	}

	m := &labelManifest{
		path:   path,
		file:   file,
		writer: csv.NewWriter(file),
		rows:   rows,
	}
	if fresh {
		if info, err := file.Stat(); err == nil && info.Size() == 0 {
			if err := m.writeRecord(manifestHeader); err != nil {
				file.Close()
				return nil, err
			}
		}
	}
	return m, nil
}

func readManifestRows(path string) (map[string]string, error) {
	rows := map[string]string{}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return rows, nil
		}
		return nil, fmt.Errorf("read label manifest: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = 2
	first := true
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse label manifest %s: %w", path, err)
		}
		if first && record[0] == manifestHeader[0] && record[1] == manifestHeader[1] {
			first = false
			continue
		}
		first = false
		rows[record[0]] = record[1]
	}
	return rows, nil
}

// Has reports whether a row for the given relative path already exists.
func (m *labelManifest) Has(path string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.rows[path]
	return ok
}

// Append writes one (path, label) row and flushes it. Duplicate paths are
// silently ignored so a task can never produce two rows.
func (m *labelManifest) Append(path, label string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[path]; ok {
		return nil
	}
	if err := m.writeRecord([]string{path, label}); err != nil {
		return err
	}
	m.rows[path] = label
	return nil
}

func (m *labelManifest) writeRecord(record []string) error {
	if err := m.writer.Write(record); err != nil {
		return fmt.Errorf("append label row: %w", err)
	}
	m.writer.Flush()
	if err := m.writer.Error(); err != nil {
		return fmt.Errorf("flush label manifest: %w", err)
	}
	return nil
}

// Len reports the number of indexed rows.
func (m *labelManifest) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.rows)
}

func (m *labelManifest) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writer.Flush()
	flushErr := m.writer.Error()
	closeErr := m.file.Close()
	if flushErr != nil {
		return flushErr
	}
	return closeErr
}
