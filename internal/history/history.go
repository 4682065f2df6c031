// Package history records which store files were encoded or decoded in place.
//
// A shifted file cannot be told apart from a plain one without knowing the
// key, so the log is the only record of a file's current state. Keys are
// never written to it.
package history

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Action is the rewrite applied to a file.
type Action string

const (
	ActionEncrypt Action = "encrypt"
	ActionDecrypt Action = "decrypt"
	ActionRekey   Action = "rekey"
)

// Entry is one row in the rewrite log.
type Entry struct {
	Timestamp time.Time
	Action    Action
	Path      string // relative to the repo root when possible
	Lines     int
}

// Header is the CSV header for rewrite-log.csv.
const Header = "timestamp,action,path,lines"

const (
	numFields    = 4
	logDir       = "logs"
	logFile      = "logs/rewrite-log.csv"
	colTimestamp = 0
	colAction    = 1
	colPath      = 2
	colLines     = 3
)

// MarshalEntry converts an Entry to a CSV row.
func MarshalEntry(e Entry) []string {
	row := make([]string, numFields)
	row[colTimestamp] = e.Timestamp.UTC().Format(time.RFC3339)
	row[colAction] = string(e.Action)
	row[colPath] = e.Path
	row[colLines] = strconv.Itoa(e.Lines)
	return row
}

// UnmarshalEntry converts a CSV row to an Entry.
func UnmarshalEntry(record []string) (Entry, error) {
	if len(record) != numFields {
		return Entry{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	ts, err := time.Parse(time.RFC3339, record[colTimestamp])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing timestamp %q: %w", record[colTimestamp], err)
	}

	lines, err := strconv.Atoi(record[colLines])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing lines %q: %w", record[colLines], err)
	}

	return Entry{
		Timestamp: ts,
		Action:    Action(record[colAction]),
		Path:      record[colPath],
		Lines:     lines,
	}, nil
}

// Append writes entries to <repoRoot>/logs/rewrite-log.csv, creating the file and header if needed.
func Append(repoRoot string, entries []Entry) error {
	dir := filepath.Join(repoRoot, logDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating logs dir: %w", err)
	}

	path := filepath.Join(repoRoot, logFile)
	needsHeader := false
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		needsHeader = true
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening rewrite log: %w", err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	defer cw.Flush()

	if needsHeader {
		if err := cw.Write(strings.Split(Header, ",")); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	}

	for i, e := range entries {
		if err := cw.Write(MarshalEntry(e)); err != nil {
			return fmt.Errorf("writing entry %d: %w", i, err)
		}
	}

	return cw.Error()
}

// Read returns all entries from <repoRoot>/logs/rewrite-log.csv.
// Returns an empty slice if the file does not exist.
func Read(repoRoot string) ([]Entry, error) {
	f, err := os.Open(filepath.Join(repoRoot, logFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("opening rewrite log: %w", err)
	}
	defer f.Close()

	return ReadEntries(f)
}

// ReadEntries parses a rewrite log, header included.
func ReadEntries(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = numFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading rewrite log CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := UnmarshalEntry(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Encoded reports whether the last rewrite of path left it encoded.
// ok is false when path never appears in the log.
func Encoded(entries []Entry, path string) (encoded, ok bool) {
	for i := len(entries) - 1; i >= 0; i-- {
		if entries[i].Path != path {
			continue
		}
		return entries[i].Action != ActionDecrypt, true
	}
	return false, false
}

// RelPath returns path relative to repoRoot, or path unchanged when it lies outside.
func RelPath(repoRoot, path string) string {
	rel, err := filepath.Rel(repoRoot, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}
