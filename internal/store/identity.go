package store

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/obudget/obudget/internal/model"
)

const (
	identityFields = 4
	colLogin       = 0
	colPassword    = 1
	colName        = 2
	colKey         = 3

	loginLength = 8
)

// ReadIdentities reads an encoded identity store into a map keyed by login.
func ReadIdentities(r io.Reader, key int) (map[string]model.Identity, error) {
	ids := make(map[string]model.Identity)
	lr := newLineReader(r, key)
	for lr.Next() {
		if lr.Blank() {
			return nil, malformed(lr.Line(), "identity", errors.New("empty line"))
		}
		ident, err := UnmarshalIdentity(lr.Fields())
		if err != nil {
			return nil, malformed(lr.Line(), "identity", err)
		}
		if _, dup := ids[ident.Login]; dup {
			return nil, malformed(lr.Line(), "identity", fmt.Errorf("duplicate login %q", ident.Login))
		}
		ids[ident.Login] = ident
	}
	if err := lr.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// WriteIdentities writes an encoded identity store, sorted by login.
func WriteIdentities(w io.Writer, ids map[string]model.Identity, key int) error {
	logins := make([]string, 0, len(ids))
	for login := range ids {
		logins = append(logins, login)
	}
	sort.Strings(logins)

	for i, login := range logins {
		line, err := encodeLine(MarshalIdentity(ids[login]), key)
		if err != nil {
			return fmt.Errorf("writing identity %d: %w", i+1, err)
		}
		if _, err := io.WriteString(w, line); err != nil {
			return fmt.Errorf("writing identity %d: %w", i+1, err)
		}
	}
	return nil
}

// MarshalIdentity converts an Identity to its plaintext fields.
func MarshalIdentity(ident model.Identity) []string {
	row := make([]string, identityFields)
	row[colLogin] = ident.Login
	row[colPassword] = ident.Password
	row[colName] = ident.Name
	row[colKey] = strconv.Itoa(ident.Key)
	return row
}

// UnmarshalIdentity converts plaintext fields to an Identity.
func UnmarshalIdentity(record []string) (model.Identity, error) {
	if len(record) != identityFields {
		return model.Identity{}, fmt.Errorf("expected %d fields, got %d", identityFields, len(record))
	}

	login := record[colLogin]
	if n := utf8.RuneCountInString(login); n != loginLength {
		return model.Identity{}, fmt.Errorf("login %q has %d characters, want %d", login, n, loginLength)
	}

	key, err := strconv.Atoi(strings.TrimSpace(record[colKey]))
	if err != nil {
		return model.Identity{}, fmt.Errorf("parsing key %q: %w", record[colKey], err)
	}

	return model.Identity{
		Login:    login,
		Password: record[colPassword],
		Name:     record[colName],
		Key:      key,
	}, nil
}
