package store

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/obudget/obudget/internal/cipher"
	"github.com/obudget/obudget/internal/model"
)

const fileMode = 0o600

// LoadIdentities reads the identity store at path.
func LoadIdentities(path string, key int) (map[string]model.Identity, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening identity store: %w", err)
	}
	defer f.Close()

	ids, err := ReadIdentities(f, key)
	if err != nil {
		return nil, fmt.Errorf("reading identity store %s: %w", path, err)
	}
	return ids, nil
}

// SaveIdentities writes the identity store at path.
func SaveIdentities(path string, ids map[string]model.Identity, key int) error {
	var buf bytes.Buffer
	if err := WriteIdentities(&buf, ids, key); err != nil {
		return fmt.Errorf("encoding identity store: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), fileMode); err != nil {
		return fmt.Errorf("writing identity store: %w", err)
	}
	return nil
}

// LoadAccounts reads the accounts of the user file at path.
func LoadAccounts(path string, key int, mode ScanMode) ([]model.Account, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening user file: %w", err)
	}
	defer f.Close()

	accounts, err := ReadAccounts(f, key, mode)
	if err != nil {
		return nil, fmt.Errorf("reading accounts %s: %w", path, err)
	}
	return accounts, nil
}

// LoadOperations reads the operations of the user file at path.
func LoadOperations(path string, key int, flag FlagMode) ([]model.Operation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening user file: %w", err)
	}
	defer f.Close()

	ops, err := ReadOperations(f, key, flag)
	if err != nil {
		return nil, fmt.Errorf("reading operations %s: %w", path, err)
	}
	return ops, nil
}

// LoadBudgets reads the budgets of the user file at path.
func LoadBudgets(path string, key int) ([]model.Budget, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening user file: %w", err)
	}
	defer f.Close()

	budgets, err := ReadBudgets(f, key)
	if err != nil {
		return nil, fmt.Errorf("reading budgets %s: %w", path, err)
	}
	return budgets, nil
}

// LoadUserFile reads every record of the user file at path.
func LoadUserFile(path string, key int, opts Options) (*model.UserFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening user file: %w", err)
	}
	defer f.Close()

	uf, err := ReadUserFile(f, key, opts)
	if err != nil {
		return nil, fmt.Errorf("reading user file %s: %w", path, err)
	}
	return uf, nil
}

// RewriteFile applies fn to the whole content of path. The file is read
// fully and closed before it is truncated and written once. On any error
// the file is left untouched. It returns the number of lines written.
func RewriteFile(path string, fn func(string) (string, error)) (int, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", path, err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("reading %s: %w", path, err)
	}

	text := strings.ReplaceAll(string(raw), "\r\n", "\n")
	out, err := fn(text)
	if err != nil {
		return 0, fmt.Errorf("transforming %s: %w", path, err)
	}

	if err := os.WriteFile(path, []byte(out), info.Mode().Perm()); err != nil {
		return 0, fmt.Errorf("writing %s: %w", path, err)
	}
	return countLines(out), nil
}

// EncryptFile shifts the plaintext file at path with key.
func EncryptFile(path string, key int) (int, error) {
	return RewriteFile(path, func(s string) (string, error) {
		return cipher.Encode(s, key)
	})
}

// DecryptFile restores the plaintext of the file at path.
func DecryptFile(path string, key int) (int, error) {
	return RewriteFile(path, func(s string) (string, error) {
		return cipher.Decode(s, key)
	})
}

// RekeyFile re-encodes the file at path from one key to another.
func RekeyFile(path string, from, to int) (int, error) {
	return RewriteFile(path, func(s string) (string, error) {
		plain, err := cipher.Decode(s, from)
		if err != nil {
			return "", err
		}
		return cipher.Encode(plain, to)
	})
}

func countLines(s string) int {
	if s == "" {
		return 0
	}
	n := strings.Count(s, "\n")
	if !strings.HasSuffix(s, "\n") {
		n++
	}
	return n
}
